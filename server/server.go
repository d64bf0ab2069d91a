package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postline/cache"
	"postline/config"
	"postline/core/auth"
	"postline/core/feed"
	"postline/db"
	"postline/logger"
	"postline/mail"
	"postline/repository"
	"postline/service"
	"postline/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	if err := config.WatchEnvFile(".env", stopWatch); err != nil {
		logger.Warn("Env file watcher not started", logger.ErrorField(err))
	}

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Redis is optional; without it every session check hits MySQL.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, session caching disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		logger.Info("Connected to Redis")
	}

	// Avatar storage is optional.
	var avatars *storage.AvatarStore
	if cfg.MinioEndpoint != "" {
		store, err := storage.NewAvatarStore(cfg)
		if err != nil {
			logger.Warn("MinIO unavailable, avatar upload disabled", logger.ErrorField(err))
		} else {
			avatars = store
		}
	}

	var mailer mail.Mailer = mail.NoopMailer{}
	if cfg.MailAPIURL != "" {
		mailer = mail.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailSenderEmail)
	} else {
		logger.Warn("No mail provider configured, confirmation emails are dropped")
	}

	userRepo := repository.NewGormUserRepository(db.GormDB)
	postRepo := repository.NewGormPostRepository(db.GormDB)
	commentRepo := repository.NewGormCommentRepository(db.GormDB)
	likeRepo := repository.NewGormLikeRepository(db.GormDB)
	tokenRepo := repository.NewGormTokenRepository(db.GormDB)

	jwtManager := auth.NewJWTManager(
		cfg.JWTSecret, cfg.JWTExpirationTime,
		cfg.JWTConfirmSecret, cfg.JWTConfirmExpirationTime,
	)
	sessions := cache.NewSessionCache(db.RedisClient, time.Duration(cfg.JWTExpirationTime)*time.Second)

	hub := feed.NewHub()

	authService := service.NewAuthService(tokenRepo, userRepo, jwtManager, sessions)
	likeService := service.NewLikeService(likeRepo, postRepo, commentRepo, hub)
	userService := service.NewUserService(userRepo, authService, mailer, hub, avatars,
		cfg.PublicBaseURL+"/api/auth/confirmAccount")
	postService := service.NewPostService(postRepo, likeService, hub)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, likeService, hub)

	apiHandler := NewAPIHandler(authService, userService, postService, commentService, hub)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth endpoints
	router.HandleFunc("/api/auth/signup", apiHandler.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/confirmAccount", apiHandler.ConfirmAccountHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/profile", apiHandler.AuthMiddleware(apiHandler.ProfileHandler)).Methods(http.MethodGet, http.MethodPatch)
	router.HandleFunc("/api/auth/profile/avatar", apiHandler.AuthMiddleware(apiHandler.UploadAvatarHandler)).Methods(http.MethodPost)

	// Post endpoints
	router.HandleFunc("/api/post", apiHandler.AuthMiddleware(apiHandler.CreatePostHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/post/{id}", apiHandler.GetPostHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/post/{id}", apiHandler.AuthMiddleware(apiHandler.UpdatePostHandler)).Methods(http.MethodPatch)
	router.HandleFunc("/api/post/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePostHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/post/{id}/like", apiHandler.AuthMiddleware(apiHandler.PostLikeHandler)).Methods(http.MethodPatch, http.MethodDelete)

	// Comment endpoints
	router.HandleFunc("/api/post/{id}/comments", apiHandler.CommentsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/post/{id}/comments", apiHandler.AuthMiddleware(apiHandler.CommentsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/post/{id}/comments/{commentId}", apiHandler.CommentHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/post/{id}/comments/{commentId}", apiHandler.AuthMiddleware(apiHandler.CommentHandler)).Methods(http.MethodPatch, http.MethodDelete)
	router.HandleFunc("/api/post/{id}/comments/{commentId}/like", apiHandler.AuthMiddleware(apiHandler.CommentLikeHandler)).Methods(http.MethodPatch, http.MethodDelete)

	// Activity feed
	router.HandleFunc("/api/feed/ws", apiHandler.FeedWSHandler).Methods(http.MethodGet)

	// Avatar serving from MinIO
	if avatars != nil {
		router.PathPrefix("/static/avatars/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			defer cancel()

			object, err := avatars.Open(ctx, r.URL.Path)
			if err != nil {
				http.Error(w, "File not found", http.StatusNotFound)
				return
			}
			defer object.Close()

			w.Header().Set("Cache-Control", "public, max-age=86400")
			if _, err := io.Copy(w, object); err != nil {
				logger.Error("Error serving avatar", logger.ErrorField(err))
			}
		})
	}

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
