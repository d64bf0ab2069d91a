package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"postline/apperr"
	"postline/core/feed"
	"postline/logger"
	"postline/service"
)

// APIHandler handles all API requests.
type APIHandler struct {
	authService    *service.AuthService
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	feedHub        *feed.Hub
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	authService *service.AuthService,
	userService *service.UserService,
	postService *service.PostService,
	commentService *service.CommentService,
	feedHub *feed.Hub,
) *APIHandler {
	return &APIHandler{
		authService:    authService,
		userService:    userService,
		postService:    postService,
		commentService: commentService,
		feedHub:        feedHub,
	}
}

type contextKey string

const (
	contextKeyUserID  contextKey = "userID"
	contextKeyTokenID contextKey = "tokenID"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", logger.ErrorField(err))
		}
	}
}

// writeError maps a domain error to its HTTP status and writes it as JSON.
// Unclassified errors become a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	if appErr := apperr.FromError(err); appErr != nil {
		status := appErr.HTTPStatus()
		if status == http.StatusInternalServerError {
			logger.Error("Internal error", logger.ErrorField(err))
			writeJSON(w, status, map[string]string{"message": "Internal server error"})
			return
		}
		writeJSON(w, status, map[string]string{"message": appErr.Message})
		return
	}

	logger.Error("Unhandled error", logger.ErrorField(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return parts[1], nil
}

// AuthMiddleware checks the bearer credential and resolves its session. The
// resolved user and session-token IDs are stored on the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signed, err := bearerToken(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
			return
		}

		userID, tokenID, err := h.authService.ValidateSession(r.Context(), signed)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		ctx = context.WithValue(ctx, contextKeyTokenID, tokenID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
