package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"postline/apperr"
	"postline/core/auth"
	"postline/core/feed"
	"postline/logger"
	"postline/mail"
	"postline/model"
	"postline/repository"
	"postline/storage"
)

// RegisterResponse is the payload returned after a successful signup: the
// fresh profile plus an already-open session.
type RegisterResponse struct {
	User  model.ProfileResponse `json:"user"`
	Token model.AccessToken     `json:"token"`
}

// UserService owns account registration and profile maintenance.
type UserService struct {
	users      repository.UserRepository
	auth       *AuthService
	mailer     mail.Mailer
	feed       feed.Publisher
	avatars    *storage.AvatarStore // optional, nil disables avatar upload
	confirmURL string
}

// NewUserService creates a UserService. confirmURL is the externally
// reachable confirmation endpoint the email links to.
func NewUserService(users repository.UserRepository, authService *AuthService, mailer mail.Mailer, publisher feed.Publisher, avatars *storage.AvatarStore, confirmURL string) *UserService {
	return &UserService{
		users:      users,
		auth:       authService,
		mailer:     mailer,
		feed:       publisher,
		avatars:    avatars,
		confirmURL: confirmURL,
	}
}

// Create registers a new account and opens its first session. The
// confirmation email is best-effort: a mail failure is logged and the
// registration still succeeds.
func (s *UserService) Create(ctx context.Context, req model.RegisterRequest) (*RegisterResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Unprocessable("email already taken")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to hash password", err)
	}

	user := model.NewUser(req.Name, req.UserName, req.Email, hashed)
	if err := s.users.Create(ctx, user); err != nil {
		// Two registrations can race past the lookup above; the unique
		// index on email decides the winner.
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, apperr.Unprocessable("email already taken")
		}
		return nil, err
	}

	token, err := s.auth.CreateToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	access, err := s.auth.GenerateAccessToken(token.ID)
	if err != nil {
		return nil, err
	}

	s.sendConfirmationEmail(user)

	if s.feed != nil {
		s.feed.Publish(feed.Event{Type: feed.EventUserJoined, ActorID: user.ID})
	}

	logger.Info("User registered", logger.String("userId", user.ID))
	return &RegisterResponse{User: user.ToProfileResponse(), Token: access}, nil
}

func (s *UserService) sendConfirmationEmail(user *model.User) {
	confirmToken, err := s.auth.GenerateEmailConfirmationToken(user.ID)
	if err != nil {
		logger.Error("Failed to generate confirmation token", logger.ErrorField(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		body := fmt.Sprintf("Hi %s,\n\nConfirm your account: %s?token=%s\n", user.Name, s.confirmURL, confirmToken)
		if err := s.mailer.Send(ctx, user.Email, "Confirm your account", body); err != nil {
			logger.Error("Failed to send confirmation email",
				logger.String("userId", user.ID),
				logger.ErrorField(err))
		}
	}()
}

// GetProfile returns a user's own profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (model.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.ProfileResponse{}, err
	}
	if user == nil {
		return model.ProfileResponse{}, apperr.NotFound("User not found")
	}
	return user.ToProfileResponse(), nil
}

// Update applies a partial profile update. A nil field leaves the current
// value untouched.
func (s *UserService) Update(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.ProfileResponse{}, err
	}
	if user == nil {
		return model.ProfileResponse{}, apperr.NotFound("User not found")
	}

	if req.Email != nil && *req.Email != user.Email {
		other, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return model.ProfileResponse{}, err
		}
		if other != nil {
			return model.ProfileResponse{}, apperr.Unprocessable("email already exist")
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.UserName != nil {
		user.UserName = *req.UserName
	}
	if req.IsEmailPublic != nil {
		user.IsEmailPublic = *req.IsEmailPublic
	}
	if req.IsNamePublic != nil {
		user.IsNamePublic = *req.IsNamePublic
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return model.ProfileResponse{}, apperr.Unprocessable("email already exist")
		}
		return model.ProfileResponse{}, err
	}

	logger.Info("Profile updated", logger.String("userId", userID))
	return user.ToProfileResponse(), nil
}

// SetAvatar stores an avatar image and records its serve path.
func (s *UserService) SetAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error) {
	if s.avatars == nil {
		return "", apperr.Unprocessable("avatar storage is not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound("User not found")
	}

	servePath, err := s.avatars.Put(ctx, userID, r, size, contentType)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "failed to store avatar", err)
	}
	if err := s.users.UpdateAvatarPath(ctx, userID, servePath); err != nil {
		return "", err
	}

	logger.Info("Avatar updated", logger.String("userId", userID), logger.String("path", servePath))
	return servePath, nil
}
