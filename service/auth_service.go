package service

import (
	"context"
	"errors"
	"time"

	"postline/apperr"
	"postline/cache"
	"postline/core/auth"
	"postline/logger"
	"postline/model"
	"postline/repository"
)

// AuthService owns the session-token and email-confirmation lifecycle.
type AuthService struct {
	tokens   repository.TokenRepository
	users    repository.UserRepository
	jwt      *auth.JWTManager
	sessions *cache.SessionCache // optional, nil disables caching
}

// NewAuthService creates an AuthService.
func NewAuthService(tokens repository.TokenRepository, users repository.UserRepository, jwt *auth.JWTManager, sessions *cache.SessionCache) *AuthService {
	return &AuthService{
		tokens:   tokens,
		users:    users,
		jwt:      jwt,
		sessions: sessions,
	}
}

// CreateToken inserts a session-token row for userID.
func (s *AuthService) CreateToken(ctx context.Context, userID string) (*model.Token, error) {
	token := model.NewToken(userID)
	if err := s.tokens.Create(ctx, token); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	if err := s.sessions.MarkActive(ctx, token.ID, userID); err != nil {
		// Cache failures never fail the session; the row is the truth.
		logger.Warn("Failed to cache new session", logger.ErrorField(err))
	}
	return token, nil
}

// GenerateAccessToken produces a signed credential bound to a session token.
func (s *AuthService) GenerateAccessToken(tokenID string) (model.AccessToken, error) {
	signed, exp, err := s.jwt.GenerateAccessToken(tokenID)
	if err != nil {
		return model.AccessToken{}, apperr.Wrap(apperr.CodeInternal, "failed to generate access token", err)
	}
	return model.AccessToken{AccessToken: signed, Exp: exp}, nil
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AccessToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return model.AccessToken{}, err
	}
	if user == nil {
		logger.Warn("Login attempt for unknown email", logger.String("email", email))
		return model.AccessToken{}, apperr.Unauthorized("User doesn't exist")
	}

	if !auth.VerifyPassword(password, user.Password) {
		logger.Warn("Login password mismatch", logger.String("userId", user.ID))
		return model.AccessToken{}, apperr.Unauthorized("Password incorrect")
	}

	token, err := s.CreateToken(ctx, user.ID)
	if err != nil {
		return model.AccessToken{}, err
	}

	logger.Info("User logged in", logger.String("userId", user.ID))
	return s.GenerateAccessToken(token.ID)
}

// Logout revokes the session behind a signed credential. A credential whose
// session row is already gone is rejected, but the row deletion itself is
// no-op-safe so concurrent logouts cannot fail on the delete.
func (s *AuthService) Logout(ctx context.Context, signedCredential string) error {
	tokenID, err := s.jwt.ParseAccessToken(signedCredential)
	if err != nil {
		return apperr.Unauthorized("invalid token")
	}

	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if token == nil {
		return apperr.Unauthorized("invalid token")
	}

	if err := s.sessions.Invalidate(ctx, tokenID); err != nil {
		logger.Warn("Failed to invalidate session cache", logger.ErrorField(err))
	}
	if err := s.tokens.Delete(ctx, tokenID); err != nil {
		return err
	}

	logger.Info("Session revoked", logger.String("tokenId", tokenID))
	return nil
}

// ValidateSession verifies a signed credential and resolves the user behind
// it. The session row's existence is the source of truth: a syntactically
// valid credential whose row was deleted is rejected.
func (s *AuthService) ValidateSession(ctx context.Context, signedCredential string) (userID, tokenID string, err error) {
	tokenID, err = s.jwt.ParseAccessToken(signedCredential)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid token")
	}

	if cachedUserID, ok, cacheErr := s.sessions.Lookup(ctx, tokenID); cacheErr != nil {
		logger.Warn("Session cache lookup failed", logger.ErrorField(cacheErr))
	} else if ok {
		return cachedUserID, tokenID, nil
	}

	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return "", "", err
	}
	if token == nil {
		return "", "", apperr.Unauthorized("invalid token")
	}

	if err := s.sessions.MarkActive(ctx, tokenID, token.UserID); err != nil {
		logger.Warn("Failed to cache session", logger.ErrorField(err))
	}
	return token.UserID, tokenID, nil
}

// GenerateEmailConfirmationToken signs a short-lived credential with
// subject=userID.
func (s *AuthService) GenerateEmailConfirmationToken(userID string) (string, error) {
	signed, _, err := s.jwt.GenerateConfirmationToken(userID)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "failed to generate confirmation token", err)
	}
	return signed, nil
}

// ConfirmAccount verifies a confirmation credential and activates the
// referenced user. The transition is one-way: a second confirmation fails.
func (s *AuthService) ConfirmAccount(ctx context.Context, signedCredential string) error {
	userID, err := s.jwt.ParseConfirmationToken(signedCredential)
	if err != nil {
		return apperr.Unprocessable("Invalid Token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	if user.VerifiedAt != nil {
		return apperr.Unprocessable("Account already confirmed")
	}

	now := time.Now()
	user.VerifiedAt = &now
	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	logger.Info("Account confirmed", logger.String("userId", userID))
	return nil
}
