package repository

import (
	"context"
	"errors"
	"fmt"

	"postline/model"

	"gorm.io/gorm"
)

// TokenRepository defines the interface for session-token data operations.
// A token row's existence is the source of truth for session validity.
type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	GetByID(ctx context.Context, id string) (*model.Token, error)
	Delete(ctx context.Context, id string) error
}

// gormTokenRepository implements TokenRepository on GORM.
type gormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new gormTokenRepository.
func NewGormTokenRepository(db *gorm.DB) TokenRepository {
	return &gormTokenRepository{db: db}
}

// Create inserts a session-token row.
func (r *gormTokenRepository) Create(ctx context.Context, token *model.Token) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if translated := translateMySQLError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// GetByID retrieves a session-token row. Returns (nil, nil) when absent.
func (r *gormTokenRepository) GetByID(ctx context.Context, id string) (*model.Token, error) {
	var token model.Token
	err := r.db.WithContext(ctx).First(&token, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query token %s: %w", id, err)
	}
	return &token, nil
}

// Delete removes a session-token row. Deleting a row that is already gone is
// a no-op: the end state (no active session) is reached either way.
func (r *gormTokenRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Token{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete token %s: %w", id, err)
	}
	return nil
}
