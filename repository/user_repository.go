package repository

import (
	"context"
	"errors"
	"fmt"

	"postline/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateAvatarPath(ctx context.Context, id, avatarPath string) error
}

// gormUserRepository implements UserRepository on GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new gormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create adds a new user to the database.
func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if translated := translateMySQLError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when absent.
func (r *gormUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address. Returns (nil, nil) when absent.
func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by email %s: %w", email, err)
	}
	return &user, nil
}

// Update persists the full user row.
func (r *gormUserRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if translated := translateMySQLError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// UpdateAvatarPath sets the user's avatar path.
func (r *gormUserRepository) UpdateAvatarPath(ctx context.Context, id, avatarPath string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("avatar_path", avatarPath).Error
	if err != nil {
		return fmt.Errorf("failed to update avatar path for user %s: %w", id, err)
	}
	return nil
}
