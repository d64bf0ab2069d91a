package repository

import (
	"context"
	"errors"
	"fmt"

	"postline/model"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

// gormPostRepository implements PostRepository on GORM.
type gormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new gormPostRepository.
func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

// Create adds a new post to the database.
func (r *gormPostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if translated := translateMySQLError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID. Returns (nil, nil) when absent.
func (r *gormPostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query post %s: %w", id, err)
	}
	return &post, nil
}

// Update persists the full post row.
func (r *gormPostRepository) Update(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post %s: %w", post.ID, err)
	}
	return nil
}

// Delete removes a post row.
func (r *gormPostRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Post{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}
