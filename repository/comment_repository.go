package repository

import (
	"context"
	"errors"
	"fmt"

	"postline/model"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
	CountByPost(ctx context.Context, postID string) (int64, error)
	ListPageWithAuthor(ctx context.Context, postID string, offset, limit int) ([]model.CommentListItem, error)
}

// gormCommentRepository implements CommentRepository on GORM.
type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new gormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

// Create adds a new comment to the database.
func (r *gormCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		if translated := translateMySQLError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID. Returns (nil, nil) when absent.
func (r *gormCommentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query comment %s: %w", id, err)
	}
	return &comment, nil
}

// Update persists the full comment row.
func (r *gormCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return fmt.Errorf("failed to update comment %s: %w", comment.ID, err)
	}
	return nil
}

// Delete removes a comment row.
func (r *gormCommentRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
	}
	return nil
}

// CountByPost counts the comments on a post.
func (r *gormCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count comments for post %s: %w", postID, err)
	}
	return count, nil
}

type commentPageRow struct {
	ID       string
	Content  string
	IsPublic bool
	UserName string
}

// ListPageWithAuthor returns one page of a post's comments in insertion
// order, each joined with its author's userName.
func (r *gormCommentRepository) ListPageWithAuthor(ctx context.Context, postID string, offset, limit int) ([]model.CommentListItem, error) {
	var rows []commentPageRow
	err := r.db.WithContext(ctx).Table("comments").
		Select("comments.id, comments.content, comments.is_public, users.user_name").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %s: %w", postID, err)
	}

	items := make([]model.CommentListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, model.CommentListItem{
			ID:       row.ID,
			Content:  row.Content,
			IsPublic: row.IsPublic,
			User:     model.CommentAuthor{UserName: row.UserName},
		})
	}
	return items, nil
}
