package repository

import (
	"context"
	"fmt"

	"postline/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for reaction data operations.
type LikeRepository interface {
	Upsert(ctx context.Context, like *model.Like) error
	CountByTarget(ctx context.Context, likeType, likeItemID string, like bool) (int64, error)
	DeleteByTargetAndUser(ctx context.Context, likeType, likeItemID, userID string) error
	DeleteAllForTarget(ctx context.Context, likeType, likeItemID string) error
}

// gormLikeRepository implements LikeRepository on GORM.
type gormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new gormLikeRepository.
func NewGormLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

// Upsert inserts the reaction row or, when the (type, like_item_id, user_id)
// unique key already holds a row, flips its boolean in place. The write rides
// the constraint (INSERT ... ON DUPLICATE KEY UPDATE), so concurrent
// reactions from the same user can never produce duplicate rows.
func (r *gormLikeRepository) Upsert(ctx context.Context, like *model.Like) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "type"},
			{Name: "like_item_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"like"}),
	}).Create(like).Error
	if err != nil {
		if translated := translateMySQLError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to upsert like: %w", err)
	}
	return nil
}

// CountByTarget counts reactions with the given boolean for one target.
func (r *gormLikeRepository) CountByTarget(ctx context.Context, likeType, likeItemID string, like bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where(map[string]interface{}{
			"type":         likeType,
			"like_item_id": likeItemID,
			"like":         like,
		}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes for %s %s: %w", likeType, likeItemID, err)
	}
	return count, nil
}

// DeleteByTargetAndUser removes one user's reaction to a target. Deleting a
// reaction that does not exist is a no-op.
func (r *gormLikeRepository) DeleteByTargetAndUser(ctx context.Context, likeType, likeItemID, userID string) error {
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{
			"type":         likeType,
			"like_item_id": likeItemID,
			"user_id":      userID,
		}).
		Delete(&model.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete like for %s %s: %w", likeType, likeItemID, err)
	}
	return nil
}

// DeleteAllForTarget removes every reaction to a target. Called when the
// target itself is deleted.
func (r *gormLikeRepository) DeleteAllForTarget(ctx context.Context, likeType, likeItemID string) error {
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{
			"type":         likeType,
			"like_item_id": likeItemID,
		}).
		Delete(&model.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete likes for %s %s: %w", likeType, likeItemID, err)
	}
	return nil
}
