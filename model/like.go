package model

import (
	"time"

	"github.com/google/uuid"
)

// Like target types.
const (
	LikeTypePost    = "P"
	LikeTypeComment = "C"
)

// Like records one user's reaction to a post or comment. The combination of
// (Type, LikeItemID, UserID) is unique: repeated reactions update the Like
// flag in place instead of inserting a second row.
type Like struct {
	ID         string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Type       string    `gorm:"type:char(1);not null;uniqueIndex:uq_likes_target_user" json:"type"`
	LikeItemID string    `gorm:"column:like_item_id;type:char(36);not null;uniqueIndex:uq_likes_target_user" json:"likeItemId"`
	UserID     string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:uq_likes_target_user" json:"userId"`
	Like       bool      `gorm:"column:like;not null" json:"like"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewLike builds a reaction row.
func NewLike(likeType, userID, likeItemID string, like bool) *Like {
	return &Like{
		ID:         uuid.New().String(),
		Type:       likeType,
		LikeItemID: likeItemID,
		UserID:     userID,
		Like:       like,
	}
}

// LikeRequest is the like/dislike request body.
type LikeRequest struct {
	Like bool `json:"like"`
}
