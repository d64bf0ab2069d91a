package model

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a user post.
type Post struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsPublic  bool      `gorm:"not null;default:true" json:"isPublic"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPost builds a post owned by userID.
func NewPost(userID string, req PostRequest) *Post {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return &Post{
		ID:       uuid.New().String(),
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: isPublic,
		UserID:   userID,
	}
}

// OwnerID returns the ID of the user owning the post.
func (p *Post) OwnerID() string { return p.UserID }

// PostRequest is the create/update request body for a post.
type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPublic *bool  `json:"isPublic"`
}

// PostResponse is a post enriched with its reaction counts.
type PostResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsPublic     bool      `json:"isPublic"`
	UserID       string    `json:"userId"`
	CountLike    int64     `json:"countLike"`
	CountDislike int64     `json:"countDislike"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToResponse converts the post to its response shape.
func (p *Post) ToResponse(countLike, countDislike int64) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		IsPublic:     p.IsPublic,
		UserID:       p.UserID,
		CountLike:    countLike,
		CountDislike: countDislike,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
