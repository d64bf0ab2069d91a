package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsPublic  bool      `gorm:"not null;default:true" json:"isPublic"`
	PostID    string    `gorm:"column:post_id;type:char(36);not null;index" json:"postId"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment builds a comment on postID owned by userID.
func NewComment(userID, postID string, req CommentRequest) *Comment {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return &Comment{
		ID:       uuid.New().String(),
		Content:  req.Content,
		IsPublic: isPublic,
		PostID:   postID,
		UserID:   userID,
	}
}

// OwnerID returns the ID of the user owning the comment.
func (c *Comment) OwnerID() string { return c.UserID }

// CommentRequest is the create/update request body for a comment.
type CommentRequest struct {
	Content  string `json:"content"`
	IsPublic *bool  `json:"isPublic"`
}

// CommentAuthor is the minimal author info embedded in comment responses.
type CommentAuthor struct {
	UserName string `json:"userName"`
}

// CommentResponse is a comment enriched with reaction counts and author info.
type CommentResponse struct {
	ID           string        `json:"id"`
	Content      string        `json:"content"`
	IsPublic     bool          `json:"isPublic"`
	PostID       string        `json:"postId"`
	UserID       string        `json:"userId"`
	CountLike    int64         `json:"countLike"`
	CountDislike int64         `json:"countDislike"`
	User         CommentAuthor `json:"user"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// ToResponse converts the comment to its response shape.
func (c *Comment) ToResponse(countLike, countDislike int64, userName string) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		Content:      c.Content,
		IsPublic:     c.IsPublic,
		PostID:       c.PostID,
		UserID:       c.UserID,
		CountLike:    countLike,
		CountDislike: countDislike,
		User:         CommentAuthor{UserName: userName},
		CreatedAt:    c.CreatedAt,
	}
}

// CommentListItem is one entry of a comment page.
type CommentListItem struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	IsPublic bool          `json:"isPublic"`
	User     CommentAuthor `json:"user"`
}

// Pagination describes one page of a listing. NextPage and PreviousPage are
// null at the respective boundaries.
type Pagination struct {
	TotalPages   int  `json:"totalPages"`
	ItemsPerPage int  `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	CurrentPage  int  `json:"currentPage"`
	NextPage     *int `json:"nextPage"`
	PreviousPage *int `json:"previousPage"`
}

// CommentListResponse is one page of comments plus its pagination block.
type CommentListResponse struct {
	Comments   []CommentListItem `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}
