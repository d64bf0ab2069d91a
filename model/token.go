package model

import (
	"time"

	"github.com/google/uuid"
)

// Token is a server-side session record. Its existence authorizes the bearer
// credential carrying its ID as subject; logout revokes by deletion.
type Token struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewToken builds a session token row for userID.
func NewToken(userID string) *Token {
	return &Token{
		ID:     uuid.New().String(),
		UserID: userID,
	}
}

// AccessToken is the signed credential returned to clients.
type AccessToken struct {
	AccessToken string `json:"accessToken"`
	Exp         int64  `json:"exp"`
}
