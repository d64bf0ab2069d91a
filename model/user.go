package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleUser is the default non-privileged role assigned on registration.
const RoleUser = "U"

// User represents a registered account.
type User struct {
	ID            string     `gorm:"primaryKey;type:char(36)" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	UserName      string     `gorm:"column:user_name;not null" json:"userName"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	IsActive      bool       `gorm:"not null;default:false" json:"isActive"`
	IsEmailPublic bool       `gorm:"not null;default:false" json:"isEmailPublic"`
	IsNamePublic  bool       `gorm:"not null;default:true" json:"isNamePublic"`
	VerifiedAt    *time.Time `json:"verifiedAt"`
	Role          string     `gorm:"type:char(1);not null;default:'U'" json:"role"`
	AvatarPath    string     `gorm:"type:varchar(512);not null;default:''" json:"avatarPath,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewUser builds a user for registration. The password must already be hashed.
func NewUser(name, userName, email, hashedPassword string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		UserName:     userName,
		Email:        email,
		Password:     hashedPassword,
		IsNamePublic: true,
		Role:         RoleUser,
	}
}

// RegisterRequest is the signup request body.
type RegisterRequest struct {
	Name                 string `json:"name"`
	UserName             string `json:"userName"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// UpdateProfileRequest carries a partial profile update. Nil fields are
// left untouched.
type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	UserName      *string `json:"userName"`
	Email         *string `json:"email"`
	IsEmailPublic *bool   `json:"isEmailPublic"`
	IsNamePublic  *bool   `json:"isNamePublic"`
}

// ProfileResponse is the profile shape returned to the account owner.
type ProfileResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	UserName      string     `json:"userName"`
	Email         string     `json:"email"`
	IsActive      bool       `json:"isActive"`
	IsEmailPublic bool       `json:"isEmailPublic"`
	IsNamePublic  bool       `json:"isNamePublic"`
	VerifiedAt    *time.Time `json:"verifiedAt"`
	Role          string     `json:"role"`
	AvatarPath    string     `json:"avatarPath,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ToProfileResponse converts the user to its profile shape.
func (u *User) ToProfileResponse() ProfileResponse {
	return ProfileResponse{
		ID:            u.ID,
		Name:          u.Name,
		UserName:      u.UserName,
		Email:         u.Email,
		IsActive:      u.IsActive,
		IsEmailPublic: u.IsEmailPublic,
		IsNamePublic:  u.IsNamePublic,
		VerifiedAt:    u.VerifiedAt,
		Role:          u.Role,
		AvatarPath:    u.AvatarPath,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
