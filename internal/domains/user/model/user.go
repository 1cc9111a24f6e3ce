package model

import (
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/shared/authz"
)

// User is a registered principal. Password is stored only as a bcrypt hash.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal converts an active user into the caller identity.
func (u *User) Principal() *authz.Principal {
	return &authz.Principal{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}

// Token is the single API token of a user.
type Token struct {
	Key       string    `json:"key"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
