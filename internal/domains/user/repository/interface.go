package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/user/model"
)

// UserRepository persists principals.
type UserRepository interface {
	// CreateWithToken inserts the user and its token in one transaction.
	// Returns model.ErrUsernameTaken on a duplicate username.
	CreateWithToken(ctx context.Context, user *model.User, tokenKey string) (string, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// TokenRepository persists API tokens, at most one per user.
type TokenRepository interface {
	// GetOrCreate atomically returns the user's existing key, or stores candidateKey.
	GetOrCreate(ctx context.Context, userID uuid.UUID, candidateKey string) (string, error)

	// GetUserByKey returns the owner of key, or model.ErrTokenNotFound.
	GetUserByKey(ctx context.Context, key string) (*model.User, error)

	// DeleteByUserID reports whether a token existed.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
}
