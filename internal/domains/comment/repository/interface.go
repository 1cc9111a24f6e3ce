package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
)

// Repository defines data access for comments. Reads always join the author.
type Repository interface {
	// Create fails with ErrPostNotFound when the parent post does not exist.
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	// ListByPost returns the comments of one post, oldest first.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	// ListByPosts batch-loads comments for a page of posts.
	ListByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]model.Comment, error)
	UpdateContent(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
