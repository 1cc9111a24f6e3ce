package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
)

// Repository defines data access for posts and the like relation.
type Repository interface {
	// Create fails with ErrSlugTaken or ErrCategoryNotFound.
	Create(ctx context.Context, p *model.Post) error
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	// List orders by created_at DESC.
	List(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Post, error)
	// Update writes title, content, status and category. Slug and author are immutable.
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Like and Unlike are idempotent.
	Like(ctx context.Context, postID, userID uuid.UUID) error
	Unlike(ctx context.Context, postID, userID uuid.UUID) error
	// LikedBy batch-loads likers per post, oldest like first.
	LikedBy(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]usermodel.UserSummary, error)
}
