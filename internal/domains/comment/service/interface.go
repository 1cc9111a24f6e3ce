package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/shared/authz"
)

// PostLookup is the slice of the post store comments depend on.
type PostLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Notifier is told about new comments. Failures never fail the request.
type Notifier interface {
	NotifyComment(ctx context.Context, commentID, postID uuid.UUID) error
}

// ServiceInterface defines business operations for comments
type ServiceInterface interface {
	ListByPost(ctx context.Context, p *authz.Principal, postID uuid.UUID) ([]model.CommentResponse, error)
	Create(ctx context.Context, p *authz.Principal, postID uuid.UUID, req model.CommentRequest) (*model.CommentResponse, error)
	Get(ctx context.Context, p *authz.Principal, id uuid.UUID) (*model.CommentResponse, error)
	Update(ctx context.Context, p *authz.Principal, id uuid.UUID, req model.CommentRequest) (*model.CommentResponse, error)
	Delete(ctx context.Context, p *authz.Principal, id uuid.UUID) error
}
