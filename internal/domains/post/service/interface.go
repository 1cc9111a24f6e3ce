package service

import (
	"context"

	"github.com/google/uuid"

	categorymodel "blog-backend/internal/domains/category/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/authz"
	"blog-backend/internal/shared/pagination"
)

// ListResult is one page of posts.
type ListResult struct {
	Items  []model.PostResponse
	Params pagination.Params
	Total  int
}

// CategoryLookup is the part of the category service posts depend on.
type CategoryLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*categorymodel.Category, error)
}

type ServiceInterface interface {
	// List returns published posts only.
	List(ctx context.Context, p *authz.Principal, q model.ListQuery) (*ListResult, error)
	ListByCategory(ctx context.Context, p *authz.Principal, categoryID uuid.UUID, page string) (*ListResult, error)
	Get(ctx context.Context, p *authz.Principal, slug string) (*model.PostResponse, error)
	Create(ctx context.Context, p *authz.Principal, req model.CreatePostRequest) (*model.PostResponse, error)
	Update(ctx context.Context, p *authz.Principal, slug string, req model.UpdatePostRequest) (*model.PostResponse, error)
	// Delete checks ownership before the confirmation flag.
	Delete(ctx context.Context, p *authz.Principal, slug string, req model.DeletePostRequest) error
	Like(ctx context.Context, p *authz.Principal, slug string) (*model.PostResponse, error)
	Unlike(ctx context.Context, p *authz.Principal, slug string) (*model.PostResponse, error)
}
