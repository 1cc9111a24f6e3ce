package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category/model"
	"blog-backend/internal/shared/authz"
)

type ServiceInterface interface {
	// Create requires a staff principal.
	Create(ctx context.Context, p *authz.Principal, req model.CreateCategoryRequest) (*model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	// Delete requires a staff principal and an unreferenced category.
	Delete(ctx context.Context, p *authz.Principal, id uuid.UUID) error
}
