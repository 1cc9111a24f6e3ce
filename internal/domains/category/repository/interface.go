package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category/model"
)

// Repository defines data access for categories
type Repository interface {
	Create(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// List returns every category ordered by name.
	List(ctx context.Context) ([]model.Category, error)
	// Delete fails with ErrCategoryInUse while posts reference the category.
	Delete(ctx context.Context, id uuid.UUID) error
}
