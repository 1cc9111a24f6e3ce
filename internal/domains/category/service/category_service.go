package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category/model"
	"blog-backend/internal/domains/category/repository"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/authz"
	"blog-backend/pkg/logger"
)

type categoryService struct {
	repo repository.Repository
}

func NewCategoryService(repo repository.Repository) ServiceInterface {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, p *authz.Principal, req model.CreateCategoryRequest) (*model.Category, error) {
	if err := authz.Authorize(p, authz.ManageCategories, nil); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c := &model.Category{ID: uuid.New(), Name: req.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapError(err)
	}

	logger.Info("category created", map[string]interface{}{
		"category_id": c.ID.String(),
		"name":        c.Name,
		"by":          p.ID.String(),
	})
	return c, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return categories, nil
}

func (s *categoryService) Delete(ctx context.Context, p *authz.Principal, id uuid.UUID) error {
	if err := authz.Authorize(p, authz.ManageCategories, nil); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	logger.Info("category deleted", map[string]interface{}{
		"category_id": id.String(),
		"by":          p.ID.String(),
	})
	return nil
}

// mapError converts repository sentinels into API errors
func mapError(err error) error {
	switch {
	case errors.Is(err, model.ErrCategoryNotFound):
		return model.NewCategoryNotFoundError()
	case errors.Is(err, model.ErrCategoryNameTaken):
		return model.NewCategoryNameTakenError()
	case errors.Is(err, model.ErrCategoryInUse):
		return model.NewCategoryInUseError()
	default:
		return apperror.Internal(err)
	}
}
