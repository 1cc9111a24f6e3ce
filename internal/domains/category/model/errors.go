package model

import (
	"errors"

	"blog-backend/internal/shared/apperror"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	// ErrCategoryInUse: posts still reference the category
	ErrCategoryInUse = errors.New("category is referenced by posts")
)

func NewCategoryNotFoundError() *apperror.AppError {
	return apperror.NotFound("Category not found.", ErrCategoryNotFound)
}

func NewCategoryNameTakenError() *apperror.AppError {
	return apperror.Conflict("Category with this name already exists.", ErrCategoryNameTaken)
}

func NewCategoryInUseError() *apperror.AppError {
	return apperror.Conflict("Category is used by existing posts and cannot be deleted.", ErrCategoryInUse)
}
