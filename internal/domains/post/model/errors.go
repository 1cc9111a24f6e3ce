package model

import (
	"errors"

	"blog-backend/internal/shared/apperror"
)

// Errors
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrSlugTaken        = errors.New("slug already exists")
	ErrCategoryNotFound = errors.New("category does not exist")
	ErrNotPostOwner     = errors.New("not the post author")
	ErrDeleteNotConfirm = errors.New("delete not confirmed")
)

func NewPostNotFoundError() *apperror.AppError {
	return apperror.NotFound("Post not found.", ErrPostNotFound)
}

func NewNotPostOwnerError(action string) *apperror.AppError {
	return apperror.Permission("You can only "+action+" your own posts.", ErrNotPostOwner)
}

func NewInvalidCategoryError() *apperror.AppError {
	return apperror.ValidationFields("Invalid category.",
		map[string]string{"category_id": "category does not exist"}, ErrCategoryNotFound)
}

func NewDeleteNotConfirmedError() *apperror.AppError {
	return apperror.ValidationFields("Deletion must be confirmed with confirm_delete: true.",
		map[string]string{"confirm_delete": "must be true"}, ErrDeleteNotConfirm)
}
