package model

import (
	"errors"

	"blog-backend/internal/shared/apperror"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the comment author")
	// ErrPostNotFound: the parent post vanished between lookup and insert
	ErrPostNotFound = errors.New("post not found")
)

func NewCommentNotFoundError() *apperror.AppError {
	return apperror.NotFound("Comment not found.", ErrCommentNotFound)
}

func NewNotCommentOwnerError(action string) *apperror.AppError {
	return apperror.Permission("You can only "+action+" your own comments.", ErrNotCommentOwner)
}

func NewPostNotFoundError() *apperror.AppError {
	return apperror.NotFound("Post not found.", ErrPostNotFound)
}
