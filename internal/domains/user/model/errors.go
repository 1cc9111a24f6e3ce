package model

import (
	"errors"

	"blog-backend/internal/shared/apperror"
)

// Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenNotFound      = errors.New("token not found")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrMissingFields      = errors.New("missing required fields")
)

// Error constructors
func NewMissingFieldsError() *apperror.AppError {
	return apperror.Validation("All fields are required.", ErrMissingFields)
}

func NewPasswordMismatchError() *apperror.AppError {
	return apperror.ValidationFields("Passwords do not match.",
		map[string]string{"confirm_password": "passwords do not match"}, ErrPasswordMismatch)
}

func NewUsernameTakenError() *apperror.AppError {
	return apperror.Conflict("Username is already taken.", ErrUsernameTaken)
}

func NewInvalidCredentialsError() *apperror.AppError {
	return apperror.AuthenticationFailed("Invalid credentials.", ErrInvalidCredentials)
}

func NewNotLoggedInError() *apperror.AppError {
	return apperror.NotAuthenticated("You are not logged in.", ErrNotLoggedIn)
}
