package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindConflict         Kind = "CONFLICT"
	KindAuthentication   Kind = "AUTHENTICATION_FAILED"
	KindAuthRequired     Kind = "AUTHENTICATION_REQUIRED"
	KindPermission       Kind = "PERMISSION_DENIED"
	KindNotAuthenticated Kind = "NOT_AUTHENTICATED"
	KindNotFound         Kind = "NOT_FOUND"
	KindInternal         Kind = "INTERNAL_ERROR"
)

var kindStatus = map[Kind]int{
	KindValidation:       http.StatusBadRequest,
	KindConflict:         http.StatusBadRequest,
	KindAuthentication:   http.StatusUnauthorized,
	KindAuthRequired:     http.StatusUnauthorized,
	KindPermission:       http.StatusForbidden,
	KindNotAuthenticated: http.StatusBadRequest,
	KindNotFound:         http.StatusNotFound,
	KindInternal:         http.StatusInternalServerError,
}

// AppError là structured error đi qua các layer tới handler
type AppError struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages, if any.
	Fields map[string]string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the kind to an HTTP status code.
func (e *AppError) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: cause}
}

func Validation(message string, cause error) *AppError {
	return New(KindValidation, message, cause)
}

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(message string, fields map[string]string, cause error) *AppError {
	e := New(KindValidation, message, cause)
	e.Fields = fields
	return e
}

func Conflict(message string, cause error) *AppError {
	return New(KindConflict, message, cause)
}

func AuthenticationFailed(message string, cause error) *AppError {
	return New(KindAuthentication, message, cause)
}

func AuthenticationRequired() *AppError {
	return New(KindAuthRequired, "authentication credentials were not provided", nil)
}

func Permission(message string, cause error) *AppError {
	return New(KindPermission, message, cause)
}

func NotAuthenticated(message string, cause error) *AppError {
	return New(KindNotAuthenticated, message, cause)
}

func NotFound(message string, cause error) *AppError {
	return New(KindNotFound, message, cause)
}

func Internal(cause error) *AppError {
	return New(KindInternal, "internal server error", cause)
}

// As extracts an *AppError if present.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr := As(err)
	return appErr != nil && appErr.Kind == kind
}

// FromValidation converts an ozzo-validation result into a VALIDATION_ERROR
// carrying one message per field. Nil stays nil.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	if appErr := As(err); appErr != nil {
		return appErr
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return Internal(err)
		}
		return Validation(err.Error(), err)
	}

	fields := make(map[string]string, len(verrs))
	keys := make([]string, 0, len(verrs))
	for field, fieldErr := range verrs {
		if fieldErr == nil {
			continue
		}
		fields[field] = fieldErr.Error()
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return ValidationFields(strings.Join(parts, "; ")+".", fields, err)
}
