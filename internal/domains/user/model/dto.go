package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ========================================
// AUTH DTOs
// ========================================

// RegisterRequest accepts JSON or form bodies.
type RegisterRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// MissingFields reports whether any required field is blank.
func (r RegisterRequest) MissingFields() bool {
	return r.Username == "" || r.Email == "" || r.Password == ""
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(1, 150),
			validation.Match(usernamePattern).Error("may contain only letters, numbers, and @/./+/-/_ characters"),
		),
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(3, 254),
			is.EmailFormat.Error("enter a valid email address"),
		),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 128)),
	)
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	// Session asks for a cookie session next to the token. Form logins always get one.
	Session bool `json:"session" form:"-"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserSummary is the public projection of a user embedded in posts and comments.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

type MeResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserSummary `json:"user"`
	IsStaff       bool         `json:"is_staff"`
}
