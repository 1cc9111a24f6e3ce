package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var statusRule = validation.In(string(StatusDraft), string(StatusPublished)).Error("must be draft or published")

// CreatePostRequest - POST /posts. Author is always the caller.
type CreatePostRequest struct {
	Title      string `json:"title" form:"title"`
	Content    string `json:"content" form:"content"`
	Status     string `json:"status" form:"status"`
	CategoryID string `json:"category_id" form:"category_id"`
}

func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Status = strings.TrimSpace(r.Status)
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	if r.Status == "" {
		r.Status = string(StatusDraft)
	}
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Status, statusRule),
		validation.Field(&r.CategoryID, is.UUID.Error("must be a valid UUID")),
	)
}

// UpdatePostRequest serves PUT and PATCH. For PATCH nil fields are left
// unchanged; for PUT title and content are required and a missing
// category_id clears the category. An empty category_id always clears it.
type UpdatePostRequest struct {
	Title      *string `json:"title" form:"title"`
	Content    *string `json:"content" form:"content"`
	Status     *string `json:"status" form:"status"`
	CategoryID *string `json:"category_id" form:"category_id"`

	Partial bool `json:"-" form:"-"`
}

func (r *UpdatePostRequest) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.Title)
	trim(r.Status)
	trim(r.CategoryID)
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(!r.Partial, validation.Required),
			validation.When(r.Title != nil, validation.Required, validation.Length(1, 200)),
		),
		validation.Field(&r.Content,
			validation.When(!r.Partial, validation.Required),
			validation.When(r.Content != nil, validation.Required),
		),
		validation.Field(&r.Status, statusRule),
		validation.Field(&r.CategoryID, is.UUID.Error("must be a valid UUID")),
	)
}

// DeletePostRequest - DELETE /posts/:post
type DeletePostRequest struct {
	ConfirmDelete bool `json:"confirm_delete" form:"confirm_delete"`
}

// ListQuery is bound from the query string of GET /posts.
type ListQuery struct {
	Page     string `form:"page"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Author   string `form:"author"`
}
