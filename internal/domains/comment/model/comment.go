package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	usermodel "blog-backend/internal/domains/user/model"
)

// Comment belongs to one post and one author; neither changes after creation.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// joined from users
	AuthorUsername string
	AuthorEmail    string
}

// CommentResponse is the public representation, also nested under posts.
type CommentResponse struct {
	ID        uuid.UUID             `json:"id"`
	Post      uuid.UUID             `json:"post"`
	Author    usermodel.UserSummary `json:"author"`
	Content   string                `json:"content"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:   c.ID,
		Post: c.PostID,
		Author: usermodel.UserSummary{
			ID:       c.AuthorID,
			Username: c.AuthorUsername,
			Email:    c.AuthorEmail,
		},
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, comments[i].ToResponse())
	}
	return out
}

// CommentRequest is used for create, PUT and PATCH. Post and author are
// taken from the path and the caller, never from the body.
type CommentRequest struct {
	Content string `json:"content" form:"content"`
}

func (r *CommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 10000)),
	)
}
