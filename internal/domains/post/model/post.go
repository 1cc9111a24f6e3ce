package model

import (
	"time"

	"github.com/google/uuid"

	commentmodel "blog-backend/internal/domains/comment/model"
	usermodel "blog-backend/internal/domains/user/model"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Post is a blog entry. AuthorID and Slug never change after creation.
type Post struct {
	ID         uuid.UUID
	Title      string
	Slug       string
	Content    string
	Status     Status
	AuthorID   uuid.UUID
	CategoryID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// joined
	AuthorUsername string
	AuthorEmail    string
	CategoryName   *string
}

// Filter narrows a post listing. Every search term must match the title or
// the content.
type Filter struct {
	Status      Status
	SearchTerms []string
	CategoryID  *uuid.UUID
	AuthorID    *uuid.UUID
}

// CategoryRef is the read-only nested category of a post.
type CategoryRef struct {
	Name string `json:"name"`
}

// PostResponse is the public representation of a post.
type PostResponse struct {
	ID        uuid.UUID                      `json:"id"`
	Title     string                         `json:"title"`
	Slug      string                         `json:"slug"`
	Content   string                         `json:"content"`
	Author    usermodel.UserSummary          `json:"author"`
	Category  *CategoryRef                   `json:"category"`
	Status    Status                         `json:"status"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
	LikedBy   []usermodel.UserSummary        `json:"liked_by"`
	IsLiked   bool                           `json:"is_liked"`
	Comments  []commentmodel.CommentResponse `json:"comments"`
}

func (p PostResponse) ArticleTitle() string    { return p.Title }
func (p PostResponse) ArticleMarkdown() string { return p.Content }

// ToResponse builds the representation. likedBy and comments may be nil.
func (p *Post) ToResponse(likedBy []usermodel.UserSummary, comments []commentmodel.Comment, viewer uuid.UUID) PostResponse {
	resp := PostResponse{
		ID:      p.ID,
		Title:   p.Title,
		Slug:    p.Slug,
		Content: p.Content,
		Author: usermodel.UserSummary{
			ID:       p.AuthorID,
			Username: p.AuthorUsername,
			Email:    p.AuthorEmail,
		},
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		LikedBy:   make([]usermodel.UserSummary, 0, len(likedBy)),
		Comments:  commentmodel.ToResponses(comments),
	}
	if p.CategoryName != nil {
		resp.Category = &CategoryRef{Name: *p.CategoryName}
	}

	for _, u := range likedBy {
		resp.LikedBy = append(resp.LikedBy, u)
		// anonymous viewers are uuid.Nil and never match
		if viewer != uuid.Nil && u.ID == viewer {
			resp.IsLiked = true
		}
	}
	return resp
}
