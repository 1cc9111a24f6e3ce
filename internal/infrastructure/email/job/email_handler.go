package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	commentmodel "blog-backend/internal/domains/comment/model"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/email"
	"blog-backend/internal/shared"
)

const excerptRunes = 200

type CommentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*commentmodel.Comment, error)
}

type PostReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*postmodel.Post, error)
}

// ============================================
// New Comment Notification Handler
// ============================================

// CommentNotificationHandler emails a post's author when someone else comments.
type CommentNotificationHandler struct {
	comments     CommentReader
	posts        PostReader
	emailService email.EmailService
	baseURL      string
}

func NewCommentNotificationHandler(comments CommentReader, posts PostReader, emailService email.EmailService, baseURL string) *CommentNotificationHandler {
	return &CommentNotificationHandler{
		comments:     comments,
		posts:        posts,
		emailService: emailService,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

func (h *CommentNotificationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CommentNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal CommentNotification payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	commentID, err1 := uuid.Parse(payload.CommentID)
	postID, err2 := uuid.Parse(payload.PostID)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid ids in payload: %w", asynq.SkipRetry)
	}

	// Step 1: Reload. Comment or post may be gone by now.
	comment, err := h.comments.GetByID(ctx, commentID)
	if errors.Is(err, commentmodel.ErrCommentNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}

	post, err := h.posts.GetByID(ctx, postID)
	if errors.Is(err, postmodel.ErrPostNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load post: %w", err)
	}

	// Step 2: Không gửi cho chính mình
	if comment.AuthorID == post.AuthorID || post.AuthorEmail == "" {
		return nil
	}

	// Step 3: Send
	data := email.CommentNotificationData{
		To:        post.AuthorEmail,
		Author:    post.AuthorUsername,
		Commenter: comment.AuthorUsername,
		PostTitle: post.Title,
		PostURL:   h.baseURL + "/api/v1/posts/" + post.Slug,
		Excerpt:   excerpt(comment.Content),
	}
	if err := h.emailService.SendCommentNotification(ctx, data); err != nil {
		log.Error().Err(err).Str("comment_id", payload.CommentID).Msg("Failed to send comment notification")
		return fmt.Errorf("send comment notification: %w", err)
	}

	log.Info().
		Str("comment_id", payload.CommentID).
		Str("to", post.AuthorEmail).
		Msg("Comment notification sent")
	return nil
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= excerptRunes {
		return s
	}
	return string([]rune(s)[:excerptRunes]) + "…"
}
