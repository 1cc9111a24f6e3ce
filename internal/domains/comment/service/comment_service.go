package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/repository"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/authz"
	"blog-backend/pkg/logger"
)

type commentService struct {
	comments repository.Repository
	posts    PostLookup
	notifier Notifier
}

// NewCommentService wires the comment service. notifier may be nil.
func NewCommentService(comments repository.Repository, posts PostLookup, notifier Notifier) ServiceInterface {
	return &commentService{comments: comments, posts: posts, notifier: notifier}
}

func (s *commentService) ListByPost(ctx context.Context, p *authz.Principal, postID uuid.UUID) ([]model.CommentResponse, error) {
	if err := authz.Authorize(p, authz.ListComments, nil); err != nil {
		return nil, err
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return model.ToResponses(comments), nil
}

func (s *commentService) Create(ctx context.Context, p *authz.Principal, postID uuid.UUID, req model.CommentRequest) (*model.CommentResponse, error) {
	// Step 1: Authenticated callers only
	if err := authz.Authorize(p, authz.CreateComment, nil); err != nil {
		return nil, err
	}

	// Step 2: Validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// Step 3: Parent post comes from the path
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	// Step 4: Insert with the caller as author
	c := &model.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: p.ID,
		Content:  req.Content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, mapError(err)
	}

	logger.Info("comment created", map[string]interface{}{
		"comment_id": c.ID.String(),
		"post_id":    postID.String(),
		"author_id":  p.ID.String(),
	})

	// Step 5: Notify the post author in the background
	if s.notifier != nil {
		if err := s.notifier.NotifyComment(ctx, c.ID, postID); err != nil {
			logger.Warn("comment notification not queued", map[string]interface{}{
				"comment_id": c.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	resp := c.ToResponse()
	return &resp, nil
}

func (s *commentService) Get(ctx context.Context, p *authz.Principal, id uuid.UUID) (*model.CommentResponse, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := authz.Authorize(p, authz.ReadComment, authz.OwnedBy(c.AuthorID)); err != nil {
		return nil, err
	}
	resp := c.ToResponse()
	return &resp, nil
}

// Update replaces the content. PUT and PATCH share it since content is the
// only writable field.
func (s *commentService) Update(ctx context.Context, p *authz.Principal, id uuid.UUID, req model.CommentRequest) (*model.CommentResponse, error) {
	// Step 1: Load
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	// Step 2: Ownership before anything is validated or written
	if err := authz.Authorize(p, authz.UpdateComment, authz.OwnedBy(c.AuthorID)); err != nil {
		return nil, ownerError(err, "edit")
	}

	// Step 3: Validate and write
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	c.Content = req.Content
	if err := s.comments.UpdateContent(ctx, c); err != nil {
		return nil, mapError(err)
	}

	resp := c.ToResponse()
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, p *authz.Principal, id uuid.UUID) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if err := authz.Authorize(p, authz.DeleteComment, authz.OwnedBy(c.AuthorID)); err != nil {
		return ownerError(err, "delete")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	logger.Info("comment deleted", map[string]interface{}{
		"comment_id": id.String(),
		"by":         p.ID.String(),
	})
	return nil
}

func (s *commentService) requirePost(ctx context.Context, postID uuid.UUID) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return model.NewPostNotFoundError()
	}
	return nil
}

// ownerError swaps the generic permission message for the comment one.
// Anonymous callers keep AUTHENTICATION_REQUIRED.
func ownerError(err error, action string) error {
	if apperror.IsKind(err, apperror.KindPermission) {
		return model.NewNotCommentOwnerError(action)
	}
	return err
}

func mapError(err error) error {
	switch {
	case errors.Is(err, model.ErrCommentNotFound):
		return model.NewCommentNotFoundError()
	case errors.Is(err, model.ErrPostNotFound):
		return model.NewPostNotFoundError()
	default:
		return apperror.Internal(err)
	}
}
