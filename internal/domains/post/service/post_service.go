package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	commentrepo "blog-backend/internal/domains/comment/repository"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/authz"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// maxSlugAttempts bounds the numeric suffix search before falling back to a random suffix
const maxSlugAttempts = 20

type Config struct {
	PageSize int
	// DraftDetailOwnerOnly hides drafts from everyone but their author on the detail endpoint.
	DraftDetailOwnerOnly bool
}

type postService struct {
	posts      repository.Repository
	comments   commentrepo.Repository
	categories CategoryLookup
	cfg        Config
}

func NewPostService(
	posts repository.Repository,
	comments commentrepo.Repository,
	categories CategoryLookup,
	cfg Config,
) ServiceInterface {
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}
	return &postService{
		posts:      posts,
		comments:   comments,
		categories: categories,
		cfg:        cfg,
	}
}

// ========================================
// READ
// ========================================

func (s *postService) List(ctx context.Context, p *authz.Principal, q model.ListQuery) (*ListResult, error) {
	if err := authz.Authorize(p, authz.ListPosts, nil); err != nil {
		return nil, err
	}

	// Step 1: Filters
	filter := model.Filter{
		Status:      model.StatusPublished,
		SearchTerms: utils.SearchTerms(q.Search),
	}
	fields := map[string]string{}
	if q.Category != "" {
		id, err := uuid.Parse(q.Category)
		if err != nil {
			fields["category"] = "must be a valid UUID"
		} else {
			filter.CategoryID = &id
		}
	}
	if q.Author != "" {
		id, err := uuid.Parse(q.Author)
		if err != nil {
			fields["author"] = "must be a valid UUID"
		} else {
			filter.AuthorID = &id
		}
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields("Invalid filter.", fields, nil)
	}

	// Step 2: Page
	return s.page(ctx, p, filter, q.Page)
}

func (s *postService) ListByCategory(ctx context.Context, p *authz.Principal, categoryID uuid.UUID, page string) (*ListResult, error) {
	if err := authz.Authorize(p, authz.ListPosts, nil); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	filter := model.Filter{Status: model.StatusPublished, CategoryID: &categoryID}
	return s.page(ctx, p, filter, page)
}

func (s *postService) page(ctx context.Context, p *authz.Principal, filter model.Filter, rawPage string) (*ListResult, error) {
	params, err := pagination.Parse(rawPage, s.cfg.PageSize)
	if err != nil {
		return nil, invalidPage()
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	params, err = params.Resolve(total)
	if err != nil {
		return nil, invalidPage()
	}

	posts, err := s.posts.List(ctx, filter, params.Limit(), params.Offset())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	items, err := s.represent(ctx, p, posts)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &ListResult{Items: items, Params: params, Total: total}, nil
}

func (s *postService) Get(ctx context.Context, p *authz.Principal, slug string) (*model.PostResponse, error) {
	post, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(p, authz.ReadPost, authz.OwnedBy(post.AuthorID)); err != nil {
		return nil, err
	}
	if s.cfg.DraftDetailOwnerOnly && post.Status == model.StatusDraft && !p.Is(post.AuthorID) {
		return nil, model.NewPostNotFoundError()
	}
	return s.representOne(ctx, p, post)
}

// ========================================
// WRITE
// ========================================

func (s *postService) Create(ctx context.Context, p *authz.Principal, req model.CreatePostRequest) (*model.PostResponse, error) {
	// Step 1: Authenticated callers only
	if err := authz.Authorize(p, authz.CreatePost, nil); err != nil {
		return nil, err
	}

	// Step 2: Validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	post := &model.Post{
		ID:       uuid.New(),
		Title:    req.Title,
		Content:  req.Content,
		Status:   model.Status(req.Status),
		AuthorID: p.ID,
	}
	if req.CategoryID != "" {
		id := uuid.MustParse(req.CategoryID)
		post.CategoryID = &id
	}

	// Step 3: Insert, retrying on slug collisions
	if err := s.insertWithUniqueSlug(ctx, post); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return nil, model.NewInvalidCategoryError()
		}
		return nil, apperror.Internal(err)
	}

	logger.Info("post created", map[string]interface{}{
		"post_id":   post.ID.String(),
		"slug":      post.Slug,
		"author_id": p.ID.String(),
	})

	// Reload for joined author and category
	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return s.representOne(ctx, p, created)
}

// insertWithUniqueSlug relies on posts_slug_key instead of checking first,
// so concurrent creates with the same title cannot both win.
func (s *postService) insertWithUniqueSlug(ctx context.Context, post *model.Post) error {
	base := utils.GenerateSlug(post.Title)
	if base == "" {
		base = "post"
	}

	for n := 1; n <= maxSlugAttempts; n++ {
		post.Slug = utils.SlugWithSuffix(base, n)
		err := s.posts.Create(ctx, post)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrSlugTaken) {
			return err
		}
	}

	suffix, err := randomSuffix()
	if err != nil {
		return err
	}
	post.Slug = base + "-" + suffix
	return s.posts.Create(ctx, post)
}

func (s *postService) Update(ctx context.Context, p *authz.Principal, slug string, req model.UpdatePostRequest) (*model.PostResponse, error) {
	// Step 1: Load
	post, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Step 2: Ownership before anything is validated or written
	if err := authz.Authorize(p, authz.UpdatePost, authz.OwnedBy(post.AuthorID)); err != nil {
		return nil, ownerError(err, "edit")
	}

	// Step 3: Validate and apply
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	applyUpdate(post, req)

	// Step 4: Persist
	if err := s.posts.Update(ctx, post); err != nil {
		switch {
		case errors.Is(err, model.ErrCategoryNotFound):
			return nil, model.NewInvalidCategoryError()
		case errors.Is(err, model.ErrPostNotFound):
			return nil, model.NewPostNotFoundError()
		}
		return nil, apperror.Internal(err)
	}

	updated, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return s.representOne(ctx, p, updated)
}

func applyUpdate(post *model.Post, req model.UpdatePostRequest) {
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Status != nil && *req.Status != "" {
		post.Status = model.Status(*req.Status)
	}

	switch {
	case req.CategoryID != nil && *req.CategoryID != "":
		id := uuid.MustParse(*req.CategoryID)
		post.CategoryID = &id
	case req.CategoryID != nil || !req.Partial:
		post.CategoryID = nil
	}
}

func (s *postService) Delete(ctx context.Context, p *authz.Principal, slug string, req model.DeletePostRequest) error {
	post, err := s.load(ctx, slug)
	if err != nil {
		return err
	}
	if err := authz.Authorize(p, authz.DeletePost, authz.OwnedBy(post.AuthorID)); err != nil {
		return ownerError(err, "delete")
	}
	if !req.ConfirmDelete {
		return model.NewDeleteNotConfirmedError()
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return mapNotFound(err)
	}

	logger.Info("post deleted", map[string]interface{}{
		"post_id":   post.ID.String(),
		"author_id": p.ID.String(),
	})
	return nil
}

// ========================================
// LIKES
// ========================================

func (s *postService) Like(ctx context.Context, p *authz.Principal, slug string) (*model.PostResponse, error) {
	return s.toggleLike(ctx, p, slug, s.posts.Like)
}

func (s *postService) Unlike(ctx context.Context, p *authz.Principal, slug string) (*model.PostResponse, error) {
	return s.toggleLike(ctx, p, slug, s.posts.Unlike)
}

func (s *postService) toggleLike(
	ctx context.Context,
	p *authz.Principal,
	slug string,
	apply func(ctx context.Context, postID, userID uuid.UUID) error,
) (*model.PostResponse, error) {
	if err := authz.Authorize(p, authz.LikePost, nil); err != nil {
		return nil, err
	}

	post, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := apply(ctx, post.ID, p.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.representOne(ctx, p, post)
}

// ========================================
// HELPERS
// ========================================

func (s *postService) load(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return post, nil
}

// represent batch-loads likes and comments for a page of posts.
func (s *postService) represent(ctx context.Context, p *authz.Principal, posts []model.Post) ([]model.PostResponse, error) {
	out := make([]model.PostResponse, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	likes, err := s.posts.LikedBy(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	comments, err := s.comments.ListByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	viewer := uuid.Nil
	if p.IsAuthenticated() {
		viewer = p.ID
	}
	for i := range posts {
		out = append(out, posts[i].ToResponse(likes[posts[i].ID], comments[posts[i].ID], viewer))
	}
	return out, nil
}

func (s *postService) representOne(ctx context.Context, p *authz.Principal, post *model.Post) (*model.PostResponse, error) {
	items, err := s.represent(ctx, p, []model.Post{*post})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &items[0], nil
}

func mapNotFound(err error) error {
	if errors.Is(err, model.ErrPostNotFound) {
		return model.NewPostNotFoundError()
	}
	return apperror.Internal(err)
}

// ownerError rewords the generic policy denial; anonymous stays AUTHENTICATION_REQUIRED.
func ownerError(err error, action string) error {
	if apperror.IsKind(err, apperror.KindPermission) {
		return model.NewNotPostOwnerError(action)
	}
	return err
}

func invalidPage() error {
	return apperror.NotFound("Invalid page.", pagination.ErrInvalidPage)
}

func randomSuffix() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
