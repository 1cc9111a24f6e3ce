package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commentmodel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/authz"
)

type env struct {
	w     *world
	svc   ServiceInterface
	alice *authz.Principal
	bob   *authz.Principal
}

func newEnv(t *testing.T, cfg Config) *env {
	t.Helper()
	w := newWorld()
	aliceID := w.addUser("alice")
	bobID := w.addUser("bob")
	return &env{
		w:     w,
		svc:   NewPostService(fakePosts{w}, fakeComments{w}, fakeCategories{w}, cfg),
		alice: &authz.Principal{ID: aliceID, Username: "alice", Email: "alice@example.com"},
		bob:   &authz.Principal{ID: bobID, Username: "bob", Email: "bob@example.com"},
	}
}

func (e *env) create(t *testing.T, p *authz.Principal, title, status string) *model.PostResponse {
	t.Helper()
	post, err := e.svc.Create(context.Background(), p, model.CreatePostRequest{
		Title: title, Content: "content of " + title, Status: status,
	})
	require.NoError(t, err)
	return post
}

func ptr(s string) *string { return &s }

func TestCreate_DefaultsAndAuthor(t *testing.T) {
	e := newEnv(t, Config{})

	post := e.create(t, e.alice, "Hello, World!", "")
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, model.StatusDraft, post.Status)
	assert.Equal(t, e.alice.ID, post.Author.ID)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Nil(t, post.Category)
	assert.NotNil(t, post.LikedBy)
	assert.NotNil(t, post.Comments)
	assert.False(t, post.IsLiked)
}

func TestCreate_UniqueSlugs(t *testing.T) {
	e := newEnv(t, Config{})

	first := e.create(t, e.alice, "Same title", "published")
	second := e.create(t, e.bob, "Same title", "published")
	third := e.create(t, e.alice, "Same  Title", "published")

	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)
	assert.Equal(t, "same-title-3", third.Slug)

	symbols := e.create(t, e.alice, "!!!", "draft")
	assert.Equal(t, "post", symbols.Slug)
}

func TestCreate_SlugFallbackAfterManyCollisions(t *testing.T) {
	e := newEnv(t, Config{})
	for i := 0; i < maxSlugAttempts; i++ {
		e.create(t, e.alice, "Busy", "draft")
	}

	post := e.create(t, e.alice, "Busy", "draft")
	assert.Regexp(t, `^busy-[0-9a-f]{8}$`, post.Slug)
}

func TestCreate_Validation(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	catID := e.w.addCategory("Go")

	tests := []struct {
		name string
		req  model.CreatePostRequest
		kind apperror.Kind
	}{
		{"missing title", model.CreatePostRequest{Content: "x"}, apperror.KindValidation},
		{"missing content", model.CreatePostRequest{Title: "x"}, apperror.KindValidation},
		{"bad status", model.CreatePostRequest{Title: "x", Content: "x", Status: "archived"}, apperror.KindValidation},
		{"bad category id", model.CreatePostRequest{Title: "x", Content: "x", CategoryID: "nope"}, apperror.KindValidation},
		{"unknown category", model.CreatePostRequest{Title: "x", Content: "x", CategoryID: uuid.NewString()}, apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Create(ctx, e.alice, tt.req)
			assert.True(t, apperror.IsKind(err, tt.kind), "got %v", err)
		})
	}
	assert.Empty(t, e.w.posts)

	_, err := e.svc.Create(ctx, authz.Anonymous(), model.CreatePostRequest{Title: "x", Content: "x"})
	assert.True(t, apperror.IsKind(err, apperror.KindAuthRequired))

	post, err := e.svc.Create(ctx, e.alice, model.CreatePostRequest{Title: "x", Content: "x", CategoryID: catID.String()})
	require.NoError(t, err)
	require.NotNil(t, post.Category)
	assert.Equal(t, "Go", post.Category.Name)
}

func TestList_PublishedOnlyNewestFirst(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()

	e.create(t, e.alice, "Old", "published")
	e.create(t, e.alice, "Secret draft", "draft")
	e.create(t, e.bob, "New", "published")

	for _, viewer := range []*authz.Principal{authz.Anonymous(), e.alice} {
		res, err := e.svc.List(ctx, viewer, model.ListQuery{})
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "New", res.Items[0].Title)
		assert.Equal(t, "Old", res.Items[1].Title)
		assert.Equal(t, 2, res.Total)
	}
}

func TestList_SearchAndFilters(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	goCat := e.w.addCategory("Go")

	_, err := e.svc.Create(ctx, e.alice, model.CreatePostRequest{
		Title: "Generics in Go", Content: "type parameters", Status: "published", CategoryID: goCat.String(),
	})
	require.NoError(t, err)
	_, err = e.svc.Create(ctx, e.bob, model.CreatePostRequest{
		Title: "Rust traits", Content: "compared with Go interfaces", Status: "published",
	})
	require.NoError(t, err)

	titles := func(q model.ListQuery) []string {
		res, err := e.svc.List(ctx, authz.Anonymous(), q)
		require.NoError(t, err)
		var out []string
		for _, p := range res.Items {
			out = append(out, p.Title)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Generics in Go", "Rust traits"}, titles(model.ListQuery{Search: "go"}))
	assert.Equal(t, []string{"Rust traits"}, titles(model.ListQuery{Search: "GO  interfaces"}))
	assert.Empty(t, titles(model.ListQuery{Search: "go python"}))
	assert.Equal(t, []string{"Generics in Go"}, titles(model.ListQuery{Category: goCat.String()}))
	assert.Equal(t, []string{"Rust traits"}, titles(model.ListQuery{Author: e.bob.ID.String()}))

	_, err = e.svc.List(ctx, authz.Anonymous(), model.ListQuery{Author: "bob"})
	appErr := apperror.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "author")
}

func TestList_Pagination(t *testing.T) {
	e := newEnv(t, Config{PageSize: 2})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		e.create(t, e.alice, fmt.Sprintf("Post %d", i), "published")
	}

	res, err := e.svc.List(ctx, authz.Anonymous(), model.ListQuery{Page: "3"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 3, res.Params.Page)
	assert.Equal(t, "Post 0", res.Items[0].Title)

	res, err = e.svc.List(ctx, authz.Anonymous(), model.ListQuery{Page: "last"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Params.Page)

	for _, page := range []string{"4", "0", "abc"} {
		_, err = e.svc.List(ctx, authz.Anonymous(), model.ListQuery{Page: page})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "page %q", page)
	}
}

func TestListByCategory(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	goCat := e.w.addCategory("Go")
	e.w.addCategory("Empty")

	_, err := e.svc.Create(ctx, e.alice, model.CreatePostRequest{Title: "A", Content: "a", Status: "published", CategoryID: goCat.String()})
	require.NoError(t, err)
	_, err = e.svc.Create(ctx, e.alice, model.CreatePostRequest{Title: "B", Content: "b", Status: "draft", CategoryID: goCat.String()})
	require.NoError(t, err)

	res, err := e.svc.ListByCategory(ctx, authz.Anonymous(), goCat, "")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "A", res.Items[0].Title)

	_, err = e.svc.ListByCategory(ctx, authz.Anonymous(), uuid.New(), "")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGet_DraftVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("default any principal", func(t *testing.T) {
		e := newEnv(t, Config{})
		draft := e.create(t, e.alice, "Draft", "draft")
		for _, viewer := range []*authz.Principal{authz.Anonymous(), e.alice, e.bob} {
			got, err := e.svc.Get(ctx, viewer, draft.Slug)
			require.NoError(t, err)
			assert.Equal(t, draft.ID, got.ID)
		}
	})

	t.Run("owner only", func(t *testing.T) {
		e := newEnv(t, Config{DraftDetailOwnerOnly: true})
		draft := e.create(t, e.alice, "Draft", "draft")

		_, err := e.svc.Get(ctx, e.alice, draft.Slug)
		assert.NoError(t, err)
		_, err = e.svc.Get(ctx, e.bob, draft.Slug)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		_, err = e.svc.Get(ctx, authz.Anonymous(), draft.Slug)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("missing", func(t *testing.T) {
		e := newEnv(t, Config{})
		_, err := e.svc.Get(ctx, e.alice, "nope")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestUpdate(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	catID := e.w.addCategory("Go")

	post, err := e.svc.Create(ctx, e.alice, model.CreatePostRequest{Title: "Title", Content: "body", CategoryID: catID.String()})
	require.NoError(t, err)

	// non-owner leaves it unchanged
	_, err = e.svc.Update(ctx, e.bob, post.Slug, model.UpdatePostRequest{Title: ptr("Hijacked"), Content: ptr("x")})
	appErr := apperror.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindPermission, appErr.Kind)
	assert.Equal(t, "You can only edit your own posts.", appErr.Message)
	assert.Equal(t, "Title", e.w.posts[post.ID].Title)

	// non-owner with an invalid body still gets the permission error
	_, err = e.svc.Update(ctx, e.bob, post.Slug, model.UpdatePostRequest{})
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))

	// PATCH keeps untouched fields, slug is immutable
	updated, err := e.svc.Update(ctx, e.alice, post.Slug, model.UpdatePostRequest{
		Title: ptr("New title"), Status: ptr("published"), Partial: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, post.Slug, updated.Slug)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, model.StatusPublished, updated.Status)
	require.NotNil(t, updated.Category)

	// PUT requires title and content and clears an absent category
	_, err = e.svc.Update(ctx, e.alice, post.Slug, model.UpdatePostRequest{Title: ptr("Only title")})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	replaced, err := e.svc.Update(ctx, e.alice, post.Slug, model.UpdatePostRequest{Title: ptr("Full"), Content: ptr("replaced")})
	require.NoError(t, err)
	assert.Nil(t, replaced.Category)
	assert.Equal(t, model.StatusPublished, replaced.Status)

	_, err = e.svc.Update(ctx, e.alice, post.Slug, model.UpdatePostRequest{CategoryID: ptr(uuid.NewString()), Partial: true})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = e.svc.Update(ctx, e.alice, post.Slug, model.UpdatePostRequest{Status: ptr("archived"), Partial: true})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestDelete_OrderOfChecks(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	post := e.create(t, e.alice, "Doomed", "published")

	err := e.svc.Delete(ctx, e.bob, post.Slug, model.DeletePostRequest{ConfirmDelete: false})
	appErr := apperror.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindPermission, appErr.Kind)
	assert.Equal(t, "You can only delete your own posts.", appErr.Message)

	err = e.svc.Delete(ctx, e.alice, post.Slug, model.DeletePostRequest{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.ErrorIs(t, err, model.ErrDeleteNotConfirm)
	assert.Contains(t, e.w.posts, post.ID)

	err = e.svc.Delete(ctx, e.alice, "missing", model.DeletePostRequest{ConfirmDelete: true})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	require.NoError(t, e.svc.Delete(ctx, e.alice, post.Slug, model.DeletePostRequest{ConfirmDelete: true}))
	_, err = e.svc.Get(ctx, e.alice, post.Slug)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestLikes(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	post := e.create(t, e.alice, "Likeable", "published")

	_, err := e.svc.Like(ctx, authz.Anonymous(), post.Slug)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthRequired))

	liked, err := e.svc.Like(ctx, e.bob, post.Slug)
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)
	require.Len(t, liked.LikedBy, 1)
	assert.Equal(t, "bob", liked.LikedBy[0].Username)

	// set semantics
	liked, err = e.svc.Like(ctx, e.bob, post.Slug)
	require.NoError(t, err)
	assert.Len(t, liked.LikedBy, 1)

	// other viewers see the like but not as their own
	asAlice, err := e.svc.Get(ctx, e.alice, post.Slug)
	require.NoError(t, err)
	assert.False(t, asAlice.IsLiked)
	asAnon, err := e.svc.Get(ctx, authz.Anonymous(), post.Slug)
	require.NoError(t, err)
	assert.False(t, asAnon.IsLiked)

	unliked, err := e.svc.Unlike(ctx, e.bob, post.Slug)
	require.NoError(t, err)
	assert.False(t, unliked.IsLiked)
	assert.Empty(t, unliked.LikedBy)

	_, err = e.svc.Unlike(ctx, e.bob, post.Slug)
	assert.NoError(t, err)

	_, err = e.svc.Like(ctx, e.bob, "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestRepresentation_NestedComments(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()
	post := e.create(t, e.alice, "Discussed", "published")

	require.NoError(t, fakeComments{e.w}.Create(ctx, &commentmodel.Comment{
		ID: uuid.New(), PostID: post.ID, AuthorID: e.bob.ID, Content: "nice",
	}))

	got, err := e.svc.Get(ctx, authz.Anonymous(), post.Slug)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "nice", got.Comments[0].Content)
	assert.Equal(t, "bob", got.Comments[0].Author.Username)
	assert.Equal(t, post.ID, got.Comments[0].Post)
}

// alice registers, creates a post, bob cannot delete it, alice can.
func TestOwnershipScenario(t *testing.T) {
	e := newEnv(t, Config{})
	ctx := context.Background()

	post := e.create(t, e.alice, "Mine", "published")
	assert.Equal(t, "alice", post.Author.Username)

	err := e.svc.Delete(ctx, e.bob, post.Slug, model.DeletePostRequest{ConfirmDelete: true})
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))

	res, err := e.svc.List(ctx, authz.Anonymous(), model.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	require.NoError(t, e.svc.Delete(ctx, e.alice, post.Slug, model.DeletePostRequest{ConfirmDelete: true}))
	_, err = e.svc.Get(ctx, authz.Anonymous(), post.Slug)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
