package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	categorymodel "blog-backend/internal/domains/category/model"
	commentmodel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
)

// world is an in-memory store shared by the fake repositories.
type world struct {
	mu         sync.Mutex
	users      map[uuid.UUID]usermodel.UserSummary
	categories map[uuid.UUID]categorymodel.Category
	posts      map[uuid.UUID]model.Post
	likes      map[uuid.UUID][]uuid.UUID // post -> users in like order
	comments   []commentmodel.Comment
	clock      time.Time
}

func newWorld() *world {
	return &world{
		users:      map[uuid.UUID]usermodel.UserSummary{},
		categories: map[uuid.UUID]categorymodel.Category{},
		posts:      map[uuid.UUID]model.Post{},
		likes:      map[uuid.UUID][]uuid.UUID{},
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (w *world) tick() time.Time {
	w.clock = w.clock.Add(time.Second)
	return w.clock
}

func (w *world) addUser(name string) uuid.UUID {
	id := uuid.New()
	w.users[id] = usermodel.UserSummary{ID: id, Username: name, Email: name + "@example.com"}
	return id
}

func (w *world) addCategory(name string) uuid.UUID {
	id := uuid.New()
	w.categories[id] = categorymodel.Category{ID: id, Name: name}
	return id
}

// ---- posts ----

type fakePosts struct{ w *world }

func (f fakePosts) join(p model.Post) model.Post {
	u := f.w.users[p.AuthorID]
	p.AuthorUsername, p.AuthorEmail = u.Username, u.Email
	p.CategoryName = nil
	if p.CategoryID != nil {
		if c, ok := f.w.categories[*p.CategoryID]; ok {
			name := c.Name
			p.CategoryName = &name
		}
	}
	return p
}

func (f fakePosts) Create(ctx context.Context, p *model.Post) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.posts {
		if existing.Slug == p.Slug {
			return model.ErrSlugTaken
		}
	}
	if p.CategoryID != nil {
		if _, ok := f.w.categories[*p.CategoryID]; !ok {
			return model.ErrCategoryNotFound
		}
	}
	now := f.w.tick()
	p.CreatedAt, p.UpdatedAt = now, now
	f.w.posts[p.ID] = *p
	return nil
}

func (f fakePosts) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, p := range f.w.posts {
		if p.Slug == slug {
			joined := f.join(p)
			return &joined, nil
		}
	}
	return nil, model.ErrPostNotFound
}

func (f fakePosts) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p, ok := f.w.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	joined := f.join(p)
	return &joined, nil
}

func (f fakePosts) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	_, ok := f.w.posts[id]
	return ok, nil
}

func (f fakePosts) matching(filter model.Filter) []model.Post {
	var out []model.Post
	for _, p := range f.w.posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		ok := true
		for _, term := range filter.SearchTerms {
			t := strings.ToLower(term)
			if !strings.Contains(strings.ToLower(p.Title), t) && !strings.Contains(strings.ToLower(p.Content), t) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, f.join(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f fakePosts) Count(ctx context.Context, filter model.Filter) (int, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	return len(f.matching(filter)), nil
}

func (f fakePosts) List(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Post, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	all := f.matching(filter)
	if offset >= len(all) {
		return []model.Post{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (f fakePosts) Update(ctx context.Context, p *model.Post) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	existing, ok := f.w.posts[p.ID]
	if !ok {
		return model.ErrPostNotFound
	}
	if p.CategoryID != nil {
		if _, ok := f.w.categories[*p.CategoryID]; !ok {
			return model.ErrCategoryNotFound
		}
	}
	existing.Title, existing.Content, existing.Status, existing.CategoryID = p.Title, p.Content, p.Status, p.CategoryID
	existing.UpdatedAt = f.w.tick()
	p.UpdatedAt = existing.UpdatedAt
	f.w.posts[p.ID] = existing
	return nil
}

func (f fakePosts) Delete(ctx context.Context, id uuid.UUID) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(f.w.posts, id)
	delete(f.w.likes, id)
	return nil
}

func (f fakePosts) Like(ctx context.Context, postID, userID uuid.UUID) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, u := range f.w.likes[postID] {
		if u == userID {
			return nil
		}
	}
	f.w.likes[postID] = append(f.w.likes[postID], userID)
	return nil
}

func (f fakePosts) Unlike(ctx context.Context, postID, userID uuid.UUID) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	kept := f.w.likes[postID][:0]
	for _, u := range f.w.likes[postID] {
		if u != userID {
			kept = append(kept, u)
		}
	}
	f.w.likes[postID] = kept
	return nil
}

func (f fakePosts) LikedBy(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]usermodel.UserSummary, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := map[uuid.UUID][]usermodel.UserSummary{}
	for _, id := range postIDs {
		for _, u := range f.w.likes[id] {
			out[id] = append(out[id], f.w.users[u])
		}
	}
	return out, nil
}

// ---- comments ----

type fakeComments struct{ w *world }

func (f fakeComments) Create(ctx context.Context, c *commentmodel.Comment) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.posts[c.PostID]; !ok {
		return commentmodel.ErrPostNotFound
	}
	now := f.w.tick()
	c.CreatedAt, c.UpdatedAt = now, now
	u := f.w.users[c.AuthorID]
	c.AuthorUsername, c.AuthorEmail = u.Username, u.Email
	f.w.comments = append(f.w.comments, *c)
	return nil
}

func (f fakeComments) GetByID(ctx context.Context, id uuid.UUID) (*commentmodel.Comment, error) {
	return nil, commentmodel.ErrCommentNotFound
}

func (f fakeComments) ListByPost(ctx context.Context, postID uuid.UUID) ([]commentmodel.Comment, error) {
	m, _ := f.ListByPosts(ctx, []uuid.UUID{postID})
	return m[postID], nil
}

func (f fakeComments) ListByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]commentmodel.Comment, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := map[uuid.UUID][]commentmodel.Comment{}
	for _, id := range postIDs {
		for _, c := range f.w.comments {
			if c.PostID == id {
				out[id] = append(out[id], c)
			}
		}
	}
	return out, nil
}

func (f fakeComments) UpdateContent(ctx context.Context, c *commentmodel.Comment) error {
	return nil
}

func (f fakeComments) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// ---- categories ----

type fakeCategories struct{ w *world }

func (f fakeCategories) GetByID(ctx context.Context, id uuid.UUID) (*categorymodel.Category, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	c, ok := f.w.categories[id]
	if !ok {
		return nil, categorymodel.NewCategoryNotFoundError()
	}
	return &c, nil
}
