package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/user/model"
)

// memoryStore implements both repositories in memory.
type memoryStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*model.User
	tokens map[uuid.UUID]string // user -> key

	// tokenErr fails GetOrCreate and DeleteByUserID when set
	tokenErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[uuid.UUID]*model.User{}, tokens: map[uuid.UUID]string{}}
}

func (m *memoryStore) CreateWithToken(ctx context.Context, u *model.User, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return "", model.ErrUsernameTaken
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.users[u.ID] = &cp
	if existing, ok := m.tokens[u.ID]; ok {
		return existing, nil
	}
	m.tokens[u.ID] = key
	return key, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *memoryStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (m *memoryStore) GetOrCreate(ctx context.Context, userID uuid.UUID, candidate string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	if _, ok := m.users[userID]; !ok {
		return "", model.ErrUserNotFound
	}
	if key, ok := m.tokens[userID]; ok {
		return key, nil
	}
	m.tokens[userID] = candidate
	return candidate, nil
}

func (m *memoryStore) GetUserByKey(ctx context.Context, key string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, k := range m.tokens {
		if k == key {
			cp := *m.users[uid]
			return &cp, nil
		}
	}
	return nil, model.ErrTokenNotFound
}

func (m *memoryStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenErr != nil {
		return false, m.tokenErr
	}
	_, ok := m.tokens[userID]
	delete(m.tokens, userID)
	return ok, nil
}

func (m *memoryStore) setActive(username string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u.IsActive = active
		}
	}
}

func (m *memoryStore) deleteUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.tokens, id)
}

func (m *memoryStore) tokenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}
