package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record bound to a browser cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, userID string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteAllForUser destroys every session of userID and reports how many were live.
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	TTL() time.Duration
}

// RedisStore keeps one key per session plus a per-user index set:
//
//	<prefix>session:<id>         JSON Session, expires with the session
//	<prefix>user_sessions:<uid>  SET of session ids
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) TTL() time.Duration { return s.ttl }

func (s *RedisStore) sessionKey(id string) string {
	return s.prefix + "session:" + id
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + "user_sessions:" + userID
}

func (s *RedisStore) Create(ctx context.Context, userID string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(sess.ID), payload, s.ttl)
		pipe.SAdd(ctx, s.userKey(userID), sess.ID)
		// index lives at least as long as its newest session
		pipe.Expire(ctx, s.userKey(userID), s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	raw, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.sessionKey(id))
		pipe.SRem(ctx, s.userKey(sess.UserID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.sessionKey(id))
	}

	var deleted *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			deleted = pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, s.userKey(userID))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	if deleted == nil {
		return 0, nil
	}
	return int(deleted.Val()), nil
}

// PruneIndexes walks every user_sessions set and drops ids whose session has
// already expired. Returns the number of ids removed.
func (s *RedisStore) PruneIndexes(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"user_sessions:*", 100).Iterator()
	for iter.Next(ctx) {
		indexKey := iter.Val()

		ids, err := s.client.SMembers(ctx, indexKey).Result()
		if err != nil {
			return removed, fmt.Errorf("list %s: %w", indexKey, err)
		}

		var stale []interface{}
		for _, id := range ids {
			n, err := s.client.Exists(ctx, s.sessionKey(id)).Result()
			if err != nil {
				return removed, fmt.Errorf("check session: %w", err)
			}
			if n == 0 {
				stale = append(stale, id)
			}
		}
		if len(stale) == 0 {
			continue
		}

		if err := s.client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			return removed, fmt.Errorf("prune %s: %w", indexKey, err)
		}
		removed += len(stale)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan session indexes: %w", err)
	}
	return removed, nil
}
