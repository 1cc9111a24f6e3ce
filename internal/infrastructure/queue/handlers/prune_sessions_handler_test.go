package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/infrastructure/session"
	"blog-backend/internal/shared"
)

type failingPruner struct{}

func (failingPruner) PruneIndexes(ctx context.Context) (int, error) {
	return 0, errors.New("redis down")
}

func TestPruneSessionsHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewRedisStore(client, "blog:", time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	mr.Del("blog:session:" + sess.ID)

	handle := PruneSessionsHandler(store)
	require.NoError(t, handle(ctx, asynq.NewTask(shared.TypePruneSessions, nil)))

	members, _ := mr.SMembers("blog:user_sessions:user-1")
	assert.Empty(t, members)
}

func TestPruneSessionsHandler_Error(t *testing.T) {
	handle := PruneSessionsHandler(failingPruner{})
	err := handle(context.Background(), asynq.NewTask(shared.TypePruneSessions, nil))
	assert.ErrorContains(t, err, "redis down")
}
