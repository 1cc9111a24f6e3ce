package handlers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"blog-backend/pkg/logger"
)

type SessionPruner interface {
	PruneIndexes(ctx context.Context) (int, error)
}

// PruneSessionsHandler drops expired session ids from per-user indexes
func PruneSessionsHandler(store SessionPruner) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := store.PruneIndexes(ctx)
		if err != nil {
			return fmt.Errorf("prune session indexes: %w", err) // Redis lỗi, retry lại
		}

		logger.Info("Pruned session indexes", map[string]interface{}{"removed": removed})
		return nil
	}
}
