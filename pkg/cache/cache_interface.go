package cache

import (
	"context"
	"time"
)

// Cache interface định nghĩa contract cho cache layer
// Values are JSON-encoded so any serializable type can be stored.
type Cache interface {
	// Get returns found=false on a miss; dest is left untouched in that case.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
