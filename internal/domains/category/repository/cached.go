package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category/model"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/logger"
	"blog-backend/pkg/metrics"
)

const (
	listCacheKey  = "categories:list"
	metricsLabel  = "categories"
	itemKeyPrefix = "category:"
)

// cachedRepository wraps a Repository with Cache-Aside reads.
// Cache failures never fail a request; they fall through to the database.
type cachedRepository struct {
	inner   Repository
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCachedRepository(inner Repository, c cache.Cache, ttl time.Duration, m *metrics.Metrics) Repository {
	return &cachedRepository{inner: inner, cache: c, ttl: ttl, metrics: m}
}

func itemKey(id uuid.UUID) string {
	return itemKeyPrefix + id.String()
}

func (r *cachedRepository) Create(ctx context.Context, c *model.Category) error {
	if err := r.inner.Create(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, listCacheKey)
	return nil
}

func (r *cachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	// Step 1: check cache
	var c model.Category
	found, err := r.cache.Get(ctx, itemKey(id), &c)
	if err == nil && found {
		r.metrics.CacheHit(metricsLabel)
		return &c, nil
	}
	r.metrics.CacheMiss(metricsLabel)

	// Step 2: cache miss, query database
	loaded, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Step 3: populate cache
	if err := r.cache.Set(ctx, itemKey(id), loaded, r.ttl); err != nil {
		logger.Warn("category cache set failed", map[string]interface{}{"error": err.Error()})
	}
	return loaded, nil
}

func (r *cachedRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	found, err := r.cache.Get(ctx, listCacheKey, &categories)
	if err == nil && found {
		r.metrics.CacheHit(metricsLabel)
		return categories, nil
	}
	r.metrics.CacheMiss(metricsLabel)

	categories, err = r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, listCacheKey, categories, r.ttl); err != nil {
		logger.Warn("category cache set failed", map[string]interface{}{"error": err.Error()})
	}
	return categories, nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, listCacheKey, itemKey(id))
	return nil
}

func (r *cachedRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("category cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
