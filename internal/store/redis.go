package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sarkari/ingest-service/internal/model"
)

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RecentURLCache is the fast path in front of the store's duplicate
// checks: source URLs of recently persisted postings, expiring with the
// duplicate recency window. A cache miss proves nothing — the store
// checks still run.
type RecentURLCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRecentURLCache wraps a redis client with the given entry lifetime.
func NewRecentURLCache(rdb *redis.Client, ttl time.Duration) *RecentURLCache {
	return &RecentURLCache{rdb: rdb, ttl: ttl}
}

func cacheKey(category model.Category, sourceURL string) string {
	return fmt.Sprintf("ingest:seen:%s:%s", category, sourceURL)
}

// Seen reports whether this source URL was persisted within the window.
func (c *RecentURLCache) Seen(ctx context.Context, category model.Category, sourceURL string) (bool, error) {
	n, err := c.rdb.Exists(ctx, cacheKey(category, sourceURL)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Mark records a freshly persisted source URL.
func (c *RecentURLCache) Mark(ctx context.Context, category model.Category, sourceURL string) error {
	if err := c.rdb.Set(ctx, cacheKey(category, sourceURL), 1, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
