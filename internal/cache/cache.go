// Package cache provides optional Redis caching for computed monthly views.
//
// The ledger recomputes balances and summaries from the full snapshot on
// every read; the cache just short-circuits repeated reads of the same
// month between writes. A nil *Cache is valid and disables caching, so
// callers never have to branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttl = 60 * time.Second

// Cache wraps a Redis client for cached monthly views.
type Cache struct {
	client *redis.Client
}

// Open connects to Redis at the given URL ("redis://host:port" or plain
// "host:port"). An empty URL returns a nil cache, which disables caching.
func Open(url string) (*Cache, error) {
	if url == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		// Fallback to a plain address.
		opt = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Cache{client: client}, nil
}

// Close releases the Redis connection. Safe on a nil cache.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Get unmarshals a cached value into v. Returns false on miss, disabled
// cache, or any Redis error (a cache problem must never fail a read).
func (c *Cache) Get(ctx context.Context, key string, v interface{}) bool {
	if c == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false
	}
	return true
}

// Set stores v under key with a short TTL. Errors are logged, not returned.
func (c *Cache) Set(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops the given keys after a write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
