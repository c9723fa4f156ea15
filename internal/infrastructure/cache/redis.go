package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "studystream:"

// RedisCache implements ArtifactCache on Redis. It is the alternative backend
// for deployments that want cache survival across restarts; semantics match
// MemoryCache except that hit/miss counters are process-local.
type RedisCache struct {
	client *redis.Client
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Compile-time verification that RedisCache implements ArtifactCache.
var _ ArtifactCache = (*RedisCache)(nil)

// NewRedisCache creates a Redis-backed artifact cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a cached value. Returns nil, nil on miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	c.hits.Add(1)
	return data, nil
}

// Set stores a value with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Has reports whether an entry exists. Redis handles expiry itself.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Invalidate removes one entry.
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// InvalidatePrefix removes every entry whose key starts with prefix.
// Uses SCAN rather than KEYS to avoid blocking the server on large keyspaces.
func (c *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Clear removes all entries under the cache prefix and resets counters.
func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.InvalidatePrefix(ctx, ""); err != nil {
		return err
	}
	c.hits.Store(0)
	c.misses.Store(0)
	return nil
}

// Stats reports size (by prefix scan) and process-local counters.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	var size int
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		size++
	}
	if err := iter.Err(); err != nil {
		return Stats{}, fmt.Errorf("redis scan: %w", err)
	}

	hits := c.hits.Load()
	misses := c.misses.Load()
	return Stats{
		Size:    size,
		Hits:    hits,
		Misses:  misses,
		HitRate: computeHitRate(hits, misses),
	}, nil
}
