// Package embcache caches query embeddings behind the Embedder contract.
package embcache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Cache stores serialized embeddings. Implementations are owned by one
// embedder instance each — never a package-level singleton — so every
// pipeline or test run can construct its own isolated cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// MemoryCache is a fixed-capacity in-process LRU with per-entry TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates an LRU cache. capacity <= 0 defaults to 1024 entries.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](capacity, nil, ttl)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return c.lru.Get(key)
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	c.lru.Add(key, value)
}

// RedisCache stores embeddings in Redis with a TTL, for cache reuse across
// process restarts and replicas.
type RedisCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get implements Cache. Store errors degrade to a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("Failed to read cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Set implements Cache. Store errors are logged, not surfaced — caching is
// best effort.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	cmd := c.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).
		Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

// NewRedisClient connects a rueidis client for the cache driver.
func NewRedisClient(addrs []string, password string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: addrs,
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis cache: %w", err)
	}
	return client, nil
}
