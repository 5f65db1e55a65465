// Package runcache provides a Redis-backed implementation of
// [github.com/matzehuels/swarmcheck/pkg/cache.Cache], the production
// counterpart to the CLI's file cache: internal/cli builds it for every
// command, "serve" included, when the configured cache backend is "redis",
// so that cached Check/Data[T] results are shared across multiple server
// instances.
package runcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/swarmcheck/pkg/cache"
)

// Cache is a Redis-backed [cache.Cache]. Zero value is not usable; build
// one with [New].
type Cache struct {
	client *redis.Client
}

// Config configures a Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New dials addr and returns a ready-to-use Cache. It pings the server once
// to fail fast on a bad connection string rather than deferring the error
// to the first Get/Set call.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Cache{client: client}, nil
}

// Get returns the cached bytes for key, or hit=false on a miss. An expired
// Redis key surfaces as redis.Nil, translated to a plain miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data under key with the given TTL. A zero TTL means no
// expiration, matching redis.Client.Set's convention.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ensure Cache implements cache.Cache.
var _ cache.Cache = (*Cache)(nil)
