package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/outfitplanner/backend/internal/domain"
)

const redisKeyPrefix = "outfitplanner:products:"

// cacheEntry is the persisted shape of a result set
type cacheEntry struct {
	Query     string           `json:"query"`
	Results   []domain.Listing `json:"results"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// RedisCache stores result sets in Redis. Redis reaps expired keys on its own;
// ExpiresAt is still checked on read so a lagging reaper never serves stale data.
type RedisCache struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisCache connects to the Redis instance at redisURL (redis://host:port/db)
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return NewRedisCacheWithClient(client), nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, now: time.Now}
}

// Get retrieves a result set. Corrupt payloads are deleted and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) ([]domain.Listing, error) {
	key := redisKeyPrefix + fingerprint

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return nil, domain.ErrCacheMiss
	}

	if c.now().After(entry.ExpiresAt) {
		_ = c.client.Del(ctx, key).Err()
		return nil, domain.ErrCacheMiss
	}

	if entry.Results == nil {
		entry.Results = []domain.Listing{}
	}
	return entry.Results, nil
}

// Set upserts a result set with the given TTL
func (c *RedisCache) Set(ctx context.Context, fingerprint string, listings []domain.Listing, ttl time.Duration) error {
	entry := cacheEntry{
		Query:     fingerprint,
		Results:   listings,
		ExpiresAt: c.now().Add(ttl),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+fingerprint, raw, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a result set
func (c *RedisCache) Delete(ctx context.Context, fingerprint string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close closes the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
