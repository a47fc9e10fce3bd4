package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepo implements ports.CacheRepository using Redis.
type CacheRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewCacheRepo creates a CacheRepo. Keys are namespaced under prefix.
func NewCacheRepo(client redis.UniversalClient, prefix string) *CacheRepo {
	return &CacheRepo{client: client, prefix: prefix}
}

// Set stores a value with the given TTL; zero TTL never expires.
func (r *CacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get retrieves a value by key, returning nil when the key is absent.
func (r *CacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	result, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return result, nil
}

// Delete removes a key and reports whether it existed.
func (r *CacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}

	result, err := r.client.Del(ctx, r.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return result > 0, nil
}

// Health checks the health of the Redis connection.
func (r *CacheRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
