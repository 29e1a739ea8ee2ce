package ratelimit

import (
	"context"
	"time"
)

type redisCounter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	RateLimitKey(scope string) string
}

// RedisStore applies a fixed-window count in Redis so limits hold across API
// instances. The window boundary is set by the key's TTL.
type RedisStore struct {
	client redisCounter
}

// NewRedisStore wraps the shared Redis client as a limiter Store.
func NewRedisStore(client redisCounter) *RedisStore {
	return &RedisStore{client: client}
}

// Allow implements Store.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	fullKey := s.client.RateLimitKey(key)

	count, err := s.client.IncrWithTTL(ctx, fullKey, window)
	if err != nil {
		return Result{}, err
	}

	resetAfter := window
	if ttl, ttlErr := s.client.TTL(ctx, fullKey); ttlErr == nil && ttl > 0 {
		resetAfter = ttl
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:    count <= int64(limit),
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}, nil
}
