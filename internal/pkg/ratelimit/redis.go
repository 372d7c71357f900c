// internal/pkg/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the shared-store variant for multi-instance deployments:
// INCR plus EXPIRE on first hit gives a fixed window consistent across
// processes.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	limit  int64
}

func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, window: window, limit: limit}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:api:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("increment rate limit: %w", err)
	}

	// Set expiration on first hit in the window
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}

	return count <= l.limit, nil
}
