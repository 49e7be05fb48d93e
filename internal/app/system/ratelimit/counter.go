// internal/app/system/ratelimit/counter.go
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is an attempt counter shared between processes.
type Counter interface {
	// Incr adds one to key and returns the new count. The first hit
	// starts a window of ttl after which the key expires.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Del forgets key.
	Del(ctx context.Context, key string) error
}

// RedisCounter keeps counts in Redis with INCR and EXPIRE.
type RedisCounter struct {
	redis *redis.Client
}

// NewRedisCounter wraps client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{redis: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (c *RedisCounter) Del(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}
