package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTestRedisURL is used when HUB_TEST_REDIS_URL is unset.
const DefaultTestRedisURL = "redis://localhost:6379/15"

// SetupTestRedis returns a Redis client and a key prefix unique to t.
// Keys under the prefix are deleted when t finishes. The test is skipped
// when Redis is unreachable.
func SetupTestRedis(t *testing.T) (*redis.Client, string) {
	t.Helper()

	url := os.Getenv("HUB_TEST_REDIS_URL")
	if url == "" {
		url = DefaultTestRedisURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("bad HUB_TEST_REDIS_URL: %v", err)
	}
	opts.DialTimeout = 2 * time.Second
	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		t.Skipf("redis not available (set HUB_TEST_REDIS_URL): %v", err)
	}

	prefix := "hubtest:" + unsafeDBChars.ReplaceAllString(t.Name(), "_") + ":"
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		iter := c.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			c.Del(ctx, iter.Val())
		}
		_ = c.Close()
	})
	return c, prefix
}
