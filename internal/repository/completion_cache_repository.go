package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const completionCachePrefix = "intake:completion:"

// CompletionCache keeps successful upstream bodies keyed by notes fingerprint.
type CompletionCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

type redisCompletionCache struct {
	client *redis.Client
}

// NewCompletionCache returns a Redis-backed cache, or a no-op cache when client is nil.
func NewCompletionCache(client *redis.Client) CompletionCache {
	if client == nil {
		return noopCompletionCache{}
	}
	return &redisCompletionCache{client: client}
}

func (c *redisCompletionCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, completionCachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (c *redisCompletionCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, completionCachePrefix+key, body, ttl).Err()
}

type noopCompletionCache struct{}

func (noopCompletionCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (noopCompletionCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
