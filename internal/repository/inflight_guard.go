package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const inflightPrefix = "intake:inflight:"

// InflightGuard allows one outstanding completion request per intake session.
type InflightGuard interface {
	// Acquire reports false when the session already holds the guard.
	Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type redisInflightGuard struct {
	client *redis.Client
}

// NewInflightGuard returns a Redis-backed guard shared by all instances, or a
// process-local guard when client is nil.
func NewInflightGuard(client *redis.Client) InflightGuard {
	if client == nil {
		return NewMemoryInflightGuard()
	}
	return &redisInflightGuard{client: client}
}

func (g *redisInflightGuard) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, inflightPrefix+sessionID, 1, ttl).Result()
}

func (g *redisInflightGuard) Release(ctx context.Context, sessionID string) error {
	return g.client.Del(ctx, inflightPrefix+sessionID).Err()
}

type memoryInflightGuard struct {
	mu      sync.Mutex
	holders map[string]time.Time
	now     func() time.Time
}

// NewMemoryInflightGuard builds a process-local guard.
func NewMemoryInflightGuard() InflightGuard {
	return &memoryInflightGuard{holders: make(map[string]time.Time), now: time.Now}
}

func (g *memoryInflightGuard) Acquire(_ context.Context, sessionID string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if expires, ok := g.holders[sessionID]; ok && now.Before(expires) {
		return false, nil
	}
	g.holders[sessionID] = now.Add(ttl)
	return true, nil
}

func (g *memoryInflightGuard) Release(_ context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.holders, sessionID)
	return nil
}
