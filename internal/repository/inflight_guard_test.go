package repository

import (
	"context"
	"testing"
	"time"
)

func TestMemoryInflightGuard(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryInflightGuard().(*memoryInflightGuard)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	ok, err := g.Acquire(ctx, "s1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := g.Acquire(ctx, "s1", time.Minute); ok {
		t.Fatal("second acquire for same session should fail")
	}
	if ok, _ := g.Acquire(ctx, "s2", time.Minute); !ok {
		t.Fatal("other session should acquire")
	}

	if err := g.Release(ctx, "s1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := g.Acquire(ctx, "s1", time.Minute); !ok {
		t.Fatal("acquire after release should succeed")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := g.Acquire(ctx, "s2", time.Minute); !ok {
		t.Fatal("expired hold should be replaced")
	}
}

func TestNoopCompletionCache(t *testing.T) {
	c := NewCompletionCache(nil)
	if err := c.Set(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Fatalf("noop cache returned ok=%v err=%v", ok, err)
	}
}
