package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGetRoundTrip(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k1", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out map[string]string
	found, err := c.Get(ctx, "k1", &out)
	if err != nil || !found {
		t.Fatalf("expected a hit, got found=%v err=%v", found, err)
	}
	if out["a"] != "b" {
		t.Fatalf("expected decoded value, got %v", out)
	}
}

func TestMemoryCacheExpiresByTTL(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_ = c.Set(ctx, "k1", "v", 5*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	var out string
	found, err := c.Get(ctx, "k1", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryCacheInvalidatePattern(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_ = c.Set(ctx, "employee:1:profile", "a", time.Minute)
	_ = c.Set(ctx, "employee:2:profile", "b", time.Minute)
	_ = c.Set(ctx, "shift:1", "c", time.Minute)

	if err := c.InvalidatePattern(ctx, "employee:*"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out string
	if found, _ := c.Get(ctx, "employee:1:profile", &out); found {
		t.Fatal("employee:1:profile should have been invalidated")
	}
	if found, _ := c.Get(ctx, "employee:2:profile", &out); found {
		t.Fatal("employee:2:profile should have been invalidated")
	}
	if found, _ := c.Get(ctx, "shift:1", &out); !found {
		t.Fatal("shift:1 should be unaffected by the employee:* pattern")
	}
}

func TestMemoryCacheStatsTrackHitsAndMisses(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	var out string
	_, _ = c.Get(ctx, "missing", &out) // miss
	_ = c.Set(ctx, "present", "v", time.Minute)
	_, _ = c.Get(ctx, "present", &out) // hit

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}
