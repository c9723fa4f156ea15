package cache

import (
	"context"
	"testing"
	"time"
)

// newTestMemoryCache returns a cache without a sweeper and a function to
// advance its clock.
func newTestMemoryCache() (*MemoryCache, func(d time.Duration)) {
	c := NewMemoryCache(MemoryCacheConfig{SweepInterval: 0})
	current := time.Now()
	c.now = func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return c, advance
}

func TestMemoryCache_SetGet(t *testing.T) {
	c, _ := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryCache_Get_Miss(t *testing.T) {
	c, _ := newTestMemoryCache()
	defer c.Close()

	got, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for cache miss, got %q", got)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c, advance := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	advance(2 * time.Second)

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired entry to miss, got %q", got)
	}

	has, err := c.Has(ctx, "k")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if has {
		t.Error("Has = true for expired entry, want false")
	}
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	c, _ := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("old"), time.Minute)
	_ = c.Set(ctx, "k", []byte("new"), time.Minute)

	got, _ := c.Get(ctx, "k")
	if string(got) != "new" {
		t.Errorf("Get = %q, want %q", got, "new")
	}
}

func TestMemoryCache_InvalidatePrefix(t *testing.T) {
	c, _ := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "artifact:quiz:1:en", []byte("a"), time.Minute)
	_ = c.Set(ctx, "artifact:quiz:2:en", []byte("b"), time.Minute)
	_ = c.Set(ctx, "artifact:summary:1:en", []byte("c"), time.Minute)

	if err := c.InvalidatePrefix(ctx, "artifact:quiz:"); err != nil {
		t.Fatalf("InvalidatePrefix failed: %v", err)
	}

	if got, _ := c.Get(ctx, "artifact:quiz:1:en"); got != nil {
		t.Error("quiz entry survived prefix invalidation")
	}
	if got, _ := c.Get(ctx, "artifact:summary:1:en"); got == nil {
		t.Error("summary entry was removed by unrelated prefix invalidation")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c, _ := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	_, _ = c.Get(ctx, "k")      // hit
	_, _ = c.Get(ctx, "absent") // miss
	_, _ = c.Get(ctx, "absent") // miss

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Size != 1 {
		t.Errorf("Size = %d, want 1", stats.Size)
	}
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("Hits/Misses = %d/%d, want 1/2", stats.Hits, stats.Misses)
	}
	if want := 1.0 / 3.0; stats.HitRate != want {
		t.Errorf("HitRate = %v, want %v", stats.HitRate, want)
	}
}

func TestMemoryCache_Clear_ResetsCounters(t *testing.T) {
	c, _ := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "absent")

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, _ := c.Stats(ctx)
	if stats.Size != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("stats after Clear = %+v, want all zero", stats)
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	c, advance := newTestMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("a"), time.Second)
	_ = c.Set(ctx, "long", []byte("b"), time.Hour)

	advance(2 * time.Second)
	c.sweep()

	stats, _ := c.Stats(ctx)
	if stats.Size != 1 {
		t.Errorf("Size after sweep = %d, want 1", stats.Size)
	}
	if has, _ := c.Has(ctx, "long"); !has {
		t.Error("live entry removed by sweep")
	}
}
