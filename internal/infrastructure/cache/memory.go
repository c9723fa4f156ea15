package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCacheConfig holds configuration for MemoryCache.
type MemoryCacheConfig struct {
	// SweepInterval is how often the background sweeper removes expired
	// entries. Expiry is also checked lazily on Get/Has, so the sweep only
	// bounds memory growth between reads.
	SweepInterval time.Duration
}

// DefaultMemoryCacheConfig returns the default configuration.
func DefaultMemoryCacheConfig() MemoryCacheConfig {
	return MemoryCacheConfig{
		SweepInterval: time.Minute,
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache implements ArtifactCache as a process-local expiring map.
// There is no eviction beyond TTL: growth between sweeps is bounded by the
// short TTLs the services use, not by a size limit.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	hits    uint64
	misses  uint64

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once

	// now is swapped in tests to drive expiry without sleeping.
	now func() time.Time
}

// Compile-time verification that MemoryCache implements ArtifactCache.
var _ ArtifactCache = (*MemoryCache)(nil)

// NewMemoryCache creates a memory cache and starts its background sweeper.
// Call Close to stop the sweeper.
func NewMemoryCache(cfg MemoryCacheConfig) *MemoryCache {
	c := &MemoryCache{
		entries:       make(map[string]memoryEntry),
		sweepInterval: cfg.SweepInterval,
		stop:          make(chan struct{}),
		now:           time.Now,
	}
	if c.sweepInterval > 0 {
		go c.sweepLoop()
	}
	return c
}

// Get retrieves a value, expiring the entry lazily if its TTL has passed.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, nil
	}

	c.hits++
	// Copy so callers cannot mutate the cached bytes.
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value, overwriting any prior entry for the key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Has reports whether a live entry exists. Does not count as a hit or miss.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return false, nil
	}
	return true, nil
}

// Invalidate removes one entry. Absent keys are a no-op.
func (c *MemoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (c *MemoryCache) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Clear removes all entries and resets hit/miss counters.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	c.hits = 0
	c.misses = 0
	return nil
}

// Stats reports current size and counters.
func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: computeHitRate(c.hits, c.misses),
	}, nil
}

// Close stops the background sweeper.
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes every expired entry so memory is reclaimed even for keys
// that are never read again.
func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
