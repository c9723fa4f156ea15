package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// ArtifactCache is the disposable accelerator in front of the persistent
// store. Entries may vanish at any time; a miss is never an error and the
// store remains authoritative.
//
// Get returns nil, nil on a miss. Invalidation of an absent key is a no-op.
type ArtifactCache interface {
	// Get retrieves a cached value. Returns nil, nil on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL, overwriting any prior entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Has reports whether a non-expired entry exists for the key.
	Has(ctx context.Context, key string) (bool, error)

	// Invalidate removes one entry. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error

	// InvalidatePrefix removes every entry whose key starts with prefix.
	// Used by bulk artifact deletion so store and cache stay in step.
	InvalidatePrefix(ctx context.Context, prefix string) error

	// Clear removes all entries and resets hit/miss counters.
	Clear(ctx context.Context) error

	// Stats reports current size and hit/miss counters.
	Stats(ctx context.Context) (Stats, error)
}

// Stats describes cache effectiveness.
type Stats struct {
	Size    int     `json:"size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

func computeHitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Cache key construction lives here so keys cannot drift between the
// services that populate the cache and the ones that invalidate it.

// ArtifactKey builds the cache key for a per-subject artifact.
func ArtifactKey(kind model.ArtifactKind, subjectID int64, language string) string {
	return fmt.Sprintf("artifact:%s:%d:%s", kind, subjectID, language)
}

// ArtifactKindPrefix builds the invalidation prefix covering every cached
// artifact of one kind.
func ArtifactKindPrefix(kind model.ArtifactKind) string {
	return fmt.Sprintf("artifact:%s:", kind)
}

// CumulativeKey builds the cache key for a cumulative artifact.
func CumulativeKey(subjectID int64, language string) string {
	return fmt.Sprintf("cumulative:%d:%s", subjectID, language)
}

// CumulativePrefix is the invalidation prefix covering every cached
// cumulative artifact.
const CumulativePrefix = "cumulative:"
