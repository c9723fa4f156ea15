package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/generator"
	"github.com/hszk-dev/studystream/internal/infrastructure/cache"
	"github.com/hszk-dev/studystream/internal/infrastructure/metrics"
)

// Source tags where a returned artifact came from.
type Source string

const (
	SourceCached Source = "cached"
	SourceStore  Source = "store"
	SourceFresh  Source = "fresh"
)

// ArtifactResult pairs an artifact with its provenance.
type ArtifactResult struct {
	Artifact *model.Artifact
	Source   Source
}

// ArtifactService defines the cache-aside engine for per-subject artifacts
// (summaries and quizzes).
type ArtifactService interface {
	// GetOrGenerate returns the artifact for (subjectID, language, kind),
	// consulting cache, then store, then the generator. force bypasses both
	// reads and always regenerates.
	GetOrGenerate(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, force bool) (*ArtifactResult, error)

	// Get returns the artifact without ever invoking the generator.
	Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*ArtifactResult, error)

	// UpdateModeration applies a partial moderation mutation and invalidates
	// the cached copy.
	UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error

	// Delete removes one artifact from store and cache.
	Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error

	// DeleteAll removes every artifact of a kind from the store and
	// invalidates the matching cache prefix. Returns the store row count.
	DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error)
}

// ArtifactServiceConfig holds configuration for ArtifactService.
type ArtifactServiceConfig struct {
	// CacheTTL is the TTL for cached per-subject artifacts.
	CacheTTL time.Duration
	// CacheType labels cache metrics ("memory" or "redis").
	CacheType string
}

// DefaultArtifactServiceConfig returns the default configuration.
func DefaultArtifactServiceConfig() ArtifactServiceConfig {
	return ArtifactServiceConfig{
		CacheTTL:  time.Hour,
		CacheType: metrics.CacheTypeMemory,
	}
}

type artifactService struct {
	subjects    repository.SubjectRepository
	transcripts repository.TranscriptRepository
	artifacts   repository.ArtifactRepository
	gen         generator.Generator
	cache       cache.ArtifactCache
	sfGroup     singleflight.Group

	cacheTTL  time.Duration
	cacheType string
}

// NewArtifactService creates a new ArtifactService instance.
func NewArtifactService(
	subjects repository.SubjectRepository,
	transcripts repository.TranscriptRepository,
	artifacts repository.ArtifactRepository,
	gen generator.Generator,
	artifactCache cache.ArtifactCache,
	cfg ArtifactServiceConfig,
) ArtifactService {
	return &artifactService{
		subjects:    subjects,
		transcripts: transcripts,
		artifacts:   artifacts,
		gen:         gen,
		cache:       artifactCache,
		cacheTTL:    cfg.CacheTTL,
		cacheType:   cfg.CacheType,
	}
}

// GetOrGenerate implements the cache-aside pattern with per-key coalescing.
// Concurrent misses for the same key share one generation instead of racing
// the generator.
func (s *artifactService) GetOrGenerate(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, force bool) (*ArtifactResult, error) {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, model.ErrInvalidArtifactKind
	}

	if force {
		// Bypass reads entirely; every force call pays for its own generation.
		return s.generate(ctx, subjectID, lang, kind)
	}

	key := cache.ArtifactKey(kind, subjectID, lang)
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.lookupOrGenerate(ctx, subjectID, lang, kind, key)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.(*ArtifactResult), nil
}

// Get consults cache then store, never the generator.
func (s *artifactService) Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*ArtifactResult, error) {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, model.ErrInvalidArtifactKind
	}

	key := cache.ArtifactKey(kind, subjectID, lang)
	if artifact := s.cacheGet(ctx, key); artifact != nil {
		return &ArtifactResult{Artifact: artifact, Source: SourceCached}, nil
	}

	artifact, err := s.artifacts.Get(ctx, subjectID, lang, kind)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, artifact)

	return &ArtifactResult{Artifact: artifact, Source: SourceStore}, nil
}

func (s *artifactService) lookupOrGenerate(ctx context.Context, subjectID int64, lang string, kind model.ArtifactKind, key string) (*ArtifactResult, error) {
	if artifact := s.cacheGet(ctx, key); artifact != nil {
		return &ArtifactResult{Artifact: artifact, Source: SourceCached}, nil
	}

	artifact, err := s.artifacts.Get(ctx, subjectID, lang, kind)
	if err == nil {
		s.cacheSet(ctx, key, artifact)
		return &ArtifactResult{Artifact: artifact, Source: SourceStore}, nil
	}
	if !errors.Is(err, repository.ErrArtifactNotFound) {
		return nil, err
	}

	return s.generate(ctx, subjectID, lang, kind)
}

// generate invokes the external generator and writes through store and cache.
// Nothing is written on failure.
func (s *artifactService) generate(ctx context.Context, subjectID int64, lang string, kind model.ArtifactKind) (*ArtifactResult, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsReady() {
		return nil, repository.ErrSubjectNotFound
	}

	transcript, err := s.transcripts.Get(ctx, subjectID, lang)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.gen.Generate(ctx, generator.Request{
		Kind:         kind,
		SubjectID:    subjectID,
		SubjectTitle: subject.Title,
		Language:     lang,
		Transcript:   transcript.Text,
	})
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(kind.String(), metrics.GenerationStatusError).Inc()
		return nil, generator.NewGenerationError(kind.String(), subjectID, lang, err)
	}
	metrics.GenerationsTotal.WithLabelValues(kind.String(), metrics.GenerationStatusSuccess).Inc()
	metrics.GenerationDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())

	artifact := &model.Artifact{
		SubjectID:        subjectID,
		Language:         lang,
		Kind:             kind,
		Summary:          result.Summary,
		Questions:        result.Questions,
		Model:            result.Model,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}

	if err := s.artifacts.Upsert(ctx, artifact); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cache.ArtifactKey(kind, subjectID, lang), artifact)

	return &ArtifactResult{Artifact: artifact, Source: SourceFresh}, nil
}

// cacheGet returns nil on miss and on cache failure. The store is
// authoritative, so a broken cache degrades to slower reads, never wrong data.
func (s *artifactService) cacheGet(ctx context.Context, key string) *model.Artifact {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache get failed, falling back to store", "key", key, "error", err)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, s.cacheType).Inc()
		return nil
	}
	if data == nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, s.cacheType).Inc()
		return nil
	}

	artifact, err := cache.DecodeArtifact(data)
	if err != nil {
		slog.Warn("cached artifact is corrupt, invalidating", "key", key, "error", err)
		_ = s.cache.Invalidate(ctx, key)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, s.cacheType).Inc()
		return nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, s.cacheType).Inc()
	return artifact
}

func (s *artifactService) cacheSet(ctx context.Context, key string, artifact *model.Artifact) {
	data, err := cache.EncodeArtifact(artifact)
	if err != nil {
		slog.Warn("failed to encode artifact for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		slog.Warn("failed to cache artifact", "key", key, "error", err)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, s.cacheType).Inc()
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, s.cacheType).Inc()
}

// UpdateModeration mutates moderation columns and drops the cached copy so
// the next read reflects the mutation.
func (s *artifactService) UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return err
	}
	if !kind.IsValid() {
		return model.ErrInvalidArtifactKind
	}

	if err := s.artifacts.UpdateModeration(ctx, subjectID, lang, kind, update); err != nil {
		return err
	}
	s.invalidate(ctx, cache.ArtifactKey(kind, subjectID, lang))

	return nil
}

// Delete removes one artifact from the store and cache.
func (s *artifactService) Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return err
	}
	if !kind.IsValid() {
		return model.ErrInvalidArtifactKind
	}

	if err := s.artifacts.Delete(ctx, subjectID, lang, kind); err != nil {
		return err
	}
	s.invalidate(ctx, cache.ArtifactKey(kind, subjectID, lang))

	return nil
}

// DeleteAll removes every artifact of a kind. Cache invalidation is part of
// the operation: a bulk store delete with live cache entries would serve
// deleted artifacts until TTL expiry.
func (s *artifactService) DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error) {
	if !kind.IsValid() {
		return 0, model.ErrInvalidArtifactKind
	}

	count, err := s.artifacts.DeleteAll(ctx, kind)
	if err != nil {
		return 0, err
	}
	if err := s.cache.InvalidatePrefix(ctx, cache.ArtifactKindPrefix(kind)); err != nil {
		slog.Warn("failed to invalidate cache prefix after bulk delete", "kind", kind, "error", err)
	}

	return count, nil
}

func (s *artifactService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		slog.Warn("failed to invalidate cache entry", "key", key, "error", err)
	}
}
