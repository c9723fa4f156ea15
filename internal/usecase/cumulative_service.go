package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/infrastructure/cache"
	"github.com/hszk-dev/studystream/internal/infrastructure/metrics"
)

// ErrEmptySeries is returned when a cumulative quiz is requested for a series
// with no eligible members. The target subject itself is always ready and in
// the series when this point is reached, so this guards an invariant rather
// than an expected state.
var ErrEmptySeries = errors.New("series has no eligible members")

// CumulativeResult pairs a cumulative artifact with its provenance.
type CumulativeResult struct {
	Artifact *model.CumulativeArtifact
	Source   Source
}

// CumulativeService composes per-subject quizzes into cumulative quizzes
// covering a series prefix.
type CumulativeService interface {
	// GenerateCumulative returns the cumulative quiz for (subjectID,
	// language), rebuilding it when forced or when the stored membership
	// snapshot no longer matches current series membership.
	GenerateCumulative(ctx context.Context, subjectID int64, language string, force bool) (*CumulativeResult, error)

	// Get returns the stored cumulative quiz without any staleness check or
	// rebuild.
	Get(ctx context.Context, subjectID int64, language string) (*CumulativeResult, error)

	// UpdateModeration applies a partial moderation mutation and invalidates
	// the cached copy.
	UpdateModeration(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error

	// Delete removes one cumulative quiz from store and cache.
	Delete(ctx context.Context, subjectID int64, language string) error

	// DeleteAll removes every cumulative quiz and invalidates the cache
	// prefix. Returns the store row count.
	DeleteAll(ctx context.Context) (int64, error)
}

// CumulativeServiceConfig holds configuration for CumulativeService.
type CumulativeServiceConfig struct {
	// CacheTTL is the TTL for cached cumulative quizzes. Much longer than
	// per-subject TTLs: recomputation cost grows with series length and the
	// membership snapshot check catches staleness regardless.
	CacheTTL time.Duration
	// MemberFetchConcurrency bounds concurrent per-member quiz reads.
	MemberFetchConcurrency int
}

// DefaultCumulativeServiceConfig returns the default configuration.
func DefaultCumulativeServiceConfig() CumulativeServiceConfig {
	return CumulativeServiceConfig{
		CacheTTL:               72 * time.Hour,
		MemberFetchConcurrency: 4,
	}
}

type cumulativeService struct {
	subjects    repository.SubjectRepository
	series      SeriesService
	artifacts   repository.ArtifactRepository
	cumulatives repository.CumulativeRepository
	cache       cache.ArtifactCache

	cacheTTL    time.Duration
	concurrency int
}

// NewCumulativeService creates a new CumulativeService instance.
func NewCumulativeService(
	subjects repository.SubjectRepository,
	series SeriesService,
	artifacts repository.ArtifactRepository,
	cumulatives repository.CumulativeRepository,
	artifactCache cache.ArtifactCache,
	cfg CumulativeServiceConfig,
) CumulativeService {
	concurrency := cfg.MemberFetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &cumulativeService{
		subjects:    subjects,
		series:      series,
		artifacts:   artifacts,
		cumulatives: cumulatives,
		cache:       artifactCache,
		cacheTTL:    cfg.CacheTTL,
		concurrency: concurrency,
	}
}

// GenerateCumulative resolves current membership first, then validates cached
// and stored copies against it by set comparison. Order differences alone do
// not invalidate: the snapshot records what was merged, not how the list was
// sorted at the time.
func (s *cumulativeService) GenerateCumulative(ctx context.Context, subjectID int64, language string, force bool) (*CumulativeResult, error) {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsReady() || !subject.InSeries() {
		return nil, repository.ErrSubjectNotFound
	}

	members, err := s.series.MembersUpTo(ctx, *subject.SeriesID, subjectID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrEmptySeries
	}

	memberIDs := make([]int64, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	key := cache.CumulativeKey(subjectID, lang)
	if !force {
		if cached := s.cacheGet(ctx, key); cached != nil && cached.SameMembership(memberIDs) {
			return &CumulativeResult{Artifact: cached, Source: SourceCached}, nil
		}

		stored, err := s.cumulatives.Get(ctx, subjectID, lang)
		if err == nil && stored.SameMembership(memberIDs) {
			s.cacheSet(ctx, key, stored)
			return &CumulativeResult{Artifact: stored, Source: SourceStore}, nil
		}
		if err != nil && !errors.Is(err, repository.ErrCumulativeNotFound) {
			return nil, err
		}
	}

	composeStart := time.Now()
	artifact, err := s.compose(ctx, subject, members, memberIDs, lang)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(metrics.GenerationKindCumulative, metrics.GenerationStatusError).Inc()
		return nil, err
	}
	metrics.GenerationsTotal.WithLabelValues(metrics.GenerationKindCumulative, metrics.GenerationStatusSuccess).Inc()
	metrics.GenerationDuration.WithLabelValues(metrics.GenerationKindCumulative).Observe(time.Since(composeStart).Seconds())

	if err := s.cumulatives.Upsert(ctx, artifact); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, artifact)

	return &CumulativeResult{Artifact: artifact, Source: SourceFresh}, nil
}

// compose fetches each member's quiz and merges the question lists in member
// order. Reads are dispatched concurrently but reassembled by index, so
// completion order never affects output order.
func (s *cumulativeService) compose(ctx context.Context, subject *model.Subject, members []model.SeriesMember, memberIDs []int64, lang string) (*model.CumulativeArtifact, error) {
	start := time.Now()

	quizzes := make([]*model.Artifact, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, member := range members {
		g.Go(func() error {
			quiz, err := s.artifacts.Get(gctx, member.ID, lang, model.KindQuiz)
			if err != nil {
				if errors.Is(err, repository.ErrArtifactNotFound) {
					// A member without a quiz contributes zero questions.
					// No on-demand generation here: one slow member would
					// stall the whole merge.
					slog.Warn("series member has no quiz, contributing zero questions",
						"subject_id", member.ID,
						"language", lang,
						"position", member.Position,
					)
					metrics.CumulativeMissingMembersTotal.Inc()
					return nil
				}
				return err
			}
			quizzes[i] = quiz
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Question
	modelName := ""
	for i, member := range members {
		quiz := quizzes[i]
		if quiz == nil {
			continue
		}
		if modelName == "" {
			modelName = quiz.Model
		}
		for _, q := range quiz.Questions {
			q.VideoContext = &model.VideoContext{
				SubjectID:   member.ID,
				VideoTitle:  member.Title,
				VideoNumber: member.Position,
				Timestamp:   q.Timestamp,
			}
			merged = append(merged, q)
		}
	}

	return &model.CumulativeArtifact{
		SubjectID:          subject.ID,
		Language:           lang,
		SeriesID:           *subject.SeriesID,
		Questions:          merged,
		IncludedSubjectIDs: memberIDs,
		SubjectCount:       len(memberIDs),
		Model:              modelName,
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
	}, nil
}

// Get reads cache then store with no membership validation.
func (s *cumulativeService) Get(ctx context.Context, subjectID int64, language string) (*CumulativeResult, error) {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	key := cache.CumulativeKey(subjectID, lang)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return &CumulativeResult{Artifact: cached, Source: SourceCached}, nil
	}

	stored, err := s.cumulatives.Get(ctx, subjectID, lang)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, stored)

	return &CumulativeResult{Artifact: stored, Source: SourceStore}, nil
}

func (s *cumulativeService) UpdateModeration(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return err
	}

	if err := s.cumulatives.UpdateModeration(ctx, subjectID, lang, update); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, cache.CumulativeKey(subjectID, lang)); err != nil {
		slog.Warn("failed to invalidate cumulative cache entry", "subject_id", subjectID, "error", err)
	}

	return nil
}

func (s *cumulativeService) Delete(ctx context.Context, subjectID int64, language string) error {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return err
	}

	if err := s.cumulatives.Delete(ctx, subjectID, lang); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, cache.CumulativeKey(subjectID, lang)); err != nil {
		slog.Warn("failed to invalidate cumulative cache entry", "subject_id", subjectID, "error", err)
	}

	return nil
}

func (s *cumulativeService) DeleteAll(ctx context.Context) (int64, error) {
	count, err := s.cumulatives.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.InvalidatePrefix(ctx, cache.CumulativePrefix); err != nil {
		slog.Warn("failed to invalidate cumulative cache prefix", "error", err)
	}

	return count, nil
}

func (s *cumulativeService) cacheGet(ctx context.Context, key string) *model.CumulativeArtifact {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cumulative cache get failed, falling back to store", "key", key, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}

	artifact, err := cache.DecodeCumulative(data)
	if err != nil {
		slog.Warn("cached cumulative artifact is corrupt, invalidating", "key", key, "error", err)
		_ = s.cache.Invalidate(ctx, key)
		return nil
	}

	return artifact
}

func (s *cumulativeService) cacheSet(ctx context.Context, key string, artifact *model.CumulativeArtifact) {
	data, err := cache.EncodeCumulative(artifact)
	if err != nil {
		slog.Warn("failed to encode cumulative artifact for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		slog.Warn("failed to cache cumulative artifact", "key", key, "error", err)
	}
}
