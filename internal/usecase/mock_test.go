package usecase

import (
	"context"
	"io"

	"github.com/hszk-dev/studystream/internal/captions"
	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/generator"
)

// mockSubjectRepository provides a configurable mock for SubjectRepository.
type mockSubjectRepository struct {
	getByIDFn           func(ctx context.Context, id int64) (*model.Subject, error)
	getSeriesSubjectsFn func(ctx context.Context, seriesID int64) ([]*model.Subject, error)
}

func (m *mockSubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrSubjectNotFound
}

func (m *mockSubjectRepository) GetSeriesSubjects(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
	if m.getSeriesSubjectsFn != nil {
		return m.getSeriesSubjectsFn(ctx, seriesID)
	}
	return nil, nil
}

// mockTranscriptRepository provides a configurable mock for TranscriptRepository.
type mockTranscriptRepository struct {
	getFn             func(ctx context.Context, subjectID int64, language string) (*model.Transcript, error)
	upsertFn          func(ctx context.Context, transcript *model.Transcript) error
	deleteFn          func(ctx context.Context, subjectID int64, language string) error
	deleteBySubjectFn func(ctx context.Context, subjectID int64) (int64, error)
}

func (m *mockTranscriptRepository) Get(ctx context.Context, subjectID int64, language string) (*model.Transcript, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID, language)
	}
	return nil, repository.ErrTranscriptNotFound
}

func (m *mockTranscriptRepository) Upsert(ctx context.Context, transcript *model.Transcript) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, transcript)
	}
	return nil
}

func (m *mockTranscriptRepository) Delete(ctx context.Context, subjectID int64, language string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subjectID, language)
	}
	return nil
}

func (m *mockTranscriptRepository) DeleteBySubject(ctx context.Context, subjectID int64) (int64, error) {
	if m.deleteBySubjectFn != nil {
		return m.deleteBySubjectFn(ctx, subjectID)
	}
	return 0, nil
}

// mockArtifactRepository provides a configurable mock for ArtifactRepository.
type mockArtifactRepository struct {
	getFn              func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*model.Artifact, error)
	upsertFn           func(ctx context.Context, artifact *model.Artifact) error
	updateModerationFn func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error
	deleteFn           func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error
	deleteAllFn        func(ctx context.Context, kind model.ArtifactKind) (int64, error)
}

func (m *mockArtifactRepository) Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*model.Artifact, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID, language, kind)
	}
	return nil, repository.ErrArtifactNotFound
}

func (m *mockArtifactRepository) Upsert(ctx context.Context, artifact *model.Artifact) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, artifact)
	}
	return nil
}

func (m *mockArtifactRepository) UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error {
	if m.updateModerationFn != nil {
		return m.updateModerationFn(ctx, subjectID, language, kind, update)
	}
	return nil
}

func (m *mockArtifactRepository) Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subjectID, language, kind)
	}
	return nil
}

func (m *mockArtifactRepository) DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx, kind)
	}
	return 0, nil
}

// mockCumulativeRepository provides a configurable mock for CumulativeRepository.
type mockCumulativeRepository struct {
	getFn              func(ctx context.Context, subjectID int64, language string) (*model.CumulativeArtifact, error)
	upsertFn           func(ctx context.Context, artifact *model.CumulativeArtifact) error
	updateModerationFn func(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error
	deleteFn           func(ctx context.Context, subjectID int64, language string) error
	deleteAllFn        func(ctx context.Context) (int64, error)
}

func (m *mockCumulativeRepository) Get(ctx context.Context, subjectID int64, language string) (*model.CumulativeArtifact, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID, language)
	}
	return nil, repository.ErrCumulativeNotFound
}

func (m *mockCumulativeRepository) Upsert(ctx context.Context, artifact *model.CumulativeArtifact) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, artifact)
	}
	return nil
}

func (m *mockCumulativeRepository) UpdateModeration(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error {
	if m.updateModerationFn != nil {
		return m.updateModerationFn(ctx, subjectID, language, update)
	}
	return nil
}

func (m *mockCumulativeRepository) Delete(ctx context.Context, subjectID int64, language string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subjectID, language)
	}
	return nil
}

func (m *mockCumulativeRepository) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

// mockGenerator provides a configurable mock for generator.Generator.
type mockGenerator struct {
	generateFn func(ctx context.Context, req generator.Request) (*generator.Result, error)
	calls      int
}

func (m *mockGenerator) Generate(ctx context.Context, req generator.Request) (*generator.Result, error) {
	m.calls++
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return &generator.Result{Model: "gpt-4o-mini"}, nil
}

// mockGenerationQueue provides a configurable mock for GenerationQueue.
type mockGenerationQueue struct {
	publishFn func(ctx context.Context, task repository.GenerationTask) error
	consumeFn func(ctx context.Context, handler func(task repository.GenerationTask) error) error
	statsFn   func(ctx context.Context) (repository.QueueStats, error)
}

func (m *mockGenerationQueue) PublishGenerationTask(ctx context.Context, task repository.GenerationTask) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockGenerationQueue) ConsumeGenerationTasks(ctx context.Context, handler func(task repository.GenerationTask) error) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, handler)
	}
	return nil
}

func (m *mockGenerationQueue) Stats(ctx context.Context) (repository.QueueStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return repository.QueueStats{}, nil
}

func (m *mockGenerationQueue) Close() error {
	return nil
}

// mockCaptionStorage provides a configurable mock for CaptionStorage.
type mockCaptionStorage struct {
	uploadFn   func(ctx context.Context, key string, reader io.Reader, contentType string) error
	downloadFn func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn   func(ctx context.Context, key string) error
	existsFn   func(ctx context.Context, key string) (bool, error)
}

func (m *mockCaptionStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, contentType)
	}
	return nil
}

func (m *mockCaptionStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, repository.ErrObjectNotFound
}

func (m *mockCaptionStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockCaptionStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockExtractor provides a configurable mock for captions.Extractor.
type mockExtractor struct {
	extractFn func(r io.Reader, format captions.Format) (string, error)
}

func (m *mockExtractor) Extract(r io.Reader, format captions.Format) (string, error) {
	if m.extractFn != nil {
		return m.extractFn(r, format)
	}
	return "", nil
}

// mockArtifactService provides a configurable mock for ArtifactService.
type mockArtifactService struct {
	getOrGenerateFn func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, force bool) (*ArtifactResult, error)
}

func (m *mockArtifactService) GetOrGenerate(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, force bool) (*ArtifactResult, error) {
	if m.getOrGenerateFn != nil {
		return m.getOrGenerateFn(ctx, subjectID, language, kind, force)
	}
	return &ArtifactResult{Artifact: &model.Artifact{}, Source: SourceFresh}, nil
}

func (m *mockArtifactService) Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*ArtifactResult, error) {
	return nil, repository.ErrArtifactNotFound
}

func (m *mockArtifactService) UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error {
	return nil
}

func (m *mockArtifactService) Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error {
	return nil
}

func (m *mockArtifactService) DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error) {
	return 0, nil
}

// mockCumulativeService provides a configurable mock for CumulativeService.
type mockCumulativeService struct {
	generateCumulativeFn func(ctx context.Context, subjectID int64, language string, force bool) (*CumulativeResult, error)
}

func (m *mockCumulativeService) GenerateCumulative(ctx context.Context, subjectID int64, language string, force bool) (*CumulativeResult, error) {
	if m.generateCumulativeFn != nil {
		return m.generateCumulativeFn(ctx, subjectID, language, force)
	}
	return &CumulativeResult{Artifact: &model.CumulativeArtifact{}, Source: SourceFresh}, nil
}

func (m *mockCumulativeService) Get(ctx context.Context, subjectID int64, language string) (*CumulativeResult, error) {
	return nil, repository.ErrCumulativeNotFound
}

func (m *mockCumulativeService) UpdateModeration(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error {
	return nil
}

func (m *mockCumulativeService) Delete(ctx context.Context, subjectID int64, language string) error {
	return nil
}

func (m *mockCumulativeService) DeleteAll(ctx context.Context) (int64, error) {
	return 0, nil
}
