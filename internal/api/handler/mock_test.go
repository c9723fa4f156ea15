package handler

import (
	"context"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/usecase"
)

// Mock ArtifactService

type mockArtifactService struct {
	getOrGenerateFn    func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, force bool) (*usecase.ArtifactResult, error)
	getFn              func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*usecase.ArtifactResult, error)
	updateModerationFn func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error
	deleteFn           func(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error
	deleteAllFn        func(ctx context.Context, kind model.ArtifactKind) (int64, error)
}

func (m *mockArtifactService) GetOrGenerate(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, force bool) (*usecase.ArtifactResult, error) {
	if m.getOrGenerateFn != nil {
		return m.getOrGenerateFn(ctx, subjectID, language, kind, force)
	}
	return nil, repository.ErrArtifactNotFound
}

func (m *mockArtifactService) Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*usecase.ArtifactResult, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID, language, kind)
	}
	return nil, repository.ErrArtifactNotFound
}

func (m *mockArtifactService) UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error {
	if m.updateModerationFn != nil {
		return m.updateModerationFn(ctx, subjectID, language, kind, update)
	}
	return nil
}

func (m *mockArtifactService) Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subjectID, language, kind)
	}
	return nil
}

func (m *mockArtifactService) DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx, kind)
	}
	return 0, nil
}

// Mock CumulativeService

type mockCumulativeService struct {
	generateCumulativeFn func(ctx context.Context, subjectID int64, language string, force bool) (*usecase.CumulativeResult, error)
	getFn                func(ctx context.Context, subjectID int64, language string) (*usecase.CumulativeResult, error)
	updateModerationFn   func(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error
	deleteFn             func(ctx context.Context, subjectID int64, language string) error
	deleteAllFn          func(ctx context.Context) (int64, error)
}

func (m *mockCumulativeService) GenerateCumulative(ctx context.Context, subjectID int64, language string, force bool) (*usecase.CumulativeResult, error) {
	if m.generateCumulativeFn != nil {
		return m.generateCumulativeFn(ctx, subjectID, language, force)
	}
	return nil, repository.ErrCumulativeNotFound
}

func (m *mockCumulativeService) Get(ctx context.Context, subjectID int64, language string) (*usecase.CumulativeResult, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID, language)
	}
	return nil, repository.ErrCumulativeNotFound
}

func (m *mockCumulativeService) UpdateModeration(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error {
	if m.updateModerationFn != nil {
		return m.updateModerationFn(ctx, subjectID, language, update)
	}
	return nil
}

func (m *mockCumulativeService) Delete(ctx context.Context, subjectID int64, language string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subjectID, language)
	}
	return nil
}

func (m *mockCumulativeService) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

// Mock TranscriptService

type mockTranscriptService struct {
	getFn                 func(ctx context.Context, subjectID int64, language string) (*model.Transcript, error)
	uploadFn              func(ctx context.Context, subjectID int64, language, text string) (*model.Transcript, error)
	extractFromCaptionsFn func(ctx context.Context, subjectID int64, language, objectKey string) (*model.Transcript, error)
	deleteFn              func(ctx context.Context, subjectID int64, language string) error
	deleteBySubjectFn     func(ctx context.Context, subjectID int64) (int64, error)
}

func (m *mockTranscriptService) Get(ctx context.Context, subjectID int64, language string) (*model.Transcript, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID, language)
	}
	return nil, repository.ErrTranscriptNotFound
}

func (m *mockTranscriptService) Upload(ctx context.Context, subjectID int64, language, text string) (*model.Transcript, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, subjectID, language, text)
	}
	return nil, nil
}

func (m *mockTranscriptService) ExtractFromCaptions(ctx context.Context, subjectID int64, language, objectKey string) (*model.Transcript, error) {
	if m.extractFromCaptionsFn != nil {
		return m.extractFromCaptionsFn(ctx, subjectID, language, objectKey)
	}
	return nil, nil
}

func (m *mockTranscriptService) Delete(ctx context.Context, subjectID int64, language string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subjectID, language)
	}
	return nil
}

func (m *mockTranscriptService) DeleteBySubject(ctx context.Context, subjectID int64) (int64, error) {
	if m.deleteBySubjectFn != nil {
		return m.deleteBySubjectFn(ctx, subjectID)
	}
	return 0, nil
}

// Mock GenerationQueue, for exercising the async submission path through a
// real JobService.

type mockGenerationQueue struct {
	publishFn func(ctx context.Context, task repository.GenerationTask) error
	statsFn   func(ctx context.Context) (repository.QueueStats, error)
}

func (m *mockGenerationQueue) PublishGenerationTask(ctx context.Context, task repository.GenerationTask) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockGenerationQueue) ConsumeGenerationTasks(ctx context.Context, handler func(task repository.GenerationTask) error) error {
	return nil
}

func (m *mockGenerationQueue) Stats(ctx context.Context) (repository.QueueStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return repository.QueueStats{}, nil
}

func (m *mockGenerationQueue) Close() error { return nil }
