package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

// JobService submits deferred generation tasks and processes them on the
// worker side. The queue is an optional collaborator: with a nil queue the
// service runs in degraded mode and Submit/Stats report ErrQueueUnavailable
// while synchronous generation keeps working.
type JobService struct {
	queue      repository.GenerationQueue // nil in degraded mode
	artifacts  ArtifactService
	cumulative CumulativeService
}

// NewJobService creates a new JobService. queue may be nil.
func NewJobService(queue repository.GenerationQueue, artifacts ArtifactService, cumulative CumulativeService) *JobService {
	return &JobService{
		queue:      queue,
		artifacts:  artifacts,
		cumulative: cumulative,
	}
}

// Available reports whether the deferred-execution collaborator is configured.
func (s *JobService) Available() bool {
	return s.queue != nil
}

// Submit enqueues a generation task and returns its job ID.
func (s *JobService) Submit(ctx context.Context, kind model.ArtifactKind, subjectID int64, language string, force bool) (uuid.UUID, error) {
	if s.queue == nil {
		return uuid.Nil, repository.ErrQueueUnavailable
	}
	if !kind.IsValid() && kind != repository.TaskKindCumulative {
		return uuid.Nil, model.ErrInvalidArtifactKind
	}
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return uuid.Nil, err
	}

	task := repository.GenerationTask{
		JobID:     uuid.New(),
		Kind:      kind,
		SubjectID: subjectID,
		Language:  lang,
		Force:     force,
	}
	if err := s.queue.PublishGenerationTask(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("submit generation task: %w", err)
	}

	slog.Info("generation task submitted",
		"job_id", task.JobID,
		"kind", task.Kind,
		"subject_id", model.FormatSubjectID(subjectID),
		"language", lang,
	)

	return task.JobID, nil
}

// Stats reports queue depth and worker counters.
func (s *JobService) Stats(ctx context.Context) (repository.QueueStats, error) {
	if s.queue == nil {
		return repository.QueueStats{}, repository.ErrQueueUnavailable
	}
	return s.queue.Stats(ctx)
}

// Run consumes generation tasks until the context is cancelled.
// Called by the worker process, never by the API.
func (s *JobService) Run(ctx context.Context) error {
	if s.queue == nil {
		return repository.ErrQueueUnavailable
	}
	return s.queue.ConsumeGenerationTasks(ctx, func(task repository.GenerationTask) error {
		return s.Process(ctx, task)
	})
}

// Process executes one generation task.
func (s *JobService) Process(ctx context.Context, task repository.GenerationTask) error {
	slog.Info("processing generation task",
		"job_id", task.JobID,
		"kind", task.Kind,
		"subject_id", model.FormatSubjectID(task.SubjectID),
		"language", task.Language,
		"retry_count", task.RetryCount,
	)

	var err error
	switch task.Kind {
	case model.KindSummary, model.KindQuiz:
		_, err = s.artifacts.GetOrGenerate(ctx, task.SubjectID, task.Language, task.Kind, task.Force)
	case repository.TaskKindCumulative:
		_, err = s.cumulative.GenerateCumulative(ctx, task.SubjectID, task.Language, task.Force)
	default:
		// Unknown kinds fail permanently; retrying cannot fix them.
		slog.Error("dropping generation task with unknown kind", "job_id", task.JobID, "kind", task.Kind)
		return nil
	}
	if err != nil {
		return fmt.Errorf("job %s: %w", task.JobID, err)
	}

	return nil
}
