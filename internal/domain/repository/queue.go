package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// GenerationTask represents a deferred artifact-generation job message.
type GenerationTask struct {
	JobID      uuid.UUID          `json:"job_id"`
	Kind       model.ArtifactKind `json:"kind"`
	SubjectID  int64              `json:"subject_id,string"`
	Language   string             `json:"language"`
	Force      bool               `json:"force"`
	RetryCount int                `json:"retry_count"`
}

// Task kinds accepted on the generation queue. Cumulative regeneration rides
// the same queue as the per-subject kinds.
const TaskKindCumulative model.ArtifactKind = "cumulative"

// QueueStats reports the observable state of the generation queue.
// Waiting and Active come from the broker; Completed and Failed are
// process-local worker counters (the broker does not retain them).
type QueueStats struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// GenerationQueue defines the optional deferred-execution collaborator.
// The system must function with this collaborator entirely absent: callers
// hold a nil interface in degraded mode and fall back to synchronous
// generation, and queue-dependent endpoints report unavailable.
type GenerationQueue interface {
	// PublishGenerationTask sends a generation task to the queue.
	PublishGenerationTask(ctx context.Context, task GenerationTask) error

	// ConsumeGenerationTasks starts consuming tasks from the queue.
	// The handler is called for each received task; a handler error triggers
	// a republish with an incremented retry count.
	ConsumeGenerationTasks(ctx context.Context, handler func(task GenerationTask) error) error

	// Stats reports current queue depth and worker counters.
	Stats(ctx context.Context) (QueueStats, error)

	// Close gracefully closes the connection to the message queue.
	Close() error
}
