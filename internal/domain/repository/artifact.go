package repository

import (
	"context"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// ModerationUpdate carries a partial moderation mutation. Nil fields are left
// untouched so approval, edits, and flags can be applied independently.
type ModerationUpdate struct {
	Approved   *bool
	ApprovedBy *string
	EditedBy   *string
	Flag       bool
}

// ArtifactRepository defines persistence for per-subject derived artifacts
// (summaries and quizzes), keyed by (subjectId, language, kind).
type ArtifactRepository interface {
	// Get retrieves an artifact. Returns nil and ErrArtifactNotFound if absent.
	Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*model.Artifact, error)

	// Upsert inserts or updates an artifact's payload, model, and processing
	// time. Moderation columns already set on the row are preserved.
	Upsert(ctx context.Context, artifact *model.Artifact) error

	// UpdateModeration applies a moderation mutation without touching the
	// payload. Returns ErrArtifactNotFound if the row is absent.
	UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update ModerationUpdate) error

	// Delete removes one artifact. Returns ErrArtifactNotFound if absent.
	Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error

	// DeleteAll removes every artifact of a kind and returns the count.
	// Callers are responsible for invalidating any cache layered on top.
	DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error)
}

// CumulativeRepository defines persistence for cumulative artifacts, keyed by
// (subjectId, language). The includedSubjectIds snapshot must round-trip in
// write order exactly: it is the input to the staleness comparison.
type CumulativeRepository interface {
	// Get retrieves a cumulative artifact.
	// Returns nil and ErrCumulativeNotFound if absent.
	Get(ctx context.Context, subjectID int64, language string) (*model.CumulativeArtifact, error)

	// Upsert inserts or updates a cumulative artifact, preserving moderation
	// columns already set on the row.
	Upsert(ctx context.Context, artifact *model.CumulativeArtifact) error

	// UpdateModeration applies a moderation mutation.
	// Returns ErrCumulativeNotFound if the row is absent.
	UpdateModeration(ctx context.Context, subjectID int64, language string, update ModerationUpdate) error

	// Delete removes one cumulative artifact.
	// Returns ErrCumulativeNotFound if absent.
	Delete(ctx context.Context, subjectID int64, language string) error

	// DeleteAll removes every cumulative artifact and returns the count.
	DeleteAll(ctx context.Context) (int64, error)
}
