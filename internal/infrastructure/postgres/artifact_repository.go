package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

// ArtifactRepository implements repository.ArtifactRepository using PostgreSQL.
// One table holds both kinds; the (subject_id, language, kind) primary key
// gives the per-kind upsert contract.
type ArtifactRepository struct {
	db DBTX
}

// NewArtifactRepository creates a new ArtifactRepository instance.
func NewArtifactRepository(db DBTX) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

const artifactColumns = `
	subject_id, language, kind, summary, questions, model, processing_time_ms,
	approved, approved_at, approved_by, edited_by_human, last_edited_by,
	flagged, flag_count, created_at, updated_at
`

// Get retrieves an artifact by its (subject, language, kind) key.
func (r *ArtifactRepository) Get(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) (*model.Artifact, error) {
	query := `SELECT ` + artifactColumns + `
		FROM artifacts
		WHERE subject_id = $1 AND language = $2 AND kind = $3
	`

	artifact, err := scanArtifact(r.db.QueryRow(ctx, query, subjectID, language, kind.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}

	return artifact, nil
}

// Upsert inserts or updates an artifact's payload. Moderation columns are
// deliberately absent from the update list so regeneration never clobbers
// review state.
func (r *ArtifactRepository) Upsert(ctx context.Context, artifact *model.Artifact) error {
	const query = `
		INSERT INTO artifacts (subject_id, language, kind, summary, questions, model, processing_time_ms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (subject_id, language, kind)
		DO UPDATE SET
			summary = EXCLUDED.summary,
			questions = EXCLUDED.questions,
			model = EXCLUDED.model,
			processing_time_ms = EXCLUDED.processing_time_ms,
			updated_at = EXCLUDED.updated_at
	`

	var questions []byte
	if artifact.Questions != nil {
		data, err := model.EncodeQuestions(artifact.Questions)
		if err != nil {
			return fmt.Errorf("failed to encode questions: %w", err)
		}
		questions = data
	}

	_, err := r.db.Exec(ctx, query,
		artifact.SubjectID,
		artifact.Language,
		artifact.Kind.String(),
		nullString(artifact.Summary),
		questions,
		artifact.Model,
		artifact.ProcessingTimeMs,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}

	return nil
}

// UpdateModeration applies a partial moderation mutation.
func (r *ArtifactRepository) UpdateModeration(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind, update repository.ModerationUpdate) error {
	const query = `
		UPDATE artifacts
		SET
			approved = COALESCE($4, approved),
			approved_at = CASE WHEN $4 IS NULL THEN approved_at WHEN $4 THEN $7 ELSE NULL END,
			approved_by = CASE WHEN $4 IS NULL THEN approved_by ELSE COALESCE($5, '') END,
			edited_by_human = CASE WHEN $6::text IS NULL THEN edited_by_human ELSE TRUE END,
			last_edited_by = COALESCE($6, last_edited_by),
			flagged = flagged OR $8,
			flag_count = flag_count + CASE WHEN $8 THEN 1 ELSE 0 END,
			updated_at = $7
		WHERE subject_id = $1 AND language = $2 AND kind = $3
	`

	tag, err := r.db.Exec(ctx, query,
		subjectID, language, kind.String(),
		update.Approved, update.ApprovedBy, update.EditedBy,
		time.Now(), update.Flag,
	)
	if err != nil {
		return fmt.Errorf("failed to update artifact moderation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrArtifactNotFound
	}

	return nil
}

// Delete removes one artifact.
func (r *ArtifactRepository) Delete(ctx context.Context, subjectID int64, language string, kind model.ArtifactKind) error {
	const query = `DELETE FROM artifacts WHERE subject_id = $1 AND language = $2 AND kind = $3`

	tag, err := r.db.Exec(ctx, query, subjectID, language, kind.String())
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrArtifactNotFound
	}

	return nil
}

// DeleteAll removes every artifact of a kind.
func (r *ArtifactRepository) DeleteAll(ctx context.Context, kind model.ArtifactKind) (int64, error) {
	const query = `DELETE FROM artifacts WHERE kind = $1`

	tag, err := r.db.Exec(ctx, query, kind.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete artifacts: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanArtifact scans a single row into an Artifact model.
func scanArtifact(row pgx.Row) (*model.Artifact, error) {
	var (
		artifact   model.Artifact
		kind       string
		summary    *string
		questions  []byte
		approvedAt *time.Time
		approvedBy *string
		editedBy   *string
	)

	err := row.Scan(
		&artifact.SubjectID,
		&artifact.Language,
		&kind,
		&summary,
		&questions,
		&artifact.Model,
		&artifact.ProcessingTimeMs,
		&artifact.Moderation.Approved,
		&approvedAt,
		&approvedBy,
		&artifact.Moderation.EditedByHuman,
		&editedBy,
		&artifact.Moderation.Flagged,
		&artifact.Moderation.FlagCount,
		&artifact.CreatedAt,
		&artifact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	artifact.Kind = model.ArtifactKind(kind)
	if summary != nil {
		artifact.Summary = *summary
	}
	if questions != nil {
		decoded, err := model.DecodeQuestions(questions)
		if err != nil {
			return nil, fmt.Errorf("stored questions are corrupt: %w", err)
		}
		artifact.Questions = decoded
	}
	artifact.Moderation.ApprovedAt = approvedAt
	if approvedBy != nil {
		artifact.Moderation.ApprovedBy = *approvedBy
	}
	if editedBy != nil {
		artifact.Moderation.LastEditedBy = *editedBy
	}

	return &artifact, nil
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Compile-time verification that ArtifactRepository implements repository.ArtifactRepository.
var _ repository.ArtifactRepository = (*ArtifactRepository)(nil)
