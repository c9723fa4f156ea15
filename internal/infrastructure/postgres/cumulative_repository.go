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

// CumulativeRepository implements repository.CumulativeRepository using
// PostgreSQL. included_subject_ids is a BIGINT[] column so the membership
// snapshot round-trips in write order exactly.
type CumulativeRepository struct {
	db DBTX
}

// NewCumulativeRepository creates a new CumulativeRepository instance.
func NewCumulativeRepository(db DBTX) *CumulativeRepository {
	return &CumulativeRepository{db: db}
}

// Get retrieves a cumulative artifact by its (subject, language) key.
func (r *CumulativeRepository) Get(ctx context.Context, subjectID int64, language string) (*model.CumulativeArtifact, error) {
	const query = `
		SELECT subject_id, language, series_id, questions, included_subject_ids,
			subject_count, model, processing_time_ms,
			approved, approved_at, approved_by, edited_by_human, last_edited_by,
			flagged, flag_count, created_at, updated_at
		FROM cumulative_artifacts
		WHERE subject_id = $1 AND language = $2
	`

	var (
		artifact   model.CumulativeArtifact
		questions  []byte
		approvedAt *time.Time
		approvedBy *string
		editedBy   *string
	)

	err := r.db.QueryRow(ctx, query, subjectID, language).Scan(
		&artifact.SubjectID,
		&artifact.Language,
		&artifact.SeriesID,
		&questions,
		&artifact.IncludedSubjectIDs,
		&artifact.SubjectCount,
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCumulativeNotFound
		}
		return nil, fmt.Errorf("failed to get cumulative artifact: %w", err)
	}

	decoded, err := model.DecodeQuestions(questions)
	if err != nil {
		return nil, fmt.Errorf("stored cumulative questions are corrupt: %w", err)
	}
	artifact.Questions = decoded
	artifact.Moderation.ApprovedAt = approvedAt
	if approvedBy != nil {
		artifact.Moderation.ApprovedBy = *approvedBy
	}
	if editedBy != nil {
		artifact.Moderation.LastEditedBy = *editedBy
	}

	return &artifact, nil
}

// Upsert inserts or updates a cumulative artifact. Moderation columns are
// preserved on conflict, same as per-subject artifacts.
func (r *CumulativeRepository) Upsert(ctx context.Context, artifact *model.CumulativeArtifact) error {
	if err := artifact.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO cumulative_artifacts (subject_id, language, series_id, questions,
			included_subject_ids, subject_count, model, processing_time_ms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (subject_id, language)
		DO UPDATE SET
			series_id = EXCLUDED.series_id,
			questions = EXCLUDED.questions,
			included_subject_ids = EXCLUDED.included_subject_ids,
			subject_count = EXCLUDED.subject_count,
			model = EXCLUDED.model,
			processing_time_ms = EXCLUDED.processing_time_ms,
			updated_at = EXCLUDED.updated_at
	`

	questions, err := model.EncodeQuestions(artifact.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		artifact.SubjectID,
		artifact.Language,
		artifact.SeriesID,
		questions,
		artifact.IncludedSubjectIDs,
		artifact.SubjectCount,
		artifact.Model,
		artifact.ProcessingTimeMs,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cumulative artifact: %w", err)
	}

	return nil
}

// UpdateModeration applies a partial moderation mutation.
func (r *CumulativeRepository) UpdateModeration(ctx context.Context, subjectID int64, language string, update repository.ModerationUpdate) error {
	const query = `
		UPDATE cumulative_artifacts
		SET
			approved = COALESCE($3, approved),
			approved_at = CASE WHEN $3 IS NULL THEN approved_at WHEN $3 THEN $6 ELSE NULL END,
			approved_by = CASE WHEN $3 IS NULL THEN approved_by ELSE COALESCE($4, '') END,
			edited_by_human = CASE WHEN $5::text IS NULL THEN edited_by_human ELSE TRUE END,
			last_edited_by = COALESCE($5, last_edited_by),
			flagged = flagged OR $7,
			flag_count = flag_count + CASE WHEN $7 THEN 1 ELSE 0 END,
			updated_at = $6
		WHERE subject_id = $1 AND language = $2
	`

	tag, err := r.db.Exec(ctx, query,
		subjectID, language,
		update.Approved, update.ApprovedBy, update.EditedBy,
		time.Now(), update.Flag,
	)
	if err != nil {
		return fmt.Errorf("failed to update cumulative moderation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCumulativeNotFound
	}

	return nil
}

// Delete removes one cumulative artifact.
func (r *CumulativeRepository) Delete(ctx context.Context, subjectID int64, language string) error {
	const query = `DELETE FROM cumulative_artifacts WHERE subject_id = $1 AND language = $2`

	tag, err := r.db.Exec(ctx, query, subjectID, language)
	if err != nil {
		return fmt.Errorf("failed to delete cumulative artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCumulativeNotFound
	}

	return nil
}

// DeleteAll removes every cumulative artifact.
func (r *CumulativeRepository) DeleteAll(ctx context.Context) (int64, error) {
	const query = `DELETE FROM cumulative_artifacts`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cumulative artifacts: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Compile-time verification that CumulativeRepository implements repository.CumulativeRepository.
var _ repository.CumulativeRepository = (*CumulativeRepository)(nil)
