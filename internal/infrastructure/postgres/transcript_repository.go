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

// TranscriptRepository implements repository.TranscriptRepository using PostgreSQL.
type TranscriptRepository struct {
	db DBTX
}

// NewTranscriptRepository creates a new TranscriptRepository instance.
func NewTranscriptRepository(db DBTX) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Get retrieves a transcript for a (subject, language) pair.
func (r *TranscriptRepository) Get(ctx context.Context, subjectID int64, language string) (*model.Transcript, error) {
	const query = `
		SELECT subject_id, language, text, source, created_at, updated_at
		FROM transcripts
		WHERE subject_id = $1 AND language = $2
	`

	var t model.Transcript
	err := r.db.QueryRow(ctx, query, subjectID, language).Scan(
		&t.SubjectID,
		&t.Language,
		&t.Text,
		&t.Source,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	return &t, nil
}

// Upsert inserts or overwrites the transcript for a (subject, language) pair.
func (r *TranscriptRepository) Upsert(ctx context.Context, transcript *model.Transcript) error {
	const query = `
		INSERT INTO transcripts (subject_id, language, text, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (subject_id, language)
		DO UPDATE SET text = EXCLUDED.text, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		transcript.SubjectID,
		transcript.Language,
		transcript.Text,
		transcript.Source,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert transcript: %w", err)
	}

	return nil
}

// Delete removes a transcript.
func (r *TranscriptRepository) Delete(ctx context.Context, subjectID int64, language string) error {
	const query = `DELETE FROM transcripts WHERE subject_id = $1 AND language = $2`

	tag, err := r.db.Exec(ctx, query, subjectID, language)
	if err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTranscriptNotFound
	}

	return nil
}

// DeleteBySubject removes every transcript for a subject.
func (r *TranscriptRepository) DeleteBySubject(ctx context.Context, subjectID int64) (int64, error) {
	const query = `DELETE FROM transcripts WHERE subject_id = $1`

	tag, err := r.db.Exec(ctx, query, subjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transcripts: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Compile-time verification that TranscriptRepository implements repository.TranscriptRepository.
var _ repository.TranscriptRepository = (*TranscriptRepository)(nil)
