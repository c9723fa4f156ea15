package repository

import (
	"context"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// TranscriptRepository defines persistence for transcripts.
// Languages are normalized by the service layer before every call.
type TranscriptRepository interface {
	// Get retrieves a transcript for a (subject, language) pair.
	// Returns nil and ErrTranscriptNotFound if absent.
	Get(ctx context.Context, subjectID int64, language string) (*model.Transcript, error)

	// Upsert inserts or overwrites the transcript for a (subject, language)
	// pair. Re-upload replaces the previous text.
	Upsert(ctx context.Context, transcript *model.Transcript) error

	// Delete removes a transcript. Returns ErrTranscriptNotFound if absent.
	Delete(ctx context.Context, subjectID int64, language string) error

	// DeleteBySubject removes every transcript for a subject and returns the
	// number of rows removed.
	DeleteBySubject(ctx context.Context, subjectID int64) (int64, error)
}
