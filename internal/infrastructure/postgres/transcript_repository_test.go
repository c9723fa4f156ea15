package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

func TestTranscriptRepository_Get(t *testing.T) {
	tests := []struct {
		name    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "found",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				now := time.Now()
				mock.ExpectQuery("SELECT").
					WithArgs(int64(42), "en-us").
					WillReturnRows(pgxmock.NewRows([]string{
						"subject_id", "language", "text", "source", "created_at", "updated_at",
					}).AddRow(int64(42), "en-us", "the text", "upload", now, now))
			},
			wantErr: nil,
		},
		{
			name: "not found",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT").
					WithArgs(int64(42), "en-us").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrTranscriptNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock pool: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewTranscriptRepository(mock)
			got, err := repo.Get(context.Background(), 42, "en-us")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.Text != "the text" {
				t.Errorf("Text = %q", got.Text)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestTranscriptRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("INSERT INTO transcripts").
		WithArgs(int64(42), "en-us", "replacement text", "caption", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewTranscriptRepository(mock)
	err = repo.Upsert(context.Background(), &model.Transcript{
		SubjectID: 42,
		Language:  "en-us",
		Text:      "replacement text",
		Source:    model.TranscriptSourceCaption,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTranscriptRepository_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("DELETE FROM transcripts").
		WithArgs(int64(1), "en").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewTranscriptRepository(mock)
	err = repo.Delete(context.Background(), 1, "en")
	if !errors.Is(err, repository.ErrTranscriptNotFound) {
		t.Errorf("Delete error = %v, want ErrTranscriptNotFound", err)
	}
}

func TestTranscriptRepository_DeleteBySubject(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("DELETE FROM transcripts").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	repo := NewTranscriptRepository(mock)
	count, err := repo.DeleteBySubject(context.Background(), 42)
	if err != nil {
		t.Fatalf("DeleteBySubject failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
