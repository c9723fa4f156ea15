package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SubjectRepository implements repository.SubjectRepository using PostgreSQL.
type SubjectRepository struct {
	db DBTX
}

// NewSubjectRepository creates a new SubjectRepository instance.
func NewSubjectRepository(db DBTX) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// GetByID retrieves a subject by its unique identifier.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	const query = `
		SELECT id, title, series_id, order_hint, state, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`

	subject, err := scanSubject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject by ID: %w", err)
	}

	return subject, nil
}

// GetSeriesSubjects retrieves every ready subject belonging to a series.
// Ordering is left to the series resolver; created_at here only makes query
// plans stable.
func (r *SubjectRepository) GetSeriesSubjects(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
	const query = `
		SELECT id, title, series_id, order_hint, state, created_at, updated_at
		FROM subjects
		WHERE series_id = $1 AND state = $2
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, seriesID, model.StateReady.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query series subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}

// scanSubject scans a single row into a Subject model.
func scanSubject(row pgx.Row) (*model.Subject, error) {
	var (
		subject   model.Subject
		state     string
		seriesID  *int64
		orderHint *int
	)

	err := row.Scan(
		&subject.ID,
		&subject.Title,
		&seriesID,
		&orderHint,
		&state,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	subject.State = model.State(state)
	subject.SeriesID = seriesID
	subject.OrderHint = orderHint

	return &subject, nil
}

// Compile-time verification that SubjectRepository implements repository.SubjectRepository.
var _ repository.SubjectRepository = (*SubjectRepository)(nil)
