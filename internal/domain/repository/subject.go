package repository

import (
	"context"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// SubjectRepository defines read access to subjects and series membership.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type SubjectRepository interface {
	// GetByID retrieves a subject by its unique identifier.
	// Returns nil and ErrSubjectNotFound if the subject does not exist.
	GetByID(ctx context.Context, id int64) (*model.Subject, error)

	// GetSeriesSubjects retrieves every ready subject belonging to a series,
	// in no particular order. Position assignment is the resolver's job.
	// Returns an empty slice if the series has no ready subjects.
	GetSeriesSubjects(ctx context.Context, seriesID int64) ([]*model.Subject, error)
}
