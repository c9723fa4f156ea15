package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

// SeriesService resolves ordered series membership.
type SeriesService interface {
	// MembersUpTo returns the ready members of a series up to and including
	// the target subject, with 1-based positions assigned by the series
	// ordering rule. Returns ErrSubjectNotFound if the target is not among
	// the ready members of the series.
	MembersUpTo(ctx context.Context, seriesID, targetSubjectID int64) ([]model.SeriesMember, error)
}

type seriesService struct {
	subjects repository.SubjectRepository
}

// NewSeriesService creates a new SeriesService instance.
func NewSeriesService(subjects repository.SubjectRepository) SeriesService {
	return &seriesService{subjects: subjects}
}

// MembersUpTo assigns positions by sorting on (orderHint ascending, subjects
// without a hint after all subjects with one, ties broken by createdAt
// ascending) and cuts the list at the target's position. The rule is
// deterministic: repeated calls with unchanged membership return identical
// lists, which is what cumulative staleness comparison depends on.
func (s *seriesService) MembersUpTo(ctx context.Context, seriesID, targetSubjectID int64) ([]model.SeriesMember, error) {
	subjects, err := s.subjects.GetSeriesSubjects(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("get series subjects: %w", err)
	}

	// The comparator is a total order (ID as the final tiebreak), so the
	// result cannot depend on the repository's row order.
	sort.SliceStable(subjects, func(i, j int) bool {
		a, b := subjects[i], subjects[j]
		switch {
		case a.OrderHint != nil && b.OrderHint != nil:
			if *a.OrderHint != *b.OrderHint {
				return *a.OrderHint < *b.OrderHint
			}
		case a.OrderHint != nil:
			return true
		case b.OrderHint != nil:
			return false
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	targetPos := -1
	members := make([]model.SeriesMember, len(subjects))
	for i, subject := range subjects {
		members[i] = model.SeriesMember{
			ID:       subject.ID,
			Title:    subject.Title,
			Position: i + 1,
		}
		if subject.ID == targetSubjectID {
			targetPos = i + 1
		}
	}

	if targetPos == -1 {
		// Target is not ready or not actually in this series.
		return nil, repository.ErrSubjectNotFound
	}

	return members[:targetPos], nil
}
