package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

func seriesSubject(id int64, title string, hint *int, createdAt time.Time) *model.Subject {
	seriesID := int64(7)
	return &model.Subject{
		ID:        id,
		Title:     title,
		SeriesID:  &seriesID,
		OrderHint: hint,
		State:     model.StateReady,
		CreatedAt: createdAt,
	}
}

func intPtr(v int) *int { return &v }

func TestSeriesService_MembersUpTo_Ordering(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// A(hint=3,t1) B(hint=1,t2) C(hint=nil,t3) D(hint=2,t4) sorts B, D, A, C.
	subjects := []*model.Subject{
		seriesSubject(100, "A", intPtr(3), t0.Add(1*time.Hour)),
		seriesSubject(200, "B", intPtr(1), t0.Add(2*time.Hour)),
		seriesSubject(300, "C", nil, t0.Add(3*time.Hour)),
		seriesSubject(400, "D", intPtr(2), t0.Add(4*time.Hour)),
	}

	service := NewSeriesService(&mockSubjectRepository{
		getSeriesSubjectsFn: func(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
			return subjects, nil
		},
	})

	members, err := service.MembersUpTo(context.Background(), 7, 300)
	if err != nil {
		t.Fatalf("MembersUpTo failed: %v", err)
	}

	wantIDs := []int64{200, 400, 100, 300}
	if len(members) != len(wantIDs) {
		t.Fatalf("got %d members, want %d", len(members), len(wantIDs))
	}
	for i, want := range wantIDs {
		if members[i].ID != want {
			t.Errorf("members[%d].ID = %d, want %d", i, members[i].ID, want)
		}
		if members[i].Position != i+1 {
			t.Errorf("members[%d].Position = %d, want %d", i, members[i].Position, i+1)
		}
	}
}

func TestSeriesService_MembersUpTo_PrefixCut(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	subjects := []*model.Subject{
		seriesSubject(1, "Ep 1", intPtr(1), t0),
		seriesSubject(2, "Ep 2", intPtr(2), t0),
		seriesSubject(3, "Ep 3", intPtr(3), t0),
	}

	service := NewSeriesService(&mockSubjectRepository{
		getSeriesSubjectsFn: func(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
			return subjects, nil
		},
	})

	members, err := service.MembersUpTo(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("MembersUpTo failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2 (prefix up to target)", len(members))
	}
	if members[len(members)-1].ID != 2 {
		t.Errorf("last member = %d, want the target", members[len(members)-1].ID)
	}
}

func TestSeriesService_MembersUpTo_TiesByCreatedAt(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	subjects := []*model.Subject{
		seriesSubject(2, "later", intPtr(1), t0.Add(time.Hour)),
		seriesSubject(1, "earlier", intPtr(1), t0),
	}

	service := NewSeriesService(&mockSubjectRepository{
		getSeriesSubjectsFn: func(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
			return subjects, nil
		},
	})

	members, err := service.MembersUpTo(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("MembersUpTo failed: %v", err)
	}
	if members[0].ID != 1 || members[1].ID != 2 {
		t.Errorf("tie broken incorrectly: got %d, %d", members[0].ID, members[1].ID)
	}
}

func TestSeriesService_MembersUpTo_FullTieBreaksByID(t *testing.T) {
	// Same hint and same createdAt: the member with the lower ID comes
	// first, no matter how the repository orders the rows.
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	subjects := []*model.Subject{
		seriesSubject(9, "later id", intPtr(1), t0),
		seriesSubject(4, "earlier id", intPtr(1), t0),
	}

	service := NewSeriesService(&mockSubjectRepository{
		getSeriesSubjectsFn: func(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
			return subjects, nil
		},
	})

	members, err := service.MembersUpTo(context.Background(), 7, 9)
	if err != nil {
		t.Fatalf("MembersUpTo failed: %v", err)
	}
	if members[0].ID != 4 || members[1].ID != 9 {
		t.Errorf("full tie broken incorrectly: got %d, %d", members[0].ID, members[1].ID)
	}
}

func TestSeriesService_MembersUpTo_TargetNotInSeries(t *testing.T) {
	service := NewSeriesService(&mockSubjectRepository{
		getSeriesSubjectsFn: func(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
			return []*model.Subject{
				seriesSubject(1, "Ep 1", intPtr(1), time.Now()),
			}, nil
		},
	})

	_, err := service.MembersUpTo(context.Background(), 7, 99)
	if !errors.Is(err, repository.ErrSubjectNotFound) {
		t.Errorf("error = %v, want ErrSubjectNotFound", err)
	}
}

func TestSeriesService_MembersUpTo_Deterministic(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	build := func() []*model.Subject {
		return []*model.Subject{
			seriesSubject(5, "E", nil, t0.Add(5*time.Hour)),
			seriesSubject(4, "D", nil, t0.Add(4*time.Hour)),
			seriesSubject(3, "C", intPtr(2), t0.Add(3*time.Hour)),
			seriesSubject(2, "B", intPtr(1), t0.Add(2*time.Hour)),
		}
	}

	service := NewSeriesService(&mockSubjectRepository{
		getSeriesSubjectsFn: func(ctx context.Context, seriesID int64) ([]*model.Subject, error) {
			return build(), nil
		},
	})

	first, err := service.MembersUpTo(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("MembersUpTo failed: %v", err)
	}
	for range 5 {
		again, err := service.MembersUpTo(context.Background(), 7, 5)
		if err != nil {
			t.Fatalf("MembersUpTo failed: %v", err)
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("ordering not stable across calls: %+v vs %+v", again[i], first[i])
			}
		}
	}
}
