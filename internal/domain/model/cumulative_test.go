package model

import (
	"errors"
	"testing"
)

func TestCumulativeArtifact_SameMembership(t *testing.T) {
	tests := []struct {
		name     string
		snapshot []int64
		current  []int64
		want     bool
	}{
		{"identical", []int64{1, 2, 3}, []int64{1, 2, 3}, true},
		{"same set different order", []int64{1, 2, 3}, []int64{3, 1, 2}, true},
		{"member added", []int64{1, 2, 3}, []int64{1, 2, 3, 4}, false},
		{"member removed", []int64{1, 2, 3}, []int64{1, 2}, false},
		{"same size different members", []int64{1, 2, 3}, []int64{1, 2, 4}, false},
		{"both empty", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CumulativeArtifact{IncludedSubjectIDs: tt.snapshot}
			if got := c.SameMembership(tt.current); got != tt.want {
				t.Errorf("SameMembership(%v) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}

func TestCumulativeArtifact_SameMembership_DoesNotMutateSnapshot(t *testing.T) {
	c := &CumulativeArtifact{IncludedSubjectIDs: []int64{3, 1, 2}}
	c.SameMembership([]int64{1, 2, 3})

	want := []int64{3, 1, 2}
	for i, id := range c.IncludedSubjectIDs {
		if id != want[i] {
			t.Fatalf("snapshot order mutated: %v", c.IncludedSubjectIDs)
		}
	}
}

func TestCumulativeArtifact_Validate(t *testing.T) {
	valid := &CumulativeArtifact{
		IncludedSubjectIDs: []int64{1, 2},
		SubjectCount:       2,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	empty := &CumulativeArtifact{}
	if err := empty.Validate(); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("Validate() = %v, want ErrEmptySnapshot", err)
	}

	mismatch := &CumulativeArtifact{IncludedSubjectIDs: []int64{1}, SubjectCount: 2}
	if err := mismatch.Validate(); err == nil {
		t.Error("Validate() = nil, want count mismatch error")
	}
}
