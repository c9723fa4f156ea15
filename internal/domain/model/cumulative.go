package model

import (
	"errors"
	"sort"
	"time"
)

// CumulativeArtifact merges every series-member's quiz, up to and including a
// target subject, into one ordered question list. It is derived and always
// recomputable from current series membership plus current per-subject
// quizzes; it is never the source of truth.
//
// IncludedSubjectIDs is the exact membership snapshot the merge was built
// from, preserved in member order. Staleness is decided by comparing it, as a
// set, against freshly resolved membership.
type CumulativeArtifact struct {
	SubjectID int64
	Language  string
	SeriesID  int64

	Questions          []Question
	IncludedSubjectIDs []int64
	SubjectCount       int

	Model            string
	ProcessingTimeMs int64

	Moderation Moderation

	CreatedAt time.Time
	UpdatedAt time.Time
}

var ErrEmptySnapshot = errors.New("cumulative artifact must include at least one subject")

// Validate checks the snapshot invariants.
func (c *CumulativeArtifact) Validate() error {
	if len(c.IncludedSubjectIDs) == 0 {
		return ErrEmptySnapshot
	}
	if c.SubjectCount != len(c.IncludedSubjectIDs) {
		return errors.New("subject count does not match included subject IDs")
	}
	return nil
}

// SameMembership reports whether the artifact's snapshot covers exactly the
// given subject IDs. Comparison is order-independent: membership drift (a
// subject added to or removed from the series prefix) is the only staleness
// trigger, not reordering.
func (c *CumulativeArtifact) SameMembership(memberIDs []int64) bool {
	if len(c.IncludedSubjectIDs) != len(memberIDs) {
		return false
	}
	a := append([]int64(nil), c.IncludedSubjectIDs...)
	b := append([]int64(nil), memberIDs...)
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
