package model

import (
	"errors"
	"strconv"
	"time"
)

// State represents the processing state of a subject.
type State string

const (
	StatePending State = "PENDING"
	StateReady   State = "READY"
	StateFailed  State = "FAILED"
)

func (s State) IsValid() bool {
	switch s {
	case StatePending, StateReady, StateFailed:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	return string(s)
}

// Subject represents a single content unit (a video or event) that can carry
// transcripts and derived artifacts.
//
// IDs are 64-bit integers and must be rendered as strings on any JSON surface:
// they exceed the 53-bit range that survives a float64 round-trip.
type Subject struct {
	ID        int64
	Title     string
	SeriesID  *int64
	OrderHint *int
	State     State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SeriesMember is a subject projected into its series with an assigned
// 1-based position. Positions are what the cumulative composer tags merged
// questions with.
type SeriesMember struct {
	ID       int64
	Title    string
	Position int
}

var (
	ErrInvalidSubjectID = errors.New("subject ID must be a positive integer")
	ErrEmptyTitle       = errors.New("title cannot be empty")
)

// ParseSubjectID parses a decimal string subject ID.
// Returns ErrInvalidSubjectID for anything that is not a positive int64.
func ParseSubjectID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSubjectID
	}
	return id, nil
}

// FormatSubjectID renders a subject ID for JSON surfaces.
func FormatSubjectID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// IsReady returns true if the subject is eligible for any processing.
func (s *Subject) IsReady() bool {
	return s.State == StateReady
}

// InSeries returns true if the subject belongs to a series.
func (s *Subject) InSeries() bool {
	return s.SeriesID != nil
}
