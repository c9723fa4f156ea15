package model

import (
	"errors"
	"time"
)

// ArtifactKind discriminates the derived artifact tables.
type ArtifactKind string

const (
	KindSummary ArtifactKind = "summary"
	KindQuiz    ArtifactKind = "quiz"
)

func (k ArtifactKind) IsValid() bool {
	switch k {
	case KindSummary, KindQuiz:
		return true
	default:
		return false
	}
}

func (k ArtifactKind) String() string {
	return string(k)
}

var ErrInvalidArtifactKind = errors.New("invalid artifact kind")

// Moderation holds the human-review fields shared by artifacts and cumulative
// artifacts. These columns are mutated independently of payload regeneration
// and must survive upserts.
type Moderation struct {
	Approved      bool
	ApprovedAt    *time.Time
	ApprovedBy    string
	EditedByHuman bool
	LastEditedBy  string
	Flagged       bool
	FlagCount     int
}

// Artifact is a derived output (summary or quiz) computed from a transcript,
// unique per (subjectId, language, kind). Summary artifacts carry Summary;
// quiz artifacts carry Questions.
type Artifact struct {
	SubjectID int64
	Language  string
	Kind      ArtifactKind

	Summary   string
	Questions []Question

	Model            string
	ProcessingTimeMs int64

	Moderation Moderation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transcript is the generation precondition for every artifact, unique per
// (subjectId, language).
type Transcript struct {
	SubjectID int64
	Language  string
	Text      string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transcript source tags.
const (
	TranscriptSourceUpload  = "upload"
	TranscriptSourceCaption = "caption"
)
