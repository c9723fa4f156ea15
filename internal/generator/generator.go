// Package generator produces derived artifacts (summaries, quizzes) from
// transcripts via an external language model.
package generator

import (
	"context"
	"fmt"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// Request describes a single generation job.
type Request struct {
	Kind         model.ArtifactKind
	SubjectID    int64
	SubjectTitle string
	Language     string // normalized BCP-47 tag
	Transcript   string
}

// Result is the successful output of a generation job.
// Summary is set for KindSummary, Questions for KindQuiz.
type Result struct {
	Summary          string
	Questions        []model.Question
	Model            string
	ProcessingTimeMs int64
	TokensUsed       int64
}

// Generator defines the artifact generation contract.
// Implementations must validate their own output shape and fail rather
// than return malformed structured data.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// GenerationError reports a failed or malformed generation with enough
// context for the caller to retry or report the exact (subject, language)
// pair that failed.
type GenerationError struct {
	Kind      string
	SubjectID int64
	Language  string
	Message   string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (kind=%s subject=%s language=%s): %s",
		e.Kind, model.FormatSubjectID(e.SubjectID), e.Language, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps err as a GenerationError for the given key.
func NewGenerationError(kind string, subjectID int64, language string, err error) *GenerationError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &GenerationError{
		Kind:      kind,
		SubjectID: subjectID,
		Language:  language,
		Message:   msg,
		Err:       err,
	}
}
