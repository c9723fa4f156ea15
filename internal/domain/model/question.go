package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// QuestionType discriminates the quiz question variants.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse:
		return true
	default:
		return false
	}
}

// VideoContext is the provenance annotation attached to every question of a
// cumulative quiz. It points back into the includedSubjectIds snapshot of the
// artifact that carries it.
type VideoContext struct {
	SubjectID   int64    `json:"subject_id,string"`
	VideoTitle  string   `json:"video_title"`
	VideoNumber int      `json:"video_number"`
	Timestamp   *float64 `json:"timestamp,omitempty"`
}

// Question is a tagged variant: multiple-choice questions carry Options and
// CorrectIndex, true/false questions carry CorrectBool. Shared fields apply
// to both. VideoContext is nil on per-subject quizzes and set by the
// cumulative merge.
type Question struct {
	Type        QuestionType `json:"type"`
	Text        string       `json:"text"`
	Explanation string       `json:"explanation,omitempty"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Timestamp   *float64     `json:"timestamp,omitempty"`

	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correct_index,omitempty"`
	CorrectBool  bool     `json:"correct_bool,omitempty"`

	VideoContext *VideoContext `json:"video_context,omitempty"`
}

var (
	ErrEmptyQuestionText = errors.New("question text cannot be empty")
	ErrInvalidQuestion   = errors.New("question shape is invalid")
	ErrUnknownQuestion   = errors.New("unknown question type")
	errTooFewOptions     = errors.New("multiple choice question needs at least two options")
	errCorrectOutOfRange = errors.New("correct_index is out of range")
)

// Validate checks the variant-specific shape of a question.
func (q *Question) Validate() error {
	if q.Text == "" {
		return ErrEmptyQuestionText
	}
	switch q.Type {
	case QuestionMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: %w", ErrInvalidQuestion, errTooFewOptions)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: %w", ErrInvalidQuestion, errCorrectOutOfRange)
		}
		return nil
	case QuestionTrueFalse:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, q.Type)
	}
}

// DecodeQuestions unmarshals and validates a JSON question list.
// It rejects the whole list on the first malformed question; callers never
// persist partially valid quizzes.
func DecodeQuestions(data []byte) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return questions, nil
}

// EncodeQuestions marshals a question list for persistence.
func EncodeQuestions(questions []Question) ([]byte, error) {
	return json.Marshal(questions)
}
