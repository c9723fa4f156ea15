package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hszk-dev/studystream/internal/captions"
	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
)

// ErrEmptyTranscript is returned when an upload or extraction yields no text.
var ErrEmptyTranscript = errors.New("transcript text cannot be empty")

// TranscriptService manages transcripts, the generation precondition for
// every derived artifact.
type TranscriptService interface {
	// Get retrieves a transcript.
	Get(ctx context.Context, subjectID int64, language string) (*model.Transcript, error)

	// Upload stores raw transcript text, overwriting any previous transcript
	// for the (subject, language) pair.
	Upload(ctx context.Context, subjectID int64, language, text string) (*model.Transcript, error)

	// ExtractFromCaptions downloads a caption file from object storage,
	// parses its cue text, and stores the result as a transcript.
	ExtractFromCaptions(ctx context.Context, subjectID int64, language, objectKey string) (*model.Transcript, error)

	// Delete removes one transcript.
	Delete(ctx context.Context, subjectID int64, language string) error

	// DeleteBySubject removes every transcript for a subject and returns the
	// number removed.
	DeleteBySubject(ctx context.Context, subjectID int64) (int64, error)
}

type transcriptService struct {
	subjects    repository.SubjectRepository
	transcripts repository.TranscriptRepository
	storage     repository.CaptionStorage
	extractor   captions.Extractor
}

// NewTranscriptService creates a new TranscriptService instance.
func NewTranscriptService(
	subjects repository.SubjectRepository,
	transcripts repository.TranscriptRepository,
	storage repository.CaptionStorage,
	extractor captions.Extractor,
) TranscriptService {
	return &transcriptService{
		subjects:    subjects,
		transcripts: transcripts,
		storage:     storage,
		extractor:   extractor,
	}
}

func (s *transcriptService) Get(ctx context.Context, subjectID int64, language string) (*model.Transcript, error) {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	return s.transcripts.Get(ctx, subjectID, lang)
}

func (s *transcriptService) Upload(ctx context.Context, subjectID int64, language, text string) (*model.Transcript, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}
	return s.store(ctx, subjectID, language, text, model.TranscriptSourceUpload)
}

func (s *transcriptService) ExtractFromCaptions(ctx context.Context, subjectID int64, language, objectKey string) (*model.Transcript, error) {
	// Both checks are pure; a bad language or object key must fail before
	// the caption object is ever fetched.
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	format, err := captions.DetectFormat(objectKey)
	if err != nil {
		return nil, err
	}

	reader, err := s.storage.Download(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Warn("failed to close caption reader", "key", objectKey, "error", err)
		}
	}()

	text, err := s.extractor.Extract(reader, format)
	if err != nil {
		return nil, fmt.Errorf("extract captions from %s: %w", objectKey, err)
	}

	return s.store(ctx, subjectID, lang, text, model.TranscriptSourceCaption)
}

func (s *transcriptService) store(ctx context.Context, subjectID int64, language, text, source string) (*model.Transcript, error) {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsReady() {
		return nil, repository.ErrSubjectNotFound
	}

	transcript := &model.Transcript{
		SubjectID: subjectID,
		Language:  lang,
		Text:      text,
		Source:    source,
	}
	if err := s.transcripts.Upsert(ctx, transcript); err != nil {
		return nil, err
	}

	return transcript, nil
}

func (s *transcriptService) Delete(ctx context.Context, subjectID int64, language string) error {
	lang, err := model.NormalizeLanguage(language)
	if err != nil {
		return err
	}
	return s.transcripts.Delete(ctx, subjectID, lang)
}

func (s *transcriptService) DeleteBySubject(ctx context.Context, subjectID int64) (int64, error) {
	return s.transcripts.DeleteBySubject(ctx, subjectID)
}
