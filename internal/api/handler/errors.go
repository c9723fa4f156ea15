package handler

import (
	"errors"
	"net/http"

	"github.com/hszk-dev/studystream/internal/captions"
	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/generator"
	"github.com/hszk-dev/studystream/internal/usecase"
)

// handleServiceError maps domain errors onto HTTP statuses. Every handler
// funnels its service-layer errors through here so the mapping cannot drift
// between endpoints.
func handleServiceError(w http.ResponseWriter, err error) {
	var genErr *generator.GenerationError
	if errors.As(err, &genErr) {
		Error(w, http.StatusBadGateway, "generation_failed", genErr.Error())
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidSubjectID),
		errors.Is(err, model.ErrMissingLanguage),
		errors.Is(err, model.ErrInvalidLanguage),
		errors.Is(err, model.ErrInvalidArtifactKind),
		errors.Is(err, usecase.ErrEmptyTranscript),
		errors.Is(err, captions.ErrUnsupportedFormat):
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, repository.ErrSubjectNotFound),
		errors.Is(err, repository.ErrTranscriptNotFound),
		errors.Is(err, repository.ErrArtifactNotFound),
		errors.Is(err, repository.ErrCumulativeNotFound),
		errors.Is(err, repository.ErrObjectNotFound):
		Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, usecase.ErrEmptySeries):
		Error(w, http.StatusConflict, "empty_series", err.Error())
	case errors.Is(err, repository.ErrQueueUnavailable):
		Error(w, http.StatusServiceUnavailable, "queue_unavailable", "deferred generation is not available")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}
