package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/usecase"
)

// Transcript uploads are raw text bodies; cap them well above any real
// transcript but below anything that could exhaust the process.
const maxTranscriptBody = 10 << 20

// TranscriptHandler manages the transcripts that gate artifact generation.
type TranscriptHandler struct {
	transcripts usecase.TranscriptService
}

func NewTranscriptHandler(transcripts usecase.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts}
}

type TranscriptResponse struct {
	SubjectID string    `json:"subject_id"`
	Language  string    `json:"language"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExtractRequest struct {
	ObjectKey string `json:"object_key"`
}

func toTranscriptResponse(t *model.Transcript) TranscriptResponse {
	return TranscriptResponse{
		SubjectID: model.FormatSubjectID(t.SubjectID),
		Language:  t.Language,
		Text:      t.Text,
		Source:    t.Source,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// Get handles GET /v1/subjects/{id}/transcripts/{lang}.
func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	transcript, err := h.transcripts.Get(r.Context(), subjectID, chi.URLParam(r, "lang"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTranscriptResponse(transcript))
}

// Upload handles PUT /v1/subjects/{id}/transcripts/{lang}. The body is the
// raw transcript text, replacing any previous transcript for the pair.
func (h *TranscriptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTranscriptBody))
	if err != nil {
		Error(w, http.StatusRequestEntityTooLarge, "invalid_request", "transcript body too large")
		return
	}

	transcript, err := h.transcripts.Upload(r.Context(), subjectID, chi.URLParam(r, "lang"), string(body))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTranscriptResponse(transcript))
}

// Extract handles POST /v1/subjects/{id}/transcripts/{lang}/extract. The
// referenced caption object is downloaded, parsed, and stored as the
// transcript for the pair.
func (h *TranscriptHandler) Extract(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ObjectKey == "" {
		Error(w, http.StatusBadRequest, "invalid_request", "object_key is required")
		return
	}

	transcript, err := h.transcripts.ExtractFromCaptions(r.Context(), subjectID, chi.URLParam(r, "lang"), req.ObjectKey)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTranscriptResponse(transcript))
}

// Delete handles DELETE /v1/subjects/{id}/transcripts/{lang}.
func (h *TranscriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.transcripts.Delete(r.Context(), subjectID, chi.URLParam(r, "lang")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBySubject handles DELETE /v1/subjects/{id}/transcripts.
func (h *TranscriptHandler) DeleteBySubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count, err := h.transcripts.DeleteBySubject(r.Context(), subjectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, DeleteAllResponse{Deleted: count})
}
