package handler

import (
	"net/http"
	"time"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/usecase"
)

// CumulativeHandler serves cumulative quizzes covering a series prefix.
type CumulativeHandler struct {
	cumulative usecase.CumulativeService
	jobs       *usecase.JobService
}

func NewCumulativeHandler(cumulative usecase.CumulativeService, jobs *usecase.JobService) *CumulativeHandler {
	return &CumulativeHandler{
		cumulative: cumulative,
		jobs:       jobs,
	}
}

type CumulativeResponse struct {
	SubjectID          string             `json:"subject_id"`
	Language           string             `json:"language"`
	SeriesID           string             `json:"series_id"`
	Questions          []model.Question   `json:"questions"`
	IncludedSubjectIDs []string           `json:"included_subject_ids"`
	SubjectCount       int                `json:"subject_count"`
	Model              string             `json:"model,omitempty"`
	ProcessingTimeMs   int64              `json:"processing_time_ms"`
	Source             string             `json:"source"`
	Moderation         ModerationResponse `json:"moderation"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func toCumulativeResponse(result *usecase.CumulativeResult) CumulativeResponse {
	a := result.Artifact
	included := make([]string, len(a.IncludedSubjectIDs))
	for i, id := range a.IncludedSubjectIDs {
		included[i] = model.FormatSubjectID(id)
	}
	return CumulativeResponse{
		SubjectID:          model.FormatSubjectID(a.SubjectID),
		Language:           a.Language,
		SeriesID:           model.FormatSubjectID(a.SeriesID),
		Questions:          a.Questions,
		IncludedSubjectIDs: included,
		SubjectCount:       a.SubjectCount,
		Model:              a.Model,
		ProcessingTimeMs:   a.ProcessingTimeMs,
		Source:             string(result.Source),
		Moderation:         toModerationResponse(a.Moderation),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// Get handles GET /v1/subjects/{id}/cumulative-quiz. The quiz is composed on
// demand when absent or when series membership has changed since the stored
// snapshot; force=true recomposes unconditionally.
func (h *CumulativeHandler) Get(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.cumulative.GenerateCumulative(r.Context(), subjectID, r.URL.Query().Get("language"), boolQuery(r, "force"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toCumulativeResponse(result))
}

// Generate handles POST /v1/subjects/{id}/cumulative-quiz/generate.
func (h *CumulativeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	language := r.URL.Query().Get("language")
	force := boolQuery(r, "force")

	if boolQuery(r, "async") {
		if h.jobs == nil || !h.jobs.Available() {
			handleServiceError(w, repository.ErrQueueUnavailable)
			return
		}
		jobID, err := h.jobs.Submit(r.Context(), repository.TaskKindCumulative, subjectID, language, force)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		JSON(w, http.StatusAccepted, JobResponse{JobID: jobID.String(), Status: "queued"})
		return
	}

	result, err := h.cumulative.GenerateCumulative(r.Context(), subjectID, language, force)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toCumulativeResponse(result))
}

// Moderate handles POST /v1/subjects/{id}/cumulative-quiz/moderation.
func (h *CumulativeHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	update, ok := decodeModerationUpdate(w, r)
	if !ok {
		return
	}

	if err := h.cumulative.UpdateModeration(r.Context(), subjectID, r.URL.Query().Get("language"), update); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /v1/subjects/{id}/cumulative-quiz.
func (h *CumulativeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.cumulative.Delete(r.Context(), subjectID, r.URL.Query().Get("language")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll handles DELETE /v1/cumulative-quizzes.
func (h *CumulativeHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	count, err := h.cumulative.DeleteAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, DeleteAllResponse{Deleted: count})
}
