package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/studystream/internal/domain/model"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/usecase"
)

// ArtifactHandler serves summaries and quizzes. Reads go through the
// cache-aside service; deferred generation is delegated to the job service
// when a queue is configured.
type ArtifactHandler struct {
	artifacts usecase.ArtifactService
	jobs      *usecase.JobService
}

func NewArtifactHandler(artifacts usecase.ArtifactService, jobs *usecase.JobService) *ArtifactHandler {
	return &ArtifactHandler{
		artifacts: artifacts,
		jobs:      jobs,
	}
}

type ModerationResponse struct {
	Approved      bool       `json:"approved"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
	EditedByHuman bool       `json:"edited_by_human"`
	LastEditedBy  string     `json:"last_edited_by,omitempty"`
	Flagged       bool       `json:"flagged"`
	FlagCount     int        `json:"flag_count"`
}

type ArtifactResponse struct {
	SubjectID        string             `json:"subject_id"`
	Language         string             `json:"language"`
	Kind             string             `json:"kind"`
	Summary          string             `json:"summary,omitempty"`
	Questions        []model.Question   `json:"questions,omitempty"`
	Model            string             `json:"model,omitempty"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
	Source           string             `json:"source"`
	Moderation       ModerationResponse `json:"moderation"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type JobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

func toModerationResponse(m model.Moderation) ModerationResponse {
	return ModerationResponse{
		Approved:      m.Approved,
		ApprovedAt:    m.ApprovedAt,
		ApprovedBy:    m.ApprovedBy,
		EditedByHuman: m.EditedByHuman,
		LastEditedBy:  m.LastEditedBy,
		Flagged:       m.Flagged,
		FlagCount:     m.FlagCount,
	}
}

func toArtifactResponse(result *usecase.ArtifactResult) ArtifactResponse {
	a := result.Artifact
	return ArtifactResponse{
		SubjectID:        model.FormatSubjectID(a.SubjectID),
		Language:         a.Language,
		Kind:             a.Kind.String(),
		Summary:          a.Summary,
		Questions:        a.Questions,
		Model:            a.Model,
		ProcessingTimeMs: a.ProcessingTimeMs,
		Source:           string(result.Source),
		Moderation:       toModerationResponse(a.Moderation),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// subjectIDParam parses the {id} path segment. IDs arrive as decimal strings
// and may exceed the float64-safe integer range.
func subjectIDParam(r *http.Request) (int64, error) {
	return model.ParseSubjectID(chi.URLParam(r, "id"))
}

func kindParam(r *http.Request) (model.ArtifactKind, error) {
	kind := model.ArtifactKind(chi.URLParam(r, "kind"))
	if !kind.IsValid() {
		return "", model.ErrInvalidArtifactKind
	}
	return kind, nil
}

func boolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// Get handles GET /v1/subjects/{id}/artifacts/{kind}. The artifact is
// generated on demand when absent; force=true regenerates unconditionally.
func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	kind, err := kindParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.artifacts.GetOrGenerate(r.Context(), subjectID, r.URL.Query().Get("language"), kind, boolQuery(r, "force"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toArtifactResponse(result))
}

// Generate handles POST /v1/subjects/{id}/artifacts/{kind}/generate.
// With async=true the task is queued and a job ID returned; otherwise
// generation runs inline and the artifact is returned directly.
func (h *ArtifactHandler) Generate(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	kind, err := kindParam(r)
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
		jobID, err := h.jobs.Submit(r.Context(), kind, subjectID, language, force)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		JSON(w, http.StatusAccepted, JobResponse{JobID: jobID.String(), Status: "queued"})
		return
	}

	result, err := h.artifacts.GetOrGenerate(r.Context(), subjectID, language, kind, force)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toArtifactResponse(result))
}

// Moderate handles POST /v1/subjects/{id}/artifacts/{kind}/moderation.
func (h *ArtifactHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	kind, err := kindParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	update, ok := decodeModerationUpdate(w, r)
	if !ok {
		return
	}

	if err := h.artifacts.UpdateModeration(r.Context(), subjectID, r.URL.Query().Get("language"), kind, update); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /v1/subjects/{id}/artifacts/{kind}.
func (h *ArtifactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subjectID, err := subjectIDParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	kind, err := kindParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.artifacts.Delete(r.Context(), subjectID, r.URL.Query().Get("language"), kind); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll handles DELETE /v1/artifacts/{kind}.
func (h *ArtifactHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count, err := h.artifacts.DeleteAll(r.Context(), kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, DeleteAllResponse{Deleted: count})
}
