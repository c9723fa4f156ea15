package handler

import (
	"net/http"

	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/infrastructure/cache"
	"github.com/hszk-dev/studystream/internal/usecase"
)

// AdminHandler exposes the operational surface: cache effectiveness and
// queue depth.
type AdminHandler struct {
	cache cache.ArtifactCache
	jobs  *usecase.JobService
}

func NewAdminHandler(artifactCache cache.ArtifactCache, jobs *usecase.JobService) *AdminHandler {
	return &AdminHandler{
		cache: artifactCache,
		jobs:  jobs,
	}
}

// CacheStats handles GET /v1/cache/stats.
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, stats)
}

// CacheClear handles POST /v1/cache/clear. Only cached copies are dropped;
// the persistent store is untouched.
func (h *AdminHandler) CacheClear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QueueStats handles GET /v1/queue/stats. Responds 503 when no queue is
// configured.
func (h *AdminHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil || !h.jobs.Available() {
		handleServiceError(w, repository.ErrQueueUnavailable)
		return
	}

	stats, err := h.jobs.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, stats)
}
