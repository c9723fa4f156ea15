package handler

import (
	"context"
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// Health is the liveness probe. It answers as long as the process serves
// requests, regardless of dependency state.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Pinger reports reachability of a dependency. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness builds the readiness probe. Only the persistent store is
// checked: cache, queue, and object storage are optional or degradable.
func Readiness(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			Error(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
			return
		}
		JSON(w, http.StatusOK, HealthResponse{Status: "ready"})
	}
}
