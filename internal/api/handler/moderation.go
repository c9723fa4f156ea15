package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hszk-dev/studystream/internal/domain/repository"
)

// ModerationRequest is a partial moderation mutation. Omitted fields are left
// untouched; flag=true increments the flag counter.
type ModerationRequest struct {
	Approved   *bool   `json:"approved,omitempty"`
	ApprovedBy *string `json:"approved_by,omitempty"`
	EditedBy   *string `json:"edited_by,omitempty"`
	Flag       bool    `json:"flag,omitempty"`
}

func decodeModerationUpdate(w http.ResponseWriter, r *http.Request) (repository.ModerationUpdate, bool) {
	var req ModerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return repository.ModerationUpdate{}, false
	}
	if req.Approved == nil && req.ApprovedBy == nil && req.EditedBy == nil && !req.Flag {
		Error(w, http.StatusBadRequest, "invalid_request", "moderation update has no fields")
		return repository.ModerationUpdate{}, false
	}
	return repository.ModerationUpdate{
		Approved:   req.Approved,
		ApprovedBy: req.ApprovedBy,
		EditedBy:   req.EditedBy,
		Flag:       req.Flag,
	}, true
}
