package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hszk-dev/studystream/internal/domain/model"
)

// Explicit cache representations decouple the wire shape from the domain
// model's JSON tags. Subject IDs travel as strings: they are 64-bit and must
// not pass through a float64.

type moderationJSON struct {
	Approved      bool   `json:"approved"`
	ApprovedAt    string `json:"approved_at,omitempty"`
	ApprovedBy    string `json:"approved_by,omitempty"`
	EditedByHuman bool   `json:"edited_by_human"`
	LastEditedBy  string `json:"last_edited_by,omitempty"`
	Flagged       bool   `json:"flagged"`
	FlagCount     int    `json:"flag_count"`
}

type artifactJSON struct {
	SubjectID        int64            `json:"subject_id,string"`
	Language         string           `json:"language"`
	Kind             string           `json:"kind"`
	Summary          string           `json:"summary,omitempty"`
	Questions        []model.Question `json:"questions,omitempty"`
	Model            string           `json:"model"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	Moderation       moderationJSON   `json:"moderation"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

type cumulativeJSON struct {
	SubjectID          int64            `json:"subject_id,string"`
	Language           string           `json:"language"`
	SeriesID           int64            `json:"series_id,string"`
	Questions          []model.Question `json:"questions"`
	IncludedSubjectIDs []string         `json:"included_subject_ids"`
	SubjectCount       int              `json:"subject_count"`
	Model              string           `json:"model"`
	ProcessingTimeMs   int64            `json:"processing_time_ms"`
	Moderation         moderationJSON   `json:"moderation"`
	CreatedAt          string           `json:"created_at"`
	UpdatedAt          string           `json:"updated_at"`
}

func encodeModeration(m model.Moderation) moderationJSON {
	out := moderationJSON{
		Approved:      m.Approved,
		ApprovedBy:    m.ApprovedBy,
		EditedByHuman: m.EditedByHuman,
		LastEditedBy:  m.LastEditedBy,
		Flagged:       m.Flagged,
		FlagCount:     m.FlagCount,
	}
	if m.ApprovedAt != nil {
		out.ApprovedAt = m.ApprovedAt.Format(time.RFC3339Nano)
	}
	return out
}

func decodeModeration(m moderationJSON) (model.Moderation, error) {
	out := model.Moderation{
		Approved:      m.Approved,
		ApprovedBy:    m.ApprovedBy,
		EditedByHuman: m.EditedByHuman,
		LastEditedBy:  m.LastEditedBy,
		Flagged:       m.Flagged,
		FlagCount:     m.FlagCount,
	}
	if m.ApprovedAt != "" {
		at, err := time.Parse(time.RFC3339Nano, m.ApprovedAt)
		if err != nil {
			return model.Moderation{}, fmt.Errorf("parse approved_at: %w", err)
		}
		out.ApprovedAt = &at
	}
	return out, nil
}

// EncodeArtifact serializes an artifact for caching.
func EncodeArtifact(a *model.Artifact) ([]byte, error) {
	v := artifactJSON{
		SubjectID:        a.SubjectID,
		Language:         a.Language,
		Kind:             string(a.Kind),
		Summary:          a.Summary,
		Questions:        a.Questions,
		Model:            a.Model,
		ProcessingTimeMs: a.ProcessingTimeMs,
		Moderation:       encodeModeration(a.Moderation),
		CreatedAt:        a.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339Nano),
	}
	return json.Marshal(v)
}

// DecodeArtifact deserializes a cached artifact.
func DecodeArtifact(data []byte) (*model.Artifact, error) {
	var v artifactJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode cached artifact: %w", err)
	}

	moderation, err := decodeModeration(v.Moderation)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.Artifact{
		SubjectID:        v.SubjectID,
		Language:         v.Language,
		Kind:             model.ArtifactKind(v.Kind),
		Summary:          v.Summary,
		Questions:        v.Questions,
		Model:            v.Model,
		ProcessingTimeMs: v.ProcessingTimeMs,
		Moderation:       moderation,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

// EncodeCumulative serializes a cumulative artifact for caching.
// The includedSubjectIds snapshot is order-preserving.
func EncodeCumulative(c *model.CumulativeArtifact) ([]byte, error) {
	ids := make([]string, len(c.IncludedSubjectIDs))
	for i, id := range c.IncludedSubjectIDs {
		ids[i] = model.FormatSubjectID(id)
	}
	v := cumulativeJSON{
		SubjectID:          c.SubjectID,
		Language:           c.Language,
		SeriesID:           c.SeriesID,
		Questions:          c.Questions,
		IncludedSubjectIDs: ids,
		SubjectCount:       c.SubjectCount,
		Model:              c.Model,
		ProcessingTimeMs:   c.ProcessingTimeMs,
		Moderation:         encodeModeration(c.Moderation),
		CreatedAt:          c.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:          c.UpdatedAt.Format(time.RFC3339Nano),
	}
	return json.Marshal(v)
}

// DecodeCumulative deserializes a cached cumulative artifact.
func DecodeCumulative(data []byte) (*model.CumulativeArtifact, error) {
	var v cumulativeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode cached cumulative artifact: %w", err)
	}

	ids := make([]int64, len(v.IncludedSubjectIDs))
	for i, raw := range v.IncludedSubjectIDs {
		id, err := model.ParseSubjectID(raw)
		if err != nil {
			return nil, fmt.Errorf("parse included subject ID %q: %w", raw, err)
		}
		ids[i] = id
	}

	moderation, err := decodeModeration(v.Moderation)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.CumulativeArtifact{
		SubjectID:          v.SubjectID,
		Language:           v.Language,
		SeriesID:           v.SeriesID,
		Questions:          v.Questions,
		IncludedSubjectIDs: ids,
		SubjectCount:       v.SubjectCount,
		Model:              v.Model,
		ProcessingTimeMs:   v.ProcessingTimeMs,
		Moderation:         moderation,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}, nil
}
