package submission

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Record is one logged form submission. Records are append-only and
// never mutated: they are the audit source of truth, and replaying one
// is the recovery path for any downstream step that failed.
type Record struct {
	ID              uuid.UUID         `json:"id"`
	FormArtifactID  string            `json:"form_artifact_id"`
	RespondentEmail string            `json:"respondent_email"`
	Responses       map[string]string `json:"responses"`
	SubmittedAt     time.Time         `json:"submitted_at"`
}

func (r *Record) toRow() (store.Row, error) {
	responses, err := json.Marshal(r.Responses)
	if err != nil {
		return nil, err
	}
	return store.Row{
		"submission_id":    r.ID.String(),
		"form_artifact_id": r.FormArtifactID,
		"respondent_email": r.RespondentEmail,
		"responses":        string(responses),
		"submitted_at":     r.SubmittedAt.UTC().Format(time.RFC3339),
	}, nil
}

func recordFromRow(row store.Row) (*Record, error) {
	id, err := uuid.Parse(row["submission_id"])
	if err != nil {
		return nil, err
	}
	submittedAt, err := time.Parse(time.RFC3339, row["submitted_at"])
	if err != nil {
		return nil, err
	}
	var responses map[string]string
	if raw := row["responses"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &responses); err != nil {
			return nil, err
		}
	}
	return &Record{
		ID:              id,
		FormArtifactID:  row["form_artifact_id"],
		RespondentEmail: row["respondent_email"],
		Responses:       responses,
		SubmittedAt:     submittedAt,
	}, nil
}
