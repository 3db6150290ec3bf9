package dto

import "time"

// SubmissionItem is one answered question in a webhook payload.
type SubmissionItem struct {
	Title  string `json:"title" validate:"required"`
	Answer string `json:"answer"`
}

// SubmissionWebhookRequest is the form provider's callback payload.
type SubmissionWebhookRequest struct {
	FormArtifactID  string           `json:"form_artifact_id" validate:"required,not_empty"`
	RespondentEmail string           `json:"respondent_email" validate:"required,email"`
	Items           []SubmissionItem `json:"items" validate:"required,min=1,dive"`
	ReceivedAt      *time.Time       `json:"received_at,omitempty"`
}

// SubmissionResponse is the wire shape of a logged submission.
type SubmissionResponse struct {
	ID              string            `json:"id"`
	FormArtifactID  string            `json:"form_artifact_id"`
	RespondentEmail string            `json:"respondent_email"`
	Responses       map[string]string `json:"responses"`
	SubmittedAt     time.Time         `json:"submitted_at"`
}
