package events

import "time"

// Topic names
const (
	TopicSubmissions = "submissions"
)

// ItemResponse is one answered question in a submission, keyed by the
// question's display title.
type ItemResponse struct {
	Title  string `json:"title"`
	Answer string `json:"answer"`
}

// SubmissionReceived is the event delivered when a respondent completes
// a form artifact.
type SubmissionReceived struct {
	FormArtifactID  string         `json:"form_artifact_id"`
	RespondentEmail string         `json:"respondent_email"`
	Items           []ItemResponse `json:"items"`
	ReceivedAt      time.Time      `json:"received_at"`
}

// Answers collapses the item responses into a title-to-answer map. When
// a title repeats, the last answer wins.
func (e *SubmissionReceived) Answers() map[string]string {
	out := make(map[string]string, len(e.Items))
	for _, item := range e.Items {
		out[item.Title] = item.Answer
	}
	return out
}
