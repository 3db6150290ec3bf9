package dto

// CreateDefinitionRequest declares one field row of a form group.
type CreateDefinitionRequest struct {
	FormName      string   `json:"form_name" validate:"required,not_empty"`
	QuestionTitle string   `json:"question_title" validate:"required,not_empty"`
	Kind          string   `json:"kind" validate:"required,oneof=text paragraph choice checkbox dropdown"`
	Options       []string `json:"options,omitempty"`
}

// DefinitionResponse is the wire shape of one field row.
type DefinitionResponse struct {
	ID            string   `json:"id"`
	FormName      string   `json:"form_name"`
	ArtifactID    string   `json:"artifact_id,omitempty"`
	ItemID        string   `json:"item_id,omitempty"`
	QuestionTitle string   `json:"question_title"`
	Kind          string   `json:"kind"`
	Options       []string `json:"options,omitempty"`
}

// GenerateFormResponse reports the artifact created for a group.
type GenerateFormResponse struct {
	FormName   string `json:"form_name"`
	ArtifactID string `json:"artifact_id"`
}
