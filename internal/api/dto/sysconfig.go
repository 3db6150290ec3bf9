package dto

// SetConfigRequest writes one configuration key.
type SetConfigRequest struct {
	Value string `json:"value" validate:"required"`
}
