package forms

import "context"

// Field is one live field on an external form artifact.
type Field struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Artifact is a live, externally-hosted form instance.
type Artifact interface {
	// ID returns the provider-assigned artifact identity.
	ID() string

	// Title returns the artifact's display name.
	Title(ctx context.Context) (string, error)

	// AddField appends a field of the given kind; choices apply only to
	// kinds that carry them.
	AddField(ctx context.Context, kind ItemKind, title string, choices []string) error

	// ListFields returns the artifact's current fields in order.
	ListFields(ctx context.Context) ([]Field, error)

	// DeleteField removes one field by id.
	DeleteField(ctx context.Context, fieldID string) error
}

// Provider is the external form artifact host. The core depends on no
// other capability of it.
type Provider interface {
	// Create makes a new empty artifact with the given display name.
	Create(ctx context.Context, name string) (Artifact, error)

	// Open returns a handle to an existing artifact.
	Open(ctx context.Context, artifactID string) (Artifact, error)
}
