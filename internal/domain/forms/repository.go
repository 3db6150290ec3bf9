package forms

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Repository defines persistence for form definition rows.
type Repository interface {
	// CreateDefinition validates and appends one field row.
	CreateDefinition(ctx context.Context, d *Definition) error

	// ListGroup returns the group's rows in stored row order.
	ListGroup(ctx context.Context, formName string) ([]Definition, error)

	// ListGroupNames returns every distinct form name.
	ListGroupNames(ctx context.Context) ([]string, error)

	// SetGroupArtifactID writes the artifact id onto every row of the
	// group in one transactional fan-out update.
	SetGroupArtifactID(ctx context.Context, formName, artifactID string) (int, error)
}

type formRepository struct {
	tab store.Tabular
}

// NewRepository creates a Repository over the tabular store.
func NewRepository(tab store.Tabular) Repository {
	return &formRepository{tab: tab}
}

func (r *formRepository) CreateDefinition(ctx context.Context, d *Definition) error {
	if _, err := ParseItemKind(string(d.Kind)); err != nil {
		return err
	}
	if d.Kind.HasChoices() && len(d.Options) == 0 {
		return fmt.Errorf("%w: kind %q requires options", ErrInvalidItemKind, d.Kind)
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if err := r.tab.BatchWrite(ctx, store.CollectionFormDefinitions, []store.Row{d.toRow()}); err != nil {
		return fmt.Errorf("create form definition: %w", err)
	}
	return nil
}

func (r *formRepository) ListGroup(ctx context.Context, formName string) ([]Definition, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionFormDefinitions)
	if err != nil {
		return nil, err
	}
	var defs []Definition
	for _, row := range rows {
		if row["form_name"] != formName {
			continue
		}
		d, err := definitionFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("malformed definition row in group %q: %w", formName, err)
		}
		defs = append(defs, *d)
	}
	return defs, nil
}

func (r *formRepository) ListGroupNames(ctx context.Context) ([]string, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionFormDefinitions)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		name := row["form_name"]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func (r *formRepository) SetGroupArtifactID(ctx context.Context, formName, artifactID string) (int, error) {
	return r.tab.BatchUpdate(ctx, store.CollectionFormDefinitions, func(row store.Row) bool {
		return row["form_name"] == formName
	}, store.Row{"form_artifact_id": artifactID})
}
