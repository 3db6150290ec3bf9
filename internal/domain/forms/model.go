package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Common errors
var (
	ErrGroupNotFound    = errors.New("form group not found")
	ErrAlreadyGenerated = errors.New("form group already has an artifact")
	ErrNotGenerated     = errors.New("form group has not been generated")
	ErrInvalidItemKind  = errors.New("invalid form item kind")
)

// ItemKind is the closed set of field interaction kinds. Metadata is
// validated against it at ingestion time, so malformed rows fail fast
// instead of being skipped during synchronization.
type ItemKind string

const (
	ItemKindText      ItemKind = "text"
	ItemKindParagraph ItemKind = "paragraph"
	ItemKindChoice    ItemKind = "choice"
	ItemKindCheckbox  ItemKind = "checkbox"
	ItemKindDropdown  ItemKind = "dropdown"
)

// ParseItemKind validates a raw item type string.
func ParseItemKind(raw string) (ItemKind, error) {
	kind := ItemKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case ItemKindText, ItemKindParagraph, ItemKindChoice, ItemKindCheckbox, ItemKindDropdown:
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidItemKind, raw)
}

// HasChoices reports whether the kind carries an option list.
func (k ItemKind) HasChoices() bool {
	switch k {
	case ItemKindChoice, ItemKindCheckbox, ItemKindDropdown:
		return true
	}
	return false
}

// Definition is one field of a form group. A form is the set of
// definitions sharing a FormName; ArtifactID starts empty and is
// back-filled onto every row of the group by the synchronizer.
type Definition struct {
	ID            uuid.UUID `json:"id"`
	FormName      string    `json:"form_name"`
	ArtifactID    string    `json:"artifact_id,omitempty"`
	ItemID        string    `json:"item_id,omitempty"`
	QuestionTitle string    `json:"question_title"`
	Kind          ItemKind  `json:"kind"`
	Options       []string  `json:"options,omitempty"`
}

const optionsDelimiter = ","

func (d *Definition) toRow() store.Row {
	return store.Row{
		"form_def_id":      d.ID.String(),
		"form_name":        d.FormName,
		"form_artifact_id": d.ArtifactID,
		"item_id":          d.ItemID,
		"question_title":   d.QuestionTitle,
		"item_type":        string(d.Kind),
		"options":          strings.Join(d.Options, optionsDelimiter),
	}
}

func definitionFromRow(row store.Row) (*Definition, error) {
	id, err := uuid.Parse(row["form_def_id"])
	if err != nil {
		return nil, err
	}
	kind, err := ParseItemKind(row["item_type"])
	if err != nil {
		return nil, err
	}
	d := &Definition{
		ID:            id,
		FormName:      row["form_name"],
		ArtifactID:    row["form_artifact_id"],
		ItemID:        row["item_id"],
		QuestionTitle: row["question_title"],
		Kind:          kind,
	}
	if raw := row["options"]; raw != "" {
		for _, opt := range strings.Split(raw, optionsDelimiter) {
			if trimmed := strings.TrimSpace(opt); trimmed != "" {
				d.Options = append(d.Options, trimmed)
			}
		}
	}
	return d, nil
}
