package submission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Repository defines append and read access to the submission log. There
// is deliberately no update or delete.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	FindByArtifact(ctx context.Context, formArtifactID string) ([]Record, error)
	FindAll(ctx context.Context) ([]Record, error)
}

type submissionRepository struct {
	tab store.Tabular
}

// NewRepository creates a Repository over the tabular store.
func NewRepository(tab store.Tabular) Repository {
	return &submissionRepository{tab: tab}
}

func (r *submissionRepository) Append(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	row, err := rec.toRow()
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	if err := r.tab.BatchWrite(ctx, store.CollectionFormSubmissions, []store.Row{row}); err != nil {
		return fmt.Errorf("append submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByArtifact(ctx context.Context, formArtifactID string) ([]Record, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range all {
		if rec.FormArtifactID == formArtifactID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *submissionRepository) FindAll(ctx context.Context) ([]Record, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionFormSubmissions)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}
