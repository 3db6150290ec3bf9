package member

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Repository defines the interface for member persistence operations.
// Lookups by non-key attributes scan the collection in-process after a
// single batch read.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindAll(ctx context.Context, includeArchived bool) ([]Member, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (bool, error)
	Archive(ctx context.Context, id uuid.UUID) (bool, error)
}

type memberRepository struct {
	tab store.Tabular
}

// NewRepository creates a Repository over the tabular store.
func NewRepository(tab store.Tabular) Repository {
	return &memberRepository{tab: tab}
}

func (r *memberRepository) Create(ctx context.Context, m *Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.tab.BatchWrite(ctx, store.CollectionMembers, []store.Row{m.toRow()}); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (r *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	want := id.String()
	row, ok, err := r.tab.FindRow(ctx, store.CollectionMembers, func(row store.Row) bool {
		return row["member_id"] == want
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return memberFromRow(row)
}

func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	want := strings.ToLower(strings.TrimSpace(email))
	row, ok, err := r.tab.FindRow(ctx, store.CollectionMembers, func(row store.Row) bool {
		return strings.ToLower(row["email"]) == want
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return memberFromRow(row)
}

func (r *memberRepository) FindAll(ctx context.Context, includeArchived bool) ([]Member, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionMembers)
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		m, err := memberFromRow(row)
		if err != nil {
			continue
		}
		if m.Archived && !includeArchived {
			continue
		}
		members = append(members, *m)
	}
	return members, nil
}

func (r *memberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (bool, error) {
	want := id.String()
	n, err := r.tab.BatchUpdate(ctx, store.CollectionMembers, func(row store.Row) bool {
		return row["member_id"] == want
	}, store.Row{"role": role})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *memberRepository) Archive(ctx context.Context, id uuid.UUID) (bool, error) {
	want := id.String()
	n, err := r.tab.BatchUpdate(ctx, store.CollectionMembers, func(row store.Row) bool {
		return row["member_id"] == want
	}, store.Row{"archived": "true"})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
