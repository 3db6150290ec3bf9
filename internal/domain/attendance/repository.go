package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Repository defines persistence for attendance log entries.
type Repository interface {
	CreateBatch(ctx context.Context, entries []Entry) error
	FindByMember(ctx context.Context, memberID uuid.UUID) ([]Entry, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error)

	// MarkFirstMatch sets the first (member, event name) entry to the
	// given status, scanning in insertion order. Returns false when no
	// entry matched.
	MarkFirstMatch(ctx context.Context, memberID uuid.UUID, eventName string, status Status) (bool, error)
}

type attendanceRepository struct {
	tab store.Tabular
}

// NewRepository creates a Repository over the tabular store.
func NewRepository(tab store.Tabular) Repository {
	return &attendanceRepository{tab: tab}
}

func (r *attendanceRepository) CreateBatch(ctx context.Context, entries []Entry) error {
	rows := make([]store.Row, 0, len(entries))
	for i := range entries {
		rows = append(rows, entries[i].toRow())
	}
	if err := r.tab.BatchWrite(ctx, store.CollectionAttendanceLog, rows); err != nil {
		return fmt.Errorf("create attendance entries: %w", err)
	}
	return nil
}

func (r *attendanceRepository) FindByMember(ctx context.Context, memberID uuid.UUID) ([]Entry, error) {
	return r.scan(ctx, func(e *Entry) bool { return e.MemberID == memberID })
}

func (r *attendanceRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error) {
	return r.scan(ctx, func(e *Entry) bool { return e.EventID == eventID })
}

func (r *attendanceRepository) scan(ctx context.Context, keep func(*Entry) bool) ([]Entry, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionAttendanceLog)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, row := range rows {
		e, err := entryFromRow(row)
		if err != nil {
			continue
		}
		if keep(e) {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

func (r *attendanceRepository) MarkFirstMatch(ctx context.Context, memberID uuid.UUID, eventName string, status Status) (bool, error) {
	wantMember := memberID.String()
	matched := false
	n, err := r.tab.BatchUpdate(ctx, store.CollectionAttendanceLog, func(row store.Row) bool {
		if matched {
			return false
		}
		if row["member_id"] == wantMember && row["event_name"] == eventName {
			matched = true
			return true
		}
		return false
	}, store.Row{"status": string(status)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
