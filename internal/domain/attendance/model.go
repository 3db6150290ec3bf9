package attendance

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Common errors
var (
	ErrEntryNotFound = errors.New("attendance entry not found")
)

// Status of one attendance log entry. Entries start Invited and move to
// Attended when a matching submission arrives.
type Status string

const (
	StatusInvited  Status = "Invited"
	StatusAttended Status = "Attended"
)

// Entry is one member's attendance record for one event. Submissions
// are matched by (member, event name), not by event id; callers are
// expected to keep (member, event name) unique at roster creation.
type Entry struct {
	EventID   uuid.UUID `json:"event_id"`
	MemberID  uuid.UUID `json:"member_id"`
	EventName string    `json:"event_name"`
	Date      time.Time `json:"date"`
	Status    Status    `json:"status"`
}

func (e *Entry) toRow() store.Row {
	return store.Row{
		"event_id":   e.EventID.String(),
		"member_id":  e.MemberID.String(),
		"event_name": e.EventName,
		"date":       e.Date.UTC().Format(time.RFC3339),
		"status":     string(e.Status),
	}
}

func entryFromRow(row store.Row) (*Entry, error) {
	eventID, err := uuid.Parse(row["event_id"])
	if err != nil {
		return nil, err
	}
	memberID, err := uuid.Parse(row["member_id"])
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(time.RFC3339, row["date"])
	if err != nil {
		return nil, err
	}
	return &Entry{
		EventID:   eventID,
		MemberID:  memberID,
		EventName: row["event_name"],
		Date:      date,
		Status:    Status(row["status"]),
	}, nil
}
