package dto

import "time"

// InviteRosterRequest creates Invited entries for an event.
type InviteRosterRequest struct {
	EventName string    `json:"event_name" validate:"required,not_empty"`
	Date      time.Time `json:"date" validate:"required"`
	MemberIDs []string  `json:"member_ids" validate:"required,min=1,dive,valid_uuid"`
}

// AttendanceEntryResponse is the wire shape of an attendance entry.
type AttendanceEntryResponse struct {
	EventID   string    `json:"event_id"`
	MemberID  string    `json:"member_id"`
	EventName string    `json:"event_name"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
}
