package task

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// AssignmentStatus is the lifecycle state of an assignment. The machine
// is one-way: Pending to Completed, terminal.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "Pending"
	AssignmentStatusCompleted AssignmentStatus = "Completed"
)

// IsValid checks whether the status is a known state.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusCompleted:
		return true
	}
	return false
}

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssigneeNotFound   = errors.New("assignee not found")
	ErrInvalidStatus      = errors.New("invalid assignment status")
	ErrFormNotGenerated   = errors.New("form group has no artifact yet")
)

// Task is a unit of editorial work. LinkedFormID is an optional weak
// reference to a form artifact; when set, a matching submission
// auto-completes the respondent's assignment.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	LinkedFormID string     `json:"linked_form_id,omitempty"`
}

// Assignment binds one member to one task with a status. DateCompleted
// is stamped exactly once, on the Pending to Completed transition, and
// never cleared or overwritten.
type Assignment struct {
	ID            uuid.UUID        `json:"id"`
	MemberID      uuid.UUID        `json:"member_id"`
	TaskID        uuid.UUID        `json:"task_id"`
	Status        AssignmentStatus `json:"status"`
	DateCompleted *time.Time       `json:"date_completed,omitempty"`
}

// Overdue reports whether a pending assignment's task is past due. This
// is a derived view, never a stored status.
func (a *Assignment) Overdue(t *Task, now time.Time) bool {
	return a.Status == AssignmentStatusPending &&
		t != nil && t.DueDate != nil && now.After(*t.DueDate)
}

func (t *Task) toRow() store.Row {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.UTC().Format(time.RFC3339)
	}
	return store.Row{
		"task_id":        t.ID.String(),
		"title":          t.Title,
		"description":    t.Description,
		"due_date":       due,
		"linked_form_id": t.LinkedFormID,
	}
}

func taskFromRow(row store.Row) (*Task, error) {
	id, err := uuid.Parse(row["task_id"])
	if err != nil {
		return nil, err
	}
	t := &Task{
		ID:           id,
		Title:        row["title"],
		Description:  row["description"],
		LinkedFormID: row["linked_form_id"],
	}
	if raw := row["due_date"]; raw != "" {
		due, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}
	return t, nil
}

func (a *Assignment) toRow() store.Row {
	completed := ""
	if a.DateCompleted != nil {
		completed = a.DateCompleted.UTC().Format(time.RFC3339)
	}
	return store.Row{
		"assignment_id":  a.ID.String(),
		"member_id":      a.MemberID.String(),
		"task_id":        a.TaskID.String(),
		"status":         string(a.Status),
		"date_completed": completed,
	}
}

func assignmentFromRow(row store.Row) (*Assignment, error) {
	id, err := uuid.Parse(row["assignment_id"])
	if err != nil {
		return nil, err
	}
	memberID, err := uuid.Parse(row["member_id"])
	if err != nil {
		return nil, err
	}
	taskID, err := uuid.Parse(row["task_id"])
	if err != nil {
		return nil, err
	}
	a := &Assignment{
		ID:       id,
		MemberID: memberID,
		TaskID:   taskID,
		Status:   AssignmentStatus(row["status"]),
	}
	if raw := row["date_completed"]; raw != "" {
		completed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		a.DateCompleted = &completed
	}
	return a, nil
}
