package dto

import "time"

// CreateTaskRequest is the payload for creating an editorial task.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,not_empty,max=300"`
	Description string     `json:"description" validate:"max=4000"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	// AssigneeEmail, when present, turns creation into the composite
	// create-and-assign operation.
	AssigneeEmail string `json:"assignee_email,omitempty" validate:"omitempty,email"`
}

// AttachFormRequest links a task to a declarative form group.
type AttachFormRequest struct {
	FormName string `json:"form_name" validate:"required,not_empty"`
}

// AssignRequest is the payload for assigning a task to a member.
type AssignRequest struct {
	MemberID string `json:"member_id,omitempty" validate:"omitempty,valid_uuid"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateAssignmentStatusRequest is the payload for a status transition.
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Completed"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	LinkedFormID string     `json:"linked_form_id,omitempty"`
}

// AssignmentResponse is the wire shape of an assignment.
type AssignmentResponse struct {
	ID            string     `json:"id"`
	MemberID      string     `json:"member_id"`
	TaskID        string     `json:"task_id"`
	Status        string     `json:"status"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
}

// CreateAndAssignResponse reports the composite operation, including the
// partial-success case where the task exists but the assignment failed.
type CreateAndAssignResponse struct {
	Task            TaskResponse        `json:"task"`
	Assignment      *AssignmentResponse `json:"assignment,omitempty"`
	AssignmentError string              `json:"assignment_error,omitempty"`
}
