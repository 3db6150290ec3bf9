package handlers

import (
	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/attendance"
	"github.com/masthead-press/masthead/internal/domain/forms"
	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/domain/submission"
	"github.com/masthead-press/masthead/internal/domain/task"
)

// Members
func MemberToResponse(m *member.Member) *dto.MemberResponse {
	if m == nil {
		return nil
	}
	return &dto.MemberResponse{
		ID:       m.ID.String(),
		FullName: m.FullName,
		Email:    m.Email,
		Role:     m.Role,
		Archived: m.Archived,
	}
}

// Tasks
func TaskToResponse(t *task.Task) *dto.TaskResponse {
	if t == nil {
		return nil
	}
	return &dto.TaskResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      t.DueDate,
		LinkedFormID: t.LinkedFormID,
	}
}

func AssignmentToResponse(a *task.Assignment) *dto.AssignmentResponse {
	if a == nil {
		return nil
	}
	return &dto.AssignmentResponse{
		ID:            a.ID.String(),
		MemberID:      a.MemberID.String(),
		TaskID:        a.TaskID.String(),
		Status:        string(a.Status),
		DateCompleted: a.DateCompleted,
	}
}

// Forms
func DefinitionToResponse(d *forms.Definition) *dto.DefinitionResponse {
	if d == nil {
		return nil
	}
	return &dto.DefinitionResponse{
		ID:            d.ID.String(),
		FormName:      d.FormName,
		ArtifactID:    d.ArtifactID,
		ItemID:        d.ItemID,
		QuestionTitle: d.QuestionTitle,
		Kind:          string(d.Kind),
		Options:       d.Options,
	}
}

// Attendance
func AttendanceEntryToResponse(e *attendance.Entry) *dto.AttendanceEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.AttendanceEntryResponse{
		EventID:   e.EventID.String(),
		MemberID:  e.MemberID.String(),
		EventName: e.EventName,
		Date:      e.Date,
		Status:    string(e.Status),
	}
}

// Submissions
func SubmissionToResponse(r *submission.Record) *dto.SubmissionResponse {
	if r == nil {
		return nil
	}
	return &dto.SubmissionResponse{
		ID:              r.ID.String(),
		FormArtifactID:  r.FormArtifactID,
		RespondentEmail: r.RespondentEmail,
		Responses:       r.Responses,
		SubmittedAt:     r.SubmittedAt,
	}
}
