package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Repository defines the interface for task persistence operations
type Repository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context) ([]Task, error)
	FindByLinkedForm(ctx context.Context, formArtifactID string) ([]Task, error)
	SetLinkedForm(ctx context.Context, id uuid.UUID, formArtifactID string) (bool, error)
}

// AssignmentRepository defines the interface for assignment persistence
// operations. Duplicate (member, task) pairs are the caller's problem;
// the repository does not deduplicate.
type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindByMemberAndTask(ctx context.Context, memberID, taskID uuid.UUID) (*Assignment, error)
	FindAll(ctx context.Context) ([]Assignment, error)
	Update(ctx context.Context, a *Assignment) (bool, error)
}

type taskRepository struct {
	tab store.Tabular
}

// NewRepository creates a task Repository over the tabular store.
func NewRepository(tab store.Tabular) Repository {
	return &taskRepository{tab: tab}
}

func (r *taskRepository) Create(ctx context.Context, t *Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.tab.BatchWrite(ctx, store.CollectionTasks, []store.Row{t.toRow()}); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	want := id.String()
	row, ok, err := r.tab.FindRow(ctx, store.CollectionTasks, func(row store.Row) bool {
		return row["task_id"] == want
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return taskFromRow(row)
}

func (r *taskRepository) FindAll(ctx context.Context) ([]Task, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionTasks)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(rows))
	for _, row := range rows {
		t, err := taskFromRow(row)
		if err != nil {
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (r *taskRepository) FindByLinkedForm(ctx context.Context, formArtifactID string) ([]Task, error) {
	if formArtifactID == "" {
		return nil, nil
	}
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var linked []Task
	for _, t := range all {
		if t.LinkedFormID == formArtifactID {
			linked = append(linked, t)
		}
	}
	return linked, nil
}

func (r *taskRepository) SetLinkedForm(ctx context.Context, id uuid.UUID, formArtifactID string) (bool, error) {
	want := id.String()
	n, err := r.tab.BatchUpdate(ctx, store.CollectionTasks, func(row store.Row) bool {
		return row["task_id"] == want
	}, store.Row{"linked_form_id": formArtifactID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type assignmentRepository struct {
	tab store.Tabular
}

// NewAssignmentRepository creates an AssignmentRepository over the
// tabular store.
func NewAssignmentRepository(tab store.Tabular) AssignmentRepository {
	return &assignmentRepository{tab: tab}
}

func (r *assignmentRepository) Create(ctx context.Context, a *Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AssignmentStatusPending
	}
	if err := r.tab.BatchWrite(ctx, store.CollectionAssignments, []store.Row{a.toRow()}); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	want := id.String()
	row, ok, err := r.tab.FindRow(ctx, store.CollectionAssignments, func(row store.Row) bool {
		return row["assignment_id"] == want
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return assignmentFromRow(row)
}

func (r *assignmentRepository) FindByMemberAndTask(ctx context.Context, memberID, taskID uuid.UUID) (*Assignment, error) {
	wantMember, wantTask := memberID.String(), taskID.String()
	row, ok, err := r.tab.FindRow(ctx, store.CollectionAssignments, func(row store.Row) bool {
		return row["member_id"] == wantMember && row["task_id"] == wantTask
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return assignmentFromRow(row)
}

func (r *assignmentRepository) FindAll(ctx context.Context) ([]Assignment, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionAssignments)
	if err != nil {
		return nil, err
	}
	assignments := make([]Assignment, 0, len(rows))
	for _, row := range rows {
		a, err := assignmentFromRow(row)
		if err != nil {
			continue
		}
		assignments = append(assignments, *a)
	}
	return assignments, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a *Assignment) (bool, error) {
	want := a.ID.String()
	n, err := r.tab.BatchUpdate(ctx, store.CollectionAssignments, func(row store.Row) bool {
		return row["assignment_id"] == want
	}, a.toRow())
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
