package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

// FormResolver resolves a named form group to its live artifact id. The
// synchronizer owns the artifact id; the manager only reads it when a
// task is attached to a group.
type FormResolver interface {
	GroupArtifactID(ctx context.Context, formName string) (string, error)
}

// CreateTaskInput carries the fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// CreateAndAssignResult distinguishes the two failure modes of the
// composite operation: when Task is set but Assignment is nil, the task
// was created and the assignment write failed (AssignmentErr says why).
// That partial state is legal and left standing.
type CreateAndAssignResult struct {
	Task          *Task
	Assignment    *Assignment
	AssignmentErr error
}

// Service defines task and assignment lifecycle operations.
type Service interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
	AttachForm(ctx context.Context, taskID uuid.UUID, formName string) error
	Assign(ctx context.Context, taskID, memberID uuid.UUID) (*Assignment, error)
	AssignByEmail(ctx context.Context, taskID uuid.UUID, email string) (*Assignment, error)
	CreateAndAssign(ctx context.Context, input CreateTaskInput, assigneeEmail string) (*CreateAndAssignResult, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status AssignmentStatus) (*Assignment, error)
	CompleteByMemberAndTask(ctx context.Context, memberID, taskID uuid.UUID) (*Assignment, error)
	ListAssignments(ctx context.Context) ([]Assignment, error)
	OverdueAssignments(ctx context.Context, now time.Time) ([]Assignment, error)
}

type service struct {
	tasks       Repository
	assignments AssignmentRepository
	members     member.Repository
	forms       FormResolver
	locker      store.Locker
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewService creates a task Service.
func NewService(
	tasks Repository,
	assignments AssignmentRepository,
	members member.Repository,
	forms FormResolver,
	locker store.Locker,
	lockTimeout time.Duration,
	log *logger.Logger,
) Service {
	if lockTimeout <= 0 {
		lockTimeout = 30 * time.Second
	}
	return &service{
		tasks:       tasks,
		assignments: assignments,
		members:     members,
		forms:       forms,
		locker:      locker,
		lockTimeout: lockTimeout,
		log:         log,
	}
}

func (s *service) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	t := &Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("task created", zap.String("task_id", t.ID.String()))
	return t, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *service) ListTasks(ctx context.Context) ([]Task, error) {
	return s.tasks.FindAll(ctx)
}

// AttachForm links a task to an already-generated form group, so that
// matching submissions can auto-complete its assignments.
func (s *service) AttachForm(ctx context.Context, taskID uuid.UUID, formName string) error {
	artifactID, err := s.forms.GroupArtifactID(ctx, formName)
	if err != nil {
		return err
	}
	if artifactID == "" {
		return ErrFormNotGenerated
	}
	ok, err := s.tasks.SetLinkedForm(ctx, taskID, artifactID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}
	return nil
}

func (s *service) Assign(ctx context.Context, taskID, memberID uuid.UUID) (*Assignment, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}

	a := &Assignment{
		MemberID: memberID,
		TaskID:   taskID,
		Status:   AssignmentStatusPending,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("task assigned",
		zap.String("task_id", taskID.String()),
		zap.String("member_id", memberID.String()),
	)
	return a, nil
}

// AssignByEmail resolves the member first; an unknown email is an
// expected condition surfaced as ErrAssigneeNotFound, not a fault.
func (s *service) AssignByEmail(ctx context.Context, taskID uuid.UUID, email string) (*Assignment, error) {
	m, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssigneeNotFound, email)
	}
	return s.Assign(ctx, taskID, m.ID)
}

// CreateAndAssign is not transactional across the two writes: if the
// assignment write fails after the task write succeeded, the task stays
// created and the result records which half failed.
func (s *service) CreateAndAssign(ctx context.Context, input CreateTaskInput, assigneeEmail string) (*CreateAndAssignResult, error) {
	m, err := s.members.FindByEmail(ctx, assigneeEmail)
	if err != nil {
		return nil, err
	}
	if m == nil {
		// Abort before creating the task; no orphan is left behind.
		return nil, fmt.Errorf("%w: %s", ErrAssigneeNotFound, assigneeEmail)
	}

	t, err := s.CreateTask(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &CreateAndAssignResult{Task: t}
	a, err := s.Assign(ctx, t.ID, m.ID)
	if err != nil {
		result.AssignmentErr = err
		s.log.Warn("task created but assignment failed",
			zap.String("task_id", t.ID.String()),
			zap.Error(err),
		)
		return result, nil
	}
	result.Assignment = a
	return result, nil
}

func (s *service) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status AssignmentStatus) (*Assignment, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	release, err := s.locker.Acquire(ctx, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAssignmentNotFound
	}
	return s.transition(ctx, a, status)
}

// CompleteByMemberAndTask marks the (member, task) assignment completed.
// It is the submission router's entry point.
func (s *service) CompleteByMemberAndTask(ctx context.Context, memberID, taskID uuid.UUID) (*Assignment, error) {
	release, err := s.locker.Acquire(ctx, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.assignments.FindByMemberAndTask(ctx, memberID, taskID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAssignmentNotFound
	}
	return s.transition(ctx, a, AssignmentStatusCompleted)
}

// transition applies a status change under the already-held lock.
// Re-completing a completed assignment is idempotent and leaves the
// original completion timestamp untouched.
func (s *service) transition(ctx context.Context, a *Assignment, status AssignmentStatus) (*Assignment, error) {
	if a.Status == AssignmentStatusCompleted && status == AssignmentStatusCompleted {
		return a, nil
	}

	a.Status = status
	if status == AssignmentStatusCompleted && a.DateCompleted == nil {
		// Stamp at the precision the row stores, so the value survives a
		// round trip unchanged.
		now := time.Now().UTC().Truncate(time.Second)
		a.DateCompleted = &now
	}

	ok, err := s.assignments.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAssignmentNotFound
	}

	s.log.Info("assignment status updated",
		zap.String("assignment_id", a.ID.String()),
		zap.String("status", string(a.Status)),
	)
	return a, nil
}

func (s *service) ListAssignments(ctx context.Context) ([]Assignment, error) {
	return s.assignments.FindAll(ctx)
}

// OverdueAssignments returns pending assignments whose task is past due.
func (s *service) OverdueAssignments(ctx context.Context, now time.Time) ([]Assignment, error) {
	assignments, err := s.assignments.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	var overdue []Assignment
	for _, a := range assignments {
		if a.Overdue(byID[a.TaskID], now) {
			overdue = append(overdue, a)
		}
	}
	return overdue, nil
}
