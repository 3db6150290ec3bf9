package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

type fakeFormResolver struct {
	artifacts map[string]string
	err       error
}

func (f *fakeFormResolver) GroupArtifactID(ctx context.Context, formName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.artifacts[formName], nil
}

type serviceFixture struct {
	svc     Service
	tasks   Repository
	members member.Repository
	forms   *fakeFormResolver
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	tab := store.NewMemoryStore()
	tasks := NewRepository(tab)
	assignments := NewAssignmentRepository(tab)
	members := member.NewRepository(tab)
	forms := &fakeFormResolver{artifacts: map[string]string{}}
	svc := NewService(tasks, assignments, members, forms, store.NewMemoryLocker(), time.Second, logger.NewNop())
	return &serviceFixture{svc: svc, tasks: tasks, members: members, forms: forms}
}

func (f *serviceFixture) addMember(t *testing.T, email string) *member.Member {
	t.Helper()
	m := &member.Member{FullName: "Test Member", Email: email, Role: "Writer"}
	require.NoError(t, f.members.Create(context.Background(), m))
	return m
}

func TestCreateAndAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path creates both halves", func(t *testing.T) {
		f := newServiceFixture(t)
		m := f.addMember(t, "ada@masthead.press")

		result, err := f.svc.CreateAndAssign(ctx, CreateTaskInput{Title: "Cover story"}, m.Email)
		require.NoError(t, err)
		require.NotNil(t, result.Task)
		require.NotNil(t, result.Assignment)
		assert.NoError(t, result.AssignmentErr)
		assert.Equal(t, m.ID, result.Assignment.MemberID)
		assert.Equal(t, result.Task.ID, result.Assignment.TaskID)
		assert.Equal(t, AssignmentStatusPending, result.Assignment.Status)
	})

	t.Run("unknown assignee aborts before task creation", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.svc.CreateAndAssign(ctx, CreateTaskInput{Title: "Orphan"}, "nobody@masthead.press")
		assert.ErrorIs(t, err, ErrAssigneeNotFound)

		tasks, err := f.svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestAssignByEmail(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	m := f.addMember(t, "ben@masthead.press")

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Layout"})
	require.NoError(t, err)

	a, err := f.svc.AssignByEmail(ctx, task.ID, m.Email)
	require.NoError(t, err)
	assert.Equal(t, m.ID, a.MemberID)

	_, err = f.svc.AssignByEmail(ctx, task.ID, "ghost@masthead.press")
	assert.ErrorIs(t, err, ErrAssigneeNotFound)

	_, err = f.svc.Assign(ctx, uuid.New(), m.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCompleteByMemberAndTask(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	m := f.addMember(t, "cam@masthead.press")

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Photo essay"})
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, task.ID, m.ID)
	require.NoError(t, err)

	first, err := f.svc.CompleteByMemberAndTask(ctx, m.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, AssignmentStatusCompleted, first.Status)
	require.NotNil(t, first.DateCompleted)

	// Re-completing is idempotent and keeps the original timestamp.
	second, err := f.svc.CompleteByMemberAndTask(ctx, m.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, AssignmentStatusCompleted, second.Status)
	require.NotNil(t, second.DateCompleted)
	assert.Equal(t, *first.DateCompleted, *second.DateCompleted)

	_, err = f.svc.CompleteByMemberAndTask(ctx, uuid.New(), task.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestConcurrentCompletionsStampOnce(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	m := f.addMember(t, "dru@masthead.press")

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Live blog"})
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, task.ID, m.ID)
	require.NoError(t, err)

	// Racing completions serialize on the store lock; every caller gets
	// the completed assignment and the timestamp is written exactly once.
	const racers = 8
	results := make([]*Assignment, racers)
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.CompleteByMemberAndTask(ctx, m.ID, task.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, AssignmentStatusCompleted, results[i].Status)
		require.NotNil(t, results[i].DateCompleted)
	}

	final, err := f.svc.CompleteByMemberAndTask(ctx, m.ID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, final.DateCompleted)
	for i := 0; i < racers; i++ {
		assert.Equal(t, *final.DateCompleted, *results[i].DateCompleted)
	}
}

func TestUpdateAssignmentStatus(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	m := f.addMember(t, "dee@masthead.press")

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Interview"})
	require.NoError(t, err)
	a, err := f.svc.Assign(ctx, task.ID, m.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAssignmentStatus(ctx, a.ID, AssignmentStatus("Cancelled"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := f.svc.UpdateAssignmentStatus(ctx, a.ID, AssignmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, AssignmentStatusCompleted, updated.Status)

	_, err = f.svc.UpdateAssignmentStatus(ctx, uuid.New(), AssignmentStatusCompleted)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAttachForm(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Survey writeup"})
	require.NoError(t, err)

	// Group exists but was never generated.
	f.forms.artifacts["Reader Survey"] = ""
	err = f.svc.AttachForm(ctx, task.ID, "Reader Survey")
	assert.ErrorIs(t, err, ErrFormNotGenerated)

	f.forms.artifacts["Reader Survey"] = "artifact-123"
	require.NoError(t, f.svc.AttachForm(ctx, task.ID, "Reader Survey"))

	got, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "artifact-123", got.LinkedFormID)

	linked, err := f.tasks.FindByLinkedForm(ctx, "artifact-123")
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, task.ID, linked[0].ID)
}

func TestOverdueAssignments(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	m := f.addMember(t, "eve@masthead.press")

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	lateTask, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Late", DueDate: &past})
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, lateTask.ID, m.ID)
	require.NoError(t, err)

	onTimeTask, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "On time", DueDate: &future})
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, onTimeTask.ID, m.ID)
	require.NoError(t, err)

	// Completed assignments never count as overdue.
	doneTask, err := f.svc.CreateTask(ctx, CreateTaskInput{Title: "Done", DueDate: &past})
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, doneTask.ID, m.ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteByMemberAndTask(ctx, m.ID, doneTask.ID)
	require.NoError(t, err)

	overdue, err := f.svc.OverdueAssignments(ctx, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, lateTask.ID, overdue[0].TaskID)
}
