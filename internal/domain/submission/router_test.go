package submission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masthead-press/masthead/internal/domain/attendance"
	"github.com/masthead-press/masthead/internal/domain/events"
	"github.com/masthead-press/masthead/internal/domain/forms"
	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/domain/reporter"
	"github.com/masthead-press/masthead/internal/domain/task"
	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

type fakeArtifact struct {
	id    string
	title string
}

func (a *fakeArtifact) ID() string { return a.id }

func (a *fakeArtifact) Title(ctx context.Context) (string, error) { return a.title, nil }

func (a *fakeArtifact) ListFields(ctx context.Context) ([]forms.Field, error) {
	return nil, nil
}
func (a *fakeArtifact) AddField(ctx context.Context, kind forms.ItemKind, title string, choices []string) error {
	return nil
}
func (a *fakeArtifact) DeleteField(ctx context.Context, fieldID string) error { return nil }

type fakeProvider struct {
	titles map[string]string
}

func (p *fakeProvider) Create(ctx context.Context, name string) (forms.Artifact, error) {
	return nil, fmt.Errorf("not supported")
}

func (p *fakeProvider) Open(ctx context.Context, artifactID string) (forms.Artifact, error) {
	title, ok := p.titles[artifactID]
	if !ok {
		return nil, fmt.Errorf("artifact %s not found", artifactID)
	}
	return &fakeArtifact{id: artifactID, title: title}, nil
}

type fakeSuffixSource struct{ suffix string }

func (f *fakeSuffixSource) AttendanceSuffix(ctx context.Context) (string, error) {
	return f.suffix, nil
}

type fakeFormResolver struct{}

func (fakeFormResolver) GroupArtifactID(ctx context.Context, formName string) (string, error) {
	return "", nil
}

type routerFixture struct {
	router      *Router
	submissions Repository
	members     member.Repository
	tasks       task.Repository
	taskSvc     task.Service
	attendance  attendance.Service
	provider    *fakeProvider
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	tab := store.NewMemoryStore()
	locker := store.NewMemoryLocker()
	log := logger.NewNop()

	submissions := NewRepository(tab)
	members := member.NewRepository(tab)
	tasks := task.NewRepository(tab)
	assignments := task.NewAssignmentRepository(tab)
	taskSvc := task.NewService(tasks, assignments, members, fakeFormResolver{}, locker, time.Second, log)
	attendanceSvc := attendance.NewService(attendance.NewRepository(tab), locker, time.Second, log)
	provider := &fakeProvider{titles: map[string]string{}}

	router := NewRouter(
		submissions,
		members,
		tasks,
		taskSvc,
		attendanceSvc,
		provider,
		&fakeSuffixSource{suffix: " Attendance"},
		reporter.Nop(),
		log,
	)
	return &routerFixture{
		router:      router,
		submissions: submissions,
		members:     members,
		tasks:       tasks,
		taskSvc:     taskSvc,
		attendance:  attendanceSvc,
		provider:    provider,
	}
}

func (f *routerFixture) addMember(t *testing.T, email string) *member.Member {
	t.Helper()
	m := &member.Member{FullName: "Test Member", Email: email, Role: "Writer"}
	require.NoError(t, f.members.Create(context.Background(), m))
	return m
}

func submissionEvent(artifactID, email string, items ...events.ItemResponse) *events.SubmissionReceived {
	return &events.SubmissionReceived{
		FormArtifactID:  artifactID,
		RespondentEmail: email,
		Items:           items,
		ReceivedAt:      time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestRouteLogsEverySubmission(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-1"] = "Story Intake"

	// An unregistered respondent still lands in the audit log.
	ev := submissionEvent("art-1", "stranger@example.com",
		events.ItemResponse{Title: "Headline", Answer: "Scoop"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	records, err := f.submissions.FindByArtifact(ctx, "art-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "stranger@example.com", records[0].RespondentEmail)
	assert.Equal(t, "Scoop", records[0].Responses["Headline"])
}

func TestRouteDuplicateTitlesLastWins(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-1"] = "Story Intake"

	ev := submissionEvent("art-1", "someone@example.com",
		events.ItemResponse{Title: "Notes", Answer: "first"},
		events.ItemResponse{Title: "Notes", Answer: "second"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	records, err := f.submissions.FindByArtifact(ctx, "art-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0].Responses["Notes"])
}

func TestRouteCompletesLinkedAssignment(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-9"] = "Story Intake"

	m := f.addMember(t, "ada@masthead.press")
	created, err := f.taskSvc.CreateTask(ctx, task.CreateTaskInput{Title: "Cover story"})
	require.NoError(t, err)
	_, err = f.tasks.SetLinkedForm(ctx, created.ID, "art-9")
	require.NoError(t, err)
	_, err = f.taskSvc.Assign(ctx, created.ID, m.ID)
	require.NoError(t, err)

	ev := submissionEvent("art-9", m.Email,
		events.ItemResponse{Title: "Draft", Answer: "done"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	assignments, err := f.taskSvc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, task.AssignmentStatusCompleted, assignments[0].Status)
	assert.NotNil(t, assignments[0].DateCompleted)
}

func TestRouteReplayStaysIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-9"] = "Story Intake"

	m := f.addMember(t, "ben@masthead.press")
	created, err := f.taskSvc.CreateTask(ctx, task.CreateTaskInput{Title: "Layout"})
	require.NoError(t, err)
	_, err = f.tasks.SetLinkedForm(ctx, created.ID, "art-9")
	require.NoError(t, err)
	_, err = f.taskSvc.Assign(ctx, created.ID, m.ID)
	require.NoError(t, err)

	ev := submissionEvent("art-9", m.Email,
		events.ItemResponse{Title: "Draft", Answer: "done"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	assignments, err := f.taskSvc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	firstStamp := assignments[0].DateCompleted
	require.NotNil(t, firstStamp)

	// Webhook retry: same event routed again. The log grows, the
	// completion timestamp does not move.
	require.NoError(t, f.router.Route(ctx, ev))

	records, err := f.submissions.FindByArtifact(ctx, "art-9")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	assignments, err = f.taskSvc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, *firstStamp, *assignments[0].DateCompleted)
}

func TestRouteUnassignedMemberSkipsQuietly(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-9"] = "Story Intake"

	m := f.addMember(t, "cam@masthead.press")
	created, err := f.taskSvc.CreateTask(ctx, task.CreateTaskInput{Title: "Photo essay"})
	require.NoError(t, err)
	_, err = f.tasks.SetLinkedForm(ctx, created.ID, "art-9")
	require.NoError(t, err)
	// Member exists but was never assigned the linked task.

	ev := submissionEvent("art-9", m.Email,
		events.ItemResponse{Title: "Draft", Answer: "done"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	records, err := f.submissions.FindByArtifact(ctx, "art-9")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRouteConfirmsAttendance(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-att"] = "Launch Party Attendance"

	m := f.addMember(t, "dee@masthead.press")
	other := f.addMember(t, "eve@masthead.press")

	eventID, err := f.attendance.InviteRoster(ctx, "Launch Party",
		time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		[]uuid.UUID{m.ID, other.ID},
	)
	require.NoError(t, err)

	ev := submissionEvent("art-att", m.Email,
		events.ItemResponse{Title: "Will you attend?", Answer: "Yes"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	entries, err := f.attendance.ListByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byMember := map[uuid.UUID]attendance.Status{}
	for _, e := range entries {
		byMember[e.MemberID] = e.Status
	}
	assert.Equal(t, attendance.StatusAttended, byMember[m.ID])
	assert.Equal(t, attendance.StatusInvited, byMember[other.ID])
}

func TestRouteNonAttendanceFormLeavesEntries(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	f.provider.titles["art-1"] = "Story Intake"

	m := f.addMember(t, "fay@masthead.press")

	eventID, err := f.attendance.InviteRoster(ctx, "Story Intake",
		time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		[]uuid.UUID{m.ID},
	)
	require.NoError(t, err)

	// Title has no attendance suffix, so nothing is confirmed.
	ev := submissionEvent("art-1", m.Email,
		events.ItemResponse{Title: "Headline", Answer: "Scoop"},
	)
	require.NoError(t, f.router.Route(ctx, ev))

	entries, err := f.attendance.ListByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, attendance.StatusInvited, entries[0].Status)
}
