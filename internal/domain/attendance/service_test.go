package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewService(NewRepository(store.NewMemoryStore()), store.NewMemoryLocker(), time.Second, logger.NewNop())
}

func TestInviteRoster(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m1, m2 := uuid.New(), uuid.New()
	date := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	eventID, err := svc.InviteRoster(ctx, "Launch Party", date, []uuid.UUID{m1, m2})
	require.NoError(t, err)

	entries, err := svc.ListByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, StatusInvited, e.Status)
		assert.Equal(t, "Launch Party", e.EventName)
		assert.True(t, e.Date.Equal(date))
	}
}

func TestMarkAttended(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m := uuid.New()
	date := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	_, err := svc.InviteRoster(ctx, "Launch Party", date, []uuid.UUID{m})
	require.NoError(t, err)

	require.NoError(t, svc.MarkAttended(ctx, m, "Launch Party"))

	entries, err := svc.ListByMember(ctx, m)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusAttended, entries[0].Status)

	// Unknown member or event yields not found.
	err = svc.MarkAttended(ctx, uuid.New(), "Launch Party")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	err = svc.MarkAttended(ctx, m, "Other Event")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestMarkAttendedFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m := uuid.New()
	// Two invitations to events with the same name. Only the first
	// matching entry flips per confirmation.
	first, err := svc.InviteRoster(ctx, "Weekly Standup", time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), []uuid.UUID{m})
	require.NoError(t, err)
	second, err := svc.InviteRoster(ctx, "Weekly Standup", time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), []uuid.UUID{m})
	require.NoError(t, err)

	require.NoError(t, svc.MarkAttended(ctx, m, "Weekly Standup"))

	firstEntries, err := svc.ListByEvent(ctx, first)
	require.NoError(t, err)
	require.Len(t, firstEntries, 1)
	assert.Equal(t, StatusAttended, firstEntries[0].Status)

	secondEntries, err := svc.ListByEvent(ctx, second)
	require.NoError(t, err)
	require.Len(t, secondEntries, 1)
	assert.Equal(t, StatusInvited, secondEntries[0].Status)

	// A replayed confirmation re-hits the first entry and leaves the
	// second invitation untouched.
	require.NoError(t, svc.MarkAttended(ctx, m, "Weekly Standup"))
	secondEntries, err = svc.ListByEvent(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, StatusInvited, secondEntries[0].Status)
}
