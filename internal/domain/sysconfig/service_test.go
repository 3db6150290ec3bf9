package sysconfig

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masthead-press/masthead/internal/infrastructure/cache"
	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

func TestGetFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(store.NewMemoryStore()), cache.NewMemoryCache(), time.Minute, "", logger.NewNop())

	suffix, err := svc.Get(ctx, KeyAttendanceSuffix)
	require.NoError(t, err)
	assert.Equal(t, " Attendance", suffix)

	_, err = svc.Get(ctx, "unknown_key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSetOverridesDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(store.NewMemoryStore()), cache.NewMemoryCache(), time.Minute, "", logger.NewNop())

	require.NoError(t, svc.Set(ctx, KeyValidRoles, "Editor, Writer, Intern"))

	roles, err := svc.ValidRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Editor", "Writer", "Intern"}, roles)
}

func TestSetInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(store.NewMemoryStore()), cache.NewMemoryCache(), time.Minute, "", logger.NewNop())

	// Prime the cache with the default.
	suffix, err := svc.AttendanceSuffix(ctx)
	require.NoError(t, err)
	assert.Equal(t, " Attendance", suffix)

	require.NoError(t, svc.Set(ctx, KeyAttendanceSuffix, " RSVP"))

	// The write evicted the cached entry, so the new value is visible
	// immediately rather than after the TTL.
	suffix, err = svc.AttendanceSuffix(ctx)
	require.NoError(t, err)
	assert.Equal(t, " RSVP", suffix)
}

func TestGetCachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	tab := store.NewMemoryStore()
	repo := NewRepository(tab)
	mem := cache.NewMemoryCache()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mem.SetClock(func() time.Time { return now })

	svc := NewService(repo, mem, time.Minute, "", logger.NewNop())

	require.NoError(t, repo.Set(ctx, KeyValidRoles, "Editor"))
	value, err := svc.Get(ctx, KeyValidRoles)
	require.NoError(t, err)
	assert.Equal(t, "Editor", value)

	// A write that bypasses the service is invisible until the TTL
	// lapses.
	require.NoError(t, repo.Set(ctx, KeyValidRoles, "Editor,Writer"))
	value, err = svc.Get(ctx, KeyValidRoles)
	require.NoError(t, err)
	assert.Equal(t, "Editor", value)

	now = now.Add(2 * time.Minute)
	value, err = svc.Get(ctx, KeyValidRoles)
	require.NoError(t, err)
	assert.Equal(t, "Editor,Writer", value)
}

func TestConfiguredAttendanceSuffixBecomesDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(store.NewMemoryStore()), cache.NewMemoryCache(), time.Minute, " RSVP", logger.NewNop())

	suffix, err := svc.AttendanceSuffix(ctx)
	require.NoError(t, err)
	assert.Equal(t, " RSVP", suffix)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, " RSVP", all[KeyAttendanceSuffix])

	// A stored value still beats the configured default.
	require.NoError(t, svc.Set(ctx, KeyAttendanceSuffix, " Check-in"))
	suffix, err = svc.AttendanceSuffix(ctx)
	require.NoError(t, err)
	assert.Equal(t, " Check-in", suffix)
}

func TestAllMergesDefaultsAndStored(t *testing.T) {
	ctx := context.Background()
	tab := store.NewMemoryStore()
	repo := NewRepository(tab)
	svc := NewService(repo, cache.NewMemoryCache(), time.Minute, "", logger.NewNop())

	require.NoError(t, svc.Set(ctx, KeyValidRoles, "Editor"))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Editor", all[KeyValidRoles])
	assert.Equal(t, " Attendance", all[KeyAttendanceSuffix])
}
