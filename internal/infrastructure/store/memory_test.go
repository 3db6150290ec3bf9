package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreBatchOps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.BatchWrite(ctx, CollectionMembers, []Row{
		{"member_id": "m1", "full_name": "Ada", "role": "Writer"},
		{"member_id": "m2", "full_name": "Ben", "role": "Editor"},
		{"member_id": "m3", "full_name": "Cam", "role": "Writer"},
	})
	require.NoError(t, err)

	rows, err := s.BatchRead(ctx, CollectionMembers)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// Reads hand out clones; mutating one must not leak back in.
	rows[0]["full_name"] = "mutated"
	again, err := s.BatchRead(ctx, CollectionMembers)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again[0]["full_name"])

	// Patch fans out to every matching row, count reflects matches.
	n, err := s.BatchUpdate(ctx, CollectionMembers, func(r Row) bool {
		return r["role"] == "Writer"
	}, Row{"role": "Columnist"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, ok, err := s.FindRow(ctx, CollectionMembers, func(r Row) bool {
		return r["member_id"] == "m3"
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Columnist", row["role"])

	// Patch only touches named cells.
	assert.Equal(t, "Cam", row["full_name"])
}

func TestMemoryStoreFindRowMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	row, ok, err := s.FindRow(ctx, CollectionTasks, func(r Row) bool { return true })
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, row)
}

func TestMemoryStoreUpdateNoMatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.BatchWrite(ctx, CollectionTasks, []Row{{"task_id": "t1"}}))

	n, err := s.BatchUpdate(ctx, CollectionTasks, func(r Row) bool {
		return r["task_id"] == "missing"
	}, Row{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryLockerMutualExclusion(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	release, err := l.Acquire(ctx, time.Second)
	require.NoError(t, err)

	// Held lock times a second caller out.
	_, err = l.Acquire(ctx, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)

	release()

	release2, err := l.Acquire(ctx, time.Second)
	require.NoError(t, err)
	release2()
}

func TestMemoryLockerReleaseIdempotent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	release, err := l.Acquire(ctx, time.Second)
	require.NoError(t, err)

	// Double release must not free the lock twice.
	release()
	release()

	release2, err := l.Acquire(ctx, time.Second)
	require.NoError(t, err)
	defer release2()

	_, err = l.Acquire(ctx, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestMemoryLockerContextCancel(t *testing.T) {
	l := NewMemoryLocker()

	release, err := l.Acquire(context.Background(), time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Acquire(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
