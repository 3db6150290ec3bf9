package store

import (
	"context"
	"errors"
	"time"
)

// ErrLockTimeout is returned when the store lock cannot be acquired
// within the caller's bounded wait.
var ErrLockTimeout = errors.New("store: lock acquisition timed out")

// Row is a single record in a collection, keyed by header name. Cell
// values are plain strings; structured values are serialized by the
// repositories that own them.
type Row map[string]string

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Tabular is the port to the row-oriented datastore backing every entity
// repository. Only whole-collection batch operations exist; filtering is
// an in-process scan over the result of a single BatchRead.
type Tabular interface {
	// BatchRead returns every row of a collection in insertion order.
	BatchRead(ctx context.Context, collection string) ([]Row, error)

	// BatchWrite appends rows to a collection in one write.
	BatchWrite(ctx context.Context, collection string, rows []Row) error

	// BatchUpdate merges patch into every row matched by match, as a
	// single transactional write. It returns the number of rows updated.
	BatchUpdate(ctx context.Context, collection string, match func(Row) bool, patch Row) (int, error)

	// FindRow returns the first row matched by match, scanning in
	// insertion order. The second return is false when nothing matched.
	FindRow(ctx context.Context, collection string, match func(Row) bool) (Row, bool, error)
}

// Release releases a held lock. Safe to call more than once.
type Release func()

// Locker is the store's mutual-exclusion primitive. Every
// read-modify-write sequence against the store must run under it;
// pure reads do not take it.
type Locker interface {
	// Acquire blocks until the lock is granted, the timeout elapses
	// (ErrLockTimeout) or ctx is done.
	Acquire(ctx context.Context, timeout time.Duration) (Release, error)
}

// Collection names used across the repositories.
const (
	CollectionMembers         = "members"
	CollectionTasks           = "tasks"
	CollectionAssignments     = "assignments"
	CollectionFormDefinitions = "form_definitions"
	CollectionFormSubmissions = "form_submissions"
	CollectionAttendanceLog   = "attendance_log"
	CollectionSystemConfig    = "system_config"
	CollectionErrorLog        = "error_log"
)
