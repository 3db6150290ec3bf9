package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process Tabular implementation. It backs the
// development mode and every repository test.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Row
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Row)}
}

func (s *MemoryStore) BatchRead(ctx context.Context, collection string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.collections[collection]
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *MemoryStore) BatchWrite(ctx context.Context, collection string, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		s.collections[collection] = append(s.collections[collection], r.Clone())
	}
	return nil
}

func (s *MemoryStore) BatchUpdate(ctx context.Context, collection string, match func(Row) bool, patch Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, r := range s.collections[collection] {
		if !match(r) {
			continue
		}
		for k, v := range patch {
			r[k] = v
		}
		updated++
	}
	return updated, nil
}

func (s *MemoryStore) FindRow(ctx context.Context, collection string, match func(Row) bool) (Row, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.collections[collection] {
		if match(r) {
			return r.Clone(), true, nil
		}
	}
	return nil, false, nil
}

// MemoryLocker is a single in-process lock with a bounded wait. It is a
// semaphore rather than a sync.Mutex so that acquisition can time out.
type MemoryLocker struct {
	sem chan struct{}
}

// NewMemoryLocker creates an unlocked MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	l := &MemoryLocker{sem: make(chan struct{}, 1)}
	l.sem <- struct{}{}
	return l
}

func (l *MemoryLocker) Acquire(ctx context.Context, timeout time.Duration) (Release, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.sem:
		var once sync.Once
		return func() {
			once.Do(func() { l.sem <- struct{}{} })
		}, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
