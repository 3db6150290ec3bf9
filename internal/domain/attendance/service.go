package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

// Service defines attendance operations.
type Service interface {
	// InviteRoster creates one Invited entry per member for an event.
	InviteRoster(ctx context.Context, eventName string, date time.Time, memberIDs []uuid.UUID) (uuid.UUID, error)

	// MarkAttended flips the member's first matching entry for the
	// event name to Attended.
	MarkAttended(ctx context.Context, memberID uuid.UUID, eventName string) error

	ListByMember(ctx context.Context, memberID uuid.UUID) ([]Entry, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error)
}

type service struct {
	repo        Repository
	locker      store.Locker
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewService creates an attendance Service.
func NewService(repo Repository, locker store.Locker, lockTimeout time.Duration, log *logger.Logger) Service {
	if lockTimeout <= 0 {
		lockTimeout = 30 * time.Second
	}
	return &service{repo: repo, locker: locker, lockTimeout: lockTimeout, log: log}
}

func (s *service) InviteRoster(ctx context.Context, eventName string, date time.Time, memberIDs []uuid.UUID) (uuid.UUID, error) {
	eventID := uuid.New()
	entries := make([]Entry, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		entries = append(entries, Entry{
			EventID:   eventID,
			MemberID:  memberID,
			EventName: eventName,
			Date:      date,
			Status:    StatusInvited,
		})
	}
	if err := s.repo.CreateBatch(ctx, entries); err != nil {
		return uuid.Nil, err
	}
	s.log.Info("attendance roster created",
		zap.String("event_id", eventID.String()),
		zap.String("event_name", eventName),
		zap.Int("invited", len(entries)),
	)
	return eventID, nil
}

func (s *service) MarkAttended(ctx context.Context, memberID uuid.UUID, eventName string) error {
	release, err := s.locker.Acquire(ctx, s.lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	ok, err := s.repo.MarkFirstMatch(ctx, memberID, eventName, StatusAttended)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}

func (s *service) ListByMember(ctx context.Context, memberID uuid.UUID) ([]Entry, error) {
	return s.repo.FindByMember(ctx, memberID)
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error) {
	return s.repo.FindByEvent(ctx, eventID)
}
