package scheduler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/domain/task"
	"github.com/masthead-press/masthead/pkg/logger"
)

var overdueAssignments = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "masthead",
	Name:      "overdue_assignments",
	Help:      "Number of pending assignments whose task is past due",
})

func init() {
	prometheus.MustRegister(overdueAssignments)
}

// Scheduler runs the periodic overdue-assignment sweep. The sweep is
// read-only: it refreshes the overdue gauge and logs the offenders, it
// never mutates assignment state.
type Scheduler struct {
	taskService task.Service
	logger      *logger.Logger
	stop        chan struct{}
}

func NewScheduler(taskService task.Service, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		taskService: taskService,
		logger:      logger,
		stop:        make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	// Run immediately at startup
	s.runOverdueSweep()

	// Calculate time until next midnight
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Overdue sweep scheduler initialized",
		zap.Time("current_time", now),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	go func() {
		// Wait until first midnight
		timer := time.NewTimer(timeUntilMidnight)
		select {
		case <-timer.C:
		case <-s.stop:
			timer.Stop()
			return
		}

		// Then run every 24 hours
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		s.runOverdueSweep()
		for {
			select {
			case <-ticker.C:
				s.runOverdueSweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the scheduled sweeps. Safe to call once.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) runOverdueSweep() {
	ctx := context.Background()
	startTime := time.Now()

	s.logger.Info("Starting overdue assignment sweep", zap.Time("start_time", startTime))

	overdue, err := s.taskService.OverdueAssignments(ctx, startTime)
	if err != nil {
		s.logger.Error("Failed to compute overdue assignments",
			zap.Error(err),
		)
		return
	}

	overdueAssignments.Set(float64(len(overdue)))
	for _, a := range overdue {
		s.logger.Warn("Assignment overdue",
			zap.String("assignment_id", a.ID.String()),
			zap.String("member_id", a.MemberID.String()),
			zap.String("task_id", a.TaskID.String()),
		)
	}

	s.logger.Info("Completed overdue assignment sweep",
		zap.Int("overdue_count", len(overdue)),
		zap.Duration("duration", time.Since(startTime)),
	)
}
