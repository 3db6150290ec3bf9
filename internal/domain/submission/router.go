package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/domain/attendance"
	"github.com/masthead-press/masthead/internal/domain/events"
	"github.com/masthead-press/masthead/internal/domain/forms"
	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/domain/reporter"
	"github.com/masthead-press/masthead/internal/domain/task"
	"github.com/masthead-press/masthead/pkg/logger"
)

// SuffixSource supplies the display-name suffix that marks an artifact
// as an attendance-confirmation form.
type SuffixSource interface {
	AttendanceSuffix(ctx context.Context) (string, error)
}

// Router consumes one inbound submission event and fans it out: the
// immutable submission log first, then linked-task completion, then
// attendance confirmation. The log write must succeed before anything
// else is attempted; the later steps are independently best-effort, so
// a failed step never rolls back its siblings and the raw submission is
// never lost.
type Router struct {
	submissions Repository
	members     member.Repository
	tasks       task.Repository
	taskSvc     task.Service
	attendance  attendance.Service
	provider    forms.Provider
	suffix      SuffixSource
	reporter    reporter.Reporter
	log         *logger.Logger
}

// NewRouter creates a Router.
func NewRouter(
	submissions Repository,
	members member.Repository,
	tasks task.Repository,
	taskSvc task.Service,
	att attendance.Service,
	provider forms.Provider,
	suffix SuffixSource,
	rep reporter.Reporter,
	log *logger.Logger,
) *Router {
	return &Router{
		submissions: submissions,
		members:     members,
		tasks:       tasks,
		taskSvc:     taskSvc,
		attendance:  att,
		provider:    provider,
		suffix:      suffix,
		reporter:    rep,
		log:         log,
	}
}

// Route applies one submission event. The returned error reflects only
// the audit-log step; downstream failures are reported and swallowed.
func (r *Router) Route(ctx context.Context, ev *events.SubmissionReceived) error {
	rec := &Record{
		FormArtifactID:  ev.FormArtifactID,
		RespondentEmail: ev.RespondentEmail,
		Responses:       ev.Answers(),
		SubmittedAt:     ev.ReceivedAt,
	}
	if err := r.submissions.Append(ctx, rec); err != nil {
		r.reporter.Report(ctx, ev.RespondentEmail, err)
		return fmt.Errorf("persist submission: %w", err)
	}

	m, err := r.members.FindByEmail(ctx, ev.RespondentEmail)
	if err != nil {
		r.reporter.Report(ctx, ev.RespondentEmail, err)
		return nil
	}
	if m == nil {
		// Unregistered submitter: the raw record is kept, nothing else
		// can be linked.
		r.log.Info("submission from unregistered email",
			zap.String("form_artifact_id", ev.FormArtifactID),
		)
		return nil
	}

	if err := r.completeLinkedTasks(ctx, ev.FormArtifactID, m); err != nil {
		r.reporter.Report(ctx, ev.RespondentEmail, err)
	}
	if err := r.confirmAttendance(ctx, ev.FormArtifactID, m); err != nil {
		r.reporter.Report(ctx, ev.RespondentEmail, err)
	}
	return nil
}

func (r *Router) completeLinkedTasks(ctx context.Context, formArtifactID string, m *member.Member) error {
	linked, err := r.tasks.FindByLinkedForm(ctx, formArtifactID)
	if err != nil {
		return fmt.Errorf("resolve linked tasks: %w", err)
	}

	for _, t := range linked {
		a, err := r.taskSvc.CompleteByMemberAndTask(ctx, m.ID, t.ID)
		if err != nil {
			if errors.Is(err, task.ErrAssignmentNotFound) {
				// The member was never assigned this task; nothing to
				// complete.
				continue
			}
			return fmt.Errorf("complete assignment for task %s: %w", t.ID, err)
		}
		r.log.Info("assignment auto-completed",
			zap.String("assignment_id", a.ID.String()),
			zap.String("task_id", t.ID.String()),
		)
	}
	return nil
}

func (r *Router) confirmAttendance(ctx context.Context, formArtifactID string, m *member.Member) error {
	suffix, err := r.suffix.AttendanceSuffix(ctx)
	if err != nil {
		return fmt.Errorf("load attendance suffix: %w", err)
	}

	artifact, err := r.provider.Open(ctx, formArtifactID)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", formArtifactID, err)
	}
	title, err := artifact.Title(ctx)
	if err != nil {
		return fmt.Errorf("read artifact title: %w", err)
	}
	if !strings.HasSuffix(title, suffix) {
		return nil
	}

	eventName := strings.TrimSuffix(title, suffix)
	if err := r.attendance.MarkAttended(ctx, m.ID, eventName); err != nil {
		if errors.Is(err, attendance.ErrEntryNotFound) {
			r.log.Info("no attendance entry for respondent",
				zap.String("event_name", eventName),
				zap.String("member_id", m.ID.String()),
			)
			return nil
		}
		return fmt.Errorf("mark attended for %q: %w", eventName, err)
	}

	r.log.Info("attendance confirmed",
		zap.String("event_name", eventName),
		zap.String("member_id", m.ID.String()),
	)
	return nil
}
