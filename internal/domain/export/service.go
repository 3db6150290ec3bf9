package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/domain/task"
	"github.com/masthead-press/masthead/pkg/logger"
)

// Common errors
var (
	ErrNoAssignments = errors.New("no assignments to export")
	ErrGenerateFile  = errors.New("failed to generate workbook")
)

// Service produces downloadable reports over the editorial state. The
// workbook is returned as a buffer; the handler layer owns the HTTP
// response headers.
type Service interface {
	// AssignmentReport renders every assignment with its member and task
	// context into an .xlsx workbook. Returns the workbook bytes and a
	// suggested filename.
	AssignmentReport(ctx context.Context) (*bytes.Buffer, string, error)
}

type service struct {
	tasks       task.Repository
	assignments task.AssignmentRepository
	members     member.Repository
	log         *logger.Logger
	now         func() time.Time
}

// NewService creates an export Service.
func NewService(
	tasks task.Repository,
	assignments task.AssignmentRepository,
	members member.Repository,
	log *logger.Logger,
) Service {
	return &service{
		tasks:       tasks,
		assignments: assignments,
		members:     members,
		log:         log,
		now:         time.Now,
	}
}

const reportSheet = "Assignments"

func (s *service) AssignmentReport(ctx context.Context) (*bytes.Buffer, string, error) {
	assignments, err := s.assignments.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to load assignments for report", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrNoAssignments
	}

	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to load tasks for report", zap.Error(err))
		return nil, "", err
	}
	// Archived members keep their rows; their assignments still report.
	members, err := s.members.FindAll(ctx, true)
	if err != nil {
		s.log.Error("failed to load members for report", zap.Error(err))
		return nil, "", err
	}

	taskIndex := make(map[uuid.UUID]*task.Task, len(tasks))
	for i := range tasks {
		taskIndex[tasks[i].ID] = &tasks[i]
	}
	memberIndex := make(map[uuid.UUID]*member.Member, len(members))
	for i := range members {
		memberIndex[members[i].ID] = &members[i]
	}

	type reportRow struct {
		memberName string
		email      string
		taskTitle  string
		status     string
		dueDate    string
		completed  string
		overdue    string
	}

	now := s.now()
	rows := make([]reportRow, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]

		rr := reportRow{status: string(a.Status)}
		if m, ok := memberIndex[a.MemberID]; ok {
			rr.memberName = m.FullName
			rr.email = m.Email
		} else {
			rr.memberName = a.MemberID.String()
		}

		t := taskIndex[a.TaskID]
		if t != nil {
			rr.taskTitle = t.Title
			if t.DueDate != nil {
				rr.dueDate = t.DueDate.Format("2006-01-02")
			}
		} else {
			rr.taskTitle = a.TaskID.String()
		}
		if a.DateCompleted != nil {
			rr.completed = a.DateCompleted.Format("2006-01-02")
		}
		if a.Overdue(t, now) {
			rr.overdue = "Yes"
		}

		rows = append(rows, rr)
	}

	// Stable output: group by member, then task title
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].memberName != rows[j].memberName {
			return rows[i].memberName < rows[j].memberName
		}
		return rows[i].taskTitle < rows[j].taskTitle
	})

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, "", ErrGenerateFile
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(reportSheet, "A", "A", 24)
	f.SetColWidth(reportSheet, "B", "B", 30)
	f.SetColWidth(reportSheet, "C", "C", 32)
	f.SetColWidth(reportSheet, "D", "G", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Member", "Email", "Task", "Status", "Due", "Completed", "Overdue"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(reportSheet, cell(col, 1), h)
		f.SetCellStyle(reportSheet, cell(col, 1), cell(col, 1), headerStyle)
	}

	for i, rr := range rows {
		rowNum := i + 2
		f.SetCellValue(reportSheet, cell("A", rowNum), rr.memberName)
		f.SetCellValue(reportSheet, cell("B", rowNum), rr.email)
		f.SetCellValue(reportSheet, cell("C", rowNum), rr.taskTitle)
		f.SetCellValue(reportSheet, cell("D", rowNum), rr.status)
		f.SetCellValue(reportSheet, cell("E", rowNum), rr.dueDate)
		f.SetCellValue(reportSheet, cell("F", rowNum), rr.completed)
		f.SetCellValue(reportSheet, cell("G", rowNum), rr.overdue)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.log.Error("failed to write workbook", zap.Error(err))
		return nil, "", ErrGenerateFile
	}

	filename := fmt.Sprintf("assignments_%s.xlsx", now.Format("2006-01-02"))
	return buf, filename, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
