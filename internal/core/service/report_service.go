package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/policy"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// ReportService builds role-scoped ticket reports with references resolved
// to display names, in JSON or XLSX form.
type ReportService struct {
	tickets  ports.TicketRepository
	users    ports.UserRepository
	projects ports.ProjectRepository
	logger   zerolog.Logger
}

func NewReportService(
	tickets ports.TicketRepository,
	users ports.UserRepository,
	projects ports.ProjectRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{tickets: tickets, users: users, projects: projects, logger: logger}
}

// Rows returns one report row per ticket in the principal's scope, optionally
// restricted to a due date.
func (s *ReportService) Rows(ctx context.Context, p domain.Principal, dueDate time.Time) ([]ports.ReportRow, error) {
	filter := policy.TicketScope(p)
	filter.DueDate = dueDate

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(tickets)*2)
	projectIDs := make([]string, 0, len(tickets))
	for _, t := range tickets {
		userIDs = append(userIDs, t.Author)
		if t.AssignedTech != nil {
			userIDs = append(userIDs, *t.AssignedTech)
		}
		projectIDs = append(projectIDs, t.ProductProjectID)
	}

	userNames, err := s.users.NamesByUUIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	projectNames, err := s.projects.NamesByUUIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]ports.ReportRow, 0, len(tickets))
	for _, t := range tickets {
		row := ports.ReportRow{
			TicketUUID:     t.UUID,
			Reporter:       userNames[t.Author],
			IssueType:      t.IssueType,
			ProjectName:    projectNames[t.ProductProjectID],
			NameIssue:      t.NameIssue,
			Description:    t.Description,
			Priority:       t.Priority,
			StartDate:      t.StartDate,
			DueDate:        t.DueDate,
			IssueFixedDate: t.IssueFixedDate,
			Status:         t.Status,
		}
		if t.AssignedTech != nil {
			row.Assignee = userNames[*t.AssignedTech]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Excel renders the report rows as an XLSX workbook.
func (s *ReportService) Excel(ctx context.Context, p domain.Principal, dueDate time.Time) ([]byte, error) {
	rows, err := s.Rows(ctx, p, dueDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Tickets"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"ID", "Reporter", "Assignee", "Issue Type", "Project Name",
		"Issue Name", "Description", "Priority", "Start Date", "Due Date",
		"Issue Fixed Date", "Status",
	}
	widths := []float64{10, 20, 20, 20, 20, 30, 40, 10, 20, 20, 20, 15}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(sheet, col+"1", h); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{
			row.TicketUUID,
			row.Reporter,
			row.Assignee,
			string(row.IssueType),
			row.ProjectName,
			row.NameIssue,
			row.Description,
			string(row.Priority),
			formatDate(row.StartDate),
			row.DueDate.Format("2006-01-02"),
			formatDate(row.IssueFixedDate),
			string(row.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info().Int("rows", len(rows)).Str("principal", p.ID).Msg("xlsx report generated")
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
