package ports

import (
	"context"
	"time"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// ReportRow is one line of the ticket report, with references resolved to
// display names.
type ReportRow struct {
	TicketUUID     string                `json:"ticket_uuid"`
	Reporter       string                `json:"reporter"`
	Assignee       string                `json:"assignee"`
	IssueType      domain.IssueType      `json:"issue_type"`
	ProjectName    string                `json:"project_name"`
	NameIssue      string                `json:"name_issue"`
	Description    string                `json:"description"`
	Priority       domain.TicketPriority `json:"priority"`
	StartDate      *time.Time            `json:"start_date"`
	DueDate        time.Time             `json:"due_date"`
	IssueFixedDate *time.Time            `json:"issue_fixed_date"`
	Status         domain.TicketStatus   `json:"status"`
}

// ReportService builds role-scoped ticket reports. DueDate, when non-zero,
// restricts rows to tickets due on that calendar day.
type ReportService interface {
	Rows(ctx context.Context, p domain.Principal, dueDate time.Time) ([]ReportRow, error)
	// Excel renders the rows as an XLSX workbook.
	Excel(ctx context.Context, p domain.Principal, dueDate time.Time) ([]byte, error)
}
