package domain

import "time"

// TicketStatus represents the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusToDo      TicketStatus = "to do"
	StatusOnProcess TicketStatus = "on-process"
	StatusDone      TicketStatus = "done"
	StatusDecline   TicketStatus = "decline"
)

// ParseTicketStatus validates a status string. Anything outside the four
// known states is rejected by the lifecycle engine.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch TicketStatus(s) {
	case StatusToDo, StatusOnProcess, StatusDone, StatusDecline:
		return TicketStatus(s), true
	}
	return "", false
}

// TicketPriority is the reporter-assigned urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

// ParseTicketPriority validates a priority string.
func ParseTicketPriority(s string) (TicketPriority, bool) {
	switch TicketPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TicketPriority(s), true
	}
	return "", false
}

// IssueType classifies what a ticket or project is about.
type IssueType string

const (
	IssueTypeProduct IssueType = "product"
	IssueTypeProject IssueType = "project"
)

// ParseIssueType validates an issue type string.
func ParseIssueType(s string) (IssueType, bool) {
	switch IssueType(s) {
	case IssueTypeProduct, IssueTypeProject:
		return IssueType(s), true
	}
	return "", false
}

// Ticket is a single reported issue tracked through the fixed status
// lifecycle.
//
// Invariants owned by the lifecycle engine:
//   - AssignedManager is derived from the project's pic at creation and never
//     changes afterwards.
//   - AssignedTech only ever references a user whose role is teknis.
//   - StartDate is stamped exactly once, on the first nil→non-nil
//     AssignedTech transition.
//   - IssueFixedDate is non-nil exactly when Status is done.
type Ticket struct {
	UUID             string         `json:"uuid" bson:"uuid"`
	NameIssue        string         `json:"name_issue" bson:"name_issue"`
	Description      string         `json:"description" bson:"description"`
	Status           TicketStatus   `json:"status" bson:"status"`
	Priority         TicketPriority `json:"priority" bson:"priority"`
	IssueType        IssueType      `json:"issue_type" bson:"issue_type"`
	ProductProjectID string         `json:"product_project_id" bson:"product_project_id"`
	Author           string         `json:"author" bson:"author"`
	AssignedManager  string         `json:"assigned_manager" bson:"assigned_manager"`
	AssignedTech     *string        `json:"assigned_tech" bson:"assigned_tech"`
	StartDate        *time.Time     `json:"start_date" bson:"start_date"`
	DueDate          time.Time      `json:"due_date" bson:"due_date"`
	IssueFixedDate   *time.Time     `json:"issue_fixed_date" bson:"issue_fixed_date"`
	AttachmentLink   string         `json:"attachment_link,omitempty" bson:"attachment_link,omitempty"`
	Attachment       *Attachment    `json:"-" bson:"attachment,omitempty"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}

// TicketEvent is one entry in a ticket's audit trail. Events are written
// asynchronously by the audit dispatcher, ordered per ticket.
type TicketEvent struct {
	TicketUUID string       `json:"ticket_uuid" bson:"ticket_uuid"`
	Actor      string       `json:"actor" bson:"actor"`
	ActorRole  Role         `json:"actor_role" bson:"actor_role"`
	Action     string       `json:"action" bson:"action"`
	Status     TicketStatus `json:"status,omitempty" bson:"status,omitempty"`
	Detail     string       `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp  time.Time    `json:"timestamp" bson:"timestamp"`
}

// Audit trail actions.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionAssigned  = "assigned"
	ActionResponded = "responded"
	ActionDeleted   = "deleted"
)
