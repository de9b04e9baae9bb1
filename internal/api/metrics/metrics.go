// Package metrics defines and registers all custom Prometheus metrics for the
// helpdesk API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk"

// TicketsCreatedTotal counts newly filed tickets.
// Label:
//   - priority: "low", "medium", or "high"
var TicketsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created, by priority.",
	},
	[]string{"priority"},
)

// TicketTransitionsTotal counts status transitions applied by the lifecycle
// engine, including the forced transition to done when a response is posted.
// Label:
//   - status: the new ticket status (e.g. "on-process")
var TicketTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_transitions_total",
		Help:      "Total number of ticket status transitions, by new status.",
	},
	[]string{"status"},
)

// ResponsesCreatedTotal counts closing responses posted on tickets.
var ResponsesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "responses_created_total",
		Help:      "Total number of ticket responses created.",
	},
)

// AccessDeniedTotal counts requests rejected by the visibility policy.
// Labels:
//   - entity: "ticket", "response", or "project"
//   - role: the caller's role
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the visibility policy.",
	},
	[]string{"entity", "role"},
)

// ReportExportsTotal counts report downloads.
// Label:
//   - format: "xlsx" or "json"
var ReportExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_exports_total",
		Help:      "Total number of report exports, by format.",
	},
	[]string{"format"},
)

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
