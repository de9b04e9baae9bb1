package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/helpdeskhq/helpdesk-api/internal/api/metrics"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the ticket uuid, guaranteeing per-ticket event ordering. It is
// the ports.AuditSink the services emit into.
type Dispatcher struct {
	workers []chan domain.TicketEvent
	audits  ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, audits ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TicketEvent, numWorkers),
		audits:  audits,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TicketEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Emit sends an event to the worker responsible for its ticket. When the
// worker's buffer is full the event is dropped rather than blocking the
// request path; the audit trail is best-effort, the lifecycle write is not.
func (d *Dispatcher) Emit(event domain.TicketEvent) {
	idx := d.shardIndex(event.TicketUUID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("ticket", event.TicketUUID).
			Str("action", event.Action).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a ticket uuid deterministically to a worker index.
func (d *Dispatcher) shardIndex(ticketUUID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticketUUID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TicketEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.audits.Insert(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("ticket", event.TicketUUID).
					Int("worker_id", id).
					Msg("audit event insert failed")
			}
		}
	}
}
