package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

type recordingAudits struct {
	mu     sync.Mutex
	events []domain.TicketEvent
}

func (r *recordingAudits) Insert(_ context.Context, event *domain.TicketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingAudits) ListByTicket(context.Context, string) ([]*domain.TicketEvent, error) {
	return nil, nil
}

func (r *recordingAudits) snapshot() []domain.TicketEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TicketEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitForEvents(t *testing.T, audits *recordingAudits, want int) []domain.TicketEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := audits.snapshot()
		if len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", want, len(audits.snapshot()))
	return nil
}

func TestDispatcherPreservesPerTicketOrder(t *testing.T) {
	audits := &recordingAudits{}
	d := NewDispatcher(4, audits, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	const perTicket = 20
	tickets := []string{"t-1", "t-2", "t-3"}
	for i := 0; i < perTicket; i++ {
		for _, id := range tickets {
			d.Emit(domain.TicketEvent{
				TicketUUID: id,
				Action:     domain.ActionUpdated,
				Detail:     fmt.Sprintf("seq-%d", i),
			})
		}
	}

	events := waitForEvents(t, audits, perTicket*len(tickets))

	seen := map[string]int{}
	for _, e := range events {
		want := fmt.Sprintf("seq-%d", seen[e.TicketUUID])
		if e.Detail != want {
			t.Fatalf("ticket %s: event out of order, got %s want %s", e.TicketUUID, e.Detail, want)
		}
		seen[e.TicketUUID]++
	}
	for _, id := range tickets {
		if seen[id] != perTicket {
			t.Errorf("ticket %s: got %d events, want %d", id, seen[id], perTicket)
		}
	}
}

func TestDispatcherShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingAudits{}, zerolog.Nop())

	for _, id := range []string{"t-1", "t-2", "abc", ""} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shardIndex(%q) not stable: got %d want %d", id, got, first)
			}
		}
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("shardIndex(%q) = %d out of range", id, first)
		}
	}
}

func TestDispatcherDefaultsWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &recordingAudits{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("got %d workers, want %d", len(d.workers), defaultWorkers)
	}
}
