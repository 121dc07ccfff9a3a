// Package ledger implements the append-only record of accepted tickets.
// The ledger is the read path for bet history; durable archival is the
// ticket store's concern.
package ledger

import (
	"sync"

	"github.com/rangebook/rangebook/internal/domain"
)

// Ledger is an in-memory, most-recent-first log of accepted tickets. It
// exposes no deletion or mutation operations.
type Ledger struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Record prepends the ticket so History reads most-recent-first.
func (l *Ledger) Record(t domain.Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tickets = append([]domain.Ticket{t}, l.tickets...)
}

// Preload seeds the ledger from a durable archive at startup. The input is
// expected most-recent-first, matching TicketStore.ListRecent. Preload is
// only valid on an empty ledger.
func (l *Ledger) Preload(tickets []domain.Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tickets) > 0 {
		return
	}
	l.tickets = make([]domain.Ticket, len(tickets))
	copy(l.tickets, tickets)
}

// History returns a copy of the recorded tickets, most recent first.
// Successive calls without an intervening Record return equal sequences.
func (l *Ledger) History() []domain.Ticket {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Ticket, len(l.tickets))
	copy(out, l.tickets)
	return out
}

// Len returns the number of recorded tickets.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tickets)
}
