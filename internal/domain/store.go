package domain

import "context"

// TicketStore is the durable archive for accepted tickets. The in-memory
// ledger remains the read path for history; the store exists so a restart
// does not lose placed bets.
type TicketStore interface {
	Insert(ctx context.Context, t Ticket) error
	ListRecent(ctx context.Context, limit int) ([]Ticket, error)
}
