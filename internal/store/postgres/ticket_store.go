package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rangebook/rangebook/internal/domain"
)

// TicketStore implements domain.TicketStore using PostgreSQL. Legs are
// stored as JSONB; the table is append-mostly and read back only at boot to
// seed the in-memory ledger.
type TicketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore creates a TicketStore backed by the given connection pool.
func NewTicketStore(pool *pgxpool.Pool) *TicketStore {
	return &TicketStore{pool: pool}
}

// Insert archives an accepted ticket.
func (s *TicketStore) Insert(ctx context.Context, t domain.Ticket) error {
	legsJSON, err := json.Marshal(t.Legs)
	if err != nil {
		return fmt.Errorf("postgres: marshal ticket legs: %w", err)
	}

	const query = `
		INSERT INTO tickets (id, legs, stake, odds, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, query,
		t.ID, legsJSON, t.Stake, t.Odds, string(t.Result), t.CreatedAt,
	); err != nil {
		return fmt.Errorf("postgres: insert ticket %s: %w", t.ID, err)
	}
	return nil
}

// ListRecent returns the most recently placed tickets, newest first.
func (s *TicketStore) ListRecent(ctx context.Context, limit int) ([]domain.Ticket, error) {
	const query = `
		SELECT id, legs, stake, odds, result, created_at
		FROM tickets
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var (
			t        domain.Ticket
			legsJSON []byte
			result   string
		)
		if err := rows.Scan(&t.ID, &legsJSON, &t.Stake, &t.Odds, &result, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan ticket: %w", err)
		}
		if err := json.Unmarshal(legsJSON, &t.Legs); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal ticket legs: %w", err)
		}
		t.Result = domain.TicketResult(result)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list tickets rows: %w", err)
	}
	return tickets, nil
}

// Compile-time interface check.
var _ domain.TicketStore = (*TicketStore)(nil)
