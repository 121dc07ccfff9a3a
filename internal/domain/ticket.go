package domain

import "time"

// TicketResult represents the settlement state of a placed ticket.
type TicketResult string

const (
	TicketResultPending TicketResult = "pending"
	TicketResultWon     TicketResult = "won"
	TicketResultLost    TicketResult = "lost"
)

// Ticket is a submitted, accepted parlay. The leg slice is a snapshot taken
// at submission time; nothing mutates a Ticket after creation except an
// external settlement process transitioning Result.
type Ticket struct {
	ID        string       `json:"id"`
	Legs      []Leg        `json:"legs"`
	Stake     float64      `json:"stake"`
	Odds      float64      `json:"odds"` // combined payout odds at placement
	Result    TicketResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

// PotentialPayout is the amount the book pays out if every leg wins.
func (t Ticket) PotentialPayout() float64 {
	return t.Stake * t.Odds
}
