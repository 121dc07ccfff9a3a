package handler

import (
	"log/slog"
	"net/http"

	"github.com/rangebook/rangebook/internal/ledger"
)

// TicketHandler serves the bet history from the in-memory ledger.
type TicketHandler struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(led *ledger.Ledger, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{
		ledger: led,
		logger: logHandler(logger, "ticket"),
	}
}

// ListTickets returns placed tickets, most recent first.
// GET /api/tickets
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	tickets := h.ledger.History()
	if len(tickets) > limit {
		tickets = tickets[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tickets": tickets,
		"total":   h.ledger.Len(),
	})
}
