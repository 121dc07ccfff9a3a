package handler

import (
	"log/slog"
	"net/http"

	"github.com/rangebook/rangebook/internal/service"
)

// QuoteHandler prices standalone legs without touching the slip.
type QuoteHandler struct {
	quotes *service.QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(quotes *service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quotes: quotes,
		logger: logHandler(logger, "quote"),
	}
}

type quoteRequest struct {
	AssetID   string  `json:"asset_id"`
	Timeframe string  `json:"timeframe"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// Quote prices one range bet and returns the leg without adding it anywhere.
// POST /api/quote
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	leg, err := h.quotes.BuildLeg(r.Context(), req.AssetID, req.Timeframe, req.Lower, req.Upper)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"leg": leg})
}
