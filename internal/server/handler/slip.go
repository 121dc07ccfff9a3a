package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rangebook/rangebook/internal/service"
)

// SlipHandler exposes the server-side bet slip: viewing it, adding and
// removing legs, clearing it, and submitting it as a ticket.
type SlipHandler struct {
	session *service.SessionService
	logger  *slog.Logger
}

// NewSlipHandler creates a SlipHandler.
func NewSlipHandler(session *service.SessionService, logger *slog.Logger) *SlipHandler {
	return &SlipHandler{
		session: session,
		logger:  logHandler(logger, "slip"),
	}
}

// GetSlip returns the current slip with its combined probability and odds.
// GET /api/slip
func (h *SlipHandler) GetSlip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Slip())
}

type addLegRequest struct {
	AssetID   string  `json:"asset_id"`
	Timeframe string  `json:"timeframe"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// AddLeg prices a leg and appends it to the slip.
// POST /api/slip/legs
func (h *SlipHandler) AddLeg(w http.ResponseWriter, r *http.Request) {
	var req addLegRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slip, err := h.session.AddLeg(r.Context(), req.AssetID, req.Timeframe, req.Lower, req.Upper)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, slip)
}

// RemoveLeg deletes the leg at the given index.
// DELETE /api/slip/legs/{index}
func (h *SlipHandler) RemoveLeg(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(pathParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "leg index must be an integer")
		return
	}

	slip, err := h.session.RemoveLeg(index)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, slip)
}

// Clear empties the slip.
// DELETE /api/slip
func (h *SlipHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	writeJSON(w, http.StatusOK, h.session.Slip())
}

type submitRequest struct {
	Stake float64 `json:"stake"`
}

// Submit runs the slip through the risk gate and mints a ticket.
// POST /api/slip/submit
func (h *SlipHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ticket, err := h.session.Submit(r.Context(), req.Stake)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ticket":           ticket,
		"potential_payout": ticket.PotentialPayout(),
	})
}
