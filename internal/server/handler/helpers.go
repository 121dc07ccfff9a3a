// Package handler contains the HTTP handlers for the betting API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rangebook/rangebook/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps a domain sentinel to its HTTP response. Validation
// rejections are 422 with a machine-readable reason code; lookup failures
// are 404; a missing price is 503. Anything unmapped is a 500.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, reason := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("unhandled handler error", slog.String("error", err.Error()))
		writeError(w, status, "internal server error")
		return
	}
	writeJSON(w, status, map[string]string{
		"error":  err.Error(),
		"reason": reason,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownAsset):
		return http.StatusNotFound, "unknown_asset"
	case errors.Is(err, domain.ErrUnknownTimeframe):
		return http.StatusNotFound, "unknown_timeframe"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrPriceUnavailable):
		return http.StatusServiceUnavailable, "price_unavailable"
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusUnprocessableEntity, "invalid_range"
	case errors.Is(err, domain.ErrEmptyParlay):
		return http.StatusUnprocessableEntity, "empty_parlay"
	case errors.Is(err, domain.ErrInvalidStake):
		return http.StatusUnprocessableEntity, "invalid_stake"
	case errors.Is(err, domain.ErrProbabilityCapExceeded):
		return http.StatusUnprocessableEntity, "probability_cap_exceeded"
	case errors.Is(err, domain.ErrExposureCapExceeded):
		return http.StatusUnprocessableEntity, "exposure_cap_exceeded"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseLimit extracts the limit query parameter. Defaults: 50, max 500.
func parseLimit(r *http.Request) int {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}
	return limit
}

// pathParam extracts a named path parameter from the request using Go 1.22+
// built-in routing (http.Request.PathValue).
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// logHandler is a convenience to attach slog fields in handler code.
func logHandler(logger *slog.Logger, handler string) *slog.Logger {
	return logger.With(slog.String("handler", handler))
}
