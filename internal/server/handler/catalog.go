package handler

import (
	"log/slog"
	"net/http"

	"github.com/rangebook/rangebook/internal/catalog"
	"github.com/rangebook/rangebook/internal/service"
)

// CatalogHandler serves the asset and timeframe registries plus live prices.
type CatalogHandler struct {
	catalog *catalog.Catalog
	prices  *service.PriceService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler with all required dependencies.
func NewCatalogHandler(cat *catalog.Catalog, prices *service.PriceService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		prices:  prices,
		logger:  logHandler(logger, "catalog"),
	}
}

// ListAssets returns every tradeable asset.
// GET /api/assets
func (h *CatalogHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"assets": h.catalog.Assets(),
	})
}

// ListTimeframes returns every bettable timeframe, shortest first.
// GET /api/timeframes
func (h *CatalogHandler) ListTimeframes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"timeframes": h.catalog.Timeframes(),
	})
}

// GetPrice returns the current price for one asset.
// GET /api/prices/{asset}
func (h *CatalogHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	asset, err := h.catalog.Asset(pathParam(r, "asset"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	price, err := h.prices.CurrentPrice(r.Context(), asset.Symbol)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"asset_id": asset.ID,
		"symbol":   asset.Symbol,
		"price":    price,
	})
}
