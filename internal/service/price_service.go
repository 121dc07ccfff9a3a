// Package service contains the application services that coordinate the
// pricing core with the catalog, caches, risk limits, and ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
)

// PriceService resolves the current price for a feed symbol, cache-first.
// A cached price older than maxAge is treated as a miss and refetched from
// the live feed, with the fresh value written back through the cache.
type PriceService struct {
	cache  domain.PriceCache
	feed   domain.PriceFeed
	maxAge time.Duration
	logger *slog.Logger
}

// NewPriceService creates a PriceService with all required dependencies.
func NewPriceService(
	cache domain.PriceCache,
	feed domain.PriceFeed,
	maxAge time.Duration,
	logger *slog.Logger,
) *PriceService {
	return &PriceService{
		cache:  cache,
		feed:   feed,
		maxAge: maxAge,
		logger: logger,
	}
}

// CurrentPrice returns a usable price for symbol or an error wrapping
// domain.ErrPriceUnavailable. Quotes are never built on stale data: if the
// cache entry has aged out and the feed is down, the caller gets an error,
// not the old price.
func (s *PriceService) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	price, ts, err := s.cache.GetPrice(ctx, symbol)
	if err == nil && time.Since(ts) <= s.maxAge {
		return price, nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "price_service: cache read failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
	}

	fresh, err := s.feed.CurrentPrice(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("price_service: %s: %w", symbol, err)
	}

	if err := s.cache.SetPrice(ctx, symbol, fresh, time.Now()); err != nil {
		// The quote can still proceed; only the write-through failed.
		s.logger.WarnContext(ctx, "price_service: cache write failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
	}

	return fresh, nil
}

// CachedPrice returns the cached price and timestamp without freshness
// checks or feed fallback. Used by the read-only price endpoint.
func (s *PriceService) CachedPrice(ctx context.Context, symbol string) (float64, time.Time, error) {
	return s.cache.GetPrice(ctx, symbol)
}
