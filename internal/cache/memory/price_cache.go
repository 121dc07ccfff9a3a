// Package memory provides in-process implementations of the cache and signal
// bus interfaces. They back single-instance deployments where Redis is not
// configured, and they keep tests free of external services.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
)

type pricePoint struct {
	price float64
	ts    time.Time
}

// PriceCache implements domain.PriceCache with a mutex-guarded map.
type PriceCache struct {
	mu     sync.RWMutex
	prices map[string]pricePoint
}

// NewPriceCache creates an empty PriceCache.
func NewPriceCache() *PriceCache {
	return &PriceCache{prices: make(map[string]pricePoint)}
}

// SetPrice stores the latest price and timestamp for a feed symbol.
func (pc *PriceCache) SetPrice(_ context.Context, symbol string, price float64, ts time.Time) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.prices[symbol] = pricePoint{price: price, ts: ts}
	return nil
}

// GetPrice retrieves the latest price and timestamp for a feed symbol.
// It returns domain.ErrNotFound when no price has been cached yet.
func (pc *PriceCache) GetPrice(_ context.Context, symbol string) (float64, time.Time, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	p, ok := pc.prices[symbol]
	if !ok {
		return 0, time.Time{}, domain.ErrNotFound
	}
	return p.price, p.ts, nil
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)
