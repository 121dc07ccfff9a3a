// Package catalog holds the static registries of tradeable assets and bet
// timeframes. Both are loaded once at process start and never mutated; every
// lookup is therefore safe for concurrent use without locking.
package catalog

import (
	"fmt"
	"sort"

	"github.com/rangebook/rangebook/internal/domain"
)

// Catalog is the immutable asset and timeframe registry.
type Catalog struct {
	assets     map[string]domain.Asset
	timeframes map[string]domain.Timeframe

	assetOrder     []string
	timeframeOrder []string
}

// New builds a Catalog from the configured assets and timeframes. It rejects
// duplicates, non-positive volatility coefficients, and non-positive hour
// counts so a bad config fails at startup instead of at pricing time.
func New(assets []domain.Asset, timeframes []domain.Timeframe) (*Catalog, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("catalog: at least one asset is required")
	}
	if len(timeframes) == 0 {
		return nil, fmt.Errorf("catalog: at least one timeframe is required")
	}

	c := &Catalog{
		assets:     make(map[string]domain.Asset, len(assets)),
		timeframes: make(map[string]domain.Timeframe, len(timeframes)),
	}

	for _, a := range assets {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog: asset with empty id")
		}
		if a.Volatility <= 0 {
			return nil, fmt.Errorf("catalog: asset %q: volatility must be > 0, got %v", a.ID, a.Volatility)
		}
		if a.Symbol == "" {
			return nil, fmt.Errorf("catalog: asset %q: price-feed symbol must not be empty", a.ID)
		}
		if _, dup := c.assets[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate asset id %q", a.ID)
		}
		c.assets[a.ID] = a
		c.assetOrder = append(c.assetOrder, a.ID)
	}

	for _, tf := range timeframes {
		if tf.Name == "" {
			return nil, fmt.Errorf("catalog: timeframe with empty name")
		}
		if tf.Hours <= 0 {
			return nil, fmt.Errorf("catalog: timeframe %q: hours must be > 0, got %d", tf.Name, tf.Hours)
		}
		if _, dup := c.timeframes[tf.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate timeframe %q", tf.Name)
		}
		c.timeframes[tf.Name] = tf
		c.timeframeOrder = append(c.timeframeOrder, tf.Name)
	}

	sort.Slice(c.timeframeOrder, func(i, j int) bool {
		return c.timeframes[c.timeframeOrder[i]].Hours < c.timeframes[c.timeframeOrder[j]].Hours
	})

	return c, nil
}

// Asset looks up an asset by its catalog ID.
func (c *Catalog) Asset(id string) (domain.Asset, error) {
	a, ok := c.assets[id]
	if !ok {
		return domain.Asset{}, fmt.Errorf("catalog: asset %q: %w", id, domain.ErrUnknownAsset)
	}
	return a, nil
}

// Timeframe looks up a timeframe by name.
func (c *Catalog) Timeframe(name string) (domain.Timeframe, error) {
	tf, ok := c.timeframes[name]
	if !ok {
		return domain.Timeframe{}, fmt.Errorf("catalog: timeframe %q: %w", name, domain.ErrUnknownTimeframe)
	}
	return tf, nil
}

// Assets returns all assets in configuration order.
func (c *Catalog) Assets() []domain.Asset {
	out := make([]domain.Asset, 0, len(c.assetOrder))
	for _, id := range c.assetOrder {
		out = append(out, c.assets[id])
	}
	return out
}

// Timeframes returns all timeframes ordered by duration.
func (c *Catalog) Timeframes() []domain.Timeframe {
	out := make([]domain.Timeframe, 0, len(c.timeframeOrder))
	for _, name := range c.timeframeOrder {
		out = append(out, c.timeframes[name])
	}
	return out
}
