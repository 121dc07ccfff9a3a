package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/notify"
)

// PriceEvent is the payload published on the prices channel after each
// successful poll.
type PriceEvent struct {
	Type    string    `json:"type"`
	AssetID string    `json:"asset_id"`
	Symbol  string    `json:"symbol"`
	Price   float64   `json:"price"`
	TS      time.Time `json:"ts"`
}

// Poller periodically fetches spot prices for every catalog asset, writes
// them through to the price cache, and publishes update events. A failed
// fetch for one asset does not stop the others; stale cache entries simply
// age out via the price service's max-age check.
type Poller struct {
	feed     domain.PriceFeed
	cache    domain.PriceCache
	bus      domain.SignalBus // nil disables event publishing
	notifier *notify.Notifier // nil disables feed failure alerts
	assets   []domain.Asset
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller creates a Poller. bus and notifier may be nil.
func NewPoller(
	feed domain.PriceFeed,
	cache domain.PriceCache,
	bus domain.SignalBus,
	notifier *notify.Notifier,
	assets []domain.Asset,
	interval time.Duration,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		feed:     feed,
		cache:    cache,
		bus:      bus,
		notifier: notifier,
		assets:   assets,
		interval: interval,
		logger:   logger.With(slog.String("component", "price_poller")),
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately so
// quotes are available as soon as the server comes up.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "price poller started",
		slog.Int("assets", len(p.assets)),
		slog.Duration("interval", p.interval),
	)

	p.pollAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "price poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

func (p *Poller) pollAll(ctx context.Context) {
	for _, asset := range p.assets {
		if ctx.Err() != nil {
			return
		}
		if err := p.pollOne(ctx, asset); err != nil {
			p.logger.WarnContext(ctx, "poll failed",
				slog.String("asset_id", asset.ID),
				slog.String("symbol", asset.Symbol),
				slog.String("error", err.Error()),
			)
			if p.notifier != nil {
				_ = p.notifier.Notify(ctx, "feed_error",
					"Price feed failure",
					fmt.Sprintf("%s (%s): %v", asset.Name, asset.Symbol, err),
				)
			}
		}
	}
}

func (p *Poller) pollOne(ctx context.Context, asset domain.Asset) error {
	price, err := p.feed.CurrentPrice(ctx, asset.Symbol)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := p.cache.SetPrice(ctx, asset.Symbol, price, now); err != nil {
		return err
	}

	if p.bus == nil {
		return nil
	}

	payload, err := json.Marshal(PriceEvent{
		Type:    "price_update",
		AssetID: asset.ID,
		Symbol:  asset.Symbol,
		Price:   price,
		TS:      now,
	})
	if err != nil {
		return fmt.Errorf("feed: marshal price event: %w", err)
	}
	if err := p.bus.Publish(ctx, domain.ChannelPrices, payload); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "price updated",
		slog.String("asset_id", asset.ID),
		slog.Float64("price", price),
	)
	return nil
}
