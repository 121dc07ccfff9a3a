package domain

import (
	"context"
	"time"
)

// PriceCache provides fast access to the latest feed prices.
type PriceCache interface {
	SetPrice(ctx context.Context, symbol string, price float64, ts time.Time) error
	GetPrice(ctx context.Context, symbol string) (float64, time.Time, error)
}

// SignalBus provides pub/sub for live events (price updates, accepted
// tickets) consumed by the WebSocket hub. A nil bus disables streaming.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// Well-known signal bus channels.
const (
	ChannelPrices  = "prices"
	ChannelTickets = "tickets"
)
