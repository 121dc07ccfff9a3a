package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rangebook/rangebook/internal/cache/memory"
	"github.com/rangebook/rangebook/internal/catalog"
	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/pricing"
)

func newQuoteService(t *testing.T, feed domain.PriceFeed) *QuoteService {
	t.Helper()
	cat, err := catalog.New(
		[]domain.Asset{{ID: "btc", Name: "Bitcoin", Symbol: "BTCUSDT", Volatility: 0.02}},
		[]domain.Timeframe{{Name: "24-hour", Hours: 24}},
	)
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}
	prices := NewPriceService(memory.NewPriceCache(), feed, time.Minute, discardLogger())
	return NewQuoteService(cat, prices, pricing.DefaultParams(), discardLogger())
}

func TestBuildLeg(t *testing.T) {
	svc := newQuoteService(t, &fakeFeed{price: 50000})

	leg, err := svc.BuildLeg(context.Background(), "btc", "24-hour", 49500, 50500)
	if err != nil {
		t.Fatalf("BuildLeg() error: %v", err)
	}

	if leg.EntryPrice != 50000 {
		t.Errorf("EntryPrice = %v, want 50000", leg.EntryPrice)
	}
	// This range prices above the cap, so the leg carries exactly 0.25.
	if leg.Probability != 0.25 {
		t.Errorf("Probability = %v, want capped 0.25", leg.Probability)
	}
	if math.Abs(leg.Odds-3.72) > 1e-12 {
		t.Errorf("Odds = %v, want 3.72", leg.Odds)
	}
	if leg.AssetID != "btc" || leg.Timeframe != "24-hour" {
		t.Errorf("leg identity = %q/%q", leg.AssetID, leg.Timeframe)
	}
}

func TestBuildLeg_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		feed      domain.PriceFeed
		assetID   string
		timeframe string
		lower     float64
		upper     float64
		wantErr   error
	}{
		{"unknown asset", &fakeFeed{price: 50000}, "xrp", "24-hour", 49500, 50500, domain.ErrUnknownAsset},
		{"unknown timeframe", &fakeFeed{price: 50000}, "btc", "1-year", 49500, 50500, domain.ErrUnknownTimeframe},
		{"inverted bounds", &fakeFeed{price: 50000}, "btc", "24-hour", 50500, 49500, domain.ErrInvalidInput},
		{"zero-width bounds", &fakeFeed{price: 50000}, "btc", "24-hour", 50000, 50000, domain.ErrInvalidInput},
		{"feed down", &fakeFeed{err: domain.ErrPriceUnavailable}, "btc", "24-hour", 49500, 50500, domain.ErrPriceUnavailable},
		{"range too narrow", &fakeFeed{price: 50000}, "btc", "24-hour", 49900, 50100, domain.ErrInvalidRange},
		{"range too wide", &fakeFeed{price: 50000}, "btc", "24-hour", 40000, 60000, domain.ErrInvalidRange},
		// Width-valid (1%) but so far above spot that the probability
		// saturates to zero; must reject, never surface an odds error.
		{"range far out of the money", &fakeFeed{price: 50000}, "btc", "24-hour", 85000, 85500, domain.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newQuoteService(t, tt.feed)
			_, err := svc.BuildLeg(context.Background(), tt.assetID, tt.timeframe, tt.lower, tt.upper)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildLeg() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildLeg_ImmutableAgainstMarketMoves(t *testing.T) {
	feed := &fakeFeed{price: 50000}
	svc := newQuoteService(t, feed)
	ctx := context.Background()

	leg, err := svc.BuildLeg(ctx, "btc", "24-hour", 48000, 52000)
	if err != nil {
		t.Fatalf("BuildLeg() error: %v", err)
	}

	feed.price = 60000
	if leg.EntryPrice != 50000 {
		t.Errorf("EntryPrice = %v after market move, want 50000", leg.EntryPrice)
	}
}
