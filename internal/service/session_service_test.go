package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rangebook/rangebook/internal/cache/memory"
	"github.com/rangebook/rangebook/internal/catalog"
	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/ledger"
	"github.com/rangebook/rangebook/internal/pricing"
)

// fakeStore records inserted tickets.
type fakeStore struct {
	mu       sync.Mutex
	inserted []domain.Ticket
	err      error
}

func (f *fakeStore) Insert(_ context.Context, t domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, t)
	return nil
}

func (f *fakeStore) ListRecent(_ context.Context, _ int) ([]domain.Ticket, error) {
	return nil, nil
}

type sessionFixture struct {
	session *SessionService
	ledger  *ledger.Ledger
	store   *fakeStore
	bus     *memory.SignalBus
	feed    *fakeFeed
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	cat, err := catalog.New(
		[]domain.Asset{
			{ID: "btc", Name: "Bitcoin", Symbol: "BTCUSDT", Volatility: 0.02},
			{ID: "eth", Name: "Ethereum", Symbol: "ETHUSDT", Volatility: 0.025},
		},
		[]domain.Timeframe{{Name: "24-hour", Hours: 24}},
	)
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}

	params := pricing.DefaultParams()
	feed := &fakeFeed{price: 50000}
	prices := NewPriceService(memory.NewPriceCache(), feed, time.Minute, discardLogger())
	quotes := NewQuoteService(cat, prices, params, discardLogger())
	risk := NewRiskService(RiskConfig{TreasurySize: 100_000, MaxPayoutFraction: 0.10}, params, discardLogger())
	led := ledger.New()
	store := &fakeStore{}
	bus := memory.NewSignalBus()

	return &sessionFixture{
		session: NewSessionService(quotes, risk, led, store, bus, nil, params, discardLogger()),
		ledger:  led,
		store:   store,
		bus:     bus,
		feed:    feed,
	}
}

func TestSession_AddRemoveClear(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	slip, err := fx.session.AddLeg(ctx, "btc", "24-hour", 49500, 50500)
	if err != nil {
		t.Fatalf("AddLeg() error: %v", err)
	}
	if len(slip.Legs) != 1 {
		t.Fatalf("slip has %d legs, want 1", len(slip.Legs))
	}
	// Single leg: 0.25 * 0.85 = 0.2125 displayed, odds from the same value.
	if math.Abs(slip.CombinedProbability-0.2125) > 1e-12 {
		t.Errorf("CombinedProbability = %v, want 0.2125", slip.CombinedProbability)
	}

	slip, err = fx.session.AddLeg(ctx, "eth", "24-hour", 49000, 51000)
	if err != nil {
		t.Fatalf("AddLeg() error: %v", err)
	}
	if len(slip.Legs) != 2 {
		t.Fatalf("slip has %d legs, want 2", len(slip.Legs))
	}

	slip, err = fx.session.RemoveLeg(0)
	if err != nil {
		t.Fatalf("RemoveLeg() error: %v", err)
	}
	if len(slip.Legs) != 1 || slip.Legs[0].AssetID != "eth" {
		t.Errorf("slip after RemoveLeg(0) = %+v, want only eth leg", slip.Legs)
	}

	fx.session.Clear()
	if got := fx.session.Slip(); len(got.Legs) != 0 {
		t.Errorf("slip after Clear() has %d legs", len(got.Legs))
	}
}

func TestSession_RemoveLegOutOfRange(t *testing.T) {
	fx := newSessionFixture(t)

	if _, err := fx.session.RemoveLeg(0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("RemoveLeg(0) on empty slip error = %v, want ErrInvalidInput", err)
	}
	if _, err := fx.session.RemoveLeg(-1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("RemoveLeg(-1) error = %v, want ErrInvalidInput", err)
	}
}

func TestSession_TwoLegSlipShowsUncappedProbability(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	// Both legs price at the 0.25 cap; the display value exceeds the cap.
	_, _ = fx.session.AddLeg(ctx, "btc", "24-hour", 49500, 50500)
	slip, err := fx.session.AddLeg(ctx, "eth", "24-hour", 49000, 51000)
	if err != nil {
		t.Fatalf("AddLeg() error: %v", err)
	}

	want := 0.25 * 0.85 * 1.3
	if math.Abs(slip.CombinedProbability-want) > 1e-12 {
		t.Errorf("CombinedProbability = %v, want uncapped %v", slip.CombinedProbability, want)
	}
	// Odds still use the capped probability.
	if math.Abs(slip.CombinedOdds-3.72) > 1e-12 {
		t.Errorf("CombinedOdds = %v, want 3.72", slip.CombinedOdds)
	}
}

func TestSession_Submit(t *testing.T) {
	fx := newSessionFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := fx.bus.Subscribe(ctx, domain.ChannelTickets)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	if _, err := fx.session.AddLeg(ctx, "btc", "24-hour", 49500, 50500); err != nil {
		t.Fatalf("AddLeg() error: %v", err)
	}

	ticket, err := fx.session.Submit(ctx, 100)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if fx.ledger.Len() != 1 {
		t.Errorf("ledger has %d tickets, want 1", fx.ledger.Len())
	}
	if len(fx.store.inserted) != 1 || fx.store.inserted[0].ID != ticket.ID {
		t.Errorf("store inserted = %+v, want ticket %s", fx.store.inserted, ticket.ID)
	}
	if got := fx.session.Slip(); len(got.Legs) != 0 {
		t.Errorf("slip not cleared after submit: %d legs", len(got.Legs))
	}

	select {
	case <-events:
	case <-time.After(time.Second):
		t.Error("no ticket event published")
	}
}

func TestSession_SubmitRejectionKeepsSlip(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	// Two capped legs exceed the combined probability cap.
	_, _ = fx.session.AddLeg(ctx, "btc", "24-hour", 49500, 50500)
	_, _ = fx.session.AddLeg(ctx, "eth", "24-hour", 49000, 51000)

	if _, err := fx.session.Submit(ctx, 100); !errors.Is(err, domain.ErrProbabilityCapExceeded) {
		t.Fatalf("Submit() error = %v, want ErrProbabilityCapExceeded", err)
	}

	if fx.ledger.Len() != 0 {
		t.Error("rejected submission reached the ledger")
	}
	if got := fx.session.Slip(); len(got.Legs) != 2 {
		t.Errorf("slip has %d legs after rejection, want 2 (unchanged)", len(got.Legs))
	}
}

func TestSession_SubmitEmptySlip(t *testing.T) {
	fx := newSessionFixture(t)
	if _, err := fx.session.Submit(context.Background(), 100); !errors.Is(err, domain.ErrEmptyParlay) {
		t.Errorf("Submit() error = %v, want ErrEmptyParlay", err)
	}
}

func TestSession_ArchiveFailureDoesNotVoidTicket(t *testing.T) {
	fx := newSessionFixture(t)
	fx.store.err = errors.New("db down")
	ctx := context.Background()

	_, _ = fx.session.AddLeg(ctx, "btc", "24-hour", 49500, 50500)
	if _, err := fx.session.Submit(ctx, 100); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if fx.ledger.Len() != 1 {
		t.Errorf("ledger has %d tickets, want 1 despite archive failure", fx.ledger.Len())
	}
}
