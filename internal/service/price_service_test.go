package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rangebook/rangebook/internal/cache/memory"
	"github.com/rangebook/rangebook/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// fakeFeed returns a fixed price or error and counts calls.
type fakeFeed struct {
	price float64
	err   error
	calls int
}

func (f *fakeFeed) CurrentPrice(_ context.Context, _ string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func TestCurrentPrice_FreshCacheSkipsFeed(t *testing.T) {
	cache := memory.NewPriceCache()
	feed := &fakeFeed{price: 51000}
	svc := NewPriceService(cache, feed, time.Minute, discardLogger())
	ctx := context.Background()

	_ = cache.SetPrice(ctx, "BTCUSDT", 50000, time.Now())

	price, err := svc.CurrentPrice(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("CurrentPrice() error: %v", err)
	}
	if price != 50000 {
		t.Errorf("CurrentPrice() = %v, want cached 50000", price)
	}
	if feed.calls != 0 {
		t.Errorf("feed called %d times for a fresh cache hit", feed.calls)
	}
}

func TestCurrentPrice_StaleCacheRefetches(t *testing.T) {
	cache := memory.NewPriceCache()
	feed := &fakeFeed{price: 51000}
	svc := NewPriceService(cache, feed, time.Minute, discardLogger())
	ctx := context.Background()

	_ = cache.SetPrice(ctx, "BTCUSDT", 50000, time.Now().Add(-2*time.Minute))

	price, err := svc.CurrentPrice(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("CurrentPrice() error: %v", err)
	}
	if price != 51000 {
		t.Errorf("CurrentPrice() = %v, want fresh 51000", price)
	}

	// The fresh value was written back.
	cached, _, err := cache.GetPrice(ctx, "BTCUSDT")
	if err != nil || cached != 51000 {
		t.Errorf("cache after refetch = %v (err %v), want 51000", cached, err)
	}
}

func TestCurrentPrice_MissAndFeedDown(t *testing.T) {
	cache := memory.NewPriceCache()
	feed := &fakeFeed{err: domain.ErrPriceUnavailable}
	svc := NewPriceService(cache, feed, time.Minute, discardLogger())

	if _, err := svc.CurrentPrice(context.Background(), "BTCUSDT"); !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Errorf("CurrentPrice() error = %v, want ErrPriceUnavailable", err)
	}
}

func TestCurrentPrice_StaleCacheIsNotUsedWhenFeedDown(t *testing.T) {
	cache := memory.NewPriceCache()
	feed := &fakeFeed{err: domain.ErrPriceUnavailable}
	svc := NewPriceService(cache, feed, time.Minute, discardLogger())
	ctx := context.Background()

	_ = cache.SetPrice(ctx, "BTCUSDT", 50000, time.Now().Add(-time.Hour))

	if _, err := svc.CurrentPrice(ctx, "BTCUSDT"); !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Errorf("CurrentPrice() error = %v, want ErrPriceUnavailable instead of stale price", err)
	}
}
