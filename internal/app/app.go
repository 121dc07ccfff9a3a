// Package app provides top-level application lifecycle management: it wires
// the catalog, caches, stores, services, poller, and API server together and
// runs them until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rangebook/rangebook/internal/config"
	"github.com/rangebook/rangebook/internal/feed"
	"github.com/rangebook/rangebook/internal/server"
	"github.com/rangebook/rangebook/internal/server/handler"
	"github.com/rangebook/rangebook/internal/server/ws"
	"github.com/rangebook/rangebook/internal/service"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates an App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies and starts the poller, WebSocket hub, and API
// server. It blocks until the context is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.Int("port", a.cfg.Server.Port),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// --- Services ---
	prices := service.NewPriceService(deps.PriceCache, feed.NewClient(feed.ClientConfig{
		BaseURL:        a.cfg.Feed.BaseURL,
		RequestTimeout: a.cfg.Feed.RequestTimeout.Duration,
	}), a.cfg.Feed.MaxPriceAge.Duration, a.logger)

	quotes := service.NewQuoteService(deps.Catalog, prices, deps.Params, a.logger)
	risk := service.NewRiskService(service.RiskConfig{
		TreasurySize:      a.cfg.Risk.TreasurySize,
		MaxPayoutFraction: a.cfg.Risk.MaxPayoutFraction,
	}, deps.Params, a.logger)
	session := service.NewSessionService(
		quotes, risk, deps.Ledger,
		deps.TicketStore, deps.SignalBus, deps.Notifier,
		deps.Params, a.logger,
	)

	// --- Background price poller ---
	poller := feed.NewPoller(
		feed.NewClient(feed.ClientConfig{
			BaseURL:        a.cfg.Feed.BaseURL,
			RequestTimeout: a.cfg.Feed.RequestTimeout.Duration,
		}),
		deps.PriceCache,
		deps.SignalBus,
		deps.Notifier,
		deps.Catalog.Assets(),
		a.cfg.Feed.PollInterval.Duration,
		a.logger,
	)

	// --- WebSocket hub + HTTP server ---
	hub := ws.NewHub(deps.SignalBus, a.logger)

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, server.Handlers{
		Health:  handler.NewHealthHandler(),
		Catalog: handler.NewCatalogHandler(deps.Catalog, prices, a.logger),
		Quote:   handler.NewQuoteHandler(quotes, a.logger),
		Slip:    handler.NewSlipHandler(session, a.logger),
		Tickets: handler.NewTicketHandler(deps.Ledger, a.logger),
	}, hub, a.logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); !gracefulExit(err) {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

// gracefulExit reports whether a run error represents a clean shutdown
// rather than a component failure. Cancellation may arrive wrapped.
func gracefulExit(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
