package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rangebook/rangebook/internal/cache/memory"
	"github.com/rangebook/rangebook/internal/cache/redis"
	"github.com/rangebook/rangebook/internal/catalog"
	"github.com/rangebook/rangebook/internal/config"
	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/ledger"
	"github.com/rangebook/rangebook/internal/notify"
	"github.com/rangebook/rangebook/internal/pricing"
	"github.com/rangebook/rangebook/internal/store/postgres"
)

// Dependencies bundles everything the running application needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Catalog *catalog.Catalog
	Ledger  *ledger.Ledger
	Params  pricing.Params

	PriceCache  domain.PriceCache  // redis-backed, or in-process when Redis is disabled
	SignalBus   domain.SignalBus   // redis pub/sub, or in-process when Redis is disabled
	TicketStore domain.TicketStore // nil when Postgres is disabled

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function to call on
// shutdown. Redis and Postgres are both optional: with an empty redis addr
// the process uses in-memory caching and event fan-out, and with an empty
// postgres DSN tickets live only in the in-memory ledger.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	cat, err := catalog.New(cfg.Assets(), cfg.Timeframes())
	if err != nil {
		return nil, nil, fmt.Errorf("wire: catalog: %w", err)
	}

	deps := &Dependencies{
		Catalog: cat,
		Ledger:  ledger.New(),
		Params: pricing.Params{
			HouseEdge:         cfg.Pricing.HouseEdge,
			NarrowLimit:       cfg.Pricing.NarrowLimit,
			WideLimit:         cfg.Pricing.WideLimit,
			ProbabilityCap:    cfg.Pricing.ProbabilityCap,
			CorrelationFactor: cfg.Pricing.CorrelationFactor,
			TwoLegBonus:       cfg.Pricing.TwoLegBonus,
			ThreeLegBonus:     cfg.Pricing.ThreeLegBonus,
		},
	}

	// --- Redis (optional) ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.PriceCache = redis.NewPriceCache(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
	} else {
		logger.Info("wire: redis disabled, using in-process cache and signal bus")
		deps.PriceCache = memory.NewPriceCache()
		deps.SignalBus = memory.NewSignalBus()
	}

	// --- PostgreSQL (optional) ---
	if cfg.Postgres.DSN != "" {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		store := postgres.NewTicketStore(pgClient.Pool())
		deps.TicketStore = store

		// Seed the ledger so history survives restarts.
		if cfg.Postgres.PreloadLimit > 0 {
			tickets, err := store.ListRecent(ctx, cfg.Postgres.PreloadLimit)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: preload tickets: %w", err)
			}
			deps.Ledger.Preload(tickets)
			logger.Info("wire: ledger preloaded",
				slog.Int("tickets", len(tickets)),
			)
		}
	} else {
		logger.Info("wire: postgres disabled, tickets are not archived")
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
