// Package config defines the top-level configuration for rangebook and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by RANGEBOOK_* environment
// variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	Feed     FeedConfig     `toml:"feed"`
	Pricing  PricingConfig  `toml:"pricing"`
	Risk     RiskConfig     `toml:"risk"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Notify   NotifyConfig   `toml:"notify"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"` // empty disables authentication
}

// RedisConfig holds Redis connection parameters. An empty Addr disables
// Redis entirely: prices are cached in-process and event streaming is off.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds connection parameters for the durable ticket archive.
// An empty DSN disables archival; the in-memory ledger still works.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
	PreloadLimit  int    `toml:"preload_limit"` // tickets loaded into the ledger at boot
}

// FeedConfig holds live price source parameters.
type FeedConfig struct {
	BaseURL        string   `toml:"base_url"`
	PollInterval   duration `toml:"poll_interval"`
	RequestTimeout duration `toml:"request_timeout"`
	MaxPriceAge    duration `toml:"max_price_age"` // cached prices older than this are refetched
}

// PricingConfig holds the house pricing policy. The defaults must reproduce
// the published odds tables; treat changes as a repricing event.
type PricingConfig struct {
	HouseEdge         float64 `toml:"house_edge"`
	NarrowLimit       float64 `toml:"narrow_limit"`
	WideLimit         float64 `toml:"wide_limit"`
	ProbabilityCap    float64 `toml:"probability_cap"`
	CorrelationFactor float64 `toml:"correlation_factor"`
	TwoLegBonus       float64 `toml:"two_leg_bonus"`
	ThreeLegBonus     float64 `toml:"three_leg_bonus"`
}

// RiskConfig holds the treasury protection limits.
type RiskConfig struct {
	TreasurySize      float64 `toml:"treasury_size"`
	MaxPayoutFraction float64 `toml:"max_payout_fraction"`
}

// CatalogConfig holds the static asset and timeframe registries.
type CatalogConfig struct {
	Assets     []AssetConfig  `toml:"assets"`
	Timeframes map[string]int `toml:"timeframes"` // name -> hours
}

// AssetConfig describes one tradeable asset.
type AssetConfig struct {
	ID         string  `toml:"id"`
	Name       string  `toml:"name"`
	Symbol     string  `toml:"symbol"`
	Volatility float64 `toml:"volatility"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the reference values. The pricing
// and risk constants reproduce the existing odds tables exactly.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Redis: RedisConfig{
			Addr:       "",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		Postgres: PostgresConfig{
			DSN:           "",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
			PreloadLimit:  200,
		},
		Feed: FeedConfig{
			BaseURL:        "https://api.binance.com",
			PollInterval:   duration{15 * time.Second},
			RequestTimeout: duration{10 * time.Second},
			MaxPriceAge:    duration{time.Minute},
		},
		Pricing: PricingConfig{
			HouseEdge:         0.07,
			NarrowLimit:       0.01,
			WideLimit:         0.30,
			ProbabilityCap:    0.25,
			CorrelationFactor: 0.85,
			TwoLegBonus:       1.3,
			ThreeLegBonus:     1.5,
		},
		Risk: RiskConfig{
			TreasurySize:      100_000,
			MaxPayoutFraction: 0.10,
		},
		Catalog: CatalogConfig{
			Assets: []AssetConfig{
				{ID: "btc", Name: "Bitcoin", Symbol: "BTCUSDT", Volatility: 0.02},
				{ID: "eth", Name: "Ethereum", Symbol: "ETHUSDT", Volatility: 0.025},
				{ID: "sol", Name: "Solana", Symbol: "SOLUSDT", Volatility: 0.04},
				{ID: "doge", Name: "Dogecoin", Symbol: "DOGEUSDT", Volatility: 0.06},
			},
			Timeframes: map[string]int{
				"1-hour":  1,
				"4-hour":  4,
				"24-hour": 24,
				"3-day":   72,
				"7-day":   168,
			},
		},
		Notify: NotifyConfig{
			Events: []string{"ticket_accepted", "feed_error"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	// Redis (only when enabled)
	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Postgres (only when enabled)
	if c.Postgres.DSN != "" {
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Feed
	if c.Feed.BaseURL == "" {
		errs = append(errs, "feed: base_url must not be empty")
	}
	if c.Feed.PollInterval.Duration <= 0 {
		errs = append(errs, "feed: poll_interval must be positive")
	}
	if c.Feed.RequestTimeout.Duration <= 0 {
		errs = append(errs, "feed: request_timeout must be positive")
	}
	if c.Feed.MaxPriceAge.Duration <= 0 {
		errs = append(errs, "feed: max_price_age must be positive")
	}

	// Pricing
	if c.Pricing.HouseEdge < 0 || c.Pricing.HouseEdge >= 1 {
		errs = append(errs, fmt.Sprintf("pricing: house_edge must be in [0, 1), got %v", c.Pricing.HouseEdge))
	}
	if c.Pricing.NarrowLimit <= 0 {
		errs = append(errs, "pricing: narrow_limit must be > 0")
	}
	if c.Pricing.WideLimit <= c.Pricing.NarrowLimit {
		errs = append(errs, "pricing: wide_limit must exceed narrow_limit")
	}
	if c.Pricing.ProbabilityCap <= 0 || c.Pricing.ProbabilityCap > 1 {
		errs = append(errs, "pricing: probability_cap must be in (0, 1]")
	}
	if c.Pricing.CorrelationFactor <= 0 || c.Pricing.CorrelationFactor > 1 {
		errs = append(errs, "pricing: correlation_factor must be in (0, 1]")
	}
	if c.Pricing.TwoLegBonus < 1 || c.Pricing.ThreeLegBonus < 1 {
		errs = append(errs, "pricing: leg-count bonuses must be >= 1")
	}

	// Risk
	if c.Risk.TreasurySize <= 0 {
		errs = append(errs, "risk: treasury_size must be > 0")
	}
	if c.Risk.MaxPayoutFraction <= 0 || c.Risk.MaxPayoutFraction > 1 {
		errs = append(errs, "risk: max_payout_fraction must be in (0, 1]")
	}

	// Catalog
	if len(c.Catalog.Assets) == 0 {
		errs = append(errs, "catalog: at least one asset is required")
	}
	if len(c.Catalog.Timeframes) == 0 {
		errs = append(errs, "catalog: at least one timeframe is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Assets converts the configured asset list into domain values.
func (c *Config) Assets() []domain.Asset {
	out := make([]domain.Asset, 0, len(c.Catalog.Assets))
	for _, a := range c.Catalog.Assets {
		out = append(out, domain.Asset{
			ID:         a.ID,
			Name:       a.Name,
			Symbol:     a.Symbol,
			Volatility: a.Volatility,
		})
	}
	return out
}

// Timeframes converts the configured timeframe map into domain values.
func (c *Config) Timeframes() []domain.Timeframe {
	out := make([]domain.Timeframe, 0, len(c.Catalog.Timeframes))
	for name, hours := range c.Catalog.Timeframes {
		out = append(out, domain.Timeframe{Name: name, Hours: hours})
	}
	return out
}
