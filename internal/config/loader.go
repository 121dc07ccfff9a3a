package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies RANGEBOOK_* environment variable overrides, and
// returns the final Config. A missing file is not an error: the defaults plus
// environment are a complete configuration. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known RANGEBOOK_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// Server
	setInt(&cfg.Server.Port, "RANGEBOOK_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "RANGEBOOK_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "RANGEBOOK_SERVER_API_KEY")

	// Redis
	setStr(&cfg.Redis.Addr, "RANGEBOOK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "RANGEBOOK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "RANGEBOOK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "RANGEBOOK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "RANGEBOOK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "RANGEBOOK_REDIS_TLS_ENABLED")

	// Postgres
	setStr(&cfg.Postgres.DSN, "RANGEBOOK_POSTGRES_DSN")
	setInt(&cfg.Postgres.PoolMaxConns, "RANGEBOOK_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "RANGEBOOK_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "RANGEBOOK_POSTGRES_RUN_MIGRATIONS")
	setInt(&cfg.Postgres.PreloadLimit, "RANGEBOOK_POSTGRES_PRELOAD_LIMIT")

	// Feed
	setStr(&cfg.Feed.BaseURL, "RANGEBOOK_FEED_BASE_URL")
	setDuration(&cfg.Feed.PollInterval, "RANGEBOOK_FEED_POLL_INTERVAL")
	setDuration(&cfg.Feed.RequestTimeout, "RANGEBOOK_FEED_REQUEST_TIMEOUT")
	setDuration(&cfg.Feed.MaxPriceAge, "RANGEBOOK_FEED_MAX_PRICE_AGE")

	// Pricing
	setFloat64(&cfg.Pricing.HouseEdge, "RANGEBOOK_PRICING_HOUSE_EDGE")
	setFloat64(&cfg.Pricing.NarrowLimit, "RANGEBOOK_PRICING_NARROW_LIMIT")
	setFloat64(&cfg.Pricing.WideLimit, "RANGEBOOK_PRICING_WIDE_LIMIT")
	setFloat64(&cfg.Pricing.ProbabilityCap, "RANGEBOOK_PRICING_PROBABILITY_CAP")
	setFloat64(&cfg.Pricing.CorrelationFactor, "RANGEBOOK_PRICING_CORRELATION_FACTOR")
	setFloat64(&cfg.Pricing.TwoLegBonus, "RANGEBOOK_PRICING_TWO_LEG_BONUS")
	setFloat64(&cfg.Pricing.ThreeLegBonus, "RANGEBOOK_PRICING_THREE_LEG_BONUS")

	// Risk
	setFloat64(&cfg.Risk.TreasurySize, "RANGEBOOK_RISK_TREASURY_SIZE")
	setFloat64(&cfg.Risk.MaxPayoutFraction, "RANGEBOOK_RISK_MAX_PAYOUT_FRACTION")

	// Notify
	setStr(&cfg.Notify.TelegramToken, "RANGEBOOK_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "RANGEBOOK_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "RANGEBOOK_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "RANGEBOOK_NOTIFY_EVENTS")

	// Top-level
	setStr(&cfg.LogLevel, "RANGEBOOK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
