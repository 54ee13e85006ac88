package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageMemory   = "memory"
	StorageBolt     = "bolt"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN,required"`

	// Response backend. An empty WebhookURL or DemoMode selects the local simulation.
	WebhookURL     string        `env:"WEBHOOK_URL"`
	DemoMode       bool          `env:"DEMO_MODE" envDefault:"false"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	StatsCacheTTL  time.Duration `env:"STATS_CACHE_TTL" envDefault:"1m"`

	// Persistence
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"bolt"`
	BoltPath      string `env:"BOLT_PATH" envDefault:"data/gratax.bolt"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`

	// Content
	ContentFile     string `env:"CONTENT_FILE"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Logging
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	LogTelegramChatID  int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError      int    `env:"LOG_TOPIC_ERROR"`
	LogTopicUnanswered int    `env:"LOG_TOPIC_UNANSWERED"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("validate config: BOLT_PATH is required for the bolt driver")
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("validate config: REDIS_URL is required for the redis driver")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("validate config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("validate config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("validate config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// RemoteEnabled reports whether chat turns go to the webhook first.
func (c *Config) RemoteEnabled() bool {
	return !c.DemoMode && c.WebhookURL != ""
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) AdminIDsString() string {
	parts := make([]string, len(c.AdminIDs))
	for i, id := range c.AdminIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
