package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// SMTPConfig holds outbound email settings. When Host is empty, confirmation
// emails are written to the log instead of delivered.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
	UseTLS   bool   `env:"USE_TLS" envDefault:"true"`
}

// Config holds the full server configuration, populated from the environment
type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"STORAGE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	ConfirmationWindow  time.Duration `env:"CONFIRMATION_WINDOW" envDefault:"24h"`
	SessionDuration     time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	ConfirmationBaseURL string        `env:"CONFIRMATION_BASE_URL" envDefault:"http://localhost:8080/confirm"`

	InitialUsername string `env:"INITIAL_USERNAME" envDefault:"initial"`
	InitialEmail    string `env:"INITIAL_EMAIL" envDefault:"initial@example.com"`
	InitialPassword string `env:"INITIAL_PASSWORD"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// Load reads configuration from the environment. All variables carry the
// TABLEHOST_ prefix.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "TABLEHOST_"}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
