package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string        `env:"SERVER_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// BasePath mounts every route under a prefix, e.g. "/math-game".
	BasePath string `env:"BASE_PATH"`

	// DatabasePath is handed to the SQLite driver. ":memory:" keeps games
	// only for the life of the process.
	DatabasePath string `env:"DATABASE_PATH" envDefault:":memory:"`

	// Games untouched for GameIdleTimeout are evicted every SweepInterval.
	GameIdleTimeout time.Duration `env:"GAME_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval   time.Duration `env:"GAME_SWEEP_INTERVAL" envDefault:"1m"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	base := strings.TrimSpace(c.BasePath)
	base = strings.TrimRight(base, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("config: BASE_PATH=%q must start with /", c.BasePath)
	}
	c.BasePath = base

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if c.GameIdleTimeout <= 0 || c.SweepInterval <= 0 {
		return fmt.Errorf("config: GAME_IDLE_TIMEOUT and GAME_SWEEP_INTERVAL must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: LOG_LEVEL=%q: %w", c.LogLevel, err)
	}
	return level, nil
}
