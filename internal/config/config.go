// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/couplecards/internal/model"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"
	StorageTypeRedis  = "redis"
)

// Config holds every environment-driven setting of the server
type Config struct {
	// StorageType selects the storage backend ("sqlite", "memory" or "redis")
	StorageType string `env:"COUPLES_STORAGE" envDefault:"sqlite"`
	// DBPath is the SQLite database file
	DBPath string `env:"COUPLES_DB_PATH" envDefault:"couples.db"`
	// RedisURL enables the pairing channel when set, and backs redis storage
	RedisURL string `env:"COUPLES_REDIS_URL"`
	// DeviceType is recorded on every saved player config
	DeviceType string `env:"COUPLES_DEVICE_TYPE" envDefault:"android"`
	Port       int    `env:"COUPLES_PORT" envDefault:"8080"`
	LogLevel   string `env:"COUPLES_LOG_LEVEL" envDefault:"info"`
	// DeckPath replaces the built-in question deck when set
	DeckPath            string        `env:"COUPLES_DECK_PATH"`
	FirstTouchAnimation time.Duration `env:"COUPLES_FIRST_TOUCH_ANIMATION" envDefault:"3s"`
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Load parses the process environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses the given environment instead of the process one
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return errors.New("COUPLES_DB_PATH required when COUPLES_STORAGE=sqlite")
		}
	case StorageTypeRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("COUPLES_REDIS_URL required when COUPLES_STORAGE=redis")
		}
	default:
		return fmt.Errorf("invalid COUPLES_STORAGE %q: must be %q, %q or %q", c.StorageType, StorageTypeSQLite, StorageTypeMemory, StorageTypeRedis)
	}
	if _, err := model.ParseDeviceType(c.DeviceType); err != nil {
		return fmt.Errorf("COUPLES_DEVICE_TYPE: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid COUPLES_PORT %d", c.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.FirstTouchAnimation < 0 {
		return errors.New("COUPLES_FIRST_TOUCH_ANIMATION must not be negative")
	}
	return nil
}

// Device returns the parsed device type
func (c Config) Device() model.DeviceType {
	d, _ := model.ParseDeviceType(c.DeviceType)
	return d
}

// SlogLevel maps LogLevel onto a slog level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid COUPLES_LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
