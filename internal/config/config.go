// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/rpserver-go/internal/storage/query"
)

// Presence backends
const (
	PresenceMemory = "memory"
	PresenceRedis  = "redis"
)

// ServerConfig holds everything cmd/server needs to start
type ServerConfig struct {
	HTTPAddr string `env:"RP_HTTP_ADDR" envDefault:":8080"`

	StoreDriver string `env:"RP_STORE_DRIVER" envDefault:"sqlite"`
	StoreDSN    string `env:"RP_STORE_DSN"    envDefault:"file:rpserver.db?_pragma=busy_timeout(5000)"`

	PresenceType string `env:"RP_PRESENCE_TYPE" envDefault:"memory"`
	RedisURL     string `env:"RP_REDIS_URL"`

	AdminTokenSecret string        `env:"RP_ADMIN_TOKEN_SECRET"`
	AdminTokenTTL    time.Duration `env:"RP_ADMIN_TOKEN_TTL"    envDefault:"12h"`

	StartMoney    int `env:"RP_START_MONEY"    envDefault:"1000"`
	MaxCharacters int `env:"RP_MAX_CHARACTERS" envDefault:"5"`

	HandlerTimeout time.Duration `env:"RP_HANDLER_TIMEOUT" envDefault:"5s"`
	LogLevel       slog.Level    `env:"RP_LOG_LEVEL"       envDefault:"info"`
}

// Load parses the environment and checks the result
func Load() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports settings that cannot work together
func (c ServerConfig) Validate() error {
	switch c.PresenceType {
	case PresenceMemory:
	case PresenceRedis:
		if c.RedisURL == "" {
			return errors.New("RP_REDIS_URL is required when RP_PRESENCE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid RP_PRESENCE_TYPE %q: must be %q or %q", c.PresenceType, PresenceMemory, PresenceRedis)
	}
	if c.AdminTokenSecret == "" {
		return errors.New("RP_ADMIN_TOKEN_SECRET is required")
	}
	if c.MaxCharacters < 1 {
		return errors.New("RP_MAX_CHARACTERS must be at least 1")
	}
	if _, err := query.DialectForDriver(c.StoreDriver); err != nil {
		return fmt.Errorf("invalid RP_STORE_DRIVER: %w", err)
	}
	if c.StartMoney < 0 {
		return errors.New("RP_START_MONEY must not be negative")
	}
	if c.AdminTokenTTL <= 0 {
		return errors.New("RP_ADMIN_TOKEN_TTL must be positive")
	}
	if c.HandlerTimeout < 0 {
		return errors.New("RP_HANDLER_TIMEOUT must not be negative")
	}
	return nil
}
