// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"NEGOTIATION_ADDR" envDefault:":3000"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `env:"NEGOTIATION_LOG_LEVEL" envDefault:"info"`

	// ViewsDir holds the html templates.
	ViewsDir string `env:"NEGOTIATION_VIEWS_DIR" envDefault:"./static"`

	// MaxSessions bounds how many games stay in memory; the least recently
	// used one is dropped beyond it.
	MaxSessions int `env:"NEGOTIATION_MAX_SESSIONS" envDefault:"256"`

	// InboxSize is the per-session queue of messages awaiting the game.
	InboxSize int `env:"NEGOTIATION_INBOX_SIZE" envDefault:"64"`

	// SubscriberBuffer is the per-subscriber queue in the broker.
	SubscriberBuffer int `env:"NEGOTIATION_SUBSCRIBER_BUFFER" envDefault:"64"`

	// StallTimeout reports a round that waits longer than this. Zero waits silently forever.
	StallTimeout time.Duration `env:"NEGOTIATION_STALL_TIMEOUT" envDefault:"0s"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks that sizes and durations are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("NEGOTIATION_ADDR is required"))
	}
	if c.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("NEGOTIATION_MAX_SESSIONS must be positive, got %d", c.MaxSessions))
	}
	if c.InboxSize <= 0 {
		errs = append(errs, fmt.Errorf("NEGOTIATION_INBOX_SIZE must be positive, got %d", c.InboxSize))
	}
	if c.SubscriberBuffer <= 0 {
		errs = append(errs, fmt.Errorf("NEGOTIATION_SUBSCRIBER_BUFFER must be positive, got %d", c.SubscriberBuffer))
	}
	if c.StallTimeout < 0 {
		errs = append(errs, fmt.Errorf("NEGOTIATION_STALL_TIMEOUT must not be negative, got %s", c.StallTimeout))
	}
	return errors.Join(errs...)
}
