package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Increment policy modes. Flat adds a fixed amount on top of the current
// bid; reserve-percent derives the increment from the reserve price.
const (
	IncrementModeFlat           = "flat"
	IncrementModeReservePercent = "reserve_percent"
)

// Config holds process configuration, loaded from the environment.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// IncrementMode selects the default minimum-increment formula used
	// for auctions that do not carry their own MinIncrement.
	IncrementMode  string          `envconfig:"INCREMENT_MODE" default:"flat"`
	FlatIncrement  decimal.Decimal `envconfig:"FLAT_INCREMENT" default:"500"`
	ReservePercent decimal.Decimal `envconfig:"RESERVE_PERCENT" default:"0.05"`

	// SweepInterval is how often expired auctions are finalized.
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1s"`
	// CountdownTick is the refresh period for countdown streams.
	CountdownTick time.Duration `envconfig:"COUNTDOWN_TICK" default:"1s"`
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("auction", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to process environment: %w", err)
	}

	if cfg.IncrementMode != IncrementModeFlat && cfg.IncrementMode != IncrementModeReservePercent {
		return Config{}, fmt.Errorf("config: unknown increment mode %q", cfg.IncrementMode)
	}
	if !cfg.FlatIncrement.IsPositive() {
		return Config{}, fmt.Errorf("config: flat increment must be positive, got %s", cfg.FlatIncrement)
	}
	if !cfg.ReservePercent.IsPositive() {
		return Config{}, fmt.Errorf("config: reserve percent must be positive, got %s", cfg.ReservePercent)
	}

	return cfg, nil
}
