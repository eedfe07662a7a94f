// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	Auth      AuthConfig      `envconfig:"AUTH"`
	Storage   StorageConfig   `envconfig:"STORAGE"`
	Challenge ChallengeConfig `envconfig:"CHALLENGE"`
	Logging   LoggingConfig   `envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// AuthConfig contains the API bearer token
type AuthConfig struct {
	Token string `envconfig:"TOKEN" default:"dev-token"`
}

// StorageConfig selects and configures the flip store
type StorageConfig struct {
	Backend     string `envconfig:"BACKEND" default:"memory"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
}

// ChallengeConfig carries the fixed challenge parameters: the seed balance,
// the max-cash target and the default exchange tax.
type ChallengeConfig struct {
	StartingBalance int64   `envconfig:"STARTING_BALANCE" default:"1000"`
	TargetCeiling   int64   `envconfig:"TARGET_CEILING" default:"2147000000"`
	DefaultTaxPct   float64 `envconfig:"DEFAULT_TAX_PCT" default:"2"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// DefaultTaxRate returns the configured exchange tax as a fraction.
func (c ChallengeConfig) DefaultTaxRate() float64 {
	return c.DefaultTaxPct / 100
}

// Load reads the configuration from FLIPTRACK_-prefixed environment
// variables, applying defaults for anything unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("fliptrack", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires FLIPTRACK_STORAGE_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Challenge.DefaultTaxPct < 0 || c.Challenge.DefaultTaxPct > 100 {
		return fmt.Errorf("default tax must be between 0 and 100 percent")
	}

	return nil
}
