// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/currency"
	"github.com/mmynk/splitbill/pkg/logging"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SPLITBILL"

// Config holds runtime configuration for the server.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/bills.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Bill defaults
	DefaultCurrency string   `envconfig:"DEFAULT_CURRENCY" default:"USD"`
	DefaultTaxRate  string   `envconfig:"DEFAULT_TAX_RATE" default:"0"`
	DefaultPeople   []string `envconfig:"DEFAULT_PEOPLE"`
	MaxPeriodDays   int      `envconfig:"MAX_PERIOD_DAYS" default:"1830"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file (or the given files) and then the
// SPLITBILL_* environment variables. Variables already set win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		// A missing default .env is fine; explicitly named files must exist.
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	for i, name := range cfg.DefaultPeople {
		cfg.DefaultPeople[i] = strings.TrimSpace(name)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if _, err := currency.Lookup(c.DefaultCurrency); err != nil {
		problems = append(problems, fmt.Sprintf("invalid default currency '%s': %v", c.DefaultCurrency, err))
	}

	if rate, err := decimal.NewFromString(c.DefaultTaxRate); err != nil {
		problems = append(problems, fmt.Sprintf("invalid default tax rate '%s': must be a decimal", c.DefaultTaxRate))
	} else if rate.IsNegative() {
		problems = append(problems, fmt.Sprintf("invalid default tax rate %s: must not be negative", rate))
	}

	seen := make(map[string]bool, len(c.DefaultPeople))
	for _, name := range c.DefaultPeople {
		switch {
		case name == "":
			problems = append(problems, "default people cannot contain an empty name")
		case seen[name]:
			problems = append(problems, fmt.Sprintf("default people lists '%s' twice", name))
		}
		seen[name] = true
	}

	if c.MaxPeriodDays < 1 {
		problems = append(problems, fmt.Sprintf("invalid max period days %d: must be positive", c.MaxPeriodDays))
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Currency returns the default currency, or USD if it is not registered.
func (c *Config) Currency() currency.Info {
	info, err := currency.Lookup(c.DefaultCurrency)
	if err != nil {
		return currency.USD
	}
	return info
}

// TaxRate returns the default tax rate, or zero if it does not parse.
func (c *Config) TaxRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.DefaultTaxRate)
	if err != nil {
		return decimal.Zero
	}
	return rate
}
