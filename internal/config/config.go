package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Storage
	DBPath string

	// Display currency for formatted balances (ISO 4217)
	Currency string

	// Accrual
	MaxCatchUpDays int
	SweepInterval  time.Duration
}

// Load reads .env files (if present) and then environment variables.
// Missing files are not an error; invalid values are.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		DBPath:   getEnv("DB_PATH", "ledger.db"),
		Currency: getEnv("CURRENCY", "EUR"),
	}

	days, err := strconv.Atoi(getEnv("ACCRUAL_MAX_CATCHUP_DAYS", "3660"))
	if err != nil || days <= 0 {
		return nil, fmt.Errorf("invalid ACCRUAL_MAX_CATCHUP_DAYS %q", os.Getenv("ACCRUAL_MAX_CATCHUP_DAYS"))
	}
	cfg.MaxCatchUpDays = days

	interval, err := time.ParseDuration(getEnv("ACCRUAL_SWEEP_INTERVAL", "0s"))
	if err != nil || interval < 0 {
		return nil, fmt.Errorf("invalid ACCRUAL_SWEEP_INTERVAL %q", os.Getenv("ACCRUAL_SWEEP_INTERVAL"))
	}
	cfg.SweepInterval = interval

	return cfg, nil
}

// IsProduction reports whether logging and defaults should be production-grade.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
