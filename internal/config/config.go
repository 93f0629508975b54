// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pkordes/hotel-offers/internal/pricing"
)

// Config holds all configuration values for the API server and the
// one-shot pricing command. Values are populated by Load from environment
// variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel is the minimum log level: debug, info, warn or error. Defaults to "info".
	LogLevel string

	// LogFormat is "json" (default) or "text" for coloured local output.
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving. Defaults to true.
	MigrateOnStart bool

	// PricingSchedule is a standard 5-field cron spec. Empty disables the
	// scheduler. Defaults to "30 11 * * *".
	PricingSchedule string

	// PricingLocation is the time zone the schedule and "today" are evaluated in.
	PricingLocation *time.Location

	// PricingWorkers is the number of guests priced concurrently. Defaults to 4.
	PricingWorkers int

	// PricingRunTimeout bounds one scheduled run. Defaults to 10m.
	PricingRunTimeout time.Duration

	// MatchPolicy selects how guest preferences match category names.
	MatchPolicy pricing.MatchPolicy

	// KafkaBrokers lists the brokers that receive price-update events.
	// Empty disables publishing.
	KafkaBrokers []string

	// KafkaTopic is the topic price-update events are published to.
	KafkaTopic string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set or any
// variables whose values cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PricingSchedule: strings.TrimSpace(getEnv("PRICING_SCHEDULE", "30 11 * * *")),
		KafkaBrokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "guest-prices.events.v1"),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	bad := func(key string, err error) {
		invalid = append(invalid, fmt.Sprintf("%s (%v)", key, err))
	}

	var err error
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil {
		bad("MAX_BODY_BYTES", err)
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "true")); err != nil {
		bad("MIGRATE_ON_START", err)
	}
	if cfg.PricingWorkers, err = strconv.Atoi(getEnv("PRICING_WORKERS", "4")); err != nil {
		bad("PRICING_WORKERS", err)
	} else if cfg.PricingWorkers < 1 {
		bad("PRICING_WORKERS", fmt.Errorf("must be at least 1"))
	}
	if cfg.PricingRunTimeout, err = time.ParseDuration(getEnv("PRICING_RUN_TIMEOUT", "10m")); err != nil {
		bad("PRICING_RUN_TIMEOUT", err)
	}
	if cfg.PricingLocation, err = time.LoadLocation(getEnv("PRICING_TIMEZONE", "UTC")); err != nil {
		bad("PRICING_TIMEZONE", err)
	}
	if cfg.MatchPolicy, err = pricing.ParseMatchPolicy(getEnv("CATEGORY_MATCH_POLICY", string(pricing.MatchSubstring))); err != nil {
		bad("CATEGORY_MATCH_POLICY", err)
	}
	if cfg.PricingSchedule != "" && cfg.PricingSchedule != "off" {
		if _, err := cron.ParseStandard(cfg.PricingSchedule); err != nil {
			bad("PRICING_SCHEDULE", err)
		}
	} else {
		cfg.PricingSchedule = ""
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		bad("LOG_FORMAT", fmt.Errorf("want json or text, got %q", cfg.LogFormat))
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, "; "))
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
