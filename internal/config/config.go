// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/predici-api/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file

	// Authentication
	APIKey string // guards administrative endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Calendar
	TimeZone        string            // IANA zone that decides what "today" is
	PaschaTablePath string            // optional replacement for the bundled table
	PaschaStrategy  calendar.Strategy // auto, lookup, algorithmic

	// Reminders
	RemindersEnabled bool
	ReminderCron     string // standard 5-field cron spec, in TimeZone
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// DefaultReminderCron fires every evening at 19:00.
const DefaultReminderCron = "0 19 * * *"

// Load reads configuration from environment variables, after loading a
// .env file if one is present.
func Load() (*Config, error) {
	// no-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvInt("PORT", 8080),
		Env:          getEnv("ENV", EnvDevelopment),
		DatabasePath: getEnv("DATABASE_PATH", "./data/predici.db"),
		APIKey:       getEnv("API_KEY", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),

		TimeZone:        getEnv("TIMEZONE", "Europe/Bucharest"),
		PaschaTablePath: getEnv("PASCHA_TABLE_PATH", ""),
		PaschaStrategy:  calendar.Strategy(strings.ToLower(getEnv("PASCHA_STRATEGY", string(calendar.StrategyAuto)))),

		RemindersEnabled: getEnvBool("REMINDERS_ENABLED", false),
		ReminderCron:     getEnv("REMINDER_CRON", DefaultReminderCron),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.TimeZone, err))
	}

	if !c.PaschaStrategy.IsValid() {
		errs = append(errs, fmt.Errorf("PASCHA_STRATEGY must be one of: auto, lookup, algorithmic; got %q", c.PaschaStrategy))
	}

	if c.PaschaTablePath != "" {
		if _, err := os.Stat(c.PaschaTablePath); err != nil {
			errs = append(errs, fmt.Errorf("PASCHA_TABLE_PATH: %w", err))
		}
	}

	if c.RemindersEnabled {
		if _, err := cron.ParseStandard(c.ReminderCron); err != nil {
			errs = append(errs, fmt.Errorf("REMINDER_CRON %q: %w", c.ReminderCron, err))
		}
	}

	return errors.Join(errs...)
}

// Location returns the configured time zone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
