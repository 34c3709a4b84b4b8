// Package config collects process settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/server and cmd/scrape need at startup
type Config struct {
	Port    string
	GinMode string

	BrowserHeadless bool
	BrowserBin      string
	NavTimeout      time.Duration
	SettleDelay     time.Duration
	HTTPTimeout     time.Duration

	VINRegistryDB string
	AdminKeyHash  string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel slog.Level
}

// Defaults returns the configuration used when no variables are set
func Defaults() Config {
	return Config{
		Port:            "8080",
		BrowserHeadless: true,
		NavTimeout:      20 * time.Second,
		SettleDelay:     3 * time.Second,
		HTTPTimeout:     10 * time.Second,
		RateLimitRPS:    1,
		RateLimitBurst:  5,
		LogLevel:        slog.LevelInfo,
	}
}

// Load reads an optional .env file and then the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Default().Debug("no .env file found", "component", "config")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Unset variables keep their defaults;
// malformed ones are an error.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()
	var err error

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.GinMode = getenv("GIN_MODE")
	cfg.BrowserBin = getenv("BROWSER_BIN")
	cfg.VINRegistryDB = getenv("VIN_REGISTRY_DB")
	cfg.AdminKeyHash = getenv("ADMIN_KEY_HASH")

	if v := getenv("BROWSER_HEADLESS"); v != "" {
		if cfg.BrowserHeadless, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("BROWSER_HEADLESS: %w", err)
		}
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"BROWSER_NAV_TIMEOUT", &cfg.NavTimeout},
		{"BROWSER_SETTLE_DELAY", &cfg.SettleDelay},
		{"HTTP_FETCH_TIMEOUT", &cfg.HTTPTimeout},
	}
	for _, d := range durations {
		v := getenv(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.name, err)
		}
		if parsed < 0 {
			return Config{}, fmt.Errorf("%s: must not be negative", d.name)
		}
		*d.dst = parsed
	}

	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil || cfg.RateLimitRPS <= 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT_RPS: must be a positive number, got %q", v)
		}
	}
	if v := getenv("RATE_LIMIT_BURST"); v != "" {
		if cfg.RateLimitBurst, err = strconv.Atoi(v); err != nil || cfg.RateLimitBurst < 1 {
			return Config{}, fmt.Errorf("RATE_LIMIT_BURST: must be a positive integer, got %q", v)
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = ParseLevel(v); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// ParseLevel accepts debug, info, warn (or warning) and error
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: unknown level %q", s)
}

// AdminEnabled reports whether the admin registry routes should be mounted
func (c Config) AdminEnabled() bool {
	return c.AdminKeyHash != "" && c.VINRegistryDB != ""
}
