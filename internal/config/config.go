// Package config reads runtime configuration from the environment, loading a
// local .env file first when one exists.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	DefaultTimezone    = "Asia/Kolkata"
	DefaultDataDir     = "data"
	DefaultRedirectURL = "http://localhost:5000/auth/callback"
)

// Config holds everything the CLI needs to wire the engine together.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	Timezone           string
	DataDir            string
	TokenPassphrase    string
	PortalURL          string
	PortalCookie       string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", DefaultRedirectURL),
		Timezone:           getenv("TIMETABLE_TZ", DefaultTimezone),
		DataDir:            getenv("DATA_DIR", DefaultDataDir),
		TokenPassphrase:    os.Getenv("TOKEN_PASSPHRASE"),
		PortalURL:          os.Getenv("PORTAL_URL"),
		PortalCookie:       os.Getenv("PORTAL_COOKIE"),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMETABLE_TZ %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location resolves the configured institutional time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequireGoogle checks that OAuth client credentials are configured.
func (c *Config) RequireGoogle() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
