// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port       string
	DBPath     string
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
	TokenTTL   time.Duration
}

// Load reads configuration from the environment and performs minimal
// validation. A .env file in the working directory is applied first if
// present; real environment variables win over .env entries.
func Load() (Config, error) {
	// godotenv.Load does not override variables already set in the
	// environment.
	_ = godotenv.Load()

	cfg := Config{
		Port:      fallback(os.Getenv("PORT"), "8080"),
		DBPath:    fallback(os.Getenv("DB_PATH"), "./data/divvy.db"),
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer: fallback(os.Getenv("JWT_ISSUER"), "divvy"),
	}

	sessionMinutes := fallback(os.Getenv("SESSION_TTL_MINUTES"), "720")
	if m, err := strconv.Atoi(sessionMinutes); err == nil && m > 0 {
		cfg.SessionTTL = time.Duration(m) * time.Minute
	} else {
		cfg.SessionTTL = 12 * time.Hour
	}

	tokenSeconds := fallback(os.Getenv("TOKEN_TTL_SECONDS"), "3600")
	if s, err := strconv.Atoi(tokenSeconds); err == nil && s > 0 {
		cfg.TokenTTL = time.Duration(s) * time.Second
	} else {
		cfg.TokenTTL = time.Hour
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
