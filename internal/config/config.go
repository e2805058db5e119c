// Package config loads application configuration from environment
// variables. A .env file, when present, is loaded by the caller before
// Load runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env             string        // APP_ENV: dev, test or prod
	Port            string        // PORT: HTTP port to listen on
	TokenSecret     string        // ACCESS_TOKEN_SECRET: HMAC secret for session tokens
	TokenTTL        time.Duration // ACCESS_TOKEN_TTL: session token lifetime
	StoreDriver     string        // STORE_DRIVER: mysql or memory
	DBUser          string        // DB_USER
	DBPass          string        // DB_PASS (empty allowed)
	DBHost          string        // DB_HOST
	DBPort          string        // DB_PORT
	DBName          string        // DB_NAME
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT: grace period for in-flight requests
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// Load reads configuration from the environment. Every missing or invalid
// variable is reported in the returned error, not only the first one.
func Load() (Config, error) {
	var errs []error
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid duration for %s: %q", key, v))
			return def
		}
		return d
	}

	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("PORT", "5000"),
		TokenSecret:     req("ACCESS_TOKEN_SECRET"),
		TokenTTL:        dur("ACCESS_TOKEN_TTL", time.Hour),
		StoreDriver:     strings.ToLower(envStr("STORE_DRIVER", DriverMySQL)),
		ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	switch cfg.StoreDriver {
	case DriverMySQL:
		cfg.DBUser = req("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = req("DB_HOST")
		cfg.DBPort = envStr("DB_PORT", "3306")
		cfg.DBName = envStr("DB_NAME", "epic_tutors")
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver))
	}

	return cfg, errors.Join(errs...)
}
