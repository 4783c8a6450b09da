package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	Heartbeat       time.Duration
	SessionTTL      time.Duration
	LogLevel        slog.Level
	// Seed makes the computer's random choices reproducible when set.
	Seed *uint64
}

// LoadServerConfig reads the server configuration through getenv (usually os.Getenv).
func LoadServerConfig(getenv func(string) string) (*ServerConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := &ServerConfig{
		Addr:            getEnvDefault(getenv, "TICTACTOE_ADDR", ":8080"),
		ShutdownTimeout: 5 * time.Second,
		Heartbeat:       15 * time.Second,
		SessionTTL:      time.Hour,
	}
	var errs []error
	var err error
	if cfg.ShutdownTimeout, err = getEnvDuration(getenv, "TICTACTOE_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.Heartbeat, err = getEnvDuration(getenv, "TICTACTOE_HEARTBEAT", cfg.Heartbeat); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionTTL, err = getEnvDuration(getenv, "TICTACTOE_SESSION_TTL", cfg.SessionTTL); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogLevel, err = ParseLogLevel(getenv("LOG_LEVEL")); err != nil {
		errs = append(errs, err)
	}
	if v := getenv("TICTACTOE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TICTACTOE_SEED: %w", err))
		} else {
			cfg.Seed = &seed
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnvDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return def, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return d, nil
}
