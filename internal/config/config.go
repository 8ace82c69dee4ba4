package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = "8080"
	defaultApprovalWindow   = "24h"
	defaultExpirySweep      = "1h"
	defaultCompletionSweep  = "24h"
	defaultPlaceholderSweep = "24h"
	defaultDraftTTL         = "2h"
	defaultJWTAccessTTL     = "24h"
	defaultJWTSecret        = "change-me-jwt-secret"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	// ApprovalWindow is how long an owner has to act on a pending booking
	// before the expiry sweep cancels it.
	ApprovalWindow time.Duration

	ExpirySweepInterval      time.Duration
	CompletionSweepInterval  time.Duration
	PlaceholderSweepInterval time.Duration

	// DraftTTL is how long an abandoned wizard draft is kept before cleanup.
	DraftTTL time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		AppEnv:      strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var err error
	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}
	if cfg.ApprovalWindow, err = parseDurationEnv("APPROVAL_WINDOW", defaultApprovalWindow); err != nil {
		return nil, err
	}
	if cfg.ExpirySweepInterval, err = parseDurationEnv("EXPIRY_SWEEP_INTERVAL", defaultExpirySweep); err != nil {
		return nil, err
	}
	if cfg.CompletionSweepInterval, err = parseDurationEnv("COMPLETION_SWEEP_INTERVAL", defaultCompletionSweep); err != nil {
		return nil, err
	}
	if cfg.PlaceholderSweepInterval, err = parseDurationEnv("PLACEHOLDER_SWEEP_INTERVAL", defaultPlaceholderSweep); err != nil {
		return nil, err
	}
	if cfg.DraftTTL, err = parseDurationEnv("DRAFT_TTL", defaultDraftTTL); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.ApprovalWindow <= 0 {
		return fmt.Errorf("APPROVAL_WINDOW must be > 0")
	}
	if cfg.ExpirySweepInterval <= 0 || cfg.CompletionSweepInterval <= 0 || cfg.PlaceholderSweepInterval <= 0 {
		return fmt.Errorf("sweep intervals must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
