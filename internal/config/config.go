// Package config reads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/makxca/monitorzd/internal/watch"
)

type Config struct {
	BotToken     string
	BadgerPath   string
	RZDBaseURL   string
	HTTPTimeout  time.Duration
	PollInterval time.Duration
	JitterPct    int
	NotifyPolicy watch.Policy
}

func Load() (*Config, error) {
	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	httpTimeout, err := durationEnv("HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := durationEnv("POLL_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	jitterPct, err := intEnv("POLL_JITTER_PCT", 8)
	if err != nil {
		return nil, err
	}
	if jitterPct < 0 || jitterPct >= 100 {
		return nil, fmt.Errorf("POLL_JITTER_PCT must be in [0, 100), got %d", jitterPct)
	}

	policy := watch.PolicyOnChange
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_POLICY")); raw != "" {
		policy, err = watch.ParsePolicy(raw)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_POLICY: %w", err)
		}
	}

	return &Config{
		BotToken:     token,
		BadgerPath:   envOrDefault("BADGER_PATH", "/tmp/monitorzd"),
		RZDBaseURL:   envOrDefault("RZD_BASE_URL", ""),
		HTTPTimeout:  httpTimeout,
		PollInterval: pollInterval,
		JitterPct:    jitterPct,
		NotifyPolicy: policy,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}
