package stockchat

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for the reconnect and timeout behavior.
const (
	DefaultRequestTimeout       = 120 * time.Second
	DefaultMaxReconnectAttempts = 3
	DefaultReconnectBaseDelay   = time.Second
	DefaultReconnectMaxDelay    = 30 * time.Second
)

// Config is the environment-facing configuration surface of a [Client].
type Config struct {
	// BaseURL is the root of the streaming chat endpoint.
	BaseURL string

	// RequestTimeout bounds a single transport attempt, from connection
	// start to terminal event. Firing counts as a retryable failure.
	RequestTimeout time.Duration

	// MaxReconnectAttempts is the number of reconnects after the initial
	// attempt before the session fails for good.
	MaxReconnectAttempts int

	// ReconnectBaseDelay and ReconnectMaxDelay shape the exponential backoff.
	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
}

// DefaultConfig returns the standard client configuration.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:       DefaultRequestTimeout,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
		ReconnectBaseDelay:   DefaultReconnectBaseDelay,
		ReconnectMaxDelay:    DefaultReconnectMaxDelay,
	}
}

// ConfigFromEnv overlays STOCKCHAT_* environment variables on the defaults.
// Durations use time.ParseDuration syntax. Invalid values are an error rather
// than silently falling back, so misconfiguration is caught at startup.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.BaseURL = os.Getenv("STOCKCHAT_BASE_URL")

	var err error
	if cfg.RequestTimeout, err = envDuration("STOCKCHAT_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ReconnectBaseDelay, err = envDuration("STOCKCHAT_RECONNECT_BASE_DELAY", cfg.ReconnectBaseDelay); err != nil {
		return Config{}, err
	}
	if cfg.ReconnectMaxDelay, err = envDuration("STOCKCHAT_RECONNECT_MAX_DELAY", cfg.ReconnectMaxDelay); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("STOCKCHAT_MAX_RECONNECT_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("STOCKCHAT_MAX_RECONNECT_ATTEMPTS: invalid value %q", v)
		}
		cfg.MaxReconnectAttempts = n
	}

	return cfg, nil
}

// Backoff derives the reconnect policy from the configuration.
func (c Config) Backoff() BackoffPolicy {
	return BackoffPolicy{
		BaseDelay:   c.ReconnectBaseDelay,
		MaxDelay:    c.ReconnectMaxDelay,
		MaxAttempts: c.MaxReconnectAttempts,
	}
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
