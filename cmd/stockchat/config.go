package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/crucial-sub/stockchat"
)

// stockchat config.toml key mapping to client settings.
type fileConfig struct {
	BaseURL              string `toml:"base_url"`
	RequestTimeout       string `toml:"request_timeout"`
	MaxReconnectAttempts int    `toml:"max_reconnect_attempts"`
	ReconnectBaseDelay   string `toml:"reconnect_base_delay"`
	ReconnectMaxDelay    string `toml:"reconnect_max_delay"`
}

// loadConfig layers, lowest precedence first: defaults, STOCKCHAT_* env,
// the TOML file, then flags.
func loadConfig(path, baseURLFlag string, timeoutFlag time.Duration) (stockchat.Config, error) {
	cfg, err := stockchat.ConfigFromEnv()
	if err != nil {
		return stockchat.Config{}, err
	}

	if path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return stockchat.Config{}, fmt.Errorf("load config: %w", err)
		}
		if meta.IsDefined("base_url") {
			cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
		}
		if meta.IsDefined("request_timeout") {
			if cfg.RequestTimeout, err = parseConfigDuration("request_timeout", raw.RequestTimeout); err != nil {
				return stockchat.Config{}, err
			}
		}
		if meta.IsDefined("max_reconnect_attempts") {
			if raw.MaxReconnectAttempts < 0 {
				return stockchat.Config{}, fmt.Errorf("load config: max_reconnect_attempts must be non-negative")
			}
			cfg.MaxReconnectAttempts = raw.MaxReconnectAttempts
		}
		if meta.IsDefined("reconnect_base_delay") {
			if cfg.ReconnectBaseDelay, err = parseConfigDuration("reconnect_base_delay", raw.ReconnectBaseDelay); err != nil {
				return stockchat.Config{}, err
			}
		}
		if meta.IsDefined("reconnect_max_delay") {
			if cfg.ReconnectMaxDelay, err = parseConfigDuration("reconnect_max_delay", raw.ReconnectMaxDelay); err != nil {
				return stockchat.Config{}, err
			}
		}
	}

	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if timeoutFlag > 0 {
		cfg.RequestTimeout = timeoutFlag
	}
	return cfg, nil
}

func parseConfigDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("load config: %s: invalid duration %q", key, value)
	}
	return d, nil
}
