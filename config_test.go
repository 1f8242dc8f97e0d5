package stockchat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial-sub/stockchat"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("STOCKCHAT_BASE_URL", "")
	t.Setenv("STOCKCHAT_REQUEST_TIMEOUT", "")
	t.Setenv("STOCKCHAT_MAX_RECONNECT_ATTEMPTS", "")
	t.Setenv("STOCKCHAT_RECONNECT_BASE_DELAY", "")
	t.Setenv("STOCKCHAT_RECONNECT_MAX_DELAY", "")

	cfg, err := stockchat.ConfigFromEnv()
	require.NoError(t, err)

	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxReconnectAttempts)
	assert.Equal(t, time.Second, cfg.ReconnectBaseDelay)
	assert.Equal(t, 30*time.Second, cfg.ReconnectMaxDelay)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("STOCKCHAT_BASE_URL", "https://api.stock-lab.example")
	t.Setenv("STOCKCHAT_REQUEST_TIMEOUT", "45s")
	t.Setenv("STOCKCHAT_MAX_RECONNECT_ATTEMPTS", "5")
	t.Setenv("STOCKCHAT_RECONNECT_BASE_DELAY", "500ms")
	t.Setenv("STOCKCHAT_RECONNECT_MAX_DELAY", "1m")

	cfg, err := stockchat.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.stock-lab.example", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.MaxReconnectAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectBaseDelay)
	assert.Equal(t, time.Minute, cfg.ReconnectMaxDelay)
}

func TestConfigFromEnv_InvalidValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("STOCKCHAT_REQUEST_TIMEOUT", "soon")
		_, err := stockchat.ConfigFromEnv()
		assert.ErrorContains(t, err, "STOCKCHAT_REQUEST_TIMEOUT")
	})

	t.Run("bad attempt count", func(t *testing.T) {
		t.Setenv("STOCKCHAT_MAX_RECONNECT_ATTEMPTS", "-1")
		_, err := stockchat.ConfigFromEnv()
		assert.ErrorContains(t, err, "STOCKCHAT_MAX_RECONNECT_ATTEMPTS")
	})
}

func TestConfig_Backoff(t *testing.T) {
	t.Parallel()
	cfg := stockchat.Config{
		ReconnectBaseDelay:   2 * time.Second,
		ReconnectMaxDelay:    20 * time.Second,
		MaxReconnectAttempts: 7,
	}

	p := cfg.Backoff()
	assert.Equal(t, 2*time.Second, p.BaseDelay)
	assert.Equal(t, 20*time.Second, p.MaxDelay)
	assert.Equal(t, 7, p.MaxAttempts)
}
