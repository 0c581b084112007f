package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("MAX_MESSAGE_SIZE", "1024")
	t.Setenv("SEND_BUFFER_SIZE", "64")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2")

	cfg := NewConfigFromEnv()

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxMessageSize)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.RefillInterval)
}

func TestNewConfigFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_MESSAGE_SIZE", "not-a-number")
	t.Setenv("SEND_BUFFER_SIZE", "-5")
	t.Setenv("RATE_LIMIT_BURST", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "oops")

	cfg := NewConfigFromEnv()
	defaults := NewConfig()

	assert.Equal(t, defaults.MaxMessageSize, cfg.MaxMessageSize)
	assert.Equal(t, defaults.SendBuffer, cfg.SendBuffer)
	assert.Equal(t, defaults.RateLimit, cfg.RateLimit)
}

func TestSetConfigSanitizesZeroValues(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })

	SetConfig(&Config{})

	cfg := currentConfig()
	defaults := NewConfig()
	assert.Equal(t, defaults.Port, cfg.Port)
	assert.Equal(t, defaults.MaxMessageSize, cfg.MaxMessageSize)
	assert.Equal(t, defaults.SendBuffer, cfg.SendBuffer)
	assert.Equal(t, defaults.RateLimit, cfg.RateLimit)
}

func TestSetConfigNilResetsDefaults(t *testing.T) {
	SetConfig(&Config{Port: ":7000"})
	SetConfig(nil)

	cfg := currentConfig()
	require.Equal(t, ":8080", cfg.Port)
}

func TestCurrentConfigReturnsCopy(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"http://a.example"}})

	cfg := currentConfig()
	cfg.AllowedOrigins[0] = "http://mutated.example"

	assert.Equal(t, []string{"http://a.example"}, currentConfig().AllowedOrigins)
}
