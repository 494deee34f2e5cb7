package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.Workers)
	assert.Equal(t, "weekly", cfg.Timeframe)
	assert.Equal(t, 500_000.0, cfg.MinAvgVolume)
	assert.False(t, cfg.EmailConfigured())
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("SCAN_WORKERS", "4")
	t.Setenv("SCAN_TIMEFRAME", "daily")
	t.Setenv("EMAIL_FROM", "scanner@example.com")
	t.Setenv("EMAIL_TO", "a@example.com, b@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "daily", cfg.Timeframe)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.EmailTo)
	assert.True(t, cfg.EmailConfigured())
}

func TestLoadRejectsBadTimeframe(t *testing.T) {
	t.Setenv("SCAN_TIMEFRAME", "hourly")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsTinyScanInterval(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "5s")
	_, err := Load()
	assert.Error(t, err)
}
