package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"plate-tracker/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "plate-archives", cfg.Storage.Bucket)

	assert.Equal(t, "https://apiv8.emiratesauction.net/api", cfg.Market.BaseURL)
	assert.Equal(t, 150, cfg.Market.PageSize)
	assert.Equal(t, 200, cfg.Market.BuyNowPageSize)
	assert.Equal(t, 30, cfg.Market.RequestsPerMinute)

	assert.Equal(t, "data", cfg.Auction.DataDir)
	assert.Equal(t, "data/archive", cfg.Auction.ArchiveDir)
	assert.Equal(t, int64(7200), cfg.Auction.FinalHoursThresholdSeconds)

	assert.Equal(t, "data/buynow", cfg.BuyNow.Dir)
	assert.Equal(t, "data/dashboard.json", cfg.Dashboard.OutputPath)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AUCTION_DATA_DIR", "/var/lib/plates")
	t.Setenv("MARKET_REQUESTS_PER_MINUTE", "120")
	t.Setenv("STORAGE_ENABLED", "true")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/plates", cfg.Auction.DataDir)
	assert.Equal(t, 120, cfg.Market.RequestsPerMinute)
	assert.True(t, cfg.Storage.Enabled)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SERVER_PORT=9090\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))
	// godotenv mutates the process environment.
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
}
