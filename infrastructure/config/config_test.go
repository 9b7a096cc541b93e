package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "TickX-Events", cfg.EventsTable)
	assert.Equal(t, "TickX-Venues", cfg.VenuesTable)
	assert.Equal(t, "GSI1", cfg.CityIndex)
	assert.Equal(t, "GSI2", cfg.CategoryIndex)
	assert.Equal(t, "GSI3", cfg.VenueIndex)
	assert.Equal(t, 220*time.Millisecond, cfg.TicketmasterRateInterval)
	assert.Equal(t, 3, cfg.BatchMaxRetries)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8*time.Second, cfg.SearchTimeout)
	assert.LessOrEqual(t, cfg.SearchTimeout, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.SyncCities)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("EVENTS_TABLE", "events-test")
	t.Setenv("SEARCH_TIMEOUT", "5s")
	t.Setenv("REQUEST_TIMEOUT", "15000")
	t.Setenv("ENABLE_TRACING", "yes")
	t.Setenv("CORS_ORIGINS", "https://tickx.app, http://localhost:3000,")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "events-test", cfg.EventsTable)
	assert.Equal(t, 5*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, []string{"https://tickx.app", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfig_ProductionRequiresAPIKey(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "TICKETMASTER_API_KEY")

	t.Setenv("TICKETMASTER_API_KEY", "key")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_SyncFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cities:
  - city: Chicago
    stateCode: IL
  - city: Los Angeles
    stateCode: CA
`), 0o600))
	t.Setenv("SYNC_CONFIG_FILE", path)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, []ports.CityTarget{
		{City: "Chicago", StateCode: "IL"},
		{City: "Los Angeles", StateCode: "CA"},
	}, cfg.SyncCities)
}

func TestLoadSyncFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSyncFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cities: ["), 0o600))
	_, err = LoadSyncFile(bad)
	assert.ErrorContains(t, err, "failed to parse")

	partial := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("cities:\n  - city: Austin\n"), 0o600))
	_, err = LoadSyncFile(partial)
	assert.ErrorContains(t, err, "needs city and stateCode")
}

func TestValidate(t *testing.T) {
	cfg := &Config{EventsTable: "e", VenuesTable: "v", BatchMaxRetries: -1}
	assert.ErrorContains(t, cfg.Validate(), "BATCH_MAX_RETRIES")

	cfg = &Config{VenuesTable: "v"}
	assert.ErrorContains(t, cfg.Validate(), "EVENTS_TABLE")

	cfg = &Config{EventsTable: "e", VenuesTable: "v", RequestTimeout: 10 * time.Second, SearchTimeout: 25 * time.Second}
	assert.ErrorContains(t, cfg.Validate(), "SEARCH_TIMEOUT")

	cfg.SearchTimeout = 10 * time.Second
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_SearchTimeoutBeyondRequestTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("SEARCH_TIMEOUT", "25s")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "SEARCH_TIMEOUT")
}
