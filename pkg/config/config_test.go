package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
environment: test
server:
  port: 8080
backend:
  type: none
finnhub:
  api_key: fh-test-key
analysis:
  watchlist: [NVDA, AAPL, MSFT]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"NVDA", "AAPL", "MSFT"}, cfg.Analysis.Watchlist)
	// defaults filled by Validate
	assert.Equal(t, 7, cfg.Analysis.NewsWindowDays)
	assert.Equal(t, 90, cfg.Analysis.InsiderWindowDays)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "env-key")
	t.Setenv("WATCHLIST", "TSLA,AMZN")
	t.Setenv("BACKEND", "none")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Finnhub.APIKey)
	assert.Equal(t, []string{"TSLA", "AMZN"}, cfg.Analysis.Watchlist)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: postgres
finnhub:
  api_key: k
analysis:
  watchlist: [NVDA]
`))
	assert.ErrorContains(t, err, "backend.type")
}

func TestValidateRequiresWatchlist(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: none
finnhub:
  api_key: k
`))
	assert.ErrorContains(t, err, "watchlist")
}

func TestValidateKafkaBackendNeedsBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: kafka
finnhub:
  api_key: k
analysis:
  watchlist: [NVDA]
`))
	assert.ErrorContains(t, err, "kafka.brokers")
}
