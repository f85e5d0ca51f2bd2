package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setServiceEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		"HTTP_ADDR":       ":8080",
		"DB_DSN":          "postgres://localhost/backtest",
		"JWT_ISSUER":      "fxtrendback",
		"JWT_SECRET":      "test-secret",
		"JWT_TTL":         "24h",
		"WS_ORIGIN":       "http://localhost:3000",
		"CANDLE_DATA_DIR": "/data/candles",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadServiceConfig_Success(t *testing.T) {
	setServiceEnv(t)
	cfg, err := LoadServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.Mode)
}

func TestLoadServiceConfig_MissingRequiredVars(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("WS_ORIGIN", "")
	t.Setenv("CANDLE_DATA_DIR", "")
	t.Setenv("RUN_MODE", "")
	_, err := LoadServiceConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required env")
}

func TestLoadServiceConfig_RejectsInvalidMode(t *testing.T) {
	setServiceEnv(t)
	t.Setenv("RUN_MODE", "staging")
	_, err := LoadServiceConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid RUN_MODE")
}
