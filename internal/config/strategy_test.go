package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStrategyConfig_IsValid(t *testing.T) {
	cfg := DefaultStrategyConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_AccumulatesMultipleViolations(t *testing.T) {
	cfg := DefaultStrategyConfig()
	cfg.Strategy.EMASlow = cfg.Strategy.EMAFast // violates ema_slow > ema_fast
	cfg.Strategy.RSIOversold = 80               // violates oversold < overbought (default 70)
	cfg.Strategy.CooldownCandles = -1

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "ema_slow must exceed ema_fast")
	assert.Contains(t, msg, "rsi_oversold")
	assert.Contains(t, msg, "cooldown_candles must be non-negative")
}

func TestValidate_RejectsInvalidBlackoutConfig(t *testing.T) {
	cfg := DefaultStrategyConfig()
	cfg.Blackout.News.PreCloseMinutes = 999
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "news.pre_close_minutes")
}
