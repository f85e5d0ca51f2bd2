// Package config collects the bags of user-tunable parameters the core
// engine needs (strategy, blackout) and the service-level settings the
// HTTP API and run store need (address, DSN, JWT). StrategyConfig.Validate
// reports every violated strategy invariant in one error, and
// LoadServiceConfig reports every missing required variable in one error,
// rather than failing on the first.
package config

import (
	"strings"

	"fxtrendback/internal/blackout"
	"fxtrendback/internal/bterrors"
	"fxtrendback/internal/strategy"
)

// StrategyConfig bundles the strategy's recognized parameters with the
// blackout configuration applied alongside it.
type StrategyConfig struct {
	Strategy strategy.Params
	Blackout blackout.Config
}

// DefaultStrategyConfig returns the documented strategy defaults with
// every blackout source disabled.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Strategy: strategy.DefaultParams(),
		Blackout: blackout.DefaultConfig(),
	}
}

// Validate accumulates every violated strategy-parameter invariant, plus
// the blackout configuration's validation error if any, returning one
// combined *bterrors.ParameterError rather than stopping at the first
// problem found.
func (c StrategyConfig) Validate() error {
	var problems []string

	if c.Strategy.EMAFast <= 0 {
		problems = append(problems, "ema_fast must be positive")
	}
	if c.Strategy.EMASlow <= c.Strategy.EMAFast {
		problems = append(problems, "ema_slow must exceed ema_fast")
	}
	if c.Strategy.RSILength <= 0 {
		problems = append(problems, "rsi_length must be positive")
	}
	if c.Strategy.ATRLength <= 0 {
		problems = append(problems, "atr_length must be positive")
	}
	if !(0 <= c.Strategy.RSIOversold && c.Strategy.RSIOversold < c.Strategy.RSIOverbought && c.Strategy.RSIOverbought <= 100) {
		problems = append(problems, "rsi_oversold/rsi_overbought must satisfy 0<=oversold<overbought<=100")
	}
	if !(0 <= c.Strategy.StochRSILow && c.Strategy.StochRSILow < c.Strategy.StochRSIHigh && c.Strategy.StochRSIHigh <= 1) {
		problems = append(problems, "stoch_rsi_low/stoch_rsi_high must satisfy 0<=low<high<=1")
	}
	if c.Strategy.PullbackMaxAge <= 0 {
		problems = append(problems, "pullback_max_age must be positive")
	}
	if c.Strategy.TrendCrossCountThreshold <= 0 {
		problems = append(problems, "trend_cross_count_threshold must be positive")
	}
	if c.Strategy.ATRStopMult <= 0 {
		problems = append(problems, "atr_stop_mult must be positive")
	}
	if c.Strategy.TargetRMult <= 0 {
		problems = append(problems, "target_r_mult must be positive")
	}
	if c.Strategy.CooldownCandles < 0 {
		problems = append(problems, "cooldown_candles must be non-negative")
	}
	if c.Strategy.RiskPerTradePct <= 0 {
		problems = append(problems, "risk_per_trade_pct must be positive")
	}
	if c.Strategy.AccountBalance <= 0 {
		problems = append(problems, "account_balance must be positive")
	}
	if c.Strategy.MaxPositionSize <= 0 {
		problems = append(problems, "max_position_size must be positive")
	}

	if err := c.Blackout.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &bterrors.ParameterError{Field: "strategy config", Reason: strings.Join(problems, "; ")}
	}
	return nil
}
