// Package strategy implements the trend-pullback-continuation scanner: it
// classifies trend state, detects pullback activation and momentum turns,
// confirms with candlestick patterns, and emits priced TradeSignals.
package strategy

import "time"

// Direction is a trade side.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// DirectionMode selects which sides the scanner emits.
type DirectionMode string

const (
	ModeLong  DirectionMode = "LONG"
	ModeShort DirectionMode = "SHORT"
	ModeBoth  DirectionMode = "BOTH"
)

// Params holds the strategy's recognized configuration options.
type Params struct {
	EMAFast                  int
	EMASlow                  int
	RSILength                int
	ATRLength                int
	RSIOversold              float64
	RSIOverbought            float64
	StochRSILow              float64
	StochRSIHigh             float64
	PullbackMaxAge           int
	TrendCrossCountThreshold int
	ATRStopMult              float64
	TargetRMult              float64
	CooldownCandles          int
	RiskPerTradePct          float64
	AccountBalance           float64
	MaxPositionSize          float64
}

// DefaultParams returns the documented strategy defaults.
func DefaultParams() Params {
	return Params{
		EMAFast:                  20,
		EMASlow:                  50,
		RSILength:                14,
		ATRLength:                14,
		RSIOversold:              30,
		RSIOverbought:            70,
		StochRSILow:              0.2,
		StochRSIHigh:             0.8,
		PullbackMaxAge:           20,
		TrendCrossCountThreshold: 3,
		ATRStopMult:              2.0,
		TargetRMult:              2.0,
		CooldownCandles:          5,
		RiskPerTradePct:          0.25,
		AccountBalance:           2500.0,
		MaxPositionSize:          10.0,
	}
}

// ToMap renders Params as the flat map identity.ComputeParametersHash
// expects, so the scanner's parameters_hash is stable and order-independent.
func (p Params) ToMap() map[string]any {
	return map[string]any{
		"ema_fast":                    p.EMAFast,
		"ema_slow":                    p.EMASlow,
		"rsi_length":                  p.RSILength,
		"atr_length":                  p.ATRLength,
		"rsi_oversold":                p.RSIOversold,
		"rsi_overbought":              p.RSIOverbought,
		"stoch_rsi_low":               p.StochRSILow,
		"stoch_rsi_high":              p.StochRSIHigh,
		"pullback_max_age":            p.PullbackMaxAge,
		"trend_cross_count_threshold": p.TrendCrossCountThreshold,
		"atr_stop_mult":               p.ATRStopMult,
		"target_r_mult":               p.TargetRMult,
		"cooldown_candles":            p.CooldownCandles,
		"risk_per_trade_pct":          p.RiskPerTradePct,
		"account_balance":             p.AccountBalance,
		"max_position_size":           p.MaxPositionSize,
	}
}

// TradeSignal is one generated, priced, identity-stamped entry candidate.
type TradeSignal struct {
	ID               string
	Pair             string
	Direction        Direction
	EntryPrice       float64
	InitialStopPrice float64
	TargetPrice      float64
	RiskPerTradePct  float64
	PositionSize     float64
	Tags             []string
	Version          string
	TimestampUTC     time.Time
}
