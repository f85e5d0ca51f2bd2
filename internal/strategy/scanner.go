package strategy

import (
	"fmt"
	"math"
	"sort"
	"time"

	"fxtrendback/internal/candle"
	"fxtrendback/internal/identity"
)

// fallbackStopDistance is used when ATR is null/sentinel at a signal row.
const fallbackStopDistance = 0.002

// Scan runs the trend-pullback-continuation scanner over an enriched
// candle table and returns a chronologically sorted list of TradeSignals.
// tbl must carry ema<fast>, ema<slow>, rsi<length>, stoch_rsi, and
// atr<length> columns, named per the indicator package's legacy-shorthand
// convention (e.g. "ema20", "rsi14").
func Scan(tbl *candle.Table, pair string, params Params, mode DirectionMode) ([]TradeSignal, error) {
	n := tbl.Len()
	if n == 0 {
		return nil, nil
	}

	emaFast, ok := tbl.Column(fmt.Sprintf("ema%d", params.EMAFast))
	if !ok {
		return nil, fmt.Errorf("missing ema%d column", params.EMAFast)
	}
	emaSlow, ok := tbl.Column(fmt.Sprintf("ema%d", params.EMASlow))
	if !ok {
		return nil, fmt.Errorf("missing ema%d column", params.EMASlow)
	}
	rsi, ok := tbl.Column(fmt.Sprintf("rsi%d", params.RSILength))
	if !ok {
		return nil, fmt.Errorf("missing rsi%d column", params.RSILength)
	}
	stochRSI, ok := tbl.Column("stoch_rsi")
	if !ok {
		return nil, fmt.Errorf("missing stoch_rsi column")
	}
	atr, ok := tbl.Column(fmt.Sprintf("atr%d", params.ATRLength))
	if !ok {
		return nil, fmt.Errorf("missing atr%d column", params.ATRLength)
	}

	trendState := classifyTrend(emaFast, emaSlow, params.TrendCrossCountThreshold)
	parametersHash := identity.ComputeParametersHash(params.ToMap())

	var signals []TradeSignal
	if mode == ModeLong || mode == ModeBoth {
		signals = append(signals, scanLong(tbl, trendState, rsi, stochRSI, atr, pair, params, parametersHash)...)
	}
	if mode == ModeShort || mode == ModeBoth {
		signals = append(signals, scanShort(tbl, trendState, rsi, stochRSI, atr, pair, params, parametersHash)...)
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].TimestampUTC.Before(signals[j].TimestampUTC)
	})
	return signals, nil
}

func scanLong(tbl *candle.Table, trendState []int, rsi, stochRSI, atr []float64, pair string, params Params, parametersHash string) []TradeSignal {
	pullback := pullbackActiveLong(trendState, rsi, stochRSI, params.RSIOversold, params.StochRSILow, params.PullbackMaxAge)
	turn := momentumTurnLong(rsi, stochRSI)
	engulfing := bullishEngulfing(tbl.Open, tbl.Close)
	hammer := isHammer(tbl.Open, tbl.High, tbl.Low, tbl.Close)

	var out []TradeSignal
	for i := 0; i < tbl.Len(); i++ {
		if !(pullback[i] && turn[i] && (engulfing[i] || hammer[i])) {
			continue
		}
		entry := tbl.Close[i]
		stopDistance := atr[i] * params.ATRStopMult
		if math.IsNaN(atr[i]) {
			stopDistance = fallbackStopDistance
		}
		stop := entry - stopDistance
		target := entry + stopDistance*params.TargetRMult
		out = append(out, buildSignal(pair, Long, tbl.Timestamp[i], entry, stop, target, params, parametersHash, []string{"pullback", "reversal", "long"}))
	}
	return out
}

func scanShort(tbl *candle.Table, trendState []int, rsi, stochRSI, atr []float64, pair string, params Params, parametersHash string) []TradeSignal {
	pullback := pullbackActiveShort(trendState, rsi, stochRSI, params.RSIOverbought, params.StochRSIHigh, params.PullbackMaxAge)
	turn := momentumTurnShort(rsi, stochRSI)
	engulfing := bearishEngulfing(tbl.Open, tbl.Close)
	star := isShootingStar(tbl.Open, tbl.High, tbl.Low, tbl.Close)

	var out []TradeSignal
	for i := 0; i < tbl.Len(); i++ {
		if !(pullback[i] && turn[i] && (engulfing[i] || star[i])) {
			continue
		}
		entry := tbl.Close[i]
		stopDistance := atr[i] * params.ATRStopMult
		if math.IsNaN(atr[i]) {
			stopDistance = fallbackStopDistance
		}
		stop := entry + stopDistance
		target := entry - stopDistance*params.TargetRMult
		out = append(out, buildSignal(pair, Short, tbl.Timestamp[i], entry, stop, target, params, parametersHash, []string{"pullback", "reversal", "short"}))
	}
	return out
}

func buildSignal(pair string, dir Direction, ts time.Time, entry, stop, target float64, params Params, parametersHash string, tags []string) TradeSignal {
	const placeholderSize = 0.01
	id := identity.GenerateSignalID(pair, ts, string(dir), entry, stop, placeholderSize, parametersHash)
	return TradeSignal{
		ID:               id,
		Pair:             pair,
		Direction:        dir,
		EntryPrice:       entry,
		InitialStopPrice: stop,
		TargetPrice:      target,
		RiskPerTradePct:  params.RiskPerTradePct,
		PositionSize:     placeholderSize,
		Tags:             tags,
		Version:          "0.1.0",
		TimestampUTC:     ts,
	}
}
