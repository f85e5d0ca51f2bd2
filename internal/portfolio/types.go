// Package portfolio implements the time-synchronized, shared-equity
// multi-symbol scheduler: each symbol is simulated independently against
// its own candle table, then the resulting trades are merged
// chronologically and re-priced against one running account balance.
package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"fxtrendback/internal/execution"
)

// SignalInput is the minimal shape the scheduler needs from a strategy
// signal to translate it into a batch-simulator entry.
type SignalInput struct {
	SignalID         string
	TimestampUTC     time.Time
	Direction        execution.Direction
	EntryPrice       float64
	InitialStopPrice float64
	TargetPrice      float64
}

// PricedTrade is a ClosedTrade after shared-equity re-pricing: pnl_r is
// carried from the underlying simulation, pnl_dollars/risk_amount are
// decimal currency values computed at merge time.
type PricedTrade struct {
	Symbol         string
	SignalID       string
	Direction      execution.Direction
	EntryTimestamp time.Time
	ExitTimestamp  time.Time
	EntryPrice     float64
	ExitPrice      float64
	ExitReason     execution.ExitReason
	PnLR           float64
	RiskAmount     decimal.Decimal
	PnLDollars     decimal.Decimal
}

// EquityPoint is one sample on the portfolio equity curve.
type EquityPoint struct {
	Timestamp time.Time
	Equity    decimal.Decimal
}

// SymbolBreakdown summarizes one symbol's contribution to a portfolio run.
type SymbolBreakdown struct {
	TradeCount int
	WinCount   int
	LossCount  int
	WinRate    float64
	TotalR     float64
	AvgR       float64
	TotalPnL   decimal.Decimal
}

// Result is the full output of a portfolio run.
type Result struct {
	RunID               string
	StartingEquity      decimal.Decimal
	FinalEquity         decimal.Decimal
	EquityCurve         []EquityPoint
	ClosedTrades        []PricedTrade
	TotalTrades         int
	TotalPnL            decimal.Decimal
	PerSymbolTrades     map[string]SymbolBreakdown
	Symbols             []string
	DataStartUTC        time.Time
	DataEndUTC          time.Time
	ReproducibilityHash string
}

// Config controls position sizing for the re-pricing loop.
type Config struct {
	StartingEquity     decimal.Decimal
	RiskPerTrade       decimal.Decimal // fraction of current equity, e.g. 0.0025
	MaxPositionsPerSym int
	TargetRMultiple    float64
}

// DefaultConfig mirrors the scheduler's documented defaults: $2,500
// starting capital, 0.25% risk per trade, one open position per symbol,
// 2:1 reward-to-risk target.
func DefaultConfig() Config {
	return Config{
		StartingEquity:     decimal.NewFromInt(2500),
		RiskPerTrade:       decimal.NewFromFloat(0.0025),
		MaxPositionsPerSym: 1,
		TargetRMultiple:    2.0,
	}
}
