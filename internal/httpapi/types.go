package httpapi

import (
	"context"

	"fxtrendback/internal/engine"
	"fxtrendback/internal/metrics"
	"fxtrendback/internal/portfolio"
	"fxtrendback/internal/sweep"
)

// BacktestRequest describes one portfolio backtest run. Aliased from
// engine.BacktestRequest so the engine's Service satisfies BacktestEngine
// below without this package importing the engine's run logic, and
// without the engine importing this package's HTTP concerns.
type BacktestRequest = engine.BacktestRequest

// BacktestResponse is the JSON shape returned from POST /v1/backtests.
type BacktestResponse struct {
	RunID               string          `json:"run_id"`
	StartingEquity      string          `json:"starting_equity"`
	FinalEquity         string          `json:"final_equity"`
	TotalTrades         int             `json:"total_trades"`
	Symbols             []string        `json:"symbols"`
	ReproducibilityHash string          `json:"reproducibility_hash"`
	Summary             metrics.Summary `json:"summary"`
}

// SweepRequest describes one parameter sweep submission.
type SweepRequest struct {
	StrategyName  string            `json:"strategy_name"`
	Symbols       []string          `json:"symbols"`
	Ranges        []SweepRangeInput `json:"ranges"`
	RankingMetric string            `json:"ranking_metric,omitempty"`
	Sequential    bool              `json:"sequential,omitempty"`
}

// SweepRangeInput is the free-text range form accepted over the wire,
// e.g. {"indicator":"fast_ema","param":"period","input":"10-30 step 5"}.
type SweepRangeInput struct {
	Indicator string  `json:"indicator"`
	Param     string  `json:"param"`
	Input     string  `json:"input"`
	Default   float64 `json:"default"`
}

// SweepAcceptedResponse is returned immediately from POST /v1/sweeps; the
// sweep runs asynchronously and its progress/result is read from the
// websocket stream endpoint.
type SweepAcceptedResponse struct {
	SweepID             string `json:"sweep_id"`
	TotalCombinations   int    `json:"total_combinations"`
	SkippedCombinations int    `json:"skipped_combinations"`
	StreamPath          string `json:"stream_path"`
}

// BacktestEngine runs one full backtest: ingest candles, scan signals,
// simulate, and compute metrics. The concrete implementation wires the
// core packages together (cmd/backtestd owns that composition).
type BacktestEngine interface {
	RunBacktest(ctx context.Context, req BacktestRequest) (portfolio.Result, metrics.Summary, error)
}

// SweepRunner executes one parameter combination of a sweep, invoked once
// per combination by the sweep executor's worker pool.
type SweepRunner interface {
	RunOne(ctx context.Context, strategyName string, symbols []string, params map[string]map[string]float64) (sweep.SingleResult, error)
}
