// Package runstore persists backtest runs and sweep results to Postgres:
// one struct per table, one method per query, context.Context first,
// pgx.ErrNoRows handled explicitly rather than propagated as a generic
// error.
package runstore

import "time"

// BacktestRun is the persisted record of one completed backtest.
type BacktestRun struct {
	RunID               string
	StrategyName        string
	DirectionMode       string
	StartingEquity      float64
	FinalEquity         float64
	TotalTrades         int
	SharpeRatio         float64
	MaxDrawdownR        float64
	ReproducibilityHash string
	StartTime           time.Time
	EndTime             time.Time
	DataStartUTC        time.Time
	DataEndUTC          time.Time
}

// SweepResultRow is the persisted record of one parameter sweep.
type SweepResultRow struct {
	SweepID           string
	StrategyName      string
	RankingMetric     string
	TotalCombinations int
	SuccessfulCount   int
	FailedCount       int
	BestParamsLabel   string
	ExecutionSeconds  float64
	CreatedAt         time.Time
}
