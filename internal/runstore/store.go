package runstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists BacktestRun and SweepResultRow records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveRun inserts one completed backtest run.
func (s *Store) SaveRun(ctx context.Context, run BacktestRun) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO backtest_runs (
			run_id, strategy_name, direction_mode, starting_equity, final_equity,
			total_trades, sharpe_ratio, max_drawdown_r, reproducibility_hash,
			start_time, end_time, data_start_utc, data_end_utc
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		run.RunID, run.StrategyName, run.DirectionMode, run.StartingEquity, run.FinalEquity,
		run.TotalTrades, run.SharpeRatio, run.MaxDrawdownR, run.ReproducibilityHash,
		run.StartTime, run.EndTime, run.DataStartUTC, run.DataEndUTC)
	return err
}

// GetRun retrieves one run by its run_id. Returns (BacktestRun{}, false, nil)
// when the run does not exist.
func (s *Store) GetRun(ctx context.Context, runID string) (BacktestRun, bool, error) {
	var run BacktestRun
	err := s.pool.QueryRow(ctx, `
		SELECT run_id, strategy_name, direction_mode, starting_equity, final_equity,
		       total_trades, sharpe_ratio, max_drawdown_r, reproducibility_hash,
		       start_time, end_time, data_start_utc, data_end_utc
		FROM backtest_runs WHERE run_id = $1`, runID).Scan(
		&run.RunID, &run.StrategyName, &run.DirectionMode, &run.StartingEquity, &run.FinalEquity,
		&run.TotalTrades, &run.SharpeRatio, &run.MaxDrawdownR, &run.ReproducibilityHash,
		&run.StartTime, &run.EndTime, &run.DataStartUTC, &run.DataEndUTC)
	if err != nil {
		if err == pgx.ErrNoRows {
			return BacktestRun{}, false, nil
		}
		return BacktestRun{}, false, err
	}
	return run, true, nil
}

// ListRuns returns every persisted run for a strategy, newest first.
func (s *Store) ListRuns(ctx context.Context, strategyName string) ([]BacktestRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, strategy_name, direction_mode, starting_equity, final_equity,
		       total_trades, sharpe_ratio, max_drawdown_r, reproducibility_hash,
		       start_time, end_time, data_start_utc, data_end_utc
		FROM backtest_runs WHERE strategy_name = $1 ORDER BY start_time DESC`, strategyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []BacktestRun
	for rows.Next() {
		var run BacktestRun
		if err := rows.Scan(
			&run.RunID, &run.StrategyName, &run.DirectionMode, &run.StartingEquity, &run.FinalEquity,
			&run.TotalTrades, &run.SharpeRatio, &run.MaxDrawdownR, &run.ReproducibilityHash,
			&run.StartTime, &run.EndTime, &run.DataStartUTC, &run.DataEndUTC,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveSweepResult persists one sweep's summary, replacing it transactionally
// if a row with the same sweep_id already exists.
func (s *Store) SaveSweepResult(ctx context.Context, sweep SweepResultRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM sweep_results WHERE sweep_id = $1`, sweep.SweepID)
	if err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `
		INSERT INTO sweep_results (
			sweep_id, strategy_name, ranking_metric, total_combinations,
			successful_count, failed_count, best_params_label, execution_seconds, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		sweep.SweepID, sweep.StrategyName, sweep.RankingMetric, sweep.TotalCombinations,
		sweep.SuccessfulCount, sweep.FailedCount, sweep.BestParamsLabel, sweep.ExecutionSeconds, sweep.CreatedAt)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("sweep result insert affected no rows")
	}

	return tx.Commit(ctx)
}

// GetSweepResult retrieves one sweep summary by id.
func (s *Store) GetSweepResult(ctx context.Context, sweepID string) (SweepResultRow, bool, error) {
	var row SweepResultRow
	err := s.pool.QueryRow(ctx, `
		SELECT sweep_id, strategy_name, ranking_metric, total_combinations,
		       successful_count, failed_count, best_params_label, execution_seconds, created_at
		FROM sweep_results WHERE sweep_id = $1`, sweepID).Scan(
		&row.SweepID, &row.StrategyName, &row.RankingMetric, &row.TotalCombinations,
		&row.SuccessfulCount, &row.FailedCount, &row.BestParamsLabel, &row.ExecutionSeconds, &row.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return SweepResultRow{}, false, nil
		}
		return SweepResultRow{}, false, err
	}
	return row, true, nil
}
