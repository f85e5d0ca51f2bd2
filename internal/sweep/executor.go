package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"fxtrendback/internal/bterrors"
)

// SingleResult is the outcome of one backtest run with a specific
// parameter set. Error is nil on success; a failed combination still
// occupies a slot in Results rather than aborting the sweep.
type SingleResult struct {
	Params      ParameterSet
	SharpeRatio float64
	TotalPnL    float64
	WinRate     float64
	TradeCount  int
	MaxDrawdown float64
	Error       error
}

// RunFunc executes one full backtest for the given parameter set and
// reports its summary metrics. Implementations wire this to the core
// engine (ingestion -> indicators -> scan -> simulate -> metrics).
type RunFunc func(ctx context.Context, params ParameterSet) (SingleResult, error)

// Result aggregates every per-combination outcome from one sweep.
type Result struct {
	Results              []SingleResult
	BestParams           *ParameterSet
	RankingMetric        string
	ExecutionTimeSeconds float64
	TotalCombinations    int
	SuccessfulCount      int
	FailedCount          int
}

// Options controls sweep execution.
type Options struct {
	Parallelism   int  // <=0 uses runtime.GOMAXPROCS(0), capped at len(combos)
	Sequential    bool // forces single-threaded execution for debugging
	RankingMetric string
}

// metricValue extracts the named ranking metric from a result; unknown
// metric names fall back to SharpeRatio.
func metricValue(r SingleResult, metric string) float64 {
	switch metric {
	case "total_pnl":
		return r.TotalPnL
	case "win_rate":
		return r.WinRate
	case "max_drawdown":
		return r.MaxDrawdown
	case "trade_count":
		return float64(r.TradeCount)
	default:
		return r.SharpeRatio
	}
}

// RankResults returns the successful (error==nil) results sorted
// descending by the given metric.
func RankResults(results []SingleResult, metric string) []SingleResult {
	var successful []SingleResult
	for _, r := range results {
		if r.Error == nil {
			successful = append(successful, r)
		}
	}
	sort.SliceStable(successful, func(a, b int) bool {
		return metricValue(successful[a], metric) > metricValue(successful[b], metric)
	})
	return successful
}

// Execute fans out every combination in valid to a bounded worker pool
// (or runs sequentially when opts.Sequential is set), collecting one
// SingleResult per combination regardless of success or failure. A
// worker panic or error is captured into SingleResult.Error and never
// aborts the sweep. Execution stops early (remaining combinations
// skipped with a context-cancelled error) if ctx is cancelled.
func Execute(ctx context.Context, valid []ParameterSet, run RunFunc, opts Options) Result {
	start := time.Now()
	metric := opts.RankingMetric
	if metric == "" {
		metric = "sharpe_ratio"
	}

	results := make([]SingleResult, len(valid))

	if opts.Sequential {
		for i, ps := range valid {
			results[i] = runOne(ctx, ps, run)
		}
	} else {
		parallelism := opts.Parallelism
		if parallelism <= 0 {
			parallelism = runtime.GOMAXPROCS(0)
		}
		if parallelism > len(valid) {
			parallelism = len(valid)
		}
		if parallelism < 1 {
			parallelism = 1
		}

		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < parallelism; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = runOne(ctx, valid[i], run)
				}
			}()
		}
		for i := range valid {
			select {
			case jobs <- i:
			case <-ctx.Done():
				results[i] = SingleResult{
					Params: valid[i],
					Error:  &bterrors.SweepWorkerError{Label: valid[i].Label, Err: ctx.Err()},
				}
			}
		}
		close(jobs)
		wg.Wait()
	}

	var successCount, failCount int
	for _, r := range results {
		if r.Error != nil {
			failCount++
		} else {
			successCount++
		}
	}

	ranked := RankResults(results, metric)
	var best *ParameterSet
	if len(ranked) > 0 {
		best = &ranked[0].Params
	}

	return Result{
		Results:              results,
		BestParams:           best,
		RankingMetric:        metric,
		ExecutionTimeSeconds: time.Since(start).Seconds(),
		TotalCombinations:    len(valid),
		SuccessfulCount:      successCount,
		FailedCount:          failCount,
	}
}

// runOne executes a single combination, converting both a returned error
// and a recovered panic into a SweepWorkerError so a malformed combination
// never takes down the rest of the sweep.
func runOne(ctx context.Context, ps ParameterSet, run RunFunc) (res SingleResult) {
	if err := ctx.Err(); err != nil {
		return SingleResult{Params: ps, Error: &bterrors.SweepWorkerError{Label: ps.Label, Err: err}}
	}

	defer func() {
		if r := recover(); r != nil {
			res = SingleResult{Params: ps, Error: &bterrors.SweepWorkerError{Label: ps.Label, Err: fmt.Errorf("panic: %v", r)}}
		}
	}()

	result, err := run(ctx, ps)
	result.Params = ps
	if err != nil {
		result.Error = &bterrors.SweepWorkerError{Label: ps.Label, Err: err}
	}
	return result
}
