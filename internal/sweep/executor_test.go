package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsAllCombinationsConcurrently(t *testing.T) {
	combos := GenerateCombinations([]ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{10, 12, 14}},
	})
	run := func(_ context.Context, ps ParameterSet) (SingleResult, error) {
		return SingleResult{SharpeRatio: ps.Params["fast_ema"]["period"]}, nil
	}
	result := Execute(context.Background(), combos, run, Options{})
	require.Len(t, result.Results, 3)
	assert.Equal(t, 3, result.SuccessfulCount)
	assert.Equal(t, 0, result.FailedCount)
	require.NotNil(t, result.BestParams)
	assert.Equal(t, 14.0, result.BestParams.Params["fast_ema"]["period"])
}

func TestExecute_CapturesWorkerErrorsWithoutAbortingSweep(t *testing.T) {
	combos := GenerateCombinations([]ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{10, 12}},
	})
	run := func(_ context.Context, ps ParameterSet) (SingleResult, error) {
		if ps.Params["fast_ema"]["period"] == 10 {
			return SingleResult{}, errors.New("boom")
		}
		return SingleResult{SharpeRatio: 1.5}, nil
	}
	result := Execute(context.Background(), combos, run, Options{Sequential: true})
	assert.Equal(t, 1, result.SuccessfulCount)
	assert.Equal(t, 1, result.FailedCount)
}

func TestExecute_RecoversWorkerPanicWithoutAbortingSweep(t *testing.T) {
	combos := GenerateCombinations([]ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{10, 12}},
	})
	run := func(_ context.Context, ps ParameterSet) (SingleResult, error) {
		if ps.Params["fast_ema"]["period"] == 10 {
			panic("malformed candle table")
		}
		return SingleResult{SharpeRatio: 1.5}, nil
	}
	result := Execute(context.Background(), combos, run, Options{Sequential: true})
	require.Len(t, result.Results, 2)
	assert.Equal(t, 1, result.SuccessfulCount)
	assert.Equal(t, 1, result.FailedCount)
	var panicked SingleResult
	for _, r := range result.Results {
		if r.Error != nil {
			panicked = r
		}
	}
	require.Error(t, panicked.Error)
	assert.Contains(t, panicked.Error.Error(), "malformed candle table")
}

func TestExecute_RecoversWorkerPanicConcurrently(t *testing.T) {
	combos := GenerateCombinations([]ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{10, 12, 14}},
	})
	run := func(_ context.Context, ps ParameterSet) (SingleResult, error) {
		if ps.Params["fast_ema"]["period"] == 12 {
			panic("boom")
		}
		return SingleResult{SharpeRatio: 1.0}, nil
	}
	result := Execute(context.Background(), combos, run, Options{})
	require.Len(t, result.Results, 3)
	assert.Equal(t, 2, result.SuccessfulCount)
	assert.Equal(t, 1, result.FailedCount)
}

func TestExecute_SequentialModeMatchesConcurrentResults(t *testing.T) {
	combos := GenerateCombinations([]ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{5, 8, 13}},
	})
	run := func(_ context.Context, ps ParameterSet) (SingleResult, error) {
		return SingleResult{SharpeRatio: ps.Params["fast_ema"]["period"]}, nil
	}
	seq := Execute(context.Background(), combos, run, Options{Sequential: true})
	par := Execute(context.Background(), combos, run, Options{})
	assert.Equal(t, seq.SuccessfulCount, par.SuccessfulCount)
	assert.Equal(t, seq.BestParams.Params["fast_ema"]["period"], par.BestParams.Params["fast_ema"]["period"])
}

func TestRankResults_DescendingBySharpe(t *testing.T) {
	results := []SingleResult{
		{SharpeRatio: 0.5},
		{SharpeRatio: 2.0},
		{SharpeRatio: 1.0, Error: errors.New("skip")},
	}
	ranked := RankResults(results, "sharpe_ratio")
	require.Len(t, ranked, 2)
	assert.Equal(t, 2.0, ranked[0].SharpeRatio)
	assert.Equal(t, 0.5, ranked[1].SharpeRatio)
}
