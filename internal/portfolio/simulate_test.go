package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxtrendback/internal/candle"
	"fxtrendback/internal/execution"
)

func mkCandles(t *testing.T, n int, base time.Time) *candle.Table {
	t.Helper()
	ts := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closeP := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = base.Add(time.Duration(i) * time.Minute)
		open[i] = 1.10
		high[i] = 1.1005
		low[i] = 1.0995
		closeP[i] = 1.10
	}
	tbl, err := candle.NewTable(ts, open, high, low, closeP, nil)
	require.NoError(t, err)
	return tbl
}

// TestSimulate_SharedEquityCoupling replicates the documented scenario: two
// symbols, one trade each, EURUSD closes first with pnl_r=-1, USDJPY with
// pnl_r=+2. Starting equity $2500, risk 0.25%.
func TestSimulate_SharedEquityCoupling(t *testing.T) {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	eurusd := mkCandles(t, 5, base)
	usdjpy := mkCandles(t, 5, base)

	// EURUSD: entry at index 0, exits via stop at index 1 (pnl_r = -1).
	eurusd.Low[1] = 1.0980

	// USDJPY: entry at index 0, exits via target at index 2 (pnl_r = +2),
	// a later timestamp than EURUSD's exit so the chronological merge
	// processes EURUSD first.
	usdjpy.High[2] = 1.1041

	symbolData := map[string]*candle.Table{
		"EURUSD": eurusd,
		"USDJPY": usdjpy,
	}
	symbolSignals := map[string][]SignalInput{
		"EURUSD": {{
			SignalID: "e1", TimestampUTC: eurusd.Timestamp[0],
			Direction: execution.Long, EntryPrice: 1.1000,
			InitialStopPrice: 1.0980, TargetPrice: 1.1200,
		}},
		"USDJPY": {{
			SignalID: "u1", TimestampUTC: usdjpy.Timestamp[0],
			Direction: execution.Long, EntryPrice: 1.1000,
			InitialStopPrice: 1.0980, TargetPrice: 1.1040,
		}},
	}

	cfg := DefaultConfig()
	result := Simulate("run1", symbolData, symbolSignals, cfg)

	require.Len(t, result.ClosedTrades, 2)
	assert.Equal(t, "EURUSD", result.ClosedTrades[0].Symbol)
	assert.Equal(t, "USDJPY", result.ClosedTrades[1].Symbol)

	assert.InDelta(t, -1.0, result.ClosedTrades[0].PnLR, 1e-6)
	assert.InDelta(t, 2.0, result.ClosedTrades[1].PnLR, 1e-6)

	expectedAfterEUR := decimal.NewFromFloat(2493.75)
	assert.True(t, result.EquityCurve[1].Equity.Sub(expectedAfterEUR).Abs().LessThan(decimal.NewFromFloat(1e-6)),
		"equity after EURUSD exit = %s, want 2493.75", result.EquityCurve[1].Equity)

	expectedFinal := decimal.NewFromFloat(2506.218750)
	assert.True(t, result.FinalEquity.Sub(expectedFinal).Abs().LessThan(decimal.NewFromFloat(1e-4)),
		"final equity = %s, want ~2506.218750", result.FinalEquity)
}

func TestSimulate_PerSymbolBreakdown(t *testing.T) {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	eurusd := mkCandles(t, 5, base)
	eurusd.Low[1] = 1.0980

	symbolData := map[string]*candle.Table{"EURUSD": eurusd}
	symbolSignals := map[string][]SignalInput{
		"EURUSD": {{
			SignalID: "e1", TimestampUTC: eurusd.Timestamp[0],
			Direction: execution.Long, EntryPrice: 1.1000,
			InitialStopPrice: 1.0980, TargetPrice: 1.2000,
		}},
	}

	result := Simulate("run2", symbolData, symbolSignals, DefaultConfig())
	breakdown, ok := result.PerSymbolTrades["EURUSD"]
	require.True(t, ok)
	assert.Equal(t, 1, breakdown.TradeCount)
	assert.Equal(t, 0, breakdown.WinCount)
	assert.Equal(t, 1, breakdown.LossCount)
	assert.InDelta(t, -1.0, breakdown.TotalR, 1e-6)
}

// TestSimulate_EnforcesMaxOnePositionPerSymbol replicates spec.md §4.7's
// "maximum one open position per symbol" invariant: a second signal that
// opens while the first is still open must be dropped under the default
// max_concurrent=1, leaving only one closed trade for the symbol.
func TestSimulate_EnforcesMaxOnePositionPerSymbol(t *testing.T) {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	eurusd := mkCandles(t, 6, base)
	// Neither signal's stop or target is ever hit, so both run to
	// end-of-data (exit index 5) if simulated independently.

	symbolData := map[string]*candle.Table{"EURUSD": eurusd}
	symbolSignals := map[string][]SignalInput{
		"EURUSD": {
			{
				SignalID: "e1", TimestampUTC: eurusd.Timestamp[0],
				Direction: execution.Long, EntryPrice: 1.1000,
				InitialStopPrice: 1.0500, TargetPrice: 1.2000,
			},
			{
				// Opens one bar later, while e1 is still open.
				SignalID: "e2", TimestampUTC: eurusd.Timestamp[1],
				Direction: execution.Long, EntryPrice: 1.1000,
				InitialStopPrice: 1.0500, TargetPrice: 1.2000,
			},
		},
	}

	result := Simulate("run4", symbolData, symbolSignals, DefaultConfig())
	require.Len(t, result.ClosedTrades, 1)
	assert.Equal(t, "e1", result.ClosedTrades[0].SignalID)
}

func TestSimulate_SkipsSymbolsMissingFromCandleData(t *testing.T) {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	symbolSignals := map[string][]SignalInput{
		"GBPUSD": {{SignalID: "g1", TimestampUTC: base, Direction: execution.Long, EntryPrice: 1.25, InitialStopPrice: 1.24}},
	}
	result := Simulate("run3", map[string]*candle.Table{}, symbolSignals, DefaultConfig())
	assert.Empty(t, result.ClosedTrades)
	assert.Empty(t, result.Symbols)
}
