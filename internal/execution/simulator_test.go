package execution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTimestamps(n int) []time.Time {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Minute)
	}
	return out
}

func TestSimulate_TargetHitTakesPrecedenceWhenStopNotTouched(t *testing.T) {
	entry := Entry{
		SignalID: "sig1", EntryIndex: 0, EntryPrice: 1.1000,
		Direction: Long, InitialStopPrice: 1.0980, TargetPrice: 1.1040,
		PositionSize: 0.01,
	}
	high := []float64{1.1000, 1.1041}
	low := []float64{1.0990, 1.1010}
	close := []float64{1.1000, 1.1035}
	trade, err := Simulate(entry, high, low, close, mkTimestamps(2))
	require.NoError(t, err)
	assert.Equal(t, ExitTarget, trade.ExitReason)
	assert.InDelta(t, 2.0, trade.PnLR, 1e-6)
}

func TestSimulate_StopPrecedesTargetOnSameBar(t *testing.T) {
	entry := Entry{
		SignalID: "sig1", EntryIndex: 0, EntryPrice: 1.1000,
		Direction: Long, InitialStopPrice: 1.0980, TargetPrice: 1.1040,
		PositionSize: 0.01,
	}
	// Bar 1 touches both stop and target; stop must win.
	high := []float64{1.1000, 1.1050}
	low := []float64{1.0990, 1.0970}
	close := []float64{1.1000, 1.1000}
	trade, err := Simulate(entry, high, low, close, mkTimestamps(2))
	require.NoError(t, err)
	assert.Equal(t, ExitStopLoss, trade.ExitReason)
	assert.InDelta(t, -1.0, trade.PnLR, 1e-6)
}

func TestSimulate_InvalidEntryWhenStopEqualsEntry(t *testing.T) {
	entry := Entry{
		SignalID: "sig1", EntryIndex: 0, EntryPrice: 1.1000,
		Direction: Long, InitialStopPrice: 1.1000, TargetPrice: 1.1040,
	}
	_, err := Simulate(entry, []float64{1.1}, []float64{1.09}, []float64{1.1}, mkTimestamps(1))
	require.Error(t, err)
}

func TestSimulate_EndOfDataWhenNeitherHit(t *testing.T) {
	entry := Entry{
		SignalID: "sig1", EntryIndex: 0, EntryPrice: 1.1000,
		Direction: Long, InitialStopPrice: 1.0980, TargetPrice: 1.1200,
	}
	high := []float64{1.1000, 1.1010, 1.1020}
	low := []float64{1.0990, 1.1000, 1.1010}
	close := []float64{1.1000, 1.1005, 1.1015}
	trade, err := Simulate(entry, high, low, close, mkTimestamps(3))
	require.NoError(t, err)
	assert.Equal(t, ExitEndOfData, trade.ExitReason)
	assert.Equal(t, 2, trade.ExitIndex)
}

func TestSimulate_ShortDirectionMirrorsLong(t *testing.T) {
	entry := Entry{
		SignalID: "sig1", EntryIndex: 0, EntryPrice: 1.1000,
		Direction: Short, InitialStopPrice: 1.1020, TargetPrice: 1.0960,
	}
	high := []float64{1.1000, 1.1010}
	low := []float64{1.0990, 1.0955}
	close := []float64{1.1000, 1.0960}
	trade, err := Simulate(entry, high, low, close, mkTimestamps(2))
	require.NoError(t, err)
	assert.Equal(t, ExitTarget, trade.ExitReason)
	assert.InDelta(t, 2.0, trade.PnLR, 1e-6)
}

func TestSimulate_TrailingStopActivatesAfterTimeout(t *testing.T) {
	entry := Entry{
		SignalID: "sig1", EntryIndex: 0, EntryPrice: 1.1000,
		Direction: Long, InitialStopPrice: 1.0980, TargetPrice: 1.2000,
		TrailingStopTimeoutCandles: 2,
	}
	// Price rises steadily; trailing stop should ratchet up and eventually
	// trigger on a pullback rather than waiting for the far TARGET.
	high := make([]float64, 10)
	low := make([]float64, 10)
	close := make([]float64, 10)
	for i := 0; i < 10; i++ {
		px := 1.1000 + float64(i)*0.0010
		high[i] = px + 0.0005
		low[i] = px - 0.0005
		close[i] = px
	}
	// Sharp pullback at bar 9.
	high[9] = 1.1050
	low[9] = 1.0850
	close[9] = 1.0900

	trade, err := Simulate(entry, high, low, close, mkTimestamps(10))
	require.NoError(t, err)
	assert.Equal(t, ExitTrailingStop, trade.ExitReason)
}

func TestSimulateBatch_SkipsInvalidEntriesButKeepsOthers(t *testing.T) {
	entries := []Entry{
		{SignalID: "bad", EntryIndex: 0, EntryPrice: 1.10, Direction: Long, InitialStopPrice: 1.10, TargetPrice: 1.12},
		{SignalID: "good", EntryIndex: 0, EntryPrice: 1.10, Direction: Long, InitialStopPrice: 1.09, TargetPrice: 1.12},
	}
	high := []float64{1.10, 1.13}
	low := []float64{1.09, 1.12}
	close := []float64{1.10, 1.125}
	trades, errs := SimulateBatch(entries, high, low, close, mkTimestamps(2))
	assert.Len(t, errs, 1)
	require.Len(t, trades, 1)
	assert.Equal(t, "good", trades[0].SignalID)
}
