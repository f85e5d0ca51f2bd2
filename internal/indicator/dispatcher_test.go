package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxtrendback/internal/candle"
)

func mkTable(t *testing.T, n int) *candle.Table {
	t.Helper()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]time.Time, n)
	open, high, low, close := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = base.Add(time.Duration(i) * time.Minute)
		v := 1.1 + float64(i)*0.001
		open[i], high[i], low[i], close[i] = v, v+0.002, v-0.002, v+0.0005
	}
	tbl, err := candle.NewTable(ts, open, high, low, close, nil)
	require.NoError(t, err)
	return tbl
}

func TestApplyAll_RecognizedSpecsAppendColumns(t *testing.T) {
	tbl := mkTable(t, 60)
	outcomes := ApplyAll(tbl, []string{"ema20", "sma(10)", "atr", "rsi", "stoch_rsi", "zscore(20)"})

	for _, o := range outcomes {
		assert.False(t, o.Skipped, "spec %q should not be skipped: %s", o.Spec, o.Reason)
	}

	for _, col := range []string{"ema20", "sma(10)", "atr", "rsi", "stoch_rsi", "zscore(20)"} {
		_, ok := tbl.Column(col)
		assert.True(t, ok, "expected column %q to be set", col)
	}
}

func TestApplyAll_UnknownSpecIsSkippedNotFatal(t *testing.T) {
	tbl := mkTable(t, 10)
	outcomes := ApplyAll(tbl, []string{"bollinger(20)", "ema20"})

	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Skipped)
	assert.Contains(t, outcomes[0].Reason, "unknown indicator spec")
	assert.False(t, outcomes[1].Skipped)
}

func TestApplyAll_StochRSIComputesBaseRSIDependency(t *testing.T) {
	tbl := mkTable(t, 60)
	ApplyAll(tbl, []string{"stoch_rsi"})

	_, hasRSI := tbl.Column("rsi")
	_, hasStoch := tbl.Column("stoch_rsi")
	assert.True(t, hasRSI, "stoch_rsi should compute its rsi dependency")
	assert.True(t, hasStoch)
}
