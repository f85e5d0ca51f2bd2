package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMA_SeedsAtFirstValue(t *testing.T) {
	src := []float64{1, 1, 1, 1}
	out := ema(src, 3)
	assert.Equal(t, 1.0, out[0])
	assert.InDelta(t, 1.0, out[3], 1e-9)
}

func TestEMA_RespondsToChange(t *testing.T) {
	src := []float64{1, 1, 2, 2, 2, 2, 2}
	out := ema(src, 3)
	assert.Greater(t, out[len(out)-1], 1.0)
	assert.Less(t, out[len(out)-1], 2.0)
}

func TestSMA_WarmupIsNaN(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5}
	out := sma(src, 3)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestRollingStd_ConstantSeriesIsZero(t *testing.T) {
	src := []float64{5, 5, 5, 5}
	out := rollingStd(src, 2)
	assert.InDelta(t, 0.0, out[1], 1e-9)
	assert.InDelta(t, 0.0, out[3], 1e-9)
}

func TestATR_FirstBarIsHighMinusLow(t *testing.T) {
	high := []float64{10, 11, 12}
	low := []float64{9, 9, 10}
	close := []float64{9.5, 10, 11}
	out := atr(high, low, close, 2)
	assert.InDelta(t, 1.0, out[0], 1e-9)
}

func TestRSI_AllGainsIsHundred(t *testing.T) {
	close := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	out := rsi(close, 3)
	assert.InDelta(t, 100.0, out[len(out)-1], 1e-6)
}

func TestRSI_AllLossesIsZero(t *testing.T) {
	close := []float64{8, 7, 6, 5, 4, 3, 2, 1}
	out := rsi(close, 3)
	assert.InDelta(t, 0.0, out[len(out)-1], 1e-6)
}

func TestStochRSI_FlatWindowFallsBackToHalf(t *testing.T) {
	rsiValues := []float64{50, 50, 50, 50, 50}
	out := stochRSI(rsiValues, 3)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 0.5, out[4], 1e-9)
}

func TestStochRSI_RangeIsNormalized(t *testing.T) {
	ascending := []float64{10, 20, 30, 40, 50}
	out := stochRSI(ascending, 3)
	assert.InDelta(t, 1.0, out[4], 1e-9) // current value is the max of its window

	descending := []float64{50, 40, 30, 20, 10}
	out = stochRSI(descending, 3)
	assert.InDelta(t, 0.0, out[4], 1e-9) // current value is the min of its window
}

func TestZScore_FallsBackToZeroOnFlatWindow(t *testing.T) {
	src := []float64{3, 3, 3, 3}
	out := zscore(src, 2)
	assert.Equal(t, 0.0, out[1])
	assert.Equal(t, 0.0, out[3])
}
