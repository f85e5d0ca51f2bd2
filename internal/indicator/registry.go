package indicator

import "math"

// ema computes the recursive exponential moving average with
// alpha = 2/(period+1), seeded at index 0 with the source value itself.
func ema(src []float64, period int) []float64 {
	out := make([]float64, len(src))
	if len(src) == 0 {
		return out
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out[0] = src[0]
	for i := 1; i < len(src); i++ {
		out[i] = alpha*src[i] + (1-alpha)*out[i-1]
	}
	return out
}

// sma computes the rolling arithmetic mean over period observations. The
// first (period-1) rows are NaN: the window is not yet full.
func sma(src []float64, period int) []float64 {
	out := make([]float64, len(src))
	var sum float64
	for i := range src {
		sum += src[i]
		if i >= period {
			sum -= src[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// rollingStd computes the rolling population standard deviation over
// period observations. The first (period-1) rows are NaN.
func rollingStd(src []float64, period int) []float64 {
	out := make([]float64, len(src))
	means := sma(src, period)
	for i := range src {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		mean := means[i]
		var sumSq float64
		for j := i - period + 1; j <= i; j++ {
			d := src[j] - mean
			sumSq += d * d
		}
		out[i] = math.Sqrt(sumSq / float64(period))
	}
	return out
}

// trueRange computes the per-bar true range from high/low/close, using
// high-low only for the first bar (no prior close available).
func trueRange(high, low, close []float64) []float64 {
	out := make([]float64, len(high))
	for i := range high {
		if i == 0 {
			out[i] = high[i] - low[i]
			continue
		}
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// atr computes the EMA-smoothed average true range.
func atr(high, low, close []float64, period int) []float64 {
	tr := trueRange(high, low, close)
	return ema(tr, period)
}

// rsi computes the Wilder-style relative strength index, using the same
// alpha = 2/(period+1) EMA helper for average gain/loss rather than
// Wilder's own smoothing constant.
func rsi(close []float64, period int) []float64 {
	n := len(close)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := close[i] - close[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	avgGain := ema(gains, period)
	avgLoss := ema(losses, period)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// stochRSI computes the stochastic RSI: the RSI series re-normalized into
// [0,1] over a rolling window of the same period. The first (period-1)
// rows are NaN; a flat window (max == min) falls back to 0.5.
func stochRSI(rsiValues []float64, period int) []float64 {
	n := len(rsiValues)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		lo, hi := rsiValues[i], rsiValues[i]
		for j := i - period + 1; j <= i; j++ {
			if rsiValues[j] < lo {
				lo = rsiValues[j]
			}
			if rsiValues[j] > hi {
				hi = rsiValues[j]
			}
		}
		if hi == lo {
			out[i] = 0.5
			continue
		}
		out[i] = (rsiValues[i] - lo) / (hi - lo)
	}
	return out
}

// zscore computes (value - rolling mean) / rolling std, falling back to
// 0.0 wherever the rolling std is zero or undefined.
func zscore(src []float64, period int) []float64 {
	n := len(src)
	means := sma(src, period)
	stds := rollingStd(src, period)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(stds[i]) || stds[i] == 0 {
			out[i] = 0.0
			continue
		}
		out[i] = (src[i] - means[i]) / stds[i]
	}
	return out
}
