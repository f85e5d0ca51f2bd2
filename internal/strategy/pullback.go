package strategy

// rollingMaxBool reports, for each index i, whether any of src[i-window+1..i]
// is true (clamped at the start of the series).
func rollingMaxBool(src []bool, window int) []bool {
	out := make([]bool, len(src))
	for i := range src {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		for j := start; j <= i; j++ {
			if src[j] {
				out[i] = true
				break
			}
		}
	}
	return out
}

// pullbackActiveLong marks rows where the trend is up and an oversold
// extreme occurred within the last pullbackMaxAge rows.
func pullbackActiveLong(trendState []int, rsi, stochRSI []float64, rsiOversold, stochLow float64, pullbackMaxAge int) []bool {
	n := len(trendState)
	isExtreme := make([]bool, n)
	for i := 0; i < n; i++ {
		isExtreme[i] = trendState[i] == TrendUp && (rsi[i] < rsiOversold || stochRSI[i] < stochLow)
	}
	activeWindow := rollingMaxBool(isExtreme, pullbackMaxAge)

	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = activeWindow[i] && trendState[i] == TrendUp
	}
	return out
}

// pullbackActiveShort mirrors pullbackActiveLong for the downtrend/overbought case.
func pullbackActiveShort(trendState []int, rsi, stochRSI []float64, rsiOverbought, stochHigh float64, pullbackMaxAge int) []bool {
	n := len(trendState)
	isExtreme := make([]bool, n)
	for i := 0; i < n; i++ {
		isExtreme[i] = trendState[i] == TrendDown && (rsi[i] > rsiOverbought || stochRSI[i] > stochHigh)
	}
	activeWindow := rollingMaxBool(isExtreme, pullbackMaxAge)

	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = activeWindow[i] && trendState[i] == TrendDown
	}
	return out
}

// momentumTurnLong is true when RSI or StochRSI turned up from an oversold
// one-bar-prior reading.
func momentumTurnLong(rsi, stochRSI []float64) []bool {
	n := len(rsi)
	out := make([]bool, n)
	for i := 1; i < n; i++ {
		rsiTurn := rsi[i-1] < 40 && rsi[i] > rsi[i-1]
		stochTurn := stochRSI[i-1] < 0.3 && stochRSI[i] > stochRSI[i-1]
		out[i] = rsiTurn || stochTurn
	}
	return out
}

// momentumTurnShort mirrors momentumTurnLong for overbought/falling.
func momentumTurnShort(rsi, stochRSI []float64) []bool {
	n := len(rsi)
	out := make([]bool, n)
	for i := 1; i < n; i++ {
		rsiTurn := rsi[i-1] > 60 && rsi[i] < rsi[i-1]
		stochTurn := stochRSI[i-1] > 0.7 && stochRSI[i] < stochRSI[i-1]
		out[i] = rsiTurn || stochTurn
	}
	return out
}
