// Package metrics computes performance statistics and drawdown analysis
// over a closed sequence of trades, all expressed in R multiples.
package metrics

import "math"

// Trade is the minimal shape metrics needs from a closed trade: its
// R-multiple PnL and open/close timestamps for duration statistics.
type Trade struct {
	PnLR               float64
	OpenTimestampUnix  int64
	CloseTimestampUnix int64
}

// Summary is the full set of performance statistics for a trade sequence.
type Summary struct {
	TradeCount              int
	WinCount                int
	LossCount               int
	BreakevenCount          int
	WinRate                 float64
	AvgWinR                 float64
	AvgLossR                float64
	AvgR                    float64
	ExpectancyR             float64
	SharpeRatio             float64
	SortinoRatio            float64
	ProfitFactor            float64
	MaxDrawdownR            float64
	MaxConsecutiveWins      int
	MaxConsecutiveLosses    int
	AvgTradeDurationSeconds float64
}

// Compute derives a Summary from an ordered sequence of trades. The
// zero-trade case returns NaN for every ratio-based field that has no
// defined value over an empty sample, except MaxDrawdownR, which is
// defined as 0 (there is no drawdown with no trades).
func Compute(trades []Trade) Summary {
	n := len(trades)
	if n == 0 {
		return Summary{
			WinRate: math.NaN(), AvgWinR: math.NaN(), AvgLossR: math.NaN(),
			AvgR: math.NaN(), ExpectancyR: math.NaN(), SharpeRatio: math.NaN(),
			SortinoRatio: math.NaN(), ProfitFactor: math.NaN(), MaxDrawdownR: 0,
			AvgTradeDurationSeconds: math.NaN(),
		}
	}

	var winCount, lossCount, breakeven int
	var sumR, sumWinR, sumLossR float64
	var totalDuration float64
	for _, t := range trades {
		sumR += t.PnLR
		switch {
		case t.PnLR > 0:
			winCount++
			sumWinR += t.PnLR
		case t.PnLR < 0:
			lossCount++
			sumLossR += t.PnLR
		default:
			breakeven++
		}
		totalDuration += float64(t.CloseTimestampUnix - t.OpenTimestampUnix)
	}

	avgR := sumR / float64(n)
	winRate := float64(winCount) / float64(n)

	avgWinR := math.NaN()
	if winCount > 0 {
		avgWinR = sumWinR / float64(winCount)
	}
	avgLossR := math.NaN()
	if lossCount > 0 {
		avgLossR = sumLossR / float64(lossCount)
	}

	stdev := sampleStdev(trades, avgR)
	sharpe := math.NaN()
	if stdev > 0 && n >= 2 {
		sharpe = avgR / stdev
	}

	downside := downsideSemistdev(trades, avgR)
	sortino := math.NaN()
	if downside > 0 && n >= 2 {
		sortino = avgR / downside
	}

	profitFactor := math.NaN()
	switch {
	case lossCount == 0 && winCount > 0:
		profitFactor = math.Inf(1)
	case lossCount > 0:
		profitFactor = sumWinR / math.Abs(sumLossR)
	}

	maxConsecWins, maxConsecLosses := consecutiveRuns(trades)

	return Summary{
		TradeCount:              n,
		WinCount:                winCount,
		LossCount:               lossCount,
		BreakevenCount:          breakeven,
		WinRate:                 winRate,
		AvgWinR:                 avgWinR,
		AvgLossR:                avgLossR,
		AvgR:                    avgR,
		ExpectancyR:             avgR,
		SharpeRatio:             sharpe,
		SortinoRatio:            sortino,
		ProfitFactor:            profitFactor,
		MaxDrawdownR:            maxDrawdown(trades),
		MaxConsecutiveWins:      maxConsecWins,
		MaxConsecutiveLosses:    maxConsecLosses,
		AvgTradeDurationSeconds: totalDuration / float64(n),
	}
}

func sampleStdev(trades []Trade, mean float64) float64 {
	n := len(trades)
	if n < 2 {
		return 0
	}
	var sumSq float64
	for _, t := range trades {
		d := t.PnLR - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// downsideSemistdev mirrors sampleStdev but only over the distances of
// below-mean observations, the conventional Sortino denominator.
func downsideSemistdev(trades []Trade, mean float64) float64 {
	n := len(trades)
	if n < 2 {
		return 0
	}
	var sumSq float64
	for _, t := range trades {
		if t.PnLR < mean {
			d := t.PnLR - mean
			sumSq += d * d
		}
	}
	return math.Sqrt(sumSq / float64(n-1))
}

func consecutiveRuns(trades []Trade) (maxWins, maxLosses int) {
	var curWins, curLosses int
	for _, t := range trades {
		switch {
		case t.PnLR > 0:
			curWins++
			curLosses = 0
		case t.PnLR < 0:
			curLosses++
			curWins = 0
		default:
			curWins, curLosses = 0, 0
		}
		if curWins > maxWins {
			maxWins = curWins
		}
		if curLosses > maxLosses {
			maxLosses = curLosses
		}
	}
	return maxWins, maxLosses
}
