package execution

import (
	"math"
	"time"

	"fxtrendback/internal/bterrors"
)

// Simulate runs one trade from its entry index to close, walking high/low/
// close/timestamp arrays starting at entry.EntryIndex+1. Exit precedence
// within a bar is always stop before target (a deliberate conservative
// bias, not configurable). Returns an ExecutionSimulationError for an
// INVALID_ENTRY (entry price equals initial stop) rather than a trade.
func Simulate(entry Entry, high, low, close []float64, timestamp []time.Time) (*ClosedTrade, error) {
	riskDistance := math.Abs(entry.EntryPrice - entry.InitialStopPrice)
	if riskDistance == 0 {
		return nil, &bterrors.ExecutionSimulationError{SignalID: entry.SignalID, Reason: "entry price equals initial stop (INVALID_ENTRY)"}
	}

	n := len(close)
	currentStop := entry.InitialStopPrice
	trailingActive := false
	candlesInTrade := 0

	for i := entry.EntryIndex + 1; i < n; i++ {
		candlesInTrade++

		if entry.TrailingStopTimeoutCandles > 0 && candlesInTrade >= entry.TrailingStopTimeoutCandles {
			trailingActive = true
		}
		if trailingActive {
			if entry.Direction == Long {
				potential := close[i] - riskDistance
				if potential > currentStop {
					currentStop = potential
				}
			} else {
				potential := close[i] + riskDistance
				if potential < currentStop {
					currentStop = potential
				}
			}
		}

		exitPrice, exitReason, hit := checkExit(entry, high[i], low[i], currentStop, trailingActive)
		if hit {
			return closeTrade(entry, i, timestamp[entry.EntryIndex], timestamp[i], exitPrice, exitReason, riskDistance), nil
		}
	}

	if n == 0 {
		return nil, &bterrors.ExecutionSimulationError{SignalID: entry.SignalID, Reason: "no candles provided for execution"}
	}
	return closeTrade(entry, n-1, timestamp[entry.EntryIndex], timestamp[n-1], close[n-1], ExitEndOfData, riskDistance), nil
}

// checkExit applies the canonical stop-before-target precedence.
func checkExit(entry Entry, high, low, currentStop float64, trailingActive bool) (price float64, reason ExitReason, hit bool) {
	slippage := entry.SlippagePips / 10000

	if entry.Direction == Long {
		if low <= currentStop {
			reason = ExitStopLoss
			if trailingActive {
				reason = ExitTrailingStop
			}
			return currentStop - slippage, reason, true
		}
		if high >= entry.TargetPrice {
			return entry.TargetPrice - slippage, ExitTarget, true
		}
		return 0, "", false
	}

	if high >= currentStop {
		reason = ExitStopLoss
		if trailingActive {
			reason = ExitTrailingStop
		}
		return currentStop + slippage, reason, true
	}
	if low <= entry.TargetPrice {
		return entry.TargetPrice + slippage, ExitTarget, true
	}
	return 0, "", false
}

func closeTrade(entry Entry, exitIndex int, entryTS, exitTS time.Time, exitPrice float64, reason ExitReason, riskDistance float64) *ClosedTrade {
	var pnlDistance float64
	if entry.Direction == Long {
		pnlDistance = exitPrice - entry.EntryPrice
	} else {
		pnlDistance = entry.EntryPrice - exitPrice
	}
	pnlR := pnlDistance / riskDistance

	costs := entry.SpreadPips*pipValue + entry.CommissionPerLot*entry.PositionSize/100000

	return &ClosedTrade{
		SignalID:       entry.SignalID,
		Symbol:         entry.Symbol,
		Direction:      entry.Direction,
		EntryIndex:     entry.EntryIndex,
		EntryTimestamp: entryTS,
		EntryPrice:     entry.EntryPrice,
		ExitIndex:      exitIndex,
		ExitTimestamp:  exitTS,
		ExitPrice:      exitPrice,
		ExitReason:     reason,
		PnLR:           pnlR,
		CostsTotal:     costs,
		PositionSize:   entry.PositionSize,
	}
}

// SimulateBatch simulates every entry independently against the same
// price arrays, returning one ClosedTrade per entry that could be
// executed. Entries with INVALID_ENTRY (captured as an error) are skipped,
// not fatal to the batch.
func SimulateBatch(entries []Entry, high, low, close []float64, timestamp []time.Time) ([]*ClosedTrade, []error) {
	trades := make([]*ClosedTrade, 0, len(entries))
	var errs []error
	for _, e := range entries {
		trade, err := Simulate(e, high, low, close, timestamp)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		trades = append(trades, trade)
	}
	return trades, errs
}
