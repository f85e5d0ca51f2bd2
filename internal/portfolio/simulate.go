package portfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fxtrendback/internal/candle"
	"fxtrendback/internal/execution"
)

// simulateSymbol translates signals into batch-simulator entries (mapping
// timestamps to candle indices via an O(1) lookup table), runs the shared
// execution engine, then enforces cfg.MaxPositionsPerSym open positions at
// a time via execution.FilterOverlapping over the resulting entry/exit
// indices. Returns ClosedTrades with pnl_r populated but currency fields
// left zero — those are filled in later by the shared equity re-pricing
// loop.
func simulateSymbol(symbol string, tbl *candle.Table, signals []SignalInput, cfg Config) []*execution.ClosedTrade {
	if len(signals) == 0 {
		return nil
	}
	tsIndex := tbl.TimestampIndex()

	entries := make([]execution.Entry, 0, len(signals))
	for _, sig := range signals {
		idx, ok := tsIndex[sig.TimestampUTC]
		if !ok {
			continue
		}
		target := sig.TargetPrice
		if target == 0 {
			riskDist := sig.EntryPrice - sig.InitialStopPrice
			if riskDist < 0 {
				riskDist = -riskDist
			}
			if sig.Direction == execution.Long {
				target = sig.EntryPrice + riskDist*cfg.TargetRMultiple
			} else {
				target = sig.EntryPrice - riskDist*cfg.TargetRMultiple
			}
		}
		entries = append(entries, execution.Entry{
			SignalID:         sig.SignalID,
			Symbol:           symbol,
			EntryIndex:       idx,
			EntryPrice:       sig.EntryPrice,
			Direction:        sig.Direction,
			InitialStopPrice: sig.InitialStopPrice,
			TargetPrice:      target,
			PositionSize:     1.0,
		})
	}
	if len(entries) == 0 {
		return nil
	}

	trades, _ := execution.SimulateBatch(entries, tbl.High, tbl.Low, tbl.Close, tbl.Timestamp)
	if len(trades) == 0 {
		return nil
	}

	entryIndices := make([]int, len(trades))
	exitIndices := make([]int, len(trades))
	for i, t := range trades {
		entryIndices[i] = t.EntryIndex
		exitIndices[i] = t.ExitIndex
	}
	kept := execution.FilterOverlapping(entryIndices, exitIndices, cfg.MaxPositionsPerSym)
	admitted := make(map[int]bool, len(kept))
	for _, idx := range kept {
		admitted[idx] = true
	}

	out := trades[:0]
	for _, t := range trades {
		if admitted[t.EntryIndex] {
			out = append(out, t)
		}
	}
	return out
}

// Simulate runs the full scheduler: per-symbol simulation, chronological
// merge, and shared-equity re-pricing. symbolData and symbolSignals must
// share the same key set (symbols present in one but not the other are
// skipped).
func Simulate(runID string, symbolData map[string]*candle.Table, symbolSignals map[string][]SignalInput, cfg Config) Result {
	var allTrades []*execution.ClosedTrade
	symbols := make([]string, 0, len(symbolSignals))
	for symbol, signals := range symbolSignals {
		tbl, ok := symbolData[symbol]
		if !ok {
			continue
		}
		symbols = append(symbols, symbol)
		allTrades = append(allTrades, simulateSymbol(symbol, tbl, signals, cfg)...)
	}
	sort.Strings(symbols)

	sort.SliceStable(allTrades, func(a, b int) bool {
		ta, tb := allTrades[a], allTrades[b]
		if !ta.ExitTimestamp.Equal(tb.ExitTimestamp) {
			return ta.ExitTimestamp.Before(tb.ExitTimestamp)
		}
		if ta.Symbol != tb.Symbol {
			return ta.Symbol < tb.Symbol
		}
		return ta.SignalID < tb.SignalID
	})

	var dataStart, dataEnd = boundsOf(symbolData)

	currentEquity := cfg.StartingEquity
	curve := []EquityPoint{{Timestamp: dataStart, Equity: currentEquity}}

	priced := make([]PricedTrade, 0, len(allTrades))
	for _, t := range allTrades {
		riskAmount := currentEquity.Mul(cfg.RiskPerTrade)
		pnlDollars := riskAmount.Mul(decimal.NewFromFloat(t.PnLR))
		currentEquity = currentEquity.Add(pnlDollars)

		priced = append(priced, PricedTrade{
			Symbol:         t.Symbol,
			SignalID:       t.SignalID,
			Direction:      t.Direction,
			EntryTimestamp: t.EntryTimestamp,
			ExitTimestamp:  t.ExitTimestamp,
			EntryPrice:     t.EntryPrice,
			ExitPrice:      t.ExitPrice,
			ExitReason:     t.ExitReason,
			PnLR:           t.PnLR,
			RiskAmount:     riskAmount,
			PnLDollars:     pnlDollars,
		})
		curve = append(curve, EquityPoint{Timestamp: t.ExitTimestamp, Equity: currentEquity})
	}
	curve = append(curve, EquityPoint{Timestamp: dataEnd, Equity: currentEquity})

	return Result{
		RunID:           runID,
		StartingEquity:  cfg.StartingEquity,
		FinalEquity:     currentEquity,
		EquityCurve:     curve,
		ClosedTrades:    priced,
		TotalTrades:     len(priced),
		TotalPnL:        currentEquity.Sub(cfg.StartingEquity),
		PerSymbolTrades: buildPerSymbolBreakdown(priced),
		Symbols:         symbols,
		DataStartUTC:    dataStart,
		DataEndUTC:      dataEnd,
	}
}

func boundsOf(symbolData map[string]*candle.Table) (start, end time.Time) {
	var haveAny bool
	for _, tbl := range symbolData {
		if tbl.Len() == 0 {
			continue
		}
		first, last := tbl.Timestamp[0], tbl.Timestamp[tbl.Len()-1]
		if !haveAny {
			start, end = first, last
			haveAny = true
			continue
		}
		if first.Before(start) {
			start = first
		}
		if last.After(end) {
			end = last
		}
	}
	return start, end
}

func buildPerSymbolBreakdown(trades []PricedTrade) map[string]SymbolBreakdown {
	type accum struct {
		tradeCount, winCount, lossCount int
		totalR                          float64
		totalPnL                        decimal.Decimal
	}
	acc := make(map[string]*accum)
	for _, t := range trades {
		a, ok := acc[t.Symbol]
		if !ok {
			a = &accum{totalPnL: decimal.Zero}
			acc[t.Symbol] = a
		}
		a.tradeCount++
		a.totalR += t.PnLR
		a.totalPnL = a.totalPnL.Add(t.PnLDollars)
		if t.PnLR > 0 {
			a.winCount++
		} else if t.PnLR < 0 {
			a.lossCount++
		}
	}

	out := make(map[string]SymbolBreakdown, len(acc))
	for symbol, a := range acc {
		var winRate, avgR float64
		if a.tradeCount > 0 {
			winRate = float64(a.winCount) / float64(a.tradeCount)
			avgR = a.totalR / float64(a.tradeCount)
		}
		out[symbol] = SymbolBreakdown{
			TradeCount: a.tradeCount,
			WinCount:   a.winCount,
			LossCount:  a.lossCount,
			WinRate:    winRate,
			TotalR:     a.totalR,
			AvgR:       avgR,
			TotalPnL:   a.totalPnL,
		}
	}
	return out
}
