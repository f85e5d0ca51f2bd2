// Package indicator parses indicator spec strings and computes the
// corresponding columns onto a candle.Table. The registry is closed: any
// spec string not recognized is skipped (logged via the returned Outcome),
// not treated as fatal, so a run with one bad spec string still completes.
package indicator

import (
	"fmt"
	"math"

	"fxtrendback/internal/bterrors"
	"fxtrendback/internal/candle"
)

// Outcome reports what happened when applying one spec string.
type Outcome struct {
	Spec    string
	Column  string
	Skipped bool
	Reason  string
}

// ApplyAll parses and computes every spec string against tbl, appending one
// column per recognized spec. Specs are processed in order; stoch_rsi
// implicitly computes (and, if not already present, appends) a base "rsi"
// column it depends on.
func ApplyAll(tbl *candle.Table, specs []string) []Outcome {
	outcomes := make([]Outcome, 0, len(specs))
	for _, raw := range specs {
		outcomes = append(outcomes, apply(tbl, raw))
	}
	return outcomes
}

func apply(tbl *candle.Table, raw string) Outcome {
	spec := ParseSpec(raw)
	period := intParam(spec.Params, "period", 0)

	switch spec.Name {
	case "ema", "fast_ema", "slow_ema":
		column := stringParam(spec.Params, "column", "close")
		src, ok := tbl.Column(column)
		if !ok {
			return unknown(raw, fmt.Sprintf("source column %q not found", column))
		}
		values := ema(src, periodOrDefault(spec, period))
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	case "sma", "mean":
		column := stringParam(spec.Params, "column", "close")
		src, ok := tbl.Column(column)
		if !ok {
			return unknown(raw, fmt.Sprintf("source column %q not found", column))
		}
		values := sma(src, periodOrDefault(spec, period))
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	case "std":
		column := stringParam(spec.Params, "column", "close")
		src, ok := tbl.Column(column)
		if !ok {
			return unknown(raw, fmt.Sprintf("source column %q not found", column))
		}
		values := rollingStd(src, periodOrDefault(spec, period))
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	case "zscore":
		column := stringParam(spec.Params, "column", "close")
		src, ok := tbl.Column(column)
		if !ok {
			return unknown(raw, fmt.Sprintf("source column %q not found", column))
		}
		values := zscore(src, periodOrDefault(spec, period))
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	case "atr":
		values := atr(tbl.High, tbl.Low, tbl.Close, periodOrDefault(spec, period))
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	case "rsi":
		values := rsi(tbl.Close, periodOrDefault(spec, period))
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	case "stoch_rsi", "stochrsi":
		p := periodOrDefault(spec, period)
		baseRSI, ok := tbl.Column("rsi")
		if !ok {
			baseRSI = rsi(tbl.Close, p)
			_ = tbl.SetColumn("rsi", baseRSI)
		}
		values := stochRSI(baseRSI, p)
		_ = tbl.SetColumn(raw, values)
		return Outcome{Spec: raw, Column: raw}

	default:
		return unknown(raw, (&bterrors.IndicatorUnknown{Spec: raw}).Error())
	}
}

func periodOrDefault(spec Spec, period int) int {
	if period > 0 {
		return period
	}
	if d, ok := defaultPeriods[spec.Name]; ok {
		return d
	}
	return 14
}

func unknown(raw, reason string) Outcome {
	return Outcome{Spec: raw, Skipped: true, Reason: reason}
}

// IsSentinel reports whether v is the warm-up sentinel value used by
// rolling-window indicators (sma/std/stoch_rsi) before their window
// fills. Downstream scanners use this to skip unusable rows.
func IsSentinel(v float64) bool {
	return math.IsNaN(v)
}
