// Package candle implements the columnar candle table: a hand-rolled
// struct-of-slices layout, immutable once ingested, with indicator columns
// appended by name.
package candle

import (
	"math"
	"time"

	"fxtrendback/internal/bterrors"
)

// Table is the columnar OHLC candle store. Required columns (Timestamp,
// Open, High, Low, Close) are fixed-width slices set at construction;
// Volume is optional; indicator columns are appended by name after
// ingestion.
type Table struct {
	Timestamp []time.Time
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64 // nil if not provided

	columns     map[string][]float64
	columnOrder []string
}

// NewTable constructs a Table from required OHLC columns and validates the
// OHLC/monotonic-timestamp invariants. volume may be nil.
func NewTable(timestamp []time.Time, open, high, low, close, volume []float64) (*Table, error) {
	n := len(timestamp)
	switch {
	case len(open) != n:
		return nil, &bterrors.IngestionError{Reason: "column length mismatch", Column: "open"}
	case len(high) != n:
		return nil, &bterrors.IngestionError{Reason: "column length mismatch", Column: "high"}
	case len(low) != n:
		return nil, &bterrors.IngestionError{Reason: "column length mismatch", Column: "low"}
	case len(close) != n:
		return nil, &bterrors.IngestionError{Reason: "column length mismatch", Column: "close"}
	case volume != nil && len(volume) != n:
		return nil, &bterrors.IngestionError{Reason: "column length mismatch", Column: "volume"}
	}

	t := &Table{
		Timestamp: timestamp,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		columns:   make(map[string][]float64),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Timestamp) }

// Validate checks the required invariants: timestamps are monotonic
// non-decreasing, and low <= min(open,close) <= max(open,close) <= high
// for every row.
func (t *Table) Validate() error {
	if t.Len() == 0 {
		return &bterrors.IngestionError{Reason: "empty candle table"}
	}
	for i := 1; i < t.Len(); i++ {
		if t.Timestamp[i].Before(t.Timestamp[i-1]) {
			return &bterrors.IngestionError{Reason: "non-monotonic timestamp", Column: "timestamp_utc", Index: i}
		}
	}
	for i := 0; i < t.Len(); i++ {
		lo, hi := t.Low[i], t.High[i]
		bodyLow := math.Min(t.Open[i], t.Close[i])
		bodyHigh := math.Max(t.Open[i], t.Close[i])
		if !(lo <= bodyLow && bodyLow <= bodyHigh && bodyHigh <= hi) {
			return &bterrors.IngestionError{Reason: "OHLC invariant violated", Column: "high/low", Index: i}
		}
	}
	return nil
}

// SetColumn appends (or replaces) a named indicator column. Column must
// have the same length as the table.
func (t *Table) SetColumn(name string, values []float64) error {
	if len(values) != t.Len() {
		return &bterrors.IngestionError{Reason: "indicator column length mismatch", Column: name}
	}
	if _, exists := t.columns[name]; !exists {
		t.columnOrder = append(t.columnOrder, name)
	}
	t.columns[name] = values
	return nil
}

// Column returns a named column (base OHLCV or a previously appended
// indicator column) and whether it exists.
func (t *Table) Column(name string) ([]float64, bool) {
	switch name {
	case "open":
		return t.Open, true
	case "high":
		return t.High, true
	case "low":
		return t.Low, true
	case "close":
		return t.Close, true
	case "volume":
		return t.Volume, t.Volume != nil
	}
	v, ok := t.columns[name]
	return v, ok
}

// ColumnNames returns the names of appended indicator columns, in the
// order they were first set.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.columnOrder))
	copy(out, t.columnOrder)
	return out
}

// IndexAtOrAfter returns the index of the first row whose timestamp is
// strictly after ts, or -1 if none.
func (t *Table) IndexAtOrAfter(ts time.Time) int {
	for i, rowTS := range t.Timestamp {
		if rowTS.After(ts) {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the row whose timestamp equals ts exactly,
// or -1 if none (O(1) amortized via a lazily built map would require
// mutable state; callers simulating many lookups should build their own
// map from TimestampIndex).
func (t *Table) IndexOf(ts time.Time) int {
	for i, rowTS := range t.Timestamp {
		if rowTS.Equal(ts) {
			return i
		}
	}
	return -1
}

// TimestampIndex builds an O(1) timestamp->index lookup table, used by the
// portfolio scheduler to map signal timestamps to candle indices.
func (t *Table) TimestampIndex() map[time.Time]int {
	idx := make(map[time.Time]int, t.Len())
	for i, ts := range t.Timestamp {
		idx[ts] = i
	}
	return idx
}
