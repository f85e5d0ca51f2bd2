package candle

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"fxtrendback/internal/bterrors"
)

// candleLine is the on-disk ndjson row shape, one candle per line.
type candleLine struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

// LoadNDJSON reads a symbol's candle history from an ndjson file (one
// {"t","o","h","l","c","v"} object per line, t as a UTC unix second) and
// builds a validated Table from it.
func LoadNDJSON(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ts []time.Time
	var open, high, low, close, volume []float64

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row candleLine
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, &bterrors.IngestionError{Reason: "malformed ndjson line: " + err.Error(), Index: lineNo}
		}
		ts = append(ts, time.Unix(row.T, 0).UTC())
		open = append(open, row.O)
		high = append(high, row.H)
		low = append(low, row.L)
		close = append(close, row.C)
		volume = append(volume, row.V)
		lineNo++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewTable(ts, open, high, low, close, volume)
}
