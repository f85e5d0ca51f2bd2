package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"sync"
)

// Tracker accumulates a cumulative SHA-256 hash over every input and event
// that affects a backtest run's outputs, seeded with
// params_hash||manifest_ref||version. The scanner, simulator, and scheduler
// feed it events; Finalize appends the candle count and caches the digest.
//
// Tracker is single-writer. If used from multiple workers, each worker
// should own its own instance and report its final digest to the
// coordinator at the merge barrier.
type Tracker struct {
	mu          sync.Mutex
	accumulator hash.Hash
	candleCount int
	finalized   *string
}

// NewTracker seeds the accumulator with parametersHash, manifestRef, and
// version, in that order.
func NewTracker(parametersHash, manifestRef, version string) *Tracker {
	h := sha256.New()
	h.Write([]byte(parametersHash))
	h.Write([]byte(manifestRef))
	h.Write([]byte(version))
	return &Tracker{accumulator: h}
}

// UpdateCandleCount records the number of candles processed so far; only
// the value at Finalize time is incorporated into the digest.
func (t *Tracker) UpdateCandleCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.candleCount = count
}

// AddEvent records a significant backtest event (e.g.
// "SIGNAL_GENERATED|<signal_id>", "TRADE_CLOSED|<exec_id>") into the
// running hash.
func (t *Tracker) AddEvent(eventType, eventData string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accumulator.Write([]byte(eventType))
	t.accumulator.Write([]byte("|"))
	t.accumulator.Write([]byte(eventData))
}

// Finalize appends the current candle count and returns the cumulative
// digest. The result is cached: subsequent calls return the same value
// even if more events are added afterward.
func (t *Tracker) Finalize() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized != nil {
		return *t.finalized
	}
	t.accumulator.Write([]byte(strconv.Itoa(t.candleCount)))
	sum := t.accumulator.Sum(nil)
	digest := hex.EncodeToString(sum)
	t.finalized = &digest
	return digest
}

// Verify reports whether the finalized digest matches expected, using a
// constant-time comparison.
func (t *Tracker) Verify(expected string) bool {
	actual := t.Finalize()
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}
