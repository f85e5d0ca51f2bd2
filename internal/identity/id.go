// Package identity implements deterministic signal-ID hashing, parameters
// hashing, and the cumulative reproducibility tracker that guarantee a
// backtest run produces byte-identical outputs across hosts.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// GenerateSignalID hashes the canonical identity of a trade signal:
// pair|iso_ts|direction|entry(6dp)|stop(6dp)|size(6dp)|params_hash.
// Identical inputs produce identical 64-char lowercase hex IDs across hosts
// and runs.
func GenerateSignalID(pair string, timestampUTC time.Time, direction string, entryPrice, stopPrice, positionSize float64, parametersHash string) string {
	components := []string{
		pair,
		timestampUTC.Format(time.RFC3339Nano),
		direction,
		strconv.FormatFloat(entryPrice, 'f', 6, 64),
		strconv.FormatFloat(stopPrice, 'f', 6, 64),
		strconv.FormatFloat(positionSize, 'f', 6, 64),
		parametersHash,
	}
	return hashHex(strings.Join(components, "|"))
}

// ComputeParametersHash hashes a key->value parameter mapping. Entries are
// sorted lexicographically by key before serialization, so the hash is
// independent of map iteration order.
func ComputeParametersHash(parameters map[string]any) string {
	keys := make([]string, 0, len(parameters))
	for k := range parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatParamValue(parameters[k]))
	}
	return hashHex(strings.Join(parts, "|"))
}

func formatParamValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func hashHex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
