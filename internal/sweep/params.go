// Package sweep implements parameter-range expansion, constraint
// filtering, and worker-pool fan-out execution for parameter sweeps
// across indicator configurations.
package sweep

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"fxtrendback/internal/bterrors"
)

// ParameterRange is one user- or config-supplied indicator parameter,
// already expanded into its concrete candidate values.
type ParameterRange struct {
	IndicatorName string
	ParamName     string
	Values        []float64
	IsRange       bool
	Default       float64
}

// ParameterSet is one concrete combination of all parameter values for a
// single backtest run: {indicator -> {param -> value}}.
type ParameterSet struct {
	Params map[string]map[string]float64
	Label  string
}

var (
	rangePattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s+step\s+(\d+(?:\.\d+)?)$`)
	singlePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)$`)
)

// ParseRangeInput parses free-text range syntax into a concrete value
// list: empty input falls back to default, a bare number is a single
// value, and "start-end step N" expands into an arithmetic sequence
// (inclusive of end, within a small epsilon for float accumulation).
func ParseRangeInput(input string, defaultValue float64) ([]float64, bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []float64{defaultValue}, false, nil
	}

	if singlePattern.MatchString(input) {
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return nil, false, &bterrors.ParameterError{Field: "range", Reason: err.Error()}
		}
		return []float64{v}, false, nil
	}

	if m := rangePattern.FindStringSubmatch(strings.ToLower(input)); m != nil {
		start, _ := strconv.ParseFloat(m[1], 64)
		end, _ := strconv.ParseFloat(m[2], 64)
		step, _ := strconv.ParseFloat(m[3], 64)
		if step <= 0 {
			return nil, false, &bterrors.ParameterError{Field: "step", Reason: "step must be positive"}
		}
		if start > end {
			return nil, false, &bterrors.ParameterError{Field: "range", Reason: "start must be <= end"}
		}

		var values []float64
		epsilon := step / 100
		for current := start; current <= end+epsilon; current += step {
			values = append(values, current)
		}
		if len(values) == 0 {
			return nil, false, &bterrors.ParameterError{Field: "range", Reason: "range produced no values"}
		}
		return values, true, nil
	}

	return nil, false, &bterrors.ParameterError{
		Field:  "range",
		Reason: fmt.Sprintf("invalid input format %q: use a single value (e.g. \"15\") or range syntax (e.g. \"10-30 step 5\")", input),
	}
}

// GenerateCombinations expands the Cartesian product across every
// (indicator, param) pair, grouping by indicator name (sorted, for
// determinism) before flattening into the product's dimension order.
func GenerateCombinations(ranges []ParameterRange) []ParameterSet {
	if len(ranges) == 0 {
		return nil
	}

	byIndicator := make(map[string][]ParameterRange)
	for _, r := range ranges {
		byIndicator[r.IndicatorName] = append(byIndicator[r.IndicatorName], r)
	}

	indicatorNames := make([]string, 0, len(byIndicator))
	for name := range byIndicator {
		indicatorNames = append(indicatorNames, name)
	}
	sort.Strings(indicatorNames)

	type key struct{ indicator, param string }
	var keys []key
	var valueLists [][]float64
	for _, name := range indicatorNames {
		for _, r := range byIndicator[name] {
			keys = append(keys, key{name, r.ParamName})
			valueLists = append(valueLists, r.Values)
		}
	}

	var combos []ParameterSet
	var walk func(dim int, acc map[string]map[string]float64)
	walk = func(dim int, acc map[string]map[string]float64) {
		if dim == len(keys) {
			snapshot := make(map[string]map[string]float64, len(acc))
			for ind, params := range acc {
				clone := make(map[string]float64, len(params))
				for k, v := range params {
					clone[k] = v
				}
				snapshot[ind] = clone
			}
			combos = append(combos, ParameterSet{Params: snapshot, Label: labelFor(snapshot)})
			return
		}
		k := keys[dim]
		for _, v := range valueLists[dim] {
			if acc[k.indicator] == nil {
				acc[k.indicator] = make(map[string]float64)
			}
			acc[k.indicator][k.param] = v
			walk(dim+1, acc)
		}
	}
	walk(0, make(map[string]map[string]float64))

	return combos
}

func labelFor(params map[string]map[string]float64) string {
	indicators := make([]string, 0, len(params))
	for name := range params {
		indicators = append(indicators, name)
	}
	sort.Strings(indicators)

	var parts []string
	for _, ind := range indicators {
		paramNames := make([]string, 0, len(params[ind]))
		for p := range params[ind] {
			paramNames = append(paramNames, p)
		}
		sort.Strings(paramNames)
		for _, p := range paramNames {
			parts = append(parts, fmt.Sprintf("%s.%s=%v", ind, p, params[ind][p]))
		}
	}
	return strings.Join(parts, ", ")
}

// Constraint is a predicate over a ParameterSet; it returns true when the
// combination is valid and should be kept.
type Constraint func(ParameterSet) bool

// DefaultEMAConstraint rejects any combination where fast_ema.period is
// not strictly less than slow_ema.period. Combinations missing either
// parameter are considered unconstrained (valid).
func DefaultEMAConstraint(ps ParameterSet) bool {
	fast, fastOK := ps.Params["fast_ema"]["period"]
	slow, slowOK := ps.Params["slow_ema"]["period"]
	if !fastOK || !slowOK {
		return true
	}
	return fast < slow
}

// FilterInvalidCombinations applies every constraint (default: just
// DefaultEMAConstraint) and returns the survivors plus a count of
// rejected combinations.
func FilterInvalidCombinations(combos []ParameterSet, constraints []Constraint) ([]ParameterSet, int) {
	if constraints == nil {
		constraints = []Constraint{DefaultEMAConstraint}
	}

	var valid []ParameterSet
	skipped := 0
	for _, c := range combos {
		ok := true
		for _, constraint := range constraints {
			if !constraint(c) {
				ok = false
				break
			}
		}
		if ok {
			valid = append(valid, c)
		} else {
			skipped++
		}
	}
	return valid, skipped
}
