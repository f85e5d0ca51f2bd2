package indicator

import (
	"regexp"
	"strconv"
	"strings"
)

// Spec is a parsed indicator definition: a registry name plus its
// parameters (at minimum "period", plus any keyword overrides).
type Spec struct {
	Raw    string
	Name   string
	Params map[string]any
}

var (
	functionalPattern = regexp.MustCompile(`^([a-z_]+)\((.*)\)$`)
	legacyPattern     = regexp.MustCompile(`^([a-z_]+)(\d+)$`)
)

// defaultPeriods covers the semantic names that carry an implicit default
// period when given without digits or arguments (e.g. "fast_ema", "atr").
var defaultPeriods = map[string]int{
	"fast_ema":  20,
	"slow_ema":  50,
	"atr":       14,
	"rsi":       14,
	"stoch_rsi": 14,
}

// ParseSpec parses one indicator spec string into (name, parameters) under
// the two accepted syntaxes:
//   - legacy shorthand: "ema20" -> name="ema", params={"period": 20}
//   - functional: "zscore(20)" or "zscore(period=20, column=close)"
//
// Bare semantic names without digits or parentheses (e.g. "fast_ema") fall
// back to their documented defaults.
func ParseSpec(raw string) Spec {
	s := strings.ToLower(strings.TrimSpace(raw))

	if m := functionalPattern.FindStringSubmatch(s); m != nil {
		name := m[1]
		params := map[string]any{}
		argsStr := strings.TrimSpace(m[2])
		if argsStr != "" {
			parts := strings.Split(argsStr, ",")
			for i, part := range parts {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if eq := strings.Index(part, "="); eq >= 0 {
					key := strings.TrimSpace(part[:eq])
					val := strings.TrimSpace(part[eq+1:])
					params[key] = parseValue(val)
				} else if i == 0 {
					params["period"] = parseValue(part)
				}
			}
		}
		return Spec{Raw: raw, Name: name, Params: params}
	}

	if m := legacyPattern.FindStringSubmatch(s); m != nil {
		period, _ := strconv.Atoi(m[2])
		return Spec{Raw: raw, Name: m[1], Params: map[string]any{"period": period}}
	}

	if period, ok := defaultPeriods[s]; ok {
		return Spec{Raw: raw, Name: s, Params: map[string]any{"period": period}}
	}

	return Spec{Raw: raw, Name: s, Params: map[string]any{}}
}

func parseValue(s string) any {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}

func intParam(params map[string]any, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	default:
		return fallback
	}
}

func stringParam(params map[string]any, key, fallback string) string {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
