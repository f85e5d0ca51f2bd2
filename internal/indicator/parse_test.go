package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpec_LegacyShorthand(t *testing.T) {
	s := ParseSpec("ema20")
	assert.Equal(t, "ema", s.Name)
	assert.Equal(t, 20, intParam(s.Params, "period", 0))
}

func TestParseSpec_Functional(t *testing.T) {
	s := ParseSpec("zscore(period=20, column=close)")
	assert.Equal(t, "zscore", s.Name)
	assert.Equal(t, 20, intParam(s.Params, "period", 0))
	assert.Equal(t, "close", stringParam(s.Params, "column", ""))
}

func TestParseSpec_FunctionalPositionalArg(t *testing.T) {
	s := ParseSpec("sma(10)")
	assert.Equal(t, "sma", s.Name)
	assert.Equal(t, 10, intParam(s.Params, "period", 0))
}

func TestParseSpec_BareSemanticDefault(t *testing.T) {
	s := ParseSpec("fast_ema")
	assert.Equal(t, "fast_ema", s.Name)
	assert.Equal(t, 20, intParam(s.Params, "period", 0))

	s = ParseSpec("slow_ema")
	assert.Equal(t, 50, intParam(s.Params, "period", 0))

	s = ParseSpec("atr")
	assert.Equal(t, 14, intParam(s.Params, "period", 0))
}

func TestParseSpec_UnknownNameHasNoPeriod(t *testing.T) {
	s := ParseSpec("bollinger")
	assert.Equal(t, "bollinger", s.Name)
	assert.Equal(t, 0, intParam(s.Params, "period", 0))
}
