package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeInput_EmptyUsesDefault(t *testing.T) {
	values, isRange, err := ParseRangeInput("", 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{20}, values)
	assert.False(t, isRange)
}

func TestParseRangeInput_SingleValue(t *testing.T) {
	values, isRange, err := ParseRangeInput("15", 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{15}, values)
	assert.False(t, isRange)
}

func TestParseRangeInput_RangeWithStep(t *testing.T) {
	values, isRange, err := ParseRangeInput("10-30 step 5", 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 15, 20, 25, 30}, values)
	assert.True(t, isRange)
}

func TestParseRangeInput_InvalidStepRejected(t *testing.T) {
	_, _, err := ParseRangeInput("10-30 step 0", 20)
	require.Error(t, err)
}

func TestParseRangeInput_StartAfterEndRejected(t *testing.T) {
	_, _, err := ParseRangeInput("30-10 step 5", 20)
	require.Error(t, err)
}

func TestParseRangeInput_GarbageRejected(t *testing.T) {
	_, _, err := ParseRangeInput("not-a-range", 20)
	require.Error(t, err)
}

func TestGenerateCombinations_CartesianProduct(t *testing.T) {
	ranges := []ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{10, 12}},
		{IndicatorName: "slow_ema", ParamName: "period", Values: []float64{26}},
	}
	combos := GenerateCombinations(ranges)
	require.Len(t, combos, 2)
	assert.Equal(t, 10.0, combos[0].Params["fast_ema"]["period"])
	assert.Equal(t, 26.0, combos[0].Params["slow_ema"]["period"])
	assert.Equal(t, 12.0, combos[1].Params["fast_ema"]["period"])
	assert.NotEmpty(t, combos[0].Label)
}

func TestGenerateCombinations_EmptyRangesYieldsNoCombinations(t *testing.T) {
	assert.Empty(t, GenerateCombinations(nil))
}

func TestDefaultEMAConstraint_RejectsFastNotLessThanSlow(t *testing.T) {
	ps := ParameterSet{Params: map[string]map[string]float64{
		"fast_ema": {"period": 30},
		"slow_ema": {"period": 20},
	}}
	assert.False(t, DefaultEMAConstraint(ps))
}

func TestDefaultEMAConstraint_UnconstrainedWhenMissing(t *testing.T) {
	ps := ParameterSet{Params: map[string]map[string]float64{
		"fast_ema": {"period": 10},
	}}
	assert.True(t, DefaultEMAConstraint(ps))
}

func TestFilterInvalidCombinations_DefaultConstraint(t *testing.T) {
	ranges := []ParameterRange{
		{IndicatorName: "fast_ema", ParamName: "period", Values: []float64{10, 30}},
		{IndicatorName: "slow_ema", ParamName: "period", Values: []float64{20}},
	}
	combos := GenerateCombinations(ranges)
	valid, skipped := FilterInvalidCombinations(combos, nil)
	assert.Len(t, valid, 1)
	assert.Equal(t, 1, skipped)
}
