package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrend_StableUptrendIsUp(t *testing.T) {
	n := 60
	fast := make([]float64, n)
	slow := make([]float64, n)
	for i := range fast {
		fast[i] = 1.2
		slow[i] = 1.1
	}
	states := classifyTrend(fast, slow, 3)
	assert.Equal(t, TrendUp, states[n-1])
}

func TestClassifyTrend_FrequentFlipsBecomeRange(t *testing.T) {
	n := 60
	fast := make([]float64, n)
	slow := make([]float64, n)
	for i := range fast {
		slow[i] = 1.0
		if i%2 == 0 {
			fast[i] = 1.1
		} else {
			fast[i] = 0.9
		}
	}
	states := classifyTrend(fast, slow, 3)
	assert.Equal(t, TrendRange, states[n-1])
}
