package blackout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindows_NewsOnlyBlocksNFPWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.News.Enabled = true

	windows, err := BuildWindows(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, windows)

	blocked := time.Date(2023, 1, 6, 13, 25, 0, 0, time.UTC)
	passed := time.Date(2023, 1, 6, 14, 30, 0, 0, time.UTC)
	assert.True(t, IsInBlackout(blocked, windows))
	assert.False(t, IsInBlackout(passed, windows))
}

func TestFilter_CountsBlockedAndReturnsSurvivingIndices(t *testing.T) {
	windows := []Window{{
		StartUTC: time.Date(2023, 1, 6, 13, 20, 0, 0, time.UTC),
		EndUTC:   time.Date(2023, 1, 6, 14, 0, 0, 0, time.UTC),
		Source:   SourceNews,
	}}
	timestamps := []time.Time{
		time.Date(2023, 1, 6, 13, 25, 0, 0, time.UTC), // blocked
		time.Date(2023, 1, 6, 14, 30, 0, 0, time.UTC), // passes
		time.Date(2023, 1, 6, 12, 0, 0, 0, time.UTC),  // passes
	}
	indices, blocked := Filter(timestamps, windows)
	assert.Equal(t, []int{1, 2}, indices)
	assert.Equal(t, 1, blocked)
}

func TestBuildWindows_DisabledSourcesProduceNoWindows(t *testing.T) {
	cfg := DefaultConfig()
	windows, err := BuildWindows(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), cfg)
	require.NoError(t, err)
	assert.Empty(t, windows)
}
