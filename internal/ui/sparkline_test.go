package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparklineIdle(t *testing.T) {
	assert.Equal(t, "▁▁▁▁", Sparkline([]float64{0, 0, 0, 0}, 4))
}

func TestSparklinePadsLeft(t *testing.T) {
	assert.Equal(t, "   █", Sparkline([]float64{42}, 4))
	assert.Equal(t, "    ", Sparkline(nil, 4))
}

func TestSparklineScalesToWindow(t *testing.T) {
	// Scaling is relative to the window, so a 900..1000 swing uses the
	// full height.
	assert.Equal(t, "▁▅█", Sparkline([]float64{900, 960, 1000}, 3))
}

func TestSparklineFlatThroughput(t *testing.T) {
	assert.Equal(t, "███", Sparkline([]float64{5, 5, 5}, 3))
}

func TestSparklineKeepsNewest(t *testing.T) {
	assert.Equal(t, "▁█", Sparkline([]float64{100, 1, 2}, 2))
}

func TestSparklineZeroWidth(t *testing.T) {
	assert.Empty(t, Sparkline([]float64{1, 2, 3}, 0))
}
