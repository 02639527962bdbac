package libtrace_test

import (
	"testing"

	"compgraph/libtrace"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBloomLevels(t *testing.T) {
	tests := []struct {
		levels, width, height int
		want                  int
	}{
		{6, 1920, 1080, 6},
		{6, 64, 32, 6},
		{6, 16, 16, 4},
		{6, 2, 2, 1},
		{6, 1, 1, 1},
		{0, 800, 600, 1},
	}
	for _, test := range tests {
		got := libtrace.BloomLevels(test.levels, test.width, test.height)
		if got != test.want {
			t.Errorf("levels for %dx%d should be %v but is %v", test.width, test.height, test.want, got)
		}
	}
}

func TestUpFactors(t *testing.T) {
	factors := []float32{1, 0.8, 0.6, 0.4}
	assert.Equal(t, mgl32.Vec2{0.4, 0.6}, libtrace.UpFactors(factors, 3))
	assert.Equal(t, mgl32.Vec2{1, 0.8}, libtrace.UpFactors(factors, 2))
	assert.Equal(t, mgl32.Vec2{1, 1}, libtrace.UpFactors(factors, 1))
	assert.Equal(t, mgl32.Vec2{1, 0}, libtrace.UpFactors(factors, 0))
}

func TestThresholdCurve(t *testing.T) {
	curve := libtrace.ThresholdCurve(2, 0.5)
	assert.InDelta(t, 2, curve[0], 1e-6)
	assert.InDelta(t, 1, curve[1], 1e-4)
	assert.InDelta(t, 2, curve[2], 1e-4)
	assert.InDelta(t, 0.25, curve[3], 1e-4)
}
