package libutil_test

import (
	"math/rand"
	"testing"

	"compgraph/libutil"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestHsl2rgb(t *testing.T) {
	tests := []struct {
		hsl, rgb mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 0.5}, mgl32.Vec3{0.5, 0.5, 0.5}},
		{mgl32.Vec3{0, 1, 0.5}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{1. / 3., 1, 0.5}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{2. / 3., 1, 0.5}, mgl32.Vec3{0, 0, 1}},
	}
	for _, test := range tests {
		rgb := libutil.Hsl2rgb(test.hsl)
		assert.InDeltaSlice(t, test.rgb[:], rgb[:], 1e-5, "hsl %v", test.hsl)
	}
}

func TestPerpendicular(t *testing.T) {
	for _, v := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 2, 3}, {-0.5, 0.1, 0}} {
		p := libutil.Perpendicular(v)
		assert.InDelta(t, 0, p.Dot(v), 1e-5, "vector %v", v)
		assert.Greater(t, p.Len(), float32(0), "vector %v", v)
	}
}

func TestRandomColor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		c := libutil.RandomColor(rng)
		for ch := range c {
			assert.GreaterOrEqual(t, c[ch], float32(0))
			assert.LessOrEqual(t, c[ch], float32(1))
		}
	}
}

func TestDeleterFunc(t *testing.T) {
	called := 0
	var d libutil.Deleter = libutil.DeleterFunc(func() { called++ })
	d.Delete()
	assert.Equal(t, 1, called)
}
