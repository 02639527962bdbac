package libtrace_test

import (
	"testing"

	"compgraph/libtrace"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAccumulatorCounts(t *testing.T) {
	var acc libtrace.Accumulator
	for i := 0; i < 4; i++ {
		if frame := acc.Next(); frame != i {
			t.Errorf("frame should be %v but is %v", i, frame)
		}
	}
	assert.Equal(t, 4, acc.Frame())
	assert.Equal(t, 20, acc.Samples(libtrace.DefaultSettings()))

	acc.Reset()
	assert.Equal(t, 0, acc.Frame())
	assert.Equal(t, 0, acc.Next())
	assert.Equal(t, 1, acc.Resets())
}

func TestAccumulatorObserve(t *testing.T) {
	var acc libtrace.Accumulator
	camera := libtrace.NewCameraBlock(libtrace.Projection(libtrace.Fov, 4, 3), mgl32.Ident4(), mgl32.Vec3{})

	assert.True(t, acc.Observe(camera), "first camera should reset")
	acc.Next()
	acc.Next()
	assert.False(t, acc.Observe(camera), "same camera should not reset")
	assert.Equal(t, 2, acc.Frame())

	camera.CamPos[0] += 0.001
	assert.True(t, acc.Observe(camera), "moved camera should reset")
	assert.Equal(t, 0, acc.Frame())

	resized := libtrace.NewCameraBlock(libtrace.Projection(libtrace.Fov, 5, 3), mgl32.Ident4(), mgl32.Vec3{0.001, 0, 0})
	assert.True(t, acc.Observe(resized), "new aspect ratio should reset")
}
