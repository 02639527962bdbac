package libtrace_test

import (
	"testing"

	"compgraph/libgl"
	"compgraph/libio"
	"compgraph/libscn"
	"compgraph/libsky"
	"compgraph/libtrace"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathTracerEmitter(t *testing.T) {
	size := 16
	set := &libscn.ObjectSet{}
	_, err := set.AddSphere(libscn.Sphere{
		Position: mgl32.Vec3{0, 0, -5},
		Radius:   1,
		Material: libscn.LightMaterial(10),
	})
	require.NoError(t, err)

	var img *libio.FloatImage
	var frames int
	runOnMain(t, func() {
		var tracer *libtrace.PathTracer
		tracer, err = libtrace.NewPathTracer(size, size, libtrace.DefaultSettings())
		if err != nil {
			return
		}
		defer tracer.Release()

		sky := libsky.UploadCubemap(libsky.NewCubemap(nil, 1))
		defer sky.Delete()
		sampler := libgl.NewSampler()
		defer sampler.Delete()

		if err = tracer.SetObjects(set); err != nil {
			return
		}
		tracer.SetCamera(libtrace.NewCameraBlock(libtrace.Projection(libtrace.Fov, size, size), mgl32.Ident4(), mgl32.Vec3{}))
		for i := 0; i < 3; i++ {
			tracer.Render(sky, sampler)
		}
		frames = tracer.Accumulator.Frame()
		img = tracer.Snapshot()
	})
	require.NoError(t, err)

	assert.Equal(t, 3, frames)
	center := img.Index(size/2, size/2)
	assert.InDelta(t, 10, img.Pix[center], 0.5)
	corner := img.Index(0, 0)
	assert.Equal(t, float32(0), img.Pix[corner])
}

func TestPathTracerResize(t *testing.T) {
	var sameSize, resized, width, height int
	var target uint32
	var err error
	runOnMain(t, func() {
		var tracer *libtrace.PathTracer
		tracer, err = libtrace.NewPathTracer(8, 8, libtrace.DefaultSettings())
		if err != nil {
			return
		}
		defer tracer.Release()

		tracer.Accumulator.Next()
		tracer.Resize(8, 8)
		sameSize = tracer.Accumulator.Frame()

		tracer.Resize(12, 4)
		width, height = tracer.Size()
		resized = tracer.Accumulator.Frame()
		target = tracer.Result().Type()
	})
	require.NoError(t, err)

	assert.Equal(t, 1, sameSize, "same size should keep the average")
	assert.Equal(t, 0, resized)
	assert.Equal(t, 12, width)
	assert.Equal(t, 4, height)
	assert.Equal(t, uint32(gl.TEXTURE_2D), target)
}
