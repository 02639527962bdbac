package libtrace_test

import (
	"math"
	"testing"
	"unsafe"

	"compgraph/libtrace"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraBlockLayout(t *testing.T) {
	var block libtrace.CameraBlock
	assert.Equal(t, 144, libtrace.CameraBlockSize)
	assert.Equal(t, uintptr(0), unsafe.Offsetof(block.InvProjection))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(block.InvView))
	assert.Equal(t, uintptr(128), unsafe.Offsetof(block.CamPos))
}

func TestNewCameraBlock(t *testing.T) {
	proj := libtrace.Projection(libtrace.Fov, 800, 600)
	view := mgl32.LookAtV(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0})
	block := libtrace.NewCameraBlock(proj, view, mgl32.Vec3{0, 1, 0})

	ident := mgl32.Ident4()
	invProj, invView := block.InvProjection.Mul4(proj), block.InvView.Mul4(view)
	assert.InDeltaSlice(t, ident[:], invProj[:], 1e-4)
	assert.InDeltaSlice(t, ident[:], invView[:], 1e-4)
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, block.CamPos)

	// the inverse view maps the eye space origin onto the camera position
	eye := block.InvView.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, eye[1], 1e-5)
}

func TestProjectionFov(t *testing.T) {
	wide := libtrace.Projection(libtrace.Fov, 800, 600)
	narrow := libtrace.Projection(40, 800, 600)
	// a smaller fov magnifies
	assert.Greater(t, narrow[5], wide[5])
	assert.InDelta(t, 1/math.Tan(float64(mgl32.DegToRad(40))/2), narrow[5], 1e-4)
}

func TestProjectionZeroHeight(t *testing.T) {
	proj := libtrace.Projection(libtrace.Fov, 100, 0)
	for _, v := range proj {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("projection should be finite but is %v", proj)
		}
	}
}
