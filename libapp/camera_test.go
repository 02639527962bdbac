package libapp_test

import (
	"testing"

	"compgraph/libapp"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVecClose(t *testing.T, want, is mgl32.Vec3) {
	t.Helper()
	for c := range want {
		if math32.Abs(want[c]-is[c]) > 1e-4 {
			t.Errorf("vector should be %v but is %v", want, is)
			return
		}
	}
}

func TestCameraFront(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 45)
	assertVecClose(t, mgl32.Vec3{0, 0, -1}, cam.Front())
	assertVecClose(t, mgl32.Vec3{1, 0, 0}, cam.Right())

	cam.Yaw = 0
	assertVecClose(t, mgl32.Vec3{1, 0, 0}, cam.Front())

	cam.SetPitch(90)
	assert.InDelta(t, 89.999, cam.Pitch, 1e-4)
	assert.Greater(t, cam.Front()[1], float32(0.99))
}

func TestCameraLook(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 45)
	cam.Look(mgl32.Vec2{10, 5})
	assert.InDelta(t, -88, cam.Yaw, 1e-4)
	assert.InDelta(t, -1, cam.Pitch, 1e-4)

	cam.Look(mgl32.Vec2{0, -10000})
	assert.InDelta(t, libapp.MaxPitch, cam.Pitch, 1e-4)
}

func TestCameraZoom(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 45)
	cam.Zoom(5)
	assert.Equal(t, float32(40), cam.Fov)
	cam.Zoom(100)
	assert.Equal(t, float32(libapp.MinFov), cam.Fov)
	cam.Zoom(-200)
	assert.Equal(t, float32(libapp.MaxFov), cam.Fov)
}

func TestCameraFovLimit(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 100)
	assert.Equal(t, float32(libapp.MaxFov), cam.Fov)

	cam.FovLimit = 120
	cam.SetFov(100)
	assert.Equal(t, float32(100), cam.Fov)
	cam.Zoom(10)
	assert.Equal(t, float32(90), cam.Fov)
	cam.Zoom(-50)
	assert.Equal(t, float32(120), cam.Fov)
}

func TestCameraMove(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 45)
	assert.False(t, cam.Move(mgl32.Vec3{}, 1))

	assert.True(t, cam.Move(mgl32.Vec3{0, 0, -1}, 2))
	assertVecClose(t, mgl32.Vec3{0, 0, -3}, cam.Position)

	// diagonal movement is not faster
	cam.Position = mgl32.Vec3{}
	cam.Move(mgl32.Vec3{1, 0, -1}, 1)
	assert.InDelta(t, 1.5, cam.Position.Len(), 1e-5)
}

func TestCameraDamped(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 45)
	cam.Damped = true

	dt := float32(1. / 60.)
	for i := 0; i < 10; i++ {
		cam.Move(mgl32.Vec3{0, 0, -1}, dt)
	}
	stop := cam.Position
	assert.Less(t, stop[2], float32(0))

	// keeps gliding forward after the key is released
	assert.True(t, cam.Move(mgl32.Vec3{}, dt))
	assert.Less(t, cam.Position[2], stop[2])

	for i := 0; i < 2000; i++ {
		cam.Move(mgl32.Vec3{}, dt)
	}
	assert.Equal(t, mgl32.Vec3{}, cam.Velocity)
	assert.False(t, cam.Move(mgl32.Vec3{}, dt))
}

func TestCameraMatrices(t *testing.T) {
	cam := libapp.NewCamera(mgl32.Vec3{1, 2, 3}, -90, 0, 60)
	cam.SetViewport(800, 400)
	assert.Equal(t, float32(2), cam.Aspect)

	want := mgl32.LookAtV(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 2}, mgl32.Vec3{0, 1, 0})
	view, ident := cam.View(), mgl32.Ident4()
	assert.InDeltaSlice(t, want[:], view[:], 1e-5)
	invView := cam.InvView().Mul4(cam.View())
	assert.InDeltaSlice(t, ident[:], invView[:], 1e-4)
	invProj := cam.InvProjection().Mul4(cam.Projection())
	assert.InDeltaSlice(t, ident[:], invProj[:], 1e-4)

	eye := cam.InvView().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVecClose(t, cam.Position, eye.Vec3())
}

func TestCameraUpdate(t *testing.T) {
	win := newFakeWindow()
	clock := fakeClock(0)
	input := libapp.NewInputManagerFrom(win, clock.now)
	cam := libapp.NewCamera(mgl32.Vec3{}, -90, 0, 45)

	input.Update()
	assert.False(t, cam.Update(input, true))

	win.cursor = [2]float64{5, 0}
	input.Update()
	assert.False(t, cam.Update(input, false), "cursor should be ignored without look")
	win.cursor = [2]float64{10, 0}
	input.Update()
	assert.True(t, cam.Update(input, true))
	assert.InDelta(t, -89, cam.Yaw, 1e-4)

	win.keys[glfw.KeyW] = true
	clock = 1
	input.Update()
	assert.True(t, cam.Update(input, true))
	assert.Less(t, cam.Position[2], float32(0))
}
