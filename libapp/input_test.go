package libapp_test

import (
	"testing"

	"compgraph/libapp"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type fakeWindow struct {
	cursor  [2]float64
	keys    map[glfw.Key]bool
	buttons map[glfw.MouseButton]bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{keys: map[glfw.Key]bool{}, buttons: map[glfw.MouseButton]bool{}}
}

func (w *fakeWindow) GetCursorPos() (x, y float64) {
	return w.cursor[0], w.cursor[1]
}

func (w *fakeWindow) GetKey(key glfw.Key) glfw.Action {
	if w.keys[key] {
		return glfw.Press
	}
	return glfw.Release
}

func (w *fakeWindow) GetMouseButton(button glfw.MouseButton) glfw.Action {
	if w.buttons[button] {
		return glfw.Press
	}
	return glfw.Release
}

type fakeClock float64

func (c *fakeClock) now() float64 {
	return float64(*c)
}

func TestInputTaps(t *testing.T) {
	win := newFakeWindow()
	clock := fakeClock(0)
	input := libapp.NewInputManagerFrom(win, clock.now)

	win.keys[glfw.KeyR] = true
	win.buttons[glfw.MouseButtonLeft] = true
	input.Update()
	assert.True(t, input.IsKeyDown(glfw.KeyR))
	assert.True(t, input.IsKeyTap(glfw.KeyR))
	assert.True(t, input.IsMouseTap(glfw.MouseButtonLeft))

	input.Update()
	assert.True(t, input.IsKeyDown(glfw.KeyR))
	assert.False(t, input.IsKeyTap(glfw.KeyR), "held key should not tap again")
	assert.True(t, input.IsMouseDown(glfw.MouseButtonLeft))
	assert.False(t, input.IsMouseTap(glfw.MouseButtonLeft))

	win.keys[glfw.KeyR] = false
	input.Update()
	assert.False(t, input.IsKeyDown(glfw.KeyR))
	assert.False(t, input.IsKeyDown(glfw.KeyUnknown))
}

func TestInputDeltas(t *testing.T) {
	win := newFakeWindow()
	win.cursor = [2]float64{10, 20}
	clock := fakeClock(1)
	input := libapp.NewInputManagerFrom(win, clock.now)

	if dt := input.TimeDelta(); dt <= 0 {
		t.Errorf("initial time delta should be positive but is %v", dt)
	}
	assert.Equal(t, mgl32.Vec2{}, input.CursorDelta())

	win.cursor = [2]float64{13, 16}
	clock = 1.5
	input.AddScroll(0, 1)
	input.AddScroll(0, 2)
	input.Update()
	assert.Equal(t, mgl32.Vec2{3, -4}, input.CursorDelta())
	assert.Equal(t, mgl32.Vec2{13, 16}, input.CursorPos())
	assert.InDelta(t, 0.5, input.TimeDelta(), 1e-6)
	assert.Equal(t, mgl32.Vec2{0, 3}, input.ScrollDelta())

	input.Update()
	assert.Equal(t, mgl32.Vec2{}, input.ScrollDelta(), "scroll should only last one update")
}

func TestInputMovement(t *testing.T) {
	win := newFakeWindow()
	clock := fakeClock(0)
	input := libapp.NewInputManagerFrom(win, clock.now)

	win.keys[glfw.KeyW] = true
	win.keys[glfw.KeyD] = true
	win.keys[glfw.KeySpace] = true
	input.Update()
	movement := input.GetMovement(glfw.KeyW, glfw.KeyS, glfw.KeyA, glfw.KeyD, glfw.KeySpace, glfw.KeyLeftShift)
	assert.Equal(t, mgl32.Vec3{1, 1, -1}, movement)

	win.keys[glfw.KeyS] = true
	input.Update()
	movement = input.GetMovement(glfw.KeyW, glfw.KeyS, glfw.KeyA, glfw.KeyD, 0, 0)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, movement)
}
