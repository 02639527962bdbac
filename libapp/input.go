package libapp

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type InputManager interface {
	CursorDelta() mgl32.Vec2
	CursorPos() mgl32.Vec2
	// Wheel movement since the previous update
	ScrollDelta() mgl32.Vec2
	TimeDelta() float32
	IsKeyDown(key glfw.Key) bool
	IsMouseDown(button glfw.MouseButton) bool
	IsKeyTap(key glfw.Key) bool
	IsMouseTap(button glfw.MouseButton) bool
	Update()
	// Unit axes in camera space, forward is -z
	GetMovement(forward, backward, left, right, up, down glfw.Key) mgl32.Vec3
}

// The parts of a glfw.Window that are polled every update
type inputSource interface {
	GetCursorPos() (x, y float64)
	GetKey(key glfw.Key) glfw.Action
	GetMouseButton(button glfw.MouseButton) glfw.Action
}

type inputManager struct {
	src    inputSource
	clock  func() float64
	curr   inputState
	prev   inputState
	scroll mgl32.Vec2
}

type inputState struct {
	time         float32
	cursorPos    mgl32.Vec2
	scroll       mgl32.Vec2
	keys         []bool
	mousebuttons []bool
}

func newInputState() inputState {
	return inputState{
		keys:         make([]bool, glfw.KeyLast+1),
		mousebuttons: make([]bool, glfw.MouseButtonLast+1),
	}
}

// Polls the window and collects its scroll events
func NewInputManager(win *glfw.Window) InputManager {
	i := newInputManager(win, glfw.GetTime)
	prev := win.SetScrollCallback(nil)
	win.SetScrollCallback(func(w *glfw.Window, x, y float64) {
		i.addScroll(float32(x), float32(y))
		if prev != nil {
			prev(w, x, y)
		}
	})
	return i
}

func newInputManager(src inputSource, clock func() float64) *inputManager {
	i := &inputManager{
		src:   src,
		clock: clock,
		curr:  newInputState(),
		prev:  newInputState(),
	}

	i.Update()
	i.prev.cursorPos = i.curr.cursorPos
	// keeps the first time delta above zero
	i.prev.time = i.curr.time - 1./60.
	copy(i.prev.keys, i.curr.keys)
	copy(i.prev.mousebuttons, i.curr.mousebuttons)

	return i
}

func (i *inputManager) addScroll(x, y float32) {
	i.scroll = i.scroll.Add(mgl32.Vec2{x, y})
}

func (i *inputManager) CursorDelta() mgl32.Vec2 {
	return i.curr.cursorPos.Sub(i.prev.cursorPos)
}

func (i *inputManager) CursorPos() mgl32.Vec2 {
	return i.curr.cursorPos
}

func (i *inputManager) ScrollDelta() mgl32.Vec2 {
	return i.curr.scroll
}

func (i *inputManager) TimeDelta() float32 {
	return i.curr.time - i.prev.time
}

func (i *inputManager) IsKeyDown(key glfw.Key) bool {
	return key >= 0 && i.curr.keys[key]
}

func (i *inputManager) IsKeyTap(key glfw.Key) bool {
	return key >= 0 && i.curr.keys[key] && !i.prev.keys[key]
}

func (i *inputManager) IsMouseDown(button glfw.MouseButton) bool {
	return i.curr.mousebuttons[button]
}

func (i *inputManager) IsMouseTap(button glfw.MouseButton) bool {
	return i.curr.mousebuttons[button] && !i.prev.mousebuttons[button]
}

func (i *inputManager) GetMovement(forward, backward, left, right, up, down glfw.Key) mgl32.Vec3 {
	var movement mgl32.Vec3
	axis := func(key glfw.Key, component int, sign float32) {
		if key != 0 && i.IsKeyDown(key) {
			movement[component] += sign
		}
	}
	axis(forward, 2, -1)
	axis(backward, 2, 1)
	axis(left, 0, -1)
	axis(right, 0, 1)
	axis(up, 1, 1)
	axis(down, 1, -1)
	return movement
}

// The previous key slices are reused for the new state
func (i *inputManager) Update() {
	keys := i.prev.keys
	mousebuttons := i.prev.mousebuttons
	i.prev = i.curr
	cursorX, cursorY := i.src.GetCursorPos()

	for key := glfw.KeySpace; key <= glfw.KeyLast; key++ {
		keys[key] = i.src.GetKey(key) != glfw.Release
	}
	for button := glfw.MouseButton(0); button <= glfw.MouseButtonLast; button++ {
		mousebuttons[button] = i.src.GetMouseButton(button) != glfw.Release
	}

	i.curr = inputState{
		time:         float32(i.clock()),
		cursorPos:    mgl32.Vec2{float32(cursorX), float32(cursorY)},
		scroll:       i.scroll,
		keys:         keys,
		mousebuttons: mousebuttons,
	}
	i.scroll = mgl32.Vec2{}
}
