package libapp

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	MaxPitch = 89.999
	MinFov   = 1
	MaxFov   = 90
	// Velocity is scaled by this every update in damped mode
	VelocityDamping = 0.95
)

var WorldUp = mgl32.Vec3{0, 1, 0}

// Fly camera with yaw and pitch in degrees, a yaw of -90 looks down -z
type Camera struct {
	Position   mgl32.Vec3
	Yaw, Pitch float32
	Fov        float32
	// Upper bound of Fov, MaxFov unless changed
	FovLimit    float32
	Speed       float32
	Sensitivity float32
	Near, Far   float32
	Aspect      float32
	// Accelerate and glide instead of moving at constant speed
	Damped   bool
	Velocity mgl32.Vec3
	// forward, backward, left, right, up and down
	Keys [6]glfw.Key
}

var DefaultMoveKeys = [6]glfw.Key{glfw.KeyW, glfw.KeyS, glfw.KeyA, glfw.KeyD, glfw.KeySpace, glfw.KeyLeftShift}

func NewCamera(position mgl32.Vec3, yaw, pitch, fov float32) *Camera {
	cam := &Camera{
		Position:    position,
		Yaw:         yaw,
		Fov:         fov,
		FovLimit:    MaxFov,
		Speed:       1.5,
		Sensitivity: 0.2,
		Near:        0.1,
		Far:         100,
		Aspect:      16. / 9.,
		Keys:        DefaultMoveKeys,
	}
	cam.SetPitch(pitch)
	cam.SetFov(fov)
	return cam
}

func (cam *Camera) SetPitch(pitch float32) {
	cam.Pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
}

func (cam *Camera) SetFov(fov float32) {
	limit := cam.FovLimit
	if limit < MinFov {
		limit = MaxFov
	}
	cam.Fov = mgl32.Clamp(fov, MinFov, limit)
}

func (cam *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		cam.Aspect = float32(width) / float32(height)
	}
}

func (cam *Camera) Front() mgl32.Vec3 {
	sinYaw, cosYaw := math32.Sincos(mgl32.DegToRad(cam.Yaw))
	sinPitch, cosPitch := math32.Sincos(mgl32.DegToRad(cam.Pitch))
	return mgl32.Vec3{cosYaw * cosPitch, sinPitch, sinYaw * cosPitch}
}

func (cam *Camera) Right() mgl32.Vec3 {
	return cam.Front().Cross(WorldUp).Normalize()
}

// Mouse look, delta is in screen pixels with y pointing down
func (cam *Camera) Look(delta mgl32.Vec2) {
	cam.Yaw = math32.Mod(cam.Yaw+delta[0]*cam.Sensitivity, 360)
	cam.SetPitch(cam.Pitch - delta[1]*cam.Sensitivity)
}

// Scrolling up zooms in
func (cam *Camera) Zoom(scroll float32) {
	cam.SetFov(cam.Fov - scroll)
}

// Moves along camera space axes, x right, y world up and -z forward.
// Returns whether the position changed.
func (cam *Camera) Move(movement mgl32.Vec3, dt float32) bool {
	front, right := cam.Front(), cam.Right()
	dir := right.Mul(movement[0]).Add(WorldUp.Mul(movement[1])).Sub(front.Mul(movement[2]))
	if dir.LenSqr() > 0 {
		dir = dir.Normalize()
	}

	if !cam.Damped {
		if dir.LenSqr() == 0 {
			return false
		}
		cam.Position = cam.Position.Add(dir.Mul(cam.Speed * dt))
		return true
	}

	accel := dir.Mul(cam.Speed)
	cam.Velocity = cam.Velocity.Add(accel)
	moving := accel.LenSqr() != 0 || cam.Velocity.LenSqr() != 0
	if cam.Velocity.LenSqr() < 0.01 {
		cam.Velocity = mgl32.Vec3{}
	}
	cam.Velocity = cam.Velocity.Mul(VelocityDamping).Add(accel.Mul(dt))
	cam.Position = cam.Position.Add(cam.Velocity.Mul(dt))
	return moving
}

func (cam *Camera) Stop() {
	cam.Velocity = mgl32.Vec3{}
}

// Keys move, the cursor looks around when look is set and the wheel zooms.
// Returns whether the view changed.
func (cam *Camera) Update(input InputManager, look bool) bool {
	changed := false
	if look {
		if delta := input.CursorDelta(); delta.LenSqr() != 0 {
			cam.Look(delta)
			changed = true
		}
	}
	if scroll := input.ScrollDelta(); scroll[1] != 0 {
		cam.Zoom(scroll[1])
		changed = true
	}
	movement := input.GetMovement(cam.Keys[0], cam.Keys[1], cam.Keys[2], cam.Keys[3], cam.Keys[4], cam.Keys[5])
	if cam.Move(movement, input.TimeDelta()) {
		changed = true
	}
	return changed
}

func (cam *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(cam.Position, cam.Position.Add(cam.Front()), WorldUp)
}

func (cam *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(cam.Fov), cam.Aspect, cam.Near, cam.Far)
}

func (cam *Camera) ViewProjection() mgl32.Mat4 {
	return cam.Projection().Mul4(cam.View())
}

func (cam *Camera) InvView() mgl32.Mat4 {
	return cam.View().Inv()
}

func (cam *Camera) InvProjection() mgl32.Mat4 {
	return cam.Projection().Inv()
}
