package libscn

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Radians per animation tick
const OrbitStep = 0.005

// Places a polygon built around the origin on a circle around anchor.
// The orbit radius is the distance of anchor from the origin and the
// polygon spins with the same angular speed as it orbits.
func OrbitOffset(anchor mgl32.Vec2, tick int) mgl32.Mat4 {
	angle := OrbitStep * float32(tick)
	radius := anchor.Len()
	sin, cos := math32.Sincos(angle)
	center := anchor.Add(mgl32.Vec2{radius * cos, radius * sin})
	return mgl32.Translate3D(center[0], center[1], 0).Mul4(mgl32.HomogRotate3DZ(angle))
}

// Sine wave from the left edge of the screen
func WaveOffset(tick int) mgl32.Vec3 {
	t := float32(tick)
	return mgl32.Vec3{-1 + 0.005*t, 0.5 * math32.Sin(0.05*t), 0}
}
