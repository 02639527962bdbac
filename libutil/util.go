package libutil

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Returned for OpenGL functions the driver does not export, so gl.Init does not fail on them
const InvalidAddress uintptr = 0xffff_ffff_ffff_ffff

type Deleter interface {
	Delete()
}

type DeleterFunc func()

func (fn DeleterFunc) Delete() {
	fn()
}

// Hue, saturation and lightness in [0, 1] to linear rgb
func Hsl2rgb(hsl mgl32.Vec3) mgl32.Vec3 {
	h, s, l := hsl[0], hsl[1], hsl[2]
	chroma := (1 - math32.Abs(2*l-1)) * s
	sector := math32.Mod(h*6, 6)
	if sector < 0 {
		sector += 6
	}
	x := chroma * (1 - math32.Abs(math32.Mod(sector, 2)-1))

	var rgb mgl32.Vec3
	switch int(sector) {
	case 0:
		rgb = mgl32.Vec3{chroma, x, 0}
	case 1:
		rgb = mgl32.Vec3{x, chroma, 0}
	case 2:
		rgb = mgl32.Vec3{0, chroma, x}
	case 3:
		rgb = mgl32.Vec3{0, x, chroma}
	case 4:
		rgb = mgl32.Vec3{x, 0, chroma}
	default:
		rgb = mgl32.Vec3{chroma, 0, x}
	}

	m := l - chroma/2
	return rgb.Add(mgl32.Vec3{m, m, m})
}

// Saturated color with a random hue
func RandomColor(rng *rand.Rand) mgl32.Vec3 {
	return Hsl2rgb(mgl32.Vec3{rng.Float32(), 0.7, 0.55})
}

// Any vector orthogonal to v, crossed with the axis v is least aligned to
func Perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	ax, ay, az := math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])
	if ay < ax && ay <= az {
		axis = mgl32.Vec3{0, 1, 0}
	} else if az < ax && az < ay {
		axis = mgl32.Vec3{0, 0, 1}
	}
	return v.Cross(axis)
}
