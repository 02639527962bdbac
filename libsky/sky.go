package libsky

import (
	"compgraph/libio"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mean distance between earth and sun in meters
const SunDistance = 149600000e3

type CubeMapFace int

const (
	CubeMapPositiveX = CubeMapFace(iota)
	CubeMapNegativeX
	CubeMapPositiveY
	CubeMapNegativeY
	CubeMapPositiveZ
	CubeMapNegativeZ
)

// Single scattering atmosphere, distances are in meters
type SkyParams struct {
	SunPosition      mgl32.Vec3 `yaml:"sun"`
	Intensity        float32    `yaml:"intensity"`
	ViewSteps        int        `yaml:"view_steps"`
	LightSteps       int        `yaml:"light_steps"`
	PlanetRadius     float32    `yaml:"planet_radius"`
	AtmosphereRadius float32    `yaml:"atmosphere_radius"`
	// Height of the viewer above the ground
	Altitude        float32    `yaml:"altitude"`
	RayleighScatter mgl32.Vec3 `yaml:"rayleigh_scatter"`
	MieScatter      float32    `yaml:"mie_scatter"`
	RayleighScale   float32    `yaml:"rayleigh_scale"`
	MieScale        float32    `yaml:"mie_scale"`
	// Preferred mie scattering direction, the g of the phase function
	MieDirection float32 `yaml:"mie_direction"`
}

// Time of day of DefaultParams
const DefaultTimeOfDay = 0.5

func DefaultParams() SkyParams {
	return SkyParams{
		SunPosition:      SunAt(DefaultTimeOfDay),
		Intensity:        15,
		ViewSteps:        50,
		LightSteps:       15,
		PlanetRadius:     6371e3,
		AtmosphereRadius: 6471e3,
		Altitude:         1e3,
		RayleighScatter:  mgl32.Vec3{5.5e-6, 13.0e-6, 22.4e-6},
		MieScatter:       21e-6,
		RayleighScale:    8e3,
		MieScale:         1.2e3,
		MieDirection:     0.758,
	}
}

// Sun position for a time of day in [0, 1), the sun rises in +Z and sets in -Z
func SunAt(t float32) mgl32.Vec3 {
	sin, cos := math32.Sincos(t * 2 * math32.Pi)
	return mgl32.Vec3{0, sin, cos}.Mul(SunDistance)
}

type Generator interface {
	Generate(params SkyParams, size int) (*Cubemap, error)
	Release()
}

// Six square RGB float faces in the order +X -X +Y -Y +Z -Z
type Cubemap struct {
	Faces [6][]float32
	Size  int
	data  []float32
}

func NewCubemap(data []float32, size int) *Cubemap {
	o := size * size * 3
	if data == nil {
		data = make([]float32, 6*o)
	}
	cm := &Cubemap{Size: size, data: data}
	for i := range cm.Faces {
		cm.Faces[i] = data[i*o : (i+1)*o : (i+1)*o]
	}
	return cm
}

// All faces back to back
func (cm *Cubemap) Concat() []float32 {
	return cm.data
}

func (cm *Cubemap) At(face CubeMapFace, x, y int) mgl32.Vec3 {
	i := (y*cm.Size + x) * 3
	f := cm.Faces[face]
	return mgl32.Vec3{f[i], f[i+1], f[i+2]}
}

// Unnormalized direction through a face, u and v are in [-1, 1] and v points down.
//
// Cube map face reference: https://www.khronos.org/opengl/wiki_opengl/images/CubeMapAxes.png
func Direction(face CubeMapFace, u, v float32) mgl32.Vec3 {
	switch face {
	case CubeMapPositiveX:
		return mgl32.Vec3{1, -v, -u}
	case CubeMapNegativeX:
		return mgl32.Vec3{-1, -v, u}
	case CubeMapPositiveY:
		return mgl32.Vec3{u, 1, v}
	case CubeMapNegativeY:
		return mgl32.Vec3{u, -1, -v}
	case CubeMapPositiveZ:
		return mgl32.Vec3{u, -v, 1}
	default:
		return mgl32.Vec3{-u, -v, -1}
	}
}

// Direction through the center of a pixel
func PixelDirection(face CubeMapFace, x, y, size int) mgl32.Vec3 {
	// (2x+1)/r - 1 maps pixel indices to their centers in [-1, 1]
	u := (2*float32(x)+1)/float32(size) - 1
	v := (2*float32(y)+1)/float32(size) - 1
	return Direction(face, u, v)
}

// Face order of the unfolded cross, columns and rows in face units
var crossLayout = [6][2]int{
	CubeMapPositiveX: {2, 1},
	CubeMapNegativeX: {0, 1},
	CubeMapPositiveY: {1, 0},
	CubeMapNegativeY: {1, 2},
	CubeMapPositiveZ: {1, 1},
	CubeMapNegativeZ: {3, 1},
}

// Unfolds the faces into a horizontal cross, 4 by 3 faces.
// Faces are stored top row first, the cross follows the libio bottom left origin. Unused areas are black.
func (cm *Cubemap) Cross() *libio.FloatImage {
	s := cm.Size
	img := libio.NewFloatImage(nil, 3, 4*s, 3*s)
	for face, cell := range crossLayout {
		for y := 0; y < s; y++ {
			src := cm.Faces[face][y*s*3 : (y+1)*s*3]
			row := img.Height - 1 - (cell[1]*s + y)
			dst := img.Pix[(row*img.Width+cell[0]*s)*3:]
			copy(dst[:s*3], src)
		}
	}
	return img
}
