package libscn_test

import (
	"testing"

	"compgraph/libscn"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitOffsetStart(t *testing.T) {
	anchor := mgl32.Vec2{0.5, 0}
	m := libscn.OrbitOffset(anchor, 0)
	center := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1.0, center[0], 1e-6)
	assert.InDelta(t, 0.0, center[1], 1e-6)
}

func TestOrbitOffsetKeepsRadius(t *testing.T) {
	anchor := mgl32.Vec2{-0.3, 0.4}
	for tick := 0; tick < 1500; tick += 100 {
		m := libscn.OrbitOffset(anchor, tick)
		center := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		dist := mgl32.Vec2{center[0], center[1]}.Sub(anchor).Len()
		assert.InDelta(t, 0.5, dist, 1e-5)
	}
}

func TestOrbitOffsetSpins(t *testing.T) {
	tick := 100
	angle := libscn.OrbitStep * float32(tick)
	m := libscn.OrbitOffset(mgl32.Vec2{}, tick)
	dir := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, math32.Cos(angle), dir[0], 1e-6)
	assert.InDelta(t, math32.Sin(angle), dir[1], 1e-6)
}

func TestWaveOffset(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, libscn.WaveOffset(0))
	w := libscn.WaveOffset(200)
	assert.InDelta(t, 0, w[0], 1e-6)
	assert.InDelta(t, 0.5*math32.Sin(10), w[1], 1e-6)
}

func TestOrbitLight(t *testing.T) {
	p := libscn.OrbitLight(0)
	assert.Equal(t, mgl32.Vec3{5, 10, 0}, p)

	quarter := math32.Pi / 2 / libscn.DefaultOrbit.Speed
	p = libscn.OrbitLight(quarter)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 5, p[2], 1e-5)

	// wraps after a full turn
	full := 2 * math32.Pi / libscn.DefaultOrbit.Speed
	a, b := libscn.OrbitLight(1), libscn.OrbitLight(1+full)
	assert.InDeltaSlice(t, a[:], b[:], 1e-4, "%v should equal %v", a, b)
}

func TestPhongMaterial(t *testing.T) {
	metal := libscn.PhongMaterialFor(true)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, metal.Diffuse)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, metal.Specular)
	plain := libscn.PhongMaterialFor(false)
	assert.Equal(t, mgl32.Vec3{}, plain.Specular)
	assert.Equal(t, float32(32), plain.Shininess)

	light := libscn.LightFromColor(mgl32.Vec3{}, mgl32.Vec3{1, 0.5, 0})
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 0}, light.Ambient)
	assert.Equal(t, mgl32.Vec3{0.8, 0.4, 0}, light.Diffuse)
}

func TestModelMatrix(t *testing.T) {
	f := &libscn.Figure{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec3{0, math32.Pi / 2, 0},
	}
	m := f.ModelMatrix()
	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDeltaSlice(t, f.Position[:], origin[:3], 1e-5)
	// +X rotates to -Z around Y
	x := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, 0, x.X(), 1e-5, "%v", x)
	assert.InDelta(t, 0, x.Y(), 1e-5, "%v", x)
	assert.InDelta(t, -1, x.Z(), 1e-5, "%v", x)

	f.Scale = 2
	x = f.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, 2, x.Vec3().Len(), 1e-5)
}

func TestSortByMesh(t *testing.T) {
	figures := []*libscn.Figure{
		{Name: "a", Texture: "metal", Mesh: libscn.MeshLocation{BaseIndex: 64}},
		{Name: "b", Texture: "leather", Mesh: libscn.MeshLocation{BaseIndex: 64}},
		{Name: "c", Texture: "metal", Mesh: libscn.MeshLocation{BaseIndex: 0}},
		{Name: "d", Texture: "leather", Mesh: libscn.MeshLocation{BaseIndex: 64}},
	}
	libscn.SortByMesh(figures)
	var names string
	for _, f := range figures {
		names += f.Name
	}
	assert.Equal(t, "bdca", names)
}
