package libscn_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"compgraph/libscn"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	offset int
	data   []byte
}

func (w *recordingWriter) WriteBytes(offset int, data []byte) {
	w.offset = offset
	w.data = append([]byte(nil), data...)
}

func floatAt(data []byte, index int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[index*4:]))
}

func TestLayoutSizes(t *testing.T) {
	assert.Equal(t, 64, libscn.MaterialSize)
	assert.Equal(t, 80, libscn.SphereSize)
	assert.Equal(t, 96, libscn.CuboidSize)
	assert.Equal(t, 256*80+64*96, libscn.GameObjectsSize)
	assert.Equal(t, 0, libscn.SphereOffset(0))
	assert.Equal(t, 160, libscn.SphereOffset(2))
	assert.Equal(t, 256*80+96, libscn.CuboidOffset(1))
}

func TestZeroMaterial(t *testing.T) {
	m := libscn.ZeroMaterial()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Albedo)
	assert.Equal(t, float32(1), m.IOR)
	assert.Equal(t, mgl32.Vec3{}, m.Emissive)
}

func TestMaterialNormalize(t *testing.T) {
	m := libscn.Material{
		SpecularChance:    0.8,
		RefractionChance:  0.6,
		SpecularRoughness: 2,
		IOR:               0,
	}
	m.Normalize()
	assert.Equal(t, float32(1), m.IOR)
	assert.Equal(t, float32(0.8), m.SpecularChance)
	assert.InDelta(t, 0.2, m.RefractionChance, 1e-6)
	assert.Equal(t, float32(1), m.SpecularRoughness)
}

func TestMaterialPack(t *testing.T) {
	m := libscn.Material{
		Albedo:              mgl32.Vec3{0.1, 0.2, 0.3},
		Emissive:            mgl32.Vec3{4, 5, 6},
		AbsorbanceColor:     mgl32.Vec3{7, 8, 9},
		SpecularChance:      0.25,
		SpecularRoughness:   0.5,
		IOR:                 1.5,
		RefractionChance:    0.125,
		RefractionRoughness: 0.75,
	}
	packed := m.Pack()
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 0.25}, packed[0])
	assert.Equal(t, mgl32.Vec4{4, 5, 6, 0.5}, packed[1])
	assert.Equal(t, mgl32.Vec4{7, 8, 9, 0.125}, packed[2])
	assert.Equal(t, mgl32.Vec4{0.75, 1.5, 0, 0}, packed[3])
}

func TestRandomMaterialRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	emissive := 0
	const n = 2000
	for i := 0; i < n; i++ {
		m := libscn.RandomMaterial(rng)
		if m.SpecularChance+m.RefractionChance > 1 {
			t.Errorf("chance sum should be at most 1 but is %v", m.SpecularChance+m.RefractionChance)
		}
		if m.IOR < 1 || m.IOR > 2 {
			t.Errorf("ior should be in [1, 2] but is %v", m.IOR)
		}
		if m.Emissive != (mgl32.Vec3{}) {
			emissive++
		}
	}
	ratio := float64(emissive) / n
	assert.InDelta(t, 0.2, ratio, 0.04)
}

func TestSpherePack(t *testing.T) {
	s := libscn.Sphere{Position: mgl32.Vec3{1, 2, 3}, Radius: 0.5, Material: libscn.ZeroMaterial()}
	packed := s.Pack()
	assert.Len(t, packed, 5)
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 0.5}, packed[0])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 0}, packed[1])
}

func TestCuboidBounds(t *testing.T) {
	c := libscn.Cuboid{Position: mgl32.Vec3{0, 2.5, 0}, Dimensions: mgl32.Vec3{0.5, 5, 0.5}}
	assert.Equal(t, mgl32.Vec3{-0.25, 0, -0.25}, c.Min())
	assert.Equal(t, mgl32.Vec3{0.25, 5, 0.25}, c.Max())
	packed := c.Pack()
	assert.Len(t, packed, 6)
	assert.Equal(t, mgl32.Vec4{-0.25, 0, -0.25, 0}, packed[0])
	assert.Equal(t, mgl32.Vec4{0.25, 5, 0.25, 0}, packed[1])
}

func TestObjectSetLimits(t *testing.T) {
	set := &libscn.ObjectSet{}
	for i := 0; i < libscn.MaxSpheres; i++ {
		idx, err := set.AddSphere(libscn.Sphere{Radius: 1})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	_, err := set.AddSphere(libscn.Sphere{Radius: 1})
	assert.ErrorIs(t, err, libscn.ErrTooManyObjects)

	for i := 0; i < libscn.MaxCuboids; i++ {
		_, err := set.AddCuboid(libscn.Cuboid{})
		require.NoError(t, err)
	}
	_, err = set.AddCuboid(libscn.Cuboid{})
	assert.ErrorIs(t, err, libscn.ErrTooManyObjects)

	set.Clear()
	assert.Equal(t, mgl32.Vec2{0, 0}, set.Counts())
}

func TestObjectSetNormalizesOnAdd(t *testing.T) {
	set := &libscn.ObjectSet{}
	_, err := set.AddSphere(libscn.Sphere{Radius: 1, Material: libscn.Material{IOR: 0.2}})
	require.NoError(t, err)
	assert.Equal(t, float32(1), set.Spheres[0].Material.IOR)
}

func TestObjectSetPack(t *testing.T) {
	set := &libscn.ObjectSet{}
	_, err := set.AddSphere(libscn.Sphere{Position: mgl32.Vec3{4, 6, 0}, Radius: 0.5, Material: libscn.LightMaterial(10)})
	require.NoError(t, err)
	_, err = set.AddCuboid(libscn.Cuboid{Dimensions: mgl32.Vec3{10, 0.1, 10}, Material: libscn.ZeroMaterial()})
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{1, 1}, set.Counts())

	data, err := set.Pack()
	require.NoError(t, err)
	require.Len(t, data, libscn.GameObjectsSize)

	assert.Equal(t, float32(4), floatAt(data, 0))
	assert.Equal(t, float32(0.5), floatAt(data, 3))
	// emissive of the sphere material
	assert.Equal(t, float32(10), floatAt(data, 8))
	// second sphere slot is empty
	assert.True(t, bytes.Equal(data[libscn.SphereOffset(1):libscn.SphereOffset(2)], make([]byte, libscn.SphereSize)))

	cuboid := libscn.CuboidOffset(0) / 4
	assert.Equal(t, float32(-5), floatAt(data, cuboid))
	assert.Equal(t, float32(5), floatAt(data, cuboid+4))
}

func TestUploadSingleObject(t *testing.T) {
	set := &libscn.ObjectSet{}
	for i := 0; i < 3; i++ {
		_, err := set.AddCuboid(libscn.Cuboid{Position: mgl32.Vec3{float32(i), 0, 0}})
		require.NoError(t, err)
	}
	w := &recordingWriter{}
	require.NoError(t, set.UploadCuboid(w, 2))
	assert.Equal(t, libscn.CuboidOffset(2), w.offset)
	assert.Len(t, w.data, libscn.CuboidSize)
	assert.Equal(t, float32(2), floatAt(w.data, 0))

	assert.Error(t, set.UploadSphere(w, 0))
	assert.Error(t, set.UploadCuboid(w, 3))

	require.NoError(t, set.Upload(w))
	assert.Equal(t, 0, w.offset)
	assert.Len(t, w.data, libscn.GameObjectsSize)
}
