package libscn_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"compgraph/libscn"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringScene = `
name: ring
clear: [0.1, 0.1, 0.1]
camera:
  position: [0, 10, 20]
  fov: 45
light:
  radius: 5
  height: 1
  speed: 0.5
  scale: 0.2
ring:
  radius: 8
  slots: 4
figures:
  - name: first
    shape: sphere
    params: {radius: 1}
  - name: second
    shape: sphere
    params: {radius: 1}
    color: [1, 0, 0]
  - name: third
    shape: cylinder
    params: {top: 0.5, bottom: 0.4, height: 4}
    rotation: [0, 90, 0]
    metal: true
`

const objectScene = `
name: objects
spheres:
  - position: [4, 6, 0]
    radius: 0.5
    material: {albedo: [1, 1, 1], emissive: [10, 10, 10]}
cuboids:
  - position: [0, 0, 0]
    dimensions: [10, 0.1, 10]
    material: {albedo: [1, 1, 1], ior: 1}
random:
  seed: 3
  spheres: 5
  cuboids: 2
`

func TestParseScene(t *testing.T) {
	scene, err := libscn.ParseScene([]byte(ringScene))
	require.NoError(t, err)
	assert.Equal(t, "ring", scene.Name)
	assert.Equal(t, mgl32.Vec3{0, 10, 20}, scene.Camera.Position)
	require.NotNil(t, scene.Light)
	assert.Equal(t, float32(1), scene.Light.Height)
	assert.Equal(t, float32(0.2), scene.Light.Scale)
	require.Len(t, scene.Figures, 3)
	assert.Nil(t, scene.Figures[0].Color)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, *scene.Figures[1].Color)
	assert.True(t, scene.Figures[2].Metal)
}

func TestParseSceneRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "name: x\nbogus: 1\n",
		"unknown shape": "figures:\n  - shape: blob\n",
		"unknown param": "figures:\n  - shape: sphere\n    params: {size: 2}\n",
		"full ring":     "ring: {radius: 1, slots: 1}\nfigures:\n  - shape: sphere\n",
		"bad vector":    "clear: [1, 2]\n",
		"no radius":     "spheres:\n  - position: [0, 0, 0]\n",
		"too many":      "random: {spheres: 300}\n",
	}
	for name, src := range cases {
		_, err := libscn.ParseScene([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestParseEmptyScene(t *testing.T) {
	scene, err := libscn.ParseScene(nil)
	require.NoError(t, err)
	assert.Empty(t, scene.Figures)
}

func TestBuildRing(t *testing.T) {
	scene, err := libscn.ParseScene([]byte(ringScene))
	require.NoError(t, err)
	p, err := scene.Build(rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// both spheres share one mesh
	assert.Len(t, p.Meshes, 2)
	require.Len(t, p.Figures, 3)
	assert.Equal(t, p.Figures[0].MeshName, p.Figures[1].MeshName)
	assert.NotEqual(t, p.Figures[0].MeshName, p.Figures[2].MeshName)

	// slot zero stays empty
	first := p.Figures[0].Position
	assert.InDelta(t, 0, first[0], 1e-5)
	assert.InDelta(t, 8, first[2], 1e-5)
	second := p.Figures[1].Position
	assert.InDelta(t, -8, second[0], 1e-5)

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, p.Figures[1].Color)
	assert.NotEqual(t, mgl32.Vec3{}, p.Figures[0].Color)
	assert.InDelta(t, mgl32.DegToRad(90), p.Figures[2].Rotation[1], 1e-6)
}

func TestBuildObjects(t *testing.T) {
	scene, err := libscn.ParseScene([]byte(objectScene))
	require.NoError(t, err)
	p, err := scene.Build(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{6, 3}, p.Objects.Counts())
	assert.Equal(t, float32(1), p.Objects.Spheres[0].Material.IOR)
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, p.Objects.Spheres[0].Material.Emissive)

	// a seeded random section does not depend on the caller's generator
	again, err := scene.Build(rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	assert.Equal(t, p.Objects, again.Objects)

	for _, c := range p.Objects.Cuboids[1:] {
		assert.InDelta(t, 0, c.Min()[1], 1e-6)
	}
}

func TestSpiralPositions(t *testing.T) {
	spiral := &libscn.SpiralDesc{
		Count:  63,
		Radius: mgl32.Vec2{1, 1.5},
		Base:   8,
		Turn:   0.25,
		Rise:   0.25,
		Wrap:   16,
		Size:   0.1,
	}
	positions := spiral.Positions()
	require.Len(t, positions, 63)
	assert.Equal(t, mgl32.Vec3{1, 8, 0}, positions[0])
	for _, p := range positions {
		assert.GreaterOrEqual(t, p[1], float32(8))
		assert.Less(t, p[1], float32(24))
	}
	assert.InDelta(t, 8+0.25*62, positions[62][1], 1e-4)
}

func TestSpiralAnimate(t *testing.T) {
	scene := &libscn.Scene{Spiral: &libscn.SpiralDesc{
		Count:  4,
		Radius: mgl32.Vec2{1, 1},
		Base:   8,
		Rise:   0.25,
		Wrap:   16,
		Size:   0.1,
		Spin:   1,
		Speed:  2,
	}}
	p, err := scene.Build(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, p.Particles, 4)
	assert.Equal(t, p.Figures[0], p.Particles[0])

	p.Animate(scene.Spiral, 1)
	pos := p.Particles[0].Position
	assert.InDelta(t, 10, pos[1], 1e-5)
	assert.InDelta(t, math32.Cos(1), pos[0], 1e-5)

	// wraps back to the base
	p.Animate(scene.Spiral, 8)
	assert.InDelta(t, 8, p.Particles[0].Position[1], 1e-4)
}

func TestClone(t *testing.T) {
	scene, err := libscn.ParseScene([]byte(ringScene))
	require.NoError(t, err)
	clone, err := scene.Clone()
	require.NoError(t, err)
	assert.Equal(t, scene.Figures, clone.Figures)
	assert.Equal(t, scene.Light, clone.Light)
	assert.Equal(t, scene.Ring, clone.Ring)
	assert.Nil(t, clone.Spiral)

	clone.Figures[2].Params["top"] = 3
	*clone.Figures[1].Color = mgl32.Vec3{0, 1, 0}
	clone.Light.Height = 4
	assert.Equal(t, float32(0.5), scene.Figures[2].Params["top"])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, *scene.Figures[1].Color)
	assert.Equal(t, float32(1), scene.Light.Height)
}

func TestMarshalRoundTrip(t *testing.T) {
	scene, err := libscn.ParseScene([]byte(ringScene))
	require.NoError(t, err)
	data, err := scene.Marshal()
	require.NoError(t, err)
	parsed, err := libscn.ParseScene(data)
	require.NoError(t, err)
	assert.Equal(t, scene, parsed)
}

func TestLoadSceneMissing(t *testing.T) {
	_, err := libscn.LoadScene(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: before\n"), 0o644))

	w, err := libscn.WatchScene(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("name: after\n"), 0o644))
	select {
	case scene := <-w.Scenes:
		assert.Equal(t, "after", scene.Name)
	case err := <-w.Errors:
		t.Fatalf("watcher should not fail but got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	require.NoError(t, os.WriteFile(path, []byte("bogus: 1\n"), 0o644))
	select {
	case scene := <-w.Scenes:
		t.Fatalf("invalid scene should not be delivered but got %q", scene.Name)
	case err := <-w.Errors:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the error")
	}
}
