package libview_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"compgraph/libscn"
	"compgraph/libview"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStage(t *testing.T, name string) *libview.Stage {
	scene, err := libview.LoadScene("", name)
	require.NoError(t, err)
	stage, err := libview.NewStage(scene, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return stage
}

func TestLoadBuiltinScenes(t *testing.T) {
	for _, name := range []string{"task6", "task7", "textest"} {
		t.Run(name, func(t *testing.T) {
			stage := newStage(t, name)
			assert.NotEmpty(t, stage.Prepared.Figures)
			for _, f := range stage.Prepared.Figures {
				assert.NotEmpty(t, f.MeshName, "figure %s", f.Name)
			}
		})
	}

	_, err := libview.LoadScene("", "missing")
	assert.Error(t, err)
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\nfigures:\n  - {name: a, shape: cone}\n"), 0o644))
	scene, err := libview.LoadScene(path, "task6")
	require.NoError(t, err)
	assert.Equal(t, "file", scene.Name)
	assert.Len(t, scene.Figures, 1)
}

func TestStageRing(t *testing.T) {
	stage := newStage(t, "task6")
	assert.Len(t, stage.Prepared.Figures, 13)
	for _, f := range stage.Prepared.Figures {
		// figures sit on the ring of radius 8
		assert.InDelta(t, 8, mgl32.Vec2{f.Position[0], f.Position[2]}.Len(), 1e-4)
	}
	assert.Equal(t, mgl32.Vec3{0.3, 0.3, 0.3}, stage.ClearColor())
}

func TestStageStep(t *testing.T) {
	stage := newStage(t, "task6")
	start := stage.LightPosition()
	assert.InDelta(t, 5, start[0], 1e-5)

	stage.Step(1)
	assert.Equal(t, float32(1), stage.Time)
	assert.NotEqual(t, start, stage.LightPosition())

	stage.Paused = true
	stage.Step(1)
	assert.Equal(t, float32(1), stage.Time)
}

func TestStageParticles(t *testing.T) {
	stage := newStage(t, "textest")
	require.Len(t, stage.Prepared.Particles, 63)
	particle := stage.Prepared.Particles[5]
	assert.True(t, stage.IsParticle(particle))
	assert.Equal(t, "leather", particle.Texture)

	before := particle.Position
	stage.Step(0.5)
	assert.NotEqual(t, before, particle.Position)
	assert.GreaterOrEqual(t, particle.Position[1], float32(8))
	assert.Less(t, particle.Position[1], float32(24))
}

func TestStageLighting(t *testing.T) {
	stage := newStage(t, "task7")
	stage.Light.Blinn = true
	metal := &libscn.Figure{Color: mgl32.Vec3{1, 0, 0}, Metal: true}
	lighting := stage.Lighting(metal, mgl32.Vec3{0, 0, 3})

	assert.True(t, lighting.Blinn)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, lighting.ViewPos)
	assert.Equal(t, stage.LightPosition(), lighting.Light.Position)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, lighting.Light.Ambient)
	assert.Equal(t, libscn.PhongMaterialFor(true), lighting.Material)
}

func TestStageDefaultLight(t *testing.T) {
	scene := &libscn.Scene{Name: "bare", Figures: []libscn.FigureDesc{{Name: "a", Shape: "cone"}}}
	stage, err := libview.NewStage(scene, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, libscn.DefaultOrbit, stage.Light.Orbit)
	assert.Equal(t, mgl32.Vec3{0.3, 0.3, 0.3}, stage.ClearColor())
}

func TestPollWatcherNil(t *testing.T) {
	assert.Nil(t, libview.PollWatcher(nil))
}
