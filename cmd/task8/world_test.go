package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"compgraph/libscn"
	"compgraph/libsky"
	"compgraph/libtrace"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltinWorld(t *testing.T) {
	w, err := loadWorld("", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{1, 2}, w.objects.Counts())
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, w.objects.Spheres[0].Material.Emissive)
	assert.Nil(t, w.scene.Random)
}

func TestRandomWorld(t *testing.T) {
	scene, err := libscn.ParseScene([]byte("name: empty\n"))
	require.NoError(t, err)

	w, err := buildWorld(scene, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{8, 2}, w.objects.Counts())
	// the scene passed in stays untouched
	assert.Nil(t, scene.Random)
	require.NotNil(t, w.scene.Random)

	same, err := buildWorld(scene, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, w.objects, same.objects)

	other, err := buildWorld(w.scene, 8, 4)
	require.NoError(t, err)
	assert.NotEqual(t, w.objects.Spheres, other.objects.Spheres)
}

func TestRandomWorldTooLarge(t *testing.T) {
	scene, err := libscn.ParseScene([]byte("name: empty\n"))
	require.NoError(t, err)
	_, err = buildWorld(scene, libscn.MaxSpheres+1, 1)
	assert.True(t, errors.Is(err, libscn.ErrTooManyObjects), "error should be ErrTooManyObjects but is %v", err)
}

func TestLoadSettings(t *testing.T) {
	settings, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, libtrace.DefaultSettings(), settings)

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ray_depth: 4\naperture: 0.1\n"), 0o644))
	settings, err = loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 4, settings.RayDepth)
	assert.Equal(t, float32(0.1), settings.Aperture)
	assert.Equal(t, 5, settings.SamplesPerPixel)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("samples_per_pixel: 0\n"), 0o644))
	_, err = loadSettings(bad)
	assert.ErrorIs(t, err, libtrace.ErrInvalidSettings)

	_, err = loadSettings(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCheckSkyGenerator(t *testing.T) {
	for _, kind := range skyGenerators {
		assert.NoError(t, checkSkyGenerator(kind))
	}
	assert.Error(t, checkSkyGenerator("vulkan"))
}

func TestDefaultTimeOfDay(t *testing.T) {
	assert.Equal(t, 0.5, Arguments.TimeOfDay)
	assert.Equal(t, libsky.DefaultParams().SunPosition, libsky.SunAt(float32(Arguments.TimeOfDay)))
}

func TestTraceCameraZoom(t *testing.T) {
	cam := newTraceCamera(libscn.CameraDesc{Yaw: -90})
	assert.Equal(t, float32(libtrace.Fov), cam.Fov)

	var acc libtrace.Accumulator
	acc.Observe(cameraBlock(cam, 800, 600))
	cam.Zoom(10)
	assert.Equal(t, float32(libtrace.Fov-10), cam.Fov)
	assert.True(t, acc.Observe(cameraBlock(cam, 800, 600)), "zooming should restart the average")
	assert.Equal(t, libtrace.Projection(libtrace.Fov-10, 800, 600).Inv(), cameraBlock(cam, 800, 600).InvProjection)
}
