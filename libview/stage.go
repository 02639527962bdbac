package libview

import (
	"fmt"
	"math/rand"

	"compgraph/assets"
	"compgraph/libscn"

	"github.com/go-gl/mathgl/mgl32"
)

// The file at path when it is set, otherwise the built in scene
func LoadScene(path, builtin string) (*libscn.Scene, error) {
	if path != "" {
		return libscn.LoadScene(path)
	}
	data, err := assets.Scene(builtin)
	if err != nil {
		return nil, err
	}
	scene, err := libscn.ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("built in scene %q: %w", builtin, err)
	}
	return scene, nil
}

var defaultLight = libscn.LightDesc{Orbit: libscn.DefaultOrbit, Scale: 0.2}

// CPU side state of a figure scene: the built figures, the animated light and the clock
type Stage struct {
	Scene    *libscn.Scene
	Prepared *libscn.Prepared
	Light    libscn.LightDesc
	Time     float32
	Paused   bool
	// Moved by the spiral, not editable
	particles map[*libscn.Figure]bool
}

func NewStage(scene *libscn.Scene, rng *rand.Rand) (*Stage, error) {
	stage := &Stage{}
	if err := stage.Load(scene, rng); err != nil {
		return nil, err
	}
	return stage, nil
}

// Replaces the scene, the clock keeps running
func (s *Stage) Load(scene *libscn.Scene, rng *rand.Rand) error {
	prepared, err := scene.Build(rng)
	if err != nil {
		return fmt.Errorf("could not build scene %q: %w", scene.Name, err)
	}
	s.Scene = scene
	s.Prepared = prepared
	s.Light = defaultLight
	if scene.Light != nil {
		s.Light = *scene.Light
	}
	libscn.SortByMesh(s.Prepared.Figures)
	s.particles = map[*libscn.Figure]bool{}
	for _, p := range prepared.Particles {
		s.particles[p] = true
	}
	s.Prepared.Animate(scene.Spiral, s.Time)
	return nil
}

func (s *Stage) Step(dt float32) {
	if s.Paused {
		return
	}
	s.Time += dt
	s.Prepared.Animate(s.Scene.Spiral, s.Time)
}

func (s *Stage) LightPosition() mgl32.Vec3 {
	return s.Light.At(s.Time)
}

// The light is tinted by the figure color
func (s *Stage) Lighting(f *libscn.Figure, viewPos mgl32.Vec3) libscn.Lighting {
	return libscn.Lighting{
		Light:    libscn.LightFromColor(s.LightPosition(), f.Color),
		Material: libscn.PhongMaterialFor(f.Metal),
		ViewPos:  viewPos,
		Blinn:    s.Light.Blinn,
	}
}

func (s *Stage) ClearColor() mgl32.Vec3 {
	if s.Scene.Clear == (mgl32.Vec3{}) {
		return mgl32.Vec3{0.3, 0.3, 0.3}
	}
	return s.Scene.Clear
}
