package libscn

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"compgraph/libmesh"
	"compgraph/libutil"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

type Scene struct {
	Name    string       `yaml:"name"`
	Clear   mgl32.Vec3   `yaml:"clear"`
	Camera  CameraDesc   `yaml:"camera"`
	Light   *LightDesc   `yaml:"light,omitempty"`
	Ring    *RingDesc    `yaml:"ring,omitempty"`
	Spiral  *SpiralDesc  `yaml:"spiral,omitempty"`
	Figures []FigureDesc `yaml:"figures,omitempty"`
	Spheres []Sphere     `yaml:"spheres,omitempty"`
	Cuboids []Cuboid     `yaml:"cuboids,omitempty"`
	Random  *RandomDesc  `yaml:"random,omitempty"`
}

type CameraDesc struct {
	Position mgl32.Vec3 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
	Fov      float32    `yaml:"fov"`
}

type LightDesc struct {
	Orbit `yaml:",inline"`
	// Size of the lamp gizmo
	Scale float32 `yaml:"scale"`
	Blinn bool    `yaml:"blinn"`
}

type FigureDesc struct {
	Name   string             `yaml:"name"`
	Shape  string             `yaml:"shape"`
	Params map[string]float32 `yaml:"params,omitempty"`
	// Ignored for figures placed on a ring
	Position mgl32.Vec3 `yaml:"position"`
	// Euler angles in degrees
	Rotation mgl32.Vec3 `yaml:"rotation"`
	Scale    float32    `yaml:"scale"`
	// A random color is picked when missing
	Color   *mgl32.Vec3 `yaml:"color,omitempty"`
	Metal   bool        `yaml:"metal"`
	Texture string      `yaml:"texture"`
}

// Places the figures evenly on a horizontal circle, the first slot is left empty
type RingDesc struct {
	Radius float32 `yaml:"radius"`
	Slots  int     `yaml:"slots"`
	Y      float32 `yaml:"y"`
}

// Spheres climbing on an elliptic helix that wraps around after Wrap units
type SpiralDesc struct {
	Count   int        `yaml:"count"`
	Radius  mgl32.Vec2 `yaml:"radius"`
	Base    float32    `yaml:"base"`
	Turn    float32    `yaml:"turn"`
	Rise    float32    `yaml:"rise"`
	Wrap    float32    `yaml:"wrap"`
	Size    float32    `yaml:"size"`
	Texture string     `yaml:"texture"`
	// Radians per second around the axis and units per second upwards
	Spin  float32 `yaml:"spin"`
	Speed float32 `yaml:"speed"`
}

// Random path tracer objects on top of the scene objects
type RandomDesc struct {
	Seed    int64   `yaml:"seed"`
	Spheres int     `yaml:"spheres,omitempty"`
	Cuboids int     `yaml:"cuboids,omitempty"`
	Extent  float32 `yaml:"extent"`
}

var ErrInvalidScene = errors.New("invalid scene")

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read scene file %q: %w", path, err)
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("could not load scene file %q: %w", path, err)
	}
	return scene, nil
}

// Unknown keys are rejected so typos do not go unnoticed
func ParseScene(data []byte) (*Scene, error) {
	scene := &Scene{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(scene); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

func (s *Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Scene) Validate() error {
	for i, f := range s.Figures {
		spec, ok := libmesh.Shapes[f.Shape]
		if !ok {
			return fmt.Errorf("%w: figure %d %q has unknown shape %q", ErrInvalidScene, i, f.Name, f.Shape)
		}
		if _, err := spec.Resolve(f.Params); err != nil {
			return fmt.Errorf("%w: figure %d %q: %v", ErrInvalidScene, i, f.Name, err)
		}
	}
	if s.Ring != nil && s.Ring.Slots <= len(s.Figures) {
		return fmt.Errorf("%w: ring has %d slots for %d figures", ErrInvalidScene, s.Ring.Slots, len(s.Figures))
	}
	if s.Spiral != nil && (s.Spiral.Count < 0 || s.Spiral.Size <= 0 || s.Spiral.Wrap <= 0) {
		return fmt.Errorf("%w: spiral needs a positive size and wrap", ErrInvalidScene)
	}
	spheres, cuboids := len(s.Spheres), len(s.Cuboids)
	if s.Random != nil {
		spheres += s.Random.Spheres
		cuboids += s.Random.Cuboids
	}
	if spheres > MaxSpheres || cuboids > MaxCuboids {
		return fmt.Errorf("%w: %w: %d spheres and %d cuboids", ErrInvalidScene, ErrTooManyObjects, spheres, cuboids)
	}
	for i, sphere := range s.Spheres {
		if sphere.Radius <= 0 {
			return fmt.Errorf("%w: sphere %d has radius %v", ErrInvalidScene, i, sphere.Radius)
		}
	}
	return nil
}

// Deep copy, the scene can be modified without touching the original
func (s *Scene) Clone() (*Scene, error) {
	clone := &Scene{}
	if err := copier.CopyWithOption(clone, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("could not clone scene %q: %w", s.Name, err)
	}
	return clone, nil
}

// The CPU side of a scene, ready to be uploaded
type Prepared struct {
	// Unique meshes, figures refer to them by name
	Meshes  []*libmesh.Mesh
	Figures []*Figure
	// The spiral particles, also part of Figures
	Particles []*Figure
	Objects   ObjectSet
}

// Identical shape parameters share one mesh
func meshKey(shape string, params libmesh.Params) string {
	return fmt.Sprintf("%s%v", shape, map[string]float32(params))
}

func (s *Scene) Build(rng *rand.Rand) (*Prepared, error) {
	p := &Prepared{}
	meshes := map[string]*libmesh.Mesh{}

	mesh := func(shape string, overrides map[string]float32) (string, error) {
		spec, ok := libmesh.Shapes[shape]
		if !ok {
			return "", fmt.Errorf("%w: unknown shape %q", ErrInvalidScene, shape)
		}
		params, err := spec.Resolve(overrides)
		if err != nil {
			return "", err
		}
		key := meshKey(shape, params)
		if _, ok := meshes[key]; ok {
			return key, nil
		}
		m, err := spec.Build(params)
		if err != nil {
			return "", fmt.Errorf("could not build %s: %w", shape, err)
		}
		m.Name = key
		meshes[key] = m
		p.Meshes = append(p.Meshes, m)
		return key, nil
	}

	for i, desc := range s.Figures {
		key, err := mesh(desc.Shape, desc.Params)
		if err != nil {
			return nil, fmt.Errorf("figure %d %q: %w", i, desc.Name, err)
		}
		figure := &Figure{
			Name:     desc.Name,
			MeshName: key,
			Texture:  desc.Texture,
			Position: desc.Position,
			Rotation: mgl32.Vec3{
				mgl32.DegToRad(desc.Rotation[0]),
				mgl32.DegToRad(desc.Rotation[1]),
				mgl32.DegToRad(desc.Rotation[2]),
			},
			Scale: desc.Scale,
			Metal: desc.Metal,
		}
		if desc.Color != nil {
			figure.Color = *desc.Color
		} else {
			figure.Color = libutil.RandomColor(rng)
		}
		if s.Ring != nil {
			step := 2 * math32.Pi / float32(s.Ring.Slots)
			sin, cos := math32.Sincos(float32(i+1) * step)
			figure.Position = mgl32.Vec3{s.Ring.Radius * cos, s.Ring.Y, s.Ring.Radius * sin}
		}
		p.Figures = append(p.Figures, figure)
	}

	if s.Spiral != nil && s.Spiral.Count > 0 {
		key, err := mesh("sphere", map[string]float32{"radius": s.Spiral.Size, "sectors": 24, "stacks": 12})
		if err != nil {
			return nil, fmt.Errorf("spiral: %w", err)
		}
		for i, pos := range s.Spiral.Positions() {
			particle := &Figure{
				Name:     fmt.Sprintf("particle %d", i),
				MeshName: key,
				Texture:  s.Spiral.Texture,
				Position: pos,
				Color:    mgl32.Vec3{1, 1, 1},
			}
			p.Figures = append(p.Figures, particle)
			p.Particles = append(p.Particles, particle)
		}
	}

	for _, sphere := range s.Spheres {
		if _, err := p.Objects.AddSphere(sphere); err != nil {
			return nil, err
		}
	}
	for _, cuboid := range s.Cuboids {
		if _, err := p.Objects.AddCuboid(cuboid); err != nil {
			return nil, err
		}
	}
	if s.Random != nil {
		src := rng
		if s.Random.Seed != 0 {
			src = rand.New(rand.NewSource(s.Random.Seed))
		}
		if err := AddRandomObjects(&p.Objects, src, s.Random.Spheres, s.Random.Cuboids, s.Random.Extent); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (sp *SpiralDesc) Positions() []mgl32.Vec3 {
	return sp.PositionsAt(0)
}

// Particle positions after t seconds, particles reaching the top start over at the base
func (sp *SpiralDesc) PositionsAt(t float32) []mgl32.Vec3 {
	positions := make([]mgl32.Vec3, sp.Count)
	for i := range positions {
		sin, cos := math32.Sincos(sp.Turn*float32(i) + sp.Spin*t)
		positions[i] = mgl32.Vec3{
			sp.Radius[0] * cos,
			sp.Base + math32.Mod(float32(i)*sp.Rise+sp.Speed*t, sp.Wrap),
			sp.Radius[1] * sin,
		}
	}
	return positions
}

// Moves the particles of a built scene along the spiral
func (p *Prepared) Animate(spiral *SpiralDesc, t float32) {
	if spiral == nil {
		return
	}
	for i, pos := range spiral.PositionsAt(t) {
		if i >= len(p.Particles) {
			break
		}
		p.Particles[i].Position = pos
	}
}

// Uploads every mesh and resolves the figure locations
func (p *Prepared) Upload(batch *RenderBatch) {
	for _, m := range p.Meshes {
		batch.Upload(m)
	}
	for _, f := range p.Figures {
		f.Mesh = batch.Meshes[f.MeshName]
	}
}

// Scatters spheres above a ground plane and cuboids on it
func AddRandomObjects(set *ObjectSet, rng *rand.Rand, spheres, cuboids int, extent float32) error {
	if extent <= 0 {
		extent = 5
	}
	coord := func() float32 {
		return (rng.Float32()*2 - 1) * extent
	}
	for i := 0; i < spheres; i++ {
		radius := 0.1 + rng.Float32()*0.4
		sphere := Sphere{
			Position: mgl32.Vec3{coord(), radius + rng.Float32()*2, coord()},
			Radius:   radius,
			Material: RandomMaterial(rng),
		}
		if _, err := set.AddSphere(sphere); err != nil {
			return err
		}
	}
	for i := 0; i < cuboids; i++ {
		dims := mgl32.Vec3{0.2 + rng.Float32(), 0.2 + rng.Float32()*2, 0.2 + rng.Float32()}
		cuboid := Cuboid{
			Position:   mgl32.Vec3{coord(), dims[1] / 2, coord()},
			Dimensions: dims,
			Material:   RandomMaterial(rng),
		}
		if _, err := set.AddCuboid(cuboid); err != nil {
			return err
		}
	}
	return nil
}
