package libscn

import (
	"bytes"
	"errors"
	"fmt"

	"compgraph/libio"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	SphereSize = 16 + MaterialSize
	CuboidSize = 32 + MaterialSize
	MaxSpheres = 256
	MaxCuboids = 64
	// Size of the game objects uniform block, spheres come first
	GameObjectsSize = MaxSpheres*SphereSize + MaxCuboids*CuboidSize
)

// Uniform block binding points shared with the path tracing shaders
const (
	UboBasicData   = 0
	UboGameObjects = 1
)

var ErrTooManyObjects = errors.New("too many objects")

// Implemented by libgl.UnboundBuffer
type BufferWriter interface {
	WriteBytes(offset int, data []byte)
}

type Sphere struct {
	Position mgl32.Vec3 `yaml:"position"`
	Radius   float32    `yaml:"radius"`
	Material Material   `yaml:"material"`
}

func (s Sphere) Pack() [SphereSize / 16]mgl32.Vec4 {
	var data [SphereSize / 16]mgl32.Vec4
	data[0] = s.Position.Vec4(s.Radius)
	material := s.Material.Pack()
	copy(data[1:], material[:])
	return data
}

func SphereOffset(index int) int {
	return index * SphereSize
}

type Cuboid struct {
	Position   mgl32.Vec3 `yaml:"position"`
	Dimensions mgl32.Vec3 `yaml:"dimensions"`
	Material   Material   `yaml:"material"`
}

func (c Cuboid) Min() mgl32.Vec3 {
	return c.Position.Sub(c.Dimensions.Mul(0.5))
}

func (c Cuboid) Max() mgl32.Vec3 {
	return c.Position.Add(c.Dimensions.Mul(0.5))
}

func (c Cuboid) Pack() [CuboidSize / 16]mgl32.Vec4 {
	var data [CuboidSize / 16]mgl32.Vec4
	data[0] = c.Min().Vec4(0)
	data[1] = c.Max().Vec4(0)
	material := c.Material.Pack()
	copy(data[2:], material[:])
	return data
}

func CuboidOffset(index int) int {
	return MaxSpheres*SphereSize + index*CuboidSize
}

// The objects of a path traced scene in upload order
type ObjectSet struct {
	Spheres []Sphere
	Cuboids []Cuboid
}

func (set *ObjectSet) AddSphere(s Sphere) (int, error) {
	if len(set.Spheres) >= MaxSpheres {
		return -1, fmt.Errorf("%w: at most %d spheres", ErrTooManyObjects, MaxSpheres)
	}
	s.Material.Normalize()
	set.Spheres = append(set.Spheres, s)
	return len(set.Spheres) - 1, nil
}

func (set *ObjectSet) AddCuboid(c Cuboid) (int, error) {
	if len(set.Cuboids) >= MaxCuboids {
		return -1, fmt.Errorf("%w: at most %d cuboids", ErrTooManyObjects, MaxCuboids)
	}
	c.Material.Normalize()
	set.Cuboids = append(set.Cuboids, c)
	return len(set.Cuboids) - 1, nil
}

func (set *ObjectSet) Clear() {
	set.Spheres = set.Spheres[:0]
	set.Cuboids = set.Cuboids[:0]
}

// Number of spheres and cuboids, as the shader expects them
func (set *ObjectSet) Counts() mgl32.Vec2 {
	return mgl32.Vec2{float32(len(set.Spheres)), float32(len(set.Cuboids))}
}

// The whole uniform block, unused slots are zero
func (set *ObjectSet) Pack() ([]byte, error) {
	if len(set.Spheres) > MaxSpheres || len(set.Cuboids) > MaxCuboids {
		return nil, fmt.Errorf("%w: %d spheres and %d cuboids", ErrTooManyObjects, len(set.Spheres), len(set.Cuboids))
	}

	buf := bytes.NewBuffer(make([]byte, 0, GameObjectsSize))
	bw := libio.NewWriter(buf)
	for _, s := range set.Spheres {
		bw.WriteRef(s.Pack())
	}
	bw.WriteBytes(make([]byte, SphereSize*(MaxSpheres-len(set.Spheres))))
	for _, c := range set.Cuboids {
		bw.WriteRef(c.Pack())
	}
	bw.WriteBytes(make([]byte, CuboidSize*(MaxCuboids-len(set.Cuboids))))
	if bw.Err != nil {
		return nil, fmt.Errorf("could not pack game objects: %w", bw.Err)
	}
	return buf.Bytes(), nil
}

func (set *ObjectSet) Upload(w BufferWriter) error {
	data, err := set.Pack()
	if err != nil {
		return err
	}
	w.WriteBytes(0, data)
	return nil
}

// Writes a single sphere in place, used when only one object moved
func (set *ObjectSet) UploadSphere(w BufferWriter, index int) error {
	if index < 0 || index >= len(set.Spheres) {
		return fmt.Errorf("sphere index %d is out of range", index)
	}
	return writePacked(w, SphereOffset(index), set.Spheres[index].Pack())
}

func (set *ObjectSet) UploadCuboid(w BufferWriter, index int) error {
	if index < 0 || index >= len(set.Cuboids) {
		return fmt.Errorf("cuboid index %d is out of range", index)
	}
	return writePacked(w, CuboidOffset(index), set.Cuboids[index].Pack())
}

func writePacked(w BufferWriter, offset int, data any) error {
	buf := &bytes.Buffer{}
	bw := libio.NewWriter(buf)
	if !bw.WriteRef(data) {
		return fmt.Errorf("could not pack object at offset %d: %w", offset, bw.Err)
	}
	w.WriteBytes(offset, buf.Bytes())
	return nil
}
