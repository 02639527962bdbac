package libmesh

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidParameter = errors.New("invalid shape parameter")
var ErrInvalidMesh = errors.New("invalid mesh")

const NormalTolerance = 1e-3

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Uv       mgl32.Vec2
}

const VertexSize = int(unsafe.Sizeof(Vertex{}))
const ElementIndexSize = int(unsafe.Sizeof(uint32(0)))

// Triangle list, front faces are wound counter clockwise
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

func New(name string) *Mesh {
	return &Mesh{Name: name}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func (m *Mesh) AddVertex(v Vertex) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// a b c d in counter clockwise order
func (m *Mesh) AddQuad(a, b, c, d uint32) {
	m.Indices = append(m.Indices, a, b, c, a, c, d)
}

// Adds a flat shaded convex polygon. The normal follows the winding of positions.
// Without uvs the polygon is projected onto its own plane.
func (m *Mesh) AddFace(positions []mgl32.Vec3, uvs []mgl32.Vec2) {
	if len(positions) < 3 {
		return
	}
	normal := newellNormal(positions)
	if uvs == nil {
		uvs = planarUvs(positions, normal)
	}
	base := uint32(len(m.Vertices))
	for i, p := range positions {
		m.AddVertex(Vertex{Position: p, Normal: normal, Uv: uvs[i]})
	}
	for i := 1; i < len(positions)-1; i++ {
		m.AddTriangle(base, base+uint32(i), base+uint32(i+1))
	}
}

// Like AddFace but the positions are reordered if needed so the face points away from center
func (m *Mesh) addOutwardFace(center mgl32.Vec3, positions []mgl32.Vec3, uvs []mgl32.Vec2) {
	if faceFacesInward(center, positions) {
		positions = reversed(positions)
		if uvs != nil {
			uvs = reversed(uvs)
		}
	}
	m.AddFace(positions, uvs)
}

// Fans the polygon around an extra vertex at its centroid
func (m *Mesh) addCenteredFace(center mgl32.Vec3, positions []mgl32.Vec3) {
	if faceFacesInward(center, positions) {
		positions = reversed(positions)
	}
	normal := newellNormal(positions)
	uvs := planarUvs(positions, normal)
	mid := centroid(positions)
	c := m.AddVertex(Vertex{Position: mid, Normal: normal, Uv: centroid2(uvs)})
	base := uint32(len(m.Vertices))
	for i, p := range positions {
		m.AddVertex(Vertex{Position: p, Normal: normal, Uv: uvs[i]})
	}
	n := uint32(len(positions))
	for i := uint32(0); i < n; i++ {
		m.AddTriangle(c, base+i, base+(i+1)%n)
	}
}

func faceFacesInward(center mgl32.Vec3, positions []mgl32.Vec3) bool {
	return newellNormal(positions).Dot(centroid(positions).Sub(center)) < 0
}

func reversed[S ~[]E, E any](s S) S {
	r := make(S, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}

func newellNormal(positions []mgl32.Vec3) mgl32.Vec3 {
	var n mgl32.Vec3
	for i, cur := range positions {
		next := positions[(i+1)%len(positions)]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n.Normalize()
}

func planarUvs(positions []mgl32.Vec3, normal mgl32.Vec3) []mgl32.Vec2 {
	u := positions[1].Sub(positions[0]).Normalize()
	v := normal.Cross(u)
	uvs := make([]mgl32.Vec2, len(positions))
	min := mgl32.Vec2{math32.Inf(1), math32.Inf(1)}
	max := mgl32.Vec2{math32.Inf(-1), math32.Inf(-1)}
	for i, p := range positions {
		d := p.Sub(positions[0])
		uvs[i] = mgl32.Vec2{d.Dot(u), d.Dot(v)}
		for c := 0; c < 2; c++ {
			min[c] = math32.Min(min[c], uvs[i][c])
			max[c] = math32.Max(max[c], uvs[i][c])
		}
	}
	size := max.Sub(min)
	for i := range uvs {
		for c := 0; c < 2; c++ {
			if size[c] > 0 {
				uvs[i][c] = (uvs[i][c] - min[c]) / size[c]
			}
		}
	}
	return uvs
}

func centroid(positions []mgl32.Vec3) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, p := range positions {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(positions)))
}

func centroid2(uvs []mgl32.Vec2) mgl32.Vec2 {
	var sum mgl32.Vec2
	for _, p := range uvs {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(uvs)))
}

// Appends other, its indices are rebased onto the current vertex count
func (m *Mesh) Merge(other *Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+base)
	}
}

// Positions are transformed by mat, normals by its inverse transpose
func (m *Mesh) Transform(mat mgl32.Mat4) {
	normalMat := mat.Mat3().Inv().Transpose()
	for i, v := range m.Vertices {
		m.Vertices[i].Position = mgl32.TransformCoordinate(v.Position, mat)
		m.Vertices[i].Normal = normalMat.Mul3x1(v.Normal).Normalize()
	}
	if mat.Det() < 0 {
		m.FlipWinding()
	}
}

// Moves every position by offset, normals are unchanged
func (m *Mesh) Translate(offset mgl32.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(offset)
	}
}

func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for c := 0; c < 3; c++ {
			min[c] = math32.Min(min[c], v.Position[c])
			max[c] = math32.Max(max[c], v.Position[c])
		}
	}
	return
}

// Mean of all vertex positions
func (m *Mesh) Centroid() mgl32.Vec3 {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}
	}
	positions := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position
	}
	return centroid(positions)
}

func (m *Mesh) FlipWinding() {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
	}
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Geometric normal of triangle i, zero for degenerate triangles
func (m *Mesh) FaceNormal(i int) mgl32.Vec3 {
	a := m.Vertices[m.Indices[i*3]].Position
	b := m.Vertices[m.Indices[i*3+1]].Position
	c := m.Vertices[m.Indices[i*3+2]].Position
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

// position(3) normal(3) uv(2)
func (m *Mesh) Interleaved() []float32 {
	data := make([]float32, 0, len(m.Vertices)*8)
	for _, v := range m.Vertices {
		data = append(data, v.Position[:]...)
		data = append(data, v.Normal[:]...)
		data = append(data, v.Uv[:]...)
	}
	return data
}

func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w %q: index count %d is not a multiple of 3", ErrInvalidMesh, m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w %q: index %d at %d is out of range, vertex count is %d", ErrInvalidMesh, m.Name, idx, i, len(m.Vertices))
		}
	}
	for i, v := range m.Vertices {
		for c := 0; c < 3; c++ {
			if math32.IsNaN(v.Position[c]) || math32.IsInf(v.Position[c], 0) {
				return fmt.Errorf("%w %q: vertex %d has a non finite position %v", ErrInvalidMesh, m.Name, i, v.Position)
			}
			if math32.IsNaN(v.Normal[c]) || math32.IsInf(v.Normal[c], 0) {
				return fmt.Errorf("%w %q: vertex %d has a non finite normal %v", ErrInvalidMesh, m.Name, i, v.Normal)
			}
		}
		if l := v.Normal.Len(); math32.Abs(l-1) > NormalTolerance {
			return fmt.Errorf("%w %q: vertex %d normal has length %.4f", ErrInvalidMesh, m.Name, i, l)
		}
	}
	return nil
}
