package libmesh

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var phi = (1 + math32.Sqrt(5)) / 2

func scaleTo(points []mgl32.Vec3, radius float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Normalize().Mul(radius)
	}
	return out
}

// Orders points counter clockwise as seen from the tip of axis
func sortAroundAxis(points []mgl32.Vec3, axis mgl32.Vec3) []mgl32.Vec3 {
	center := centroid(points)
	u := points[0].Sub(center).Normalize()
	v := axis.Normalize().Cross(u)
	sorted := append([]mgl32.Vec3(nil), points...)
	angle := func(p mgl32.Vec3) float32 {
		d := p.Sub(center)
		return math32.Atan2(d.Dot(v), d.Dot(u))
	}
	sort.Slice(sorted, func(i, j int) bool {
		return angle(sorted[i]) < angle(sorted[j])
	})
	return sorted
}

// Triangular faces of a regular polyhedron are exactly the vertex triples
// whose pairwise distances all equal the edge length
func triangleFaces(vertices []mgl32.Vec3) [][]mgl32.Vec3 {
	edge := math32.Inf(1)
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			edge = math32.Min(edge, vertices[i].Sub(vertices[j]).Len())
		}
	}
	isEdge := func(a, b mgl32.Vec3) bool {
		return math32.Abs(a.Sub(b).Len()-edge) < edge*1e-3
	}
	var faces [][]mgl32.Vec3
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if !isEdge(vertices[i], vertices[j]) {
				continue
			}
			for k := j + 1; k < len(vertices); k++ {
				if isEdge(vertices[i], vertices[k]) && isEdge(vertices[j], vertices[k]) {
					faces = append(faces, []mgl32.Vec3{vertices[i], vertices[j], vertices[k]})
				}
			}
		}
	}
	return faces
}

func polyhedron(name string, faces [][]mgl32.Vec3) *Mesh {
	m := New(name)
	for _, face := range faces {
		m.addOutwardFace(mgl32.Vec3{}, sortAroundAxis(face, centroid(face)), nil)
	}
	return m
}

func checkRadius(name string, radius float32) error {
	if radius <= 0 {
		return invalid("%s radius must be positive, got %v", name, radius)
	}
	return nil
}

// Alternating corners of a cube
func Tetrahedron(radius float32) (*Mesh, error) {
	if err := checkRadius("tetrahedron", radius); err != nil {
		return nil, err
	}
	vertices := scaleTo([]mgl32.Vec3{{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}, radius)
	return polyhedron("tetrahedron", triangleFaces(vertices)), nil
}

func Hexahedron(radius float32) (*Mesh, error) {
	if err := checkRadius("hexahedron", radius); err != nil {
		return nil, err
	}
	h := radius / math32.Sqrt(3)
	m, err := Box(2*h, 2*h, 2*h)
	if m != nil {
		m.Name = "hexahedron"
	}
	return m, err
}

func Octahedron(radius float32) (*Mesh, error) {
	if err := checkRadius("octahedron", radius); err != nil {
		return nil, err
	}
	vertices := scaleTo([]mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}, radius)
	return polyhedron("octahedron", triangleFaces(vertices)), nil
}

func icosahedronVertices(radius float32) []mgl32.Vec3 {
	var vertices []mgl32.Vec3
	for _, a := range []float32{-1, 1} {
		for _, b := range []float32{-phi, phi} {
			vertices = append(vertices,
				mgl32.Vec3{0, a, b},
				mgl32.Vec3{a, b, 0},
				mgl32.Vec3{b, 0, a},
			)
		}
	}
	return scaleTo(vertices, radius)
}

func Icosahedron(radius float32) (*Mesh, error) {
	if err := checkRadius("icosahedron", radius); err != nil {
		return nil, err
	}
	return polyhedron("icosahedron", triangleFaces(icosahedronVertices(radius))), nil
}

// Dual of the icosahedron: every icosahedron vertex becomes a pentagon
// spanned by the centers of the five faces around it
func Dodecahedron(radius float32) (*Mesh, error) {
	if err := checkRadius("dodecahedron", radius); err != nil {
		return nil, err
	}
	ico := icosahedronVertices(1)
	faces := triangleFaces(ico)

	m := New("dodecahedron")
	for _, v := range ico {
		var pentagon []mgl32.Vec3
		for _, f := range faces {
			for _, p := range f {
				if p == v {
					pentagon = append(pentagon, centroid(f).Normalize().Mul(radius))
					break
				}
			}
		}
		m.addCenteredFace(mgl32.Vec3{}, sortAroundAxis(pentagon, v))
	}
	return m, nil
}
