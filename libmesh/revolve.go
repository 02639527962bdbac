package libmesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	PrismSlices     = 4
	ConeSides       = 100
	DefaultSlices   = 100
	DefaultSectors  = 100
	DefaultStacks   = 100
	SpringSlices    = 100
	SpringStepDeg   = 5
	TorusDefaultRes = 100
)

var unitY = mgl32.Vec3{0, 1, 0}

// Direction in the XZ plane. Increasing angles run counter clockwise seen from +Y,
// starting at +Z.
func around(angle float32) mgl32.Vec3 {
	sin, cos := math32.Sincos(angle)
	return mgl32.Vec3{sin, 0, cos}
}

// Frustum around Y with flat caps, a radius of zero collapses that end into a point
func Cylinder(topRadius, bottomRadius, height float32, slices int) (*Mesh, error) {
	if slices < 3 {
		return nil, invalid("cylinder needs at least 3 slices, got %d", slices)
	}
	if topRadius < 0 || bottomRadius < 0 || topRadius+bottomRadius == 0 {
		return nil, invalid("cylinder radii must not be negative and not both zero, got %v and %v", topRadius, bottomRadius)
	}
	if height <= 0 {
		return nil, invalid("cylinder height must be positive, got %v", height)
	}

	m := New("cylinder")
	hh := height / 2
	step := 2 * math32.Pi / float32(slices)
	slope := bottomRadius - topRadius

	side := uint32(len(m.Vertices))
	for i := 0; i <= slices; i++ {
		dir := around(float32(i) * step)
		normal := mgl32.Vec3{dir[0] * height, slope, dir[2] * height}.Normalize()
		s := float32(i) / float32(slices)
		m.AddVertex(Vertex{Position: dir.Mul(bottomRadius).Add(mgl32.Vec3{0, -hh, 0}), Normal: normal, Uv: mgl32.Vec2{s, 0}})
		m.AddVertex(Vertex{Position: dir.Mul(topRadius).Add(mgl32.Vec3{0, hh, 0}), Normal: normal, Uv: mgl32.Vec2{s, 1}})
	}
	for i := uint32(0); i < uint32(slices); i++ {
		b0, t0 := side+i*2, side+i*2+1
		b1, t1 := b0+2, t0+2
		if bottomRadius > 0 {
			m.AddTriangle(b0, b1, t1)
		}
		if topRadius > 0 {
			m.AddTriangle(b0, t1, t0)
		}
	}

	if topRadius > 0 {
		addCap(m, topRadius, hh, slices, true)
	}
	if bottomRadius > 0 {
		addCap(m, bottomRadius, -hh, slices, false)
	}
	return m, nil
}

func addCap(m *Mesh, radius, y float32, slices int, up bool) {
	normal := unitY
	if !up {
		normal = normal.Mul(-1)
	}
	step := 2 * math32.Pi / float32(slices)
	center := m.AddVertex(Vertex{Position: mgl32.Vec3{0, y, 0}, Normal: normal, Uv: mgl32.Vec2{0.5, 0.5}})
	for i := 0; i <= slices; i++ {
		dir := around(float32(i) * step)
		m.AddVertex(Vertex{
			Position: dir.Mul(radius).Add(mgl32.Vec3{0, y, 0}),
			Normal:   normal,
			Uv:       mgl32.Vec2{0.5 + 0.5*dir[0], 0.5 + 0.5*dir[2]},
		})
	}
	for i := uint32(1); i <= uint32(slices); i++ {
		if up {
			m.AddTriangle(center, center+i, center+i+1)
		} else {
			m.AddTriangle(center, center+i+1, center+i)
		}
	}
}

func Prism(topRadius, bottomRadius, height float32) (*Mesh, error) {
	m, err := Cylinder(topRadius, bottomRadius, height, PrismSlices)
	if m != nil {
		m.Name = "prism"
	}
	return m, err
}

// Apex above an n-gon base, every side is flat shaded
func Pyramid(radius, height float32, sides int) (*Mesh, error) {
	if sides < 3 {
		return nil, invalid("pyramid needs at least 3 sides, got %d", sides)
	}
	if radius <= 0 || height <= 0 {
		return nil, invalid("pyramid size must be positive, got radius %v height %v", radius, height)
	}

	m := New("pyramid")
	hh := height / 2
	apex := mgl32.Vec3{0, hh, 0}
	step := 2 * math32.Pi / float32(sides)
	for i := 0; i < sides; i++ {
		b0 := around(float32(i) * step).Mul(radius).Add(mgl32.Vec3{0, -hh, 0})
		b1 := around(float32(i+1) * step).Mul(radius).Add(mgl32.Vec3{0, -hh, 0})
		m.AddFace([]mgl32.Vec3{b0, b1, apex}, []mgl32.Vec2{{0, 0}, {1, 0}, {0.5, 1}})
	}
	addCap(m, radius, -hh, sides, false)
	return m, nil
}

func Cone(radius, height float32) (*Mesh, error) {
	m, err := Pyramid(radius, height, ConeSides)
	if m != nil {
		m.Name = "cone"
	}
	return m, err
}

// UV sphere with poles on the Y axis. The triangles that would collapse
// into the poles are left out.
func Sphere(radius float32, sectors, stacks int) (*Mesh, error) {
	if radius <= 0 {
		return nil, invalid("sphere radius must be positive, got %v", radius)
	}
	if sectors < 3 || stacks < 2 {
		return nil, invalid("sphere needs at least 3 sectors and 2 stacks, got %d and %d", sectors, stacks)
	}

	m := New("sphere")
	m.Vertices = make([]Vertex, 0, (sectors+1)*(stacks+1))
	sectorStep := 2 * math32.Pi / float32(sectors)
	stackStep := math32.Pi / float32(stacks)

	for i := 0; i <= stacks; i++ {
		stackAngle := math32.Pi/2 - float32(i)*stackStep
		y, ring := math32.Sincos(stackAngle)
		for j := 0; j <= sectors; j++ {
			dir := around(float32(j) * sectorStep)
			normal := mgl32.Vec3{dir[0] * ring, y, dir[2] * ring}
			m.AddVertex(Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				Uv:       mgl32.Vec2{float32(j) / float32(sectors), float32(i) / float32(stacks)},
			})
		}
	}

	row := uint32(sectors + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(sectors); j++ {
			k1 := i*row + j
			k2 := k1 + row
			if i != 0 {
				m.AddTriangle(k1, k2, k1+1)
			}
			if i != uint32(stacks)-1 {
				m.AddTriangle(k1+1, k2, k2+1)
			}
		}
	}
	return m, nil
}

// Ring around Y with a circular cross section
func Torus(tubeRadius, ringRadius float32, slices, loops int) (*Mesh, error) {
	if tubeRadius <= 0 || ringRadius <= 0 {
		return nil, invalid("torus radii must be positive, got tube %v ring %v", tubeRadius, ringRadius)
	}
	if tubeRadius >= ringRadius {
		return nil, invalid("torus tube radius %v must be below the ring radius %v", tubeRadius, ringRadius)
	}
	if slices < 3 || loops < 3 {
		return nil, invalid("torus needs at least 3 slices and loops, got %d and %d", slices, loops)
	}

	m := New("torus")
	loopStep := 2 * math32.Pi / float32(loops)
	sliceStep := 2 * math32.Pi / float32(slices)
	for i := 0; i <= loops; i++ {
		u := float32(i) * loopStep
		radial := around(u)
		ringTangent := around(u + math32.Pi/2)
		for j := 0; j <= slices; j++ {
			sin, cos := math32.Sincos(float32(j) * sliceStep)
			tubeDir := radial.Mul(cos).Add(unitY.Mul(sin))
			tubeTangent := radial.Mul(-sin).Add(unitY.Mul(cos))
			m.AddVertex(Vertex{
				Position: radial.Mul(ringRadius).Add(tubeDir.Mul(tubeRadius)),
				Normal:   ringTangent.Cross(tubeTangent).Normalize(),
				Uv:       mgl32.Vec2{float32(i) / float32(loops), float32(j) / float32(slices)},
			})
		}
	}
	addTubeIndices(m, 0, loops, slices)
	return m, nil
}

// Quads between consecutive rings of a swept tube, rings hold slices+1 vertices
func addTubeIndices(m *Mesh, base uint32, rings, slices int) {
	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(rings); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := base + i*row + j
			b := a + row
			m.AddQuad(a, b, b+1, a+1)
		}
	}
}

// Helical tube around Y with flat end caps. step is the sweep increment in degrees.
func Spring(rounds, height, thickness, radius float32, slices int, step float32) (*Mesh, error) {
	if rounds <= 0 || height <= 0 || thickness <= 0 || radius <= 0 {
		return nil, invalid("spring sizes must be positive, got rounds %v height %v thickness %v radius %v", rounds, height, thickness, radius)
	}
	if thickness >= radius {
		return nil, invalid("spring thickness %v must be below the radius %v", thickness, radius)
	}
	if slices < 3 {
		return nil, invalid("spring needs at least 3 slices, got %d", slices)
	}
	if step <= 0 || step > 90 {
		return nil, invalid("spring step must be in (0, 90] degrees, got %v", step)
	}

	total := rounds * 2 * math32.Pi
	segments := int(math32.Ceil(rounds * 360 / step))
	rise := height / total
	centerAt := func(t float32) mgl32.Vec3 {
		return around(t).Mul(radius).Add(mgl32.Vec3{0, -height/2 + rise*t, 0})
	}
	tangentAt := func(t float32) mgl32.Vec3 {
		return around(t + math32.Pi/2).Mul(radius).Add(mgl32.Vec3{0, rise, 0}).Normalize()
	}

	m := New("spring")
	sliceStep := 2 * math32.Pi / float32(slices)
	ring := func(t float32) (points, normals []mgl32.Vec3) {
		center := centerAt(t)
		n := around(t)
		b := n.Cross(tangentAt(t))
		for j := 0; j <= slices; j++ {
			sin, cos := math32.Sincos(float32(j) * sliceStep)
			dir := n.Mul(cos).Add(b.Mul(sin))
			points = append(points, center.Add(dir.Mul(thickness)))
			normals = append(normals, dir)
		}
		return
	}

	for i := 0; i <= segments; i++ {
		t := math32.Min(float32(i)*mgl32.DegToRad(step), total)
		points, normals := ring(t)
		for j := range points {
			m.AddVertex(Vertex{
				Position: points[j],
				Normal:   normals[j],
				Uv:       mgl32.Vec2{float32(i) / float32(segments), float32(j) / float32(slices)},
			})
		}
	}
	addTubeIndices(m, 0, segments, slices)

	addTubeCap(m, ring, 0, tangentAt(0).Mul(-1))
	addTubeCap(m, ring, total, tangentAt(total))
	return m, nil
}

type ringFunc func(t float32) (points, normals []mgl32.Vec3)

// Fan from the centroid of the cross section
func addTubeCap(m *Mesh, ring ringFunc, t float32, normal mgl32.Vec3) {
	points, _ := ring(t)
	points = points[:len(points)-1]
	center := centroid(points)
	c := m.AddVertex(Vertex{Position: center, Normal: normal, Uv: mgl32.Vec2{0.5, 0.5}})
	n := uint32(len(points))
	for i := range points {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		sin, cos := math32.Sincos(angle)
		m.AddVertex(Vertex{Position: points[i], Normal: normal, Uv: mgl32.Vec2{0.5 + 0.5*cos, 0.5 + 0.5*sin}})
	}
	for i := uint32(0); i < n; i++ {
		a, b := c+1+i, c+1+(i+1)%n
		if m.triangleNormal(c, a, b).Dot(normal) < 0 {
			a, b = b, a
		}
		m.AddTriangle(c, a, b)
	}
}

func (m *Mesh) triangleNormal(a, b, c uint32) mgl32.Vec3 {
	pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
	return pb.Sub(pa).Cross(pc.Sub(pa))
}
