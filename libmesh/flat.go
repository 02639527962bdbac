package libmesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex count of Circle, high enough to look round at any window size
const CircleSides = 1000

var unitZ = mgl32.Vec3{0, 0, 1}

// Regular polygon in the XY plane facing +Z. The center vertex comes first,
// followed by sides+1 rim vertices where the last duplicates the first for the uv seam.
func Polygon(sides int, radius, angleDeg float32, offset mgl32.Vec3) (*Mesh, error) {
	if sides < 3 {
		return nil, invalid("polygon needs at least 3 sides, got %d", sides)
	}
	if radius <= 0 {
		return nil, invalid("polygon radius must be positive, got %v", radius)
	}

	m := New("polygon")
	m.Vertices = make([]Vertex, 0, sides+2)
	m.Indices = make([]uint32, 0, sides*3)

	m.AddVertex(Vertex{Normal: unitZ, Uv: mgl32.Vec2{0.5, 0.5}})
	start := mgl32.DegToRad(angleDeg)
	step := 2 * math32.Pi / float32(sides)
	for i := 0; i <= sides; i++ {
		sin, cos := math32.Sincos(start + float32(i)*step)
		m.AddVertex(Vertex{
			Position: mgl32.Vec3{radius * cos, radius * sin, 0},
			Normal:   unitZ,
			Uv:       mgl32.Vec2{0.5 + 0.5*cos, 0.5 + 0.5*sin},
		})
	}
	for i := uint32(1); i <= uint32(sides); i++ {
		m.AddTriangle(0, i, i+1)
	}
	m.Translate(offset)
	return m, nil
}

// Polygon sized by its circumscribed diameter
func PolygonScaled(sides int, scale, angleDeg float32, offset mgl32.Vec3) (*Mesh, error) {
	return Polygon(sides, 0.5*scale, angleDeg, offset)
}

func Circle(radius float32) (*Mesh, error) {
	m, err := Polygon(CircleSides, radius, 0, mgl32.Vec3{})
	if m != nil {
		m.Name = "circle"
	}
	return m, err
}

// Equilateral triangle with the given side length, pointing up
func Triangle(size float32) (*Mesh, error) {
	if size <= 0 {
		return nil, invalid("triangle size must be positive, got %v", size)
	}
	m, err := Polygon(3, size/math32.Sqrt(3), 90, mgl32.Vec3{})
	if m != nil {
		m.Name = "triangle"
	}
	return m, err
}

func Rectangle(width, height float32) (*Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, invalid("rectangle size must be positive, got %vx%v", width, height)
	}
	hw, hh := width/2, height/2
	m := New("rectangle")
	m.AddFace([]mgl32.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}},
		[]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	return m, nil
}

// Axis aligned square whose circumscribed diameter is scale
func Square(center mgl32.Vec3, scale float32) (*Mesh, error) {
	m, err := PolygonScaled(4, scale, 45, center)
	if m != nil {
		m.Name = "square"
	}
	return m, err
}

type direction int

const (
	north direction = iota
	east
	south
	west
	nowhere
)

var directionOffsets = [4]mgl32.Vec3{
	north: {0, 1, 0},
	east:  {1, 0, 0},
	south: {0, -1, 0},
	west:  {-1, 0, 0},
}

func (d direction) opposite() direction {
	return (d + 2) % 4
}

// Child squares touch the edge of their parent
func fractalOffset(scale float32) float32 {
	return 1.4 * scale / 4 / math32.Sin(math32.Atan(1))
}

const fractalChildScale = 1 / 2.5

// Number of squares FractalSquares emits
func FractalSquareCount(depth int) int {
	pow := 1
	for i := 0; i < depth; i++ {
		pow *= 3
	}
	return 1 + 4*(pow-1)/2
}

// Recursive square pattern. The root spawns a child on every side,
// every further child spawns on the three sides that do not face its parent.
func FractalSquares(depth int, scale float32) (*Mesh, error) {
	if depth < 0 {
		return nil, invalid("fractal depth must not be negative, got %d", depth)
	}
	if scale <= 0 {
		return nil, invalid("fractal scale must be positive, got %v", scale)
	}
	m := New("fractal")
	if err := addFractal(m, mgl32.Vec3{}, scale, depth, nowhere); err != nil {
		return nil, err
	}
	return m, nil
}

// parent is the side the parent square lies on
func addFractal(m *Mesh, center mgl32.Vec3, scale float32, depth int, parent direction) error {
	square, err := Square(mgl32.Vec3{}, scale)
	if err != nil {
		return err
	}
	square.Translate(center)
	m.Merge(square)
	if depth == 0 {
		return nil
	}
	offset := fractalOffset(scale)
	for dir := north; dir <= west; dir++ {
		if dir == parent {
			continue
		}
		child := center.Add(directionOffsets[dir].Mul(offset))
		if err := addFractal(m, child, scale*fractalChildScale, depth-1, dir.opposite()); err != nil {
			return err
		}
	}
	return nil
}
