package libmesh

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/slices"
)

type Param struct {
	Name    string
	Default float32
}

type Params map[string]float32

func (p Params) Float(name string) float32 {
	return p[name]
}

func (p Params) Int(name string) int {
	return int(p[name])
}

type ShapeSpec struct {
	Description string
	Params      []Param
	Build       func(p Params) (*Mesh, error)
}

// Resolves overrides against the defaults, unknown names are rejected
func (spec ShapeSpec) Resolve(overrides map[string]float32) (Params, error) {
	params := make(Params, len(spec.Params))
	for _, p := range spec.Params {
		params[p.Name] = p.Default
	}
	for name, v := range overrides {
		key := strings.ToLower(name)
		if _, ok := params[key]; !ok {
			return nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidParameter, name)
		}
		params[key] = v
	}
	return params, nil
}

var Shapes = map[string]ShapeSpec{
	"triangle": {
		Description: "equilateral triangle in the XY plane",
		Params:      []Param{{"size", 1}},
		Build:       func(p Params) (*Mesh, error) { return Triangle(p.Float("size")) },
	},
	"rectangle": {
		Description: "rectangle in the XY plane",
		Params:      []Param{{"width", 1}, {"height", 1}},
		Build:       func(p Params) (*Mesh, error) { return Rectangle(p.Float("width"), p.Float("height")) },
	},
	"polygon": {
		Description: "regular polygon in the XY plane",
		Params:      []Param{{"sides", 6}, {"scale", 1}, {"angle", 0}},
		Build: func(p Params) (*Mesh, error) {
			return PolygonScaled(p.Int("sides"), p.Float("scale"), p.Float("angle"), mgl32.Vec3{})
		},
	},
	"circle": {
		Description: "circle in the XY plane",
		Params:      []Param{{"radius", 0.5}},
		Build:       func(p Params) (*Mesh, error) { return Circle(p.Float("radius")) },
	},
	"square": {
		Description: "axis aligned square in the XY plane",
		Params:      []Param{{"scale", 1}},
		Build:       func(p Params) (*Mesh, error) { return Square(mgl32.Vec3{}, p.Float("scale")) },
	},
	"fractal": {
		Description: "recursive squares",
		Params:      []Param{{"depth", 3}, {"scale", 1}},
		Build:       func(p Params) (*Mesh, error) { return FractalSquares(p.Int("depth"), p.Float("scale")) },
	},
	"cylinder": {
		Description: "frustum with caps around Y",
		Params:      []Param{{"top", 0.5}, {"bottom", 0.5}, {"height", 1}, {"slices", DefaultSlices}},
		Build: func(p Params) (*Mesh, error) {
			return Cylinder(p.Float("top"), p.Float("bottom"), p.Float("height"), p.Int("slices"))
		},
	},
	"prism": {
		Description: "four sided frustum",
		Params:      []Param{{"top", 0.5}, {"bottom", 0.5}, {"height", 1}},
		Build: func(p Params) (*Mesh, error) {
			return Prism(p.Float("top"), p.Float("bottom"), p.Float("height"))
		},
	},
	"pyramid": {
		Description: "n sided pyramid",
		Params:      []Param{{"radius", 0.5}, {"height", 1}, {"sides", 4}},
		Build: func(p Params) (*Mesh, error) {
			return Pyramid(p.Float("radius"), p.Float("height"), p.Int("sides"))
		},
	},
	"cone": {
		Description: "cone around Y",
		Params:      []Param{{"radius", 0.5}, {"height", 1}},
		Build:       func(p Params) (*Mesh, error) { return Cone(p.Float("radius"), p.Float("height")) },
	},
	"sphere": {
		Description: "uv sphere",
		Params:      []Param{{"radius", 0.5}, {"sectors", DefaultSectors}, {"stacks", DefaultStacks}},
		Build: func(p Params) (*Mesh, error) {
			return Sphere(p.Float("radius"), p.Int("sectors"), p.Int("stacks"))
		},
	},
	"torus": {
		Description: "ring around Y",
		Params:      []Param{{"tube", 0.15}, {"ring", 0.5}, {"slices", TorusDefaultRes}, {"loops", TorusDefaultRes}},
		Build: func(p Params) (*Mesh, error) {
			return Torus(p.Float("tube"), p.Float("ring"), p.Int("slices"), p.Int("loops"))
		},
	},
	"spring": {
		Description: "helical tube around Y",
		Params:      []Param{{"rounds", 3}, {"height", 1.5}, {"thickness", 0.08}, {"radius", 0.5}, {"slices", SpringSlices}, {"step", SpringStepDeg}},
		Build: func(p Params) (*Mesh, error) {
			return Spring(p.Float("rounds"), p.Float("height"), p.Float("thickness"), p.Float("radius"), p.Int("slices"), p.Float("step"))
		},
	},
	"parallelepiped": {
		Description: "box with a sheared top",
		Params:      []Param{{"length", 1}, {"width", 1}, {"height", 1}, {"angle", 30}},
		Build: func(p Params) (*Mesh, error) {
			return Parallelepiped(p.Float("length"), p.Float("width"), p.Float("height"), p.Float("angle"))
		},
	},
	"box": {
		Description: "axis aligned box",
		Params:      []Param{{"length", 1}, {"width", 1}, {"height", 1}},
		Build: func(p Params) (*Mesh, error) {
			return Box(p.Float("length"), p.Float("width"), p.Float("height"))
		},
	},
	"tent": {
		Description: "triangular prism with the ridge along Z",
		Params:      []Param{{"length", 1}, {"width", 1}, {"height", 0.5}},
		Build: func(p Params) (*Mesh, error) {
			return Tent(p.Float("length"), p.Float("width"), p.Float("height"))
		},
	},
	"square_angle_pyramid": {
		Description: "triangular pyramid with one face perpendicular to the base",
		Params:      []Param{{"length", 0.2}, {"width", 0.7}, {"height", 2}},
		Build: func(p Params) (*Mesh, error) {
			return SquareAnglePyramid(p.Float("length"), p.Float("width"), p.Float("height"))
		},
	},
	"rect_frustum": {
		Description: "frustum with rectangular faces",
		Params:      []Param{{"top_width", 0.5}, {"top_length", 0.5}, {"bottom_width", 1}, {"bottom_length", 1}, {"height", 1}},
		Build: func(p Params) (*Mesh, error) {
			return RectFrustum(p.Float("top_width"), p.Float("top_length"), p.Float("bottom_width"), p.Float("bottom_length"), p.Float("height"))
		},
	},
	"tetrahedron": {
		Description: "regular tetrahedron",
		Params:      []Param{{"radius", 0.5}},
		Build:       func(p Params) (*Mesh, error) { return Tetrahedron(p.Float("radius")) },
	},
	"hexahedron": {
		Description: "cube",
		Params:      []Param{{"radius", 0.5}},
		Build:       func(p Params) (*Mesh, error) { return Hexahedron(p.Float("radius")) },
	},
	"octahedron": {
		Description: "regular octahedron",
		Params:      []Param{{"radius", 0.5}},
		Build:       func(p Params) (*Mesh, error) { return Octahedron(p.Float("radius")) },
	},
	"icosahedron": {
		Description: "regular icosahedron",
		Params:      []Param{{"radius", 0.5}},
		Build:       func(p Params) (*Mesh, error) { return Icosahedron(p.Float("radius")) },
	},
	"dodecahedron": {
		Description: "regular dodecahedron",
		Params:      []Param{{"radius", 0.5}},
		Build:       func(p Params) (*Mesh, error) { return Dodecahedron(p.Float("radius")) },
	},
}

func ShapeNames() []string {
	names := make([]string, 0, len(Shapes))
	for name := range Shapes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Builds a registered shape, params override its defaults
func Build(shape string, params map[string]float32) (*Mesh, error) {
	spec, ok := Shapes[strings.ToLower(shape)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown shape %q", ErrInvalidParameter, shape)
	}
	resolved, err := spec.Resolve(params)
	if err != nil {
		return nil, fmt.Errorf("could not build %q: %w", shape, err)
	}
	m, err := spec.Build(resolved)
	if err != nil {
		return nil, fmt.Errorf("could not build %q: %w", shape, err)
	}
	m.Name = strings.ToLower(shape)
	return m, nil
}
