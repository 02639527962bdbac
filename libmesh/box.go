package libmesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var quadUvs = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func positive(name string, values ...float32) error {
	for _, v := range values {
		if v <= 0 || math32.IsNaN(v) {
			return invalid("%s sizes must be positive, got %v", name, values)
		}
	}
	return nil
}

// Builds a convex solid from faces given as corner indices
func convexSolid(name string, corners []mgl32.Vec3, faces [][]int) *Mesh {
	m := New(name)
	center := centroid(corners)
	for _, face := range faces {
		positions := make([]mgl32.Vec3, len(face))
		for i, c := range face {
			positions[i] = corners[c]
		}
		var uvs []mgl32.Vec2
		if len(face) == 4 {
			uvs = quadUvs
		}
		m.addOutwardFace(center, positions, uvs)
	}
	return m
}

var hexahedronFaces = [][]int{
	{0, 1, 2, 3}, // bottom
	{4, 5, 6, 7}, // top
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

// Box with length along X, width along Z and height along Y.
// The top face is shifted along +X by sin(angleDeg).
func Parallelepiped(length, width, height, angleDeg float32) (*Mesh, error) {
	if err := positive("parallelepiped", length, width, height); err != nil {
		return nil, err
	}
	hl, hw, hh := length/2, width/2, height/2
	shift := math32.Sin(mgl32.DegToRad(angleDeg))
	corners := []mgl32.Vec3{
		{-hl, -hh, -hw}, {hl, -hh, -hw}, {hl, -hh, hw}, {-hl, -hh, hw},
		{-hl + shift, hh, -hw}, {hl + shift, hh, -hw}, {hl + shift, hh, hw}, {-hl + shift, hh, hw},
	}
	return convexSolid("parallelepiped", corners, hexahedronFaces), nil
}

func Box(length, width, height float32) (*Mesh, error) {
	m, err := Parallelepiped(length, width, height, 0)
	if m != nil {
		m.Name = "box"
	}
	return m, err
}

// Triangular prism lying on its side, the ridge runs along Z
func Tent(length, width, height float32) (*Mesh, error) {
	if err := positive("tent", length, width, height); err != nil {
		return nil, err
	}
	hl, hw, hh := length/2, width/2, height/2
	corners := []mgl32.Vec3{
		{-hw, -hh, -hl}, {hw, -hh, -hl}, {hw, -hh, hl}, {-hw, -hh, hl},
		{0, hh, -hl}, {0, hh, hl},
	}
	faces := [][]int{
		{0, 1, 2, 3},
		{1, 2, 5, 4},
		{3, 0, 4, 5},
		{0, 1, 4},
		{2, 3, 5},
	}
	return convexSolid("tent", corners, faces), nil
}

// Triangular pyramid on an elliptic base, width along X and length along Z.
// The apex sits above the middle of the edge opposite the +X corner
// so that face stands perpendicular to the base.
func SquareAnglePyramid(length, width, height float32) (*Mesh, error) {
	if err := positive("square angle pyramid", length, width, height); err != nil {
		return nil, err
	}
	hh := height / 2
	corners := make([]mgl32.Vec3, 0, 4)
	for i := 0; i < 3; i++ {
		sin, cos := math32.Sincos(float32(i) * 2 * math32.Pi / 3)
		corners = append(corners, mgl32.Vec3{width * cos, -hh, length * sin})
	}
	corners = append(corners, mgl32.Vec3{width * math32.Cos(2*math32.Pi/3), hh, 0})
	faces := [][]int{
		{0, 1, 2},
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
	}
	return convexSolid("square_angle_pyramid", corners, faces), nil
}

// Frustum with rectangular top and bottom faces, widths along X and lengths along Z
func RectFrustum(topWidth, topLength, bottomWidth, bottomLength, height float32) (*Mesh, error) {
	if err := positive("rect frustum", topWidth, topLength, bottomWidth, bottomLength, height); err != nil {
		return nil, err
	}
	hh := height / 2
	tw, tl := topWidth/2, topLength/2
	bw, bl := bottomWidth/2, bottomLength/2
	corners := []mgl32.Vec3{
		{-bw, -hh, -bl}, {bw, -hh, -bl}, {bw, -hh, bl}, {-bw, -hh, bl},
		{-tw, hh, -tl}, {tw, hh, -tl}, {tw, hh, tl}, {-tw, hh, tl},
	}
	return convexSolid("rect_frustum", corners, hexahedronFaces), nil
}
