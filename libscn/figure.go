package libscn

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/slices"
)

// A drawable instance of a mesh uploaded to a RenderBatch
type Figure struct {
	Name string
	Mesh MeshLocation
	// Keys into RenderBatch.Meshes and the texture table of the textured scene
	MeshName string
	Texture  string
	Position mgl32.Vec3
	// Euler angles in radians, applied in X Y Z order
	Rotation mgl32.Vec3
	Scale    float32
	Color    mgl32.Vec3
	Metal    bool
}

// Rotation first, then translation
func (f *Figure) ModelMatrix() mgl32.Mat4 {
	rotation := mgl32.AnglesToQuat(f.Rotation[0], f.Rotation[1], f.Rotation[2], mgl32.XYZ).Mat4()
	model := mgl32.Translate3D(f.Position[0], f.Position[1], f.Position[2]).Mul4(rotation)
	if f.Scale != 0 && f.Scale != 1 {
		model = model.Mul4(mgl32.Scale3D(f.Scale, f.Scale, f.Scale))
	}
	return model
}

func (f *Figure) IndexCount() int {
	return int(f.Mesh.Indices)
}

// Orders figures so that consecutive draws share their mesh and texture
func SortByMesh(figures []*Figure) {
	slices.SortStableFunc(figures, func(a, b *Figure) int {
		if a.Texture != b.Texture {
			if a.Texture < b.Texture {
				return -1
			}
			return 1
		}
		return int(a.Mesh.BaseIndex) - int(b.Mesh.BaseIndex)
	})
}
