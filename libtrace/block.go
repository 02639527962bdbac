package libtrace

import (
	"unsafe"

	"compgraph/libscn"

	"github.com/go-gl/mathgl/mgl32"
)

// std140 layout of the BasicDataBlock uniform block
type CameraBlock struct {
	InvProjection mgl32.Mat4
	InvView       mgl32.Mat4
	// w is unused
	CamPos mgl32.Vec4
}

const (
	CameraBlockSize    = int(unsafe.Sizeof(CameraBlock{}))
	CameraBlockBinding = libscn.UboBasicData
	ObjectsBinding     = libscn.UboGameObjects
)

const (
	Fov  = 100
	Near = 0.005
	Far  = 1000
)

// Perspective projection with a vertical fov in degrees
func Projection(fov float32, width, height int) mgl32.Mat4 {
	if height <= 0 {
		height = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), float32(width)/float32(height), Near, Far)
}

func NewCameraBlock(projection, view mgl32.Mat4, position mgl32.Vec3) CameraBlock {
	return CameraBlock{
		InvProjection: projection.Inv(),
		InvView:       view.Inv(),
		CamPos:        position.Vec4(1),
	}
}
