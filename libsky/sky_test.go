package libsky_test

import (
	"compgraph/libsky"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunAt(t *testing.T) {
	tests := []struct {
		time float32
		want mgl32.Vec3
	}{
		{0, mgl32.Vec3{0, 0, 1}},
		{0.25, mgl32.Vec3{0, 1, 0}},
		{0.5, mgl32.Vec3{0, 0, -1}},
		{0.75, mgl32.Vec3{0, -1, 0}},
	}
	for _, test := range tests {
		sun := libsky.SunAt(test.time)
		assert.InDelta(t, libsky.SunDistance, sun.Len(), libsky.SunDistance*1e-5)
		dir := sun.Normalize()
		assert.InDeltaSlice(t, test.want[:], dir[:], 1e-4, "sun direction at %v", test.time)
	}
}

func TestDefaultParams(t *testing.T) {
	params := libsky.DefaultParams()
	assert.Equal(t, float32(15), params.Intensity)
	assert.Equal(t, 50, params.ViewSteps)
	assert.Equal(t, 15, params.LightSteps)
	assert.Greater(t, params.AtmosphereRadius, params.PlanetRadius)
	assert.Equal(t, libsky.SunAt(0.5), params.SunPosition)
}

// The compute shader derives directions from the capture matrices while the
// software and opencl paths use the face table, both must agree
func TestDirectionMatchesCaptureBlock(t *testing.T) {
	params := libsky.DefaultParams()
	block := libsky.CaptureBlock(&params)
	samples := [][2]float32{{0, 0}, {-0.75, 0.5}, {0.9, -0.9}, {0.3, 0.8}}

	for face := libsky.CubeMapPositiveX; face <= libsky.CubeMapNegativeZ; face++ {
		for _, s := range samples {
			target := block.InvProjection.Mul4x1(mgl32.Vec4{s[0], s[1], 1, 1})
			view := target.Vec3().Mul(1 / target.W()).Normalize()
			got := block.InvViews[face].Mul4x1(view.Vec4(0)).Vec3().Normalize()
			want := libsky.Direction(face, s[0], s[1]).Normalize()
			assert.InDeltaSlice(t, want[:], got[:], 1e-4, "direction of face %d at %v", face, s)
		}
	}
}

func TestPixelDirectionCenters(t *testing.T) {
	// the center pixel of an odd sized face looks straight through the face
	dir := libsky.PixelDirection(libsky.CubeMapPositiveZ, 2, 2, 5)
	assert.InDelta(t, 0, dir.X(), 1e-6, "center direction is %v", dir)
	assert.InDelta(t, 0, dir.Y(), 1e-6, "center direction is %v", dir)
	assert.InDelta(t, 1, dir.Z(), 1e-6, "center direction is %v", dir)

	// top left pixel of +Z points up and to the left
	dir = libsky.PixelDirection(libsky.CubeMapPositiveZ, 0, 0, 4)
	assert.InDelta(t, -0.75, dir.X(), 1e-6)
	assert.InDelta(t, 0.75, dir.Y(), 1e-6)
}

func TestCubemapFaces(t *testing.T) {
	cm := libsky.NewCubemap(nil, 3)
	for i := range cm.Faces {
		require.Len(t, cm.Faces[i], 3*3*3)
		cm.Faces[i][0] = float32(i + 1)
	}
	data := cm.Concat()
	require.Len(t, data, 6*3*3*3)
	for i := range cm.Faces {
		assert.Equal(t, float32(i+1), data[i*27])
	}

	cm.Faces[libsky.CubeMapNegativeY][(1*3+2)*3+1] = 7
	assert.Equal(t, mgl32.Vec3{0, 7, 0}, cm.At(libsky.CubeMapNegativeY, 2, 1))
}

func TestCross(t *testing.T) {
	size := 2
	cm := libsky.NewCubemap(nil, size)
	for i, face := range cm.Faces {
		for j := range face {
			face[j] = float32(i + 1)
		}
	}

	img := cm.Cross()
	require.Equal(t, 4*size, img.Width)
	require.Equal(t, 3*size, img.Height)
	require.Equal(t, 3, img.Channels)

	// column and row of each face, counted from the top left
	cells := map[libsky.CubeMapFace][2]int{
		libsky.CubeMapPositiveX: {2, 1},
		libsky.CubeMapNegativeX: {0, 1},
		libsky.CubeMapPositiveY: {1, 0},
		libsky.CubeMapNegativeY: {1, 2},
		libsky.CubeMapPositiveZ: {1, 1},
		libsky.CubeMapNegativeZ: {3, 1},
	}
	for face, cell := range cells {
		x := cell[0] * size
		y := img.Height - 1 - cell[1]*size
		is := img.Pix[img.Index(x, y)]
		if is != float32(face+1) {
			t.Errorf("cross cell of face %d should be %v but is %v", face, face+1, is)
		}
	}

	assert.Equal(t, float32(0), img.Pix[img.Index(0, img.Height-1)], "unused corner should be black")
}
