package libmesh_test

import (
	"testing"

	"compgraph/libmesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangleTangents(t *testing.T) {
	m, err := libmesh.Rectangle(2, 1)
	require.NoError(t, err)

	unitX, unitY := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	for i, tan := range libmesh.Tangents(m) {
		assert.InDeltaSlice(t, unitX[:], tan.Tangent[:], 1e-5, "tangent %d", i)
		assert.InDeltaSlice(t, unitY[:], tan.Bitangent[:], 1e-5, "bitangent %d", i)
	}
}

func TestTangentsAreOrthonormal(t *testing.T) {
	for _, name := range []string{"sphere", "cylinder", "torus", "box", "dodecahedron"} {
		m := buildDefault(t, name)
		for i, tan := range libmesh.Tangents(m) {
			n := m.Vertices[i].Normal
			assert.InDelta(t, 1, tan.Tangent.Len(), 1e-3, name)
			assert.InDelta(t, 0, tan.Tangent.Dot(n), 1e-3, name)
			assert.InDelta(t, 0, tan.Bitangent.Dot(n), 1e-3, name)
		}
	}
}

func TestInterleavedWithTangents(t *testing.T) {
	m, _ := libmesh.Rectangle(1, 1)
	assert.Len(t, libmesh.InterleavedWithTangents(m), len(m.Vertices)*14)
}
