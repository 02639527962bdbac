package libmesh_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"compgraph/libio"
	"compgraph/libmesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecShortIndicesArePadded(t *testing.T) {
	// a single triangle has an odd index count, the stream ends on a 4 byte boundary
	m, err := libmesh.Polygon(3, 1, 0, mgl32.Vec3{})
	require.NoError(t, err)
	m.Indices = m.Indices[:3]

	buf := &bytes.Buffer{}
	require.NoError(t, libmesh.Encode(buf, m))
	unpadded := 16 + len(m.Name) + len(m.Vertices)*libmesh.VertexSize + 3*2
	assert.Equal(t, (unpadded+3)/4*4, buf.Len())

	decoded, err := libmesh.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestCodecManyIndicesStayShort(t *testing.T) {
	m, err := libmesh.Sphere(1, 200, 200)
	require.NoError(t, err)
	require.Greater(t, len(m.Indices), 0xffff)
	require.LessOrEqual(t, len(m.Vertices), 0xffff)

	buf := &bytes.Buffer{}
	require.NoError(t, libmesh.Encode(buf, m))
	unpadded := 16 + len(m.Name) + len(m.Vertices)*libmesh.VertexSize + len(m.Indices)*2
	assert.Equal(t, (unpadded+3)/4*4, buf.Len())

	decoded, err := libmesh.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, m.Indices, decoded.Indices)
}

func TestCodecLongIndices(t *testing.T) {
	// few indices but a vertex beyond the uint16 range
	m := libmesh.New("wide")
	m.Vertices = make([]libmesh.Vertex, 0x10000+5)
	m.Vertices[0x10000+4].Position = mgl32.Vec3{1, 2, 3}
	m.Indices = []uint32{0, 0x10000 + 4, 0xffff}

	buf := &bytes.Buffer{}
	require.NoError(t, libmesh.Encode(buf, m))
	assert.Equal(t, 16+len(m.Name)+len(m.Vertices)*libmesh.VertexSize+3*4, buf.Len())

	decoded, err := libmesh.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, m.Indices, decoded.Indices)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, decoded.Vertices[decoded.Indices[1]].Position)
}

func TestEncodeRejectsOutOfRangeIndex(t *testing.T) {
	m, err := libmesh.Rectangle(1, 1)
	require.NoError(t, err)
	m.Indices[2] = uint32(len(m.Vertices))

	buf := &bytes.Buffer{}
	err = libmesh.Encode(buf, m)
	assert.True(t, errors.Is(err, libmesh.ErrInvalidMesh), "%v", err)
	assert.Zero(t, buf.Len())
}

func TestSaveLoadCompressed(t *testing.T) {
	m := buildDefault(t, "torus")
	path := filepath.Join(t.TempDir(), "torus.geo.lz4")

	require.NoError(t, libmesh.Save(path, m, lz4.Fast))
	loaded, err := libmesh.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Name, loaded.Name)
	assert.Equal(t, m.Vertices, loaded.Vertices)
	assert.Equal(t, m.Indices, loaded.Indices)
}

func TestDecodeCorruptHeader(t *testing.T) {
	_, err := libmesh.Decode(bytes.NewReader(make([]byte, 32)))
	assert.True(t, errors.Is(err, libio.ErrCorruptHeader), "%v", err)
}

func TestDecodeTruncated(t *testing.T) {
	m := buildDefault(t, "box")
	buf := &bytes.Buffer{}
	require.NoError(t, libmesh.Encode(buf, m))
	_, err := libmesh.Decode(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.Error(t, err)
}
