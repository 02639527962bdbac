package libscn

import (
	"log"
	"unsafe"

	"compgraph/libgl"
	"compgraph/libmesh"

	"github.com/go-gl/gl/v4.5-core/gl"
)

const TangentSize = int(unsafe.Sizeof(libmesh.Tangent{}))

// Shared vertex and element buffers for many meshes, drawn with a base vertex
type RenderBatch struct {
	VertexArray   libgl.UnboundVertexArray
	VertexBuffer  libgl.UnboundBuffer
	ElementBuffer libgl.UnboundBuffer
	// Only present for batches created with tangents
	TangentBuffer   libgl.UnboundBuffer
	Meshes          map[string]MeshLocation
	vertexPosition  int
	tangentPosition int
	elementPosition int
}

type MeshLocation struct {
	BaseVertex int32
	// Byte offset into the element buffer
	BaseIndex uint32
	Indices   uint32
}

// Attributes are position 0, normal 1, uv 2 and optionally tangent 3, bitangent 4
func NewRenderBatch(tangents bool, capacity int) *RenderBatch {
	vertices := libgl.NewBuffer()
	vertices.SetDebugLabel("batch vertices")
	vertices.AllocateEmpty(capacity*libmesh.VertexSize, gl.DYNAMIC_STORAGE_BIT)

	elements := libgl.NewBuffer()
	elements.SetDebugLabel("batch elements")
	elements.AllocateEmpty(capacity*3*libmesh.ElementIndexSize, gl.DYNAMIC_STORAGE_BIT)

	vao := libgl.NewVertexArray()
	vao.Layout(0, 0, 3, gl.FLOAT, false, int(unsafe.Offsetof(libmesh.Vertex{}.Position)))
	vao.Layout(0, 1, 3, gl.FLOAT, false, int(unsafe.Offsetof(libmesh.Vertex{}.Normal)))
	vao.Layout(0, 2, 2, gl.FLOAT, false, int(unsafe.Offsetof(libmesh.Vertex{}.Uv)))
	vao.BindBuffer(0, vertices, 0, libmesh.VertexSize)
	vao.BindElementBuffer(elements)

	batch := &RenderBatch{
		VertexArray:   vao,
		VertexBuffer:  vertices,
		ElementBuffer: elements,
		Meshes:        map[string]MeshLocation{},
	}

	if tangents {
		batch.TangentBuffer = libgl.NewBuffer()
		batch.TangentBuffer.SetDebugLabel("batch tangents")
		batch.TangentBuffer.AllocateEmpty(capacity*TangentSize, gl.DYNAMIC_STORAGE_BIT)
		vao.Layout(1, 3, 3, gl.FLOAT, false, int(unsafe.Offsetof(libmesh.Tangent{}.Tangent)))
		vao.Layout(1, 4, 3, gl.FLOAT, false, int(unsafe.Offsetof(libmesh.Tangent{}.Bitangent)))
		vao.BindBuffer(1, batch.TangentBuffer, 0, TangentSize)
	}

	return batch
}

// Uploads a mesh and remembers its location under the mesh name
func (batch *RenderBatch) Upload(mesh *libmesh.Mesh) MeshLocation {
	verticesSize := len(mesh.Vertices) * libmesh.VertexSize
	if batch.VertexBuffer.Grow(batch.vertexPosition + verticesSize) {
		batch.VertexArray.ReBindBuffer(0, batch.VertexBuffer)
	}
	batch.VertexBuffer.Write(batch.vertexPosition, mesh.Vertices)
	location := MeshLocation{
		BaseVertex: int32(batch.vertexPosition / libmesh.VertexSize),
	}
	batch.vertexPosition += verticesSize

	if batch.TangentBuffer != nil {
		tangents := libmesh.Tangents(mesh)
		tangentsSize := len(tangents) * TangentSize
		if batch.TangentBuffer.Grow(batch.tangentPosition + tangentsSize) {
			batch.VertexArray.ReBindBuffer(1, batch.TangentBuffer)
		}
		batch.TangentBuffer.Write(batch.tangentPosition, tangents)
		batch.tangentPosition += tangentsSize
	}

	indicesSize := len(mesh.Indices) * libmesh.ElementIndexSize
	if batch.ElementBuffer.Grow(batch.elementPosition + indicesSize) {
		batch.VertexArray.BindElementBuffer(batch.ElementBuffer)
	}
	batch.ElementBuffer.Write(batch.elementPosition, mesh.Indices)
	location.BaseIndex = uint32(batch.elementPosition)
	location.Indices = uint32(len(mesh.Indices))
	batch.elementPosition += indicesSize

	if _, ok := batch.Meshes[mesh.Name]; ok {
		log.Printf("Mesh %q is uploaded more than once\n", mesh.Name)
	}
	batch.Meshes[mesh.Name] = location
	return location
}

func (batch *RenderBatch) Bind() {
	batch.VertexArray.Bind()
}

// The batch must be bound
func (batch *RenderBatch) Draw(location MeshLocation, mode uint32) {
	if location.Indices == 0 {
		return
	}
	gl.DrawElementsBaseVertex(mode, int32(location.Indices), gl.UNSIGNED_INT, gl.PtrOffset(int(location.BaseIndex)), location.BaseVertex)
}

func (batch *RenderBatch) Delete() {
	batch.VertexArray.Delete()
	batch.VertexBuffer.Delete()
	batch.ElementBuffer.Delete()
	if batch.TangentBuffer != nil {
		batch.TangentBuffer.Delete()
	}
}
