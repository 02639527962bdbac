package libgl

import (
	"encoding/binary"
	"log"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type buffer struct {
	glId      uint32
	size      int
	flags     uint32
	immutable bool
}

type UnboundBuffer interface {
	LabeledGlObject
	Id() uint32
	// Immutable storage initialized from data, data must have a fixed size
	Allocate(data any, flags int)
	AllocateEmpty(size int, flags int)
	Grow(size int) bool
	Write(offset int, data any)
	WriteBytes(offset int, data []byte)
	Read(offset int, data any)
	Size() int
	Bind(target uint32) BoundBuffer
	// Binds the buffer to an indexed binding point such as a uniform block
	BindBase(target uint32, index int) BoundBuffer
	Delete()
}

type BoundBuffer interface {
	UnboundBuffer
}

func NewBuffer() UnboundBuffer {
	var id uint32
	gl.CreateBuffers(1, &id)
	return &buffer{
		glId: id,
	}
}

func (buf *buffer) Id() uint32 {
	return buf.glId
}

func (buf *buffer) SetDebugLabel(label string) {
	setObjectLabel(gl.BUFFER, buf.glId, label)
}

func (buf *buffer) Bind(target uint32) BoundBuffer {
	State.BindBuffer(target, buf.glId)
	return buf
}

func (buf *buffer) BindBase(target uint32, index int) BoundBuffer {
	State.BindBufferBase(target, index, buf.glId)
	return buf
}

func (buf *buffer) Size() int {
	return buf.size
}

func (buf *buffer) AllocateEmpty(size int, flags int) {
	buf.mustBeMutable()
	if buf.zeroSize(size) {
		return
	}
	gl.NamedBufferStorage(buf.glId, size, nil, uint32(flags))
	buf.size = size
	buf.flags = uint32(flags)
	buf.immutable = true
}

func (buf *buffer) Allocate(data any, flags int) {
	buf.mustBeMutable()
	size := fixedSize(data)
	if buf.zeroSize(size) {
		return
	}
	gl.NamedBufferStorage(buf.glId, size, Pointer(data), uint32(flags))
	buf.size = size
	buf.flags = uint32(flags)
	buf.immutable = true
}

func (buf *buffer) mustBeMutable() {
	if buf.immutable {
		log.Panicf("buffer %d is immutable", buf.glId)
	}
}

func (buf *buffer) zeroSize(size int) bool {
	if size != 0 {
		return false
	}
	debugNotify(gl.DEBUG_TYPE_ERROR, gl.DEBUG_SEVERITY_MEDIUM, "Zero size allocation for buffer %d", buf.glId)
	return true
}

func fixedSize(data any) int {
	size := binary.Size(data)
	if size == -1 {
		log.Panicf("%T does not have a fixed size", data)
	}
	return size
}

// Grows the buffer so it can hold at least size bytes, keeping its content.
// Returns true if the underlying gl buffer was replaced and has to be rebound.
func (buf *buffer) Grow(size int) bool {
	if size <= buf.size {
		return false
	}
	newSize := buf.size * 2
	if newSize < size {
		newSize = size
	}

	if !buf.immutable {
		var tmp uint32
		gl.CreateBuffers(1, &tmp)
		gl.NamedBufferStorage(tmp, buf.size, nil, 0)
		gl.CopyNamedBufferSubData(buf.glId, tmp, 0, 0, buf.size)
		gl.NamedBufferData(buf.glId, newSize, nil, buf.flags)
		gl.CopyNamedBufferSubData(tmp, buf.glId, 0, 0, buf.size)
		gl.DeleteBuffers(1, &tmp)
		buf.size = newSize
		return false
	}

	var replacement uint32
	gl.CreateBuffers(1, &replacement)
	gl.NamedBufferStorage(replacement, newSize, nil, buf.flags)
	if buf.size > 0 {
		gl.CopyNamedBufferSubData(buf.glId, replacement, 0, 0, buf.size)
	}
	State.forgetBuffer(buf.glId)
	gl.DeleteBuffers(1, &buf.glId)
	buf.glId = replacement
	buf.size = newSize
	return true
}

func (buf *buffer) Write(offset int, data any) {
	gl.NamedBufferSubData(buf.glId, offset, fixedSize(data), Pointer(data))
}

func (buf *buffer) WriteBytes(offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.NamedBufferSubData(buf.glId, offset, len(data), Pointer(data))
}

func (buf *buffer) Read(offset int, data any) {
	gl.GetNamedBufferSubData(buf.glId, offset, fixedSize(data), Pointer(data))
}

func (buf *buffer) Delete() {
	State.forgetBuffer(buf.glId)
	gl.DeleteBuffers(1, &buf.glId)
	buf.glId = 0
}
