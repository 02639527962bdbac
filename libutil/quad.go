package libutil

import (
	"compgraph/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
)

var fullscreen struct {
	vao libgl.UnboundVertexArray
	vbo libgl.UnboundBuffer
}

// One triangle covering all of clip space, positions are a vec2 at location 0.
// The vertex array is created on first use in the current context.
func DrawFullscreen() {
	if fullscreen.vao == nil {
		fullscreen.vbo = libgl.NewBuffer()
		fullscreen.vbo.SetDebugLabel("fullscreen triangle")
		fullscreen.vbo.Allocate([]float32{-1, -1, 3, -1, -1, 3}, 0)

		fullscreen.vao = libgl.NewVertexArray()
		fullscreen.vao.Layout(0, 0, 2, gl.FLOAT, false, 0)
		fullscreen.vao.BindBuffer(0, fullscreen.vbo, 0, 2*4)
	}

	fullscreen.vao.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

func ReleaseFullscreen() {
	if fullscreen.vao == nil {
		return
	}
	fullscreen.vao.Delete()
	fullscreen.vbo.Delete()
	fullscreen.vao, fullscreen.vbo = nil, nil
}
