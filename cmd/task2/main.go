package main

import (
	"flag"
	"log"
	"runtime"

	"compgraph/assets"
	"compgraph/libapp"
	"compgraph/libgl"
	"compgraph/libscn"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type arguments struct {
	Mode  string
	Sides int
	Depth int
}

var Arguments = arguments{
	Mode:  "polygon",
	Sides: 4,
	Depth: 3,
}

var modeKeys = []glfw.Key{glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5, glfw.Key6, glfw.Key7}

func main() {
	cfg := libapp.DefaultConfig("Task 2")
	cfg.Width, cfg.Height = 800, 800
	cfg.RegisterFlags(flag.CommandLine)
	flag.StringVar(&Arguments.Mode, "mode", Arguments.Mode, "triangle, rectangle, polygon, circle, fractal, orbit or wave")
	flag.IntVar(&Arguments.Sides, "sides", Arguments.Sides, "number of polygon sides")
	flag.IntVar(&Arguments.Depth, "depth", Arguments.Depth, "fractal recursion depth")
	flag.Parse()

	current, err := modeIndex(Arguments.Mode)
	check(err)
	meshes, err := buildModes(&Arguments)
	check(err)

	runtime.LockOSThread()
	win, err := libapp.NewWindow(cfg)
	check(err)
	defer win.Terminate()
	input := libapp.NewInputManager(win.Window)

	shader, err := libgl.NewRenderPipeline(assets.MustShader("flat.vert"), assets.MustShader("flat.frag"), nil)
	check(err)
	defer shader.Delete()

	batch := libscn.NewRenderBatch(false, 4096)
	defer batch.Delete()
	for _, m := range meshes {
		batch.Upload(m)
	}

	wireframe := false
	tick := 0
	libgl.State.ClearColor(0.2, 0.3, 0.3, 1)

	for !win.ShouldClose() {
		glfw.PollEvents()
		input.Update()

		if input.IsKeyTap(glfw.KeyEscape) {
			win.SetShouldClose(true)
		}
		if input.IsKeyTap(glfw.KeyF11) {
			win.ToggleFullscreen()
		}
		if input.IsKeyTap(glfw.KeyLeftAlt) {
			wireframe = !wireframe
		}
		for i, key := range modeKeys {
			if input.IsKeyTap(key) && i != current {
				current = i
				tick = 0
				log.Printf("Mode %s\n", modes[current].name)
			}
		}
		tick++

		width, height := win.GetFramebufferSize()
		libgl.State.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		libgl.State.Viewport(0, 0, width, height)
		libgl.State.SetEnabled()
		if wireframe {
			libgl.State.PolygonMode(gl.LINE)
		} else {
			libgl.State.PolygonMode(gl.FILL)
		}
		gl.Clear(gl.COLOR_BUFFER_BIT)

		m := modes[current]
		shader.Bind()
		vs := shader.VertexStage()
		vs.SetUniform("u_transform_mat", m.transform(tick))
		shader.FragmentStage().SetUniform("u_color", mgl32.Vec3{1, 0.5, 0.2})
		batch.Bind()
		batch.Draw(batch.Meshes[m.name], gl.TRIANGLES)

		win.SwapBuffers()
	}
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
