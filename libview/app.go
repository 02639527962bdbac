package libview

import (
	"log"
	"math/rand"

	"compgraph/libapp"
	"compgraph/libgl"
	"compgraph/libscn"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type Options struct {
	Config libapp.Config
	// Scene name in the assets, used without -scene
	Builtin  string
	Textured bool
	// Size of the procedural textures, TextureSize when zero
	TextureSize int
	Blinn       bool
	Seed        int64
	// Camera speed in units per second
	Speed float32
}

// Runs a figure scene until the window is closed, must be called from the main thread.
//
// Keys: Esc quit, F11 fullscreen, LeftAlt frees the cursor and shows the panel,
// B toggles blinn, P pauses and G toggles the gizmos.
func Run(opts Options) (err error) {
	cfg := opts.Config
	scene, err := LoadScene(cfg.Scene, opts.Builtin)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	stage, err := NewStage(scene, rng)
	if err != nil {
		return err
	}
	stage.Light.Blinn = stage.Light.Blinn || opts.Blinn

	win, err := libapp.NewWindow(cfg)
	if err != nil {
		return err
	}
	defer win.Terminate()
	input := libapp.NewInputManager(win.Window)

	gui, err := libapp.NewImGui(win.Window)
	if err != nil {
		return err
	}
	defer gui.Release()

	var renderer *Renderer
	if opts.Textured {
		size := opts.TextureSize
		if size <= 0 {
			size = TextureSize
		}
		renderer, err = NewTexturedRenderer(ProceduralTextures(size))
	} else {
		renderer, err = NewPhongRenderer()
	}
	if err != nil {
		return err
	}
	defer renderer.Release()
	if err := renderer.Upload(stage); err != nil {
		return err
	}

	gizmo, err := libapp.NewDirectBuffer()
	if err != nil {
		return err
	}
	defer gizmo.Release()

	var watcher *libscn.Watcher
	if cfg.Scene != "" {
		watcher, err = libscn.WatchScene(cfg.Scene)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	cam := newSceneCamera(scene)
	if opts.Speed > 0 {
		cam.Speed = opts.Speed
	}
	captured := true
	showGizmo := false
	win.CaptureCursor(captured)

	for !win.ShouldClose() {
		glfw.PollEvents()
		input.Update()

		if reloaded := pollWatcher(watcher); reloaded != nil {
			if err := stage.Load(reloaded, rng); err != nil {
				log.Printf("Keeping the previous scene: %v\n", err)
			} else if err := renderer.Upload(stage); err != nil {
				log.Printf("Could not upload scene %q: %v\n", reloaded.Name, err)
			} else {
				log.Printf("Reloaded scene %q\n", reloaded.Name)
			}
		}

		keyboard := captured || !gui.WantsKeyboard()
		if input.IsKeyTap(glfw.KeyEscape) {
			win.SetShouldClose(true)
		}
		if input.IsKeyTap(glfw.KeyF11) {
			win.ToggleFullscreen()
			log.Printf("Fullscreen %v\n", win.IsFullscreen())
		}
		if input.IsKeyTap(glfw.KeyLeftAlt) {
			captured = !captured
			win.CaptureCursor(captured)
		}
		if keyboard {
			if input.IsKeyTap(glfw.KeyB) {
				stage.Light.Blinn = !stage.Light.Blinn
				log.Printf("Blinn %v\n", stage.Light.Blinn)
			}
			if input.IsKeyTap(glfw.KeyP) {
				stage.Paused = !stage.Paused
			}
			if input.IsKeyTap(glfw.KeyG) {
				showGizmo = !showGizmo
			}
			cam.Update(input, captured)
		}
		stage.Step(input.TimeDelta())

		width, height := win.GetFramebufferSize()
		cam.SetViewport(width, height)
		viewProjection := cam.ViewProjection()

		libgl.State.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		libgl.State.Viewport(0, 0, width, height)
		bg := stage.ClearColor()
		libgl.State.ClearColor(bg[0], bg[1], bg[2], 1)
		libgl.State.DepthMask(true)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		renderer.Draw(stage, viewProjection, cam.Position)
		if showGizmo {
			drawGizmo(gizmo, stage)
			gizmo.Draw(viewProjection)
		}
		if !captured {
			gui.NewFrame()
			stage.Panel(renderer)
			gui.Draw()
		}

		win.SwapBuffers()
	}
	return nil
}

func newSceneCamera(scene *libscn.Scene) *libapp.Camera {
	desc := scene.Camera
	fov := desc.Fov
	if fov == 0 {
		fov = 45
	}
	cam := libapp.NewCamera(desc.Position, desc.Yaw, desc.Pitch, fov)
	cam.Speed = 5
	return cam
}

// Axes at the origin and the light orbit
func drawGizmo(db *libapp.DirectBuffer, stage *Stage) {
	db.Unshaded()
	db.Stroke(0.05)
	db.Axes(mgl32.Vec3{}, 2)
	db.Color(mgl32.Vec3{1, 1, 0.5})
	db.CircleLine(mgl32.Vec3{0, stage.Light.Height, 0}, libapp.WorldUp, stage.Light.Radius)
	db.Shaded()
	db.UvSphere(mgl32.Vec3{0, stage.Light.Height, 0}, 0.1)
}

// The newest reloaded scene, nil when there is none
func pollWatcher(w *libscn.Watcher) *libscn.Scene {
	if w == nil {
		return nil
	}
	var latest *libscn.Scene
	for {
		select {
		case scene := <-w.Scenes:
			latest = scene
		case err := <-w.Errors:
			log.Printf("Scene reload failed: %v\n", err)
		default:
			return latest
		}
	}
}
