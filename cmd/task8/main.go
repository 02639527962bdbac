package main

import (
	"flag"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"compgraph/libapp"
	"compgraph/libgl"
	"compgraph/libscn"
	"compgraph/libsky"
	"compgraph/libtrace"
	"compgraph/libutil"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var Arguments = struct {
	Settings  string
	Random    int
	Seed      int64
	SkySize   int
	TimeOfDay float64
	Snapshots string
}{
	Random:    0,
	Seed:      1,
	SkySize:   256,
	TimeOfDay: libsky.DefaultTimeOfDay,
	Snapshots: "snapshots",
}

// WASD move, E and Q fly up and down, Space pauses and shows the settings,
// R restarts the accumulation, N scatters new random objects,
// F2 saves a png and F3 a float snapshot, F11 toggles fullscreen
func main() {
	cfg := libapp.DefaultConfig("Path Tracer")
	cfg.Width, cfg.Height = 800, 600
	cfg.RegisterFlags(flag.CommandLine)
	flag.StringVar(&Arguments.Settings, "settings", Arguments.Settings, "path tracer settings yaml file")
	flag.IntVar(&Arguments.Random, "random", Arguments.Random, "number of random spheres to add, a quarter as many cuboids are added too")
	flag.Int64Var(&Arguments.Seed, "seed", Arguments.Seed, "seed of the random objects")
	flag.IntVar(&Arguments.SkySize, "sky-size", Arguments.SkySize, "edge length of the sky cube map faces")
	flag.Float64Var(&Arguments.TimeOfDay, "time", Arguments.TimeOfDay, "time of day in [0, 1), 0.25 is noon")
	flag.StringVar(&Arguments.Snapshots, "snapshots", Arguments.Snapshots, "directory for snapshots")
	flag.Parse()

	check(checkSkyGenerator(cfg.Sky))
	settings, err := loadSettings(Arguments.Settings)
	check(err)
	seed := Arguments.Seed
	w, err := loadWorld(cfg.Scene, Arguments.Random, seed)
	check(err)

	runtime.LockOSThread()
	win, err := libapp.NewWindow(cfg)
	check(err)
	defer win.Terminate()
	input := libapp.NewInputManager(win.Window)

	gui, err := libapp.NewImGui(win.Window)
	check(err)
	defer gui.Release()
	defer libutil.ReleaseFullscreen()

	timeOfDay := float32(Arguments.TimeOfDay)
	skyParams := libsky.DefaultParams()
	skyParams.SunPosition = libsky.SunAt(timeOfDay)
	env, err := newEnvironment(cfg.Sky, skyParams, Arguments.SkySize)
	check(err)
	defer env.Release()

	width, height := win.GetFramebufferSize()
	tracer, err := libtrace.NewPathTracer(width, height, settings)
	check(err)
	defer tracer.Release()
	check(tracer.SetObjects(&w.objects))

	post, err := libtrace.NewPostProcessor(width, height)
	check(err)
	defer post.Release()

	var watcher *libscn.Watcher
	if cfg.Scene != "" {
		watcher, err = libscn.WatchScene(cfg.Scene)
		check(err)
		defer watcher.Close()
	}

	desc := w.scene.Camera
	cam := newTraceCamera(desc)

	paused := false
	win.CaptureCursor(true)

	rebuild := func(scene *libscn.Scene) {
		next, err := buildWorld(scene, Arguments.Random, seed)
		if err != nil {
			log.Printf("Keeping the previous scene: %v\n", err)
			return
		}
		if err := tracer.SetObjects(&next.objects); err != nil {
			log.Printf("Could not upload scene %q: %v\n", scene.Name, err)
			return
		}
		w = next
		counts := w.objects.Counts()
		log.Printf("Loaded scene %q with %v spheres and %v cuboids\n", w.scene.Name, counts[0], counts[1])
	}

	snapshot := func(ext string) {
		path := filepath.Join(Arguments.Snapshots, libtrace.SnapshotName(time.Now(), ext))
		err := libtrace.WriteSnapshot(path, tracer.Snapshot(), libtrace.SnapshotOptions{
			Exposure: post.Exposure,
			Gamma:    post.Gamma,
		})
		if err != nil {
			log.Printf("Snapshot failed: %v\n", err)
			return
		}
		log.Printf("Saved %s after %d frames\n", path, tracer.Accumulator.Frame())
	}

	for !win.ShouldClose() {
		glfw.PollEvents()
		input.Update()

		if watcher != nil {
			select {
			case scene := <-watcher.Scenes:
				rebuild(scene)
			case err := <-watcher.Errors:
				log.Printf("Scene reload failed: %v\n", err)
			default:
			}
		}

		keyboard := !paused || !gui.WantsKeyboard()
		if input.IsKeyTap(glfw.KeyEscape) {
			win.SetShouldClose(true)
		}
		if input.IsKeyTap(glfw.KeyF11) {
			win.ToggleFullscreen()
		}
		if input.IsKeyTap(glfw.KeySpace) && keyboard {
			paused = !paused
			win.CaptureCursor(!paused)
			cam.Stop()
		}
		if keyboard {
			if input.IsKeyTap(glfw.KeyR) {
				tracer.Accumulator.Reset()
			}
			if input.IsKeyTap(glfw.KeyN) {
				seed++
				rebuild(w.scene)
			}
			if input.IsKeyTap(glfw.KeyF2) {
				snapshot(".png")
			}
			if input.IsKeyTap(glfw.KeyF3) {
				snapshot(".f32")
			}
		}
		if paused && input.IsMouseTap(glfw.MouseButtonLeft) && !gui.WantsMouse() {
			// clicking the image resumes
			paused = false
			win.CaptureCursor(true)
		}
		if !paused {
			cam.Update(input, true)
		}

		width, height := win.GetFramebufferSize()
		if width == 0 || height == 0 {
			// minimized
			continue
		}
		if tw, th := tracer.Size(); tw != width || th != height {
			tracer.Resize(width, height)
			post.Resize(width, height)
		}
		tracer.SetCamera(cameraBlock(cam, width, height))

		hdr := tracer.Render(env.Texture, env.Sampler)
		post.Render(hdr)
		post.Present(width, height)

		if paused {
			gui.NewFrame()
			actions := drawPanel(tracer, post, &w.objects, &timeOfDay)
			gui.Draw()
			if actions.Reset {
				tracer.Accumulator.Reset()
			}
			if actions.Snapshot {
				snapshot(".png")
			}
			if actions.Randomize {
				seed++
				rebuild(w.scene)
			}
			if actions.Sky {
				skyParams.SunPosition = libsky.SunAt(timeOfDay)
				if err := env.Generate(skyParams, Arguments.SkySize); err != nil {
					log.Printf("Keeping the previous sky: %v\n", err)
				} else {
					tracer.Accumulator.Reset()
				}
			}
		}
		libgl.State.SetEnabled()

		win.SwapBuffers()
	}
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}

// Damped fly camera, E and Q move up and down. The wheel zooms up to the tracer's default fov.
func newTraceCamera(desc libscn.CameraDesc) *libapp.Camera {
	cam := libapp.NewCamera(desc.Position, desc.Yaw, desc.Pitch, libtrace.Fov)
	cam.FovLimit = libtrace.Fov
	cam.SetFov(libtrace.Fov)
	cam.Damped = true
	cam.Keys[4], cam.Keys[5] = glfw.KeyE, glfw.KeyQ
	return cam
}

func cameraBlock(cam *libapp.Camera, width, height int) libtrace.CameraBlock {
	return libtrace.NewCameraBlock(libtrace.Projection(cam.Fov, width, height), cam.View(), cam.Position)
}
