package libapp

import (
	"fmt"
	"unsafe"

	"compgraph/libgl"
	"compgraph/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Window struct {
	*glfw.Window
	fullscreen bool
	// Position and size to restore when leaving fullscreen
	windowed [4]int
}

// Creates the window, makes its OpenGL 4.5 context current and initializes libgl.
// Must be called from the main thread, see runtime.LockOSThread.
func NewWindow(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize glfw: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	if cfg.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}
	if cfg.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	if cfg.Compatibility {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	} else {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}

	ctx, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create window: %w", err)
	}
	ctx.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(libutil.InvalidAddress)
		}
		return addr
	})
	if err != nil {
		ctx.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("could not load opengl functions: %w", err)
	}

	libgl.Init()
	if cfg.Debug {
		libgl.InstallDebugCallback()
	}
	libgl.ShaderCache.Disabled = !cfg.ShaderCache

	win := &Window{Window: ctx}
	if cfg.Fullscreen {
		win.ToggleFullscreen()
	}
	return win, nil
}

func (win *Window) IsFullscreen() bool {
	return win.fullscreen
}

// Switches between a window and fullscreen on the primary monitor
func (win *Window) ToggleFullscreen() {
	if win.fullscreen {
		x, y, w, h := win.windowed[0], win.windowed[1], win.windowed[2], win.windowed[3]
		win.SetMonitor(nil, x, y, w, h, glfw.DontCare)
		win.fullscreen = false
		return
	}

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return
	}
	x, y := win.GetPos()
	w, h := win.GetSize()
	win.windowed = [4]int{x, y, w, h}
	mode := monitor.GetVideoMode()
	win.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	win.fullscreen = true
}

// Captures and hides the cursor for mouse look
func (win *Window) CaptureCursor(capture bool) {
	if capture {
		win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			win.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
		return
	}
	win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (win *Window) Terminate() {
	win.Destroy()
	glfw.Terminate()
}
