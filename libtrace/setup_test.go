package libtrace_test

import (
	"os"
	"runtime"
	"testing"

	"compgraph/libapp"
)

// Tests hand GL work to the locked main thread, which owns the context
var (
	mainQueue = make(chan func())
	mainDone  = make(chan struct{})
	// Set when no OpenGL 4.5 context could be created
	glErr error
)

func TestMain(m *testing.M) {
	runtime.LockOSThread()

	cfg := libapp.DefaultConfig("libtrace test")
	cfg.Width, cfg.Height = 64, 64
	cfg.Hidden = true
	cfg.Debug = false
	cfg.ShaderCache = false
	win, err := libapp.NewWindow(cfg)
	glErr = err

	var code int
	go func() {
		code = m.Run()
		close(mainQueue)
	}()

	for fn := range mainQueue {
		fn()
		mainDone <- struct{}{}
	}

	if win != nil {
		win.Destroy()
	}
	os.Exit(code)
}

func runOnMain(t *testing.T, fn func()) {
	t.Helper()
	if glErr != nil {
		t.Skipf("no opengl context: %v", glErr)
	}
	mainQueue <- fn
	<-mainDone
}
