package libtrace

// Counts the frames averaged into the accumulation texture.
// Any change to what the camera sees must start a new average.
type Accumulator struct {
	frame  int
	resets int
	camera CameraBlock
	seen   bool
}

// Frames averaged so far
func (a *Accumulator) Frame() int {
	return a.frame
}

func (a *Accumulator) Resets() int {
	return a.resets
}

// Returns the index of the frame about to be rendered
func (a *Accumulator) Next() int {
	frame := a.frame
	a.frame++
	return frame
}

func (a *Accumulator) Reset() {
	a.frame = 0
	a.resets++
}

// Resets when the camera differs from the last observed one, reports whether it did
func (a *Accumulator) Observe(camera CameraBlock) bool {
	if a.seen && camera == a.camera {
		return false
	}
	a.seen = true
	a.camera = camera
	a.Reset()
	return true
}

// Samples per pixel in the current average
func (a *Accumulator) Samples(settings Settings) int {
	return a.frame * settings.SamplesPerPixel
}
