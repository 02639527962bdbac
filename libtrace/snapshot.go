package libtrace

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"compgraph/libio"
)

// File name of a snapshot taken at t, the extension selects the format
func SnapshotName(t time.Time, ext string) string {
	return fmt.Sprintf("trace_%s%s", t.Format("20060102_150405"), ext)
}

type SnapshotOptions struct {
	// Only applies to png files
	Exposure float32
	Gamma    float32
}

// Writes .f32 files as lz4 fixed point floats and .png files tonemapped
func WriteSnapshot(path string, img *libio.FloatImage, opts SnapshotOptions) (err error) {
	if img == nil || img.Width*img.Height == 0 {
		return fmt.Errorf("could not write snapshot %q: empty image", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create snapshot directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create snapshot %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("could not close snapshot %q: %w", path, cerr)
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		gamma, exposure := opts.Gamma, opts.Exposure
		if gamma == 0 {
			gamma = 2.2
		}
		if exposure == 0 {
			exposure = 1
		}
		err = png.Encode(f, img.ToIntImage(gamma, exposure).ToRGBA())
	default:
		err = libio.EncodeFloatImage(f, img, libio.FloatImageCompressionFixedPoint16Lz4)
	}
	if err != nil {
		return fmt.Errorf("could not encode snapshot %q: %w", path, err)
	}
	return nil
}
