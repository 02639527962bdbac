package libtrace_test

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"compgraph/libio"
	"compgraph/libtrace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(width, height int) *libio.FloatImage {
	img := libio.NewFloatImage(nil, 3, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := img.Index(x, y)
			img.Pix[i] = float32(x) / float32(width)
			img.Pix[i+1] = float32(y) / float32(height)
			img.Pix[i+2] = 2
		}
	}
	return img
}

func TestSnapshotName(t *testing.T) {
	at := time.Date(2023, 5, 17, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "trace_20230517_130405.f32", libtrace.SnapshotName(at, ".f32"))
}

func TestWriteSnapshotF32(t *testing.T) {
	img := gradientImage(16, 8)
	path := filepath.Join(t.TempDir(), "snaps", "a.f32")
	require.NoError(t, libtrace.WriteSnapshot(path, img, libtrace.SnapshotOptions{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := libio.DecodeFloatImage(f)
	require.NoError(t, err)

	assert.Equal(t, img.Width, decoded.Width)
	assert.Equal(t, img.Height, decoded.Height)
	assert.Equal(t, 3, decoded.Channels)
	for i := range img.Pix {
		if !assert.InDelta(t, img.Pix[i], decoded.Pix[i], 1e-3, "pixel component %d", i) {
			break
		}
	}
}

func TestWriteSnapshotPng(t *testing.T) {
	img := libio.NewFloatImage(nil, 3, 4, 2)
	// bottom left pixel in float image coordinates
	img.Pix[img.Index(0, 0)] = 100

	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, libtrace.WriteSnapshot(path, img, libtrace.SnapshotOptions{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 4, decoded.Bounds().Dx())
	r, _, _, _ := decoded.At(0, 1).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	r, _, _, _ = decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestWriteSnapshotEmpty(t *testing.T) {
	err := libtrace.WriteSnapshot(filepath.Join(t.TempDir(), "a.f32"), libio.NewFloatImage(nil, 3, 0, 0), libtrace.SnapshotOptions{})
	assert.Error(t, err)
}
