package libio_test

import (
	"testing"

	"compgraph/libio"

	"github.com/stretchr/testify/assert"
)

var (
	white = libio.Color{0xff, 0xff, 0xff, 0xff}
	black = libio.Color{0, 0, 0, 0xff}
)

func pixel(img *libio.IntImage, x, y int) libio.Color {
	i := img.Index(x, y)
	return libio.Color(img.Pix[i : i+4])
}

func TestChecker(t *testing.T) {
	img := libio.Checker(64, 8, white, black)
	assert.Equal(t, 4, img.Channels)
	assert.Len(t, img.Pix, 64*64*4)

	assert.Equal(t, white, pixel(img, 0, 0))
	assert.Equal(t, white, pixel(img, 7, 7))
	assert.Equal(t, black, pixel(img, 8, 0))
	assert.Equal(t, black, pixel(img, 0, 8))
	assert.Equal(t, white, pixel(img, 8, 8))
}

func TestStripes(t *testing.T) {
	red := libio.Color{0xff, 0, 0, 0xff}
	img := libio.Stripes(16, 4, red, white, black)
	assert.Equal(t, red, pixel(img, 0, 0))
	assert.Equal(t, white, pixel(img, 2, 2))
	assert.Equal(t, black, pixel(img, 8, 0))
	assert.Equal(t, red, pixel(img, 6, 6))
}

func TestBumpNormalsFaceOutward(t *testing.T) {
	img := libio.BumpNormals(32, 2, 0.5)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			p := pixel(img, x, y)
			if p[2] <= 0x80 {
				t.Errorf("normal at %d,%d should point along +z but is %v", x, y, p)
			}
		}
	}
	// the tile center is flat
	center := pixel(img, 8, 8)
	assert.InDelta(t, 0x80, int(center[0]), 8)
	assert.InDelta(t, 0x80, int(center[1]), 8)
}
