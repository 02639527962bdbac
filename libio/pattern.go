package libio

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Procedural RGBA textures used in place of image files

type Color [4]uint8

func (img *IntImage) set(x, y int, c Color) {
	i := img.Index(x, y)
	for ch := 0; ch < img.Channels && ch < 4; ch++ {
		img.Pix[i+ch] = c[ch]
	}
}

// Square checkerboard with cells x cells tiles, a is at the origin
func Checker(size, cells int, a, b Color) *IntImage {
	img := NewIntImage(nil, 4, size, size)
	if cells < 1 {
		cells = 1
	}
	tile := (size + cells - 1) / cells
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/tile+y/tile)%2 == 0 {
				img.set(x, y, a)
			} else {
				img.set(x, y, b)
			}
		}
	}
	return img
}

// Diagonal stripes of the given width in pixels, alternating through colors
func Stripes(size, width int, colors ...Color) *IntImage {
	img := NewIntImage(nil, 4, size, size)
	if len(colors) == 0 || width < 1 {
		return img
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.set(x, y, colors[((x+y)/width)%len(colors)])
		}
	}
	return img
}

// Tangent space normal map with a dome shaped bump in each of cells x cells tiles
func BumpNormals(size, cells int, strength float32) *IntImage {
	img := NewIntImage(nil, 4, size, size)
	if cells < 1 {
		cells = 1
	}
	tile := float32(size) / float32(cells)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// position within the tile in [-1, 1]
			u := 2*math32.Mod(float32(x)+0.5, tile)/tile - 1
			v := 2*math32.Mod(float32(y)+0.5, tile)/tile - 1
			n := mgl32.Vec3{u * strength, v * strength, 1}.Normalize()
			img.set(x, y, Color{encodeUnit(n[0]), encodeUnit(n[1]), encodeUnit(n[2]), 0xff})
		}
	}
	return img
}

// Maps [-1, 1] to [0, 255]
func encodeUnit(v float32) uint8 {
	return uint8(math32.Round(mgl32.Clamp(v*0.5+0.5, 0, 1) * 0xff))
}
