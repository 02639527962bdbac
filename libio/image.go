package libio

import (
	goimg "image"

	"github.com/chewxy/math32"
)

// Pixel layout shared by IntImage and FloatImage.
// Rows are stored bottom row first, the order OpenGL reads textures back in.
type Layout struct {
	Channels      int
	Width, Height int
}

// Offset of the first component of pixel x, y
func (l Layout) Index(x, y int) int {
	return (y*l.Width + x) * l.Channels
}

func (l Layout) Count() int {
	return l.Width * l.Height
}

func (l Layout) Stride() int {
	return l.Width * l.Channels
}

type IntImage struct {
	Layout
	Pix []uint8
}

func NewIntImage(pix []uint8, channels int, width, height int) *IntImage {
	l := Layout{Channels: channels, Width: width, Height: height}
	if pix == nil {
		pix = make([]uint8, l.Count()*channels)
	}
	return &IntImage{Layout: l, Pix: pix}
}

// Go image with the rows flipped into top first order. Missing color channels are zero, missing alpha is opaque.
func (img *IntImage) ToRGBA() *goimg.RGBA {
	rgba := goimg.NewRGBA(goimg.Rect(0, 0, img.Width, img.Height))
	stride := img.Stride()

	for y := 0; y < img.Height; y++ {
		src := img.Pix[y*stride : (y+1)*stride]
		dst := rgba.Pix[(img.Height-1-y)*rgba.Stride:]
		for x := 0; x < img.Width; x++ {
			px := src[x*img.Channels : (x+1)*img.Channels]
			out := dst[x*4 : x*4+4]
			out[3] = 0xff
			copy(out, px[:min(len(px), 4)])
		}
	}

	return rgba
}

// Linear radiance image, usually a read back of the path tracer's average
type FloatImage struct {
	Layout
	Pix []float32
	// Frames averaged into Pix, zero when unknown
	Samples int
}

func NewFloatImage(pix []float32, channels int, width, height int) *FloatImage {
	l := Layout{Channels: channels, Width: width, Height: height}
	if pix == nil {
		pix = make([]float32, l.Count()*channels)
	}
	return &FloatImage{Layout: l, Pix: pix}
}

// Tonemaps color channels into 8 bit, the alpha channel of 4 channel images is only clamped
func (img *FloatImage) ToIntImage(gamma, exposure float32) *IntImage {
	out := NewIntImage(nil, img.Channels, img.Width, img.Height)
	invGamma := 1 / gamma

	for i, v := range img.Pix {
		if img.Channels == 4 && i%4 == 3 {
			v = math32.Min(math32.Max(v, 0), 1)
		} else {
			v = Tonemap(v, invGamma, exposure)
		}
		out.Pix[i] = uint8(v * 0xff)
	}

	return out
}

// 1 - e^(-v * exposure) raised to invGamma, the result is in [0, 1]
func Tonemap(value, invGamma, exposure float32) float32 {
	mapped := 1 - math32.Exp(-value*exposure)
	if mapped <= 0 {
		return 0
	}
	return math32.Min(math32.Pow(mapped, invGamma), 1)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
