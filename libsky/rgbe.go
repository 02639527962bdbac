package libsky

import (
	"fmt"
	"io"

	"github.com/chewxy/math32"
)

// Values below this encode as black
const rgbeMin = 1e-32

// Packs one color into a shared exponent, alpha is dropped
func encodeRgbe(r, g, b float32, dst []byte) {
	v := math32.Max(r, math32.Max(g, b))
	if v < rgbeMin {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	m, e := math32.Frexp(v)
	scale := m * 256 / v
	dst[0] = uint8(r * scale)
	dst[1] = uint8(g * scale)
	dst[2] = uint8(b * scale)
	dst[3] = uint8(e + 128)
}

func decodeRgbe(src []byte, dst []float32) {
	if src[3] == 0 {
		dst[0], dst[1], dst[2] = 0, 0, 0
		return
	}
	f := math32.Ldexp(1, int(src[3])-(128+8))
	dst[0] = (float32(src[0]) + 0.5) * f
	dst[1] = (float32(src[1]) + 0.5) * f
	dst[2] = (float32(src[2]) + 0.5) * f
}

// Returns the number of bytes written to buf
func encodeRgbeChunk(components int, data []float32, buf []byte) int {
	n := 0
	for i := 0; i+components <= len(data); i += components {
		// negative values clamp to zero
		r := math32.Max(data[i], 0)
		g := math32.Max(data[i+1], 0)
		b := math32.Max(data[i+2], 0)
		encodeRgbe(r, g, b, buf[n:n+4])
		n += 4
	}
	return n
}

// Returns the number of floats written to buf
func decodeRgbeChunk(components int, data []byte, buf []float32) int {
	n := 0
	for i := 0; i+4 <= len(data); i += 4 {
		decodeRgbe(data[i:i+4], buf[n:n+3])
		if components == 4 {
			buf[n+3] = 1
		}
		n += components
	}
	return n
}

func rgbeComponents(hasAlpha bool) int {
	if hasAlpha {
		return 4
	}
	return 3
}

// Streams data to w in shared exponent format, four bytes per color
func EncodeRgbe(w io.Writer, data []float32, hasAlpha bool) error {
	components := rgbeComponents(hasAlpha)
	if len(data)%components != 0 {
		return fmt.Errorf("source not a multiple of %d floats", components)
	}

	// 4096 colors per chunk
	rsize := 4096 * components
	buf := make([]byte, 4096*4)
	for i := 0; i < len(data); i += rsize {
		j := i + rsize
		if j > len(data) {
			j = len(data)
		}
		n := encodeRgbeChunk(components, data[i:j], buf)
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

func EncodeRgbeBytes(data []float32, hasAlpha bool) ([]byte, error) {
	components := rgbeComponents(hasAlpha)
	if len(data)%components != 0 {
		return nil, fmt.Errorf("source not a multiple of %d floats", components)
	}

	result := make([]byte, len(data)/components*4)
	n := encodeRgbeChunk(components, data, result)
	return result[:n], nil
}

func DecodeRgbeBytes(data []byte, hasAlpha bool) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("source not a multiple of 4 bytes")
	}

	components := rgbeComponents(hasAlpha)
	result := make([]float32, components*len(data)/4)
	n := decodeRgbeChunk(components, data, result)
	return result[:n], nil
}
