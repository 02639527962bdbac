package libsky_test

import (
	"bytes"
	"compgraph/libsky"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRgbeKnownValues(t *testing.T) {
	buf := make([]byte, 8)
	n := libsky.EncodeRgbeChunk(3, []float32{1, 0.5, 0, 0, 0, 0}, buf)
	require.Equal(t, 8, n)
	assert.Equal(t, []byte{128, 64, 0, 129}, buf[:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[4:])

	result := make([]float32, 6)
	libsky.DecodeRgbeChunk(3, buf, result)
	assert.InDelta(t, 1, result[0], 1.0/128)
	assert.InDelta(t, 0.5, result[1], 1.0/128)
	assert.Equal(t, []float32{0, 0, 0}, result[3:])
}

func TestRgbeNegativeClamps(t *testing.T) {
	buf := make([]byte, 4)
	libsky.EncodeRgbeChunk(3, []float32{-4, 2, 1}, buf)
	assert.Equal(t, byte(0), buf[0])
}

func TestRgbeAlpha(t *testing.T) {
	data := randomFloats(400, 0, 100)
	enc, err := libsky.EncodeRgbeBytes(data, true)
	require.NoError(t, err)
	require.Len(t, enc, 400)

	dec, err := libsky.DecodeRgbeBytes(enc, true)
	require.NoError(t, err)
	require.Len(t, dec, 400)
	for i := 3; i < len(dec); i += 4 {
		if dec[i] != 1 {
			t.Fatalf("alpha %d should be 1 but is %v", i/4, dec[i])
		}
	}
}

func TestEncodeRgbeMatchesBytes(t *testing.T) {
	// larger than one stream chunk
	data := randomFloats(30000, 0, 100)
	buf := bytes.NewBuffer(nil)
	require.NoError(t, libsky.EncodeRgbe(buf, data, false))

	check, err := libsky.EncodeRgbeBytes(data, false)
	require.NoError(t, err)
	assert.Equal(t, check, buf.Bytes())
}

func TestEncodeRgbeRejectsPartialColors(t *testing.T) {
	err := libsky.EncodeRgbe(bytes.NewBuffer(nil), make([]float32, 10), false)
	assert.Error(t, err)
	_, err = libsky.DecodeRgbeBytes(make([]byte, 6), false)
	assert.Error(t, err)
}

func assertCubemapClose(t *testing.T, want, got *libsky.Cubemap) {
	t.Helper()
	require.Equal(t, want.Size, got.Size)
	for f := range want.Faces {
		w, g := want.Faces[f], got.Faces[f]
		require.Len(t, g, len(w))
		for i := 0; i < len(w); i += 3 {
			max := math32.Max(w[i], math32.Max(w[i+1], w[i+2]))
			for c := 0; c < 3; c++ {
				if math32.Abs(w[i+c]-g[i+c]) > max/64 {
					t.Fatalf("face %d value %d should be %v but is %v", f, i+c, w[i+c], g[i+c])
				}
			}
		}
	}
}

func TestCubemapCodec(t *testing.T) {
	size := 16
	cm := libsky.NewCubemap(randomFloats(6*size*size*3, 0, 20), size)

	levels := map[string]libsky.EncodeOption{
		"none":    nil,
		"fast":    libsky.OptCompress(0),
		"level 9": libsky.OptCompress(12),
	}
	for name, opt := range levels {
		t.Run(name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			require.NoError(t, libsky.EncodeCubemap(buf, cm, opt))

			result, err := libsky.DecodeCubemap(buf)
			require.NoError(t, err)
			assertCubemapClose(t, cm, result)
		})
	}
}

func TestCubemapCodecCompresses(t *testing.T) {
	size := 32
	// a flat sky compresses well
	cm := libsky.NewCubemap(nil, size)
	for i := range cm.Concat() {
		cm.Concat()[i] = 0.25
	}

	raw := bytes.NewBuffer(nil)
	require.NoError(t, libsky.EncodeCubemap(raw, cm))
	packed := bytes.NewBuffer(nil)
	require.NoError(t, libsky.EncodeCubemap(packed, cm, libsky.OptCompress(1)))
	assert.Less(t, packed.Len(), raw.Len())
}

func TestCubemapCodecCompressTwice(t *testing.T) {
	cm := libsky.NewCubemap(nil, 2)
	err := libsky.EncodeCubemap(bytes.NewBuffer(nil), cm, libsky.OptCompress(1), libsky.OptCompress(2))
	assert.Error(t, err)
}

func TestCubemapCorruptHeader(t *testing.T) {
	data := make([]byte, 64)
	_, err := libsky.DecodeCubemap(bytes.NewBuffer(data))
	assert.ErrorIs(t, err, libsky.ErrCorruptHeader)
}

func TestCubemapTruncated(t *testing.T) {
	cm := libsky.NewCubemap(randomFloats(6*4*4*3, 0, 1), 4)
	buf := bytes.NewBuffer(nil)
	require.NoError(t, libsky.EncodeCubemap(buf, cm))

	_, err := libsky.DecodeCubemap(bytes.NewBuffer(buf.Bytes()[:buf.Len()-10]))
	assert.Error(t, err)
}
