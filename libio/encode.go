package libio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/pierrec/lz4/v4"
)

const MagicNumberF32 = 0x3233_4652 // "RF32"

type FloatImageVersion uint16

const FloatImageVersion2 = FloatImageVersion(2)

type FloatImageCompression uint8

const (
	FloatImageCompressionNone = FloatImageCompression(iota)
	// Per channel [min, max] quantized to 16 bits and lz4 compressed
	FloatImageCompressionFixedPoint16Lz4
)

type FloatImageHeader struct {
	Magic         uint32
	Version       FloatImageVersion
	Channels      uint8
	Compression   FloatImageCompression
	Width, Height uint32
	Samples       uint32
	Reserved      uint32
}

// Value range of one channel
type channelRange struct {
	Min, Max float32
}

func EncodeFloatImage(w io.Writer, img *FloatImage, compression FloatImageCompression) (err error) {
	bw, ok := w.(*BinaryWriter)
	if !ok {
		bw = NewWriter(w)
		defer bw.Wrap(&err)
	}

	header := FloatImageHeader{
		Magic:       MagicNumberF32,
		Version:     FloatImageVersion2,
		Channels:    uint8(img.Channels),
		Compression: compression,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		Samples:     uint32(img.Samples),
	}
	if !bw.WriteRef(header) {
		return fmt.Errorf("could not write f32 header: %w", bw.Err)
	}

	switch compression {
	case FloatImageCompressionNone:
		bw.WriteRef(img.Pix)
	case FloatImageCompressionFixedPoint16Lz4:
		var payload []byte
		payload, err = quantize(img)
		if err != nil {
			return fmt.Errorf("could not quantize f32 pixels: %w", err)
		}
		lzw := lz4.NewWriter(bw)
		if err = lzw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return fmt.Errorf("could not configure f32 compression: %w", err)
		}
		if _, err = lzw.Write(payload); err == nil {
			err = lzw.Close()
		}
		if err != nil {
			return fmt.Errorf("could not compress f32 pixels: %w", err)
		}
	default:
		return fmt.Errorf("f32 compression id %d unsupported", compression)
	}

	if bw.Err != nil {
		return fmt.Errorf("could not write f32 pixels: %w", bw.Err)
	}
	return nil
}

func channelRanges(img *FloatImage) []channelRange {
	ranges := make([]channelRange, img.Channels)
	for ch := range ranges {
		ranges[ch] = channelRange{math32.Inf(1), math32.Inf(-1)}
	}
	for i, v := range img.Pix {
		r := &ranges[i%img.Channels]
		r.Min = math32.Min(r.Min, v)
		r.Max = math32.Max(r.Max, v)
	}
	return ranges
}

// Channel ranges followed by the interleaved 16 bit values
func quantize(img *FloatImage) ([]byte, error) {
	ranges := channelRanges(img)
	fixed := make([]uint16, len(img.Pix))
	for i, v := range img.Pix {
		r := ranges[i%img.Channels]
		if span := r.Max - r.Min; span > 0 {
			fixed[i] = uint16(math32.Round((v - r.Min) / span * 0xffff))
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(ranges)*8+len(fixed)*2))
	bw := NewWriter(buf)
	bw.WriteRef(ranges)
	bw.WriteRef(fixed)
	return buf.Bytes(), bw.Err
}
