package libio

import (
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

var ErrCorruptHeader = errors.New("header is corrupt")

func DecodeFloatImage(r io.Reader) (img *FloatImage, err error) {
	br, ok := r.(*BinaryReader)
	if !ok {
		br = NewReader(r)
		defer br.Wrap(&err)
	}

	var header FloatImageHeader
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected f32 header; byte 0x%08x", br.LastIndex)
	}
	if header.Magic != MagicNumberF32 {
		return nil, fmt.Errorf("f32 %w; byte 0x%08x", ErrCorruptHeader, br.LastIndex)
	}
	if header.Version != FloatImageVersion2 {
		return nil, fmt.Errorf("f32 version %d unsupported; byte 0x%08x", header.Version, br.LastIndex)
	}

	img = NewFloatImage(nil, int(header.Channels), int(header.Width), int(header.Height))
	img.Samples = int(header.Samples)

	switch header.Compression {
	case FloatImageCompressionNone:
		br.ReadRef(img.Pix)
	case FloatImageCompressionFixedPoint16Lz4:
		err = dequantize(NewReader(lz4.NewReader(br.Src)), img)
	default:
		err = fmt.Errorf("compression id %d unsupported", header.Compression)
	}
	if err == nil {
		err = br.Err
	}
	if err != nil {
		return nil, fmt.Errorf("could not read f32 pixels: %w", err)
	}

	return img, nil
}

func dequantize(br *BinaryReader, img *FloatImage) error {
	ranges := make([]channelRange, img.Channels)
	fixed := make([]uint16, len(img.Pix))
	br.ReadRef(ranges)
	br.ReadRef(fixed)
	if br.Err != nil {
		return br.Err
	}

	for i, q := range fixed {
		r := ranges[i%img.Channels]
		img.Pix[i] = float32(q)/0xffff*(r.Max-r.Min) + r.Min
	}
	return nil
}
