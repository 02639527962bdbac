package libsky

import (
	"compgraph/libio"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const MagicNumberSKY = 0x5e7a6b1d

type SkyVersion uint32

const (
	SkyVersion1_001_000 = SkyVersion(1_001_000)
)

type SkyCompression uint32

const (
	SkyCompressionNone = SkyCompression(iota)
	SkyCompressionLZ4Fast
	SkyCompressionLZ4
)

var ErrCorruptHeader = errors.New("sky header is corrupt")

type SkyHeader struct {
	Check       uint32
	Version     SkyVersion
	Compression SkyCompression
	Size        uint32
}

type EncodeContext struct {
	Compression SkyCompression
	Writer      io.Writer
}

type EncodeOption func(ctx *EncodeContext) error

// Level 0 is the fastest, 9 the strongest. Negative levels disable compression.
func OptCompress(level int) EncodeOption {
	levels := []lz4.CompressionLevel{lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9}
	if level < 0 {
		return nil
	}

	if level >= len(levels) {
		level = len(levels) - 1
	}

	return func(ctx *EncodeContext) error {
		if ctx.Compression != SkyCompressionNone {
			return fmt.Errorf("compression already configured")
		}
		lzw := lz4.NewWriter(ctx.Writer)
		if err := lzw.Apply(lz4.CompressionLevelOption(levels[level])); err != nil {
			return err
		}
		if level == 0 {
			ctx.Compression = SkyCompressionLZ4Fast
		} else {
			ctx.Compression = SkyCompressionLZ4
		}
		ctx.Writer = lzw
		return nil
	}
}

func EncodeCubemap(w io.Writer, cm *Cubemap, options ...EncodeOption) (err error) {
	var bw *libio.BinaryWriter
	var ok bool

	if bw, ok = w.(*libio.BinaryWriter); !ok {
		bw = libio.NewWriter(w)
		defer bw.Wrap(&err)
	}

	ctx := EncodeContext{
		Writer: bw.Dst,
	}

	for _, opt := range options {
		if opt != nil {
			err = opt(&ctx)
			if err != nil {
				return err
			}
		}
	}

	header := SkyHeader{
		Check:       MagicNumberSKY,
		Version:     SkyVersion1_001_000,
		Compression: ctx.Compression,
		Size:        uint32(cm.Size),
	}
	if !bw.WriteRef(&header) {
		return fmt.Errorf("could not write sky header: %w", bw.Err)
	}

	if err := EncodeRgbe(ctx.Writer, cm.Concat(), false); err != nil {
		return fmt.Errorf("could not write sky encoded pixels: %w", err)
	}

	if closer, ok := (ctx.Writer).(io.WriteCloser); ok {
		err = closer.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func DecodeCubemap(r io.Reader) (cm *Cubemap, err error) {
	var br *libio.BinaryReader
	var ok bool

	if br, ok = r.(*libio.BinaryReader); !ok {
		br = libio.NewReader(r)
		defer br.Wrap(&err)
	}

	header := SkyHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected sky header; byte 0x%08x", br.LastIndex)
	}

	if header.Check != MagicNumberSKY {
		return nil, fmt.Errorf("%w; byte 0x%08x", ErrCorruptHeader, br.LastIndex)
	}

	if header.Version != SkyVersion1_001_000 {
		return nil, fmt.Errorf("sky version %d unsupported; byte 0x%08x", header.Version, br.LastIndex)
	}

	pixr := br.Src
	if header.Compression == SkyCompressionLZ4 || header.Compression == SkyCompressionLZ4Fast {
		pixr = lz4.NewReader(br.Src)
	} else if header.Compression != SkyCompressionNone {
		return nil, fmt.Errorf("sky compression id %d unsupported; byte 0x%08x", header.Compression, br.LastIndex)
	}

	pixels := 6 * int(header.Size) * int(header.Size)
	data := make([]byte, pixels*4)
	_, err = io.ReadFull(pixr, data)
	if err != nil {
		return nil, fmt.Errorf("expected %d encoded pixels; %w", pixels, err)
	}

	colors, err := DecodeRgbeBytes(data, false)
	if err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	return NewCubemap(colors, int(header.Size)), nil
}
