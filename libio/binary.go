package libio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Sticky error reader; after the first failure every call is a no-op returning false
type BinaryReader struct {
	Order     binary.ByteOrder
	Src       io.Reader
	Index     int
	LastIndex int
	Err       error
	buf       []byte
}

func NewReader(r io.Reader) *BinaryReader {
	return &BinaryReader{Src: r, Order: binary.LittleEndian}
}

func (br *BinaryReader) ReadBytes(n int) (ok bool) {
	if br.Err != nil {
		return false
	}

	if cap(br.buf) < n {
		br.buf = make([]byte, n)
	} else {
		br.buf = br.buf[:n]
	}

	nread, err := io.ReadFull(br.Src, br.buf)
	if err != nil {
		br.Err = err
	}

	br.LastIndex = br.Index
	br.Index += nread

	return br.Err == nil
}

func (br *BinaryReader) Read(p []byte) (n int, err error) {
	return br.Src.Read(p)
}

// Skips bytes until Index is a multiple of n
func (br *BinaryReader) Align(n int) (ok bool) {
	pad := (n - br.Index%n) % n
	if pad == 0 {
		return br.Err == nil
	}
	return br.ReadBytes(pad)
}

func (br *BinaryReader) ReadRef(data any) (ok bool) {
	if br.Err != nil {
		return false
	}
	err := binary.Read(br.Src, br.Order, data)
	br.Err = err
	br.LastIndex = br.Index
	if err == nil {
		br.Index += binary.Size(data)
	}
	return err == nil
}

// Merges the sticky error into err, meant to be deferred by decoders
func (br *BinaryReader) Wrap(err *error) {
	if br.Err == nil {
		return
	}
	if *err == nil {
		*err = br.Err
	} else {
		*err = fmt.Errorf("%v: %w", *err, br.Err)
	}
}

type BinaryWriter struct {
	Order binary.ByteOrder
	Dst   io.Writer
	Index int
	Err   error
}

func NewWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{Dst: w, Order: binary.LittleEndian}
}

func (bw *BinaryWriter) WriteBytes(p []byte) (ok bool) {
	if bw.Err != nil {
		return false
	}

	n, err := bw.Dst.Write(p)
	bw.Index += n
	if err != nil {
		bw.Err = err
		return false
	}
	return true
}

func (bw *BinaryWriter) Write(p []byte) (n int, err error) {
	return bw.Dst.Write(p)
}

// Writes zero bytes until Index is a multiple of n
func (bw *BinaryWriter) Align(n int) (ok bool) {
	pad := (n - bw.Index%n) % n
	if pad == 0 {
		return bw.Err == nil
	}
	return bw.WriteBytes(make([]byte, pad))
}

func (bw *BinaryWriter) WriteRef(data any) (ok bool) {
	if bw.Err != nil {
		return false
	}
	err := binary.Write(bw.Dst, bw.Order, data)
	bw.Err = err
	if err == nil {
		bw.Index += binary.Size(data)
	}
	return err == nil
}

func (bw *BinaryWriter) Wrap(err *error) {
	if bw.Err == nil {
		return
	}
	if *err == nil {
		*err = bw.Err
	} else {
		*err = fmt.Errorf("%v: %w", *err, bw.Err)
	}
}
