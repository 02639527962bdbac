package libmesh

import (
	"fmt"
	"io"
	"os"
	"strings"

	"compgraph/libio"

	"github.com/pierrec/lz4/v4"
)

const MagicNumberGEO = 0xc9dae18c

type geoHeader struct {
	Check       uint32
	NameLength  uint32
	VertexCount uint32
	IndexCount  uint32
}

type encodeOptions struct {
	compress bool
	level    lz4.CompressionLevel
}

type EncodeOption func(*encodeOptions)

// Wraps the output in an lz4 frame
func OptCompress(level lz4.CompressionLevel) EncodeOption {
	return func(o *encodeOptions) {
		o.compress = true
		o.level = level
	}
}

// Indices are stored as uint16 when every vertex is addressable with one
func shortIndices(vertexCount int) bool {
	return vertexCount <= 0xffff
}

func Encode(w io.Writer, m *Mesh, opts ...EncodeOption) (err error) {
	options := encodeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.compress {
		lzw := lz4.NewWriter(w)
		if err := lzw.Apply(lz4.CompressionLevelOption(options.level)); err != nil {
			return fmt.Errorf("could not configure lz4 writer: %w", err)
		}
		defer func() {
			if cerr := lzw.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("could not flush lz4 writer: %w", cerr)
			}
		}()
		w = lzw
	}

	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w %q: index %d at %d is out of range", ErrInvalidMesh, m.Name, idx, i)
		}
	}

	bw := libio.NewWriter(w)
	defer bw.Wrap(&err)

	header := geoHeader{
		Check:       MagicNumberGEO,
		NameLength:  uint32(len(m.Name)),
		VertexCount: uint32(len(m.Vertices)),
		IndexCount:  uint32(len(m.Indices)),
	}
	if !bw.WriteRef(header) {
		return fmt.Errorf("could not write mesh header")
	}
	if !bw.WriteBytes([]byte(m.Name)) {
		return fmt.Errorf("could not write mesh name %q", m.Name)
	}
	if len(m.Vertices) > 0 && !bw.WriteRef(m.Vertices) {
		return fmt.Errorf("could not write %d mesh vertices; name %q", len(m.Vertices), m.Name)
	}

	if shortIndices(len(m.Vertices)) {
		indices := make([]uint16, len(m.Indices))
		for i, v := range m.Indices {
			indices[i] = uint16(v)
		}
		if len(indices) > 0 && !bw.WriteRef(indices) {
			return fmt.Errorf("could not write %d mesh indices; name %q", len(indices), m.Name)
		}
		bw.Align(4)
	} else if !bw.WriteRef(m.Indices) {
		return fmt.Errorf("could not write %d mesh indices; name %q", len(m.Indices), m.Name)
	}

	return nil
}

func Decode(r io.Reader) (m *Mesh, err error) {
	var br *libio.BinaryReader
	var ok bool

	if br, ok = r.(*libio.BinaryReader); !ok {
		br = libio.NewReader(r)
		defer br.Wrap(&err)
	}

	header := geoHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected mesh header; byte 0x%08x", br.LastIndex)
	}
	if header.Check != MagicNumberGEO {
		return nil, fmt.Errorf("mesh %w; byte 0x%08x", libio.ErrCorruptHeader, br.LastIndex)
	}

	name := make([]byte, header.NameLength)
	if len(name) > 0 && !br.ReadRef(name) {
		return nil, fmt.Errorf("expected %d bytes for mesh name; byte 0x%08x", header.NameLength, br.LastIndex)
	}

	vertices := make([]Vertex, header.VertexCount)
	if len(vertices) > 0 && !br.ReadRef(vertices) {
		return nil, fmt.Errorf("expected %d mesh vertices; name %q, byte 0x%08x", header.VertexCount, name, br.LastIndex)
	}

	indices := make([]uint32, header.IndexCount)
	if shortIndices(int(header.VertexCount)) {
		shorts := make([]uint16, header.IndexCount)
		if len(shorts) > 0 && !br.ReadRef(shorts) {
			return nil, fmt.Errorf("expected %d mesh indices; name %q, byte 0x%08x", header.IndexCount, name, br.LastIndex)
		}
		if !br.Align(4) {
			return nil, fmt.Errorf("expected index padding; name %q, byte 0x%08x", name, br.LastIndex)
		}
		for i, v := range shorts {
			indices[i] = uint32(v)
		}
	} else if !br.ReadRef(indices) {
		return nil, fmt.Errorf("expected %d mesh indices; name %q, byte 0x%08x", header.IndexCount, name, br.LastIndex)
	}

	for i, idx := range indices {
		if idx >= header.VertexCount {
			return nil, fmt.Errorf("%w %q: index %d at %d is out of range", ErrInvalidMesh, name, idx, i)
		}
	}

	return &Mesh{
		Name:     string(name),
		Vertices: vertices,
		Indices:  indices,
	}, nil
}

// Files ending in .lz4 are decompressed
func Load(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open mesh file %q: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(file)
	}

	m, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode mesh file %q: %w", path, err)
	}
	return m, nil
}

// Files ending in .lz4 are compressed with the given level
func Save(path string, m *Mesh, level lz4.CompressionLevel) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create mesh file %q: %w", path, err)
	}

	var opts []EncodeOption
	if strings.HasSuffix(path, ".lz4") {
		opts = append(opts, OptCompress(level))
	}

	err = Encode(file, m, opts...)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("could not encode mesh file %q: %w", path, err)
	}
	return nil
}
