package libview

import (
	"compgraph/libio"
)

const TextureSize = 256

// Diffuse, specular and tangent space normal maps of one surface
type TextureSet struct {
	Diffuse  *libio.IntImage
	Specular *libio.IntImage
	Normal   *libio.IntImage
	// Repeats of the texture across the uv range
	UvScale float32
}

var (
	black     = libio.Color{0x10, 0x10, 0x12, 0xff}
	darkGray  = libio.Color{0x30, 0x30, 0x34, 0xff}
	steel     = libio.Color{0x9a, 0x9e, 0xa6, 0xff}
	steelDark = libio.Color{0x6c, 0x70, 0x78, 0xff}
	brown     = libio.Color{0x4e, 0x35, 0x24, 0xff}
	brownDark = libio.Color{0x36, 0x23, 0x17, 0xff}
	shine     = libio.Color{0xe0, 0xe0, 0xe8, 0xff}
	dull      = libio.Color{0x20, 0x20, 0x20, 0xff}
)

func flatNormals(size int) *libio.IntImage {
	return libio.BumpNormals(size, 1, 0)
}

// Procedural stand ins for the metal, leather, blade and blade_shine surfaces
func ProceduralTextures(size int) map[string]TextureSet {
	return map[string]TextureSet{
		"metal": {
			Diffuse:  libio.Stripes(size, size/32, steel, steelDark),
			Specular: libio.Stripes(size, size/32, shine, dull),
			Normal:   flatNormals(size),
			UvScale:  1,
		},
		"leather": {
			Diffuse:  libio.Checker(size, 16, brown, brownDark),
			Specular: libio.Checker(size, 16, dull, dull),
			Normal:   libio.BumpNormals(size, 16, 0.6),
			UvScale:  2,
		},
		"blade": {
			Diffuse:  libio.Checker(size, 1, black, black),
			Specular: libio.Checker(size, 1, dull, dull),
			Normal:   flatNormals(size),
			UvScale:  1,
		},
		"blade_shine": {
			Diffuse:  libio.Stripes(size, size/8, black, darkGray),
			Specular: libio.Stripes(size, size/8, shine, steel),
			Normal:   flatNormals(size),
			UvScale:  1,
		},
	}
}
