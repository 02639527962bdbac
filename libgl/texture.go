package libgl

import (
	"log"
	"math/bits"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type texture struct {
	glId          uint32
	target        uint32
	width, height int
	depth         int
	levels        int
}

type UnboundTexture interface {
	LabeledGlObject
	Id() uint32
	Type() uint32
	Width() int
	Height() int
	Bind(unit int) BoundTexture
	// Binds a level as image for compute shader load and store
	BindImage(unit int, level int, access, format uint32)
	// Zero levels means a full mip chain
	Allocate(levels int, internalFormat uint32, width, height, depth int)
	Load(level int, width, height, depth int, format uint32, data any)
	// Uploads one layer of an array or one face of a cube map
	LoadLayer(level int, layer int, width, height int, format uint32, data any)
	Read(level int, format uint32, data any)
	CreateView(target, internalFormat uint32, minLevel, maxLevel, minLayer, maxLayer int) UnboundTexture
	GenerateMipmap()
	Delete()
}

type BoundTexture interface {
	UnboundTexture
}

func NewTexture(target uint32) UnboundTexture {
	var id uint32
	gl.CreateTextures(target, 1, &id)
	if Env.UseIntelTextureBindingFix {
		Env.IntelTextureBindingTargets[id] = target
	}
	return &texture{
		glId:   id,
		target: target,
	}
}

func (tex *texture) dimensions() int {
	switch tex.target {
	case gl.TEXTURE_1D, gl.TEXTURE_BUFFER:
		return 1
	case gl.TEXTURE_3D, gl.TEXTURE_2D_ARRAY:
		return 3
	case gl.TEXTURE_2D, gl.TEXTURE_1D_ARRAY, gl.TEXTURE_CUBE_MAP:
		// cube maps are allocated like 2d textures and addressed like arrays
		return 2
	}
	debugNotify(gl.DEBUG_TYPE_ERROR, gl.DEBUG_SEVERITY_MEDIUM, "invalid texture target for texture %d: %04x", tex.glId, tex.target)
	return 0
}

func (tex *texture) Id() uint32 {
	return tex.glId
}

func (tex *texture) Type() uint32 {
	return tex.target
}

func (tex *texture) Width() int {
	return tex.width
}

func (tex *texture) Height() int {
	return tex.height
}

func (tex *texture) SetDebugLabel(label string) {
	setObjectLabel(gl.TEXTURE, tex.glId, label)
}

func (tex *texture) Bind(unit int) BoundTexture {
	State.BindTextureUnit(unit, tex.glId)
	return tex
}

func (tex *texture) BindImage(unit int, level int, access, format uint32) {
	layered := tex.target == gl.TEXTURE_CUBE_MAP || tex.target == gl.TEXTURE_2D_ARRAY || tex.target == gl.TEXTURE_3D
	State.BindImageTexture(unit, tex.glId, level, layered, access, format)
}

func (tex *texture) Allocate(levels int, internalFormat uint32, width, height, depth int) {
	if levels == 0 {
		levels = MipLevels(width, height, depth)
	}
	tex.width, tex.height, tex.depth = width, height, depth
	tex.levels = levels
	switch tex.dimensions() {
	case 1:
		gl.TextureStorage1D(tex.glId, int32(levels), internalFormat, int32(width))
	case 2:
		gl.TextureStorage2D(tex.glId, int32(levels), internalFormat, int32(width), int32(height))
	case 3:
		gl.TextureStorage3D(tex.glId, int32(levels), internalFormat, int32(width), int32(height), int32(depth))
	}
}

// Number of levels of a full mip chain
func MipLevels(width, height, depth int) int {
	max := width
	if height > max {
		max = height
	}
	if depth > max {
		max = depth
	}
	if max <= 1 {
		return 1
	}
	return bits.Len(uint(max))
}

func (tex *texture) Load(level int, width, height, depth int, format uint32, data any) {
	dataType := glType(data)
	switch tex.dimensions() {
	case 1:
		gl.TextureSubImage1D(tex.glId, int32(level), 0, int32(width), format, dataType, Pointer(data))
	case 2:
		gl.TextureSubImage2D(tex.glId, int32(level), 0, 0, int32(width), int32(height), format, dataType, Pointer(data))
	case 3:
		gl.TextureSubImage3D(tex.glId, int32(level), 0, 0, 0, int32(width), int32(height), int32(depth), format, dataType, Pointer(data))
	}
}

func (tex *texture) LoadLayer(level int, layer int, width, height int, format uint32, data any) {
	dataType := glType(data)
	// https://community.intel.com/t5/Graphics/glNamedFramebufferTextureLayer-rejects-cubemaps-of-any-kind/td-p/1167643
	if tex.target == gl.TEXTURE_CUBE_MAP && Env.UseIntelCubemapDsaFix {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex.glId)
		State.TextureUnits[State.ActiveTextureUnit] = tex.glId
		gl.TexSubImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+layer), int32(level), 0, 0, int32(width), int32(height), format, dataType, Pointer(data))
		return
	}
	gl.TextureSubImage3D(tex.glId, int32(level), 0, 0, int32(layer), int32(width), int32(height), 1, format, dataType, Pointer(data))
}

func (tex *texture) Read(level int, format uint32, data any) {
	size := fixedSize(data)
	gl.GetTextureImage(tex.glId, int32(level), format, glType(data), int32(size), Pointer(data))
}

func (tex *texture) CreateView(target, internalFormat uint32, minLevel, maxLevel, minLayer, maxLayer int) UnboundTexture {
	var viewId uint32
	gl.GenTextures(1, &viewId)
	gl.TextureView(viewId, target, tex.glId, internalFormat, uint32(minLevel), uint32(maxLevel-minLevel+1), uint32(minLayer), uint32(maxLayer-minLayer+1))
	if Env.UseIntelTextureBindingFix {
		Env.IntelTextureBindingTargets[viewId] = target
	}
	return &texture{
		glId:   viewId,
		target: target,
		width:  tex.width >> minLevel,
		height: tex.height >> minLevel,
		levels: maxLevel - minLevel + 1,
	}
}

func (tex *texture) GenerateMipmap() {
	gl.GenerateTextureMipmap(tex.glId)
}

func (tex *texture) Delete() {
	State.forgetTexture(tex.glId)
	if Env.UseIntelTextureBindingFix {
		delete(Env.IntelTextureBindingTargets, tex.glId)
	}
	gl.DeleteTextures(1, &tex.glId)
	tex.glId = 0
}

func glType(data any) uint32 {
	switch data.(type) {
	case []byte, *byte:
		return gl.UNSIGNED_BYTE
	case []int8, *int8:
		return gl.BYTE
	case []uint16, *uint16:
		return gl.UNSIGNED_SHORT
	case []int32, *int32:
		return gl.INT
	case []uint32, *uint32:
		return gl.UNSIGNED_INT
	case []float32, *float32, []mgl32.Vec3, []mgl32.Vec4:
		return gl.FLOAT
	}
	log.Panicf("invalid pixel type: %T", data)
	return 0
}

type sampler struct {
	glId uint32
}

type UnboundSampler interface {
	Id() uint32
	Bind(unit int) BoundSampler
	FilterMode(min, mag int32)
	WrapMode(s, t, r int32)
	AnisotropicFilter(quality float32)
	Delete()
}

type BoundSampler interface {
	UnboundSampler
}

func NewSampler() UnboundSampler {
	var id uint32
	gl.CreateSamplers(1, &id)
	return &sampler{
		glId: id,
	}
}

func (s *sampler) Id() uint32 {
	return s.glId
}

func (s *sampler) Bind(unit int) BoundSampler {
	State.BindSampler(unit, s.glId)
	return s
}

func (s *sampler) FilterMode(min, mag int32) {
	if min != 0 {
		gl.SamplerParameteri(s.glId, gl.TEXTURE_MIN_FILTER, min)
	}
	if mag != 0 {
		gl.SamplerParameteri(s.glId, gl.TEXTURE_MAG_FILTER, mag)
	}
}

func (s *sampler) WrapMode(wrapS, wrapT, wrapR int32) {
	for pname, mode := range map[uint32]int32{gl.TEXTURE_WRAP_S: wrapS, gl.TEXTURE_WRAP_T: wrapT, gl.TEXTURE_WRAP_R: wrapR} {
		if mode != 0 {
			gl.SamplerParameteri(s.glId, pname, mode)
		}
	}
}

// Clamped to the driver maximum
func (s *sampler) AnisotropicFilter(quality float32) {
	if quality > Env.MaxTextureMaxAnisotropy {
		quality = Env.MaxTextureMaxAnisotropy
	}
	if quality < 1 {
		return
	}
	gl.SamplerParameterf(s.glId, gl.TEXTURE_MAX_ANISOTROPY, quality)
}

func (s *sampler) Delete() {
	for i, id := range State.SamplerUnits {
		if id == s.glId {
			State.SamplerUnits[i] = 0
		}
	}
	gl.DeleteSamplers(1, &s.glId)
	s.glId = 0
}
