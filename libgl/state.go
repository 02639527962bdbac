package libgl

import (
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type Capability uint32

const (
	DepthTest   Capability = gl.DEPTH_TEST
	Blend       Capability = gl.BLEND
	ScissorTest Capability = gl.SCISSOR_TEST
	CullFace    Capability = gl.CULL_FACE
	// Used by the debug draw so gizmos win against coplanar geometry
	PolygonOffsetFill Capability = gl.POLYGON_OFFSET_FILL
)

type BlendFactor uint32

const (
	BlendZero             BlendFactor = gl.ZERO
	BlendOne              BlendFactor = gl.ONE
	BlendSrcAlpha         BlendFactor = gl.SRC_ALPHA
	BlendOneMinusSrcAlpha BlendFactor = gl.ONE_MINUS_SRC_ALPHA
)

type BlendEquation uint32

const (
	BlendFuncAdd      BlendEquation = gl.FUNC_ADD
	BlendFuncSubtract BlendEquation = gl.FUNC_SUBTRACT
	BlendMax          BlendEquation = gl.MAX
)

type DepthFunc uint32

const (
	DepthFuncLess   DepthFunc = gl.LESS
	DepthFuncLEqual DepthFunc = gl.LEQUAL
	DepthFuncAlways DepthFunc = gl.ALWAYS
)

// Caches bound objects and fixed function state to skip redundant driver calls.
// All gl calls that change tracked state must go through here.
type GlStateManager struct {
	Caps                               map[Capability]bool
	TextureUnits, SamplerUnits         []uint32
	ImageUnits                         []uint32
	UniformBlocks                      []uint32
	DrawFramebuffer, ReadFramebuffer   uint32
	ArrayBuffer, ElementArrayBuffer    uint32
	UniformBuffer, ShaderStorageBuffer uint32
	ProgramPipeline, VertexArray       uint32
	ActiveTextureUnit                  int
	ViewportRect, ScissorRect          [4]int
	BlendEquationRGBA                  BlendEquation
	PolygonOffsetFactorUnits           [2]float32
	BlendFactorSrc, BlendFactorDst     BlendFactor
	DepthFn                            DepthFunc
	DepthWriteMask                     bool
	ClearColorRGBA                     [4]float32
	PolygonModeFrontAndBack            uint32
	LineWidthPx                        float32
}

const (
	VendorIntel   = "intel"
	VendorNvidia  = "nvidia"
	VendorAmd     = "ati"
	VendorUnknown = "unknown"
)

// Driver quirks, detected once after context creation
type GlEnvironment struct {
	Vendor                     string
	Renderer                   string
	UseIntelTextureBindingFix  bool
	UseIntelCubemapDsaFix      bool
	IntelTextureBindingTargets map[uint32]uint32
	MaxTextureMaxAnisotropy    float32
	MaxComputeWorkGroupCount   [3]int32
}

var (
	State *GlStateManager
	Env   *GlEnvironment
)

// Must be called once the context is current
func Init() {
	State = NewGlStateManager()
	Env = DetectEnvironment()
}

func DetectEnvironment() *GlEnvironment {
	vendor := strings.ToLower(gl.GoStr(gl.GetString(gl.VENDOR)))
	switch {
	case strings.Contains(vendor, "intel"):
		vendor = VendorIntel
	case strings.Contains(vendor, "nvidia"):
		vendor = VendorNvidia
	case strings.Contains(vendor, "ati ") || strings.Contains(vendor, "amd"):
		vendor = VendorAmd
	default:
		vendor = VendorUnknown
	}

	env := &GlEnvironment{
		Vendor:                     vendor,
		Renderer:                   gl.GoStr(gl.GetString(gl.RENDERER)),
		UseIntelTextureBindingFix:  vendor == VendorIntel,
		UseIntelCubemapDsaFix:      vendor == VendorIntel,
		IntelTextureBindingTargets: map[uint32]uint32{},
	}

	gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &env.MaxTextureMaxAnisotropy)
	for i := range env.MaxComputeWorkGroupCount {
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_COUNT, uint32(i), &env.MaxComputeWorkGroupCount[i])
	}

	return env
}

func NewGlStateManager() *GlStateManager {
	return &GlStateManager{
		Caps:                    map[Capability]bool{},
		TextureUnits:            make([]uint32, 32),
		SamplerUnits:            make([]uint32, 32),
		ImageUnits:              make([]uint32, 8),
		UniformBlocks:           make([]uint32, 16),
		DepthWriteMask:          true,
		BlendEquationRGBA:       BlendFuncAdd,
		PolygonModeFrontAndBack: gl.FILL,
		LineWidthPx:             1,
	}
}

func (s *GlStateManager) Enable(cap Capability) {
	if s.Caps[cap] {
		return
	}
	gl.Enable(uint32(cap))
	s.Caps[cap] = true
}

func (s *GlStateManager) Disable(cap Capability) {
	if !s.Caps[cap] {
		return
	}
	gl.Disable(uint32(cap))
	s.Caps[cap] = false
}

// Enables exactly the given capabilities and disables every other tracked one
func (s *GlStateManager) SetEnabled(caps ...Capability) {
	want := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		want[c] = true
	}
	for c, on := range s.Caps {
		if on && !want[c] {
			s.Disable(c)
		}
	}
	for c := range want {
		s.Enable(c)
	}
}

func (s *GlStateManager) BlendFunc(src, dst BlendFactor) {
	if s.BlendFactorSrc == src && s.BlendFactorDst == dst {
		return
	}
	gl.BlendFunc(uint32(src), uint32(dst))
	s.BlendFactorSrc = src
	s.BlendFactorDst = dst
}

func (s *GlStateManager) BlendEquation(eq BlendEquation) {
	if s.BlendEquationRGBA == eq {
		return
	}
	gl.BlendEquation(uint32(eq))
	s.BlendEquationRGBA = eq
}

func (s *GlStateManager) DepthFunc(fn DepthFunc) {
	if s.DepthFn == fn {
		return
	}
	gl.DepthFunc(uint32(fn))
	s.DepthFn = fn
}

func (s *GlStateManager) DepthMask(flag bool) {
	if s.DepthWriteMask == flag {
		return
	}
	gl.DepthMask(flag)
	s.DepthWriteMask = flag
}

// mode is GL_FILL, GL_LINE or GL_POINT and applies to both faces
func (s *GlStateManager) PolygonMode(mode uint32) {
	if s.PolygonModeFrontAndBack == mode {
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	s.PolygonModeFrontAndBack = mode
}

func (s *GlStateManager) LineWidth(width float32) {
	if s.LineWidthPx == width {
		return
	}
	gl.LineWidth(width)
	s.LineWidthPx = width
}

func (s *GlStateManager) BindTextureUnit(unit int, texture uint32) {
	if s.TextureUnits[unit] == texture {
		return
	}
	if Env.UseIntelTextureBindingFix && texture != 0 {
		s.ActiveTexture(unit)
		gl.BindTexture(Env.IntelTextureBindingTargets[texture], texture)
		s.TextureUnits[unit] = texture
		return
	}
	gl.BindTextureUnit(uint32(unit), texture)
	s.TextureUnits[unit] = texture
}

func (s *GlStateManager) ActiveTexture(unit int) {
	if s.ActiveTextureUnit == unit {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	s.ActiveTextureUnit = unit
}

func (s *GlStateManager) BindImageTexture(unit int, texture uint32, level int, layered bool, access, format uint32) {
	gl.BindImageTexture(uint32(unit), texture, int32(level), layered, 0, access, format)
	s.ImageUnits[unit] = texture
}

func (s *GlStateManager) BindSampler(unit int, sampler uint32) {
	if s.SamplerUnits[unit] == sampler {
		return
	}
	gl.BindSampler(uint32(unit), sampler)
	s.SamplerUnits[unit] = sampler
}

func (s *GlStateManager) BindBuffer(target uint32, buffer uint32) {
	var slot *uint32
	switch target {
	case gl.ARRAY_BUFFER:
		slot = &s.ArrayBuffer
	case gl.ELEMENT_ARRAY_BUFFER:
		slot = &s.ElementArrayBuffer
	case gl.UNIFORM_BUFFER:
		slot = &s.UniformBuffer
	case gl.SHADER_STORAGE_BUFFER:
		slot = &s.ShaderStorageBuffer
	default:
		gl.BindBuffer(target, buffer)
		return
	}
	if *slot == buffer {
		return
	}
	gl.BindBuffer(target, buffer)
	*slot = buffer
}

// Binds a buffer to an indexed uniform block binding point.
// Other indexed targets are not cached.
func (s *GlStateManager) BindBufferBase(target uint32, index int, buffer uint32) {
	if target == gl.UNIFORM_BUFFER {
		if s.UniformBlocks[index] == buffer {
			return
		}
		s.UniformBlocks[index] = buffer
		s.UniformBuffer = buffer
	}
	gl.BindBufferBase(target, uint32(index), buffer)
}

func (s *GlStateManager) BindFramebuffer(target, framebuffer uint32) {
	switch target {
	case gl.DRAW_FRAMEBUFFER:
		s.BindDrawFramebuffer(framebuffer)
	case gl.READ_FRAMEBUFFER:
		s.BindReadFramebuffer(framebuffer)
	default:
		if framebuffer == s.DrawFramebuffer && framebuffer == s.ReadFramebuffer {
			return
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
		s.DrawFramebuffer = framebuffer
		s.ReadFramebuffer = framebuffer
	}
}

func (s *GlStateManager) BindDrawFramebuffer(framebuffer uint32) {
	if s.DrawFramebuffer == framebuffer {
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, framebuffer)
	s.DrawFramebuffer = framebuffer
}

func (s *GlStateManager) BindReadFramebuffer(framebuffer uint32) {
	if s.ReadFramebuffer == framebuffer {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, framebuffer)
	s.ReadFramebuffer = framebuffer
}

func (s *GlStateManager) BindProgramPipeline(pipeline uint32) {
	if s.ProgramPipeline == pipeline {
		return
	}
	gl.BindProgramPipeline(pipeline)
	s.ProgramPipeline = pipeline
}

func (s *GlStateManager) BindVertexArray(array uint32) {
	if s.VertexArray == array {
		return
	}
	gl.BindVertexArray(array)
	s.VertexArray = array
}

func (s *GlStateManager) Viewport(x, y, w, h int) {
	if s.ViewportRect == [4]int{x, y, w, h} {
		return
	}
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
	s.ViewportRect = [4]int{x, y, w, h}
}

func (s *GlStateManager) Scissor(x, y, w, h int) {
	if s.ScissorRect == [4]int{x, y, w, h} {
		return
	}
	gl.Scissor(int32(x), int32(y), int32(w), int32(h))
	s.ScissorRect = [4]int{x, y, w, h}
}

func (s *GlStateManager) PolygonOffset(factor, units float32) {
	if s.PolygonOffsetFactorUnits == [2]float32{factor, units} {
		return
	}
	gl.PolygonOffset(factor, units)
	s.PolygonOffsetFactorUnits = [2]float32{factor, units}
}

func (s *GlStateManager) ClearColor(r, g, b, a float32) {
	if s.ClearColorRGBA == [4]float32{r, g, b, a} {
		return
	}
	gl.ClearColor(r, g, b, a)
	s.ClearColorRGBA = [4]float32{r, g, b, a}
}

// Forgets a deleted object so a recycled id is not mistaken for a cached binding
func (s *GlStateManager) forgetTexture(id uint32) {
	for i, t := range s.TextureUnits {
		if t == id {
			s.TextureUnits[i] = 0
		}
	}
	for i, t := range s.ImageUnits {
		if t == id {
			s.ImageUnits[i] = 0
		}
	}
}

func (s *GlStateManager) forgetBuffer(id uint32) {
	for i, b := range s.UniformBlocks {
		if b == id {
			s.UniformBlocks[i] = 0
		}
	}
	for _, slot := range []*uint32{&s.ArrayBuffer, &s.ElementArrayBuffer, &s.UniformBuffer, &s.ShaderStorageBuffer} {
		if *slot == id {
			*slot = 0
		}
	}
}
