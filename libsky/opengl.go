package libsky

import (
	"unsafe"

	"compgraph/assets"
	"compgraph/libgl"
	"compgraph/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Binding of the SkyBlock uniform block
const SkyBlockBinding = 2

// std140 layout of the SkyBlock uniform block
type SkyBlock struct {
	InvProjection mgl32.Mat4
	InvViews      [6]mgl32.Mat4
	// xyz position, w intensity
	Sun mgl32.Vec4
}

// Inverse capture matrices, one 90° view per face looking out of the origin
func CaptureBlock(params *SkyParams) SkyBlock {
	proj := mgl32.Perspective(mgl32.DegToRad(90.0), 1.0, 0.1, 10.0)
	views := [6]mgl32.Mat4{
		mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}),
		mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}),
		mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}),
		mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}),
		mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}),
		mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}),
	}

	block := SkyBlock{
		InvProjection: proj.Inv(),
		Sun:           params.SunPosition.Vec4(params.Intensity),
	}
	for i, v := range views {
		block.InvViews[i] = v.Inv()
	}
	return block
}

const skyBlockSize = int(unsafe.Sizeof(SkyBlock{}))

type GlGenerator struct {
	shader  libgl.UnboundShaderPipeline
	ubo     libgl.UnboundBuffer
	sampler libgl.UnboundSampler
}

// Requires a current OpenGL 4.5 context
func NewGlGenerator() (gen *GlGenerator, err error) {
	cleanup := []libutil.Deleter{}
	defer func() {
		if err != nil {
			for _, v := range cleanup {
				v.Delete()
			}
		}
	}()

	src, err := assets.Shader("sky.comp")
	if err != nil {
		return nil, err
	}
	shader, err := libgl.NewComputePipeline(src, nil)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, shader)

	ubo := libgl.NewBuffer()
	ubo.SetDebugLabel("sky_block")
	ubo.AllocateEmpty(skyBlockSize, gl.DYNAMIC_STORAGE_BIT)
	cleanup = append(cleanup, ubo)

	sampler := libgl.NewSampler()
	sampler.FilterMode(gl.NEAREST, gl.LINEAR)
	sampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE)

	return &GlGenerator{
		shader:  shader,
		ubo:     ubo,
		sampler: sampler,
	}, nil
}

// Sampler for sky cube maps, nearest when minified and linear when magnified
func (gen *GlGenerator) Sampler() libgl.UnboundSampler {
	return gen.sampler
}

// Renders the sky into a new RGBA32F cube map texture
func (gen *GlGenerator) RenderTexture(params SkyParams, size int) (libgl.UnboundTexture, error) {
	if err := params.validate(size); err != nil {
		return nil, err
	}

	cubemap := libgl.NewTexture(gl.TEXTURE_CUBE_MAP)
	cubemap.SetDebugLabel("sky")
	cubemap.Allocate(1, gl.RGBA32F, size, size, 0)

	block := CaptureBlock(&params)
	gen.ubo.Write(0, &block)
	gen.ubo.BindBase(gl.UNIFORM_BUFFER, SkyBlockBinding)

	gen.shader.Bind()
	cs := gen.shader.ComputeStage()
	cs.SetUniform("u_view_steps", params.ViewSteps)
	cs.SetUniform("u_light_steps", params.LightSteps)
	cs.SetUniform("u_planet_radius", params.PlanetRadius)
	cs.SetUniform("u_atmosphere_radius", params.AtmosphereRadius)
	cs.SetUniform("u_altitude", params.Altitude)
	cs.SetUniform("u_rayleigh_scatter", params.RayleighScatter)
	cs.SetUniform("u_mie_scatter", params.MieScatter)
	cs.SetUniform("u_rayleigh_scale", params.RayleighScale)
	cs.SetUniform("u_mie_scale", params.MieScale)
	cs.SetUniform("u_mie_direction", params.MieDirection)

	// layered binding exposes all six faces to the imageCube
	libgl.State.BindImageTexture(0, cubemap.Id(), 0, true, gl.WRITE_ONLY, gl.RGBA32F)
	groups := uint32((size + 7) / 8)
	gl.DispatchCompute(groups, groups, 6)
	gl.MemoryBarrier(gl.TEXTURE_FETCH_BARRIER_BIT | gl.TEXTURE_UPDATE_BARRIER_BIT)

	return cubemap, nil
}

func (gen *GlGenerator) Generate(params SkyParams, size int) (*Cubemap, error) {
	cubemap, err := gen.RenderTexture(params, size)
	if err != nil {
		return nil, err
	}
	defer cubemap.Delete()

	cm := NewCubemap(nil, size)
	result := cm.Concat()
	faceLen := size * size * 3

	if libgl.Env.UseIntelCubemapDsaFix {
		cubemap.Bind(0)
		for i := 0; i < 6; i++ {
			face := uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X + i)
			gl.GetTexImage(face, 0, gl.RGB, gl.FLOAT, libgl.Pointer(&result[i*faceLen]))
		}
	} else {
		cubemap.Read(0, gl.RGB, result)
	}

	return cm, nil
}

func (gen *GlGenerator) Release() {
	gen.shader.Delete()
	gen.ubo.Delete()
	gen.sampler.Delete()
}

// Uploads a cube map as RGB32F texture
func UploadCubemap(cm *Cubemap) libgl.UnboundTexture {
	tex := libgl.NewTexture(gl.TEXTURE_CUBE_MAP)
	tex.SetDebugLabel("sky")
	tex.Allocate(1, gl.RGB32F, cm.Size, cm.Size, 0)
	for i, face := range cm.Faces {
		tex.LoadLayer(0, i, cm.Size, cm.Size, gl.RGB, face)
	}
	return tex
}
