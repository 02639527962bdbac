package libtrace

import (
	"compgraph/assets"
	"compgraph/libgl"
	"compgraph/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Adds bloom to the hdr path tracer output and tonemaps it into an RGBA8 target
type PostProcessor struct {
	Exposure      float32
	Gamma         float32
	BloomStrength float32
	Bloom         *BloomEffect

	shader        libgl.UnboundShaderPipeline
	sampler       libgl.UnboundSampler
	target        libgl.UnboundTexture
	framebuffer   libgl.UnboundFramebuffer
	width, height int
}

func NewPostProcessor(width, height int) (post *PostProcessor, err error) {
	cleanup := []libutil.Deleter{}
	defer func() {
		if err != nil {
			for _, v := range cleanup {
				v.Delete()
			}
		}
	}()

	vs, err := assets.Shader("screen.vert")
	if err != nil {
		return nil, err
	}
	fs, err := assets.Shader("post.frag")
	if err != nil {
		return nil, err
	}
	shader, err := libgl.NewRenderPipeline(vs, fs, nil)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, shader)

	bloom, err := NewBloomEffect(6)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, libutil.DeleterFunc(bloom.Release))

	sampler := libgl.NewSampler()
	sampler.FilterMode(gl.LINEAR, gl.LINEAR)
	sampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, 0)

	post = &PostProcessor{
		Exposure:      1,
		Gamma:         2.2,
		BloomStrength: 0.04,
		Bloom:         bloom,
		shader:        shader,
		sampler:       sampler,
		framebuffer:   libgl.NewFramebuffer(),
	}
	post.framebuffer.SetDebugLabel("post")
	post.Resize(width, height)
	if err = post.framebuffer.Check(gl.DRAW_FRAMEBUFFER); err != nil {
		post.Release()
		return nil, err
	}
	return post, nil
}

func (post *PostProcessor) Resize(width, height int) {
	if post.target != nil && width == post.width && height == post.height {
		return
	}
	post.width, post.height = width, height
	post.Bloom.Resize(width, height)
	if post.target != nil {
		post.target.Delete()
	}
	post.target = libgl.NewTexture(gl.TEXTURE_2D)
	post.target.SetDebugLabel("post_result")
	post.target.Allocate(1, gl.RGBA8, width, height, 0)
	post.framebuffer.AttachTexture(0, post.target)
	post.framebuffer.BindTargets(0)
}

// Returns the tonemapped RGBA8 texture
func (post *PostProcessor) Render(hdr libgl.UnboundTexture) libgl.UnboundTexture {
	var bloom libgl.UnboundTexture
	if post.BloomStrength > 0 {
		bloom = post.Bloom.Render(hdr)
	}

	libgl.PushDebugGroup("Post Process")
	defer libgl.PopDebugGroup()

	libgl.State.SetEnabled()
	post.framebuffer.Bind(gl.DRAW_FRAMEBUFFER)
	libgl.State.Viewport(0, 0, post.width, post.height)

	post.shader.Bind()
	fs := post.shader.FragmentStage()
	fs.SetUniform("u_exposure", post.Exposure)
	fs.SetUniform("u_gamma", post.Gamma)
	fs.SetUniform("u_bloom_strength", post.BloomStrength)

	hdr.Bind(0)
	post.sampler.Bind(0)
	if bloom != nil {
		bloom.Bind(1)
	} else {
		libgl.State.BindTextureUnit(1, 0)
	}
	post.sampler.Bind(1)
	libutil.DrawFullscreen()

	return post.target
}

// Copies the last result into the default framebuffer
func (post *PostProcessor) Present(width, height int) {
	post.framebuffer.BlitToScreen(width, height)
}

func (post *PostProcessor) Release() {
	post.Bloom.Release()
	post.shader.Delete()
	post.sampler.Delete()
	post.framebuffer.Delete()
	if post.target != nil {
		post.target.Delete()
	}
}
