package libtrace

import (
	"compgraph/assets"
	"compgraph/libgl"
	"compgraph/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const bloomFormat = gl.R11F_G11F_B10F

// A mip mapped texture with a single level view per level, views are render targets and inputs
type mipChain struct {
	texture libgl.UnboundTexture
	views   []libgl.UnboundTexture
}

func newMipChain(label string, levels, width, height int) *mipChain {
	chain := &mipChain{
		texture: libgl.NewTexture(gl.TEXTURE_2D),
		views:   make([]libgl.UnboundTexture, levels),
	}
	chain.texture.SetDebugLabel(label)
	chain.texture.Allocate(levels, bloomFormat, width, height, 0)
	for i := range chain.views {
		chain.views[i] = chain.texture.CreateView(gl.TEXTURE_2D, bloomFormat, i, i, 0, 0)
	}
	return chain
}

func (chain *mipChain) Delete() {
	if chain == nil {
		return
	}
	for _, v := range chain.views {
		v.Delete()
	}
	chain.texture.Delete()
}

// Number of bloom levels that fit into the half resolution down chain
func bloomLevels(levels, width, height int) int {
	max := libgl.MipLevels(width/2, height/2, 0)
	if levels > max {
		levels = max
	}
	if levels < 1 {
		levels = 1
	}
	return levels
}

// Weights of the upsampled and the down chain input when writing up level i
func upFactors(factors []float32, i int) mgl32.Vec2 {
	last := len(factors) - 1
	switch {
	case i == 0:
		return mgl32.Vec2{1, 0}
	case i == last:
		return mgl32.Vec2{factors[i], factors[i-1]}
	default:
		return mgl32.Vec2{1, factors[i-1]}
	}
}

// Soft knee threshold parameters of the first down pass
func thresholdCurve(threshold, knee float32) mgl32.Vec4 {
	k := threshold*knee + 1e-5
	return mgl32.Vec4{threshold, threshold - k, k * 2, 0.25 / k}
}

// Physically based bloom: a thresholded 13 tap downsample chain followed by a tent filtered upsample chain
type BloomEffect struct {
	Threshold float32
	Knee      float32
	// Per level weight, index 0 is the highest resolution
	Factors       []float32
	maxLevels     int
	levels        int
	width, height int
	downShader    libgl.UnboundShaderPipeline
	upShader      libgl.UnboundShaderPipeline
	down, up      *mipChain
	sampler       libgl.UnboundSampler
	framebuffer   libgl.UnboundFramebuffer
}

func NewBloomEffect(levels int) (effect *BloomEffect, err error) {
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
	downFs, err := assets.Shader("bloom_down.frag")
	if err != nil {
		return nil, err
	}
	upFs, err := assets.Shader("bloom_up.frag")
	if err != nil {
		return nil, err
	}
	downShader, err := libgl.NewRenderPipeline(vs, downFs, nil)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, downShader)
	upShader, err := libgl.NewRenderPipeline(vs, upFs, nil)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, upShader)

	sampler := libgl.NewSampler()
	sampler.FilterMode(gl.LINEAR_MIPMAP_NEAREST, gl.LINEAR)
	sampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, 0)

	fbo := libgl.NewFramebuffer()
	fbo.SetDebugLabel("bloom")
	fbo.BindTargets(0)

	factors := make([]float32, levels)
	for i := range factors {
		factors[i] = 1
	}

	return &BloomEffect{
		Threshold:   2,
		Knee:        0.5,
		Factors:     factors,
		maxLevels:   levels,
		downShader:  downShader,
		upShader:    upShader,
		sampler:     sampler,
		framebuffer: fbo,
	}, nil
}

func (effect *BloomEffect) Levels() int {
	return effect.levels
}

func (effect *BloomEffect) Resize(width, height int) {
	if width == effect.width && height == effect.height {
		return
	}
	effect.width, effect.height = width, height
	effect.levels = bloomLevels(effect.maxLevels, width, height)

	effect.up.Delete()
	effect.down.Delete()
	effect.up = newMipChain("bloom_up", effect.levels, width, height)
	effect.down = newMipChain("bloom_down", effect.levels, width/2, height/2)
}

func (effect *BloomEffect) drawLevel(target *mipChain, level int) {
	effect.framebuffer.AttachTextureLevel(0, target.texture, level)
	libgl.State.Viewport(0, 0, target.views[level].Width(), target.views[level].Height())
	libutil.DrawFullscreen()
}

// Returns the full resolution bloom texture, only valid until the next call
func (effect *BloomEffect) Render(hdr libgl.UnboundTexture) libgl.UnboundTexture {
	libgl.PushDebugGroup("Draw Bloom")
	defer libgl.PopDebugGroup()

	libgl.State.SetEnabled()
	effect.framebuffer.Bind(gl.DRAW_FRAMEBUFFER)
	effect.sampler.Bind(0)
	effect.sampler.Bind(1)

	effect.downShader.Bind()
	fs := effect.downShader.FragmentStage()
	fs.SetUniform("u_threshold", thresholdCurve(effect.Threshold, effect.Knee))
	hdr.Bind(0)
	effect.drawLevel(effect.down, 0)
	// only the first pass is thresholded
	fs.SetUniform("u_threshold", mgl32.Vec4{})
	for i := 1; i < effect.levels; i++ {
		effect.down.views[i-1].Bind(0)
		effect.drawLevel(effect.down, i)
	}

	effect.upShader.Bind()
	us := effect.upShader.FragmentStage()
	input := effect.down.views[effect.levels-1]
	for i := effect.levels - 1; i >= 0; i-- {
		if i == 0 {
			libgl.State.BindTextureUnit(0, 0)
		} else {
			effect.down.views[i-1].Bind(0)
		}
		us.SetUniform("u_factor", upFactors(effect.Factors[:effect.levels], i))
		input.Bind(1)
		effect.drawLevel(effect.up, i)
		input = effect.up.views[i]
	}

	return effect.up.texture
}

func (effect *BloomEffect) Release() {
	effect.downShader.Delete()
	effect.upShader.Delete()
	effect.up.Delete()
	effect.down.Delete()
	effect.framebuffer.Delete()
	effect.sampler.Delete()
}
