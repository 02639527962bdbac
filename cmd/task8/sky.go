package main

import (
	"fmt"

	"compgraph/libgl"
	"compgraph/libsky"

	"github.com/go-gl/gl/v4.5-core/gl"
)

var skyGenerators = []string{"opengl", "software", "opencl"}

// The sky cube map the path tracer samples for rays that leave the scene
type environment struct {
	Texture libgl.UnboundTexture
	Sampler libgl.UnboundSampler
	kind    string
	gl      *libsky.GlGenerator
}

func checkSkyGenerator(kind string) error {
	for _, k := range skyGenerators {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("unknown sky generator %q, must be one of %v", kind, skyGenerators)
}

func newEnvironment(kind string, params libsky.SkyParams, size int) (env *environment, err error) {
	if err := checkSkyGenerator(kind); err != nil {
		return nil, err
	}
	env = &environment{kind: kind}
	if kind == "opengl" {
		env.gl, err = libsky.NewGlGenerator()
		if err != nil {
			return nil, err
		}
		env.Sampler = env.gl.Sampler()
	} else {
		env.Sampler = libgl.NewSampler()
		env.Sampler.FilterMode(gl.LINEAR, gl.LINEAR)
		env.Sampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE)
	}
	if err := env.Generate(params, size); err != nil {
		env.Release()
		return nil, err
	}
	return env, nil
}

// Replaces the sky texture
func (env *environment) Generate(params libsky.SkyParams, size int) error {
	libgl.PushDebugGroup("Generate Sky")
	defer libgl.PopDebugGroup()

	var tex libgl.UnboundTexture
	switch env.kind {
	case "opengl":
		var err error
		tex, err = env.gl.RenderTexture(params, size)
		if err != nil {
			return fmt.Errorf("could not render sky: %w", err)
		}
	default:
		var gen libsky.Generator
		var err error
		if env.kind == "opencl" {
			gen, err = libsky.NewClGenerator(libsky.DeviceTypeGPU)
			if err != nil {
				return fmt.Errorf("could not create opencl sky generator: %w", err)
			}
		} else {
			gen = libsky.NewSwGenerator()
		}
		defer gen.Release()
		cm, err := gen.Generate(params, size)
		if err != nil {
			return fmt.Errorf("could not generate sky: %w", err)
		}
		tex = libsky.UploadCubemap(cm)
	}

	if env.Texture != nil {
		env.Texture.Delete()
	}
	env.Texture = tex
	return nil
}

func (env *environment) Release() {
	if env.Texture != nil {
		env.Texture.Delete()
	}
	if env.gl != nil {
		// owns the sampler
		env.gl.Release()
	} else if env.Sampler != nil {
		env.Sampler.Delete()
	}
}
