package libview

import (
	"compgraph/assets"
	"compgraph/libgl"
	"compgraph/libio"
	"compgraph/libmesh"
	"compgraph/libscn"
	"compgraph/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const lampMesh = "lamp"

// Draws the figures of a stage with phong lighting, or with textures when
// created through NewTexturedRenderer, and the lamp as an unlit sphere
type Renderer struct {
	Wireframe bool
	batch     *libscn.RenderBatch
	surface   libgl.UnboundShaderPipeline
	lamp      libgl.UnboundShaderPipeline
	textured  bool
	textures  map[string]textureSet
	sampler   libgl.UnboundSampler
}

type textureSet struct {
	diffuse, specular, normal libgl.UnboundTexture
	uvScale                   float32
}

func NewPhongRenderer() (*Renderer, error) {
	return newRenderer("phong.vert", "phong.frag", false)
}

func NewTexturedRenderer(textures map[string]TextureSet) (*Renderer, error) {
	r, err := newRenderer("textured.vert", "textured.frag", true)
	if err != nil {
		return nil, err
	}
	r.sampler = libgl.NewSampler()
	r.sampler.FilterMode(gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR)
	r.sampler.WrapMode(gl.REPEAT, gl.REPEAT, 0)
	r.sampler.AnisotropicFilter(8)
	r.textures = map[string]textureSet{}
	for name, set := range textures {
		r.textures[name] = textureSet{
			diffuse:  uploadImage(name+" diffuse", set.Diffuse, gl.SRGB8_ALPHA8),
			specular: uploadImage(name+" specular", set.Specular, gl.RGBA8),
			normal:   uploadImage(name+" normal", set.Normal, gl.RGBA8),
			uvScale:  set.UvScale,
		}
	}
	return r, nil
}

func uploadImage(label string, img *libio.IntImage, format uint32) libgl.UnboundTexture {
	tex := libgl.NewTexture(gl.TEXTURE_2D)
	tex.SetDebugLabel(label)
	tex.Allocate(0, format, img.Width, img.Height, 0)
	tex.Load(0, img.Width, img.Height, 0, gl.RGBA, img.Pix)
	tex.GenerateMipmap()
	return tex
}

func newRenderer(vertex, fragment string, textured bool) (r *Renderer, err error) {
	var cleanup []libutil.Deleter
	defer func() {
		if err != nil {
			for _, d := range cleanup {
				d.Delete()
			}
		}
	}()

	surface, err := libgl.NewRenderPipeline(assets.MustShader(vertex), assets.MustShader(fragment), nil)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, surface)
	lamp, err := libgl.NewRenderPipeline(assets.MustShader("phong.vert"), assets.MustShader("lamp.frag"), nil)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, lamp)

	return &Renderer{
		batch:    libscn.NewRenderBatch(textured, 1<<16),
		surface:  surface,
		lamp:     lamp,
		textured: textured,
	}, nil
}

// Replaces the uploaded meshes with those of the stage
func (r *Renderer) Upload(stage *Stage) error {
	r.batch.Delete()
	r.batch = libscn.NewRenderBatch(r.textured, 1<<16)
	sphere, err := libmesh.Sphere(1, 24, 12)
	if err != nil {
		return err
	}
	sphere.Name = lampMesh
	r.batch.Upload(sphere)
	stage.Prepared.Upload(r.batch)
	return nil
}

func (r *Renderer) Draw(stage *Stage, viewProjection mgl32.Mat4, viewPos mgl32.Vec3) {
	libgl.PushDebugGroup("Draw Figures")
	defer libgl.PopDebugGroup()

	libgl.State.SetEnabled(libgl.DepthTest)
	libgl.State.DepthFunc(libgl.DepthFuncLess)
	libgl.State.DepthMask(true)
	if r.Wireframe {
		libgl.State.PolygonMode(gl.LINE)
	} else {
		libgl.State.PolygonMode(gl.FILL)
	}

	r.batch.Bind()
	r.surface.Bind()
	vs, fs := r.surface.VertexStage(), r.surface.FragmentStage()
	vs.SetUniform("u_view_projection_mat", viewProjection)
	if r.textured {
		r.sampler.Bind(0)
		r.sampler.Bind(1)
		r.sampler.Bind(2)
	}

	bound := ""
	for _, f := range stage.Prepared.Figures {
		vs.SetUniform("u_model_mat", f.ModelMatrix())
		lighting := stage.Lighting(f, viewPos)
		if r.textured {
			set, ok := r.textures[f.Texture]
			if !ok {
				continue
			}
			if f.Texture != bound {
				set.diffuse.Bind(0)
				set.specular.Bind(1)
				set.normal.Bind(2)
				vs.SetUniform("u_uv_scale", set.uvScale)
				bound = f.Texture
			}
			fs.SetUniform("u_view_pos", lighting.ViewPos)
			fs.SetUniform("u_blinn", lighting.Blinn)
			fs.SetUniform("u_shininess", lighting.Material.Shininess)
			light := libscn.LightFromColor(lighting.Light.Position, mgl32.Vec3{1, 1, 1})
			fs.SetUniform("u_light.position", light.Position)
			fs.SetUniform("u_light.ambient", light.Ambient)
			fs.SetUniform("u_light.diffuse", light.Diffuse)
			fs.SetUniform("u_light.specular", light.Specular)
		} else {
			lighting.Apply(fs)
		}
		r.batch.Draw(f.Mesh, gl.TRIANGLES)
	}

	r.lamp.Bind()
	scale := stage.Light.Scale
	if scale <= 0 {
		scale = defaultLight.Scale
	}
	pos := stage.LightPosition()
	r.lamp.VertexStage().SetUniform("u_view_projection_mat", viewProjection)
	r.lamp.VertexStage().SetUniform("u_model_mat", mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(mgl32.Scale3D(scale, scale, scale)))
	r.lamp.FragmentStage().SetUniform("u_color", mgl32.Vec3{1, 1, 1})
	r.batch.Draw(r.batch.Meshes[lampMesh], gl.TRIANGLES)

	libgl.State.PolygonMode(gl.FILL)
}

func (r *Renderer) Release() {
	r.batch.Delete()
	r.surface.Delete()
	r.lamp.Delete()
	for _, set := range r.textures {
		set.diffuse.Delete()
		set.specular.Delete()
		set.normal.Delete()
	}
	if r.sampler != nil {
		r.sampler.Delete()
	}
}
