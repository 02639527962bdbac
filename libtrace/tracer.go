package libtrace

import (
	"fmt"

	"compgraph/assets"
	"compgraph/libgl"
	"compgraph/libio"
	"compgraph/libscn"
	"compgraph/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Averages compute shader path traced frames into an RGBA32F texture
type PathTracer struct {
	Settings    Settings
	Accumulator Accumulator

	shader        libgl.UnboundShaderPipeline
	cameraUbo     libgl.UnboundBuffer
	objectsUbo    libgl.UnboundBuffer
	result        libgl.UnboundTexture
	counts        mgl32.Vec2
	width, height int
}

// Requires a current OpenGL 4.5 context
func NewPathTracer(width, height int, settings Settings) (tracer *PathTracer, err error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	cleanup := []libutil.Deleter{}
	defer func() {
		if err != nil {
			for _, v := range cleanup {
				v.Delete()
			}
		}
	}()

	src, err := assets.Shader("pathtrace.comp")
	if err != nil {
		return nil, err
	}
	shader, err := libgl.NewComputePipeline(src, map[string]string{
		"MAX_SPHERES": fmt.Sprint(libscn.MaxSpheres),
		"MAX_CUBOIDS": fmt.Sprint(libscn.MaxCuboids),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create path tracer shader: %w", err)
	}
	cleanup = append(cleanup, shader)

	cameraUbo := libgl.NewBuffer()
	cameraUbo.SetDebugLabel("basic_data")
	cameraUbo.AllocateEmpty(CameraBlockSize, gl.DYNAMIC_STORAGE_BIT)
	cleanup = append(cleanup, cameraUbo)

	objectsUbo := libgl.NewBuffer()
	objectsUbo.SetDebugLabel("game_objects")
	objectsUbo.AllocateEmpty(libscn.GameObjectsSize, gl.DYNAMIC_STORAGE_BIT)
	cleanup = append(cleanup, objectsUbo)

	tracer = &PathTracer{
		Settings:   settings,
		shader:     shader,
		cameraUbo:  cameraUbo,
		objectsUbo: objectsUbo,
	}
	tracer.Resize(width, height)
	return tracer, nil
}

// Reallocates the accumulation texture, the average starts over
func (pt *PathTracer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if pt.result != nil && width == pt.width && height == pt.height {
		return
	}
	if pt.result != nil {
		pt.result.Delete()
	}
	pt.width, pt.height = width, height
	pt.result = libgl.NewTexture(gl.TEXTURE_2D)
	pt.result.SetDebugLabel("path_trace_result")
	pt.result.Allocate(1, gl.RGBA32F, width, height, 0)
	pt.Accumulator.Reset()
}

func (pt *PathTracer) Size() (width, height int) {
	return pt.width, pt.height
}

// Uploads the camera, a moved camera resets the average
func (pt *PathTracer) SetCamera(block CameraBlock) {
	if pt.Accumulator.Observe(block) {
		pt.cameraUbo.Write(0, &block)
	}
}

// Uploads every object of the set and resets the average
func (pt *PathTracer) SetObjects(set *libscn.ObjectSet) error {
	if err := set.Upload(pt.objectsUbo); err != nil {
		return fmt.Errorf("could not upload scene objects: %w", err)
	}
	pt.counts = set.Counts()
	pt.Accumulator.Reset()
	return nil
}

// Uploads a single changed sphere
func (pt *PathTracer) UpdateSphere(set *libscn.ObjectSet, index int) error {
	if err := set.UploadSphere(pt.objectsUbo, index); err != nil {
		return err
	}
	pt.Accumulator.Reset()
	return nil
}

func (pt *PathTracer) UpdateCuboid(set *libscn.ObjectSet, index int) error {
	if err := set.UploadCuboid(pt.objectsUbo, index); err != nil {
		return err
	}
	pt.Accumulator.Reset()
	return nil
}

// Traces one more frame into the average, sky must be a cube map
func (pt *PathTracer) Render(sky libgl.UnboundTexture, skySampler libgl.UnboundSampler) libgl.UnboundTexture {
	libgl.PushDebugGroup("Path Trace")
	defer libgl.PopDebugGroup()

	pt.cameraUbo.BindBase(gl.UNIFORM_BUFFER, CameraBlockBinding)
	pt.objectsUbo.BindBase(gl.UNIFORM_BUFFER, ObjectsBinding)

	pt.shader.Bind()
	cs := pt.shader.ComputeStage()
	cs.SetUniform("u_object_counts", pt.counts)
	cs.SetUniform("u_frame", int32(pt.Accumulator.Next()))
	cs.SetUniform("u_ray_depth", int32(pt.Settings.RayDepth))
	cs.SetUniform("u_samples", int32(pt.Settings.SamplesPerPixel))
	cs.SetUniform("u_focal_length", pt.Settings.FocalLength)
	cs.SetUniform("u_aperture", pt.Settings.Aperture)
	cs.SetUniform("u_sky_strength", pt.Settings.SkyStrength)

	sky.Bind(1)
	skySampler.Bind(1)
	pt.result.BindImage(0, 0, gl.READ_WRITE, gl.RGBA32F)

	gl.DispatchCompute(uint32((pt.width+7)/8), uint32((pt.height+7)/8), 1)
	gl.MemoryBarrier(gl.TEXTURE_FETCH_BARRIER_BIT | gl.SHADER_IMAGE_ACCESS_BARRIER_BIT | gl.TEXTURE_UPDATE_BARRIER_BIT)

	return pt.result
}

func (pt *PathTracer) Result() libgl.UnboundTexture {
	return pt.result
}

// Reads the current average back into an RGB image
func (pt *PathTracer) Snapshot() *libio.FloatImage {
	pix := make([]float32, pt.width*pt.height*3)
	pt.result.Read(0, gl.RGB, pix)
	img := libio.NewFloatImage(pix, 3, pt.width, pt.height)
	img.Samples = pt.Accumulator.Frame()
	return img
}

func (pt *PathTracer) Release() {
	pt.shader.Delete()
	pt.cameraUbo.Delete()
	pt.objectsUbo.Delete()
	if pt.result != nil {
		pt.result.Delete()
	}
}
