package libsky

import (
	"compgraph/assets"
	"fmt"
	"unsafe"

	"github.com/Qendolin/go-opencl/cl"
	"golang.org/x/exp/slices"
)

type DeviceType = cl.DeviceType

const (
	DeviceTypeCPU         = DeviceType(cl.DeviceTypeCPU)
	DeviceTypeGPU         = DeviceType(cl.DeviceTypeGPU)
	DeviceTypeAccelerator = DeviceType(cl.DeviceTypeAccelerator)
)

type clCore struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
}

type clGenerator struct {
	clCore
	kernel *cl.Kernel
}

// Picks the preferred device type first, then the device with the most compute power
func sortDevices(devices []*cl.Device, preferred DeviceType) {
	slices.SortFunc(devices, func(a, b *cl.Device) int {
		if a.Type() == preferred && b.Type() != preferred {
			return -1
		}
		if a.Type() != preferred && b.Type() == preferred {
			return 1
		}

		aPower := a.MaxComputeUnits() * a.MaxClockFrequency()
		bPower := b.MaxComputeUnits() * b.MaxClockFrequency()

		return bPower - aPower
	})
}

func newClCore(preferredDevice DeviceType, programs ...string) (core *clCore, err error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, err
	}

	var devices []*cl.Device
	for _, p := range platforms {
		devs, err := p.GetDevices(cl.DeviceTypeAll)
		if err != nil {
			continue
		}
		devices = append(devices, devs...)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no opencl devices found")
	}

	sortDevices(devices, preferredDevice)
	device := devices[0]

	ctx, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, err
	}

	queue, err := ctx.CreateCommandQueue(device, 0)
	if err != nil {
		ctx.Release()
		return nil, err
	}

	prog, err := ctx.CreateProgramWithSource(programs)
	if err != nil {
		queue.Release()
		ctx.Release()
		return nil, err
	}
	err = prog.BuildProgram(nil, "")
	if err != nil {
		prog.Release()
		queue.Release()
		ctx.Release()
		return nil, fmt.Errorf("could not build sky kernel: %w", err)
	}

	return &clCore{
		context: ctx,
		queue:   queue,
		program: prog,
	}, nil
}

func (core *clCore) release() {
	core.program.Release()
	core.queue.Release()
	core.context.Release()
}

func NewClGenerator(preferredDevice DeviceType) (gen Generator, err error) {
	src, err := assets.Shader("sky.cl")
	if err != nil {
		return nil, err
	}
	core, err := newClCore(preferredDevice, src)
	if err != nil {
		return nil, err
	}
	kernel, err := core.program.CreateKernel("render_sky")
	if err != nil {
		core.release()
		return nil, err
	}

	return &clGenerator{
		clCore: *core,
		kernel: kernel,
	}, nil
}

// Sets every argument after the result image, in kernel order
func (gen *clGenerator) setArgs(params *SkyParams, size int) error {
	sun := params.SunPosition
	args := []any{
		int32(size),
		sun[0], sun[1], sun[2], params.Intensity,
		int32(params.ViewSteps), int32(params.LightSteps),
		params.PlanetRadius, params.AtmosphereRadius, params.Altitude,
		params.RayleighScatter[0], params.RayleighScatter[1], params.RayleighScatter[2], params.MieScatter,
		params.RayleighScale, params.MieScale, params.MieDirection,
	}
	for i, arg := range args {
		var err error
		switch v := arg.(type) {
		case int32:
			err = gen.kernel.SetArgInt32(i+1, v)
		case float32:
			err = gen.kernel.SetArgFloat32(i+1, v)
		}
		if err != nil {
			return fmt.Errorf("could not set sky kernel argument %d: %w", i+1, err)
		}
	}
	return nil
}

func (gen *clGenerator) Generate(params SkyParams, size int) (*Cubemap, error) {
	if err := params.validate(size); err != nil {
		return nil, err
	}

	dstImage, err := gen.context.CreateImage(cl.MemWriteOnly, cl.ImageFormat{
		ChannelOrder:    cl.ChannelOrderRGBA,
		ChannelDataType: cl.ChannelDataTypeFloat,
	}, cl.ImageDescription{
		Type:      cl.MemObjectTypeImage2DArray,
		Width:     size,
		Height:    size,
		ArraySize: 6,
	}, size*size*6*4*4, nil)
	if err != nil {
		return nil, err
	}
	defer dstImage.Release()

	err = gen.kernel.SetArgBuffer(0, dstImage)
	if err != nil {
		return nil, err
	}
	if err := gen.setArgs(&params, size); err != nil {
		return nil, err
	}

	localWorkSize := []int{8, 8, 1}
	globalWorkSize := []int{roundUpKernelSize(localWorkSize[0], size), roundUpKernelSize(localWorkSize[1], size), 6}

	_, err = gen.queue.EnqueueNDRangeKernel(gen.kernel, []int{0, 0, 0}, globalWorkSize, localWorkSize, nil)
	if err != nil {
		return nil, err
	}

	result := make([]float32, size*size*6*4)
	_, err = gen.queue.EnqueueReadImage(dstImage, true, [3]int{}, [3]int{size, size, 6}, 0, 0, unsafe.Pointer(&result[0]), nil)
	if err != nil {
		return nil, err
	}

	// compact RGBA to RGB
	for i := 0; i < len(result)/4; i++ {
		result[i*3+0] = result[i*4+0]
		result[i*3+1] = result[i*4+1]
		result[i*3+2] = result[i*4+2]
	}
	result = result[: size*size*6*3 : size*size*6*3]

	return NewCubemap(result, size), nil
}

func (gen *clGenerator) Release() {
	gen.kernel.Release()
	gen.release()
}

func roundUpKernelSize(groupSize, globalSize int) int {
	r := globalSize % groupSize
	if r == 0 {
		return globalSize
	}
	return globalSize + groupSize - r
}
