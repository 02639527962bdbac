package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"compgraph/libapp"
	"compgraph/libsky"

	"golang.org/x/image/draw"
)

type impl string

const (
	implCl impl = "opencl"
	implGl impl = "opengl"
	implSw impl = "software"
)

func (i *impl) String() string {
	return string(*i)
}

func (i *impl) Set(s string) error {
	switch impl(s) {
	case implCl, implGl, implSw:
		*i = impl(s)
	default:
		return fmt.Errorf("%s is not a valid implementation", s)
	}
	return nil
}

var clDevices = map[string]libsky.DeviceType{
	"gpu":         libsky.DeviceTypeGPU,
	"cpu":         libsky.DeviceTypeCPU,
	"accelerator": libsky.DeviceTypeAccelerator,
}

type skyArgs struct {
	commonArgs
	impl      impl
	device    string
	size      int
	timeOfDay float64
	preview   int
	gamma     float64
	exposure  float64
}

func createSkyCommand() *command {
	args := skyArgs{
		commonArgs: commonArgs{
			compress: 2,
		},
		impl:      implSw,
		device:    "gpu",
		size:      128,
		timeOfDay: 0.3,
		preview:   1024,
		gamma:     2.2,
		exposure:  1,
	}

	flags := flag.NewFlagSet("sky", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.Var(&args.impl, "impl", "the sky implementation; opencl, opengl or software")
	flags.StringVar(&args.device, "device", args.device, "the preferred opencl device; gpu, cpu or accelerator")
	flags.IntVar(&args.size, "size", args.size, "the cubemap face resolution in px")
	flags.IntVar(&args.size, "s", args.size, "shorthand for size")
	flags.Float64Var(&args.timeOfDay, "time", args.timeOfDay, "time of day in [0, 1), 0.25 is noon")
	flags.IntVar(&args.preview, "preview", args.preview, "width of the png cross preview, 0 disables it")
	flags.Float64Var(&args.gamma, "gamma", args.gamma, "gamma correction of the preview")
	flags.Float64Var(&args.exposure, "exposure", args.exposure, "exposure of the preview")

	return &command{
		Name: "sky",
		Help: "render the procedural sky to a cubemap file and a png preview",
		Run: func(self *command) {
			if self.Flags.NArg() != 1 || args.size < 1 || args.compress < 0 || args.compress > 9 || clDevices[args.device] == 0 {
				printCommandUsage(self, " name")
			}
			setCommonArgs(&args.commonArgs)

			harderr(runSky(args, self.Flags.Arg(0)))
		},
		Flags: flags,
	}
}

func newSkyGenerator(args skyArgs) (libsky.Generator, func(), error) {
	switch args.impl {
	case implCl:
		gen, err := libsky.NewClGenerator(clDevices[args.device])
		if err == nil {
			info("Using OpenCL implementation\n")
			return gen, func() {}, nil
		}
		softerr(err)
		info("Falling back to software implementation\n")
	case implGl:
		runtime.LockOSThread()
		cfg := libapp.DefaultConfig("sky")
		cfg.Width, cfg.Height = 64, 64
		cfg.Hidden = true
		cfg.Debug = false
		win, err := libapp.NewWindow(cfg)
		if err != nil {
			return nil, nil, err
		}
		gen, err := libsky.NewGlGenerator()
		if err != nil {
			win.Terminate()
			return nil, nil, err
		}
		info("Using OpenGL implementation\n")
		return gen, win.Terminate, nil
	}
	info("Using software implementation\n")
	return libsky.NewSwGenerator(), func() {}, nil
}

func runSky(args skyArgs, name string) error {
	gen, done, err := newSkyGenerator(args)
	if err != nil {
		return err
	}
	defer done()
	defer gen.Release()

	params := libsky.DefaultParams()
	params.SunPosition = libsky.SunAt(float32(args.timeOfDay))

	start := time.Now()
	cm, err := gen.Generate(params, args.size)
	if err != nil {
		return fmt.Errorf("could not generate sky: %w", err)
	}
	info("Generated %dpx sky in %v\n", args.size, time.Since(start).Round(time.Millisecond))

	path := filepath.Join(args.out, name+".sky")
	if err := writeCubemap(path, cm, args.compress); err != nil {
		return err
	}
	info("Wrote %s\n", path)

	if args.preview <= 0 {
		return nil
	}
	path = filepath.Join(args.out, name+".png")
	if err := writePreview(path, cm, args.preview, float32(args.gamma), float32(args.exposure)); err != nil {
		return err
	}
	info("Wrote %s\n", path)
	return nil
}

func writeCubemap(path string, cm *libsky.Cubemap, level int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := libsky.EncodeCubemap(f, cm, libsky.OptCompress(level)); err != nil {
		return fmt.Errorf("could not encode %q: %w", path, err)
	}
	return nil
}

// Tonemapped horizontal cross scaled to the given width
func crossPreview(cm *libsky.Cubemap, width int, gamma, exposure float32) *image.RGBA {
	cross := cm.Cross().ToIntImage(gamma, exposure).ToRGBA()
	bounds := cross.Bounds()
	if width == bounds.Dx() {
		return cross
	}
	height := width * bounds.Dy() / bounds.Dx()
	if height < 1 {
		height = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), cross, bounds, draw.Src, nil)
	return scaled
}

func writePreview(path string, cm *libsky.Cubemap, width int, gamma, exposure float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, crossPreview(cm, width, gamma, exposure)); err != nil {
		return fmt.Errorf("could not encode %q: %w", path, err)
	}
	return nil
}
