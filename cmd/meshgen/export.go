package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"compgraph/libmesh"
)

type exportArgs struct {
	commonArgs
	ext    string
	params params
}

func createExportCommand() *command {
	args := exportArgs{
		commonArgs: commonArgs{
			compress: 2,
		},
		ext: ".geo.lz4",
	}

	flags := flag.NewFlagSet("export", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.StringVar(&args.ext, "ext", args.ext, "the result file extension, .geo or .geo.lz4")
	flags.Var(&args.params, "params", "shape parameters as name=value pairs separated by commas")
	flags.Var(&args.params, "p", "shorthand for params")

	return &command{
		Name: "export",
		Help: "write procedural shapes to mesh files, 'all' exports every shape",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 || (args.ext != ".geo" && args.ext != ".geo.lz4") {
				printCommandUsage(self, " shape...\n\nThe shapes are: "+strings.Join(libmesh.ShapeNames(), ", "))
			}
			setCommonArgs(&args.commonArgs)

			if failed := runExport(args, expandShapes(self.Flags.Args())); failed > 0 {
				harderr(fmt.Errorf("%d shapes failed", failed))
			}
		},
		Flags: flags,
	}
}

func expandShapes(names []string) []string {
	shapes := []string{}
	for _, name := range names {
		if strings.EqualFold(name, "all") {
			shapes = append(shapes, libmesh.ShapeNames()...)
			continue
		}
		shapes = append(shapes, strings.ToLower(name))
	}
	return shapes
}

// The parameters the shape knows, several shapes can be exported with one parameter list
func shapeParams(shape string, all params) map[string]float32 {
	spec, ok := libmesh.Shapes[shape]
	if !ok || len(all) == 0 {
		return nil
	}
	known := map[string]float32{}
	for _, p := range spec.Params {
		if v, ok := all[p.Name]; ok {
			known[p.Name] = v
		}
	}
	return known
}

// Returns the number of shapes that could not be written
func runExport(args exportArgs, shapes []string) (failed int) {
	for _, shape := range shapes {
		start := time.Now()
		overrides := map[string]float32(args.params)
		if len(shapes) > 1 {
			overrides = shapeParams(shape, args.params)
		}
		mesh, err := libmesh.Build(shape, overrides)
		if softerr(err) {
			failed++
			continue
		}
		if softerr(mesh.Validate()) {
			failed++
			continue
		}

		path := filepath.Join(args.out, shape+args.ext)
		if softerr(libmesh.Save(path, mesh, compressionLevel(args.compress))) {
			failed++
			continue
		}
		info("Wrote %s, %d vertices, %d triangles in %v\n", path, len(mesh.Vertices), mesh.TriangleCount(), time.Since(start).Round(time.Millisecond))
	}
	return failed
}
