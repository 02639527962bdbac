package main

import (
	"fmt"

	"compgraph/libmesh"
	"compgraph/libscn"

	"github.com/go-gl/mathgl/mgl32"
)

// Ticks until the wave polygon leaves the screen on the right
const waveTicks = 400

type mode struct {
	name  string
	build func(args *arguments) (*libmesh.Mesh, error)
	// Placement after the given number of animation ticks
	transform func(tick int) mgl32.Mat4
}

func still(int) mgl32.Mat4 {
	return mgl32.Ident4()
}

var orbitAnchor = mgl32.Vec2{0.25, 0.1}

var modes = []mode{
	{
		name:      "triangle",
		build:     func(*arguments) (*libmesh.Mesh, error) { return libmesh.Triangle(1) },
		transform: still,
	},
	{
		name:      "rectangle",
		build:     func(*arguments) (*libmesh.Mesh, error) { return libmesh.Rectangle(1, 1) },
		transform: still,
	},
	{
		name: "polygon",
		build: func(args *arguments) (*libmesh.Mesh, error) {
			return libmesh.PolygonScaled(args.Sides, 1, 90, mgl32.Vec3{})
		},
		transform: still,
	},
	{
		name:      "circle",
		build:     func(*arguments) (*libmesh.Mesh, error) { return libmesh.Circle(0.5) },
		transform: still,
	},
	{
		name: "fractal",
		build: func(args *arguments) (*libmesh.Mesh, error) {
			return libmesh.FractalSquares(args.Depth, 0.5)
		},
		transform: still,
	},
	{
		name: "orbit",
		build: func(args *arguments) (*libmesh.Mesh, error) {
			return libmesh.PolygonScaled(args.Sides, 0.2, 0, mgl32.Vec3{})
		},
		transform: func(tick int) mgl32.Mat4 {
			return libscn.OrbitOffset(orbitAnchor, tick)
		},
	},
	{
		name: "wave",
		build: func(args *arguments) (*libmesh.Mesh, error) {
			return libmesh.PolygonScaled(args.Sides, 0.2, 0, mgl32.Vec3{})
		},
		transform: func(tick int) mgl32.Mat4 {
			return mgl32.Translate3D(libscn.WaveOffset(tick % waveTicks).Elem())
		},
	},
}

func modeIndex(name string) (int, error) {
	for i, m := range modes {
		if m.name == name {
			return i, nil
		}
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.name
	}
	return 0, fmt.Errorf("unknown mode %q, must be one of %v", name, names)
}

// Builds the mesh of every mode, named after the mode
func buildModes(args *arguments) ([]*libmesh.Mesh, error) {
	meshes := make([]*libmesh.Mesh, len(modes))
	for i, m := range modes {
		mesh, err := m.build(args)
		if err != nil {
			return nil, fmt.Errorf("could not build %s: %w", m.name, err)
		}
		mesh.Name = m.name
		meshes[i] = mesh
	}
	return meshes, nil
}
