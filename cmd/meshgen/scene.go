package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"compgraph/assets"
	"compgraph/libscn"
)

type sceneArgs struct {
	commonArgs
	builtin bool
}

func createSceneCommand() *command {
	args := sceneArgs{}
	flags := flag.NewFlagSet("scene", flag.ExitOnError)
	flags.BoolVar(&args.builtin, "builtin", args.builtin, "check the built in scenes as well")
	flags.BoolVar(&args.supress, "supress", args.supress, "disables soft error logging")

	return &command{
		Name: "scene",
		Help: "check yaml scene files",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 && !args.builtin {
				printCommandUsage(self, " file-glob...")
			}
			cargs = &args.commonArgs

			scenes := map[string]func() (*libscn.Scene, error){}
			order := []string{}
			if args.builtin {
				for _, name := range assets.SceneNames() {
					name := name
					scenes["builtin:"+name] = func() (*libscn.Scene, error) {
						data, err := assets.Scene(name)
						if err != nil {
							return nil, err
						}
						return libscn.ParseScene(data)
					}
					order = append(order, "builtin:"+name)
				}
			}
			for _, path := range gatherInputFiles(self.Flags.Args()) {
				path := path
				scenes[path] = func() (*libscn.Scene, error) { return libscn.LoadScene(path) }
				order = append(order, path)
			}

			invalid := 0
			for _, name := range order {
				if !checkScene(os.Stdout, name, scenes[name]) {
					invalid++
				}
			}
			if invalid > 0 {
				harderr(fmt.Errorf("%d invalid scenes", invalid))
			}
		},
		Flags: flags,
	}
}

// Loads and builds the scene, the meshes are validated too
func checkScene(w io.Writer, name string, load func() (*libscn.Scene, error)) bool {
	scene, err := load()
	if softerr(err) {
		return false
	}
	prepared, err := scene.Build(rand.New(rand.NewSource(1)))
	if softerr(err) {
		return false
	}
	triangles := 0
	for _, m := range prepared.Meshes {
		if err := m.Validate(); err != nil {
			softerr(fmt.Errorf("%s: mesh %s: %w", name, m.Name, err))
			return false
		}
		triangles += m.TriangleCount()
	}
	counts := prepared.Objects.Counts()
	fmt.Fprintf(w, "%s: %q, %d figures, %d meshes with %d triangles, %v spheres, %v cuboids\n",
		name, scene.Name, len(prepared.Figures), len(prepared.Meshes), triangles, counts[0], counts[1])
	return true
}
