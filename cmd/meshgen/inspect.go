package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"compgraph/libmesh"
)

func createInspectCommand() *command {
	args := commonArgs{}
	flags := flag.NewFlagSet("inspect", flag.ExitOnError)
	flags.BoolVar(&args.supress, "supress", args.supress, "disables soft error logging")

	return &command{
		Name: "inspect",
		Help: "print the contents of mesh files and check them",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 {
				printCommandUsage(self, " file-glob...")
			}
			cargs = &args

			if invalid := runInspect(os.Stdout, gatherInputFiles(self.Flags.Args())); invalid > 0 {
				harderr(fmt.Errorf("%d invalid files", invalid))
			}
		},
		Flags: flags,
	}
}

func describeMesh(w io.Writer, path string, m *libmesh.Mesh) {
	min, max := m.Bounds()
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "    name:      %s\n", m.Name)
	fmt.Fprintf(w, "    vertices:  %d\n", len(m.Vertices))
	fmt.Fprintf(w, "    triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(w, "    bounds:    %.3f .. %.3f\n", min, max)
	fmt.Fprintf(w, "    centroid:  %.3f\n", m.Centroid())
}

// Returns the number of files that could not be read or are invalid
func runInspect(w io.Writer, inputFiles []string) (invalid int) {
	for _, path := range inputFiles {
		m, err := libmesh.Load(path)
		if softerr(err) {
			invalid++
			continue
		}
		describeMesh(w, path, m)
		if err := m.Validate(); err != nil {
			fmt.Fprintf(w, "    invalid:   %v\n", err)
			invalid++
		}
	}
	return invalid
}
