package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"strings"
)

//go:embed shaders scenes
var files embed.FS

// Shader source by file name, e.g. "phong.vert"
func Shader(name string) (string, error) {
	data, err := files.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("could not read shader %q: %w", name, err)
	}
	return string(data), nil
}

func MustShader(name string) string {
	src, err := Shader(name)
	if err != nil {
		log.Panic(err)
	}
	return src
}

// Built in scene file by name without extension, e.g. "task7"
func Scene(name string) ([]byte, error) {
	data, err := files.ReadFile("scenes/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("could not read scene %q: %w", name, err)
	}
	return data, nil
}

func SceneNames() []string {
	entries, err := fs.ReadDir(files, "scenes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	return names
}
