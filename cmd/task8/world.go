package main

import (
	"fmt"
	"math/rand"
	"os"

	"compgraph/libscn"
	"compgraph/libtrace"
	"compgraph/libview"

	"gopkg.in/yaml.v3"
)

// The objects the path tracer sees, built from a scene plus optional random objects
type world struct {
	scene   *libscn.Scene
	objects libscn.ObjectSet
}

func loadWorld(path string, random int, seed int64) (*world, error) {
	scene, err := libview.LoadScene(path, "task8")
	if err != nil {
		return nil, err
	}
	return buildWorld(scene, random, seed)
}

// Four random spheres per random cuboid are scattered around the origin
func buildWorld(scene *libscn.Scene, random int, seed int64) (*world, error) {
	if random > 0 {
		clone, err := scene.Clone()
		if err != nil {
			return nil, err
		}
		clone.Random = &libscn.RandomDesc{
			Seed:    seed,
			Spheres: random,
			Cuboids: random / 4,
			Extent:  5,
		}
		if err := clone.Validate(); err != nil {
			return nil, err
		}
		scene = clone
	}
	prepared, err := scene.Build(rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("could not build scene %q: %w", scene.Name, err)
	}
	return &world{scene: scene, objects: prepared.Objects}, nil
}

// Path tracer settings from a yaml file, missing keys keep their defaults
func loadSettings(path string) (libtrace.Settings, error) {
	settings := libtrace.DefaultSettings()
	if path == "" {
		return settings, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("could not read settings %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("could not parse settings %q: %w", path, err)
	}
	return settings, settings.Validate()
}
