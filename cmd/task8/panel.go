package main

import (
	"fmt"
	"log"

	"compgraph/libscn"
	"compgraph/libtrace"

	"github.com/inkyblackness/imgui-go/v4"
)

type panelActions struct {
	Reset     bool
	Snapshot  bool
	Randomize bool
	Sky       bool
}

// Shown while paused, returns what was clicked
func drawPanel(tracer *libtrace.PathTracer, post *libtrace.PostProcessor, objects *libscn.ObjectSet, timeOfDay *float32) panelActions {
	var actions panelActions

	imgui.Begin("Path Tracer")
	defer imgui.End()

	width, height := tracer.Size()
	imgui.Text(fmt.Sprintf("%dx%d, frame %d, %d samples per pixel",
		width, height, tracer.Accumulator.Frame(), tracer.Accumulator.Samples(tracer.Settings)))

	settings := tracer.Settings
	depth, samples := int32(settings.RayDepth), int32(settings.SamplesPerPixel)
	if imgui.CollapsingHeader("Tracing") {
		imgui.SliderInt("Ray depth", &depth, 1, 32)
		imgui.SliderInt("Samples", &samples, 1, 32)
		imgui.SliderFloat("Focal length", &settings.FocalLength, 0.1, 50)
		imgui.SliderFloat("Aperture", &settings.Aperture, 0, 1)
		imgui.SliderFloat("Sky strength", &settings.SkyStrength, 0, 4)
	}
	settings.RayDepth, settings.SamplesPerPixel = int(depth), int(samples)
	if settings != tracer.Settings && settings.Validate() == nil {
		tracer.Settings = settings
		actions.Reset = true
	}

	if imgui.CollapsingHeader("Post") {
		imgui.SliderFloat("Exposure", &post.Exposure, 0.05, 8)
		imgui.SliderFloat("Gamma", &post.Gamma, 1, 3)
		imgui.SliderFloat("Bloom", &post.BloomStrength, 0, 0.5)
		imgui.SliderFloat("Threshold", &post.Bloom.Threshold, 0, 10)
		imgui.Text(fmt.Sprintf("%d bloom levels", post.Bloom.Levels()))
	}

	if imgui.CollapsingHeader("Sky") {
		imgui.SliderFloat("Time of day", timeOfDay, 0, 1)
		actions.Sky = imgui.Button("Regenerate")
	}

	if imgui.CollapsingHeader("Objects") {
		drawObjects(tracer, objects)
	}

	imgui.Separator()
	actions.Reset = imgui.Button("Reset") || actions.Reset
	actions.Snapshot = imgui.Button("Snapshot")
	actions.Randomize = imgui.Button("Randomize")
	return actions
}

// Edits are uploaded one object at a time and restart the average
func drawObjects(tracer *libtrace.PathTracer, objects *libscn.ObjectSet) {
	for i := range objects.Spheres {
		s := &objects.Spheres[i]
		if !imgui.TreeNode(fmt.Sprintf("Sphere %d", i)) {
			continue
		}
		before := *s
		imgui.DragFloat3("Position", (*[3]float32)(&s.Position))
		imgui.SliderFloat("Radius", &s.Radius, 0.05, 50)
		drawMaterial(&s.Material)
		imgui.TreePop()
		if *s != before {
			if err := tracer.UpdateSphere(objects, i); err != nil {
				log.Printf("Could not update sphere %d: %v\n", i, err)
			}
		}
	}

	for i := range objects.Cuboids {
		c := &objects.Cuboids[i]
		if !imgui.TreeNode(fmt.Sprintf("Cuboid %d", i)) {
			continue
		}
		before := *c
		imgui.DragFloat3("Position", (*[3]float32)(&c.Position))
		imgui.DragFloat3("Dimensions", (*[3]float32)(&c.Dimensions))
		drawMaterial(&c.Material)
		imgui.TreePop()
		if *c != before {
			if err := tracer.UpdateCuboid(objects, i); err != nil {
				log.Printf("Could not update cuboid %d: %v\n", i, err)
			}
		}
	}
}

func drawMaterial(m *libscn.Material) {
	imgui.ColorEdit3("Albedo", (*[3]float32)(&m.Albedo))
	imgui.ColorEdit3("Emissive", (*[3]float32)(&m.Emissive))
	imgui.SliderFloat("Specular chance", &m.SpecularChance, 0, 1)
	imgui.SliderFloat("Roughness", &m.SpecularRoughness, 0, 1)
	imgui.SliderFloat("IOR", &m.IOR, 1, 3)
	imgui.SliderFloat("Refraction chance", &m.RefractionChance, 0, 1)
	m.Normalize()
}
