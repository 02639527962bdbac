package libview

import (
	"fmt"

	"github.com/inkyblackness/imgui-go/v4"
)

// Light, animation and figure controls
func (s *Stage) Panel(r *Renderer) {
	imgui.Begin(s.Scene.Name)
	defer imgui.End()

	imgui.Text(fmt.Sprintf("%d figures, t = %.1fs", len(s.Prepared.Figures), s.Time))
	imgui.Checkbox("Paused", &s.Paused)
	imgui.Checkbox("Wireframe", &r.Wireframe)

	if imgui.CollapsingHeader("Light") {
		imgui.Checkbox("Blinn", &s.Light.Blinn)
		imgui.SliderFloat("Radius", &s.Light.Radius, 0, 20)
		imgui.SliderFloat("Height", &s.Light.Height, -10, 20)
		imgui.SliderFloat("Speed", &s.Light.Speed, -2, 2)
		imgui.SliderFloat("Lamp size", &s.Light.Scale, 0.05, 1)
	}

	if imgui.CollapsingHeader("Figures") {
		for i, f := range s.Prepared.Figures {
			if s.particles[f] {
				continue
			}
			if imgui.TreeNode(fmt.Sprintf("%s##%d", f.Name, i)) {
				imgui.DragFloat3("Position", (*[3]float32)(&f.Position))
				imgui.ColorEdit3("Color", (*[3]float32)(&f.Color))
				imgui.Checkbox("Metal", &f.Metal)
				imgui.TreePop()
			}
		}
	}
}
