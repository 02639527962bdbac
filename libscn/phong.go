package libscn

import (
	"compgraph/libgl"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type PhongMaterial struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

func PhongMaterialFor(metal bool) PhongMaterial {
	m := PhongMaterial{
		Ambient:   mgl32.Vec3{1, 0.5, 0.31},
		Diffuse:   mgl32.Vec3{1, 0.5, 0.31},
		Shininess: 32,
	}
	if metal {
		m.Diffuse = mgl32.Vec3{1, 1, 1}
		m.Specular = mgl32.Vec3{0.5, 0.5, 0.5}
	}
	return m
}

type PointLight struct {
	Position mgl32.Vec3
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

// The figure color tints the light
func LightFromColor(position, color mgl32.Vec3) PointLight {
	return PointLight{
		Position: position,
		Ambient:  color.Mul(0.5),
		Diffuse:  color.Mul(0.8),
		Specular: mgl32.Vec3{1, 1, 1},
	}
}

type Orbit struct {
	Radius float32 `yaml:"radius"`
	Height float32 `yaml:"height"`
	Speed  float32 `yaml:"speed"`
}

var DefaultOrbit = Orbit{Radius: 5, Height: 10, Speed: 0.5}

// Light position after t seconds on a horizontal circle
func (o Orbit) At(t float32) mgl32.Vec3 {
	angle := math32.Mod(o.Speed*t, 2*math32.Pi)
	sin, cos := math32.Sincos(angle)
	return mgl32.Vec3{o.Radius * cos, o.Height, o.Radius * sin}
}

func OrbitLight(t float32) mgl32.Vec3 {
	return DefaultOrbit.At(t)
}

// Lighting is the per draw uniform state of the phong program
type Lighting struct {
	Light    PointLight
	Material PhongMaterial
	ViewPos  mgl32.Vec3
	// Half vector specular instead of the reflected vector
	Blinn bool
}

func (l *Lighting) Apply(prog libgl.ShaderProgram) {
	prog.SetUniform("u_view_pos", l.ViewPos)
	prog.SetUniform("u_blinn", l.Blinn)
	prog.SetUniform("u_material.ambient", l.Material.Ambient)
	prog.SetUniform("u_material.diffuse", l.Material.Diffuse)
	prog.SetUniform("u_material.specular", l.Material.Specular)
	prog.SetUniform("u_material.shininess", l.Material.Shininess)
	prog.SetUniform("u_light.position", l.Light.Position)
	prog.SetUniform("u_light.ambient", l.Light.Ambient)
	prog.SetUniform("u_light.diffuse", l.Light.Diffuse)
	prog.SetUniform("u_light.specular", l.Light.Specular)
}
