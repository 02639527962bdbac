package libscn

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Size of a packed material, 4 vec4
const MaterialSize = 4 * 16

type Material struct {
	Albedo              mgl32.Vec3 `yaml:"albedo"`
	Emissive            mgl32.Vec3 `yaml:"emissive"`
	AbsorbanceColor     mgl32.Vec3 `yaml:"absorbance"`
	SpecularChance      float32    `yaml:"specular_chance"`
	SpecularRoughness   float32    `yaml:"specular_roughness"`
	IOR                 float32    `yaml:"ior"`
	RefractionChance    float32    `yaml:"refraction_chance"`
	RefractionRoughness float32    `yaml:"refraction_roughness"`
}

func ZeroMaterial() Material {
	return Material{
		Albedo: mgl32.Vec3{1, 1, 1},
		IOR:    1,
	}
}

// White emitter with the given strength
func LightMaterial(strength float32) Material {
	m := ZeroMaterial()
	m.Emissive = mgl32.Vec3{strength, strength, strength}
	return m
}

// Clamps the chances so specular and refraction never sum above one
func (m *Material) Normalize() {
	m.SpecularChance = mgl32.Clamp(m.SpecularChance, 0, 1)
	if m.IOR < 1 {
		m.IOR = 1
	}
	m.RefractionChance = mgl32.Clamp(m.RefractionChance, 0, 1-m.SpecularChance)
	m.SpecularRoughness = mgl32.Clamp(m.SpecularRoughness, 0, 1)
	m.RefractionRoughness = mgl32.Clamp(m.RefractionRoughness, 0, 1)
}

func (m Material) Pack() [4]mgl32.Vec4 {
	return [4]mgl32.Vec4{
		m.Albedo.Vec4(m.SpecularChance),
		m.Emissive.Vec4(m.SpecularRoughness),
		m.AbsorbanceColor.Vec4(m.RefractionChance),
		{m.RefractionRoughness, m.IOR, 0, 0},
	}
}

func randomVec3(rng *rand.Rand) mgl32.Vec3 {
	return mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
}

// One in five random materials glows
func RandomMaterial(rng *rand.Rand) Material {
	m := Material{
		Albedo:              randomVec3(rng),
		AbsorbanceColor:     randomVec3(rng).Mul(2),
		SpecularChance:      rng.Float32() * 0.5,
		SpecularRoughness:   rng.Float32(),
		IOR:                 rng.Float32() + 1,
		RefractionChance:    rng.Float32() * 0.5,
		RefractionRoughness: rng.Float32(),
	}
	if rng.Float64() < 0.2 {
		m.Emissive = randomVec3(rng)
	}
	m.Normalize()
	return m
}
