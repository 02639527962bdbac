package libmesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Tangent struct {
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// Per vertex tangent space derived from uv derivatives, accumulated over all
// adjacent triangles and orthogonalized against the normal
func Tangents(m *Mesh) []Tangent {
	tangents := make([]Tangent, len(m.Vertices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		dPos01, dPos02 := v1.Position.Sub(v0.Position), v2.Position.Sub(v0.Position)
		dUv01, dUv02 := v1.Uv.Sub(v0.Uv), v2.Uv.Sub(v0.Uv)

		det := dUv01[0]*dUv02[1] - dUv02[0]*dUv01[1]
		if det == 0 {
			continue
		}
		f := 1 / det

		tan := dPos01.Mul(dUv02[1]).Sub(dPos02.Mul(dUv01[1])).Mul(f)
		bitan := dPos02.Mul(dUv01[0]).Sub(dPos01.Mul(dUv02[0])).Mul(f)

		for _, idx := range [3]uint32{i0, i1, i2} {
			tangents[idx].Tangent = tangents[idx].Tangent.Add(tan)
			tangents[idx].Bitangent = tangents[idx].Bitangent.Add(bitan)
		}
	}

	for i, t := range tangents {
		n := m.Vertices[i].Normal
		tan := t.Tangent.Sub(n.Mul(n.Dot(t.Tangent)))
		if tan.Len() < 1e-6 {
			tan = fallbackTangent(n)
		}
		tan = tan.Normalize()
		bitan := n.Cross(tan)
		if bitan.Dot(t.Bitangent) < 0 {
			bitan = bitan.Mul(-1)
		}
		tangents[i] = Tangent{Tangent: tan, Bitangent: bitan}
	}

	return tangents
}

func fallbackTangent(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if n[0] > 0.9 || n[0] < -0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return axis.Sub(n.Mul(n.Dot(axis)))
}

// position(3) normal(3) uv(2) tangent(3) bitangent(3)
func InterleavedWithTangents(m *Mesh) []float32 {
	tangents := Tangents(m)
	data := make([]float32, 0, len(m.Vertices)*14)
	for i, v := range m.Vertices {
		data = append(data, v.Position[:]...)
		data = append(data, v.Normal[:]...)
		data = append(data, v.Uv[:]...)
		data = append(data, tangents[i].Tangent[:]...)
		data = append(data, tangents[i].Bitangent[:]...)
	}
	return data
}
