package libsky

import (
	"fmt"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type swGenerator struct{}

func NewSwGenerator() Generator {
	return &swGenerator{}
}

func (*swGenerator) Generate(params SkyParams, size int) (*Cubemap, error) {
	if err := params.validate(size); err != nil {
		return nil, err
	}
	cm := NewCubemap(nil, size)
	origin := mgl32.Vec3{0, params.PlanetRadius + params.Altitude, 0}

	var wg sync.WaitGroup
	for face := range cm.Faces {
		wg.Add(1)
		go func(face CubeMapFace) {
			defer wg.Done()
			pix := cm.Faces[face]
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					c := Atmosphere(&params, PixelDirection(face, x, y, size), origin)
					i := (y*size + x) * 3
					pix[i], pix[i+1], pix[i+2] = c[0], c[1], c[2]
				}
			}
		}(CubeMapFace(face))
	}
	wg.Wait()

	return cm, nil
}

func (*swGenerator) Release() {
}

func (params *SkyParams) validate(size int) error {
	if size <= 0 {
		return fmt.Errorf("sky size must be positive but is %d", size)
	}
	if params.ViewSteps <= 0 || params.LightSteps <= 0 {
		return fmt.Errorf("sky step counts must be positive but are %d and %d", params.ViewSteps, params.LightSteps)
	}
	if params.AtmosphereRadius <= params.PlanetRadius {
		return fmt.Errorf("atmosphere radius %v must exceed the planet radius %v", params.AtmosphereRadius, params.PlanetRadius)
	}
	return nil
}

// Ray sphere intersection distances, the sphere is centered at the origin.
// Misses return near > far.
func raySphere(r0, rd mgl32.Vec3, radius float32) (near, far float32) {
	a := rd.Dot(rd)
	b := 2 * rd.Dot(r0)
	c := r0.Dot(r0) - radius*radius
	d := b*b - 4*a*c
	if d < 0 {
		return 1e5, -1e5
	}
	sd := math32.Sqrt(d)
	return (-b - sd) / (2 * a), (-b + sd) / (2 * a)
}

// Light scattered towards origin along dir, the same model as the gpu kernels
func Atmosphere(params *SkyParams, dir, origin mgl32.Vec3) mgl32.Vec3 {
	sun := params.SunPosition.Normalize()
	dir = dir.Normalize()

	start, end := raySphere(origin, dir, params.AtmosphereRadius)
	if start > end || end < 0 {
		return mgl32.Vec3{}
	}
	start = math32.Max(start, 0)
	if ground, _ := raySphere(origin, dir, params.PlanetRadius); ground > 0 && ground < end {
		end = ground
	}
	iStep := (end - start) / float32(params.ViewSteps)

	var totalRlh, totalMie mgl32.Vec3
	var iOdRlh, iOdMie float32
	iTime := start

	mu := dir.Dot(sun)
	mumu := mu * mu
	g := params.MieDirection
	gg := g * g
	pRlh := 3 / (16 * math32.Pi) * (1 + mumu)
	pMie := 3 / (8 * math32.Pi) * ((1 - gg) * (mumu + 1)) / (math32.Pow(1+gg-2*mu*g, 1.5) * (2 + gg))

	for i := 0; i < params.ViewSteps; i++ {
		iPos := origin.Add(dir.Mul(iTime + iStep*0.5))
		iHeight := iPos.Len() - params.PlanetRadius

		odStepRlh := math32.Exp(-iHeight/params.RayleighScale) * iStep
		odStepMie := math32.Exp(-iHeight/params.MieScale) * iStep
		iOdRlh += odStepRlh
		iOdMie += odStepMie

		_, exit := raySphere(iPos, sun, params.AtmosphereRadius)
		jStep := exit / float32(params.LightSteps)
		var jOdRlh, jOdMie, jTime float32
		for j := 0; j < params.LightSteps; j++ {
			jPos := iPos.Add(sun.Mul(jTime + jStep*0.5))
			jHeight := jPos.Len() - params.PlanetRadius
			jOdRlh += math32.Exp(-jHeight/params.RayleighScale) * jStep
			jOdMie += math32.Exp(-jHeight/params.MieScale) * jStep
			jTime += jStep
		}

		mie := params.MieScatter * (iOdMie + jOdMie)
		rlh := iOdRlh + jOdRlh
		attn := mgl32.Vec3{
			math32.Exp(-(mie + params.RayleighScatter[0]*rlh)),
			math32.Exp(-(mie + params.RayleighScatter[1]*rlh)),
			math32.Exp(-(mie + params.RayleighScatter[2]*rlh)),
		}
		totalRlh = totalRlh.Add(attn.Mul(odStepRlh))
		totalMie = totalMie.Add(attn.Mul(odStepMie))
		iTime += iStep
	}

	rlh := mgl32.Vec3{
		params.RayleighScatter[0] * totalRlh[0],
		params.RayleighScatter[1] * totalRlh[1],
		params.RayleighScatter[2] * totalRlh[2],
	}
	return rlh.Mul(pRlh).Add(totalMie.Mul(pMie * params.MieScatter)).Mul(params.Intensity)
}
