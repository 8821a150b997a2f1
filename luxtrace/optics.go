package luxtrace

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux"
)

// Gradient estimates the gradient of the scene's distance field at p with
// central differences of the given step. The result approximates the outward
// unit normal and is not renormalized.
func Gradient(scene lux.Node, p ms2.Vec, step float32) ms2.Vec {
	h := step * 0.5
	dx := scene.Eval(ms2.Vec{X: p.X + h, Y: p.Y}).Distance - scene.Eval(ms2.Vec{X: p.X - h, Y: p.Y}).Distance
	dy := scene.Eval(ms2.Vec{X: p.X, Y: p.Y + h}).Distance - scene.Eval(ms2.Vec{X: p.X, Y: p.Y - h}).Distance
	return ms2.Scale(1/step, ms2.Vec{X: dx, Y: dy})
}

// Reflect mirrors the incident direction i about the unit normal n.
func Reflect(i, n ms2.Vec) ms2.Vec {
	return ms2.Sub(i, ms2.Scale(2*ms2.Dot(i, n), n))
}

// Refract bends the unit incident direction i through a boundary with unit
// normal n facing against i, where eta is the ratio of the incident medium's
// refractive index over the transmitting medium's. It returns false on total
// internal reflection.
func Refract(i, n ms2.Vec, eta float32) (ms2.Vec, bool) {
	cosI := ms2.Dot(i, n)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return ms2.Vec{}, false
	}
	a := eta*cosI + math32.Sqrt(k)
	return ms2.Sub(ms2.Scale(eta, i), ms2.Scale(a, n)), true
}

// Fresnel returns the unpolarized reflectance at a boundary given the incident
// and transmitted cosines and the refractive indices of the incident and
// transmitting media. The result lies in [0,1]; degenerate configurations
// return 0.
func Fresnel(cosI, cosT, etaI, etaT float32) float32 {
	const tiny = 1e-12
	dens := etaT*cosI + etaI*cosT
	denp := etaI*cosI + etaT*cosT
	if math32.Abs(dens) < tiny || math32.Abs(denp) < tiny {
		return 0
	}
	rs := (etaT*cosI - etaI*cosT) / dens
	rp := (etaI*cosI - etaT*cosT) / denp
	r := (rs*rs + rp*rp) * 0.5
	if r > 1 {
		return 1
	} else if !(r >= 0) {
		return 0
	}
	return r
}

// BeerLambert returns the per-channel transmittance exp(-absorption*d).
func BeerLambert(absorption ms3.Vec, d float32) ms3.Vec {
	return ms3.Vec{
		X: math32.Exp(-absorption.X * d),
		Y: math32.Exp(-absorption.Y * d),
		Z: math32.Exp(-absorption.Z * d),
	}
}
