package lux

import (
	"github.com/soypat/glgl/math/ms3"
)

// Material describes how a region of the scene interacts with light.
// Colours are linear RGB stored in the X, Y and Z components of an [ms3.Vec].
type Material struct {
	// Emission is the radiance emitted by the surface regardless of incoming light.
	Emission ms3.Vec
	// Reflectivity is the fraction of light specularly reflected, in 0..1.
	Reflectivity float32
	// Eta is the refractive index of the medium relative to its surroundings.
	// Zero means the material is opaque.
	Eta float32
	// Absorption is the per-channel extinction coefficient used for Beer-Lambert attenuation.
	Absorption ms3.Vec
}

// Gray returns a colour with all channels set to v.
func Gray(v float32) ms3.Vec {
	return ms3.Vec{X: v, Y: v, Z: v}
}

// Emitter returns an opaque material that emits radiance v on all channels.
func Emitter(v float32) Material {
	return Material{Emission: Gray(v)}
}

// Mirror returns a non-emissive opaque material with the given reflectivity.
func Mirror(reflectivity float32) Material {
	return Material{Reflectivity: reflectivity}
}

// Refractive reports whether light may be transmitted through the material.
func (m *Material) Refractive() bool { return m.Eta > 0 }

// Specular reports whether the material spawns secondary rays at all.
func (m *Material) Specular() bool { return m.Reflectivity > 0 || m.Eta > 0 }

func (bld *Builder) validateMaterial(m Material) {
	if badvec3(m.Emission) || badvec3(m.Absorption) || badf(m.Reflectivity) || badf(m.Eta) {
		bld.shapeErrorf("NaN or infinite material attribute")
	}
	if m.Reflectivity < 0 || m.Reflectivity > 1 {
		bld.shapeErrorf("material reflectivity %g outside of [0,1]", m.Reflectivity)
	}
	if m.Eta < 0 {
		bld.shapeErrorf("negative material refractive index %g", m.Eta)
	}
	if m.Absorption.X < 0 || m.Absorption.Y < 0 || m.Absorption.Z < 0 {
		bld.shapeErrorf("negative material absorption")
	}
}

func badvec3(v ms3.Vec) bool {
	return badf(v.X) || badf(v.Y) || badf(v.Z)
}
