// Package luxtrace implements 2D light transport over lux scenes: sphere
// tracing of rays, specular reflection, refraction with Fresnel weighting and
// Beer-Lambert absorption, and angular sampling of incoming radiance.
//
// Tracing holds no shared mutable state. A [Tracer] may be used from many
// goroutines as long as each passes its own [Stats] and random source.
package luxtrace

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux"
)

// Tracer computes the radiance arriving along rays in a scene.
type Tracer struct {
	scene lux.Node
	cfg   Config
}

// NewTracer returns a Tracer for scene after validating cfg.
func NewTracer(scene lux.Node, cfg Config) (*Tracer, error) {
	if scene == nil {
		return nil, errors.New("nil scene")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trace config: %w", err)
	}
	return &Tracer{scene: scene, cfg: cfg}, nil
}

// Scene returns the traced scene.
func (tr *Tracer) Scene() lux.Node { return tr.scene }

// Config returns the tracing constants.
func (tr *Tracer) Config() Config { return tr.cfg }

// March marches a ray through the tracer's scene. See [March].
func (tr *Tracer) March(origin, dir ms2.Vec) Marched {
	return March(tr.scene, origin, dir, &tr.cfg)
}

// Trace returns the radiance arriving at origin from the unit direction dir.
// depth is the recursion level of the ray, 0 for primary rays. stats may be nil.
func (tr *Tracer) Trace(origin, dir ms2.Vec, depth int, stats *Stats) ms3.Vec {
	if stats == nil {
		stats = new(Stats)
	}
	return tr.trace(origin, dir, depth, stats)
}

func (tr *Tracer) trace(origin, dir ms2.Vec, depth int, stats *Stats) ms3.Vec {
	cfg := &tr.cfg
	m := March(tr.scene, origin, dir, cfg)
	stats.Rays++
	stats.MarchSteps += uint64(m.Steps)
	stats.MaxDepth = max(stats.MaxDepth, depth)
	if m.State != Hit {
		stats.Escapes++
		return cfg.Background
	}
	stats.Hits++
	mat := m.Node.Material
	sum := mat.Emission
	if depth < cfg.MaxDepth && mat.Specular() {
		// Normal faces the side the ray arrived from.
		n := ms2.Scale(m.Sign, Gradient(tr.scene, m.Pos, cfg.GradientStep))
		reflect := mat.Reflectivity
		if mat.Refractive() {
			eta := 1 / mat.Eta
			if m.Sign < 0 {
				eta = mat.Eta
			}
			refracted, ok := Refract(dir, n, eta)
			if ok {
				if cfg.Fresnel {
					cosI := -ms2.Dot(dir, n)
					cosT := -ms2.Dot(refracted, n)
					if m.Sign < 0 {
						reflect = Fresnel(cosI, cosT, mat.Eta, 1)
					} else {
						reflect = Fresnel(cosI, cosT, 1, mat.Eta)
					}
				}
				stats.Refractions++
				below := ms2.Sub(m.Pos, ms2.Scale(cfg.Bias, n))
				transmitted := tr.trace(below, refracted, depth+1, stats)
				sum = ms3.Add(sum, ms3.Scale(1-reflect, transmitted))
			} else {
				stats.TotalInternalReflections++
				reflect = 1
			}
		}
		if mat.Reflectivity > 0 {
			stats.Reflections++
			above := ms2.Add(m.Pos, ms2.Scale(cfg.Bias, n))
			reflected := tr.trace(above, Reflect(dir, n), depth+1, stats)
			sum = ms3.Add(sum, ms3.Scale(reflect, reflected))
		}
	}
	return ms3.MulElem(sum, BeerLambert(mat.Absorption, m.T))
}
