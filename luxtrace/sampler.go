package luxtrace

import (
	"errors"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux"
)

// Rand is a source of uniformly distributed numbers in [0,1).
// *math/rand.Rand implements Rand.
type Rand interface {
	Float32() float32
}

// Sampler estimates the radiance arriving at a point from all directions.
type Sampler struct {
	tracer *Tracer
}

// NewSampler returns a Sampler tracing scene with cfg.
func NewSampler(scene lux.Node, cfg Config) (*Sampler, error) {
	tr, err := NewTracer(scene, cfg)
	if err != nil {
		return nil, err
	}
	return &Sampler{tracer: tr}, nil
}

// NewSamplerFromTracer returns a Sampler using an existing Tracer.
func NewSamplerFromTracer(tr *Tracer) (*Sampler, error) {
	if tr == nil {
		return nil, errors.New("nil tracer")
	}
	return &Sampler{tracer: tr}, nil
}

// Tracer returns the Tracer used to trace sample directions.
func (s *Sampler) Tracer() *Tracer { return s.tracer }

// Irradiance averages the radiance traced from p over the configured amount of
// directions spanning the full circle, each weighted equally. With jitter
// enabled each direction is offset randomly within its angular bucket using
// rng. A nil rng results in uniformly spaced directions. stats may be nil.
func (s *Sampler) Irradiance(p ms2.Vec, rng Rand, stats *Stats) ms3.Vec {
	if stats == nil {
		stats = new(Stats)
	}
	cfg := &s.tracer.cfg
	n := float32(cfg.Samples)
	jitter := cfg.Jitter && rng != nil
	var sum ms3.Vec
	for i := 0; i < cfg.Samples; i++ {
		a := float32(i)
		if jitter {
			a += rng.Float32()
		}
		sin, cos := math32.Sincos(2 * math.Pi * a / n)
		radiance := s.tracer.trace(p, ms2.Vec{X: cos, Y: sin}, 0, stats)
		sum = ms3.Add(sum, radiance)
	}
	stats.Samples++
	return ms3.Scale(1/n, sum)
}
