package luxtrace

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Config holds the fixed constants of the light transport. A Config is
// validated once when a [Tracer] is created and is never modified afterwards.
type Config struct {
	// Samples is the amount of directions averaged per irradiance estimate.
	Samples int
	// Jitter offsets each sample direction randomly within its angular bucket.
	// When false directions are spaced uniformly.
	Jitter bool
	// MaxSteps bounds the amount of marching steps per ray.
	MaxSteps int
	// MaxDistance bounds the distance a ray may travel before escaping.
	MaxDistance float32
	// Epsilon is the distance below which a ray is considered to hit a surface.
	Epsilon float32
	// StartT is the initial distance traveled by every ray so it does not
	// immediately hit the surface it was spawned from.
	StartT float32
	// Bias offsets secondary ray origins along the surface normal.
	Bias float32
	// MaxDepth is the amount of specular bounces traced after the primary hit.
	MaxDepth int
	// GradientStep is the central difference step used to estimate normals.
	GradientStep float32
	// Fresnel weights refraction and reflection with the Fresnel equations.
	// When false the material's reflectivity is used for both.
	Fresnel bool
	// Background is the radiance returned by rays that escape the scene.
	Background ms3.Vec
}

// DefaultConfig returns a Config suitable for scenes spanning the unit square.
func DefaultConfig() Config {
	return Config{
		Samples:      64,
		Jitter:       true,
		MaxSteps:     64,
		MaxDistance:  5,
		Epsilon:      1e-6,
		StartT:       1e-3,
		Bias:         1e-4,
		MaxDepth:     3,
		GradientStep: 1e-4,
		Fresnel:      true,
	}
}

// Validate returns an error if the configuration can not be used for tracing.
func (cfg Config) Validate() error {
	switch {
	case cfg.Samples <= 0:
		return fmt.Errorf("non-positive sample count %d", cfg.Samples)
	case cfg.MaxSteps <= 0:
		return fmt.Errorf("non-positive max steps %d", cfg.MaxSteps)
	case cfg.MaxDepth < 0:
		return fmt.Errorf("negative max depth %d", cfg.MaxDepth)
	case badf(cfg.MaxDistance) || badf(cfg.Epsilon) || badf(cfg.StartT) || badf(cfg.Bias) || badf(cfg.GradientStep):
		return errors.New("NaN or infinite tracing parameter")
	case cfg.MaxDistance <= 0:
		return fmt.Errorf("non-positive max distance %g", cfg.MaxDistance)
	case cfg.Epsilon <= 0:
		return fmt.Errorf("non-positive hit epsilon %g", cfg.Epsilon)
	case cfg.StartT < 0 || cfg.Bias < 0:
		return errors.New("negative ray start or bias")
	case cfg.GradientStep <= 0:
		return fmt.Errorf("non-positive gradient step %g", cfg.GradientStep)
	case cfg.StartT >= cfg.MaxDistance:
		return errors.New("ray start distance beyond max distance")
	}
	return nil
}

func badf(v float32) bool {
	return math32.IsNaN(v) || math32.IsInf(v, 0)
}
