package luxtrace_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux"
	"github.com/soypat/lux/luxtrace"
)

func mustSampler(t *testing.T, scene lux.Node, cfg luxtrace.Config) *luxtrace.Sampler {
	t.Helper()
	s, err := luxtrace.NewSampler(scene, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConfigValidate(t *testing.T) {
	if err := luxtrace.DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	for name, modify := range map[string]func(*luxtrace.Config){
		"samples":   func(c *luxtrace.Config) { c.Samples = 0 },
		"steps":     func(c *luxtrace.Config) { c.MaxSteps = -1 },
		"depth":     func(c *luxtrace.Config) { c.MaxDepth = -1 },
		"distance":  func(c *luxtrace.Config) { c.MaxDistance = 0 },
		"epsilon":   func(c *luxtrace.Config) { c.Epsilon = 0 },
		"bias":      func(c *luxtrace.Config) { c.Bias = -1 },
		"gradient":  func(c *luxtrace.Config) { c.GradientStep = 0 },
		"nan":       func(c *luxtrace.Config) { c.StartT = float32(math.NaN()) },
		"start>max": func(c *luxtrace.Config) { c.StartT = 10 },
	} {
		cfg := luxtrace.DefaultConfig()
		modify(&cfg)
		if cfg.Validate() == nil {
			t.Errorf("%s: expected validation error", name)
		}
		if _, err := luxtrace.NewTracer(&dummyNode{}, cfg); err == nil {
			t.Errorf("%s: expected NewTracer to fail", name)
		}
	}
}

type dummyNode struct{ lux.Node }

func TestMarchStates(t *testing.T) {
	var bld lux.Builder
	scene := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.1), lux.Emitter(2))
	cfg := luxtrace.DefaultConfig()

	m := luxtrace.March(scene, ms2.Vec{X: 0.1, Y: 0.5}, ms2.Vec{X: 1}, &cfg)
	if m.State != luxtrace.Hit || m.Sign != 1 {
		t.Fatalf("expected hit from outside, got %v sign %g", m.State, m.Sign)
	}
	if !near(m.T, 0.3, 1e-5) || !near(m.Pos.X, 0.4, 1e-5) {
		t.Errorf("hit at t=%g pos=%v, want t=0.3", m.T, m.Pos)
	}

	// Starting inside, the ray stops at the boundary it leaves through.
	m = luxtrace.March(scene, ms2.Vec{X: 0.5, Y: 0.5}, ms2.Vec{Y: 1}, &cfg)
	if m.State != luxtrace.Hit || m.Sign != -1 {
		t.Fatalf("expected hit from inside, got %v sign %g", m.State, m.Sign)
	}
	if !near(m.Pos.Y, 0.6, 1e-5) {
		t.Errorf("inside hit at %v, want y=0.6", m.Pos)
	}

	m = luxtrace.March(scene, ms2.Vec{X: 0.1, Y: 0.5}, ms2.Vec{X: -1}, &cfg)
	if m.State != luxtrace.Escaped {
		t.Errorf("expected escape, got %v", m.State)
	}
	cfg.MaxSteps = 1
	m = luxtrace.March(scene, ms2.Vec{X: 0.1, Y: 0.6}, ms2.Vec{X: 1}, &cfg)
	if m.State != luxtrace.Escaped || m.Steps != 1 {
		t.Errorf("expected escape after a single step, got %v after %d", m.State, m.Steps)
	}
}

func TestSingleCircle(t *testing.T) {
	var bld lux.Builder
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.1), lux.Emitter(2))
	cfg := luxtrace.DefaultConfig()
	cfg.Jitter = false
	s := mustSampler(t, light, cfg)

	// Inside the emitter every direction hits it.
	got := s.Irradiance(ms2.Vec{X: 0.52, Y: 0.47}, nil, nil)
	if !near(got.X, 2, 1e-5) || got.X != got.Y || got.Y != got.Z {
		t.Errorf("inside emitter: got %v, want 2", got)
	}
	// From (0.2,0.5) the emitter subtends asin(1/3) each side: 7 of 64 uniform directions.
	got = s.Irradiance(ms2.Vec{X: 0.2, Y: 0.5}, nil, nil)
	if !near(got.X, 2*7./64, 1e-5) {
		t.Errorf("uniform irradiance: got %g, want %g", got.X, 2*7./64)
	}
	// Jittered estimate converges to the subtended fraction.
	cfg.Jitter = true
	cfg.Samples = 4096
	s = mustSampler(t, light, cfg)
	rng := rand.New(rand.NewSource(1))
	want := float32(2 * 2 * math.Asin(1./3) / (2 * math.Pi))
	got = s.Irradiance(ms2.Vec{X: 0.2, Y: 0.5}, rng, nil)
	if !near(got.X, want, 0.01) {
		t.Errorf("jittered irradiance: got %g, want %g", got.X, want)
	}

	// An opaque wall occludes the emitter.
	wall := bld.NewObject(bld.NewBox(ms2.Vec{X: 0.3, Y: 0.5}, 0, ms2.Vec{X: 0.02, Y: 0.3}), lux.Material{})
	s = mustSampler(t, bld.Union(light, wall), cfg)
	var stats luxtrace.Stats
	got = s.Irradiance(ms2.Vec{X: 0.1, Y: 0.5}, rng, &stats)
	if got != (ms3.Vec{}) {
		t.Errorf("occluded point: got %v, want 0", got)
	}
	if stats.Samples != 1 || stats.Rays != 4096 || stats.Hits+stats.Escapes != stats.Rays {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestSamplerDeterministic(t *testing.T) {
	var bld lux.Builder
	scene := bld.Union(
		bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.3, Y: 0.5}, 0.1), lux.Emitter(1)),
		bld.NewObject(bld.NewBox(ms2.Vec{X: 0.7, Y: 0.5}, 0.4, ms2.Vec{X: 0.1, Y: 0.1}), lux.Mirror(0.9)),
	)
	s := mustSampler(t, scene, luxtrace.DefaultConfig())
	p := ms2.Vec{X: 0.5, Y: 0.2}
	a := s.Irradiance(p, rand.New(rand.NewSource(42)), nil)
	b := s.Irradiance(p, rand.New(rand.NewSource(42)), nil)
	if a != b {
		t.Errorf("same seed gave different estimates %v != %v", a, b)
	}
}

func TestMirrorSingleBounce(t *testing.T) {
	var bld lux.Builder
	mirror := bld.NewObject(bld.NewHalfPlane(ms2.Vec{}, ms2.Vec{Y: 1}), lux.Mirror(0.8))
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.1), lux.Emitter(1))
	tr, err := luxtrace.NewTracer(bld.Union(mirror, light), luxtrace.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	origin := ms2.Vec{X: 0.3, Y: 0.2}
	dir := ms2.Vec{X: 0.2, Y: -0.7}
	dir = ms2.Scale(1/ms2.Norm(dir), dir)
	var stats luxtrace.Stats
	got := tr.Trace(origin, dir, 0, &stats)
	if !near(got.X, 0.8, 1e-4) || !near(got.Z, 0.8, 1e-4) {
		t.Errorf("mirror radiance: got %v, want 0.8", got)
	}
	if stats.Reflections != 1 || stats.MaxDepth != 1 || stats.Rays != 2 {
		t.Errorf("want exactly one bounce, got %+v", stats)
	}
	// Without bounce budget the mirror is black.
	cfg := luxtrace.DefaultConfig()
	cfg.MaxDepth = 0
	tr, _ = luxtrace.NewTracer(bld.Union(mirror, light), cfg)
	if got := tr.Trace(origin, dir, 0, nil); got != (ms3.Vec{}) {
		t.Errorf("depth limited mirror: got %v, want 0", got)
	}
}

func TestIndexMatchedLensIsTransparent(t *testing.T) {
	var bld lux.Builder
	lens := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.2), lux.Material{Eta: 1})
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.9, Y: 0.5}, 0.05), lux.Emitter(1))
	tr, err := luxtrace.NewTracer(bld.Union(lens, light), luxtrace.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var stats luxtrace.Stats
	got := tr.Trace(ms2.Vec{X: 0.1, Y: 0.5}, ms2.Vec{X: 1}, 0, &stats)
	if !near(got.Y, 1, 1e-4) {
		t.Errorf("through matched lens: got %v, want 1", got)
	}
	if stats.Refractions != 2 || stats.MaxDepth != 2 {
		t.Errorf("want entry and exit refraction, got %+v", stats)
	}
}

func TestAbsorbingMedium(t *testing.T) {
	var bld lux.Builder
	absorption := ms3.Vec{X: 1, Y: 2, Z: 0}
	glass := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.2), lux.Material{Eta: 1, Absorption: absorption})
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.9, Y: 0.5}, 0.05), lux.Emitter(1))
	tr, err := luxtrace.NewTracer(bld.Union(glass, light), luxtrace.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	// Ray starts at the center of the medium and travels 0.2 inside it.
	got := tr.Trace(ms2.Vec{X: 0.5, Y: 0.5}, ms2.Vec{X: 1}, 0, nil)
	want := luxtrace.BeerLambert(absorption, 0.2)
	if !near(got.X, want.X, 1e-3) || !near(got.Y, want.Y, 1e-3) || !near(got.Z, want.Z, 1e-3) {
		t.Errorf("absorbed radiance: got %v, want %v", got, want)
	}
}

func TestTotalInternalReflection(t *testing.T) {
	var bld lux.Builder
	glass := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.2), lux.Material{Eta: 1.5, Reflectivity: 0.1})
	tr, err := luxtrace.NewTracer(glass, luxtrace.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var stats luxtrace.Stats
	// Nearly tangential ray from inside hits the boundary past the critical angle.
	tr.Trace(ms2.Vec{X: 0.5, Y: 0.32}, ms2.Vec{X: 1}, 0, &stats)
	if stats.TotalInternalReflections == 0 {
		t.Errorf("expected total internal reflection, got %+v", stats)
	}
	if stats.Reflections == 0 {
		t.Errorf("total internal reflection must trace a reflected ray: %+v", stats)
	}
}

func TestReflectivityWeighting(t *testing.T) {
	var bld lux.Builder
	lens := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: 0.5}, 0.2), lux.Material{Eta: 1, Reflectivity: 0.25})
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.9, Y: 0.5}, 0.05), lux.Emitter(1))
	cfg := luxtrace.DefaultConfig()
	cfg.Fresnel = false
	cfg.MaxDepth = 2
	tr, err := luxtrace.NewTracer(bld.Union(lens, light), cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Entry and exit both transmit 1-reflectivity, reflected rays find nothing.
	got := tr.Trace(ms2.Vec{X: 0.1, Y: 0.5}, ms2.Vec{X: 1}, 0, nil)
	if !near(got.X, 0.75*0.75, 1e-3) {
		t.Errorf("reflectivity weighted transmission: got %v, want %g", got, 0.75*0.75)
	}
}
