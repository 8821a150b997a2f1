package lux_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux"
)

const tol = 1e-5

func near(a, b, tolerance float32) bool {
	return math32.Abs(a-b) <= tolerance
}

func TestCircle(t *testing.T) {
	var bld lux.Builder
	c := ms2.Vec{X: 0.5, Y: 0.5}
	s := bld.NewCircle(c, 0.1)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		theta := rng.Float32() * 2 * math.Pi
		dir := ms2.Vec{X: math32.Cos(theta), Y: math32.Sin(theta)}
		onBoundary := ms2.Add(c, ms2.Scale(0.1, dir))
		if d := s.Distance(onBoundary); !near(d, 0, tol) {
			t.Fatalf("boundary point %v got distance %g", onBoundary, d)
		}
		inside := ms2.Add(c, ms2.Scale(0.05, dir))
		if d := s.Distance(inside); !near(d, -0.05, tol) {
			t.Fatalf("inside point %v got distance %g, want -0.05", inside, d)
		}
		outside := ms2.Add(c, ms2.Scale(0.3, dir))
		if d := s.Distance(outside); !near(d, 0.2, tol) {
			t.Fatalf("outside point %v got distance %g, want 0.2", outside, d)
		}
	}
}

func TestHalfPlane(t *testing.T) {
	var bld lux.Builder
	// Non-unit normal is normalized on construction.
	s := bld.NewHalfPlane(ms2.Vec{X: 1, Y: 1}, ms2.Vec{Y: 2})
	for _, test := range []struct {
		p    ms2.Vec
		want float32
	}{
		{p: ms2.Vec{X: 3, Y: 1}, want: 0},
		{p: ms2.Vec{X: -7, Y: 2.5}, want: 1.5},
		{p: ms2.Vec{X: 0, Y: 0}, want: -1},
	} {
		if got := s.Distance(test.p); !near(got, test.want, tol) {
			t.Errorf("half-plane distance at %v: got %g, want %g", test.p, got, test.want)
		}
	}
}

func TestSegmentCapsule(t *testing.T) {
	var bld lux.Builder
	a, b := ms2.Vec{X: 0, Y: 0}, ms2.Vec{X: 1, Y: 0}
	seg := bld.NewSegment(a, b)
	caps := bld.NewCapsule(a, b, 0.25)
	for _, test := range []struct {
		p       ms2.Vec
		wantSeg float32
	}{
		{p: ms2.Vec{X: 0.5, Y: 0.5}, wantSeg: 0.5},
		{p: ms2.Vec{X: -3, Y: 4}, wantSeg: 5},
		{p: ms2.Vec{X: 2, Y: 0}, wantSeg: 1},
		{p: ms2.Vec{X: 0.3, Y: 0}, wantSeg: 0},
	} {
		if got := seg.Distance(test.p); !near(got, test.wantSeg, tol) {
			t.Errorf("segment distance at %v: got %g, want %g", test.p, got, test.wantSeg)
		}
		if got := caps.Distance(test.p); !near(got, test.wantSeg-0.25, tol) {
			t.Errorf("capsule distance at %v: got %g, want %g", test.p, got, test.wantSeg-0.25)
		}
	}
}

func TestDegenerateShapesAreFinite(t *testing.T) {
	var bld lux.Builder
	p := ms2.Vec{X: 0.2, Y: 0.3}
	point := ms2.Vec{X: 0.5, Y: 0.5}
	shapes := map[string]lux.Shape{
		"zero-segment":  bld.NewSegment(point, point),
		"zero-capsule":  bld.NewCapsule(point, point, 0),
		"zero-circle":   bld.NewCircle(point, 0),
		"zero-box":      bld.NewBox(point, 1, ms2.Vec{}),
		"zero-ngon":     bld.NewNgon(point, 0, 6),
		"flat-triangle": bld.NewTriangle(point, point, point),
	}
	want := ms2.Norm(ms2.Sub(p, point))
	for name, s := range shapes {
		d := s.Distance(p)
		if math32.IsNaN(d) || math32.IsInf(d, 0) {
			t.Errorf("%s: got non-finite distance %g", name, d)
		}
		if name == "zero-ngon" {
			// Polygonal approximation of a point is a lower bound only.
			if d <= 0 || d > want+tol {
				t.Errorf("%s: got %g, want in (0, %g]", name, d, want)
			}
			continue
		}
		if !near(d, want, 1e-4) {
			t.Errorf("%s: want point distance %g, got %g", name, want, d)
		}
		if d := s.Distance(point); math32.IsNaN(d) {
			t.Errorf("%s: NaN distance at degenerate point", name)
		}
	}
}

func TestBox(t *testing.T) {
	var bld lux.Builder
	c := ms2.Vec{X: 0.5, Y: 0.5}
	const theta = math.Pi / 6
	half := ms2.Vec{X: 0.1, Y: 0.2}
	s := bld.NewBox(c, theta, half)
	rot := ms2.RotationMat2(theta)
	toWorld := func(local ms2.Vec) ms2.Vec { return ms2.Add(c, ms2.MulMatVec(rot, local)) }
	for _, test := range []struct {
		local ms2.Vec
		want  float32
	}{
		{local: ms2.Vec{}, want: -0.1},
		{local: ms2.Vec{X: 0.1}, want: 0},
		{local: ms2.Vec{Y: 0.2}, want: 0},
		{local: ms2.Vec{X: 0.3}, want: 0.2},
		{local: ms2.Vec{Y: -0.5}, want: 0.3},
		{local: ms2.Vec{X: 0.4, Y: 0.6}, want: 0.5}, // Corner region, exact euclidean.
		{local: ms2.Vec{X: 0.05, Y: 0.1}, want: -0.05},
	} {
		p := toWorld(test.local)
		if got := s.Distance(p); !near(got, test.want, 1e-5) {
			t.Errorf("box distance at local %v: got %g, want %g", test.local, got, test.want)
		}
	}
}

func TestTriangle(t *testing.T) {
	var bld lux.Builder
	a, b, c := ms2.Vec{}, ms2.Vec{X: 1}, ms2.Vec{Y: 1}
	ccw := bld.NewTriangle(a, b, c)
	centroid := ms2.Vec{X: 1. / 3, Y: 1. / 3}
	wantInside := float32(-(1 - 2./3) / math.Sqrt2)
	if got := ccw.Distance(centroid); !near(got, wantInside, tol) {
		t.Errorf("centroid distance: got %g, want %g", got, wantInside)
	}
	if got := ccw.Distance(ms2.Vec{X: 2}); !near(got, 1, tol) {
		t.Errorf("outside distance: got %g, want 1", got)
	}
	if got := ccw.Distance(ms2.Vec{X: 0.5}); !near(got, 0, tol) {
		t.Errorf("edge distance: got %g, want 0", got)
	}
	// Clockwise winding never reports the interior.
	cw := bld.NewTriangle(a, c, b)
	if got := cw.Distance(centroid); got <= 0 {
		t.Errorf("clockwise triangle centroid: got %g, want positive", got)
	}
}

func TestNgon(t *testing.T) {
	var bld lux.Builder
	c := ms2.Vec{X: 0.5, Y: 0.5}
	const r = 0.25
	for sides := 3; sides < 9; sides++ {
		s := bld.NewNgon(c, r, sides)
		sector := 2 * math.Pi / float32(sides)
		apothem := r * math32.Cos(sector/2)
		if got := s.Distance(c); !near(got, -apothem, tol) {
			t.Errorf("%d-gon center: got %g, want %g", sides, got, -apothem)
		}
		for k := 0; k < sides; k++ {
			angle := sector * float32(k)
			vertex := ms2.Add(c, ms2.Vec{X: r * math32.Cos(angle), Y: r * math32.Sin(angle)})
			if got := s.Distance(vertex); !near(got, 0, 1e-5) {
				t.Errorf("%d-gon vertex %d: got %g, want 0", sides, k, got)
			}
			// Edge midpoints lie at the apothem along the sector bisector.
			bisect := angle + sector/2
			dir := ms2.Vec{X: math32.Cos(bisect), Y: math32.Sin(bisect)}
			out := ms2.Add(c, ms2.Scale(apothem+0.1, dir))
			if got := s.Distance(out); !near(got, 0.1, 1e-5) {
				t.Errorf("%d-gon outside edge %d: got %g, want 0.1", sides, k, got)
			}
		}
	}
}

func TestPolygon(t *testing.T) {
	var bld lux.Builder
	square := []ms2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	ccw := bld.NewPolygon(square)
	cw := bld.NewPolygon([]ms2.Vec{square[3], square[2], square[1], square[0]})
	for _, test := range []struct {
		p    ms2.Vec
		want float32
	}{
		{p: ms2.Vec{X: 0.5, Y: 0.5}, want: -0.5},
		{p: ms2.Vec{X: 0.5, Y: 0.25}, want: -0.25},
		{p: ms2.Vec{X: 2, Y: 0.5}, want: 1},
		{p: ms2.Vec{X: 1, Y: 0.5}, want: 0},
	} {
		if got := ccw.Distance(test.p); !near(got, test.want, tol) {
			t.Errorf("ccw polygon at %v: got %g, want %g", test.p, got, test.want)
		}
		if got := cw.Distance(test.p); !near(got, test.want, tol) {
			t.Errorf("cw polygon at %v: got %g, want %g", test.p, got, test.want)
		}
	}
}

func TestShapeBounds(t *testing.T) {
	var bld lux.Builder
	rng := rand.New(rand.NewSource(1))
	shapes := []lux.Shape{
		bld.NewCircle(ms2.Vec{X: 0.2, Y: -0.3}, 0.4),
		bld.NewCapsule(ms2.Vec{X: 0.1}, ms2.Vec{X: 0.7, Y: 0.5}, 0.1),
		bld.NewBox(ms2.Vec{X: 0.5, Y: 0.5}, 0.7, ms2.Vec{X: 0.3, Y: 0.1}),
		bld.NewTriangle(ms2.Vec{X: 0.5, Y: 0.2}, ms2.Vec{X: 0.8, Y: 0.8}, ms2.Vec{X: 0.3, Y: 0.6}),
		bld.NewNgon(ms2.Vec{X: -0.5, Y: 0.5}, 0.25, 5),
		bld.NewPolygon([]ms2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 2}}),
	}
	for i, s := range shapes {
		bb := s.Bounds()
		// Sample a region larger than the bounds, interior points must lie within bounds.
		sz := bb.Size()
		for j := 0; j < 2000; j++ {
			p := ms2.Vec{
				X: bb.Min.X - sz.X + 3*sz.X*rng.Float32(),
				Y: bb.Min.Y - sz.Y + 3*sz.Y*rng.Float32(),
			}
			inBounds := p.X >= bb.Min.X && p.X <= bb.Max.X && p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
			if s.Distance(p) < -tol && !inBounds {
				t.Fatalf("shape %d: interior point %v outside of bounds %v", i, p, bb)
			}
		}
	}
}

func TestBuilderErrors(t *testing.T) {
	var bld lux.Builder
	bld.SetFlags(lux.FlagNoDimensionPanic)
	bld.NewCircle(ms2.Vec{}, -1)
	bld.NewNgon(ms2.Vec{}, 1, 2)
	hp := bld.NewHalfPlane(ms2.Vec{}, ms2.Vec{})
	bld.NewCapsule(ms2.Vec{X: float32(math.NaN())}, ms2.Vec{}, 1)
	bld.NewPolygon([]ms2.Vec{{}, {X: 1}})
	bld.NewObject(bld.NewCircle(ms2.Vec{}, 1), lux.Material{Reflectivity: 2})
	err := bld.Err()
	if err == nil {
		t.Fatal("expected accumulated errors")
	}
	for _, want := range []string{"radius", "sides", "normal", "NaN", "vertices", "reflectivity"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("accumulated error missing %q: %v", want, err)
		}
	}
	// Degraded half-plane still evaluates as y-up.
	if d := hp.Distance(ms2.Vec{Y: 2}); !near(d, 2, tol) {
		t.Errorf("degraded half-plane: got %g, want 2", d)
	}
	bld.ClearErrors()
	if bld.Err() != nil {
		t.Error("expected no errors after ClearErrors")
	}

	var panicky lux.Builder
	defer func() {
		if recover() == nil {
			t.Error("expected panic on invalid argument without FlagNoDimensionPanic")
		}
	}()
	panicky.NewCircle(ms2.Vec{}, -1)
}
