package luxeval_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux/luxeval"
)

// radial is the distance field of a circle centered at the origin.
type radial struct{ r float32 }

func (c radial) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if err := luxeval.CheckBuffers(pos, dist); err != nil {
		return err
	}
	for i, p := range pos {
		dist[i] = ms2.Norm(p) - c.r
	}
	return nil
}

func (c radial) Bounds() ms2.Box {
	return ms2.Box{Min: ms2.Vec{X: -c.r, Y: -c.r}, Max: ms2.Vec{X: c.r, Y: c.r}}
}

func TestVecPool(t *testing.T) {
	var vp luxeval.VecPool
	a := vp.Float.Acquire(32)
	b := vp.Float.Acquire(16)
	if len(a) != 32 || len(b) != 16 {
		t.Fatal("bad acquired lengths")
	}
	if vp.AssertAllReleased() == nil {
		t.Fatal("expected unreleased buffer error")
	}
	if err := vp.Float.Release(a); err != nil {
		t.Fatal(err)
	}
	if err := vp.Float.Release(a); err == nil {
		t.Error("expected error on double release")
	}
	// Smaller request reuses the released buffer.
	c := vp.Float.Acquire(8)
	if &c[0] != &a[0] {
		t.Error("expected buffer reuse")
	}
	if vp.Float.NumBuffers() != 2 {
		t.Errorf("want 2 buffers allocated, got %d", vp.Float.NumBuffers())
	}
	vp.Float.Release(b)
	vp.Float.Release(c)
	if err := vp.Float.Release(make([]float32, 4)); err == nil {
		t.Error("expected error releasing foreign buffer")
	}
	if err := vp.AssertAllReleased(); err != nil {
		t.Error(err)
	}
}

func TestGetVecPool(t *testing.T) {
	var vp luxeval.VecPool
	got, err := luxeval.GetVecPool(&vp)
	if err != nil || got != &vp {
		t.Fatal("expected same pool back", err)
	}
	sdf, err := luxeval.NewCPUSDF2(radial{r: 1})
	if err != nil {
		t.Fatal(err)
	}
	got, err = luxeval.GetVecPool(sdf)
	if err != nil || got != sdf.VecPool() {
		t.Fatal("expected evaluator pool", err)
	}
	_, err = luxeval.GetVecPool(nil)
	if err == nil {
		t.Error("expected error on nil userData")
	}
	_, err = luxeval.NewCPUSDF2(3)
	if err == nil {
		t.Error("expected error wrapping non SDF2")
	}
}

func TestNormalsCentralDiff2(t *testing.T) {
	const step = 1e-3
	sdf := radial{r: 0.5}
	pos := []ms2.Vec{{X: 1}, {Y: -2}, {X: 0.3, Y: 0.4}, {X: -1, Y: 1}}
	normals := make([]ms2.Vec, len(pos))
	var vp luxeval.VecPool
	err := luxeval.NormalsCentralDiff2(sdf, pos, normals, step, &vp)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		want := ms2.Scale(1/ms2.Norm(p), p)
		got := ms2.Scale(1/ms2.Norm(normals[i]), normals[i])
		if math32.Abs(got.X-want.X) > 1e-3 || math32.Abs(got.Y-want.Y) > 1e-3 {
			t.Errorf("normal at %v: got %v, want %v", p, got, want)
		}
	}
	if err := vp.AssertAllReleased(); err != nil {
		t.Error(err)
	}
	err = luxeval.NormalsCentralDiff2(sdf, pos, normals[:1], step, &vp)
	if err == nil {
		t.Error("expected buffer length mismatch error")
	}
	err = luxeval.NormalsCentralDiff2(sdf, pos, normals, 0, &vp)
	if err == nil {
		t.Error("expected invalid step error")
	}
	err = luxeval.NormalsCentralDiff2(sdf, pos, normals, step, nil)
	if err == nil {
		t.Error("expected missing pool error")
	}
}

func TestCheckBuffers(t *testing.T) {
	if err := luxeval.CheckBuffers(nil, nil); err != luxeval.ErrEmptyBuffers {
		t.Errorf("want ErrEmptyBuffers, got %v", err)
	}
	if err := luxeval.CheckBuffers(make([]ms2.Vec, 2), make([]float32, 3)); err != luxeval.ErrMismatchBufferLength {
		t.Errorf("want ErrMismatchBufferLength, got %v", err)
	}
}
