// Package luxeval defines batched signed distance field evaluation and the
// scratch buffer pools evaluators share.
package luxeval

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms2"
)

// SDF2 implements a 2D signed distance field in vectorized form.
type SDF2 interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length.  Resulting distances are stored
	// in dist.
	//
	// userData facilitates getting data to the evaluators for use in processing, such as [VecPool].
	Evaluate(pos []ms2.Vec, dist []float32, userData any) error
	// Bounds returns the SDF's bounding box such that all of the shape is contained within.
	Bounds() ms2.Box
}

var (
	// ErrEmptyBuffers is returned when evaluating zero positions.
	ErrEmptyBuffers = errors.New("empty buffers")
	// ErrMismatchBufferLength is returned when position and distance buffers differ in length.
	ErrMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// CheckBuffers returns an error if pos and dist cannot be used as evaluation buffers.
func CheckBuffers(pos []ms2.Vec, dist []float32) error {
	if len(pos) != len(dist) {
		return ErrMismatchBufferLength
	} else if len(pos) == 0 {
		return ErrEmptyBuffers
	}
	return nil
}

// AssertSDF2 returns obj as an [SDF2] or an error if it does not implement batch evaluation.
func AssertSDF2(obj any) (SDF2, error) {
	sdf, ok := obj.(SDF2)
	if !ok {
		return nil, fmt.Errorf("%T does not implement luxeval.SDF2", obj)
	}
	return sdf, nil
}

// NormalsCentralDiff2 uses central differences algorithm for normal calculation, which are stored in normals for each position.
// The returned normals are not normalized (converted to unit length) and are
// proportional to step.
func NormalsCentralDiff2(s SDF2, pos []ms2.Vec, normals []ms2.Vec, step float32, userData any) error {
	step *= 0.5
	if step <= 0 {
		return errors.New("invalid step")
	} else if len(pos) != len(normals) {
		return errors.New("length of position must match length of normals")
	} else if s == nil {
		return errors.New("nil SDF2")
	} else if len(pos) == 0 {
		return ErrEmptyBuffers
	}
	vp, err := GetVecPool(userData)
	if err != nil {
		return fmt.Errorf("VecPool required for normal calculation: %w", err)
	}
	d1 := vp.Float.Acquire(len(pos))
	d2 := vp.Float.Acquire(len(pos))
	auxPos := vp.V2.Acquire(len(pos))
	defer vp.Float.Release(d1)
	defer vp.Float.Release(d2)
	defer vp.V2.Release(auxPos)
	var vecs = [2]ms2.Vec{{X: step}, {Y: step}}
	for dim, h := range vecs {
		for i, p := range pos {
			auxPos[i] = ms2.Add(p, h)
		}
		err = s.Evaluate(auxPos, d1, userData)
		if err != nil {
			return err
		}
		for i, p := range pos {
			auxPos[i] = ms2.Sub(p, h)
		}
		err = s.Evaluate(auxPos, d2, userData)
		if err != nil {
			return err
		}
		if dim == 0 {
			for i, d := range d1 {
				normals[i].X = d - d2[i]
			}
		} else {
			for i, d := range d1 {
				normals[i].Y = d - d2[i]
			}
		}
	}
	return nil
}

// CPUSDF2 evaluates an [SDF2] on the CPU providing its own [VecPool] when the
// caller does not pass one as userData.
type CPUSDF2 struct {
	SDF SDF2
	vp  VecPool
}

// NewCPUSDF2 wraps root so it may be evaluated without an explicit [VecPool].
func NewCPUSDF2(root any) (*CPUSDF2, error) {
	sdf, err := AssertSDF2(root)
	if err != nil {
		return nil, err
	}
	return &CPUSDF2{SDF: sdf}, nil
}

// Evaluate implements [SDF2].
func (sdf *CPUSDF2) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := GetVecPool(userData)
	own := err != nil
	if own {
		vp = &sdf.vp
	}
	err = sdf.SDF.Evaluate(pos, dist, vp)
	if err != nil {
		return err
	}
	if own {
		return vp.AssertAllReleased()
	}
	return nil
}

// Bounds implements [SDF2].
func (sdf *CPUSDF2) Bounds() ms2.Box {
	return sdf.SDF.Bounds()
}

// VecPool returns the evaluator's own buffer pool.
func (sdf *CPUSDF2) VecPool() *VecPool {
	return &sdf.vp
}
