// Package lux describes 2D scenes as signed distance fields whose regions carry
// optical materials. Scenes are built once with a [Builder] from primitive
// shapes combined with union, intersection and subtraction and are then
// queried point by point by the light transport in package luxtrace.
package lux

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

const (
	largenum = 1e20
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization or transformation matrix determinants.
	epstol = 6e-7
)

// Flags modify the behaviour of a [Builder].
type Flags uint64

const (
	// FlagNoDimensionPanic makes the Builder accumulate construction errors
	// instead of panicking. Accumulated errors are returned by [Builder.Err].
	FlagNoDimensionPanic Flags = 1 << iota
)

// Builder wraps all scene primitive and operation construction.
// Provides error handling strategies with panics or error accumulation during scene generation.
// The zero value is ready to use and panics on the first invalid argument.
type Builder struct {
	flags     Flags
	accumErrs []error
}

// Flags returns the flags currently set on the Builder.
func (bld *Builder) Flags() Flags { return bld.flags }

// SetFlags replaces the Builder's flags.
func (bld *Builder) SetFlags(flags Flags) { bld.flags = flags }

// Err returns all accumulated construction errors joined together or nil if none occurred.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func (*Builder) nilnode(msg string) {
	panic("nil Node argument: " + msg)
}

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func absf(a float32) float32 {
	return math32.Abs(a)
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

func badf(v float32) bool {
	return math32.IsNaN(v) || math32.IsInf(v, 0)
}

func badvec(v ms2.Vec) bool {
	return badf(v.X) || badf(v.Y)
}

// infiniteBox is the bounding box of unbounded fields such as half-planes.
func infiniteBox() ms2.Box {
	return ms2.NewBox(-largenum, -largenum, largenum, largenum)
}
