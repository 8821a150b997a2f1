package luxrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux/luxeval"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// ImageRendererSDF2 converts 2D distance fields to images over a view box.
type ImageRendererSDF2 struct {
	conv    func(f float32) color.Color
	normals bool
	pos     []ms2.Vec
	dist    []float32
	nrm     []ms2.Vec
}

// NewImageRendererSDF2 instances a new [ImageRendererSDF2] to render images from 2D SDFs. A nil float->color conversion
// function results in a simple black-white color scheme where black is the interior of the SDF (negative distance).
func NewImageRendererSDF2(evalBufferSize int, conversion func(float32) color.Color) (*ImageRendererSDF2, error) {
	if evalBufferSize <= 64 {
		return nil, errors.New("too small evaluation buffer size")
	}
	if conversion == nil {
		conversion = func(f float32) color.Color {
			switch {
			case math32.IsNaN(f) || math32.IsInf(f, 0):
				return color.RGBA{R: 255, A: 255}
			case f > 0:
				return color.White
			default:
				return color.Black
			}
		}
	}
	ir := &ImageRendererSDF2{
		conv: conversion,
		pos:  make([]ms2.Vec, evalBufferSize),
		dist: make([]float32, evalBufferSize),
	}
	return ir, nil
}

// NewNormalRendererSDF2 instances an [ImageRendererSDF2] that colors each pixel by
// the direction of the field's gradient, as used by the tracer for shading.
func NewNormalRendererSDF2(evalBufferSize int) (*ImageRendererSDF2, error) {
	ir, err := NewImageRendererSDF2(evalBufferSize, nil)
	if err != nil {
		return nil, err
	}
	ir.normals = true
	ir.nrm = make([]ms2.Vec, evalBufferSize)
	return ir, nil
}

// Render maps view onto img and renders the SDF over it. Image rows grow along
// +Y in scene space. It uses userData as an argument to all [luxeval.SDF2.Evaluate] calls,
// which must carry a [luxeval.VecPool] unless sdf provides one.
func (ir *ImageRendererSDF2) Render(sdf luxeval.SDF2, view ms2.Box, img setImage, userData any) error {
	imgBB := img.Bounds()
	dxi := imgBB.Dx()
	dyi := imgBB.Dy()
	if len(ir.dist) < dxi {
		return fmt.Errorf("require evaluation buffer (%d) to be at least of length of image rows (%d)", len(ir.dist), dxi)
	}
	sz := view.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return errors.New("empty view box")
	}
	if _, err := luxeval.GetVecPool(userData); err != nil {
		// Fall back to the evaluator's pool, then to a throwaway one.
		if vp, err := luxeval.GetVecPool(sdf); err == nil {
			userData = vp
		} else {
			userData = &luxeval.VecPool{}
		}
	}
	dx := sz.X / float32(dxi)
	dy := sz.Y / float32(dyi)
	origin := ms2.Add(view.Min, ms2.Vec{X: dx / 2, Y: dy / 2}) // Sample pixel centers.
	for j := 0; j < dyi; j++ {
		y := float32(j)*dy + origin.Y
		err := ir.renderRow(sdf, j, y, origin.X, dx, imgBB, img, userData)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ir *ImageRendererSDF2) renderRow(sdf luxeval.SDF2, row int, y, xmin, dx float32, imgBB image.Rectangle, img setImage, userData any) error {
	dxi := imgBB.Dx()
	for i := 0; i < dxi; i++ {
		ir.pos[i] = ms2.Vec{X: float32(i)*dx + xmin, Y: y}
	}
	if ir.normals {
		err := luxeval.NormalsCentralDiff2(sdf, ir.pos[:dxi], ir.nrm[:dxi], 1e-4, userData)
		if err != nil {
			return err
		}
		for i := 0; i < dxi; i++ {
			img.Set(i+imgBB.Min.X, row+imgBB.Min.Y, normalColor(ir.nrm[i]))
		}
		return nil
	}
	err := sdf.Evaluate(ir.pos[:dxi], ir.dist[:dxi], userData)
	if err != nil {
		return err
	}
	conv := ir.conv
	for i := 0; i < dxi; i++ {
		img.Set(i+imgBB.Min.X, row+imgBB.Min.Y, conv(ir.dist[i]))
	}
	return nil
}

// normalColor maps a gradient direction to red and green channels.
func normalColor(n ms2.Vec) color.Color {
	norm := ms2.Norm(n)
	if norm == 0 || math32.IsNaN(norm) {
		return color.RGBA{B: 255, A: 255}
	}
	n = ms2.Scale(1/norm, n)
	return color.RGBA{
		R: uint8(127.5 * (n.X + 1)),
		G: uint8(127.5 * (n.Y + 1)),
		B: 127,
		A: 255,
	}
}
