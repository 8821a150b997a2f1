// Package textsdf builds emissive or refractive text scene nodes from TrueType glyph outlines.
package textsdf

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const firstBasic = '!'
const lastBasic = '~'

type FontConfig struct {
	// RelativeGlyphTolerance sets the permissible curve tolerance for glyphs. Must be between 0..1. If zero a reasonable value is chosen.
	RelativeGlyphTolerance float32
	// Height is the scene space height of the font's bounding box. If zero glyphs are unit sized.
	Height float32
	// Material is assigned to every glyph.
	Material lux.Material
}

// Font implements font parsing and glyph (character) generation.
type Font struct {
	ttf truetype.Font
	gb  truetype.GlyphBuf
	// basicGlyphs optimized array access for common ASCII glyphs.
	basicGlyphs [lastBasic - firstBasic + 1]glyph
	// Other kinds of glyphs.
	otherGlyphs map[rune]glyph
	bld         lux.Builder
	reltol      float32 // Set by config or reset call if zeroed.
	height      float32
	mat         lux.Material
}

// Configure sets the glyph tolerance, size and material. Previously generated glyphs are discarded.
func (f *Font) Configure(cfg FontConfig) error {
	if cfg.RelativeGlyphTolerance < 0 || cfg.RelativeGlyphTolerance >= 1 {
		return errors.New("invalid RelativeGlyphTolerance")
	}
	if cfg.Height < 0 {
		return errors.New("negative font height")
	}
	f.bld.SetFlags(lux.FlagNoDimensionPanic)
	f.bld.ClearErrors()
	f.bld.NewObject(f.bld.NewCircle(ms2.Vec{}, 1), cfg.Material) // Validates material.
	if err := f.bld.Err(); err != nil {
		f.bld.ClearErrors()
		return err
	}
	f.reltol = cfg.RelativeGlyphTolerance
	f.height = cfg.Height
	f.mat = cfg.Material
	f.reset()
	return nil
}

// LoadTTFBytes loads a TTF file blob into f. After calling Load the Font is ready to generate text nodes.
func (f *Font) LoadTTFBytes(ttf []byte) error {
	font, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	f.reset()
	f.ttf = *font
	return nil
}

// reset resets most internal state of Font without removing underlying assigned font.
func (f *Font) reset() {
	for i := range f.basicGlyphs {
		f.basicGlyphs[i] = glyph{}
	}
	if f.otherGlyphs == nil {
		f.otherGlyphs = make(map[rune]glyph)
	} else {
		clear(f.otherGlyphs)
	}
	if f.reltol == 0 {
		f.reltol = 0.15
	}
	if f.height == 0 {
		f.height = 1
	}
	f.bld.SetFlags(lux.FlagNoDimensionPanic)
}

type glyph struct {
	node lux.Node
}

// TextLine returns a single line of text with the set font.
// TextLine takes kerning and advance width into account for letter spacing.
// Glyph locations are set starting at x=0 and appended in positive x direction.
// Text is laid out in image orientation: the baseline lies on y=0 and glyphs
// extend toward -Y so they read upright in rendered images.
func (f *Font) TextLine(s string) (lux.Node, error) {
	var nodes []lux.Node
	scale := f.scale()
	var idxPrev truetype.Index
	var xOfs int64
	scalout := f.scaleout()
	for ic, c := range s {
		if !unicode.IsGraphic(c) {
			return nil, fmt.Errorf("char %q not graphic", c)
		}

		idx := f.ttf.Index(c)
		hm := f.ttf.HMetric(scale, idx)
		if unicode.IsSpace(c) {
			xOfs += int64(hm.AdvanceWidth)
			continue
		}
		charnode, err := f.Glyph(c)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}

		xOfs += int64(f.ttf.Kern(scale, idxPrev, idx))
		idxPrev = idx
		if ic == 0 {
			xOfs += int64(hm.LeftSideBearing)
		}
		nodes = append(nodes, f.bld.Translate(charnode, float32(xOfs)*scalout, 0))
		xOfs += int64(hm.AdvanceWidth)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	} else if len(nodes) == 0 {
		return nil, errors.New("no text provided")
	}
	return f.bld.Union(nodes...), f.bld.Err()
}

// Kern returns the horizontal adjustment for the given glyph pair in scene units.
// A positive kern means to move the glyphs further apart.
func (f *Font) Kern(c0, c1 rune) float32 {
	return float32(f.ttf.Kern(f.scale(), f.ttf.Index(c0), f.ttf.Index(c1))) * f.scaleout()
}

// AdvanceWidth returns the horizontal advance of a glyph in scene units.
func (f *Font) AdvanceWidth(c rune) float32 {
	return float32(f.ttf.HMetric(f.scale(), f.ttf.Index(c)).AdvanceWidth) * f.scaleout()
}

// Glyph returns a scene node for a character defined by the argument rune.
func (f *Font) Glyph(c rune) (_ lux.Node, err error) {
	var g glyph
	if c >= firstBasic && c <= lastBasic {
		g = f.basicGlyphs[c-firstBasic]
		if g.node == nil {
			g, err = f.makeGlyph(c)
			if err != nil {
				return nil, err
			}
			f.basicGlyphs[c-firstBasic] = g
		}
		return g.node, nil
	}
	g, ok := f.otherGlyphs[c]
	if !ok {
		g, err = f.makeGlyph(c)
		if err != nil {
			return nil, err
		}
		f.otherGlyphs[c] = g
	}
	return g.node, nil
}

func (f *Font) scale() fixed.Int26_6 {
	return fixed.Int26_6(f.ttf.FUnitsPerEm())
}

// scaleout converts font units to scene units.
func (f *Font) scaleout() float32 {
	bb := f.ttf.Bounds(f.scale())
	sz := min(bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y)
	return f.height / float32(sz)
}

func (f *Font) makeGlyph(char rune) (glyph, error) {
	g := &f.gb
	bld := &f.bld
	if f.ttf.FUnitsPerEm() == 0 {
		return glyph{}, errors.New("no font loaded")
	}
	err := g.Load(&f.ttf, f.scale(), f.ttf.Index(char), font.HintingNone)
	if err != nil {
		return glyph{}, err
	} else if len(g.Ends) == 0 {
		return glyph{}, errors.New("glyph has no outline")
	}
	scaleout := f.scaleout()
	tol := f.reltol
	// Filled contours are joined and counter-wound contours are carved out of them.
	var fills, holes []lux.Node
	start := 0
	for _, end := range g.Ends {
		node, fill, err := glyphContour(bld, g.Points, start, end, tol, scaleout, f.mat)
		start = end
		if err != nil {
			return glyph{}, err
		}
		if fill {
			fills = append(fills, node)
		} else {
			holes = append(holes, node)
		}
	}
	if len(fills) == 0 {
		return glyph{}, fmt.Errorf("glyph %q has no filled contour", char)
	}
	shape := f.joinNodes(fills)
	if len(holes) > 0 {
		shape = bld.Subtraction(shape, f.joinNodes(holes))
	}
	return glyph{node: shape}, nil
}

func (f *Font) joinNodes(nodes []lux.Node) lux.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return f.bld.Union(nodes...)
}

func glyphContour(bld *lux.Builder, points []truetype.Point, start, end int, tol, scale float32, mat lux.Material) (lux.Node, bool, error) {
	var (
		sampler = ms2.Spline3Sampler{Spline: quadBezier, Tolerance: tol}
		sum     float32
	)
	points = points[start:end]
	n := len(points)
	i := 0
	var poly []ms2.Vec
	vPrev := p2v(points[n-1], scale)
	for i < n {
		p0, p1, p2 := points[i], points[(i+1)%n], points[(i+2)%n]
		onBits := onbits3(points, 0, n, i)
		v0, v1, v2 := p2v(p0, scale), p2v(p1, scale), p2v(p2, scale)
		implicit0 := ms2.Scale(0.5, ms2.Add(v0, v1))
		implicit1 := ms2.Scale(0.5, ms2.Add(v1, v2))
		switch onBits {
		case 0b010, 0b110, 0b011, 0b111:
			// Straight segment to the next on-curve point.
			poly = append(poly, v0)
			i += 1
			sum += (v0.X - vPrev.X) * (v0.Y + vPrev.Y)
			vPrev = v0
			continue

		case 0b000:
			// implicit-off-implicit.
			sampler.SetSplinePoints(implicit0, v1, implicit1, ms2.Vec{})
			v0 = implicit0
			i += 1

		case 0b001:
			// on-off-implicit.
			sampler.SetSplinePoints(v0, v1, implicit1, ms2.Vec{})
			i += 1

		case 0b100:
			// implicit-off-on.
			sampler.SetSplinePoints(implicit0, v1, v2, ms2.Vec{})
			v0 = implicit0
			i += 2

		case 0b101:
			// on-off-on.
			sampler.SetSplinePoints(v0, v1, v2, ms2.Vec{})
			i += 2
		}
		poly = append(poly, v0)
		poly = sampler.SampleBisect(poly, 4)
		sum += (v0.X - vPrev.X) * (v0.Y + vPrev.Y)
		vPrev = v0
	}
	node := bld.NewObject(bld.NewPolygon(poly), mat)
	return node, sum < 0, bld.Err()
}

// p2v converts font units to scene units, flipping Y into image orientation.
func p2v(p truetype.Point, scale float32) ms2.Vec {
	return ms2.Vec{
		X: float32(p.X) * scale,
		Y: -float32(p.Y) * scale,
	}
}

var quadBezier = ms2.NewSpline3([]float32{
	1, 0, 0, 0,
	-2, 2, 0, 0,
	1, -2, 1, 0,
	0, 0, 0, 0,
})

func onbits3(points []truetype.Point, start, end, i int) uint32 {
	n := end - start
	p0, p1, p2 := points[i], points[start+(i+1)%n], points[start+(i+2)%n]
	return p0.Flags&1 |
		(p1.Flags&1)<<1 |
		(p2.Flags&1)<<2
}
