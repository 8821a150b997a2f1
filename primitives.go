package lux

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms2"
)

// Shape is a primitive signed distance function. Distance is negative inside the
// shape, zero on its boundary and positive outside. Its magnitude is a lower
// bound on the distance to the boundary.
type Shape interface {
	Distance(p ms2.Vec) float32
	// Bounds returns a box containing the whole interior of the shape.
	Bounds() ms2.Box
}

type circle struct {
	c ms2.Vec
	r float32
}

// NewCircle creates a circle of a radius centered at c. A zero radius degenerates to point distance.
func (bld *Builder) NewCircle(c ms2.Vec, radius float32) Shape {
	if badvec(c) || badf(radius) {
		bld.shapeErrorf("NaN or infinite argument to NewCircle")
	} else if radius < 0 {
		bld.shapeErrorf("negative circle radius %g", radius)
	}
	return &circle{c: c, r: radius}
}

func (c *circle) Distance(p ms2.Vec) float32 {
	return ms2.Norm(ms2.Sub(p, c.c)) - c.r
}

func (c *circle) Bounds() ms2.Box {
	return ms2.NewBox(c.c.X-c.r, c.c.Y-c.r, c.c.X+c.r, c.c.Y+c.r)
}

type halfPlane struct {
	p ms2.Vec
	n ms2.Vec
}

// NewHalfPlane creates the half-plane bounded by the line through point with unit
// normal pointing to the exterior. The normal is normalized on construction.
func (bld *Builder) NewHalfPlane(point, normal ms2.Vec) Shape {
	if badvec(point) || badvec(normal) {
		bld.shapeErrorf("NaN or infinite argument to NewHalfPlane")
	}
	n := ms2.Norm(normal)
	if n < epstol {
		bld.shapeErrorf("zero length half-plane normal")
		return &halfPlane{p: point, n: ms2.Vec{Y: 1}}
	}
	return &halfPlane{p: point, n: ms2.Scale(1/n, normal)}
}

func (h *halfPlane) Distance(p ms2.Vec) float32 {
	return ms2.Dot(ms2.Sub(p, h.p), h.n)
}

func (h *halfPlane) Bounds() ms2.Box { return infiniteBox() }

type segment struct {
	a, ba ms2.Vec
	// invdot is 1/dot(ba,ba), zero for degenerate segments.
	invdot float32
}

func newSegment(a, b ms2.Vec) segment {
	ba := ms2.Sub(b, a)
	dotba := ms2.Dot(ba, ba)
	var inv float32
	if dotba > epstol*epstol {
		inv = 1 / dotba
	}
	return segment{a: a, ba: ba, invdot: inv}
}

// Distance is the unsigned distance to the segment. Zero length segments
// degenerate to the distance to their single point.
func (s *segment) Distance(p ms2.Vec) float32 {
	pa := ms2.Sub(p, s.a)
	h := ms1.Clamp(ms2.Dot(pa, s.ba)*s.invdot, 0, 1)
	return ms2.Norm(ms2.Sub(pa, ms2.Scale(h, s.ba)))
}

func (s *segment) Bounds() ms2.Box {
	return ms2.Box{Min: s.a, Max: ms2.Add(s.a, s.ba)}.Canon()
}

// NewSegment creates a line segment between a and b. A segment has no interior so
// its distance is never negative.
func (bld *Builder) NewSegment(a, b ms2.Vec) Shape {
	if badvec(a) || badvec(b) {
		bld.shapeErrorf("NaN or infinite argument to NewSegment")
	}
	s := newSegment(a, b)
	return &s
}

type capsule struct {
	seg segment
	r   float32
}

// NewCapsule creates the set of points within radius of the segment a-b.
func (bld *Builder) NewCapsule(a, b ms2.Vec, radius float32) Shape {
	if badvec(a) || badvec(b) || badf(radius) {
		bld.shapeErrorf("NaN or infinite argument to NewCapsule")
	} else if radius < 0 {
		bld.shapeErrorf("negative capsule radius %g", radius)
	}
	return &capsule{seg: newSegment(a, b), r: radius}
}

func (c *capsule) Distance(p ms2.Vec) float32 {
	return c.seg.Distance(p) - c.r
}

func (c *capsule) Bounds() ms2.Box {
	bb := c.seg.Bounds()
	bb.Max = ms2.AddScalar(c.r, bb.Max)
	bb.Min = ms2.AddScalar(-c.r, bb.Min)
	return bb
}

type box struct {
	c    ms2.Vec
	sin  float32
	cos  float32
	half ms2.Vec
}

// NewBox creates a rectangle centered at c rotated counter-clockwise by theta
// radians whose sides measure twice the halfExtents. The distance is exact.
func (bld *Builder) NewBox(c ms2.Vec, theta float32, halfExtents ms2.Vec) Shape {
	if badvec(c) || badf(theta) || badvec(halfExtents) {
		bld.shapeErrorf("NaN or infinite argument to NewBox")
	} else if halfExtents.X < 0 || halfExtents.Y < 0 {
		bld.shapeErrorf("negative box half extents")
	}
	s, cs := math32.Sincos(theta)
	return &box{c: c, sin: s, cos: cs, half: halfExtents}
}

func (b *box) Distance(p ms2.Vec) float32 {
	// Transform into the box frame: translate by -c and rotate by -theta.
	v := ms2.Sub(p, b.c)
	local := ms2.Vec{
		X: v.X*b.cos + v.Y*b.sin,
		Y: v.Y*b.cos - v.X*b.sin,
	}
	d := ms2.Sub(ms2.AbsElem(local), b.half)
	return minf(maxf(d.X, d.Y), 0) + ms2.Norm(ms2.MaxElem(d, ms2.Vec{}))
}

func (b *box) Bounds() ms2.Box {
	ex := absf(b.half.X*b.cos) + absf(b.half.Y*b.sin)
	ey := absf(b.half.X*b.sin) + absf(b.half.Y*b.cos)
	return ms2.NewBox(b.c.X-ex, b.c.Y-ey, b.c.X+ex, b.c.Y+ey)
}

type triangle struct {
	a, b, c    ms2.Vec
	ab, bc, ca segment
}

// NewTriangle creates a triangle with vertices a, b and c. The interior test
// expects counter-clockwise winding (positive signed area); clockwise triangles
// report positive distances everywhere.
func (bld *Builder) NewTriangle(a, b, c ms2.Vec) Shape {
	if badvec(a) || badvec(b) || badvec(c) {
		bld.shapeErrorf("NaN or infinite argument to NewTriangle")
	}
	return &triangle{
		a: a, b: b, c: c,
		ab: newSegment(a, b),
		bc: newSegment(b, c),
		ca: newSegment(c, a),
	}
}

func (t *triangle) Distance(p ms2.Vec) float32 {
	d := minf(minf(t.ab.Distance(p), t.bc.Distance(p)), t.ca.Distance(p))
	if leftOf(t.a, t.b, p) && leftOf(t.b, t.c, p) && leftOf(t.c, t.a, p) {
		return -d
	}
	return d
}

// leftOf reports whether p lies strictly on the left of the directed edge a->b.
func leftOf(a, b, p ms2.Vec) bool {
	return (b.X-a.X)*(p.Y-a.Y) > (b.Y-a.Y)*(p.X-a.X)
}

func (t *triangle) Bounds() ms2.Box {
	bb := ms2.Box{Min: t.a, Max: t.a}
	bb = bb.IncludePoint(t.b)
	return bb.IncludePoint(t.c)
}

type ngon struct {
	c      ms2.Vec
	r      float32
	sector float32
	// edge normal of the first sector, at half the sector angle.
	n ms2.Vec
}

// NewNgon creates a regular polygon with the given number of sides centered at c
// with its vertices at radius from the center, the first one on the +X axis.
// The distance is a lower bound outside near the vertices.
func (bld *Builder) NewNgon(c ms2.Vec, radius float32, sides int) Shape {
	if badvec(c) || badf(radius) {
		bld.shapeErrorf("NaN or infinite argument to NewNgon")
	} else if radius < 0 {
		bld.shapeErrorf("negative n-gon radius %g", radius)
	}
	if sides < 3 {
		bld.shapeErrorf("n-gon needs at least 3 sides, got %d", sides)
		sides = 3
	}
	sector := 2 * math.Pi / float32(sides)
	s, cs := math32.Sincos(sector / 2)
	return &ngon{c: c, r: radius, sector: sector, n: ms2.Vec{X: cs, Y: s}}
}

func (g *ngon) Distance(p ms2.Vec) float32 {
	u := ms2.Sub(p, g.c)
	// Reduce the polar angle into the first sector.
	t := math32.Mod(math32.Atan2(u.Y, u.X)+2*math.Pi, g.sector)
	s, c := math32.Sincos(t)
	local := ms2.Scale(ms2.Norm(u), ms2.Vec{X: c, Y: s})
	return ms2.Dot(ms2.Sub(local, ms2.Vec{X: g.r}), g.n)
}

func (g *ngon) Bounds() ms2.Box {
	return ms2.NewBox(g.c.X-g.r, g.c.Y-g.r, g.c.X+g.r, g.c.Y+g.r)
}

type polygon struct {
	vert []ms2.Vec
}

// NewPolygon creates a closed polygon from its vertices. Winding order does not
// matter. The last vertex is discarded if equal to the first.
func (bld *Builder) NewPolygon(vertices []ms2.Vec) Shape {
	if len(vertices) == 0 {
		bld.shapeErrorf("polygon needs at least 3 distinct vertices")
		return &polygon{vert: []ms2.Vec{{}, {}, {}}}
	}
	prevIdx := len(vertices) - 1
	if vertices[0] == vertices[prevIdx] {
		vertices = vertices[:prevIdx] // Discard last vertex if equal to first (this algorithm closes automatically).
		prevIdx--
	}
	if len(vertices) < 3 {
		bld.shapeErrorf("polygon needs at least 3 distinct vertices")
		return &polygon{vert: []ms2.Vec{{}, {}, {}}}
	}
	for i := range vertices {
		if badvec(vertices[i]) {
			bld.shapeErrorf("NaN or infinite value in vertices")
		}
		if vertices[i] == vertices[prevIdx] {
			bld.shapeErrorf("found two consecutive equal vertices in polygon")
		}
		prevIdx = i
	}
	return &polygon{vert: append([]ms2.Vec{}, vertices...)}
}

func (poly *polygon) Distance(p ms2.Vec) float32 {
	// https://www.shadertoy.com/view/wdBXRW
	verts := poly.vert
	d := ms2.Norm2(ms2.Sub(p, verts[0]))
	s := float32(1.0)
	jv := len(verts) - 1
	for iv, v1 := range verts {
		v2 := verts[jv]
		e := ms2.Sub(v2, v1)
		w := ms2.Sub(p, v1)
		var h float32
		if e2 := ms2.Norm2(e); e2 > 0 {
			h = ms1.Clamp(ms2.Dot(w, e)/e2, 0, 1)
		}
		b := ms2.Sub(w, ms2.Scale(h, e))
		d = minf(d, ms2.Norm2(b))
		// winding number from http://geomalgorithms.com/a03-_inclusion.html
		b1 := p.Y >= v1.Y
		b2 := p.Y < v2.Y
		b3 := e.X*w.Y > e.Y*w.X
		if (b1 && b2 && b3) || ((!b1) && (!b2) && (!b3)) {
			s = -s
		}
		jv = iv
	}
	return s * math32.Sqrt(d)
}

func (poly *polygon) Bounds() ms2.Box {
	min := ms2.Vec{X: largenum, Y: largenum}
	max := ms2.Vec{X: -largenum, Y: -largenum}
	for _, v := range poly.vert {
		min = ms2.MinElem(min, v)
		max = ms2.MaxElem(max, v)
	}
	return ms2.Box{Min: min, Max: max}
}
