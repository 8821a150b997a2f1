package lux

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

// SceneNode is the result of evaluating a scene at a point: the signed distance
// to the nearest boundary and the material of the region that owns the point.
// SceneNodes are ephemeral and are never cached between queries.
type SceneNode struct {
	Distance float32
	Material *Material
}

// Node is an immutable scene expression tree. Eval queries a single point and
// Evaluate computes only distances for a batch of points.
//
// Every Node also implements luxeval.SDF2 so scenes can be previewed and their
// normals computed in batches.
type Node interface {
	// Eval returns the signed distance and owning material at p.
	Eval(p ms2.Vec) SceneNode
	// Bounds returns a box containing the interior of the node.
	Bounds() ms2.Box
	// Evaluate computes distances for pos in dist. userData must carry a luxeval.VecPool
	// for composite nodes.
	Evaluate(pos []ms2.Vec, dist []float32, userData any) error
}

type object struct {
	shape Shape
	mat   Material
}

// NewObject creates a scene leaf from a shape filled with material m.
func (bld *Builder) NewObject(s Shape, m Material) Node {
	if s == nil {
		bld.nilnode("NewObject")
	}
	bld.validateMaterial(m)
	return &object{shape: s, mat: m}
}

func (o *object) Eval(p ms2.Vec) SceneNode {
	return SceneNode{Distance: o.shape.Distance(p), Material: &o.mat}
}

func (o *object) Bounds() ms2.Box { return o.shape.Bounds() }

// Material returns the material the object is filled with.
func (o *object) Material() Material { return o.mat }

type union struct {
	joined []Node
}

// Union joins the nodes. Where two operands are equally near the first one given
// owns the point. Nested unions are flattened into a single n-ary union.
func (bld *Builder) Union(nodes ...Node) Node {
	if len(nodes) < 2 {
		bld.shapeErrorf("need at least 2 arguments to Union")
		if len(nodes) == 1 {
			return nodes[0]
		}
	}
	var u union
	for _, n := range nodes {
		if n == nil {
			bld.nilnode("Union")
		}
		if nested, ok := n.(*union); ok {
			u.joined = append(u.joined, nested.joined...)
		} else {
			u.joined = append(u.joined, n)
		}
	}
	if len(u.joined) == 0 {
		return empty{}
	}
	return &u
}

// empty is the node left by a failed Union. It contains no points.
type empty struct{}

var emptyMaterial Material

func (empty) Eval(p ms2.Vec) SceneNode {
	return SceneNode{Distance: largenum, Material: &emptyMaterial}
}

func (empty) Bounds() ms2.Box { return ms2.Box{} }

func (u *union) Eval(p ms2.Vec) SceneNode {
	best := u.joined[0].Eval(p)
	for _, n := range u.joined[1:] {
		if sn := n.Eval(p); sn.Distance < best.Distance {
			best = sn
		}
	}
	return best
}

func (u *union) Bounds() ms2.Box {
	bb := u.joined[0].Bounds()
	for _, n := range u.joined[1:] {
		bb = bb.Union(n.Bounds())
	}
	return bb
}

type intersection struct {
	a, b Node
}

// Intersection keeps the region shared by a and b. The operand with the larger
// distance owns the point, a on ties.
func (bld *Builder) Intersection(a, b Node) Node {
	if a == nil || b == nil {
		bld.nilnode("Intersection")
	}
	return &intersection{a: a, b: b}
}

func (i *intersection) Eval(p ms2.Vec) SceneNode {
	sa := i.a.Eval(p)
	if sb := i.b.Eval(p); sb.Distance > sa.Distance {
		return sb
	}
	return sa
}

func (i *intersection) Bounds() ms2.Box {
	return i.a.Bounds().Intersect(i.b.Bounds())
}

type subtraction struct {
	a, b Node
}

// Subtraction carves b out of a. The result always carries a's material.
func (bld *Builder) Subtraction(a, b Node) Node {
	if a == nil || b == nil {
		bld.nilnode("Subtraction")
	}
	return &subtraction{a: a, b: b}
}

func (s *subtraction) Eval(p ms2.Vec) SceneNode {
	sa := s.a.Eval(p)
	sb := s.b.Eval(p)
	sa.Distance = maxf(sa.Distance, -sb.Distance)
	return sa
}

func (s *subtraction) Bounds() ms2.Box { return s.a.Bounds() }

type translate struct {
	n Node
	d ms2.Vec
}

// Translate moves the node by (dx, dy).
func (bld *Builder) Translate(n Node, dx, dy float32) Node {
	if n == nil {
		bld.nilnode("Translate")
	}
	if badf(dx) || badf(dy) {
		bld.shapeErrorf("NaN or infinite argument to Translate")
	}
	return &translate{n: n, d: ms2.Vec{X: dx, Y: dy}}
}

func (t *translate) Eval(p ms2.Vec) SceneNode {
	return t.n.Eval(ms2.Sub(p, t.d))
}

func (t *translate) Bounds() ms2.Box {
	return t.n.Bounds().Add(t.d)
}

type rotate struct {
	n Node
	// inv rotates scene points into the node's frame.
	inv ms2.Mat2
	fwd ms2.Mat2
}

// Rotate rotates the node counter-clockwise by theta radians about the origin.
func (bld *Builder) Rotate(n Node, theta float32) Node {
	if n == nil {
		bld.nilnode("Rotate")
	}
	if badf(theta) {
		bld.shapeErrorf("NaN or infinite argument to Rotate")
	}
	return &rotate{n: n, fwd: ms2.RotationMat2(theta), inv: ms2.RotationMat2(-theta)}
}

func (r *rotate) Eval(p ms2.Vec) SceneNode {
	return r.n.Eval(ms2.MulMatVec(r.inv, p))
}

func (r *rotate) Bounds() ms2.Box {
	verts := r.n.Bounds().Vertices()
	bb := ms2.Box{Min: ms2.MulMatVec(r.fwd, verts[0])}
	bb.Max = bb.Min
	for _, v := range verts[1:] {
		bb = bb.IncludePoint(ms2.MulMatVec(r.fwd, v))
	}
	return bb
}

type offset struct {
	n Node
	r float32
}

// Offset grows the node by r, rounding its corners. Negative r shrinks it.
func (bld *Builder) Offset(n Node, r float32) Node {
	if n == nil {
		bld.nilnode("Offset")
	}
	if badf(r) {
		bld.shapeErrorf("NaN or infinite argument to Offset")
	}
	return &offset{n: n, r: r}
}

func (o *offset) Eval(p ms2.Vec) SceneNode {
	sn := o.n.Eval(p)
	sn.Distance -= o.r
	return sn
}

func (o *offset) Bounds() ms2.Box {
	bb := o.n.Bounds()
	if o.r > 0 {
		bb.Min = ms2.AddScalar(-o.r, bb.Min)
		bb.Max = ms2.AddScalar(o.r, bb.Max)
	}
	return bb
}

type symmetry struct {
	n    Node
	x, y bool
}

// Symmetry mirrors the positive half of the node about the Y axis when mirrorX is
// set and about the X axis when mirrorY is set.
func (bld *Builder) Symmetry(n Node, mirrorX, mirrorY bool) Node {
	if n == nil {
		bld.nilnode("Symmetry")
	}
	if !mirrorX && !mirrorY {
		bld.shapeErrorf("Symmetry needs at least one mirror axis")
	}
	return &symmetry{n: n, x: mirrorX, y: mirrorY}
}

func (s *symmetry) mirror(p ms2.Vec) ms2.Vec {
	if s.x {
		p.X = math32.Abs(p.X)
	}
	if s.y {
		p.Y = math32.Abs(p.Y)
	}
	return p
}

func (s *symmetry) Eval(p ms2.Vec) SceneNode {
	return s.n.Eval(s.mirror(p))
}

func (s *symmetry) Bounds() ms2.Box {
	bb := s.n.Bounds()
	if s.x {
		bb.Max.X = maxf(absf(bb.Min.X), absf(bb.Max.X))
		bb.Min.X = -bb.Max.X
	}
	if s.y {
		bb.Max.Y = maxf(absf(bb.Min.Y), absf(bb.Max.Y))
		bb.Min.Y = -bb.Max.Y
	}
	return bb
}
