package lux

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux/luxeval"
)

// minReduce takes element-wise minimum of arguments and stores to first argument.
func minReduce(d1AndDst, d2 []float32) {
	for i := range d1AndDst {
		d1AndDst[i] = math32.Min(d1AndDst[i], d2[i])
	}
}

// batchShape is implemented by primitives with a vectorized distance function.
type batchShape interface {
	evaluate(pos []ms2.Vec, dist []float32)
}

func (c *circle) evaluate(pos []ms2.Vec, dist []float32) {
	center, r := c.c, c.r
	for i, p := range pos {
		dist[i] = ms2.Norm(ms2.Sub(p, center)) - r
	}
}

func (h *halfPlane) evaluate(pos []ms2.Vec, dist []float32) {
	for i, p := range pos {
		dist[i] = ms2.Dot(ms2.Sub(p, h.p), h.n)
	}
}

func (s *segment) evaluate(pos []ms2.Vec, dist []float32) {
	for i, p := range pos {
		dist[i] = s.Distance(p)
	}
}

func (c *capsule) evaluate(pos []ms2.Vec, dist []float32) {
	r := c.r
	for i, p := range pos {
		dist[i] = c.seg.Distance(p) - r
	}
}

func (b *box) evaluate(pos []ms2.Vec, dist []float32) {
	sin, cos := b.sin, b.cos
	for i, p := range pos {
		v := ms2.Sub(p, b.c)
		local := ms2.Vec{X: v.X*cos + v.Y*sin, Y: v.Y*cos - v.X*sin}
		d := ms2.Sub(ms2.AbsElem(local), b.half)
		dist[i] = minf(maxf(d.X, d.Y), 0) + ms2.Norm(ms2.MaxElem(d, ms2.Vec{}))
	}
}

func (t *triangle) evaluate(pos []ms2.Vec, dist []float32) {
	for i, p := range pos {
		dist[i] = t.Distance(p)
	}
}

func (g *ngon) evaluate(pos []ms2.Vec, dist []float32) {
	for i, p := range pos {
		dist[i] = g.Distance(p)
	}
}

func (poly *polygon) evaluate(pos []ms2.Vec, dist []float32) {
	for i, p := range pos {
		dist[i] = poly.Distance(p)
	}
}

func (o *object) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if err := luxeval.CheckBuffers(pos, dist); err != nil {
		return err
	}
	if bs, ok := o.shape.(batchShape); ok {
		bs.evaluate(pos, dist)
		return nil
	}
	for i, p := range pos {
		dist[i] = o.shape.Distance(p)
	}
	return nil
}

func (u *union) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := luxeval.GetVecPool(userData)
	if err != nil {
		return err
	}
	auxDist := vp.Float.Acquire(len(dist))
	defer vp.Float.Release(auxDist)
	err = u.joined[0].Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	for _, n := range u.joined[1:] {
		err = n.Evaluate(pos, auxDist, userData)
		if err != nil {
			return err
		}
		minReduce(dist, auxDist)
	}
	return nil
}

func (i *intersection) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := luxeval.GetVecPool(userData)
	if err != nil {
		return err
	}
	d2 := vp.Float.Acquire(len(dist))
	defer vp.Float.Release(d2)
	err = i.a.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	err = i.b.Evaluate(pos, d2, userData)
	if err != nil {
		return err
	}
	for j := range dist {
		dist[j] = maxf(dist[j], d2[j])
	}
	return nil
}

func (s *subtraction) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := luxeval.GetVecPool(userData)
	if err != nil {
		return err
	}
	d2 := vp.Float.Acquire(len(dist))
	defer vp.Float.Release(d2)
	err = s.a.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	err = s.b.Evaluate(pos, d2, userData)
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] = maxf(dist[i], -d2[i])
	}
	return nil
}

func (t *translate) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := luxeval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V2.Acquire(len(pos))
	defer vp.V2.Release(transformed)
	for i, p := range pos {
		transformed[i] = ms2.Sub(p, t.d)
	}
	return t.n.Evaluate(transformed, dist, userData)
}

func (r *rotate) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := luxeval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V2.Acquire(len(pos))
	defer vp.V2.Release(transformed)
	for i, p := range pos {
		transformed[i] = ms2.MulMatVec(r.inv, p)
	}
	return r.n.Evaluate(transformed, dist, userData)
}

func (o *offset) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	err := o.n.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] -= o.r
	}
	return nil
}

func (s *symmetry) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	vp, err := luxeval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V2.Acquire(len(pos))
	defer vp.V2.Release(transformed)
	for i, p := range pos {
		transformed[i] = s.mirror(p)
	}
	return s.n.Evaluate(transformed, dist, userData)
}

func (empty) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if err := luxeval.CheckBuffers(pos, dist); err != nil {
		return err
	}
	for i := range dist {
		dist[i] = largenum
	}
	return nil
}
