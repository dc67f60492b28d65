package metrics

import (
	"math"

	"github.com/golang/geo/r3"
)

// ClosestPointsOnLines returns the closest pair of points on the infinite
// lines p1+s*d1 and p2+t*d2. ok is false for parallel or degenerate lines.
func ClosestPointsOnLines(p1, d1, p2, d2 r3.Vector) (a, b r3.Vector, ok bool) {
	w0 := p1.Sub(p2)
	aa := d1.Dot(d1)
	bb := d1.Dot(d2)
	cc := d2.Dot(d2)
	dd := d1.Dot(w0)
	ee := d2.Dot(w0)
	denom := aa*cc - bb*bb
	if math.Abs(denom) < 1e-9 {
		return p1, p2, false
	}
	s := (bb*ee - cc*dd) / denom
	t := (aa*ee - bb*dd) / denom
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t)), true
}

// FlattenXZ drops the vertical component.
func FlattenXZ(v r3.Vector) r3.Vector {
	return r3.Vector{X: v.X, Z: v.Z}
}
