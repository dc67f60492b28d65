package metrics

import "github.com/golang/geo/r3"

// EdgeVertices samples one hex edge with five vertices, V1 at the first
// corner and V5 at the second.
type EdgeVertices struct {
	V1, V2, V3, V4, V5 r3.Vector
}

// NewEdgeVertices splits the segment c1-c2 into quarters.
func NewEdgeVertices(c1, c2 r3.Vector) EdgeVertices {
	return NewEdgeVerticesStep(c1, c2, 0.25)
}

// NewEdgeVerticesStep places V2 and V4 outerStep away from the corners, so
// outerStep 1/3 leaves a central band of one third between V2 and V4.
func NewEdgeVerticesStep(c1, c2 r3.Vector, outerStep float64) EdgeVertices {
	return EdgeVertices{
		V1: c1,
		V2: Lerp(c1, c2, outerStep),
		V3: Lerp(c1, c2, 0.5),
		V4: Lerp(c1, c2, 1-outerStep),
		V5: c2,
	}
}

// Points returns the vertices in order.
func (e EdgeVertices) Points() [5]r3.Vector {
	return [5]r3.Vector{e.V1, e.V2, e.V3, e.V4, e.V5}
}

// EdgeFromPoints is the inverse of Points.
func EdgeFromPoints(p [5]r3.Vector) EdgeVertices {
	return EdgeVertices{V1: p[0], V2: p[1], V3: p[2], V4: p[3], V5: p[4]}
}

// Map applies f to every vertex.
func (e EdgeVertices) Map(f func(r3.Vector) r3.Vector) EdgeVertices {
	return EdgeVertices{V1: f(e.V1), V2: f(e.V2), V3: f(e.V3), V4: f(e.V4), V5: f(e.V5)}
}

// Add translates every vertex by off.
func (e EdgeVertices) Add(off r3.Vector) EdgeVertices {
	return e.Map(func(v r3.Vector) r3.Vector { return v.Add(off) })
}

// WithY sets every vertex to height y.
func (e EdgeVertices) WithY(y float64) EdgeVertices {
	return e.Map(func(v r3.Vector) r3.Vector { return WithY(v, y) })
}

// LerpEdges interpolates vertex by vertex between two aligned edges.
func LerpEdges(a, b EdgeVertices, t float64) EdgeVertices {
	return EdgeVertices{
		V1: Lerp(a.V1, b.V1, t),
		V2: Lerp(a.V2, b.V2, t),
		V3: Lerp(a.V3, b.V3, t),
		V4: Lerp(a.V4, b.V4, t),
		V5: Lerp(a.V5, b.V5, t),
	}
}
