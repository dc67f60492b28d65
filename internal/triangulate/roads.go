package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
)

func shouldTriangulateRoads(ctx *Context) bool {
	return ctx.Center.HasRoads() && !ctx.Center.IsWater()
}

// triangulateRoads draws the road network of Center: a segment from the
// centre to every edge a road crosses, a patch joining the segments in the
// middle, and the road across owned connections. U is 1 on the centreline
// and 0 at the road sides.
func (p *pass) triangulateRoads(ctx *Context) {
	c := ctx.Center
	l := p.layer(mesh.LayerRoads)
	tags := ctx.CenterCells()
	center := p.jitter(ctx.CenterPos, c)
	e := p.jitterEdge(ctx.CenterToRight, c)

	x, y := p.roadInterpolators(ctx)
	mL := metrics.Lerp(center, e.V1, x)
	mR := metrics.Lerp(center, e.V5, y)

	if ctx.HasRoadToRight() {
		mC := metrics.Lerp(mL, mR, 0.5)
		roadSegment(l, tags,
			mL, mC, mR, mesh.Weights1,
			e.V2, e.V3, e.V4, mesh.Weights1)
		l.AddTriangle(
			vertUV(center, mesh.Weights1, tags, 1, 0),
			vertUV(mL, mesh.Weights1, tags, 0, 0),
			vertUV(mC, mesh.Weights1, tags, 1, 0),
		)
		l.AddTriangle(
			vertUV(center, mesh.Weights1, tags, 1, 0),
			vertUV(mC, mesh.Weights1, tags, 1, 0),
			vertUV(mR, mesh.Weights1, tags, 0, 0),
		)
	} else {
		l.AddTriangle(
			vertUV(center, mesh.Weights1, tags, 1, 0),
			vertUV(mL, mesh.Weights1, tags, 0, 0),
			vertUV(mR, mesh.Weights1, tags, 0, 0),
		)
	}

	if ctx.OwnsEdge() && ctx.HasRoadToRight() {
		p.roadEdge(ctx)
	}
}

// roadInterpolators widens the centre patch toward neighbouring road edges
// so segments in adjacent directions join without a notch.
func (p *pass) roadInterpolators(ctx *Context) (x, y float64) {
	c, d := ctx.Center, ctx.Dir
	if c.HasRoadThroughEdge(d) {
		return 0.5, 0.5
	}
	x, y = 0.25, 0.25
	if c.HasRoadThroughEdge(d.Previous()) {
		x = 0.5
	}
	if c.HasRoadThroughEdge(d.Next()) {
		y = 0.5
	}
	return x, y
}

// roadEdge carries the road across the connection to Right.
func (p *pass) roadEdge(ctx *Context) {
	l := p.layer(mesh.LayerRoads)
	tags := ctx.EdgeCells()

	switch ctx.RightType {
	case EdgeFlat:
		near := p.jitterEdge(ctx.CenterToRight, ctx.Center)
		far := p.jitterEdge(ctx.RightToCenter, ctx.Right)
		roadSegment(l, tags,
			near.V2, near.V3, near.V4, mesh.Weights1,
			far.V2, far.V3, far.V4, mesh.Weights2)
	case EdgeSlope:
		rows := p.terraceRows(ctx.CenterToRight, ctx.Center, ctx.RightToCenter, ctx.Right)
		for i := 1; i < len(rows); i++ {
			w1 := p.terraceWeights(mesh.Weights1, mesh.Weights2, i-1)
			w2 := p.terraceWeights(mesh.Weights1, mesh.Weights2, i)
			a, b := rows[i-1], rows[i]
			roadSegment(l, tags,
				a.V2, a.V3, a.V4, w1,
				b.V2, b.V3, b.V4, w2)
		}
	default:
		p.skip("road across impassable edge", "cell", ctx.Center, "dir", ctx.Dir, "edge", ctx.RightType)
	}
}

// roadSegment emits the two quads of a road piece from the near triple to
// the far triple; the middle vertices carry the centreline.
func roadSegment(l *mesh.Layer, tags mesh.CellIndices,
	n1, n2, n3 r3.Vector, wn mesh.Weights,
	f1, f2, f3 r3.Vector, wf mesh.Weights,
) {
	l.AddQuad(
		vertUV(n1, wn, tags, 0, 0), vertUV(n2, wn, tags, 1, 0),
		vertUV(f1, wf, tags, 0, 1), vertUV(f2, wf, tags, 1, 1),
	)
	l.AddQuad(
		vertUV(n2, wn, tags, 1, 0), vertUV(n3, wn, tags, 0, 0),
		vertUV(f2, wf, tags, 1, 1), vertUV(f3, wf, tags, 0, 1),
	)
}
