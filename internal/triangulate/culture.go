package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

func shouldTriangulateCulture(ctx *Context) bool {
	return ctx.Center.Owner != 0 && !ctx.Center.IsWater()
}

func isBorder(c, n *world.Cell) bool {
	return n != nil && n.Owner != c.Owner
}

// triangulateCulture draws the territory border band of Center along the
// edge to Right. The band fades in from an inner line, covers the solid
// edge and runs on to the middle of the connection, stopping at a terrace
// middle or a river trough.
func (p *pass) triangulateCulture(ctx *Context) {
	c := ctx.Center
	rightBorder := isBorder(c, ctx.Right)
	if !rightBorder {
		return
	}
	l := p.layer(mesh.LayerCulture)
	tags := ctx.CenterCells()

	inner := ctx.CenterToRight.Map(func(v r3.Vector) r3.Vector {
		return metrics.Lerp(ctx.CenterPos, v, 1-p.cfg.BorderWidth)
	})
	rows := p.halfConnection(ctx.CenterToRight, c, ctx.RightToCenter, ctx.TroughRight, ctx.RightType, 0.5)
	edgeStripUV(l, p.jitterEdge(inner, c), mesh.Weights1, 0, rows[0], mesh.Weights1, 1, tags)
	for i := 1; i < len(rows); i++ {
		edgeStripUV(l, rows[i-1], mesh.Weights1, 1, rows[i], mesh.Weights1, 1, tags)
	}

	// Close the gap at corner d when the left edge is a border too.
	if len(rows) < 2 || !isBorder(c, ctx.Left) {
		return
	}
	left := p.halfConnection(ctx.CenterToLeft, c, ctx.LeftToCenter, ctx.TroughLeft, ctx.LeftType, 0.5)
	if len(left) < 2 {
		return
	}
	l.AddTriangle(
		vertUV(rows[0].V1, mesh.Weights1, tags, 0, 1),
		vertUV(left[len(left)-1].V5, mesh.Weights1, tags, 0, 1),
		vertUV(rows[len(rows)-1].V1, mesh.Weights1, tags, 0, 1),
	)
}

// halfConnection returns the perturbed rows from Center's solid edge to the
// middle of its connection: reach of the way across a flat or cliff edge,
// the terrace middle of a slope or the trough of a river. The first row is
// the solid edge. Void edges return only that row.
func (p *pass) halfConnection(near metrics.EdgeVertices, c *world.Cell, far, trough metrics.EdgeVertices, typ EdgeType, reach float64) []metrics.EdgeVertices {
	first := p.jitterEdge(near, c)
	switch typ {
	case EdgeFlat, EdgeCliff:
		return []metrics.EdgeVertices{first, p.jitterEdge(metrics.LerpEdges(near, far, reach), nil)}
	case EdgeSlope:
		return p.terracesToMiddle(near, c, far)
	case EdgeRiver:
		return []metrics.EdgeVertices{first, p.jitterEdge(trough, nil)}
	}
	return []metrics.EdgeVertices{first}
}
