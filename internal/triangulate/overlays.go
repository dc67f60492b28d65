package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

func isMarsh(c *world.Cell) bool {
	return c != nil && c.Vegetation == world.VegetationMarsh
}

func shouldTriangulateMarsh(ctx *Context) bool {
	return isMarsh(ctx.Center)
}

// triangulateMarsh covers the cell with marsh. Flat connections to another
// marsh are filled by the edge owner; every other flat or sloped connection
// gets a half strip fading out toward the neighbour.
func (p *pass) triangulateMarsh(ctx *Context) {
	l := p.layer(mesh.LayerMarsh)
	c := ctx.Center
	tags := ctx.CenterCells()
	edge := p.jitterEdge(ctx.CenterToRight, c)
	edgeFanUV(l, p.jitter(ctx.CenterPos, c), edge, mesh.Weights1, tags, 1)

	switch {
	case ctx.Right == nil || ctx.Right.IsWater():
	case isMarsh(ctx.Right) && ctx.RightType == EdgeFlat:
		if ctx.OwnsEdge() {
			edgeStripUV(l, edge, mesh.Weights1, 1,
				p.jitterEdge(ctx.RightToCenter, ctx.Right), mesh.Weights2, 1,
				ctx.EdgeCells())
		}
	case ctx.RightType == EdgeFlat || ctx.RightType == EdgeSlope:
		p.fadeRows(l, p.halfConnection(ctx.CenterToRight, c, ctx.RightToCenter, ctx.TroughRight, ctx.RightType, 0.5), tags)
	}

	if ctx.OwnsCorner() && isMarsh(ctx.Left) && isMarsh(ctx.Right) &&
		ctx.LeftType == EdgeFlat && ctx.RightType == EdgeFlat && ctx.AcrossType == EdgeFlat {
		v := ctx.Corner
		l.AddTriangle(
			vertUV(p.jitter(v.cells[0].pos, v.cells[0].cell), v.cells[0].w, v.tags, 0, 1),
			vertUV(p.jitter(v.cells[1].pos, v.cells[1].cell), v.cells[1].w, v.tags, 0, 1),
			vertUV(p.jitter(v.cells[2].pos, v.cells[2].cell), v.cells[2].w, v.tags, 0, 1),
		)
	}
}

// fadeRows emits strips between consecutive rows with V falling linearly
// from 1 on the first row to 0 on the last.
func (p *pass) fadeRows(l *mesh.Layer, rows []metrics.EdgeVertices, tags mesh.CellIndices) {
	n := float64(len(rows) - 1)
	for i := 1; i < len(rows); i++ {
		edgeStripUV(l,
			rows[i-1], mesh.Weights1, 1-float64(i-1)/n,
			rows[i], mesh.Weights1, 1-float64(i)/n,
			tags)
	}
}

func shouldTriangulateFloodPlains(ctx *Context) bool {
	return ctx.Center.Vegetation == world.VegetationFloodPlains && !ctx.Center.IsWater()
}

// triangulateFloodPlains covers the cell and spreads toward its
// connections: down into a river trough at full strength, partway across a
// flat edge and to the terrace middle of a slope, fading out.
func (p *pass) triangulateFloodPlains(ctx *Context) {
	l := p.layer(mesh.LayerFloodPlains)
	c := ctx.Center
	tags := ctx.CenterCells()
	edgeFanUV(l, p.jitter(ctx.CenterPos, c), p.jitterEdge(ctx.CenterToRight, c), mesh.Weights1, tags, 1)

	if ctx.Right == nil || ctx.Right.IsWater() {
		return
	}
	rows := p.halfConnection(ctx.CenterToRight, c, ctx.RightToCenter, ctx.TroughRight, ctx.RightType, p.cfg.FloodPlainReach)
	switch ctx.RightType {
	case EdgeRiver:
		edgeStripUV(l, rows[0], mesh.Weights1, 1, rows[1], mesh.Weights1, 1, tags)
	case EdgeFlat, EdgeSlope:
		p.fadeRows(l, rows, tags)
	}
}

func shouldTriangulateOasis(ctx *Context) bool {
	return ctx.Center.Feature == world.FeatureOasis && !ctx.Center.IsWater()
}

// triangulateOasis draws one sixth of the oasis: an opaque pool around the
// centre and a ring fading out to twice its radius.
func (p *pass) triangulateOasis(ctx *Context) {
	l := p.layer(mesh.LayerOasis)
	c := ctx.Center
	tags := ctx.CenterCells()
	r := p.cfg.OasisRadius
	outer := min(2*r, 0.95)

	scaled := func(t float64) metrics.EdgeVertices {
		return p.jitterEdge(ctx.CenterToRight.Map(func(v r3.Vector) r3.Vector {
			return metrics.Lerp(ctx.CenterPos, v, t)
		}), c)
	}
	pool, ring := scaled(r), scaled(outer)
	edgeFanUV(l, p.jitter(ctx.CenterPos, c), pool, mesh.Weights1, tags, 1)
	edgeStripUV(l, pool, mesh.Weights1, 1, ring, mesh.Weights1, 0, tags)
}
