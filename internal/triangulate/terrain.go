package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

// triangulateTerrain draws the ground: the centre fan for every direction,
// the connection for owned edges and the triangle for owned corners.
func (p *pass) triangulateTerrain(ctx *Context) {
	p.terrainCenter(ctx)
	if ctx.OwnsEdge() {
		p.terrainEdge(ctx)
	}
	if ctx.OwnsCorner() {
		if ctx.Corner.riverCount() > 0 {
			p.riverCorner(ctx.Corner)
		} else {
			p.terrainCorner(ctx.Corner)
		}
	}
}

// terrainCenter fans from the peak to the solid edge. Hills get an inner ring
// first so their vertical jitter cannot pull a fan triangle below the slope.
func (p *pass) terrainCenter(ctx *Context) {
	l := p.layer(mesh.LayerTerrain)
	c := ctx.Center
	tags := ctx.CenterCells()
	center := p.jitter(ctx.CenterPos, c)
	edge := p.jitterEdge(ctx.CenterToRight, c)

	if c.Shape != world.ShapeHills {
		edgeFan(l, center, edge, mesh.Weights1, tags)
		return
	}
	inner := ctx.CenterToRight.Map(func(v r3.Vector) r3.Vector {
		return metrics.Lerp(ctx.CenterPos, v, p.cfg.HillInnerFactor)
	})
	inner = p.jitterEdge(inner, c)
	edgeFan(l, center, inner, mesh.Weights1, tags)
	edgeStrip(l, inner, mesh.Weights1, edge, mesh.Weights1, tags)
}

// terrainEdge draws the connection between Center and Right.
func (p *pass) terrainEdge(ctx *Context) {
	l := p.layer(mesh.LayerTerrain)
	c, r := ctx.Center, ctx.Right
	tags := ctx.EdgeCells()

	switch ctx.RightType {
	case EdgeFlat, EdgeCliff:
		edgeStrip(l,
			p.jitterEdge(ctx.CenterToRight, c), mesh.Weights1,
			p.jitterEdge(ctx.RightToCenter, r), mesh.Weights2,
			tags)
	case EdgeSlope:
		rows := p.terraceRows(ctx.CenterToRight, c, ctx.RightToCenter, r)
		for i := 1; i < len(rows); i++ {
			edgeStrip(l,
				rows[i-1], p.terraceWeights(mesh.Weights1, mesh.Weights2, i-1),
				rows[i], p.terraceWeights(mesh.Weights1, mesh.Weights2, i),
				tags)
		}
	case EdgeRiver:
		p.riverTrough(ctx)
	}
}

// terraceRows returns the perturbed edge rows of a terraced slope, from begin
// (row 0) to end (row TerraceSteps). Intermediate rows belong to neither cell
// and get no vertical jitter.
func (p *pass) terraceRows(begin metrics.EdgeVertices, bc *world.Cell, end metrics.EdgeVertices, ec *world.Cell) []metrics.EdgeVertices {
	steps := p.cfg.TerraceSteps()
	rows := make([]metrics.EdgeVertices, 0, steps+1)
	rows = append(rows, p.jitterEdge(begin, bc))
	for i := 1; i < steps; i++ {
		rows = append(rows, p.jitterEdge(p.cfg.TerraceLerpEdge(begin, end, i), nil))
	}
	return append(rows, p.jitterEdge(end, ec))
}

// terracesToMiddle returns the rows of a terraced slope from begin up to the
// middle of the central riser. Overlays use it to stop halfway across.
func (p *pass) terracesToMiddle(begin metrics.EdgeVertices, bc *world.Cell, end metrics.EdgeVertices) []metrics.EdgeVertices {
	half := p.cfg.TerraceSteps() / 2
	rows := []metrics.EdgeVertices{p.jitterEdge(begin, bc)}
	for i := 1; i <= half; i++ {
		rows = append(rows, p.jitterEdge(p.cfg.TerraceLerpEdge(begin, end, i), nil))
	}
	mid := metrics.LerpEdges(
		p.cfg.TerraceLerpEdge(begin, end, half),
		p.cfg.TerraceLerpEdge(begin, end, half+1),
		0.5,
	)
	return append(rows, p.jitterEdge(mid, nil))
}

func (p *pass) terraceWeights(a, b mesh.Weights, step int) mesh.Weights {
	return mesh.LerpWeights(a, b, p.cfg.TerraceFactor(step))
}

// terrainCorner rotates the corner so its lowest cell comes first and
// dispatches on the edge types seen from there.
func (p *pass) terrainCorner(v CornerView) {
	v = v.rotate(lowestRotation(v))
	h := lookupCorner(v)
	p.count(h.kind)
	h.fn(p, v)
}

// lowestRotation picks the rotation that puts the lowest cell first. Ties
// keep the earlier cell so every corner has one canonical orientation.
func lowestRotation(v CornerView) int {
	c := v.cells[0].cell.EdgeElevation()
	l := v.cells[1].cell.EdgeElevation()
	r := v.cells[2].cell.EdgeElevation()
	switch {
	case c <= l && c <= r:
		return 0
	case c <= l:
		return 2
	case l <= r:
		return 1
	default:
		return 2
	}
}

// edgeFan emits the four triangles from center to an edge.
func edgeFan(l *mesh.Layer, center r3.Vector, e metrics.EdgeVertices, w mesh.Weights, tags mesh.CellIndices) {
	pts := e.Points()
	c := vert(center, w, tags)
	for i := 0; i < 4; i++ {
		l.AddTriangle(c, vert(pts[i], w, tags), vert(pts[i+1], w, tags))
	}
}

// edgeStrip emits the four quads between two aligned edges.
func edgeStrip(l *mesh.Layer, e1 metrics.EdgeVertices, w1 mesh.Weights, e2 metrics.EdgeVertices, w2 mesh.Weights, tags mesh.CellIndices) {
	a, b := e1.Points(), e2.Points()
	for i := 0; i < 4; i++ {
		l.AddQuad(
			vert(a[i], w1, tags), vert(a[i+1], w1, tags),
			vert(b[i], w2, tags), vert(b[i+1], w2, tags),
		)
	}
}

// edgeStripUV is edgeStrip with a texture V per side.
func edgeStripUV(l *mesh.Layer, e1 metrics.EdgeVertices, w1 mesh.Weights, v1 float64, e2 metrics.EdgeVertices, w2 mesh.Weights, v2 float64, tags mesh.CellIndices) {
	a, b := e1.Points(), e2.Points()
	for i := 0; i < 4; i++ {
		l.AddQuad(
			vertUV(a[i], w1, tags, 0, v1), vertUV(a[i+1], w1, tags, 0, v1),
			vertUV(b[i], w2, tags, 0, v2), vertUV(b[i+1], w2, tags, 0, v2),
		)
	}
}

// edgeFanUV is edgeFan with one texture V for every vertex.
func edgeFanUV(l *mesh.Layer, center r3.Vector, e metrics.EdgeVertices, w mesh.Weights, tags mesh.CellIndices, v float64) {
	pts := e.Points()
	c := vertUV(center, w, tags, 0, v)
	for i := 0; i < 4; i++ {
		l.AddTriangle(c, vertUV(pts[i], w, tags, 0, v), vertUV(pts[i+1], w, tags, 0, v))
	}
}
