package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
)

// riverTrough carves the stream bed between Center and Right: one strip
// from each solid edge down into the trough.
func (p *pass) riverTrough(ctx *Context) {
	l := p.layer(mesh.LayerTerrain)
	tags := ctx.EdgeCells()
	trough := p.jitterEdge(ctx.TroughRight, nil)
	tw := mesh.LerpWeights(mesh.Weights1, mesh.Weights2, 0.5)

	edgeStrip(l, p.jitterEdge(ctx.CenterToRight, ctx.Center), mesh.Weights1, trough, tw, tags)
	edgeStrip(l, trough, tw, p.jitterEdge(ctx.RightToCenter, ctx.Right), mesh.Weights2, tags)
}

// riverCorner fills the bed of a corner with at least one river edge.
// The view is rotated so the handler always sees the same arrangement:
//   - three rivers: a confluence, any rotation;
//   - two rivers: the dry edge is edges[1], so cells[0] is the inner cell;
//   - one river: the river is edges[1], so cells[0] is where it ends.
func (p *pass) riverCorner(v CornerView) {
	switch v.riverCount() {
	case 3:
		p.count(CaseConfluence)
		p.confluenceBed(v)
	case 2:
		for r := 0; r < 3; r++ {
			if v.edges[(r+1)%3].typ != EdgeRiver {
				p.curveBed(v.rotate(r))
				return
			}
		}
	case 1:
		for r := 0; r < 3; r++ {
			if v.edges[(r+1)%3].typ == EdgeRiver {
				p.count(CaseEndpoint)
				p.endpointBed(v.rotate(r))
				return
			}
		}
	}
}

// bedPoint is the perturbed trough end of edge i with blended weights.
func (p *pass) bedPoint(v CornerView, i int) mesh.Vertex {
	a, b := v.cells[i], v.cells[(i+1)%3]
	return vert(p.jitter(v.edges[i].bed, nil), mesh.LerpWeights(a.w, b.w, 0.5), v.tags)
}

func (p *pass) cellPoint(v CornerView, i int) mesh.Vertex {
	c := v.cells[i]
	return vert(p.jitter(c.pos, c.cell), c.w, v.tags)
}

// confluenceBed joins each cell's corner to the two trough ends beside it
// and closes the middle with one triangle.
func (p *pass) confluenceBed(v CornerView) {
	l := p.layer(mesh.LayerTerrain)
	x, y, z := p.cellPoint(v, 0), p.cellPoint(v, 1), p.cellPoint(v, 2)
	mxy, myz, mxz := p.bedPoint(v, 0), p.bedPoint(v, 1), p.bedPoint(v, 2)

	l.AddTriangle(x, mxy, mxz)
	l.AddTriangle(y, myz, mxy)
	l.AddTriangle(z, mxz, myz)
	l.AddTriangle(mxy, myz, mxz)
}

// curveBed draws a river turning around the inner cell cells[0]. The inner
// triangle stays inside the bend; the outer side depends on the dry edge.
func (p *pass) curveBed(v CornerView) {
	l := p.layer(mesh.LayerTerrain)
	x := p.cellPoint(v, 0)
	mxy, mxz := p.bedPoint(v, 0), p.bedPoint(v, 2)
	l.AddTriangle(x, mxy, mxz)

	switch v.edges[1].typ {
	case EdgeSlope:
		if v.cells[1].cell.EdgeElevation() < v.cells[2].cell.EdgeElevation() {
			p.count(CaseCurveSlopeUp)
			p.curveSlopeUp(v)
		} else {
			p.count(CaseCurveSlopeDown)
			p.curveSlopeDown(v)
		}
	case EdgeCliff:
		p.count(CaseCurveCliff)
		p.curveOuter(v)
	default:
		p.count(CaseCurveFlat)
		p.curveOuter(v)
	}
}

// curveOuter covers mXY, Y, Z, mXZ with two triangles.
func (p *pass) curveOuter(v CornerView) {
	l := p.layer(mesh.LayerTerrain)
	y, z := p.cellPoint(v, 1), p.cellPoint(v, 2)
	mxy, mxz := p.bedPoint(v, 0), p.bedPoint(v, 2)
	l.AddTriangle(mxy, y, z)
	l.AddTriangle(mxy, z, mxz)
}

// curveSlopeUp handles a terraced outer edge climbing from Y to Z. The stairs
// converge on a point pulled from the lower trough end towards the other.
func (p *pass) curveSlopeUp(v CornerView) {
	k := metrics.Lerp(v.edges[0].bed, v.edges[2].bed, p.cfg.CurveConvergence)
	kw := mesh.LerpWeights(
		mesh.LerpWeights(v.cells[0].w, v.cells[1].w, 0.5),
		mesh.LerpWeights(v.cells[2].w, v.cells[0].w, 0.5),
		p.cfg.CurveConvergence,
	)
	p.curveTerraceFan(v, vert(p.jitter(k, nil), kw, v.tags))
}

// curveSlopeDown mirrors curveSlopeUp for an outer edge descending from Y to Z.
func (p *pass) curveSlopeDown(v CornerView) {
	k := metrics.Lerp(v.edges[2].bed, v.edges[0].bed, p.cfg.CurveConvergence)
	kw := mesh.LerpWeights(
		mesh.LerpWeights(v.cells[2].w, v.cells[0].w, 0.5),
		mesh.LerpWeights(v.cells[0].w, v.cells[1].w, 0.5),
		p.cfg.CurveConvergence,
	)
	p.curveTerraceFan(v, vert(p.jitter(k, nil), kw, v.tags))
}

// curveTerraceFan fans from k over mXY, Y, the terrace stairs, Z and mXZ.
func (p *pass) curveTerraceFan(v CornerView, k mesh.Vertex) {
	l := p.layer(mesh.LayerTerrain)
	y, z := v.cells[1], v.cells[2]
	steps := p.cfg.TerraceSteps()

	ring := make([]mesh.Vertex, 0, steps+3)
	ring = append(ring, p.bedPoint(v, 0), p.cellPoint(v, 1))
	for i := 1; i < steps; i++ {
		ring = append(ring, vert(
			p.jitter(p.cfg.TerraceLerp(y.pos, z.pos, i), nil),
			p.terraceWeights(y.w, z.w, i),
			v.tags,
		))
	}
	ring = append(ring, p.cellPoint(v, 2), p.bedPoint(v, 2))
	for i := 1; i < len(ring); i++ {
		l.AddTriangle(k, ring[i-1], ring[i])
	}
}

// endpointBed draws the bed where the river on edges[1] stops at cells[0].
// The trough runs on to a terminal point Q reaching into cells[0]; each
// flank between cells[0] and a river cell closes onto Q by its own edge type.
func (p *pass) endpointBed(v CornerView) {
	l := p.layer(mesh.LayerTerrain)
	q := p.endpointQ(v)
	m := p.bedPoint(v, 1)

	flankFor(v.edges[0].typ)(p, v, q, 0, 1)
	l.AddTriangle(q, p.cellPoint(v, 1), m)
	l.AddTriangle(q, m, p.cellPoint(v, 2))
	flankFor(v.edges[2].typ)(p, v, q, 2, 0)
}

// endpointQ is the terminal point of a dead-end trough at bed height.
func (p *pass) endpointQ(v CornerView) mesh.Vertex {
	m := v.edges[1].bed
	pos := metrics.WithY(metrics.LerpXZ(m, v.cells[0].pos, p.cfg.EndpointReach), m.Y)
	w := mesh.LerpWeights(mesh.LerpWeights(v.cells[1].w, v.cells[2].w, 0.5), v.cells[0].w, p.cfg.EndpointReach)
	return vert(p.jitter(pos, nil), w, v.tags)
}

// flankHandler closes the flank from cells[from] to cells[to] onto q.
type flankHandler func(p *pass, v CornerView, q mesh.Vertex, from, to int)

// flankTable holds one handler per flank edge type; the two flanks of an
// endpoint are independent, so any pairing of flat, slope and cliff works.
var flankTable = map[EdgeType]flankHandler{
	EdgeFlat:  (*pass).flankStraight,
	EdgeCliff: (*pass).flankStraight,
	EdgeSlope: (*pass).flankTerraces,
}

func flankFor(t EdgeType) flankHandler {
	if h, ok := flankTable[t]; ok {
		return h
	}
	return (*pass).flankStraight
}

func (p *pass) flankStraight(v CornerView, q mesh.Vertex, from, to int) {
	p.layer(mesh.LayerTerrain).AddTriangle(q, p.cellPoint(v, from), p.cellPoint(v, to))
}

// flankTerraces converges the terrace stairs of a sloped flank onto q.
func (p *pass) flankTerraces(v CornerView, q mesh.Vertex, from, to int) {
	l := p.layer(mesh.LayerTerrain)
	a, b := v.cells[from], v.cells[to]
	steps := p.cfg.TerraceSteps()

	prev := p.cellPoint(v, from)
	for i := 1; i <= steps; i++ {
		var next mesh.Vertex
		if i == steps {
			next = p.cellPoint(v, to)
		} else {
			next = vert(p.jitter(p.cfg.TerraceLerp(a.pos, b.pos, i), nil), p.terraceWeights(a.w, b.w, i), v.tags)
		}
		l.AddTriangle(q, prev, next)
		prev = next
	}
}

// flatten returns the horizontal unit direction of v, or zero.
func flatten(v r3.Vector) r3.Vector {
	f := metrics.FlattenXZ(v)
	if f.Norm() == 0 {
		return f
	}
	return f.Normalize()
}
