package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
)

// cornerHandler draws a dry terrain corner whose view starts at the lowest
// cell: cells[0] is the bottom, cells[1] the left and cells[2] the right.
type cornerHandler struct {
	kind CornerCase
	fn   func(p *pass, v CornerView)
}

// cornerKey indexes the corner table: the bottom-left, bottom-right and
// left-right edge types (Flat, Slope or Cliff) and whether left is lower.
type cornerKey struct {
	left, right, across EdgeType
	leftLower           bool
}

var cornerTable = buildCornerTable()

func buildCornerTable() map[cornerKey]cornerHandler {
	types := []EdgeType{EdgeFlat, EdgeSlope, EdgeCliff}
	table := make(map[cornerKey]cornerHandler, 54)
	for _, left := range types {
		for _, right := range types {
			for _, across := range types {
				for _, leftLower := range []bool{false, true} {
					k := cornerKey{left, right, across, leftLower}
					table[k] = cornerRule(k)
				}
			}
		}
	}
	return table
}

// cornerRule assigns a handler to one combination of edge types.
func cornerRule(k cornerKey) cornerHandler {
	switch {
	case k.left == EdgeSlope && k.right == EdgeSlope:
		return cornerHandler{CaseTerraces, (*pass).cornerTerraces}
	case k.left == EdgeSlope && k.right == EdgeFlat:
		return cornerHandler{CaseTerraces, func(p *pass, v CornerView) { p.cornerTerraces(v.rotate(1)) }}
	case k.left == EdgeSlope:
		return cornerHandler{CaseTerracesCliff, (*pass).cornerTerracesCliff}
	case k.right == EdgeSlope && k.left == EdgeFlat:
		return cornerHandler{CaseTerraces, func(p *pass, v CornerView) { p.cornerTerraces(v.rotate(2)) }}
	case k.right == EdgeSlope:
		return cornerHandler{CaseCliffTerraces, (*pass).cornerCliffTerraces}
	case k.across == EdgeSlope && k.leftLower:
		return cornerHandler{CaseCliffTerraces, func(p *pass, v CornerView) { p.cornerCliffTerraces(v.rotate(2)) }}
	case k.across == EdgeSlope:
		return cornerHandler{CaseTerracesCliff, func(p *pass, v CornerView) { p.cornerTerracesCliff(v.rotate(1)) }}
	default:
		return cornerHandler{CasePlain, (*pass).cornerPlain}
	}
}

// lookupCorner finds the handler for a view rotated to its lowest cell.
// Void and river edges never reach the table; they fall back to a plain
// triangle.
func lookupCorner(v CornerView) cornerHandler {
	k := cornerKey{
		left:      v.edges[0].typ,
		right:     v.edges[2].typ,
		across:    v.edges[1].typ,
		leftLower: v.cells[1].cell.EdgeElevation() < v.cells[2].cell.EdgeElevation(),
	}
	if h, ok := cornerTable[k]; ok {
		return h
	}
	return cornerHandler{CasePlain, (*pass).cornerPlain}
}

func (p *pass) cornerPlain(v CornerView) {
	l := p.layer(mesh.LayerTerrain)
	b, lf, r := v.cells[0], v.cells[1], v.cells[2]
	l.AddTriangle(
		vert(p.jitter(b.pos, b.cell), b.w, v.tags),
		vert(p.jitter(lf.pos, lf.cell), lf.w, v.tags),
		vert(p.jitter(r.pos, r.cell), r.w, v.tags),
	)
}

// cornerTerraces runs the terrace stairs from the first cell up both sides
// to the other two, which sit on the same level.
func (p *pass) cornerTerraces(v CornerView) {
	l := p.layer(mesh.LayerTerrain)
	b, lf, r := v.cells[0], v.cells[1], v.cells[2]
	steps := p.cfg.TerraceSteps()

	v1 := vert(p.jitter(b.pos, b.cell), b.w, v.tags)
	v2 := v1
	for i := 1; i <= steps; i++ {
		var v3, v4 mesh.Vertex
		if i == steps {
			v3 = vert(p.jitter(lf.pos, lf.cell), lf.w, v.tags)
			v4 = vert(p.jitter(r.pos, r.cell), r.w, v.tags)
		} else {
			v3 = vert(p.jitter(p.cfg.TerraceLerp(b.pos, lf.pos, i), nil), p.terraceWeights(b.w, lf.w, i), v.tags)
			v4 = vert(p.jitter(p.cfg.TerraceLerp(b.pos, r.pos, i), nil), p.terraceWeights(b.w, r.w, i), v.tags)
		}
		if i == 1 {
			l.AddTriangle(v1, v3, v4)
		} else {
			l.AddQuad(v1, v2, v3, v4)
		}
		v1, v2 = v3, v4
	}
}

// cornerTerracesCliff handles a slope towards the left and a cliff towards
// the right. The stairs collapse onto a boundary point on the cliff edge at
// the height of one elevation step.
func (p *pass) cornerTerracesCliff(v CornerView) {
	b, lf, r := v.cells[0], v.cells[1], v.cells[2]
	t := boundaryFactor(b.cell.EdgeElevation(), r.cell.EdgeElevation())
	boundary := metrics.Lerp(p.jitter(b.pos, b.cell), p.jitter(r.pos, r.cell), t)
	bw := mesh.LerpWeights(b.w, r.w, t)

	p.cornerBoundaryTriangle(v.tags, b, lf, boundary, bw)
	if v.edges[1].typ == EdgeSlope {
		p.cornerBoundaryTriangle(v.tags, lf, r, boundary, bw)
	} else {
		p.layer(mesh.LayerTerrain).AddTriangle(
			vert(p.jitter(lf.pos, lf.cell), lf.w, v.tags),
			vert(p.jitter(r.pos, r.cell), r.w, v.tags),
			vert(boundary, bw, v.tags),
		)
	}
}

// cornerCliffTerraces mirrors cornerTerracesCliff: cliff towards the left,
// slope towards the right.
func (p *pass) cornerCliffTerraces(v CornerView) {
	b, lf, r := v.cells[0], v.cells[1], v.cells[2]
	t := boundaryFactor(b.cell.EdgeElevation(), lf.cell.EdgeElevation())
	boundary := metrics.Lerp(p.jitter(b.pos, b.cell), p.jitter(lf.pos, lf.cell), t)
	bw := mesh.LerpWeights(b.w, lf.w, t)

	p.cornerBoundaryTriangle(v.tags, r, b, boundary, bw)
	if v.edges[1].typ == EdgeSlope {
		p.cornerBoundaryTriangle(v.tags, lf, r, boundary, bw)
	} else {
		p.layer(mesh.LayerTerrain).AddTriangle(
			vert(p.jitter(lf.pos, lf.cell), lf.w, v.tags),
			vert(p.jitter(r.pos, r.cell), r.w, v.tags),
			vert(boundary, bw, v.tags),
		)
	}
}

// cornerBoundaryTriangle fans the terrace stairs from begin to left onto a
// single boundary point.
func (p *pass) cornerBoundaryTriangle(tags mesh.CellIndices, begin, left cornerCell, boundary r3.Vector, bw mesh.Weights) {
	l := p.layer(mesh.LayerTerrain)
	steps := p.cfg.TerraceSteps()
	bv := vert(boundary, bw, tags)

	prev := vert(p.jitter(begin.pos, begin.cell), begin.w, tags)
	for i := 1; i <= steps; i++ {
		var next mesh.Vertex
		if i == steps {
			next = vert(p.jitter(left.pos, left.cell), left.w, tags)
		} else {
			next = vert(p.jitter(p.cfg.TerraceLerp(begin.pos, left.pos, i), nil), p.terraceWeights(begin.w, left.w, i), tags)
		}
		l.AddTriangle(prev, next, bv)
		prev = next
	}
}

// boundaryFactor places the boundary one level above the lower cell along a
// cliff of any height.
func boundaryFactor(low, high int) float64 {
	diff := high - low
	if diff < 0 {
		diff = -diff
	}
	return 1 / float64(max(diff, 1))
}
