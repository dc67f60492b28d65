package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

// Texture V along a river: edges run from riverVStart (upstream) to
// riverVEnd; corners continue to riverVEnd+0.2, which wraps to the next
// edge's start.
const (
	riverVStart = 0.1
	riverVEnd   = 0.9
)

// UV3 markers of river surface vertices.
var (
	uv3Edge      = mesh.UV{}
	uv3Corner    = mesh.UV{U: 1}
	uv3Waterfall = mesh.UV{V: 1}
)

// triangulateRiverSurface draws the flowing water over owned river edges and
// river corners.
func (p *pass) triangulateRiverSurface(ctx *Context) {
	if ctx.OwnsEdge() && ctx.RightType == EdgeRiver {
		p.riverEdgeSurface(ctx)
	}
	if ctx.OwnsCorner() {
		switch ctx.Corner.riverCount() {
		case 3:
			p.confluenceSurface(ctx.Corner)
		case 2:
			p.curveSurface(ctx.Corner)
		case 1:
			p.endpointSurface(ctx.Corner)
		}
	}
}

func riverVertex(pos r3.Vector, w mesh.Weights, tags mesh.CellIndices, u, v float64, flow r3.Vector, uv3 mesh.UV) mesh.Vertex {
	return mesh.Vertex{
		Position: pos,
		Weights:  w,
		Cells:    tags,
		UV:       mesh.UV{U: float32(u), V: float32(v)},
		UV2:      mesh.UV{U: float32(flow.X), V: float32(flow.Z)},
		UV3:      uv3,
	}
}

// riverEdgeSurface spans the edge between the two bank lines at the lower
// cell's river surface.
func (p *pass) riverEdgeSurface(ctx *Context) {
	l := p.layer(mesh.LayerRivers)
	tags := ctx.EdgeCells()
	y := p.cfg.RiverSurfaceY(min(ctx.Center.EdgeElevation(), ctx.Right.EdgeElevation()))
	width := p.cfg.RiverSurfaceWidth

	trough := ctx.TroughRight.Points()
	near, far := ctx.CenterToRight.Points(), ctx.RightToCenter.Points()
	flow, _ := p.rivers.Flow(ctx.Center, ctx.Dir)

	dir := flatten(near[4].Sub(near[0]))
	if flow == world.Counterclockwise {
		dir = dir.Mul(-1)
	}
	vAt := func(i int) float64 {
		t := float64(i) / 4
		if flow == world.Counterclockwise {
			t = 1 - t
		}
		return riverVStart + (riverVEnd-riverVStart)*t
	}
	bank := func(edge [5]r3.Vector, i int) r3.Vector {
		return p.jitter(metrics.WithY(metrics.LerpXZ(trough[i], edge[i], width), y), nil)
	}

	for i := 0; i < 4; i++ {
		l.AddQuad(
			riverVertex(bank(near, i), mesh.Weights1, tags, 0, vAt(i), dir, uv3Edge),
			riverVertex(bank(near, i+1), mesh.Weights1, tags, 0, vAt(i+1), dir, uv3Edge),
			riverVertex(bank(far, i), mesh.Weights2, tags, 1, vAt(i), dir, uv3Edge),
			riverVertex(bank(far, i+1), mesh.Weights2, tags, 1, vAt(i+1), dir, uv3Edge),
		)
	}
}

// cornerV is the texture V of a corner vertex on edge e.
func cornerV(e cornerEdge) float64 {
	if e.into {
		return riverVEnd
	}
	return riverVStart + 1
}

// bankVertex is the surface point of edge i on one side, at height y.
func (p *pass) bankVertex(v CornerView, i, side int, y float64) mesh.Vertex {
	e := v.edges[i]
	c := v.cells[(i+side)%3]
	pos := p.jitter(v.bank(p.cfg, i, side, y), nil)
	other := v.cells[(i+1-side)%3]
	w := mesh.LerpWeights(c.w, other.w, (1-p.cfg.RiverSurfaceWidth)*0.5)
	return riverVertex(pos, w, v.tags, float64(side), cornerV(e), e.flow, uv3Corner)
}

// confluenceSurface is a still pool at the lowest of the three surfaces,
// fanned around the average of the trough ends.
func (p *pass) confluenceSurface(v CornerView) {
	l := p.layer(mesh.LayerRivers)
	y := v.cornerSurfaceY(p.cfg)

	center := v.edges[0].bed.Add(v.edges[1].bed).Add(v.edges[2].bed).Mul(1.0 / 3)
	flow := r3.Vector{}
	for _, e := range v.edges {
		if !e.into {
			flow = flow.Add(e.flow)
		}
	}
	pc := riverVertex(p.jitter(metrics.WithY(center, y), nil),
		mesh.Weights{1.0 / 3, 1.0 / 3, 1.0 / 3}, v.tags, 0.5, riverVEnd+0.1, flatten(flow), uv3Corner)

	ring := make([]mesh.Vertex, 0, 6)
	for i := 0; i < 3; i++ {
		ring = append(ring, p.bankVertex(v, i, 0, y), p.bankVertex(v, i, 1, y))
	}
	for i := range ring {
		l.AddTriangle(pc, ring[i], ring[(i+1)%len(ring)])
	}
	p.cornerWaterfalls(v, y, 0, 1, 2)
}

// curveSurface joins the banks of the two river edges around the inner cell.
func (p *pass) curveSurface(v CornerView) {
	for r := 0; r < 3; r++ {
		if v.edges[(r+1)%3].typ != EdgeRiver {
			v = v.rotate(r)
			break
		}
	}
	l := p.layer(mesh.LayerRivers)
	y := v.cornerSurfaceY(p.cfg)

	xyX, xyY := p.bankVertex(v, 0, 0, y), p.bankVertex(v, 0, 1, y)
	xzZ, xzX := p.bankVertex(v, 2, 0, y), p.bankVertex(v, 2, 1, y)
	l.AddTriangle(xyY, xzZ, xzX)
	l.AddTriangle(xyY, xzX, xyX)
	p.cornerWaterfalls(v, y, 0, 2)
}

// endpointSurface caps a river that starts or ends at the corner. A river
// ending in water gets no cap; the estuary continues it, and a waterfall
// drops it to the sea surface when needed.
func (p *pass) endpointSurface(v CornerView) {
	for r := 0; r < 3; r++ {
		if v.edges[(r+1)%3].typ == EdgeRiver {
			v = v.rotate(r)
			break
		}
	}
	e := v.edges[1]
	if v.cells[0].cell.IsWater() {
		p.estuaryWaterfall(v)
		return
	}

	l := p.layer(mesh.LayerRivers)
	q := metrics.WithY(metrics.LerpXZ(e.bed, v.cells[0].pos, p.cfg.EndpointReach), e.surfaceY)
	// Q continues the banks' V: past riverVEnd where the river ends, and just
	// before the wrapped start where it begins.
	qv := riverVStart + 1 - 0.1
	if e.into {
		qv = riverVEnd + 0.1
	}
	l.AddTriangle(
		p.bankVertex(v, 1, 0, e.surfaceY),
		p.bankVertex(v, 1, 1, e.surfaceY),
		riverVertex(p.jitter(q, nil), v.cells[0].w, v.tags, 0.5, qv, e.flow, uv3Corner),
	)
}

// cornerWaterfalls drops every listed river edge whose surface is above the
// corner surface y down to it. The corner surface starts on the bank line the
// edge surface ends on, so the fall is vertical.
func (p *pass) cornerWaterfalls(v CornerView, y float64, edges ...int) {
	for _, i := range edges {
		e := v.edges[i]
		if e.surfaceY <= y+p.cfg.WaterfallEpsilon {
			continue
		}
		p.waterfall(v, i, e.surfaceY, e.flow, func(t r3.Vector) r3.Vector {
			return metrics.WithY(t, y)
		})
	}
}

// estuaryWaterfall drops a river reaching the sea at the corner onto the
// water surface. Each bank follows the flow until it meets the receiving line
// halfway between the river cells and the water cell.
func (p *pass) estuaryWaterfall(v CornerView) {
	e := v.edges[1]
	y := p.cfg.WaterSurfaceY()
	if e.surfaceY <= y+p.cfg.WaterfallEpsilon {
		return
	}
	x := v.cells[0].pos
	recv := metrics.LerpXZ(v.cells[1].pos, x, 0.5)
	recvDir := metrics.LerpXZ(v.cells[2].pos, x, 0.5).Sub(recv)
	flow := flatten(x.Sub(e.bed))
	p.waterfall(v, 1, e.surfaceY, flow, func(t r3.Vector) r3.Vector {
		return landing(t, flow, recv, recvDir, y)
	})
}

// landing is where the horizontal line from t along flow meets the line
// recv+s*recvDir, at height y. Parallel lines land straight below t.
func landing(t, flow, recv, recvDir r3.Vector, y float64) r3.Vector {
	if flow.Norm() == 0 {
		return metrics.WithY(t, y)
	}
	_, b, ok := metrics.ClosestPointsOnLines(
		metrics.FlattenXZ(t), flow,
		metrics.FlattenXZ(recv), metrics.FlattenXZ(recvDir),
	)
	if !ok {
		return metrics.WithY(t, y)
	}
	return metrics.WithY(b, y)
}

// waterfall emits a quad from the two banks of edge i at height top down to
// where land puts each of them.
func (p *pass) waterfall(v CornerView, i int, top float64, flow r3.Vector, land func(r3.Vector) r3.Vector) {
	p.count(CaseWaterfall)
	l := p.layer(mesh.LayerRivers)

	ta := v.bank(p.cfg, i, 0, top)
	tb := v.bank(p.cfg, i, 1, top)
	ba, bb := land(ta), land(tb)

	// Face downstream.
	s := tb.Sub(ta)
	if s.X*flow.Z-s.Z*flow.X < 0 {
		ta, tb = tb, ta
		ba, bb = bb, ba
	}
	w := mesh.LerpWeights(v.cells[i].w, v.cells[(i+1)%3].w, 0.5)
	l.AddQuad(
		riverVertex(p.jitter(ta, nil), w, v.tags, 0, 0, flow, uv3Waterfall),
		riverVertex(p.jitter(tb, nil), w, v.tags, 1, 0, flow, uv3Waterfall),
		riverVertex(p.jitter(ba, nil), w, v.tags, 0, 1, flow, uv3Waterfall),
		riverVertex(p.jitter(bb, nil), w, v.tags, 1, 1, flow, uv3Waterfall),
	)
}
