package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
)

// shouldTriangulateWater reports whether the context touches open water.
func shouldTriangulateWater(ctx *Context) bool {
	if ctx.Center.IsWater() {
		return true
	}
	return ctx.Right != nil && ctx.Right.IsWater() && ctx.OwnsEdge() ||
		ctx.OwnsCorner() && (ctx.Left.IsWater() || ctx.Right.IsWater())
}

// triangulateWater draws open water cells, water-to-water connections and the
// shore strip where water meets land. Corners are water, shore or estuary.
func (p *pass) triangulateWater(ctx *Context) {
	y := p.cfg.WaterSurfaceY()
	if ctx.Center.IsWater() {
		edgeFan(p.layer(mesh.LayerWater),
			p.jitter(metrics.WithY(ctx.CenterPos, y), nil),
			p.jitterEdge(ctx.CenterToRight.WithY(y), nil),
			mesh.Weights1, ctx.CenterCells())
	}
	if ctx.OwnsEdge() {
		p.waterEdge(ctx, y)
	}
	if ctx.OwnsCorner() {
		p.waterCorner(ctx.Corner, y)
	}
}

func (p *pass) waterEdge(ctx *Context, y float64) {
	cw, rw := ctx.Center.IsWater(), ctx.Right.IsWater()
	near := p.jitterEdge(ctx.CenterToRight.WithY(y), nil)
	far := p.jitterEdge(ctx.RightToCenter.WithY(y), nil)
	tags := ctx.EdgeCells()

	switch {
	case cw && rw:
		edgeStrip(p.layer(mesh.LayerWater), near, mesh.Weights1, far, mesh.Weights2, tags)
	case cw:
		edgeStripUV(p.layer(mesh.LayerShore), near, mesh.Weights1, 0, far, mesh.Weights2, 1, tags)
	case rw:
		edgeStripUV(p.layer(mesh.LayerShore), near, mesh.Weights1, 1, far, mesh.Weights2, 0, tags)
	}
}

func (p *pass) waterCorner(v CornerView, y float64) {
	water := 0
	for _, c := range v.cells {
		if c.cell.IsWater() {
			water++
		}
	}
	if water == 0 {
		return
	}
	at := func(i int) r3.Vector {
		return p.jitter(metrics.WithY(v.cells[i].pos, y), nil)
	}

	if water == 3 {
		p.count(CaseWaterCorner)
		p.layer(mesh.LayerWater).AddTriangle(
			vert(at(0), v.cells[0].w, v.tags),
			vert(at(1), v.cells[1].w, v.tags),
			vert(at(2), v.cells[2].w, v.tags),
		)
		return
	}
	if water == 1 {
		for r := 0; r < 3; r++ {
			rv := v.rotate(r)
			if rv.cells[0].cell.IsWater() && rv.edges[1].typ == EdgeRiver {
				p.count(CaseEstuary)
				p.estuary(rv, y)
				return
			}
		}
	}

	p.count(CaseShoreCorner)
	shoreV := func(i int) float64 {
		if v.cells[i].cell.IsWater() {
			return 0
		}
		return 1
	}
	p.layer(mesh.LayerShore).AddTriangle(
		vertUV(at(0), v.cells[0].w, v.tags, 0, shoreV(0)),
		vertUV(at(1), v.cells[1].w, v.tags, 0, shoreV(1)),
		vertUV(at(2), v.cells[2].w, v.tags, 0, shoreV(2)),
	)
}

// estuary spreads the river on edges[1] into the water cell cells[0]. UV is
// the shore blend; UV2 continues the river texture, running on past the
// water cell's corner for an outflowing river and back from it for a river
// that draws from the sea.
func (p *pass) estuary(v CornerView, y float64) {
	l := p.layer(mesh.LayerEstuary)
	e := v.edges[1]

	mV, xV := 0.1, -0.2
	if e.into {
		mV, xV = 0.9, 1.2
	}
	mk := func(pos r3.Vector, w mesh.Weights, shore, u2, v2 float64) mesh.Vertex {
		return mesh.Vertex{
			Position: p.jitter(metrics.WithY(pos, y), nil),
			Weights:  w,
			Cells:    v.tags,
			UV:       mesh.UV{V: float32(shore)},
			UV2:      mesh.UV{U: float32(u2), V: float32(v2)},
		}
	}
	x := mk(v.cells[0].pos, v.cells[0].w, 0, 0.5, xV)
	yv := mk(v.cells[1].pos, v.cells[1].w, 1, 0, mV)
	zv := mk(v.cells[2].pos, v.cells[2].w, 1, 1, mV)
	m := mk(e.bed, mesh.LerpWeights(v.cells[1].w, v.cells[2].w, 0.5), 1, 0.5, mV)

	l.AddTriangle(x, yv, m)
	l.AddTriangle(x, m, zv)
}
