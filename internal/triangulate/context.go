package triangulate

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/hex"
	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

// Context is the geometry every triangulator reads for one cell and
// direction. It is computed eagerly and never modified.
//
// Around corner d of Center three cells meet, clockwise: Center, Left
// (neighbour d-1) and Right (neighbour d). Edge vertices are unperturbed;
// triangulators jitter them when they emit.
type Context struct {
	Dir                      hex.Direction
	Center, Left, Right      *world.Cell
	NextRight                *world.Cell // Neighbour d+1
	RightType, LeftType      EdgeType    // Center-Right, Center-Left
	AcrossType, NextType     EdgeType    // Left-Right, Center-NextRight
	CenterPos                r3.Vector   // Centre at peak height
	CenterToRight            metrics.EdgeVertices
	RightToCenter            metrics.EdgeVertices
	CenterToLeft             metrics.EdgeVertices
	LeftToCenter             metrics.EdgeVertices
	LeftToRight, RightToLeft metrics.EdgeVertices

	// Stream beds between Center and Right or Left, valid when the matching
	// edge type is EdgeRiver.
	TroughRight, TroughLeft metrics.EdgeVertices

	Corner CornerView
}

// NewContext builds the context for cell c and direction d.
func NewContext(cfg *metrics.Config, g Grid, rivers RiverQuery, c *world.Cell, d hex.Direction) *Context {
	ctx := &Context{
		Dir:       d,
		Center:    c,
		Left:      g.Neighbor(c, d.Previous()),
		Right:     g.Neighbor(c, d),
		NextRight: g.Neighbor(c, d.Next()),
	}
	ctx.RightType = Classify(c, d, ctx.Right, rivers)
	ctx.LeftType = Classify(c, d.Previous(), ctx.Left, rivers)
	ctx.AcrossType = Classify(ctx.Left, d.Next(), ctx.Right, rivers)
	ctx.NextType = Classify(c, d.Next(), ctx.NextRight, rivers)

	center := cfg.CellCenter(c.Coord)
	ctx.CenterPos = metrics.WithY(center, cfg.ElevationY(c.PeakElevation()))
	ctx.CenterToRight = solidEdge(cfg, c, center, d)
	ctx.CenterToLeft = solidEdge(cfg, c, center, d.Previous())

	if ctx.Right != nil {
		ctx.RightToCenter = ctx.CenterToRight.Add(cfg.Bridge(d)).WithY(edgeY(cfg, ctx.Right))
		if ctx.RightType == EdgeRiver {
			ctx.TroughRight = metrics.LerpEdges(ctx.CenterToRight, ctx.RightToCenter, 0.5).
				WithY(cfg.StreamBedY(min(c.EdgeElevation(), ctx.Right.EdgeElevation())))
		}
	}
	if ctx.Left != nil {
		ctx.LeftToCenter = ctx.CenterToLeft.Add(cfg.Bridge(d.Previous())).WithY(edgeY(cfg, ctx.Left))
		if ctx.LeftType == EdgeRiver {
			ctx.TroughLeft = metrics.LerpEdges(ctx.CenterToLeft, ctx.LeftToCenter, 0.5).
				WithY(cfg.StreamBedY(min(c.EdgeElevation(), ctx.Left.EdgeElevation())))
		}
		ctx.LeftToRight = solidEdge(cfg, ctx.Left, cfg.CellCenter(ctx.Left.Coord), d.Next())
		if ctx.Right != nil {
			ctx.RightToLeft = ctx.LeftToRight.Add(cfg.Bridge(d.Next())).WithY(edgeY(cfg, ctx.Right))
		}
	}
	if ctx.HasCorner() {
		ctx.Corner = newCornerView(cfg, rivers, ctx)
	}
	return ctx
}

// HasCorner reports whether all three cells at the corner exist.
func (ctx *Context) HasCorner() bool {
	return ctx.Left != nil && ctx.Right != nil
}

// OwnsEdge reports whether this context draws the Center-Right connection.
// Each edge is drawn once, by the cell that sees it as NE, E or SE.
func (ctx *Context) OwnsEdge() bool {
	return ctx.Right != nil && ctx.Dir <= hex.SE
}

// OwnsCorner reports whether this context draws the shared corner. Every
// hex vertex is corner E or corner SE of exactly one of its three cells.
func (ctx *Context) OwnsCorner() bool {
	return ctx.HasCorner() && (ctx.Dir == hex.E || ctx.Dir == hex.SE)
}

// CenterCorner, LeftCorner and RightCorner are the solid corners of the
// three cells at the shared vertex.
func (ctx *Context) CenterCorner() r3.Vector { return ctx.CenterToRight.V1 }
func (ctx *Context) LeftCorner() r3.Vector   { return ctx.LeftToCenter.V5 }
func (ctx *Context) RightCorner() r3.Vector  { return ctx.RightToCenter.V1 }

// RiverCount returns the number of river edges meeting at the corner.
func (ctx *Context) RiverCount() int {
	n := 0
	for _, t := range []EdgeType{ctx.LeftType, ctx.AcrossType, ctx.RightType} {
		if t == EdgeRiver {
			n++
		}
	}
	return n
}

// HasRoadToRight reports whether a road crosses the Center-Right edge.
func (ctx *Context) HasRoadToRight() bool {
	return ctx.Center.HasRoadThroughEdge(ctx.Dir)
}

// EdgeCells tags vertices of the Center-Right connection.
func (ctx *Context) EdgeCells() mesh.CellIndices {
	return mesh.CellIndices{int32(ctx.Center.Index), int32(ctx.Right.Index), int32(ctx.Center.Index)}
}

// CenterCells tags vertices inside the centre cell.
func (ctx *Context) CenterCells() mesh.CellIndices {
	i := int32(ctx.Center.Index)
	return mesh.CellIndices{i, i, i}
}

// solidEdge returns the solid edge of c in direction d. Edges crossed by a
// road split into thirds so the road gets a central band.
func solidEdge(cfg *metrics.Config, c *world.Cell, center r3.Vector, d hex.Direction) metrics.EdgeVertices {
	step := 0.25
	if c.HasRoadThroughEdge(d) {
		step = 1.0 / 3
	}
	y := edgeY(cfg, c)
	return metrics.NewEdgeVerticesStep(
		metrics.WithY(center.Add(cfg.FirstSolidCorner(d)), y),
		metrics.WithY(center.Add(cfg.SecondSolidCorner(d)), y),
		step,
	)
}

func edgeY(cfg *metrics.Config, c *world.Cell) float64 {
	return cfg.ElevationY(c.EdgeElevation())
}

// cornerCell is one of the three cells at a corner.
type cornerCell struct {
	cell *world.Cell
	pos  r3.Vector // Solid corner
	w    mesh.Weights
}

// cornerEdge is the connection between two consecutive corner cells.
type cornerEdge struct {
	typ      EdgeType
	into     bool      // River flows into the corner
	bed      r3.Vector // Trough end at the corner
	surfaceY float64
	flow     r3.Vector // Horizontal downstream direction at the corner
}

// CornerView is the corner seen as a clockwise triple of cells. edges[i]
// joins cells[i] and cells[i+1]. Rotating the view keeps each cell's
// weights, so geometry emitted from any rotation blends consistently.
type CornerView struct {
	cells [3]cornerCell
	edges [3]cornerEdge
	tags  mesh.CellIndices
}

func newCornerView(cfg *metrics.Config, rivers RiverQuery, ctx *Context) CornerView {
	d := ctx.Dir
	v := CornerView{
		cells: [3]cornerCell{
			{ctx.Center, ctx.CenterCorner(), mesh.Weights1},
			{ctx.Left, ctx.LeftCorner(), mesh.Weights2},
			{ctx.Right, ctx.RightCorner(), mesh.Weights3},
		},
		tags: mesh.CellIndices{int32(ctx.Center.Index), int32(ctx.Left.Index), int32(ctx.Right.Index)},
	}

	// Each connection as (owner, edge direction, corner index on the owner).
	type side struct {
		owner *world.Cell
		dir   hex.Direction
		k     hex.Direction
		typ   EdgeType
	}
	sides := [3]side{
		{ctx.Center, d.Previous(), d, ctx.LeftType}, // Center-Left, ends at the corner
		{ctx.Left, d.Next(), d.Next2(), ctx.AcrossType},
		{ctx.Center, d, d, ctx.RightType}, // Right-Center, starts at the corner
	}
	for i, s := range sides {
		a, b := v.cells[i], v.cells[(i+1)%3]
		low := min(a.cell.EdgeElevation(), b.cell.EdgeElevation())
		e := cornerEdge{
			typ:      s.typ,
			surfaceY: cfg.RiverSurfaceY(low),
			bed:      metrics.WithY(metrics.Midpoint(a.pos, b.pos), cfg.StreamBedY(low)),
		}
		if f, ok := rivers.Flow(s.owner, s.dir); ok && s.typ == EdgeRiver {
			e.into = world.FlowsIntoCorner(f, s.dir, s.k)
			// Along the owner's edge towards the corner.
			along := cfg.FirstCorner(s.dir).Sub(cfg.SecondCorner(s.dir))
			if s.k == s.dir.Next() {
				along = along.Mul(-1)
			}
			if !e.into {
				along = along.Mul(-1)
			}
			e.flow = metrics.FlattenXZ(along).Normalize()
		}
		v.edges[i] = e
	}
	return v
}

// rotate returns the view starting at cells[r].
func (v CornerView) rotate(r int) CornerView {
	out := CornerView{tags: v.tags}
	for i := 0; i < 3; i++ {
		out.cells[i] = v.cells[(i+r)%3]
		out.edges[i] = v.edges[(i+r)%3]
	}
	return out
}

// riverCount returns the number of river edges at the corner.
func (v CornerView) riverCount() int {
	n := 0
	for _, e := range v.edges {
		if e.typ == EdgeRiver {
			n++
		}
	}
	return n
}

// bank returns the river surface point of edge i on the side of cell
// cells[i] (side 0) or cells[i+1] (side 1).
func (v CornerView) bank(cfg *metrics.Config, i, side int, y float64) r3.Vector {
	e := v.edges[i]
	c := v.cells[(i+side)%3]
	return metrics.WithY(metrics.LerpXZ(e.bed, c.pos, cfg.RiverSurfaceWidth), y)
}

// cornerSurfaceY is the lowest river surface of the three cells.
func (v CornerView) cornerSurfaceY(cfg *metrics.Config) float64 {
	low := v.cells[0].cell.EdgeElevation()
	for _, c := range v.cells[1:] {
		low = min(low, c.cell.EdgeElevation())
	}
	return cfg.RiverSurfaceY(low)
}
