package triangulate

import (
	"math"
	"testing"

	"github.com/talgya/hexmesh/internal/hex"
	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

// cornerFixture is a flat 4x4 grid at level 3 with the three cells of corner
// E of c: c itself, its NE neighbour (left) and its E neighbour (right).
type cornerFixture struct {
	g              *world.Grid
	rivers         *world.RiverStore
	c, left, right *world.Cell
}

func newCornerFixture(t *testing.T, center, left, right int) cornerFixture {
	t.Helper()
	g := world.NewGrid(4, 4, 4, 4)
	for _, cell := range g.Cells() {
		cell.Elevation = 3
	}
	c := g.CellAt(hex.FromOffset(1, 1))
	f := cornerFixture{
		g:      g,
		rivers: world.NewRiverStore(g),
		c:      c,
		left:   g.Neighbor(c, hex.NE),
		right:  g.Neighbor(c, hex.E),
	}
	f.c.Elevation, f.left.Elevation, f.right.Elevation = center, left, right
	return f
}

// draw runs the terrain corner of (c, E) on its own and returns the pass
// statistics and the terrain triangles it emitted.
func (f cornerFixture) draw(t *testing.T) (Stats, int) {
	t.Helper()
	cfg := metrics.FlatTestConfig()
	ctx := NewContext(&cfg, f.g, f.rivers, f.c, hex.E)
	if !ctx.OwnsCorner() {
		t.Fatal("context does not own its corner")
	}
	var stats Stats
	p := &pass{
		cfg:     &cfg,
		grid:    f.g,
		rivers:  f.rivers,
		perturb: metrics.NewPerturber(cfg),
		chunk:   mesh.NewChunk(0),
		stats:   &stats,
	}
	if ctx.Corner.riverCount() > 0 {
		p.riverCorner(ctx.Corner)
	} else {
		p.terrainCorner(ctx.Corner)
	}
	return stats, p.layer(mesh.LayerTerrain).TriangleCount()
}

func TestTerrainCornerCases(t *testing.T) {
	steps := metrics.FlatTestConfig().TerraceSteps()
	tests := []struct {
		name                string
		center, left, right int
		want                CornerCase
		triangles           int
	}{
		{"flat", 3, 3, 3, CasePlain, 1},
		{"cliffs only", 1, 3, 5, CasePlain, 1},
		// First stair is a triangle, the rest are quads.
		{"slope slope flat", 2, 3, 3, CaseTerraces, 1 + 2*(steps-1)},
		{"slope flat slope", 2, 3, 2, CaseTerraces, 1 + 2*(steps-1)},
		{"flat slope slope", 2, 2, 3, CaseTerraces, 1 + 2*(steps-1)},
		// Stairs from the bottom into the boundary point, then across the top.
		{"slope cliff, slope across", 2, 3, 4, CaseTerracesCliff, 2 * steps},
		{"slope cliff, cliff across", 2, 3, 5, CaseTerracesCliff, steps + 1},
		{"cliff slope, slope across", 2, 4, 3, CaseCliffTerraces, 2 * steps},
		{"cliff slope, cliff across", 2, 5, 3, CaseCliffTerraces, steps + 1},
		// Only the stairs across the top; the lowest cell sees two cliffs.
		{"cliff cliff, slope across, left lower", 1, 3, 4, CaseCliffTerraces, steps + 1},
		{"cliff cliff, slope across, right lower", 1, 4, 3, CaseTerracesCliff, steps + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCornerFixture(t, tt.center, tt.left, tt.right)
			s, tris := f.draw(t)
			if got := s.Count(tt.want); got != 1 {
				t.Errorf("%s = %d, want 1 (cases %v)", tt.want, got, s.Cases)
			}
			if tris != tt.triangles {
				t.Errorf("terrain triangles = %d, want %d", tris, tt.triangles)
			}
		})
	}
}

// The corner must be drawn the same way whichever cell is lowest.
func TestTerrainCornerRotationInvariant(t *testing.T) {
	levels := [][3]int{{2, 3, 4}, {4, 2, 3}, {3, 4, 2}}
	var want int
	for i, l := range levels {
		s, tris := newCornerFixture(t, l[0], l[1], l[2]).draw(t)
		if i == 0 {
			want = tris
		}
		if tris != want {
			t.Errorf("levels %v: %d triangles, want %d", l, tris, want)
		}
		if s.Count(CaseTerracesCliff)+s.Count(CaseCliffTerraces) != 1 {
			t.Errorf("levels %v: cases %v, want one terrace/cliff corner", l, s.Cases)
		}
	}
}

func TestCurveCornerCases(t *testing.T) {
	steps := metrics.FlatTestConfig().TerraceSteps()
	tests := []struct {
		name       string
		left       int // Across the NE river
		right      int // Across the E river
		want       CornerCase
		triangles  int
		waterfalls int
	}{
		{"flat", 3, 3, CaseCurveFlat, 3, 0},
		// Inner triangle plus a fan over the bed ends, both cells and the stairs.
		{"slope up", 2, 3, CaseCurveSlopeUp, 1 + steps + 2, 1},
		{"slope down", 3, 2, CaseCurveSlopeDown, 1 + steps + 2, 1},
		{"cliff", 3, 1, CaseCurveCliff, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCornerFixture(t, 3, tt.left, tt.right)
			for _, d := range []hex.Direction{hex.NE, hex.E} {
				if _, err := f.rivers.AddRiver(f.c, d, world.Clockwise); err != nil {
					t.Fatalf("AddRiver %s: %v", d, err)
				}
			}

			s, tris := f.draw(t)
			if got := s.Count(tt.want); got != 1 {
				t.Errorf("%s = %d, want 1 (cases %v)", tt.want, got, s.Cases)
			}
			if tris != tt.triangles {
				t.Errorf("terrain triangles = %d, want %d", tris, tt.triangles)
			}

			// The curve is the only corner with two rivers, so every waterfall
			// of the full pass belongs to it.
			full := run(t, f.g, f.rivers)
			if got := full.Count(CaseWaterfall); got != tt.waterfalls {
				t.Errorf("waterfalls = %d, want %d", got, tt.waterfalls)
			}
			if got := full.Count(tt.want); got != 1 {
				t.Errorf("full pass %s = %d, want 1", tt.want, got)
			}
		})
	}
}

func TestEndpointFlanks(t *testing.T) {
	steps := metrics.FlatTestConfig().TerraceSteps()
	tests := []struct {
		name                string
		center, left, right int
		triangles           int
	}{
		// Flank, two triangles onto the bed end, flank.
		{"flat flanks", 3, 3, 3, 1 + 2 + 1},
		{"one sloped flank", 3, 3, 4, steps + 2 + 1},
		{"both flanks sloped", 3, 4, 3, steps + 2 + steps},
		{"sloped and cliff flanks", 2, 4, 5, steps + 2 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCornerFixture(t, tt.center, tt.left, tt.right)
			// The river ends at the corner; the left cell is the terminal one.
			if _, err := f.rivers.AddRiver(f.c, hex.E, world.Counterclockwise); err != nil {
				t.Fatal(err)
			}
			s, tris := f.draw(t)
			if got := s.Count(CaseEndpoint); got != 1 {
				t.Errorf("endpoints = %d, want 1", got)
			}
			if tris != tt.triangles {
				t.Errorf("terrain triangles = %d, want %d", tris, tt.triangles)
			}
		})
	}
}

func TestHillFan(t *testing.T) {
	g := world.NewGrid(1, 1, 4, 4)
	g.Cell(0).Elevation = 2
	g.Cell(0).Shape = world.ShapeHills
	s := run(t, g, world.NewRiverStore(g))
	// Per direction: inner fan of four and a strip of four quads.
	if got, want := s.Triangles[mesh.LayerTerrain], 6*(4+8); got != want {
		t.Errorf("terrain triangles = %d, want %d", got, want)
	}
}

// riverVSpans returns the largest texture V range of any non-waterfall river
// triangle over all chunks.
func riverVSpans(tr *Triangulator) float64 {
	widest := 0.0
	for _, ch := range tr.Chunks() {
		l := ch.Layer(mesh.LayerRivers)
		for i := 0; i+2 < len(l.Triangles); i += 3 {
			lo, hi := math.Inf(1), math.Inf(-1)
			fall := false
			for _, idx := range l.Triangles[i : i+3] {
				if l.UV3[idx] == uv3Waterfall {
					fall = true
				}
				v := float64(l.UV[idx].V)
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
			if !fall {
				widest = math.Max(widest, hi-lo)
			}
		}
	}
	return widest
}

func TestRiverTextureHasNoSeams(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) (*world.Grid, *world.RiverStore)
	}{
		{"single river", func(t *testing.T) (*world.Grid, *world.RiverStore) {
			g := world.NewGrid(4, 4, 4, 4)
			rivers := world.NewRiverStore(g)
			if _, err := rivers.AddRiver(g.CellAt(hex.FromOffset(1, 1)), hex.NE, world.Clockwise); err != nil {
				t.Fatal(err)
			}
			return g, rivers
		}},
		{"curve", func(t *testing.T) (*world.Grid, *world.RiverStore) {
			g, rivers, _ := curveGrid(t)
			return g, rivers
		}},
		{"confluence", func(t *testing.T) (*world.Grid, *world.RiverStore) {
			g, rivers, c := curveGrid(t)
			if _, err := rivers.AddRiver(g.Neighbor(c, hex.NE), hex.SE, world.Clockwise); err != nil {
				t.Fatal(err)
			}
			return g, rivers
		}},
		{"generated map", generated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rivers := tt.build(t)
			tr := New(metrics.FlatTestConfig(), g, rivers)
			s, err := tr.TriangulateAll()
			if err != nil {
				t.Fatal(err)
			}
			if s.Triangles[mesh.LayerRivers] == 0 {
				t.Fatal("no river surface drawn")
			}
			if span := riverVSpans(tr); span > 0.5 {
				t.Errorf("a river triangle spans %.2f in V, want at most 0.5", span)
			}
		})
	}
}

func TestCornerWaterfallIsVertical(t *testing.T) {
	f := newCornerFixture(t, 3, 3, 2)
	for _, d := range []hex.Direction{hex.NE, hex.E} {
		if _, err := f.rivers.AddRiver(f.c, d, world.Clockwise); err != nil {
			t.Fatalf("AddRiver %s: %v", d, err)
		}
	}
	tr := New(metrics.FlatTestConfig(), f.g, f.rivers)
	if _, err := tr.TriangulateAll(); err != nil {
		t.Fatal(err)
	}

	quads := 0
	for _, ch := range tr.Chunks() {
		l := ch.Layer(mesh.LayerRivers)
		// Waterfall quads are four consecutive vertices: two top, two bottom.
		for i := 0; i+3 < len(l.Positions); i++ {
			if l.UV3[i] != uv3Waterfall {
				continue
			}
			for k := 0; k < 2; k++ {
				top, bottom := l.Positions[i+k], l.Positions[i+2+k]
				if d := metrics.FlattenXZ(top.Sub(bottom)).Norm(); d > 1e-9 {
					t.Errorf("waterfall vertex %d moves %.3f sideways", i+k, d)
				}
				if bottom.Y >= top.Y {
					t.Errorf("waterfall vertex %d does not fall: %.2f to %.2f", i+k, top.Y, bottom.Y)
				}
			}
			quads++
			i += 3
		}
	}
	if quads != 1 {
		t.Errorf("waterfall quads = %d, want 1", quads)
	}
}
