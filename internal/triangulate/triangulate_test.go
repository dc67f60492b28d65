package triangulate

import (
	"bytes"
	"testing"

	"github.com/talgya/hexmesh/internal/hex"
	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

// run triangulates a single-chunk grid and returns the pass statistics.
func run(t *testing.T, g *world.Grid, rivers *world.RiverStore) Stats {
	t.Helper()
	tr := New(metrics.FlatTestConfig(), g, rivers)
	s, err := tr.TriangulateAll()
	if err != nil {
		t.Fatalf("TriangulateAll: %v", err)
	}
	return s
}

// ownedCorners counts the corners the driver draws.
func ownedCorners(g *world.Grid) int {
	n := 0
	for _, c := range g.Cells() {
		for _, d := range []hex.Direction{hex.E, hex.SE} {
			if g.Neighbor(c, d.Previous()) != nil && g.Neighbor(c, d) != nil {
				n++
			}
		}
	}
	return n
}

// generated returns the small demo map and fails if it carries no river.
func generated(t *testing.T) (*world.Grid, *world.RiverStore) {
	t.Helper()
	g, rivers := world.Generate(world.SmallTestConfig())
	if rivers.RiverCount() == 0 {
		t.Fatal("test map has no rivers")
	}
	return g, rivers
}

func TestClassifySymmetric(t *testing.T) {
	g, rivers := generated(t)
	for _, a := range g.Cells() {
		for _, d := range hex.Directions {
			b := g.Neighbor(a, d)
			if b == nil {
				continue
			}
			ab := Classify(a, d, b, rivers)
			ba := Classify(b, d.Opposite(), a, rivers)
			if ab != ba {
				t.Errorf("Classify(%s,%s) = %s but reverse = %s", a, d, ab, ba)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	g := world.NewGrid(2, 1, 2, 1)
	rivers := world.NewRiverStore(g)
	a, b := g.Cell(0), g.Cell(1)

	tests := []struct {
		name   string
		ea, eb int
		water  bool
		want   EdgeType
	}{
		{"same level", 3, 3, false, EdgeFlat},
		{"one step", 3, 4, false, EdgeSlope},
		{"one step down", 4, 3, false, EdgeSlope},
		{"two steps", 1, 3, false, EdgeCliff},
		{"water", 0, 3, true, EdgeFlat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.Elevation, b.Elevation = tt.ea, tt.eb
			a.Terrain = world.TerrainGrassland
			if tt.water {
				a.Terrain = world.TerrainOcean
			}
			if got := Classify(a, hex.E, b, rivers); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}

	if got := Classify(a, hex.W, nil, rivers); got != EdgeVoid {
		t.Errorf("Classify with no neighbour = %s, want void", got)
	}
	a.Terrain = world.TerrainGrassland
	a.Elevation, b.Elevation = 2, 2
	if _, err := rivers.AddRiver(a, hex.E, world.Clockwise); err != nil {
		t.Fatal(err)
	}
	if got := Classify(a, hex.E, b, rivers); got != EdgeRiver {
		t.Errorf("Classify across river = %s, want river", got)
	}
}

func TestTriangleCounts(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		ea, eb int
		want   int
	}{
		{"single cell", 1, 3, 0, 24},
		{"flat pair", 2, 3, 3, 48 + 8},
		{"terraced pair", 2, 3, 4, 48 + 8*5},
		{"cliff pair", 2, 3, 6, 48 + 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := world.NewGrid(tt.width, 1, 4, 4)
			g.Cell(0).Elevation = tt.ea
			if tt.width > 1 {
				g.Cell(1).Elevation = tt.eb
			}
			s := run(t, g, world.NewRiverStore(g))
			if got := s.Triangles[mesh.LayerTerrain]; got != tt.want {
				t.Errorf("terrain triangles = %d, want %d", got, tt.want)
			}
			if got := s.TotalTriangles(); got != tt.want {
				t.Errorf("total triangles = %d, want %d (no other layers)", got, tt.want)
			}
			if s.Skipped != 0 {
				t.Errorf("skipped = %d, want 0", s.Skipped)
			}
		})
	}
}

func TestTerracedEdgeEndsOnSolidEdges(t *testing.T) {
	cfg := metrics.FlatTestConfig()
	g := world.NewGrid(2, 1, 4, 4)
	g.Cell(0).Elevation, g.Cell(1).Elevation = 3, 4
	ctx := NewContext(&cfg, g, world.NewRiverStore(g), g.Cell(0), hex.E)
	if ctx.RightType != EdgeSlope {
		t.Fatalf("edge type = %s, want slope", ctx.RightType)
	}

	p := &pass{cfg: &cfg, perturb: metrics.NewPerturber(cfg)}
	rows := p.terraceRows(ctx.CenterToRight, ctx.Center, ctx.RightToCenter, ctx.Right)
	if len(rows)-1 != cfg.TerraceSteps() {
		t.Fatalf("terrace strips = %d, want %d", len(rows)-1, cfg.TerraceSteps())
	}
	if rows[0] != ctx.CenterToRight || rows[len(rows)-1] != ctx.RightToCenter {
		t.Error("terrace rows must start and end on the solid edges")
	}
}

func TestCornersAgreeAcrossCells(t *testing.T) {
	cfg := metrics.FlatTestConfig()
	g, rivers := generated(t)
	for _, c := range g.Cells() {
		for _, d := range hex.Directions {
			ctx := NewContext(&cfg, g, rivers, c, d)
			if !ctx.HasCorner() {
				continue
			}
			// The same vertex seen from the right neighbour, which meets it
			// as its corner d-2 with c on its left.
			other := NewContext(&cfg, g, rivers, ctx.Right, d.Previous2())
			if !other.HasCorner() {
				t.Fatalf("%s corner %s: right neighbour sees no corner", c, d)
			}
			a := metrics.FlattenXZ(ctx.CenterCorner())
			b := metrics.FlattenXZ(other.LeftCorner())
			if a.Sub(b).Norm() > 1e-6 {
				t.Errorf("%s corner %s: centre corner %v differs from %v", c, d, a, b)
			}
			if ctx.RiverCount() != other.RiverCount() {
				t.Errorf("%s corner %s: river counts %d and %d", c, d, ctx.RiverCount(), other.RiverCount())
			}
		}
	}
}

func TestCornerTableCoversEveryDryCombination(t *testing.T) {
	if len(cornerTable) != 54 {
		t.Fatalf("corner table has %d entries, want 54", len(cornerTable))
	}
	for k, h := range cornerTable {
		if h.fn == nil {
			t.Errorf("%+v has no handler", k)
		}
		if k.left != EdgeSlope && k.right != EdgeSlope && k.across != EdgeSlope && h.kind != CasePlain {
			t.Errorf("%+v without slopes dispatched to %s", k, h.kind)
		}
	}
}

// curveGrid builds a 4x4 flat grid with two rivers bending around c.
func curveGrid(t *testing.T) (*world.Grid, *world.RiverStore, *world.Cell) {
	t.Helper()
	g := world.NewGrid(4, 4, 4, 4)
	rivers := world.NewRiverStore(g)
	c := g.CellAt(hex.FromOffset(1, 1))
	for _, d := range []hex.Direction{hex.NE, hex.E} {
		if _, err := rivers.AddRiver(c, d, world.Clockwise); err != nil {
			t.Fatalf("AddRiver %s: %v", d, err)
		}
	}
	return g, rivers, c
}

func TestCurveCorner(t *testing.T) {
	g, rivers, _ := curveGrid(t)
	s := run(t, g, rivers)

	want := map[CornerCase]int{
		CaseCurveFlat:  1,
		CaseConfluence: 0,
		CaseEndpoint:   2,
		CasePlain:      ownedCorners(g) - 3,
		CaseWaterfall:  0,
	}
	for k, n := range want {
		if got := s.Count(k); got != n {
			t.Errorf("%s = %d, want %d", k, got, n)
		}
	}
	if s.Triangles[mesh.LayerRivers] == 0 {
		t.Error("no river surface drawn")
	}
}

func TestConfluence(t *testing.T) {
	g, rivers, c := curveGrid(t)
	ne := g.Neighbor(c, hex.NE)
	if _, err := rivers.AddRiver(ne, hex.SE, world.Clockwise); err != nil {
		t.Fatalf("AddRiver: %v", err)
	}
	s := run(t, g, rivers)

	if got := s.Count(CaseConfluence); got != 1 {
		t.Errorf("confluences = %d, want 1", got)
	}
	if got := s.Count(CaseEndpoint); got != 3 {
		t.Errorf("endpoints = %d, want 3", got)
	}
	if got := s.Count(CaseCurveFlat); got != 0 {
		t.Errorf("curve corners = %d, want 0", got)
	}
	if got := s.Count(CasePlain); got != ownedCorners(g)-4 {
		t.Errorf("plain corners = %d, want %d", got, ownedCorners(g)-4)
	}
}

func TestConfluenceWaterfall(t *testing.T) {
	g, rivers, c := curveGrid(t)
	ne := g.Neighbor(c, hex.NE)
	if _, err := rivers.AddRiver(ne, hex.SE, world.Clockwise); err != nil {
		t.Fatalf("AddRiver: %v", err)
	}
	// The pool sits at the lowest cell; the other two rivers drop into it.
	for _, cell := range g.Cells() {
		cell.Elevation = 3
	}
	g.Neighbor(c, hex.E).Elevation = 2

	s := run(t, g, rivers)
	if got := s.Count(CaseConfluence); got != 1 {
		t.Fatalf("confluences = %d, want 1", got)
	}
	if got := s.Count(CaseWaterfall); got != 1 {
		t.Errorf("waterfalls = %d, want 1 (only the c-ne river is higher)", got)
	}
}

func TestEstuary(t *testing.T) {
	g := world.NewGrid(4, 4, 4, 4)
	rivers := world.NewRiverStore(g)
	for _, cell := range g.Cells() {
		cell.Elevation = 2
	}
	c := g.CellAt(hex.FromOffset(1, 1))
	if _, err := rivers.AddRiver(c, hex.NE, world.Clockwise); err != nil {
		t.Fatalf("AddRiver: %v", err)
	}
	sea := g.Neighbor(c, hex.E)
	sea.Terrain = world.TerrainOcean
	sea.Elevation = 0

	s := run(t, g, rivers)
	if got := s.Count(CaseEstuary); got != 1 {
		t.Errorf("estuaries = %d, want 1", got)
	}
	if got := s.Count(CaseWaterfall); got < 1 {
		t.Errorf("waterfalls = %d, want at least 1", got)
	}
	if s.Triangles[mesh.LayerEstuary] != 2 {
		t.Errorf("estuary triangles = %d, want 2", s.Triangles[mesh.LayerEstuary])
	}
	if s.Triangles[mesh.LayerWater] == 0 || s.Triangles[mesh.LayerShore] == 0 {
		t.Error("expected water and shore geometry")
	}
}

func TestOpenWater(t *testing.T) {
	g := world.NewGrid(3, 3, 4, 4)
	for _, cell := range g.Cells() {
		cell.Terrain = world.TerrainOcean
	}
	s := run(t, g, world.NewRiverStore(g))

	if got := s.Count(CaseWaterCorner); got != ownedCorners(g) {
		t.Errorf("water corners = %d, want %d", got, ownedCorners(g))
	}
	if s.Triangles[mesh.LayerShore] != 0 {
		t.Errorf("shore triangles = %d, want 0", s.Triangles[mesh.LayerShore])
	}
}

func TestOverlayCounts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, ed *world.Editor)
		layer mesh.LayerID
		want  int
	}{
		{
			name: "road between two cells",
			setup: func(t *testing.T, ed *world.Editor) {
				if _, err := ed.AddRoad(ed.Grid.Cell(0), hex.E); err != nil {
					t.Fatal(err)
				}
			},
			layer: mesh.LayerRoads,
			// Per cell: road direction 6, five others 1 each. Connection: 4.
			want: 2*(6+5) + 4,
		},
		{
			name: "border between two territories",
			setup: func(t *testing.T, ed *world.Editor) {
				ed.SetOwner(ed.Grid.Cell(0), 1)
				ed.SetOwner(ed.Grid.Cell(1), 2)
			},
			layer: mesh.LayerCulture,
			want:  2 * 16,
		},
		{
			name: "oasis",
			setup: func(t *testing.T, ed *world.Editor) {
				ed.SetTerrain(ed.Grid.Cell(0), world.TerrainDesert)
				if _, err := ed.SetFeature(ed.Grid.Cell(0), world.FeatureOasis); err != nil {
					t.Fatal(err)
				}
			},
			layer: mesh.LayerOasis,
			want:  6 * 12,
		},
		{
			name: "marsh next to grass",
			setup: func(t *testing.T, ed *world.Editor) {
				if _, err := ed.SetVegetation(ed.Grid.Cell(0), world.VegetationMarsh); err != nil {
					t.Fatal(err)
				}
			},
			layer: mesh.LayerMarsh,
			want:  6*4 + 8,
		},
		{
			name: "marsh pair",
			setup: func(t *testing.T, ed *world.Editor) {
				for _, i := range []int{0, 1} {
					if _, err := ed.SetVegetation(ed.Grid.Cell(i), world.VegetationMarsh); err != nil {
						t.Fatal(err)
					}
				}
			},
			layer: mesh.LayerMarsh,
			want:  2*6*4 + 8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := world.NewGrid(2, 1, 4, 4)
			ed := world.NewEditor(g, world.NewRiverStore(g))
			tt.setup(t, ed)
			s := run(t, g, ed.Rivers)
			if got := s.Triangles[tt.layer]; got != tt.want {
				t.Errorf("%s triangles = %d, want %d", tt.layer, got, tt.want)
			}
		})
	}
}

func TestFloodPlainsReachTheRiver(t *testing.T) {
	g := world.NewGrid(2, 1, 4, 4)
	ed := world.NewEditor(g, world.NewRiverStore(g))
	a := g.Cell(0)
	if _, err := ed.AddRiver(a, hex.E, world.Clockwise); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetVegetation(a, world.VegetationFloodPlains); err != nil {
		t.Fatal(err)
	}
	s := run(t, g, ed.Rivers)
	// Fan over six directions plus the strip down into the trough.
	if got, want := s.Triangles[mesh.LayerFloodPlains], 6*4+8; got != want {
		t.Errorf("flood plain triangles = %d, want %d", got, want)
	}
}

func TestDeterministicBuffers(t *testing.T) {
	encode := func() []map[mesh.LayerID][]byte {
		g, rivers := generated(t)
		tr := New(metrics.DefaultConfig(), g, rivers)
		if _, err := tr.TriangulateAll(); err != nil {
			t.Fatalf("TriangulateAll: %v", err)
		}
		var out []map[mesh.LayerID][]byte
		for _, ch := range tr.Chunks() {
			b, err := ch.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out = append(out, b)
		}
		return out
	}
	a, b := encode(), encode()
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d and %d", len(a), len(b))
	}
	for i := range a {
		for id, buf := range a[i] {
			if !bytes.Equal(buf, b[i][id]) {
				t.Errorf("chunk %d layer %s differs between passes", i, id)
			}
		}
	}
}

func TestRefreshRebuildsTouchedChunks(t *testing.T) {
	g := world.NewGrid(8, 8, 4, 4)
	rivers := world.NewRiverStore(g)
	tr := New(metrics.FlatTestConfig(), g, rivers)
	if _, err := tr.TriangulateAll(); err != nil {
		t.Fatal(err)
	}

	c := g.CellAt(hex.FromOffset(3, 3))
	refresh, err := rivers.AddRiver(c, hex.E, world.Clockwise)
	if err != nil {
		t.Fatal(err)
	}
	ids := tr.ChunksFor(refresh)
	if len(ids) < 2 {
		t.Fatalf("ChunksFor = %v, want the chunks on both sides of the edge", ids)
	}
	s, err := tr.Refresh(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count(CaseEndpoint) != 2 {
		t.Errorf("endpoints after refresh = %d, want 2", s.Count(CaseEndpoint))
	}
	if _, err := tr.TriangulateChunk(len(tr.Chunks())); err == nil {
		t.Error("TriangulateChunk past the last chunk should fail")
	}
}
