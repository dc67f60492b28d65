package persistence

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/triangulate"
	"github.com/talgya/hexmesh/internal/world"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGridRoundTrip(t *testing.T) {
	db := openTest(t)
	cfg := world.SmallTestConfig()
	g, rivers := world.Generate(cfg)

	id, err := db.SaveGrid(g, rivers, cfg.Seed)
	if err != nil {
		t.Fatalf("SaveGrid: %v", err)
	}
	g2, rivers2, err := db.LoadGrid(id)
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}

	if g2.Width != g.Width || g2.Height != g.Height || g2.ChunkCount() != g.ChunkCount() {
		t.Fatalf("loaded grid %s, want %s", g2, g)
	}
	for i, c := range g.Cells() {
		if got := *g2.Cell(i); got != *c {
			t.Errorf("cell %d = %+v, want %+v", i, got, *c)
		}
	}
	if rivers2.RiverCount() != rivers.RiverCount() {
		t.Errorf("river count = %d, want %d", rivers2.RiverCount(), rivers.RiverCount())
	}
	a, b := rivers.Segments(), rivers2.Segments()
	if len(a) != len(b) {
		t.Fatalf("segments = %d, want %d", len(b), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("segment %d = %+v, want %+v", i, b[i], a[i])
		}
	}
}

func TestLoadMissingBuild(t *testing.T) {
	db := openTest(t)
	if _, _, err := db.LoadGrid("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGrid of unknown build: err = %v, want ErrNotFound", err)
	}
	if _, err := db.LoadChunkMesh("nope", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadChunkMesh of unknown build: err = %v, want ErrNotFound", err)
	}
}

func TestChunkMeshRoundTrip(t *testing.T) {
	db := openTest(t)
	cfg := world.SmallTestConfig()
	g, rivers := world.Generate(cfg)
	tr := triangulate.New(metrics.DefaultConfig(), g, rivers)
	stats, err := tr.TriangulateAll()
	if err != nil {
		t.Fatal(err)
	}

	id, err := db.SaveGrid(g, rivers, cfg.Seed)
	if err != nil {
		t.Fatal(err)
	}
	for _, ch := range tr.Chunks() {
		if err := db.SaveChunkMesh(id, ch); err != nil {
			t.Fatalf("SaveChunkMesh %d: %v", ch.ID, err)
		}
	}
	// Saving twice replaces.
	if err := db.SaveChunkMesh(id, tr.Chunk(0)); err != nil {
		t.Fatal(err)
	}
	if err := db.SetTriangles(id, stats.TotalTriangles()); err != nil {
		t.Fatal(err)
	}

	for _, ch := range tr.Chunks() {
		got, err := db.LoadChunkMesh(id, ch.ID)
		if err != nil {
			t.Fatalf("LoadChunkMesh %d: %v", ch.ID, err)
		}
		want, _ := ch.Encode()
		enc, err := got.Encode()
		if err != nil {
			t.Fatal(err)
		}
		for lid, buf := range want {
			if !bytes.Equal(enc[lid], buf) {
				t.Errorf("chunk %d layer %s differs after reload", ch.ID, lid)
			}
		}
	}

	builds, err := db.ListBuilds(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(builds) != 1 || builds[0].ID != id || builds[0].Triangles != stats.TotalTriangles() {
		t.Errorf("ListBuilds = %+v", builds)
	}
}

func TestMeta(t *testing.T) {
	db := openTest(t)
	if err := db.SaveMeta("last_build", "a"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("last_build", "b"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMeta("last_build")
	if err != nil || v != "b" {
		t.Errorf("GetMeta = %q, %v; want b", v, err)
	}
}
