// Command hexmesh generates a hex map, triangulates every chunk, stores the
// build in SQLite and writes an SVG preview.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/persistence"
	"github.com/talgya/hexmesh/internal/preview"
	"github.com/talgya/hexmesh/internal/triangulate"
	"github.com/talgya/hexmesh/internal/world"
)

func main() {
	gen := world.DefaultGenConfig()

	dbPath := flag.String("db", envOrDefault("HEXMESH_DB", "data/hexmesh.db"), "SQLite database path")
	seed := flag.Int64("seed", envInt64OrDefault("HEXMESH_SEED", 42), "map seed")
	width := flag.Int("width", gen.Width, "map width in cells")
	height := flag.Int("height", gen.Height, "map height in cells")
	rivers := flag.Int("rivers", gen.Rivers, "rivers to trace")
	load := flag.String("load", "", "retriangulate a stored build instead of generating")
	list := flag.Bool("list", false, "list stored builds and exit")
	svgPath := flag.String("svg", "data/preview.svg", "SVG preview path (empty to skip)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(*dbPath); dir != "" {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	if *list {
		builds, err := db.ListBuilds(20)
		if err != nil {
			slog.Error("failed to list builds", "error", err)
			os.Exit(1)
		}
		for _, b := range builds {
			fmt.Printf("%s  %s  seed=%d  %dx%d  rivers=%d  triangles=%s\n",
				b.ID, b.CreatedAt, b.Seed, b.Width, b.Height, b.Rivers, humanize.Comma(int64(b.Triangles)))
		}
		return
	}

	// ── Map ───────────────────────────────────────────────────────────
	var (
		grid    *world.Grid
		store   *world.RiverStore
		buildID string
	)
	if *load != "" {
		grid, store, err = db.LoadGrid(*load)
		if err != nil {
			slog.Error("failed to load build", "build", *load, "error", err)
			os.Exit(1)
		}
		buildID = *load
		if b, err := db.GetBuild(buildID); err == nil {
			*seed = b.Seed
		}
		slog.Info("map loaded", "build", buildID, "grid", grid)
	} else {
		gen.Seed = *seed
		gen.Width, gen.Height = *width, *height
		gen.Rivers = *rivers
		grid, store = world.Generate(gen)
		for t, n := range world.TerrainCounts(grid) {
			slog.Info("terrain", "type", t, "count", n)
		}
		buildID, err = db.SaveGrid(grid, store, *seed)
		if err != nil {
			slog.Error("failed to save map", "error", err)
			os.Exit(1)
		}
		slog.Info("map generated", "build", buildID, "grid", grid, "river_edges", len(store.Segments()))
	}

	// ── Triangulation ─────────────────────────────────────────────────
	cfg := metrics.DefaultConfig()
	cfg.NoiseSeed = *seed
	tr := triangulate.New(cfg, grid, store)
	stats, err := tr.TriangulateAll()
	if err != nil {
		slog.Error("triangulation failed", "error", err)
		os.Exit(1)
	}

	var meshBytes uint64
	for _, ch := range tr.Chunks() {
		if err := db.SaveChunkMesh(buildID, ch); err != nil {
			slog.Error("failed to save chunk", "chunk", ch.ID, "error", err)
			os.Exit(1)
		}
		enc, _ := ch.Encode()
		for _, b := range enc {
			meshBytes += uint64(len(b))
		}
	}
	if err := db.SetTriangles(buildID, stats.TotalTriangles()); err != nil {
		slog.Error("failed to record triangle count", "error", err)
	}
	db.SaveMeta("last_build", buildID)

	slog.Info("triangulated",
		"chunks", len(tr.Chunks()),
		"triangles", humanize.Comma(int64(stats.TotalTriangles())),
		"mesh", humanize.Bytes(meshBytes),
		"skipped", stats.Skipped,
	)
	slog.Debug("corner cases", "stats", stats.String())

	// ── Decorations & preview ─────────────────────────────────────────
	decos := world.PlaceDecorations(grid, store, cfg, *seed)
	slog.Info("decorations placed", "count", humanize.Comma(int64(len(decos))))

	if *svgPath != "" {
		os.MkdirAll(filepath.Dir(*svgPath), 0755)
		f, err := os.Create(*svgPath)
		if err != nil {
			slog.Error("failed to create preview", "error", err)
			os.Exit(1)
		}
		if err := preview.Render(f, tr.Chunks(), decos, preview.DefaultOptions()); err != nil {
			slog.Error("failed to render preview", "error", err)
		}
		if err := f.Close(); err != nil {
			slog.Error("failed to write preview", "error", err)
		}
		slog.Info("preview written", "path", *svgPath)
	}

	fmt.Printf("\nBuild %s: %d cells, %s triangles in %d chunks.\n",
		buildID, grid.CellCount(), humanize.Comma(int64(stats.TotalTriangles())), len(tr.Chunks()))
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
