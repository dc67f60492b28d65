package triangulate

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/hex"
	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/metrics"
	"github.com/talgya/hexmesh/internal/world"
)

// Triangulator owns one geometry sink per chunk and rebuilds chunks from the
// current cell and river state. Passes are synchronous; the caller must not
// edit cells or rivers while one runs.
type Triangulator struct {
	cfg     metrics.Config
	grid    Grid
	rivers  RiverQuery
	perturb *metrics.Perturber
	chunks  []*mesh.Chunk
}

// New creates a triangulator with an empty chunk for every grid chunk.
func New(cfg metrics.Config, g Grid, rivers RiverQuery) *Triangulator {
	t := &Triangulator{
		cfg:     cfg,
		grid:    g,
		rivers:  rivers,
		perturb: metrics.NewPerturber(cfg),
		chunks:  make([]*mesh.Chunk, g.ChunkCount()),
	}
	for i := range t.chunks {
		t.chunks[i] = mesh.NewChunk(i)
	}
	return t
}

// Config returns the geometry configuration.
func (t *Triangulator) Config() metrics.Config {
	return t.cfg
}

// Chunk returns the geometry sink of a chunk, or nil for an unknown id.
func (t *Triangulator) Chunk(id int) *mesh.Chunk {
	if id < 0 || id >= len(t.chunks) {
		return nil
	}
	return t.chunks[id]
}

// Chunks returns every chunk in id order.
func (t *Triangulator) Chunks() []*mesh.Chunk {
	return t.chunks
}

// TriangulateChunk clears one chunk, regenerates all of its layers and
// commits them.
func (t *Triangulator) TriangulateChunk(id int) (Stats, error) {
	chunk := t.Chunk(id)
	if chunk == nil {
		return Stats{}, fmt.Errorf("triangulate chunk %d: %w", id, world.ErrOutOfBounds)
	}
	chunk.Clear()

	stats := Stats{Chunk: id}
	p := &pass{
		cfg:     &t.cfg,
		grid:    t.grid,
		rivers:  t.rivers,
		perturb: t.perturb,
		chunk:   chunk,
		stats:   &stats,
	}

	cells := t.grid.ChunkCells(id)
	stats.Cells = len(cells)
	contexts := make([]*Context, 0, len(cells)*hex.DirectionCount)
	for _, c := range cells {
		for _, d := range hex.Directions {
			ctx := NewContext(&t.cfg, t.grid, t.rivers, c, d)
			contexts = append(contexts, ctx)
			p.triangulate(ctx)
		}
	}
	// River surfaces go on top once every trough of the chunk exists.
	for _, ctx := range contexts {
		p.triangulateRiverSurface(ctx)
	}

	if err := chunk.Commit(); err != nil {
		return stats, fmt.Errorf("triangulate chunk %d: %w", id, err)
	}
	for _, l := range chunk.Layers() {
		stats.Triangles[l.ID] = l.TriangleCount()
	}
	slog.Debug("chunk triangulated", "chunk", id, "cells", stats.Cells, "triangles", stats.TotalTriangles())
	return stats, nil
}

// TriangulateAll rebuilds every chunk in id order.
func (t *Triangulator) TriangulateAll() (Stats, error) {
	total := Stats{Chunk: -1}
	for id := range t.chunks {
		s, err := t.TriangulateChunk(id)
		if err != nil {
			return total, err
		}
		total.Add(s)
	}
	return total, nil
}

// ChunksFor maps a refresh set to the sorted ids of the chunks to rebuild.
func (t *Triangulator) ChunksFor(cells []*world.Cell) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, c := range cells {
		id := t.grid.ChunkOf(c)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Refresh rebuilds the chunks touched by a refresh set.
func (t *Triangulator) Refresh(cells []*world.Cell) (Stats, error) {
	total := Stats{Chunk: -1}
	for _, id := range t.ChunksFor(cells) {
		s, err := t.TriangulateChunk(id)
		if err != nil {
			return total, err
		}
		total.Add(s)
	}
	return total, nil
}

// pass is the state of one chunk triangulation.
type pass struct {
	cfg     *metrics.Config
	grid    Grid
	rivers  RiverQuery
	perturb *metrics.Perturber
	chunk   *mesh.Chunk
	stats   *Stats
}

// triangulate runs every triangulator on one context in a fixed order.
func (p *pass) triangulate(ctx *Context) {
	p.triangulateTerrain(ctx)
	if shouldTriangulateWater(ctx) {
		p.triangulateWater(ctx)
	}
	if shouldTriangulateCulture(ctx) {
		p.triangulateCulture(ctx)
	}
	if shouldTriangulateRoads(ctx) {
		p.triangulateRoads(ctx)
	}
	if shouldTriangulateMarsh(ctx) {
		p.triangulateMarsh(ctx)
	}
	if shouldTriangulateFloodPlains(ctx) {
		p.triangulateFloodPlains(ctx)
	}
	if shouldTriangulateOasis(ctx) {
		p.triangulateOasis(ctx)
	}
}

func (p *pass) layer(id mesh.LayerID) *mesh.Layer {
	return p.chunk.Layer(id)
}

func (p *pass) count(c CornerCase) {
	p.stats.Cases[c]++
}

// skip records a case that produces no geometry.
func (p *pass) skip(msg string, args ...any) {
	p.stats.Skipped++
	slog.Debug(msg, args...)
}

// jitter perturbs a point owned by cell c. Only hills move vertically; points
// owned by no single cell (nil) move horizontally only.
func (p *pass) jitter(v r3.Vector, c *world.Cell) r3.Vector {
	return p.perturb.Perturb(v, c != nil && c.RequiresPerturbation())
}

func (p *pass) jitterEdge(e metrics.EdgeVertices, c *world.Cell) metrics.EdgeVertices {
	return p.perturb.PerturbEdge(e, c != nil && c.RequiresPerturbation())
}

// vert builds a vertex without texture coordinates.
func vert(pos r3.Vector, w mesh.Weights, tags mesh.CellIndices) mesh.Vertex {
	return mesh.Vertex{Position: pos, Weights: w, Cells: tags}
}

// vertUV builds a vertex with a texture coordinate.
func vertUV(pos r3.Vector, w mesh.Weights, tags mesh.CellIndices, u, v float64) mesh.Vertex {
	return mesh.Vertex{Position: pos, Weights: w, Cells: tags, UV: mesh.UV{U: float32(u), V: float32(v)}}
}
