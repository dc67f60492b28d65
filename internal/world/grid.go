package world

import (
	"fmt"

	"github.com/talgya/hexmesh/internal/hex"
)

// Grid is a rectangular block of cells laid out in odd-row offset order and
// split into chunks for triangulation.
type Grid struct {
	Width      int `json:"width"`  // Cells per row
	Height     int `json:"height"` // Rows
	ChunkSizeX int `json:"chunk_size_x"`
	ChunkSizeZ int `json:"chunk_size_z"`

	cells []*Cell
}

// NewGrid creates a grid of flat grassland cells at elevation 0.
// Chunk sizes below 1 are clamped to 1.
func NewGrid(width, height, chunkSizeX, chunkSizeZ int) *Grid {
	g := &Grid{
		Width:      width,
		Height:     height,
		ChunkSizeX: max(chunkSizeX, 1),
		ChunkSizeZ: max(chunkSizeZ, 1),
		cells:      make([]*Cell, 0, width*height),
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			g.cells = append(g.cells, &Cell{
				Coord: hex.FromOffset(col, row),
				Index: len(g.cells),
			})
		}
	}
	return g
}

// InBounds reports whether the coordinate lies inside the grid.
func (g *Grid) InBounds(c hex.Coord) bool {
	col, row := c.Offset()
	return col >= 0 && col < g.Width && row >= 0 && row < g.Height
}

// CellAt returns the cell at a coordinate, or nil outside the grid.
func (g *Grid) CellAt(c hex.Coord) *Cell {
	if !g.InBounds(c) {
		return nil
	}
	col, row := c.Offset()
	return g.cells[row*g.Width+col]
}

// Cell returns the cell with the given dense index, or nil.
func (g *Grid) Cell(index int) *Cell {
	if index < 0 || index >= len(g.cells) {
		return nil
	}
	return g.cells[index]
}

// Cells returns every cell in index order. The slice is shared.
func (g *Grid) Cells() []*Cell {
	return g.cells
}

// CellCount returns the number of cells.
func (g *Grid) CellCount() int {
	return len(g.cells)
}

// Neighbor returns the adjacent cell in direction d, or nil at the border.
func (g *Grid) Neighbor(c *Cell, d hex.Direction) *Cell {
	if c == nil {
		return nil
	}
	return g.CellAt(c.Coord.Neighbor(d))
}

// HasNeighbor reports whether c has an adjacent cell in direction d.
func (g *Grid) HasNeighbor(c *Cell, d hex.Direction) bool {
	return g.Neighbor(c, d) != nil
}

// CellsInRadius returns the cells within radius of center, ring by ring.
// Coordinates outside the grid are skipped.
func (g *Grid) CellsInRadius(center *Cell, radius int) []*Cell {
	return g.collect(hex.Spiral(center.Coord, radius))
}

// CellsInRing returns the cells exactly radius steps from center.
func (g *Grid) CellsInRing(center *Cell, radius int) []*Cell {
	return g.collect(hex.Ring(center.Coord, radius))
}

func (g *Grid) collect(coords []hex.Coord) []*Cell {
	result := make([]*Cell, 0, len(coords))
	for _, c := range coords {
		if cell := g.CellAt(c); cell != nil {
			result = append(result, cell)
		}
	}
	return result
}

// Distance returns the hex distance between two cells.
func (g *Grid) Distance(a, b *Cell) int {
	return hex.Distance(a.Coord, b.Coord)
}

// ChunkCountX returns the number of chunk columns.
func (g *Grid) ChunkCountX() int {
	return (g.Width + g.ChunkSizeX - 1) / g.ChunkSizeX
}

// ChunkCountZ returns the number of chunk rows.
func (g *Grid) ChunkCountZ() int {
	return (g.Height + g.ChunkSizeZ - 1) / g.ChunkSizeZ
}

// ChunkCount returns the total number of chunks.
func (g *Grid) ChunkCount() int {
	return g.ChunkCountX() * g.ChunkCountZ()
}

// ChunkOf returns the chunk id containing the cell.
func (g *Grid) ChunkOf(c *Cell) int {
	col, row := c.Coord.Offset()
	return (row/g.ChunkSizeZ)*g.ChunkCountX() + col/g.ChunkSizeX
}

// ChunkCells returns the cells of one chunk in index order, or nil for an
// unknown chunk id.
func (g *Grid) ChunkCells(chunk int) []*Cell {
	if chunk < 0 || chunk >= g.ChunkCount() {
		return nil
	}
	cx := chunk % g.ChunkCountX()
	cz := chunk / g.ChunkCountX()
	var result []*Cell
	for row := cz * g.ChunkSizeZ; row < min((cz+1)*g.ChunkSizeZ, g.Height); row++ {
		for col := cx * g.ChunkSizeX; col < min((cx+1)*g.ChunkSizeX, g.Width); col++ {
			result = append(result, g.cells[row*g.Width+col])
		}
	}
	return result
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, cells=%d, chunks=%d)", g.Width, g.Height, len(g.cells), g.ChunkCount())
}
