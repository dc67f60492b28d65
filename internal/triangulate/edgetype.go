// Package triangulate turns cell state into mesh geometry: terrain with
// terraces and cliffs, river beds and surfaces, open water, and the overlay
// layers. Every decision starts from the EdgeType of the edges around a
// corner; corner cases dispatch through lookup tables keyed by those types.
package triangulate

import (
	"github.com/talgya/hexmesh/internal/hex"
	"github.com/talgya/hexmesh/internal/world"
)

// EdgeType classifies the boundary between two adjacent cells.
type EdgeType uint8

const (
	EdgeVoid EdgeType = iota
	EdgeFlat
	EdgeSlope
	EdgeCliff
	EdgeRiver
)

func (e EdgeType) String() string {
	switch e {
	case EdgeVoid:
		return "Void"
	case EdgeFlat:
		return "Flat"
	case EdgeSlope:
		return "Slope"
	case EdgeCliff:
		return "Cliff"
	case EdgeRiver:
		return "River"
	default:
		return "Unknown"
	}
}

// Grid is the read-only cell query the triangulators use.
type Grid interface {
	Neighbor(c *world.Cell, d hex.Direction) *world.Cell
	ChunkCount() int
	ChunkCells(chunk int) []*world.Cell
	ChunkOf(c *world.Cell) int
}

// RiverQuery is the read-only river topology query.
type RiverQuery interface {
	HasRiver(c *world.Cell) bool
	HasRiverOnEdge(c *world.Cell, d hex.Direction) bool
	Flow(c *world.Cell, d hex.Direction) (world.Flow, bool)
}

// Classify returns the type of the edge between a and its neighbour b in
// direction d. It is the only place edge types are decided, and it is
// symmetric: Classify(a, d, b) == Classify(b, d.Opposite(), a).
func Classify(a *world.Cell, d hex.Direction, b *world.Cell, rivers RiverQuery) EdgeType {
	if a == nil || b == nil {
		return EdgeVoid
	}
	if rivers != nil && rivers.HasRiverOnEdge(a, d) {
		return EdgeRiver
	}
	if a.IsWater() || b.IsWater() {
		return EdgeFlat
	}
	return elevationEdge(a.EdgeElevation(), b.EdgeElevation())
}

func elevationEdge(a, b int) EdgeType {
	switch diff := a - b; {
	case diff == 0:
		return EdgeFlat
	case diff == 1 || diff == -1:
		return EdgeSlope
	default:
		return EdgeCliff
	}
}
