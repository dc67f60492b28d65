// Package world provides the hex cell model, the grid, and the river topology
// store that the triangulators read.
// Cells are addressed by cube coordinates (see package hex) and by a dense
// index used to tag vertices.
package world

import (
	"fmt"

	"github.com/talgya/hexmesh/internal/hex"
)

// Terrain types for cells.
type Terrain uint8

const (
	TerrainGrassland Terrain = iota
	TerrainPlains
	TerrainDesert
	TerrainTundra
	TerrainSnow
	TerrainCoast // Shallow water
	TerrainOcean // Deep water
)

// IsWater reports whether the terrain is standing water.
func (t Terrain) IsWater() bool {
	return t == TerrainCoast || t == TerrainOcean
}

func (t Terrain) String() string {
	switch t {
	case TerrainGrassland:
		return "Grassland"
	case TerrainPlains:
		return "Plains"
	case TerrainDesert:
		return "Desert"
	case TerrainTundra:
		return "Tundra"
	case TerrainSnow:
		return "Snow"
	case TerrainCoast:
		return "Coast"
	case TerrainOcean:
		return "Ocean"
	default:
		return "Unknown"
	}
}

// Shape is the surface relief of a cell.
type Shape uint8

const (
	ShapeFlat Shape = iota
	ShapeHills
	ShapeMountains
)

// EdgeOffset is added to the foundation elevation at the cell's edges.
func (s Shape) EdgeOffset() int {
	if s == ShapeMountains {
		return 1
	}
	return 0
}

// PeakOffset is added to the foundation elevation at the cell's centre.
func (s Shape) PeakOffset() int {
	switch s {
	case ShapeHills:
		return 1
	case ShapeMountains:
		return 2
	default:
		return 0
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "Flat"
	case ShapeHills:
		return "Hills"
	case ShapeMountains:
		return "Mountains"
	default:
		return "Unknown"
	}
}

// Vegetation covering a cell.
type Vegetation uint8

const (
	VegetationNone Vegetation = iota
	VegetationForest
	VegetationJungle
	VegetationMarsh
	VegetationFloodPlains
)

func (v Vegetation) String() string {
	switch v {
	case VegetationNone:
		return "None"
	case VegetationForest:
		return "Forest"
	case VegetationJungle:
		return "Jungle"
	case VegetationMarsh:
		return "Marsh"
	case VegetationFloodPlains:
		return "FloodPlains"
	default:
		return "Unknown"
	}
}

// Feature is a unique landmark on a cell.
type Feature uint8

const (
	FeatureNone Feature = iota
	FeatureOasis
	FeatureRuins
)

func (f Feature) String() string {
	switch f {
	case FeatureNone:
		return "None"
	case FeatureOasis:
		return "Oasis"
	case FeatureRuins:
		return "Ruins"
	default:
		return "Unknown"
	}
}

// Cell is a single tile of the map. Fields are written by the Editor (which
// keeps them mutually consistent) and by loaders restoring a saved grid.
type Cell struct {
	Coord hex.Coord `json:"coord"`
	Index int       `json:"index"` // Dense slot, used to tag vertices

	Terrain    Terrain    `json:"terrain"`
	Shape      Shape      `json:"shape"`
	Vegetation Vegetation `json:"vegetation"`
	Feature    Feature    `json:"feature"`
	Elevation  int        `json:"elevation"` // Foundation level
	Owner      int        `json:"owner"`     // Territory id, 0 = unclaimed

	Roads [hex.DirectionCount]bool `json:"roads"`
}

// EdgeElevation is the level of the cell's rim.
func (c *Cell) EdgeElevation() int {
	return c.Elevation + c.Shape.EdgeOffset()
}

// PeakElevation is the level of the cell's centre.
func (c *Cell) PeakElevation() int {
	return c.Elevation + c.Shape.PeakOffset()
}

// RequiresPerturbation reports whether vertices of this cell get vertical
// jitter. Only hills do; anything steeper would clip through its slopes.
func (c *Cell) RequiresPerturbation() bool {
	return c.Shape == ShapeHills
}

// IsWater reports whether the cell is standing water.
func (c *Cell) IsWater() bool {
	return c.Terrain.IsWater()
}

// HasRoadThroughEdge reports whether a road leaves the cell in direction d.
func (c *Cell) HasRoadThroughEdge(d hex.Direction) bool {
	return c.Roads[d]
}

// HasRoads reports whether any road touches the cell.
func (c *Cell) HasRoads() bool {
	for _, r := range c.Roads {
		if r {
			return true
		}
	}
	return false
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell#%d%s", c.Index, c.Coord)
}
