package world

import (
	"fmt"

	"github.com/talgya/hexmesh/internal/hex"
)

// Editor applies attribute changes to cells and cascades the corrections that
// keep every cell consistent. Each command returns the cells whose geometry
// must be rebuilt; the caller decides when to re-triangulate them.
type Editor struct {
	Grid   *Grid
	Rivers *RiverStore
}

// NewEditor creates an editor over a grid and its river store.
func NewEditor(g *Grid, rivers *RiverStore) *Editor {
	return &Editor{Grid: g, Rivers: rivers}
}

// SetTerrain changes the terrain type. Turning a cell into water strips its
// rivers, roads, vegetation and feature; neighbours left without a river lose
// their flood plains.
func (e *Editor) SetTerrain(c *Cell, t Terrain) []*Cell {
	refresh := e.around(c)
	c.Terrain = t
	if t.IsWater() {
		touched := e.Rivers.RemoveAllRivers(c)
		e.dropDryFloodPlains(touched...)
		refresh = appendUnique(refresh, touched...)
		e.stripRoads(c)
		c.Vegetation = VegetationNone
		c.Feature = FeatureNone
		return refresh
	}
	if c.Feature == FeatureOasis && t != TerrainDesert {
		c.Feature = FeatureNone
	}
	return refresh
}

// SetShape changes the relief. Mountains carry no roads, and the changed edge
// elevation may turn neighbouring road edges into cliffs.
func (e *Editor) SetShape(c *Cell, s Shape) []*Cell {
	c.Shape = s
	if s == ShapeMountains {
		e.stripRoads(c)
		if c.Feature == FeatureOasis {
			c.Feature = FeatureNone
		}
	}
	e.revalidateRoads(c)
	return e.around(c)
}

// SetElevation changes the foundation level and drops roads that end up
// crossing a cliff.
func (e *Editor) SetElevation(c *Cell, elevation int) []*Cell {
	c.Elevation = elevation
	e.revalidateRoads(c)
	return e.around(c)
}

// SetVegetation changes the ground cover. Water carries none, and flood
// plains need a river on the cell.
func (e *Editor) SetVegetation(c *Cell, v Vegetation) ([]*Cell, error) {
	if v != VegetationNone && c.IsWater() {
		return nil, fmt.Errorf("set vegetation %s on %s: %w", v, c, ErrWaterCell)
	}
	if v == VegetationFloodPlains && !e.Rivers.HasRiver(c) {
		return nil, fmt.Errorf("set vegetation %s on %s: %w", v, c, ErrNoRiver)
	}
	c.Vegetation = v
	return e.around(c), nil
}

// SetFeature places a landmark. Oases need flat desert; ruins need land.
func (e *Editor) SetFeature(c *Cell, f Feature) ([]*Cell, error) {
	switch f {
	case FeatureOasis:
		if c.Terrain != TerrainDesert || c.Shape != ShapeFlat {
			return nil, fmt.Errorf("set feature %s on %s: %w", f, c, ErrFeatureNotValid)
		}
	case FeatureRuins:
		if c.IsWater() {
			return nil, fmt.Errorf("set feature %s on %s: %w", f, c, ErrWaterCell)
		}
	}
	c.Feature = f
	return e.around(c), nil
}

// SetOwner assigns the cell to a territory; 0 clears it.
func (e *Editor) SetOwner(c *Cell, owner int) []*Cell {
	c.Owner = owner
	return e.around(c)
}

// CanAddRoad reports why a road cannot cross the edge, or nil if it can.
func (e *Editor) CanAddRoad(c *Cell, d hex.Direction) error {
	n := e.Grid.Neighbor(c, d)
	if n == nil {
		return fmt.Errorf("add road %s %s: %w", c, d, ErrNoNeighbor)
	}
	if !e.roadAllowed(c, n, d) {
		return fmt.Errorf("add road %s %s: %w", c, d, ErrRoadNotAllowed)
	}
	return nil
}

// AddRoad connects the cell with its neighbour in direction d.
func (e *Editor) AddRoad(c *Cell, d hex.Direction) ([]*Cell, error) {
	if err := e.CanAddRoad(c, d); err != nil {
		return nil, err
	}
	n := e.Grid.Neighbor(c, d)
	c.Roads[d] = true
	n.Roads[d.Opposite()] = true
	return appendUnique(e.around(c), e.around(n)...), nil
}

// RemoveRoad removes the road across the edge, if any.
func (e *Editor) RemoveRoad(c *Cell, d hex.Direction) []*Cell {
	n := e.Grid.Neighbor(c, d)
	c.Roads[d] = false
	if n != nil {
		n.Roads[d.Opposite()] = false
		return appendUnique(e.around(c), e.around(n)...)
	}
	return e.around(c)
}

// AddRiver places a river and removes any road it cuts.
func (e *Editor) AddRiver(c *Cell, d hex.Direction, f Flow) ([]*Cell, error) {
	refresh, err := e.Rivers.AddRiver(c, d, f)
	if err != nil {
		return nil, err
	}
	if c.Roads[d] {
		refresh = appendUnique(refresh, e.RemoveRoad(c, d)...)
	}
	return refresh, nil
}

// RemoveRiver removes a river; cells left without any river lose their
// flood plains.
func (e *Editor) RemoveRiver(c *Cell, d hex.Direction) ([]*Cell, error) {
	n := e.Grid.Neighbor(c, d)
	refresh, err := e.Rivers.RemoveRiver(c, d)
	if err != nil {
		return nil, err
	}
	e.dropDryFloodPlains(c, n)
	return refresh, nil
}

// dropDryFloodPlains clears flood plains from cells without any river.
func (e *Editor) dropDryFloodPlains(cells ...*Cell) {
	for _, c := range cells {
		if c != nil && c.Vegetation == VegetationFloodPlains && !e.Rivers.HasRiver(c) {
			c.Vegetation = VegetationNone
		}
	}
}

// roadAllowed: both sides land, neither is a mountain, no river on the edge
// and at most one level of difference.
func (e *Editor) roadAllowed(c, n *Cell, d hex.Direction) bool {
	if c.IsWater() || n.IsWater() {
		return false
	}
	if c.Shape == ShapeMountains || n.Shape == ShapeMountains {
		return false
	}
	if e.Rivers.HasRiverOnEdge(c, d) {
		return false
	}
	diff := c.EdgeElevation() - n.EdgeElevation()
	return diff >= -1 && diff <= 1
}

func (e *Editor) stripRoads(c *Cell) {
	for _, d := range hex.Directions {
		if c.Roads[d] {
			e.RemoveRoad(c, d)
		}
	}
}

func (e *Editor) revalidateRoads(c *Cell) {
	for _, d := range hex.Directions {
		if !c.Roads[d] {
			continue
		}
		if n := e.Grid.Neighbor(c, d); n == nil || !e.roadAllowed(c, n, d) {
			e.RemoveRoad(c, d)
		}
	}
}

// around returns the cell and its neighbours.
func (e *Editor) around(c *Cell) []*Cell {
	refresh := []*Cell{c}
	for _, d := range hex.Directions {
		refresh = appendUnique(refresh, e.Grid.Neighbor(c, d))
	}
	return refresh
}
