// Decoration placement: instanced props scattered over committed cells.
// Runs after triangulation and reads only cell state, never mesh buffers.
package world

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/metrics"
)

// DecorationKind selects the instanced model.
type DecorationKind uint8

const (
	DecorationTree DecorationKind = iota
	DecorationPalm
	DecorationRock
	DecorationReed
	DecorationRuin
)

func (k DecorationKind) String() string {
	switch k {
	case DecorationTree:
		return "Tree"
	case DecorationPalm:
		return "Palm"
	case DecorationRock:
		return "Rock"
	case DecorationReed:
		return "Reed"
	case DecorationRuin:
		return "Ruin"
	default:
		return "Unknown"
	}
}

// Decoration is one placed prop.
type Decoration struct {
	Kind     DecorationKind `json:"kind"`
	Cell     int            `json:"cell"`
	Position r3.Vector      `json:"position"`
	Rotation float64        `json:"rotation"` // Radians around +Y
	Scale    float64        `json:"scale"`
}

// PlaceDecorations scatters props over the grid. Positions are hashed from
// the seed and cell coordinate, so the same map always decorates the same way.
func PlaceDecorations(g *Grid, rivers *RiverStore, cfg metrics.Config, seed int64) []Decoration {
	var result []Decoration
	s := uint32(seed) ^ uint32(seed>>32)

	for _, c := range g.Cells() {
		if c.IsWater() {
			continue
		}
		kind, count := decorationDensity(c)
		if rivers.HasRiver(c) && count > 1 {
			count-- // Leave room for the banks.
		}
		for i := 0; i < count; i++ {
			result = append(result, place(c, cfg, s, uint32(i), kind, 0.6))
		}
		switch c.Feature {
		case FeatureRuins:
			d := place(c, cfg, s, 100, DecorationRuin, 0.1)
			result = append(result, d)
		case FeatureOasis:
			// Palms ring the pool.
			for i := 0; i < 3; i++ {
				d := place(c, cfg, s, 200+uint32(i), DecorationPalm, 0)
				angle := float64(i)*2*math.Pi/3 + d.Rotation
				r := cfg.OuterRadius * cfg.SolidFactor * (cfg.OasisRadius + 0.1)
				d.Position.X += math.Cos(angle) * r
				d.Position.Z += math.Sin(angle) * r
				result = append(result, d)
			}
		}
	}
	return result
}

// decorationDensity picks the prop type and count from vegetation and shape.
func decorationDensity(c *Cell) (DecorationKind, int) {
	switch c.Vegetation {
	case VegetationForest:
		return DecorationTree, 3
	case VegetationJungle:
		return DecorationPalm, 4
	case VegetationMarsh:
		return DecorationReed, 3
	}
	switch c.Shape {
	case ShapeMountains:
		return DecorationRock, 2
	case ShapeHills:
		return DecorationRock, 1
	}
	return DecorationTree, 0
}

// place hashes a position inside the cell's solid region, within spread of
// the solid radius from the centre.
func place(c *Cell, cfg metrics.Config, seed, salt uint32, kind DecorationKind, spread float64) Decoration {
	x, z := int32(c.Coord.X), int32(c.Coord.Z)
	angle := metrics.HashFloat(seed, x, z, salt*4) * 2 * math.Pi
	dist := math.Sqrt(metrics.HashFloat(seed, x, z, salt*4+1)) * spread * cfg.OuterRadius * cfg.SolidFactor

	pos := cfg.CellCenter(c.Coord)
	pos.X += math.Cos(angle) * dist
	pos.Z += math.Sin(angle) * dist
	// Props sit on the rim level; hills rise towards the peak near the centre.
	pos.Y = cfg.ElevationY(c.EdgeElevation())
	if c.PeakElevation() > c.EdgeElevation() && spread > 0 {
		t := 1 - dist/(cfg.OuterRadius*cfg.SolidFactor)
		pos.Y += t * cfg.ElevationY(c.PeakElevation()-c.EdgeElevation())
	}

	return Decoration{
		Kind:     kind,
		Cell:     c.Index,
		Position: pos,
		Rotation: metrics.HashFloat(seed, x, z, salt*4+2) * 2 * math.Pi,
		Scale:    0.8 + 0.4*metrics.HashFloat(seed, x, z, salt*4+3),
	}
}
