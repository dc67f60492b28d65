package metrics

import (
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/hex"
)

const outerToInner = 0.866025404

// corners of a pointy-top hex with unit outer radius, clockwise from north.
// The edge in direction d runs from corner d to corner d+1.
var corners = [hex.DirectionCount + 1]r3.Vector{
	{X: 0, Y: 0, Z: 1},
	{X: outerToInner, Y: 0, Z: 0.5},
	{X: outerToInner, Y: 0, Z: -0.5},
	{X: 0, Y: 0, Z: -1},
	{X: -outerToInner, Y: 0, Z: -0.5},
	{X: -outerToInner, Y: 0, Z: 0.5},
	{X: 0, Y: 0, Z: 1},
}

// CellCenter returns the world position of a cell centre at height zero.
func (c Config) CellCenter(coord hex.Coord) r3.Vector {
	return r3.Vector{
		X: (float64(coord.X) + float64(coord.Z)*0.5) * 2 * c.InnerRadius(),
		Y: 0,
		Z: float64(coord.Z) * 1.5 * c.OuterRadius,
	}
}

// FirstCorner is the corner where the edge in direction d starts.
func (c Config) FirstCorner(d hex.Direction) r3.Vector {
	return corners[d].Mul(c.OuterRadius)
}

// SecondCorner is the corner where the edge in direction d ends.
func (c Config) SecondCorner(d hex.Direction) r3.Vector {
	return corners[d+1].Mul(c.OuterRadius)
}

// FirstSolidCorner is FirstCorner pulled in to the solid region.
func (c Config) FirstSolidCorner(d hex.Direction) r3.Vector {
	return corners[d].Mul(c.OuterRadius * c.SolidFactor)
}

// SecondSolidCorner is SecondCorner pulled in to the solid region.
func (c Config) SecondSolidCorner(d hex.Direction) r3.Vector {
	return corners[d+1].Mul(c.OuterRadius * c.SolidFactor)
}

// Bridge is the offset from a cell's solid edge to its neighbour's solid
// edge in direction d.
func (c Config) Bridge(d hex.Direction) r3.Vector {
	return corners[d].Add(corners[d+1]).Mul(c.OuterRadius * c.BlendFactor())
}

// TerraceLerp returns the position of terrace step `step` between a and b.
// Horizontal position advances every step; height advances on odd steps.
func (c Config) TerraceLerp(a, b r3.Vector, step int) r3.Vector {
	h := float64(step) * c.HorizontalTerraceStepSize()
	v := float64((step+1)/2) * c.VerticalTerraceStepSize()
	return r3.Vector{
		X: a.X + (b.X-a.X)*h,
		Y: a.Y + (b.Y-a.Y)*v,
		Z: a.Z + (b.Z-a.Z)*h,
	}
}

// TerraceFactor is the horizontal interpolation factor of a terrace step,
// used for blending per-vertex attributes along the stairs.
func (c Config) TerraceFactor(step int) float64 {
	return float64(step) * c.HorizontalTerraceStepSize()
}

// TerraceLerpEdge applies TerraceLerp to every vertex of an edge pair.
func (c Config) TerraceLerpEdge(a, b EdgeVertices, step int) EdgeVertices {
	return EdgeVertices{
		V1: c.TerraceLerp(a.V1, b.V1, step),
		V2: c.TerraceLerp(a.V2, b.V2, step),
		V3: c.TerraceLerp(a.V3, b.V3, step),
		V4: c.TerraceLerp(a.V4, b.V4, step),
		V5: c.TerraceLerp(a.V5, b.V5, step),
	}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b r3.Vector, t float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(t))
}

// LerpXZ interpolates the horizontal components and keeps a's height.
func LerpXZ(a, b r3.Vector, t float64) r3.Vector {
	return r3.Vector{X: a.X + (b.X-a.X)*t, Y: a.Y, Z: a.Z + (b.Z-a.Z)*t}
}

// Midpoint is the average of a and b.
func Midpoint(a, b r3.Vector) r3.Vector {
	return a.Add(b).Mul(0.5)
}

// WithY returns v at height y.
func WithY(v r3.Vector, y float64) r3.Vector {
	v.Y = y
	return v
}
