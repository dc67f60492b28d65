// Package hex provides the cube coordinate system of the pointy-top hex grid.
// Only x and z are stored; the third cube coordinate y is derived: y = -x - z.
package hex

import "fmt"

// Coord is a cube coordinate on the hex grid.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Offsets holds the cube offset of the neighbour in each direction.
var Offsets = [DirectionCount]Coord{
	NE: {X: 0, Z: 1},
	E:  {X: 1, Z: 0},
	SE: {X: 1, Z: -1},
	SW: {X: 0, Z: -1},
	W:  {X: -1, Z: 0},
	NW: {X: -1, Z: 1},
}

// Y returns the implicit third cube coordinate.
func (c Coord) Y() int {
	return -c.X - c.Z
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Z: c.Z + o.Z}
}

// Scale multiplies both stored components by k.
func (c Coord) Scale(k int) Coord {
	return Coord{X: c.X * k, Z: c.Z * k}
}

// Neighbor returns the adjacent coordinate in direction d.
func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(Offsets[d])
}

// Neighbors returns the six adjacent coordinates in direction order.
func (c Coord) Neighbors() [DirectionCount]Coord {
	var result [DirectionCount]Coord
	for i, off := range Offsets {
		result[i] = c.Add(off)
	}
	return result
}

// DirectionTo returns the direction from c to an adjacent coordinate.
func (c Coord) DirectionTo(o Coord) (Direction, bool) {
	for _, d := range Directions {
		if c.Neighbor(d) == o {
			return d, true
		}
	}
	return 0, false
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y() - b.Y())
	dz := abs(a.Z - b.Z)
	// Max of the three absolute differences in cube coordinates.
	return max(dx, dy, dz)
}

// Ring returns the coordinates exactly radius steps from center, walking
// clockwise from the west corner. Radius 0 yields the center alone.
func Ring(center Coord, radius int) []Coord {
	if radius <= 0 {
		return []Coord{center}
	}
	result := make([]Coord, 0, DirectionCount*radius)
	c := center.Add(Offsets[W].Scale(radius))
	for _, d := range Directions {
		for i := 0; i < radius; i++ {
			result = append(result, c)
			c = c.Neighbor(d)
		}
	}
	return result
}

// Spiral returns every coordinate within radius of center, ring by ring.
func Spiral(center Coord, radius int) []Coord {
	result := []Coord{center}
	for r := 1; r <= radius; r++ {
		result = append(result, Ring(center, r)...)
	}
	return result
}

// FromOffset converts odd-row offset coordinates to cube coordinates.
func FromOffset(col, row int) Coord {
	return Coord{X: col - floorHalf(row), Z: row}
}

// Offset converts c to odd-row offset coordinates.
func (c Coord) Offset() (col, row int) {
	return c.X + floorHalf(c.Z), c.Z
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y(), c.Z)
}

func floorHalf(v int) int {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
