package world

import (
	"fmt"
	"sort"

	"github.com/talgya/hexmesh/internal/hex"
)

// Flow is the direction water runs along a river edge, seen from the cell
// that owns the entry. Clockwise runs from corner d to corner d+1 of the edge
// in direction d.
type Flow uint8

const (
	Clockwise Flow = iota
	Counterclockwise
)

// Opposite returns the flow as seen from the cell across the edge.
func (f Flow) Opposite() Flow {
	if f == Clockwise {
		return Counterclockwise
	}
	return Clockwise
}

func (f Flow) String() string {
	if f == Clockwise {
		return "Clockwise"
	}
	return "Counterclockwise"
}

// Segment is one river edge, reported from the side of Cell.
type Segment struct {
	Cell      hex.Coord     `json:"cell"`
	Direction hex.Direction `json:"direction"`
	Flow      Flow          `json:"flow"`
}

type riverSlot struct {
	present bool
	flow    Flow
}

// RiverStore tracks, per cell and edge direction, whether a river runs along
// the edge and which way it flows. Every entry has a mirror on the neighbour
// across the edge with the opposite flow.
//
// Mutators check their Can* predicate and refuse with an error instead of
// leaving a corner in an inconsistent state. On success they return the
// cells whose geometry must be rebuilt.
type RiverStore struct {
	grid  *Grid
	slots [][hex.DirectionCount]riverSlot
	count int
}

// NewRiverStore creates an empty store for the grid.
func NewRiverStore(g *Grid) *RiverStore {
	return &RiverStore{
		grid:  g,
		slots: make([][hex.DirectionCount]riverSlot, g.CellCount()),
	}
}

// Grid returns the grid the store belongs to.
func (s *RiverStore) Grid() *Grid {
	return s.grid
}

// HasRiver reports whether any edge of the cell carries a river.
func (s *RiverStore) HasRiver(c *Cell) bool {
	if c == nil {
		return false
	}
	for _, slot := range s.slots[c.Index] {
		if slot.present {
			return true
		}
	}
	return false
}

// HasRiverOnEdge reports whether a river runs along the edge of c in
// direction d.
func (s *RiverStore) HasRiverOnEdge(c *Cell, d hex.Direction) bool {
	if c == nil {
		return false
	}
	return s.slots[c.Index][d].present
}

// Flow returns the flow of the river on the edge, and false if there is none.
func (s *RiverStore) Flow(c *Cell, d hex.Direction) (Flow, bool) {
	if c == nil {
		return Clockwise, false
	}
	slot := s.slots[c.Index][d]
	return slot.flow, slot.present
}

// RiverCount returns the number of river edges.
func (s *RiverStore) RiverCount() int {
	return s.count
}

// RiverEdgeCount returns the number of river edges around the cell.
func (s *RiverStore) RiverEdgeCount(c *Cell) int {
	n := 0
	for _, slot := range s.slots[c.Index] {
		if slot.present {
			n++
		}
	}
	return n
}

// Rivers returns the river edges of one cell in direction order.
func (s *RiverStore) Rivers(c *Cell) []Segment {
	var result []Segment
	for _, d := range hex.Directions {
		if slot := s.slots[c.Index][d]; slot.present {
			result = append(result, Segment{Cell: c.Coord, Direction: d, Flow: slot.flow})
		}
	}
	return result
}

// Segments lists every river edge once, from the side whose direction is
// NE, E or SE, in cell index order.
func (s *RiverStore) Segments() []Segment {
	result := make([]Segment, 0, s.count)
	for _, c := range s.grid.Cells() {
		for _, d := range []hex.Direction{hex.NE, hex.E, hex.SE} {
			if slot := s.slots[c.Index][d]; slot.present {
				result = append(result, Segment{Cell: c.Coord, Direction: d, Flow: slot.flow})
			}
		}
	}
	return result
}

// CanAddRiver reports why a river cannot be added, or nil if it can.
func (s *RiverStore) CanAddRiver(c *Cell, d hex.Direction, f Flow) error {
	n := s.grid.Neighbor(c, d)
	if n == nil {
		return fmt.Errorf("add river %s %s: %w", c, d, ErrNoNeighbor)
	}
	if c.IsWater() || n.IsWater() {
		return fmt.Errorf("add river %s %s: %w", c, d, ErrWaterCell)
	}
	if s.slots[c.Index][d].present {
		return fmt.Errorf("add river %s %s: %w", c, d, ErrRiverExists)
	}
	s.set(c, n, d, f)
	ok := s.edgeCornersValid(c, d)
	s.clear(c, n, d)
	if !ok {
		return fmt.Errorf("add river %s %s %s: %w", c, d, f, ErrCornerFlow)
	}
	return nil
}

// AddRiver places a river on the edge of c in direction d.
func (s *RiverStore) AddRiver(c *Cell, d hex.Direction, f Flow) ([]*Cell, error) {
	if err := s.CanAddRiver(c, d, f); err != nil {
		return nil, err
	}
	n := s.grid.Neighbor(c, d)
	s.set(c, n, d, f)
	return s.edgeRefresh(c, d), nil
}

// CanRemoveRiver reports why the river on the edge cannot be removed, or nil.
// Removing one edge of a confluence can leave two rivers that both enter or
// both leave the corner, which is refused.
func (s *RiverStore) CanRemoveRiver(c *Cell, d hex.Direction) error {
	if c == nil || !s.slots[c.Index][d].present {
		return fmt.Errorf("remove river %s %s: %w", c, d, ErrNoRiver)
	}
	n := s.grid.Neighbor(c, d)
	f := s.slots[c.Index][d].flow
	s.clear(c, n, d)
	ok := s.edgeCornersValid(c, d)
	s.set(c, n, d, f)
	if !ok {
		return fmt.Errorf("remove river %s %s: %w", c, d, ErrCornerFlow)
	}
	return nil
}

// RemoveRiver removes the river on the edge of c in direction d.
func (s *RiverStore) RemoveRiver(c *Cell, d hex.Direction) ([]*Cell, error) {
	if err := s.CanRemoveRiver(c, d); err != nil {
		return nil, err
	}
	s.clear(c, s.grid.Neighbor(c, d), d)
	return s.edgeRefresh(c, d), nil
}

// RemoveAllRivers strips every river edge of the cell. Each corner of the
// cell keeps at most one river edge afterwards, so no corner can be left
// inconsistent.
func (s *RiverStore) RemoveAllRivers(c *Cell) []*Cell {
	var refresh []*Cell
	for _, d := range hex.Directions {
		if !s.slots[c.Index][d].present {
			continue
		}
		s.clear(c, s.grid.Neighbor(c, d), d)
		refresh = appendUnique(refresh, s.edgeRefresh(c, d)...)
	}
	return refresh
}

// Load replaces the store contents with the given segments, validating every
// corner once all are placed.
func (s *RiverStore) Load(segments []Segment) error {
	for i := range s.slots {
		s.slots[i] = [hex.DirectionCount]riverSlot{}
	}
	s.count = 0
	for _, seg := range segments {
		c := s.grid.CellAt(seg.Cell)
		if c == nil {
			return fmt.Errorf("load river %s: %w", seg.Cell, ErrOutOfBounds)
		}
		n := s.grid.Neighbor(c, seg.Direction)
		if n == nil {
			return fmt.Errorf("load river %s %s: %w", c, seg.Direction, ErrNoNeighbor)
		}
		if s.slots[c.Index][seg.Direction].present {
			return fmt.Errorf("load river %s %s: %w", c, seg.Direction, ErrRiverExists)
		}
		s.set(c, n, seg.Direction, seg.Flow)
	}
	for _, c := range s.grid.Cells() {
		for _, d := range hex.Directions {
			if !s.cornerValid(c, d) {
				return fmt.Errorf("load rivers at %s corner %d: %w", c, d, ErrCornerFlow)
			}
		}
	}
	return nil
}

// FlowsIntoCorner reports whether the river on edge (c, d) runs into the
// corner where the edge meets corner k of c. k must be d or d+1.
func FlowsIntoCorner(f Flow, d, k hex.Direction) bool {
	endsAtCorner := k == d.Next()
	return (f == Clockwise) == endsAtCorner
}

func (s *RiverStore) set(c, n *Cell, d hex.Direction, f Flow) {
	if !s.slots[c.Index][d].present {
		s.count++
	}
	s.slots[c.Index][d] = riverSlot{present: true, flow: f}
	s.slots[n.Index][d.Opposite()] = riverSlot{present: true, flow: f.Opposite()}
}

func (s *RiverStore) clear(c, n *Cell, d hex.Direction) {
	if s.slots[c.Index][d].present {
		s.count--
	}
	s.slots[c.Index][d] = riverSlot{}
	if n != nil {
		s.slots[n.Index][d.Opposite()] = riverSlot{}
	}
}

func (s *RiverStore) edgeCornersValid(c *Cell, d hex.Direction) bool {
	return s.cornerValid(c, d) && s.cornerValid(c, d.Next())
}

// cornerValid checks the hex vertex at corner k of c. Three edges meet there:
// (c, k-1) ending at it, (c, k) starting at it and the edge between the two
// neighbours, which is (neighbor(c, k-1), k+1) ending at it. With two or more
// rivers present, at least one must enter and one must leave.
func (s *RiverStore) cornerValid(c *Cell, k hex.Direction) bool {
	in, out := 0, 0
	tally := func(cell *Cell, d hex.Direction, endsAtCorner bool) {
		if cell == nil {
			return
		}
		slot := s.slots[cell.Index][d]
		if !slot.present {
			return
		}
		if (slot.flow == Clockwise) == endsAtCorner {
			in++
		} else {
			out++
		}
	}
	tally(c, k.Previous(), true)
	tally(c, k, false)
	tally(s.grid.Neighbor(c, k.Previous()), k.Next(), true)
	if in+out < 2 {
		return true
	}
	return in > 0 && out > 0
}

// edgeRefresh returns the two cells of the edge and the two cells that share
// its end corners.
func (s *RiverStore) edgeRefresh(c *Cell, d hex.Direction) []*Cell {
	return appendUnique(nil,
		c,
		s.grid.Neighbor(c, d),
		s.grid.Neighbor(c, d.Previous()),
		s.grid.Neighbor(c, d.Next()),
	)
}

// appendUnique appends the non-nil cells not already present.
func appendUnique(dst []*Cell, cells ...*Cell) []*Cell {
	for _, c := range cells {
		if c == nil {
			continue
		}
		dup := false
		for _, e := range dst {
			if e == c {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, c)
		}
	}
	return dst
}

// SortByIndex orders a refresh set by cell index.
func SortByIndex(cells []*Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Index < cells[j].Index })
}
