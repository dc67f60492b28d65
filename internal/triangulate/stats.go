package triangulate

import (
	"fmt"
	"strings"

	"github.com/talgya/hexmesh/internal/mesh"
)

// CornerCase names a construction path taken at a corner.
type CornerCase uint8

const (
	CasePlain CornerCase = iota
	CaseTerraces
	CaseTerracesCliff
	CaseCliffTerraces
	CaseConfluence
	CaseCurveFlat
	CaseCurveSlopeUp
	CaseCurveSlopeDown
	CaseCurveCliff
	CaseEndpoint
	CaseWaterfall
	CaseWaterCorner
	CaseShoreCorner
	CaseEstuary
	caseCount
)

var caseNames = [caseCount]string{
	"plain", "terraces", "terraces_cliff", "cliff_terraces",
	"confluence", "curve_flat", "curve_slope_up", "curve_slope_down", "curve_cliff",
	"endpoint", "waterfall", "water_corner", "shore_corner", "estuary",
}

func (c CornerCase) String() string {
	if c < caseCount {
		return caseNames[c]
	}
	return "unknown"
}

// Stats summarises one chunk pass.
type Stats struct {
	Chunk     int
	Cells     int
	Triangles [mesh.LayerCount]int
	Cases     [caseCount]int
	Skipped   int // Degenerate or unsupported cases left empty
}

// Count returns how often a corner case ran.
func (s *Stats) Count(c CornerCase) int {
	return s.Cases[c]
}

// TotalTriangles sums triangles over all layers.
func (s *Stats) TotalTriangles() int {
	n := 0
	for _, t := range s.Triangles {
		n += t
	}
	return n
}

// Add accumulates another pass into s.
func (s *Stats) Add(o Stats) {
	s.Cells += o.Cells
	for i := range s.Triangles {
		s.Triangles[i] += o.Triangles[i]
	}
	for i := range s.Cases {
		s.Cases[i] += o.Cases[i]
	}
	s.Skipped += o.Skipped
}

func (s *Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "chunk=%d cells=%d triangles=%d", s.Chunk, s.Cells, s.TotalTriangles())
	for i, n := range s.Cases {
		if n > 0 {
			fmt.Fprintf(&b, " %s=%d", CornerCase(i), n)
		}
	}
	if s.Skipped > 0 {
		fmt.Fprintf(&b, " skipped=%d", s.Skipped)
	}
	return b.String()
}
