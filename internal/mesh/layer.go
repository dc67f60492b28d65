// Package mesh accumulates triangulated geometry into named per-layer
// buffers. A Chunk owns one Layer per visual layer; triangulators append to
// them between Clear and Commit.
package mesh

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// LayerID names a visual layer.
type LayerID uint8

const (
	LayerTerrain LayerID = iota
	LayerRivers
	LayerRoads
	LayerCulture
	LayerWater
	LayerShore
	LayerEstuary
	LayerMarsh
	LayerFloodPlains
	LayerOasis
	LayerCount // Sentinel
)

// LayerIDs lists every layer in buffer order.
var LayerIDs = func() []LayerID {
	ids := make([]LayerID, LayerCount)
	for i := range ids {
		ids[i] = LayerID(i)
	}
	return ids
}()

func (l LayerID) String() string {
	switch l {
	case LayerTerrain:
		return "terrain"
	case LayerRivers:
		return "rivers"
	case LayerRoads:
		return "roads"
	case LayerCulture:
		return "culture"
	case LayerWater:
		return "water"
	case LayerShore:
		return "shore"
	case LayerEstuary:
		return "estuary"
	case LayerMarsh:
		return "marsh"
	case LayerFloodPlains:
		return "flood_plains"
	case LayerOasis:
		return "oasis"
	default:
		return "unknown"
	}
}

// UV is a texture coordinate pair.
type UV struct {
	U, V float32
}

// Weights is a per-vertex blend triple: how much each of up to three owning
// cells contributes to the vertex's appearance.
type Weights [3]float32

// The pure weights of the first, second and third owning cell.
var (
	Weights1 = Weights{1, 0, 0}
	Weights2 = Weights{0, 1, 0}
	Weights3 = Weights{0, 0, 1}
)

// LerpWeights interpolates two weight triples.
func LerpWeights(a, b Weights, t float64) Weights {
	tt := float32(t)
	return Weights{
		a[0] + (b[0]-a[0])*tt,
		a[1] + (b[1]-a[1])*tt,
		a[2] + (b[2]-a[2])*tt,
	}
}

// CellIndices tags a vertex with the dense indices of up to three cells.
type CellIndices [3]int32

// Vertex is one emitted vertex with all optional attributes. A layer keeps
// only the attributes it was created with.
type Vertex struct {
	Position r3.Vector
	Weights  Weights
	Cells    CellIndices
	UV       UV
	UV2      UV
	UV3      UV
}

// Layer is the buffer set of one visual layer.
type Layer struct {
	ID     LayerID
	UseUV  bool
	UseUV2 bool
	UseUV3 bool

	Positions []r3.Vector
	Weights   []Weights
	Cells     []CellIndices
	UV        []UV
	UV2       []UV
	UV3       []UV
	Triangles []int32
}

// NewLayer creates an empty layer with the given attribute set.
func NewLayer(id LayerID, uv, uv2, uv3 bool) *Layer {
	return &Layer{ID: id, UseUV: uv, UseUV2: uv2, UseUV3: uv3}
}

// Clear drops all geometry but keeps the attribute set.
func (l *Layer) Clear() {
	l.Positions = l.Positions[:0]
	l.Weights = l.Weights[:0]
	l.Cells = l.Cells[:0]
	l.UV = l.UV[:0]
	l.UV2 = l.UV2[:0]
	l.UV3 = l.UV3[:0]
	l.Triangles = l.Triangles[:0]
}

func (l *Layer) addVertex(v Vertex) int32 {
	idx := int32(len(l.Positions))
	l.Positions = append(l.Positions, v.Position)
	l.Weights = append(l.Weights, v.Weights)
	l.Cells = append(l.Cells, v.Cells)
	if l.UseUV {
		l.UV = append(l.UV, v.UV)
	}
	if l.UseUV2 {
		l.UV2 = append(l.UV2, v.UV2)
	}
	if l.UseUV3 {
		l.UV3 = append(l.UV3, v.UV3)
	}
	return idx
}

// AddTriangle appends one triangle. Vertices are given clockwise as seen
// from above.
func (l *Layer) AddTriangle(a, b, c Vertex) {
	ia := l.addVertex(a)
	ib := l.addVertex(b)
	ic := l.addVertex(c)
	l.Triangles = append(l.Triangles, ia, ib, ic)
}

// AddQuad appends the quad v1-v2 (near side) / v3-v4 (far side) as the
// triangles (v1,v3,v2) and (v2,v3,v4).
func (l *Layer) AddQuad(v1, v2, v3, v4 Vertex) {
	i1 := l.addVertex(v1)
	i2 := l.addVertex(v2)
	i3 := l.addVertex(v3)
	i4 := l.addVertex(v4)
	l.Triangles = append(l.Triangles, i1, i3, i2, i2, i3, i4)
}

// TriangleCount returns the number of triangles in the layer.
func (l *Layer) TriangleCount() int {
	return len(l.Triangles) / 3
}

// VertexCount returns the number of vertices in the layer.
func (l *Layer) VertexCount() int {
	return len(l.Positions)
}

// Validate checks that every attribute buffer is aligned with the vertices
// and that every index is in range.
func (l *Layer) Validate() error {
	n := len(l.Positions)
	if len(l.Weights) != n || len(l.Cells) != n {
		return fmt.Errorf("layer %s: %d positions, %d weights, %d cell tags", l.ID, n, len(l.Weights), len(l.Cells))
	}
	check := func(name string, use bool, buf []UV) error {
		want := 0
		if use {
			want = n
		}
		if len(buf) != want {
			return fmt.Errorf("layer %s: %s has %d entries, want %d", l.ID, name, len(buf), want)
		}
		return nil
	}
	if err := check("uv", l.UseUV, l.UV); err != nil {
		return err
	}
	if err := check("uv2", l.UseUV2, l.UV2); err != nil {
		return err
	}
	if err := check("uv3", l.UseUV3, l.UV3); err != nil {
		return err
	}
	if len(l.Triangles)%3 != 0 {
		return fmt.Errorf("layer %s: %d indices is not a multiple of 3", l.ID, len(l.Triangles))
	}
	for _, idx := range l.Triangles {
		if idx < 0 || int(idx) >= n {
			return fmt.Errorf("layer %s: index %d out of range", l.ID, idx)
		}
	}
	return nil
}
