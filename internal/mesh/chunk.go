package mesh

import (
	"errors"
	"fmt"
)

// ErrNotCommitted is returned when reading buffers of a chunk mid-pass.
var ErrNotCommitted = errors.New("chunk not committed")

// layerAttributes lists which optional attributes each layer carries.
var layerAttributes = [LayerCount]struct{ uv, uv2, uv3 bool }{
	LayerTerrain:     {false, false, false},
	LayerRivers:      {true, true, true},
	LayerRoads:       {true, false, false},
	LayerCulture:     {true, false, false},
	LayerWater:       {false, false, false},
	LayerShore:       {true, false, false},
	LayerEstuary:     {true, true, false},
	LayerMarsh:       {true, false, false},
	LayerFloodPlains: {true, false, false},
	LayerOasis:       {true, false, false},
}

// Chunk is the geometry sink of one map chunk.
type Chunk struct {
	ID        int
	layers    [LayerCount]*Layer
	committed bool
}

// NewChunk creates a chunk with every layer empty.
func NewChunk(id int) *Chunk {
	c := &Chunk{ID: id}
	for _, lid := range LayerIDs {
		a := layerAttributes[lid]
		c.layers[lid] = NewLayer(lid, a.uv, a.uv2, a.uv3)
	}
	return c
}

// Layer returns the buffers of one layer.
func (c *Chunk) Layer(id LayerID) *Layer {
	return c.layers[id]
}

// Layers returns all layers in LayerID order.
func (c *Chunk) Layers() []*Layer {
	out := make([]*Layer, 0, LayerCount)
	for _, l := range c.layers {
		out = append(out, l)
	}
	return out
}

// Clear starts a new pass.
func (c *Chunk) Clear() {
	for _, l := range c.layers {
		l.Clear()
	}
	c.committed = false
}

// Commit ends a pass after validating every layer.
func (c *Chunk) Commit() error {
	for _, l := range c.layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("commit chunk %d: %w", c.ID, err)
		}
	}
	c.committed = true
	return nil
}

// Committed reports whether the last pass completed.
func (c *Chunk) Committed() bool {
	return c.committed
}

// TriangleCount sums triangles over all layers.
func (c *Chunk) TriangleCount() int {
	n := 0
	for _, l := range c.layers {
		n += l.TriangleCount()
	}
	return n
}

// Encode serialises every committed layer in LayerID order.
func (c *Chunk) Encode() (map[LayerID][]byte, error) {
	if !c.committed {
		return nil, fmt.Errorf("encode chunk %d: %w", c.ID, ErrNotCommitted)
	}
	out := make(map[LayerID][]byte, LayerCount)
	for _, l := range c.layers {
		b, err := l.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode chunk %d: %w", c.ID, err)
		}
		out[l.ID] = b
	}
	return out, nil
}
