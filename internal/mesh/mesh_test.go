package mesh

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
)

func vtx(x, z float64) Vertex {
	return Vertex{Position: r3.Vector{X: x, Z: z}, Weights: Weights1, Cells: CellIndices{1, 2, 3}}
}

func TestQuadWinding(t *testing.T) {
	l := NewLayer(LayerTerrain, false, false, false)
	l.AddQuad(vtx(0, 0), vtx(1, 0), vtx(0, 1), vtx(1, 1))
	if l.TriangleCount() != 2 {
		t.Fatalf("quad produced %d triangles", l.TriangleCount())
	}
	want := []int32{0, 2, 1, 1, 2, 3}
	for i, idx := range want {
		if l.Triangles[i] != idx {
			t.Fatalf("indices = %v, want %v", l.Triangles, want)
		}
	}
}

func TestChunkCommitValidatesAlignment(t *testing.T) {
	c := NewChunk(3)
	rivers := c.Layer(LayerRivers)
	rivers.AddTriangle(vtx(0, 0), vtx(0, 1), vtx(1, 0))
	if err := c.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(rivers.UV) != 3 || len(rivers.UV2) != 3 || len(rivers.UV3) != 3 {
		t.Errorf("rivers layer should carry every UV set")
	}
	if len(c.Layer(LayerTerrain).UV) != 0 {
		t.Errorf("terrain layer should not carry UVs")
	}

	rivers.Weights = rivers.Weights[:1]
	if err := c.Commit(); err == nil {
		t.Errorf("Commit accepted misaligned weights")
	}
}

func TestEncodeRequiresCommit(t *testing.T) {
	c := NewChunk(0)
	if _, err := c.Encode(); !errors.Is(err, ErrNotCommitted) {
		t.Errorf("Encode before Commit: %v", err)
	}
}

func TestLayerBinaryRoundTrip(t *testing.T) {
	l := NewLayer(LayerEstuary, true, true, false)
	a, b, c := vtx(0, 0), vtx(0, 1), vtx(1, 0)
	a.UV = UV{0.5, 1}
	b.UV2 = UV{0.25, 0.75}
	l.AddTriangle(a, b, c)

	data, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Layer
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.ID != LayerEstuary || !got.UseUV || !got.UseUV2 || got.UseUV3 {
		t.Errorf("header mismatch: %+v", got)
	}
	if got.UV[0] != a.UV || got.UV2[1] != b.UV2 || got.Cells[2] != c.Cells {
		t.Errorf("attributes did not survive encoding")
	}
	again, _ := got.MarshalBinary()
	if !bytes.Equal(data, again) {
		t.Errorf("re-encoding is not byte identical")
	}
	if err := got.UnmarshalBinary(data[:len(data)-2]); err == nil {
		t.Errorf("truncated data decoded without error")
	}
}

func TestLerpWeights(t *testing.T) {
	w := LerpWeights(Weights1, Weights2, 0.25)
	if w != (Weights{0.75, 0.25, 0}) {
		t.Errorf("LerpWeights = %v", w)
	}
}
