package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/r3"
)

// Binary layout (little-endian): layer id u8, attribute flags u8, vertex
// count u32, index count u32, then positions (3×f32), weights (3×f32),
// cell tags (3×i32), the enabled UV sets (2×f32 each) and the indices (i32).
const (
	flagUV  = 1 << 0
	flagUV2 = 1 << 1
	flagUV3 = 1 << 2
)

// MarshalBinary encodes the layer deterministically.
func (l *Layer) MarshalBinary() ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	var flags uint8
	if l.UseUV {
		flags |= flagUV
	}
	if l.UseUV2 {
		flags |= flagUV2
	}
	if l.UseUV3 {
		flags |= flagUV3
	}
	w := func(v any) {
		// bytes.Buffer writes never fail.
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	w(uint8(l.ID))
	w(flags)
	w(uint32(len(l.Positions)))
	w(uint32(len(l.Triangles)))
	for _, p := range l.Positions {
		w([3]float32{float32(p.X), float32(p.Y), float32(p.Z)})
	}
	for _, wt := range l.Weights {
		w(wt)
	}
	for _, c := range l.Cells {
		w(c)
	}
	for _, set := range [][]UV{l.UV, l.UV2, l.UV3} {
		for _, uv := range set {
			w(uv)
		}
	}
	w(l.Triangles)
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a layer written by MarshalBinary.
func (l *Layer) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	rd := func(v any) error {
		return binary.Read(r, binary.LittleEndian, v)
	}
	var id, flags uint8
	var nv, ni uint32
	for _, v := range []any{&id, &flags, &nv, &ni} {
		if err := rd(v); err != nil {
			return fmt.Errorf("decode layer header: %w", err)
		}
	}
	if LayerID(id) >= LayerCount {
		return fmt.Errorf("decode layer: unknown layer id %d", id)
	}
	out := Layer{
		ID:        LayerID(id),
		UseUV:     flags&flagUV != 0,
		UseUV2:    flags&flagUV2 != 0,
		UseUV3:    flags&flagUV3 != 0,
		Positions: make([]r3.Vector, nv),
		Weights:   make([]Weights, nv),
		Cells:     make([]CellIndices, nv),
		Triangles: make([]int32, ni),
	}
	pos := make([][3]float32, nv)
	if err := rd(pos); err != nil {
		return fmt.Errorf("decode positions: %w", err)
	}
	for i, p := range pos {
		out.Positions[i] = r3.Vector{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}
	if err := rd(out.Weights); err != nil {
		return fmt.Errorf("decode weights: %w", err)
	}
	if err := rd(out.Cells); err != nil {
		return fmt.Errorf("decode cell tags: %w", err)
	}
	readUV := func(use bool) ([]UV, error) {
		if !use {
			return nil, nil
		}
		set := make([]UV, nv)
		return set, rd(set)
	}
	var err error
	if out.UV, err = readUV(out.UseUV); err != nil {
		return fmt.Errorf("decode uv: %w", err)
	}
	if out.UV2, err = readUV(out.UseUV2); err != nil {
		return fmt.Errorf("decode uv2: %w", err)
	}
	if out.UV3, err = readUV(out.UseUV3); err != nil {
		return fmt.Errorf("decode uv3: %w", err)
	}
	if err := rd(out.Triangles); err != nil {
		return fmt.Errorf("decode indices: %w", err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("decode layer: %d trailing bytes", r.Len())
	}
	*l = out
	return out.Validate()
}
