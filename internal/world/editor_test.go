package world

import (
	"errors"
	"testing"

	"github.com/talgya/hexmesh/internal/hex"
)

func editorFixture(t *testing.T) (*Editor, *Cell) {
	t.Helper()
	g := NewGrid(5, 5, 5, 5)
	for _, c := range g.Cells() {
		c.Elevation = 2
	}
	return NewEditor(g, NewRiverStore(g)), g.CellAt(hex.FromOffset(2, 2))
}

func TestSetTerrainWaterStripsCell(t *testing.T) {
	ed, c := editorFixture(t)
	if _, err := ed.AddRiver(c, hex.NE, Clockwise); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.AddRoad(c, hex.W); err != nil {
		t.Fatal(err)
	}
	c.Feature = FeatureRuins
	c.Vegetation = VegetationForest

	refresh := ed.SetTerrain(c, TerrainOcean)

	if ed.Rivers.HasRiver(c) || c.HasRoads() {
		t.Error("water cell kept rivers or roads")
	}
	if w := ed.Grid.Neighbor(c, hex.W); w.Roads[hex.E] {
		t.Error("road mirror on the neighbour survived")
	}
	if c.Feature != FeatureNone || c.Vegetation != VegetationNone {
		t.Errorf("feature/vegetation = %s/%s, want None/None", c.Feature, c.Vegetation)
	}
	if len(refresh) < 7 {
		t.Errorf("refresh set has %d cells, want at least 7", len(refresh))
	}
}

func TestRoadRules(t *testing.T) {
	ed, c := editorFixture(t)
	e := ed.Grid.Neighbor(c, hex.E)

	e.Elevation = 4
	if _, err := ed.AddRoad(c, hex.E); !errors.Is(err, ErrRoadNotAllowed) {
		t.Errorf("road over cliff: err = %v, want ErrRoadNotAllowed", err)
	}

	e.Elevation = 3
	if _, err := ed.AddRoad(c, hex.E); err != nil {
		t.Fatalf("road over slope: %v", err)
	}
	if !e.Roads[hex.W] {
		t.Error("road not mirrored")
	}

	// Raising the neighbour turns the slope into a cliff.
	ed.SetElevation(e, 5)
	if c.Roads[hex.E] || e.Roads[hex.W] {
		t.Error("road across new cliff survived")
	}

	ed.SetElevation(e, 2)
	if _, err := ed.AddRoad(c, hex.E); err != nil {
		t.Fatal(err)
	}
	ed.SetShape(c, ShapeMountains)
	if c.HasRoads() {
		t.Error("mountain kept its roads")
	}
}

func TestRiverBlocksRoad(t *testing.T) {
	ed, c := editorFixture(t)
	if _, err := ed.AddRoad(c, hex.SE); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.AddRiver(c, hex.SE, Clockwise); err != nil {
		t.Fatal(err)
	}
	if c.Roads[hex.SE] {
		t.Error("road under new river survived")
	}
	if _, err := ed.AddRoad(c, hex.SE); !errors.Is(err, ErrRoadNotAllowed) {
		t.Errorf("road over river: err = %v, want ErrRoadNotAllowed", err)
	}
}

func TestFeatureAndVegetationRules(t *testing.T) {
	ed, c := editorFixture(t)

	if _, err := ed.SetFeature(c, FeatureOasis); !errors.Is(err, ErrFeatureNotValid) {
		t.Errorf("oasis on grassland: err = %v, want ErrFeatureNotValid", err)
	}
	ed.SetTerrain(c, TerrainDesert)
	if _, err := ed.SetFeature(c, FeatureOasis); err != nil {
		t.Errorf("oasis on desert: %v", err)
	}
	ed.SetTerrain(c, TerrainPlains)
	if c.Feature != FeatureNone {
		t.Error("oasis survived leaving the desert")
	}

	if _, err := ed.SetVegetation(c, VegetationFloodPlains); !errors.Is(err, ErrNoRiver) {
		t.Errorf("flood plains without river: err = %v, want ErrNoRiver", err)
	}
	if _, err := ed.AddRiver(c, hex.E, Clockwise); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetVegetation(c, VegetationFloodPlains); err != nil {
		t.Fatalf("flood plains with river: %v", err)
	}
	if _, err := ed.RemoveRiver(c, hex.E); err != nil {
		t.Fatal(err)
	}
	if c.Vegetation != VegetationNone {
		t.Error("flood plains survived losing the river")
	}
}

func TestSetTerrainWaterClearsNeighbourFloodPlains(t *testing.T) {
	tests := []struct {
		name      string
		ownRiver  bool
		wantPlain Vegetation
	}{
		{"only river was shared", false, VegetationNone},
		{"neighbour keeps another river", true, VegetationFloodPlains},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, a := editorFixture(t)
			b := ed.Grid.Neighbor(a, hex.E)
			if _, err := ed.AddRiver(a, hex.E, Clockwise); err != nil {
				t.Fatal(err)
			}
			if tt.ownRiver {
				if _, err := ed.AddRiver(b, hex.E, Clockwise); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := ed.SetVegetation(b, VegetationFloodPlains); err != nil {
				t.Fatal(err)
			}

			refresh := ed.SetTerrain(a, TerrainOcean)

			if b.Vegetation != tt.wantPlain {
				t.Errorf("neighbour vegetation = %s, want %s", b.Vegetation, tt.wantPlain)
			}
			if b.Vegetation == VegetationFloodPlains && !ed.Rivers.HasRiver(b) {
				t.Error("flood plains left on a cell without a river")
			}
			found := false
			for _, c := range refresh {
				found = found || c == b
			}
			if !found {
				t.Error("neighbour missing from the refresh set")
			}
		})
	}
}
