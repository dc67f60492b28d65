// Demo map generation using layered simplex noise.
// Generates elevation, moisture and temperature fields, derives cell
// attributes from them, then traces rivers, roads and territories through the
// Editor so every cascade rule applies.
package world

import (
	"log/slog"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexmesh/internal/hex"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Width      int   // Cells per row
	Height     int   // Rows
	ChunkSizeX int   // Cells per chunk row
	ChunkSizeZ int   // Rows per chunk
	Seed       int64 // Random seed (0 = random)

	SeaLevel     float64 // Elevation threshold for water (0.0–1.0)
	HillLvl      float64 // Elevation threshold for hills
	MountainLvl  float64 // Elevation threshold for mountains
	MaxElevation int     // Highest foundation level on land

	Rivers         int // Rivers to trace
	MaxRiverLength int // Edges per river
	Territories    int // Owner seeds
	TerritoryRange int // Cells claimed around each seed
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:          40,
		Height:         30,
		ChunkSizeX:     5,
		ChunkSizeZ:     5,
		Seed:           0,
		SeaLevel:       0.30,
		HillLvl:        0.58,
		MountainLvl:    0.76,
		MaxElevation:   5,
		Rivers:         8,
		MaxRiverLength: 40,
		Territories:    6,
		TerritoryRange: 4,
	}
}

// SmallTestConfig returns a tiny map for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:          12,
		Height:         10,
		ChunkSizeX:     4,
		ChunkSizeZ:     4,
		Seed:           42,
		SeaLevel:       0.30,
		HillLvl:        0.58,
		MountainLvl:    0.76,
		MaxElevation:   4,
		Rivers:         3,
		MaxRiverLength: 20,
		Territories:    2,
		TerritoryRange: 3,
	}
}

// Generate creates a complete map with terrain, rivers, roads and owners.
func Generate(cfg GenConfig) (*Grid, *RiverStore) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Three noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	g := NewGrid(cfg.Width, cfg.Height, cfg.ChunkSizeX, cfg.ChunkSizeZ)
	rivers := NewRiverStore(g)
	ed := NewEditor(g, rivers)

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) * math.Sqrt(3.0) / 4
	span := math.Max(cx, cy)

	for _, c := range g.Cells() {
		col, row := c.Coord.Offset()
		// Offset → cartesian, rows are sqrt(3)/2 apart and odd rows shift half a cell.
		x := float64(col) + 0.5*float64(row&1)
		y := float64(row) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
		rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
		temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

		// Continental shaping: sink the border so the map is ringed by sea.
		dist := math.Hypot(x-cx, y-cy) / span
		falloff := 1.0 - math.Pow(dist, 3.5)
		if falloff < 0 {
			falloff = 0
		}
		elev *= falloff

		// Colder towards the top and bottom rows and at altitude.
		temp = temp*0.6 + (1.0-math.Abs(y-cy)/cy)*0.3 + (1.0-elev)*0.1

		shapeCell(c, elev, rain, temp, cfg)
	}

	markCoast(g)
	placeRivers(ed, seed, cfg)
	placeGroundCover(ed, seed)
	placeRoadsAndTerritories(ed, seed, cfg)

	slog.Debug("map generated",
		"grid", g.String(),
		"rivers", rivers.RiverCount(),
		"seed", seed,
	)
	return g, rivers
}

// shapeCell derives terrain, relief, level and vegetation from the noise samples.
func shapeCell(c *Cell, elev, rain, temp float64, cfg GenConfig) {
	if elev < cfg.SeaLevel {
		c.Terrain = TerrainOcean
		c.Elevation = 0
		return
	}
	land := (elev - cfg.SeaLevel) / (1 - cfg.SeaLevel)
	c.Elevation = 1 + int(land*float64(cfg.MaxElevation-1)+0.5)

	switch {
	case elev > cfg.MountainLvl:
		c.Shape = ShapeMountains
	case elev > cfg.HillLvl:
		c.Shape = ShapeHills
	}

	switch {
	case temp < 0.2:
		c.Terrain = TerrainSnow
	case temp < 0.3:
		c.Terrain = TerrainTundra
	case rain < 0.3 && temp > 0.5:
		c.Terrain = TerrainDesert
	case rain > 0.5:
		c.Terrain = TerrainGrassland
	default:
		c.Terrain = TerrainPlains
	}

	if c.Terrain == TerrainDesert || c.Shape == ShapeMountains {
		return
	}
	switch {
	case rain > 0.75 && c.Elevation == 1 && c.Shape == ShapeFlat:
		c.Vegetation = VegetationMarsh
	case rain > 0.6 && temp > 0.65:
		c.Vegetation = VegetationJungle
	case rain > 0.55:
		c.Vegetation = VegetationForest
	}
}

// markCoast turns ocean cells touching land into shallow coast.
func markCoast(g *Grid) {
	var toMark []*Cell
	for _, c := range g.Cells() {
		if c.Terrain != TerrainOcean {
			continue
		}
		for _, d := range hex.Directions {
			if n := g.Neighbor(c, d); n != nil && !n.IsWater() {
				toMark = append(toMark, c)
				break
			}
		}
	}
	for _, c := range toMark {
		c.Terrain = TerrainCoast
	}
}

// placeRivers traces edge rivers downhill from cells on the two highest land
// levels of the map.
func placeRivers(ed *Editor, seed int64, cfg GenConfig) {
	rng := rand.New(rand.NewSource(seed + 100))

	top := 0
	for _, c := range ed.Grid.Cells() {
		if !c.IsWater() {
			top = max(top, c.Elevation)
		}
	}
	if top == 0 {
		return
	}
	var sources []*Cell
	for _, c := range ed.Grid.Cells() {
		if !c.IsWater() && c.Elevation >= max(top-1, 1) {
			sources = append(sources, c)
		}
	}

	// Shuffle and pick.
	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > cfg.Rivers {
		sources = sources[:cfg.Rivers]
	}

	for _, src := range sources {
		traceRiver(ed, rng, src, hex.Direction(rng.Intn(hex.DirectionCount)), cfg.MaxRiverLength)
	}
}

// traceRiver lays a river along cell edges. Every step is expressed as a
// clockwise flow on (cell, direction), so the water leaves the edge at corner
// direction+1 of cell. Two edges start at that corner: (cell, direction+1)
// and the edge between the two neighbours, seen from neighbor(direction+1) as
// its direction-1 edge. The lower of the two is taken until the river reaches
// water, runs uphill, or meets an edge it cannot claim. The first edge is the
// first one clockwise from e that the source can take.
func traceRiver(ed *Editor, rng *rand.Rand, x *Cell, e hex.Direction, maxSteps int) {
	g := ed.Grid
	placed := false
	for i := 0; i < hex.DirectionCount && !placed; i++ {
		if _, err := ed.AddRiver(x, e, Clockwise); err == nil {
			placed = true
		} else {
			e = e.Next()
		}
	}
	if !placed {
		return
	}
	level := edgeLevel(x, g.Neighbor(x, e))

	for step := 1; step < maxSteps; step++ {
		next := g.Neighbor(x, e.Next())
		if next == nil || next.IsWater() {
			break // Mouth, or the map border.
		}

		type option struct {
			cell *Cell
			dir  hex.Direction
		}
		options := []option{
			{x, e.Next()},
			{next, e.Previous()},
		}
		if rng.Intn(2) == 1 {
			options[0], options[1] = options[1], options[0]
		}

		var best *option
		bestLevel := math.MaxInt
		for i := range options {
			o := &options[i]
			n := g.Neighbor(o.cell, o.dir)
			if n == nil || n.IsWater() || ed.Rivers.HasRiverOnEdge(o.cell, o.dir) {
				continue
			}
			if l := edgeLevel(o.cell, n); l < bestLevel {
				best, bestLevel = o, l
			}
		}
		if best == nil || bestLevel > level {
			break
		}
		if _, err := ed.AddRiver(best.cell, best.dir, Clockwise); err != nil {
			break
		}
		x, e, level = best.cell, best.dir, bestLevel
	}
}

// edgeLevel scores an edge by the sum of its two cells' rim levels.
func edgeLevel(a, b *Cell) int {
	return a.EdgeElevation() + b.EdgeElevation()
}

// placeGroundCover adds flood plains along desert rivers, oases in dry desert
// and scattered ruins.
func placeGroundCover(ed *Editor, seed int64) {
	rng := rand.New(rand.NewSource(seed + 150))
	for _, c := range ed.Grid.Cells() {
		if c.IsWater() {
			continue
		}
		if c.Terrain == TerrainDesert && c.Shape == ShapeFlat {
			if ed.Rivers.HasRiver(c) {
				if _, err := ed.SetVegetation(c, VegetationFloodPlains); err != nil {
					slog.Debug("flood plains skipped", "cell", c.String(), "err", err)
				}
				continue
			}
			if rng.Float64() < 0.15 {
				if _, err := ed.SetFeature(c, FeatureOasis); err != nil {
					slog.Debug("oasis skipped", "cell", c.String(), "err", err)
				}
				continue
			}
		}
		if c.Shape != ShapeMountains && rng.Float64() < 0.03 {
			if _, err := ed.SetFeature(c, FeatureRuins); err != nil {
				slog.Debug("ruins skipped", "cell", c.String(), "err", err)
			}
		}
	}
}

// placeRoadsAndTerritories seeds owners on good land, claims the cells around
// each seed and links every seed to its nearest peer with a road.
func placeRoadsAndTerritories(ed *Editor, seed int64, cfg GenConfig) {
	rng := rand.New(rand.NewSource(seed + 200))
	g := ed.Grid

	var candidates []*Cell
	for _, c := range g.Cells() {
		if !c.IsWater() && c.Shape != ShapeMountains && c.Terrain != TerrainSnow {
			candidates = append(candidates, c)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var seats []*Cell
	for _, c := range candidates {
		if len(seats) >= cfg.Territories {
			break
		}
		if tooClose(g, c, seats, cfg.TerritoryRange+1) {
			continue
		}
		seats = append(seats, c)
	}

	for i, seat := range seats {
		for _, c := range g.CellsInRadius(seat, cfg.TerritoryRange) {
			if c.Owner == 0 && !c.IsWater() {
				ed.SetOwner(c, i+1)
			}
		}
	}

	for i, a := range seats {
		var nearest *Cell
		for j, b := range seats {
			if i == j {
				continue
			}
			if nearest == nil || g.Distance(a, b) < g.Distance(a, nearest) {
				nearest = b
			}
		}
		if nearest != nil {
			buildRoad(ed, a, nearest)
		}
	}
}

// buildRoad walks greedily from a towards b, laying road while each step is
// allowed. Blocked edges end the road.
func buildRoad(ed *Editor, a, b *Cell) {
	g := ed.Grid
	current := a
	for current != b {
		var step *Cell
		var dir hex.Direction
		best := g.Distance(current, b)
		for _, d := range hex.Directions {
			n := g.Neighbor(current, d)
			if n == nil || ed.CanAddRoad(current, d) != nil {
				continue
			}
			if dist := g.Distance(n, b); dist < best {
				step, dir, best = n, d, dist
			}
		}
		if step == nil {
			return
		}
		if _, err := ed.AddRoad(current, dir); err != nil {
			return
		}
		current = step
	}
}

func tooClose(g *Grid, c *Cell, others []*Cell, minDist int) bool {
	for _, o := range others {
		if g.Distance(c, o) < minDist {
			return true
		}
	}
	return false
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(g *Grid) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, c := range g.Cells() {
		counts[c.Terrain]++
	}
	return counts
}
