// Package metrics holds the geometric constants of the hex mesh and the
// small vector helpers every triangulator shares.
package metrics

// Config holds mesh geometry parameters.
type Config struct {
	OuterRadius float64 // Centre to corner distance
	SolidFactor float64 // Fraction of the radius that belongs to the cell alone

	ElevationStep    float64 // World height of one elevation level
	TerracesPerSlope int     // Flat terraces on a one-level slope

	CellPerturbStrength      float64 // Horizontal jitter amplitude
	ElevationPerturbStrength float64 // Vertical jitter amplitude (hills only)
	NoiseScale               float64 // World-to-noise frequency
	NoiseSeed                int64

	StreamBedOffset    float64 // Stream bed depth, in elevation levels
	RiverSurfaceOffset float64 // River surface relative to the bank, in levels
	WaterOffset        float64 // Open water surface relative to WaterLevel
	WaterLevel         int     // Elevation level the sea surface sits on
	RiverSurfaceWidth  float64 // Trough-to-bank fraction covered by the surface
	HillInnerFactor    float64 // Inner ring of the two-stage hill fan
	CurveConvergence   float64 // Position of the outer-curve terrace convergence point
	EndpointReach      float64 // How far a dead-end trough reaches toward the terminal cell
	BorderWidth        float64 // Culture border band, fraction of the solid radius
	OasisRadius        float64 // Oasis pool, fraction of the solid radius
	WaterfallEpsilon   float64 // Height difference below which no waterfall is drawn
	FloodPlainReach    float64 // Fraction of a connection covered by flood plains
}

// DefaultConfig returns the standard mesh proportions.
func DefaultConfig() Config {
	return Config{
		OuterRadius:              10,
		SolidFactor:              0.8,
		ElevationStep:            3,
		TerracesPerSlope:         2,
		CellPerturbStrength:      4,
		ElevationPerturbStrength: 1.5,
		NoiseScale:               0.003,
		NoiseSeed:                1234,
		StreamBedOffset:          -1.75,
		RiverSurfaceOffset:       -0.5,
		WaterOffset:              -0.5,
		WaterLevel:               1,
		RiverSurfaceWidth:        0.6,
		HillInnerFactor:          0.5,
		CurveConvergence:         0.35,
		EndpointReach:            0.5,
		BorderWidth:              0.3,
		OasisRadius:              0.35,
		WaterfallEpsilon:         0.01,
		FloodPlainReach:          0.5,
	}
}

// FlatTestConfig returns DefaultConfig with all jitter disabled, so vertex
// positions are exact.
func FlatTestConfig() Config {
	cfg := DefaultConfig()
	cfg.CellPerturbStrength = 0
	cfg.ElevationPerturbStrength = 0
	return cfg
}

// InnerRadius is the centre to edge-midpoint distance.
func (c Config) InnerRadius() float64 {
	return c.OuterRadius * outerToInner
}

// BlendFactor is the share of the radius given to the connection strip.
func (c Config) BlendFactor() float64 {
	return 1 - c.SolidFactor
}

// TerraceSteps is the number of strips a terraced slope decomposes into.
func (c Config) TerraceSteps() int {
	return 2*c.TerracesPerSlope + 1
}

// HorizontalTerraceStepSize is the horizontal share of one terrace step.
func (c Config) HorizontalTerraceStepSize() float64 {
	return 1 / float64(c.TerraceSteps())
}

// VerticalTerraceStepSize is the vertical share of one terrace riser.
func (c Config) VerticalTerraceStepSize() float64 {
	return 1 / float64(c.TerracesPerSlope+1)
}

// ElevationY converts an elevation level to a world height.
func (c Config) ElevationY(level int) float64 {
	return float64(level) * c.ElevationStep
}

// StreamBedY is the trough height below a bank at the given level.
func (c Config) StreamBedY(level int) float64 {
	return (float64(level) + c.StreamBedOffset) * c.ElevationStep
}

// RiverSurfaceY is the river surface height next to a bank at the given level.
func (c Config) RiverSurfaceY(level int) float64 {
	return (float64(level) + c.RiverSurfaceOffset) * c.ElevationStep
}

// WaterSurfaceY is the open water surface height.
func (c Config) WaterSurfaceY() float64 {
	return (float64(c.WaterLevel) + c.WaterOffset) * c.ElevationStep
}
