package metrics

import (
	"github.com/golang/geo/r3"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Perturber jitters vertex positions with seeded simplex noise sampled at
// the vertex's world position, so shared vertices move together.
type Perturber struct {
	noiseX, noiseY, noiseZ opensimplex.Noise

	scale        float64
	strength     float64
	elevStrength float64
}

// NewPerturber builds the three independent noise fields from cfg.NoiseSeed.
func NewPerturber(cfg Config) *Perturber {
	return &Perturber{
		noiseX:       opensimplex.New(cfg.NoiseSeed),
		noiseY:       opensimplex.New(cfg.NoiseSeed + 1),
		noiseZ:       opensimplex.New(cfg.NoiseSeed + 2),
		scale:        cfg.NoiseScale,
		strength:     cfg.CellPerturbStrength,
		elevStrength: cfg.ElevationPerturbStrength,
	}
}

// Perturb moves p horizontally, and vertically as well when vertical is set.
// The result depends only on p's horizontal position and the seed.
func (p *Perturber) Perturb(v r3.Vector, vertical bool) r3.Vector {
	if p == nil {
		return v
	}
	sx, sz := v.X*p.scale, v.Z*p.scale
	out := v
	if p.strength != 0 {
		out.X += p.noiseX.Eval2(sx, sz) * p.strength
		out.Z += p.noiseZ.Eval2(sx, sz) * p.strength
	}
	if vertical && p.elevStrength != 0 {
		out.Y += p.noiseY.Eval2(sx, sz) * p.elevStrength
	}
	return out
}

// PerturbEdge perturbs every vertex of e.
func (p *Perturber) PerturbEdge(e EdgeVertices, vertical bool) EdgeVertices {
	return e.Map(func(v r3.Vector) r3.Vector { return p.Perturb(v, vertical) })
}
