package systems

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/biome/components"
)

// PlantPlacer chooses where a new plant grows.
type PlantPlacer interface {
	Place(rng *rand.Rand, b Bounds) components.Position
}

// UniformPlacer places plants uniformly inside the padded bounds.
type UniformPlacer struct{}

// Place draws x then y uniformly in [pad, W-pad) x [pad, H-pad).
func (UniformPlacer) Place(rng *rand.Rand, b Bounds) components.Position {
	return components.Position{
		X: RandRange(rng, BoundsPadding, b.Width-BoundsPadding),
		Y: RandRange(rng, BoundsPadding, b.Height-BoundsPadding),
	}
}

// FertilityConfig tunes the noise field used by FertilityPlacer.
type FertilityConfig struct {
	Seed        int64
	Scale       float64 // world units per noise unit
	Octaves     int
	Persistence float64
	Threshold   float64 // minimum fertility in [0,1] accepted outright
	Attempts    int     // rejection-sampling tries before falling back
}

// FertilityPlacer clusters plants on fertile ground. Candidate positions
// are drawn uniformly and accepted with probability equal to the local
// fertility once it clears Threshold. After Attempts rejections the last
// candidate is used, so Place always returns a point in bounds.
type FertilityPlacer struct {
	cfg   FertilityConfig
	noise opensimplex.Noise
}

// NewFertilityPlacer builds a placer over a seeded simplex field.
func NewFertilityPlacer(cfg FertilityConfig) *FertilityPlacer {
	if cfg.Scale <= 0 {
		cfg.Scale = 200
	}
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	if cfg.Persistence <= 0 {
		cfg.Persistence = 0.5
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &FertilityPlacer{
		cfg:   cfg,
		noise: opensimplex.NewNormalized(cfg.Seed),
	}
}

// Fertility returns the field value in [0,1] at a world position.
func (f *FertilityPlacer) Fertility(x, y float64) float64 {
	return octaveNoise(f.noise, x/f.cfg.Scale, y/f.cfg.Scale, f.cfg.Octaves, 1, f.cfg.Persistence)
}

// Place implements PlantPlacer.
func (f *FertilityPlacer) Place(rng *rand.Rand, b Bounds) components.Position {
	var p components.Position
	for i := 0; i < f.cfg.Attempts; i++ {
		p = UniformPlacer{}.Place(rng, b)
		fert := f.Fertility(p.X, p.Y)
		if fert < f.cfg.Threshold {
			continue
		}
		if rng.Float64() < fert {
			return p
		}
	}
	return p
}

// octaveNoise sums octaves of a normalized noise source and rescales the
// result back to [0,1].
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
