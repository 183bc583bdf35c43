// Package traits defines the heritable trait model: discrete level tables,
// species defaults, mutation, energy cost and genotype identifiers.
package traits

import (
	"math/rand"
	"strconv"
	"strings"
)

// Trait identifies one heritable dimension of a TraitSet.
type Trait uint8

const (
	Speed              Trait = iota // Units per second
	Vision                          // Perception radius
	Metabolism                      // Base energy cost per second
	ReproductionEnergy              // Energy threshold for reproduction
	Stealth                         // 0-1, shrinks a predator's detection range
	Strength                        // Carnivores only, boosts energy per kill

	NumTraits
)

// Level tables. Every trait value is always one of these entries.
var (
	SpeedLevels              = [3]float64{20, 35, 50}
	VisionLevels             = [3]float64{30, 60, 100}
	MetabolismLevels         = [3]float64{0.6, 1.0, 1.6}
	ReproductionEnergyLevels = [3]float64{40, 65, 100}
	StealthLevels            = [3]float64{0, 0.25, 0.5}
	StrengthLevels           = [3]float64{0, 0.6, 1.2}
)

// Level indices shared by all tables.
const (
	Low  = 0
	Mid  = 1
	High = 2
)

// TraitSet holds one individual's trait values. It is never mutated after
// the individual is created; Mutate returns a new set.
type TraitSet struct {
	Speed              float64 `json:"speed" yaml:"speed"`
	Vision             float64 `json:"vision" yaml:"vision"`
	Metabolism         float64 `json:"metabolism" yaml:"metabolism"`
	ReproductionEnergy float64 `json:"reproduction_energy" yaml:"reproduction_energy"`
	Stealth            float64 `json:"stealth" yaml:"stealth"`
	Strength           float64 `json:"strength" yaml:"strength"`
}

// Levels returns the level table for a trait.
func Levels(t Trait) []float64 {
	switch t {
	case Speed:
		return SpeedLevels[:]
	case Vision:
		return VisionLevels[:]
	case Metabolism:
		return MetabolismLevels[:]
	case ReproductionEnergy:
		return ReproductionEnergyLevels[:]
	case Stealth:
		return StealthLevels[:]
	case Strength:
		return StrengthLevels[:]
	default:
		return nil
	}
}

// Get returns the value of a single trait.
func (s TraitSet) Get(t Trait) float64 {
	switch t {
	case Speed:
		return s.Speed
	case Vision:
		return s.Vision
	case Metabolism:
		return s.Metabolism
	case ReproductionEnergy:
		return s.ReproductionEnergy
	case Stealth:
		return s.Stealth
	case Strength:
		return s.Strength
	default:
		return 0
	}
}

// With returns a copy of the set with one trait replaced.
func (s TraitSet) With(t Trait, v float64) TraitSet {
	switch t {
	case Speed:
		s.Speed = v
	case Vision:
		s.Vision = v
	case Metabolism:
		s.Metabolism = v
	case ReproductionEnergy:
		s.ReproductionEnergy = v
	case Stealth:
		s.Stealth = v
	case Strength:
		s.Strength = v
	}
	return s
}

// LevelIndex returns the index of value in the trait's table, matched
// exactly, or -1 when the value is not a valid level.
func LevelIndex(t Trait, value float64) int {
	for i, v := range Levels(t) {
		if v == value {
			return i
		}
	}
	return -1
}

// IsValid reports whether every field holds a level from its table.
// Herbivore strength must be the neutral value.
func (s TraitSet) IsValid(isCarnivore bool) bool {
	for t := Trait(0); t < NumTraits; t++ {
		if LevelIndex(t, s.Get(t)) < 0 {
			return false
		}
	}
	return isCarnivore || s.Strength == StrengthLevels[Low]
}

// DefaultHerbivoreTraits returns the founder trait set for herbivores.
func DefaultHerbivoreTraits() TraitSet {
	return TraitSet{
		Speed:              SpeedLevels[Mid],
		Vision:             VisionLevels[Mid],
		Metabolism:         MetabolismLevels[Mid],
		ReproductionEnergy: ReproductionEnergyLevels[Mid],
		Stealth:            StealthLevels[Mid],
		Strength:           0,
	}
}

// DefaultCarnivoreTraits returns the founder trait set for carnivores.
func DefaultCarnivoreTraits() TraitSet {
	return TraitSet{
		Speed:              SpeedLevels[Mid],
		Vision:             VisionLevels[Mid],
		Metabolism:         MetabolismLevels[High],
		ReproductionEnergy: ReproductionEnergyLevels[High],
		Stealth:            StealthLevels[Low],
		Strength:           StrengthLevels[Mid],
	}
}

// Mutate returns a child trait set. Each trait independently shifts one
// level up or down with probability mutationRate, clamped to its table.
// Mutation works on level indices so values never drift off the tables.
// Strength only mutates for carnivores; herbivores always get 0.
func Mutate(base TraitSet, mutationRate float64, isCarnivore bool, rng *rand.Rand) TraitSet {
	pick := func(t Trait) float64 {
		levels := Levels(t)
		last := len(levels) - 1
		idx := clampIndex(LevelIndex(t, base.Get(t)), last)
		if rng.Float64() > mutationRate {
			return levels[idx]
		}
		dir := 1
		if rng.Float64() < 0.5 {
			dir = -1
		}
		return levels[clampIndex(idx+dir, last)]
	}

	child := TraitSet{
		Speed:              pick(Speed),
		Vision:             pick(Vision),
		Metabolism:         pick(Metabolism),
		ReproductionEnergy: pick(ReproductionEnergy),
		Stealth:            pick(Stealth),
	}
	if isCarnivore {
		child.Strength = pick(Strength)
	}
	return child
}

func clampIndex(i, last int) int {
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// EnergyCostPerSecond is the continuous energy drain for a trait set.
// Faster, farther-seeing, stealthier and stronger individuals pay more.
func EnergyCostPerSecond(s TraitSet, isCarnivore bool) float64 {
	cost := s.Metabolism +
		(s.Speed-20)*0.015 +
		(s.Vision-30)*0.008 +
		s.Stealth*0.6
	if isCarnivore {
		cost += s.Strength * 0.7
	}
	return cost
}

// FNV-1a parameters for genotype hashing.
const (
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 16777619
)

// GenotypeID returns a short, deterministic identifier grouping individuals
// with identical traits and species. The tuple is rendered as comma-joined
// shortest decimals, hashed with 32-bit FNV-1a and printed in base 36 after
// an 'H' or 'C' species tag.
func GenotypeID(s TraitSet, isCarnivore bool) string {
	strength := 0.0
	if isCarnivore {
		strength = s.Strength
	}
	fields := [...]float64{s.Speed, s.Vision, s.Metabolism, s.ReproductionEnergy, s.Stealth, strength}

	var b strings.Builder
	for i, v := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}

	h := fnvOffset32
	for _, c := range []byte(b.String()) {
		h ^= uint32(c)
		h *= fnvPrime32
	}

	tag := "H"
	if isCarnivore {
		tag = "C"
	}
	return tag + strconv.FormatUint(uint64(h), 36)
}

// TraitName returns a human-readable trait name.
func TraitName(t Trait) string {
	switch t {
	case Speed:
		return "Speed"
	case Vision:
		return "Vision"
	case Metabolism:
		return "Metabolism"
	case ReproductionEnergy:
		return "Repro Energy"
	case Stealth:
		return "Stealth"
	case Strength:
		return "Strength"
	default:
		return ""
	}
}

// LevelName returns "low", "mid" or "high" for a trait value, or "?" when
// the value is off-table.
func LevelName(t Trait, value float64) string {
	switch LevelIndex(t, value) {
	case Low:
		return "low"
	case Mid:
		return "mid"
	case High:
		return "high"
	default:
		return "?"
	}
}
