package systems

import "github.com/pthm-cable/biome/components"

const (
	// PlantEatRadiusSq is the squared distance at which a herbivore eats a plant.
	PlantEatRadiusSq = 4.0 * 4.0
	// PreyEatRadiusSq is the squared distance at which a carnivore eats a herbivore.
	PreyEatRadiusSq = 5.0 * 5.0

	// PlantEnergy is the fixed gain from eating one plant.
	PlantEnergy = 20.0
	// PreyBaseEnergy is the gain from a kill before the strength bonus.
	PreyBaseEnergy = 35.0
	// StrengthBonus is the extra gain per unit of carnivore strength.
	StrengthBonus = 10.0
)

// PreyEnergy returns the energy a carnivore with the given strength gains
// from one kill.
func PreyEnergy(strength float64) float64 {
	return PreyBaseEnergy + strength*StrengthBonus
}

// MaxMealGain returns the largest single-meal gain available to an agent.
func MaxMealGain(a *components.Agent) float64 {
	if a.Species.IsCarnivore() {
		return PreyEnergy(a.Traits.Strength)
	}
	return PlantEnergy
}

// InReach reports whether b lies within the squared eating radius of a.
func InReach(a, b components.Position, radiusSq float64) bool {
	return DistanceSq(a.X, a.Y, b.X, b.Y) <= radiusSq
}
