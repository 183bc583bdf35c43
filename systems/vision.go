package systems

import (
	"math"

	"github.com/pthm-cable/biome/components"
)

// StealthFactor is how strongly prey stealth shrinks a predator's
// detection area: effective vision² = vision² · (1 - stealth·StealthFactor).
const StealthFactor = 0.5

// EffectiveVisionSq returns a predator's squared detection range against
// prey with the given stealth.
func EffectiveVisionSq(vision, preyStealth float64) float64 {
	return vision * vision * (1 - preyStealth*StealthFactor)
}

// NearestPlant returns the index of the closest plant within vision, or -1.
// Ties keep the first plant in slice order.
func NearestPlant(pos components.Position, vision float64, plants []components.Plant) int {
	visionSq := vision * vision
	best := -1
	bestDist := math.Inf(1)
	for i := range plants {
		d2 := DistanceSq(pos.X, pos.Y, plants[i].Pos.X, plants[i].Pos.Y)
		if d2 < bestDist && d2 <= visionSq {
			bestDist = d2
			best = i
		}
	}
	return best
}

// NearestPrey returns the index of the closest herbivore a predator can
// detect, or -1. Each candidate's own stealth shrinks the range it is
// detected at. Ties keep the first herbivore in slice order.
func NearestPrey(pos components.Position, vision float64, prey []components.Agent) int {
	best := -1
	bestDist := math.Inf(1)
	for i := range prey {
		p := &prey[i]
		d2 := DistanceSq(pos.X, pos.Y, p.Pos.X, p.Pos.Y)
		if d2 < bestDist && d2 <= EffectiveVisionSq(vision, p.Traits.Stealth) {
			bestDist = d2
			best = i
		}
	}
	return best
}
