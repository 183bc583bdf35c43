package systems

import "github.com/pthm-cable/biome/components"

// UpdateEnergy applies the agent's trait-derived metabolic drain for dt
// seconds and returns the amount spent.
func UpdateEnergy(a *components.Agent, dt float64) float64 {
	cost := a.EnergyCostPerSecond() * dt
	a.Energy -= cost
	return cost
}

// IsStarved reports whether the agent has run out of energy.
func IsStarved(a *components.Agent) bool {
	return a.Energy <= 0
}
