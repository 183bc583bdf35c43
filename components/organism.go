// Package components defines the entity types shared by the simulation and
// its front ends.
package components

import "github.com/pthm-cable/biome/traits"

// Species tags an agent as herbivore or carnivore. It is the only
// discriminator between the two; all species-specific rules branch on it.
type Species uint8

const (
	Herbivore Species = iota
	Carnivore
)

// IsCarnivore reports whether the species hunts herbivores.
func (s Species) IsCarnivore() bool {
	return s == Carnivore
}

// String returns the lowercase species name.
func (s Species) String() string {
	if s == Carnivore {
		return "carnivore"
	}
	return "herbivore"
}

// Plant is a stationary food item. It has no energy or traits of its own.
type Plant struct {
	ID  uint64
	Pos Position
}

// Agent is a herbivore or carnivore. Traits and GenotypeID are fixed at
// creation; GenotypeID is derived from (Traits, Species).
type Agent struct {
	ID         uint64          `inspect:"label,fmt:#%d"`
	Species    Species         `inspect:"label"`
	Pos        Position        `inspect:"skip"`
	Vel        Velocity        `inspect:"skip"`
	Energy     float64         `inspect:"bar,fmt:%.1f"`
	Age        float64         `inspect:"label,fmt:%.1fs"` // seconds alive
	Traits     traits.TraitSet `inspect:"skip"`
	GenotypeID string          `inspect:"label"`
}

// NewAgent builds an agent with its genotype id derived from traits.
func NewAgent(id uint64, species Species, pos Position, energy float64, t traits.TraitSet) Agent {
	return Agent{
		ID:         id,
		Species:    species,
		Pos:        pos,
		Energy:     energy,
		Traits:     t,
		GenotypeID: traits.GenotypeID(t, species.IsCarnivore()),
	}
}

// EnergyCostPerSecond returns this agent's continuous drain.
func (a *Agent) EnergyCostPerSecond() float64 {
	return traits.EnergyCostPerSecond(a.Traits, a.Species.IsCarnivore())
}
