package systems

import (
	"math/rand"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/traits"
)

// Reproduction constants
const (
	ParentEnergyKeep    = 0.5  // Parent keeps this fraction after giving birth
	ChildEnergyFraction = 0.35 // Child starts with this fraction of its own threshold
	SpawnEnergyFraction = 0.5  // Spawned founders start with this fraction of their threshold
	BirthJitter         = 5.0  // Max per-axis offset of a child from its parent
)

// CanReproduce reports whether the agent has reached its threshold.
func CanReproduce(a *components.Agent) bool {
	return a.Energy >= a.Traits.ReproductionEnergy
}

// Reproduce halves the parent's energy and returns its child. The child's
// traits are mutated from the parent's, it starts near the parent (clamped
// to the padded bounds) at rest, with energy scaled from its own threshold.
func Reproduce(parent *components.Agent, childID uint64, mutationRate float64, b Bounds, rng *rand.Rand) components.Agent {
	parent.Energy *= ParentEnergyKeep

	isCarnivore := parent.Species.IsCarnivore()
	childTraits := traits.Mutate(parent.Traits, mutationRate, isCarnivore, rng)

	pos := b.ClampPadded(components.Position{
		X: parent.Pos.X + RandRange(rng, -BirthJitter, BirthJitter),
		Y: parent.Pos.Y + RandRange(rng, -BirthJitter, BirthJitter),
	})

	return components.NewAgent(childID, parent.Species, pos,
		childTraits.ReproductionEnergy*ChildEnergyFraction, childTraits)
}
