package sim

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/systems"
	"github.com/pthm-cable/biome/traits"
)

// Spawner creates plants and founder agents.
type Spawner struct {
	MaxPlants int
	Placer    systems.PlantPlacer // nil places uniformly
}

// NewSpawner returns a spawner with the given plant cap and placement.
func NewSpawner(maxPlants int, placer systems.PlantPlacer) *Spawner {
	return &Spawner{MaxPlants: maxPlants, Placer: placer}
}

// SpawnPlant adds one plant inside the padded bounds. It does nothing and
// returns false once the world holds MaxPlants plants.
func (s *Spawner) SpawnPlant(w *World, rng *rand.Rand) (uint64, bool) {
	if len(w.Plants) >= s.MaxPlants {
		return 0, false
	}
	placer := s.Placer
	if placer == nil {
		placer = systems.UniformPlacer{}
	}
	pos := placer.Place(rng, w.Bounds())
	id := w.NextID()
	w.Plants = append(w.Plants, components.Plant{ID: id, Pos: pos})
	return id, true
}

// SpawnHerbivore adds a herbivore with the given traits, or the species
// defaults when t is nil.
func (s *Spawner) SpawnHerbivore(w *World, rng *rand.Rand, t *traits.TraitSet) uint64 {
	ts := traits.DefaultHerbivoreTraits()
	if t != nil {
		ts = *t
	}
	return spawnAgent(w, rng, components.Herbivore, ts)
}

// SpawnCarnivore adds a carnivore with the given traits, or the species
// defaults when t is nil.
func (s *Spawner) SpawnCarnivore(w *World, rng *rand.Rand, t *traits.TraitSet) uint64 {
	ts := traits.DefaultCarnivoreTraits()
	if t != nil {
		ts = *t
	}
	return spawnAgent(w, rng, components.Carnivore, ts)
}

// spawnAgent places a founder anywhere in [0,W] x [0,H], at rest, with half
// its reproduction threshold as energy.
func spawnAgent(w *World, rng *rand.Rand, species components.Species, t traits.TraitSet) uint64 {
	id := w.NextID()
	pos := components.Position{
		X: systems.RandRange(rng, 0, w.Width),
		Y: systems.RandRange(rng, 0, w.Height),
	}
	a := components.NewAgent(id, species, pos, t.ReproductionEnergy*systems.SpawnEnergyFraction, t)
	if species.IsCarnivore() {
		w.Carnivores = append(w.Carnivores, a)
	} else {
		w.Herbivores = append(w.Herbivores, a)
	}
	return id
}

// Population sizes for Seed.
type Population struct {
	Plants     int
	Herbivores int
	Carnivores int
}

// Seed spawns the initial plants, then herbivores, then carnivores.
func (s *Spawner) Seed(w *World, rng *rand.Rand, pop Population) {
	for i := 0; i < pop.Plants; i++ {
		s.SpawnPlant(w, rng)
	}
	for i := 0; i < pop.Herbivores; i++ {
		s.SpawnHerbivore(w, rng, nil)
	}
	for i := 0; i < pop.Carnivores; i++ {
		s.SpawnCarnivore(w, rng, nil)
	}
}

// RegenCredit accumulates simulated time and converts it into whole plant
// spawns at a given rate, carrying the fractional remainder.
type RegenCredit struct {
	acc float64
}

// Accrue adds dt seconds of credit and returns how many plants to spawn.
// A non-positive rate spawns nothing and drops the credit.
func (c *RegenCredit) Accrue(dt, rate float64) int {
	if rate <= 0 {
		c.acc = 0
		return 0
	}
	c.acc += dt
	n := int(math.Floor(c.acc * rate))
	if n > 0 {
		c.acc -= float64(n) / rate
	}
	return n
}

// Pending returns the carried credit in seconds.
func (c *RegenCredit) Pending() float64 {
	return c.acc
}

// Reset drops any carried credit.
func (c *RegenCredit) Reset() {
	c.acc = 0
}
