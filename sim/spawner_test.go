package sim

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/biome/systems"
	"github.com/pthm-cable/biome/traits"
)

func TestNewWorldIDsStartAtOne(t *testing.T) {
	w := NewWorld(10, 10)
	if id := w.NextID(); id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if id := w.NextID(); id != 2 {
		t.Errorf("second id = %d, want 2", id)
	}

	var zero World
	if id := zero.NextID(); id != 1 {
		t.Errorf("zero-value world first id = %d, want 1", id)
	}
}

func TestSpawnPlantRespectsCap(t *testing.T) {
	w := NewWorld(100, 100)
	s := NewSpawner(3, nil)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 3; i++ {
		if _, ok := s.SpawnPlant(w, rng); !ok {
			t.Fatalf("spawn %d rejected under cap", i)
		}
	}
	next := w.PeekNextID()
	if _, ok := s.SpawnPlant(w, rng); ok {
		t.Error("spawn above cap should be a no-op")
	}
	if len(w.Plants) != 3 {
		t.Errorf("plants = %d, want 3", len(w.Plants))
	}
	if w.PeekNextID() != next {
		t.Error("rejected spawn consumed an id")
	}
	for _, p := range w.Plants {
		if !w.Bounds().Contains(p.Pos) {
			t.Errorf("plant at %+v outside padded bounds", p.Pos)
		}
	}
}

func TestSpawnAgents(t *testing.T) {
	w := NewWorld(300, 200)
	s := NewSpawner(0, nil)
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 200; i++ {
		s.SpawnHerbivore(w, rng, nil)
		s.SpawnCarnivore(w, rng, nil)
	}

	for _, h := range w.Herbivores {
		if h.Traits != traits.DefaultHerbivoreTraits() {
			t.Fatalf("herbivore has non-default traits %+v", h.Traits)
		}
		if h.Energy != h.Traits.ReproductionEnergy*systems.SpawnEnergyFraction {
			t.Fatalf("herbivore energy %v", h.Energy)
		}
		if h.Pos.X < 0 || h.Pos.X > 300 || h.Pos.Y < 0 || h.Pos.Y > 200 {
			t.Fatalf("herbivore at %+v outside world", h.Pos)
		}
	}
	for _, c := range w.Carnivores {
		if c.GenotypeID != traits.GenotypeID(traits.DefaultCarnivoreTraits(), true) {
			t.Fatalf("carnivore genotype %q", c.GenotypeID)
		}
		if c.Energy != 50 {
			t.Fatalf("carnivore energy %v, want 50", c.Energy)
		}
	}
}

func TestSpawnWithTraits(t *testing.T) {
	w := NewWorld(100, 100)
	s := NewSpawner(0, nil)
	ts := traits.TraitSet{Speed: 50, Vision: 100, Metabolism: 0.6, ReproductionEnergy: 40, Stealth: 0.5}

	id := s.SpawnHerbivore(w, rand.New(rand.NewSource(1)), &ts)
	a := w.FindAgent(id)
	if a.Traits != ts || a.Energy != 20 {
		t.Errorf("spawned %+v with energy %v", a.Traits, a.Energy)
	}
}

func TestSeedOrder(t *testing.T) {
	w := NewWorld(100, 100)
	NewSpawner(10, nil).Seed(w, rand.New(rand.NewSource(3)), Population{Plants: 5, Herbivores: 3, Carnivores: 2})

	if w.Plants[0].ID != 1 || w.Plants[4].ID != 5 {
		t.Errorf("plants should take ids 1..5")
	}
	if w.Herbivores[0].ID != 6 || w.Carnivores[1].ID != 10 {
		t.Errorf("unexpected agent ids: herb %d carn %d", w.Herbivores[0].ID, w.Carnivores[1].ID)
	}
}

func TestRegenCredit(t *testing.T) {
	var c RegenCredit
	if n := c.Accrue(0.125, 4); n != 0 {
		t.Errorf("first accrue = %d, want 0", n)
	}
	if n := c.Accrue(0.125, 4); n != 1 {
		t.Errorf("second accrue = %d, want 1", n)
	}
	if c.Pending() != 0 {
		t.Errorf("pending = %v, want 0", c.Pending())
	}

	total := 0
	for i := 0; i < 600; i++ {
		total += c.Accrue(1.0/60, 10)
	}
	if total < 99 || total > 100 {
		t.Errorf("10s at 10/s spawned %d plants", total)
	}

	c.Accrue(0.5, 1)
	if n := c.Accrue(1, 0); n != 0 || c.Pending() != 0 {
		t.Errorf("zero rate should spawn nothing and drop credit, got %d pending %v", n, c.Pending())
	}
}
