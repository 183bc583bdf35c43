package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/systems"
	"github.com/pthm-cable/biome/traits"
)

const tick = 1.0 / 60

type eventLog struct {
	meals  map[uint64]float64
	births map[uint64]int
	deaths map[uint64]DeathCause
}

func newEventLog() *eventLog {
	return &eventLog{
		meals:  make(map[uint64]float64),
		births: make(map[uint64]int),
		deaths: make(map[uint64]DeathCause),
	}
}

func (l *eventLog) RecordMeal(a components.Agent, gain float64) { l.meals[a.ID] += gain }
func (l *eventLog) RecordBirth(parent, _ components.Agent)      { l.births[parent.ID]++ }
func (l *eventLog) RecordDeath(a components.Agent, c DeathCause) {
	l.deaths[a.ID] = c
}

func addAgent(w *World, species components.Species, x, y, energy float64, t traits.TraitSet) uint64 {
	id := w.NextID()
	a := components.NewAgent(id, species, components.Position{X: x, Y: y}, energy, t)
	if species.IsCarnivore() {
		w.Carnivores = append(w.Carnivores, a)
	} else {
		w.Herbivores = append(w.Herbivores, a)
	}
	return id
}

func addPlant(w *World, x, y float64) uint64 {
	id := w.NextID()
	w.Plants = append(w.Plants, components.Plant{ID: id, Pos: components.Position{X: x, Y: y}})
	return id
}

// ---------- Scenarios ----------

func TestAdvance_Starvation(t *testing.T) {
	w := NewWorld(200, 200)
	weak := traits.TraitSet{
		Speed:              traits.SpeedLevels[traits.Low],
		Vision:             traits.VisionLevels[traits.Low],
		Metabolism:         traits.MetabolismLevels[traits.High],
		ReproductionEnergy: traits.ReproductionEnergyLevels[traits.Mid],
		Stealth:            traits.StealthLevels[traits.Low],
	}
	id := addAgent(w, components.Herbivore, 100, 100, 0.01, weak)

	log := newEventLog()
	p := DefaultParams()
	p.Recorder = log
	Advance(w, rand.New(rand.NewSource(1)), 1, p)

	if len(w.Herbivores) != 0 {
		t.Fatalf("starving herbivore survived with energy %v", w.Herbivores[0].Energy)
	}
	if cause, ok := log.deaths[id]; !ok || cause != Starvation {
		t.Errorf("expected starvation death to be recorded, got %v (ok=%v)", cause, ok)
	}
	if w.Time != 1 {
		t.Errorf("world time = %v, want 1", w.Time)
	}
}

func TestAdvance_GuaranteedEating(t *testing.T) {
	w := NewWorld(100, 100)
	hid := addAgent(w, components.Herbivore, 10, 10, 10, traits.DefaultHerbivoreTraits())
	addPlant(w, 10, 10)

	Advance(w, rand.New(rand.NewSource(1)), tick, DefaultParams())

	if len(w.Plants) != 0 {
		t.Fatalf("plant not eaten, %d remain", len(w.Plants))
	}
	h := w.FindAgent(hid)
	if h == nil {
		t.Fatal("herbivore missing after eating")
	}
	want := 10 + systems.PlantEnergy - h.EnergyCostPerSecond()*tick
	if math.Abs(h.Energy-want) > 1e-9 {
		t.Errorf("energy = %v, want %v", h.Energy, want)
	}
	if h.Pos != (components.Position{X: 10, Y: 10}) {
		t.Errorf("herbivore drifted to %+v", h.Pos)
	}
	if math.Abs(h.Age-tick) > 1e-12 {
		t.Errorf("age = %v, want %v", h.Age, tick)
	}
}

func TestAdvance_GuaranteedPredation(t *testing.T) {
	w := NewWorld(100, 100)
	prey := traits.DefaultHerbivoreTraits()
	prey.Stealth = 0
	hid := addAgent(w, components.Herbivore, 50, 50, 10, prey)
	cid := addAgent(w, components.Carnivore, 50, 50, 20, traits.DefaultCarnivoreTraits())

	log := newEventLog()
	p := DefaultParams()
	p.Recorder = log
	Advance(w, rand.New(rand.NewSource(1)), tick, p)

	if len(w.Herbivores) != 0 {
		t.Fatal("prey survived a carnivore at the same position")
	}
	if log.deaths[hid] != Predation {
		t.Errorf("prey death cause = %v, want predation", log.deaths[hid])
	}
	c := w.FindAgent(cid)
	if c == nil {
		t.Fatal("carnivore missing")
	}
	want := 20 + systems.PreyEnergy(c.Traits.Strength) - c.EnergyCostPerSecond()*tick
	if math.Abs(c.Energy-want) > 1e-9 {
		t.Errorf("carnivore energy = %v, want %v", c.Energy, want)
	}
}

func TestAdvance_ReproductionAtThreshold(t *testing.T) {
	w := NewWorld(100, 100)
	ht := traits.DefaultHerbivoreTraits()
	pid := addAgent(w, components.Herbivore, 30, 30, ht.ReproductionEnergy-systems.PlantEnergy, ht)
	addPlant(w, 30, 30)
	childID := w.PeekNextID()

	// dt=0 removes metabolism so the meal lands exactly on the threshold.
	Advance(w, rand.New(rand.NewSource(4)), 0, DefaultParams())

	if len(w.Herbivores) != 2 {
		t.Fatalf("herbivores = %d, want parent and one child", len(w.Herbivores))
	}
	parent := w.FindAgent(pid)
	if parent == nil || parent.Energy != ht.ReproductionEnergy/2 {
		t.Fatalf("parent energy not halved: %+v", parent)
	}
	child := w.FindAgent(childID)
	if child == nil {
		t.Fatalf("child with id %d not found", childID)
	}
	if want := child.Traits.ReproductionEnergy * systems.ChildEnergyFraction; math.Abs(child.Energy-want) > 1e-12 {
		t.Errorf("child energy = %v, want %v", child.Energy, want)
	}
	if child.Age != 0 || child.Vel != (components.Velocity{}) {
		t.Errorf("child should be unprocessed this tick: age=%v vel=%+v", child.Age, child.Vel)
	}
}

func TestAdvance_ChildIsPreyInBirthTick(t *testing.T) {
	const seed = 2
	ht := traits.DefaultHerbivoreTraits()
	ht.Stealth = 0

	// Replay the draws the birth will make: one keep-or-mutate draw per
	// herbivore trait, then the x and y jitter.
	replay := rand.New(rand.NewSource(seed))
	for i := 0; i < 5; i++ {
		replay.Float64()
	}
	childX := 50 + systems.RandRange(replay, -systems.BirthJitter, systems.BirthJitter)
	childY := 50 + systems.RandRange(replay, -systems.BirthJitter, systems.BirthJitter)

	w := NewWorld(100, 100)
	pid := addAgent(w, components.Herbivore, 50, 50, ht.ReproductionEnergy-systems.PlantEnergy, ht)
	addPlant(w, 50, 50)
	addAgent(w, components.Carnivore, childX, childY, 20, traits.DefaultCarnivoreTraits())
	childID := w.PeekNextID()

	log := newEventLog()
	Advance(w, rand.New(rand.NewSource(seed)), 0, Params{MutationRate: 0, Recorder: log})

	if log.births[pid] != 1 {
		t.Fatalf("expected one birth, got %d", log.births[pid])
	}
	if log.deaths[childID] != Predation {
		t.Fatalf("newborn %d was not hunted in its birth tick (deaths=%v)", childID, log.deaths)
	}
	if len(w.Herbivores) != 1 || w.Herbivores[0].ID != pid {
		t.Errorf("only the parent should remain, have %+v", w.Herbivores)
	}
}

// ---------- Properties ----------

func seededWorld(seed int64) (*World, *rand.Rand, *Spawner) {
	rng := rand.New(rand.NewSource(seed))
	w := NewWorld(400, 300)
	s := NewSpawner(300, nil)
	s.Seed(w, rng, Population{Plants: 150, Herbivores: 40, Carnivores: 12})
	return w, rng, s
}

func TestAdvance_BoundsAndIDs(t *testing.T) {
	w, rng, s := seededWorld(11)
	b := w.Bounds()
	var credit RegenCredit

	for step := 0; step < 1200; step++ {
		Advance(w, rng, tick, DefaultParams())
		for i := credit.Accrue(tick, 10); i > 0; i-- {
			s.SpawnPlant(w, rng)
		}

		seen := make(map[uint64]bool)
		check := func(id uint64) {
			if id == 0 || id >= w.PeekNextID() {
				t.Fatalf("step %d: id %d outside issued range", step, id)
			}
			if seen[id] {
				t.Fatalf("step %d: duplicate id %d", step, id)
			}
			seen[id] = true
		}
		for _, p := range w.Plants {
			check(p.ID)
			if !b.Contains(p.Pos) {
				t.Fatalf("step %d: plant %d at %+v out of bounds", step, p.ID, p.Pos)
			}
		}
		for _, list := range [][]components.Agent{w.Herbivores, w.Carnivores} {
			for _, a := range list {
				check(a.ID)
				if !b.Contains(a.Pos) {
					t.Fatalf("step %d: agent %d at %+v out of bounds", step, a.ID, a.Pos)
				}
				if !a.Traits.IsValid(a.Species.IsCarnivore()) {
					t.Fatalf("step %d: agent %d has off-level traits %+v", step, a.ID, a.Traits)
				}
				if a.Energy <= 0 {
					t.Fatalf("step %d: agent %d alive with energy %v", step, a.ID, a.Energy)
				}
			}
		}
		if len(w.Plants) > s.MaxPlants {
			t.Fatalf("step %d: %d plants exceed cap %d", step, len(w.Plants), s.MaxPlants)
		}
	}
}

func TestAdvance_EnergyBoundAndConservation(t *testing.T) {
	w, rng, _ := seededWorld(5)

	for step := 0; step < 600; step++ {
		before := make(map[uint64]components.Agent)
		for _, list := range [][]components.Agent{w.Herbivores, w.Carnivores} {
			for _, a := range list {
				before[a.ID] = a
			}
		}
		plantsBefore := len(w.Plants)
		nextBefore := w.PeekNextID()

		log := newEventLog()
		p := DefaultParams()
		p.Recorder = log
		Advance(w, rng, tick, p)

		after := make(map[uint64]components.Agent)
		for _, list := range [][]components.Agent{w.Herbivores, w.Carnivores} {
			for _, a := range list {
				after[a.ID] = a
			}
		}

		births := 0
		for _, n := range log.births {
			births += n
		}
		if got, want := len(after), len(before)+births-len(log.deaths); got != want {
			t.Fatalf("step %d: population %d, want %d", step, got, want)
		}
		if births != int(w.PeekNextID()-nextBefore) {
			t.Fatalf("step %d: %d births but %d ids issued", step, births, w.PeekNextID()-nextBefore)
		}

		plantMeals := 0
		for id := range log.deaths {
			if _, ok := after[id]; ok {
				t.Fatalf("step %d: dead agent %d still present", step, id)
			}
		}
		for id, gain := range log.meals {
			if before[id].Species == components.Herbivore {
				plantMeals++
			}
			if gain > systems.MaxMealGain(ptr(before[id])) {
				t.Fatalf("step %d: agent %d gained %v in one tick", step, id, gain)
			}
		}
		if len(w.Plants) != plantsBefore-plantMeals {
			t.Fatalf("step %d: plants %d, want %d", step, len(w.Plants), plantsBefore-plantMeals)
		}

		for id, a := range after {
			prev, existed := before[id]
			if !existed {
				continue
			}
			if a.Energy > prev.Energy+systems.MaxMealGain(&prev) {
				t.Fatalf("step %d: agent %d energy %v exceeds bound from %v", step, id, a.Energy, prev.Energy)
			}
			if log.meals[id] == 0 && log.births[id] == 0 {
				want := prev.Energy - prev.EnergyCostPerSecond()*tick
				if math.Abs(a.Energy-want) > 1e-9 {
					t.Fatalf("step %d: agent %d energy %v, want %v", step, id, a.Energy, want)
				}
			}
		}
	}
}

func ptr(a components.Agent) *components.Agent { return &a }

func TestAdvance_Deterministic(t *testing.T) {
	run := func() *World {
		w, rng, _ := seededWorld(99)
		for i := 0; i < 300; i++ {
			Advance(w, rng, tick, DefaultParams())
		}
		return w
	}
	a, b := run(), run()
	if len(a.Herbivores) != len(b.Herbivores) || len(a.Carnivores) != len(b.Carnivores) || len(a.Plants) != len(b.Plants) {
		t.Fatal("same seed produced different populations")
	}
	for i := range a.Herbivores {
		if a.Herbivores[i] != b.Herbivores[i] {
			t.Fatalf("herbivore %d differs", i)
		}
	}
}

func TestAdvance_DirectSteering(t *testing.T) {
	w := NewWorld(200, 200)
	hid := addAgent(w, components.Herbivore, 100, 100, 30, traits.DefaultHerbivoreTraits())
	addPlant(w, 150, 100)

	p := DefaultParams()
	p.Steering = systems.Steering{Mode: systems.SteerDirect}
	Advance(w, rand.New(rand.NewSource(1)), 0.1, p)

	h := w.FindAgent(hid)
	if h.Vel.X != 35 || h.Vel.Y != 0 {
		t.Errorf("velocity = %+v, want (35,0)", h.Vel)
	}
	if math.Abs(h.Pos.X-103.5) > 1e-9 {
		t.Errorf("x = %v, want 103.5", h.Pos.X)
	}
}

func TestAdvance_ResizeClampsOnNextTick(t *testing.T) {
	w := NewWorld(400, 400)
	id := addAgent(w, components.Herbivore, 350, 350, 30, traits.DefaultHerbivoreTraits())
	w.Resize(100, 100)

	Advance(w, rand.New(rand.NewSource(1)), tick, DefaultParams())

	if a := w.FindAgent(id); !w.Bounds().Contains(a.Pos) {
		t.Errorf("agent at %+v not clamped into resized world", a.Pos)
	}
}
