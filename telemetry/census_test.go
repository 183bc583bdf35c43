package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/biome/sim"
	"github.com/pthm-cable/biome/traits"
)

func seededWorld(t *testing.T) *sim.World {
	t.Helper()
	w := sim.NewWorld(400, 300)
	rng := rand.New(rand.NewSource(1))
	s := sim.NewSpawner(100, nil)
	s.Seed(w, rng, sim.Population{Plants: 30, Herbivores: 12, Carnivores: 4})

	alt := traits.DefaultHerbivoreTraits()
	alt.Speed = traits.SpeedLevels[traits.High]
	for i := 0; i < 3; i++ {
		s.SpawnHerbivore(w, rng, &alt)
	}
	return w
}

func TestTakeCensus(t *testing.T) {
	w := seededWorld(t)
	c := TakeCensus(w)

	if c.Plants != 30 || c.Herbivores != 15 || c.Carnivores != 4 {
		t.Fatalf("counts = %d/%d/%d", c.Plants, c.Herbivores, c.Carnivores)
	}

	defaultHerb := traits.GenotypeID(traits.DefaultHerbivoreTraits(), false)
	if c.HerbivoresByGenotype[defaultHerb] != 12 {
		t.Errorf("default herbivore genotype count = %d, want 12", c.HerbivoresByGenotype[defaultHerb])
	}
	if len(c.HerbivoresByGenotype) != 2 {
		t.Errorf("herbivore genotypes = %d, want 2", len(c.HerbivoresByGenotype))
	}
	if c.CarnivoresByGenotype["C1962nyh"] != 4 {
		t.Errorf("carnivore genotype counts = %v", c.CarnivoresByGenotype)
	}
}

func TestTakeCensusDoesNotMutate(t *testing.T) {
	w := seededWorld(t)
	before := len(w.Plants) + w.AgentCount()
	next := w.PeekNextID()
	TakeCensus(w)
	if len(w.Plants)+w.AgentCount() != before || w.PeekNextID() != next {
		t.Error("census changed the world")
	}
}

func TestTopGenotypes(t *testing.T) {
	counts := map[string]int{"Hb": 5, "Ha": 5, "Hc": 9, "Hd": 1}

	top := TopGenotypes(counts, 3)
	want := []GenotypeCount{{"Hc", 9}, {"Ha", 5}, {"Hb", 5}}
	if len(top) != len(want) {
		t.Fatalf("len = %d, want %d", len(top), len(want))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}

	if all := TopGenotypes(counts, -1); len(all) != 4 {
		t.Errorf("n<0 should return all, got %d", len(all))
	}
}

func TestCensusRows(t *testing.T) {
	c := Census{
		Time:                 3,
		HerbivoresByGenotype: map[string]int{"Ha": 2, "Hb": 7},
		CarnivoresByGenotype: map[string]int{"Ca": 1},
	}
	rows := c.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Genotype != "Hb" || rows[0].Species != "herbivore" || rows[2].Species != "carnivore" {
		t.Errorf("unexpected row order: %+v", rows)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	if _, ok := h.Latest(); ok {
		t.Error("empty history has no latest")
	}
	for i := 1; i <= 5; i++ {
		h.Push(Census{Time: float64(i), Herbivores: i * 10})
	}

	if h.Len() != 3 || h.Cap() != 3 {
		t.Fatalf("len=%d cap=%d", h.Len(), h.Cap())
	}
	all := h.All()
	for i, want := range []float64{3, 4, 5} {
		if all[i].Time != want {
			t.Errorf("All()[%d].Time = %v, want %v", i, all[i].Time, want)
		}
	}
	if last, _ := h.Latest(); last.Time != 5 {
		t.Errorf("latest = %v", last.Time)
	}
	if s := h.Series(HerbivoreCount); s[0] != 30 || s[2] != 50 {
		t.Errorf("series = %v", s)
	}

	h.Reset()
	if h.Len() != 0 {
		t.Error("reset should empty history")
	}
}

func TestCyclePeriod(t *testing.T) {
	const period = 40.0
	series := make([]float64, 400)
	for i := range series {
		series[i] = 100 + 30*math.Sin(2*math.Pi*float64(i)/period)
	}

	got := CyclePeriod(series, 0.5)
	if math.Abs(got-period*0.5) > 0.5 {
		t.Errorf("CyclePeriod = %v, want %v", got, period*0.5)
	}

	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 7
	}
	if got := CyclePeriod(flat, 1); got != 0 {
		t.Errorf("flat series period = %v, want 0", got)
	}
	if got := CyclePeriod(series[:8], 1); got != 0 {
		t.Errorf("short series period = %v, want 0", got)
	}
}
