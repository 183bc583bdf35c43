// Package telemetry samples and records ecosystem statistics: census and
// genotype counts, stats windows, bookmarks, perf timing, CSV and SQLite
// output, and world dumps.
package telemetry

import (
	"math"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/sim"
)

// Collector accumulates lifecycle events within stats windows and produces
// WindowStats. It implements sim.Recorder.
type Collector struct {
	windowDuration float64 // simulated seconds
	windowStart    float64

	// Event counters for current window
	herbBirths    int
	carnBirths    int
	herbStarved   int
	carnStarved   int
	predations    int
	plantsEaten   int
	plantsSpawned int
}

var _ sim.Recorder = (*Collector)(nil)

// NewCollector creates a collector that flushes every windowDuration
// simulated seconds.
func NewCollector(windowDuration float64) *Collector {
	if windowDuration <= 0 {
		windowDuration = 1
	}
	return &Collector{windowDuration: windowDuration}
}

// RecordMeal implements sim.Recorder.
func (c *Collector) RecordMeal(eater components.Agent, _ float64) {
	if !eater.Species.IsCarnivore() {
		c.plantsEaten++
	}
}

// RecordBirth implements sim.Recorder.
func (c *Collector) RecordBirth(_, child components.Agent) {
	if child.Species.IsCarnivore() {
		c.carnBirths++
	} else {
		c.herbBirths++
	}
}

// RecordDeath implements sim.Recorder.
func (c *Collector) RecordDeath(a components.Agent, cause sim.DeathCause) {
	switch {
	case cause == sim.Predation:
		c.predations++
	case a.Species.IsCarnivore():
		c.carnStarved++
	default:
		c.herbStarved++
	}
}

// RecordPlantSpawns counts plants added by replenishment.
func (c *Collector) RecordPlantSpawns(n int) {
	c.plantsSpawned += n
}

// boundaryEpsilon absorbs rounding in simulated time accumulated from
// fixed steps, so a window closes on the tick that reaches its end.
const boundaryEpsilon = 1e-9

// ShouldFlush reports whether the current window has elapsed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStart >= c.windowDuration-boundaryEpsilon
}

// Flush samples the world, produces a WindowStats and resets counters for
// the next window. It does not modify w.
func (c *Collector) Flush(w *sim.World, tick int64) WindowStats {
	census := TakeCensus(w)

	herbEnergy := make([]float64, len(w.Herbivores))
	herbSpeed := make([]float64, len(w.Herbivores))
	herbStealth := make([]float64, len(w.Herbivores))
	for i := range w.Herbivores {
		a := &w.Herbivores[i]
		herbEnergy[i] = a.Energy
		herbSpeed[i] = a.Traits.Speed
		herbStealth[i] = a.Traits.Stealth
	}

	carnEnergy := make([]float64, len(w.Carnivores))
	carnSpeed := make([]float64, len(w.Carnivores))
	carnVision := make([]float64, len(w.Carnivores))
	carnStrength := make([]float64, len(w.Carnivores))
	for i := range w.Carnivores {
		a := &w.Carnivores[i]
		carnEnergy[i] = a.Energy
		carnSpeed[i] = a.Traits.Speed
		carnVision[i] = a.Traits.Vision
		carnStrength[i] = a.Traits.Strength
	}

	hMean, hP10, hP50, hP90 := ComputeEnergyStats(herbEnergy)
	cMean, cP10, cP50, cP90 := ComputeEnergyStats(carnEnergy)
	herbSpeedMean, _ := MeanStd(herbSpeed)
	herbStealthMean, _ := MeanStd(herbStealth)
	carnSpeedMean, _ := MeanStd(carnSpeed)
	carnVisionMean, _ := MeanStd(carnVision)
	_, carnStrengthStd := MeanStd(carnStrength)

	topHerb, topHerbShare := dominant(census.HerbivoresByGenotype, census.Herbivores)
	topCarn, topCarnShare := dominant(census.CarnivoresByGenotype, census.Carnivores)

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   w.Time,
		Tick:        tick,

		Plants:     census.Plants,
		Herbivores: census.Herbivores,
		Carnivores: census.Carnivores,

		HerbivoreBirths:  c.herbBirths,
		CarnivoreBirths:  c.carnBirths,
		HerbivoreStarved: c.herbStarved,
		CarnivoreStarved: c.carnStarved,
		Predations:       c.predations,
		PlantsEaten:      c.plantsEaten,
		PlantsSpawned:    c.plantsSpawned,

		HerbEnergyMean: hMean,
		HerbEnergyP10:  hP10,
		HerbEnergyP50:  hP50,
		HerbEnergyP90:  hP90,

		CarnEnergyMean: cMean,
		CarnEnergyP10:  cP10,
		CarnEnergyP50:  cP50,
		CarnEnergyP90:  cP90,

		HerbSpeedMean:   herbSpeedMean,
		HerbStealthMean: herbStealthMean,
		CarnSpeedMean:   carnSpeedMean,
		CarnVisionMean:  carnVisionMean,
		CarnStrengthStd: carnStrengthStd,

		HerbGenotypes:   len(census.HerbivoresByGenotype),
		CarnGenotypes:   len(census.CarnivoresByGenotype),
		HerbDiversity:   ShannonDiversity(census.HerbivoresByGenotype),
		CarnDiversity:   ShannonDiversity(census.CarnivoresByGenotype),
		TopHerbGenotype: topHerb,
		TopHerbShare:    topHerbShare,
		TopCarnGenotype: topCarn,
		TopCarnShare:    topCarnShare,
	}

	c.Reset(c.nextWindowStart(w.Time))
	return stats
}

// nextWindowStart returns the last window boundary at or before simTime.
// Windows stay on the stats_interval grid instead of re-anchoring on the
// flush time.
func (c *Collector) nextWindowStart(simTime float64) float64 {
	elapsed := math.Floor((simTime - c.windowStart + boundaryEpsilon) / c.windowDuration)
	if elapsed < 1 {
		return c.windowStart
	}
	return c.windowStart + elapsed*c.windowDuration
}

// Reset clears counters and starts a new window at simTime.
func (c *Collector) Reset(simTime float64) {
	c.windowStart = simTime
	c.herbBirths = 0
	c.carnBirths = 0
	c.herbStarved = 0
	c.carnStarved = 0
	c.predations = 0
	c.plantsEaten = 0
	c.plantsSpawned = 0
}

func dominant(counts map[string]int, total int) (string, float64) {
	top := TopGenotypes(counts, 1)
	if len(top) == 0 || total == 0 {
		return "", 0
	}
	return top[0].ID, float64(top[0].Count) / float64(total)
}
