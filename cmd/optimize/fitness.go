package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/biome/config"
	"github.com/pthm-cable/biome/game"
	"github.com/pthm-cable/biome/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// If either species stays below minViablePop for extinctionGraceSec
// simulated seconds it counts as functionally extinct.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional
// extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{survivalTicks: fe.maxTicks}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	defer g.Close()

	dt := cfg.Time.FixedStep
	warmupTicks := int64(warmupSec / dt)
	graceTicks := int64(extinctionGraceSec / dt)
	var herbBelow, carnBelow int64

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		herb, carn := g.HerbivoreCount(), g.CarnivoreCount()
		if herb == 0 || carn == 0 {
			result.survivalTicks = tick
			return result
		}

		herbBelow = countBelow(herbBelow, herb)
		carnBelow = countBelow(carnBelow, carn)
		if herbBelow >= graceTicks || carnBelow >= graceTicks {
			result.survivalTicks = tick
			return result
		}
	}
	return result
}

func countBelow(ticks int64, pop int) int64 {
	if pop < minViablePop {
		return ticks + 1
	}
	return 0
}

// copyConfig returns an independent copy of the base config. Config holds
// only values so a shallow copy is a deep one.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}

// qualityBonus is the largest fractional boost quality adds to survival.
const qualityBonus = 0.2

// computeFitness calculates the scalar fitness (lower = better):
// -(survivalTicks × (1 + qualityBonus × quality)).
// Survival dominates; quality separates configs that survive equally long.
func computeFitness(survivalTicks int64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + qualityBonus*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.35
	qualityWeightDiversity = 0.30

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either species < this
	targetRatio          = 5 // herbivores per carnivore
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, diversitySum float64
	herbCounts := make([]float64, 0, len(windows))
	carnCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Herbivores < qualityMinPop || w.Carnivores < qualityMinPop {
			continue
		}
		herbCounts = append(herbCounts, float64(w.Herbivores))
		carnCounts = append(carnCounts, float64(w.Carnivores))

		logErr := math.Log(float64(w.Herbivores) / float64(w.Carnivores) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		// 1 - e^-H maps Shannon entropy in nats onto [0, 1).
		diversitySum += 1 - math.Exp(-(w.HerbDiversity+w.CarnDiversity)/2)
	}

	n := len(herbCounts)
	if n == 0 {
		return 0
	}

	stability := 0.0
	if n >= 2 {
		cvHerb, cvCarn := cv(herbCounts), cv(carnCounts)
		stability = math.Exp(-(cvHerb*cvHerb + cvCarn*cvCarn))
	}

	quality := qualityWeightRatio*ratioSum/float64(n) +
		qualityWeightStability*stability +
		qualityWeightDiversity*diversitySum/float64(n)
	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := telemetry.MeanStd(values)
	if mean == 0 {
		return 0
	}
	return std / mean
}
