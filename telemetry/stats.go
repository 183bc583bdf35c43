package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStart float64 `csv:"-" db:"window_start"`
	WindowEnd   float64 `csv:"sim_time" db:"sim_time"`
	Tick        int64   `csv:"tick" db:"tick"`

	// Population counts at window end
	Plants     int `csv:"plants" db:"plants"`
	Herbivores int `csv:"herbivores" db:"herbivores"`
	Carnivores int `csv:"carnivores" db:"carnivores"`

	// Events during window
	HerbivoreBirths  int `csv:"herb_births" db:"herb_births"`
	CarnivoreBirths  int `csv:"carn_births" db:"carn_births"`
	HerbivoreStarved int `csv:"herb_starved" db:"herb_starved"`
	CarnivoreStarved int `csv:"carn_starved" db:"carn_starved"`
	Predations       int `csv:"predations" db:"predations"`
	PlantsEaten      int `csv:"plants_eaten" db:"plants_eaten"`
	PlantsSpawned    int `csv:"plants_spawned" db:"plants_spawned"`

	// Energy distribution (sampled at window end)
	HerbEnergyMean float64 `csv:"herb_energy_mean" db:"herb_energy_mean"`
	HerbEnergyP10  float64 `csv:"herb_energy_p10" db:"herb_energy_p10"`
	HerbEnergyP50  float64 `csv:"herb_energy_p50" db:"herb_energy_p50"`
	HerbEnergyP90  float64 `csv:"herb_energy_p90" db:"herb_energy_p90"`

	CarnEnergyMean float64 `csv:"carn_energy_mean" db:"carn_energy_mean"`
	CarnEnergyP10  float64 `csv:"carn_energy_p10" db:"carn_energy_p10"`
	CarnEnergyP50  float64 `csv:"carn_energy_p50" db:"carn_energy_p50"`
	CarnEnergyP90  float64 `csv:"carn_energy_p90" db:"carn_energy_p90"`

	// Mean trait values across the living population
	HerbSpeedMean   float64 `csv:"herb_speed_mean" db:"herb_speed_mean"`
	HerbStealthMean float64 `csv:"herb_stealth_mean" db:"herb_stealth_mean"`
	CarnSpeedMean   float64 `csv:"carn_speed_mean" db:"carn_speed_mean"`
	CarnVisionMean  float64 `csv:"carn_vision_mean" db:"carn_vision_mean"`
	CarnStrengthStd float64 `csv:"carn_strength_std" db:"carn_strength_std"`

	// Genotype diversity
	HerbGenotypes   int     `csv:"herb_genotypes" db:"herb_genotypes"`
	CarnGenotypes   int     `csv:"carn_genotypes" db:"carn_genotypes"`
	HerbDiversity   float64 `csv:"herb_diversity" db:"herb_diversity"` // Shannon entropy, nats
	CarnDiversity   float64 `csv:"carn_diversity" db:"carn_diversity"`
	TopHerbGenotype string  `csv:"top_herb_genotype" db:"top_herb_genotype"`
	TopHerbShare    float64 `csv:"top_herb_share" db:"top_herb_share"`
	TopCarnGenotype string  `csv:"top_carn_genotype" db:"top_carn_genotype"`
	TopCarnShare    float64 `csv:"top_carn_share" db:"top_carn_share"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation between closest ranks
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// MeanStd returns the population mean and standard deviation.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// ShannonDiversity returns the entropy in nats of a genotype count map.
// A single genotype, or none, has zero diversity.
func ShannonDiversity(counts map[string]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			p = append(p, float64(c)/float64(total))
		}
	}
	return stat.Entropy(p)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("sim_time", s.WindowEnd),
		slog.Int64("tick", s.Tick),
		slog.Int("plants", s.Plants),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("herb_births", s.HerbivoreBirths),
		slog.Int("carn_births", s.CarnivoreBirths),
		slog.Int("herb_starved", s.HerbivoreStarved),
		slog.Int("carn_starved", s.CarnivoreStarved),
		slog.Int("predations", s.Predations),
		slog.Int("plants_eaten", s.PlantsEaten),
		slog.Int("plants_spawned", s.PlantsSpawned),
		slog.Float64("herb_energy_mean", s.HerbEnergyMean),
		slog.Float64("herb_energy_p50", s.HerbEnergyP50),
		slog.Float64("carn_energy_mean", s.CarnEnergyMean),
		slog.Float64("carn_energy_p50", s.CarnEnergyP50),
		slog.Float64("herb_speed_mean", s.HerbSpeedMean),
		slog.Float64("herb_stealth_mean", s.HerbStealthMean),
		slog.Float64("carn_speed_mean", s.CarnSpeedMean),
		slog.Float64("carn_vision_mean", s.CarnVisionMean),
		slog.Int("herb_genotypes", s.HerbGenotypes),
		slog.Int("carn_genotypes", s.CarnGenotypes),
		slog.Float64("herb_diversity", s.HerbDiversity),
		slog.Float64("carn_diversity", s.CarnDiversity),
		slog.String("top_herb_genotype", s.TopHerbGenotype),
		slog.String("top_carn_genotype", s.TopCarnGenotype),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
