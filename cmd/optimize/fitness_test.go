package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/biome/config"
	"github.com/pthm-cable/biome/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	base, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(base)

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	cfg := *base
	pv.ApplyToConfig(&cfg, []float64{5000, 1800, -1, 0.5, 150, 1})
	if cfg.Plants.Max != 2000 || cfg.Plants.Initial != 1000 {
		t.Errorf("plants not clamped: max=%d initial=%d", cfg.Plants.Max, cfg.Plants.Initial)
	}
	if cfg.Plants.RegenPerSecond != 2 || cfg.Mutation.Rate != 0.3 {
		t.Errorf("rates not clamped: regen=%v mutation=%v", cfg.Plants.RegenPerSecond, cfg.Mutation.Rate)
	}
	if cfg.Population.InitialHerbivores != 150 || cfg.Population.InitialCarnivores != 2 {
		t.Errorf("population = %d/%d", cfg.Population.InitialHerbivores, cfg.Population.InitialCarnivores)
	}
	if base.Plants.Max == 2000 && base.Mutation.Rate == 0.3 {
		t.Error("ApplyToConfig on a copy modified the base config")
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 20)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Herbivores: 50, Carnivores: 10, HerbDiversity: 1, CarnDiversity: 1}
	}
	q := computeQuality(steady)
	want := qualityWeightRatio + qualityWeightStability + qualityWeightDiversity*(1-math.Exp(-1))
	if math.Abs(q-want) > 1e-9 {
		t.Errorf("steady quality = %v, want %v", q, want)
	}

	if q := computeQuality(steady[:qualityWarmupWindows]); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}

	collapsed := make([]telemetry.WindowStats, 20)
	for i := range collapsed {
		collapsed[i] = telemetry.WindowStats{Herbivores: 50, Carnivores: 1}
	}
	if q := computeQuality(collapsed); q != 0 {
		t.Errorf("quality without viable carnivores = %v, want 0", q)
	}
}

func TestComputeFitnessPrefersSurvival(t *testing.T) {
	long := computeFitness(10000, 0)
	short := computeFitness(5000, 1)
	if long >= short {
		t.Errorf("longer survival should win: %v vs %v", long, short)
	}
	if computeFitness(5000, 1) >= computeFitness(5000, 0) {
		t.Error("quality should break survival ties")
	}
}

func TestEvaluateHeadless(t *testing.T) {
	if testing.Short() {
		t.Skip("runs full simulations")
	}
	base, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(base)
	fe := NewFitnessEvaluator(pv, 300, []int64{1, 2}, base)

	f := fe.Evaluate(pv.DefaultVector())
	if f > 0 || f < -300*1.2 {
		t.Errorf("fitness %v outside [-360, 0]", f)
	}
	if q := fe.LastQuality(); q < 0 || q > 1 {
		t.Errorf("quality %v outside [0, 1]", q)
	}
}
