// Command optimize searches for ecosystem parameters that keep herbivores
// and carnivores coexisting, using CMA-ES over headless runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/biome/config"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int64("max-ticks", 60*60*20, "Tick cap per run")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Evaluation budget")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4 + 1.5*dim)")
	stepSize := flag.Float64("step", 0.3, "Initial CMA-ES step size in normalized space")
	outputDir := flag.String("output", "", "Directory for optimize_log.csv and best_config.yaml")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		fatal("missing flag", errors.New("-output is required"))
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fatal("failed to create output directory", err)
	}
	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", err)
	}
	base := config.Cfg()

	params := NewParamVector(base)
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(42 + 1000*i)
	}
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, base)

	names := make([]string, len(params.Specs))
	for i, s := range params.Specs {
		names[i] = s.Name
	}
	log, err := newEvalLog(filepath.Join(*outputDir, "optimize_log.csv"), names, *maxEvals)
	if err != nil {
		fatal("failed to create log file", err)
	}
	defer log.Close()

	dim := params.Dim()
	popSize := *population
	if popSize <= 0 {
		popSize = 4 + 3*dim/2
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			quality := evaluator.LastQuality()
			survival := -fitness / (1 + qualityBonus*quality) * base.Time.FixedStep
			log.record(clamped, fitness, quality, survival)
			return fitness
		},
	}
	// Seeds already run in parallel inside each evaluation.
	settings := &optimize.Settings{FuncEvaluations: *maxEvals, Concurrent: 0}
	method := &optimize.CmaEsChol{InitStepSize: *stepSize, Population: popSize}

	fmt.Printf("CMA-ES: %d parameters, population %d, %d evaluations, %d seeds x %d ticks\n",
		dim, popSize, *maxEvals, *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	best := log.bestX
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		fatal("no evaluations completed", err)
	}

	fmt.Printf("\nDone after %d evaluations in %s, best fitness %.0f\n", log.count, formatDuration(log.elapsed()), log.best)
	for i, s := range params.Specs {
		fmt.Printf("  %-16s %-34s %.6f\n", s.Name, s.Path, best[i])
	}

	bestCfg := *base
	params.ApplyToConfig(&bestCfg, best)
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		fatal("failed to write best config", err)
	}
	fmt.Printf("Best config saved to %s\n", out)
}
