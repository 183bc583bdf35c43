// Package game drives a simulation run: it seeds the world, converts frame
// time into fixed steps, replenishes plants and feeds telemetry. It has no
// rendering of its own so headless runs and tools can share it.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/config"
	"github.com/pthm-cable/biome/sim"
	"github.com/pthm-cable/biome/telemetry"
)

// PaletteSize is the number of colors per species palette.
const PaletteSize = 8

// Game holds the complete state of one run.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	world   *sim.World
	spawner *sim.Spawner
	params  sim.Params
	regen   sim.RegenCredit
	stepper *Stepper

	// State
	tick           int64
	paused         bool
	headless       bool
	regenRate      float64
	stepsPerUpdate int

	// Telemetry
	collector        *telemetry.Collector
	history          *telemetry.History
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	store            *telemetry.HistoryStore
	runID            int64
	lastStats        telemetry.WindowStats
	hasStats         bool
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	herbExtinct      bool
	carnExtinct      bool

	// Colors survive resets so a lineage keeps its swatch
	herbVariants *Variants
	carnVariants *Variants
}

// NewGameWithOptions creates a game and seeds its first world.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		spawner:        sim.NewSpawner(cfg.Plants.Max, cfg.PlantPlacer(opts.Seed)),
		stepper:        NewStepper(cfg.Time),
		headless:       opts.Headless,
		regenRate:      cfg.Plants.RegenPerSecond,
		stepsPerUpdate: stepsPerUpdate,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsInterval),
		history:        telemetry.NewHistory(cfg.Telemetry.HistoryLength),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		statsCallback:  opts.StatsCallback,
		herbVariants:   NewVariants(PaletteSize),
		carnVariants:   NewVariants(PaletteSize),
	}
	g.params = sim.Params{
		MutationRate: cfg.Mutation.Rate,
		Steering:     cfg.SteeringPolicy(),
		Recorder:     g.collector,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	g.outputManager = om

	if opts.HistoryDB != "" {
		store, err := telemetry.OpenHistoryStore(opts.HistoryDB)
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("history db: %w", err)
		}
		g.store = store
	}

	g.Reset()
	return g, nil
}

// SaveSnapshot dumps the current world to the snapshot directory and
// returns the file path.
func (g *Game) SaveSnapshot() (string, error) {
	if g.snapshotDir == "" {
		return "", fmt.Errorf("no snapshot directory configured")
	}
	return telemetry.SaveSnapshot(telemetry.TakeSnapshot(g.world, g.rngSeed, g.tick), g.snapshotDir)
}

// Reset discards the world and seeds a fresh one with ids starting at 1.
// The current world size is kept so a resized window stays filled.
func (g *Game) Reset() {
	width, height := g.cfg.Derived.WorldW, g.cfg.Derived.WorldH
	if g.world != nil {
		width, height = g.world.Width, g.world.Height
	}

	g.world = sim.NewWorld(width, height)
	g.spawner.Seed(g.world, g.rng, sim.Population{
		Plants:     g.cfg.Plants.Initial,
		Herbivores: g.cfg.Population.InitialHerbivores,
		Carnivores: g.cfg.Population.InitialCarnivores,
	})

	g.tick = 0
	g.regen.Reset()
	g.stepper.Reset()
	g.collector.Reset(0)
	g.history.Reset()
	g.bookmarkDetector = telemetry.NewBookmarkDetector(g.cfg.Telemetry.BookmarkHistorySize, g.cfg.Bookmarks)
	g.lastStats, g.hasStats = telemetry.WindowStats{}, false
	g.herbExtinct, g.carnExtinct = false, false

	g.beginRun()
	g.logRunStart()
}

// beginRun opens a new run in the history store, if one is attached.
func (g *Game) beginRun() {
	if g.store == nil {
		return
	}
	cfgYAML, err := g.cfg.YAML()
	if err != nil {
		slog.Error("failed to encode config", "error", err)
	}
	runID, err := g.store.BeginRun(g.rngSeed, string(cfgYAML))
	if err != nil {
		slog.Error("failed to begin history run", "error", err)
		return
	}
	g.runID = runID
}

// Update advances the simulation by one rendered frame of frameDT seconds.
func (g *Game) Update(frameDT float64) {
	g.perfCollector.RecordFrame()
	if g.paused {
		return
	}
	for n := g.stepper.Frame(frameDT); n > 0; n-- {
		g.step(g.stepper.FixedStep)
	}
}

// UpdateHeadless runs StepsPerUpdate fixed steps regardless of wall time.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(g.stepper.FixedStep)
	}
}

// step runs a single fixed tick.
func (g *Game) step(dt float64) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseAdvance)
	sim.Advance(g.world, g.rng, dt, g.params)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseRegrowth)
	g.regrow(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.checkExtinction()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// regrow converts accrued regrowth credit into plants. Spawns beyond the
// plant cap are dropped along with their credit.
func (g *Game) regrow(dt float64) {
	n := g.regen.Accrue(dt, g.regenRate)
	spawned := 0
	for i := 0; i < n; i++ {
		if _, ok := g.spawner.SpawnPlant(g.world, g.rng); ok {
			spawned++
		}
	}
	if spawned > 0 {
		g.collector.RecordPlantSpawns(spawned)
	}
}

// Close flushes and closes run outputs.
func (g *Game) Close() error {
	err := g.outputManager.Close()
	if g.store != nil {
		if serr := g.store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// World returns the live world. Callers must treat it as read-only and
// only touch it between updates.
func (g *Game) World() *sim.World { return g.world }

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of fixed steps since the last reset.
func (g *Game) Tick() int64 { return g.tick }

// Seed returns the RNG seed of the run.
func (g *Game) Seed() int64 { return g.rngSeed }

// Headless reports whether the game runs without a window.
func (g *Game) Headless() bool { return g.headless }

// HerbivoreCount returns the number of living herbivores.
func (g *Game) HerbivoreCount() int { return len(g.world.Herbivores) }

// CarnivoreCount returns the number of living carnivores.
func (g *Game) CarnivoreCount() int { return len(g.world.Carnivores) }

// History returns the bounded census history.
func (g *Game) History() *telemetry.History { return g.history }

// LatestStats returns the most recent stats window, if one has been flushed.
func (g *Game) LatestStats() (telemetry.WindowStats, bool) { return g.lastStats, g.hasStats }

// PerfStats returns tick timing over the rolling window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// Variants returns the palette assigner for a species.
func (g *Game) Variants(s components.Species) *Variants {
	if s.IsCarnivore() {
		return g.carnVariants
	}
	return g.herbVariants
}

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPaused suspends or resumes Update.
func (g *Game) SetPaused(paused bool) { g.paused = paused }

// SpeedFactor returns the time dilation applied to frame deltas.
func (g *Game) SpeedFactor() float64 { return g.stepper.SpeedFactor }

// SetSpeedFactor changes the time dilation applied to frame deltas.
func (g *Game) SetSpeedFactor(f float64) { g.stepper.SpeedFactor = f }

// MutationRate returns the per-trait mutation probability for births.
func (g *Game) MutationRate() float64 { return g.params.MutationRate }

// SetMutationRate changes the mutation probability for future births.
func (g *Game) SetMutationRate(r float64) { g.params.MutationRate = r }

// MaxPlants returns the plant cap.
func (g *Game) MaxPlants() int { return g.spawner.MaxPlants }

// SetMaxPlants changes the plant cap. Plants above a lowered cap are not
// removed; regrowth simply stops until they are eaten down.
func (g *Game) SetMaxPlants(n int) { g.spawner.MaxPlants = n }

// RegenRate returns plants regrown per simulated second.
func (g *Game) RegenRate() float64 { return g.regenRate }

// SetRegenRate changes plants regrown per simulated second.
func (g *Game) SetRegenRate(r float64) { g.regenRate = r }

// StepsPerUpdate returns ticks per UpdateHeadless call.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate changes ticks per UpdateHeadless call.
func (g *Game) SetStepsPerUpdate(n int) {
	if n < 1 {
		n = 1
	}
	g.stepsPerUpdate = n
}

// Resize changes the world extent.
func (g *Game) Resize(width, height float64) {
	g.world.Resize(width, height)
}

// FollowScreen applies a window resize. Only axes configured as 0 (use
// screen size) follow the window; explicit world sizes are kept. It reports
// whether the world changed.
func (g *Game) FollowScreen(screenW, screenH float64) bool {
	width, height := g.world.Width, g.world.Height
	if g.cfg.World.Width == 0 {
		width = screenW
	}
	if g.cfg.World.Height == 0 {
		height = screenH
	}
	if width == g.world.Width && height == g.world.Height {
		return false
	}
	g.world.Resize(width, height)
	return true
}
