package game

import (
	"log/slog"

	"github.com/pthm-cable/biome/telemetry"
)

// logRunStart records the founders of a freshly seeded world.
func (g *Game) logRunStart() {
	slog.Info("world seeded",
		"seed", g.rngSeed,
		"width", g.world.Width,
		"height", g.world.Height,
		"plants", len(g.world.Plants),
		"herbivores", len(g.world.Herbivores),
		"carnivores", len(g.world.Carnivores),
		"run_id", g.runID,
	)
}

// checkExtinction logs the first tick a species disappears. Each species
// is reported once per run.
func (g *Game) checkExtinction() {
	if !g.herbExtinct && len(g.world.Herbivores) == 0 {
		g.herbExtinct = true
		g.logExtinction("herbivores")
	}
	if !g.carnExtinct && len(g.world.Carnivores) == 0 {
		g.carnExtinct = true
		g.logExtinction("carnivores")
	}
}

func (g *Game) logExtinction(species string) {
	slog.Info("extinction",
		"species", species,
		"tick", g.tick,
		"sim_time", g.world.Time,
	)
}

// logWindow writes one stats window and the current perf summary.
func (g *Game) logWindow(stats telemetry.WindowStats, perf telemetry.PerfStats) {
	stats.LogStats()
	slog.Info("perf", "tick", g.tick, "perf", perf)
}
