package game

import (
	"log/slog"

	"github.com/pthm-cable/biome/telemetry"
)

// flushTelemetry samples the world once per stats interval, then writes the
// window to every attached sink and checks for bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.world.Time) {
		return
	}

	census := telemetry.TakeCensus(g.world)
	g.history.Push(census)

	stats := g.collector.Flush(g.world, g.tick)
	g.lastStats, g.hasStats = stats, true
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}
	if g.logStats {
		g.logWindow(stats, perfStats)
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WriteCensus(census); err != nil {
		slog.Error("failed to write genotypes", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	g.saveWindow(stats, census)

	for _, bm := range g.bookmarkDetector.Check(stats) {
		bm.LogBookmark()
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.store != nil {
			if err := g.store.SaveBookmark(g.runID, bm); err != nil {
				slog.Error("failed to save bookmark", "error", err)
			}
		}
		g.snapshotBookmark(bm)
	}
}

// snapshotBookmark saves the world alongside a bookmark.
func (g *Game) snapshotBookmark(bm telemetry.Bookmark) {
	if g.snapshotDir == "" {
		return
	}
	snap := telemetry.TakeSnapshot(g.world, g.rngSeed, g.tick)
	snap.Bookmark = &bm
	path, err := telemetry.SaveSnapshot(snap, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "bookmark", string(bm.Type))
}

// saveWindow appends the window and its genotype census to the history db.
func (g *Game) saveWindow(stats telemetry.WindowStats, census telemetry.Census) {
	if g.store == nil {
		return
	}
	if err := g.store.SaveWindow(g.runID, stats); err != nil {
		slog.Error("failed to save window", "error", err)
	}
	if err := g.store.SaveCensus(g.runID, census); err != nil {
		slog.Error("failed to save census", "error", err)
	}
}
