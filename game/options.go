package game

import (
	"github.com/pthm-cable/biome/config"
	"github.com/pthm-cable/biome/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	OutputDir      string // CSV output directory (empty = disabled)
	HistoryDB      string // SQLite history path (empty = disabled)
	SnapshotDir    string // World dumps on bookmarks and on demand (empty = disabled)
	StepsPerUpdate int    // Ticks per UpdateHeadless call
	Config         *config.Config

	// StatsCallback, when set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}
