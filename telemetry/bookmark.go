package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/biome/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHerbivoreCrash    BookmarkType = "herbivore_crash"
	BookmarkCarnivoreRecovery BookmarkType = "carnivore_recovery"
	BookmarkStableCoexistence BookmarkType = "stable_coexistence"
	BookmarkExtinction        BookmarkType = "extinction"
	BookmarkGenotypeDominance BookmarkType = "genotype_dominance"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" db:"type" json:"type"`
	Tick        int64        `csv:"tick" db:"tick" json:"tick"`
	SimTime     float64      `csv:"sim_time" db:"sim_time" json:"sim_time"`
	Description string       `csv:"description" db:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time", b.SimTime,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentCarnMin      int  // minimum carnivore count since last recovery
	recentHerbPeak     int  // peak herbivore count since last crash
	stableWindowsCount int  // consecutive windows with stable populations
	herbExtinct        bool // already reported
	carnExtinct        bool
	herbDominance      dominanceState
	carnDominance      dominanceState
}

// dominanceState tracks genotype takeovers for one species. Founders all
// share one genotype, so reporting is armed only after the species has been
// seen without a dominant genotype.
type dominanceState struct {
	armed   bool
	current string // genotype currently reported as dominant
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if cfg.StableCoexistence.StableWindows < 1 {
		cfg.StableCoexistence.StableWindows = 5
	}
	if historySize < cfg.StableCoexistence.StableWindows {
		historySize = cfg.StableCoexistence.StableWindows
	}
	return &BookmarkDetector{
		cfg:           cfg,
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		recentCarnMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			b.Tick = stats.Tick
			b.SimTime = stats.WindowEnd
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkExtinction(stats))
	if bd.historyFull || bd.historyIdx > 0 {
		add(bd.checkHerbivoreCrash(stats))
		add(bd.checkCarnivoreRecovery(stats))
	}
	bd.addToHistory(stats)
	add(bd.checkStableCoexistence(stats))
	add(bd.checkDominance("herbivores", stats.Herbivores, stats.TopHerbGenotype, stats.TopHerbShare, &bd.herbDominance))
	add(bd.checkDominance("carnivores", stats.Carnivores, stats.TopCarnGenotype, stats.TopCarnShare, &bd.carnDominance))

	// Track carnivore minimum and herbivore peak
	if bd.recentCarnMin < 0 || stats.Carnivores < bd.recentCarnMin {
		bd.recentCarnMin = stats.Carnivores
	}
	if stats.Herbivores > bd.recentHerbPeak {
		bd.recentHerbPeak = stats.Herbivores
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the newest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	var b *Bookmark
	if stats.Herbivores == 0 && !bd.herbExtinct {
		bd.herbExtinct = true
		b = &Bookmark{Type: BookmarkExtinction, Description: "Herbivores went extinct"}
	}
	if stats.Carnivores == 0 && !bd.carnExtinct {
		bd.carnExtinct = true
		if b != nil {
			b.Description = "Herbivores and carnivores went extinct"
		} else {
			b = &Bookmark{Type: BookmarkExtinction, Description: "Carnivores went extinct"}
		}
	}
	return b
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats WindowStats) *Bookmark {
	cfg := bd.cfg.HerbivoreCrash
	if bd.recentHerbPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Herbivores)/float64(bd.recentHerbPeak)
	if drop > cfg.DropPercent && stats.Herbivores <= bd.recentHerbPeak-cfg.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentHerbPeak
		bd.recentHerbPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Herbivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCarnivoreRecovery(stats WindowStats) *Bookmark {
	cfg := bd.cfg.CarnivoreRecovery
	if bd.recentCarnMin <= 0 || bd.recentCarnMin > cfg.MinPopulation {
		return nil
	}

	threshold := bd.recentCarnMin * cfg.RecoveryMultiplier
	if stats.Carnivores >= threshold && stats.Carnivores >= cfg.MinFinal {
		oldMin := bd.recentCarnMin
		bd.recentCarnMin = stats.Carnivores

		return &Bookmark{
			Type:        BookmarkCarnivoreRecovery,
			Description: fmt.Sprintf("Carnivore population recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableCoexistence(stats WindowStats) *Bookmark {
	cfg := bd.cfg.StableCoexistence
	if stats.Herbivores < cfg.MinHerbivores || stats.Carnivores < cfg.MinCarnivores {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(cfg.StableWindows)
	if len(window) < cfg.StableWindows {
		return nil
	}

	herb := make([]float64, len(window))
	carn := make([]float64, len(window))
	for i, w := range window {
		herb[i] = float64(w.Herbivores)
		carn[i] = float64(w.Carnivores)
	}

	if coefVar(herb) < cfg.CVThreshold && coefVar(carn) < cfg.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	// Trigger once per stable stretch
	if bd.stableWindowsCount == 1 {
		return &Bookmark{
			Type: BookmarkStableCoexistence,
			Description: fmt.Sprintf("Stable coexistence with %d herbivores, %d carnivores over %d windows",
				stats.Herbivores, stats.Carnivores, cfg.StableWindows),
		}
	}
	return nil
}

func coefVar(xs []float64) float64 {
	mean, std := stat.PopMeanStdDev(xs, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

func (bd *BookmarkDetector) checkDominance(species string, count int, top string, share float64, st *dominanceState) *Bookmark {
	cfg := bd.cfg.GenotypeDominance
	if cfg.Share <= 0 || count < cfg.MinPopulation {
		st.current = ""
		return nil
	}
	if share < cfg.Share {
		st.armed = true
		st.current = ""
		return nil
	}
	if !st.armed || top == st.current {
		return nil
	}
	st.current = top
	return &Bookmark{
		Type:        BookmarkGenotypeDominance,
		Description: fmt.Sprintf("Genotype %s holds %.0f%% of %d %s", top, share*100, count, species),
	}
}
