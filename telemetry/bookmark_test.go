package telemetry

import (
	"testing"

	"github.com/pthm-cable/biome/config"
)

func bookmarkConfig(t *testing.T) config.BookmarksConfig {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg.Bookmarks
}

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HerbivoreCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, bookmarkConfig(t))

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{Tick: int64(i * 60), Herbivores: 100, Carnivores: 10})
	}

	bms := bd.Check(WindowStats{Tick: 300, WindowEnd: 5, Herbivores: 50, Carnivores: 10})
	if !hasBookmark(bms, BookmarkHerbivoreCrash) {
		t.Fatal("expected herbivore_crash bookmark")
	}
	if bms[0].Tick != 300 || bms[0].SimTime != 5 {
		t.Errorf("bookmark stamped with tick %d time %v", bms[0].Tick, bms[0].SimTime)
	}

	// Peak resets, so a further small dip does not fire again.
	if hasBookmark(bd.Check(WindowStats{Herbivores: 45, Carnivores: 10}), BookmarkHerbivoreCrash) {
		t.Error("crash fired twice without a new peak")
	}
}

func TestBookmarkDetector_CarnivoreRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10, bookmarkConfig(t))

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{Tick: int64(i * 60), Herbivores: 100, Carnivores: 2})
	}
	bms := bd.Check(WindowStats{Tick: 240, Herbivores: 100, Carnivores: 10})
	if !hasBookmark(bms, BookmarkCarnivoreRecovery) {
		t.Error("expected carnivore_recovery bookmark")
	}
}

func TestBookmarkDetector_StableCoexistence(t *testing.T) {
	bd := NewBookmarkDetector(10, bookmarkConfig(t))

	fired := 0
	for i := 0; i < 12; i++ {
		bms := bd.Check(WindowStats{Tick: int64(i * 60), Herbivores: 100 + i%2, Carnivores: 20})
		if hasBookmark(bms, BookmarkStableCoexistence) {
			fired++
			if i != 4 {
				t.Errorf("stable coexistence fired at window %d, want 4", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stable coexistence fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10, bookmarkConfig(t))

	bd.Check(WindowStats{Herbivores: 40, Carnivores: 5})
	if !hasBookmark(bd.Check(WindowStats{Herbivores: 40, Carnivores: 0}), BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{Herbivores: 40, Carnivores: 0}), BookmarkExtinction) {
		t.Error("extinction reported twice for the same species")
	}
}

func TestBookmarkDetector_GenotypeDominance(t *testing.T) {
	bd := NewBookmarkDetector(10, bookmarkConfig(t))

	mixed := WindowStats{Herbivores: 50, Carnivores: 5, TopHerbGenotype: "Ha", TopHerbShare: 0.5}
	if hasBookmark(bd.Check(mixed), BookmarkGenotypeDominance) {
		t.Error("50% share should not count as dominance")
	}

	takeover := WindowStats{Herbivores: 50, Carnivores: 5, TopHerbGenotype: "Hb", TopHerbShare: 0.9}
	if !hasBookmark(bd.Check(takeover), BookmarkGenotypeDominance) {
		t.Fatal("expected genotype_dominance bookmark")
	}
	if hasBookmark(bd.Check(takeover), BookmarkGenotypeDominance) {
		t.Error("same dominant genotype reported twice")
	}
}

func TestBookmarkDetector_FounderGenotypeIsNotDominance(t *testing.T) {
	bd := NewBookmarkDetector(10, bookmarkConfig(t))

	founders := WindowStats{
		Herbivores: 50, Carnivores: 20,
		TopHerbGenotype: "Hbtk8t6", TopHerbShare: 0.95,
		TopCarnGenotype: "C1962nyh", TopCarnShare: 1,
	}
	for i := 0; i < 3; i++ {
		if hasBookmark(bd.Check(founders), BookmarkGenotypeDominance) {
			t.Fatalf("window %d: founder genotype reported as dominance", i)
		}
	}

	mixed := founders
	mixed.TopHerbShare = 0.4
	if hasBookmark(bd.Check(mixed), BookmarkGenotypeDominance) {
		t.Fatal("mixed herbivores reported as dominance")
	}

	mixed.TopHerbGenotype, mixed.TopHerbShare = "Hx", 0.85
	got := bd.Check(mixed)
	n := 0
	for _, b := range got {
		if b.Type == BookmarkGenotypeDominance {
			n++
		}
	}
	if n != 1 {
		t.Errorf("dominance bookmarks after herbivore takeover = %d, want 1 (carnivores never mixed)", n)
	}
}
