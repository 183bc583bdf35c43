package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/biome/sim"
	"github.com/pthm-cable/biome/systems"
	"github.com/pthm-cable/biome/traits"
)

func advancedWorld(t *testing.T) *sim.World {
	t.Helper()
	w := sim.NewWorld(400, 300)
	rng := rand.New(rand.NewSource(1))
	sp := sim.NewSpawner(200, systems.UniformPlacer{})
	sp.Seed(w, rng, sim.Population{Plants: 30, Herbivores: 8, Carnivores: 3})
	for i := 0; i < 120; i++ {
		sim.Advance(w, rng, 1.0/60, sim.Params{MutationRate: 0.2})
	}
	return w
}

func TestSnapshotSaveLoad(t *testing.T) {
	w := advancedWorld(t)
	snap := TakeSnapshot(w, 42, 120)
	snap.Bookmark = &Bookmark{Type: BookmarkHerbivoreCrash, Tick: 120, Description: "test"}

	path, err := SaveSnapshot(snap, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_120_herbivore_crash.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Seed != 42 || loaded.Tick != 120 || loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkHerbivoreCrash {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.SimTime != w.Time || loaded.WorldWidth != w.Width || loaded.NextID != w.PeekNextID() {
		t.Errorf("world header mismatch: time %v/%v next %d/%d", loaded.SimTime, w.Time, loaded.NextID, w.PeekNextID())
	}
	if len(loaded.Plants) != len(w.Plants) || len(loaded.Herbivores) != len(w.Herbivores) || len(loaded.Carnivores) != len(w.Carnivores) {
		t.Fatalf("population mismatch")
	}
	for i := range w.Herbivores {
		a, st := &w.Herbivores[i], loaded.Herbivores[i]
		if st.ID != a.ID || st.X != a.Pos.X || st.Energy != a.Energy || st.GenotypeID != a.GenotypeID || st.Traits != a.Traits {
			t.Errorf("herbivore %d differs:\n%+v\n%+v", i, *a, st)
		}
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSnapshotValidateRejectsBadState(t *testing.T) {
	base := func() *Snapshot { return TakeSnapshot(advancedWorld(t), 1, 1) }

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"version", func(s *Snapshot) { s.Version = 99 }},
		{"duplicate id", func(s *Snapshot) { s.Herbivores[0].ID = s.Plants[0].ID }},
		{"id at next id", func(s *Snapshot) { s.Carnivores[0].ID = s.NextID }},
		{"off-table trait", func(s *Snapshot) { s.Herbivores[0].Traits.Speed = 27 }},
		{"herbivore strength", func(s *Snapshot) { s.Herbivores[0].Traits.Strength = traits.StrengthLevels[traits.High] }},
		{"stale genotype", func(s *Snapshot) { s.Carnivores[0].GenotypeID = "C0" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			if len(s.Herbivores) == 0 || len(s.Carnivores) == 0 || len(s.Plants) == 0 {
				t.Skip("population died out")
			}
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || os.IsExist(err) {
		t.Errorf("expected read error, got %v", err)
	}
}
