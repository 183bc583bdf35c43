package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/biome/config"
)

func TestOutputManager_NilIsNoOp(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have no dir")
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{Tick: int64(i * 60), WindowEnd: float64(i), Herbivores: 10 * i}); err != nil {
			t.Fatal(err)
		}
	}
	census := Census{Time: 3, HerbivoresByGenotype: map[string]int{"Ha": 4}, CarnivoresByGenotype: map[string]int{"Ca": 2}}
	if err := om.WriteCensus(census); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 180, Description: "Carnivores went extinct"}); err != nil {
		t.Fatal(err)
	}
	cfg, _ := config.Load("")
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var rows []WindowStats
	readCSV(t, filepath.Join(dir, "telemetry.csv"), &rows)
	if len(rows) != 3 || rows[2].Herbivores != 30 || rows[1].Tick != 120 {
		t.Errorf("telemetry rows = %+v", rows)
	}

	var genotypes []GenotypeRow
	readCSV(t, filepath.Join(dir, "genotypes.csv"), &genotypes)
	if len(genotypes) != 2 || genotypes[1].Species != "carnivore" {
		t.Errorf("genotype rows = %+v", genotypes)
	}

	var bookmarks []Bookmark
	readCSV(t, filepath.Join(dir, "bookmarks.csv"), &bookmarks)
	if len(bookmarks) != 1 || bookmarks[0].Type != BookmarkExtinction {
		t.Errorf("bookmark rows = %+v", bookmarks)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func readCSV(t *testing.T, path string, out any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}
