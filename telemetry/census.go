package telemetry

import (
	"sort"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/sim"
)

// Census is a point-in-time count of the world, taken between ticks.
type Census struct {
	Time       float64 `csv:"t" db:"sim_time"`
	Plants     int     `csv:"plants" db:"plants"`
	Herbivores int     `csv:"herbivores" db:"herbivores"`
	Carnivores int     `csv:"carnivores" db:"carnivores"`

	HerbivoresByGenotype map[string]int `csv:"-" db:"-"`
	CarnivoresByGenotype map[string]int `csv:"-" db:"-"`
}

// TakeCensus counts plants, agents and genotypes. It does not modify w.
func TakeCensus(w *sim.World) Census {
	return Census{
		Time:                 w.Time,
		Plants:               len(w.Plants),
		Herbivores:           len(w.Herbivores),
		Carnivores:           len(w.Carnivores),
		HerbivoresByGenotype: countGenotypes(w.Herbivores),
		CarnivoresByGenotype: countGenotypes(w.Carnivores),
	}
}

func countGenotypes(agents []components.Agent) map[string]int {
	m := make(map[string]int)
	for i := range agents {
		m[agents[i].GenotypeID]++
	}
	return m
}

// GenotypeCount pairs a genotype id with its live count.
type GenotypeCount struct {
	ID    string
	Count int
}

// TopGenotypes returns the n most common genotypes, largest first. Ties
// are broken by id so the order is stable between samples.
func TopGenotypes(counts map[string]int, n int) []GenotypeCount {
	out := make([]GenotypeCount, 0, len(counts))
	for id, c := range counts {
		out = append(out, GenotypeCount{ID: id, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// GenotypeRow is one genotype's count at a census, for CSV and SQLite.
type GenotypeRow struct {
	Time     float64 `csv:"t" db:"sim_time"`
	Species  string  `csv:"species" db:"species"`
	Genotype string  `csv:"genotype" db:"genotype"`
	Count    int     `csv:"count" db:"count"`
}

// Rows flattens both genotype maps, herbivores first, each sorted by
// descending count.
func (c Census) Rows() []GenotypeRow {
	var rows []GenotypeRow
	for _, g := range TopGenotypes(c.HerbivoresByGenotype, -1) {
		rows = append(rows, GenotypeRow{c.Time, components.Herbivore.String(), g.ID, g.Count})
	}
	for _, g := range TopGenotypes(c.CarnivoresByGenotype, -1) {
		rows = append(rows, GenotypeRow{c.Time, components.Carnivore.String(), g.ID, g.Count})
	}
	return rows
}
