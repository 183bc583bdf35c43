package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/sim"
	"github.com/pthm-cable/biome/telemetry"
	"github.com/pthm-cable/biome/traits"
)

// Swatcher maps a genotype to its palette slot.
type Swatcher interface {
	Slot(genotype string) int
}

// GenotypePanel lists the most common genotypes of each species with
// their palette swatch and trait levels.
type GenotypePanel struct {
	renderer *Renderer
	width    int32
	topN     int
}

// NewGenotypePanel creates a genotype panel listing topN per species.
func NewGenotypePanel(width int32, topN int) *GenotypePanel {
	return &GenotypePanel{renderer: NewRenderer(), width: width, topN: topN}
}

// Height returns the panel height in pixels.
func (g *GenotypePanel) Height() int32 {
	r := g.renderer
	rows := int32(2 + 2*g.topN)
	return r.Theme.Padding*2 + 20 + rows*r.Theme.LineHeight*2
}

// Draw renders the panel at (x, y) from a census of w.
func (g *GenotypePanel) Draw(x, y int32, w *sim.World, herb, carn Swatcher) {
	r := g.renderer
	pad := r.Theme.Padding
	r.DrawPanel(x, y, g.width, g.Height())

	census := telemetry.TakeCensus(w)
	exemplars := exemplarTraits(w)

	cy := r.DrawTitle(x+pad, y+pad, "Genotypes")
	cy = g.drawSpecies(x+pad, cy, components.Herbivore, census.Herbivores, census.HerbivoresByGenotype, exemplars, herb)
	g.drawSpecies(x+pad, cy+4, components.Carnivore, census.Carnivores, census.CarnivoresByGenotype, exemplars, carn)
}

func (g *GenotypePanel) drawSpecies(x, y int32, sp components.Species, total int, counts map[string]int,
	exemplars map[string]traits.TraitSet, sw Swatcher) int32 {
	r := g.renderer
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("%ss (%d, %d genotypes)", sp, total, len(counts)))

	palette := speciesPalette(sp)
	for _, gc := range telemetry.TopGenotypes(counts, g.topN) {
		share := 0.0
		if total > 0 {
			share = float64(gc.Count) / float64(total) * 100
		}
		color := palette[sw.Slot(gc.ID)%len(palette)]
		y = r.DrawSwatchLine(x, y, color, fmt.Sprintf("%s  %d (%.0f%%)", gc.ID, gc.Count, share))
		rl.DrawText(traitSummary(exemplars[gc.ID], sp), x+16, y, 10, r.Theme.MutedColor)
		y += r.Theme.LineHeight
	}
	return y
}

// exemplarTraits maps each genotype present in w to its trait set.
func exemplarTraits(w *sim.World) map[string]traits.TraitSet {
	out := make(map[string]traits.TraitSet)
	for _, agents := range [][]components.Agent{w.Herbivores, w.Carnivores} {
		for i := range agents {
			out[agents[i].GenotypeID] = agents[i].Traits
		}
	}
	return out
}

// traitSummary renders trait levels compactly, e.g. "spd mid vis high".
func traitSummary(t traits.TraitSet, sp components.Species) string {
	abbrev := [traits.NumTraits]string{"spd", "vis", "met", "rep", "stl", "str"}
	s := ""
	for tr := traits.Trait(0); tr < traits.NumTraits; tr++ {
		if tr == traits.Strength && !sp.IsCarnivore() {
			continue
		}
		if s != "" {
			s += " "
		}
		s += abbrev[tr] + " " + traits.LevelName(tr, t.Get(tr))
	}
	return s
}
