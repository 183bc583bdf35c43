package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/traits"
)

// Inspector renders details of the selected agent.
type Inspector struct {
	renderer *Renderer
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(width int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), width: width}
}

// Height returns the panel height for an agent of the given species.
func (ins *Inspector) Height(a *components.Agent) int32 {
	r := ins.renderer
	lines := int32(len(components.ExtractFields(a))) + 4
	for _, d := range components.TraitFieldDescriptors() {
		if d.VisibleFor(a.Species) {
			lines++
		}
	}
	return r.Theme.Padding*2 + 24 + lines*(r.Theme.LineHeight+2)
}

// Draw renders the inspector at (x, y) for agent a, drawn with color.
func (ins *Inspector) Draw(x, y int32, a *components.Agent, color rl.Color) {
	r := ins.renderer
	pad := r.Theme.Padding
	width := ins.width - pad*2
	r.DrawPanel(x, y, ins.width, ins.Height(a))

	cy := y + pad
	rl.DrawCircle(x+pad+6, cy+8, 6, color)
	rl.DrawText(fmt.Sprintf("%s #%d", a.Species, a.ID), x+pad+18, cy, 16, rl.White)
	cy += 24

	cy = r.DrawEnergyBar(x+pad, cy, "Energy", a.Energy, a.Traits.ReproductionEnergy, width)

	for _, f := range components.ExtractFields(a) {
		if f.Widget == components.WidgetBar {
			continue
		}
		cy = r.DrawLabelValue(x+pad, cy, f.Name, components.FormatValue(f.Value, f.Options["fmt"]))
	}
	cy = r.DrawLabelValue(x+pad, cy, "Cost", fmt.Sprintf("%.2f/s", a.EnergyCostPerSecond()))

	cy = r.DrawSpacer(cy, 4)
	cy = r.DrawSectionHeader(x+pad, cy, "Traits")
	for _, d := range components.TraitFieldDescriptors() {
		if !d.VisibleFor(a.Species) {
			continue
		}
		v := a.Traits.Get(d.Trait)
		label := fmt.Sprintf("%g %s", v, traits.LevelName(d.Trait, v))
		cy = r.DrawBar(x+pad, cy, d.Label, d.Fraction(v), label, width)
	}
}
