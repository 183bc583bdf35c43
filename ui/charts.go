package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/telemetry"
)

// chartSeries is one polyline in the population chart.
type chartSeries struct {
	label  string
	color  rl.Color
	values []float64
	thin   bool
}

// ChartPanel plots species totals and the leading genotypes over the
// census history.
type ChartPanel struct {
	renderer *Renderer
	width    int32
	height   int32
	topN     int
}

// NewChartPanel creates a chart panel. topN genotype series are drawn
// per species.
func NewChartPanel(width, height int32, topN int) *ChartPanel {
	return &ChartPanel{renderer: NewRenderer(), width: width, height: height, topN: topN}
}

// Height returns the panel height in pixels.
func (c *ChartPanel) Height() int32 { return c.height }

// Draw renders the chart at (x, y).
func (c *ChartPanel) Draw(x, y int32, h *telemetry.History) {
	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(x, y, c.width, c.height)
	r.DrawTitle(x+pad, y+pad, "Population")

	series := c.buildSeries(h)

	plotX := float32(x + pad)
	plotY := float32(y + pad + 22)
	plotW := float32(c.width - pad*2)
	plotH := float32(c.height-pad*2-22) - float32(r.Theme.LineHeight)*2

	rl.DrawRectangleLines(int32(plotX), int32(plotY), int32(plotW), int32(plotH), r.Theme.PanelBorder)

	n := h.Len()
	if n < 2 {
		rl.DrawText("waiting for samples", int32(plotX)+6, int32(plotY)+6, r.Theme.FontSize, r.Theme.MutedColor)
		c.drawLegend(x+pad, int32(plotY+plotH)+4, series)
		return
	}

	maxV := 1.0
	for _, s := range series {
		for _, v := range s.values {
			if v > maxV {
				maxV = v
			}
		}
	}
	rl.DrawText(fmt.Sprintf("%.0f", maxV), int32(plotX)+3, int32(plotY)+2, 10, r.Theme.MutedColor)

	stepX := plotW / float32(h.Cap()-1)
	for _, s := range series {
		thick := float32(2)
		if s.thin {
			thick = 1
		}
		prev := rl.Vector2{}
		for i, v := range s.values {
			pt := rl.Vector2{
				X: plotX + float32(i)*stepX,
				Y: plotY + plotH - float32(v/maxV)*plotH,
			}
			if i > 0 {
				rl.DrawLineEx(prev, pt, thick, s.color)
			}
			prev = pt
		}
	}

	c.drawLegend(x+pad, int32(plotY+plotH)+4, series)
}

// buildSeries assembles totals followed by the top genotypes of the most
// recent census, each traced back through the history.
func (c *ChartPanel) buildSeries(h *telemetry.History) []chartSeries {
	series := []chartSeries{
		{label: "plants", color: plantColor, values: h.Series(telemetry.PlantCount)},
		{label: "herbivores", color: herbivoreColor, values: h.Series(telemetry.HerbivoreCount)},
		{label: "carnivores", color: carnivoreColor, values: h.Series(telemetry.CarnivoreCount)},
	}

	latest, ok := h.Latest()
	if !ok {
		return series
	}
	for _, sp := range []components.Species{components.Herbivore, components.Carnivore} {
		counts := latest.HerbivoresByGenotype
		if sp.IsCarnivore() {
			counts = latest.CarnivoresByGenotype
		}
		for i, g := range telemetry.TopGenotypes(counts, c.topN) {
			id := g.ID
			series = append(series, chartSeries{
				label:  id,
				color:  chartSeriesColor(sp, i),
				values: h.Series(genotypeSelector(sp, id)),
				thin:   true,
			})
		}
	}
	return series
}

func genotypeSelector(sp components.Species, id string) func(telemetry.Census) float64 {
	return func(c telemetry.Census) float64 {
		if sp.IsCarnivore() {
			return float64(c.CarnivoresByGenotype[id])
		}
		return float64(c.HerbivoresByGenotype[id])
	}
}

func (c *ChartPanel) drawLegend(x, y int32, series []chartSeries) {
	r := c.renderer
	cx := x
	row := int32(0)
	for _, s := range series {
		w := rl.MeasureText(s.label, 10) + 18
		if cx+w > x+c.width-r.Theme.Padding*2 {
			cx = x
			row++
			if row > 1 {
				return
			}
		}
		ly := y + row*r.Theme.LineHeight
		rl.DrawRectangle(cx, ly+2, 8, 8, s.color)
		rl.DrawText(s.label, cx+11, ly, 10, r.Theme.LabelColor)
		cx += w
	}
}
