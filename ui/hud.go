package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/biome/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Plants     int
	Herbivores int
	Carnivores int
	SimTime    float64
	Tick       int64
	Speed      float64
	FPS        int32
	Paused     bool
	// Cycle is the dominant predator-prey period in seconds, 0 when unknown.
	Cycle float64
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD at (x, y).
func (h *HUD) Draw(x, y int32, data HUDData) {
	rl.DrawText(data.Title, x, y, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Plants: %d | Herbivores: %d | Carnivores: %d", data.Plants, data.Herbivores, data.Carnivores),
		x, y+25, 16, rl.LightGray,
	)

	info := fmt.Sprintf("t=%.1fs | Tick: %d | Speed: %.1fx | FPS: %d", data.SimTime, data.Tick, data.Speed, data.FPS)
	if data.Cycle > 0 {
		info += fmt.Sprintf(" | Cycle: %.0fs", data.Cycle)
	}
	rl.DrawText(info, x, y+45, 16, rl.LightGray)

	if data.Paused {
		rl.DrawText("PAUSED", x, y+65, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend along the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, overlays *OverlayRegistry) {
	parts := []string{"Space: pause", "R: reset", ",/.: speed", "S: snapshot", "Click: inspect", "Wheel/RMB: zoom/pan", "Home: fit"}
	for _, d := range overlays.All() {
		parts = append(parts, d.KeyLabel+": "+strings.ToLower(d.Name))
	}
	rl.DrawText(strings.Join(parts, " | "), 10, screenHeight-22, 12, h.renderer.Theme.MutedColor)
}

// PerfPanel renders tick timing by phase.
type PerfPanel struct {
	renderer *Renderer
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), width: width}
}

// Height returns the panel height in pixels.
func (p *PerfPanel) Height() int32 {
	r := p.renderer
	lines := int32(3 + len(telemetry.Phases()))
	return lines*r.Theme.LineHeight + r.Theme.Padding*2 + 8
}

// Draw renders the performance panel at (x, y).
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	r.DrawPanel(x, y, p.width, p.Height())

	cy := r.DrawTitle(x+pad, y+pad, "Performance")
	cy = r.DrawLabelValue(x+pad, cy, "Tick avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	cy = r.DrawLabelValue(x+pad, cy, "Ticks/s", fmt.Sprintf("%.0f (%.0f fps)", stats.TicksPerSecond, stats.FPS))

	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]
		cy = r.DrawBar(x+pad, cy, phase, pct/100, fmt.Sprintf("%5.1f%%", pct), p.width-pad*2)
	}
}
