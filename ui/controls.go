package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Controller is the subset of the game driver the control panel edits.
type Controller interface {
	Paused() bool
	SetPaused(bool)
	Reset()
	SpeedFactor() float64
	SetSpeedFactor(float64)
	MutationRate() float64
	SetMutationRate(float64)
	MaxPlants() int
	SetMaxPlants(int)
	RegenRate() float64
	SetRegenRate(float64)
}

// sliderSpec describes one slider row.
type sliderSpec struct {
	label    string
	min, max float64
	step     float64
	format   string
	get      func(Controller) float64
	set      func(Controller, float64)
}

var controlSliders = []sliderSpec{
	{
		label: "Speed", min: 0.1, max: 3, step: 0.1, format: "%.1fx",
		get: Controller.SpeedFactor,
		set: Controller.SetSpeedFactor,
	},
	{
		label: "Mutation", min: 0, max: 0.3, step: 0.01, format: "%.2f",
		get: Controller.MutationRate,
		set: Controller.SetMutationRate,
	},
	{
		label: "Max plants", min: 100, max: 2000, step: 50, format: "%.0f",
		get: func(c Controller) float64 { return float64(c.MaxPlants()) },
		set: func(c Controller, v float64) { c.SetMaxPlants(int(v)) },
	},
	{
		label: "Regen /s", min: 0, max: 50, step: 1, format: "%.0f",
		get: Controller.RegenRate,
		set: Controller.SetRegenRate,
	},
}

// ControlPanel renders raygui sliders and buttons for the live settings.
type ControlPanel struct {
	renderer *Renderer
	width    int32
}

// NewControlPanel creates a control panel of the given width.
func NewControlPanel(width int32) *ControlPanel {
	return &ControlPanel{renderer: NewRenderer(), width: width}
}

const (
	sliderRowHeight = 38
	buttonHeight    = 24
)

// Height returns the panel height in pixels.
func (c *ControlPanel) Height() int32 {
	pad := c.renderer.Theme.Padding
	return pad*2 + 20 + int32(len(controlSliders))*sliderRowHeight + buttonHeight + pad
}

// Draw renders the panel at (x, y) and applies any edits to ctl. Vision
// toggles the vision overlay.
func (c *ControlPanel) Draw(x, y int32, ctl Controller, overlays *OverlayRegistry) {
	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(x, y, c.width, c.Height())

	cy := r.DrawTitle(x+pad, y+pad, "Controls")
	sliderW := float32(c.width - pad*2 - 56)

	for _, s := range controlSliders {
		cur := s.get(ctl)
		rl.DrawText(s.label, x+pad, cy, r.Theme.FontSize, r.Theme.LabelColor)
		bounds := rl.Rectangle{X: float32(x + pad), Y: float32(cy + 14), Width: sliderW, Height: 14}
		v := gui.SliderBar(bounds, "", "", float32(cur), float32(s.min), float32(s.max))
		rl.DrawText(fmt.Sprintf(s.format, cur), x+pad+int32(sliderW)+6, cy+14, r.Theme.FontSize, r.Theme.ValueColor)

		if v != float32(cur) {
			s.set(ctl, snap(float64(v), s.step))
		}
		cy += sliderRowHeight
	}

	bw := float32(c.width-pad*2-12) / 3
	bx := float32(x + pad)
	by := float32(cy + 4)

	pauseLabel := "Pause"
	if ctl.Paused() {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: buttonHeight}, pauseLabel) {
		ctl.SetPaused(!ctl.Paused())
	}
	if gui.Button(rl.Rectangle{X: bx + bw + 6, Y: by, Width: bw, Height: buttonHeight}, "Reset") {
		ctl.Reset()
	}
	visionLabel := "Vision: off"
	if overlays.IsEnabled(OverlayVision) {
		visionLabel = "Vision: on"
	}
	if gui.Button(rl.Rectangle{X: bx + 2*(bw+6), Y: by, Width: bw, Height: buttonHeight}, visionLabel) {
		overlays.Toggle(OverlayVision)
	}
}

// snap rounds v to the nearest multiple of step.
func snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
