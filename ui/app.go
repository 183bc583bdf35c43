package ui

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/biome/camera"
	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/game"
	"github.com/pthm-cable/biome/telemetry"
)

const (
	// selectRadius is how close (in pixels) a click must land to an agent.
	selectRadius = 8
	panelMargin  = 10
	sidePanelW   = 300
	speedStep    = 0.1
	minSpeed     = 0.1
	maxSpeed     = 3
	zoomStep     = 1.1
)

// App is the windowed front end around a game.
type App struct {
	game     *game.Game
	overlays *OverlayRegistry
	cam      *camera.Camera

	hud       *HUD
	controls  *ControlPanel
	charts    *ChartPanel
	genotypes *GenotypePanel
	inspector *Inspector
	perf      *PerfPanel

	selectedID uint64

	// panels drawn last frame; clicks inside them do not select agents
	panelRects []rl.Rectangle

	cycle     float64
	cycleTime float64
}

// NewApp wires the UI panels to g.
func NewApp(g *game.Game) *App {
	topN := g.Config().Telemetry.TopGenotypes
	w := g.World()
	return &App{
		game:      g,
		overlays:  NewOverlayRegistry(),
		cam:       camera.New(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), w.Width, w.Height),
		hud:       NewHUD(),
		controls:  NewControlPanel(sidePanelW),
		charts:    NewChartPanel(sidePanelW, 230, topN),
		genotypes: NewGenotypePanel(sidePanelW, topN),
		inspector: NewInspector(240),
		perf:      NewPerfPanel(sidePanelW),
	}
}

// Update handles input and advances the game by one frame.
func (a *App) Update() {
	if rl.IsWindowResized() {
		sw, sh := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
		a.game.FollowScreen(sw, sh)
		w := a.game.World()
		a.cam.Resize(sw, sh, w.Width, w.Height)
	}
	a.handleInput()
	a.game.Update(float64(rl.GetFrameTime()))
	a.updateCycle()
}

func (a *App) handleInput() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		switch key {
		case rl.KeySpace:
			a.game.SetPaused(!a.game.Paused())
		case rl.KeyR:
			a.game.Reset()
			a.selectedID = 0
		case rl.KeyHome:
			a.cam.Reset()
		case rl.KeyComma:
			a.game.SetSpeedFactor(math.Max(minSpeed, snap(a.game.SpeedFactor()-speedStep, speedStep)))
		case rl.KeyPeriod:
			a.game.SetSpeedFactor(math.Min(maxSpeed, snap(a.game.SpeedFactor()+speedStep, speedStep)))
		case rl.KeyS:
			a.saveSnapshot()
		case rl.KeyF11:
			rl.ToggleFullscreen()
		case rl.KeyEscape:
			a.selectedID = 0
		default:
			a.overlays.HandleKeyPress(key)
		}
	}

	mouse := rl.GetMousePosition()
	for _, rect := range a.panelRects {
		if rl.CheckCollisionPointRec(mouse, rect) {
			return
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.ZoomAt(math.Pow(zoomStep, float64(wheel)), float64(mouse.X), float64(mouse.Y))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.cam.Pan(-float64(d.X), -float64(d.Y))
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		wx, wy := a.cam.ScreenToWorld(float64(mouse.X), float64(mouse.Y))
		a.selectedID = a.pick(wx, wy, selectRadius/a.cam.Zoom)
	}
}

func (a *App) saveSnapshot() {
	path, err := a.game.SaveSnapshot()
	if err != nil {
		slog.Warn("snapshot not saved", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path)
}

// pick returns the id of the nearest agent within radius world units of
// (x, y), or 0 when none is close enough.
func (a *App) pick(x, y, radius float64) uint64 {
	w := a.game.World()
	best, bestD := uint64(0), radius*radius
	for _, agents := range [][]components.Agent{w.Herbivores, w.Carnivores} {
		for i := range agents {
			dx, dy := agents[i].Pos.X-x, agents[i].Pos.Y-y
			if d := dx*dx + dy*dy; d < bestD {
				best, bestD = agents[i].ID, d
			}
		}
	}
	return best
}

// updateCycle re-estimates the herbivore oscillation period once per census.
func (a *App) updateCycle() {
	h := a.game.History()
	latest, ok := h.Latest()
	if !ok {
		a.cycle, a.cycleTime = 0, 0
		return
	}
	if latest.Time == a.cycleTime {
		return
	}
	a.cycleTime = latest.Time
	a.cycle = telemetry.CyclePeriod(h.Series(telemetry.HerbivoreCount), a.game.Config().Telemetry.StatsInterval)
}

// Draw renders the world and all enabled panels.
func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(a.controls.renderer.Theme.Background)
	a.drawWorld()
	a.drawPanels()
}

func (a *App) drawWorld() {
	w := a.game.World()
	zoom := a.cam.Zoom

	// World border, visible once zoomed or when the world is smaller than the window.
	x0, y0 := a.cam.WorldToScreen(0, 0)
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(w.Width*zoom), int32(w.Height*zoom), a.controls.renderer.Theme.PanelBorder)

	plantSize := float32(math.Max(2, 2*zoom))
	for i := range w.Plants {
		p := w.Plants[i].Pos
		if !a.cam.IsVisible(p.X, p.Y, 1) {
			continue
		}
		sp := a.toScreen(p)
		rl.DrawRectangleV(rl.Vector2{X: sp.X - plantSize/2, Y: sp.Y - plantSize/2}, rl.Vector2{X: plantSize, Y: plantSize}, plantColor)
	}

	if a.overlays.IsEnabled(OverlayVision) {
		a.drawVision(w.Herbivores, herbVisionColor)
		a.drawVision(w.Carnivores, carnVisionColor)
	}

	a.drawAgents(w.Herbivores, components.Herbivore, herbivoreRadius)
	a.drawAgents(w.Carnivores, components.Carnivore, carnivoreRadius)

	if sel := w.FindAgent(a.selectedID); sel != nil {
		c := a.toScreen(sel.Pos)
		rl.DrawCircleLinesV(c, float32(sel.Traits.Vision*zoom), rl.Fade(rl.White, 0.35))
		rl.DrawCircleLinesV(c, float32(6*math.Max(1, zoom)), rl.White)
	}
}

func (a *App) drawVision(agents []components.Agent, color rl.Color) {
	for i := range agents {
		ag := &agents[i]
		if !a.cam.IsVisible(ag.Pos.X, ag.Pos.Y, ag.Traits.Vision) {
			continue
		}
		rl.DrawCircleLinesV(a.toScreen(ag.Pos), float32(ag.Traits.Vision*a.cam.Zoom), color)
	}
}

func (a *App) drawAgents(agents []components.Agent, sp components.Species, radius float64) {
	palette := speciesPalette(sp)
	variants := a.game.Variants(sp)
	r := float32(radius * math.Max(1, a.cam.Zoom))
	for i := range agents {
		ag := &agents[i]
		if !a.cam.IsVisible(ag.Pos.X, ag.Pos.Y, radius) {
			continue
		}
		rl.DrawCircleV(a.toScreen(ag.Pos), r, palette[variants.Slot(ag.GenotypeID)%len(palette)])
	}
}

func (a *App) toScreen(p components.Position) rl.Vector2 {
	x, y := a.cam.WorldToScreen(p.X, p.Y)
	return rl.Vector2{X: float32(x), Y: float32(y)}
}

func (a *App) agentColor(ag *components.Agent) rl.Color {
	palette := speciesPalette(ag.Species)
	return palette[a.game.Variants(ag.Species).Slot(ag.GenotypeID)%len(palette)]
}

func (a *App) drawPanels() {
	screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	w := a.game.World()
	a.panelRects = a.panelRects[:0]

	a.hud.Draw(panelMargin, panelMargin, HUDData{
		Title:      "Biome",
		Plants:     len(w.Plants),
		Herbivores: len(w.Herbivores),
		Carnivores: len(w.Carnivores),
		SimTime:    w.Time,
		Tick:       a.game.Tick(),
		Speed:      a.game.SpeedFactor(),
		FPS:        rl.GetFPS(),
		Paused:     a.game.Paused(),
		Cycle:      a.cycle,
	})

	// Right column: controls then chart.
	rx, ry := AnchorTopRight.Place(screenW, screenH, sidePanelW, 0, panelMargin)
	if a.overlays.IsEnabled(OverlayControls) {
		a.controls.Draw(rx, ry, a.game, a.overlays)
		a.addRect(rx, ry, sidePanelW, a.controls.Height())
		ry += a.controls.Height() + panelMargin
	}
	if a.overlays.IsEnabled(OverlayCharts) {
		a.charts.Draw(rx, ry, a.game.History())
		a.addRect(rx, ry, sidePanelW, a.charts.Height())
		ry += a.charts.Height() + panelMargin
	}
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perf.Draw(rx, ry, a.game.PerfStats())
		a.addRect(rx, ry, sidePanelW, a.perf.Height())
	}

	// Left column: inspector then genotypes.
	ly := int32(100)
	if sel := w.FindAgent(a.selectedID); sel != nil {
		a.inspector.Draw(panelMargin, ly, sel, a.agentColor(sel))
		a.addRect(panelMargin, ly, a.inspector.width, a.inspector.Height(sel))
		ly += a.inspector.Height(sel) + panelMargin
	} else {
		a.selectedID = 0
	}
	if a.overlays.IsEnabled(OverlayGenotypes) {
		a.genotypes.Draw(panelMargin, ly, w, a.game.Variants(components.Herbivore), a.game.Variants(components.Carnivore))
		a.addRect(panelMargin, ly, sidePanelW, a.genotypes.Height())
	}

	a.hud.DrawControls(screenH, a.overlays)
}

func (a *App) addRect(x, y, w, h int32) {
	a.panelRects = append(a.panelRects, rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)})
}
