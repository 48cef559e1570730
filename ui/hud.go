package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Census        [bacteria.NumSpecies]int
	Population    int
	MaxGeneration uint32
	Effects       int
	Tick          int32
	SimTime       float64
	Speed         int
	FPS           int32
	Paused        bool
	ViewMode      string
	Zoom          float32 // 2D only
	Distance      float32 // 3D only
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-right corner of the window.
func (h *HUD) Draw(data HUDData, screenW, screenH int32) {
	r := h.renderer
	const width = 220
	lines := int32(bacteria.NumSpecies + 5)
	height := lines*r.Theme.LineHeight + r.Theme.Padding*2 + 4

	x, y := AnchorTopRight.Place(screenW, screenH, width, height, 10)
	r.DrawPanel(x, y, width, height)
	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, s := range bacteria.AllSpecies() {
		y = r.DrawColorSwatch(x, y, s.String(), r.Theme.SpeciesColor(s), data.Census[s])
	}
	y = r.DrawLabelValue(x, y, "Total", fmt.Sprintf("%d (gen %d)", data.Population, data.MaxGeneration))
	y = r.DrawLabelValue(x, y, "Time", fmt.Sprintf("%.1fs  tick %d", data.SimTime, data.Tick))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx  %d fps", data.Speed, data.FPS))

	view := fmt.Sprintf("%s  zoom %.2f", data.ViewMode, data.Zoom)
	if data.ViewMode == "3D" {
		view = fmt.Sprintf("%s  dist %.0f", data.ViewMode, data.Distance)
	}
	y = r.DrawLabelValue(x, y, "View", view)

	if data.Paused {
		rl.DrawText("PAUSED", x, y, 14, rl.Yellow)
	} else if data.Effects > 0 {
		rl.DrawText(fmt.Sprintf("%d antibiotic zone(s)", data.Effects), x, y, r.Theme.FontSize, r.Theme.HintColor)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{renderer: NewRenderer()}
}

// Draw renders the performance panel in the bottom-right corner.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, screenW, screenH int32) {
	r := p.renderer
	const width = 240
	phases := telemetry.Phases()
	height := int32(len(phases)+3)*14 + r.Theme.Padding*2

	x, y := AnchorBottomRight.Place(screenW, screenH, width, height, 10)
	r.DrawPanel(x, y, width, height)
	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText("Step Performance", x, y, 14, rl.White)
	y += 18

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f steps/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 14

	for _, ph := range phases {
		pct := stats.PhasePct[ph]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", ph, stats.PhaseAvg[ph].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
