package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
)

// Tool is the placement action armed for the next click in the viewport.
type Tool uint8

const (
	ToolNone Tool = iota
	ToolBacteria
	ToolAntibiotic
)

// Slider ranges.
const (
	MinStrength = 0.05
	MaxStrength = 1.0
	MinRadius   = 10
	MaxRadius   = 200
	MinInterval = 0.5
	MaxInterval = 20
)

// PanelDefaults are the initial control values.
type PanelDefaults struct {
	Count    int
	MaxCount int
	Strength float32
	Radius   float32
	Glow     float32
}

// ControlPanel is the raygui panel used to place bacteria, apply
// antibiotics and tune parameters. Placement is two-step: a button arms a
// tool, and the next click outside the panel fires it.
type ControlPanel struct {
	renderer *Renderer
	handler  Handler
	width    int32

	Species  bacteria.Species
	Count    int
	MaxCount int
	Strength float32
	Radius   float32
	Glow     float32

	interval         float32
	intervalOverride bool

	tool   Tool
	bounds rl.Rectangle
}

// NewControlPanel creates a panel that forwards requests to h.
func NewControlPanel(h Handler, d PanelDefaults) *ControlPanel {
	maxCount := max(d.MaxCount, 1)
	return &ControlPanel{
		renderer: NewRenderer(),
		handler:  h,
		width:    260,
		Species:  bacteria.Cocci,
		Count:    min(max(d.Count, 1), maxCount),
		MaxCount: maxCount,
		Strength: mgl32.Clamp(d.Strength, MinStrength, MaxStrength),
		Radius:   mgl32.Clamp(d.Radius, MinRadius, MaxRadius),
		Glow:     mgl32.Clamp(d.Glow, 0, 1),
		interval: bacteria.StatsFor(bacteria.Cocci).DivisionInterval,
	}
}

// Tool returns the armed placement tool.
func (p *ControlPanel) Tool() Tool {
	return p.tool
}

// Arm selects t for the next viewport click. Arming the active tool again
// cancels it.
func (p *ControlPanel) Arm(t Tool) {
	if p.tool == t {
		p.tool = ToolNone
		return
	}
	p.tool = t
}

// Contains reports whether a window position lies on the panel.
func (p *ControlPanel) Contains(window rl.Vector2) bool {
	return rl.CheckCollisionPointRec(window, p.bounds)
}

// HandleClick consumes a left click. Clicks on the panel belong to raygui;
// elsewhere the armed tool fires at screen and is disarmed. Returns false
// when the click was not used, so the host may treat it as a camera drag.
func (p *ControlPanel) HandleClick(window rl.Vector2, screen mgl32.Vec2) bool {
	if p.Contains(window) {
		return true
	}
	switch p.tool {
	case ToolBacteria:
		p.handler.AddBacteria(p.Species, p.Count, screen)
	case ToolAntibiotic:
		p.handler.ApplyAntibiotic(p.Strength, p.Radius, screen)
	default:
		return false
	}
	p.tool = ToolNone
	return true
}

// SetInterval overrides the division interval for the whole colony.
func (p *ControlPanel) SetInterval(seconds float32) {
	p.interval = mgl32.Clamp(seconds, MinInterval, MaxInterval)
	p.intervalOverride = true
	p.handler.ParamChanged(ParamDivisionInterval, p.interval)
}

// ResetInterval returns every bacterium to its species interval.
func (p *ControlPanel) ResetInterval() {
	p.intervalOverride = false
	p.handler.ParamChanged(ParamDivisionInterval, 0)
}

// SetGlow changes the outline glow strength.
func (p *ControlPanel) SetGlow(v float32) {
	p.Glow = mgl32.Clamp(v, 0, 1)
	p.handler.ParamChanged(ParamGlow, p.Glow)
}

// Draw renders the panel and processes its widgets. cursor is the mouse
// position in screen coordinates.
func (p *ControlPanel) Draw(population int, fps int32, cursor mgl32.Vec2) {
	r := p.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	const height = 500

	x0, y0 := int32(10), int32(10)
	p.bounds = rl.Rectangle{X: float32(x0), Y: float32(y0), Width: float32(p.width), Height: height}
	r.DrawPanel(x0, y0, p.width, height)

	x := x0 + pad
	y := y0 + pad
	inner := float32(p.width - pad*2)
	sliderW := inner - 90
	row := func(h float32) rl.Rectangle {
		return rl.Rectangle{X: float32(x) + 40, Y: float32(y), Width: sliderW, Height: h}
	}

	rl.DrawText("Colony", x, y, 16, rl.White)
	y += lh + 4
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", fps))
	y = r.DrawLabelValue(x, y, "Cursor", fmt.Sprintf("%.0f, %.0f", cursor.X(), cursor.Y()))
	y = r.DrawLabelValue(x, y, "Bacteria", fmt.Sprintf("%d", population))
	y += 4

	// Placement
	y = r.DrawSectionHeader(x, y, "Add bacteria")
	btnW := (inner - 6) / 2
	for i, s := range bacteria.AllSpecies() {
		bx := float32(x) + float32(i%2)*(btnW+6)
		by := float32(y) + float32(i/2)*26
		label := s.String()
		if s == p.Species {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: bx, Y: by, Width: btnW, Height: 22}, label) {
			p.Species = s
		}
	}
	y += 54

	rl.DrawText("Count", x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	count := gui.SliderBar(row(18), "", fmt.Sprintf("%d", p.Count), float32(p.Count), 1, float32(p.MaxCount))
	p.Count = min(max(int(count+0.5), 1), p.MaxCount)
	y += 26

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: 24}, armLabel(p.tool == ToolBacteria, "Place bacteria")) {
		p.Arm(ToolBacteria)
	}
	y += 30
	if p.tool == ToolBacteria {
		rl.DrawText(fmt.Sprintf("Click to add %d %s", p.Count, p.Species), x, y, r.Theme.FontSize, r.Theme.HintColor)
	}
	y += lh + 4

	// Antibiotic
	y = r.DrawSectionHeader(x, y, "Antibiotic")
	rl.DrawText("Str", x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	p.Strength = gui.SliderBar(row(18), "", fmt.Sprintf("%.2f", p.Strength), p.Strength, MinStrength, MaxStrength)
	y += 26
	rl.DrawText("Rad", x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	p.Radius = gui.SliderBar(row(18), "", fmt.Sprintf("%.0f", p.Radius), p.Radius, MinRadius, MaxRadius)
	y += 26

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: 24}, armLabel(p.tool == ToolAntibiotic, "Apply antibiotic")) {
		p.Arm(ToolAntibiotic)
	}
	y += 30
	if p.tool == ToolAntibiotic {
		rl.DrawText("Click to apply the antibiotic", x, y, r.Theme.FontSize, r.Theme.HintColor)
	}
	y += lh + 4

	// Parameters
	y = r.DrawSectionHeader(x, y, "Parameters")
	rl.DrawText("Div", x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	intervalText := "species"
	if p.intervalOverride {
		intervalText = fmt.Sprintf("%.1fs", p.interval)
	}
	if v := gui.SliderBar(row(18), "", intervalText, p.interval, MinInterval, MaxInterval); v != p.interval {
		p.SetInterval(v)
	}
	y += 26
	if p.intervalOverride {
		if gui.Button(rl.Rectangle{X: float32(x) + 40, Y: float32(y), Width: sliderW, Height: 20}, "Use species intervals") {
			p.ResetInterval()
		}
	}
	y += 26

	rl.DrawText("Glow", x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	if v := gui.SliderBar(row(18), "", fmt.Sprintf("%.2f", p.Glow), p.Glow, 0, 1); v != p.Glow {
		p.SetGlow(v)
	}
}

func armLabel(armed bool, action string) string {
	if armed {
		return "Cancel"
	}
	return action
}
