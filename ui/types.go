// Package ui draws the simulation's panels and HUD on top of the viewport.
// Panels never touch the colony directly: requests are forwarded to a
// Handler supplied by the host.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
)

// Parameter names sent through Handler.ParamChanged.
const (
	ParamDivisionInterval = "division_interval"
	ParamGlow             = "glow"
)

// Handler receives the requests raised by the control panel.
// Screen positions are bottom-left origin.
type Handler interface {
	AddBacteria(s bacteria.Species, count int, screen mgl32.Vec2)
	ApplyAntibiotic(strength, radius float32, screen mgl32.Vec2)
	ParamChanged(name string, value float32)
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Place returns the top-left corner of a w×h panel anchored inside a
// screenW×screenH window with the given margin.
func (a PanelAnchor) Place(screenW, screenH, w, h, margin int32) (x, y int32) {
	switch a {
	case AnchorTopRight:
		return screenW - w - margin, margin
	case AnchorBottomLeft:
		return margin, screenH - h - margin
	case AnchorBottomRight:
		return screenW - w - margin, screenH - h - margin
	default:
		return margin, margin
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	HintColor      rl.Color
	Inactive       rl.Color
	HealthLow      rl.Color
	HealthMedium   rl.Color
	HealthHigh     rl.Color
	SpeciesColors  [bacteria.NumSpecies]rl.Color
	UnknownSpecies rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.LightGray,
		HintColor:     rl.Color{R: 255, G: 200, B: 80, A: 255},
		Inactive:      rl.Color{R: 40, G: 40, B: 40, A: 255},
		HealthLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		HealthMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		HealthHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		SpeciesColors: [bacteria.NumSpecies]rl.Color{
			bacteria.Cocci:         {R: 120, G: 220, B: 120, A: 255},
			bacteria.Diplococcus:   {R: 240, G: 200, B: 90, A: 255},
			bacteria.Staphylococci: {R: 230, G: 110, B: 200, A: 255},
			bacteria.Bacillus:      {R: 110, G: 170, B: 250, A: 255},
		},
		UnknownSpecies: rl.Gray,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// SpeciesColor returns the outline color for s.
func (t Theme) SpeciesColor(s bacteria.Species) rl.Color {
	if !s.Valid() {
		return t.UnknownSpecies
	}
	return t.SpeciesColors[s]
}

// HealthColor buckets a health value in [0, 1] into the low, medium or high color.
func (t Theme) HealthColor(health float32) rl.Color {
	switch {
	case health < 0.3:
		return t.HealthLow
	case health < 0.7:
		return t.HealthMedium
	default:
		return t.HealthHigh
	}
}
