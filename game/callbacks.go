package game

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/ui"
)

// Callbacks connects UI requests to the engine. Any field may be replaced
// by the host; a nil field ignores the request. Screen positions are
// bottom-left origin.
type Callbacks struct {
	OnAddBacteria     func(s bacteria.Species, count int, screen mgl32.Vec2)
	OnApplyAntibiotic func(strength, radius float32, screen mgl32.Vec2)
	OnParamChanged    func(name string, value float32)
}

var _ ui.Handler = (*Callbacks)(nil)

// AddBacteria requests count new bacteria of species s around screen.
func (c *Callbacks) AddBacteria(s bacteria.Species, count int, screen mgl32.Vec2) {
	if c.OnAddBacteria != nil {
		c.OnAddBacteria(s, count, screen)
	}
}

// ApplyAntibiotic requests an antibiotic dose centred on screen.
func (c *Callbacks) ApplyAntibiotic(strength, radius float32, screen mgl32.Vec2) {
	if c.OnApplyAntibiotic != nil {
		c.OnApplyAntibiotic(strength, radius, screen)
	}
}

// ParamChanged reports a tunable parameter change.
func (c *Callbacks) ParamChanged(name string, value float32) {
	if c.OnParamChanged != nil {
		c.OnParamChanged(name, value)
	}
}

// Callbacks returns the callback set used by the UI.
func (g *Game) Callbacks() *Callbacks {
	return g.callbacks
}

// RegisterDefaultCallbacks wires the callbacks to the engine.
func (g *Game) RegisterDefaultCallbacks() {
	if g.callbacks == nil {
		g.callbacks = &Callbacks{}
	}
	g.callbacks.OnAddBacteria = func(s bacteria.Species, count int, screen mgl32.Vec2) {
		g.AddBacteriaAt(s, count, screen)
	}
	g.callbacks.OnApplyAntibiotic = func(strength, radius float32, screen mgl32.Vec2) {
		g.ApplyAntibioticAt(strength, radius, screen)
	}
	g.callbacks.OnParamChanged = g.setParam
}

// AddBacteriaAt places a batch around the ground point under screen.
// Returns the number placed; 0 when the click hits no ground.
func (g *Game) AddBacteriaAt(s bacteria.Species, count int, screen mgl32.Vec2) int {
	count = min(count, g.cfg.Factory.MaxCount)
	batch, ok := g.factory.CreateAtScreenClick(s, count, screen, g.camera.ScreenToGround)
	if !ok {
		slog.Debug("placement missed the ground", "x", screen.X(), "y", screen.Y(), "mode", g.camera.Mode.String())
		return 0
	}
	for _, b := range batch {
		g.colony.Add(b)
	}
	g.collector.RecordPlacement(len(batch))
	if len(batch) > 0 {
		slog.Info("bacteria_added", "species", s.String(), "count", len(batch), "tick", g.tick)
	}
	return len(batch)
}

// ApplyAntibioticAt applies a dose at the ground point under screen.
// Returns false when the click hits no ground.
func (g *Game) ApplyAntibioticAt(strength, radius float32, screen mgl32.Vec2) bool {
	center, ok := g.camera.ScreenToGround(screen)
	if !ok {
		slog.Debug("antibiotic missed the ground", "x", screen.X(), "y", screen.Y())
		return false
	}
	g.applyDose(center, strength, radius)
	return true
}

func (g *Game) setParam(name string, value float32) {
	switch name {
	case ui.ParamDivisionInterval:
		g.colony.SetDivisionInterval(value)
		slog.Info("division_interval_changed", "seconds", g.colony.DivisionInterval())
	case ui.ParamGlow:
		g.glow = mgl32.Clamp(value, 0, 1)
	default:
		slog.Warn("unknown parameter", "name", name, "value", value)
	}
}
