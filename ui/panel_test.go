package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
)

type recordingHandler struct {
	added   []bacteria.Species
	counts  []int
	doses   [][2]float32
	screens []mgl32.Vec2
	params  map[string]float32
}

func (h *recordingHandler) AddBacteria(s bacteria.Species, count int, screen mgl32.Vec2) {
	h.added = append(h.added, s)
	h.counts = append(h.counts, count)
	h.screens = append(h.screens, screen)
}

func (h *recordingHandler) ApplyAntibiotic(strength, radius float32, screen mgl32.Vec2) {
	h.doses = append(h.doses, [2]float32{strength, radius})
	h.screens = append(h.screens, screen)
}

func (h *recordingHandler) ParamChanged(name string, value float32) {
	if h.params == nil {
		h.params = make(map[string]float32)
	}
	h.params[name] = value
}

func newTestPanel() (*ControlPanel, *recordingHandler) {
	h := &recordingHandler{}
	return NewControlPanel(h, PanelDefaults{Count: 100, MaxCount: 500, Strength: 0.5, Radius: 50, Glow: 0.5}), h
}

func TestControlPanelDefaults(t *testing.T) {
	p := NewControlPanel(&recordingHandler{}, PanelDefaults{Count: 900, MaxCount: 500, Strength: 3, Radius: 1})
	if p.Count != 500 {
		t.Errorf("count = %d, want clamp to 500", p.Count)
	}
	if p.Strength != MaxStrength || p.Radius != MinRadius {
		t.Errorf("strength %v radius %v not clamped", p.Strength, p.Radius)
	}
	if p.Tool() != ToolNone {
		t.Error("no tool should be armed at start")
	}
}

func TestControlPanelPlacementFiresOnce(t *testing.T) {
	p, h := newTestPanel()
	click := rl.Vector2{X: 600, Y: 300}
	screen := mgl32.Vec2{600, 420}

	if p.HandleClick(click, screen) {
		t.Fatal("unarmed click should fall through")
	}

	p.Species = bacteria.Bacillus
	p.Arm(ToolBacteria)
	if !p.HandleClick(click, screen) {
		t.Fatal("armed click should be consumed")
	}
	if len(h.added) != 1 || h.added[0] != bacteria.Bacillus || h.counts[0] != 100 {
		t.Fatalf("unexpected placement %v %v", h.added, h.counts)
	}
	if h.screens[0] != screen {
		t.Errorf("placement at %v, want %v", h.screens[0], screen)
	}
	if p.Tool() != ToolNone {
		t.Error("tool should disarm after firing")
	}
	if p.HandleClick(click, screen) || len(h.added) != 1 {
		t.Error("second click should not place again")
	}
}

func TestControlPanelAntibiotic(t *testing.T) {
	p, h := newTestPanel()
	p.Strength = 0.8
	p.Radius = 120

	p.Arm(ToolAntibiotic)
	p.HandleClick(rl.Vector2{X: 700, Y: 100}, mgl32.Vec2{700, 620})

	if len(h.doses) != 1 || h.doses[0] != [2]float32{0.8, 120} {
		t.Errorf("unexpected doses %v", h.doses)
	}
	if len(h.added) != 0 {
		t.Error("antibiotic click must not add bacteria")
	}
}

func TestControlPanelArmToggles(t *testing.T) {
	p, _ := newTestPanel()

	p.Arm(ToolBacteria)
	p.Arm(ToolAntibiotic)
	if p.Tool() != ToolAntibiotic {
		t.Error("arming another tool should switch to it")
	}
	p.Arm(ToolAntibiotic)
	if p.Tool() != ToolNone {
		t.Error("arming the active tool should cancel it")
	}
}

func TestControlPanelParams(t *testing.T) {
	p, h := newTestPanel()

	p.SetInterval(100)
	if got := h.params[ParamDivisionInterval]; got != MaxInterval {
		t.Errorf("interval = %v, want clamp to %v", got, MaxInterval)
	}
	p.ResetInterval()
	if got := h.params[ParamDivisionInterval]; got != 0 {
		t.Errorf("reset should send 0, got %v", got)
	}

	p.SetGlow(-1)
	if got, ok := h.params[ParamGlow]; !ok || got != 0 {
		t.Errorf("glow = %v, want 0", got)
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()
	if !reg.IsEnabled(OverlaySpeciesColors) || reg.IsEnabled(OverlayHealthColors) {
		t.Fatal("unexpected default overlay state")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyH)
	if !ok || id != OverlayHealthColors || !on {
		t.Fatalf("H toggled %q on=%v ok=%v", id, on, ok)
	}
	if reg.IsEnabled(OverlaySpeciesColors) {
		t.Error("species colors should be disabled by health colors")
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyQ); ok {
		t.Error("unbound key should not toggle anything")
	}
}

func TestAnchorPlace(t *testing.T) {
	tests := []struct {
		anchor PanelAnchor
		x, y   int32
	}{
		{AnchorTopLeft, 10, 10},
		{AnchorTopRight, 690, 10},
		{AnchorBottomLeft, 10, 490},
		{AnchorBottomRight, 690, 490},
	}
	for _, tt := range tests {
		x, y := tt.anchor.Place(800, 600, 100, 100, 10)
		if x != tt.x || y != tt.y {
			t.Errorf("anchor %d: got (%d, %d), want (%d, %d)", tt.anchor, x, y, tt.x, tt.y)
		}
	}
}

func TestLegendRowsGroupByCategory(t *testing.T) {
	reg := NewOverlayRegistry()
	rows := legendRows(reg)

	var headers []string
	overlays := 0
	for _, row := range rows {
		if row.header != "" {
			headers = append(headers, row.header)
			continue
		}
		overlays++
		if row.enabled != reg.IsEnabled(row.desc.ID) {
			t.Errorf("row %q enabled=%v out of sync", row.desc.ID, row.enabled)
		}
	}

	want := []string{"Coloring", "Scene", "Debug"}
	if len(headers) != len(want) {
		t.Fatalf("headers = %v, want %v", headers, want)
	}
	for i := range want {
		if headers[i] != want[i] {
			t.Errorf("header %d = %q, want %q", i, headers[i], want[i])
		}
	}
	if overlays != 6 {
		t.Errorf("got %d overlay rows, want 6", overlays)
	}
}
