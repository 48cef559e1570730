package game

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/ui"
)

// screenCentre maps to the world origin with the default 2D camera.
var screenCentre = mgl32.Vec2{640, 360}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

// emptyGame returns a headless game with no seeded bacteria.
func emptyGame(t *testing.T, mutate func(*config.Config)) *Game {
	t.Helper()
	cfg := loadConfig(t)
	cfg.Derived.Seeds = nil
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg, Options{Seed: 7, Headless: true})
}

func healths(g *Game) []float32 {
	var out []float32
	for _, b := range g.Colony().Snapshot() {
		out = append(out, b.Health)
	}
	return out
}

func TestNewSeedsColony(t *testing.T) {
	g := New(loadConfig(t), Options{Seed: 1, Headless: true})

	if g.ColonySize() != 140 {
		t.Errorf("seeded %d bacteria, want 140", g.ColonySize())
	}
	census := g.Colony().Census()
	if census[bacteria.Cocci] != 40 || census[bacteria.Bacillus] != 30 {
		t.Errorf("unexpected census %v", census)
	}
	if g.Seed() != 1 {
		t.Errorf("seed = %d", g.Seed())
	}
}

func TestNewTimeSeed(t *testing.T) {
	g := emptyGame(t, nil)
	g2 := New(loadConfig(t), Options{Headless: true})
	if g.Seed() == 0 || g2.Seed() == 0 {
		t.Error("zero seed should be replaced")
	}
}

func TestStepClampsDT(t *testing.T) {
	g := emptyGame(t, nil)

	g.Step(5)
	if math.Abs(g.SimTime()-0.1) > 1e-6 {
		t.Errorf("sim time = %v, want clamp to 0.1", g.SimTime())
	}
	g.Step(-1)
	if math.Abs(g.SimTime()-0.1) > 1e-6 || g.Tick() != 2 {
		t.Errorf("negative dt should advance the tick only: time %v tick %d", g.SimTime(), g.Tick())
	}
}

func TestDivisionGrowsColony(t *testing.T) {
	g := emptyGame(t, func(c *config.Config) {
		c.Colony.DivisionProbability = 1
		c.Derived.Seeds = []config.Seed{{Species: bacteria.Diplococcus, Count: 1}}
	})

	for i := 0; i < 39; i++ {
		g.Step(0.1)
	}
	if g.ColonySize() != 1 {
		t.Fatalf("divided early: %d bacteria", g.ColonySize())
	}
	for i := 0; i < 2; i++ {
		g.Step(0.1)
	}
	if g.ColonySize() != 2 {
		t.Errorf("after 4.1s: %d bacteria, want 2", g.ColonySize())
	}
}

func TestAddBacteriaAt(t *testing.T) {
	g := emptyGame(t, nil)

	if n := g.AddBacteriaAt(bacteria.Cocci, 10, screenCentre); n != 10 {
		t.Fatalf("placed %d, want 10", n)
	}
	for _, b := range g.Colony().Snapshot() {
		if b.Position.Vec2().Len() > 20 {
			t.Errorf("bacterium at %v, want near the origin", b.Position)
		}
	}

	if n := g.AddBacteriaAt(bacteria.Bacillus, 10000, screenCentre); n != 500 {
		t.Errorf("placed %d, want cap of 500", n)
	}
	if n := g.AddBacteriaAt(bacteria.Bacillus, 0, screenCentre); n != 0 {
		t.Errorf("zero count placed %d", n)
	}
}

func TestAddBacteriaMissIn3D(t *testing.T) {
	g := emptyGame(t, nil)
	if g.Camera().ToggleMode() != camera.Mode3D {
		t.Fatal("expected 3D mode")
	}
	g.Camera().Pitch = mgl32.DegToRad(5)

	if n := g.AddBacteriaAt(bacteria.Cocci, 10, mgl32.Vec2{640, 719}); n != 0 {
		t.Errorf("click above the horizon placed %d", n)
	}
	if g.ApplyAntibioticAt(1, 50, mgl32.Vec2{640, 719}) {
		t.Error("antibiotic above the horizon should miss")
	}

	if n := g.AddBacteriaAt(bacteria.Cocci, 10, mgl32.Vec2{640, 100}); n != 10 {
		t.Errorf("click on the ground placed %d, want 10", n)
	}
}

func TestCallbacks(t *testing.T) {
	g := emptyGame(t, nil)
	cb := g.Callbacks()

	cb.AddBacteria(bacteria.Staphylococci, 5, screenCentre)
	if g.ColonySize() != 5 {
		t.Errorf("callback placed %d, want 5", g.ColonySize())
	}

	cb.ParamChanged(ui.ParamDivisionInterval, 3)
	if g.Colony().DivisionInterval() != 3 {
		t.Errorf("division interval = %v", g.Colony().DivisionInterval())
	}
	for _, b := range g.Colony().Snapshot() {
		if b.Interval != 3 {
			t.Errorf("existing bacterium interval = %v, want 3", b.Interval)
		}
	}

	cb.ParamChanged(ui.ParamGlow, 2)
	if g.Glow() != 1 {
		t.Errorf("glow = %v, want clamp to 1", g.Glow())
	}
	cb.ParamChanged("unknown", 1)

	cb.OnAddBacteria = nil
	cb.AddBacteria(bacteria.Cocci, 5, screenCentre)
	if g.ColonySize() != 5 {
		t.Error("nil callback should ignore the request")
	}

	g.RegisterDefaultCallbacks()
	cb.AddBacteria(bacteria.Cocci, 5, screenCentre)
	if g.ColonySize() != 10 {
		t.Error("re-registering should restore the default callback")
	}
}

func TestPulseDoseKills(t *testing.T) {
	g := emptyGame(t, nil)
	g.AddBacteriaAt(bacteria.Staphylococci, 20, screenCentre)

	if !g.ApplyAntibioticAt(1, 50, screenCentre) {
		t.Fatal("dose at centre should hit the ground")
	}
	for _, h := range healths(g) {
		if h >= 1 {
			t.Fatalf("pulse dose left health %v", h)
		}
	}
	if len(g.Effects()) != 1 {
		t.Errorf("expected 1 effect, got %d", len(g.Effects()))
	}

	g.Callbacks().ApplyAntibiotic(1, 50, screenCentre)
	g.Step(1.0 / 60)
	if g.ColonySize() != 0 {
		t.Errorf("two full doses should kill everything, %d left", g.ColonySize())
	}
}

func TestSustainedDose(t *testing.T) {
	g := emptyGame(t, func(c *config.Config) {
		c.Derived.Sustained = true
	})
	g.AddBacteriaAt(bacteria.Cocci, 10, screenCentre)

	g.ApplyAntibioticAt(1, 50, screenCentre)
	for _, h := range healths(g) {
		if h != 1 {
			t.Fatalf("sustained dose should not hit at trigger time, health %v", h)
		}
	}

	for i := 0; i < 30; i++ {
		g.Step(1.0 / 60)
	}
	for _, h := range healths(g) {
		if h >= 1 {
			t.Errorf("health %v after half a second of exposure", h)
		}
	}
}

func TestScheduledDose(t *testing.T) {
	g := emptyGame(t, func(c *config.Config) {
		c.Derived.Seeds = []config.Seed{{Species: bacteria.Cocci, Count: 10}}
		c.Derived.Schedule = []config.DoseConfig{{At: 0.04, Strength: 1, Radius: 50}}
	})

	g.Step(1.0 / 60)
	if len(g.Effects()) != 0 {
		t.Fatal("dose fired early")
	}
	for i := 0; i < 5; i++ {
		g.Step(1.0 / 60)
	}
	if len(g.Effects()) != 1 {
		t.Fatalf("expected the scheduled dose, got %d effects", len(g.Effects()))
	}
	for _, h := range healths(g) {
		if h >= 1 {
			t.Errorf("scheduled dose missed a bacterium, health %v", h)
		}
	}

	for i := 0; i < 10; i++ {
		g.Step(1.0 / 60)
	}
	if len(g.Effects()) != 1 {
		t.Error("a scheduled dose should fire only once")
	}
}

func TestEffectsExpire(t *testing.T) {
	g := emptyGame(t, nil)
	g.ApplyAntibioticAt(0.5, 50, screenCentre)

	for i := 0; i < 25; i++ {
		g.Step(0.1)
	}
	if len(g.Effects()) != 0 {
		t.Errorf("effect should expire after its 2s lifetime, %d left", len(g.Effects()))
	}
}

func TestClearColony(t *testing.T) {
	g := New(loadConfig(t), Options{Seed: 3, Headless: true})
	g.ApplyAntibioticAt(0.1, 10, screenCentre)

	g.ClearColony()
	if g.ColonySize() != 0 || len(g.Effects()) != 0 {
		t.Errorf("clear left %d bacteria and %d effects", g.ColonySize(), len(g.Effects()))
	}
}

func TestUpdateHeadlessSteps(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Derived.Seeds = nil
	g := New(cfg, Options{Seed: 1, Headless: true, StepsPerUpdate: 25})

	g.UpdateHeadless()
	if g.Tick() != 25 {
		t.Errorf("tick = %d, want 25", g.Tick())
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	g := New(loadConfig(t), Options{Seed: 1, Headless: true, StatsWindowSec: 0.5, OutputDir: dir})

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})

	for i := 0; i < 70; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	if len(windows) < 2 {
		t.Fatalf("expected at least 2 windows, got %d", len(windows))
	}
	if windows[0].Population != 140 || windows[0].Placed != 140 {
		t.Errorf("first window %+v", windows[0])
	}
	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
