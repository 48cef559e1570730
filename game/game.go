package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/petri/antibiotic"
	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/colony"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/ui"
)

// maxStepsPerUpdate caps the speed multiplier.
const maxStepsPerUpdate = 10

// Options configures game initialization.
type Options struct {
	Seed           int64   // RNG seed (0 = time-based)
	Headless       bool    // Run without graphics
	LogStats       bool    // Output stats via slog
	StatsWindowSec float64 // Stats window in sim seconds (0 = use config)
	OutputDir      string  // Directory for CSV logs (empty = disabled)
	StepsPerUpdate int     // Simulation steps per Update call
}

// Game holds the complete simulation state and the host's view of it.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	// Engine
	colony    *colony.Colony
	effects   *antibiotic.Set
	factory   *colony.Factory
	camera    *camera.Camera
	callbacks *Callbacks

	// Dosing
	falloff   antibiotic.Falloff
	sustained bool
	schedule  []config.DoseConfig
	nextDose  int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	// UI (nil when headless)
	panel    *ui.ControlPanel
	hud      *ui.HUD
	perfView *ui.PerfPanel
	controls *ui.ControlsPanel
	overlays *ui.OverlayRegistry

	// State
	tick           int32
	simTime        float64
	paused         bool
	headless       bool
	stepsPerUpdate int
	glow           float32

	screenWidth, screenHeight float32
}

// NewGame creates a game with default options from the global config.
func NewGame() *Game {
	return NewGameWithOptions(Options{})
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) *Game {
	return New(config.Cfg(), opts)
}

// New creates a game from cfg, seeds the colony and opens the output
// directory if one is requested.
func New(cfg *config.Config, opts Options) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := min(max(opts.StepsPerUpdate, 1), maxStepsPerUpdate)
	if opts.Headless {
		// Headless runs are not bound to the interactive speed cap.
		steps = max(opts.StepsPerUpdate, 1)
	}

	g := &Game{
		cfg:  cfg,
		rng:  rng,
		seed: seed,

		colony:  colony.New(cfg.ColonyParams(), rng),
		effects: antibiotic.NewSet(),
		factory: colony.NewFactory(cfg.FactoryParams(), rng),
		camera:  camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, cfg.CameraSettings()),

		falloff:   cfg.Derived.Falloff,
		sustained: cfg.Derived.Sustained,
		schedule:  cfg.Derived.Schedule,

		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,

		headless:       opts.Headless,
		stepsPerUpdate: steps,
		glow:           float32(cfg.Render.Glow),
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}
	g.RegisterDefaultCallbacks()

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.panel = ui.NewControlPanel(g.callbacks, ui.PanelDefaults{
			Count:    cfg.Factory.DefaultCount,
			MaxCount: cfg.Factory.MaxCount,
			Strength: float32(cfg.Antibiotic.DefaultStrength),
			Radius:   float32(cfg.Antibiotic.DefaultRadius),
			Glow:     g.glow,
		})
		g.hud = ui.NewHUD()
		g.perfView = ui.NewPerfPanel()
		g.controls = ui.NewControlsPanel(200)
		g.overlays = ui.NewOverlayRegistry()
	}

	g.seedColony()
	return g
}

// Update runs one frame of the windowed game: input, then the simulation
// steps scaled by the frame time.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()
	if g.paused {
		return
	}
	dt := g.frameDT()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(dt)
	}
}

// UpdateHeadless runs stepsPerUpdate fixed steps without graphics.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Derived.DT32)
	}
}

// Unload releases resources.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// SetStatsCallback registers a function called on every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Tick returns the number of completed simulation steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 {
	return g.seed
}

// Colony returns the colony for read-only views.
func (g *Game) Colony() *colony.Colony {
	return g.colony
}

// ColonySize returns the number of stored bacteria.
func (g *Game) ColonySize() int {
	return g.colony.Len()
}

// Effects returns a copy of the active antibiotic effects.
func (g *Game) Effects() []antibiotic.Effect {
	return g.effects.Effects()
}

// Camera returns the viewport.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Glow returns the outline glow strength in [0, 1].
func (g *Game) Glow() float32 {
	return g.glow
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}
