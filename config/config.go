// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/petri/antibiotic"
	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/colony"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Colony     ColonyConfig     `yaml:"colony"`
	Factory    FactoryConfig    `yaml:"factory"`
	Antibiotic AntibioticConfig `yaml:"antibiotic"`
	Camera     CameraConfig     `yaml:"camera"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the time step settings.
type PhysicsConfig struct {
	DT    float64 `yaml:"dt"`     // Fixed step for headless runs
	MaxDT float64 `yaml:"max_dt"` // Frame times are clamped to this
}

// SeedConfig places a batch of bacteria at startup.
type SeedConfig struct {
	Species string  `yaml:"species"`
	Count   int     `yaml:"count"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
}

// ColonyConfig holds division and offspring placement parameters.
type ColonyConfig struct {
	DivisionProbability float64      `yaml:"division_probability"`
	CloneRadius         float64      `yaml:"clone_radius"`
	DepthStep           float64      `yaml:"depth_step"`
	MaxDepth            float64      `yaml:"max_depth"`
	Seed                []SeedConfig `yaml:"seed"`
}

// FactoryConfig holds user placement parameters.
type FactoryConfig struct {
	Spread       float64 `yaml:"spread"`
	DepthStep    float64 `yaml:"depth_step"`
	MaxDepth     float64 `yaml:"max_depth"`
	DefaultCount int     `yaml:"default_count"`
	MaxCount     int     `yaml:"max_count"`
}

// DoseConfig is a scheduled antibiotic application.
type DoseConfig struct {
	At       float64 `yaml:"at"` // Simulation seconds
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Strength float64 `yaml:"strength"`
	Radius   float64 `yaml:"radius"`
}

// AntibioticConfig holds dose defaults.
type AntibioticConfig struct {
	DefaultStrength float64      `yaml:"default_strength"`
	DefaultRadius   float64      `yaml:"default_radius"`
	Lifetime        float64      `yaml:"lifetime"`
	Falloff         string       `yaml:"falloff"` // linear | smooth
	Mode            string       `yaml:"mode"`    // pulse | sustained
	Schedule        []DoseConfig `yaml:"schedule"`
}

// CameraConfig holds viewport limits. Angles are degrees.
type CameraConfig struct {
	MinZoom             float64 `yaml:"min_zoom"`
	MaxZoom             float64 `yaml:"max_zoom"`
	ZoomSensitivity     float64 `yaml:"zoom_sensitivity"`
	RotationSensitivity float64 `yaml:"rotation_sensitivity"`
	ZoomSensitivity3D   float64 `yaml:"zoom_sensitivity_3d"`
	MinDistance         float64 `yaml:"min_distance"`
	MaxDistance         float64 `yaml:"max_distance"`
	MinPitch            float64 `yaml:"min_pitch"`
	MaxPitch            float64 `yaml:"max_pitch"`
	FOV                 float64 `yaml:"fov"`
	OrthoNear           float64 `yaml:"ortho_near"`
	OrthoFar            float64 `yaml:"ortho_far"`
	Near                float64 `yaml:"near"`
	Far                 float64 `yaml:"far"`
	DefaultDistance     float64 `yaml:"default_distance"`
	DefaultYaw          float64 `yaml:"default_yaw"`
	DefaultPitch        float64 `yaml:"default_pitch"`
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	Glow        float64 `yaml:"glow"`
	Background  [3]int  `yaml:"background"`
	EffectColor [3]int  `yaml:"effect_color"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks in the rolling perf average
}

// Seed is a parsed SeedConfig.
type Seed struct {
	Species bacteria.Species
	Count   int
	X, Y    float32
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32      float32
	MaxDT32   float32
	ScreenW32 float32
	ScreenH32 float32
	Falloff   antibiotic.Falloff
	Sustained bool
	Seeds     []Seed
	Schedule  []DoseConfig // sorted by At
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value in the config.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	check(c.Physics.DT > 0, "physics.dt must be positive, got %g", c.Physics.DT)
	check(c.Physics.MaxDT >= c.Physics.DT, "physics.max_dt (%g) must be at least dt (%g)", c.Physics.MaxDT, c.Physics.DT)
	check(c.Colony.DivisionProbability >= 0 && c.Colony.DivisionProbability <= 1,
		"colony.division_probability must be in [0, 1], got %g", c.Colony.DivisionProbability)
	check(c.Colony.CloneRadius >= 0, "colony.clone_radius must not be negative")
	check(c.Factory.Spread >= 0, "factory.spread must not be negative")
	check(c.Factory.MaxCount >= 1, "factory.max_count must be at least 1")
	check(c.Antibiotic.Lifetime >= 0, "antibiotic.lifetime must not be negative")
	check(c.Antibiotic.DefaultRadius >= 0, "antibiotic.default_radius must not be negative")
	check(c.Camera.MinZoom > 0, "camera.min_zoom must be positive, got %g", c.Camera.MinZoom)
	check(c.Camera.MaxZoom >= c.Camera.MinZoom, "camera.max_zoom must be at least min_zoom")
	check(c.Camera.MinDistance > 0 && c.Camera.MaxDistance >= c.Camera.MinDistance,
		"camera distance range [%g, %g] is invalid", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Camera.MinPitch > -90 && c.Camera.MaxPitch < 90 && c.Camera.MinPitch <= c.Camera.MaxPitch,
		"camera pitch range [%g, %g] must lie inside (-90, 90)", c.Camera.MinPitch, c.Camera.MaxPitch)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %g", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near/far planes are invalid")
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be positive")

	if _, err := antibiotic.ParseFalloff(c.Antibiotic.Falloff); err != nil {
		errs = append(errs, fmt.Errorf("antibiotic.falloff: %w", err))
	}
	switch c.Antibiotic.Mode {
	case "", "pulse", "sustained":
	default:
		errs = append(errs, fmt.Errorf("antibiotic.mode: unknown mode %q", c.Antibiotic.Mode))
	}
	for i, s := range c.Colony.Seed {
		if _, err := bacteria.ParseSpecies(s.Species); err != nil {
			errs = append(errs, fmt.Errorf("colony.seed[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.MaxDT32 = float32(c.Physics.MaxDT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	falloff, err := antibiotic.ParseFalloff(c.Antibiotic.Falloff)
	if err != nil {
		return fmt.Errorf("antibiotic.falloff: %w", err)
	}
	c.Derived.Falloff = falloff
	c.Derived.Sustained = c.Antibiotic.Mode == "sustained"

	c.Derived.Seeds = c.Derived.Seeds[:0]
	for i, s := range c.Colony.Seed {
		sp, err := bacteria.ParseSpecies(s.Species)
		if err != nil {
			return fmt.Errorf("colony.seed[%d]: %w", i, err)
		}
		c.Derived.Seeds = append(c.Derived.Seeds, Seed{
			Species: sp,
			Count:   s.Count,
			X:       float32(s.X),
			Y:       float32(s.Y),
		})
	}

	c.Derived.Schedule = append([]DoseConfig(nil), c.Antibiotic.Schedule...)
	sort.SliceStable(c.Derived.Schedule, func(i, j int) bool {
		return c.Derived.Schedule[i].At < c.Derived.Schedule[j].At
	})
	return nil
}

// ColonyParams returns the colony update parameters.
func (c *Config) ColonyParams() colony.Params {
	return colony.Params{
		DivisionProbability: float32(c.Colony.DivisionProbability),
		Clone: bacteria.CloneParams{
			Radius:    float32(c.Colony.CloneRadius),
			DepthStep: float32(c.Colony.DepthStep),
			MaxDepth:  float32(c.Colony.MaxDepth),
		},
	}
}

// FactoryParams returns the placement parameters.
func (c *Config) FactoryParams() colony.FactoryParams {
	return colony.FactoryParams{
		Spread:    float32(c.Factory.Spread),
		DepthStep: float32(c.Factory.DepthStep),
		MaxDepth:  float32(c.Factory.MaxDepth),
	}
}

// CameraSettings returns the viewport limits.
func (c *Config) CameraSettings() camera.Settings {
	cc := c.Camera
	return camera.Settings{
		MinZoom:             float32(cc.MinZoom),
		MaxZoom:             float32(cc.MaxZoom),
		ZoomSensitivity:     float32(cc.ZoomSensitivity),
		RotationSensitivity: float32(cc.RotationSensitivity),
		ZoomSensitivity3D:   float32(cc.ZoomSensitivity3D),
		MinDistance:         float32(cc.MinDistance),
		MaxDistance:         float32(cc.MaxDistance),
		MinPitch:            float32(cc.MinPitch),
		MaxPitch:            float32(cc.MaxPitch),
		FovY:                float32(cc.FOV),
		OrthoNear:           float32(cc.OrthoNear),
		OrthoFar:            float32(cc.OrthoFar),
		Near:                float32(cc.Near),
		Far:                 float32(cc.Far),
		DefaultDistance:     float32(cc.DefaultDistance),
		DefaultYaw:          float32(cc.DefaultYaw),
		DefaultPitch:        float32(cc.DefaultPitch),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
