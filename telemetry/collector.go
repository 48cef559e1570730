package telemetry

import (
	"github.com/pthm-cable/petri/antibiotic"
	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/colony"
)

// Collector accumulates events within time windows and produces WindowStats.
// Windows are measured in simulated seconds since frame times vary.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowStartTime float64

	// Event counters for current window
	placed    int
	divisions int
	deaths    int
	doses     int
	hits      int
	kills     int
	damage    float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordPlacement records bacteria added by the user or seeding.
func (c *Collector) RecordPlacement(n int) {
	c.placed += n
}

// RecordUpdate records the outcome of one colony update.
func (c *Collector) RecordUpdate(res colony.UpdateResult) {
	c.divisions += res.Divisions
	c.deaths += res.Culled
}

// RecordDose records a triggered antibiotic application.
func (c *Collector) RecordDose(x antibiotic.Exposure) {
	c.doses++
	c.RecordExposure(x)
}

// RecordExposure records damage without counting a new dose, as sustained
// dosing does every frame.
func (c *Collector) RecordExposure(x antibiotic.Exposure) {
	c.hits += x.Hit
	c.kills += x.Killed
	c.damage += float64(x.Damage)
}

// ShouldFlush returns true if enough simulated time has passed to flush the window.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// Sample is the colony state at the end of a window.
type Sample struct {
	Census        map[bacteria.Species]int
	Healths       []float64
	MaxGeneration uint32
	LiveEffects   int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, simTime float64, s Sample) WindowStats {
	var killRate float64
	if c.hits > 0 {
		killRate = float64(c.kills) / float64(c.hits)
	}

	mean, std, p10, p50, p90 := ComputeHealthStats(s.Healths)

	var total int
	for _, n := range s.Census {
		total += n
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Population:    total,
		Cocci:         s.Census[bacteria.Cocci],
		Diplococcus:   s.Census[bacteria.Diplococcus],
		Staphylococci: s.Census[bacteria.Staphylococci],
		Bacillus:      s.Census[bacteria.Bacillus],

		Placed:    c.placed,
		Divisions: c.divisions,
		Deaths:    c.deaths,

		Doses:      c.doses,
		Hits:       c.hits,
		Kills:      c.kills,
		Damage:     c.damage,
		KillRate:   killRate,
		LiveEffect: s.LiveEffects,

		HealthMean: mean,
		HealthStd:  std,
		HealthP10:  p10,
		HealthP50:  p50,
		HealthP90:  p90,

		MaxGeneration: int(s.MaxGeneration),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	c.placed = 0
	c.divisions = 0
	c.deaths = 0
	c.doses = 0
	c.hits = 0
	c.kills = 0
	c.damage = 0

	return stats
}

