// Package telemetry tracks colony health over time windows and writes
// experiment output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population    int `csv:"population"`
	Cocci         int `csv:"cocci"`
	Diplococcus   int `csv:"diplococcus"`
	Staphylococci int `csv:"staphylococci"`
	Bacillus      int `csv:"bacillus"`

	// Events during window
	Placed    int `csv:"placed"`
	Divisions int `csv:"divisions"`
	Deaths    int `csv:"deaths"`

	// Antibiotic
	Doses      int     `csv:"doses"`
	Hits       int     `csv:"hits"`
	Kills      int     `csv:"kills"`
	Damage     float64 `csv:"damage"`
	KillRate   float64 `csv:"kill_rate"` // kills / hits
	LiveEffect int     `csv:"live_effects"`

	// Health distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	MaxGeneration int `csv:"max_generation"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeHealthStats calculates mean, sample standard deviation and
// percentiles of the given health values.
func ComputeHealthStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("cocci", s.Cocci),
		slog.Int("diplococcus", s.Diplococcus),
		slog.Int("staphylococci", s.Staphylococci),
		slog.Int("bacillus", s.Bacillus),
		slog.Int("placed", s.Placed),
		slog.Int("divisions", s.Divisions),
		slog.Int("deaths", s.Deaths),
		slog.Int("doses", s.Doses),
		slog.Int("hits", s.Hits),
		slog.Int("kills", s.Kills),
		slog.Float64("damage", s.Damage),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_p50", s.HealthP50),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
