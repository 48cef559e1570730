package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/petri/antibiotic"
	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/colony"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeHealthStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, std, p10, p50, p90 := ComputeHealthStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	// Sample standard deviation of 0.1..1.0
	if math.Abs(std-0.30277) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", std)
	}
	if math.Abs(p10-0.19) > 0.01 || math.Abs(p50-0.55) > 0.01 || math.Abs(p90-0.91) > 0.01 {
		t.Errorf("percentiles = %v %v %v", p10, p50, p90)
	}
	if values[0] != 1.0 {
		t.Error("input slice was reordered")
	}
}

func TestComputeHealthStatsSmall(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeHealthStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _ = ComputeHealthStats([]float64{0.4})
	if mean != 0.4 || std != 0 || p50 != 0.4 {
		t.Errorf("single value: mean %v std %v p50 %v", mean, std, p50)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	c.RecordPlacement(50)
	c.RecordUpdate(colony.UpdateResult{Divisions: 3, Culled: 2})
	c.RecordUpdate(colony.UpdateResult{Divisions: 1})
	c.RecordDose(antibiotic.Exposure{Hit: 10, Killed: 4, Damage: 3.5})
	c.RecordExposure(antibiotic.Exposure{Hit: 2, Damage: 0.5})

	if c.ShouldFlush(9.9) {
		t.Error("window should not be complete yet")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should be complete")
	}

	stats := c.Flush(600, 10, Sample{
		Census:        map[bacteria.Species]int{bacteria.Cocci: 20, bacteria.Bacillus: 5},
		Healths:       []float64{1, 0.5},
		MaxGeneration: 3,
		LiveEffects:   1,
	})

	if stats.Population != 25 || stats.Cocci != 20 || stats.Bacillus != 5 || stats.Diplococcus != 0 {
		t.Errorf("unexpected population %+v", stats)
	}
	if stats.Placed != 50 || stats.Divisions != 4 || stats.Deaths != 2 {
		t.Errorf("unexpected event counts %+v", stats)
	}
	if stats.Doses != 1 || stats.Hits != 12 || stats.Kills != 4 || math.Abs(stats.Damage-4) > 1e-6 {
		t.Errorf("unexpected dose counts %+v", stats)
	}
	if math.Abs(stats.KillRate-4.0/12.0) > 1e-9 {
		t.Errorf("kill rate = %v", stats.KillRate)
	}
	if stats.HealthMean != 0.75 || stats.MaxGeneration != 3 {
		t.Errorf("health mean %v max gen %d", stats.HealthMean, stats.MaxGeneration)
	}

	next := c.Flush(1200, 20, Sample{})
	if next.WindowStartTick != 600 || next.Divisions != 0 || next.Doses != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(25) {
		t.Error("new window should start at the last flush")
	}
}
