package game

import (
	"log/slog"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.simTime) {
		return
	}

	stats := g.collector.Flush(g.tick, g.simTime, g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sample collects the colony state at the end of a window.
func (g *Game) sample() telemetry.Sample {
	healths := make([]float64, 0, g.colony.Len())
	g.colony.View(func(b bacteria.Bacterium) {
		healths = append(healths, float64(b.Health))
	})
	return telemetry.Sample{
		Census:        g.colony.Census(),
		Healths:       healths,
		MaxGeneration: g.colony.MaxGeneration(),
		LiveEffects:   g.effects.Len(),
	}
}
