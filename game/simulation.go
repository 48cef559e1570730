package game

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/antibiotic"
	"github.com/pthm-cable/petri/telemetry"
)

// Step advances the simulation by dt seconds, clamped to
// [0, physics.max_dt].
func (g *Game) Step(dt float32) {
	dt = mgl32.Clamp(dt, 0, g.cfg.Derived.MaxDT32)

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSchedule)
	g.runSchedule()

	g.perfCollector.StartPhase(telemetry.PhaseDosing)
	if g.sustained {
		x := g.effects.Dose(g.colony, dt, g.falloff)
		g.collector.RecordExposure(x)
	}

	g.perfCollector.StartPhase(telemetry.PhaseColony)
	res := g.colony.Update(dt)
	g.collector.RecordUpdate(res)

	g.perfCollector.StartPhase(telemetry.PhaseEffects)
	g.effects.Advance(dt)

	g.tick++
	g.simTime += float64(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// runSchedule fires every scheduled dose whose time has come.
func (g *Game) runSchedule() {
	for g.nextDose < len(g.schedule) && g.schedule[g.nextDose].At <= g.simTime {
		d := g.schedule[g.nextDose]
		g.nextDose++
		g.applyDose(mgl32.Vec2{float32(d.X), float32(d.Y)}, float32(d.Strength), float32(d.Radius))
	}
}

// applyDose records a visual effect at center and, in pulse mode, damages
// the colony once. In sustained mode the damage is spread over the
// effect's lifetime by Step.
func (g *Game) applyDose(center mgl32.Vec2, strength, radius float32) antibiotic.Exposure {
	g.effects.Add(center, strength, radius, float32(g.cfg.Antibiotic.Lifetime))

	var x antibiotic.Exposure
	if !g.sustained {
		x = antibiotic.ApplyToColony(center, strength, radius, g.colony, g.falloff)
	}
	g.collector.RecordDose(x)

	slog.Info("antibiotic_applied",
		"x", center.X(),
		"y", center.Y(),
		"strength", strength,
		"radius", radius,
		"hit", x.Hit,
		"killed", x.Killed,
		"tick", g.tick,
	)
	return x
}

// seedColony places the configured starting batches.
func (g *Game) seedColony() {
	for _, s := range g.cfg.Derived.Seeds {
		batch := g.factory.CreateBatch(s.Species, s.Count, mgl32.Vec2{s.X, s.Y})
		for _, b := range batch {
			g.colony.Add(b)
		}
		g.collector.RecordPlacement(len(batch))
	}
	if g.colony.Len() > 0 {
		slog.Info("colony_seeded", "population", g.colony.Len(), "batches", len(g.cfg.Derived.Seeds), "seed", g.seed)
	}
}

// ClearColony removes every bacterium and antibiotic effect.
func (g *Game) ClearColony() {
	n := g.colony.Len()
	g.colony.Clear()
	g.effects.Clear()
	slog.Info("colony_cleared", "removed", n, "tick", g.tick)
}
