package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseColony)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseEffects)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseColony] <= 0 {
		t.Error("expected colony phase to be tracked")
	}
	if stats.PhaseAvg[PhaseEffects] <= 0 {
		t.Error("expected effects phase to be tracked")
	}
	if stats.PhaseAvg[PhaseDosing] != 0 {
		t.Error("untimed phase should be zero")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseColony)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v above max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSchedule)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseColony)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fast := stats.PhasePct[PhaseSchedule]
	slow := stats.PhasePct[PhaseColony]
	if slow <= fast {
		t.Errorf("expected colony phase (%v%%) > schedule phase (%v%%)", slow, fast)
	}

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.ColonyPct != slow {
		t.Errorf("unexpected CSV row %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero values for empty collector")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS near 60 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseDosing.String() != "dosing" {
		t.Errorf("got %q", PhaseDosing.String())
	}
	if Phase(200).String() != "unknown" {
		t.Errorf("got %q", Phase(200).String())
	}
}

func TestPhasesInStepOrder(t *testing.T) {
	phases := Phases()
	if len(phases) != int(numPhases) {
		t.Fatalf("got %d phases", len(phases))
	}
	if phases[0] != PhaseSchedule || phases[len(phases)-1] != PhaseTelemetry {
		t.Errorf("unexpected order %v", phases)
	}
}
