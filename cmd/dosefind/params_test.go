package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/config"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(baseConfig(t))
	raw := []float64{0.5, 100, 2, 1.5}

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("param %s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestDecodeClampsAndRounds(t *testing.T) {
	pv := NewParamVector(baseConfig(t))

	tests := []struct {
		name string
		raw  []float64
		want Regimen
	}{
		{"in range", []float64{0.5, 50, 2.4, 1}, Regimen{Strength: 0.5, Radius: 50, Doses: 2, Spacing: 1}},
		{"rounds up", []float64{0.5, 50, 2.6, 1}, Regimen{Strength: 0.5, Radius: 50, Doses: 3, Spacing: 1}},
		{"below", []float64{-1, 0, -3, 0}, Regimen{Strength: 0.05, Radius: 10, Doses: 1, Spacing: 0.1}},
		{"above", []float64{9, 900, 99, 99}, Regimen{Strength: 1, Radius: 200, Doses: 6, Spacing: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pv.Decode(tt.raw); got != tt.want {
				t.Errorf("Decode(%v) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRegimenCost(t *testing.T) {
	full := Regimen{Strength: 1, Radius: 200, Doses: 1}
	if full.Cost() != 1 {
		t.Errorf("full dose cost = %v, want 1", full.Cost())
	}
	half := Regimen{Strength: 1, Radius: 100, Doses: 2}
	if half.Cost() != 0.5 {
		t.Errorf("two half-radius doses cost %v, want 0.5", half.Cost())
	}
}

func TestApplyToConfigSchedulesAtSeedCentre(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Derived.Seeds = []config.Seed{
		{Species: bacteria.Cocci, Count: 30, X: 100},
		{Species: bacteria.Bacillus, Count: 10, X: -100, Y: 40},
	}
	pv := NewParamVector(cfg)

	pv.ApplyToConfig(cfg, []float64{0.8, 120, 3, 0.5}, 2)

	if len(cfg.Derived.Schedule) != 3 || len(cfg.Antibiotic.Schedule) != 3 {
		t.Fatalf("expected 3 doses, got %d", len(cfg.Derived.Schedule))
	}
	for i, d := range cfg.Derived.Schedule {
		if want := 2 + 0.5*float64(i); math.Abs(d.At-want) > 1e-9 {
			t.Errorf("dose %d at %v, want %v", i, d.At, want)
		}
		if d.X != 50 || d.Y != 10 {
			t.Errorf("dose %d aimed at (%v, %v), want (50, 10)", i, d.X, d.Y)
		}
		if d.Strength != 0.8 || d.Radius != 120 {
			t.Errorf("dose %d = %+v", i, d)
		}
	}
	if end := pv.Decode([]float64{0.8, 120, 3, 0.5}).End(2); end != 3 {
		t.Errorf("last dose at %v, want 3", end)
	}
}

func TestEvaluateClearsWithHeavyRegimen(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Colony.DivisionProbability = 0
	cfg.Derived.Seeds = []config.Seed{{Species: bacteria.Cocci, Count: 20}}
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 300, []int64{1, 2}, cfg, 0.1)

	heavy := fe.Evaluate([]float64{1, 200, 6, 0.1})
	if out := fe.Last(); out.Cleared != 1 || out.Survivors != 0 {
		t.Fatalf("heavy regimen outcome %+v", out)
	}
	light := fe.Evaluate([]float64{0.05, 10, 1, 0.1})
	if out := fe.Last(); out.Cleared != 0 {
		t.Fatalf("light regimen should not clear: %+v", out)
	}
	if heavy >= light {
		t.Errorf("clearing regimen fitness %v should beat failing one %v", heavy, light)
	}
}
