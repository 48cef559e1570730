package bacteria

import (
	"errors"
	"testing"
)

func TestStatsTable(t *testing.T) {
	tests := []struct {
		species    Species
		interval   float32
		resistance float32
	}{
		{Cocci, 8.0, 0.2},
		{Diplococcus, 4.0, 0.4},
		{Staphylococci, 6.0, 0.1},
		{Bacillus, 7.0, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.species.String(), func(t *testing.T) {
			st := StatsFor(tt.species)
			if st.InitialHealth != 1.0 {
				t.Errorf("health = %f, want 1.0", st.InitialHealth)
			}
			if st.DivisionInterval != tt.interval {
				t.Errorf("interval = %f, want %f", st.DivisionInterval, tt.interval)
			}
			if st.Resistance != tt.resistance {
				t.Errorf("resistance = %f, want %f", st.Resistance, tt.resistance)
			}
			if len(st.Outline) < 3 {
				t.Errorf("outline has %d points, want a polygon", len(st.Outline))
			}
		})
	}
}

func TestStatsForUnknownFallsBack(t *testing.T) {
	st := StatsFor(Species(42))

	if st.Resistance != 0 {
		t.Errorf("expected zero resistance, got %f", st.Resistance)
	}
	if st.InitialHealth != 1.0 {
		t.Errorf("expected health 1.0, got %f", st.InitialHealth)
	}
	if len(st.Outline) != 4 || st.Outline[2].X()-st.Outline[0].X() != 1 {
		t.Errorf("expected unit square outline, got %v", st.Outline)
	}

	b := New(Species(42), Position{})
	if !b.Alive() {
		t.Error("unknown species should still produce a live bacterium")
	}
}

func TestStatsForReturnsCopy(t *testing.T) {
	st := StatsFor(Cocci)
	st.Outline[0][0] = 999

	if StatsFor(Cocci).Outline[0][0] == 999 {
		t.Error("mutating a returned outline changed the table")
	}
}

func TestEffectiveResistanceClamp(t *testing.T) {
	if r := (Stats{Resistance: 2}).EffectiveResistance(); r != MaxResistance {
		t.Errorf("expected clamp to %f, got %f", MaxResistance, r)
	}
	if r := (Stats{Resistance: -1}).EffectiveResistance(); r != 0 {
		t.Errorf("expected clamp to 0, got %f", r)
	}
}

func TestParseSpecies(t *testing.T) {
	for _, s := range AllSpecies() {
		got, err := ParseSpecies(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSpecies(%q) = %v, %v", s.String(), got, err)
		}
	}

	if got, err := ParseSpecies(" bacillus "); err != nil || got != Bacillus {
		t.Errorf("expected case-insensitive match, got %v, %v", got, err)
	}

	if _, err := ParseSpecies("Spirillum"); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
}
