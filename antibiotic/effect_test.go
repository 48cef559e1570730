package antibiotic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestEffectFades(t *testing.T) {
	e := Effect{Radius: 50, Lifetime: 2}

	tests := []struct {
		elapsed float32
		radius  float32
		opacity float32
		active  bool
	}{
		{0, 50, 1, true},
		{1, 25, 0.5, true},
		{1.5, 12.5, 0.25, true},
		{2, 0, 0, false},
		{3, 0, 0, false},
	}

	for _, tt := range tests {
		e.Elapsed = tt.elapsed
		if got := e.VisibleRadius(); !approx(got, tt.radius) {
			t.Errorf("elapsed %f: VisibleRadius() = %f, want %f", tt.elapsed, got, tt.radius)
		}
		if got := e.Opacity(); !approx(got, tt.opacity) {
			t.Errorf("elapsed %f: Opacity() = %f, want %f", tt.elapsed, got, tt.opacity)
		}
		if got := e.Active(); got != tt.active {
			t.Errorf("elapsed %f: Active() = %v, want %v", tt.elapsed, got, tt.active)
		}
	}
}

func TestSetAdvanceExpires(t *testing.T) {
	s := NewSet()
	s.Add(mgl32.Vec2{}, 0.5, 50, 2)
	s.Add(mgl32.Vec2{1, 1}, 0.5, 50, 1)

	s.Advance(0.5)
	if s.Len() != 2 {
		t.Fatalf("expected 2 live effects, got %d", s.Len())
	}

	s.Advance(0.5)
	if s.Len() != 1 {
		t.Fatalf("expected 1 live effect after the short one expires, got %d", s.Len())
	}
	if got := s.Effects()[0]; got.Lifetime != 2 || !approx(got.Elapsed, 1) {
		t.Errorf("wrong survivor %+v", got)
	}

	s.Advance(1)
	if s.Len() != 0 {
		t.Errorf("expected all effects expired, got %d", s.Len())
	}
}

func TestSetZeroLifetimeExpiresOnNextAdvance(t *testing.T) {
	s := NewSet()
	s.Add(mgl32.Vec2{}, 1, 10, 0)
	if s.Len() != 1 {
		t.Fatal("effect should be recorded before the first advance")
	}

	s.Advance(0)
	if s.Len() != 0 {
		t.Errorf("zero lifetime effect should expire, got %d", s.Len())
	}
}

func TestSetAddClampsNegatives(t *testing.T) {
	s := NewSet()
	s.Add(mgl32.Vec2{}, -1, -5, 2)

	e := s.Effects()[0]
	if e.Strength != 0 || e.Radius != 0 {
		t.Errorf("expected clamped strength and radius, got %+v", e)
	}
}

func TestEffectsReturnsCopy(t *testing.T) {
	s := NewSet()
	s.Add(mgl32.Vec2{}, 1, 10, 2)

	s.Effects()[0].Radius = 999
	if s.Effects()[0].Radius != 10 {
		t.Error("mutating Effects() changed the set")
	}
}
