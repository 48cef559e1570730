// Package antibiotic models localized antibiotic doses and their fading
// on-screen effects.
package antibiotic

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultLifetime is how long an effect stays visible, in seconds.
const DefaultLifetime = 2.0

// Effect is one visible antibiotic application.
type Effect struct {
	Center   mgl32.Vec2
	Strength float32
	Radius   float32
	Elapsed  float32
	Lifetime float32
}

// Active reports whether the effect has time left.
func (e Effect) Active() bool {
	return e.Elapsed < e.Lifetime
}

// Progress returns the fraction of the lifetime used, in [0, 1].
func (e Effect) Progress() float32 {
	if e.Lifetime <= 0 {
		return 1
	}
	return mgl32.Clamp(e.Elapsed/e.Lifetime, 0, 1)
}

// VisibleRadius shrinks from Radius to zero over the lifetime.
func (e Effect) VisibleRadius() float32 {
	return e.Radius * (1 - e.Progress())
}

// Opacity fades from 1 to 0 over the lifetime.
func (e Effect) Opacity() float32 {
	return 1 - e.Progress()
}

// Set holds the live effects in trigger order.
type Set struct {
	effects []Effect
}

// NewSet creates an empty effect set.
func NewSet() *Set {
	return &Set{}
}

// Add records a new effect. Negative strength and radius are clamped to 0.
func (s *Set) Add(center mgl32.Vec2, strength, radius, lifetime float32) {
	s.effects = append(s.effects, Effect{
		Center:   center,
		Strength: max(strength, 0),
		Radius:   max(radius, 0),
		Lifetime: lifetime,
	})
}

// Advance ages every effect and drops the expired ones. An effect with a
// lifetime of zero or less expires on the first call.
func (s *Set) Advance(dt float32) {
	if dt < 0 {
		dt = 0
	}
	kept := s.effects[:0]
	for _, e := range s.effects {
		e.Elapsed += dt
		if e.Elapsed >= e.Lifetime {
			continue
		}
		kept = append(kept, e)
	}
	clear(s.effects[len(kept):])
	s.effects = kept
}

// Effects returns a copy of the live effects.
func (s *Set) Effects() []Effect {
	return append([]Effect(nil), s.effects...)
}

// Len returns the number of live effects.
func (s *Set) Len() int {
	return len(s.effects)
}

// Clear drops every effect.
func (s *Set) Clear() {
	s.effects = s.effects[:0]
}

// Dose applies every live effect for one frame of sustained dosing. Each
// effect delivers Strength*dt/Lifetime over its current visible radius, so
// a full lifetime delivers roughly Strength at the center.
func (s *Set) Dose(host Host, dt float32, falloff Falloff) Exposure {
	var total Exposure
	if dt <= 0 {
		return total
	}
	for _, e := range s.effects {
		if e.Lifetime <= 0 {
			continue
		}
		x := ApplyToColony(e.Center, e.Strength*dt/e.Lifetime, e.VisibleRadius(), host, falloff)
		total.Hit += x.Hit
		total.Killed += x.Killed
		total.Damage += x.Damage
	}
	return total
}
