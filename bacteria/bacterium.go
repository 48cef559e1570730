package bacteria

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DivisionHealthThreshold is the health a bacterium must exceed to divide.
const DivisionHealthThreshold = 0.7

// MinDivisionInterval keeps overridden intervals strictly positive.
const MinDivisionInterval = 0.05

// Rand is the random source used for division rolls and spawn jitter.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float32() float32
	NormFloat64() float64
}

// Position is a world-space point. Depth only orders overlapping
// geometry for rendering and plays no part in distances.
type Position struct {
	X, Y  float32
	Depth float32
}

// Vec2 returns the planar part of the position.
func (p Position) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{p.X, p.Y}
}

// Vec3 returns the position with depth as Z.
func (p Position) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Depth}
}

// PlanarDistance returns the distance to q ignoring depth.
func (p Position) PlanarDistance(q mgl32.Vec2) float32 {
	return p.Vec2().Sub(q).Len()
}

// CloneParams controls where offspring appear relative to the parent.
type CloneParams struct {
	Radius    float32 // planar jitter radius
	DepthStep float32 // depth added per generation
	MaxDepth  float32 // depth ceiling
}

// DefaultCloneParams returns the stock offspring placement.
func DefaultCloneParams() CloneParams {
	return CloneParams{Radius: 0.5, DepthStep: 0.05, MaxDepth: 2.0}
}

// Bacterium is a single simulated agent. It is a plain value; the colony
// stores it by value and hands out pointers only for in-place updates.
type Bacterium struct {
	Species  Species
	Position Position
	Health   float32
	Interval float32 // division interval in seconds

	elapsed float32 // counts up towards Interval
}

// New creates a bacterium with the profile of its species.
func New(s Species, pos Position) Bacterium {
	st := StatsFor(s)
	return Bacterium{
		Species:  s,
		Position: pos,
		Health:   mgl32.Clamp(st.InitialHealth, 0, 1),
		Interval: st.DivisionInterval,
	}
}

// Alive reports whether the bacterium has any health left.
func (b *Bacterium) Alive() bool {
	return b.Health > 0
}

// Advance accumulates division time. Dead bacteria do not age.
func (b *Bacterium) Advance(dt float32) {
	if !b.Alive() || dt <= 0 {
		return
	}
	b.elapsed += dt
}

// CanDivide reports whether the division clock has run out on a healthy
// bacterium.
func (b *Bacterium) CanDivide() bool {
	return b.Alive() && b.Health > DivisionHealthThreshold && b.elapsed >= b.Interval
}

// ApplyAntibiotic reduces health by intensity scaled by the species
// resistance and returns the damage dealt.
func (b *Bacterium) ApplyAntibiotic(intensity float32) float32 {
	if !b.Alive() || intensity <= 0 {
		return 0
	}
	damage := intensity * (1 - resistanceFor(b.Species))
	if damage > b.Health {
		damage = b.Health
	}
	b.Health -= damage
	return damage
}

// Clone returns a fresh bacterium of the same species placed near this one.
// The offspring inherits the division interval but starts with full health
// and a zeroed clock.
func (b *Bacterium) Clone(rng Rand, p CloneParams) Bacterium {
	off := diskRand(rng, p.Radius)
	pos := Position{
		X:     b.Position.X + off.X(),
		Y:     b.Position.Y + off.Y(),
		Depth: b.Position.Depth + p.DepthStep,
	}
	if pos.Depth > p.MaxDepth {
		pos.Depth = p.MaxDepth - rng.Float32()*0.1
	}

	child := New(b.Species, pos)
	child.Interval = b.Interval
	return child
}

// ResetDivisionClock restarts the division countdown.
func (b *Bacterium) ResetDivisionClock() {
	b.elapsed = 0
}

// Elapsed returns the time accumulated towards the next division.
func (b *Bacterium) Elapsed() float32 {
	return b.elapsed
}

// SetDivisionInterval overrides the species interval.
func (b *Bacterium) SetDivisionInterval(v float32) {
	if v < MinDivisionInterval {
		v = MinDivisionInterval
	}
	b.Interval = v
}

// Outline returns the species silhouette in local coordinates. The slice
// is shared and must not be modified.
func (b *Bacterium) Outline() []mgl32.Vec2 {
	return outlineFor(b.Species)
}

// diskRand returns a point uniformly distributed in a disk of the given radius.
func diskRand(rng Rand, radius float32) mgl32.Vec2 {
	if radius <= 0 {
		return mgl32.Vec2{}
	}
	r := radius * float32(math.Sqrt(float64(rng.Float32())))
	theta := 2 * math.Pi * float64(rng.Float32())
	return mgl32.Vec2{
		r * float32(math.Cos(theta)),
		r * float32(math.Sin(theta)),
	}
}
