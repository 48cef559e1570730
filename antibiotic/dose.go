package antibiotic

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
)

// Falloff selects how intensity drops with distance from the center.
type Falloff uint8

const (
	// Linear falls off as 1 - d/r.
	Linear Falloff = iota
	// Smooth uses 1 - smoothstep(0, r, d), flat near the center and the rim.
	Smooth
)

func (f Falloff) String() string {
	switch f {
	case Linear:
		return "linear"
	case Smooth:
		return "smooth"
	}
	return fmt.Sprintf("Falloff(%d)", uint8(f))
}

// ParseFalloff converts a config name into a Falloff.
func ParseFalloff(name string) (Falloff, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "smooth":
		return Smooth, nil
	}
	return Linear, fmt.Errorf("unknown falloff %q", name)
}

// Attenuation returns the intensity multiplier at distance d from the
// center of a dose with radius r. It is 1 at the center, 0 at and beyond
// r, and never increases with d.
func (f Falloff) Attenuation(d, r float32) float32 {
	if r <= 0 || d >= r {
		return 0
	}
	t := mgl32.Clamp(d/r, 0, 1)
	if f == Smooth {
		// 1 - smoothstep(t), factored to stay positive for t < 1.
		return (1 - t) * (1 - t) * (1 + 2*t)
	}
	return 1 - t
}

// Host is anything that can visit its living bacteria.
type Host interface {
	EachAlive(fn func(b *bacteria.Bacterium))
}

// Exposure summarises one dose.
type Exposure struct {
	Hit    int
	Killed int
	Damage float32
}

// ApplyToColony damages every living bacterium within radius of center.
// Distance is planar; depth is ignored. Bacteria at or beyond the radius
// are untouched.
func ApplyToColony(center mgl32.Vec2, strength, radius float32, host Host, falloff Falloff) Exposure {
	var x Exposure
	if strength <= 0 || radius <= 0 {
		return x
	}
	host.EachAlive(func(b *bacteria.Bacterium) {
		d := b.Position.PlanarDistance(center)
		if d >= radius {
			return
		}
		dealt := b.ApplyAntibiotic(strength * falloff.Attenuation(d, radius))
		if dealt <= 0 {
			return
		}
		x.Hit++
		x.Damage += dealt
		if !b.Alive() {
			x.Killed++
		}
	})
	return x
}
