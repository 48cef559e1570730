package colony

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
)

// FactoryParams controls how placed batches are scattered.
type FactoryParams struct {
	Spread    float32 // standard deviation of the planar offset
	DepthStep float32 // depth added per instance
	MaxDepth  float32
}

// DefaultFactoryParams returns the stock placement parameters.
func DefaultFactoryParams() FactoryParams {
	return FactoryParams{Spread: 2.0, DepthStep: 0.002, MaxDepth: 2.0}
}

// GroundMapper maps a screen point to the world plane. It reports false
// when the point does not hit the plane.
type GroundMapper func(screen mgl32.Vec2) (mgl32.Vec2, bool)

// Factory builds bacteria for user placement.
type Factory struct {
	FactoryParams
	rng bacteria.Rand
}

// NewFactory creates a factory drawing offsets from rng.
func NewFactory(p FactoryParams, rng bacteria.Rand) *Factory {
	return &Factory{FactoryParams: p, rng: rng}
}

// CreateAt builds a single bacterium at pos.
func (f *Factory) CreateAt(s bacteria.Species, pos bacteria.Position) bacteria.Bacterium {
	return bacteria.New(s, pos)
}

// CreateBatch scatters count bacteria around center. Instance i (from 1)
// gets depth min(i*DepthStep, MaxDepth).
func (f *Factory) CreateBatch(s bacteria.Species, count int, center mgl32.Vec2) []bacteria.Bacterium {
	if count < 1 {
		return nil
	}
	out := make([]bacteria.Bacterium, 0, count)
	for i := 1; i <= count; i++ {
		pos := bacteria.Position{
			X:     center.X() + float32(f.rng.NormFloat64())*f.Spread,
			Y:     center.Y() + float32(f.rng.NormFloat64())*f.Spread,
			Depth: min(float32(i)*f.DepthStep, f.MaxDepth),
		}
		out = append(out, f.CreateAt(s, pos))
	}
	return out
}

// CreateAtScreenClick maps screen through toWorld and scatters count
// bacteria around the result. It returns false if the click maps to nothing.
func (f *Factory) CreateAtScreenClick(s bacteria.Species, count int, screen mgl32.Vec2, toWorld GroundMapper) ([]bacteria.Bacterium, bool) {
	center, ok := toWorld(screen)
	if !ok {
		return nil, false
	}
	return f.CreateBatch(s, count, center), true
}
