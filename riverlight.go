package riverlight

import (
	"math"
	"math/rand/v2"
)

// Vec2 is a 2D point or offset in canvas coordinates. The origin is the
// top-left corner with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Finite reports whether both coordinates are real numbers.
func (v Vec2) Finite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Range is a general-purpose min/max range used for randomized ripple shape
// parameters.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max).
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// pcgStream derives the second PCG word from the seed.
const pcgStream = 0x9e3779b97f4a7c15

// NewRand returns a PCG-backed generator. A zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}
