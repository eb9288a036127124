package riverlight

import (
	"math"
	"math/rand/v2"
	"slices"
)

// MaxAlpha is the opacity of a freshly spawned ripple.
const MaxAlpha = 255

// RippleID identifies a ripple for the lifetime of a session.
type RippleID uint64

// ShapeVariation perturbs a ripple outline so no two rings look alike.
type ShapeVariation struct {
	Freq  float64 // lobes around the ring
	Amp   float64 // lobe depth in pixels
	Speed float64 // lobe drift per frame
}

// Ripple is one expanding, fading ring with its phrase.
type Ripple struct {
	ID           RippleID
	Position     Vec2
	Radius       float64
	Alpha        int
	WobbleOffset float64
	Variation    ShapeVariation
	Phrase       string
}

// RippleConfig controls ripple growth and the random shape parameters.
type RippleConfig struct {
	StartRadius float64
	RadiusStep  float64 // radius gained per frame
	AlphaStep   int     // opacity lost per frame
	Freq        Range
	Amp         Range
	Speed       Range
}

// RippleStore holds active ripples keyed by ID. Each frame it grows and fades
// every ripple and drops the ones that have faded out. Ripples never
// interact, so iteration order does not matter. Admission is left to the
// caller; the store itself never refuses an insert.
//
// RippleStore is not safe for concurrent use; Session serializes access.
type RippleStore struct {
	cfg     RippleConfig
	rng     *rand.Rand
	ripples map[RippleID]*Ripple
	nextID  RippleID
}

// NewRippleStore creates an empty store. rng drives the shape variation of
// ripples created with Spawn; nil picks a random seed.
func NewRippleStore(cfg RippleConfig, rng *rand.Rand) *RippleStore {
	if rng == nil {
		rng = NewRand(0)
	}
	return &RippleStore{
		cfg:     cfg,
		rng:     rng,
		ripples: make(map[RippleID]*Ripple),
	}
}

// Spawn builds a fresh ripple at pos carrying phrase and inserts it.
func (s *RippleStore) Spawn(pos Vec2, phrase string) Ripple {
	r := Ripple{
		Position:     pos,
		Radius:       s.cfg.StartRadius,
		Alpha:        MaxAlpha,
		WobbleOffset: s.rng.Float64() * 2 * math.Pi,
		Variation: ShapeVariation{
			Freq:  s.cfg.Freq.Random(s.rng),
			Amp:   s.cfg.Amp.Random(s.rng),
			Speed: s.cfg.Speed.Random(s.rng),
		},
		Phrase: phrase,
	}
	r.ID = s.Insert(r)
	return r
}

// Insert adds r under a new ID and returns that ID. Any ID already set on r
// is replaced.
func (s *RippleStore) Insert(r Ripple) RippleID {
	s.nextID++
	r.ID = s.nextID
	s.ripples[r.ID] = &r
	return r.ID
}

// AdvanceAndPrune moves every ripple one frame forward and removes those
// whose alpha reached zero. It returns the number removed. Call it exactly
// once per rendered frame.
func (s *RippleStore) AdvanceAndPrune() int {
	removed := 0
	for id, r := range s.ripples {
		r.Radius += s.cfg.RadiusStep
		r.Alpha -= s.cfg.AlphaStep
		if r.Alpha <= 0 {
			delete(s.ripples, id)
			removed++
		}
	}
	return removed
}

// All returns copies of the active ripples ordered by creation.
func (s *RippleStore) All() []Ripple {
	out := make([]Ripple, 0, len(s.ripples))
	for _, r := range s.ripples {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b Ripple) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Get returns the ripple with the given ID.
func (s *RippleStore) Get(id RippleID) (Ripple, bool) {
	r, ok := s.ripples[id]
	if !ok {
		return Ripple{}, false
	}
	return *r, true
}

// Len returns the number of active ripples.
func (s *RippleStore) Len() int {
	return len(s.ripples)
}
