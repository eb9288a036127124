package riverlight

import (
	"math"
	"sort"
)

// BoundarySample is one horizontal slice of the river: at canvas row Row the
// water spans the open interval (Left, Right).
type BoundarySample struct {
	Row   float64
	Left  float64
	Right float64
}

// defined reports whether both edges carry a usable value.
func (s BoundarySample) defined() bool {
	return isFinite(s.Left) && isFinite(s.Right)
}

// RiverBoundary is the river outline for a single frame, ordered by
// increasing Row and covering the canvas height at a fixed step. It is
// rebuilt from scratch every frame and never edited in place.
type RiverBoundary struct {
	Samples []BoundarySample
}

// Len returns the number of samples.
func (b RiverBoundary) Len() int {
	return len(b.Samples)
}

// Nearest returns the sample whose Row is closest to y. Ties resolve to the
// earlier sample. The boolean is false when the boundary is empty or y is
// not a real number.
//
// Nearest-row lookup stands in for interpolating between the two adjacent
// samples; at the default 8px step the difference is below a pixel of edge
// travel and is accepted.
func (b RiverBoundary) Nearest(y float64) (BoundarySample, bool) {
	n := len(b.Samples)
	if n == 0 || !isFinite(y) {
		return BoundarySample{}, false
	}
	i := sort.Search(n, func(i int) bool { return b.Samples[i].Row >= y })
	switch {
	case i == 0:
		return b.Samples[0], true
	case i == n:
		return b.Samples[n-1], true
	}
	prev, next := b.Samples[i-1], b.Samples[i]
	if math.Abs(next.Row-y) < math.Abs(prev.Row-y) {
		return next, true
	}
	return prev, true
}

// Contains reports whether (x, y) lies strictly inside the river at the
// nearest sampled row. Points exactly on an edge are outside, and an empty
// boundary contains nothing.
func (b RiverBoundary) Contains(x, y float64) bool {
	if !isFinite(x) {
		return false
	}
	s, ok := b.Nearest(y)
	if !ok || !s.defined() {
		return false
	}
	return s.Left < x && x < s.Right
}

// Clone returns a copy that shares no memory with b.
func (b RiverBoundary) Clone() RiverBoundary {
	if b.Samples == nil {
		return RiverBoundary{}
	}
	out := make([]BoundarySample, len(b.Samples))
	copy(out, b.Samples)
	return RiverBoundary{Samples: out}
}
