package riverlight

import (
	"context"
	"time"
)

// Keypoint is one landmark reported by a hand detector, in the detector's
// frame coordinates. Name may be empty when the detector only reports
// landmarks by position.
type Keypoint struct {
	X, Y float64
	Name string
}

// Hand is one detected hand.
type Hand struct {
	Keypoints []Keypoint
	Score     float64
}

// Frame identifies the video frame an estimate is requested for.
type Frame struct {
	Width, Height float64
	Seq           uint64
}

// VideoSource reports the camera frame size and whether frames are flowing.
type VideoSource interface {
	Ready() bool
	Frame() Frame
}

// Detector estimates hand poses for a frame. Implementations may block;
// the poll loop keeps at most one call in flight. An empty result with a
// nil error means no hands are visible.
type Detector interface {
	Ready() bool
	EstimateHands(ctx context.Context, frame Frame) ([]Hand, error)
}

// FingertipSample is the tracked point for one poll cycle in canvas
// coordinates. At is session time.
type FingertipSample struct {
	X, Y float64
	At   time.Duration
}

// Pos returns the sample position.
func (s FingertipSample) Pos() Vec2 {
	return Vec2{s.X, s.Y}
}

// KeypointLookup selects the tracked landmark from a hand.
type KeypointLookup struct {
	// Name is matched first.
	Name string
	// FallbackIndex is used when no keypoint carries Name. It assumes the
	// detector's landmark ordering; for the 21-point hand model index 8 is
	// the index fingertip. Detectors with a different layout must report
	// names for the lookup to be meaningful.
	FallbackIndex int
}

// Find returns the tracked keypoint of h, if any.
func (l KeypointLookup) Find(h Hand) (Keypoint, bool) {
	if l.Name != "" {
		for _, k := range h.Keypoints {
			if k.Name == l.Name {
				return k, true
			}
		}
	}
	if l.FallbackIndex >= 0 && l.FallbackIndex < len(h.Keypoints) {
		return h.Keypoints[l.FallbackIndex], true
	}
	return Keypoint{}, false
}

// CanvasMapping converts detector frame coordinates to canvas coordinates.
type CanvasMapping struct {
	Source Frame
	Width  float64
	Height float64
	// Mirror flips horizontally so the canvas behaves like a mirror in front
	// of a user-facing camera.
	Mirror bool
}

// Map scales k into canvas space. It fails when either space is degenerate
// or the result is not a finite point.
func (m CanvasMapping) Map(k Keypoint) (Vec2, bool) {
	if m.Source.Width <= 0 || m.Source.Height <= 0 || m.Width <= 0 || m.Height <= 0 {
		return Vec2{}, false
	}
	x := k.X / m.Source.Width * m.Width
	y := k.Y / m.Source.Height * m.Height
	if m.Mirror {
		x = m.Width - x
	}
	p := Vec2{x, y}
	return p, p.Finite()
}
