package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/riverlight"
)

const (
	// OutlineSegments is the number of points sampled around a ripple.
	OutlineSegments = 64
	// LabelGap is the distance between the top of a ripple and its phrase
	// baseline.
	LabelGap = 12

	outlineWidth = 1.2
)

var (
	outlineColor = color.NRGBA{R: 255, G: 255, B: 255, A: 90}
	labelColor   = color.White
)

// RippleOutline appends the wobbling ring of r at the given display frame to
// buf, in canvas coordinates. Each point is pushed out by
// sin(a*freq + frame*speed + offset)*amp, squashed vertically by 0.6, and
// the whole ring sways by sin(frame*0.03 + offset)*0.1 radians.
func RippleOutline(buf []riverlight.Vec2, r riverlight.Ripple, frame uint64) []riverlight.Vec2 {
	f := float64(frame)
	v := r.Variation
	rot := math.Sin(f*0.03+r.WobbleOffset) * 0.1
	sinR, cosR := math.Sincos(rot)

	for i := 0; i < OutlineSegments; i++ {
		a := 2 * math.Pi * float64(i) / OutlineSegments
		wobble := math.Sin(a*v.Freq+f*v.Speed+r.WobbleOffset) * v.Amp
		sinA, cosA := math.Sincos(a)
		lx := cosA * (r.Radius + wobble)
		ly := sinA * (r.Radius + wobble*0.6)
		buf = append(buf, riverlight.Vec2{
			X: r.Position.X + lx*cosR - ly*sinR,
			Y: r.Position.Y + lx*sinR + ly*cosR,
		})
	}
	return buf
}

// LabelPosition returns the baseline centre of a ripple's phrase.
func LabelPosition(r riverlight.Ripple) riverlight.Vec2 {
	return riverlight.Vec2{X: r.Position.X, Y: r.Position.Y - r.Radius - LabelGap}
}

// LabelOpacity maps a ripple's alpha to a text opacity in [0,1].
func LabelOpacity(r riverlight.Ripple) float64 {
	return math.Max(0, math.Min(1, float64(r.Alpha)/riverlight.MaxAlpha))
}

// drawRipple strokes the closed outline and draws the phrase above it.
func drawRipple(dst *ebiten.Image, pts []riverlight.Vec2, r riverlight.Ripple, font *Font) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), outlineWidth, outlineColor, true)
	}
	if font == nil || r.Alpha <= 0 || r.Phrase == "" {
		return
	}
	p := LabelPosition(r)
	font.drawAt(dst, r.Phrase, p.X, p.Y, labelColor, LabelOpacity(r), true)
}
