package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/riverlight"
	"github.com/tanema/gween/ease"
)

const (
	markerMinRadius = 8
	markerMaxRadius = 14
	markerPulse     = 0.6 // seconds per half pulse
	markerGlide     = 0.1 // seconds to follow a new fingertip
	bannerFade      = 0.4 // seconds to fade in a new status
	bannerMargin    = 16
)

var (
	markerColor = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	bannerColor = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
)

// overlay draws the fingertip marker and the detection status banner.
type overlay struct {
	font *Font

	pulse  *pulse
	x, y   float64
	target riverlight.Vec2
	placed bool
	glide  *tweenGroup

	status      riverlight.Status
	statusSeen  bool
	bannerAlpha float64
	fade        *tweenGroup
}

func newOverlay(font *Font) *overlay {
	return &overlay{
		font:  font,
		pulse: newPulse(markerMinRadius, markerMaxRadius, markerPulse),
	}
}

// update advances the overlay animations by dt seconds.
func (o *overlay) update(dt float32, snap riverlight.Snapshot) {
	if !o.statusSeen || snap.Status != o.status {
		o.status, o.statusSeen = snap.Status, true
		o.bannerAlpha = 0
		o.fade = tweenValue(&o.bannerAlpha, 1, bannerFade, ease.OutQuad)
	}
	if o.fade != nil {
		o.fade.Update(dt)
	}

	o.pulse.Update(dt)

	if !snap.HasFingertip {
		o.placed, o.glide = false, nil
		return
	}
	target := snap.Fingertip.Pos()
	switch {
	case !o.placed:
		o.x, o.y = target.X, target.Y
		o.placed = true
	case target != o.target:
		o.glide = tweenPair(&o.x, &o.y, target.X, target.Y, markerGlide, ease.OutQuad)
	}
	o.target = target
	if o.glide != nil {
		o.glide.Update(dt)
	}
}

// markerRadius returns the current pulsing marker radius.
func (o *overlay) markerRadius() float64 {
	return o.pulse.Value
}

func (o *overlay) draw(dst *ebiten.Image, snap riverlight.Snapshot) {
	if snap.ShowOverlay && o.placed {
		vector.StrokeCircle(dst, float32(o.x), float32(o.y), float32(o.markerRadius()), 2, markerColor, true)
		vector.DrawFilledCircle(dst, float32(o.x), float32(o.y), 3, markerColor, true)
	}
	if o.font != nil {
		o.font.drawAt(dst, o.status.Label(), bannerMargin, bannerMargin+o.font.LineHeight(), bannerColor, o.bannerAlpha, false)
	}
}
