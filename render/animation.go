package render

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenGroup animates up to 4 float64 fields simultaneously. Call Update(dt)
// each frame; values are written straight to the bound fields.
type tweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// bound fields.
func (g *tweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// tweenValue animates a single field from its current value to to.
func tweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *tweenGroup {
	g := &tweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// tweenPair animates two fields at once, such as a position.
func tweenPair(a, b *float64, toA, toB float64, duration float32, fn ease.TweenFunc) *tweenGroup {
	g := &tweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(*a), float32(toA), duration, fn)
	g.tweens[1] = gween.New(float32(*b), float32(toB), duration, fn)
	g.fields[0] = a
	g.fields[1] = b
	return g
}

// pulse oscillates a value between lo and hi forever, one half period per
// tween.
type pulse struct {
	Value  float64
	lo, hi float64
	half   float32
	rising bool
	tween  *tweenGroup
}

func newPulse(lo, hi float64, halfPeriod float32) *pulse {
	p := &pulse{Value: lo, lo: lo, hi: hi, half: halfPeriod, rising: true}
	p.tween = tweenValue(&p.Value, hi, halfPeriod, ease.InOutSine)
	return p
}

// Update advances the pulse by dt seconds.
func (p *pulse) Update(dt float32) {
	p.tween.Update(dt)
	if !p.tween.Done {
		return
	}
	p.rising = !p.rising
	to := p.lo
	if p.rising {
		to = p.hi
	}
	p.tween = tweenValue(&p.Value, to, p.half, ease.InOutSine)
}
