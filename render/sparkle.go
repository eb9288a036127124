package render

import (
	"image/color"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/riverlight"
)

// sparkle holds per-glint state. Managed by sparklePool.
type sparkle struct {
	x, y       float64
	w, h       float64
	startAlpha float64
	alpha      float64 // 0-255
	life       float64 // remaining lifetime in frames
	maxLife    float64
}

// sparkleConfig controls how glints are spawned on the water.
type sparkleConfig struct {
	// Max is the pool size. New glints are dropped when full.
	Max int
	// PerFrame is how many spawn attempts are made each frame. Attempts on
	// rows outside the river are discarded.
	PerFrame int
	// Lifetime is the range of glint lifetimes in frames.
	Lifetime riverlight.Range
	Width    riverlight.Range
	Height   riverlight.Range
	// Alpha is the range of starting alpha values, faded to zero over the
	// lifetime.
	Alpha riverlight.Range
}

func defaultSparkleConfig() sparkleConfig {
	return sparkleConfig{
		Max:      256,
		PerFrame: 30,
		Lifetime: riverlight.Range{Min: 2, Max: 6},
		Width:    riverlight.Range{Min: 3, Max: 7},
		Height:   riverlight.Range{Min: 1.5, Max: 3},
		Alpha:    riverlight.Range{Min: 20, Max: 60},
	}
}

// sparklePool manages a fixed pool of glints with CPU simulation.
type sparklePool struct {
	cfg   sparkleConfig
	items []sparkle
	alive int
	rng   *rand.Rand
}

func newSparklePool(cfg sparkleConfig, rng *rand.Rand) *sparklePool {
	max := cfg.Max
	if max <= 0 {
		max = 128
	}
	return &sparklePool{cfg: cfg, items: make([]sparkle, max), rng: rng}
}

// AliveCount returns the number of live glints.
func (p *sparklePool) AliveCount() int {
	return p.alive
}

// update ages every glint by one frame, swap-removes dead ones and spawns
// new ones inside the river.
func (p *sparklePool) update(b riverlight.RiverBoundary, height float64) {
	i := 0
	for i < p.alive {
		s := &p.items[i]
		s.life--
		if s.life <= 0 {
			p.alive--
			p.items[i] = p.items[p.alive]
			continue
		}
		s.alpha = s.startAlpha * s.life / s.maxLife
		i++
	}

	if height <= 0 {
		return
	}
	for n := 0; n < p.cfg.PerFrame && p.alive < len(p.items); n++ {
		p.spawn(b, height)
	}
}

// spawn places a glint on a random row if that row has water.
func (p *sparklePool) spawn(b riverlight.RiverBoundary, height float64) {
	y := p.rng.Float64() * height
	row, ok := b.Nearest(y)
	if !ok || !(row.Right > row.Left) {
		return
	}
	s := &p.items[p.alive]
	s.x = row.Left + p.rng.Float64()*(row.Right-row.Left)
	s.y = y
	s.w = p.cfg.Width.Random(p.rng)
	s.h = p.cfg.Height.Random(p.rng)
	s.life = p.cfg.Lifetime.Random(p.rng)
	if s.life < 1 {
		s.life = 1
	}
	s.maxLife = s.life
	s.startAlpha = p.cfg.Alpha.Random(p.rng)
	s.alpha = s.startAlpha
	p.alive++
}

func (p *sparklePool) draw(dst *ebiten.Image) {
	for i := 0; i < p.alive; i++ {
		s := &p.items[i]
		c := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(s.alpha)}
		vector.DrawFilledRect(dst, float32(s.x-s.w/2), float32(s.y-s.h/2), float32(s.w), float32(s.h), c, true)
	}
}
