package render

import (
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/riverlight"
	"go.uber.org/zap"
)

// PhraseSize is the point size of ripple phrases.
const PhraseSize = 14

// SceneOption customizes a Scene.
type SceneOption func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(log *zap.Logger) SceneOption {
	return func(s *Scene) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPointer makes the scene feed the cursor position into p every tick.
func WithPointer(p *Pointer) SceneOption {
	return func(s *Scene) { s.pointer = p }
}

// WithFont replaces the phrase font.
func WithFont(f *Font) SceneOption {
	return func(s *Scene) { s.font = f }
}

// WithSeed fixes the sparkle random stream.
func WithSeed(seed uint64) SceneOption {
	return func(s *Scene) { s.rng = riverlight.NewRand(seed) }
}

// WithDebug starts the scene with the debug panel shown.
func WithDebug(on bool) SceneOption {
	return func(s *Scene) { s.debug = on }
}

// Scene draws a riverlight session and feeds it keyboard and pointer input.
// It implements ebiten.Game: Update advances the session by one display
// frame, Draw paints the last snapshot and Layout follows the window size.
type Scene struct {
	session *riverlight.Session
	log     *zap.Logger
	input   inputSource
	pointer *Pointer
	font    *Font
	rng     *rand.Rand

	width, height int
	snap          riverlight.Snapshot

	river    riverMesh
	lines    []textureLine
	outline  []riverlight.Vec2
	sparkles *sparklePool
	overlay  *overlay

	debug bool
	ticks uint64
	stats debugStats
}

// NewScene creates a scene for session. It loads the default phrase font
// unless WithFont is given.
func NewScene(session *riverlight.Session, opts ...SceneOption) (*Scene, error) {
	s := &Scene{
		session: session,
		log:     zap.NewNop(),
		input:   &ebitenInput{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("render")
	if s.font == nil {
		f, err := DefaultFont(PhraseSize)
		if err != nil {
			return nil, err
		}
		s.font = f
	}
	if s.rng == nil {
		s.rng = riverlight.NewRand(0)
	}
	s.sparkles = newSparklePool(defaultSparkleConfig(), s.rng)
	s.overlay = newOverlay(s.font)
	return s, nil
}

// Update handles input and advances the session by one frame.
func (s *Scene) Update() error {
	start := time.Now()
	s.ticks++
	s.handleInput(readActions(s.input))

	if s.width == 0 || s.height == 0 {
		return nil
	}
	w, h := float64(s.width), float64(s.height)
	if s.pointer != nil {
		x, y := s.input.Cursor()
		s.pointer.Move(float64(x), float64(y), w, h)
	}

	s.session.Frame(w, h)
	s.snap = s.session.Snapshot()
	s.sparkles.update(s.snap.Boundary, h)
	s.overlay.update(float32(1.0/float64(ebiten.TPS())), s.snap)

	s.stats.updateTime = time.Since(start)
	s.stats.sparkles = s.sparkles.AliveCount()
	s.debugLog()
	return nil
}

func (s *Scene) handleInput(a inputActions) {
	if a.toggleOverlay {
		shown := s.session.ToggleOverlay()
		s.log.Debug("fingertip overlay toggled", zap.Bool("shown", shown))
	}
	if a.toggleDebug {
		s.debug = !s.debug
		s.log.Debug("debug panel toggled", zap.Bool("shown", s.debug))
	}
}

// Draw paints the sky, river, glints, ripples and overlays.
func (s *Scene) Draw(screen *ebiten.Image) {
	start := time.Now()
	w, h := float64(s.width), float64(s.height)

	drawSky(screen, w, h)
	s.river.build(s.snap.Boundary, riverColor)
	s.river.draw(screen)
	s.lines = textureLines(s.lines[:0], w, h, s.snap.Frame)
	drawTextureLines(screen, s.lines)
	s.sparkles.draw(screen)

	for _, r := range s.snap.Ripples {
		s.outline = RippleOutline(s.outline[:0], r, s.snap.Frame)
		drawRipple(screen, s.outline, r, s.font)
	}

	s.overlay.draw(screen, s.snap)
	s.stats.drawTime = time.Since(start)
	s.drawDebug(screen)
}

// Layout makes the canvas match the window.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.width, s.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Snapshot returns the state drawn by the last Draw.
func (s *Scene) Snapshot() riverlight.Snapshot {
	return s.snap
}
