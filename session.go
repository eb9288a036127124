package riverlight

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSessionRunning is returned by Start when the poll loop is already up.
var ErrSessionRunning = errors.New("riverlight: session already started")

// Status summarizes detection for the on-screen indicator.
type Status uint8

const (
	StatusLoading   Status = iota // detector or camera not ready yet
	StatusSearching               // ready, no hand in view
	StatusDetected                // a hand is in view
)

// String returns "loading", "searching" or "detected".
func (s Status) String() string {
	switch s {
	case StatusSearching:
		return "searching"
	case StatusDetected:
		return "detected"
	}
	return "loading"
}

// Label returns the text shown to visitors.
func (s Status) Label() string {
	switch s {
	case StatusSearching:
		return "searching for a hand…"
	case StatusDetected:
		return "hand detected"
	}
	return "loading…"
}

// Snapshot is a copy of everything the drawing layer needs for one frame.
type Snapshot struct {
	Frame         uint64
	Width, Height float64
	Boundary      RiverBoundary
	Ripples       []Ripple
	Fingertip     FingertipSample
	HasFingertip  bool
	ShowOverlay   bool
	Status        Status
}

// Task is an extra background job run alongside the poll loop, such as a
// detector connection keeper. It must return when ctx is cancelled.
type Task func(ctx context.Context) error

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(log *zap.Logger) SessionOption {
	return func(s *Session) { s.log = orNop(log) }
}

// WithClock replaces the wall clock used to stamp fingertip samples.
func WithClock(clock func() time.Duration) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// Session owns all mutable installation state: the river boundary, active
// ripples, gesture memory and the latest fingertip. The render task calls
// Frame and Snapshot once per display frame; the poll loop, started with
// Start, feeds fingertips through Observe. A single mutex serializes both.
type Session struct {
	cfg   Config
	log   *zap.Logger
	clock func() time.Duration

	mu           sync.Mutex
	width        float64
	height       float64
	frame        uint64
	shape        *RiverShape
	boundary     RiverBoundary
	ripples      *RippleStore
	gesture      *Debouncer
	phrases      *PhraseSelector
	fingertip    FingertipSample
	hasFingertip bool
	overlay      bool
	ready        bool
	hands        bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
	poll   *PollLoop
}

// NewSession validates cfg and builds an idle session.
func NewSession(cfg Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		log:     zap.NewNop(),
		shape:   NewRiverShape(cfg.River),
		gesture: NewDebouncer(cfg.Gesture),
		overlay: cfg.ShowOverlay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		start := time.Now()
		s.clock = func() time.Duration { return time.Since(start) }
	}

	phraseSeed, rippleSeed := cfg.Seed, cfg.Seed
	if cfg.Seed != 0 {
		rippleSeed = cfg.Seed + 1
	}
	phrases, err := NewPhraseSelector(cfg.Phrases, NewRand(phraseSeed))
	if err != nil {
		return nil, err
	}
	s.phrases = phrases
	s.ripples = NewRippleStore(cfg.Ripple, NewRand(rippleSeed))

	if cfg.Gesture.Cooldown == 0 {
		s.log.Warn("gesture cooldown is zero; ripple count is bounded only by movement")
	}
	return s, nil
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Frame advances the session by one display frame: it rebuilds the river
// boundary for the given canvas size and ages every ripple.
func (s *Session) Frame(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width, s.height = width, height
	s.boundary = s.shape.Build(width, height, s.frame)
	if n := s.ripples.AdvanceAndPrune(); n > 0 {
		s.log.Debug("ripples faded", zap.Int("removed", n), zap.Int("active", s.ripples.Len()))
	}
	s.frame++
}

// Snapshot copies the state needed to draw the current frame.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Frame:        s.frame,
		Width:        s.width,
		Height:       s.height,
		Boundary:     s.boundary.Clone(),
		Ripples:      s.ripples.All(),
		Fingertip:    s.fingertip,
		HasFingertip: s.hasFingertip,
		ShowOverlay:  s.overlay,
		Status:       s.statusLocked(),
	}
}

// CanvasSize returns the size passed to the most recent Frame.
func (s *Session) CanvasSize() (width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetDetection records detector readiness and hand presence.
func (s *Session) SetDetection(ready, hands bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.statusLocked()
	s.ready, s.hands = ready, ready && hands
	if !s.hands {
		s.hasFingertip = false
	}
	if cur := s.statusLocked(); cur != prev {
		s.log.Info("detection status changed", zap.Stringer("from", prev), zap.Stringer("to", cur))
	}
}

// LoseFingertip clears the overlay fingertip without touching the debouncer.
func (s *Session) LoseFingertip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasFingertip = false
}

// Observe runs one fingertip sample through the region test and debouncer,
// spawning a ripple when it triggers. Samples that are not finite points
// are ignored.
func (s *Session) Observe(sample FingertipSample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := sample.Pos()
	inRegion := s.boundary.Contains(pos.X, pos.Y)
	fire, ok := s.gesture.Step(pos, inRegion, sample.At)
	if !ok {
		return false
	}
	s.fingertip, s.hasFingertip = sample, true
	if !fire {
		return false
	}

	r := s.ripples.Spawn(pos, s.phrases.Next())
	s.log.Debug("ripple spawned",
		zap.Uint64("id", uint64(r.ID)),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.String("phrase", r.Phrase),
		zap.Int("active", s.ripples.Len()))
	return true
}

// ToggleOverlay flips fingertip marker visibility and returns the new state.
func (s *Session) ToggleOverlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = !s.overlay
	return s.overlay
}

// Status returns the current detection status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	switch {
	case !s.ready:
		return StatusLoading
	case !s.hands:
		return StatusSearching
	}
	return StatusDetected
}

// Gesture returns a copy of the debouncer memory.
func (s *Session) Gesture() GestureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture.Snapshot()
}

// RippleCount returns the number of active ripples.
func (s *Session) RippleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ripples.Len()
}

// Elapsed returns session time.
func (s *Session) Elapsed() time.Duration {
	return s.clock()
}

// Start launches the poll loop against det and src plus any extra tasks.
// Everything runs until Stop is called or ctx is cancelled. A task that
// fails is logged and its error is returned by Stop; it does not stop the
// poll loop or the other tasks.
func (s *Session) Start(ctx context.Context, det Detector, src VideoSource, tasks ...Task) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return ErrSessionRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	g := new(errgroup.Group)
	s.poll = NewPollLoop(PollConfig{
		Detector: det,
		Source:   src,
		Sink:     s,
		Keypoint: s.cfg.Keypoint,
		Mirror:   s.cfg.Mirror,
		Interval: s.cfg.PollInterval,
		Idle:     s.cfg.IdleInterval,
		Clock:    s.clock,
		Logger:   s.log,
	})
	g.Go(func() error { return s.poll.Run(ctx) })
	for i, task := range tasks {
		g.Go(func() error {
			err := task(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("session task failed", zap.Int("task", i), zap.Error(err))
			}
			return err
		})
	}

	s.cancel, s.group = cancel, g
	s.log.Info("session started", zap.Duration("poll_interval", s.cfg.PollInterval))
	return nil
}

// Stop cancels the background tasks and waits for them to return. It is a
// no-op on a session that is not running.
func (s *Session) Stop() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	err := s.group.Wait()
	s.cancel, s.group = nil, nil
	s.log.Info("session stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// PollStats returns poll loop counters, or zero stats before Start.
func (s *Session) PollStats() PollStats {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.poll == nil {
		return PollStats{}
	}
	return s.poll.Stats()
}
