package riverlight

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// CycleSink receives the outcome of each poll cycle. Session implements it.
type CycleSink interface {
	// CanvasSize returns the current drawing surface size.
	CanvasSize() (width, height float64)
	// SetDetection records detector readiness and whether any hand is seen.
	SetDetection(ready, hands bool)
	// Observe feeds one fingertip sample and reports whether it spawned a
	// ripple.
	Observe(s FingertipSample) bool
	// LoseFingertip drops the latest sample when a hand is seen but no
	// usable fingertip can be taken from it.
	LoseFingertip()
}

// CycleResult describes what a single poll cycle did.
type CycleResult uint8

const (
	CycleIdle        CycleResult = iota // detector or video not ready
	CycleFailed                         // estimation returned an error
	CycleNoHands                        // no hand in view
	CycleNoFingertip                    // hand without a usable fingertip
	CycleTracked                        // fingertip fed to the debouncer
	CycleTriggered                      // fingertip spawned a ripple
)

var cycleResultNames = [...]string{"idle", "failed", "no-hands", "no-fingertip", "tracked", "triggered"}

// String returns a short name for the result.
func (r CycleResult) String() string {
	if int(r) < len(cycleResultNames) {
		return cycleResultNames[r]
	}
	return "unknown"
}

// PollConfig wires a PollLoop.
type PollConfig struct {
	Detector Detector
	Source   VideoSource
	Sink     CycleSink
	Keypoint KeypointLookup
	Mirror   bool
	Interval time.Duration
	Idle     time.Duration
	// Clock returns session time; it stamps every fingertip sample.
	Clock  func() time.Duration
	Logger *zap.Logger
}

// PollStats counts poll cycles by outcome.
type PollStats struct {
	Cycles    uint64
	Failures  uint64
	Triggers  uint64
	LastCycle CycleResult
}

// PollLoop queries the detector at a fixed cadence and feeds the tracked
// fingertip into a CycleSink. Each cycle waits for its estimate before the
// next begins, so at most one request is ever in flight and a slow model
// stretches the cadence rather than queueing requests.
type PollLoop struct {
	cfg PollConfig
	log *zap.Logger

	cycles   atomic.Uint64
	failures atomic.Uint64
	triggers atomic.Uint64
	last     atomic.Uint32
}

// NewPollLoop creates a poll loop. Zero intervals fall back to the
// DefaultConfig values.
func NewPollLoop(cfg PollConfig) *PollLoop {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.PollInterval
	}
	if cfg.Idle <= 0 {
		cfg.Idle = def.IdleInterval
	}
	if cfg.Clock == nil {
		start := time.Now()
		cfg.Clock = func() time.Duration { return time.Since(start) }
	}
	return &PollLoop{cfg: cfg, log: orNop(cfg.Logger).Named("poll")}
}

// Run polls until ctx is cancelled. It never stops on detector errors.
func (l *PollLoop) Run(ctx context.Context) error {
	l.log.Debug("poll loop started", zap.Duration("interval", l.cfg.Interval))
	defer l.log.Debug("poll loop stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		wait := l.cfg.Interval
		if l.Cycle(ctx) == CycleIdle {
			wait = l.cfg.Idle
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// Cycle runs one poll iteration.
func (l *PollLoop) Cycle(ctx context.Context) CycleResult {
	res := l.cycle(ctx)
	l.cycles.Add(1)
	l.last.Store(uint32(res))
	switch res {
	case CycleFailed:
		l.failures.Add(1)
	case CycleTriggered:
		l.triggers.Add(1)
	}
	return res
}

func (l *PollLoop) cycle(ctx context.Context) CycleResult {
	det, src, sink := l.cfg.Detector, l.cfg.Source, l.cfg.Sink
	if det == nil || src == nil || !det.Ready() || !src.Ready() {
		sink.SetDetection(false, false)
		return CycleIdle
	}

	frame := src.Frame()
	hands, err := det.EstimateHands(ctx, frame)
	if err != nil {
		if ctx.Err() == nil {
			l.log.Warn("hand estimation failed, skipping cycle", zap.Error(err))
		}
		return CycleFailed
	}
	sink.SetDetection(true, len(hands) > 0)
	if len(hands) == 0 {
		return CycleNoHands
	}

	tip, ok := l.cfg.Keypoint.Find(hands[0])
	if !ok {
		l.log.Debug("hand has no tracked keypoint", zap.Int("keypoints", len(hands[0].Keypoints)))
		sink.LoseFingertip()
		return CycleNoFingertip
	}
	w, h := sink.CanvasSize()
	m := CanvasMapping{Source: frame, Width: w, Height: h, Mirror: l.cfg.Mirror}
	pos, ok := m.Map(tip)
	if !ok {
		l.log.Debug("fingertip not mappable", zap.Float64("x", tip.X), zap.Float64("y", tip.Y),
			zap.Float64("frame_w", frame.Width), zap.Float64("frame_h", frame.Height))
		sink.LoseFingertip()
		return CycleNoFingertip
	}

	if sink.Observe(FingertipSample{X: pos.X, Y: pos.Y, At: l.cfg.Clock()}) {
		return CycleTriggered
	}
	return CycleTracked
}

// Stats returns cycle counters. Safe to call from any goroutine.
func (l *PollLoop) Stats() PollStats {
	return PollStats{
		Cycles:    l.cycles.Load(),
		Failures:  l.failures.Load(),
		Triggers:  l.triggers.Load(),
		LastCycle: CycleResult(l.last.Load()),
	}
}
