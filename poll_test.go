package riverlight

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeDetector returns scripted results in order, repeating the last one.
type fakeDetector struct {
	mu      sync.Mutex
	ready   bool
	results []fakeResult
	calls   int
}

type fakeResult struct {
	hands []Hand
	err   error
}

func (d *fakeDetector) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

func (d *fakeDetector) EstimateHands(ctx context.Context, _ Frame) ([]Hand, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := min(d.calls, len(d.results)-1)
	d.calls++
	if i < 0 {
		return nil, nil
	}
	return d.results[i].hands, d.results[i].err
}

func (d *fakeDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeSource struct {
	ready bool
	frame Frame
}

func (s fakeSource) Ready() bool  { return s.ready }
func (s fakeSource) Frame() Frame { return s.frame }

// recordingSink stores everything a poll loop reports.
type recordingSink struct {
	mu       sync.Mutex
	w, h     float64
	ready    bool
	hands    bool
	samples  []FingertipSample
	fireNext bool
	lost     int
}

func (s *recordingSink) CanvasSize() (float64, float64) { return s.w, s.h }

func (s *recordingSink) SetDetection(ready, hands bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready, s.hands = ready, hands
}

func (s *recordingSink) Observe(sample FingertipSample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	return s.fireNext
}

func (s *recordingSink) LoseFingertip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lost++
}

func tipHand(x, y float64) Hand {
	return Hand{Keypoints: []Keypoint{{X: x, Y: y, Name: "index_finger_tip"}}}
}

func newTestLoop(det Detector, src VideoSource, sink CycleSink, log *zap.Logger) *PollLoop {
	return NewPollLoop(PollConfig{
		Detector: det,
		Source:   src,
		Sink:     sink,
		Keypoint: KeypointLookup{Name: "index_finger_tip", FallbackIndex: 8},
		Interval: 5 * time.Millisecond,
		Idle:     5 * time.Millisecond,
		Clock:    func() time.Duration { return 42 * time.Millisecond },
		Logger:   log,
	})
}

func TestPollCycleOutcomes(t *testing.T) {
	src := fakeSource{ready: true, frame: Frame{Width: 640, Height: 480}}

	tests := []struct {
		name   string
		det    *fakeDetector
		src    VideoSource
		fire   bool
		want   CycleResult
		ready  bool
		hands  bool
		sample bool
	}{
		{"detector not ready", &fakeDetector{}, src, false, CycleIdle, false, false, false},
		{"video not ready", &fakeDetector{ready: true}, fakeSource{}, false, CycleIdle, false, false, false},
		{"no hands", &fakeDetector{ready: true, results: []fakeResult{{}}}, src, false, CycleNoHands, true, false, false},
		{"hand without tip", &fakeDetector{ready: true, results: []fakeResult{{hands: []Hand{{Keypoints: []Keypoint{{Name: "wrist"}}}}}}}, src, false, CycleNoFingertip, true, true, false},
		{"tracked", &fakeDetector{ready: true, results: []fakeResult{{hands: []Hand{tipHand(320, 240)}}}}, src, false, CycleTracked, true, true, true},
		{"triggered", &fakeDetector{ready: true, results: []fakeResult{{hands: []Hand{tipHand(320, 240)}}}}, src, true, CycleTriggered, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{w: 1280, h: 960, fireNext: tt.fire}
			l := newTestLoop(tt.det, tt.src, sink, nil)
			if got := l.Cycle(context.Background()); got != tt.want {
				t.Fatalf("Cycle() = %v, want %v", got, tt.want)
			}
			if sink.ready != tt.ready || sink.hands != tt.hands {
				t.Errorf("detection = (%v, %v), want (%v, %v)", sink.ready, sink.hands, tt.ready, tt.hands)
			}
			if got := len(sink.samples) > 0; got != tt.sample {
				t.Errorf("sample observed = %v, want %v", got, tt.sample)
			}
			if lost := sink.lost == 1; lost != (tt.want == CycleNoFingertip) {
				t.Errorf("LoseFingertip calls = %d", sink.lost)
			}
		})
	}
}

func TestPollCycleMapsToCanvas(t *testing.T) {
	det := &fakeDetector{ready: true, results: []fakeResult{{hands: []Hand{tipHand(160, 120)}}}}
	sink := &recordingSink{w: 1280, h: 960}
	l := NewPollLoop(PollConfig{
		Detector: det,
		Source:   fakeSource{ready: true, frame: Frame{Width: 640, Height: 480}},
		Sink:     sink,
		Keypoint: KeypointLookup{Name: "index_finger_tip"},
		Mirror:   true,
		Clock:    func() time.Duration { return time.Second },
	})
	l.Cycle(context.Background())

	if len(sink.samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(sink.samples))
	}
	got := sink.samples[0]
	if got.X != 960 || got.Y != 240 || got.At != time.Second {
		t.Errorf("sample = %+v, want {960 240 1s}", got)
	}
}

func TestPollCycleFailureLeavesStateAlone(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	det := &fakeDetector{ready: true, results: []fakeResult{{err: errors.New("model crashed")}}}
	sink := &recordingSink{w: 800, h: 600, ready: true, hands: true}
	l := newTestLoop(det, fakeSource{ready: true, frame: Frame{Width: 640, Height: 480}}, sink, zap.New(core))

	if got := l.Cycle(context.Background()); got != CycleFailed {
		t.Fatalf("Cycle() = %v, want failed", got)
	}
	if len(sink.samples) != 0 {
		t.Error("failed cycle fed a sample")
	}
	if !sink.ready || !sink.hands {
		t.Error("failed cycle changed detection flags")
	}
	if n := logs.FilterMessage("hand estimation failed, skipping cycle").Len(); n != 1 {
		t.Errorf("failure logged %d times, want 1", n)
	}
	if st := l.Stats(); st.Failures != 1 || st.Cycles != 1 || st.LastCycle != CycleFailed {
		t.Errorf("stats = %+v", st)
	}
}

func TestPollLoopSurvivesErrorsAndStops(t *testing.T) {
	det := &fakeDetector{ready: true, results: []fakeResult{
		{err: errors.New("boom")},
		{err: errors.New("boom again")},
		{hands: []Hand{tipHand(10, 10)}},
	}}
	sink := &recordingSink{w: 640, h: 480}
	l := newTestLoop(det, fakeSource{ready: true, frame: Frame{Width: 640, Height: 480}}, sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for det.Calls() < 5 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("loop made only %d calls", det.Calls())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.samples) == 0 {
		t.Error("loop never fed a sample after recovering from errors")
	}
	if st := l.Stats(); st.Failures != 2 {
		t.Errorf("failures = %d, want 2", st.Failures)
	}
}

func TestCycleResultString(t *testing.T) {
	if CycleTriggered.String() != "triggered" {
		t.Errorf("CycleTriggered = %q", CycleTriggered.String())
	}
	if CycleResult(200).String() != "unknown" {
		t.Errorf("out of range = %q", CycleResult(200).String())
	}
}
