package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/phanxgames/riverlight"
)

const sampleScript = `{
	"width": 640, "height": 480,
	"steps": [
		{"action": "move", "x": 320, "y": 240},
		{"action": "sweep", "fromX": 0, "fromY": 100, "toX": 100, "toY": 200, "polls": 3},
		{"action": "lost", "polls": 2},
		{"action": "fail"},
		{"action": "hold", "x": 10, "y": 20, "polls": 2},
		{"action": "wait", "polls": 2}
	]
}`

func TestLoadScriptExpandsSteps(t *testing.T) {
	s, err := LoadScript([]byte(sampleScript))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", s.Len())
	}
	if f := s.Frame(); f.Width != 640 || f.Height != 480 {
		t.Errorf("frame = %+v", f)
	}

	ctx := context.Background()
	type want struct {
		x, y  float64
		hands bool
		fail  bool
	}
	wants := []want{
		{320, 240, true, false},
		{0, 100, true, false},
		{50, 150, true, false},
		{100, 200, true, false},
		{hands: false},
		{hands: false},
		{fail: true},
		{10, 20, true, false},
		{10, 20, true, false},
		{10, 20, true, false},
		{10, 20, true, false},
	}
	for i, w := range wants {
		hands, err := s.EstimateHands(ctx, s.Frame())
		if w.fail {
			if !errors.Is(err, ErrScriptFailure) {
				t.Errorf("cycle %d: err = %v, want ErrScriptFailure", i, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if !w.hands {
			if len(hands) != 0 {
				t.Errorf("cycle %d: hands = %+v, want none", i, hands)
			}
			continue
		}
		tip, ok := riverlight.KeypointLookup{Name: "index_finger_tip"}.Find(hands[0])
		if !ok || tip.X != w.x || tip.Y != w.y {
			t.Errorf("cycle %d: tip = %+v (found %v), want (%v, %v)", i, tip, ok, w.x, w.y)
		}
	}
	if !s.Done() {
		t.Error("Done() = false after replaying every cycle")
	}
	if hands, err := s.EstimateHands(ctx, s.Frame()); err != nil || hands != nil {
		t.Errorf("after end: hands = %+v, err = %v", hands, err)
	}
}

func TestScriptLoops(t *testing.T) {
	s, err := LoadScript([]byte(`{"width":10,"height":10,"loop":true,"steps":[{"action":"move","x":1,"y":1},{"action":"lost"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		hands, err := s.EstimateHands(context.Background(), s.Frame())
		if err != nil {
			t.Fatal(err)
		}
		if got, want := len(hands), 1-i%2; got != want {
			t.Errorf("cycle %d: hands = %d, want %d", i, got, want)
		}
	}
	if s.Done() {
		t.Error("looping script reported Done")
	}
}

func TestScriptHonoursContext(t *testing.T) {
	s, err := LoadScript([]byte(`{"width":10,"height":10,"steps":[{"action":"move","x":1,"y":1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.EstimateHands(ctx, s.Frame()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if s.Done() {
		t.Error("cancelled call consumed a cycle")
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"steps":`},
		{"no steps", `{"width":10,"height":10,"steps":[]}`},
		{"no frame", `{"steps":[{"action":"move"}]}`},
		{"unknown action", `{"width":10,"height":10,"steps":[{"action":"jump"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
