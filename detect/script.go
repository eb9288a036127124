package detect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/phanxgames/riverlight"
)

// ErrScriptFailure is the error a "fail" step makes EstimateHands return.
var ErrScriptFailure = errors.New("detect: scripted estimation failure")

// scriptStep is a single action in a replay script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Polls  int     `json:"polls,omitempty"`
}

// scriptFile is the top-level JSON structure for a replay script.
type scriptFile struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Loop   bool         `json:"loop"`
	Steps  []scriptStep `json:"steps"`
}

// scriptCycle is what one EstimateHands call returns.
type scriptCycle struct {
	hands []riverlight.Hand
	err   error
}

// Script replays a recorded or hand-written fingertip path, one entry per
// poll cycle. It implements riverlight.Detector and riverlight.VideoSource.
//
// Supported actions, in frame coordinates:
//
//	{"action": "move", "x": 320, "y": 240}                 one poll at a point
//	{"action": "hold", "x": 320, "y": 240, "polls": 5}      several polls at a point
//	{"action": "sweep", "fromX": 0, "fromY": 0, "toX": 100, "toY": 0, "polls": 10}
//	{"action": "lost", "polls": 3}                          no hands in view
//	{"action": "fail"}                                      estimation error
//	{"action": "wait", "polls": 4}                          repeat the previous result
type Script struct {
	frame riverlight.Frame
	loop  bool

	mu     sync.Mutex
	cycles []scriptCycle
	cursor int
}

// LoadScript parses a JSON replay script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("parse script: frame size %vx%v must be positive", f.Width, f.Height)
	}

	s := &Script{frame: riverlight.Frame{Width: f.Width, Height: f.Height}, loop: f.Loop}
	for i, st := range f.Steps {
		if err := s.expand(st); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return s, nil
}

// expand turns one step into per-poll cycles.
func (s *Script) expand(st scriptStep) error {
	polls := max(st.Polls, 1)
	switch st.Action {
	case "move":
		s.cycles = append(s.cycles, scriptCycle{hands: fingertipHands(st.X, st.Y)})
	case "hold":
		for range polls {
			s.cycles = append(s.cycles, scriptCycle{hands: fingertipHands(st.X, st.Y)})
		}
	case "sweep":
		polls = max(polls, 2)
		for i := range polls {
			t := float64(i) / float64(polls-1)
			x := st.FromX + (st.ToX-st.FromX)*t
			y := st.FromY + (st.ToY-st.FromY)*t
			s.cycles = append(s.cycles, scriptCycle{hands: fingertipHands(x, y)})
		}
	case "lost":
		for range polls {
			s.cycles = append(s.cycles, scriptCycle{})
		}
	case "fail":
		s.cycles = append(s.cycles, scriptCycle{err: ErrScriptFailure})
	case "wait":
		var prev scriptCycle
		if n := len(s.cycles); n > 0 {
			prev = s.cycles[n-1]
		}
		for range polls {
			s.cycles = append(s.cycles, prev)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Ready always reports true.
func (s *Script) Ready() bool { return true }

// Frame returns the script's frame size.
func (s *Script) Frame() riverlight.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frame
	f.Seq = uint64(s.cursor)
	return f
}

// EstimateHands returns the next scripted cycle. Once the script is
// exhausted it reports no hands, or starts over when looping.
func (s *Script) EstimateHands(ctx context.Context, _ riverlight.Frame) ([]riverlight.Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.cycles) {
		if !s.loop {
			return nil, nil
		}
		s.cursor = 0
	}
	c := s.cycles[s.cursor]
	s.cursor++
	return c.hands, c.err
}

// Done reports whether every scripted cycle has been replayed. A looping
// script is never done.
func (s *Script) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loop && s.cursor >= len(s.cycles)
}

// Len returns the number of poll cycles one pass of the script covers.
func (s *Script) Len() int {
	return len(s.cycles)
}

// fingertipHands builds a single hand whose only keypoint is a named index
// fingertip.
func fingertipHands(x, y float64) []riverlight.Hand {
	return []riverlight.Hand{{
		Score:     1,
		Keypoints: []riverlight.Keypoint{{X: x, Y: y, Name: "index_finger_tip"}},
	}}
}
