package render

import (
	"context"
	"sync"

	"github.com/phanxgames/riverlight"
)

// Pointer is a detector that reports the mouse cursor as an index
// fingertip. The scene feeds it from the game loop; the session's poll loop
// reads it like any other detector. Its frame is the canvas, so use it with
// mirroring off.
type Pointer struct {
	mu     sync.Mutex
	frame  riverlight.Frame
	pos    riverlight.Vec2
	inside bool
}

// NewPointer returns a Pointer that is not ready until the first Move.
func NewPointer() *Pointer {
	return &Pointer{}
}

// Move records the cursor position on a canvas of the given size. A cursor
// outside the canvas counts as no hand in view.
func (p *Pointer) Move(x, y, width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame.Width, p.frame.Height = width, height
	p.frame.Seq++
	p.pos = riverlight.Vec2{X: x, Y: y}
	p.inside = x >= 0 && y >= 0 && x < width && y < height
}

// Ready reports whether the canvas size is known.
func (p *Pointer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame.Width > 0 && p.frame.Height > 0
}

// Frame returns the canvas as the detector frame.
func (p *Pointer) Frame() riverlight.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// EstimateHands returns one hand at the cursor, or none when the cursor is
// outside the canvas.
func (p *Pointer) EstimateHands(ctx context.Context, _ riverlight.Frame) ([]riverlight.Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inside {
		return nil, nil
	}
	return []riverlight.Hand{{
		Score:     1,
		Keypoints: []riverlight.Keypoint{{X: p.pos.X, Y: p.pos.Y, Name: "index_finger_tip"}},
	}}, nil
}
