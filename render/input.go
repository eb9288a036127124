package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key bindings.
const (
	KeyToggleOverlay = ebiten.KeyF
	KeyToggleDebug   = ebiten.KeyD
)

// inputSource is the slice of Ebitengine input the scene reads each tick.
type inputSource interface {
	// JustPressed reports whether key went down this tick.
	JustPressed(key ebiten.Key) bool
	// Clicked reports whether the primary mouse button or a touch went
	// down this tick.
	Clicked() bool
	// Cursor returns the cursor position in canvas pixels.
	Cursor() (x, y int)
}

// ebitenInput reads the live keyboard, mouse and touch state.
type ebitenInput struct {
	touchBuf []ebiten.TouchID
}

func (in *ebitenInput) JustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

func (in *ebitenInput) Clicked() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	in.touchBuf = inpututil.AppendJustPressedTouchIDs(in.touchBuf[:0])
	return len(in.touchBuf) > 0
}

func (in *ebitenInput) Cursor() (int, int) {
	return ebiten.CursorPosition()
}

// inputActions is what one tick of input asks the scene to do.
type inputActions struct {
	toggleOverlay bool
	toggleDebug   bool
}

// readActions maps raw input to scene actions. The overlay has a single
// toggle reachable by key or click.
func readActions(in inputSource) inputActions {
	return inputActions{
		toggleOverlay: in.JustPressed(KeyToggleOverlay) || in.Clicked(),
		toggleDebug:   in.JustPressed(KeyToggleDebug),
	}
}
