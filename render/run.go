package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig describes the window a Scene opens in.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// Run opens a resizable window and runs scene until the window closes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	return ebiten.RunGame(scene)
}
