package render

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/riverlight"
	"go.uber.org/zap"
)

// debugLogEvery is how many ticks pass between timing log lines.
const debugLogEvery = 120

// debugStats holds per-tick timing. Only logged while debug mode is on.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	sparkles   int
}

// debugText formats the on-screen debug panel.
func debugText(fps, tps float64, snap riverlight.Snapshot, poll riverlight.PollStats, stats debugStats) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nframe: %d\nripples: %d\nsparkles: %d\npoll: %d cycles, %d failed, %d triggers\nstatus: %s",
		fps, tps, snap.Frame, len(snap.Ripples), stats.sparkles,
		poll.Cycles, poll.Failures, poll.Triggers, snap.Status)
}

// debugLog writes timing stats at debug level every debugLogEvery ticks.
func (s *Scene) debugLog() {
	if !s.debug || s.ticks%debugLogEvery != 0 {
		return
	}
	s.log.Debug("frame timing",
		zap.Duration("update", s.stats.updateTime),
		zap.Duration("draw", s.stats.drawTime),
		zap.Int("ripples", len(s.snap.Ripples)),
		zap.Int("sparkles", s.stats.sparkles),
	)
}

func (s *Scene) drawDebug(dst *ebiten.Image) {
	if !s.debug {
		return
	}
	msg := debugText(ebiten.ActualFPS(), ebiten.ActualTPS(), s.snap, s.session.PollStats(), s.stats)
	ebitenutil.DebugPrintAt(dst, msg, 8, dst.Bounds().Dy()-120)
}
