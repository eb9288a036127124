package render

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/riverlight"
)

func TestOverlayBannerFadesInOnStatusChange(t *testing.T) {
	o := newOverlay(nil)
	snap := riverlight.Snapshot{Status: riverlight.StatusLoading}
	for i := 0; i < 60; i++ {
		o.update(1.0/60, snap)
	}
	if o.bannerAlpha != 1 {
		t.Fatalf("banner alpha = %v after 1s, want 1", o.bannerAlpha)
	}

	snap.Status = riverlight.StatusDetected
	o.update(1.0/60, snap)
	if o.bannerAlpha >= 0.5 {
		t.Errorf("banner alpha = %v right after a change, want a fresh fade", o.bannerAlpha)
	}
	if o.status != riverlight.StatusDetected {
		t.Errorf("status = %v", o.status)
	}
	for i := 0; i < 60; i++ {
		o.update(1.0/60, snap)
	}
	if o.bannerAlpha != 1 {
		t.Errorf("banner alpha = %v, want 1", o.bannerAlpha)
	}
}

func TestOverlayMarkerFollowsFingertip(t *testing.T) {
	o := newOverlay(nil)
	snap := riverlight.Snapshot{
		HasFingertip: true,
		Fingertip:    riverlight.FingertipSample{X: 100, Y: 200, At: time.Second},
	}
	o.update(1.0/60, snap)
	if !o.placed || o.x != 100 || o.y != 200 {
		t.Fatalf("marker = (%v, %v) placed %v", o.x, o.y, o.placed)
	}

	snap.Fingertip = riverlight.FingertipSample{X: 200, Y: 200}
	o.update(1.0/60, snap)
	if o.x <= 100 || o.x >= 200 {
		t.Errorf("marker x = %v, want part way to 200", o.x)
	}
	for i := 0; i < 30; i++ {
		o.update(1.0/60, snap)
	}
	if math.Abs(o.x-200) > 1e-3 {
		t.Errorf("marker x = %v, want 200", o.x)
	}

	snap.HasFingertip = false
	o.update(1.0/60, snap)
	if o.placed {
		t.Error("marker still placed without a fingertip")
	}
}

func TestOverlayMarkerPulses(t *testing.T) {
	o := newOverlay(nil)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 120; i++ {
		o.update(1.0/60, riverlight.Snapshot{})
		r := o.markerRadius()
		lo, hi = math.Min(lo, r), math.Max(hi, r)
	}
	if lo > markerMinRadius+0.5 || hi < markerMaxRadius-0.5 {
		t.Errorf("radius range [%v, %v], want about [%v, %v]", lo, hi, markerMinRadius, markerMaxRadius)
	}
}

func TestDebugText(t *testing.T) {
	snap := riverlight.Snapshot{
		Frame:   42,
		Ripples: make([]riverlight.Ripple, 3),
		Status:  riverlight.StatusSearching,
	}
	poll := riverlight.PollStats{Cycles: 10, Failures: 1, Triggers: 2}
	got := debugText(60, 59.5, snap, poll, debugStats{sparkles: 17})
	for _, want := range []string{"FPS: 60.0", "TPS: 59.5", "frame: 42", "ripples: 3", "sparkles: 17", "10 cycles, 1 failed, 2 triggers", "status: searching"} {
		if !strings.Contains(got, want) {
			t.Errorf("debug text missing %q:\n%s", want, got)
		}
	}
}
