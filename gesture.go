package riverlight

import "time"

// RegionState is the debouncer's view of where the fingertip was on the
// previous poll cycle.
type RegionState uint8

const (
	Outside RegionState = iota // fingertip was outside the river
	Inside                     // fingertip was inside the river
)

// String returns "outside" or "inside".
func (s RegionState) String() string {
	if s == Inside {
		return "inside"
	}
	return "outside"
}

// GestureConfig gates how often a fingertip in the river may spawn ripples.
type GestureConfig struct {
	// Cooldown is the minimum time between two triggers. A trigger needs
	// strictly more than Cooldown to have elapsed.
	Cooldown time.Duration
	// MoveThreshold is the distance the fingertip must travel from the last
	// trigger point before a sustained touch triggers again.
	MoveThreshold float64
}

// GestureState is the debouncer memory carried across poll cycles.
type GestureState struct {
	LastRipple  time.Duration // session time of the last trigger
	LastTrigger Vec2          // fingertip position at the last trigger
	Fired       bool          // whether LastRipple and LastTrigger are set
	WasInRegion bool
}

// Debouncer turns a stream of fingertip positions into ripple triggers.
// A trigger fires when the fingertip is in the river, has either just
// entered or moved far enough since the last trigger, and the cooldown has
// elapsed. A resting finger therefore stays quiet while a sweep across the
// water keeps producing ripples at the cooldown pace.
//
// Debouncer is not safe for concurrent use; Session serializes access.
type Debouncer struct {
	cfg   GestureConfig
	state GestureState
}

// NewDebouncer returns a debouncer in the Outside state with no prior
// trigger.
func NewDebouncer(cfg GestureConfig) *Debouncer {
	return &Debouncer{cfg: cfg}
}

// Step evaluates one poll cycle. now is the session time of the sample.
// It reports whether a ripple should be spawned at pos. When pos is not a
// finite point the cycle is skipped: ok is false and no state changes.
func (d *Debouncer) Step(pos Vec2, inRegion bool, now time.Duration) (fire, ok bool) {
	if !pos.Finite() {
		return false, false
	}

	entering := inRegion && !d.state.WasInRegion
	movedEnough := !d.state.Fired || pos.Dist(d.state.LastTrigger) >= d.cfg.MoveThreshold
	cooled := !d.state.Fired || now-d.state.LastRipple > d.cfg.Cooldown

	fire = inRegion && (entering || movedEnough) && cooled
	if fire {
		d.state.LastRipple = now
		d.state.LastTrigger = pos
		d.state.Fired = true
	}
	d.state.WasInRegion = inRegion
	return fire, true
}

// State returns Inside or Outside depending on the last evaluated cycle.
func (d *Debouncer) State() RegionState {
	if d.state.WasInRegion {
		return Inside
	}
	return Outside
}

// Snapshot returns a copy of the debouncer memory.
func (d *Debouncer) Snapshot() GestureState {
	return d.state
}
