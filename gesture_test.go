package riverlight

import (
	"math"
	"testing"
	"time"
)

func TestDebouncerCooldownAndMovement(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: 1800 * time.Millisecond, MoveThreshold: 40})

	steps := []struct {
		name     string
		pos      Vec2
		inRegion bool
		at       time.Duration
		want     bool
	}{
		{"enter at t=0", Vec2{100, 100}, true, 0, true},
		{"small move inside cooldown", Vec2{105, 100}, true, 500 * time.Millisecond, false},
		{"moved 50 after cooldown", Vec2{150, 100}, true, 2000 * time.Millisecond, true},
	}
	for _, st := range steps {
		fire, ok := d.Step(st.pos, st.inRegion, st.at)
		if !ok {
			t.Fatalf("%s: cycle skipped", st.name)
		}
		if fire != st.want {
			t.Errorf("%s: fire = %v, want %v", st.name, fire, st.want)
		}
	}
}

func TestDebouncerStationaryHandStaysQuiet(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: 100 * time.Millisecond, MoveThreshold: 40})
	if fire, _ := d.Step(Vec2{10, 10}, true, 0); !fire {
		t.Fatal("entry should fire")
	}
	for i := 1; i <= 50; i++ {
		if fire, _ := d.Step(Vec2{12, 11}, true, time.Duration(i)*time.Second); fire {
			t.Fatalf("stationary hand fired at step %d", i)
		}
	}
}

func TestDebouncerReentryFiresAfterCooldown(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: time.Second, MoveThreshold: 40})
	d.Step(Vec2{0, 0}, true, 0)
	d.Step(Vec2{0, 0}, false, 500*time.Millisecond)

	// Re-entering at the same spot within the cooldown stays quiet.
	if fire, _ := d.Step(Vec2{0, 0}, true, 900*time.Millisecond); fire {
		t.Error("re-entry inside cooldown fired")
	}
	d.Step(Vec2{0, 0}, false, 1100*time.Millisecond)
	// Entry counts even without movement once the cooldown has passed.
	if fire, _ := d.Step(Vec2{0, 0}, true, 1200*time.Millisecond); !fire {
		t.Error("re-entry after cooldown did not fire")
	}
}

func TestDebouncerCooldownIsStrict(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: time.Second, MoveThreshold: 0})
	d.Step(Vec2{0, 0}, true, 0)
	if fire, _ := d.Step(Vec2{100, 0}, true, time.Second); fire {
		t.Error("fired at exactly the cooldown")
	}
	if fire, _ := d.Step(Vec2{200, 0}, true, time.Second+time.Millisecond); !fire {
		t.Error("did not fire just past the cooldown")
	}
}

func TestDebouncerOutsideNeverFires(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: 0, MoveThreshold: 0})
	for i := 0; i < 10; i++ {
		if fire, _ := d.Step(Vec2{float64(i * 100), 0}, false, time.Duration(i)*time.Second); fire {
			t.Fatalf("fired outside region at step %d", i)
		}
	}
	if d.State() != Outside {
		t.Errorf("State = %v, want outside", d.State())
	}
}

func TestDebouncerStateTracksRegion(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: time.Hour, MoveThreshold: 40})
	d.Step(Vec2{0, 0}, true, 0)
	if d.State() != Inside {
		t.Errorf("State = %v, want inside", d.State())
	}
	// No trigger (cooldown), but the state still follows the region.
	d.Step(Vec2{0, 0}, false, time.Second)
	if d.State() != Outside {
		t.Errorf("State = %v, want outside", d.State())
	}
}

func TestDebouncerSkipsNonFinite(t *testing.T) {
	d := NewDebouncer(GestureConfig{Cooldown: 0, MoveThreshold: 40})
	d.Step(Vec2{10, 10}, true, time.Second)
	before := d.Snapshot()

	for _, p := range []Vec2{{math.NaN(), 1}, {1, math.Inf(-1)}} {
		fire, ok := d.Step(p, false, 5*time.Second)
		if ok || fire {
			t.Errorf("Step(%v) = (%v, %v), want skipped", p, fire, ok)
		}
	}
	if d.Snapshot() != before {
		t.Errorf("state changed on skipped cycle: %+v -> %+v", before, d.Snapshot())
	}
}

func TestFingertipPathScenario(t *testing.T) {
	boundary := RiverBoundary{}
	for y := 0.0; y <= 600; y += 8 {
		boundary.Samples = append(boundary.Samples, BoundarySample{Row: y, Left: 300, Right: 500})
	}
	d := NewDebouncer(GestureConfig{Cooldown: 0, MoveThreshold: 40})

	path := []struct {
		pos  Vec2
		want bool
	}{
		{Vec2{400, 300}, true},
		{Vec2{405, 302}, false},
		{Vec2{450, 350}, true},
	}
	for i, p := range path {
		at := time.Duration(i+1) * 100 * time.Millisecond
		fire, _ := d.Step(p.pos, boundary.Contains(p.pos.X, p.pos.Y), at)
		if fire != p.want {
			t.Errorf("point %d %v: fire = %v, want %v", i, p.pos, fire, p.want)
		}
	}
}
