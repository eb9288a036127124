package riverlight

import (
	"math"
	"testing"
)

func testRippleConfig() RippleConfig {
	return DefaultConfig().Ripple
}

func TestRippleDecayCurve(t *testing.T) {
	s := NewRippleStore(testRippleConfig(), testRand())
	r := s.Spawn(Vec2{100, 100}, "hello")

	for n := 1; n <= 200; n++ {
		s.AdvanceAndPrune()
		want := 255 - 2*n
		got, ok := s.Get(r.ID)
		if want <= 0 {
			if ok {
				t.Fatalf("frame %d: ripple still present with alpha %d", n, got.Alpha)
			}
			continue
		}
		if !ok {
			t.Fatalf("frame %d: ripple removed early (want alpha %d)", n, want)
		}
		if got.Alpha != want {
			t.Fatalf("frame %d: alpha = %d, want %d", n, got.Alpha, want)
		}
		wantRadius := 10 + 1.4*float64(n)
		if math.Abs(got.Radius-wantRadius) > 1e-9 {
			t.Fatalf("frame %d: radius = %f, want %f", n, got.Radius, wantRadius)
		}
	}
}

func TestRippleRemovedExactlyAtZero(t *testing.T) {
	cfg := testRippleConfig()
	cfg.AlphaStep = 5 // 255 divides evenly: gone after frame 51
	s := NewRippleStore(cfg, testRand())
	r := s.Spawn(Vec2{}, "p")

	for i := 0; i < 50; i++ {
		s.AdvanceAndPrune()
	}
	got, ok := s.Get(r.ID)
	if !ok || got.Alpha != 5 {
		t.Fatalf("after 50 frames: ok=%v alpha=%d, want alpha 5", ok, got.Alpha)
	}
	if removed := s.AdvanceAndPrune(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestRippleStoreIndependentRipples(t *testing.T) {
	s := NewRippleStore(testRippleConfig(), testRand())
	first := s.Spawn(Vec2{1, 1}, "a")
	for i := 0; i < 100; i++ {
		s.AdvanceAndPrune()
	}
	second := s.Spawn(Vec2{2, 2}, "b")
	for i := 0; i < 28; i++ {
		s.AdvanceAndPrune()
	}

	// first: 128 frames -> 255-256 < 0, gone. second: 28 frames -> 199.
	if _, ok := s.Get(first.ID); ok {
		t.Error("first ripple should have expired")
	}
	got, ok := s.Get(second.ID)
	if !ok {
		t.Fatal("second ripple missing")
	}
	if got.Alpha != 199 {
		t.Errorf("second alpha = %d, want 199", got.Alpha)
	}
}

func TestRippleSpawnParameters(t *testing.T) {
	cfg := testRippleConfig()
	s := NewRippleStore(cfg, testRand())
	for i := 0; i < 100; i++ {
		r := s.Spawn(Vec2{3, 4}, "x")
		if r.Radius != cfg.StartRadius || r.Alpha != MaxAlpha {
			t.Fatalf("spawned radius=%v alpha=%d", r.Radius, r.Alpha)
		}
		if r.WobbleOffset < 0 || r.WobbleOffset >= 2*math.Pi {
			t.Fatalf("wobble offset %v outside [0, 2π)", r.WobbleOffset)
		}
		v := r.Variation
		if v.Freq < 2 || v.Freq > 6 || v.Amp < 2 || v.Amp > 5 || v.Speed < 0.05 || v.Speed > 0.15 {
			t.Fatalf("variation out of range: %+v", v)
		}
	}
}

func TestRippleStoreAllOrdered(t *testing.T) {
	s := NewRippleStore(testRippleConfig(), testRand())
	for i := 0; i < 20; i++ {
		s.Spawn(Vec2{float64(i), 0}, "p")
	}
	all := s.All()
	if len(all) != 20 {
		t.Fatalf("All() returned %d ripples, want 20", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Fatalf("ripples not in creation order at %d", i)
		}
	}

	// Copies must not alias store state.
	all[0].Alpha = -1
	if got, _ := s.Get(all[0].ID); got.Alpha != MaxAlpha {
		t.Error("All() returned aliased ripple")
	}
}
