package geom

import (
	"math"
	"testing"
)

func TestInterpolateOpacity_FadeProfile(t *testing.T) {
	// durationMs=1000, fadeInMs=200, fadeOutMs=200
	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{100, 0.5},
		{200, 1},
		{500, 1},
		{800, 1},
		{900, 0.5},
		{1000, 0},
	}
	for _, tt := range tests {
		got := InterpolateOpacity(tt.t, 1000, 200, 200)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("opacity at t=%v: got %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestInterpolateOpacity_ZeroFades(t *testing.T) {
	for _, ts := range []float64{0, 1, 500, 1000} {
		got := InterpolateOpacity(ts, 1000, 0, 0)
		if got != 1 {
			t.Errorf("zero fades at t=%v: got %v, want 1", ts, got)
		}
		if math.IsNaN(got) {
			t.Fatalf("zero fades must not produce NaN")
		}
	}
}

func TestInterpolateOpacity_OverlappingFades(t *testing.T) {
	// fadeIn+fadeOut > duration: opacity must stay finite and in [0,1].
	for ts := 0.0; ts <= 1000; ts += 50 {
		got := InterpolateOpacity(ts, 1000, 800, 800)
		if math.IsNaN(got) || got < 0 || got > 1 {
			t.Fatalf("opacity at t=%v out of range: %v", ts, got)
		}
	}
	// Peak is in the middle and below full opacity.
	mid := InterpolateOpacity(500, 1000, 800, 800)
	if mid >= 1 || mid <= 0 {
		t.Errorf("overlapping fades should cap below 1, got %v", mid)
	}
}

func TestInterpolateOpacity_BoundedForAllT(t *testing.T) {
	for ts := -500.0; ts <= 1500; ts += 25 {
		got := InterpolateOpacity(ts, 1000, 200, 300)
		if got < 0 || got > 1 {
			t.Fatalf("opacity at t=%v out of [0,1]: %v", ts, got)
		}
	}
}

func TestInterpolateScale_Windows(t *testing.T) {
	base := 1.0
	// No zoom configured: constant base.
	if got := InterpolateScale(base, 500, 1000, 0, 0, 0); got != base {
		t.Errorf("no zoom windows: got %v, want %v", got, base)
	}

	// Start of zoom-in is base, end of zoom-in is base*factor.
	if got := InterpolateScale(base, 0, 1000, 300, 0, 1.1); math.Abs(got-base) > 1e-9 {
		t.Errorf("zoom start: got %v, want %v", got, base)
	}
	if got := InterpolateScale(base, 300, 1000, 300, 0, 1.1); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("zoom peak: got %v, want 1.1", got)
	}
	if got := InterpolateScale(base, 1000, 1000, 300, 0, 1.1); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("zoom holds after window: got %v, want 1.1", got)
	}

	// Symmetric zoom-out returns to base at the end.
	if got := InterpolateScale(base, 1000, 1000, 300, 300, 1.1); math.Abs(got-base) > 1e-9 {
		t.Errorf("zoom out end: got %v, want %v", got, base)
	}
}

func TestInterpolateScale_Monotone(t *testing.T) {
	prev := -1.0
	for ts := 0.0; ts <= 300; ts += 10 {
		got := InterpolateScale(1, ts, 1000, 300, 0, 1.1)
		if got < prev-1e-12 {
			t.Fatalf("zoom-in must be non-decreasing, dipped at t=%v", ts)
		}
		prev = got
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if got := EaseInOutCubic(0); got != 0 {
		t.Errorf("ease(0) = %v", got)
	}
	if got := EaseInOutCubic(1); got != 1 {
		t.Errorf("ease(1) = %v", got)
	}
	if got := EaseInOutCubic(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("ease(0.5) = %v, want 0.5", got)
	}
}
