package geom

// DefaultZoomFactor is the peak multiplier of the zoom-in/zoom-out
// animation. Design parameter; the authored sources never expose it.
const DefaultZoomFactor = 1.1

// InterpolateOpacity returns the element opacity at slide-local time t
// (all values in milliseconds). Opacity ramps 0→1 over the fade-in
// window, holds at 1, and ramps 1→0 over the trailing fade-out window.
// Zero-length fades skip their ramp instead of dividing by zero; the
// result is always within [0, 1], even when fadeIn+fadeOut exceeds the
// duration.
func InterpolateOpacity(t, durationMs, fadeInMs, fadeOutMs float64) float64 {
	if durationMs <= 0 {
		return 1
	}
	t = Clamp(t, 0, durationMs)

	in := 1.0
	if fadeInMs > 0 {
		in = Clamp01(t / fadeInMs)
	}
	out := 1.0
	if fadeOutMs > 0 {
		out = Clamp01((durationMs - t) / fadeOutMs)
	}
	return Clamp01(in * out)
}

// InterpolateScale returns the element scale at slide-local time t.
// The scale eases from base toward base·zoomFactor over the zoom-in
// window and symmetrically back over the zoom-out window, using a cubic
// in-out curve. With both windows zero the scale stays at base.
func InterpolateScale(base, t, durationMs, zoomInMs, zoomOutMs, zoomFactor float64) float64 {
	if zoomFactor <= 0 {
		zoomFactor = DefaultZoomFactor
	}
	if durationMs <= 0 || (zoomInMs <= 0 && zoomOutMs <= 0) {
		return base
	}
	t = Clamp(t, 0, durationMs)

	up := 1.0
	if zoomInMs > 0 {
		up = EaseInOutCubic(Clamp01(t / zoomInMs))
	}
	down := 1.0
	if zoomOutMs > 0 {
		down = EaseInOutCubic(Clamp01((durationMs - t) / zoomOutMs))
	}
	k := up
	if down < k {
		k = down
	}
	return Lerp(base, base*zoomFactor, k)
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseInOutCubic applies a smooth in-out easing curve on [0, 1].
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
