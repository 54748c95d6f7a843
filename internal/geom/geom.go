package geom

import "math"

// FitMode selects how a source rectangle is mapped onto a viewport.
type FitMode string

const (
	// FitContain preserves aspect ratio and shows the whole source.
	FitContain FitMode = "contain"
	// FitCover preserves aspect ratio and fills the viewport, cropping overflow.
	FitCover FitMode = "cover"
)

// ViewportScale holds the per-axis and chosen uniform scale for a fit.
type ViewportScale struct {
	ScaleX float64
	ScaleY float64
	Scale  float64
}

// ComputeViewportScale returns the scale factors that map a source of
// srcW x srcH onto a viewport of vw x vh. Contain picks the smaller axis
// scale, cover the larger. Non-positive source dimensions yield the
// identity scale rather than NaN.
func ComputeViewportScale(vw, vh, srcW, srcH float64, mode FitMode) ViewportScale {
	if srcW <= 0 || srcH <= 0 {
		return ViewportScale{ScaleX: 1, ScaleY: 1, Scale: 1}
	}
	sx := vw / srcW
	sy := vh / srcH
	s := math.Min(sx, sy)
	if mode == FitCover {
		s = math.Max(sx, sy)
	}
	return ViewportScale{ScaleX: sx, ScaleY: sy, Scale: s}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// PctToPx converts a percentage coordinate (0..1) into pixels along an extent.
func PctToPx(p, extent float64) float64 {
	return Clamp01(p) * extent
}

// PxToPct converts a pixel coordinate into a percentage of an extent.
// A non-positive extent maps everything to 0.
func PxToPct(x, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	return Clamp01(x / extent)
}
