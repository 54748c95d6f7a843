// Package transform holds the live, mutable transform of the currently
// displayed background image. It is a projection of the active slide's
// image descriptor: derived on slide load, mutated by handle drags, and
// written back to the project on slide switch.
package transform

import (
	"math"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/geom"
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// BoundsMargin is the fraction of the stage the image center may travel
// past each edge before EnforceBounds pulls it back.
const BoundsMargin = 0.5

// MinScale is the lower bound applied to handle-drag scaling. There is
// no upper bound; that is the caller's concern.
const MinScale = 0.1

// State is the live transform of the active background image.
type State struct {
	Has    bool
	NatW   float64
	NatH   float64
	CX     float64
	CY     float64
	Scale  float64
	Angle  float64
	ShearX float64
	ShearY float64
	SignX  int
	SignY  int
	Flip   bool
}

// Neutral returns an empty state with identity parameters.
func Neutral() State {
	return State{Scale: 1, SignX: 1, SignY: 1}
}

// Reset clears the state to neutral with no image attached.
func (s *State) Reset() {
	*s = Neutral()
}

// SetFromDescriptor derives the pixel center and initial scale for an
// image descriptor on a stage of stageW x stageH. Without authored
// overrides the image exactly fits (contain) or fills (cover) the
// stage, centered. Descriptor percentages and scale, when present,
// override the derived values.
func (s *State) SetFromDescriptor(img *project.Image, stageW, stageH float64, mode geom.FitMode) {
	if img == nil {
		s.Reset()
		return
	}

	fit := geom.ComputeViewportScale(stageW, stageH, float64(img.NatW), float64(img.NatH), mode)

	st := Neutral()
	st.Has = true
	st.NatW = float64(img.NatW)
	st.NatH = float64(img.NatH)
	st.CX = stageW / 2
	st.CY = stageH / 2
	st.Scale = fit.Scale

	if img.CXPct != nil {
		st.CX = geom.PctToPx(*img.CXPct, stageW)
	} else if img.CX != nil {
		st.CX = *img.CX
	}
	if img.CYPct != nil {
		st.CY = geom.PctToPx(*img.CYPct, stageH)
	} else if img.CY != nil {
		st.CY = *img.CY
	}
	if img.Scale > 0 && img.Scale != 1 {
		st.Scale = fit.Scale * img.Scale
	}
	st.Angle = img.Angle
	st.ShearX = img.ShearX
	st.ShearY = img.ShearY
	st.SignX = img.EffectiveSignX()
	st.SignY = img.EffectiveSignY()
	st.Flip = img.Flip

	*s = st
}

// Descriptor projects the state back into percentage form for
// write-back into the project.
func (s *State) Descriptor(stageW, stageH float64, baseFit float64) project.ImageState {
	scale := s.Scale
	if baseFit > 0 {
		scale = s.Scale / baseFit
	}
	return project.ImageState{
		CXPct:  geom.PxToPct(s.CX, stageW),
		CYPct:  geom.PxToPct(s.CY, stageH),
		Scale:  scale,
		Angle:  s.Angle,
		ShearX: s.ShearX,
		ShearY: s.ShearY,
		SignX:  s.SignX,
		SignY:  s.SignY,
		Flip:   s.Flip,
	}
}

// Affine returns the composed transform of the current state.
func (s *State) Affine() geom.Affine {
	return geom.Compose(geom.TransformParams{
		CX:     s.CX,
		CY:     s.CY,
		Scale:  s.Scale,
		Angle:  s.Angle,
		ShearX: s.ShearX,
		ShearY: s.ShearY,
		SignX:  float64(s.SignX),
		SignY:  float64(s.SignY),
		Flip:   s.Flip,
	})
}

// EnforceBounds clamps the image center into the stage rectangle grown
// by BoundsMargin on every side, so some part of the image always
// intersects the stage.
func (s *State) EnforceBounds(stageW, stageH float64) {
	if !s.Has {
		return
	}
	exW := stageW * BoundsMargin
	exH := stageH * BoundsMargin
	s.CX = geom.Clamp(s.CX, -exW, stageW+exW)
	s.CY = geom.Clamp(s.CY, -exH, stageH+exH)
}

// normalized keeps angle within (-pi, pi] so repeated drags do not
// accumulate unbounded values.
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
