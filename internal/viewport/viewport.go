// Package viewport maps the canonical authoring stage onto the current
// viewport so a composition renders identically across devices.
package viewport

import (
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/geom"
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// Scale relates a canonical stage to a viewport.
type Scale struct {
	SX float64 // viewportW / stageW
	SY float64 // viewportH / stageH
	S  float64 // uniform factor per fit mode
}

// StageScale computes the per-axis and uniform factors that map a
// canonical stage (W0, H0) onto a viewport (W, H). The editor uses
// contain; the viewer uses cover.
func StageScale(w0, h0, w, h float64, mode geom.FitMode) Scale {
	vs := geom.ComputeViewportScale(w, h, w0, h0, mode)
	return Scale{SX: vs.ScaleX, SY: vs.ScaleY, S: vs.Scale}
}

// LayerFrame is the resolved placement of a text layer at a viewport.
type LayerFrame struct {
	Left     float64
	Top      float64
	Width    float64 // 0 when the layer has no wrap width
	FontSize float64
}

// PlaceLayer resolves a layer's authored position and font size against
// a viewport. Percentage coordinates scale with the viewport directly;
// legacy absolute coordinates scale by the axis factors of the slide's
// captured work size. Font size follows the uniform factor so text
// keeps its proportion to the stage.
func PlaceLayer(l *project.Layer, workSize project.Size, vw, vh float64, mode geom.FitMode) LayerFrame {
	sc := StageScale(workSize.W, workSize.H, vw, vh, mode)

	var f LayerFrame
	switch {
	case l.LeftPct != nil:
		f.Left = geom.PctToPx(*l.LeftPct, vw)
	case l.Left != nil:
		f.Left = *l.Left * sc.SX
	}
	switch {
	case l.TopPct != nil:
		f.Top = geom.PctToPx(*l.TopPct, vh)
	case l.Top != nil:
		f.Top = *l.Top * sc.SY
	}
	if l.WidthPct != nil {
		f.Width = geom.PctToPx(*l.WidthPct, vw)
	}
	switch {
	case l.FontSizePct != nil:
		f.FontSize = *l.FontSizePct * vh
	case l.FontSize != nil:
		f.FontSize = *l.FontSize * sc.S
	}
	return f
}

// LayerPct reads a rendered frame back into percentage coordinates, the
// inverse of PlaceLayer for the percentage form.
func LayerPct(f LayerFrame, vw, vh float64) (leftPct, topPct float64) {
	return geom.PxToPct(f.Left, vw), geom.PxToPct(f.Top, vh)
}
