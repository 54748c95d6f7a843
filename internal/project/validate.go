package project

import (
	"fmt"
	"regexp"
	"strings"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks structural and range invariants and returns a
// SchemaError naming the first offending path, or nil.
func Validate(p *Project) error {
	if p.SchemaVersion < 0 || p.SchemaVersion > CurrentSchemaVersion {
		return schemaErr("schemaVersion", "unsupported version %d", p.SchemaVersion)
	}
	if len(p.Slides) == 0 {
		return schemaErr("slides", "project must have at least one slide")
	}
	if p.ActiveIndex < 0 || p.ActiveIndex >= len(p.Slides) {
		return schemaErr("activeIndex", "index %d out of range [0, %d)", p.ActiveIndex, len(p.Slides))
	}
	if p.Stage.W < 0 || p.Stage.H < 0 {
		return schemaErr("stage", "negative stage size")
	}
	if p.Music != nil {
		if p.Music.Volume < 0 || p.Music.Volume > 1 {
			return schemaErr("music.volume", "volume %v outside [0, 1]", p.Music.Volume)
		}
	}
	for i := range p.Slides {
		if err := validateSlide(&p.Slides[i], fmt.Sprintf("slides[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateSlide(s *Slide, path string) error {
	if s.WorkSize.W < 0 || s.WorkSize.H < 0 {
		return schemaErr(path+".workSize", "negative work size")
	}
	if s.DurationMs < 0 {
		return schemaErr(path+".durationMs", "negative duration")
	}
	if s.Image != nil {
		if err := validateImage(s.Image, path+".image"); err != nil {
			return err
		}
	}
	for j := range s.Layers {
		if err := validateLayer(&s.Layers[j], fmt.Sprintf("%s.layers[%d]", path, j)); err != nil {
			return err
		}
	}
	return nil
}

func validateImage(im *Image, path string) error {
	if im.NatW < 0 || im.NatH < 0 {
		return schemaErr(path, "negative natural dimensions")
	}
	if im.Scale < 0 {
		return schemaErr(path+".scale", "negative scale")
	}
	if err := checkPct(im.CXPct, path+".cxPct"); err != nil {
		return err
	}
	if err := checkPct(im.CYPct, path+".cyPct"); err != nil {
		return err
	}
	if im.SignX < -1 || im.SignX > 1 {
		return schemaErr(path+".signX", "sign must be -1, 0 or +1")
	}
	if im.SignY < -1 || im.SignY > 1 {
		return schemaErr(path+".signY", "sign must be -1, 0 or +1")
	}
	if err := checkTimings(im.FadeInMs, im.FadeOutMs, im.ZoomInMs, im.ZoomOutMs, path); err != nil {
		return err
	}
	return nil
}

func validateLayer(l *Layer, path string) error {
	if err := checkPct(l.LeftPct, path+".leftPct"); err != nil {
		return err
	}
	if err := checkPct(l.TopPct, path+".topPct"); err != nil {
		return err
	}
	if err := checkPct(l.WidthPct, path+".widthPct"); err != nil {
		return err
	}
	if l.FontSize != nil && *l.FontSize < 0 {
		return schemaErr(path+".fontSize", "negative font size")
	}
	if l.FontSizePct != nil && (*l.FontSizePct < 0 || *l.FontSizePct > 1) {
		return schemaErr(path+".fontSizePct", "value outside [0, 1]")
	}
	if l.Color != "" && !colorRe.MatchString(l.Color) {
		return schemaErr(path+".color", "want #RRGGBB, got %q", l.Color)
	}
	switch l.FontStyle {
	case "", "normal", "italic":
	default:
		return schemaErr(path+".fontStyle", "unknown style %q", l.FontStyle)
	}
	switch l.TextDecoration {
	case "", "none", "underline":
	default:
		return schemaErr(path+".textDecoration", "unknown decoration %q", l.TextDecoration)
	}
	switch l.TextAlign {
	case "", "left", "center", "right":
	default:
		return schemaErr(path+".textAlign", "unknown alignment %q", l.TextAlign)
	}
	if err := checkTimings(l.FadeInMs, l.FadeOutMs, l.ZoomInMs, l.ZoomOutMs, path); err != nil {
		return err
	}
	return nil
}

func checkPct(p *float64, path string) error {
	if p == nil {
		return nil
	}
	if *p < 0 || *p > 1 {
		return schemaErr(path, "percentage %v outside [0, 1]", *p)
	}
	return nil
}

func checkTimings(fadeIn, fadeOut, zoomIn, zoomOut int, path string) error {
	for _, tc := range []struct {
		name string
		v    int
	}{
		{"fadeInMs", fadeIn},
		{"fadeOutMs", fadeOut},
		{"zoomInMs", zoomIn},
		{"zoomOutMs", zoomOut},
	} {
		if tc.v < 0 {
			return schemaErr(path+"."+tc.name, "negative timing")
		}
	}
	return nil
}

// IsDataURL reports whether src is an inline data URL. Data URLs are
// stripped on normalization so share payloads stay small.
func IsDataURL(src string) bool {
	return strings.HasPrefix(strings.ToLower(src), "data:")
}
