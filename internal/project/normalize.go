package project

import "math"

// Normalize makes an accepted project canonical in place:
//   - data URLs are stripped from image sources (share-safety; the thumb
//     keeps the inline preview)
//   - percentages round to 2 decimals, scale to 3
//   - timings clamp to non-negative, durations to [MinDurationMs, MaxDurationMs]
//   - signs settle on -1/+1
//   - the percentage coordinate form wins when both forms are present
func Normalize(p *Project) {
	if p.SchemaVersion == 0 {
		p.SchemaVersion = CurrentSchemaVersion
	}
	if len(p.Slides) > 0 {
		p.ActiveIndex = clampInt(p.ActiveIndex, 0, len(p.Slides)-1)
	} else {
		p.ActiveIndex = 0
	}
	if p.Music != nil {
		p.Music.Volume = math.Min(math.Max(p.Music.Volume, 0), 1)
	}
	for i := range p.Slides {
		normalizeSlide(&p.Slides[i])
	}
}

func normalizeSlide(s *Slide) {
	if s.DurationMs == 0 {
		s.DurationMs = DefaultDurationMs
	}
	s.DurationMs = clampInt(s.DurationMs, MinDurationMs, MaxDurationMs)
	if s.Image != nil {
		normalizeImage(s.Image)
	}
	for j := range s.Layers {
		normalizeLayer(&s.Layers[j])
	}
}

func normalizeImage(im *Image) {
	if IsDataURL(im.Src) {
		im.Src = ""
	}
	if im.Scale <= 0 {
		im.Scale = 1
	}
	im.Scale = round3(im.Scale)
	roundPct(im.CXPct)
	roundPct(im.CYPct)
	if im.CXPct != nil && im.CYPct != nil {
		// Percentage form is authoritative; drop the legacy one.
		im.CX = nil
		im.CY = nil
	}
	im.SignX = normSign(im.SignX)
	im.SignY = normSign(im.SignY)
	im.FadeInMs = maxInt(im.FadeInMs, 0)
	im.FadeOutMs = maxInt(im.FadeOutMs, 0)
	im.ZoomInMs = maxInt(im.ZoomInMs, 0)
	im.ZoomOutMs = maxInt(im.ZoomOutMs, 0)
}

func normalizeLayer(l *Layer) {
	roundPct(l.LeftPct)
	roundPct(l.TopPct)
	roundPct(l.WidthPct)
	roundPct(l.FontSizePct)
	if l.LeftPct != nil && l.TopPct != nil {
		l.Left = nil
		l.Top = nil
	}
	l.FadeInMs = maxInt(l.FadeInMs, 0)
	l.FadeOutMs = maxInt(l.FadeOutMs, 0)
	l.ZoomInMs = maxInt(l.ZoomInMs, 0)
	l.ZoomOutMs = maxInt(l.ZoomOutMs, 0)
}

func roundPct(p *float64) {
	if p == nil {
		return
	}
	v := math.Min(math.Max(*p, 0), 1)
	*p = math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func normSign(s int) int {
	if s < 0 {
		return -1
	}
	return 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
