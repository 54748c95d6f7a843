package project

// CurrentSchemaVersion tags projects produced by this build. Decoders
// reject anything newer.
const CurrentSchemaVersion = 1

const (
	// MinDurationMs and MaxDurationMs bound a slide's display time.
	MinDurationMs = 500
	MaxDurationMs = 60000
	// DefaultDurationMs is applied to slides created without a duration.
	DefaultDurationMs = 3000
)

// Size is a logical pixel extent.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Music references a single looping audio track for the composition.
type Music struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Volume float64 `json:"volume"` // 0..1
	Loop   bool    `json:"loop"`
}

// Project is the canonical composition: an ordered sequence of slides,
// an active-slide cursor and the authoring stage size.
type Project struct {
	SchemaVersion int     `json:"schemaVersion"`
	ActiveIndex   int     `json:"activeIndex"`
	Stage         Size    `json:"stage"`
	Autoplay      bool    `json:"autoplay,omitempty"`
	Music         *Music  `json:"music,omitempty"`
	Slides        []Slide `json:"slides"`
}

// Slide is one screen of the composition.
type Slide struct {
	// WorkSize is the stage size captured when the slide was authored,
	// so later viewports can scale faithfully.
	WorkSize   Size    `json:"workSize"`
	DurationMs int     `json:"durationMs"`
	Image      *Image  `json:"image,omitempty"`
	Layers     []Layer `json:"layers"`
}

// Image is a slide's background image descriptor. Exactly one coordinate
// form is authoritative: percentage (preferred) or absolute pixels
// (legacy). SignX/SignY of 0 read as +1; Flip composes multiplicatively
// with SignX.
type Image struct {
	Src   string `json:"src,omitempty"`
	Thumb string `json:"thumb,omitempty"` // small data URL for editor preview
	NatW  int    `json:"natW,omitempty"`
	NatH  int    `json:"natH,omitempty"`

	CXPct *float64 `json:"cxPct,omitempty"`
	CYPct *float64 `json:"cyPct,omitempty"`
	CX    *float64 `json:"cx,omitempty"`
	CY    *float64 `json:"cy,omitempty"`

	Scale  float64 `json:"scale,omitempty"`
	Angle  float64 `json:"angle,omitempty"` // radians
	ShearX float64 `json:"shearX,omitempty"`
	ShearY float64 `json:"shearY,omitempty"`
	SignX  int     `json:"signX,omitempty"`
	SignY  int     `json:"signY,omitempty"`
	Flip   bool    `json:"flip,omitempty"`

	FadeInMs  int `json:"fadeInMs,omitempty"`
	FadeOutMs int `json:"fadeOutMs,omitempty"`
	ZoomInMs  int `json:"zoomInMs,omitempty"`
	ZoomOutMs int `json:"zoomOutMs,omitempty"`
}

// Layer is a positioned text element rendered over the slide background.
type Layer struct {
	Text string `json:"text"`

	LeftPct  *float64 `json:"leftPct,omitempty"`
	TopPct   *float64 `json:"topPct,omitempty"`
	Left     *float64 `json:"left,omitempty"`
	Top      *float64 `json:"top,omitempty"`
	WidthPct *float64 `json:"widthPct,omitempty"`

	FontSizePct    *float64 `json:"fontSizePct,omitempty"` // fraction of stage height
	FontSize       *float64 `json:"fontSize,omitempty"`
	FontFamily     string   `json:"fontFamily,omitempty"`
	FontWeight     string   `json:"fontWeight,omitempty"` // numeric or "normal"|"bold"
	FontStyle      string   `json:"fontStyle,omitempty"`  // "normal"|"italic"
	TextDecoration string   `json:"textDecoration,omitempty"`
	Color          string   `json:"color,omitempty"` // #RRGGBB
	TextAlign      string   `json:"textAlign,omitempty"`
	Transform      string   `json:"transform,omitempty"`

	FadeInMs  int `json:"fadeInMs,omitempty"`
	FadeOutMs int `json:"fadeOutMs,omitempty"`
	ZoomInMs  int `json:"zoomInMs,omitempty"`
	ZoomOutMs int `json:"zoomOutMs,omitempty"`
}

// ImageState is the persisted projection of the live transform of the
// active slide's image.
type ImageState struct {
	CXPct  float64
	CYPct  float64
	Scale  float64
	Angle  float64
	ShearX float64
	ShearY float64
	SignX  int
	SignY  int
	Flip   bool
}

// EffectiveSignX returns the stored x sign with 0 treated as +1.
func (im *Image) EffectiveSignX() int {
	if im.SignX < 0 {
		return -1
	}
	return 1
}

// EffectiveSignY returns the stored y sign with 0 treated as +1.
func (im *Image) EffectiveSignY() int {
	if im.SignY < 0 {
		return -1
	}
	return 1
}

// Clone returns a structurally independent deep copy.
func (p Project) Clone() Project {
	out := p
	if p.Music != nil {
		m := *p.Music
		out.Music = &m
	}
	out.Slides = make([]Slide, len(p.Slides))
	for i, s := range p.Slides {
		out.Slides[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	if s.Image != nil {
		img := s.Image.Clone()
		out.Image = &img
	}
	out.Layers = make([]Layer, len(s.Layers))
	for i, l := range s.Layers {
		out.Layers[i] = l.Clone()
	}
	return out
}

// Clone returns a deep copy of the image descriptor.
func (im Image) Clone() Image {
	out := im
	out.CXPct = cloneFloat(im.CXPct)
	out.CYPct = cloneFloat(im.CYPct)
	out.CX = cloneFloat(im.CX)
	out.CY = cloneFloat(im.CY)
	return out
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	out := l
	out.LeftPct = cloneFloat(l.LeftPct)
	out.TopPct = cloneFloat(l.TopPct)
	out.Left = cloneFloat(l.Left)
	out.Top = cloneFloat(l.Top)
	out.WidthPct = cloneFloat(l.WidthPct)
	out.FontSizePct = cloneFloat(l.FontSizePct)
	out.FontSize = cloneFloat(l.FontSize)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float is a convenience for building pointer-form coordinates.
func Float(v float64) *float64 { return &v }
