package project

import (
	"sync"
)

// Editor owns the live authoring state. Every accepted mutation pushes a
// deep snapshot onto the history ring (unless the ring is locked) and
// fires the project-changed hook. Failed mutations leave both the
// project and the history untouched.
type Editor struct {
	mu       sync.Mutex
	project  Project
	history  *HistoryRing
	onChange func(Project)
}

// NewEditor creates an editor seeded with a single empty slide on a
// stage of the given size.
func NewEditor(stageW, stageH float64, historySize int) *Editor {
	p := Project{
		SchemaVersion: CurrentSchemaVersion,
		Stage:         Size{W: stageW, H: stageH},
		Slides: []Slide{{
			WorkSize:   Size{W: stageW, H: stageH},
			DurationMs: DefaultDurationMs,
			Layers:     []Layer{},
		}},
	}
	return &Editor{
		project: p,
		history: NewHistoryRing(historySize),
	}
}

// SetOnChange installs the project-changed hook. The hook receives a
// snapshot and runs outside the editor lock.
func (e *Editor) SetOnChange(fn func(Project)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Project returns a deep snapshot of the live state.
func (e *Editor) Project() Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Clone()
}

// Build snapshots the live authoring state into a canonical project.
func (e *Editor) Build() Project {
	return e.Project()
}

// History exposes undo/redo availability for UI state.
func (e *Editor) History() (canUndo, canRedo bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo(), e.history.CanRedo()
}

// Apply validates, normalizes and installs p. With lockHistory the ring
// is cleared and the install is not recorded, which is how decoded
// share payloads are applied in viewer mode.
func (e *Editor) Apply(p Project, lockHistory bool) error {
	next := p.Clone()
	Normalize(&next)
	if err := Validate(&next); err != nil {
		return err
	}

	e.mu.Lock()
	if lockHistory {
		e.history.Reset()
		e.history.Lock()
	}
	e.history.Push(e.project)
	e.project = next
	if lockHistory {
		e.history.Unlock()
	}
	fire := e.changedLocked()
	e.mu.Unlock()
	fire()
	return nil
}

// Undo moves one step back in history. No-op at the bound.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	prev, ok := e.history.Undo(e.project)
	var fire func()
	if ok {
		e.project = prev
		fire = e.changedLocked()
	}
	e.mu.Unlock()
	if ok {
		fire()
	}
	return ok
}

// Redo reverses the last Undo. No-op at the bound.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	next, ok := e.history.Redo(e.project)
	var fire func()
	if ok {
		e.project = next
		fire = e.changedLocked()
	}
	e.mu.Unlock()
	if ok {
		fire()
	}
	return ok
}

// ActiveIndex returns the current slide cursor.
func (e *Editor) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.ActiveIndex
}

// SlideCount returns the number of slides.
func (e *Editor) SlideCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.project.Slides)
}

// ActiveSlide returns a snapshot of the slide under the cursor.
func (e *Editor) ActiveSlide() Slide {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Slides[e.project.ActiveIndex].Clone()
}

// Slide returns a snapshot of slide i; ok is false when i is out of
// range.
func (e *Editor) Slide(i int) (Slide, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.project.Slides) {
		return Slide{}, false
	}
	return e.project.Slides[i].Clone(), true
}

// SetActiveIndex moves the slide cursor, clamped into range. Cursor
// moves are not undoable; they do not touch history.
func (e *Editor) SetActiveIndex(i int) {
	e.mu.Lock()
	e.project.ActiveIndex = clampInt(i, 0, len(e.project.Slides)-1)
	fire := e.changedLocked()
	e.mu.Unlock()
	fire()
}

// AddSlide appends an empty slide sized like the stage and moves the
// cursor to it.
func (e *Editor) AddSlide() error {
	return e.mutate(func(p *Project) error {
		p.Slides = append(p.Slides, Slide{
			WorkSize:   p.Stage,
			DurationMs: DefaultDurationMs,
			Layers:     []Layer{},
		})
		p.ActiveIndex = len(p.Slides) - 1
		return nil
	})
}

// DuplicateSlide inserts a deep copy of slide i right after it and
// moves the cursor to the copy.
func (e *Editor) DuplicateSlide(i int) error {
	return e.mutate(func(p *Project) error {
		if i < 0 || i >= len(p.Slides) {
			return &InvariantError{Op: "duplicateSlide", Reason: "slide index out of range"}
		}
		dup := p.Slides[i].Clone()
		p.Slides = append(p.Slides, Slide{})
		copy(p.Slides[i+2:], p.Slides[i+1:])
		p.Slides[i+1] = dup
		p.ActiveIndex = i + 1
		return nil
	})
}

// DeleteSlide removes slide i. Deleting the last remaining slide is
// rejected; deleting at or before the cursor clamps the cursor.
func (e *Editor) DeleteSlide(i int) error {
	return e.mutate(func(p *Project) error {
		if i < 0 || i >= len(p.Slides) {
			return &InvariantError{Op: "deleteSlide", Reason: "slide index out of range"}
		}
		if len(p.Slides) == 1 {
			return &InvariantError{Op: "deleteSlide", Reason: "cannot delete the last slide"}
		}
		p.Slides = append(p.Slides[:i], p.Slides[i+1:]...)
		p.ActiveIndex = clampInt(p.ActiveIndex, 0, len(p.Slides)-1)
		return nil
	})
}

// MoveSlide reorders slide from to position to, keeping the cursor on
// the slide it pointed at.
func (e *Editor) MoveSlide(from, to int) error {
	return e.mutate(func(p *Project) error {
		n := len(p.Slides)
		if from < 0 || from >= n {
			return &InvariantError{Op: "moveSlide", Reason: "slide index out of range"}
		}
		to = clampInt(to, 0, n-1)
		if from == to {
			return nil
		}
		moved := p.Slides[from]
		p.Slides = append(p.Slides[:from], p.Slides[from+1:]...)
		rest := append(p.Slides[:to:to], append([]Slide{moved}, p.Slides[to:]...)...)
		p.Slides = rest

		// Keep the cursor on the slide it pointed at.
		switch {
		case p.ActiveIndex == from:
			p.ActiveIndex = to
		case from < p.ActiveIndex && to >= p.ActiveIndex:
			p.ActiveIndex--
		case from > p.ActiveIndex && to <= p.ActiveIndex:
			p.ActiveIndex++
		}
		return nil
	})
}

// SetSlideDuration sets slide i's duration, clamped to the allowed
// range.
func (e *Editor) SetSlideDuration(i, ms int) error {
	return e.mutate(func(p *Project) error {
		if i < 0 || i >= len(p.Slides) {
			return &InvariantError{Op: "setSlideDuration", Reason: "slide index out of range"}
		}
		p.Slides[i].DurationMs = clampInt(ms, MinDurationMs, MaxDurationMs)
		return nil
	})
}

// SetSlideImage installs (or with nil clears) slide i's background
// image descriptor.
func (e *Editor) SetSlideImage(i int, img *Image) error {
	return e.mutate(func(p *Project) error {
		if i < 0 || i >= len(p.Slides) {
			return &InvariantError{Op: "setSlideImage", Reason: "slide index out of range"}
		}
		if img == nil {
			p.Slides[i].Image = nil
			return nil
		}
		cp := img.Clone()
		normalizeImage(&cp)
		if err := validateImage(&cp, "image"); err != nil {
			return err
		}
		p.Slides[i].Image = &cp
		return nil
	})
}

// AddTextLayer appends a text layer to the active slide.
func (e *Editor) AddTextLayer(l Layer) error {
	return e.mutate(func(p *Project) error {
		cp := l.Clone()
		normalizeLayer(&cp)
		if err := validateLayer(&cp, "layer"); err != nil {
			return err
		}
		s := &p.Slides[p.ActiveIndex]
		s.Layers = append(s.Layers, cp)
		return nil
	})
}

// LayerPatch is a partial update of a text layer; nil fields are left
// untouched.
type LayerPatch struct {
	Text           *string
	LeftPct        *float64
	TopPct         *float64
	Left           *float64
	Top            *float64
	WidthPct       *float64
	FontSizePct    *float64
	FontSize       *float64
	FontFamily     *string
	FontWeight     *string
	FontStyle      *string
	TextDecoration *string
	Color          *string
	TextAlign      *string
	Transform      *string
	FadeInMs       *int
	FadeOutMs      *int
	ZoomInMs       *int
	ZoomOutMs      *int
}

// UpdateTextLayer applies a patch to layer idx of the active slide.
func (e *Editor) UpdateTextLayer(idx int, patch LayerPatch) error {
	return e.mutate(func(p *Project) error {
		s := &p.Slides[p.ActiveIndex]
		if idx < 0 || idx >= len(s.Layers) {
			return &InvariantError{Op: "updateTextLayer", Reason: "layer index out of range"}
		}
		l := s.Layers[idx].Clone()
		applyLayerPatch(&l, patch)
		normalizeLayer(&l)
		if err := validateLayer(&l, "layer"); err != nil {
			return err
		}
		s.Layers[idx] = l
		return nil
	})
}

// RemoveTextLayer deletes layer idx of the active slide.
func (e *Editor) RemoveTextLayer(idx int) error {
	return e.mutate(func(p *Project) error {
		s := &p.Slides[p.ActiveIndex]
		if idx < 0 || idx >= len(s.Layers) {
			return &InvariantError{Op: "removeTextLayer", Reason: "layer index out of range"}
		}
		s.Layers = append(s.Layers[:idx], s.Layers[idx+1:]...)
		return nil
	})
}

// WriteImageState persists the live transform of the active slide's
// image back into the project (slide-switch write-back).
func (e *Editor) WriteImageState(st ImageState) error {
	return e.mutate(func(p *Project) error {
		img := p.Slides[p.ActiveIndex].Image
		if img == nil {
			return &InvariantError{Op: "writeImageState", Reason: "active slide has no image"}
		}
		img.CXPct = Float(st.CXPct)
		img.CYPct = Float(st.CYPct)
		img.CX = nil
		img.CY = nil
		img.Scale = st.Scale
		img.Angle = st.Angle
		img.ShearX = st.ShearX
		img.ShearY = st.ShearY
		img.SignX = normSign(st.SignX)
		img.SignY = normSign(st.SignY)
		img.Flip = st.Flip
		normalizeImage(img)
		return nil
	})
}

// SetMusic sets or clears the project's looping track reference.
func (e *Editor) SetMusic(m *Music) error {
	return e.mutate(func(p *Project) error {
		if m == nil {
			p.Music = nil
			return nil
		}
		cp := *m
		if cp.Volume < 0 || cp.Volume > 1 {
			return schemaErr("music.volume", "volume %v outside [0, 1]", cp.Volume)
		}
		p.Music = &cp
		return nil
	})
}

// SetAutoplay toggles viewer autoplay.
func (e *Editor) SetAutoplay(on bool) error {
	return e.mutate(func(p *Project) error {
		p.Autoplay = on
		return nil
	})
}

func applyLayerPatch(l *Layer, p LayerPatch) {
	if p.Text != nil {
		l.Text = *p.Text
	}
	if p.LeftPct != nil {
		l.LeftPct = cloneFloat(p.LeftPct)
	}
	if p.TopPct != nil {
		l.TopPct = cloneFloat(p.TopPct)
	}
	if p.Left != nil {
		l.Left = cloneFloat(p.Left)
	}
	if p.Top != nil {
		l.Top = cloneFloat(p.Top)
	}
	if p.WidthPct != nil {
		l.WidthPct = cloneFloat(p.WidthPct)
	}
	if p.FontSizePct != nil {
		l.FontSizePct = cloneFloat(p.FontSizePct)
	}
	if p.FontSize != nil {
		l.FontSize = cloneFloat(p.FontSize)
	}
	if p.FontFamily != nil {
		l.FontFamily = *p.FontFamily
	}
	if p.FontWeight != nil {
		l.FontWeight = *p.FontWeight
	}
	if p.FontStyle != nil {
		l.FontStyle = *p.FontStyle
	}
	if p.TextDecoration != nil {
		l.TextDecoration = *p.TextDecoration
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.TextAlign != nil {
		l.TextAlign = *p.TextAlign
	}
	if p.Transform != nil {
		l.Transform = *p.Transform
	}
	if p.FadeInMs != nil {
		l.FadeInMs = *p.FadeInMs
	}
	if p.FadeOutMs != nil {
		l.FadeOutMs = *p.FadeOutMs
	}
	if p.ZoomInMs != nil {
		l.ZoomInMs = *p.ZoomInMs
	}
	if p.ZoomOutMs != nil {
		l.ZoomOutMs = *p.ZoomOutMs
	}
}

// mutate runs fn on a working copy; on success it records the previous
// state, installs the copy and fires the change hook.
func (e *Editor) mutate(fn func(*Project) error) error {
	e.mu.Lock()
	work := e.project.Clone()
	if err := fn(&work); err != nil {
		e.mu.Unlock()
		return err
	}
	e.history.Push(e.project)
	e.project = work
	fire := e.changedLocked()
	e.mu.Unlock()
	fire()
	return nil
}

// changedLocked captures the hook and a snapshot under the lock and
// returns a closure safe to call after unlocking.
func (e *Editor) changedLocked() func() {
	if e.onChange == nil {
		return func() {}
	}
	fn := e.onChange
	snap := e.project.Clone()
	return func() { fn(snap) }
}
