// Package playback drives slide advancement and per-element fade/zoom
// animation. The engine is frame-driven: a monotonic timestamp goes in,
// opacity and scale multipliers come out, and slides advance when their
// duration elapses. Rendering is a collaborator behind FrameSink.
package playback

import (
	"sync"
	"time"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/geom"
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// FrameInterval is the tick period of the internal frame loop, roughly
// 60 frames per second.
const FrameInterval = 16 * time.Millisecond

// ElementFrame is the animation output for one element at one instant.
// ScaleMul multiplies the element's base scale; 1 means at rest.
type ElementFrame struct {
	Opacity  float64
	ScaleMul float64
}

// Frame is the full animation output for one timestamp.
type Frame struct {
	SlideIndex int
	T          float64 // slide-local milliseconds
	Image      *ElementFrame
	Layers     []ElementFrame
}

// FrameSink receives the per-frame animation values.
type FrameSink interface {
	Frame(f Frame)
}

// FrameSinkFunc adapts a function to the FrameSink interface.
type FrameSinkFunc func(f Frame)

func (f FrameSinkFunc) Frame(fr Frame) { f(fr) }

// Switcher is the slide-switching collaborator; the stage coordinator
// implements it.
type Switcher interface {
	Switch(i int) <-chan struct{}
	Prefetch(i int)
}

// Engine advances slides at their declared duration and emits fade and
// zoom values on every frame.
type Engine struct {
	editor     *project.Editor
	sw         Switcher
	sink       FrameSink
	zoomFactor float64

	mu         sync.Mutex
	playing    bool
	hasStart   bool
	slideStart float64
	stopc      chan struct{}
}

// NewEngine builds an engine over an editor. sw may be nil, in which
// case slides still advance the cursor but nothing is preloaded.
func NewEngine(e *project.Editor, sw Switcher, sink FrameSink) *Engine {
	return &Engine{
		editor:     e,
		sw:         sw,
		sink:       sink,
		zoomFactor: geom.DefaultZoomFactor,
	}
}

// Playing reports whether the engine is running.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Start begins playback. Idempotent; a no-op on an empty project.
func (e *Engine) Start() {
	if !e.begin() {
		return
	}
	stop := make(chan struct{})
	e.mu.Lock()
	e.stopc = stop
	e.mu.Unlock()
	go e.run(stop)
}

// begin flips the engine into the playing state without spawning the
// frame loop; Start builds on it, and step-driven callers use it alone.
func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing || e.editor.SlideCount() == 0 {
		return false
	}
	e.playing = true
	e.hasStart = false
	return true
}

// Stop halts playback and emits one neutral frame so every element
// returns to full opacity and rest scale.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.hasStart = false
	if e.stopc != nil {
		close(e.stopc)
		e.stopc = nil
	}
	e.mu.Unlock()

	e.emitNeutral()
}

// Toggle starts when stopped and stops when playing.
func (e *Engine) Toggle() {
	if e.Playing() {
		e.Stop()
	} else {
		e.Start()
	}
}

func (e *Engine) run(stop chan struct{}) {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	epoch := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			e.Step(float64(now.Sub(epoch)) / float64(time.Millisecond))
		}
	}
}

// Step runs one frame at monotonic timestamp ts (milliseconds). The
// internal loop calls it on every tick; tests drive it directly.
func (e *Engine) Step(ts float64) {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	if !e.hasStart {
		e.hasStart = true
		e.slideStart = ts
	}
	t := ts - e.slideStart
	zoom := e.zoomFactor
	e.mu.Unlock()

	n := e.editor.SlideCount()
	if n == 0 {
		return
	}
	idx := e.editor.ActiveIndex()
	slide, ok := e.editor.Slide(idx)
	if !ok {
		return
	}
	dur := float64(slide.DurationMs)

	frame := Frame{SlideIndex: idx, T: geom.Clamp(t, 0, dur)}
	if img := slide.Image; img != nil {
		ef := elementFrame(frame.T, dur,
			float64(img.FadeInMs), float64(img.FadeOutMs),
			float64(img.ZoomInMs), float64(img.ZoomOutMs), zoom)
		frame.Image = &ef
	}
	frame.Layers = make([]ElementFrame, len(slide.Layers))
	for i, l := range slide.Layers {
		frame.Layers[i] = elementFrame(frame.T, dur,
			float64(l.FadeInMs), float64(l.FadeOutMs),
			float64(l.ZoomInMs), float64(l.ZoomOutMs), zoom)
	}
	if e.sink != nil {
		e.sink.Frame(frame)
	}

	if t >= dur {
		e.advance(ts, idx, n)
	}
}

// advance moves to the next slide, wrapping at the end, and hints the
// coordinator about the slide after that.
func (e *Engine) advance(ts float64, idx, n int) {
	e.mu.Lock()
	e.slideStart = ts
	e.mu.Unlock()

	next := (idx + 1) % n
	if e.sw != nil {
		e.sw.Switch(next)
		e.sw.Prefetch((next + 1) % n)
	} else {
		e.editor.SetActiveIndex(next)
	}
}

// emitNeutral paints the current slide at rest: opacity 1, scale 1.
func (e *Engine) emitNeutral() {
	if e.sink == nil {
		return
	}
	idx := e.editor.ActiveIndex()
	slide, ok := e.editor.Slide(idx)
	if !ok {
		return
	}
	frame := Frame{SlideIndex: idx}
	if slide.Image != nil {
		frame.Image = &ElementFrame{Opacity: 1, ScaleMul: 1}
	}
	frame.Layers = make([]ElementFrame, len(slide.Layers))
	for i := range frame.Layers {
		frame.Layers[i] = ElementFrame{Opacity: 1, ScaleMul: 1}
	}
	e.sink.Frame(frame)
}

func elementFrame(t, dur, fadeIn, fadeOut, zoomIn, zoomOut, zoomFactor float64) ElementFrame {
	return ElementFrame{
		Opacity:  geom.InterpolateOpacity(t, dur, fadeIn, fadeOut),
		ScaleMul: geom.InterpolateScale(1, t, dur, zoomIn, zoomOut, zoomFactor),
	}
}
