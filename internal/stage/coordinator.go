// Package stage serializes slide switches onto the authoring stage.
// Only one switch is ever active; new requests queue behind the running
// one and supersede its image load. A superseded load completes without
// mutating the live transform, so callers observe switches strictly in
// invocation order.
package stage

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/geom"
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/transform"
)

// Sink is the stage collaborator that paints a loaded slide. The DOM
// renderer implements it in the host; tests record calls.
type Sink interface {
	ShowSlide(index int, s project.Slide, ts transform.State)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(index int, s project.Slide, ts transform.State)

func (f SinkFunc) ShowSlide(index int, s project.Slide, ts transform.State) { f(index, s, ts) }

// Coordinator owns the live transform of the displayed image and the
// single-flight switch queue.
type Coordinator struct {
	editor *project.Editor
	loader ImageLoader
	sink   Sink
	mode   geom.FitMode
	stageW float64
	stageH float64

	mu          sync.Mutex
	live        transform.State
	baseFit     float64
	loadedIndex int
	cancelLoad  context.CancelFunc
	tail        chan struct{}
	gen         uint64

	onLoaded func(index int)
}

// NewCoordinator builds a coordinator for an editor and a stage of the
// given size. mode is the fit used for freshly loaded images: contain
// in the editor, cover in the viewer.
func NewCoordinator(e *project.Editor, loader ImageLoader, sink Sink, stageW, stageH float64, mode geom.FitMode) *Coordinator {
	return &Coordinator{
		editor:      e,
		loader:      loader,
		sink:        sink,
		mode:        mode,
		stageW:      stageW,
		stageH:      stageH,
		live:        transform.Neutral(),
		loadedIndex: -1,
	}
}

// SetOnLoaded installs the loaded-slide hook; it fires once per switch
// that completes with its image (or image-less slide) applied.
func (c *Coordinator) SetOnLoaded(fn func(index int)) {
	c.mu.Lock()
	c.onLoaded = fn
	c.mu.Unlock()
}

// Live returns a copy of the current transform state.
func (c *Coordinator) Live() transform.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// MutateLive applies fn to the live transform under the coordinator
// lock (handle drags go through here).
func (c *Coordinator) MutateLive(fn func(*transform.State)) {
	c.mu.Lock()
	fn(&c.live)
	c.live.EnforceBounds(c.stageW, c.stageH)
	c.mu.Unlock()
}

// Switch requests a switch to slide i. It returns immediately; the
// switch runs after any switch already in flight, whose image load it
// supersedes. The returned channel closes when this switch has been
// fully processed.
func (c *Coordinator) Switch(i int) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	prev := c.tail
	c.tail = done
	c.gen++
	gen := c.gen
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		c.perform(i, gen)
	}()
	return done
}

// SwitchAndWait runs Switch and blocks until it is processed or ctx
// expires.
func (c *Coordinator) SwitchAndWait(ctx context.Context, i int) error {
	select {
	case <-c.Switch(i):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every switch requested so far has been processed.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	tail := c.tail
	c.mu.Unlock()
	if tail == nil {
		return nil
	}
	select {
	case <-tail:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteCurrentSlide persists the live transform back into the project
// ("write current slide"). It is a no-op unless the live state belongs
// to the slide the cursor is on.
func (c *Coordinator) WriteCurrentSlide() error {
	c.mu.Lock()
	ok := c.live.Has && c.loadedIndex >= 0 && c.loadedIndex == c.editor.ActiveIndex()
	st := c.live.Descriptor(c.stageW, c.stageH, c.baseFit)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.editor.WriteImageState(st)
}

// Prefetch hints that slide i's image will be needed soon.
func (c *Coordinator) Prefetch(i int) {
	s, ok := c.editor.Slide(i)
	if !ok || s.Image == nil || s.Image.Src == "" {
		return
	}
	if cl, ok := c.loader.(*CachingLoader); ok {
		cl.Prefetch(s.Image.Src)
	}
}

// superseded reports whether a newer switch has been requested since
// gen was issued.
func (c *Coordinator) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.gen
}

// perform executes one queued switch. It never panics or returns an
// error to the queue; failures degrade to a neutral transform.
func (c *Coordinator) perform(i int, gen uint64) {
	n := c.editor.SlideCount()
	if n == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}

	c.mu.Lock()
	already := c.loadedIndex == i && c.editor.ActiveIndex() == i
	c.mu.Unlock()
	if already {
		return
	}

	if c.superseded(gen) {
		// A newer request is queued behind us; let it drive the final
		// state instead of loading an image nobody will see.
		return
	}

	if err := c.WriteCurrentSlide(); err != nil {
		log.Printf("invitation-maker: write current slide: %v", err)
	}

	c.editor.SetActiveIndex(i)
	slide, ok := c.editor.Slide(i)
	if !ok {
		return
	}

	if slide.Image == nil || slide.Image.Src == "" {
		c.applyLoaded(i, slide, transform.Neutral(), 0, true)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancelLoad = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.cancelLoad != nil {
			c.cancelLoad = nil
		}
		c.mu.Unlock()
		cancel()
	}()

	img, err := c.loader.Load(ctx, slide.Image.Src)
	if errors.Is(err, context.Canceled) || ctx.Err() != nil || c.superseded(gen) {
		// Superseded by a newer switch: resolve without mutating.
		return
	}
	if err != nil {
		log.Printf("invitation-maker: load slide %d image: %v", i, err)
		c.applyLoaded(i, slide, transform.Neutral(), 0, false)
		return
	}

	desc := slide.Image.Clone()
	desc.NatW = img.NatW
	desc.NatH = img.NatH

	var ts transform.State
	ts.SetFromDescriptor(&desc, c.stageW, c.stageH, c.mode)
	ts.EnforceBounds(c.stageW, c.stageH)

	fit := geom.ComputeViewportScale(c.stageW, c.stageH, float64(img.NatW), float64(img.NatH), c.mode)
	c.applyLoaded(i, slide, ts, fit.Scale, true)
}

// applyLoaded installs the new live state and paints the sink. notify
// is false on the load-error path: the slide shows with a neutral
// transform but no loaded event fires.
func (c *Coordinator) applyLoaded(i int, slide project.Slide, ts transform.State, baseFit float64, notify bool) {
	c.mu.Lock()
	c.live = ts
	c.baseFit = baseFit
	c.loadedIndex = i
	loaded := c.onLoaded
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.ShowSlide(i, slide, ts)
	}
	if notify && loaded != nil {
		loaded(i)
	}
}
