package playback

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) Frame(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *frameRecorder) last(t *testing.T) Frame {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		t.Fatal("no frames recorded")
	}
	return r.frames[len(r.frames)-1]
}

type fakeSwitcher struct {
	editor     *project.Editor
	mu         sync.Mutex
	switches   []int
	prefetches []int
}

func (f *fakeSwitcher) Switch(i int) <-chan struct{} {
	f.mu.Lock()
	f.switches = append(f.switches, i)
	f.mu.Unlock()
	f.editor.SetActiveIndex(i)
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (f *fakeSwitcher) Prefetch(i int) {
	f.mu.Lock()
	f.prefetches = append(f.prefetches, i)
	f.mu.Unlock()
}

func fadeEditor(t *testing.T) *project.Editor {
	t.Helper()
	e := project.NewEditor(800, 450, 0)
	if err := e.SetSlideDuration(0, 1000); err != nil {
		t.Fatalf("duration: %v", err)
	}
	err := e.AddTextLayer(project.Layer{
		Text:      "Hello",
		LeftPct:   project.Float(0.1),
		TopPct:    project.Float(0.1),
		FontSize:  project.Float(28),
		Color:     "#ffffff",
		FadeInMs:  200,
		FadeOutMs: 200,
	})
	if err != nil {
		t.Fatalf("layer: %v", err)
	}
	return e
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStep_FadeProfile(t *testing.T) {
	e := fadeEditor(t)
	rec := &frameRecorder{}
	sw := &fakeSwitcher{editor: e}
	eng := NewEngine(e, sw, rec)
	if !eng.begin() {
		t.Fatal("engine did not start")
	}
	defer eng.Stop()

	// First frame pins the slide-local clock at its timestamp.
	base := 5000.0
	want := []struct {
		offset  float64
		opacity float64
	}{
		{0, 0},
		{100, 0.5},
		{500, 1},
		{900, 0.5},
		{1000, 0},
	}
	for _, w := range want {
		eng.Step(base + w.offset)
		f := rec.last(t)
		if len(f.Layers) != 1 {
			t.Fatalf("t=%v: %d layer frames", w.offset, len(f.Layers))
		}
		if got := f.Layers[0].Opacity; !approx(got, w.opacity) {
			t.Errorf("opacity(t=%v) = %v, want %v", w.offset, got, w.opacity)
		}
	}
}

func TestStep_ZoomIsBoundedAndMonotone(t *testing.T) {
	e := project.NewEditor(800, 450, 0)
	if err := e.SetSlideDuration(0, 1000); err != nil {
		t.Fatalf("duration: %v", err)
	}
	err := e.AddTextLayer(project.Layer{
		Text:     "Zoom",
		LeftPct:  project.Float(0.5),
		TopPct:   project.Float(0.5),
		FontSize: project.Float(28),
		Color:    "#000000",
		ZoomInMs: 400,
	})
	if err != nil {
		t.Fatalf("layer: %v", err)
	}
	rec := &frameRecorder{}
	eng := NewEngine(e, nil, rec)
	if !eng.begin() {
		t.Fatal("engine did not start")
	}
	defer eng.Stop()

	prev := 0.0
	for _, off := range []float64{0, 100, 200, 300, 400} {
		eng.Step(off)
		got := rec.last(t).Layers[0].ScaleMul
		if got < prev {
			t.Errorf("scale must not decrease during zoom-in: %v then %v at t=%v", prev, got, off)
		}
		if got < 1 || got > 1.1+1e-9 {
			t.Errorf("scale out of bounds at t=%v: %v", off, got)
		}
		prev = got
	}
	if !approx(prev, 1.1) {
		t.Errorf("scale at end of zoom-in = %v, want 1.1", prev)
	}
}

func TestStep_AdvancesWithEmptyLayers(t *testing.T) {
	e := project.NewEditor(800, 450, 0)
	if err := e.AddSlide(); err != nil {
		t.Fatalf("add slide: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := e.SetSlideDuration(i, 500); err != nil {
			t.Fatalf("duration: %v", err)
		}
	}
	e.SetActiveIndex(0)

	sw := &fakeSwitcher{editor: e}
	eng := NewEngine(e, sw, nil)
	if !eng.begin() {
		t.Fatal("engine did not start")
	}
	defer eng.Stop()

	eng.Step(0)
	eng.Step(500) // slide 0 elapsed
	eng.Step(600)
	eng.Step(1000) // slide 1 elapsed, wraps

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.switches) != 2 || sw.switches[0] != 1 || sw.switches[1] != 0 {
		t.Errorf("switches = %v, want [1 0]", sw.switches)
	}
	if got := e.ActiveIndex(); got != 0 {
		t.Errorf("activeIndex = %d, want 0 after wrap", got)
	}
}

func TestStep_SingleSlideWrapsInPlace(t *testing.T) {
	e := project.NewEditor(800, 450, 0)
	if err := e.SetSlideDuration(0, 500); err != nil {
		t.Fatalf("duration: %v", err)
	}
	sw := &fakeSwitcher{editor: e}
	eng := NewEngine(e, sw, nil)
	if !eng.begin() {
		t.Fatal("engine did not start")
	}
	defer eng.Stop()

	eng.Step(0)
	eng.Step(500)

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.switches) != 1 || sw.switches[0] != 0 {
		t.Errorf("switches = %v, want [0] (wrap to self)", sw.switches)
	}
	if len(sw.prefetches) != 1 || sw.prefetches[0] != 0 {
		t.Errorf("prefetches = %v, want [0]", sw.prefetches)
	}
}

func TestStep_PrefetchHintsSlideAfterNext(t *testing.T) {
	e := project.NewEditor(800, 450, 0)
	for i := 0; i < 2; i++ {
		if err := e.AddSlide(); err != nil {
			t.Fatalf("add slide: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := e.SetSlideDuration(i, 500); err != nil {
			t.Fatalf("duration: %v", err)
		}
	}
	e.SetActiveIndex(0)

	sw := &fakeSwitcher{editor: e}
	eng := NewEngine(e, sw, nil)
	if !eng.begin() {
		t.Fatal("engine did not start")
	}
	defer eng.Stop()

	eng.Step(0)
	eng.Step(500)

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.prefetches) != 1 || sw.prefetches[0] != 2 {
		t.Errorf("prefetches = %v, want [2]", sw.prefetches)
	}
}

func TestStartStopToggle(t *testing.T) {
	e := fadeEditor(t)
	rec := &frameRecorder{}
	eng := NewEngine(e, nil, rec)

	eng.Stop() // no-op while stopped
	if eng.Playing() {
		t.Fatal("engine must start stopped")
	}

	eng.Start()
	eng.Start() // idempotent
	if !eng.Playing() {
		t.Fatal("Start must leave the engine playing")
	}

	eng.Stop()
	if eng.Playing() {
		t.Fatal("Stop must leave the engine stopped")
	}
	// Stop resets every element to rest.
	f := rec.last(t)
	if len(f.Layers) != 1 || f.Layers[0] != (ElementFrame{Opacity: 1, ScaleMul: 1}) {
		t.Errorf("neutral frame after Stop, got %+v", f)
	}

	eng.Toggle()
	if !eng.Playing() {
		t.Fatal("Toggle must start a stopped engine")
	}
	eng.Toggle()
	if eng.Playing() {
		t.Fatal("Toggle must stop a playing engine")
	}
}

func TestStep_WhileStoppedIsNoop(t *testing.T) {
	e := fadeEditor(t)
	rec := &frameRecorder{}
	eng := NewEngine(e, nil, rec)

	eng.Step(100)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.frames) != 0 {
		t.Errorf("stopped engine emitted %d frames", len(rec.frames))
	}
}

func TestRun_TickerEmitsFrames(t *testing.T) {
	e := fadeEditor(t)
	rec := &frameRecorder{}
	eng := NewEngine(e, nil, rec)
	eng.Start()
	defer eng.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec.mu.Lock()
		n := len(rec.frames)
		rec.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("internal frame loop never emitted")
}
