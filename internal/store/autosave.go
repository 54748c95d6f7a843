package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// Autosave tuning. After MaxRetries consecutive failures the saver
// backs off to the longer interval until a save succeeds again.
const (
	DefaultDebounce   = 500 * time.Millisecond
	DefaultMaxRetries = 3
	DefaultBackoff    = 5 * time.Second
	saveTimeout       = 10 * time.Second
)

// Status is the autosaver's externally observable state.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSaved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSaved:
		return "saved"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SaveFunc stores one snapshot; Sessions.Save and
// Gateway.SaveSessionProject both fit.
type SaveFunc func(ctx context.Context, p project.Project) error

// Autosaver coalesces rapid project changes into debounced saves.
// Failures keep the snapshot pending and retry on the next tick;
// repeated failures stretch the tick to the backoff interval.
type Autosaver struct {
	save     SaveFunc
	debounce time.Duration
	backoff  time.Duration
	retries  int
	onStatus func(Status, error)

	mu       sync.Mutex
	pending  *project.Project
	timer    *time.Timer
	failures int
	closed   bool
}

// NewAutosaver builds an autosaver around save with default timing.
func NewAutosaver(save SaveFunc) *Autosaver {
	return &Autosaver{
		save:     save,
		debounce: DefaultDebounce,
		backoff:  DefaultBackoff,
		retries:  DefaultMaxRetries,
	}
}

// SetOnStatus installs the status hook. It runs on the saver's
// goroutine; keep it fast.
func (a *Autosaver) SetOnStatus(fn func(Status, error)) {
	a.mu.Lock()
	a.onStatus = fn
	a.mu.Unlock()
}

// Notify records p as the latest state and (re)arms the debounce
// timer. Safe to call from the editor's change hook.
func (a *Autosaver) Notify(p project.Project) {
	snap := p.Clone()

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.pending = &snap
	delay := a.debounce
	if a.failures >= a.retries {
		delay = a.backoff
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(delay, a.flush)
	hook := a.onStatus
	a.mu.Unlock()

	if hook != nil {
		hook(StatusPending, nil)
	}
}

// Flush saves any pending snapshot immediately, bypassing the
// debounce. Used on page-hide and before building a share URL.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	p := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	if p == nil {
		return nil
	}
	return a.saveOne(ctx, *p)
}

// Close stops the timer; a pending snapshot is dropped. Call Flush
// first when it must survive.
func (a *Autosaver) Close() {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
	a.mu.Unlock()
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	if a.closed || a.pending == nil {
		a.mu.Unlock()
		return
	}
	p := *a.pending
	a.pending = nil
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	_ = a.saveOne(ctx, p)
}

func (a *Autosaver) saveOne(ctx context.Context, p project.Project) error {
	err := a.save(ctx, p)

	a.mu.Lock()
	hook := a.onStatus
	if err != nil {
		a.failures++
		// Keep the failed snapshot pending unless a newer one arrived
		// while we were saving.
		if a.pending == nil && !a.closed {
			a.pending = &p
			delay := a.debounce
			if a.failures >= a.retries {
				delay = a.backoff
			}
			if a.timer != nil {
				a.timer.Stop()
			}
			a.timer = time.AfterFunc(delay, a.flush)
		}
	} else {
		a.failures = 0
	}
	a.mu.Unlock()

	if err != nil {
		log.Printf("invitation-maker: autosave: %v", err)
		if hook != nil {
			hook(StatusFailed, err)
		}
		return err
	}
	if hook != nil {
		hook(StatusSaved, nil)
	}
	return nil
}
