package stage

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadedImage is the result of resolving a background image source.
type LoadedImage struct {
	NatW int
	NatH int
}

// ImageLoader resolves an image source into its natural dimensions.
// The concrete implementation (network fetch, DOM Image element) lives
// in the host environment.
type ImageLoader interface {
	Load(ctx context.Context, src string) (LoadedImage, error)
}

// LoaderFunc adapts a function to the ImageLoader interface.
type LoaderFunc func(ctx context.Context, src string) (LoadedImage, error)

func (f LoaderFunc) Load(ctx context.Context, src string) (LoadedImage, error) {
	return f(ctx, src)
}

// CachingLoader deduplicates concurrent loads per source and remembers
// results, so prefetched slides and single-slide playback wraps do not
// hit the inner loader again. Cancelling a caller's context abandons
// the wait without cancelling the shared fetch, which keeps warming the
// cache for the next caller.
type CachingLoader struct {
	inner ImageLoader

	mu    sync.Mutex
	cache map[string]LoadedImage
	group singleflight.Group
}

// NewCachingLoader wraps inner with a per-source cache.
func NewCachingLoader(inner ImageLoader) *CachingLoader {
	return &CachingLoader{
		inner: inner,
		cache: make(map[string]LoadedImage),
	}
}

// Load returns the cached dimensions or fetches them once per source.
func (l *CachingLoader) Load(ctx context.Context, src string) (LoadedImage, error) {
	l.mu.Lock()
	if img, ok := l.cache[src]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	ch := l.group.DoChan(src, func() (any, error) {
		img, err := l.inner.Load(context.Background(), src)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[src] = img
		l.mu.Unlock()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return LoadedImage{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return LoadedImage{}, res.Err
		}
		return res.Val.(LoadedImage), nil
	}
}

// Prefetch warms the cache for src in the background.
func (l *CachingLoader) Prefetch(src string) {
	if src == "" {
		return
	}
	l.mu.Lock()
	_, ok := l.cache[src]
	l.mu.Unlock()
	if ok {
		return
	}
	go func() {
		_, _ = l.Load(context.Background(), src)
	}()
}
