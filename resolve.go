//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"fmt"
	"runtime"
)

// maxResolveDepth bounds how often one goroutine may re-enter the factory
// for the same handle. Deeper re-entry gets a plain *Object wrapper.
const maxResolveDepth = 2

type resolveKey struct {
	handle    Handle
	goroutine uint64
}

// GetObject returns the wrapper for h, creating one through the factory if
// no live wrapper exists. A zero handle yields (nil, nil).
//
// No lock is held and nothing waits while the factory runs, so the factory
// may call back into GetObject, including for h itself. Concurrent misses
// for the same handle may each build a wrapper; the first one registered
// wins, every caller gets it, and the losers are disposed.
func (b *Bridge) GetObject(h Handle) (Wrapper, error) {
	if h == 0 {
		return nil, nil
	}
	if w, ok := b.registry.lookup(h); ok {
		return w, nil
	}

	key, depth := b.enterResolve(h)
	var (
		w   Wrapper
		err error
	)
	if depth > maxResolveDepth {
		w, err = attachPlain(b, h)
	} else {
		w, err = b.factory.CreateObject(b, h)
	}
	b.leaveResolve(key)

	if err != nil {
		b.log.Debug().
			Str("handle", h.String()).
			Err(err).
			Log("factory failed")
		return nil, err
	}
	if w == nil {
		return nil, nil
	}
	return b.settle(h, w), nil
}

// settle returns the wrapper registered for h, registering w if the slot is
// free. A wrapper bound to h that lost to another live wrapper is disposed,
// so its reference is released by the drain like any other.
func (b *Bridge) settle(h Handle, w Wrapper) Wrapper {
	o := w.GObject()
	if o.Handle() != h {
		return w
	}
	existing, ok := b.registry.register(h, o.life.ref, o.life)
	if ok {
		// teardown may have run between the handle check and register
		if o.IsDisposed() {
			b.registry.removeOwned(h, o.life)
		}
		return w
	}
	o.Dispose()
	return existing
}

func (b *Bridge) enterResolve(h Handle) (resolveKey, int) {
	key := resolveKey{handle: h, goroutine: goroutineID()}
	b.resolveMu.Lock()
	defer b.resolveMu.Unlock()
	b.resolving[key]++
	return key, b.resolving[key]
}

func (b *Bridge) leaveResolve(key resolveKey) {
	b.resolveMu.Lock()
	defer b.resolveMu.Unlock()
	if b.resolving[key]--; b.resolving[key] <= 0 {
		delete(b.resolving, key)
	}
}

// goroutineID parses the current goroutine's id from its stack header.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// GetObjectAs is GetObject with a type assertion to the wrapper type W.
func GetObjectAs[W Wrapper](b *Bridge, h Handle) (W, error) {
	var zero W
	w, err := b.GetObject(h)
	if err != nil || w == nil {
		return zero, err
	}
	typed, ok := w.(W)
	if !ok {
		return zero, fmt.Errorf("%w: %T for %s", ErrWrongType, w, h)
	}
	return typed, nil
}
