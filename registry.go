//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"sync"
	"weak"
)

// weakRef is a reference to a wrapper that does not keep it reachable.
type weakRef interface {
	value() Wrapper
}

// weakWrapper holds a weak pointer to the concrete wrapper type, so the
// registry can hand back the outer generated type rather than its Object.
type weakWrapper[T any, P interface {
	*T
	Wrapper
}] struct {
	p weak.Pointer[T]
}

func (w weakWrapper[T, P]) value() Wrapper {
	if v := w.p.Value(); v != nil {
		return P(v)
	}
	return nil
}

type registryEntry struct {
	ref   weakRef
	owner *lifetime
}

// registry maps handles to the wrapper currently representing them.
// Entries are weak: the registry never keeps a wrapper alive.
type registry struct {
	mu      sync.Mutex
	entries map[Handle]registryEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[Handle]registryEntry)}
}

// register installs the entry for h unless a different wrapper that is still
// alive already holds it. In that case the existing wrapper is returned with
// ok false and the registry is unchanged.
func (r *registry) register(h Handle, ref weakRef, owner *lifetime) (existing Wrapper, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, found := r.entries[h]; found && old.owner != owner {
		if w := old.ref.value(); w != nil {
			return w, false
		}
	}
	r.entries[h] = registryEntry{ref: ref, owner: owner}
	return nil, true
}

// lookup returns the live wrapper for h. An entry whose wrapper has been
// collected is deleted and reported as a miss.
func (r *registry) lookup(h Handle) (Wrapper, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return nil, false
	}
	w := e.ref.value()
	if w == nil {
		delete(r.entries, h)
		return nil, false
	}
	return w, true
}

// removeOwned is the only way entries leave the registry besides stale
// eviction in lookup. It deletes the entry for h only if owner installed it,
// so a late cleanup of a collected wrapper cannot evict its replacement.
func (r *registry) removeOwned(h Handle, owner *lifetime) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[h]; ok && e.owner == owner {
		delete(r.entries, h)
		return true
	}
	return false
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
