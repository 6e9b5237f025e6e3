// Package handles provides a thread-safe table for Go values that native code
// refers to by number.
//
// GLib callbacks carry a gpointer user_data argument. A Go pointer cannot be
// stored there, so the value is registered here and the returned uintptr is
// passed instead. One-shot callbacks (idle sources) use Take, which looks the
// value up and releases it in one step.
package handles

import (
	"sync"
)

// Table maps non-zero uintptr identifiers to values of type T.
// The zero value is not usable; use New.
type Table[T any] struct {
	mu     sync.RWMutex
	values map[uintptr]T
	nextID uintptr
}

// New returns an empty table. Identifiers start at 1 so that 0 can be passed
// to native code as "no data".
func New[T any]() *Table[T] {
	return &Table[T]{
		values: make(map[uintptr]T),
		nextID: 1,
	}
}

// Register stores v and returns its identifier.
// The value stays reachable until Unregister or Take is called.
func (t *Table[T]) Register(v T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.values[id] = v
	return id
}

// Lookup retrieves a value by identifier.
func (t *Table[T]) Lookup(id uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Take retrieves and removes a value.
func (t *Table[T]) Take(id uintptr) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[id]
	if ok {
		delete(t.values, id)
	}
	return v, ok
}

// Unregister removes a value so it can be garbage collected.
func (t *Table[T]) Unregister(id uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, id)
}

// Len returns the number of registered values.
// Useful for debugging and testing leaks.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}
