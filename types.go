//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"sync"
)

// Factory builds the wrapper for a handle that has no live wrapper yet. It
// must bind the handle through Attach (with needsRef true). If another wrapper
// registered the handle in the meantime, GetObject returns that one and
// disposes the new wrapper.
type Factory interface {
	CreateObject(b *Bridge, h Handle) (Wrapper, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(b *Bridge, h Handle) (Wrapper, error)

// CreateObject calls f(b, h).
func (f FactoryFunc) CreateObject(b *Bridge, h Handle) (Wrapper, error) {
	return f(b, h)
}

// WrapFunc constructs and attaches the wrapper for one native type.
type WrapFunc func(b *Bridge, h Handle) Wrapper

// TypeMap is the default Factory. It maps native type names to WrapFuncs,
// walks up the native type hierarchy when a type has no entry, and falls back
// to a plain *Object.
type TypeMap struct {
	mu    sync.RWMutex
	wraps map[string]WrapFunc
}

// NewTypeMap returns an empty TypeMap.
func NewTypeMap() *TypeMap {
	return &TypeMap{wraps: make(map[string]WrapFunc)}
}

// Register associates a native type name with its wrapper constructor.
func (m *TypeMap) Register(typeName string, wrap WrapFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wraps[typeName] = wrap
}

// Lookup returns the constructor registered for exactly typeName.
func (m *TypeMap) Lookup(typeName string) (WrapFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wrap, ok := m.wraps[typeName]
	return wrap, ok
}

// CreateObject implements Factory. Handles that are not native objects are
// rejected with a *HandleError.
func (m *TypeMap) CreateObject(b *Bridge, h Handle) (Wrapper, error) {
	if !b.native.IsObject(h) {
		return nil, &HandleError{Handle: h, Err: ErrUnexpectedHandle}
	}

	typeName := b.native.TypeName(h)
	wrap := m.resolve(b.native, typeName)
	if wrap == nil {
		return Attach(b, &Object{}, h, true), nil
	}
	w := wrap(b, h)
	if w == nil || w.GObject().Handle() != h {
		return nil, &HandleError{Handle: h, TypeName: typeName, Err: ErrUnbound}
	}
	return w, nil
}

// attachPlain wraps h in a bare *Object.
func attachPlain(b *Bridge, h Handle) (Wrapper, error) {
	if !b.native.IsObject(h) {
		return nil, &HandleError{Handle: h, Err: ErrUnexpectedHandle}
	}
	return Attach(b, &Object{}, h, true), nil
}

func (m *TypeMap) resolve(native Native, typeName string) WrapFunc {
	hier, _ := native.(TypeHierarchy)
	for name := typeName; name != ""; {
		if wrap, ok := m.Lookup(name); ok {
			return wrap
		}
		if hier == nil {
			break
		}
		name = hier.ParentTypeName(name)
	}
	return nil
}
