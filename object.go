//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// Wrapper states. Transitions are monotonic.
const (
	stateLive int32 = iota
	stateDisposed
	stateUnreffed
)

// lifetime is the part of a wrapper that outlives it: the GC cleanup and the
// pending-destroy queue hold the lifetime, never the wrapper itself.
type lifetime struct {
	bridge *Bridge
	ref    weakRef
	handle atomic.Uintptr
	state  atomic.Int32
}

// teardown is shared by Dispose and the GC cleanup. Only the first call does
// anything; it may run on any goroutine.
func (l *lifetime) teardown() {
	if !l.state.CompareAndSwap(stateLive, stateDisposed) {
		return
	}
	h := Handle(l.handle.Load())
	if h != 0 {
		l.bridge.registry.removeOwned(h, l)
	}
	l.handle.Store(0)
	l.bridge.finalizer.enqueue(l, h)
}

// Object is the base of every wrapper. Embed it by value in generated types;
// it must not be copied after Attach.
type Object struct {
	life    *lifetime
	cleanup runtime.Cleanup

	dataMu sync.Mutex
	data   map[string]any
}

// GObject returns o, making *Object itself a Wrapper.
func (o *Object) GObject() *Object {
	return o
}

// Attach binds w to the native object h and registers it as the wrapper for
// h, unless another live wrapper is already registered for h; w is then bound
// but unregistered and is released normally. If needsRef is true the wrapper takes its own reference; pass false when
// the caller hands over a reference it already owns (a freshly created
// object). Attach with a zero handle returns w unbound.
//
// Attach panics if w is already bound.
func Attach[T any, P interface {
	*T
	Wrapper
}](b *Bridge, w P, h Handle, needsRef bool) P {
	o := w.GObject()
	if o.life != nil {
		panic("gobj: wrapper is already attached")
	}

	l := &lifetime{bridge: b}
	o.life = l
	if h == 0 {
		return w
	}
	l.handle.Store(uintptr(h))

	if needsRef {
		b.rc.ref(h)
	}

	ref := weakWrapper[T, P]{p: weak.Make((*T)(w))}
	l.ref = ref
	if existing, ok := b.registry.register(h, ref, l); !ok {
		b.log.Debug().
			Str("handle", h.String()).
			Str("existing", fmt.Sprintf("%T", existing)).
			Log("handle already has a live wrapper, new wrapper not registered")
	}

	o.cleanup = runtime.AddCleanup((*T)(w), (*lifetime).teardown, l)
	return w
}

// Create makes a new native object of the named type and attaches w to it.
// The wrapper adopts the initial reference, so no extra ref is taken.
func Create[T any, P interface {
	*T
	Wrapper
}](b *Bridge, w P, typeName string) (P, error) {
	c, ok := b.native.(Constructor)
	if !ok {
		return nil, ErrNotConstructible
	}
	h, err := c.NewObject(typeName)
	if err != nil {
		return nil, err
	}
	return Attach(b, w, h, false), nil
}

// Handle returns the native handle, or zero once the object is disposed.
func (o *Object) Handle() Handle {
	if o == nil || o.life == nil {
		return 0
	}
	return Handle(o.life.handle.Load())
}

// Bridge returns the bridge the object is attached to.
func (o *Object) Bridge() *Bridge {
	if o == nil || o.life == nil {
		return nil
	}
	return o.life.bridge
}

// Dispose releases the wrapper's native reference. The handle is cleared and
// unregistered immediately; the native unref happens on the drain context.
// Calling Dispose more than once is a no-op.
func (o *Object) Dispose() {
	if o == nil || o.life == nil {
		return
	}
	o.cleanup.Stop()
	o.life.teardown()
}

// IsDisposed reports whether teardown has started.
func (o *Object) IsDisposed() bool {
	return o != nil && o.life != nil && o.life.state.Load() != stateLive
}

// Ref increments the native reference count.
// For use by generated code; a disposed object is ignored.
func (o *Object) Ref() {
	if h := o.Handle(); h != 0 {
		o.life.bridge.rc.ref(h)
	}
}

// Unref decrements the native reference count.
// For use by generated code; must only be called on the drain context.
func (o *Object) Unref() {
	if h := o.Handle(); h != 0 {
		o.life.bridge.rc.unref(h)
	}
}

// RefCount returns the native reference count, or 0 once disposed.
func (o *Object) RefCount() int {
	h := o.Handle()
	if h == 0 {
		return 0
	}
	return o.life.bridge.native.RefCount(h)
}

// TypeName returns the native runtime type name, or "" once disposed.
func (o *Object) TypeName() string {
	h := o.Handle()
	if h == 0 {
		return ""
	}
	return o.life.bridge.native.TypeName(h)
}

// GetData returns the value stored under key, or nil.
func (o *Object) GetData(key string) any {
	o.dataMu.Lock()
	defer o.dataMu.Unlock()
	return o.data[key]
}

// SetData stores arbitrary Go data on the wrapper. The store lives and dies
// with the wrapper, not the native object.
func (o *Object) SetData(key string, val any) {
	o.dataMu.Lock()
	defer o.dataMu.Unlock()
	if o.data == nil {
		o.data = make(map[string]any)
	}
	o.data[key] = val
}

// GetProperty reads a native property.
func (o *Object) GetProperty(name string) (any, error) {
	h := o.Handle()
	if h == 0 {
		return nil, ErrDisposed
	}
	pa, ok := o.life.bridge.native.(PropertyAccessor)
	if !ok {
		return nil, ErrNoProperties
	}
	return pa.GetProperty(h, name)
}

// SetProperty writes a native property.
func (o *Object) SetProperty(name string, val any) error {
	h := o.Handle()
	if h == 0 {
		return ErrDisposed
	}
	pa, ok := o.life.bridge.native.(PropertyAccessor)
	if !ok {
		return ErrNoProperties
	}
	return pa.SetProperty(h, name, val)
}

func (o *Object) String() string {
	h := o.Handle()
	if h == 0 {
		return "gobj.Object(nil)"
	}
	name := o.life.bridge.native.TypeName(h)
	if name == "" {
		name = "gobj.Object"
	}
	return fmt.Sprintf("%s(%s)", name, h)
}
