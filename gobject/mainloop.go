//go:build !ios && !android && (amd64 || arm64)

package gobject

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gobj/internal/bindings"
	"github.com/obinnaokechukwu/gobj/internal/handles"
)

const (
	sourceRemove = 0 // G_SOURCE_REMOVE
)

var (
	gIdleAdd               func(fn uintptr, data uintptr) uint32
	gMainContextIteration  func(ctx uintptr, mayBlock int32) int32
	gMainContextPending    func(ctx uintptr) int32
	gMainContextIsOwner    func(ctx uintptr) int32
	gMainContextDefaultPtr func() uintptr

	idleCallbacks = handles.New[func()]()

	// purego callbacks are a finite resource; one trampoline serves every
	// idle source and the user_data picks the Go function.
	idleTrampolineOnce sync.Once
	idleTrampoline     uintptr
)

func registerMainLoopBindings(glib uintptr) {
	purego.RegisterLibFunc(&gIdleAdd, glib, "g_idle_add")
	purego.RegisterLibFunc(&gMainContextIteration, glib, "g_main_context_iteration")
	purego.RegisterLibFunc(&gMainContextPending, glib, "g_main_context_pending")
	purego.RegisterLibFunc(&gMainContextIsOwner, glib, "g_main_context_is_owner")
	purego.RegisterLibFunc(&gMainContextDefaultPtr, glib, "g_main_context_default")
	registerLogBindings(glib)
}

// IdleAdd schedules fn to run once on the default GLib main context at idle
// priority. It may be called from any goroutine.
func IdleAdd(fn func()) error {
	if !IsLoaded() {
		return bindings.ErrNotLoaded
	}
	idleTrampolineOnce.Do(func() {
		idleTrampoline = purego.NewCallback(idleCallback)
	})
	id := idleCallbacks.Register(fn)
	gIdleAdd(idleTrampoline, id)
	return nil
}

// idleCallback is a GSourceFunc: gboolean (*)(gpointer user_data).
func idleCallback(data uintptr) uintptr {
	fn, ok := idleCallbacks.Take(data)
	if !ok || fn == nil {
		return sourceRemove
	}
	// a panic must not unwind through the GLib main loop
	defer func() { _ = recover() }()
	fn()
	return sourceRemove
}

// PendingIdle returns the number of idle callbacks that have been added but
// not yet dispatched.
func PendingIdle() int {
	return idleCallbacks.Len()
}

// Iterate runs a single iteration of the default main context and reports
// whether any source was dispatched.
func Iterate(mayBlock bool) bool {
	if gMainContextIteration == nil {
		return false
	}
	var b int32
	if mayBlock {
		b = 1
	}
	return gMainContextIteration(0, b) != 0
}

// Pending reports whether the default main context has sources ready.
func Pending() bool {
	if gMainContextPending == nil {
		return false
	}
	return gMainContextPending(0) != 0
}

// IsMainContextOwner reports whether the calling thread owns the default main
// context.
func IsMainContextOwner() bool {
	if gMainContextIsOwner == nil || gMainContextDefaultPtr == nil {
		return false
	}
	return gMainContextIsOwner(gMainContextDefaultPtr()) != 0
}
