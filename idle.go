//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	eventloop "github.com/joeycumines/go-eventloop"
	"github.com/obinnaokechukwu/gobj/gobject"
)

// IdleScheduler provides the drain context: ScheduleIdle must arrange for fn
// to run once, later, on a single serialized execution context, and must be
// safe to call from any goroutine without blocking.
type IdleScheduler interface {
	ScheduleIdle(fn func()) error
}

// IdleFunc adapts a function to IdleScheduler.
type IdleFunc func(fn func()) error

// ScheduleIdle calls f(fn).
func (f IdleFunc) ScheduleIdle(fn func()) error {
	return f(fn)
}

// EventLoopScheduler drains on an event loop goroutine. Submission fails
// once the loop has terminated.
func EventLoopScheduler(loop *eventloop.Loop) IdleScheduler {
	return IdleFunc(func(fn func()) error {
		return loop.Submit(func() { fn() })
	})
}

// MainLoopScheduler drains on the default GLib main context via g_idle_add,
// which is the right choice when the application runs a GLib main loop.
func MainLoopScheduler() IdleScheduler {
	return IdleFunc(gobject.IdleAdd)
}
