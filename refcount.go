//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// refCounter is the only code that crosses into native reference counting.
type refCounter struct {
	native Native
	log    *logiface.Logger[logiface.Event]

	refs   atomic.Uint64
	unrefs atomic.Uint64
	leaked atomic.Uint64
}

func (r *refCounter) ref(h Handle) {
	if h == 0 {
		return
	}
	r.native.Ref(h)
	r.refs.Add(1)
}

// unref releases one reference. A failing native call leaks the reference
// instead of propagating.
func (r *refCounter) unref(h Handle) {
	if h == 0 {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.leaked.Add(1)
			r.log.Err().
				Str("handle", h.String()).
				Any("panic", p).
				Log("native unref failed, leaking reference")
		}
	}()
	r.native.Unref(h)
	r.unrefs.Add(1)
}
