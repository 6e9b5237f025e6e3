//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// pendingUnref is a torn-down wrapper waiting for its native release.
type pendingUnref struct {
	life   *lifetime
	handle Handle
}

// finalizer funnels native unrefs from any goroutine onto the drain context.
//
// enqueue may run on the GC cleanup goroutine, so it only appends under mu
// and, at most once per batch, asks the idle scheduler for a drain.
type finalizer struct {
	mu        sync.Mutex
	pending   []pendingUnref
	scheduled bool

	idle IdleScheduler
	rc   *refCounter
	log  *logiface.Logger[logiface.Event]

	enqueued      atomic.Uint64
	drains        atomic.Uint64
	scheduleFails atomic.Uint64
}

func (f *finalizer) enqueue(l *lifetime, h Handle) {
	f.mu.Lock()
	f.pending = append(f.pending, pendingUnref{life: l, handle: h})
	schedule := !f.scheduled
	f.scheduled = true
	f.mu.Unlock()

	f.enqueued.Add(1)

	if schedule {
		f.schedule()
	}
}

// schedule requests one drain. On failure the flag is cleared so the next
// enqueue retries; the pending entries are kept, never unreffed off-context.
func (f *finalizer) schedule() {
	err := f.idle.ScheduleIdle(f.drain)
	if err == nil {
		return
	}

	f.mu.Lock()
	f.scheduled = false
	n := len(f.pending)
	f.mu.Unlock()

	f.scheduleFails.Add(1)
	f.log.Warning().
		Err(err).
		Int("pending", n).
		Log("failed to schedule drain, native references held until next enqueue")
}

// drain runs on the drain context only.
func (f *finalizer) drain() {
	f.mu.Lock()
	batch := f.pending
	f.pending = nil
	f.scheduled = false
	f.mu.Unlock()

	f.drains.Add(1)

	var released int
	for _, p := range batch {
		if p.handle == 0 {
			continue
		}
		f.rc.unref(p.handle)
		p.life.state.Store(stateUnreffed)
		released++
	}

	f.log.Debug().
		Int("batch", len(batch)).
		Int("released", released).
		Log("drained pending unrefs")
}

func (f *finalizer) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
