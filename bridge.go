//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"sync"
)

// Config configures a Bridge.
type Config struct {
	// Native is the object model behind the handles. Required; NewNative
	// returns the libgobject implementation.
	Native Native

	// Scheduler provides the drain context for native unrefs. Required.
	Scheduler IdleScheduler

	// Factory builds wrappers on GetObject misses. Defaults to an empty TypeMap.
	Factory Factory

	// Logger receives bridge diagnostics. Nil disables logging.
	Logger *Logger
}

// Bridge owns the handle registry and the pending-destroy queue for one
// native object model. Create one at startup and share it.
type Bridge struct {
	native    Native
	factory   Factory
	log       *Logger
	rc        *refCounter
	registry  *registry
	finalizer *finalizer

	resolveMu sync.Mutex
	resolving map[resolveKey]int
}

// New validates cfg and returns a ready Bridge.
func New(cfg Config) (*Bridge, error) {
	if cfg.Native == nil {
		return nil, ErrNoNative
	}
	if cfg.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if cfg.Factory == nil {
		cfg.Factory = NewTypeMap()
	}

	rc := &refCounter{native: cfg.Native, log: cfg.Logger}
	return &Bridge{
		native:    cfg.Native,
		factory:   cfg.Factory,
		log:       cfg.Logger,
		rc:        rc,
		registry:  newRegistry(),
		resolving: make(map[resolveKey]int),
		finalizer: &finalizer{
			idle: cfg.Scheduler,
			rc:   rc,
			log:  cfg.Logger,
		},
	}, nil
}

// Factory returns the factory used on GetObject misses.
func (b *Bridge) Factory() Factory {
	return b.factory
}

// Native returns the native object model.
func (b *Bridge) Native() Native {
	return b.native
}

// IsObject reports whether h is a native object this bridge can wrap.
func (b *Bridge) IsObject(h Handle) bool {
	return h != 0 && b.native.IsObject(h)
}

// PendingUnrefs returns the number of torn-down wrappers awaiting a drain.
func (b *Bridge) PendingUnrefs() int {
	return b.finalizer.len()
}

// Stats is a snapshot of bridge counters.
type Stats struct {
	Refs          uint64 // native refs taken
	Unrefs        uint64 // native unrefs completed
	Leaked        uint64 // unrefs that failed and were leaked
	Enqueued      uint64 // teardowns queued
	Drains        uint64 // drain callbacks run
	ScheduleFails uint64 // drain scheduling failures
	Registered    int    // registry entries, live or stale
	Pending       int    // teardowns awaiting a drain
}

// Stats returns current counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Refs:          b.rc.refs.Load(),
		Unrefs:        b.rc.unrefs.Load(),
		Leaked:        b.rc.leaked.Load(),
		Enqueued:      b.finalizer.enqueued.Load(),
		Drains:        b.finalizer.drains.Load(),
		ScheduleFails: b.finalizer.scheduleFails.Load(),
		Registered:    b.registry.len(),
		Pending:       b.finalizer.len(),
	}
}
