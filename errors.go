//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"errors"
	"fmt"

	"github.com/obinnaokechukwu/gobj/internal/bindings"
)

// Common errors
var (
	// ErrNotLoaded indicates the GLib libraries are not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrNoNative indicates a Config without a native object model.
	ErrNoNative = errors.New("gobj: config has no native object model")

	// ErrNoScheduler indicates a Config without an idle scheduler.
	ErrNoScheduler = errors.New("gobj: config has no idle scheduler")

	// ErrUnexpectedHandle indicates a handle that is not an instance of any
	// type this bridge can wrap.
	ErrUnexpectedHandle = errors.New("gobj: unexpected native handle")

	// ErrUnbound indicates a wrapper constructor that did not attach its
	// wrapper to the requested handle.
	ErrUnbound = errors.New("gobj: wrapper constructor did not attach the handle")

	// ErrWrongType indicates the wrapper for a handle is not of the requested Go type.
	ErrWrongType = errors.New("gobj: wrapper has unexpected type")

	// ErrDisposed indicates the wrapper has been torn down.
	ErrDisposed = errors.New("gobj: object is disposed")

	// ErrNotConstructible indicates the native model cannot create new objects.
	ErrNotConstructible = errors.New("gobj: native model cannot construct objects")

	// ErrNoProperties indicates the native model has no property support.
	ErrNoProperties = errors.New("gobj: native model has no property support")
)

// HandleError reports a handle that could not be wrapped.
type HandleError struct {
	Handle Handle
	// TypeName is empty when h is not a native object, since its type
	// cannot be read safely.
	TypeName string
	Err      error
}

func (e *HandleError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("%v: %s (type %s)", e.Err, e.Handle, e.TypeName)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Handle)
}

func (e *HandleError) Unwrap() error {
	return e.Err
}
