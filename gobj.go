//go:build !ios && !android && (amd64 || arm64)

// Package gobj is a lifetime bridge between Go values and GObject instances.
//
// Native objects are reached through opaque Handles. A Bridge guarantees that
// at most one live Go wrapper exists per handle, that each wrapper takes and
// releases its native reference exactly once, and that every release happens
// on a single drain context (a GLib idle callback or an event loop) rather
// than on whatever goroutine noticed the wrapper was gone.
//
// Generated wrapper types embed Object and are bound to a handle with Attach
// (existing native object) or Create (new native object):
//
//	type Widget struct {
//		gobj.Object
//	}
//
//	w := gobj.Attach(bridge, &Widget{}, h, true)
//
// Wrappers are released either explicitly with Dispose or by the garbage
// collector; both paths converge on the same idempotent teardown.
package gobj

import "fmt"

// Handle is an opaque pointer to a native object. Zero is the null handle.
type Handle uintptr

// String formats the handle as a hex address.
func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uintptr(h))
}

// Wrapper is implemented by every Go value representing a native object.
// Types that embed Object satisfy it automatically.
type Wrapper interface {
	GObject() *Object
}
