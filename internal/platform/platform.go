//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and library naming for gobj.
// It knows how GLib names its shared libraries on each operating system and
// the layout facts that the bindings rely on when reading GObject instances.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// gobj only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// PointerSize is the size in bytes of a native pointer (and of a GType).
const PointerSize = unsafe.Sizeof(uintptr(0))

// RefCountOffset is the byte offset of GObject.ref_count. A GObject starts
// with a GTypeInstance, which is a single GTypeClass pointer.
const RefCountOffset = PointerSize

// Unversioned may be passed to FormatLibraryName to request the bare
// development name of a library (e.g. libgobject-2.0.so).
const Unversioned = -1

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// GLib libraries carry a soname version of 0, so version 0 is a real version;
// pass Unversioned for the bare name.
//
// Examples:
//   - Linux:   FormatLibraryName("gobject-2.0", 0) -> "libgobject-2.0.so.0"
//   - macOS:   FormatLibraryName("gobject-2.0", 0) -> "libgobject-2.0.0.dylib"
//   - Windows: FormatLibraryName("gobject-2.0", 0) -> "gobject-2.0-0.dll"
func FormatLibraryName(name string, version int) string {
	if version < 0 {
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
	switch runtime.GOOS {
	case "darwin":
		return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
	case "windows":
		return fmt.Sprintf("%s%s-%d%s", LibraryPrefix, name, version, LibraryExtension)
	default: // linux, freebsd
		return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}
