//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the GLib and GObject shared libraries with
// purego. Function bindings are registered by the gobject package once the
// libraries are open.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gobj/internal/platform"
)

// ErrNotLoaded is returned when GObject functions are called before Load().
var ErrNotLoaded = errors.New("gobj: GLib libraries not loaded; call gobject.Init() first")

// ErrLibraryNotFound is returned when a required GLib library cannot be found.
var ErrLibraryNotFound = errors.New("gobj: GLib library not found")

// LibDirEnv names an optional directory searched before everything else.
const LibDirEnv = "GOBJ_LIB_DIR"

// glibVersions are the soname versions tried, most specific first.
var glibVersions = []int{0}

// Library handles
var (
	libGLib    uintptr
	libGObject uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// IsLoaded returns true if the GLib libraries have been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load opens libglib-2.0 and libgobject-2.0.
// It is safe to call multiple times; subsequent calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error

	// glib first: gobject links against it and RTLD_GLOBAL exposes its
	// symbols to everything opened afterwards.
	libGLib, err = loadLibrary("glib-2.0", glibVersions)
	if err != nil {
		return fmt.Errorf("loading libglib: %w", err)
	}

	libGObject, err = loadLibrary("gobject-2.0", glibVersions)
	if err != nil {
		return fmt.Errorf("loading libgobject: %w", err)
	}

	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			lib, err := tryOpen(filepath.Join(searchPath, platform.FormatLibraryName(name, ver)))
			if err == nil {
				return lib, nil
			}
		}

		lib, err := tryOpen(filepath.Join(searchPath, platform.FormatLibraryName(name, platform.Unversioned)))
		if err == nil {
			return lib, nil
		}
	}

	// Let the dynamic loader resolve the bare names.
	for _, ver := range versions {
		lib, err := tryOpen(platform.FormatLibraryName(name, ver))
		if err == nil {
			return lib, nil
		}
	}

	lib, err := tryOpen(platform.FormatLibraryName(name, platform.Unversioned))
	if err == nil {
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for a library and returns its full path.
// This is useful for diagnostics.
func FindLibrary(name string, versions []int) (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name, ver))
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
		fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name, platform.Unversioned))
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	if dir := os.Getenv(LibDirEnv); dir != "" {
		paths = append(paths, dir)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib64",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",          // Apple Silicon
			"/usr/local/lib",             // Intel
			"/opt/homebrew/opt/glib/lib", // Homebrew glib
			"/usr/local/opt/glib/lib",    // Homebrew glib (Intel)
			"/Library/Frameworks/GTK+.framework/Libraries",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths,
			"C:\\msys64\\mingw64\\bin",
			"C:\\gtk\\bin",
		)

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// GLibVersion returns the runtime GLib version, read from the exported
// glib_major_version, glib_minor_version and glib_micro_version variables.
// Returns zeros if the libraries are not loaded.
func GLibVersion() (major, minor, micro uint32) {
	if !loaded {
		return 0, 0, 0
	}
	return readUint32(libGLib, "glib_major_version"),
		readUint32(libGLib, "glib_minor_version"),
		readUint32(libGLib, "glib_micro_version")
}

func readUint32(lib uintptr, symbol string) uint32 {
	addr, err := purego.Dlsym(lib, symbol)
	if err != nil || addr == 0 {
		return 0
	}
	return *(*uint32)(unsafe.Pointer(addr))
}

// LibGLib returns the glib library handle.
func LibGLib() uintptr {
	return libGLib
}

// LibGObject returns the gobject library handle.
func LibGObject() uintptr {
	return libGObject
}
