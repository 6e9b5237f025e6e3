//go:build !ios && !android && (amd64 || arm64)

package gobject

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gobj/internal/bindings"
)

// LogLevel holds GLogLevelFlags.
type LogLevel uint32

// GLib log level flags.
const (
	LogFlagRecursion LogLevel = 1 << 0
	LogFlagFatal     LogLevel = 1 << 1
	LogLevelError    LogLevel = 1 << 2
	LogLevelCritical LogLevel = 1 << 3
	LogLevelWarning  LogLevel = 1 << 4
	LogLevelMessage  LogLevel = 1 << 5
	LogLevelInfo     LogLevel = 1 << 6
	LogLevelDebug    LogLevel = 1 << 7
)

// String returns the name of the most severe level set in l.
func (l LogLevel) String() string {
	switch {
	case l&LogLevelError != 0:
		return "error"
	case l&LogLevelCritical != 0:
		return "critical"
	case l&LogLevelWarning != 0:
		return "warning"
	case l&LogLevelMessage != 0:
		return "message"
	case l&LogLevelInfo != 0:
		return "info"
	case l&LogLevelDebug != 0:
		return "debug"
	default:
		return "unknown"
	}
}

// LogHandler receives GLib log messages.
type LogHandler func(domain string, level LogLevel, message string)

var (
	gLogSetDefaultHandler func(fn uintptr, data uintptr) uintptr
	gLogDefaultHandler    uintptr

	logHandlerMu sync.Mutex
	logHandler   LogHandler
	logCBHandle  uintptr
)

func registerLogBindings(glib uintptr) {
	purego.RegisterLibFunc(&gLogSetDefaultHandler, glib, "g_log_set_default_handler")
	gLogDefaultHandler, _ = purego.Dlsym(glib, "g_log_default_handler")
}

// SetLogHandler routes GLib's default log handler to h.
// Pass nil to restore g_log_default_handler.
func SetLogHandler(h LogHandler) error {
	if !IsLoaded() {
		return bindings.ErrNotLoaded
	}

	logHandlerMu.Lock()
	defer logHandlerMu.Unlock()

	if h == nil {
		logHandler = nil
		gLogSetDefaultHandler(gLogDefaultHandler, 0)
		return nil
	}

	logHandler = h
	if logCBHandle == 0 {
		logCBHandle = purego.NewCallback(logTrampoline)
	}
	gLogSetDefaultHandler(logCBHandle, 0)
	return nil
}

// logTrampoline is a GLogFunc:
// void (*)(const gchar *domain, GLogLevelFlags level, const gchar *message, gpointer data)
func logTrampoline(domain uintptr, level uint32, message uintptr, _ uintptr) {
	logHandlerMu.Lock()
	h := logHandler
	logHandlerMu.Unlock()

	if h == nil {
		return
	}
	defer func() { _ = recover() }()
	h(goString(domain), LogLevel(level), goString(message))
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	const limit = 1 << 16
	ptr := (*byte)(unsafe.Pointer(p))
	n := 0
	for n < limit && *(*byte)(unsafe.Add(unsafe.Pointer(ptr), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(ptr, n))
}
