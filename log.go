//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"github.com/joeycumines/logiface"
	"github.com/obinnaokechukwu/gobj/gobject"
)

// Logger is the structured logger type used by the bridge. A nil *Logger
// discards everything.
type Logger = logiface.Logger[logiface.Event]

// ForwardGLibLogs installs a GLib default log handler that writes every GLib
// message to logger. Pass nil to restore GLib's own handler.
func ForwardGLibLogs(logger *Logger) error {
	if logger == nil {
		return gobject.SetLogHandler(nil)
	}
	return gobject.SetLogHandler(func(domain string, level gobject.LogLevel, message string) {
		logger.Build(glibLevel(level)).
			Str("domain", domain).
			Str("glib_level", level.String()).
			Log(message)
	})
}

func glibLevel(level gobject.LogLevel) logiface.Level {
	switch {
	case level&gobject.LogLevelError != 0:
		return logiface.LevelCritical
	case level&gobject.LogLevelCritical != 0:
		return logiface.LevelError
	case level&gobject.LogLevelWarning != 0:
		return logiface.LevelWarning
	case level&gobject.LogLevelMessage != 0:
		return logiface.LevelNotice
	case level&gobject.LogLevelInfo != 0:
		return logiface.LevelInformational
	default:
		return logiface.LevelDebug
	}
}
