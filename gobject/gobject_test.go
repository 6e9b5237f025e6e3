//go:build !ios && !android && (amd64 || arm64)

package gobject

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func requireGLib(t *testing.T) {
	t.Helper()
	if err := Init(); err != nil {
		t.Skipf("GLib not available: %v", err)
	}
}

func TestNewRefUnref(t *testing.T) {
	requireGLib(t)

	objType := TypeFromName("GObject")
	if objType != TypeObject {
		t.Fatalf("TypeFromName(GObject) = %d, want %d", objType, TypeObject)
	}

	obj := New(objType)
	if obj == 0 {
		t.Fatal("New returned a nil object")
	}
	if !IsObject(obj) {
		t.Fatal("IsObject should be true for a new GObject")
	}
	if got := RefCount(obj); got != 1 {
		t.Fatalf("new object ref_count = %d, want 1", got)
	}

	Ref(obj)
	if got := RefCount(obj); got != 2 {
		t.Fatalf("ref_count after Ref = %d, want 2", got)
	}
	Unref(obj)
	if got := RefCount(obj); got != 1 {
		t.Fatalf("ref_count after Unref = %d, want 1", got)
	}

	if name := TypeName(TypeOf(obj)); name != "GObject" {
		t.Errorf("TypeName = %q, want GObject", name)
	}
	if TypeParent(TypeObject) != TypeInvalid {
		t.Errorf("GObject is fundamental and has no parent")
	}

	Unref(obj)
}

func TestZeroHandleIsNoop(t *testing.T) {
	requireGLib(t)

	Ref(0)
	Unref(0)
	if IsObject(0) {
		t.Error("IsObject(0) should be false")
	}
	if RefCount(0) != 0 {
		t.Error("RefCount(0) should be 0")
	}
	if TypeOf(0) != TypeInvalid {
		t.Error("TypeOf(0) should be TypeInvalid")
	}
}

func TestUnknownProperty(t *testing.T) {
	requireGLib(t)

	obj := New(TypeObject)
	defer Unref(obj)

	_, err := GetProperty(obj, "no-such-property")
	if !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
	if err := SetProperty(obj, "no-such-property", 1); !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestIdleAdd(t *testing.T) {
	requireGLib(t)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if err := IdleAdd(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("IdleAdd: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for PendingIdle() > 0 && time.Now().Before(deadline) {
		Iterate(false)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 {
		t.Fatalf("expected 3 idle callbacks, got %v", order)
	}
}

func TestSetLogHandler(t *testing.T) {
	requireGLib(t)

	var mu sync.Mutex
	var messages []string
	if err := SetLogHandler(func(domain string, level LogLevel, message string) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, domain+" "+level.String()+" "+message)
	}); err != nil {
		t.Fatalf("SetLogHandler: %v", err)
	}
	defer SetLogHandler(nil)

	// A non-object type trips a g_return_val_if_fail critical.
	if obj := New(TypeInt); obj != 0 {
		t.Fatalf("New(TypeInt) should fail, got %#x", obj)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(messages) == 0 {
		t.Skip("GLib did not route the critical through the default handler")
	}
	if !strings.Contains(messages[0], "critical") {
		t.Errorf("expected a critical message, got %q", messages[0])
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelError | LogFlagFatal, "error"},
		{LogLevelCritical, "critical"},
		{LogLevelWarning, "warning"},
		{LogLevelMessage, "message"},
		{LogLevelInfo, "info"},
		{LogLevelDebug, "debug"},
		{LogFlagRecursion, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
