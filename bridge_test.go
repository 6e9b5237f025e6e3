//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Scheduler: &manualIdle{}})
	assert.ErrorIs(t, err, ErrNoNative)

	_, err = New(Config{Native: newFakeNative()})
	assert.ErrorIs(t, err, ErrNoScheduler)

	b, err := New(Config{Native: newFakeNative(), Scheduler: &manualIdle{}})
	require.NoError(t, err)
	assert.IsType(t, &TypeMap{}, b.Factory())
}

func TestNew_NilLogger(t *testing.T) {
	native := newFakeNative()
	native.add(0x100, "GObject")
	idle := &manualIdle{}
	b, err := New(Config{Native: native, Scheduler: idle})
	require.NoError(t, err)

	// every log path must tolerate a nil logger
	Attach(b, &widget{}, 0x100, true)
	Attach(b, &widget{}, 0x100, true).Dispose()
	idle.setErr(assert.AnError)
	w, err := b.GetObject(0x100)
	require.NoError(t, err)
	w.GObject().Dispose()
	_, err = b.GetObject(0xbad)
	assert.Error(t, err)
}

func TestBridge_IsObject(t *testing.T) {
	tb := newTestBridge(t)
	tb.native.add(0x200, "GObject")
	assert.True(t, tb.IsObject(0x200))
	assert.False(t, tb.IsObject(0x300))
	assert.False(t, tb.IsObject(0))
	assert.Same(t, tb.native, tb.Native())
}

func TestBridge_Stats(t *testing.T) {
	tb := newTestBridge(t)
	tb.native.add(0x400, "GObject")
	tb.native.add(0x500, "GObject")

	a := Attach(tb.Bridge, &widget{}, 0x400, true)
	c, err := Create(tb.Bridge, &widget{}, "GObject")
	require.NoError(t, err)
	resolved, err := tb.GetObject(0x500)
	require.NoError(t, err)
	defer runtime.KeepAlive(resolved)

	s := tb.Stats()
	assert.Equal(t, uint64(2), s.Refs)
	assert.Equal(t, 3, s.Registered)

	a.Dispose()
	c.Dispose()
	s = tb.Stats()
	assert.Equal(t, uint64(2), s.Enqueued)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.Registered)

	tb.idle.run()
	s = tb.Stats()
	assert.Equal(t, uint64(2), s.Unrefs)
	assert.Equal(t, uint64(1), s.Drains)
	assert.Equal(t, 0, s.Pending)
}

func TestHandle_String(t *testing.T) {
	assert.Equal(t, "0x1000", Handle(0x1000).String())
	assert.Equal(t, "0x0", Handle(0).String())
}

func TestHandleError(t *testing.T) {
	err := &HandleError{Handle: 0x10, TypeName: "GtkLabel", Err: ErrUnexpectedHandle}
	assert.ErrorIs(t, err, ErrUnexpectedHandle)
	assert.Contains(t, err.Error(), "0x10")
	assert.Contains(t, err.Error(), "GtkLabel")
}
