//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

// fakeNative is an in-memory reference-counted object model.
type fakeNative struct {
	mu       sync.Mutex
	objects  map[Handle]*fakeObject
	parents  map[string]string
	refs     map[Handle]int
	unrefs   map[Handle]int
	nextAddr Handle

	// onUnref, if set, runs before each unref with the lock released.
	onUnref func(h Handle)
}

type fakeObject struct {
	typeName string
	count    int
	props    map[string]any
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		objects:  make(map[Handle]*fakeObject),
		parents:  make(map[string]string),
		refs:     make(map[Handle]int),
		unrefs:   make(map[Handle]int),
		nextAddr: 0x10000,
	}
}

// add creates a pre-existing native object holding one reference owned by
// native code.
func (f *fakeNative) add(h Handle, typeName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[h] = &fakeObject{typeName: typeName, count: 1, props: make(map[string]any)}
}

func (f *fakeNative) Ref(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[h]++
	if obj, ok := f.objects[h]; ok {
		obj.count++
	}
}

func (f *fakeNative) Unref(h Handle) {
	if f.onUnref != nil {
		f.onUnref(h)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[h]
	if !ok {
		panic(fmt.Sprintf("unref of unknown handle %s", h))
	}
	f.unrefs[h]++
	obj.count--
	if obj.count == 0 {
		delete(f.objects, h)
	}
}

func (f *fakeNative) IsObject(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[h]
	return ok
}

func (f *fakeNative) TypeName(h Handle) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if obj, ok := f.objects[h]; ok {
		return obj.typeName
	}
	return ""
}

func (f *fakeNative) RefCount(h Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if obj, ok := f.objects[h]; ok {
		return obj.count
	}
	return 0
}

func (f *fakeNative) NewObject(typeName string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.nextAddr
	f.nextAddr += 0x100
	f.objects[h] = &fakeObject{typeName: typeName, count: 1, props: make(map[string]any)}
	return h, nil
}

func (f *fakeNative) ParentTypeName(typeName string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parents[typeName]
}

func (f *fakeNative) GetProperty(h Handle, name string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[h]
	if !ok {
		return nil, fmt.Errorf("no object %s", h)
	}
	v, ok := obj.props[name]
	if !ok {
		return nil, fmt.Errorf("unknown property %q", name)
	}
	return v, nil
}

func (f *fakeNative) SetProperty(h Handle, name string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[h]
	if !ok {
		return fmt.Errorf("no object %s", h)
	}
	obj.props[name] = v
	return nil
}

func (f *fakeNative) refCalls(h Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs[h]
}

func (f *fakeNative) unrefCalls(h Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unrefs[h]
}

// manualIdle queues drain callbacks until run is called, standing in for the
// event loop.
type manualIdle struct {
	mu      sync.Mutex
	queued  []func()
	calls   int
	err     error
	running bool
}

func (m *manualIdle) ScheduleIdle(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.calls++
	m.queued = append(m.queued, fn)
	return nil
}

// run executes queued callbacks, including any queued while running, and
// returns how many ran.
func (m *manualIdle) run() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queued) == 0 {
			m.running = false
			m.mu.Unlock()
			return n
		}
		fn := m.queued[0]
		m.queued = m.queued[1:]
		m.running = true
		m.mu.Unlock()

		fn()
		n++
	}
}

func (m *manualIdle) inDrain() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *manualIdle) scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *manualIdle) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// syncBuffer is a bytes.Buffer safe for the GC cleanup goroutine to log into.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(w *syncBuffer) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger()
}

type testBridge struct {
	*Bridge
	native *fakeNative
	idle   *manualIdle
	logs   *syncBuffer
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()
	native := newFakeNative()
	idle := &manualIdle{}
	logs := &syncBuffer{}
	b, err := New(Config{
		Native:    native,
		Scheduler: idle,
		Logger:    newTestLogger(logs),
	})
	require.NoError(t, err)
	return &testBridge{Bridge: b, native: native, idle: idle, logs: logs}
}

// widget is a generated-style wrapper embedding Object.
type widget struct {
	Object
	label string
}

type button struct {
	widget
}
