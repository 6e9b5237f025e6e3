//go:build !ios && !android && (amd64 || arm64)

package gobj

import (
	"fmt"

	"github.com/obinnaokechukwu/gobj/gobject"
)

// Native is the manually reference-counted object model behind the handles.
// Only the bridge's reference-count adapter calls Ref and Unref.
type Native interface {
	// Ref increments the reference count of h.
	Ref(h Handle)

	// Unref decrements the reference count of h.
	Unref(h Handle)

	// IsObject reports whether h is an instance of a type the bridge wraps.
	IsObject(h Handle) bool

	// TypeName returns the runtime type name of h.
	TypeName(h Handle) string

	// RefCount returns the current reference count of h, for diagnostics.
	RefCount(h Handle) int
}

// Constructor is implemented by native models that can create new objects.
// The returned handle owns the initial reference.
type Constructor interface {
	NewObject(typeName string) (Handle, error)
}

// TypeHierarchy is implemented by native models that expose type ancestry.
type TypeHierarchy interface {
	// ParentTypeName returns the parent of the named type, or "" at the root.
	ParentTypeName(typeName string) string
}

// PropertyAccessor is implemented by native models with named properties.
type PropertyAccessor interface {
	GetProperty(h Handle, name string) (any, error)
	SetProperty(h Handle, name string, v any) error
}

// glibNative is the libgobject implementation of Native.
type glibNative struct{}

// NewNative loads GLib and returns the libgobject-backed native model.
func NewNative() (Native, error) {
	if err := gobject.Init(); err != nil {
		return nil, err
	}
	return glibNative{}, nil
}

func (glibNative) Ref(h Handle)   { gobject.Ref(uintptr(h)) }
func (glibNative) Unref(h Handle) { gobject.Unref(uintptr(h)) }

func (glibNative) IsObject(h Handle) bool { return gobject.IsObject(uintptr(h)) }

func (glibNative) TypeName(h Handle) string {
	return gobject.TypeName(gobject.TypeOf(uintptr(h)))
}

func (glibNative) RefCount(h Handle) int { return gobject.RefCount(uintptr(h)) }

func (glibNative) NewObject(typeName string) (Handle, error) {
	t := gobject.TypeFromName(typeName)
	if t == gobject.TypeInvalid {
		return 0, fmt.Errorf("%w: unknown type %q", ErrNotConstructible, typeName)
	}
	h := gobject.New(t)
	if h == 0 {
		return 0, fmt.Errorf("%w: %q is not instantiable", ErrNotConstructible, typeName)
	}
	return Handle(h), nil
}

func (glibNative) ParentTypeName(typeName string) string {
	return gobject.TypeName(gobject.TypeParent(gobject.TypeFromName(typeName)))
}

func (glibNative) GetProperty(h Handle, name string) (any, error) {
	v, err := gobject.GetProperty(uintptr(h), name)
	if err != nil {
		return nil, err
	}
	if obj, ok := v.(uintptr); ok {
		return Handle(obj), nil
	}
	return v, nil
}

func (glibNative) SetProperty(h Handle, name string, v any) error {
	if obj, ok := v.(Handle); ok {
		v = uintptr(obj)
	}
	return gobject.SetProperty(uintptr(h), name, v)
}
