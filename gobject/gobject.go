//go:build !ios && !android && (amd64 || arm64)

// Package gobject provides bindings to GLib's libgobject-2.0 object system.
// It covers the reference counting, type queries, construction and property
// access that the gobj lifetime bridge needs, plus the GLib main-loop idle
// source used as a drain context.
//
// Objects are passed as uintptr handles. Nothing in this package tracks
// ownership; that is the job of the gobj package.
package gobject

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gobj/internal/bindings"
	"github.com/obinnaokechukwu/gobj/internal/platform"
)

// GType is a GLib type identifier.
type GType uintptr

// Fundamental type identifiers (G_TYPE_MAKE_FUNDAMENTAL(n) == n << 2).
const (
	TypeInvalid GType = 0
	TypeBoolean GType = 5 << 2
	TypeInt     GType = 6 << 2
	TypeUint    GType = 7 << 2
	TypeLong    GType = 8 << 2
	TypeULong   GType = 9 << 2
	TypeInt64   GType = 10 << 2
	TypeUint64  GType = 11 << 2
	TypeFloat   GType = 14 << 2
	TypeDouble  GType = 15 << 2
	TypeString  GType = 16 << 2
	TypeObject  GType = 20 << 2
)

// Function bindings, registered by Init.
var (
	gObjectRef     func(obj uintptr) uintptr
	gObjectUnref   func(obj uintptr)
	gObjectNewWith func(t GType, n uint32, names, values unsafe.Pointer) uintptr

	gTypeCheckFundamental func(instance uintptr, fundamental GType) int32
	gTypeName             func(t GType) string
	gTypeParent           func(t GType) GType
	gTypeFromName         func(name string) GType
	gTypeFundamental      func(t GType) GType

	regMu              sync.Mutex
	bindingsRegistered bool
)

// Init loads GLib and registers all function bindings.
// It is safe to call multiple times.
func Init() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	registerBindings()
	return nil
}

// IsLoaded returns true if GLib has been loaded and bindings registered.
func IsLoaded() bool {
	return bindings.IsLoaded() && bindingsRegistered
}

// Version returns the runtime GLib version.
func Version() (major, minor, micro uint32) {
	return bindings.GLibVersion()
}

func registerBindings() {
	regMu.Lock()
	defer regMu.Unlock()

	if bindingsRegistered {
		return
	}

	lib := bindings.LibGObject()
	glib := bindings.LibGLib()
	if lib == 0 || glib == 0 {
		return
	}

	purego.RegisterLibFunc(&gObjectRef, lib, "g_object_ref")
	purego.RegisterLibFunc(&gObjectUnref, lib, "g_object_unref")
	purego.RegisterLibFunc(&gObjectNewWith, lib, "g_object_new_with_properties")

	purego.RegisterLibFunc(&gTypeCheckFundamental, lib, "g_type_check_instance_is_fundamentally_a")
	purego.RegisterLibFunc(&gTypeName, lib, "g_type_name")
	purego.RegisterLibFunc(&gTypeParent, lib, "g_type_parent")
	purego.RegisterLibFunc(&gTypeFromName, lib, "g_type_from_name")
	purego.RegisterLibFunc(&gTypeFundamental, lib, "g_type_fundamental")

	registerValueBindings(lib)
	registerMainLoopBindings(glib)

	bindingsRegistered = true
}

// Ref increments the reference count of obj. A zero handle is ignored.
func Ref(obj uintptr) {
	if obj == 0 || gObjectRef == nil {
		return
	}
	gObjectRef(obj)
}

// Unref decrements the reference count of obj, finalizing it when the count
// reaches zero. A zero handle is ignored.
func Unref(obj uintptr) {
	if obj == 0 || gObjectUnref == nil {
		return
	}
	gObjectUnref(obj)
}

// IsObject reports whether obj is an instance of a GObject-derived type.
// obj must be zero or a valid GTypeInstance pointer.
func IsObject(obj uintptr) bool {
	if obj == 0 || gTypeCheckFundamental == nil {
		return false
	}
	return gTypeCheckFundamental(obj, TypeObject) != 0
}

// TypeOf returns the runtime type of obj (G_OBJECT_TYPE).
func TypeOf(obj uintptr) GType {
	if obj == 0 {
		return TypeInvalid
	}
	// GTypeInstance.g_class -> GTypeClass.g_type
	class := *(*uintptr)(unsafe.Pointer(obj))
	if class == 0 {
		return TypeInvalid
	}
	return *(*GType)(unsafe.Pointer(class))
}

// TypeName returns the registered name of t, or "" if unknown.
func TypeName(t GType) string {
	if t == TypeInvalid || gTypeName == nil {
		return ""
	}
	return gTypeName(t)
}

// TypeParent returns the parent of t, or TypeInvalid for fundamental types.
func TypeParent(t GType) GType {
	if t == TypeInvalid || gTypeParent == nil {
		return TypeInvalid
	}
	return gTypeParent(t)
}

// TypeFromName looks up a type by name. It returns TypeInvalid for
// types that have not been registered yet.
func TypeFromName(name string) GType {
	if name == "" || gTypeFromName == nil {
		return TypeInvalid
	}
	return gTypeFromName(name)
}

// RefCount reads GObject.ref_count. The value is racy by nature and is only
// meant for diagnostics and tests.
func RefCount(obj uintptr) int {
	if obj == 0 {
		return 0
	}
	return int(*(*uint32)(unsafe.Pointer(obj + platform.RefCountOffset)))
}

// New creates a new instance of t with default properties and returns it
// owning the initial reference. Returns 0 if t is not instantiable.
func New(t GType) uintptr {
	if t == TypeInvalid || gObjectNewWith == nil {
		return 0
	}
	return gObjectNewWith(t, 0, nil, nil)
}
