//go:build !ios && !android && (amd64 || arm64)

package gobject

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gobj/internal/bindings"
	"github.com/obinnaokechukwu/gobj/internal/platform"
)

var (
	// ErrUnknownProperty is returned when the object class has no such property.
	ErrUnknownProperty = errors.New("gobj: unknown property")

	// ErrUnsupportedType is returned when a property type cannot be marshaled.
	ErrUnsupportedType = errors.New("gobj: unsupported property type")
)

const (
	typeEnum  GType = 12 << 2
	typeFlags GType = 13 << 2
)

// value mirrors GValue: a GType followed by two 64-bit data words.
type value struct {
	gType GType
	data  [2]uint64
}

var (
	gObjectClassFindProperty func(class uintptr, name string) uintptr
	gObjectGetProperty       func(obj uintptr, name string, v *value)
	gObjectSetProperty       func(obj uintptr, name string, v *value)

	gValueInit  func(v *value, t GType) *value
	gValueUnset func(v *value)

	gValueGetBoolean func(v *value) int32
	gValueSetBoolean func(v *value, b int32)
	gValueGetInt     func(v *value) int32
	gValueSetInt     func(v *value, i int32)
	gValueGetUint    func(v *value) uint32
	gValueSetUint    func(v *value, u uint32)
	gValueGetLong    func(v *value) int64
	gValueSetLong    func(v *value, i int64)
	gValueGetInt64   func(v *value) int64
	gValueSetInt64   func(v *value, i int64)
	gValueGetUint64  func(v *value) uint64
	gValueSetUint64  func(v *value, u uint64)
	gValueGetDouble  func(v *value) float64
	gValueSetDouble  func(v *value, f float64)
	gValueGetString  func(v *value) string
	gValueSetString  func(v *value, s string)
	gValueGetObject  func(v *value) uintptr
	gValueSetObject  func(v *value, obj uintptr)
	gValueGetEnum    func(v *value) int32
	gValueSetEnum    func(v *value, e int32)
	gValueGetFlags   func(v *value) uint32
	gValueSetFlags   func(v *value, f uint32)
)

func registerValueBindings(lib uintptr) {
	purego.RegisterLibFunc(&gObjectClassFindProperty, lib, "g_object_class_find_property")
	purego.RegisterLibFunc(&gObjectGetProperty, lib, "g_object_get_property")
	purego.RegisterLibFunc(&gObjectSetProperty, lib, "g_object_set_property")

	purego.RegisterLibFunc(&gValueInit, lib, "g_value_init")
	purego.RegisterLibFunc(&gValueUnset, lib, "g_value_unset")

	purego.RegisterLibFunc(&gValueGetBoolean, lib, "g_value_get_boolean")
	purego.RegisterLibFunc(&gValueSetBoolean, lib, "g_value_set_boolean")
	purego.RegisterLibFunc(&gValueGetInt, lib, "g_value_get_int")
	purego.RegisterLibFunc(&gValueSetInt, lib, "g_value_set_int")
	purego.RegisterLibFunc(&gValueGetUint, lib, "g_value_get_uint")
	purego.RegisterLibFunc(&gValueSetUint, lib, "g_value_set_uint")
	purego.RegisterLibFunc(&gValueGetLong, lib, "g_value_get_long")
	purego.RegisterLibFunc(&gValueSetLong, lib, "g_value_set_long")
	purego.RegisterLibFunc(&gValueGetInt64, lib, "g_value_get_int64")
	purego.RegisterLibFunc(&gValueSetInt64, lib, "g_value_set_int64")
	purego.RegisterLibFunc(&gValueGetUint64, lib, "g_value_get_uint64")
	purego.RegisterLibFunc(&gValueSetUint64, lib, "g_value_set_uint64")
	purego.RegisterLibFunc(&gValueGetDouble, lib, "g_value_get_double")
	purego.RegisterLibFunc(&gValueSetDouble, lib, "g_value_set_double")
	purego.RegisterLibFunc(&gValueGetString, lib, "g_value_get_string")
	purego.RegisterLibFunc(&gValueSetString, lib, "g_value_set_string")
	purego.RegisterLibFunc(&gValueGetObject, lib, "g_value_get_object")
	purego.RegisterLibFunc(&gValueSetObject, lib, "g_value_set_object")
	purego.RegisterLibFunc(&gValueGetEnum, lib, "g_value_get_enum")
	purego.RegisterLibFunc(&gValueSetEnum, lib, "g_value_set_enum")
	purego.RegisterLibFunc(&gValueGetFlags, lib, "g_value_get_flags")
	purego.RegisterLibFunc(&gValueSetFlags, lib, "g_value_set_flags")
}

// PropertyType returns the value type of the named property of obj.
func PropertyType(obj uintptr, name string) (GType, error) {
	if !IsLoaded() {
		return TypeInvalid, bindings.ErrNotLoaded
	}
	if obj == 0 {
		return TypeInvalid, fmt.Errorf("%w: %q on nil object", ErrUnknownProperty, name)
	}
	class := *(*uintptr)(unsafe.Pointer(obj))
	pspec := gObjectClassFindProperty(class, name)
	if pspec == 0 {
		return TypeInvalid, fmt.Errorf("%w: %q on %s", ErrUnknownProperty, name, TypeName(TypeOf(obj)))
	}
	// GParamSpec: g_type_instance, name, flags (padded), value_type
	return *(*GType)(unsafe.Pointer(pspec + 3*platform.PointerSize)), nil
}

// GetProperty reads a property and converts it to a Go value. Object-typed
// properties are returned as a borrowed uintptr handle.
func GetProperty(obj uintptr, name string) (any, error) {
	t, err := PropertyType(obj, name)
	if err != nil {
		return nil, err
	}

	var v value
	gValueInit(&v, t)
	defer gValueUnset(&v)

	gObjectGetProperty(obj, name, &v)

	switch fundamental(t) {
	case TypeBoolean:
		return gValueGetBoolean(&v) != 0, nil
	case TypeInt:
		return int(gValueGetInt(&v)), nil
	case TypeUint:
		return uint(gValueGetUint(&v)), nil
	case TypeLong:
		return gValueGetLong(&v), nil
	case TypeInt64:
		return gValueGetInt64(&v), nil
	case TypeUint64, TypeULong:
		return gValueGetUint64(&v), nil
	case TypeDouble:
		return gValueGetDouble(&v), nil
	case TypeString:
		return gValueGetString(&v), nil
	case TypeObject:
		return gValueGetObject(&v), nil
	case typeEnum:
		return int(gValueGetEnum(&v)), nil
	case typeFlags:
		return uint(gValueGetFlags(&v)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, TypeName(t))
}

// SetProperty converts val to the property's type and writes it.
func SetProperty(obj uintptr, name string, val any) error {
	t, err := PropertyType(obj, name)
	if err != nil {
		return err
	}

	var v value
	gValueInit(&v, t)
	defer gValueUnset(&v)

	if err := setValue(&v, t, val); err != nil {
		return fmt.Errorf("property %q: %w", name, err)
	}

	gObjectSetProperty(obj, name, &v)
	return nil
}

func setValue(v *value, t GType, val any) error {
	switch fundamental(t) {
	case TypeBoolean:
		b, ok := val.(bool)
		if !ok {
			break
		}
		var i int32
		if b {
			i = 1
		}
		gValueSetBoolean(v, i)
		return nil
	case TypeInt, typeEnum:
		i, ok := asInt64(val)
		if !ok {
			break
		}
		if fundamental(t) == typeEnum {
			gValueSetEnum(v, int32(i))
		} else {
			gValueSetInt(v, int32(i))
		}
		return nil
	case TypeUint, typeFlags:
		i, ok := asInt64(val)
		if !ok || i < 0 {
			break
		}
		if fundamental(t) == typeFlags {
			gValueSetFlags(v, uint32(i))
		} else {
			gValueSetUint(v, uint32(i))
		}
		return nil
	case TypeLong:
		i, ok := asInt64(val)
		if !ok {
			break
		}
		gValueSetLong(v, i)
		return nil
	case TypeInt64:
		i, ok := asInt64(val)
		if !ok {
			break
		}
		gValueSetInt64(v, i)
		return nil
	case TypeUint64, TypeULong:
		i, ok := asInt64(val)
		if !ok || i < 0 {
			break
		}
		gValueSetUint64(v, uint64(i))
		return nil
	case TypeDouble:
		switch f := val.(type) {
		case float64:
			gValueSetDouble(v, f)
			return nil
		case float32:
			gValueSetDouble(v, float64(f))
			return nil
		}
	case TypeString:
		s, ok := val.(string)
		if !ok {
			break
		}
		gValueSetString(v, s)
		return nil
	case TypeObject:
		h, ok := val.(uintptr)
		if !ok {
			break
		}
		gValueSetObject(v, h)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, TypeName(t))
	}
	return fmt.Errorf("%w: cannot store %T in %s", ErrUnsupportedType, val, TypeName(t))
}

func asInt64(val any) (int64, bool) {
	switch i := val.(type) {
	case int:
		return int64(i), true
	case int32:
		return int64(i), true
	case int64:
		return i, true
	case uint:
		return int64(i), true
	case uint32:
		return int64(i), true
	case uint64:
		return int64(i), true
	}
	return 0, false
}

func fundamental(t GType) GType {
	if gTypeFundamental == nil {
		return TypeInvalid
	}
	return gTypeFundamental(t)
}
