package katagami

import (
	"fmt"
	"reflect"
)

// Value wraps an arbitrary Go value yielded by a template's inline
// expression or embedded script, so the Runner can uniformly decide
// whether it is already string-shaped or needs casting.
//
// Adapted from pongo2's own Value type: here it exists purely to serve
// the cast_string/except_hook protocol, not as a general
// template-value algebra.
type Value struct {
	v reflect.Value
}

// AsValue wraps i for inspection.
func AsValue(i any) *Value {
	return &Value{v: reflect.ValueOf(i)}
}

func (v *Value) resolved() reflect.Value {
	rv := v.v
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	return rv
}

// IsString reports whether the wrapped value is already a Go string —
// the only type the emitted routine's Yielder may hand to the caller
// without casting.
func (v *Value) IsString() bool {
	return v.resolved().Kind() == reflect.String
}

// IsNil reports whether the wrapped value is the zero Value (nothing
// was yielded) or a nil pointer/interface/slice/map/chan/func.
func (v *Value) IsNil() bool {
	rv := v.v
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// TypeName returns the Go type name used in TypeMismatchError messages
// ("Can't convert '<TypeName>' object to string implicitly").
func (v *Value) TypeName() string {
	if !v.v.IsValid() {
		return "<nil>"
	}
	return v.v.Type().String()
}

// Interface returns the wrapped value as-is.
func (v *Value) Interface() any {
	if v.v.IsValid() {
		return v.v.Interface()
	}
	return nil
}

// String renders the wrapped value the way the default caster would —
// used as the last-resort cast_string implementation when no
// __cast_string__ hook is bound in the execution context.
func (v *Value) String() string {
	if v.IsString() {
		return v.resolved().String()
	}
	if v.IsNil() {
		return ""
	}
	return fmt.Sprint(v.Interface())
}
