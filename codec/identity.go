package codec

import (
	"reflect"
	"time"
)

// identKey is the trace/emit pass's notion of "same object" (spec.md §3
// "Identity registry"): Go has no universal object-identity primitive the
// way the source runtime does, so sharing is tracked only for the kinds
// that carry their own address — pointers, maps, and slices (via their
// backing array's address). A struct or array embedded by value has no
// separate identity to alias; it is always walked in place, never given an
// @id of its own. This is one of the Open Question resolutions recorded in
// DESIGN.md.
type identKey struct {
	kind reflect.Kind
	ptr  uintptr
}

func identityOf(v reflect.Value) (identKey, bool) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if v.IsNil() {
			return identKey{}, false
		}
		return identKey{kind: v.Kind(), ptr: v.Pointer()}, true
	default:
		return identKey{}, false
	}
}

// isLeaf reports whether v (already stripped of pointers/interfaces) is one
// of the types spec.md §4.3.1 classifies as a leaf: never reference-tracked,
// never pushed onto the trace work stack, because it cannot itself hold a
// reference to another graph node.
func isLeaf(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

var timeType = reflect.TypeOf(time.Time{})
