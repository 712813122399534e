// Package typeinfo is the type-introspection cache (component C1 of the
// spec): for a given struct type it produces the ordered list of instance
// fields the writer and reader both walk, scanning a struct type's fields
// once and caching the result in a *Descriptor keyed by reflect.Type.
package typeinfo

import (
	"reflect"
	"sync"
)

// Field describes one instance field in declaration order.
type Field struct {
	Name  string        // Go field name, used verbatim as the JSON key
	Index []int         // reflect.Value.FieldByIndex path (handles embedding)
	Type  reflect.Type  // declared field type, used for "inferable from context"
}

// GraphMarshaler is the custom-write hook from spec.md §4.1: a type that
// implements it is serialized by calling MarshalGraph instead of walking its
// fields, and the writer always emits @type so the reader knows to dispatch
// to the matching GraphUnmarshaler.
type GraphMarshaler interface {
	MarshalGraph() (map[string]any, error)
}

// GraphUnmarshaler is the custom-read hook counterpart: invoked with the
// intermediate field map from the input instead of per-field assignment.
type GraphUnmarshaler interface {
	UnmarshalGraph(fields map[string]any) error
}

// Descriptor is the memoized result for one struct type.
type Descriptor struct {
	Type   reflect.Type
	Fields []Field

	// HasMarshaler/HasUnmarshaler record whether the *pointer* to this type
	// implements the custom hooks; a value receiver also satisfies this
	// since method sets of T are a subset of *T.
	HasMarshaler   bool
	HasUnmarshaler bool
}

var (
	mu    sync.RWMutex
	cache = make(map[reflect.Type]*Descriptor)
)

// Of returns the memoized Descriptor for t, building it on first use.
// t must be a struct type (not a pointer to one); callers dereference
// pointers before calling in.
func Of(t reflect.Type) *Descriptor {
	mu.RLock()
	d, ok := cache[t]
	mu.RUnlock()
	if ok {
		return d
	}

	mu.Lock()
	defer mu.Unlock()
	if d, ok := cache[t]; ok {
		return d
	}
	d = build(t)
	cache[t] = d
	return d
}

// build walks t's fields in declaration order, descending depth-first into
// each embedded struct at the position where it is embedded, so promoted
// fields appear where their embedded struct is declared. Unexported fields
// are skipped (an embedded struct's exported fields are still promoted): Go
// gives no "accessibility forced open" escape hatch for them the way the
// source runtime's reflection API does, so they are simply not
// serializable fields here.
func build(t reflect.Type) *Descriptor {
	d := &Descriptor{Type: t}

	ptr := reflect.PointerTo(t)
	d.HasMarshaler = ptr.Implements(reflect.TypeOf((*GraphMarshaler)(nil)).Elem())
	d.HasUnmarshaler = ptr.Implements(reflect.TypeOf((*GraphUnmarshaler)(nil)).Elem())

	var walk func(typ reflect.Type, prefix []int)
	walk = func(typ reflect.Type, prefix []int) {
		for i := 0; i < typ.NumField(); i++ {
			sf := typ.Field(i)
			index := append(append([]int{}, prefix...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				// Embedded struct (exported or not): its fields are
				// promoted, walked in place at this position (matches Go's
				// own field-resolution order, which is what a reader of
				// this codebase expects).
				walk(sf.Type, index)
				continue
			}
			if sf.PkgPath != "" {
				continue // unexported
			}
			d.Fields = append(d.Fields, Field{
				Name:  sf.Name,
				Index: index,
				Type:  sf.Type,
			})
		}
	}
	walk(t, nil)
	return d
}

// Reset clears the memo table. Exported for tests that register throwaway
// types across many cases and don't want the cache to grow unbounded.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[reflect.Type]*Descriptor)
}
