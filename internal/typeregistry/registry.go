// Package typeregistry resolves between a wire @type tag and a concrete Go
// reflect.Type, in both directions.
package typeregistry

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry maps between wire type tags and concrete Go types.
type Registry struct {
	mu      sync.RWMutex
	byTag   map[string]reflect.Type
	byType  map[reflect.Type]string
}

// New returns an empty registry pre-seeded with the short aliases for
// common untyped containers (spec.md §9 / SPEC_FULL.md [S-NOT-FULLY-QUALIFIED-ALIASES]).
func New() *Registry {
	r := &Registry{
		byTag:  make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
	r.Register("list", reflect.TypeOf([]any(nil)))
	r.Register("map", reflect.TypeOf(map[string]any(nil)))
	return r
}

// Register associates tag with t. A type registered under more than one tag
// keeps the first tag for the reverse (type → tag) lookup, but every tag
// remains resolvable forward (tag → type).
func (r *Registry) Register(tag string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTag[tag] = t
	if _, exists := r.byType[t]; !exists {
		r.byType[t] = tag
	}
}

// RegisterNamed registers t under its own fully-qualified name
// (PkgPath.Name), the default tag used for any type without a short alias.
func (r *Registry) RegisterNamed(t reflect.Type) string {
	tag := QualifiedName(t)
	r.Register(tag, t)
	return tag
}

// Lookup resolves a wire tag to a Go type.
func (r *Registry) Lookup(tag string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byTag[tag]
	return t, ok
}

// TagFor returns the tag a previously-registered type should be written
// with, registering it under its qualified name on first sight.
func (r *Registry) TagFor(t reflect.Type) string {
	r.mu.RLock()
	tag, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return tag
	}
	return r.RegisterNamed(t)
}

// QualifiedName builds the fully-qualified tag used for any type that has
// no short alias: "<import path>.<type name>", falling back to the Go
// %v representation for anonymous/unnamed types.
func QualifiedName(t reflect.Type) string {
	if t.PkgPath() != "" && t.Name() != "" {
		return fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
	}
	return t.String()
}

// Default is the process-wide registry used when callers don't supply one
// of their own.
var Default = New()
