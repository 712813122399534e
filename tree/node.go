// Package tree implements the intermediate tree (spec.md §3): the parsed-but
// -not-yet-instantiated representation the lexer builds and the reader
// walks. A Node is a tagged variant — Scalar, Array, or Object — rather than
// a runtime-typed value bag, per the design note in spec.md §9: it keeps the
// parser fast and the build pass a plain switch instead of a type-assertion
// chain.
package tree

// Kind discriminates the three shapes a Node can take.
type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindObject
)

// Scalar is one of the five JSON leaf kinds. Exactly one of the typed
// fields is meaningful, selected by Kind.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarString
	ScalarInt
	ScalarFloat
	ScalarBool
)

// Node is one value in the intermediate tree.
type Node struct {
	Kind Kind

	// Scalar payload (Kind == KindScalar).
	Scalar ScalarKind
	Str    string
	Int    int64
	Float  float64
	Bool   bool

	// Array payload (Kind == KindArray): a flat JSON array, e.g. [1,2,3].
	// Distinct from an Object carrying @items — that shape is used when the
	// array is shared, not inferable, or is a generic sequence/mapping.
	Elems []*Node

	// Object payload (Kind == KindObject).
	Fields []ObjectField // user fields, in parse order, @-keys excluded

	HasType bool
	Type    string

	HasID bool
	ID    int64

	HasRef bool
	Ref    int64

	Items []*Node // @items, nil if absent
	Keys  []*Node // @keys, nil if absent

	HasValue bool
	Value    *Node // "value", for boxed leaves

	// Target is the materialized Go value this Object now refers to, filled
	// in during the reader's build pass (spec.md §3, "target slot").
	Target any
	built  bool
}

// ObjectField is one user-visible key/value pair of an Object node.
type ObjectField struct {
	Key   string
	Value *Node
}

// Get returns the value for a user field by name, and whether it was
// present. @-prefixed names are never found here — they live in the
// dedicated struct fields above.
func (n *Node) Get(name string) (*Node, bool) {
	for _, f := range n.Fields {
		if f.Key == name {
			return f.Value, true
		}
	}
	return nil, false
}

// IsNull reports whether n denotes the JSON null literal.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == KindScalar && n.Scalar == ScalarNull
}

// IsRefOnly reports whether n is a bare {"@ref": n} placeholder — per
// spec.md §6, such an object MUST have no other fields.
func (n *Node) IsRefOnly() bool {
	return n != nil && n.Kind == KindObject && n.HasRef &&
		!n.HasType && !n.HasID && n.Items == nil && n.Keys == nil && !n.HasValue && len(n.Fields) == 0
}

// MarkBuilt/Built track whether this Object's Target has already been
// produced by the build pass, so the patch pass (tree/patch.go) can tell
// "already resolved" from "still pending" for the same @id.
func (n *Node) MarkBuilt() { n.built = true }
func (n *Node) Built() bool { return n.built }

// NewNull, NewString, NewInt, NewFloat, NewBool construct scalar nodes; used
// by the lexer (building the intermediate tree from bytes) and by this
// package's tests (building trees by hand).
func NewNull() *Node                 { return &Node{Kind: KindScalar, Scalar: ScalarNull} }
func NewString(s string) *Node       { return &Node{Kind: KindScalar, Scalar: ScalarString, Str: s} }
func NewInt(i int64) *Node           { return &Node{Kind: KindScalar, Scalar: ScalarInt, Int: i} }
func NewFloat(f float64) *Node       { return &Node{Kind: KindScalar, Scalar: ScalarFloat, Float: f} }
func NewBool(b bool) *Node           { return &Node{Kind: KindScalar, Scalar: ScalarBool, Bool: b} }
func NewArray(elems []*Node) *Node   { return &Node{Kind: KindArray, Elems: elems} }
func NewObject() *Node               { return &Node{Kind: KindObject} }
