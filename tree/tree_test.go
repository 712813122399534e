package tree

import "testing"

func TestNewScalarConstructors(t *testing.T) {
	if n := NewNull(); n.Kind != KindScalar || n.Scalar != ScalarNull {
		t.Fatalf("NewNull: %+v", n)
	}
	if n := NewString("x"); n.Kind != KindScalar || n.Scalar != ScalarString || n.Str != "x" {
		t.Fatalf("NewString: %+v", n)
	}
	if n := NewInt(42); n.Kind != KindScalar || n.Scalar != ScalarInt || n.Int != 42 {
		t.Fatalf("NewInt: %+v", n)
	}
	if n := NewFloat(1.5); n.Kind != KindScalar || n.Scalar != ScalarFloat || n.Float != 1.5 {
		t.Fatalf("NewFloat: %+v", n)
	}
	if n := NewBool(true); n.Kind != KindScalar || n.Scalar != ScalarBool || !n.Bool {
		t.Fatalf("NewBool: %+v", n)
	}
	if n := NewArray([]*Node{NewInt(1), NewInt(2)}); n.Kind != KindArray || len(n.Elems) != 2 {
		t.Fatalf("NewArray: %+v", n)
	}
	if n := NewObject(); n.Kind != KindObject || n.Fields != nil {
		t.Fatalf("NewObject: %+v", n)
	}
}

func TestNodeGet(t *testing.T) {
	n := NewObject()
	n.Fields = []ObjectField{
		{Key: "a", Value: NewInt(1)},
		{Key: "b", Value: NewString("x")},
	}
	v, ok := n.Get("b")
	if !ok || v.Str != "x" {
		t.Fatalf("expected field b=x, got %+v ok=%v", v, ok)
	}
	if _, ok := n.Get("missing"); ok {
		t.Fatalf("expected missing field to report not found")
	}
}

func TestNodeIsNull(t *testing.T) {
	if !NewNull().IsNull() {
		t.Fatal("expected NewNull to be null")
	}
	if NewInt(0).IsNull() {
		t.Fatal("zero int should not be null")
	}
	var nilNode *Node
	if nilNode.IsNull() {
		t.Fatal("nil *Node should report not null")
	}
}

func TestNodeIsRefOnly(t *testing.T) {
	ref := NewObject()
	ref.HasRef = true
	ref.Ref = 3
	if !ref.IsRefOnly() {
		t.Fatalf("expected ref-only object, got %+v", ref)
	}

	withExtra := NewObject()
	withExtra.HasRef = true
	withExtra.Ref = 3
	withExtra.Fields = []ObjectField{{Key: "x", Value: NewInt(1)}}
	if withExtra.IsRefOnly() {
		t.Fatalf("expected not ref-only when other fields present: %+v", withExtra)
	}

	withType := NewObject()
	withType.HasRef = true
	withType.HasType = true
	withType.Type = "Foo"
	if withType.IsRefOnly() {
		t.Fatalf("expected not ref-only when @type also present: %+v", withType)
	}

	notRef := NewObject()
	if notRef.IsRefOnly() {
		t.Fatal("object without @ref should not be ref-only")
	}
}

func TestNodeMarkBuilt(t *testing.T) {
	n := NewObject()
	if n.Built() {
		t.Fatal("fresh node should not report built")
	}
	n.MarkBuilt()
	if !n.Built() {
		t.Fatal("expected Built() true after MarkBuilt")
	}
}

func TestTableRegisterLookup(t *testing.T) {
	table := NewTable()
	n := NewObject()
	table.Register(5, n)

	got, ok := table.Lookup(5)
	if !ok || got != n {
		t.Fatalf("expected lookup of id 5 to return registered node")
	}
	if _, ok := table.Lookup(999); ok {
		t.Fatal("expected lookup of unregistered id to fail")
	}
}

func TestPatchListDrainResolved(t *testing.T) {
	table := NewTable()
	target := NewObject()
	target.Target = "resolved-value"
	target.MarkBuilt()
	table.Register(1, target)

	var got any
	var patches PatchList
	patches.Add(1, "field X", func(v any) { got = v })

	if patches.Len() != 1 {
		t.Fatalf("expected 1 pending patch, got %d", patches.Len())
	}

	unresolved := patches.Drain(table)
	if len(unresolved) != 0 {
		t.Fatalf("expected no unresolved patches, got %v", unresolved)
	}
	if got != "resolved-value" {
		t.Fatalf("expected patch to deliver resolved value, got %v", got)
	}
	if patches.Len() != 0 {
		t.Fatalf("expected patch list to be empty after drain, got %d", patches.Len())
	}
}

func TestPatchListDrainUnresolved(t *testing.T) {
	table := NewTable()
	var patches PatchList
	patches.Add(42, "field Y", func(v any) {
		t.Fatal("Set should never be called for an unresolved patch")
	})

	unresolved := patches.Drain(table)
	if len(unresolved) != 1 {
		t.Fatalf("expected 1 unresolved patch description, got %v", unresolved)
	}
}

func TestPatchListDrainNotYetBuilt(t *testing.T) {
	table := NewTable()
	target := NewObject()
	table.Register(2, target) // registered but never MarkBuilt

	var patches PatchList
	called := false
	patches.Add(2, "field Z", func(v any) { called = true })

	unresolved := patches.Drain(table)
	if len(unresolved) != 1 {
		t.Fatalf("expected unresolved patch for an id registered but not built, got %v", unresolved)
	}
	if called {
		t.Fatal("Set should not be called when the target node is not yet built")
	}
}
