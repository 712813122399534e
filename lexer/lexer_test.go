package lexer

import (
	"strings"
	"testing"

	"github.com/zenobiuszeto/json-io/tree"
)

func parse(t *testing.T, src string) *tree.Node {
	t.Helper()
	table := tree.NewTable()
	n, err := New([]byte(src), table).Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return n
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		src  string
		kind tree.ScalarKind
	}{
		{"null", tree.ScalarNull},
		{"true", tree.ScalarBool},
		{"false", tree.ScalarBool},
		{`"hi"`, tree.ScalarString},
		{"42", tree.ScalarInt},
		{"-42", tree.ScalarInt},
		{"3.5", tree.ScalarFloat},
		{"1e10", tree.ScalarFloat},
		{"-1.5e-3", tree.ScalarFloat},
	}
	for _, c := range cases {
		n := parse(t, c.src)
		if n.Kind != tree.KindScalar {
			t.Fatalf("%q: expected scalar, got kind %v", c.src, n.Kind)
		}
		if n.Scalar != c.kind {
			t.Fatalf("%q: expected scalar kind %v, got %v", c.src, c.kind, n.Scalar)
		}
	}
}

func TestParseBareArray(t *testing.T) {
	n := parse(t, `[1,2,3]`)
	if n.Kind != tree.KindArray {
		t.Fatalf("expected array, got %v", n.Kind)
	}
	if len(n.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(n.Elems))
	}
	if n.Elems[1].Int != 2 {
		t.Fatalf("expected second element 2, got %d", n.Elems[1].Int)
	}
}

func TestParseEmptyArrayAndObject(t *testing.T) {
	n := parse(t, `[]`)
	if n.Kind != tree.KindArray || len(n.Elems) != 0 {
		t.Fatalf("expected empty array, got %+v", n)
	}
	n = parse(t, `{}`)
	if n.Kind != tree.KindObject || len(n.Fields) != 0 {
		t.Fatalf("expected empty object, got %+v", n)
	}
}

func TestParseObjectMetaKeys(t *testing.T) {
	n := parse(t, `{"@id":1,"@type":"Foo","Name":"bar"}`)
	if !n.HasID || n.ID != 1 {
		t.Fatalf("expected @id 1, got %+v", n)
	}
	if !n.HasType || n.Type != "Foo" {
		t.Fatalf("expected @type Foo, got %+v", n)
	}
	v, ok := n.Get("Name")
	if !ok || v.Str != "bar" {
		t.Fatalf("expected field Name=bar, got %+v", n.Fields)
	}
}

func TestParseRegistersIDInTable(t *testing.T) {
	table := tree.NewTable()
	n, err := New([]byte(`{"@id":7,"x":1}`), table).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, ok := table.Lookup(7)
	if !ok || got != n {
		t.Fatalf("expected table to register node under id 7")
	}
}

func TestParseRefOnlyObject(t *testing.T) {
	n := parse(t, `{"@ref":3}`)
	if !n.IsRefOnly() {
		t.Fatalf("expected ref-only object, got %+v", n)
	}
	if n.Ref != 3 {
		t.Fatalf("expected ref 3, got %d", n.Ref)
	}
}

func TestParseNestedArraysAndObjects(t *testing.T) {
	n := parse(t, `{"a":[1,{"b":2},[3,4]]}`)
	av, ok := n.Get("a")
	if !ok || av.Kind != tree.KindArray || len(av.Elems) != 3 {
		t.Fatalf("unexpected shape: %+v", n)
	}
	inner := av.Elems[1]
	if inner.Kind != tree.KindObject {
		t.Fatalf("expected object at index 1, got %v", inner.Kind)
	}
	bv, ok := inner.Get("b")
	if !ok || bv.Int != 2 {
		t.Fatalf("expected b=2, got %+v", inner)
	}
}

func TestParseDeeplyNestedArray(t *testing.T) {
	const depth = 10000
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteByte('[')
	}
	b.WriteString("0")
	for i := 0; i < depth; i++ {
		b.WriteByte(']')
	}

	n := parse(t, b.String())
	cur := n
	for i := 0; i < depth; i++ {
		if cur.Kind != tree.KindArray || len(cur.Elems) != 1 {
			t.Fatalf("unexpected shape at depth %d", i)
		}
		cur = cur.Elems[0]
	}
	if cur.Kind != tree.KindScalar || cur.Int != 0 {
		t.Fatalf("expected innermost scalar 0, got %+v", cur)
	}
}

func TestParseStringEscapes(t *testing.T) {
	n := parse(t, `"a\n\t\"\\b"`)
	want := "a\n\t\"\\b"
	if n.Str != want {
		t.Fatalf("expected %q, got %q", want, n.Str)
	}
}

func TestParseUnicodeEscape(t *testing.T) {
	n := parse(t, "\"\\u0041\\u00e9\"")
	if n.Str != "Aé" {
		t.Fatalf("unexpected decoded string %q", n.Str)
	}
}

func TestParseSurrogatePairEscape(t *testing.T) {
	// U+1F600 GRINNING FACE, written as the \u-escaped UTF-16 surrogate
	// pair a JSON encoder without direct non-BMP output would produce.
	n := parse(t, "\"\\uD83D\\uDE00\"")
	want := string(rune(0x1F600))
	if n.Str != want {
		t.Fatalf("expected %q, got %q", want, n.Str)
	}
}

func TestParseTrailingDataError(t *testing.T) {
	_, err := New([]byte(`1 2`), tree.NewTable()).Parse()
	if err == nil {
		t.Fatal("expected an error for trailing data")
	}
}

func TestParseUnterminatedStringError(t *testing.T) {
	_, err := New([]byte(`"abc`), tree.NewTable()).Parse()
	if err == nil {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestParseInvalidLiteralError(t *testing.T) {
	_, err := New([]byte(`nul`), tree.NewTable()).Parse()
	if err == nil {
		t.Fatal("expected an error for truncated literal")
	}
}

func TestParseNumberExponentSign(t *testing.T) {
	n := parse(t, `1e+5`)
	if n.Kind != tree.KindScalar || n.Scalar != tree.ScalarFloat || n.Float != 1e5 {
		t.Fatalf("unexpected result: %+v", n)
	}
	// Exercises parseNumber's pushback when the byte after 'e' isn't a sign.
	n = parse(t, `[1e5,2]`)
	if n.Elems[0].Float != 1e5 || n.Elems[1].Int != 2 {
		t.Fatalf("unexpected elements: %+v", n.Elems)
	}
}
