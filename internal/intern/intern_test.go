package intern

import (
	"testing"
	"unsafe"
)

func TestInt8BoxesFullSignedRange(t *testing.T) {
	for _, v := range []int8{-128, -1, 0, 1, 127} {
		p := Int8(v)
		if *p != v {
			t.Fatalf("Int8(%d) dereferenced to %d", v, *p)
		}
	}
}

func TestInt8ReturnsSharedInstance(t *testing.T) {
	a := Int8(42)
	b := Int8(42)
	if a != b {
		t.Fatal("expected Int8 to return the same boxed instance for equal values")
	}
}

func TestRuneReturnsLowCodepoints(t *testing.T) {
	if Rune(65) != 'A' {
		t.Fatalf("expected Rune(65) == 'A', got %v", Rune(65))
	}
	if Rune(0) != 0 {
		t.Fatalf("expected Rune(0) == 0, got %v", Rune(0))
	}
}

func TestRunePassesThroughHighCodepoints(t *testing.T) {
	r := rune(0x1F600)
	if Rune(r) != r {
		t.Fatalf("expected high code point to pass through unchanged, got %v", Rune(r))
	}
}

func TestStringReturnsLiteralForKnownTokens(t *testing.T) {
	for _, s := range []string{"@type", "@id", "@ref", "@items", "@keys", "value", "true", "false", "null"} {
		if got := String(s); got != s {
			t.Fatalf("String(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestStringPoolsArbitraryStrings(t *testing.T) {
	s1 := "field-name-one"
	got1 := String(s1)
	got2 := String("field-name-one")
	if got1 != got2 {
		t.Fatal("expected repeated calls with an equal string to return canonical instance")
	}
	if got1 != s1 {
		t.Fatalf("expected pooled value to equal original, got %q", got1)
	}
}

func TestStringPoolIsStableAcrossDistinctCallSites(t *testing.T) {
	a := []byte("distinct-value")
	b := []byte("distinct-value")
	got1 := String(string(a))
	got2 := String(string(b))
	if got1 != got2 || unsafe.StringData(got1) != unsafe.StringData(got2) {
		t.Fatal("expected pooling to canonicalize equal strings built from distinct backing arrays")
	}
}

func TestBoolReturnsSingletons(t *testing.T) {
	if Bool(true) != True {
		t.Fatal("expected Bool(true) to return the True singleton")
	}
	if Bool(false) != False {
		t.Fatal("expected Bool(false) to return the False singleton")
	}
	if *Bool(true) != true || *Bool(false) != false {
		t.Fatal("expected boxed booleans to carry the correct value")
	}
}
