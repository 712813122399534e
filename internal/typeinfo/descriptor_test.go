package typeinfo

import (
	"reflect"
	"testing"
)

type base struct {
	ID int
}

type withEmbed struct {
	base
	Name string
}

type plain struct {
	A string
	B int
	c string // unexported, must never appear
}

func TestOfWalksDeclaredFieldsInOrder(t *testing.T) {
	Reset()
	d := Of(reflect.TypeOf(plain{}))
	if len(d.Fields) != 2 {
		t.Fatalf("expected 2 exported fields, got %d: %+v", len(d.Fields), d.Fields)
	}
	if d.Fields[0].Name != "A" || d.Fields[1].Name != "B" {
		t.Fatalf("expected declaration order A,B, got %+v", d.Fields)
	}
}

func TestOfSkipsUnexportedFields(t *testing.T) {
	Reset()
	d := Of(reflect.TypeOf(plain{}))
	for _, f := range d.Fields {
		if f.Name == "c" {
			t.Fatal("unexported field must not be present in descriptor")
		}
	}
}

func TestOfPromotesEmbeddedStructFields(t *testing.T) {
	Reset()
	d := Of(reflect.TypeOf(withEmbed{}))
	var names []string
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	if len(names) != 2 || names[0] != "ID" || names[1] != "Name" {
		t.Fatalf("expected promoted field ID before Name, got %v", names)
	}
}

func TestOfMemoizesByType(t *testing.T) {
	Reset()
	t1 := reflect.TypeOf(plain{})
	d1 := Of(t1)
	d2 := Of(t1)
	if d1 != d2 {
		t.Fatal("expected Of to return the same cached *Descriptor for repeated calls")
	}
}

func TestResetClearsCache(t *testing.T) {
	t1 := reflect.TypeOf(plain{})
	d1 := Of(t1)
	Reset()
	d2 := Of(t1)
	if d1 == d2 {
		t.Fatal("expected Reset to force rebuilding the descriptor")
	}
}

type hookType struct {
	X int
}

func (h hookType) MarshalGraph() (map[string]any, error) { return nil, nil }
func (h *hookType) UnmarshalGraph(fields map[string]any) error { return nil }

func TestOfDetectsMarshalerAndUnmarshalerHooks(t *testing.T) {
	Reset()
	d := Of(reflect.TypeOf(hookType{}))
	if !d.HasMarshaler {
		t.Fatal("expected value-receiver MarshalGraph to be detected via *T method set")
	}
	if !d.HasUnmarshaler {
		t.Fatal("expected pointer-receiver UnmarshalGraph to be detected")
	}
}

func TestOfNoHooksForPlainType(t *testing.T) {
	Reset()
	d := Of(reflect.TypeOf(plain{}))
	if d.HasMarshaler || d.HasUnmarshaler {
		t.Fatalf("expected no hooks detected on plain type, got %+v", d)
	}
}

func TestFieldIndexPathResolvesThroughEmbedding(t *testing.T) {
	Reset()
	d := Of(reflect.TypeOf(withEmbed{}))
	v := reflect.ValueOf(withEmbed{base: base{ID: 5}, Name: "x"})
	for _, f := range d.Fields {
		fv := v.FieldByIndex(f.Index)
		if f.Name == "ID" && fv.Int() != 5 {
			t.Fatalf("expected promoted ID field to resolve to 5, got %v", fv.Int())
		}
	}
}
