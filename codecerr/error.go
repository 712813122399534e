// Package codecerr implements the single input/output error kind spec.md §7
// requires: every failure in the core — lexical, structural, semantic,
// instantiation, or reference — surfaces as one *Error carrying a
// human-readable message plus whatever position/id/field context applies.
package codecerr

import "fmt"

// Kind classifies which stage of the codec produced the error.
type Kind int

const (
	Lexical Kind = iota
	Structural
	Semantic
	Instantiation
	Reference
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Structural:
		return "structural"
	case Semantic:
		return "semantic"
	case Instantiation:
		return "instantiation"
	case Reference:
		return "reference"
	default:
		return "unknown"
	}
}

// Error is the unified failure type for the whole codec.
type Error struct {
	Kind Kind
	Msg  string

	HasPos bool
	Pos    int // 1-based byte offset, lexical/structural only

	HasID bool
	ID    int64 // offending @id/@ref, reference errors

	Field string // offending field name, instantiation/semantic errors
}

func (e *Error) Error() string {
	s := fmt.Sprintf("json-io: %s error: %s", e.Kind, e.Msg)
	if e.HasPos {
		s += fmt.Sprintf(" (at byte %d)", e.Pos)
	}
	if e.HasID {
		s += fmt.Sprintf(" (id %d)", e.ID)
	}
	if e.Field != "" {
		s += fmt.Sprintf(" (field %q)", e.Field)
	}
	return s
}

// Lexicalf builds a Lexical error with a byte position.
func Lexicalf(pos int, format string, args ...any) *Error {
	return &Error{Kind: Lexical, Msg: fmt.Sprintf(format, args...), HasPos: true, Pos: pos}
}

// Structuralf builds a Structural error with a byte position.
func Structuralf(pos int, format string, args ...any) *Error {
	return &Error{Kind: Structural, Msg: fmt.Sprintf(format, args...), HasPos: true, Pos: pos}
}

// Semanticf builds a Semantic error, optionally naming the offending field.
func Semanticf(field string, format string, args ...any) *Error {
	return &Error{Kind: Semantic, Msg: fmt.Sprintf(format, args...), Field: field}
}

// Instantiationf builds an Instantiation error naming the target type/field.
func Instantiationf(field string, format string, args ...any) *Error {
	return &Error{Kind: Instantiation, Msg: fmt.Sprintf(format, args...), Field: field}
}

// Referencef builds a Reference error naming the unresolved id.
func Referencef(id int64, format string, args ...any) *Error {
	return &Error{Kind: Reference, Msg: fmt.Sprintf(format, args...), HasID: true, ID: id}
}
