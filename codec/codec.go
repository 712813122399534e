// Package codec is the public entry point: Marshal/Unmarshal a Go object
// graph to and from the wire format spec.md defines, backed by the Writer
// (writer.go) and Reader (reader.go) beneath.
package codec

import (
	"github.com/zenobiuszeto/json-io/internal/typeregistry"
	"github.com/zenobiuszeto/json-io/lexer"
	"github.com/zenobiuszeto/json-io/tree"
)

// Marshal serializes graph to its JSON-graph encoding using the default
// type registry.
func Marshal(graph any) ([]byte, error) {
	return NewWriter(nil).Write(graph)
}

// MarshalWithRegistry is Marshal against a caller-supplied registry, for
// callers that pre-register named types under custom tags.
func MarshalWithRegistry(graph any, reg *typeregistry.Registry) ([]byte, error) {
	return NewWriter(reg).Write(graph)
}

// Unmarshal decodes data into *target using the default type registry.
func Unmarshal(data []byte, target any) error {
	return NewReader(nil).Read(data, target)
}

// UnmarshalWithRegistry is Unmarshal against a caller-supplied registry.
func UnmarshalWithRegistry(data []byte, target any, reg *typeregistry.Registry) error {
	return NewReader(reg).Read(data, target)
}

// DecodeTree parses data into the intermediate tree (tree.Node) without
// instantiating any Go value, for callers that want the parsed shape itself
// rather than a materialized target.
func DecodeTree(data []byte) (*tree.Node, error) {
	return lexer.New(data, tree.NewTable()).Parse()
}
