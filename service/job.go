// Package service runs graph encode/decode work through a middleware chain
// and a bounded worker pool.
package service

import (
	"github.com/zenobiuszeto/json-io/internal/typeregistry"
)

// Op identifies which direction of the codec a Job exercises.
type Op int

const (
	OpEncode Op = iota
	OpDecode
)

func (o Op) String() string {
	if o == OpEncode {
		return "encode"
	}
	return "decode"
}

// Job is one unit of codec work submitted to a Queue. For OpEncode, Graph
// holds the value to serialize. For OpDecode, Data holds the wire bytes and
// Target must be a non-nil pointer to decode into.
type Job struct {
	Op       Op
	Graph    any
	Data     []byte
	Target   any
	Registry *typeregistry.Registry // nil uses the package default
}

// Result is what a Job produces: Bytes for OpEncode, nothing (Target is
// filled in place) for OpDecode, and Err for either if the job failed.
type Result struct {
	Bytes []byte
	Err   error
}
