package tree

import (
	"fmt"
	"log"
)

// Table is the reader's @id → Object lookup (spec.md §3 "Reference table"),
// populated as @id markers are parsed and consulted while resolving @ref
// nodes and draining the patch list. The reader is single-threaded per
// spec.md §5, so a plain map is enough — no mutex needed.
type Table struct {
	byID map[int64]*Node
}

// NewTable returns an empty reference table.
func NewTable() *Table {
	return &Table{byID: make(map[int64]*Node)}
}

// Register associates id with n. Called by the lexer the moment an @id key
// is parsed (spec.md §4.2 "Objects"), before the object's own fields (and
// therefore before any @ref to an earlier id in the same object graph) are
// even finished parsing.
func (t *Table) Register(id int64, n *Node) {
	t.byID[id] = n
}

// Lookup resolves id to its Object node, if one has been registered.
func (t *Table) Lookup(id int64) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Patch is one deferred assignment: "when @ref id resolves, hand its built
// Target to Set". Set closes over either an array slot or a struct field,
// so the patch list stays agnostic to where the reference lives — exactly
// the separation client_transport.go gets from storing a bare channel
// instead of baking in "this belongs to request N's reply struct".
type Patch struct {
	ID  int64
	Set func(target any)
	// Describe names what's being patched, for the diagnostic logged when
	// the id never resolves (spec.md §4.4.4).
	Describe string
}

// PatchList accumulates unresolved @ref assignments during the build pass
// and drains them in a single pass afterward (spec.md §4.4.4).
type PatchList struct {
	pending []Patch
}

// Add enqueues a deferred assignment.
func (p *PatchList) Add(id int64, describe string, set func(target any)) {
	p.pending = append(p.pending, Patch{ID: id, Set: set, Describe: describe})
}

// Len reports how many patches are still queued.
func (p *PatchList) Len() int { return len(p.pending) }

// Drain resolves every queued patch against table. A patch whose target id
// has a built Target is applied and removed. A patch whose target id is
// still missing or unbuilt is logged and dropped (best-effort completion,
// spec.md §7), and its description is returned so the caller can build the
// final aggregate error if any remain.
func (p *PatchList) Drain(table *Table) []string {
	var unresolved []string
	for _, patch := range p.pending {
		n, ok := table.Lookup(patch.ID)
		if !ok || !n.Built() {
			msg := fmt.Sprintf("%s: unresolved @ref %d", patch.Describe, patch.ID)
			log.Printf("json-io: dropping patch: %s", msg)
			unresolved = append(unresolved, msg)
			continue
		}
		patch.Set(n.Target)
	}
	p.pending = nil
	return unresolved
}
