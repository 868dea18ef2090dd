// Package hss is a concrete stand-in for the HSS kernel external
// collaborator of spec.md §6: HSSMatrix/compress/partial_factor/factor/
// Schur_update/Schur_product_direct/Schur_product_indirect/child/
// forward_solve/backward_solve. spec.md §1 treats this kernel's own tree
// and compression arithmetic as given and out of scope; front never walks
// past H.child(0)/H.child(1), so this package implements exactly that
// two-leaf contract rather than a fully recursive nested HSS tree -- a
// true multi-level compressor is a research artifact in its own right and
// not what the front specification exercises.
package hss

import "github.com/michaelneuder/STRUMPACK-old/dense"

// PartitionTree mirrors the HSSPartitionTree contract of spec.md §6: a
// cluster tree with a size and (possibly empty) children.
type PartitionTree struct {
	Size int
	C    []PartitionTree
}

// Refine grows a flat leaf into a balanced binary chain until every leaf is
// at most leafSize, matching HSSPartitionTree::refine.
func (t *PartitionTree) Refine(leafSize int) {
	if t.Size <= leafSize || len(t.C) > 0 {
		return
	}
	left := t.Size / 2
	right := t.Size - left
	t.C = []PartitionTree{{Size: left}, {Size: right}}
	t.C[0].Refine(leafSize)
	t.C[1].Refine(leafSize)
}

// Scalar re-exports dense.Scalar so callers of this package need not
// import dense solely for the constraint name.
type Scalar = dense.Scalar
