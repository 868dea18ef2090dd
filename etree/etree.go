// Package etree builds the elimination-tree of front.Front nodes that
// front.Factorize/ForwardSolve/BackwardSolve walk (spec.md §3's "elimination
// tree structure (parent/child relationships, separator/update index sets)
// built ahead of time" external input). Computing a real fill-reducing
// elimination tree from a sparse matrix's graph is out of scope (spec.md §1
// non-goals: "Computing or improving the elimination tree itself"); this
// package only assembles front.Front nodes from an already-decided
// parent/separator/update description and assigns the per-front work-memory
// offsets used to check the disjointness property (spec.md §9 property 7).
package etree

import (
	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/front"
)

// NodeDesc describes one front before construction: its separator range,
// its (sorted, ascending) update index set into ancestor separators, and
// the index of its parent in the owning Nodes slice (-1 for the root).
type NodeDesc struct {
	SepBegin, SepEnd int
	Upd              []int
	Parent           int
}

// Build constructs a front.Front per descs[i], wires LChild/RChild/Parent
// from the Parent indices (every node may have at most two children; a
// third child is an error since front.Front's HSS scope is a two-leaf
// split, spec.md §3), assigns EtreeLevel (depth from the root), and assigns
// PWmem in a post-order pass so that siblings' work-memory windows never
// overlap. Every front receives the same gen instance. Returns the root front
// and the full slice of fronts indexed exactly as descs.
func Build[S dense.Scalar](A front.SparseMatrix[S], descs []NodeDesc, ops dense.Ops[S], opts front.Options, gen front.RandomGenerator[S]) (root *front.Front[S], all []*front.Front[S], err error) {
	all = make([]*front.Front[S], len(descs))
	for i, d := range descs {
		all[i] = front.New[S](A, d.SepBegin, d.SepEnd, d.Upd, ops, opts, gen)
	}

	childCount := make([]int, len(descs))
	var rootIdx = -1
	for i, d := range descs {
		if d.Parent < 0 {
			if rootIdx != -1 {
				return nil, nil, chk.Err("etree: more than one root (nodes %d and %d)", rootIdx, i)
			}
			rootIdx = i
			continue
		}
		if d.Parent < 0 || d.Parent >= len(descs) || d.Parent == i {
			return nil, nil, chk.Err("etree: node %d has invalid parent %d", i, d.Parent)
		}
		p := all[d.Parent]
		switch childCount[d.Parent] {
		case 0:
			p.LChild = all[i]
		case 1:
			p.RChild = all[i]
		default:
			return nil, nil, chk.Err("etree: node %d has more than two children (a third was node %d)", d.Parent, i)
		}
		childCount[d.Parent]++
		all[i].Parent = p
	}
	if rootIdx == -1 {
		return nil, nil, chk.Err("etree: no root node found (every node had Parent >= 0)")
	}
	root = all[rootIdx]

	assignLevels(root, 0)
	offset := 0
	assignWorkMem(root, &offset)
	return root, all, nil
}

func assignLevels[S dense.Scalar](f *front.Front[S], level int) {
	if f == nil {
		return
	}
	f.EtreeLevel = level
	assignLevels(f.LChild, level+1)
	assignLevels(f.RChild, level+1)
}

// assignWorkMem walks the tree post-order, handing each front a
// PWmem window of its own dim_blk words disjoint from every other front's
// window -- the "work-memory disjointness" property (spec.md §9 property
// 7) made checkable independent of how a given Solve implementation
// actually threads data, matching front.Front's simplified global-RHS-
// vector convention (see front.ForwardSolve/BackwardSolve doc comments).
func assignWorkMem[S dense.Scalar](f *front.Front[S], offset *int) {
	if f == nil {
		return
	}
	assignWorkMem(f.LChild, offset)
	assignWorkMem(f.RChild, offset)
	f.PWmem = *offset
	*offset += f.DimBlk()
}
