package front

import (
	"sort"

	"github.com/michaelneuder/STRUMPACK-old/graphpart"
	"github.com/michaelneuder/STRUMPACK-old/hss"
)

// SetHSSPartitioning installs the cluster tree Factorize will compress
// against, overriding the default two-leaf split built from dim_sep/dim_upd
// (spec.md §4.9's separator_ordering_level knob). Pass a tree whose size
// matches f.DimBlk().
func (f *Front[S]) SetHSSPartitioning(tree hss.PartitionTree) {
	f.customTree = &tree
}

// BisectionPartitioning refines the default two-leaf partition by
// bisecting the separator itself through bis, then re-refining each half to
// opts.HSS.LeafSize (spec.md §4.9). bis is deliberately left at the
// identity-order graphpart.Natural stub unless the caller supplies a real
// partitioner: spec.md §4.9/§9 calls out that guessing a bisection
// algorithm here would just encode noise, so this method only wires the
// machinery, it does not invent the heuristic.
func (f *Front[S]) BisectionPartitioning(bis graphpart.Bisector) hss.PartitionTree {
	n0 := f.DimSep()
	ptr, ind := f.extractSeparatorGraph()
	perm, split := bis.Bisect(n0, ptr, ind)
	f.sepOrder = perm

	left := hss.PartitionTree{Size: split}
	right := hss.PartitionTree{Size: n0 - split}
	left.Refine(f.opts.HSS.LeafSize)
	right.Refine(f.opts.HSS.LeafSize)

	sepTree := hss.PartitionTree{Size: n0, C: []hss.PartitionTree{left, right}}
	if f.DimUpd() == 0 {
		return sepTree
	}
	updTree := hss.PartitionTree{Size: f.DimUpd()}
	updTree.Refine(f.opts.HSS.LeafSize)
	return hss.PartitionTree{Size: f.DimBlk(), C: []hss.PartitionTree{sepTree, updTree}}
}

// extractSeparatorGraph builds the CSR adjacency of this front's separator
// restricted to itself, the input BisectionPartitioning's bis.Bisect needs.
// Unused by the default (unresolved) separator ordering path, but kept
// ready for whenever a real Bisector is plugged in (spec.md §4.9).
func (f *Front[S]) extractSeparatorGraph() (ptr, ind []int) {
	n0 := f.DimSep()
	ptr = make([]int, n0+1)
	aptr, aind := f.A.Ptr(), f.A.Ind()
	var rows [][]int
	for r := 0; r < n0; r++ {
		g := f.SepBegin + r
		lo, hi := aptr[g], aptr[g+1]
		var row []int
		for k := lo; k < hi; k++ {
			gc := aind[k]
			if gc >= f.SepBegin && gc < f.SepEnd {
				row = append(row, gc-f.SepBegin)
			}
		}
		sort.Ints(row)
		rows = append(rows, row)
		ptr[r+1] = ptr[r] + len(row)
	}
	ind = make([]int, 0, ptr[n0])
	for _, row := range rows {
		ind = append(ind, row...)
	}
	return ptr, ind
}

// SplitSeparator reports, for a local row r within this front's separator,
// which side of the last BisectionPartitioning bisection it landed on: true
// for the first (left) part. Unused until a caller actually invokes
// BisectionPartitioning with a non-trivial Bisector.
func (f *Front[S]) SplitSeparator(r int) bool {
	if f.sepOrder == nil {
		return r < f.DimSep()/2
	}
	pos := -1
	for i, v := range f.sepOrder {
		if v == r {
			pos = i
			break
		}
	}
	return pos < len(f.sepOrder)/2
}
