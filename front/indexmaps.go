package front

import "sort"

// UpdToParent returns, for each local row r in [0,dim_upd), the
// parent-local index I[r] ∈ [0, parent.dim_blk), and upd2sep, the first
// index whose mapped value falls in the parent's update portion (spec.md
// §4.1). f.Upd is strictly increasing, so upd2sep can be found in one pass.
func (f *Front[S]) UpdToParent(parent *Front[S]) (I []int, upd2sep int) {
	I = make([]int, len(f.Upd))
	upd2sep = len(f.Upd)
	sawUpd := false
	for r, g := range f.Upd {
		if g >= parent.SepBegin && g < parent.SepEnd {
			I[r] = g - parent.SepBegin
		} else {
			pos := sort.SearchInts(parent.Upd, g)
			I[r] = parent.DimSep() + pos
		}
		if !sawUpd && I[r] >= parent.DimSep() {
			upd2sep = r
			sawUpd = true
		}
	}
	return I, upd2sep
}

// FindUpdIndices returns, for a list G of global indices, parallel arrays
// (lJ, oJ): lJ[k] is the position in f.Upd of G[oJ[k]]; entries of G not
// present in f.Upd are skipped (spec.md §4.1).
func (f *Front[S]) FindUpdIndices(G []int) (lJ, oJ []int) {
	for k, g := range G {
		pos := sort.SearchInts(f.Upd, g)
		if pos < len(f.Upd) && f.Upd[pos] == g {
			lJ = append(lJ, pos)
			oJ = append(oJ, k)
		}
	}
	return lJ, oJ
}
