// Package sparsemat supplies a concrete CSR-backed implementation of the
// "sparse matrix" external collaborator of spec.md §6: front_multiply,
// extract_separator, and the get_ptr/get_ind row-start/column-index
// accessors. Building, reordering, or partitioning the sparse matrix is
// out of scope (spec.md §1 non-goals); this package only needs to act on
// an already-assembled CSR structure.
package sparsemat

import (
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
)

// Matrix is a read-only CSR view of a square sparse matrix A, used by
// fronts during factorization and solve. It is read-only during
// factorization and solve (spec.md §5 shared-resources guarantee).
type Matrix[S dense.Scalar] struct {
	n   int
	ptr []int
	ind []int
	val []S
	ops dense.Ops[S]
}

// NewCSR builds a Matrix from CSR arrays: ptr has length n+1, ind/val have
// length ptr[n]. Column indices within a row need not be sorted.
func NewCSR[S dense.Scalar](n int, ptr, ind []int, val []S, ops dense.Ops[S]) (*Matrix[S], error) {
	if len(ptr) != n+1 {
		return nil, chk.Err("sparsemat: ptr length %d, want %d", len(ptr), n+1)
	}
	if len(ind) != len(val) || len(ind) != ptr[n] {
		return nil, chk.Err("sparsemat: ind/val length mismatch with ptr[n]=%d", ptr[n])
	}
	return &Matrix[S]{n: n, ptr: ptr, ind: ind, val: val, ops: ops}, nil
}

func (m *Matrix[S]) Size() int   { return m.n }
func (m *Matrix[S]) Ptr() []int  { return m.ptr }
func (m *Matrix[S]) Ind() []int  { return m.ind }

// At returns A[i,j], or the zero value if the entry is not stored.
func (m *Matrix[S]) At(i, j int) S {
	lo, hi := m.ptr[i], m.ptr[i+1]
	for k := lo; k < hi; k++ {
		if m.ind[k] == j {
			return m.val[k]
		}
	}
	return m.ops.Zero
}

// frontIndex returns, for a local index in [0, dimSep+len(upd)), the
// corresponding global row/column index: local < dimSep maps to
// sepBegin+local, otherwise to upd[local-dimSep] (spec.md §4.6 element
// mapping rule).
func frontIndex(sepBegin, dimSep int, upd []int, local int) int {
	if local < dimSep {
		return sepBegin + local
	}
	return upd[local-dimSep]
}

// localOf returns the local front index of a global column g, or ok=false
// if g is not part of the front's index set [sepBegin,sepEnd) ∪ upd.
func localOf(sepBegin, sepEnd int, upd []int, g int) (int, bool) {
	if g >= sepBegin && g < sepEnd {
		return g - sepBegin, true
	}
	pos := sort.SearchInts(upd, g)
	if pos < len(upd) && upd[pos] == g {
		return (sepEnd - sepBegin) + pos, true
	}
	return 0, false
}

// FrontMultiply computes Sr := A_front * R and Sc := A_front^H * R in one
// pass over A's nonzeros, where A_front is the dim_blk x dim_blk submatrix
// of A indexed by [sepBegin,sepEnd) ∪ upd (spec.md §4.4 step 3, §6).
// Sr and Sc must already be sized dim_blk x R.Cols() and are accumulated
// into (not zeroed).
func (m *Matrix[S]) FrontMultiply(sepBegin, sepEnd int, upd []int, R, Sr, Sc *dense.Matrix[S]) error {
	dimSep := sepEnd - sepBegin
	dimBlk := dimSep + len(upd)
	if R.Rows() != dimBlk || Sr.Rows() != dimBlk || Sc.Rows() != dimBlk {
		return chk.Err("sparsemat: front_multiply shape mismatch, dim_blk=%d R=%d Sr=%d Sc=%d",
			dimBlk, R.Rows(), Sr.Rows(), Sc.Rows())
	}
	d := R.Cols()
	for lr := 0; lr < dimBlk; lr++ {
		gr := frontIndex(sepBegin, dimSep, upd, lr)
		lo, hi := m.ptr[gr], m.ptr[gr+1]
		for k := lo; k < hi; k++ {
			gc := m.ind[k]
			lc, ok := localOf(sepBegin, sepEnd, upd, gc)
			if !ok {
				continue
			}
			v := m.val[k]
			vc := m.ops.Conj(v)
			for c := 0; c < d; c++ {
				Sr.Add(lr, c, v*R.At(lc, c))
				Sc.Add(lc, c, vc*R.At(lr, c))
			}
		}
	}
	return nil
}

// ExtractSeparator writes A[gI,gJ] into B, skipping any entry whose row or
// column index is at or past sepEnd: those entries belong to a part of the
// matrix reached only through an ancestor's separator and are instead
// accumulated via the children's extract_CB_sub_matrix, so including them
// here too would double count them (spec.md §6).
func (m *Matrix[S]) ExtractSeparator(sepEnd int, gI, gJ []int, B *dense.Matrix[S]) error {
	if len(gI) != B.Rows() || len(gJ) != B.Cols() {
		return chk.Err("sparsemat: extract_separator shape mismatch")
	}
	for i, gi := range gI {
		if gi >= sepEnd {
			continue
		}
		for j, gj := range gJ {
			if gj >= sepEnd {
				continue
			}
			B.Add(i, j, m.At(gi, gj))
		}
	}
	return nil
}
