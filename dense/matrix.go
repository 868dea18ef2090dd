package dense

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Matrix is a column-major dense block, optionally a view into another
// Matrix's backing storage (the "sub-range views over a column-major
// buffer" of spec.md §2). A fresh Matrix returned by New owns its storage;
// a Matrix returned by View shares storage with its parent.
type Matrix[S Scalar] struct {
	Ops            Ops[S]
	r, c, stride   int
	offset         int
	data           []S
}

// New allocates an r×c zeroed matrix.
func New[S Scalar](r, c int, ops Ops[S]) *Matrix[S] {
	if r < 0 || c < 0 {
		chk.Panic("dense: negative dimension (%d,%d)", r, c)
	}
	return &Matrix[S]{
		Ops:    ops,
		r:      r,
		c:      c,
		stride: max(r, 1),
		data:   make([]S, max(r, 1)*max(c, 1)),
	}
}

// max/min are thin int wrappers over utl.Max/utl.Min (which only take
// float64): matrix dimensions never exceed 2^53, so the round-trip through
// float64 is exact.
func max(a, b int) int {
	return int(utl.Max(float64(a), float64(b)))
}

// View returns a window into m sharing m's backing array, starting at
// (i0,j0) with the given shape. Mutations through the view are visible in
// m and vice versa.
func View[S Scalar](m *Matrix[S], i0, j0, nr, nc int) *Matrix[S] {
	if i0 < 0 || j0 < 0 || nr < 0 || nc < 0 || i0+nr > m.r || j0+nc > m.c {
		chk.Panic("dense: view (%d,%d,%d,%d) out of range for %dx%d", i0, j0, nr, nc, m.r, m.c)
	}
	return &Matrix[S]{
		Ops:    m.Ops,
		r:      nr,
		c:      nc,
		stride: m.stride,
		offset: m.offset + i0 + j0*m.stride,
		data:   m.data,
	}
}

func (m *Matrix[S]) Rows() int { return m.r }
func (m *Matrix[S]) Cols() int { return m.c }

func (m *Matrix[S]) idx(i, j int) int { return m.offset + i + j*m.stride }

func (m *Matrix[S]) At(i, j int) S { return m.data[m.idx(i, j)] }

func (m *Matrix[S]) Set(i, j int, v S) { m.data[m.idx(i, j)] = v }

func (m *Matrix[S]) Add(i, j int, v S) { m.data[m.idx(i, j)] += v }

// Zero sets every entry to the additive identity.
func (m *Matrix[S]) Zero() {
	for j := 0; j < m.c; j++ {
		for i := 0; i < m.r; i++ {
			m.Set(i, j, m.Ops.Zero)
		}
	}
}

// Clear drops the matrix's storage, matching the external dense-kernel
// contract's clear() (spec.md §6); a cleared Matrix is 0x0.
func (m *Matrix[S]) Clear() {
	m.r, m.c, m.stride, m.offset = 0, 0, 0, 0
	m.data = nil
}

func (m *Matrix[S]) Empty() bool { return m.r == 0 || m.c == 0 }

// Resize grows or shrinks m to nr×nc, preserving the leading sub-block
// (min(r,nr) x min(c,nc)), matching the dense kernel contract of spec.md §6.
func (m *Matrix[S]) Resize(nr, nc int) {
	nstride := max(nr, 1)
	ndata := make([]S, nstride*max(nc, 1))
	keepR, keepC := min(m.r, nr), min(m.c, nc)
	for j := 0; j < keepC; j++ {
		for i := 0; i < keepR; i++ {
			ndata[i+j*nstride] = m.At(i, j)
		}
	}
	m.r, m.c, m.stride, m.offset = nr, nc, nstride, 0
	m.data = ndata
}

func min(a, b int) int {
	return int(utl.Min(float64(a), float64(b)))
}

// Copy copies an nr×nc block from src starting at (si,sj) into dst
// starting at (di,dj), matching the dense kernel contract's copy().
func Copy[S Scalar](nr, nc int, src *Matrix[S], si, sj int, dst *Matrix[S], di, dj int) {
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			dst.Set(di+i, dj+j, src.At(si+i, sj+j))
		}
	}
}

// ExtractRows returns a new owned matrix holding the rows of m selected by
// I, in order, matching the dense kernel contract's extract_rows(I).
func (m *Matrix[S]) ExtractRows(I []int) *Matrix[S] {
	out := New(len(I), m.c, m.Ops)
	for k, row := range I {
		for j := 0; j < m.c; j++ {
			out.Set(k, j, m.At(row, j))
		}
	}
	return out
}

// ScatterRowsAdd adds src into the rows of m selected by I, in order,
// matching the dense kernel contract's scatter_rows_add(I, S).
func (m *Matrix[S]) ScatterRowsAdd(I []int, src *Matrix[S]) {
	for k, row := range I {
		for j := 0; j < m.c; j++ {
			m.Add(row, j, src.At(k, j))
		}
	}
}

// Gemm computes C := alpha*op(A)*op(B) + beta*C, with op selected per
// matrix by Trans::N / Trans::C (spec.md §6). This is the one dense
// primitive every other operation in hss and front is built from.
func Gemm[S Scalar](opA, opB Trans, alpha S, A, B *Matrix[S], beta S, C *Matrix[S]) {
	ra, ca := dims(opA, A)
	rb, cb := dims(opB, B)
	if ca != rb {
		chk.Panic("dense: gemm inner dimension mismatch %d != %d", ca, rb)
	}
	if ra != C.r || cb != C.c {
		chk.Panic("dense: gemm output shape mismatch want %dx%d have %dx%d", ra, cb, C.r, C.c)
	}
	zero := A.Ops.Zero
	for j := 0; j < cb; j++ {
		for i := 0; i < ra; i++ {
			acc := zero
			for k := 0; k < ca; k++ {
				acc += elem(opA, A, i, k) * elem(opB, B, k, j)
			}
			if beta == zero {
				C.Set(i, j, alpha*acc)
			} else {
				C.Set(i, j, alpha*acc+beta*C.At(i, j))
			}
		}
	}
}

func dims[S Scalar](op Trans, M *Matrix[S]) (r, c int) {
	if op == NoTrans {
		return M.r, M.c
	}
	return M.c, M.r
}

func elem[S Scalar](op Trans, M *Matrix[S], i, j int) S {
	if op == NoTrans {
		return M.At(i, j)
	}
	return M.Ops.Conj(M.At(j, i))
}
