package hss

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/michaelneuder/STRUMPACK-old/dense"
)

// SchurBranch tags which of the two equivalent factorizations of the Schur
// correction Θ·V̂·Φᴴ a front picked when it formed ΘVhatCorVhatCΦC (spec.md
// §9): the producer (front.formThetaVhatCorVhatCPhi) chooses once, based on
// cols(Θ) < cols(Φ), and stores the tag alongside the matrix so every
// consumer dispatches on the tag rather than re-deriving the branch from the
// matrix's shape (which is ambiguous whenever dim_upd happens to coincide
// with the narrower of cols(Θ)/cols(Φ)).
type SchurBranch int

const (
	// BranchLeftTheta: ΘVhatCorVhatCΦC = V̂·Φᴴ, shape (cols(Θ), dim_upd).
	BranchLeftTheta SchurBranch = iota
	// BranchRightPhi: ΘVhatCorVhatCΦC = Θ·V̂, shape (dim_upd, cols(Φ)).
	BranchRightPhi
)

// MultFunc is the random-sampling oracle front binds to random_sampling
// (spec.md §4.6 step 3): it fills Sr := A_front·R and Sc := A_frontᴴ·R.
type MultFunc[S dense.Scalar] func(R, Sr, Sc *dense.Matrix[S]) error

// ElemFunc is the element-extraction oracle: fills B with A_front[I,J]
// (spec.md §4.6 step 3).
type ElemFunc[S dense.Scalar] func(I, J []int, B *dense.Matrix[S]) error

// Matrix is an HSS-compressed block. A leaf owns a dense block directly; an
// internal node (always exactly two children in this implementation, per
// the package doc) owns two leaf children plus a randomized low-rank
// approximation of each off-diagonal block: D01 ≈ U0·V01ᴴ (dim_sep x
// dim_upd) and D10 ≈ U10·V1ᴴ (dim_upd x dim_sep).
type Matrix[S dense.Scalar] struct {
	ops    dense.Ops[S]
	isLeaf bool
	n      int
	D      *dense.Matrix[S]

	c0, c1   *Matrix[S]
	U0, V01  *dense.Matrix[S]
	U10, V1  *dense.Matrix[S]
}

// New builds the (uncompressed) skeleton of an HSS matrix over tree: a
// two-child tree becomes an internal node over two leaves; anything else
// (no children, e.g. a root with an empty update set) becomes a single
// leaf of size tree.Size, matching the observation that front only ever
// addresses H.child(0)/H.child(1) and never a grandchild.
func New[S dense.Scalar](tree PartitionTree, ops dense.Ops[S]) *Matrix[S] {
	if len(tree.C) != 2 {
		return &Matrix[S]{ops: ops, isLeaf: true, n: tree.Size}
	}
	return &Matrix[S]{
		ops: ops,
		c0:  &Matrix[S]{ops: ops, isLeaf: true, n: tree.C[0].Size},
		c1:  &Matrix[S]{ops: ops, isLeaf: true, n: tree.C[1].Size},
	}
}

func (H *Matrix[S]) Rows() int { return H.effSize() }
func (H *Matrix[S]) Cols() int { return H.effSize() }

func (H *Matrix[S]) effSize() int {
	if H.isLeaf {
		return H.n
	}
	return H.c0.n + H.c1.n
}

// Rank reports the largest off-diagonal rank kept, 0 at a leaf.
func (H *Matrix[S]) Rank() int {
	if H.isLeaf {
		return 0
	}
	k0, k1 := 0, 0
	if H.U0 != nil {
		k0 = H.U0.Cols()
	}
	if H.U10 != nil {
		k1 = H.U10.Cols()
	}
	if k0 > k1 {
		return k0
	}
	return k1
}

// Nonzeros approximates the storage used, matching the spirit of the
// HSS kernel contract's nonzeros() accounting method.
func (H *Matrix[S]) Nonzeros() int {
	if H.isLeaf {
		return H.n * H.n
	}
	nz := H.c0.Nonzeros() + H.c1.Nonzeros()
	if H.U0 != nil {
		nz += H.U0.Rows()*H.U0.Cols() + H.V01.Rows()*H.V01.Cols()
		nz += H.U10.Rows()*H.U10.Cols() + H.V1.Rows()*H.V1.Cols()
	}
	return nz
}

// Child returns the i'th child (0 or 1) of an internal node.
func (H *Matrix[S]) Child(i int) *Matrix[S] {
	if H.isLeaf {
		panic("hss: child() called on a leaf")
	}
	if i == 0 {
		return H.c0
	}
	return H.c1
}

// Dense materializes this block as a plain dense matrix. For a leaf this is
// just its stored block; spec.md §4.2/§4.3 use child(1).dense() as the
// starting point for extend-add and CB extraction.
func (H *Matrix[S]) Dense() *dense.Matrix[S] {
	if H.isLeaf {
		out := dense.New[S](H.n, H.n, H.ops)
		dense.Copy(H.n, H.n, H.D, 0, 0, out, 0, 0)
		return out
	}
	n := H.effSize()
	out := dense.New[S](n, n, H.ops)
	n0 := H.c0.n
	dense.Copy(n0, n0, H.c0.D, 0, 0, out, 0, 0)
	dense.Copy(H.c1.n, H.c1.n, H.c1.D, 0, 0, out, n0, n0)
	if H.U0 != nil {
		block01 := dense.New[S](n0, H.c1.n, H.ops)
		dense.Gemm(dense.NoTrans, dense.ConjTrans, H.ops.One, H.U0, H.V01, H.ops.Zero, block01)
		dense.Copy(n0, H.c1.n, block01, 0, 0, out, 0, n0)
		block10 := dense.New[S](H.c1.n, n0, H.ops)
		dense.Gemm(dense.NoTrans, dense.ConjTrans, H.ops.One, H.U10, H.V1, H.ops.Zero, block10)
		dense.Copy(H.c1.n, n0, block10, 0, 0, out, n0, 0)
	}
	return out
}

// Extract returns the dense sub-matrix at local row/col sets (I,J), used by
// extract_CB_sub_matrix (spec.md §4.3) against H.child(1).
func (H *Matrix[S]) Extract(I, J []int) *dense.Matrix[S] {
	full := H.Dense()
	out := dense.New[S](len(I), len(J), H.ops)
	for a, i := range I {
		for b, j := range J {
			out.Set(a, b, full.At(i, j))
		}
	}
	return out
}

// DeleteTrailingBlock drops the dense diagonal block of H.child(1) (the
// "trailing block" of spec.md §3 invariant 1). By the time a front's
// release_work_memory runs, its parent has already consumed that block (via
// extend-add or CB extraction). child(0) and its factored block are kept:
// the front's forward/backward solve still addresses H.child(0). A leaf has
// no trailing block and is left unchanged.
func (H *Matrix[S]) DeleteTrailingBlock() {
	if H.isLeaf || H.c1 == nil {
		return
	}
	H.c1.D = nil
}

// SetTaskDepth is a no-op placeholder for the HSS kernel contract's
// set_openmp_task_depth: this implementation's internal work (compression,
// factorization) runs sequentially within one front, so there is no nested
// task depth to configure.
func (H *Matrix[S]) SetTaskDepth(int) {}

// Compress builds the off-diagonal low-rank factors of an internal node
// using a two-pass randomized range-finder: a first mult() call whose
// random block is zero over one diagonal's rows isolates a pure
// off-diagonal sample for both blocks at once (since front_multiply already
// produces Sr=A·R and Sc=Aᴴ·R in one pass); a second mult() call, seeded with
// the orthonormalized range from the first, reads off the coefficient
// matrices directly without ever forming a dense off-diagonal block
// (spec.md §4.4, §4.6 step 3-4).
func (H *Matrix[S]) Compress(mult MultFunc[S], elem ElemFunc[S], opts Options) error {
	if H.isLeaf {
		H.D = dense.New[S](H.n, H.n, H.ops)
		idx := utl.IntRange(H.n)
		return elem(idx, idx, H.D)
	}
	n0, n1 := H.c0.n, H.c1.n
	n := n0 + n1
	idx := utl.IntRange(n)
	H.c0.D = dense.New[S](n0, n0, H.ops)
	if err := elem(idx[0:n0], idx[0:n0], H.c0.D); err != nil {
		return chk.Err("hss: compress: diagonal block 0:\n%v", err)
	}
	H.c1.D = dense.New[S](n1, n1, H.ops)
	if err := elem(idx[n0:n], idx[n0:n], H.c1.D); err != nil {
		return chk.Err("hss: compress: diagonal block 1:\n%v", err)
	}
	if n0 == 0 || n1 == 0 {
		return nil
	}

	tol := opts.Tolerance
	if tol <= 0 {
		tol = 1e-10
	}
	rounds := opts.MaxCompressionRounds
	if rounds <= 0 {
		rounds = 4
	}
	d := opts.D0
	if d <= 0 {
		d = n1
		if d > 64 {
			d = 64
		}
	}

	var Q0, Q1 *dense.Matrix[S]
	var k0, k1 int
	for round := 0; round < rounds; round++ {
		if d > n1 {
			d = n1
		}
		R := dense.New[S](n, d, H.ops)
		fillRandomRows(R, n0, n, H.ops)
		Sr := dense.New[S](n, d, H.ops)
		Sc := dense.New[S](n, d, H.ops)
		if err := mult(R, Sr, Sc); err != nil {
			return chk.Err("hss: compress: pass1 mult:\n%v", err)
		}
		Sr0 := dense.View(Sr, 0, 0, n0, d)
		Sc0 := dense.View(Sc, 0, 0, n0, d)
		Q0, k0 = dense.OrthonormalizeCols(Sr0, tol)
		Q1, k1 = dense.OrthonormalizeCols(Sc0, tol)
		if (k0 < d && k1 < d) || d >= n1 {
			break
		}
		d += opts.DD
		if opts.DD <= 0 {
			break
		}
	}

	R2 := dense.New[S](n, k0+k1, H.ops)
	dense.Copy(n0, k0, Q0, 0, 0, R2, 0, 0)
	dense.Copy(n0, k1, Q1, 0, 0, R2, 0, k0)
	Sr2 := dense.New[S](n, k0+k1, H.ops)
	Sc2 := dense.New[S](n, k0+k1, H.ops)
	if err := mult(R2, Sr2, Sc2); err != nil {
		return chk.Err("hss: compress: pass2 mult:\n%v", err)
	}

	H.U0 = Q0
	H.V01 = dense.New[S](n1, k0, H.ops)
	dense.Copy(n1, k0, dense.View(Sc2, n0, 0, n1, k0), 0, 0, H.V01, 0, 0)

	H.V1 = Q1
	H.U10 = dense.New[S](n1, k1, H.ops)
	dense.Copy(n1, k1, dense.View(Sr2, n0, k0, n1, k1), 0, 0, H.U10, 0, 0)
	return nil
}

func fillRandomRows[S dense.Scalar](R *dense.Matrix[S], lo, hi int, ops dense.Ops[S]) {
	var state uint64 = 0x9e3779b97f4a7c15
	next := func() float64 {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z = z ^ (z >> 31)
		return 2*(float64(z>>11)/float64(1<<53)) - 1
	}
	var zero S
	_, isComplex := any(zero).(complex128)
	for j := 0; j < R.Cols(); j++ {
		for i := lo; i < hi; i++ {
			if isComplex {
				R.Set(i, j, any(complex(next(), next())).(S))
			} else {
				R.Set(i, j, any(next()).(S))
			}
		}
	}
}

// PartialFactor eliminates the separator block (child(0)) of an internal
// node in place, returning the ULV bundle consumed by SchurUpdate and
// later by ForwardSolve/BackwardSolve (spec.md §4.6 step 6, §6
// "partial_factor() → ULV").
func (H *Matrix[S]) PartialFactor() (*ULV[S], error) {
	if H.isLeaf {
		return nil, chk.Err("hss: partial_factor requires an internal (non-leaf) node")
	}
	lu, err := dense.Factorize(H.c0.D)
	if err != nil {
		return nil, chk.Err("hss: partial_factor:\n%v", err)
	}
	return &ULV[S]{lu: lu}, nil
}

// Factor fully factorizes a leaf block (the root case, spec.md §4.6 step 6
// "if root: ULV := H.factor()").
func (H *Matrix[S]) Factor() (*ULV[S], error) {
	if !H.isLeaf {
		return nil, chk.Err("hss: factor requires a leaf (root) node")
	}
	lu, err := dense.Factorize(H.D)
	if err != nil {
		return nil, chk.Err("hss: factor:\n%v", err)
	}
	return &ULV[S]{lu: lu}, nil
}

// SchurUpdate populates Θ, DUB01 = D00⁻¹·U0, and Φ from the compressed
// off-diagonal factors, and caches Vhat = V1ᴴ·DUB01 into ulv for the
// caller to combine with Θ/Φ into ΘVhatCorVhatCΦC (spec.md §4.6 step 6,
// §6 "Schur_update(ULV, &Θ, &DUB01, &Φ)").
func (H *Matrix[S]) SchurUpdate(ulv *ULV[S]) (Theta, DUB01, Phi *dense.Matrix[S], err error) {
	if H.isLeaf {
		return nil, nil, nil, chk.Err("hss: schur_update requires an internal node")
	}
	n0 := H.c0.n
	if H.U0 == nil {
		empty0 := dense.New[S](H.c1.n, 0, H.ops)
		emptyS := dense.New[S](n0, 0, H.ops)
		ulv.v1, ulv.vhat = nil, dense.New[S](0, 0, H.ops)
		return empty0, emptyS, dense.New[S](H.c1.n, 0, H.ops), nil
	}
	k0 := H.U0.Cols()
	k1 := H.U10.Cols()
	DUB01 = dense.New[S](n0, k0, H.ops)
	dense.Copy(n0, k0, H.U0, 0, 0, DUB01, 0, 0)
	ulv.lu.Solve(DUB01)

	vhat := dense.New[S](k1, k0, H.ops)
	dense.Gemm(dense.ConjTrans, dense.NoTrans, H.ops.One, H.V1, DUB01, H.ops.Zero, vhat)
	ulv.v1 = H.V1
	ulv.vhat = vhat

	return H.U10, DUB01, H.V01, nil
}

// SchurProductDirect computes cSr += S·cR, cSc += Sᴴ·cR where S = D11 -
// Θ·ΘVhatCorVhatCΦC (or the ΘVhatCorVhatCΦC·Φᴴ variant), dispatching on the
// branch tag the producer stored rather than the shape of
// thetaVhatCorVhatCPhi (spec.md §4.5 direct path, §6, SchurBranch's doc
// comment). Theta/Phi may be nil: a front with an empty separator never
// runs Schur_update at all, so it contributes only its dense trailing block
// with no low-rank correction. DUB01 is accepted for contract-shape
// compatibility but is not needed here since the caller already folded
// D00⁻¹ into thetaVhatCorVhatCPhi via SchurUpdate.
func (H *Matrix[S]) SchurProductDirect(branch SchurBranch, Theta, DUB01, Phi, thetaVhatCorVhatCPhi, cR, cSr, cSc *dense.Matrix[S]) error {
	if !H.isLeaf {
		return chk.Err("hss: schur_product_direct must be called on the trailing leaf")
	}
	ops := H.ops
	d := cR.Cols()
	dense.Gemm(dense.NoTrans, dense.NoTrans, ops.One, H.D, cR, ops.One, cSr)
	dense.Gemm(dense.ConjTrans, dense.NoTrans, ops.One, H.D, cR, ops.One, cSc)
	if Theta == nil || Phi == nil || Theta.Cols() == 0 || Phi.Cols() == 0 {
		return nil
	}
	k1, k0 := Theta.Cols(), Phi.Cols()
	negOne := ops.Zero - ops.One
	if branch == BranchLeftTheta {
		t1 := dense.New[S](k1, d, ops)
		dense.Gemm(dense.NoTrans, dense.NoTrans, ops.One, thetaVhatCorVhatCPhi, cR, ops.Zero, t1)
		dense.Gemm(dense.NoTrans, dense.NoTrans, negOne, Theta, t1, ops.One, cSr)

		t2 := dense.New[S](k1, d, ops)
		dense.Gemm(dense.ConjTrans, dense.NoTrans, ops.One, Theta, cR, ops.Zero, t2)
		dense.Gemm(dense.ConjTrans, dense.NoTrans, negOne, thetaVhatCorVhatCPhi, t2, ops.One, cSc)
		return nil
	}
	// BranchRightPhi: thetaVhatCorVhatCPhi is dim_upd x k0.
	t1 := dense.New[S](k0, d, ops)
	dense.Gemm(dense.ConjTrans, dense.NoTrans, ops.One, Phi, cR, ops.Zero, t1)
	dense.Gemm(dense.NoTrans, dense.NoTrans, negOne, thetaVhatCorVhatCPhi, t1, ops.One, cSr)

	t2 := dense.New[S](k0, d, ops)
	dense.Gemm(dense.ConjTrans, dense.NoTrans, ops.One, thetaVhatCorVhatCPhi, cR, ops.Zero, t2)
	dense.Gemm(dense.NoTrans, dense.NoTrans, negOne, Phi, t2, ops.One, cSc)
	return nil
}

// SchurProductIndirect replays a prior round's stored samples instead of
// recomputing S·cR: Sr2/Sc2 already hold this front's own S-action on R1's
// columns (spec.md §4.4 step 5 / §4.5 indirect path), so the "replay"
// portion of a child's request is a direct copy, not a recomputation --
// that reuse is indirect sampling's entire point.
func (H *Matrix[S]) SchurProductIndirect(ulv *ULV[S], DUB01, R1, cR, Sr2, Sc2, cSr, cSc *dense.Matrix[S]) error {
	d := cR.Cols()
	if Sr2.Cols() < d || Sc2.Cols() < d {
		return chk.Err("hss: schur_product_indirect: history narrower than replay request (%d < %d)", Sr2.Cols(), d)
	}
	for j := 0; j < d; j++ {
		for i := 0; i < cSr.Rows(); i++ {
			cSr.Add(i, j, Sr2.At(i, j))
		}
		for i := 0; i < cSc.Rows(); i++ {
			cSc.Add(i, j, Sc2.At(i, j))
		}
	}
	return nil
}

// WorkSolve carries the transient per-front state threaded through one
// forward+backward solve pair. spec.md §9 calls for passing this by the
// caller rather than storing it as a front field, so that two solves
// against the same front can never race.
type WorkSolve[S dense.Scalar] struct {
	ReducedRHS *dense.Matrix[S]
}

// ForwardSolve solves D00·x = rhs in place (leaf case: D00 is the whole
// leaf block) using the factorization stored in ulv, and when
// keepReducedRHS, stores V1ᴴ·x for the caller to fold into Θ's
// contribution to the parent's forward solve (spec.md §4.7, §6
// "forward_solve(ULV, work, rhs, keep_reduced_rhs)").
func (H *Matrix[S]) ForwardSolve(ulv *ULV[S], work *WorkSolve[S], rhs *dense.Matrix[S], keepReducedRHS bool) error {
	if !H.isLeaf {
		return chk.Err("hss: forward_solve must be called on a leaf block")
	}
	if ulv == nil || ulv.lu == nil {
		return chk.Err("hss: forward_solve: ULV has no factorization")
	}
	ulv.lu.Solve(rhs)
	if keepReducedRHS {
		if ulv.v1 == nil || ulv.v1.Cols() == 0 {
			work.ReducedRHS = dense.New[S](0, rhs.Cols(), H.ops)
			return nil
		}
		k1 := ulv.v1.Cols()
		work.ReducedRHS = dense.New[S](k1, rhs.Cols(), H.ops)
		dense.Gemm(dense.ConjTrans, dense.NoTrans, H.ops.One, ulv.v1, rhs, H.ops.Zero, work.ReducedRHS)
	}
	return nil
}

// BackwardSolve completes the separator solve. In this flat HSS scope the
// leaf carries no further internal structure once its own LU has been
// applied, so this is the identity; it exists to keep the external
// contract's call shape intact for callers that always invoke it (spec.md
// §4.8, §6 "backward_solve(ULV, work, rhs)").
func (H *Matrix[S]) BackwardSolve(ulv *ULV[S], work *WorkSolve[S], rhs *dense.Matrix[S]) error {
	if !H.isLeaf {
		return chk.Err("hss: backward_solve must be called on a leaf block")
	}
	return nil
}
