package hss

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
)

func leafOf(vals [][]float64, ops dense.Ops[float64]) *Matrix[float64] {
	n := len(vals)
	D := dense.New[float64](n, n, ops)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			D.Set(i, j, vals[i][j])
		}
	}
	return &Matrix[float64]{ops: ops, isLeaf: true, n: n, D: D}
}

func colVec(vals []float64, ops dense.Ops[float64]) *dense.Matrix[float64] {
	m := dense.New[float64](len(vals), 1, ops)
	for i, v := range vals {
		m.Set(i, 0, v)
	}
	return m
}

// TestSchurProductDirectBranchLeftTheta checks the BranchLeftTheta dispatch
// (ΘVhatCorVhatCΦC has shape (cols(Θ), dim_upd)) against a hand-computed
// S·cR, S = D - Θ·ΘVhatCorVhatCΦC.
func TestSchurProductDirectBranchLeftTheta(tst *testing.T) {
	chk.PrintTitle("SchurProductDirect: BranchLeftTheta dispatches on the tag, not the shape")

	ops := dense.RealOps()
	H := leafOf([][]float64{{4, 1}, {1, 3}}, ops)

	theta := dense.New[float64](2, 1, ops)
	theta.Set(0, 0, 2)
	theta.Set(1, 0, 1)
	m := dense.New[float64](1, 2, ops) // ΘVhatCorVhatCΦC, shape (k1=1, dim_upd=2)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	phi := dense.New[float64](2, 3, ops) // only Cols() is consulted by the nil/zero guard

	cR := colVec([]float64{1, 1}, ops)
	cSr := dense.New[float64](2, 1, ops)
	cSc := dense.New[float64](2, 1, ops)
	if err := H.SchurProductDirect(BranchLeftTheta, theta, nil, phi, m, cR, cSr, cSc); err != nil {
		tst.Fatalf("schur_product_direct: %v", err)
	}

	// S = D - Θ·M = [[4,1],[1,3]] - [[2],[1]]·[[1,2]] = [[2,-3],[0,1]]
	// S·cR = [2-3, 0+1] = [-1, 1]
	chk.Scalar(tst, "cSr[0]", 1e-12, cSr.At(0, 0), -1)
	chk.Scalar(tst, "cSr[1]", 1e-12, cSr.At(1, 0), 1)
}

// TestSchurProductDirectBranchRightPhi checks the BranchRightPhi dispatch
// (ΘVhatCorVhatCΦC has shape (dim_upd, cols(Φ))) the same way, including the
// case cols(Θ) == dim_upd -- a legitimate full-rank front where a
// shape-only "Rows() == k1" check mis-dispatches this branch as
// BranchLeftTheta (the bug this test guards against).
func TestSchurProductDirectBranchRightPhi(tst *testing.T) {
	chk.PrintTitle("SchurProductDirect: BranchRightPhi dispatches on the tag even when cols(Theta) == dim_upd")

	ops := dense.RealOps()
	H := leafOf([][]float64{{4, 1}, {1, 3}}, ops)

	// cols(Theta) == dim_upd == 2, the coincidence that breaks a
	// shape-only "Rows()==k1" dispatch.
	theta := dense.New[float64](2, 2, ops)
	theta.Set(0, 0, 1)
	theta.Set(1, 1, 1)
	phi := dense.New[float64](2, 1, ops)
	phi.Set(0, 0, 1)
	phi.Set(1, 0, 1)
	m := dense.New[float64](2, 1, ops) // ΘVhatCorVhatCΦC, shape (dim_upd=2, k0=1)
	m.Set(0, 0, 2)
	m.Set(1, 0, 1)

	cR := colVec([]float64{1, 1}, ops)
	cSr := dense.New[float64](2, 1, ops)
	cSc := dense.New[float64](2, 1, ops)
	if err := H.SchurProductDirect(BranchRightPhi, theta, nil, phi, m, cR, cSr, cSc); err != nil {
		tst.Fatalf("schur_product_direct: %v", err)
	}

	// S = D - M·Φᴴ = [[4,1],[1,3]] - [[2],[1]]·[[1,1]] = [[2,-1],[0,2]]
	// S·cR = [2-1, 0+2] = [1, 2]
	chk.Scalar(tst, "cSr[0]", 1e-12, cSr.At(0, 0), 1)
	chk.Scalar(tst, "cSr[1]", 1e-12, cSr.At(1, 0), 2)
}

// TestSchurProductDirectNilThetaPassesThrough checks the DimSep()==0
// merge-node case: Theta/Phi are nil (Schur_update never ran), so S·cR
// reduces to D·cR with no low-rank correction at all.
func TestSchurProductDirectNilThetaPassesThrough(tst *testing.T) {
	chk.PrintTitle("SchurProductDirect: nil Theta/Phi is a pure D·cR pass-through")

	ops := dense.RealOps()
	H := leafOf([][]float64{{4, 1}, {1, 3}}, ops)
	cR := colVec([]float64{1, 1}, ops)
	cSr := dense.New[float64](2, 1, ops)
	cSc := dense.New[float64](2, 1, ops)
	if err := H.SchurProductDirect(BranchLeftTheta, nil, nil, nil, nil, cR, cSr, cSc); err != nil {
		tst.Fatalf("schur_product_direct: %v", err)
	}
	chk.Scalar(tst, "cSr[0]", 1e-12, cSr.At(0, 0), 5)
	chk.Scalar(tst, "cSr[1]", 1e-12, cSr.At(1, 0), 4)
}
