package front

import (
	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/hss"
)

func extractCols[S dense.Scalar](M *dense.Matrix[S], J []int, ops dense.Ops[S]) *dense.Matrix[S] {
	out := dense.New[S](M.Rows(), len(J), ops)
	for b, j := range J {
		for i := 0; i < M.Rows(); i++ {
			out.Set(i, b, M.At(i, j))
		}
	}
	return out
}

// ExtractCBSubMatrix projects the parent-requested global index sets (I,J)
// onto this front's own update set, extracts the corresponding dense
// Schur-complement entries from H.child(1) plus the low-rank correction,
// and scatter-adds them into B at the original (I,J) positions (spec.md
// §4.3). This is the contribution-block query path the HSS-only
// factorization orchestrator uses in place of ExtendAddToDense.
func (f *Front[S]) ExtractCBSubMatrix(I, J []int, B *dense.Matrix[S]) error {
	lI, oI := f.FindUpdIndices(I)
	lJ, oJ := f.FindUpdIndices(J)
	if len(lI) == 0 || len(lJ) == 0 {
		return nil
	}
	M := f.H.Child(1).Extract(lI, lJ)
	for a, oi := range oI {
		for b, oj := range oJ {
			B.Add(oi, oj, M.At(a, b))
		}
	}
	if f.Theta == nil || f.Theta.Cols() == 0 {
		return nil
	}
	ops := f.ops
	rTheta := f.Theta.ExtractRows(lI)
	var corr *dense.Matrix[S]
	negOne := ops.Zero - ops.One
	if f.schurBranch == hss.BranchLeftTheta {
		cPart := extractCols(f.ThetaVhatCorVhatCPhi, lJ, ops)
		corr = dense.New[S](len(lI), len(lJ), ops)
		dense.Gemm(dense.NoTrans, dense.NoTrans, negOne, rTheta, cPart, ops.Zero, corr)
	} else {
		mPart := f.ThetaVhatCorVhatCPhi.ExtractRows(lI)
		phiPart := f.Phi.ExtractRows(lJ)
		corr = dense.New[S](len(lI), len(lJ), ops)
		dense.Gemm(dense.NoTrans, dense.ConjTrans, negOne, mPart, phiPart, ops.Zero, corr)
	}
	for a, oi := range oI {
		for b, oj := range oJ {
			B.Add(oi, oj, corr.At(a, b))
		}
	}
	return nil
}
