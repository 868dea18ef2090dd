package front

import (
	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/hss"
)

// schurComplementDense forms F22 = H.child(1).dense() - Θ·ΘVhatCorVhatCΦC
// (or the ΘVhatCorVhatCΦC·Φᴴ variant, dispatched by the branch tag the
// producer stored), per spec.md §4.2/§4.3.
func (f *Front[S]) schurComplementDense() (*dense.Matrix[S], error) {
	if f.H == nil {
		return nil, chk.Err("front: schur complement requested before factorization")
	}
	D11 := f.H.Child(1).Dense()
	if f.Theta == nil || f.Theta.Cols() == 0 {
		return D11, nil
	}
	ops := f.ops
	dimUpd := f.DimUpd()
	corr := dense.New[S](dimUpd, dimUpd, ops)
	if f.schurBranch == hss.BranchLeftTheta {
		dense.Gemm(dense.NoTrans, dense.NoTrans, ops.One, f.Theta, f.ThetaVhatCorVhatCPhi, ops.Zero, corr)
	} else {
		dense.Gemm(dense.NoTrans, dense.ConjTrans, ops.One, f.ThetaVhatCorVhatCPhi, f.Phi, ops.Zero, corr)
	}
	for j := 0; j < dimUpd; j++ {
		for i := 0; i < dimUpd; i++ {
			D11.Add(i, j, ops.Zero-corr.At(i, j))
		}
	}
	return D11, nil
}

// ExtendAddToDense scatters this (already-factored) front's Schur
// complement into the parent's four dense sub-blocks, then releases this
// front's work memory (spec.md §4.2). This is exercised directly by
// scenario S5 and available to callers that assemble an explicit dense
// parent; the HSS-only factorization path (front.Factorize) instead
// integrates children via ExtractCBSubMatrix/SampleCB, which query the
// Schur complement on demand rather than forming it densely up front.
func (f *Front[S]) ExtendAddToDense(parent *Front[S], F11, F12, F21, F22 *dense.Matrix[S]) error {
	block, err := f.schurComplementDense()
	if err != nil {
		return err
	}
	I, upd2sep := f.UpdToParent(parent)
	n := f.DimUpd()
	dimSep := parent.DimSep()
	for c := 0; c < n; c++ {
		pc := I[c]
		for r := 0; r < n; r++ {
			v := block.At(r, c)
			pr := I[r]
			switch {
			case pc < dimSep && r < upd2sep:
				F11.Add(pr, pc, v)
			case pc < dimSep:
				F21.Add(pr-dimSep, pc, v)
			case r < upd2sep:
				F12.Add(pr, pc-dimSep, v)
			default:
				F22.Add(pr-dimSep, pc-dimSep, v)
			}
		}
	}
	f.ReleaseWorkMemory()
	return nil
}
