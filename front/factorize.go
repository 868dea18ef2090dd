package front

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/hss"
	"github.com/michaelneuder/STRUMPACK-old/sched"
)

// Factorize runs this front's share of spec.md §4.6's post-order pass:
// fork-join the children's own Factorize, build and compress this front's
// HSS block against the sparse matrix plus both children's contribution
// blocks, eliminate the separator (partial_factor, or the root's full
// factor), and -- for a non-root -- derive Θ, Φ and the branch-selected
// ΘVhatCorVhatCΦC this front's parent will query through SampleCB/
// ExtractCBSubMatrix.
func (f *Front[S]) Factorize(depth int) error {
	var lf, rf func() error
	if f.LChild != nil {
		lf = func() error { return f.LChild.Factorize(depth + 1) }
	}
	if f.RChild != nil {
		rf = func() error { return f.RChild.Factorize(depth + 1) }
	}
	if err := sched.Fork(depth, sched.DefaultCutoff, lf, rf); err != nil {
		return err
	}

	tree := f.defaultPartitionTree()
	tree.Refine(f.opts.HSS.LeafSize)
	f.H = hss.New[S](tree, f.ops)
	if err := f.H.Compress(f.multiplyFront, f.elemFront, f.opts.HSS); err != nil {
		return chk.Err("front: compress:\n%v", err)
	}

	if f.LChild != nil {
		f.LChild.ReleaseWorkMemory()
	}
	if f.RChild != nil {
		f.RChild.ReleaseWorkMemory()
	}

	io.Pfgrey("front: factorize sep=[%d,%d) upd=%d level=%d\n", f.SepBegin, f.SepEnd, f.DimUpd(), f.EtreeLevel)

	// A front with an empty separator is a legitimate nested-dissection
	// merge node (spec.md §4.6 step 6): there is nothing to eliminate, so
	// partial_factor/factor/Schur_update never run, and Theta/Phi/ulv stay
	// nil -- this front contributes its dense trailing block to its parent
	// with no low-rank correction at all.
	if f.DimSep() == 0 {
		return nil
	}

	if f.IsRoot() {
		ulv, err := f.H.Factor()
		if err != nil {
			return chk.Err("front: factor:\n%v", err)
		}
		f.ulv = ulv
		return nil
	}

	ulv, err := f.H.PartialFactor()
	if err != nil {
		return chk.Err("front: partial_factor:\n%v", err)
	}
	f.ulv = ulv

	theta, dub01, phi, err := f.H.SchurUpdate(ulv)
	if err != nil {
		return chk.Err("front: schur_update:\n%v", err)
	}
	f.Theta, f.DUB01, f.Phi = theta, dub01, phi
	f.formThetaVhatCorVhatCPhi()
	return nil
}

// formThetaVhatCorVhatCPhi picks and materializes the cheaper of the two
// equivalent factorizations of the Schur correction Θ·V̂·Φᴴ, keyed on which
// of Θ/Φ has fewer columns (spec.md §9's branch-selected representation):
// LeftTheta precomputes V̂·Φᴴ (k1 x dim_upd) when cols(Θ) < cols(Φ);
// RightPhi precomputes Θ·V̂ (dim_upd x k0) otherwise.
func (f *Front[S]) formThetaVhatCorVhatCPhi() {
	ops := f.ops
	k1, k0 := f.Theta.Cols(), f.Phi.Cols()
	vhat := f.ulv.Vhat()
	if k1 == 0 || k0 == 0 {
		f.schurBranch = hss.BranchLeftTheta
		f.ThetaVhatCorVhatCPhi = dense.New[S](k1, f.DimUpd(), ops)
		return
	}
	dimUpd := f.DimUpd()
	if k1 < k0 {
		f.schurBranch = hss.BranchLeftTheta
		out := dense.New[S](k1, dimUpd, ops)
		dense.Gemm(dense.NoTrans, dense.ConjTrans, ops.One, vhat, f.Phi, ops.Zero, out)
		f.ThetaVhatCorVhatCPhi = out
		return
	}
	f.schurBranch = hss.BranchRightPhi
	out := dense.New[S](dimUpd, k0, ops)
	dense.Gemm(dense.NoTrans, dense.NoTrans, ops.One, f.Theta, vhat, ops.Zero, out)
	f.ThetaVhatCorVhatCPhi = out
}
