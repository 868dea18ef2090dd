package front

import (
	"sync"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/hss"
	"github.com/michaelneuder/STRUMPACK-old/sched"
)

func addGlobal[S dense.Scalar](b *dense.Matrix[S], idx []int, block *dense.Matrix[S]) {
	if block == nil || block.Rows() == 0 {
		return
	}
	for k, g := range idx {
		for c := 0; c < b.Cols(); c++ {
			b.Add(g, c, block.At(k, c))
		}
	}
}

func gatherGlobal[S dense.Scalar](b *dense.Matrix[S], lo, n int, ops dense.Ops[S]) *dense.Matrix[S] {
	out := dense.New[S](n, b.Cols(), ops)
	for i := 0; i < n; i++ {
		for c := 0; c < b.Cols(); c++ {
			out.Set(i, c, b.At(lo+i, c))
		}
	}
	return out
}

func gatherUpd[S dense.Scalar](b *dense.Matrix[S], idx []int, ops dense.Ops[S]) *dense.Matrix[S] {
	out := dense.New[S](len(idx), b.Cols(), ops)
	for k, g := range idx {
		for c := 0; c < b.Cols(); c++ {
			out.Set(k, c, b.At(g, c))
		}
	}
	return out
}

func scatterGlobal[S dense.Scalar](b *dense.Matrix[S], lo, n int, src *dense.Matrix[S]) {
	for i := 0; i < n; i++ {
		for c := 0; c < b.Cols(); c++ {
			b.Set(lo+i, c, src.At(i, c))
		}
	}
}

// ForwardSolve runs this front's share of spec.md §4.7's post-order solve
// pass against a global, absolutely-indexed right-hand side b: children are
// solved first (fork-join, barrier before the scatter-add below so
// concurrent siblings never race on overlapping update rows), their
// contributions are added into b at their own global Upd positions, this
// front's own separator rows are eliminated via the D00 factor, and -- for
// a non-root -- the Θ-weighted reduced RHS is returned for the parent to
// fold in the same way. This global-vector convention stands in for the
// base front class's wmem/p_wmem/look_left/look_right bookkeeping (spec.md
// §9), which spec.md treats as an external, unspecified contract.
func (f *Front[S]) ForwardSolve(b *dense.Matrix[S], depth int) (*dense.Matrix[S], error) {
	var lContrib, rContrib *dense.Matrix[S]
	var lErr, rErr error
	runLeft := func() { lContrib, lErr = f.LChild.ForwardSolve(b, depth+1) }
	runRight := func() { rContrib, rErr = f.RChild.ForwardSolve(b, depth+1) }
	if depth >= sched.DefaultCutoff {
		if f.LChild != nil {
			runLeft()
		}
		if f.RChild != nil {
			runRight()
		}
	} else {
		var wg sync.WaitGroup
		if f.LChild != nil {
			wg.Add(1)
			go func() { defer wg.Done(); runLeft() }()
		}
		if f.RChild != nil {
			wg.Add(1)
			go func() { defer wg.Done(); runRight() }()
		}
		wg.Wait()
	}
	if lErr != nil {
		return nil, lErr
	}
	if rErr != nil {
		return nil, rErr
	}
	if f.LChild != nil {
		addGlobal(b, f.LChild.Upd, lContrib)
	}
	if f.RChild != nil {
		addGlobal(b, f.RChild.Upd, rContrib)
	}

	n0 := f.DimSep()
	rhsS := gatherGlobal(b, f.SepBegin, n0, f.ops)

	work := &hss.WorkSolve[S]{}
	if n0 > 0 {
		// An empty separator (spec.md §4.6 step 6's merge-node case) never
		// got a factorization in Factorize, so there is nothing to solve
		// here; work.ReducedRHS stays nil and this front passes through
		// with no Θ-weighted contribution, same as Theta==nil below.
		leaf := f.H
		if !f.IsRoot() {
			leaf = f.H.Child(0)
		}
		if err := leaf.ForwardSolve(f.ulv, work, rhsS, !f.IsRoot()); err != nil {
			return nil, err
		}
		scatterGlobal(b, f.SepBegin, n0, rhsS)
	}

	if f.IsRoot() {
		return nil, nil
	}
	dimUpd := f.DimUpd()
	if f.Theta == nil || f.Theta.Cols() == 0 || work.ReducedRHS == nil || work.ReducedRHS.Rows() == 0 {
		return dense.New[S](dimUpd, b.Cols(), f.ops), nil
	}
	contrib := dense.New[S](dimUpd, b.Cols(), f.ops)
	negOne := f.ops.Zero - f.ops.One
	dense.Gemm(dense.NoTrans, dense.NoTrans, negOne, f.Theta, work.ReducedRHS, f.ops.Zero, contrib)
	return contrib, nil
}

// BackwardSolve runs this front's share of spec.md §4.8's pre-order solve
// pass: once ancestors have resolved y at this front's own global Upd
// positions, finalize this front's separator rows (x_S_final = x_S_partial
// - DUB01·(Φᴴ·x_U)) and recurse into both children.
func (f *Front[S]) BackwardSolve(y *dense.Matrix[S], depth int) error {
	if !f.IsRoot() && f.DimSep() > 0 {
		n0 := f.DimSep()
		xS := gatherGlobal(y, f.SepBegin, n0, f.ops)
		if f.Phi != nil && f.Phi.Cols() > 0 {
			xU := gatherUpd(y, f.Upd, f.ops)
			k0 := f.Phi.Cols()
			t := dense.New[S](k0, y.Cols(), f.ops)
			dense.Gemm(dense.ConjTrans, dense.NoTrans, f.ops.One, f.Phi, xU, f.ops.Zero, t)
			negOne := f.ops.Zero - f.ops.One
			dense.Gemm(dense.NoTrans, dense.NoTrans, negOne, f.DUB01, t, f.ops.One, xS)
		}
		leaf := f.H.Child(0)
		work := &hss.WorkSolve[S]{}
		if err := leaf.BackwardSolve(f.ulv, work, xS); err != nil {
			return err
		}
		scatterGlobal(y, f.SepBegin, n0, xS)
	}

	var lErr, rErr error
	runLeft := func() { lErr = f.LChild.BackwardSolve(y, depth+1) }
	runRight := func() { rErr = f.RChild.BackwardSolve(y, depth+1) }
	if depth >= sched.DefaultCutoff {
		if f.LChild != nil {
			runLeft()
		}
		if f.RChild != nil {
			runRight()
		}
	} else {
		var wg sync.WaitGroup
		if f.LChild != nil {
			wg.Add(1)
			go func() { defer wg.Done(); runLeft() }()
		}
		if f.RChild != nil {
			wg.Add(1)
			go func() { defer wg.Done(); runRight() }()
		}
		wg.Wait()
	}
	if lErr != nil {
		return lErr
	}
	return rErr
}
