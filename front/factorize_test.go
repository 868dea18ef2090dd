package front

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/etree"
	"github.com/michaelneuder/STRUMPACK-old/hss"
	"github.com/michaelneuder/STRUMPACK-old/rng"
)

// buildSmallTree assembles a 3-front elimination tree (two leaves under one
// root separator) over an 11x11 tridiagonal matrix, matching the tree used
// by cmd/frontsolve.
func buildSmallTree(tst *testing.T, opts Options) (*Front[float64], []*Front[float64]) {
	ops := dense.RealOps()
	A := smallTridiagonal(tst, 11, ops)
	descs := []etree.NodeDesc{
		{SepBegin: 0, SepEnd: 5, Upd: []int{5}, Parent: 2},
		{SepBegin: 6, SepEnd: 11, Upd: []int{5}, Parent: 2},
		{SepBegin: 5, SepEnd: 6, Upd: nil, Parent: -1},
	}
	root, all, err := etree.Build[float64](A, descs, ops, opts, rng.NewReal())
	if err != nil {
		tst.Fatalf("build etree: %v", err)
	}
	return root, all
}

// TestFactorizeBuildsULVAtEveryFront checks properties 1 and 2: every front
// ends up with a compressed HSS block and a populated ULV factor after
// Factorize, root included.
func TestFactorizeBuildsULVAtEveryFront(tst *testing.T) {
	chk.PrintTitle("Factorize: every front gets H and ULV")

	opts := Options{}
	opts.SetDefault()
	root, all := buildSmallTree(tst, opts)
	if err := root.Factorize(0); err != nil {
		tst.Fatalf("factorize: %v", err)
	}
	for i, f := range all {
		if f.H == nil {
			tst.Fatalf("front %d: H is nil after factorize", i)
		}
		if f.ulv == nil {
			tst.Fatalf("front %d: ulv is nil after factorize", i)
		}
	}
	if !root.IsRoot() {
		tst.Fatalf("expected root to report IsRoot")
	}
}

// TestFactorizeNonRootSchurFactors checks property 5: every non-root
// front's Theta/Phi/ThetaVhatCorVhatCPhi are populated and dimensionally
// consistent (Theta has dim_upd rows, Phi has dim_upd rows, and the
// branch-selected product's shape matches whichever of Theta/Phi has fewer
// columns).
func TestFactorizeNonRootSchurFactors(tst *testing.T) {
	chk.PrintTitle("Factorize: non-root Schur factors are consistent")

	opts := Options{}
	opts.SetDefault()
	root, all := buildSmallTree(tst, opts)
	if err := root.Factorize(0); err != nil {
		tst.Fatalf("factorize: %v", err)
	}
	for i, f := range all {
		if f.IsRoot() {
			continue
		}
		if f.Theta.Rows() != f.DimUpd() {
			tst.Fatalf("front %d: Theta rows = %d, want dim_upd = %d", i, f.Theta.Rows(), f.DimUpd())
		}
		if f.Phi.Rows() != f.DimUpd() {
			tst.Fatalf("front %d: Phi rows = %d, want dim_upd = %d", i, f.Phi.Rows(), f.DimUpd())
		}
		k1, k0 := f.Theta.Cols(), f.Phi.Cols()
		if k1 < k0 {
			if f.schurBranch != hss.BranchLeftTheta {
				tst.Fatalf("front %d: expected BranchLeftTheta (k1=%d < k0=%d)", i, k1, k0)
			}
			chk.IntAssert(f.ThetaVhatCorVhatCPhi.Rows(), k1)
			chk.IntAssert(f.ThetaVhatCorVhatCPhi.Cols(), f.DimUpd())
		} else {
			if f.schurBranch != hss.BranchRightPhi {
				tst.Fatalf("front %d: expected BranchRightPhi (k1=%d >= k0=%d)", i, k1, k0)
			}
			chk.IntAssert(f.ThetaVhatCorVhatCPhi.Rows(), f.DimUpd())
			chk.IntAssert(f.ThetaVhatCorVhatCPhi.Cols(), k0)
		}
	}
}

// TestFactorizeEmptySeparatorMergeNode checks spec.md §4.6 step 6's guard: a
// front whose separator is empty (a legitimate nested-dissection merge node)
// never runs partial_factor/factor/Schur_update, leaves Theta/Phi/ulv nil,
// and still lets its parent and the forward/backward solve pass treat it as
// a pure pass-through of its own trailing block.
func TestFactorizeEmptySeparatorMergeNode(tst *testing.T) {
	chk.PrintTitle("Factorize: a front with dim_sep == 0 skips elimination entirely")

	ops := dense.RealOps()
	const n = 6
	A := smallTridiagonal(tst, n, ops)

	opts := Options{}
	opts.SetDefault()
	descs := []etree.NodeDesc{
		{SepBegin: 0, SepEnd: 4, Upd: []int{4, 5}, Parent: 1},
		{SepBegin: 4, SepEnd: 4, Upd: []int{4, 5}, Parent: 2},
		{SepBegin: 4, SepEnd: 6, Upd: nil, Parent: -1},
	}
	root, all, err := etree.Build[float64](A, descs, ops, opts, rng.NewReal())
	if err != nil {
		tst.Fatalf("build etree: %v", err)
	}
	merge := all[1]
	if merge.DimSep() != 0 {
		tst.Fatalf("expected merge node with dim_sep == 0, got %d", merge.DimSep())
	}

	if err := root.Factorize(0); err != nil {
		tst.Fatalf("factorize: %v", err)
	}
	if merge.ulv != nil {
		tst.Fatalf("expected merge node's ulv to stay nil")
	}
	if merge.Theta != nil {
		tst.Fatalf("expected merge node's Theta to stay nil")
	}

	b := dense.New[float64](n, 1, ops)
	for i := 0; i < n; i++ {
		b.Set(i, 0, float64(i+1))
	}
	x, err := SolveOnly[float64](root, b)
	if err != nil {
		tst.Fatalf("solve_only: %v", err)
	}
	Ax := tridiagMatVec(A, n, x)
	if resid := residual(Ax, b, n); resid > 1e-8 {
		tst.Fatalf("relative residual too large: %v", resid)
	}
}

// TestEtreeWorkMemDisjoint checks property 7: the PWmem windows etree
// assigns never overlap across the whole tree.
func TestEtreeWorkMemDisjoint(tst *testing.T) {
	chk.PrintTitle("etree.Build: PWmem windows are disjoint")

	opts := Options{}
	opts.SetDefault()
	_, all := buildSmallTree(tst, opts)

	type window struct{ lo, hi int }
	var windows []window
	for _, f := range all {
		windows = append(windows, window{f.PWmem, f.PWmem + f.DimBlk()})
	}
	for i := range windows {
		for j := range windows {
			if i == j {
				continue
			}
			if windows[i].lo < windows[j].hi && windows[j].lo < windows[i].hi {
				tst.Fatalf("windows %d=%v and %d=%v overlap", i, windows[i], j, windows[j])
			}
		}
	}
}
