package front

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/sparsemat"
)

// residual returns la.VecNorm(Ax-b) / la.VecNorm(b), the relative residual
// of property 6.
func residual(Ax, b *dense.Matrix[float64], n int) float64 {
	diff := make([]float64, n)
	bvec := make([]float64, n)
	for i := 0; i < n; i++ {
		diff[i] = Ax.At(i, 0) - b.At(i, 0)
		bvec[i] = b.At(i, 0)
	}
	return la.VecNorm(diff) / la.VecNorm(bvec)
}

func tridiagMatVec(A *sparsemat.Matrix[float64], n int, x *dense.Matrix[float64]) *dense.Matrix[float64] {
	y := dense.New[float64](n, 1, dense.RealOps())
	for i := 0; i < n; i++ {
		var acc float64
		for j := i - 1; j <= i+1; j++ {
			if j < 0 || j >= n {
				continue
			}
			acc += A.At(i, j) * x.At(j, 0)
		}
		y.Set(i, 0, acc)
	}
	return y
}

// TestSolveRoundTripResidual exercises scenario S1/S2 and property 6: a
// full factorize-then-solve pass against a small tridiagonal system
// reproduces b to within a small relative residual when A*x is recomputed
// directly against the original sparse matrix.
func TestSolveRoundTripResidual(tst *testing.T) {
	chk.PrintTitle("Solve: round-trip residual is small")

	ops := dense.RealOps()
	const n = 11
	A := smallTridiagonal(tst, n, ops)

	opts := Options{}
	opts.SetDefault()
	root, _ := buildSmallTree(tst, opts)

	b := dense.New[float64](n, 1, ops)
	for i := 0; i < n; i++ {
		b.Set(i, 0, float64(i+1))
	}

	x, err := Solve[float64](root, b)
	if err != nil {
		tst.Fatalf("solve: %v", err)
	}

	Ax := tridiagMatVec(A, n, x)
	resid := residual(Ax, b, n)
	if resid > 1e-8 {
		tst.Fatalf("relative residual too large: %v", resid)
	}
}

// TestSolveOnlyReusesFactorization checks that SolveOnly, run against a
// tree factorized beforehand by a separate Factorize call and without
// refactorizing, reproduces b.
func TestSolveOnlyReusesFactorization(tst *testing.T) {
	chk.PrintTitle("SolveOnly: reuses an existing factorization")

	ops := dense.RealOps()
	const n = 11
	A := smallTridiagonal(tst, n, ops)

	opts := Options{}
	opts.SetDefault()
	root, _ := buildSmallTree(tst, opts)
	if err := root.Factorize(0); err != nil {
		tst.Fatalf("factorize: %v", err)
	}

	b := dense.New[float64](n, 1, ops)
	for i := 0; i < n; i++ {
		b.Set(i, 0, 1)
	}
	x, err := SolveOnly[float64](root, b)
	if err != nil {
		tst.Fatalf("solve_only: %v", err)
	}

	Ax := tridiagMatVec(A, n, x)
	resid := residual(Ax, b, n)
	if resid > 1e-8 {
		tst.Fatalf("relative residual too large: %v", resid)
	}
}
