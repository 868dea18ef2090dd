package dense

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// OrthonormalizeCols builds a rank-revealing orthonormal basis for the
// column space of Y using pivoted modified Gram-Schmidt: at each step the
// remaining column with largest norm is selected and orthogonalized
// against the basis so far, and selection stops once every remaining
// column's residual norm falls below tol*scale (scale is the largest
// column norm seen). This is the rank-estimation primitive the hss
// package's randomized compressor (spec.md §4.4/§4.6) uses to decide how
// many of a sample batch's columns carry real information.
func OrthonormalizeCols[S Scalar](Y *Matrix[S], tol float64) (Q *Matrix[S], rank int) {
	m, n := Y.Rows(), Y.Cols()
	ops := Y.Ops
	work := make([]S, m*n)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			work[i+j*m] = Y.At(i, j)
		}
	}
	at := func(i, j int) S { return work[i+j*m] }
	set := func(i, j int, v S) { work[i+j*m] = v }
	norm := func(j int) float64 {
		var acc float64
		for i := 0; i < m; i++ {
			v := at(i, j)
			acc += ops.Abs(v) * ops.Abs(v)
		}
		return math.Sqrt(acc)
	}

	used := make([]bool, n)
	var scale float64
	basis := make([][]S, 0, n)
	for step := 0; step < n; step++ {
		best, bestNorm := -1, -1.0
		for j := 0; j < n; j++ {
			if used[j] {
				continue
			}
			nj := norm(j)
			if nj > bestNorm {
				best, bestNorm = j, nj
			}
		}
		if best == -1 {
			break
		}
		if step == 0 {
			scale = bestNorm
		}
		if scale > 0 && bestNorm < tol*scale {
			break
		}
		if bestNorm == 0 {
			break
		}
		used[best] = true
		col := make([]S, m)
		inv := scalarInv[S](bestNorm)
		for i := 0; i < m; i++ {
			col[i] = at(i, best) * inv
		}
		basis = append(basis, col)
		// re-orthogonalize remaining columns against the new basis vector
		for j := 0; j < n; j++ {
			if used[j] {
				continue
			}
			var dot S
			for i := 0; i < m; i++ {
				dot += ops.Conj(col[i]) * at(i, j)
			}
			for i := 0; i < m; i++ {
				set(i, j, at(i, j)-dot*col[i])
			}
		}
	}
	rank = len(basis)
	Q = New[S](m, rank, ops)
	for j, col := range basis {
		for i := 0; i < m; i++ {
			Q.Set(i, j, col[i])
		}
	}
	return Q, rank
}

func scalarInv[S Scalar](f float64) S {
	var zero S
	switch any(zero).(type) {
	case complex128:
		return any(complex(1/f, 0)).(S)
	default:
		return any(1 / f).(S)
	}
}

// LU is an in-place LU factorization with partial pivoting of a square
// matrix, the dense building block behind hss.ULV's leaf eliminations and
// the root's full factor().
type LU[S Scalar] struct {
	A    *Matrix[S]
	Piv  []int
	sign float64
}

// Factorize computes the LU factorization of the square matrix A in
// place (A is overwritten with its L\U factors, unit diagonal on L
// implied).
func Factorize[S Scalar](A *Matrix[S]) (*LU[S], error) {
	n := A.Rows()
	if A.Cols() != n {
		return nil, chk.Err("dense: LU requires a square matrix, got %dx%d", n, A.Cols())
	}
	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}
	ops := A.Ops
	sign := 1.0
	for k := 0; k < n; k++ {
		p, best := k, ops.Abs(A.At(k, k))
		for i := k + 1; i < n; i++ {
			if v := ops.Abs(A.At(i, k)); v > best {
				p, best = i, v
			}
		}
		if best == 0 {
			return nil, chk.Err("dense: LU: singular matrix at pivot %d", k)
		}
		if p != k {
			for j := 0; j < n; j++ {
				vk, vp := A.At(k, j), A.At(p, j)
				A.Set(k, j, vp)
				A.Set(p, j, vk)
			}
			piv[k], piv[p] = piv[p], piv[k]
			sign = -sign
		}
		pivot := A.At(k, k)
		for i := k + 1; i < n; i++ {
			factor := A.At(i, k) / pivot
			A.Set(i, k, factor)
			for j := k + 1; j < n; j++ {
				A.Set(i, j, A.At(i, j)-factor*A.At(k, j))
			}
		}
	}
	return &LU[S]{A: A, Piv: piv, sign: sign}, nil
}

// Solve overwrites B (n×nrhs) with the solution of A*X = B using the
// stored factorization, matching LAPACK-style solve-in-place semantics.
func (f *LU[S]) Solve(B *Matrix[S]) {
	n := f.A.Rows()
	nrhs := B.Cols()
	perm := New[S](n, nrhs, f.A.Ops)
	for j := 0; j < nrhs; j++ {
		for i := 0; i < n; i++ {
			perm.Set(i, j, B.At(f.Piv[i], j))
		}
	}
	// forward solve L*Y = Pb (unit lower triangular)
	for j := 0; j < nrhs; j++ {
		for i := 0; i < n; i++ {
			sum := perm.At(i, j)
			for k := 0; k < i; k++ {
				sum -= f.A.At(i, k) * perm.At(k, j)
			}
			perm.Set(i, j, sum)
		}
	}
	// backward solve U*X = Y
	for j := 0; j < nrhs; j++ {
		for i := n - 1; i >= 0; i-- {
			sum := perm.At(i, j)
			for k := i + 1; k < n; k++ {
				sum -= f.A.At(i, k) * perm.At(k, j)
			}
			perm.Set(i, j, sum/f.A.At(i, i))
		}
	}
	Copy(n, nrhs, perm, 0, 0, B, 0, 0)
}

// Solve is a convenience wrapper factoring a copy of A and solving A*X = B,
// returning X as a new matrix and leaving A untouched.
func Solve[S Scalar](A, B *Matrix[S]) (*Matrix[S], error) {
	n := A.Rows()
	work := New[S](n, n, A.Ops)
	Copy(n, n, A, 0, 0, work, 0, 0)
	lu, err := Factorize(work)
	if err != nil {
		return nil, err
	}
	X := New[S](B.Rows(), B.Cols(), B.Ops)
	Copy(B.Rows(), B.Cols(), B, 0, 0, X, 0, 0)
	lu.Solve(X)
	return X, nil
}
