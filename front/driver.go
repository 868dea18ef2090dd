package front

import "github.com/michaelneuder/STRUMPACK-old/dense"

// Solve runs Factorize once and then a forward/backward pass over the
// elimination tree rooted at root against the right-hand side b (spec.md
// §2's top-level use case: factorize once, solve against one or more
// right-hand sides). b may have multiple columns.
func Solve[S dense.Scalar](root *Front[S], b *dense.Matrix[S]) (*dense.Matrix[S], error) {
	if err := root.Factorize(0); err != nil {
		return nil, err
	}
	return SolveOnly(root, b)
}

// SolveOnly runs only the forward/backward solve pass against an already
// factorized tree, letting the same factorization serve multiple
// right-hand sides without recompressing.
func SolveOnly[S dense.Scalar](root *Front[S], b *dense.Matrix[S]) (*dense.Matrix[S], error) {
	n := root.matrixSize()
	y := dense.New[S](n, b.Cols(), root.ops)
	dense.Copy(n, b.Cols(), b, 0, 0, y, 0, 0)

	if _, err := root.ForwardSolve(y, 0); err != nil {
		return nil, err
	}
	if err := root.BackwardSolve(y, 0); err != nil {
		return nil, err
	}
	return y, nil
}

func (f *Front[S]) matrixSize() int { return f.A.Size() }
