// Command frontsolve is a minimal end-to-end demonstration wiring
// sparsemat, etree, and front together: build a small tridiagonal system,
// split it into a two-level elimination tree by hand, factorize it with
// HSS-compressed fronts, and solve against a right-hand side. It is a
// worked example, not a general-purpose CLI tool (SPEC_FULL.md's non-goals
// exclude the latter, not a demonstration of the pieces fitting together).
package main

import (
	"github.com/cpmech/gosl/io"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/etree"
	"github.com/michaelneuder/STRUMPACK-old/front"
	"github.com/michaelneuder/STRUMPACK-old/rng"
	"github.com/michaelneuder/STRUMPACK-old/sparsemat"
)

func tridiagonal(n int) (ptr, ind []int, val []float64) {
	ptr = make([]int, n+1)
	for i := 0; i < n; i++ {
		lo := i - 1
		hi := i + 1
		for j := lo; j <= hi; j++ {
			if j < 0 || j >= n {
				continue
			}
			ind = append(ind, j)
			if j == i {
				val = append(val, 4)
			} else {
				val = append(val, -1)
			}
		}
		ptr[i+1] = len(ind)
	}
	return ptr, ind, val
}

func main() {
	const n = 11
	ops := dense.RealOps()
	ptr, ind, val := tridiagonal(n)
	A, err := sparsemat.NewCSR[float64](n, ptr, ind, val, ops)
	if err != nil {
		io.Pfred("build matrix: %v\n", err)
		return
	}

	// Nodes 0..10 on a 1D tridiagonal chain: node 5 separates the left
	// [0,5) and right [6,11) halves, so both halves' single update row
	// points at node 5, the root separator.
	descs := []etree.NodeDesc{
		{SepBegin: 0, SepEnd: 5, Upd: []int{5}, Parent: 2},
		{SepBegin: 6, SepEnd: 11, Upd: []int{5}, Parent: 2},
		{SepBegin: 5, SepEnd: 6, Upd: nil, Parent: -1},
	}
	opts := front.Options{}
	opts.SetDefault()
	root, _, err := etree.Build[float64](A, descs, ops, opts, rng.NewReal())
	if err != nil {
		io.Pfred("build elimination tree: %v\n", err)
		return
	}

	b := dense.New[float64](n, 1, ops)
	for i := 0; i < n; i++ {
		b.Set(i, 0, 1)
	}
	x, err := front.Solve[float64](root, b)
	if err != nil {
		io.Pfred("solve: %v\n", err)
		return
	}
	for i := 0; i < n; i++ {
		io.Pf("x[%2d] = %+.6f\n", i, x.At(i, 0))
	}
}
