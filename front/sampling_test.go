package front

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/rng"
	"github.com/michaelneuder/STRUMPACK-old/sparsemat"
)

func smallTridiagonal(tst *testing.T, n int, ops dense.Ops[float64]) *sparsemat.Matrix[float64] {
	var ptr, ind []int
	var val []float64
	ptr = make([]int, n+1)
	for i := 0; i < n; i++ {
		for j := i - 1; j <= i+1; j++ {
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
	A, err := sparsemat.NewCSR[float64](n, ptr, ind, val, ops)
	if err != nil {
		tst.Fatalf("build matrix: %v", err)
	}
	return A
}

// TestRandomSamplingIndirectReproducible exercises property 4: with
// indirect sampling on, the random block R depends only on (global index,
// column cursor), not on which Generator instance or call history produced
// it, so two independently-built fronts over the same global range produce
// bit-identical samples.
func TestRandomSamplingIndirectReproducible(tst *testing.T) {
	chk.PrintTitle("RandomSampling: indirect sampling is reproducible")

	ops := dense.RealOps()
	A := smallTridiagonal(tst, 6, ops)
	opts := Options{IndirectSampling: true}
	opts.SetDefault()

	f1 := New[float64](A, 0, 4, []int{4, 5}, ops, opts, rng.NewReal())
	f2 := New[float64](A, 0, 4, []int{4, 5}, ops, opts, rng.NewReal())

	R1, Sr1, Sc1, err := f1.RandomSampling(3)
	if err != nil {
		tst.Fatalf("sample 1: %v", err)
	}
	R2, Sr2, Sc2, err := f2.RandomSampling(3)
	if err != nil {
		tst.Fatalf("sample 2: %v", err)
	}

	for i := 0; i < R1.Rows(); i++ {
		for j := 0; j < R1.Cols(); j++ {
			chk.Scalar(tst, "R", 0, R1.At(i, j), R2.At(i, j))
			chk.Scalar(tst, "Sr", 0, Sr1.At(i, j), Sr2.At(i, j))
			chk.Scalar(tst, "Sc", 0, Sc1.At(i, j), Sc2.At(i, j))
		}
	}
}

// TestRandomSamplingAppendsHistory checks that a non-root front under
// indirect sampling accumulates R1/Sr2/Sc2 history for SampleCB to replay
// later (spec.md §4.4 step 5).
func TestRandomSamplingAppendsHistory(tst *testing.T) {
	chk.PrintTitle("RandomSampling: non-root front appends history")

	ops := dense.RealOps()
	A := smallTridiagonal(tst, 6, ops)
	opts := Options{IndirectSampling: true}
	opts.SetDefault()

	parent := New[float64](A, 4, 6, nil, ops, opts, rng.NewReal())
	child := New[float64](A, 0, 4, []int{4, 5}, ops, opts, rng.NewReal())
	child.Parent = parent

	if _, _, _, err := child.RandomSampling(2); err != nil {
		tst.Fatalf("sample: %v", err)
	}
	chk.IntAssert(child.SampledColumns, 2)
	if child.R1 == nil || child.R1.Cols() != 2 {
		tst.Fatalf("expected R1 history with 2 columns, got %v", child.R1)
	}
}
