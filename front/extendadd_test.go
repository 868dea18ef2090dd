package front

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/hss"
)

// TestExtendAddToDense exercises scenario S5: a child front's dense Schur
// complement (here with no low-rank correction, Theta/Phi empty) is
// scattered into the four sub-blocks of a dense parent assembly, split
// exactly where the child's update indices cross from the parent's
// separator into the parent's own update set.
func TestExtendAddToDense(tst *testing.T) {
	chk.PrintTitle("ExtendAddToDense: scatter into parent sub-blocks")

	ops := dense.RealOps()
	parent := newTestFront(2, 4, []int{5})
	child := newTestFront(0, 2, []int{2, 5})
	child.ops = ops

	tree := hss.PartitionTree{Size: 4, C: []hss.PartitionTree{{Size: 2}, {Size: 2}}}
	child.H = hss.New[float64](tree, ops)
	// Global (H-local) entries: c0.D (indices 0,1) is left at zero (unused
	// by this test); c1.D (indices 2,3) is set to [[1,2],[3,4]], the block
	// ExtendAddToDense scatters into the parent.
	data := map[[2]int]float64{
		{2, 2}: 1, {2, 3}: 2, {3, 2}: 3, {3, 3}: 4,
	}
	elem := func(I, J []int, B *dense.Matrix[float64]) error {
		for a, i := range I {
			for b, j := range J {
				B.Add(a, b, data[[2]int{i, j}])
			}
		}
		return nil
	}
	mult := func(R, Sr, Sc *dense.Matrix[float64]) error { return nil }
	if err := child.H.Compress(mult, elem, hss.DefaultOptions()); err != nil {
		tst.Fatalf("compress: %v", err)
	}

	parent.H = hss.New[float64](hss.PartitionTree{Size: 4}, ops)
	parent.ops = ops

	F11 := dense.New[float64](2, 2, ops)
	F12 := dense.New[float64](2, 1, ops)
	F21 := dense.New[float64](1, 2, ops)
	F22 := dense.New[float64](1, 1, ops)
	if err := child.ExtendAddToDense(parent, F11, F12, F21, F22); err != nil {
		tst.Fatalf("extend_add: %v", err)
	}

	chk.Scalar(tst, "F11[0][0]", 1e-15, F11.At(0, 0), 1)
	chk.Scalar(tst, "F21[0][0]", 1e-15, F21.At(0, 0), 3)
	chk.Scalar(tst, "F12[0][0]", 1e-15, F12.At(0, 0), 2)
	chk.Scalar(tst, "F22[0][0]", 1e-15, F22.At(0, 0), 4)

	if child.R1 != nil || child.Sr2 != nil || child.Sc2 != nil {
		tst.Fatalf("expected work memory released after extend_add")
	}
}
