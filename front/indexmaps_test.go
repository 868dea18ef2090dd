package front

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/michaelneuder/STRUMPACK-old/dense"
)

func newTestFront(sepBegin, sepEnd int, upd []int) *Front[float64] {
	return New[float64](nil, sepBegin, sepEnd, upd, dense.Ops[float64]{}, Options{}, nil)
}

func TestUpdToParent(tst *testing.T) {
	chk.PrintTitle("UpdToParent")

	parent := newTestFront(10, 15, []int{20, 21})
	child := newTestFront(0, 10, []int{12, 14, 20})

	I, upd2sep := child.UpdToParent(parent)
	chk.IntAssert(len(I), 3)
	chk.IntAssert(I[0], 2)  // global 12 -> parent sep-local 2
	chk.IntAssert(I[1], 4)  // global 14 -> parent sep-local 4
	chk.IntAssert(I[2], 5)  // global 20 -> parent dim_sep(5) + upd-pos(0)
	chk.IntAssert(upd2sep, 2)
}

func TestFindUpdIndices(tst *testing.T) {
	chk.PrintTitle("FindUpdIndices")

	f := newTestFront(0, 5, []int{7, 9, 12})
	lJ, oJ := f.FindUpdIndices([]int{9, 3, 12, 100})
	chk.IntAssert(len(lJ), 2)
	chk.IntAssert(lJ[0], 1) // 9 is at position 1 in Upd
	chk.IntAssert(oJ[0], 0) // found at caller index 0
	chk.IntAssert(lJ[1], 2) // 12 is at position 2 in Upd
	chk.IntAssert(oJ[1], 2) // found at caller index 2
}
