// Package front implements one node of a sparse multifrontal direct
// solver's elimination tree (spec.md §1-§3): randomized HSS compression of
// the dense frontal block, partial ULV factorization with Schur-update
// propagation toward the parent, and a forward/backward triangular solve
// pass over the tree. The HSS kernel, sparse matrix, dense kernel, random
// generator, and graph partitioner are external collaborators (spec.md
// §6), implemented by the sibling hss, sparsemat, dense, rng, and
// graphpart packages.
package front

import (
	"github.com/michaelneuder/STRUMPACK-old/dense"
	"github.com/michaelneuder/STRUMPACK-old/hss"
)

// SparseMatrix is the "Sparse matrix" external collaborator contract of
// spec.md §6.
type SparseMatrix[S dense.Scalar] interface {
	Size() int
	Ptr() []int
	Ind() []int
	FrontMultiply(sepBegin, sepEnd int, upd []int, R, Sr, Sc *dense.Matrix[S]) error
	ExtractSeparator(sepEnd int, gI, gJ []int, B *dense.Matrix[S]) error
}

// RandomGenerator is the "Random number generator" external collaborator
// contract of spec.md §6/§9.
type RandomGenerator[S dense.Scalar] interface {
	Seed(row, col uint32)
	Get() S
}

// Options carries the recognized keys of spec.md §6: HSS_options.* (with
// separator_ordering_level, inside hss.Options) plus the front-level
// indirect_sampling flag.
type Options struct {
	HSS              hss.Options
	IndirectSampling bool
}

// SetDefault mirrors the teacher's SetDefault idiom (gofem's
// inp.LinSolData.SetDefault): when HSS.LeafSize is zero, the whole HSS
// sub-options block is replaced by hss.DefaultOptions; otherwise the HSS
// sub-options are left exactly as given, zero fields included.
func (o *Options) SetDefault() {
	if o.HSS.LeafSize == 0 {
		o.HSS = hss.DefaultOptions()
	}
}

// Front is one node of the elimination tree (spec.md §3).
type Front[S dense.Scalar] struct {
	ops  dense.Ops[S]
	A    SparseMatrix[S]
	opts Options
	rng  RandomGenerator[S]

	SepBegin, SepEnd int
	Upd              []int

	LChild, RChild *Front[S]
	Parent         *Front[S]
	EtreeLevel     int
	PWmem          int

	H   *hss.Matrix[S]
	ulv *hss.ULV[S]

	Theta, Phi, ThetaVhatCorVhatCPhi, DUB01 *dense.Matrix[S]
	schurBranch                             hss.SchurBranch

	R1, Sr2, Sc2   *dense.Matrix[S]
	SampledColumns int

	customTree *hss.PartitionTree
	sepOrder   []int
}

// New creates a front over [sepBegin,sepEnd) with the given (sorted,
// disjoint-from-separator) update set. Children are attached afterward by
// the caller (the etree package) by assigning LChild/RChild and Parent.
func New[S dense.Scalar](A SparseMatrix[S], sepBegin, sepEnd int, upd []int, ops dense.Ops[S], opts Options, gen RandomGenerator[S]) *Front[S] {
	opts.SetDefault()
	return &Front[S]{ops: ops, A: A, SepBegin: sepBegin, SepEnd: sepEnd, Upd: upd, opts: opts, rng: gen}
}

func (f *Front[S]) DimSep() int { return f.SepEnd - f.SepBegin }
func (f *Front[S]) DimUpd() int { return len(f.Upd) }
func (f *Front[S]) DimBlk() int { return f.DimSep() + f.DimUpd() }
func (f *Front[S]) IsRoot() bool { return f.Parent == nil }

// ReleaseWorkMemory clears the indirect-sampling history a front only needs
// while its parent is still compressing against it, and drops H's trailing
// dense block now that it has been folded into the parent's low-rank
// factors (spec.md §3 invariant 5). Theta/Phi/DUB01/ThetaVhatCorVhatCPhi are
// NOT cleared here: they are this front's own permanent Schur/ULV data,
// still needed by BackwardSolve after the whole tree has been factorized,
// not merely scratch for the parent's sampling pass.
func (f *Front[S]) ReleaseWorkMemory() {
	f.R1, f.Sr2, f.Sc2 = nil, nil, nil
	if f.H != nil {
		f.H.DeleteTrailingBlock()
	}
}

func (f *Front[S]) toGlobal(local []int) []int {
	n0 := f.DimSep()
	out := make([]int, len(local))
	for k, i := range local {
		if i < n0 {
			out[k] = f.SepBegin + i
		} else {
			out[k] = f.Upd[i-n0]
		}
	}
	return out
}

func (f *Front[S]) defaultPartitionTree() hss.PartitionTree {
	if f.customTree != nil {
		return *f.customTree
	}
	if f.DimUpd() == 0 {
		return hss.PartitionTree{Size: f.DimSep()}
	}
	return hss.PartitionTree{
		Size: f.DimBlk(),
		C: []hss.PartitionTree{
			{Size: f.DimSep()},
			{Size: f.DimUpd()},
		},
	}
}
