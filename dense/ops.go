// Package dense provides the column-major dense block kernel used by the
// hss and front packages. It plays the role of the "dense kernel façade"
// that spec.md §6 treats as a given collaborator, generalized over a small
// scalar capability set so the same algorithms serve real and complex
// fronts (spec.md §9, scalar genericity).
package dense

import (
	"math"
	"math/cmplx"
)

// Scalar is the set of element types a Matrix can hold. Go's generic
// arithmetic operators (+ - * /) already work for both members of this
// constraint; only conjugation and magnitude need type-specific behavior,
// which is supplied by Ops.
type Scalar interface {
	~float64 | ~complex128
}

// Ops is the capability table spec.md §9 calls for: add and multiply are
// ordinary Go operators on S, so only conjugate and norm need a per-type
// implementation, plus the additive and multiplicative identities.
type Ops[S Scalar] struct {
	Conj func(S) S
	Abs  func(S) float64
	Zero S
	One  S
}

// RealOps instantiates Ops for float64 fronts; conjugation is the identity.
func RealOps() Ops[float64] {
	return Ops[float64]{
		Conj: func(a float64) float64 { return a },
		Abs:  math.Abs,
		Zero: 0,
		One:  1,
	}
}

// ComplexOps instantiates Ops for complex128 fronts.
func ComplexOps() Ops[complex128] {
	return Ops[complex128]{
		Conj: cmplx.Conj,
		Abs:  cmplx.Abs,
		Zero: 0,
		One:  1,
	}
}

// Trans mirrors the Trans::N / Trans::C flags of the dense kernel contract
// in spec.md §6. Conjugate-transpose degenerates to plain transpose for
// real scalars because Ops.Conj is the identity there.
type Trans int

const (
	NoTrans Trans = iota
	ConjTrans
)
