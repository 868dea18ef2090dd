// Package rng implements the "Random number generator" external collaborator
// of spec.md §6/§9: a generator seedable per (row, column) so that indirect
// sampling is bit-for-bit reproducible across runs and thread counts (spec.md
// §5 ordering guarantee iv, property 4).
//
// Seed/Get touch only the receiving instance's state; there is no
// package-level generator (the style gosl/rnd's API favors). Instances are
// not safe for concurrent use. etree.Build hands the single generator it is
// given to every front it builds, so those fronts share one instance.
package rng

import "github.com/michaelneuder/STRUMPACK-old/dense"

// Generator is the per-front random source used by the indirect-sampling
// path of random_sampling (spec.md §4.4).
type Generator[S dense.Scalar] struct {
	state uint64
	draw  func(state uint64) S
}

// FlopsPerPRNG is the accounting constant spec.md §9 requires: a fixed
// number of floating point operations attributed to a single draw from
// this generator, used by callers that keep flop counters.
const FlopsPerPRNG = 2

// splitmix64 is a fast, well-mixed integer hash; it underlies both Seed
// (mixing the (row,col) pair into a start state) and Get (advancing the
// state deterministically).
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func mixSeed(row, col uint32) uint64 {
	return splitmix64(uint64(row)<<32 | uint64(col))
}

func uniformFloat(state uint64) float64 {
	// 53 significant bits, mapped to [-1, 1).
	const mantissaBits = 1 << 53
	mant := state >> (64 - 53)
	return 2*(float64(mant)/float64(mantissaBits)) - 1
}

// NewReal returns a deterministic generator of float64 samples drawn
// (approximately) uniformly from [-1, 1).
func NewReal() *Generator[float64] {
	return &Generator[float64]{draw: uniformFloat}
}

// NewComplex returns a deterministic generator of complex128 samples whose
// real and imaginary parts are each drawn from [-1, 1).
func NewComplex() *Generator[complex128] {
	return &Generator[complex128]{
		draw: func(state uint64) complex128 {
			re := uniformFloat(state)
			im := uniformFloat(splitmix64(state))
			return complex(re, im)
		},
	}
}

// Seed reseeds the generator deterministically from a (global row index,
// column cursor) pair, per spec.md §4.4 step 2.
func (g *Generator[S]) Seed(row, col uint32) {
	g.state = mixSeed(row, col)
}

// Get advances the internal state and returns the next deterministic
// sample.
func (g *Generator[S]) Get() S {
	g.state = splitmix64(g.state)
	return g.draw(g.state)
}
