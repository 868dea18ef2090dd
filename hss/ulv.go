package hss

import "github.com/michaelneuder/STRUMPACK-old/dense"

// ULV is the factor bundle produced by PartialFactor (non-root fronts) or
// Factor (root), spec.md §6 "partial_factor() → ULV" / "factor() → ULV".
// lu factors either the separator's own diagonal block D00 (partial case)
// or the whole leaf block (root's full factor), so ForwardSolve/
// BackwardSolve need not distinguish the two cases explicitly.
type ULV[S dense.Scalar] struct {
	lu   *dense.LU[S]
	v1   *dense.Matrix[S] // D10's basis (dim_sep x k1); nil for the root
	vhat *dense.Matrix[S] // V1ᴴ·D00⁻¹·U0  (k1 x k0); nil for the root
}

// Vhat exposes the small coupling factor a front's factorization
// orchestrator combines with Θ/Φ into ΘVhatCorVhatCΦC (spec.md §4.6 step
// 6, §9 branch-selected representation).
func (u *ULV[S]) Vhat() *dense.Matrix[S] { return u.vhat }
