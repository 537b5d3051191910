package optimize

import "github.com/le-hachem/psi/gate"

// Reorder applies bounded commutation-based swaps to pull Diagonal
// gates together and move disjoint-support gates adjacent, enabling
// further fusion. Only runs meaningfully after ClassifyStructure has
// tagged every gate; gates must already carry a non-nil Struct.
// Grounded on StructureAwareKernelBatch::reorder_commuting_gates.
func Reorder(n int, gates []gate.Gate) []gate.Gate {
	out := append([]gate.Gate(nil), gates...)
	limit := len(out) * len(out)
	if bound := 4 * len(out); bound < limit {
		limit = bound
	}
	for attempt := 0; attempt < limit; attempt++ {
		swapped := false
		for i := 0; i+1 < len(out); i++ {
			a, b := &out[i], &out[i+1]
			if !commute(a, b) {
				continue
			}
			if !shouldSwap(a, b) {
				continue
			}
			out[i], out[i+1] = out[i+1], out[i]
			swapped = true
		}
		if !swapped {
			break
		}
	}
	return out
}

// commute reports whether adjacent gates a, b may be swapped without
// changing the circuit's semantics: disjoint supports, both Diagonal,
// or one Diagonal on a wire that is a control of the other.
func commute(a, b *gate.Gate) bool {
	if disjoint(a.Targets, b.Targets) {
		return true
	}
	aDiag := a.Struct != nil && a.Struct.Kind == gate.Diagonal
	bDiag := b.Struct != nil && b.Struct.Kind == gate.Diagonal
	if aDiag && bDiag {
		return true
	}
	if aDiag && diagonalWireIsControlOf(a, b) {
		return true
	}
	if bDiag && diagonalWireIsControlOf(b, a) {
		return true
	}
	return false
}

func diagonalWireIsControlOf(diag, other *gate.Gate) bool {
	if other.Struct == nil || other.Struct.Kind != gate.Controlled {
		return false
	}
	for _, dw := range diag.Targets {
		for _, cw := range other.Struct.Controls {
			if dw == cw {
				return true
			}
		}
	}
	return false
}

func disjoint(a, b []int) bool {
	seen := make(map[int]bool, len(a))
	for _, x := range a {
		seen[x] = true
	}
	for _, x := range b {
		if seen[x] {
			return false
		}
	}
	return true
}

// shouldSwap decides whether a commuting adjacent pair is worth
// swapping: prefer pulling Diagonal gates toward each other, or moving
// disjoint-support gates next to a same-wire neighbour so batching can
// later fuse them. A simple, deterministic heuristic: swap whenever b
// is Diagonal and a is not, so Diagonal gates migrate earlier in the
// list (mirrors the Rust pass's "pull commuting diagonals together"
// intent without reproducing its internal bookkeeping).
func shouldSwap(a, b *gate.Gate) bool {
	aDiag := a.Struct != nil && a.Struct.Kind == gate.Diagonal
	bDiag := b.Struct != nil && b.Struct.Kind == gate.Diagonal
	return bDiag && !aDiag
}
