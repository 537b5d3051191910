// Package kernel implements the state-vector update algorithms that
// apply a gate's unitary in place, in scalar, batched, and parallel
// variants sharing one Backend contract.
package kernel

import (
	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
)

// Backend applies a 1-, 2-, or 3-qubit unitary to a state vector of
// length 2^n in place.
type Backend interface {
	Apply1Q(state []complex128, m *maths.Matrix, target, n int)
	Apply2Q(state []complex128, m *maths.Matrix, targets [2]int, n int)
	Apply3Q(state []complex128, m *maths.Matrix, targets [3]int, n int)
}

// Apply dispatches a gate's already-lowered matrix to the appropriate
// Backend method and fast path, given the gate's structural tag (nil
// structure falls through to the generic k-qubit path).
func Apply(b Backend, state []complex128, m *maths.Matrix, g *gate.Gate, n int) {
	if g.Struct != nil {
		switch g.Struct.Kind {
		case gate.Diagonal:
			ApplyDiagonal(state, m, g.Targets, n)
			return
		case gate.Controlled:
			sub := controlledSubmatrix(m, g.Targets, g.Struct.Controls, g.Struct.Targets)
			ApplyControlled(state, sub, g.Struct.Controls, g.Struct.Targets, n)
			return
		}
	}
	switch len(g.Targets) {
	case 1:
		b.Apply1Q(state, m, g.Targets[0], n)
	case 2:
		b.Apply2Q(state, m, [2]int{g.Targets[0], g.Targets[1]}, n)
	case 3:
		b.Apply3Q(state, m, [3]int{g.Targets[0], g.Targets[1], g.Targets[2]}, n)
	}
}

// cosetIndices returns the 2^k full-state indices corresponding to the
// sub-vector basis states 0..2^k-1 of a coset rooted at base (base has
// every target bit cleared), with targets[0] the LSB of the sub-index.
func cosetIndices(base int, targets []int, out []int) {
	k := len(targets)
	for sub := 0; sub < len(out); sub++ {
		idx := base
		for i := 0; i < k; i++ {
			if sub&(1<<i) != 0 {
				idx |= 1 << targets[i]
			}
		}
		out[sub] = idx
	}
}

// controlledSubmatrix extracts the target-only block of a controlled
// gate's full matrix m: the rows/cols whose bits, read against fullTargets
// (the ordering m was lowered with), have every control bit set. The
// result is sized 2^len(targets), with targets[i] as its bit i, matching
// the convention ApplyControlled and cosetIndices expect.
func controlledSubmatrix(m *maths.Matrix, fullTargets, controls, targets []int) *maths.Matrix {
	bitOf := make(map[int]int, len(fullTargets))
	for i, q := range fullTargets {
		bitOf[q] = i
	}
	controlMask := 0
	for _, c := range controls {
		controlMask |= 1 << bitOf[c]
	}
	targetBits := make([]int, len(targets))
	for i, t := range targets {
		targetBits[i] = bitOf[t]
	}

	dim := 1 << len(targets)
	sub := maths.NewMatrix(dim)
	for row := 0; row < dim; row++ {
		fullRow := controlMask
		for i, b := range targetBits {
			if row&(1<<i) != 0 {
				fullRow |= 1 << b
			}
		}
		for col := 0; col < dim; col++ {
			fullCol := controlMask
			for i, b := range targetBits {
				if col&(1<<i) != 0 {
					fullCol |= 1 << b
				}
			}
			sub.Set(row, col, m.At(fullRow, fullCol))
		}
	}
	return sub
}

// ApplyDiagonal fast-paths a diagonal matrix: state[i] *= diag entry
// selected by the target bits of i.
func ApplyDiagonal(state []complex128, m *maths.Matrix, targets []int, n int) {
	dim := 1 << n
	for i := 0; i < dim; i++ {
		sub := 0
		for b, q := range targets {
			if i&(1<<q) != 0 {
				sub |= 1 << b
			}
		}
		state[i] *= m.At(sub, sub)
	}
}

// ApplyControlled fast-paths a controlled gate: only amplitudes whose
// control bits are all set are touched by the sub-unitary over targets.
func ApplyControlled(state []complex128, m *maths.Matrix, controls, targets []int, n int) {
	controlMask := 0
	for _, c := range controls {
		controlMask |= 1 << c
	}
	dim := 1 << n
	targetMask := 0
	for _, q := range targets {
		targetMask |= 1 << q
	}
	buf := make([]int, 1<<len(targets))
	for base := 0; base < dim; base++ {
		// only visit each coset once, at its all-target-bits-clear root
		if base&targetMask != 0 {
			continue
		}
		if base&controlMask != controlMask {
			continue
		}
		cosetIndices(base, targets, buf)
		applySubVector(state, m, buf)
	}
}

// applySubVector applies m to the sub-vector named by idx (idx[j] is
// the full-state index of sub-basis-state j), in place.
func applySubVector(state []complex128, m *maths.Matrix, idx []int) {
	k := len(idx)
	in := make([]complex128, k)
	for j, ix := range idx {
		in[j] = state[ix]
	}
	out := m.Apply(in)
	for j, ix := range idx {
		state[ix] = out[j]
	}
}
