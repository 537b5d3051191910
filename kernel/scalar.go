package kernel

import "github.com/le-hachem/psi/maths"

// ScalarBackend implements Backend with the direct index-pair/coset
// algorithm, no batching or parallelism, grounded on libpsi-core's
// apply_kernel/apply_kernel_direct (there MSB-first; here adapted to
// the bit-0-as-LSB convention used throughout psi).
type ScalarBackend struct{}

var _ Backend = ScalarBackend{}

// Apply1Q updates the 2^{n-1} index pairs (i0, i1 = i0|1<<target) where
// i0 has bit target clear, in lexicographic order of i0.
func (ScalarBackend) Apply1Q(state []complex128, m *maths.Matrix, target, n int) {
	a, b := m.At(0, 0), m.At(0, 1)
	c, d := m.At(1, 0), m.At(1, 1)
	bit := 1 << target
	dim := 1 << n
	for i0 := 0; i0 < dim; i0++ {
		if i0&bit != 0 {
			continue
		}
		i1 := i0 | bit
		s0, s1 := state[i0], state[i1]
		state[i0] = a*s0 + b*s1
		state[i1] = c*s0 + d*s1
	}
}

// Apply2Q groups indices into cosets of size 4 by the two target bits
// and applies the 4x4 matrix to each coset's canonically ordered
// sub-vector (targets[0] is the sub-index LSB).
func (ScalarBackend) Apply2Q(state []complex128, m *maths.Matrix, targets [2]int, n int) {
	applyCosetKernel(state, m, targets[:], n)
}

// Apply3Q is Apply2Q's 8-dimensional sibling for three-target gates.
func (ScalarBackend) Apply3Q(state []complex128, m *maths.Matrix, targets [3]int, n int) {
	applyCosetKernel(state, m, targets[:], n)
}

// applyCosetKernel is the shared k=2,3 coset/sub-vector algorithm.
func applyCosetKernel(state []complex128, m *maths.Matrix, targets []int, n int) {
	targetMask := 0
	for _, q := range targets {
		targetMask |= 1 << q
	}
	dim := 1 << n
	k := len(targets)
	idx := make([]int, 1<<k)
	for base := 0; base < dim; base++ {
		if base&targetMask != 0 {
			continue
		}
		cosetIndices(base, targets, idx)
		applySubVector(state, m, idx)
	}
}
