package kernel

import (
	"github.com/le-hachem/psi/internal/cpufeat"
	"github.com/le-hachem/psi/maths"
)

// SIMDBackend is the batched variant of ScalarBackend: it processes
// several index pairs or cosets per unrolled loop body, with the
// unroll width chosen from the detected cpufeat.Level. There is no
// unsafe code or compiler-experiment dependency here — "SIMD" means
// manually unrolled pure-Go loops, the same idiom used for
// MulFloat64SIMD-style kernels elsewhere in the Go ecosystem; the
// compiler is left to auto-vectorize where it can.
type SIMDBackend struct {
	level cpufeat.Level
}

var _ Backend = SIMDBackend{}

// NewSIMDBackend builds a backend pinned to the host's detected SIMD
// level.
func NewSIMDBackend() SIMDBackend {
	return SIMDBackend{level: cpufeat.Detect()}
}

// NewSIMDBackendAt pins the backend to an explicit level, bypassing
// detection, for tests that need to force a specific level.
func NewSIMDBackendAt(level cpufeat.Level) SIMDBackend {
	return SIMDBackend{level: level}
}

func (s SIMDBackend) Apply1Q(state []complex128, m *maths.Matrix, target, n int) {
	width := s.level.Width()
	if width > maxSIMDWidth {
		width = maxSIMDWidth
	}
	apply1QBatched(state, m, target, n, width)
}

func (s SIMDBackend) Apply2Q(state []complex128, m *maths.Matrix, targets [2]int, n int) {
	applyCosetKernel(state, m, targets[:], n) // 4-wide coset body, batching adds little here
}

func (s SIMDBackend) Apply3Q(state []complex128, m *maths.Matrix, targets [3]int, n int) {
	applyCosetKernel(state, m, targets[:], n)
}

// apply1QBatched is the shared unrolled-by-width single-qubit kernel;
// the per-architecture dispatch files only decide which width to pass.
func apply1QBatched(state []complex128, m *maths.Matrix, target, n, width int) {
	a, b := m.At(0, 0), m.At(0, 1)
	c, d := m.At(1, 0), m.At(1, 1)
	bit := 1 << target
	dim := 1 << n

	// collect the i0 side of every pair first so the hot loop below is a
	// flat, branch-light unrolled sweep — mirrors the pure-Go
	// manual-unroll idiom (process `width` elements per iteration,
	// remainder handled by a scalar tail).
	pairs := make([]int, 0, dim/2)
	for i0 := 0; i0 < dim; i0++ {
		if i0&bit == 0 {
			pairs = append(pairs, i0)
		}
	}

	i := 0
	for ; i+width <= len(pairs); i += width {
		for w := 0; w < width; w++ {
			i0 := pairs[i+w]
			i1 := i0 | bit
			s0, s1 := state[i0], state[i1]
			state[i0] = a*s0 + b*s1
			state[i1] = c*s0 + d*s1
		}
	}
	for ; i < len(pairs); i++ {
		i0 := pairs[i]
		i1 := i0 | bit
		s0, s1 := state[i0], state[i1]
		state[i0] = a*s0 + b*s1
		state[i1] = c*s0 + d*s1
	}
}
