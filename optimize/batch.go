// Package optimize rewrites a gate list into an equivalent, cheaper
// one: per-wire single-qubit fusion, diagonal/controlled structure
// tagging, commutation-based reordering, multi-pass fusion, and greedy
// disjoint layering — the five passes from libpsi-core's
// kernel.rs KernelBatch/StructureAwareKernelBatch, re-derived against
// the bit-0-as-LSB convention.
package optimize

import (
	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
)

// identityDropTolerance is the ‖M − e^{iφ}I‖_max bound below which a
// fused single-qubit accumulator is dropped instead of emitted.
const identityDropTolerance = 1e-12

// Batch walks gates left to right, maintaining one pending 2x2
// accumulator per wire. A single-qubit gate on wire q is left-multiplied
// into that wire's accumulator; a multi-qubit gate flushes every wire it
// touches as a Fused gate emitted immediately before it. Remaining
// accumulators flush at the end. Fused composition order matches
// program order: for g1 then g2 then g3 on the same wire, the fused
// matrix is M3·M2·M1.
func Batch(n int, gates []gate.Gate) ([]gate.Gate, error) {
	acc := make([]*maths.Matrix, n) // nil means "no pending gate on this wire"
	out := make([]gate.Gate, 0, len(gates))

	flush := func(q int) {
		m := acc[q]
		acc[q] = nil
		if m == nil {
			return
		}
		if m.IsIdentityUpToPhase(identityDropTolerance) {
			return
		}
		out = append(out, gate.Gate{Kind: gate.Fused, Targets: []int{q}, Matrix: m, Name: "fused"})
	}

	for _, g := range gates {
		m, err := gate.Lower(&g, n)
		if err != nil {
			return nil, err
		}
		if len(g.Targets) == 1 {
			q := g.Targets[0]
			if acc[q] == nil {
				acc[q] = m.Clone()
			} else {
				acc[q] = m.Mul(acc[q])
			}
			continue
		}
		for _, q := range g.Targets {
			flush(q)
		}
		out = append(out, g)
	}
	for q := 0; q < n; q++ {
		flush(q)
	}
	return out, nil
}
