package optimize

import (
	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
)

const diagonalTolerance = 1e-12

// controlledKinds names the built-in gates whose control/target split
// is known from the kind alone, grounded on Kernel::detect_gate_type's
// name-based lookup table.
var controlledKinds = map[gate.Kind]struct {
	controls []int // indices into Targets
	targets  []int
}{
	gate.CNOT:  {controls: []int{0}, targets: []int{1}},
	gate.CZ:    {controls: []int{0}, targets: []int{1}},
	gate.CRx:   {controls: []int{0}, targets: []int{1}},
	gate.CRy:   {controls: []int{0}, targets: []int{1}},
	gate.CRz:   {controls: []int{0}, targets: []int{1}},
	gate.CP:    {controls: []int{0}, targets: []int{1}},
	gate.CCNOT: {controls: []int{0, 1}, targets: []int{2}},
	gate.CSWAP: {controls: []int{0}, targets: []int{1, 2}},
}

// ClassifyStructure tags each gate Diagonal, Controlled, or
// NonDiagonal. Built-ins in controlledKinds are tagged Controlled
// directly from their kind; everything else is tested against its
// lowered matrix: Diagonal if every off-diagonal entry is within
// tolerance of zero, Controlled (for custom gates) if the matrix acts
// as identity on every basis state with the first target bit clear —
// the detect-by-matrix-inspection fallback from detect_gate_type.
func ClassifyStructure(n int, gates []gate.Gate) ([]gate.Gate, error) {
	out := make([]gate.Gate, len(gates))
	for i := range gates {
		g := gates[i]
		if spec, ok := controlledKinds[g.Kind]; ok {
			controls := make([]int, len(spec.controls))
			for j, idx := range spec.controls {
				controls[j] = g.Targets[idx]
			}
			targets := make([]int, len(spec.targets))
			for j, idx := range spec.targets {
				targets[j] = g.Targets[idx]
			}
			g.Struct = &gate.Structure{Kind: gate.Controlled, Controls: controls, Targets: targets}
			out[i] = g
			continue
		}

		m, err := gate.Lower(&g, n)
		if err != nil {
			return nil, err
		}
		switch {
		case m.IsDiagonal(diagonalTolerance):
			g.Struct = &gate.Structure{Kind: gate.Diagonal}
		case isControlledOnFirstTarget(m):
			g.Struct = &gate.Structure{
				Kind:     gate.Controlled,
				Controls: g.Targets[:1],
				Targets:  g.Targets[1:],
			}
		default:
			g.Struct = &gate.Structure{Kind: gate.NonDiagonal}
		}
		out[i] = g
	}
	return out, nil
}

// isControlledOnFirstTarget reports whether m acts as identity on
// every basis state whose first target bit (the sub-index's LSB) is
// clear — i.e. the block of rows and columns with an even sub-index is
// the identity, matching Kernel::is_controlled_by_zero's intent.
func isControlledOnFirstTarget(m *maths.Matrix) bool {
	for i := 0; i < m.Dim; i += 2 {
		for j := 0; j < m.Dim; j += 2 {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if !maths.AlmostEqual(m.At(i, j), want, diagonalTolerance) {
				return false
			}
		}
	}
	return true
}
