package gate

import (
	"fmt"

	"github.com/le-hachem/psi/maths"
)

// CompositeOp is one step of a composite gate definition: apply the
// named sub-gate to the given qubits, relative to the composite's own
// local qubit numbering. Mirrors CompositeOp in libpsi-core's
// custom_gate.rs.
type CompositeOp struct {
	Kind    Kind
	Targets []int
	Params  []float64
}

// NewCustomFromMatrix builds a Custom gate from an explicit unitary.
// dim must be a power of two and matrix must be unitary to within
// UnitarityTolerance; targets must number log2(dim).
func NewCustomFromMatrix(name string, targets []int, m *maths.Matrix) (*Gate, error) {
	if !maths.IsPowerOfTwoSquare(m.Dim) {
		return nil, fmt.Errorf("%w: custom gate matrix dimension %d is not a power of two", ErrDimensionMismatch, m.Dim)
	}
	if maths.Log2(m.Dim) != len(targets) {
		return nil, fmt.Errorf("%w: custom gate %q has %d targets but a %dx%d matrix", ErrDimensionMismatch, name, len(targets), m.Dim, m.Dim)
	}
	if !m.IsUnitary(UnitarityTolerance) {
		return nil, fmt.Errorf("%w: custom gate %q matrix is not unitary within tolerance", ErrInvalidGate, name)
	}
	g := &Gate{Kind: Custom, Targets: append([]int(nil), targets...), Matrix: m, Name: name}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewCustomFromComposite builds a Custom gate by multiplying together
// the full-operator embeddings of each sub-operation, in reverse
// application order (so the first op in ops is applied first to the
// state, matching build_full_operator/compute_composite_matrix in
// custom_gate.rs). numQubits is the composite gate's own local qubit
// count (targets in ops are indices into this local space).
func NewCustomFromComposite(name string, numQubits int, ops []CompositeOp) (*Gate, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: composite gate %q has no operations", ErrInvalidGate, name)
	}
	dim := 1 << numQubits
	acc := maths.Identity(dim)
	// Apply ops[0] first: acc_after = U_last * ... * U_0, so we
	// left-multiply as we walk forward, same order the Rust source uses.
	for _, op := range ops {
		sub := &Gate{Kind: op.Kind, Targets: op.Targets, Params: op.Params}
		subMatrix, err := Lower(sub, numQubits)
		if err != nil {
			return nil, fmt.Errorf("composite gate %q: %w", name, err)
		}
		full, err := embed(subMatrix, op.Targets, numQubits)
		if err != nil {
			return nil, fmt.Errorf("composite gate %q: %w", name, err)
		}
		acc = full.Mul(acc)
	}
	targets := make([]int, numQubits)
	for i := range targets {
		targets[i] = i
	}
	return &Gate{Kind: Composite, Targets: targets, Matrix: acc, Name: name}, nil
}

// LowerComposite returns a Composite-kind gate's pre-flattened matrix.
// NewCustomFromComposite is the only constructor for this kind and
// always populates Matrix, so this never needs to recompute anything;
// it exists as the dispatch target Lower calls for Kind == Composite.
func LowerComposite(g *Gate, n int) (*maths.Matrix, error) {
	if g.Matrix != nil {
		return g.Matrix, nil
	}
	return nil, fmt.Errorf("%w: composite gate %q was never flattened to a matrix", ErrInvalidGate, g.Name)
}

// embed expands a k-qubit sub-matrix acting on the given local target
// qubits into the full 2^n x 2^n operator, via the standard tensor
// expansion: apply the small unitary entrywise over every assignment
// of the untouched qubits, little-endian bit order (bit i is qubit i).
func embed(sub *maths.Matrix, targets []int, n int) (*maths.Matrix, error) {
	k := maths.Log2(sub.Dim)
	if k != len(targets) {
		return nil, fmt.Errorf("%w: sub-gate acts on %d qubits but has %d targets", ErrDimensionMismatch, k, len(targets))
	}
	dim := 1 << n
	full := maths.NewMatrix(dim)

	others := make([]int, 0, n-k)
	touched := make(map[int]bool, k)
	for _, t := range targets {
		touched[t] = true
	}
	for q := 0; q < n; q++ {
		if !touched[q] {
			others = append(others, q)
		}
	}

	// iterate every assignment of the untouched qubits
	otherCount := 1 << len(others)
	for o := 0; o < otherCount; o++ {
		base := 0
		for i, q := range others {
			if o&(1<<i) != 0 {
				base |= 1 << q
			}
		}
		// iterate every pair of sub-space basis states
		for row := 0; row < sub.Dim; row++ {
			fullRow := base
			for i, q := range targets {
				if row&(1<<i) != 0 {
					fullRow |= 1 << q
				}
			}
			for col := 0; col < sub.Dim; col++ {
				v := sub.At(row, col)
				if v == 0 {
					continue
				}
				fullCol := base
				for i, q := range targets {
					if col&(1<<i) != 0 {
						fullCol |= 1 << q
					}
				}
				full.Set(fullRow, fullCol, v)
			}
		}
	}
	return full, nil
}
