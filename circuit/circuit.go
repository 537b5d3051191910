// Package circuit is the fluent circuit-builder and execution surface:
// append gates, execute against a chosen runtime.Config, and read back
// the resulting amplitude vector. Grounded on
// libpsi-core/src/core/circuit.rs's QuantumCircuit.
package circuit

import (
	"errors"
	"fmt"

	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
	"github.com/le-hachem/psi/runtime"
)

// ErrInvalidGate and ErrDimensionMismatch are aliased from gate, since
// that is where gate-shape validation actually happens.
var (
	ErrInvalidGate       = gate.ErrInvalidGate
	ErrDimensionMismatch = gate.ErrDimensionMismatch
)

// ErrEmptyCircuit is returned by Execute on a circuit with no qubits.
var ErrEmptyCircuit = errors.New("circuit: empty circuit")

// Phase names a Circuit's lifecycle state.
type Phase int

const (
	Building Phase = iota
	Executing
	Ready
)

func (p Phase) String() string {
	switch p {
	case Executing:
		return "Executing"
	case Ready:
		return "Ready"
	default:
		return "Building"
	}
}

// Circuit owns a qubit count, an ordered gate list, and — once
// executed — the resulting state vector.
type Circuit struct {
	n     int
	gates []gate.Gate
	state []complex128
	phase Phase
}

// New creates an empty n-qubit circuit in the Building phase.
func New(n int) *Circuit {
	return &Circuit{n: n, phase: Building}
}

// NumQubits returns the circuit's qubit count.
func (c *Circuit) NumQubits() int { return c.n }

// Phase returns the circuit's current lifecycle phase.
func (c *Circuit) Phase() Phase { return c.phase }

// Gates returns a copy of the circuit's current gate list.
func (c *Circuit) Gates() []gate.Gate {
	return append([]gate.Gate(nil), c.gates...)
}

// append records a gate and, if the circuit was Ready, transitions it
// back to Building while retaining the prior state until the next
// Execute.
func (c *Circuit) append(g gate.Gate) *Circuit {
	c.gates = append(c.gates, g)
	if c.phase == Ready {
		c.phase = Building
	}
	return c
}

func (c *Circuit) append1(k gate.Kind, target int) *Circuit {
	return c.append(gate.Gate{Kind: k, Targets: []int{target}})
}

func (c *Circuit) append1p(k gate.Kind, target int, params ...float64) *Circuit {
	return c.append(gate.Gate{Kind: k, Targets: []int{target}, Params: params})
}

func (c *Circuit) append2(k gate.Kind, a, b int) *Circuit {
	return c.append(gate.Gate{Kind: k, Targets: []int{a, b}})
}

func (c *Circuit) append2p(k gate.Kind, a, b int, params ...float64) *Circuit {
	return c.append(gate.Gate{Kind: k, Targets: []int{a, b}, Params: params})
}

func (c *Circuit) append3(k gate.Kind, a, b, d int) *Circuit {
	return c.append(gate.Gate{Kind: k, Targets: []int{a, b, d}})
}

// H, X, Y, Z, S, T, Sdg, Tdg, Sx, Sxdg append the named fixed
// single-qubit gate.
func (c *Circuit) H(q int) *Circuit    { return c.append1(gate.H, q) }
func (c *Circuit) X(q int) *Circuit    { return c.append1(gate.X, q) }
func (c *Circuit) Y(q int) *Circuit    { return c.append1(gate.Y, q) }
func (c *Circuit) Z(q int) *Circuit    { return c.append1(gate.Z, q) }
func (c *Circuit) S(q int) *Circuit    { return c.append1(gate.S, q) }
func (c *Circuit) T(q int) *Circuit    { return c.append1(gate.T, q) }
func (c *Circuit) Sdg(q int) *Circuit  { return c.append1(gate.Sdg, q) }
func (c *Circuit) Tdg(q int) *Circuit  { return c.append1(gate.Tdg, q) }
func (c *Circuit) Sx(q int) *Circuit   { return c.append1(gate.Sx, q) }
func (c *Circuit) Sxdg(q int) *Circuit { return c.append1(gate.Sxdg, q) }

// Rx, Ry, Rz, P, U1, U2, U3 append the named parametric single-qubit
// gate.
func (c *Circuit) Rx(q int, theta float64) *Circuit { return c.append1p(gate.Rx, q, theta) }
func (c *Circuit) Ry(q int, theta float64) *Circuit { return c.append1p(gate.Ry, q, theta) }
func (c *Circuit) Rz(q int, theta float64) *Circuit { return c.append1p(gate.Rz, q, theta) }
func (c *Circuit) P(q int, phi float64) *Circuit    { return c.append1p(gate.P, q, phi) }
func (c *Circuit) U1(q int, lambda float64) *Circuit { return c.append1p(gate.U1, q, lambda) }
func (c *Circuit) U2(q int, phi, lambda float64) *Circuit {
	return c.append1p(gate.U2, q, phi, lambda)
}
func (c *Circuit) U3(q int, theta, phi, lambda float64) *Circuit {
	return c.append1p(gate.U3, q, theta, phi, lambda)
}

// CNOT, CZ, SWAP, ISwap, SqrtSwap append the named fixed two-qubit
// gate.
func (c *Circuit) CNOT(control, target int) *Circuit { return c.append2(gate.CNOT, control, target) }
func (c *Circuit) CZ(a, b int) *Circuit               { return c.append2(gate.CZ, a, b) }
func (c *Circuit) SWAP(a, b int) *Circuit             { return c.append2(gate.SWAP, a, b) }
func (c *Circuit) ISwap(a, b int) *Circuit            { return c.append2(gate.ISwap, a, b) }
func (c *Circuit) SqrtSwap(a, b int) *Circuit         { return c.append2(gate.SqrtSwap, a, b) }

// CRx, CRy, CRz, CP append the named parametric two-qubit gate,
// control first.
func (c *Circuit) CRx(control, target int, theta float64) *Circuit {
	return c.append2p(gate.CRx, control, target, theta)
}
func (c *Circuit) CRy(control, target int, theta float64) *Circuit {
	return c.append2p(gate.CRy, control, target, theta)
}
func (c *Circuit) CRz(control, target int, theta float64) *Circuit {
	return c.append2p(gate.CRz, control, target, theta)
}
func (c *Circuit) CP(control, target int, phi float64) *Circuit {
	return c.append2p(gate.CP, control, target, phi)
}

// CCNOT (Toffoli) and CSWAP (Fredkin) append the named fixed
// three-qubit gate.
func (c *Circuit) CCNOT(c1, c2, target int) *Circuit { return c.append3(gate.CCNOT, c1, c2, target) }
func (c *Circuit) Toffoli(c1, c2, target int) *Circuit {
	return c.CCNOT(c1, c2, target)
}
func (c *Circuit) CSWAP(control, a, b int) *Circuit { return c.append3(gate.CSWAP, control, a, b) }
func (c *Circuit) Fredkin(control, a, b int) *Circuit {
	return c.CSWAP(control, a, b)
}

// AppendCustom appends an explicit-matrix custom gate, returning an
// error if the matrix is not unitary within gate.UnitarityTolerance or
// its dimension doesn't match len(targets).
func (c *Circuit) AppendCustom(name string, targets []int, m *maths.Matrix) (*Circuit, error) {
	g, err := gate.NewCustomFromMatrix(name, targets, m)
	if err != nil {
		return c, err
	}
	return c.append(*g), nil
}

// AppendComposite appends a gate built by multiplying the full
// operators of a list of sub-operations, returning an error if any
// sub-operation is invalid.
func (c *Circuit) AppendComposite(name string, numQubits int, ops []gate.CompositeOp) (*Circuit, error) {
	g, err := gate.NewCustomFromComposite(name, numQubits, ops)
	if err != nil {
		return c, err
	}
	return c.append(*g), nil
}

// Execute runs the circuit under cfg, resetting to |0...0> and
// recomputing from scratch regardless of any previous result. On
// success the circuit transitions to Ready and State becomes
// available; on error, state is left untouched (no partial mutation).
func (c *Circuit) Execute(cfg runtime.Config) error {
	if c.n <= 0 {
		return ErrEmptyCircuit
	}
	c.phase = Executing
	state, err := cfg.Run(c.n, c.gates)
	if err != nil {
		c.phase = Building
		return fmt.Errorf("circuit: execute: %w", err)
	}
	c.state = state
	c.phase = Ready
	return nil
}

// State returns the most recently computed amplitude vector, or nil
// if the circuit has never been successfully executed.
func (c *Circuit) State() []complex128 {
	return c.state
}

// Probability returns |amplitude|^2 for basis state i, a deterministic
// read with no collapse — distinct from measurement sampling, which
// this package does not implement. Supplements the distilled
// specification with libpsi-core's QuantumCircuit::probability.
func (c *Circuit) Probability(i int) float64 {
	a := c.state[i]
	return real(a)*real(a) + imag(a)*imag(a)
}

// Probabilities returns |amplitude|^2 for every basis state, in
// ascending index order.
func (c *Circuit) Probabilities() []float64 {
	out := make([]float64, len(c.state))
	for i, a := range c.state {
		out[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return out
}
