package gate

import (
	"math"
	"math/cmplx"

	"github.com/le-hachem/psi/maths"
)

// sqrtHalf is 1/√2, the Hadamard and U2 normalisation constant.
var sqrtHalf = 1 / math.Sqrt2

// fixed1Q holds the precomputed matrices for fixed-angle single-qubit
// gates, grounded on the lazy_static QuantumGate table in
// libpsi-core's gates.rs.
var fixed1Q = map[Kind]*maths.Matrix{
	H: maths.NewMatrixFrom(2, []complex128{
		complex(sqrtHalf, 0), complex(sqrtHalf, 0),
		complex(sqrtHalf, 0), complex(-sqrtHalf, 0),
	}),
	X: maths.NewMatrixFrom(2, []complex128{
		0, 1,
		1, 0,
	}),
	Y: maths.NewMatrixFrom(2, []complex128{
		0, complex(0, -1),
		complex(0, 1), 0,
	}),
	Z: maths.NewMatrixFrom(2, []complex128{
		1, 0,
		0, -1,
	}),
	S: maths.NewMatrixFrom(2, []complex128{
		1, 0,
		0, complex(0, 1),
	}),
	T: maths.NewMatrixFrom(2, []complex128{
		1, 0,
		0, cmplx.Exp(complex(0, math.Pi/4)),
	}),
	Sdg: maths.NewMatrixFrom(2, []complex128{
		1, 0,
		0, complex(0, -1),
	}),
	Tdg: maths.NewMatrixFrom(2, []complex128{
		1, 0,
		0, cmplx.Exp(complex(0, -math.Pi/4)),
	}),
	Sx: maths.NewMatrixFrom(2, []complex128{
		complex(0.5, 0.5), complex(0.5, -0.5),
		complex(0.5, -0.5), complex(0.5, 0.5),
	}),
	Sxdg: maths.NewMatrixFrom(2, []complex128{
		complex(0.5, -0.5), complex(0.5, 0.5),
		complex(0.5, 0.5), complex(0.5, -0.5),
	}),
}

// fixed2Q holds the precomputed matrices for fixed two-qubit gates,
// little-endian basis ordering |t1 t0⟩ (t0 = Targets[0] is the
// low-order bit), matching the LSB convention fixed for psi.
var fixed2Q = map[Kind]*maths.Matrix{
	CNOT: maths.NewMatrixFrom(4, []complex128{
		1, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
		0, 1, 0, 0,
	}),
	CZ: maths.NewMatrixFrom(4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	}),
	SWAP: maths.NewMatrixFrom(4, []complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}),
	// iSWAP and √SWAP are not named in the distilled spec but are
	// present in libpsi-core's gate table; carried forward here.
	ISwap: maths.NewMatrixFrom(4, []complex128{
		1, 0, 0, 0,
		0, 0, complex(0, 1), 0,
		0, complex(0, 1), 0, 0,
		0, 0, 0, 1,
	}),
	SqrtSwap: maths.NewMatrixFrom(4, []complex128{
		1, 0, 0, 0,
		0, complex(0.5, 0.5), complex(0.5, -0.5), 0,
		0, complex(0.5, -0.5), complex(0.5, 0.5), 0,
		0, 0, 0, 1,
	}),
}

// fixed3Q holds the precomputed matrices for the two fixed three-qubit
// gates, with the leading target(s) acting as control(s) per the gate's
// own convention: CCNOT controls on Targets[0],Targets[1] and flips
// Targets[2]; CSWAP controls on Targets[0] and swaps Targets[1],Targets[2].
var fixed3Q = map[Kind]*maths.Matrix{
	CCNOT: ccnotMatrix(),
	CSWAP: cswapMatrix(),
}

func ccnotMatrix() *maths.Matrix {
	m := maths.Identity(8)
	// flips target bit 2 iff control bits 0 and 1 are both set
	m.Set(3, 3, 0)
	m.Set(7, 7, 0)
	m.Set(3, 7, 1)
	m.Set(7, 3, 1)
	return m
}

func cswapMatrix() *maths.Matrix {
	m := maths.Identity(8)
	// control bit 0; swap bits 1 and 2 when the control is set
	m.Set(3, 3, 0)
	m.Set(5, 5, 0)
	m.Set(3, 5, 1)
	m.Set(5, 3, 1)
	return m
}

func rxMatrix(theta float64) *maths.Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return maths.NewMatrixFrom(2, []complex128{c, s, s, c})
}

func ryMatrix(theta float64) *maths.Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return maths.NewMatrixFrom(2, []complex128{c, -s, s, c})
}

func rzMatrix(theta float64) *maths.Matrix {
	return maths.NewMatrixFrom(2, []complex128{
		cmplx.Exp(complex(0, -theta/2)), 0,
		0, cmplx.Exp(complex(0, theta/2)),
	})
}

func pMatrix(phi float64) *maths.Matrix {
	return maths.NewMatrixFrom(2, []complex128{
		1, 0,
		0, cmplx.Exp(complex(0, phi)),
	})
}

func u1Matrix(lambda float64) *maths.Matrix {
	return pMatrix(lambda)
}

func u2Matrix(phi, lambda float64) *maths.Matrix {
	eiPhi := cmplx.Exp(complex(0, phi))
	eiLambda := cmplx.Exp(complex(0, lambda))
	eiBoth := cmplx.Exp(complex(0, phi+lambda))
	return maths.NewMatrixFrom(2, []complex128{
		complex(sqrtHalf, 0), -eiLambda * complex(sqrtHalf, 0),
		eiPhi * complex(sqrtHalf, 0), eiBoth * complex(sqrtHalf, 0),
	})
}

func u3Matrix(theta, phi, lambda float64) *maths.Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	eiLambda := cmplx.Exp(complex(0, lambda))
	eiPhi := cmplx.Exp(complex(0, phi))
	eiBoth := cmplx.Exp(complex(0, phi+lambda))
	return maths.NewMatrixFrom(2, []complex128{
		c, -eiLambda * s,
		eiPhi * s, eiBoth * c,
	})
}

// controlled1QMatrix builds the 4x4 controlled version of a 2x2 base
// matrix, control on bit 0 (the low-order basis index), target on
// bit 1 — matching the Targets = [control, target] convention used by
// CRx/CRy/CRz/CP.
func controlled1QMatrix(base *maths.Matrix) *maths.Matrix {
	m := maths.Identity(4)
	// basis states with control bit set: indices 1 and 3 (binary 01, 11)
	// acting on target bit (bit 1): pairs (1,3)
	m.Set(1, 1, base.At(0, 0))
	m.Set(1, 3, base.At(0, 1))
	m.Set(3, 1, base.At(1, 0))
	m.Set(3, 3, base.At(1, 1))
	return m
}

// Lower computes the canonical unitary for a gate, given the circuit's
// total qubit count n (used only to range-check the target indices;
// fixed/parametric gates are always returned as their native-size
// matrix for the caller to embed into the full state space).
func Lower(g *Gate, n int) (*maths.Matrix, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := g.CheckRange(n); err != nil {
		return nil, err
	}

	switch g.Kind {
	case H, X, Y, Z, S, T, Sdg, Tdg, Sx, Sxdg:
		return fixed1Q[g.Kind], nil
	case CNOT, CZ, SWAP, ISwap, SqrtSwap:
		return fixed2Q[g.Kind], nil
	case CCNOT, CSWAP:
		return fixed3Q[g.Kind], nil
	case Rx:
		return rxMatrix(g.Params[0]), nil
	case Ry:
		return ryMatrix(g.Params[0]), nil
	case Rz:
		return rzMatrix(g.Params[0]), nil
	case P:
		return pMatrix(g.Params[0]), nil
	case U1:
		return u1Matrix(g.Params[0]), nil
	case U2:
		return u2Matrix(g.Params[0], g.Params[1]), nil
	case U3:
		return u3Matrix(g.Params[0], g.Params[1], g.Params[2]), nil
	case CRx:
		return controlled1QMatrix(rxMatrix(g.Params[0])), nil
	case CRy:
		return controlled1QMatrix(ryMatrix(g.Params[0])), nil
	case CRz:
		return controlled1QMatrix(rzMatrix(g.Params[0])), nil
	case CP:
		return controlled1QMatrix(pMatrix(g.Params[0])), nil
	case Custom, Fused:
		if g.Matrix == nil {
			return nil, ErrDimensionMismatch
		}
		return g.Matrix, nil
	case Composite:
		return LowerComposite(g, n)
	default:
		return nil, ErrInvalidGate
	}
}
