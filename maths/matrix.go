// Package maths provides the dense complex matrix and state-vector
// primitives the rest of psi is built on. Amplitudes and matrix entries
// are native complex128; there is no hand-rolled complex type.
package maths

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a row-major square complex matrix of dimension Dim, where
// Dim is a power of two in {2, 4, 8} for the gate shapes psi deals with.
type Matrix struct {
	Dim  int
	Data []complex128
}

// NewMatrix allocates a zeroed Dim x Dim matrix.
func NewMatrix(dim int) *Matrix {
	return &Matrix{Dim: dim, Data: make([]complex128, dim*dim)}
}

// NewMatrixFrom builds a matrix from row-major data, panicking if data's
// length isn't dim*dim.
func NewMatrixFrom(dim int, data []complex128) *Matrix {
	if len(data) != dim*dim {
		panic(fmt.Sprintf("maths: data length %d does not match dim %d", len(data), dim))
	}
	out := make([]complex128, len(data))
	copy(out, data)
	return &Matrix{Dim: dim, Data: out}
}

// Identity returns the Dim x Dim identity matrix.
func Identity(dim int) *Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

// At returns the entry at (row, col).
func (m *Matrix) At(row, col int) complex128 {
	return m.Data[row*m.Dim+col]
}

// Set assigns the entry at (row, col).
func (m *Matrix) Set(row, col int, v complex128) {
	m.Data[row*m.Dim+col] = v
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return NewMatrixFrom(m.Dim, m.Data)
}

// Mul computes m * other (matrix-matrix product). Dimensions must match.
func (m *Matrix) Mul(other *Matrix) *Matrix {
	if m.Dim != other.Dim {
		panic(fmt.Sprintf("maths: dimension mismatch %d vs %d", m.Dim, other.Dim))
	}
	n := m.Dim
	out := NewMatrix(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a := m.Data[i*n+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.Data[i*n+j] += a * other.Data[k*n+j]
			}
		}
	}
	return out
}

// Apply computes m * v (matrix-vector product) for a vector the size of
// m's dimension, returning a freshly allocated result.
func (m *Matrix) Apply(v []complex128) []complex128 {
	n := m.Dim
	if len(v) != n {
		panic(fmt.Sprintf("maths: vector length %d does not match dim %d", len(v), n))
	}
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		var sum complex128
		for j := 0; j < n; j++ {
			sum += m.Data[i*n+j] * v[j]
		}
		out[i] = sum
	}
	return out
}

// Scale multiplies every entry by a scalar.
func (m *Matrix) Scale(s complex128) *Matrix {
	out := NewMatrix(m.Dim)
	for i, v := range m.Data {
		out.Data[i] = v * s
	}
	return out
}

// ConjTranspose returns the conjugate transpose U†.
func (m *Matrix) ConjTranspose() *Matrix {
	n := m.Dim
	out := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Data[j*n+i] = cmplx.Conj(m.Data[i*n+j])
		}
	}
	return out
}

// IsUnitary reports whether ‖U U† − I‖_max is within tol.
func (m *Matrix) IsUnitary(tol float64) bool {
	n := m.Dim
	prod := m.Mul(m.ConjTranspose())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(prod.Data[i*n+j]-want) > tol {
				return false
			}
		}
	}
	return true
}

// IsDiagonal reports whether every off-diagonal entry has modulus < tol.
func (m *Matrix) IsDiagonal(tol float64) bool {
	n := m.Dim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if cmplx.Abs(m.Data[i*n+j]) >= tol {
				return false
			}
		}
	}
	return true
}

// IsIdentityUpToPhase reports whether m equals e^{iφ}·I within tol, for
// some phase φ, by comparing against the phase of its first diagonal
// entry.
func (m *Matrix) IsIdentityUpToPhase(tol float64) bool {
	n := m.Dim
	if n == 0 {
		return true
	}
	ref := m.Data[0]
	if cmplx.Abs(ref) < tol {
		return false
	}
	phase := ref / complex(cmplx.Abs(ref), 0)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := complex128(0)
			if i == j {
				want = phase
			}
			if cmplx.Abs(m.Data[i*n+j]-want) > tol {
				return false
			}
		}
	}
	return true
}

// IsPowerOfTwoSquare reports whether dim is a positive power of two.
func IsPowerOfTwoSquare(dim int) bool {
	return dim > 0 && dim&(dim-1) == 0
}

// Log2 returns k such that 2^k == dim, or -1 if dim is not a power of two.
func Log2(dim int) int {
	if !IsPowerOfTwoSquare(dim) {
		return -1
	}
	return int(math.Log2(float64(dim)) + 0.5)
}

// Norm2 returns the sum of squared moduli of a state vector — the total
// probability, which must stay within 1e-9 of 1 after any gate apply.
func Norm2(state []complex128) float64 {
	var sum float64
	for _, a := range state {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return sum
}

// AlmostEqual compares two complex numbers within an absolute tolerance.
func AlmostEqual(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol
}
