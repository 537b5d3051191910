package circuit

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
	"github.com/le-hachem/psi/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBellState(t *testing.T) {
	c := New(2).H(0).CNOT(0, 1)
	require.NoError(t, c.Execute(runtime.BasicRT))
	state := c.State()
	assert.InDelta(t, 1/math.Sqrt2, real(state[0]), 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, real(state[3]), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(state[1]), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(state[2]), 1e-9)
	assert.InDelta(t, 0.5, c.Probability(0), 1e-9)
	assert.InDelta(t, 0.5, c.Probability(3), 1e-9)
}

func TestGHZ3(t *testing.T) {
	c := New(3).H(0).CNOT(0, 1).CNOT(1, 2)
	require.NoError(t, c.Execute(runtime.StructureAwareMT))
	probs := c.Probabilities()
	assert.InDelta(t, 0.5, probs[0], 1e-9)
	assert.InDelta(t, 0.5, probs[7], 1e-9)
	for i := 1; i < 7; i++ {
		assert.InDelta(t, 0, probs[i], 1e-9)
	}
}

func TestToffoliTruthTable(t *testing.T) {
	for i := 0; i < 8; i++ {
		c := New(3)
		if i&1 != 0 {
			c.X(0)
		}
		if i&2 != 0 {
			c.X(1)
		}
		if i&4 != 0 {
			c.X(2)
		}
		c.CCNOT(0, 1, 2)
		require.NoError(t, c.Execute(runtime.BasicRT))
		state := c.State()
		want := i
		if i&0b011 == 0b011 {
			want = i ^ 0b100
		}
		for j := 0; j < 8; j++ {
			if j == want {
				assert.InDelta(t, 1, real(state[j]), 1e-9, "input %d", i)
			} else {
				assert.InDelta(t, 0, cmplx.Abs(state[j]), 1e-9, "input %d", i)
			}
		}
	}
}

func TestRotationIdentityRxTwoPi(t *testing.T) {
	c := New(1).Rx(0, 2*math.Pi)
	require.NoError(t, c.Execute(runtime.BasicRT))
	state := c.State()
	// Rx(2π) = -I: global phase, basis-state population unaffected.
	assert.InDelta(t, 1, real(state[0])*real(state[0])+imag(state[0])*imag(state[0]), 1e-9)
}

func TestTToTheEighthIsIdentity(t *testing.T) {
	c := New(1)
	for i := 0; i < 8; i++ {
		c.T(0)
	}
	require.NoError(t, c.Execute(runtime.BasicRT))
	state := c.State()
	assert.InDelta(t, 1, real(state[0]), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(state[1]), 1e-9)
}

func TestReExecuteFromScratch(t *testing.T) {
	c := New(1).X(0)
	require.NoError(t, c.Execute(runtime.BasicRT))
	assert.Equal(t, Ready, c.Phase())
	require.NoError(t, c.Execute(runtime.BasicRT))
	state := c.State()
	assert.InDelta(t, 1, cmplx.Abs(state[1]), 1e-9)
}

func TestAppendAfterReadyReturnsToBuilding(t *testing.T) {
	c := New(1).X(0)
	require.NoError(t, c.Execute(runtime.BasicRT))
	require.Equal(t, Ready, c.Phase())
	c.X(0)
	assert.Equal(t, Building, c.Phase())
}

func TestEmptyCircuitExecuteErrors(t *testing.T) {
	c := New(0)
	err := c.Execute(runtime.BasicRT)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCircuit)
}

func TestAppendCustomRejectsNonUnitary(t *testing.T) {
	c := New(1)
	bad := maths.NewMatrixFrom(2, []complex128{1, 1, 0, 1})
	_, err := c.AppendCustom("bad", []int{0}, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGate)
}

func TestAppendCompositeBuildsBell(t *testing.T) {
	c := New(2)
	_, err := c.AppendComposite("bell-builder", 2, []gate.CompositeOp{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
	})
	require.NoError(t, err)
	require.NoError(t, c.Execute(runtime.BasicRT))
	state := c.State()
	assert.InDelta(t, 1/math.Sqrt2, real(state[0]), 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, real(state[3]), 1e-9)
}
