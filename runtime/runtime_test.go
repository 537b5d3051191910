package runtime

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertStatesClose(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.LessOrEqual(t, cmplx.Abs(want[i]-got[i]), tol, "index %d", i)
	}
}

func randomCircuit(n, numSingle, numCNOT int, seed int) []gate.Gate {
	x := uint64(seed*2654435761 + 12345)
	next := func(mod int) int {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		return int(x % uint64(mod))
	}
	kinds := []gate.Kind{gate.H, gate.X, gate.Y, gate.Z, gate.S, gate.T}
	var gates []gate.Gate
	for i := 0; i < numSingle; i++ {
		gates = append(gates, gate.Gate{Kind: kinds[next(len(kinds))], Targets: []int{next(n)}})
	}
	for i := 0; i < numCNOT; i++ {
		a := next(n)
		b := (a + 1 + next(n-1)) % n
		gates = append(gates, gate.Gate{Kind: gate.CNOT, Targets: []int{a, b}})
	}
	return gates
}

func TestBasicRTBellState(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
	}
	state, err := BasicRT.Run(2, gates)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, real(state[0]), 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, real(state[3]), 1e-9)
	assert.InDelta(t, 0, real(state[1]), 1e-9)
	assert.InDelta(t, 0, real(state[2]), 1e-9)
}

func TestAllBundlesAgreeOnBellState(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
	}
	bundles := []Config{BasicRT, BasicRTMT, BatchedRT, BatchedRTMT, SimdRT, SimdRTMT, StructureAwareRT, StructureAwareMT}
	want, err := BasicRT.Run(2, gates)
	require.NoError(t, err)
	for _, cfg := range bundles {
		got, err := cfg.Run(2, gates)
		require.NoError(t, err)
		assertStatesClose(t, want, got, 1e-9)
	}
}

func TestBatchedEquivalenceOnRandomCircuit(t *testing.T) {
	n := 4
	gates := randomCircuit(n, 50, 10, 7)
	want, err := BasicRT.Run(n, gates)
	require.NoError(t, err)
	got, err := StructureAwareMT.Run(n, gates)
	require.NoError(t, err)
	assertStatesClose(t, want, got, 1e-9)
}

func TestParallelThresholdGatesParallelBackend(t *testing.T) {
	n := 3
	gates := []gate.Gate{{Kind: gate.H, Targets: []int{0}}}
	cfg := Custom().WithParallel(true).WithParallelThreshold(10)
	state, err := cfg.Run(n, gates)
	require.NoError(t, err)
	assert.InDelta(t, 1, maths.Norm2(state), 1e-9)
}

func TestStructureAwareImpliesBatched(t *testing.T) {
	cfg := Custom().WithStructureAware(true)
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.H, Targets: []int{0}},
	}
	state, err := cfg.Run(1, gates)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(state[0]), 1e-9)
	assert.InDelta(t, 0, real(state[1]), 1e-9)
}

func TestGHZ3ViaOptimal(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
		{Kind: gate.CNOT, Targets: []int{1, 2}},
	}
	state, err := Optimal().Run(3, gates)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, real(state[0]), 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, real(state[7]), 1e-9)
	for i := 1; i < 7; i++ {
		assert.InDelta(t, 0, cmplx.Abs(state[i]), 1e-9)
	}
}
