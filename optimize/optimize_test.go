package optimize

import (
	"testing"

	"github.com/le-hachem/psi/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchFusesConsecutiveSingleQubitGates(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.X, Targets: []int{0}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
	}
	out, err := Batch(2, gates)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, gate.Fused, out[0].Kind)
	assert.Equal(t, gate.CNOT, out[1].Kind)
}

func TestBatchDropsIdentityAccumulator(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.H, Targets: []int{0}},
	}
	out, err := Batch(1, gates)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBatchIsIdempotent(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.T, Targets: []int{0}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
		{Kind: gate.Rz, Targets: []int{1}, Params: []float64{0.7}},
	}
	once, err := Batch(2, gates)
	require.NoError(t, err)
	twice, err := Batch(2, once)
	require.NoError(t, err)
	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].Kind, twice[i].Kind)
	}
}

func TestClassifyStructureTagsBuiltinControlled(t *testing.T) {
	gates := []gate.Gate{{Kind: gate.CNOT, Targets: []int{0, 1}}}
	out, err := ClassifyStructure(2, gates)
	require.NoError(t, err)
	require.NotNil(t, out[0].Struct)
	assert.Equal(t, gate.Controlled, out[0].Struct.Kind)
	assert.Equal(t, []int{0}, out[0].Struct.Controls)
	assert.Equal(t, []int{1}, out[0].Struct.Targets)
}

func TestClassifyStructureTagsDiagonal(t *testing.T) {
	gates := []gate.Gate{{Kind: gate.Z, Targets: []int{0}}}
	out, err := ClassifyStructure(1, gates)
	require.NoError(t, err)
	assert.Equal(t, gate.Diagonal, out[0].Struct.Kind)
}

func TestClassifyStructureTagsNonDiagonal(t *testing.T) {
	gates := []gate.Gate{{Kind: gate.H, Targets: []int{0}}}
	out, err := ClassifyStructure(1, gates)
	require.NoError(t, err)
	assert.Equal(t, gate.NonDiagonal, out[0].Struct.Kind)
}

func TestReorderPullsDiagonalsTogether(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.Z, Targets: []int{1}},
	}
	tagged, err := ClassifyStructure(2, gates)
	require.NoError(t, err)
	out := Reorder(2, tagged)
	require.Len(t, out, 2)
	assert.Equal(t, gate.Z, out[0].Kind)
}

func TestReorderRespectsNonCommutingPairs(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.X, Targets: []int{0}},
	}
	tagged, err := ClassifyStructure(1, gates)
	require.NoError(t, err)
	out := Reorder(1, tagged)
	// Overlapping support, neither diagonal-commuting: order preserved.
	assert.Equal(t, gate.H, out[0].Kind)
	assert.Equal(t, gate.X, out[1].Kind)
}

func TestMultiPassFuseReachesFixedPoint(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.T, Targets: []int{0}},
		{Kind: gate.S, Targets: []int{0}},
	}
	out, err := MultiPassFuse(1, gates)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, gate.Fused, out[0].Kind)
	assert.True(t, out[0].Matrix.IsUnitary(1e-9))
}

func TestMultiPassFuseOf2QPair(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.CNOT, Targets: []int{0, 1}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
	}
	out, err := MultiPassFuse(2, gates)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Matrix.IsIdentityUpToPhase(1e-9))
}

func TestLayerGatesProducesDisjointLayers(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.H, Targets: []int{1}},
		{Kind: gate.CNOT, Targets: []int{0, 1}},
		{Kind: gate.H, Targets: []int{2}},
	}
	layers := LayerGates(gates)
	for _, l := range layers {
		for i := 0; i < len(l.Gates); i++ {
			for j := i + 1; j < len(l.Gates); j++ {
				assert.True(t, disjoint(l.Gates[i].Targets, l.Gates[j].Targets))
			}
		}
	}
	// H(0), H(1), H(2) should all land in the first layer alongside each
	// other (pairwise disjoint); CNOT(0,1) must wait for a later layer.
	assert.True(t, len(layers) >= 2)
}

func TestLayerGatesPreservesProgramOrderAcrossLayers(t *testing.T) {
	gates := []gate.Gate{
		{Kind: gate.H, Targets: []int{0}},
		{Kind: gate.X, Targets: []int{0}},
	}
	layers := LayerGates(gates)
	require.Len(t, layers, 2)
	assert.Equal(t, gate.H, layers[0].Gates[0].Kind)
	assert.Equal(t, gate.X, layers[1].Gates[0].Kind)
}

func TestBoundedReorderTerminatesOnLargerCircuit(t *testing.T) {
	n := 6
	var gates []gate.Gate
	for i := 0; i < 40; i++ {
		gates = append(gates, gate.Gate{Kind: gate.Z, Targets: []int{i % n}})
	}
	tagged, err := ClassifyStructure(n, gates)
	require.NoError(t, err)
	out := Reorder(n, tagged)
	assert.Equal(t, len(gates), len(out))
}
