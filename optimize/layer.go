package optimize

import "github.com/le-hachem/psi/gate"

// Layer is a set of gates with pairwise-disjoint qubit supports, safe
// to apply concurrently. Program order between gates with overlapping
// support is preserved: the earlier of two such gates always sits in a
// strictly earlier layer, so applying the layers in sequence gives the
// same result as the original gate list.
type Layer struct {
	Gates []gate.Gate
}

// LayerGates greedily places each gate into the earliest layer that
// comes after every layer holding a gate whose support overlaps it,
// creating a new layer when no such layer exists yet. Grounded on
// StructureAwareKernelBatch::build_execution_layers.
func LayerGates(gates []gate.Gate) []Layer {
	var layers []Layer
	for _, g := range gates {
		at := 0
		for i := len(layers) - 1; i >= 0; i-- {
			if !layerAccepts(&layers[i], &g) {
				at = i + 1
				break
			}
		}
		if at == len(layers) {
			layers = append(layers, Layer{Gates: []gate.Gate{g}})
		} else {
			layers[at].Gates = append(layers[at].Gates, g)
		}
	}
	return layers
}

func layerAccepts(l *Layer, g *gate.Gate) bool {
	for _, existing := range l.Gates {
		if !disjoint(existing.Targets, g.Targets) {
			return false
		}
	}
	return true
}
