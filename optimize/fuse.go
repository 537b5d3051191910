package optimize

import (
	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/maths"
)

const maxMultiPassIterations = 8

// MultiPassFuse re-runs Batch plus adjacent same-wire-pair 2Qx2Q fusion
// until a full pass makes no change or maxMultiPassIterations elapse.
// Grounded on StructureAwareKernelBatch::multi_pass_fusion.
func MultiPassFuse(n int, gates []gate.Gate) ([]gate.Gate, error) {
	cur := gates
	for i := 0; i < maxMultiPassIterations; i++ {
		batched, err := Batch(n, cur)
		if err != nil {
			return nil, err
		}
		fused := fuse2Q(batched)
		if sameLength(fused, cur) && sameKinds(fused, cur) {
			return fused, nil
		}
		cur = fused
	}
	return cur, nil
}

// fuse2Q merges adjacent two-qubit gates that act on exactly the same
// (ordered) wire pair into one Fused 4x4 gate.
func fuse2Q(gates []gate.Gate) []gate.Gate {
	out := make([]gate.Gate, 0, len(gates))
	i := 0
	for i < len(gates) {
		g := gates[i]
		if i+1 < len(gates) && len(g.Targets) == 2 && samePair(g.Targets, gates[i+1].Targets) {
			next := gates[i+1]
			m1 := matrixOrNil(&g)
			m2 := matrixOrNil(&next)
			if m1 != nil && m2 != nil {
				fused := m2.Mul(m1)
				out = append(out, gate.Gate{Kind: gate.Fused, Targets: append([]int(nil), g.Targets...), Matrix: fused, Name: "fused2q"})
				i += 2
				continue
			}
		}
		out = append(out, g)
		i++
	}
	return out
}

func matrixOrNil(g *gate.Gate) *maths.Matrix {
	if g.Matrix != nil {
		return g.Matrix
	}
	m, err := gate.Lower(g, maxTarget(g.Targets)+1)
	if err != nil {
		return nil
	}
	return m
}

func maxTarget(targets []int) int {
	max := 0
	for _, t := range targets {
		if t > max {
			max = t
		}
	}
	return max
}

func samePair(a, b []int) bool {
	return len(a) == 2 && len(b) == 2 && a[0] == b[0] && a[1] == b[1]
}

func sameLength(a, b []gate.Gate) bool { return len(a) == len(b) }

func sameKinds(a, b []gate.Gate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			return false
		}
		if len(a[i].Targets) != len(b[i].Targets) {
			return false
		}
		for j := range a[i].Targets {
			if a[i].Targets[j] != b[i].Targets[j] {
				return false
			}
		}
	}
	return true
}
