// Package runtime provides the composable dispatcher that selects
// which optimiser passes run and which kernel backend applies each
// gate. It operates on plain gate lists and state vectors rather than
// on *circuit.Circuit, so that circuit can depend on runtime without a
// cycle; circuit.Circuit.Execute is the user-facing entry point that
// calls into Config.Run.
package runtime

import (
	"github.com/le-hachem/psi/gate"
	"github.com/le-hachem/psi/kernel"
	"github.com/le-hachem/psi/maths"
	"github.com/le-hachem/psi/optimize"
)

// defaultParallelThreshold is the qubit count at or above which
// Parallel kernels activate.
const defaultParallelThreshold = 8

// Config is the composable runtime configuration: which optimiser
// passes run and which kernel backend applies each gate. Grounded on
// libpsi-core/src/core/runtime.rs's RuntimeConfig.
type Config struct {
	Batched           bool
	SIMD              bool
	StructureAware    bool
	Parallel          bool
	ParallelThreshold int
}

// Custom returns a Config with every flag off and the default parallel
// threshold, for incremental configuration,
// mirroring Runtime::custom()/RuntimeConfig::new() in the original.
func Custom() Config {
	return Config{ParallelThreshold: defaultParallelThreshold}
}

// WithBatched, WithSIMD, WithStructureAware, WithParallel, and
// WithParallelThreshold return a copy of c with the named field set,
// for fluent incremental configuration starting from Custom().
func (c Config) WithBatched(v bool) Config        { c.Batched = v; return c }
func (c Config) WithSIMD(v bool) Config           { c.SIMD = v; return c }
func (c Config) WithStructureAware(v bool) Config { c.StructureAware = v; return c }
func (c Config) WithParallel(v bool) Config       { c.Parallel = v; return c }
func (c Config) WithParallelThreshold(v int) Config {
	c.ParallelThreshold = v
	return c
}

func (c Config) threshold() int {
	if c.ParallelThreshold > 0 {
		return c.ParallelThreshold
	}
	return defaultParallelThreshold
}

// backend picks the concrete kernel.Backend for this configuration and
// a given qubit count.
func (c Config) backend(n int) kernel.Backend {
	var b kernel.Backend
	if c.SIMD {
		b = kernel.NewSIMDBackend()
	} else {
		b = kernel.ScalarBackend{}
	}
	if c.Parallel && n >= c.threshold() {
		b = kernel.NewParallelBackend(b)
	}
	return b
}

// Run executes gates against a freshly reset n-qubit |0...0> state,
// applying the configured optimiser passes first, and returns the
// final amplitude vector. structure_aware implies batched at execute
// time, forced on rather than merely documented, per the
// specification.
func (c Config) Run(n int, gates []gate.Gate) ([]complex128, error) {
	batched := c.Batched || c.StructureAware

	work := append([]gate.Gate(nil), gates...)
	var err error
	if batched {
		work, err = optimize.Batch(n, work)
		if err != nil {
			return nil, err
		}
	}
	if c.StructureAware {
		work, err = optimize.ClassifyStructure(n, work)
		if err != nil {
			return nil, err
		}
		work = optimize.Reorder(n, work)
		work, err = optimize.MultiPassFuse(n, work)
		if err != nil {
			return nil, err
		}
		work, err = optimize.ClassifyStructure(n, work)
		if err != nil {
			return nil, err
		}
	}

	dim := 1 << n
	state := make([]complex128, dim)
	state[0] = 1

	b := c.backend(n)

	if c.Parallel {
		for _, layer := range optimize.LayerGates(work) {
			for _, g := range layer.Gates {
				if err := applyGate(b, state, &g, n); err != nil {
					return nil, err
				}
			}
		}
		return state, nil
	}

	for _, g := range work {
		if err := applyGate(b, state, &g, n); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func applyGate(b kernel.Backend, state []complex128, g *gate.Gate, n int) error {
	m, err := lowerCached(g, n)
	if err != nil {
		return err
	}
	kernel.Apply(b, state, m, g, n)
	return nil
}

func lowerCached(g *gate.Gate, n int) (*maths.Matrix, error) {
	if g.Matrix != nil {
		return g.Matrix, nil
	}
	return gate.Lower(g, n)
}
