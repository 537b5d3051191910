package runtime

// Predefined bundles, exactly the table from spec.md §6. Optimal
// returns StructureAwareMT, the most capable combination, mirroring
// libpsi-core's own "pick the best" convenience constructor.
var (
	BasicRT           = Config{ParallelThreshold: defaultParallelThreshold}
	BasicRTMT         = Config{Parallel: true, ParallelThreshold: defaultParallelThreshold}
	BatchedRT         = Config{Batched: true, ParallelThreshold: defaultParallelThreshold}
	BatchedRTMT       = Config{Batched: true, Parallel: true, ParallelThreshold: defaultParallelThreshold}
	SimdRT            = Config{Batched: true, SIMD: true, ParallelThreshold: defaultParallelThreshold}
	SimdRTMT          = Config{Batched: true, SIMD: true, Parallel: true, ParallelThreshold: defaultParallelThreshold}
	StructureAwareRT  = Config{Batched: true, SIMD: true, StructureAware: true, ParallelThreshold: defaultParallelThreshold}
	StructureAwareMT  = Config{Batched: true, SIMD: true, StructureAware: true, Parallel: true, ParallelThreshold: defaultParallelThreshold}
)

// Optimal returns the most capable predefined bundle.
func Optimal() Config {
	return StructureAwareMT
}
