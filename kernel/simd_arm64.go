//go:build arm64

package kernel

// On arm64 the batched backend unrolls by NEON's 2 lanes; there is no
// wider vector unit to grow into.
const maxSIMDWidth = 2
