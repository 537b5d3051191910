//go:build amd64

package kernel

// On amd64 the batched backend may unroll as wide as AVX-512's 8 lanes;
// cpufeat.Detect narrows this down to 4 (AVX2+FMA) or 1 (Scalar) when
// the host lacks wider support.
const maxSIMDWidth = 8
