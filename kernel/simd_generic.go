//go:build !amd64 && !arm64

package kernel

// Architectures psi has no batching story for still get a correct,
// unrolled-by-1 (i.e. plain) kernel via the scalar tail loop in
// apply1QBatched.
const maxSIMDWidth = 1
