//go:build !cuda

package suite

// cudaEnabled is false in default builds. Compile with -tags cuda on a GPU
// host to expose the GPU variants.
const cudaEnabled = false
