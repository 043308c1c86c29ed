//go:build cuda

package suite

// cudaEnabled turns on the GPU variants. Kernels without a device body
// report them as not applicable.
const cudaEnabled = true
