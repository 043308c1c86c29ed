//go:build noparallel

package suite

const parallelEnabled = false
