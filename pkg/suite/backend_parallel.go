//go:build !noparallel

package suite

// parallelEnabled turns on the thread-parallel variants. Build with
// -tags noparallel to produce a sequential-only binary.
const parallelEnabled = true
