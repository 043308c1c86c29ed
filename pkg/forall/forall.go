// Package forall is the portable loop abstraction used by the RAJA_*
// variants. A kernel body is written once as a per-index closure and an
// execution Policy decides how the index space is traversed.
package forall

import (
	"github.com/justin-oleary/perfsuite/pkg/team"
)

// Policy is an execution strategy for an index range.
type Policy interface {
	Name() string
	chunks(n int) int
	run(begin, end int, fn func(chunk, lo, hi int))
}

type seqExec struct{}

func (seqExec) Name() string { return "seq_exec" }

func (seqExec) chunks(n int) int {
	if n <= 0 {
		return 0
	}
	return 1
}

func (seqExec) run(begin, end int, fn func(chunk, lo, hi int)) {
	if end > begin {
		fn(0, begin, end)
	}
}

// simdExec traverses sequentially. It exists so simd-annotated loops keep
// their own policy name in reports; the Go compiler does its own
// vectorization.
type simdExec struct{ seqExec }

func (simdExec) Name() string { return "simd_exec" }

type parallelExec struct{ t *team.Team }

func (p parallelExec) Name() string     { return "parallel_for_exec" }
func (p parallelExec) chunks(n int) int { return p.t.Chunks(n) }

func (p parallelExec) run(begin, end int, fn func(chunk, lo, hi int)) {
	p.t.Run(begin, end, fn)
}

var (
	// Seq runs the loop in index order on the calling goroutine.
	Seq Policy = seqExec{}
	// Simd is Seq under a separate name.
	Simd Policy = simdExec{}
)

// Parallel distributes the loop over t.
func Parallel(t *team.Team) Policy { return parallelExec{t: t} }

// Forall calls body for every i in [begin, end) under p.
func Forall(p Policy, begin, end int, body func(i int)) {
	p.run(begin, end, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			body(i)
		}
	})
}

// Forall2 runs a rectangular two-level loop nest. The outer index is
// distributed by p; the inner loop always runs in order.
func Forall2(p Policy, outer, inner int, body func(i, j int)) {
	p.run(0, outer, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < inner; j++ {
				body(i, j)
			}
		}
	})
}

// Reduce folds body over [begin, end) with one accumulator per chunk, then
// combines the chunk results in chunk order starting from init.
func Reduce[T any](p Policy, begin, end int, init, identity T, body func(acc T, i int) T, combine func(a, b T) T) T {
	partial := make([]T, p.chunks(end-begin))
	p.run(begin, end, func(c, lo, hi int) {
		acc := identity
		for i := lo; i < hi; i++ {
			acc = body(acc, i)
		}
		partial[c] = acc
	})
	out := init
	for _, v := range partial {
		out = combine(out, v)
	}
	return out
}

// Sum reduces body with +.
func Sum(p Policy, begin, end int, init float64, body func(i int) float64) float64 {
	return Reduce(p, begin, end, init, 0,
		func(acc float64, i int) float64 { return acc + body(i) },
		func(a, b float64) float64 { return a + b })
}
