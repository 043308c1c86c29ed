// Package team runs loop iterations on a fixed-size group of goroutines.
// It is the thread-parallel backend behind the *_OpenMP variants: every
// call forks the team, splits the iteration space into one contiguous chunk
// per worker, and joins before returning.
package team

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Team is a fixed worker count. The zero value is not usable; use New.
type Team struct {
	workers int
}

// New returns a team of the given size. A size below 1 means GOMAXPROCS.
func New(workers int) *Team {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Team{workers: workers}
}

var (
	defaultOnce sync.Once
	defaultTeam *Team
)

// Default returns the process-wide team sized to GOMAXPROCS at first use.
func Default() *Team {
	defaultOnce.Do(func() { defaultTeam = New(0) })
	return defaultTeam
}

// Size returns the number of workers.
func (t *Team) Size() int { return t.workers }

// Chunks returns how many chunks an iteration space of n elements is split
// into: one per worker, but never more chunks than elements.
func (t *Team) Chunks(n int) int {
	if n <= 0 {
		return 0
	}
	return min(t.workers, n)
}

// bounds returns the half-open range of chunk c out of nc over [begin, end).
func bounds(begin, end, c, nc int) (lo, hi int) {
	n := end - begin
	return begin + c*n/nc, begin + (c+1)*n/nc
}

// Go runs fn once per chunk on its own goroutine and waits for all of them.
// The first non-nil error is returned.
func (t *Team) Go(begin, end int, fn func(chunk, lo, hi int) error) error {
	nc := t.Chunks(end - begin)
	if nc == 0 {
		return nil
	}
	var g errgroup.Group
	for c := 0; c < nc; c++ {
		lo, hi := bounds(begin, end, c, nc)
		g.Go(func() error { return fn(c, lo, hi) })
	}
	return g.Wait()
}

// Run is Go for bodies that cannot fail.
func (t *Team) Run(begin, end int, fn func(chunk, lo, hi int)) {
	_ = t.Go(begin, end, func(chunk, lo, hi int) error {
		fn(chunk, lo, hi)
		return nil
	})
}

// ParallelFor hands each worker a contiguous [lo, hi) slice of [begin, end).
func (t *Team) ParallelFor(begin, end int, body func(lo, hi int)) {
	t.Run(begin, end, func(_, lo, hi int) { body(lo, hi) })
}

// ForEach calls body once per index, distributed across the team.
func (t *Team) ForEach(begin, end int, body func(i int)) {
	t.Run(begin, end, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			body(i)
		}
	})
}

// ReduceSum computes per-chunk partial sums in parallel and adds them in
// chunk order, so a given team size always yields the same result.
func (t *Team) ReduceSum(begin, end int, init float64, body func(lo, hi int) float64) float64 {
	partial := make([]float64, t.Chunks(end-begin))
	t.Run(begin, end, func(c, lo, hi int) {
		partial[c] = body(lo, hi)
	})
	sum := init
	for _, p := range partial {
		sum += p
	}
	return sum
}
