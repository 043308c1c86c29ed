package basic

import (
	"math"

	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// minMaxSum is the combined state of the three Reduce3Int reductions.
type minMaxSum struct {
	sum, min, max int
}

func (a minMaxSum) combine(b minMaxSum) minMaxSum {
	return minMaxSum{sum: a.sum + b.sum, min: min(a.min, b.min), max: max(a.max, b.max)}
}

var reduceIdentity = minMaxSum{sum: 0, min: math.MaxInt, max: math.MinInt}

// Reduce3Int computes the sum, minimum and maximum of an integer vector in
// a single pass.
type Reduce3Int struct {
	*kernel.Base
	vec              []int
	vsum, vmin, vmax int
	init             minMaxSum
	variants         map[suite.VariantID]kernel.Body
}

func NewReduce3Int(rp *params.RunParams) *Reduce3Int {
	k := &Reduce3Int{Base: kernel.NewBase(suite.Basic_REDUCE3_INT, rp, 1000000, 1000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Reduce3Int) SetUp(vid suite.VariantID) {
	k.vec = kernel.InitDataInt(k.RunSize(), 0)
	k.init = minMaxSum{sum: 0, min: math.MaxInt32, max: math.MinInt32}
	k.vsum, k.vmin, k.vmax = k.init.sum, k.init.min, k.init.max
}

func (k *Reduce3Int) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Reduce3Int) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, float64(k.vsum)+float64(k.vmin)+float64(k.vmax))
}

func (k *Reduce3Int) TearDown(vid suite.VariantID) { k.vec = nil }

func (k *Reduce3Int) accumulate(r minMaxSum) {
	k.vsum += r.sum
	k.vmin = min(k.vmin, r.min)
	k.vmax = max(k.vmax, r.max)
}

func (k *Reduce3Int) baseSeq() error {
	vec := k.vec
	k.Repeat(func() {
		r := k.init
		for _, v := range vec {
			r.sum += v
			r.min = min(r.min, v)
			r.max = max(r.max, v)
		}
		k.accumulate(r)
	})
	return nil
}

func (k *Reduce3Int) step(acc minMaxSum, i int) minMaxSum {
	v := k.vec[i]
	return minMaxSum{sum: acc.sum + v, min: min(acc.min, v), max: max(acc.max, v)}
}

func (k *Reduce3Int) rajaSeq() error {
	n := len(k.vec)
	k.Repeat(func() {
		k.accumulate(forall.Reduce(forall.Seq, 0, n, k.init, reduceIdentity, k.step, minMaxSum.combine))
	})
	return nil
}

func (k *Reduce3Int) baseOpenMP() error {
	vec := k.vec
	t := k.Team()
	partial := make([]minMaxSum, t.Chunks(len(vec)))
	k.Repeat(func() {
		t.Run(0, len(vec), func(c, lo, hi int) {
			r := reduceIdentity
			for _, v := range vec[lo:hi] {
				r.sum += v
				r.min = min(r.min, v)
				r.max = max(r.max, v)
			}
			partial[c] = r
		})
		r := k.init
		for _, p := range partial {
			r = r.combine(p)
		}
		k.accumulate(r)
	})
	return nil
}

func (k *Reduce3Int) rajaOpenMP() error {
	n := len(k.vec)
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		k.accumulate(forall.Reduce(p, 0, n, k.init, reduceIdentity, k.step, minMaxSum.combine))
	})
	return nil
}
