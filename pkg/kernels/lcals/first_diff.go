package lcals

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// FirstDiff computes x[i] = y[i+1] - y[i].
type FirstDiff struct {
	*kernel.Base
	x, y     []float64
	variants map[suite.VariantID]kernel.Body
}

func NewFirstDiff(rp *params.RunParams) *FirstDiff {
	k := &FirstDiff{Base: kernel.NewBase(suite.Lcals_FIRST_DIFF, rp, 100000, 16000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *FirstDiff) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.x = kernel.InitDataConst(n, 0)
	k.y = kernel.InitData(n+1, 1)
}

func (k *FirstDiff) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *FirstDiff) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.x))
}

func (k *FirstDiff) TearDown(vid suite.VariantID) { k.x, k.y = nil, nil }

func (k *FirstDiff) baseSeq() error {
	x, y := k.x, k.y
	k.Repeat(func() {
		for i := range x {
			x[i] = y[i+1] - y[i]
		}
	})
	return nil
}

func (k *FirstDiff) rajaSeq() error {
	x, y := k.x, k.y
	k.Repeat(func() {
		forall.Forall(forall.Simd, 0, len(x), func(i int) { x[i] = y[i+1] - y[i] })
	})
	return nil
}

func (k *FirstDiff) baseOpenMP() error {
	x, y := k.x, k.y
	tm := k.Team()
	k.Repeat(func() {
		tm.ParallelFor(0, len(x), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				x[i] = y[i+1] - y[i]
			}
		})
	})
	return nil
}

func (k *FirstDiff) rajaOpenMP() error {
	x, y := k.x, k.y
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall(p, 0, len(x), func(i int) { x[i] = y[i+1] - y[i] })
	})
	return nil
}
