package stream

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Dot accumulates the inner product of a and b once per repetition.
// There is no RAJALike_OpenMP body.
type Dot struct {
	*kernel.Base
	a, b     []float64
	dot      float64
	dotInit  float64
	variants map[suite.VariantID]kernel.Body
}

func NewDot(rp *params.RunParams) *Dot {
	k := &Dot{Base: kernel.NewBase(suite.Stream_DOT, rp, 1000000, 1000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Dot) SetUp(vid suite.VariantID) {
	k.a = kernel.InitData(k.RunSize(), 0)
	k.b = kernel.InitData(k.RunSize(), 1)
	k.dot = 0
	k.dotInit = 0
}

func (k *Dot) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Dot) UpdateChecksum(vid suite.VariantID) { k.AddChecksum(vid, k.dot) }

func (k *Dot) TearDown(vid suite.VariantID) { k.a, k.b = nil, nil }

func (k *Dot) baseSeq() error {
	a, b := k.a, k.b
	k.Repeat(func() {
		dot := k.dotInit
		for i := range a {
			dot += a[i] * b[i]
		}
		k.dot += dot
	})
	return nil
}

func (k *Dot) rajaSeq() error {
	a, b := k.a, k.b
	k.Repeat(func() {
		k.dot += forall.Sum(forall.Simd, 0, len(a), k.dotInit, func(i int) float64 {
			return a[i] * b[i]
		})
	})
	return nil
}

func (k *Dot) baseOpenMP() error {
	a, b := k.a, k.b
	t := k.Team()
	k.Repeat(func() {
		k.dot += t.ReduceSum(0, len(a), k.dotInit, func(lo, hi int) float64 {
			dot := 0.0
			for i := lo; i < hi; i++ {
				dot += a[i] * b[i]
			}
			return dot
		})
	})
	return nil
}

func (k *Dot) rajaOpenMP() error {
	a, b := k.a, k.b
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		k.dot += forall.Sum(p, 0, len(a), k.dotInit, func(i int) float64 {
			return a[i] * b[i]
		})
	})
	return nil
}
