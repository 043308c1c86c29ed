package stream

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Add: c[i] = a[i] + b[i].
type Add struct{ vectors }

func NewAdd(rp *params.RunParams) *Add {
	k := &Add{newVectors(suite.Stream_ADD, rp)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Add) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.c))
}

func (k *Add) baseSeq() error {
	a, b, c := k.a, k.b, k.c
	k.Repeat(func() {
		for i := range c {
			c[i] = a[i] + b[i]
		}
	})
	return nil
}

func (k *Add) rajaSeq() error {
	a, b, c := k.a, k.b, k.c
	k.Repeat(func() {
		forall.Forall(forall.Simd, 0, len(c), func(i int) { c[i] = a[i] + b[i] })
	})
	return nil
}

func (k *Add) baseOpenMP() error {
	a, b, c := k.a, k.b, k.c
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(c), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				c[i] = a[i] + b[i]
			}
		})
	})
	return nil
}

func (k *Add) rajaOpenMP() error {
	a, b, c := k.a, k.b, k.c
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall(p, 0, len(c), func(i int) { c[i] = a[i] + b[i] })
	})
	return nil
}
