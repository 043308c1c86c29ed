package stream

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Triad: a[i] = b[i] + alpha * c[i]. The c input is seeded in SetUp.
type Triad struct{ vectors }

func NewTriad(rp *params.RunParams) *Triad {
	k := &Triad{newVectors(suite.Stream_TRIAD, rp)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Triad) SetUp(vid suite.VariantID) {
	k.vectors.SetUp(vid)
	k.c = kernel.InitData(len(k.c), 2)
}

func (k *Triad) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.a))
}

func (k *Triad) baseSeq() error {
	a, b, c := k.a, k.b, k.c
	k.Repeat(func() {
		for i := range a {
			a[i] = b[i] + alpha*c[i]
		}
	})
	return nil
}

func (k *Triad) rajaSeq() error {
	a, b, c := k.a, k.b, k.c
	k.Repeat(func() {
		forall.Forall(forall.Simd, 0, len(a), func(i int) { a[i] = b[i] + alpha*c[i] })
	})
	return nil
}

func (k *Triad) baseOpenMP() error {
	a, b, c := k.a, k.b, k.c
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(a), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				a[i] = b[i] + alpha*c[i]
			}
		})
	})
	return nil
}

func (k *Triad) rajaOpenMP() error {
	a, b, c := k.a, k.b, k.c
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall(p, 0, len(a), func(i int) { a[i] = b[i] + alpha*c[i] })
	})
	return nil
}
