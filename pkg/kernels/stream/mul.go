package stream

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Mul: b[i] = alpha * c[i]. The c input is seeded from a in SetUp.
type Mul struct{ vectors }

func NewMul(rp *params.RunParams) *Mul {
	k := &Mul{newVectors(suite.Stream_MUL, rp)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Mul) SetUp(vid suite.VariantID) {
	k.vectors.SetUp(vid)
	copy(k.c, k.a)
}

func (k *Mul) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.b))
}

func (k *Mul) baseSeq() error {
	b, c := k.b, k.c
	k.Repeat(func() {
		for i := range c {
			b[i] = alpha * c[i]
		}
	})
	return nil
}

func (k *Mul) rajaSeq() error {
	b, c := k.b, k.c
	k.Repeat(func() {
		forall.Forall(forall.Simd, 0, len(c), func(i int) { b[i] = alpha * c[i] })
	})
	return nil
}

func (k *Mul) baseOpenMP() error {
	b, c := k.b, k.c
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(c), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				b[i] = alpha * c[i]
			}
		})
	})
	return nil
}

func (k *Mul) rajaOpenMP() error {
	b, c := k.b, k.c
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall(p, 0, len(c), func(i int) { b[i] = alpha * c[i] })
	})
	return nil
}
