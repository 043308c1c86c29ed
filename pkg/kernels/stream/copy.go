package stream

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Copy: c[i] = a[i].
type Copy struct{ vectors }

func NewCopy(rp *params.RunParams) *Copy {
	k := &Copy{newVectors(suite.Stream_COPY, rp)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *Copy) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.c))
}

func (k *Copy) baseSeq() error {
	a, c := k.a, k.c
	k.Repeat(func() {
		for i := range a {
			c[i] = a[i]
		}
	})
	return nil
}

func (k *Copy) rajaSeq() error {
	a, c := k.a, k.c
	k.Repeat(func() {
		forall.Forall(forall.Simd, 0, len(a), func(i int) { c[i] = a[i] })
	})
	return nil
}

func (k *Copy) baseOpenMP() error {
	a, c := k.a, k.c
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(a), func(lo, hi int) {
			copy(c[lo:hi], a[lo:hi])
		})
	})
	return nil
}

func (k *Copy) rajaLikeOpenMP() error {
	a, c := k.a, k.c
	t := k.Team()
	k.Repeat(func() {
		t.ForEach(0, len(a), func(i int) { c[i] = a[i] })
	})
	return nil
}

func (k *Copy) rajaOpenMP() error {
	a, c := k.a, k.c
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall(p, 0, len(a), func(i int) { c[i] = a[i] })
	})
	return nil
}
