package basic

import (
	"math"

	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// IfQuad solves a*x^2 + b*x + c = 0 per element, writing zero roots when
// the discriminant is negative.
type IfQuad struct {
	*kernel.Base
	a, b, c  []float64
	x1, x2   []float64
	variants map[suite.VariantID]kernel.Body
}

func NewIfQuad(rp *params.RunParams) *IfQuad {
	k := &IfQuad{Base: kernel.NewBase(suite.Basic_IF_QUAD, rp, 100000, 1800)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *IfQuad) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.a = kernel.InitDataRandSign(n, 0)
	k.b = kernel.InitData(n, 1)
	k.c = kernel.InitDataRandSign(n, 2)
	k.x1 = kernel.InitDataConst(n, 0)
	k.x2 = kernel.InitDataConst(n, 0)
}

func (k *IfQuad) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *IfQuad) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.x1)+kernel.CalcChecksum(k.x2))
}

func (k *IfQuad) TearDown(vid suite.VariantID) {
	k.a, k.b, k.c, k.x1, k.x2 = nil, nil, nil, nil, nil
}

func (k *IfQuad) body(i int) {
	s := k.b[i]*k.b[i] - 4.0*k.a[i]*k.c[i]
	if s >= 0 {
		s = math.Sqrt(s)
		k.x2[i] = (-k.b[i] + s) / (2.0 * k.a[i])
		k.x1[i] = (-k.b[i] - s) / (2.0 * k.a[i])
	} else {
		k.x2[i] = 0
		k.x1[i] = 0
	}
}

func (k *IfQuad) baseSeq() error {
	a, b, c, x1, x2 := k.a, k.b, k.c, k.x1, k.x2
	k.Repeat(func() {
		for i := range a {
			s := b[i]*b[i] - 4.0*a[i]*c[i]
			if s >= 0 {
				s = math.Sqrt(s)
				x2[i] = (-b[i] + s) / (2.0 * a[i])
				x1[i] = (-b[i] - s) / (2.0 * a[i])
			} else {
				x2[i] = 0
				x1[i] = 0
			}
		}
	})
	return nil
}

func (k *IfQuad) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(forall.Seq, 0, n, k.body) })
	return nil
}

func (k *IfQuad) baseOpenMP() error {
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(k.a), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.body(i)
			}
		})
	})
	return nil
}

func (k *IfQuad) rajaLikeOpenMP() error {
	t := k.Team()
	n := k.RunSize()
	k.Repeat(func() { t.ForEach(0, n, k.body) })
	return nil
}

func (k *IfQuad) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(p, 0, n, k.body) })
	return nil
}
