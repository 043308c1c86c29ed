package lcals

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// EOS is the equation-of-state fragment, a seven-point stencil over u.
type EOS struct {
	*kernel.Base
	x, y, z, u []float64
	q, r, t    float64
	variants   map[suite.VariantID]kernel.Body
}

func NewEOS(rp *params.RunParams) *EOS {
	k := &EOS{Base: kernel.NewBase(suite.Lcals_EOS, rp, 100000, 5000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *EOS) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.x = kernel.InitDataConst(n, 0)
	k.y = kernel.InitData(n, 1)
	k.z = kernel.InitData(n, 2)
	k.u = kernel.InitData(n+7, 3)
	k.q, k.r, k.t = 0.5, 0.5, 0.5
}

func (k *EOS) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *EOS) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.x))
}

func (k *EOS) TearDown(vid suite.VariantID) { k.x, k.y, k.z, k.u = nil, nil, nil, nil }

func (k *EOS) body(i int) {
	u, q, r, t := k.u, k.q, k.r, k.t
	k.x[i] = u[i] + r*(k.z[i]+r*k.y[i]) +
		t*(u[i+3]+r*(u[i+2]+r*u[i+1])+
			t*(u[i+6]+q*(u[i+5]+q*u[i+4])))
}

func (k *EOS) baseSeq() error {
	x, y, z, u := k.x, k.y, k.z, k.u
	q, r, t := k.q, k.r, k.t
	k.Repeat(func() {
		for i := range x {
			x[i] = u[i] + r*(z[i]+r*y[i]) +
				t*(u[i+3]+r*(u[i+2]+r*u[i+1])+
					t*(u[i+6]+q*(u[i+5]+q*u[i+4])))
		}
	})
	return nil
}

func (k *EOS) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(forall.Simd, 0, n, k.body) })
	return nil
}

func (k *EOS) baseOpenMP() error {
	tm := k.Team()
	k.Repeat(func() {
		tm.ParallelFor(0, len(k.x), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.body(i)
			}
		})
	})
	return nil
}

func (k *EOS) rajaLikeOpenMP() error {
	tm := k.Team()
	n := k.RunSize()
	k.Repeat(func() { tm.ForEach(0, n, k.body) })
	return nil
}

func (k *EOS) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(p, 0, n, k.body) })
	return nil
}
